package handler

import (
	"errors"

	"go-equipment-loan/internal/model"
	"go-equipment-loan/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type EquipmentHandler struct {
	service service.EquipmentService
}

func NewEquipmentHandler(s service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{service: s}
}

// Helper untuk ambil User Info dari JWT Context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system" // Fallback (shouldn't happen in protected routes)
	}
	return userID.(string)
}

func getUserName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Unknown"
	}
	return userName.(string)
}

// Helper untuk parse UUID dari string
func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// errorStatus maps business-rule errors to HTTP status codes. Conflicts on
// already-final records get 409 so clients can distinguish a stale click
// from a bad request.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrLoanNotFound),
		errors.Is(err, service.ErrReturnNotFound),
		errors.Is(err, service.ErrEquipmentNotFound),
		errors.Is(err, service.ErrCategoryNotFound):
		return 404
	case errors.Is(err, service.ErrAlreadyProcessed),
		errors.Is(err, service.ErrAlreadyPaid):
		return 409
	case errors.Is(err, service.ErrNotLoanOwner):
		return 403
	default:
		return 400
	}
}

func (h *EquipmentHandler) CreateEquipment(c *fiber.Ctx) error {
	var equipment model.Equipment
	if err := c.BodyParser(&equipment); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateEquipment(&equipment, getUserID(c), getUserName(c)); err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Equipment created", "data": equipment})
}

func (h *EquipmentHandler) UpdateEquipment(c *fiber.Ctx) error {
	var equipment model.Equipment
	if err := c.BodyParser(&equipment); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	equipmentID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid equipment ID"})
	}

	updated, err := h.service.UpdateEquipment(equipmentID, &equipment, getUserID(c), getUserName(c))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Equipment updated", "data": updated})
}

func (h *EquipmentHandler) GetEquipment(c *fiber.Ctx) error {
	equipments, err := h.service.GetAllEquipment()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(equipments)
}

func (h *EquipmentHandler) GetEquipmentByID(c *fiber.Ctx) error {
	equipmentID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid equipment ID"})
	}

	equipment, err := h.service.GetEquipmentByID(equipmentID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Equipment not found"})
	}
	return c.JSON(equipment)
}

func (h *EquipmentHandler) CreateCategory(c *fiber.Ctx) error {
	var category model.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateCategory(&category); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Category created", "data": category})
}

func (h *EquipmentHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetAllCategories()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(categories)
}
