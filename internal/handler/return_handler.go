package handler

import (
	"go-equipment-loan/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReturnHandler struct {
	service service.ReturnService
}

func NewReturnHandler(s service.ReturnService) *ReturnHandler {
	return &ReturnHandler{service: s}
}

// RequestReturn creates a return request in PENDING; the loan stays BORROWED
// POST /api/v1/returns
func (h *ReturnHandler) RequestReturn(c *fiber.Ctx) error {
	var req service.RequestReturnInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	ret, err := h.service.RequestReturn(&req, getUserID(c), getUserName(c))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Return requested", "data": ret})
}

// ApproveReturn finalizes the return, assesses the fine and restores stock
// POST /api/v1/returns/:id/approve
func (h *ReturnHandler) ApproveReturn(c *fiber.Ctx) error {
	returnID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid return ID"})
	}

	ret, err := h.service.ApproveReturn(returnID, getUserID(c), getUserName(c))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Return approved", "data": ret})
}

// PayDenda records payment of an assessed late fee
// POST /api/v1/returns/:id/pay
func (h *ReturnHandler) PayDenda(c *fiber.Ctx) error {
	returnID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid return ID"})
	}

	ret, err := h.service.PayDenda(returnID, getUserID(c), getUserName(c))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Fine payment recorded", "data": ret})
}

// GetReturns lists all returns (staff view)
// GET /api/v1/returns
func (h *ReturnHandler) GetReturns(c *fiber.Ctx) error {
	returns, err := h.service.GetAllReturns()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(returns)
}

// GetMyReturns lists the authenticated borrower's returns
// GET /api/v1/returns/mine
func (h *ReturnHandler) GetMyReturns(c *fiber.Ctx) error {
	returns, err := h.service.GetReturnsByBorrower(getUserID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(returns)
}

// GetReturn returns a single return record with its loan
// GET /api/v1/returns/:id
func (h *ReturnHandler) GetReturn(c *fiber.Ctx) error {
	returnID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid return ID"})
	}

	ret, err := h.service.GetReturnByID(returnID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Return not found"})
	}
	return c.JSON(ret)
}
