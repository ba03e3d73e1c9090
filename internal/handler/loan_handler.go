package handler

import (
	"go-equipment-loan/internal/service"

	"github.com/gofiber/fiber/v2"
)

type LoanHandler struct {
	service service.LoanService
}

func NewLoanHandler(s service.LoanService) *LoanHandler {
	return &LoanHandler{service: s}
}

// RequestLoan creates a loan request in PENDING
// POST /api/v1/loans
func (h *LoanHandler) RequestLoan(c *fiber.Ctx) error {
	var req service.RequestLoanInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	loan, err := h.service.RequestLoan(&req, getUserID(c), getUserName(c))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Loan requested", "data": loan})
}

// Approve moves a PENDING loan to BORROWED and decrements stock
// POST /api/v1/loans/:id/approve
func (h *LoanHandler) Approve(c *fiber.Ctx) error {
	loanID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid loan ID"})
	}

	loan, err := h.service.Approve(loanID, getUserID(c), getUserName(c))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Loan approved", "data": loan})
}

// Reject finalizes a PENDING loan without touching stock
// POST /api/v1/loans/:id/reject
func (h *LoanHandler) Reject(c *fiber.Ctx) error {
	loanID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid loan ID"})
	}

	loan, err := h.service.Reject(loanID, getUserID(c), getUserName(c))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Loan rejected", "data": loan})
}

// GetLoans lists all loans (staff view)
// GET /api/v1/loans
func (h *LoanHandler) GetLoans(c *fiber.Ctx) error {
	loans, err := h.service.GetAllLoans()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(loans)
}

// GetMyLoans lists the authenticated borrower's loans
// GET /api/v1/loans/mine
func (h *LoanHandler) GetMyLoans(c *fiber.Ctx) error {
	loans, err := h.service.GetLoansByBorrower(getUserID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(loans)
}

// GetLoan returns a single loan with its relations
// GET /api/v1/loans/:id
func (h *LoanHandler) GetLoan(c *fiber.Ctx) error {
	loanID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid loan ID"})
	}

	loan, err := h.service.GetLoanByID(loanID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Loan not found"})
	}
	return c.JSON(loan)
}
