package service

import (
	"errors"
	"fmt"
	"time"

	"go-equipment-loan/internal/model"
	"go-equipment-loan/internal/repository"
	"go-equipment-loan/internal/ws"
	"go-equipment-loan/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoanService interface {
	RequestLoan(req *RequestLoanInput, borrowerID, borrowerName string) (*model.Loan, error)
	Approve(loanID uuid.UUID, approverID, approverName string) (*model.Loan, error)
	Reject(loanID uuid.UUID, approverID, approverName string) (*model.Loan, error)
	GetAllLoans() ([]model.Loan, error)
	GetLoanByID(id uuid.UUID) (*model.Loan, error)
	GetLoansByBorrower(borrowerID string) ([]model.Loan, error)
}

// RequestLoanInput is the borrower-facing payload for a new loan request
type RequestLoanInput struct {
	EquipmentID     uuid.UUID `json:"equipment_id" validate:"uuid_required"`
	Jumlah          int       `json:"jumlah" validate:"required,gte=1"`
	TanggalDeadline string    `json:"tanggal_deadline" validate:"required"` // Format: YYYY-MM-DD
	Keperluan       string    `json:"keperluan"`
}

type loanService struct {
	loanRepo      repository.LoanRepository
	equipmentRepo repository.EquipmentRepository
	db            *gorm.DB
	wsHub         *ws.Hub
}

func NewLoanService(lRepo repository.LoanRepository, eRepo repository.EquipmentRepository, db *gorm.DB, hub *ws.Hub) LoanService {
	return &loanService{
		loanRepo:      lRepo,
		equipmentRepo: eRepo,
		db:            db,
		wsHub:         hub,
	}
}

// RequestLoan creates a Loan in PENDING. It deliberately does NOT touch stock:
// a pending request is not a claim, availability is re-checked at approval time.
func (s *loanService) RequestLoan(req *RequestLoanInput, borrowerID, borrowerName string) (*model.Loan, error) {
	// 1. Validasi Struct Dasar
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Equipment harus ada
	if _, err := s.equipmentRepo.FindByID(req.EquipmentID); err != nil {
		return nil, ErrEquipmentNotFound
	}

	// 3. Parse deadline, must fall strictly after the loan date (today).
	// Parsed in the server's zone so the stored instant reads as the same
	// calendar day the borrower typed.
	deadline, err := time.ParseInLocation("2006-01-02", req.TanggalDeadline, time.Local)
	if err != nil {
		return nil, errors.New("invalid tanggal_deadline format, use YYYY-MM-DD")
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if !deadline.After(today) {
		return nil, ErrInvalidDeadline
	}

	// 4. Simpan ke Database
	loan := &model.Loan{
		EquipmentID:     req.EquipmentID,
		BorrowerID:      borrowerID,
		Jumlah:          req.Jumlah,
		Status:          model.LoanPending,
		Keperluan:       req.Keperluan,
		TanggalPinjam:   now,
		TanggalDeadline: deadline,
	}
	loan.CreatedBy = borrowerID
	loan.UpdatedBy = borrowerID

	if err := s.loanRepo.Create(loan); err != nil {
		return nil, err
	}

	// 5. Broadcast ke WebSocket agar petugas melihat antrian baru
	go s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":   "loan_update",
		"action": "loan_requested",
		"loan": map[string]interface{}{
			"id":           loan.ID,
			"equipment_id": loan.EquipmentID,
			"jumlah":       loan.Jumlah,
			"deadline":     loan.TanggalDeadline.Format("2006-01-02"),
		},
		"user": map[string]interface{}{
			"id":   borrowerID,
			"name": borrowerName,
		},
		"message": fmt.Sprintf("%s requested %d unit(s)", borrowerName, loan.Jumlah),
	})

	return loan, nil
}

// Approve moves a PENDING loan to BORROWED and claims its stock. The stock
// check-and-decrement and the status transition run in one transaction: either
// both commit or neither does, so a concurrent approval on the same equipment
// can never oversell and a duplicate approval of the same loan fails cleanly.
func (s *loanService) Approve(loanID uuid.UUID, approverID, approverName string) (*model.Loan, error) {
	var approved *model.Loan

	err := s.db.Transaction(func(tx *gorm.DB) error {
		loan, err := s.loanRepo.LockByID(tx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLoanNotFound
			}
			return err
		}
		if loan.Status != model.LoanPending {
			return ErrAlreadyProcessed
		}

		// Conditional decrement: UPDATE ... WHERE stok >= jumlah. Zero rows
		// means the precondition failed, nothing was written.
		rows, err := s.equipmentRepo.ReserveStock(tx, loan.EquipmentID, loan.Jumlah)
		if err != nil {
			return err
		}
		if rows == 0 {
			exists, err := s.equipmentRepo.ExistsTx(tx, loan.EquipmentID)
			if err != nil {
				return err
			}
			if !exists {
				return ErrEquipmentNotFound
			}
			return ErrInsufficientStock
		}

		now := time.Now()
		rows, err = s.loanRepo.TransitionStatus(tx, loan.ID, model.LoanPending, model.LoanBorrowed, map[string]interface{}{
			"approved_by_user_id": approverID,
			"approved_at":         now,
			"updated_by":          approverID,
		})
		if err != nil {
			return err
		}
		if rows == 0 {
			// Lost the race; rolling back also undoes the stock decrement
			return ErrAlreadyProcessed
		}

		loan.Status = model.LoanBorrowed
		loan.ApprovedByUserID = &approverID
		loan.ApprovedAt = &now
		approved = loan
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.broadcastLoanEvent("loan_approved", approved, approverID, approverName,
		fmt.Sprintf("%s approved a loan of %d unit(s)", approverName, approved.Jumlah))

	return approved, nil
}

// Reject finalizes a PENDING loan without any stock effect
func (s *loanService) Reject(loanID uuid.UUID, approverID, approverName string) (*model.Loan, error) {
	var rejected *model.Loan

	err := s.db.Transaction(func(tx *gorm.DB) error {
		loan, err := s.loanRepo.LockByID(tx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLoanNotFound
			}
			return err
		}
		if loan.Status != model.LoanPending {
			return ErrAlreadyProcessed
		}

		now := time.Now()
		rows, err := s.loanRepo.TransitionStatus(tx, loan.ID, model.LoanPending, model.LoanRejected, map[string]interface{}{
			"approved_by_user_id": approverID,
			"approved_at":         now,
			"updated_by":          approverID,
		})
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAlreadyProcessed
		}

		loan.Status = model.LoanRejected
		loan.ApprovedByUserID = &approverID
		loan.ApprovedAt = &now
		rejected = loan
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.broadcastLoanEvent("loan_rejected", rejected, approverID, approverName,
		fmt.Sprintf("%s rejected a loan request", approverName))

	return rejected, nil
}

func (s *loanService) broadcastLoanEvent(action string, loan *model.Loan, userID, userName, message string) {
	stok, _ := s.equipmentRepo.CurrentStock(loan.EquipmentID)
	go s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":   "loan_update",
		"action": action,
		"loan": map[string]interface{}{
			"id":           loan.ID,
			"equipment_id": loan.EquipmentID,
			"jumlah":       loan.Jumlah,
			"status":       loan.Status,
			"new_stock":    stok,
		},
		"user": map[string]interface{}{
			"id":   userID,
			"name": userName,
		},
		"message": message,
	})
}

func (s *loanService) GetAllLoans() ([]model.Loan, error) {
	return s.loanRepo.FindAll()
}

func (s *loanService) GetLoanByID(id uuid.UUID) (*model.Loan, error) {
	return s.loanRepo.FindByID(id)
}

func (s *loanService) GetLoansByBorrower(borrowerID string) ([]model.Loan, error) {
	return s.loanRepo.FindByBorrower(borrowerID)
}
