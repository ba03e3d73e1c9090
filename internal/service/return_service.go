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

type ReturnService interface {
	RequestReturn(req *RequestReturnInput, borrowerID, borrowerName string) (*model.Return, error)
	ApproveReturn(returnID uuid.UUID, approverID, approverName string) (*model.Return, error)
	PayDenda(returnID uuid.UUID, staffID, staffName string) (*model.Return, error)
	GetAllReturns() ([]model.Return, error)
	GetReturnByID(id uuid.UUID) (*model.Return, error)
	GetReturnsByBorrower(borrowerID string) ([]model.Return, error)
}

// RequestReturnInput is the borrower-facing payload for initiating a return
type RequestReturnInput struct {
	LoanID      uuid.UUID `json:"loan_id" validate:"uuid_required"`
	KondisiAlat string    `json:"kondisi_alat" validate:"required"`
	Catatan     string    `json:"catatan"`
}

type returnService struct {
	returnRepo    repository.ReturnRepository
	loanRepo      repository.LoanRepository
	equipmentRepo repository.EquipmentRepository
	db            *gorm.DB
	wsHub         *ws.Hub
	finePerDay    int64
}

func NewReturnService(rRepo repository.ReturnRepository, lRepo repository.LoanRepository, eRepo repository.EquipmentRepository, db *gorm.DB, hub *ws.Hub, finePerDay int64) ReturnService {
	return &returnService{
		returnRepo:    rRepo,
		loanRepo:      lRepo,
		equipmentRepo: eRepo,
		db:            db,
		wsHub:         hub,
		finePerDay:    finePerDay,
	}
}

// RequestReturn creates a Return in PENDING. The loan stays BORROWED and stock
// stays out of the pool until staff approve, so a borrower cannot free up
// inventory just by clicking "return".
func (s *returnService) RequestReturn(req *RequestReturnInput, borrowerID, borrowerName string) (*model.Return, error) {
	// 1. Validasi Struct Dasar
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Loan harus ada dan milik peminjam ini
	loan, err := s.loanRepo.FindByID(req.LoanID)
	if err != nil {
		return nil, ErrLoanNotFound
	}
	if loan.BorrowerID != borrowerID {
		return nil, ErrNotLoanOwner
	}

	// 3. Only a BORROWED loan can be handed back
	if loan.Status != model.LoanBorrowed {
		return nil, ErrInvalidLoanState
	}

	// 4. One Return per Loan. The unique index on loan_id backs this check
	// against races; here we give the polite error.
	if existing, err := s.returnRepo.FindByLoanID(req.LoanID); err == nil && existing != nil {
		if existing.Status == model.ReturnPending {
			return nil, ErrReturnPending
		}
		return nil, ErrAlreadyProcessed
	}

	ret := &model.Return{
		LoanID:      req.LoanID,
		Status:      model.ReturnPending,
		KondisiAlat: req.KondisiAlat,
		Catatan:     req.Catatan,
	}
	ret.CreatedBy = borrowerID
	ret.UpdatedBy = borrowerID

	if err := s.returnRepo.Create(ret); err != nil {
		return nil, err
	}

	go s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":   "return_update",
		"action": "return_requested",
		"return": map[string]interface{}{
			"id":           ret.ID,
			"loan_id":      ret.LoanID,
			"kondisi_alat": ret.KondisiAlat,
		},
		"user": map[string]interface{}{
			"id":   borrowerID,
			"name": borrowerName,
		},
		"message": fmt.Sprintf("%s requested to return equipment", borrowerName),
	})

	return ret, nil
}

// ApproveReturn finalizes a PENDING return: it assesses the late fee, closes
// the loan and puts the units back in stock, all in one transaction. HariTelat
// and Denda are computed here exactly once and never change afterward except
// for the payment flag.
func (s *returnService) ApproveReturn(returnID uuid.UUID, approverID, approverName string) (*model.Return, error) {
	var approved *model.Return
	var equipmentID uuid.UUID

	err := s.db.Transaction(func(tx *gorm.DB) error {
		ret, err := s.returnRepo.LockByID(tx, returnID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReturnNotFound
			}
			return err
		}
		if ret.Status != model.ReturnPending {
			return ErrAlreadyProcessed
		}

		loan, err := s.loanRepo.LockByID(tx, ret.LoanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLoanNotFound
			}
			return err
		}
		equipmentID = loan.EquipmentID

		now := time.Now()
		kembali := now

		switch loan.Status {
		case model.LoanBorrowed:
			rows, err := s.loanRepo.TransitionStatus(tx, loan.ID, model.LoanBorrowed, model.LoanReturned, map[string]interface{}{
				"tanggal_kembali": now,
				"updated_by":      approverID,
			})
			if err != nil {
				return err
			}
			if rows == 0 {
				return ErrAlreadyProcessed
			}

			rows, err = s.equipmentRepo.ReleaseStock(tx, loan.EquipmentID, loan.Jumlah)
			if err != nil {
				return err
			}
			if rows == 0 {
				return ErrEquipmentNotFound
			}

		case model.LoanReturned:
			// Legacy-inconsistent data: the loan was already closed (partial
			// failure or manual correction). Finalize the Return record only;
			// incrementing stock again here would mint inventory.
			if loan.TanggalKembali != nil {
				kembali = *loan.TanggalKembali
			}

		default:
			// PENDING or REJECTED loans have no units out; refusing beats
			// silently mutating stock
			return ErrInvalidLoanState
		}

		hariTelat := DaysLate(kembali, loan.TanggalDeadline)
		denda := Fine(hariTelat, s.finePerDay)

		rows, err := s.returnRepo.Approve(tx, ret.ID, map[string]interface{}{
			"hari_telat":          hariTelat,
			"denda":               denda,
			"denda_dibayar":       false,
			"tanggal_kembali":     kembali,
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

		ret.Status = model.ReturnApproved
		ret.HariTelat = hariTelat
		ret.Denda = denda
		ret.DendaDibayar = false
		ret.TanggalKembali = &kembali
		ret.ApprovedByUserID = &approverID
		ret.ApprovedAt = &now
		approved = ret
		return nil
	})

	if err != nil {
		return nil, err
	}

	stok, _ := s.equipmentRepo.CurrentStock(equipmentID)
	go s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":   "return_update",
		"action": "return_approved",
		"return": map[string]interface{}{
			"id":         approved.ID,
			"loan_id":    approved.LoanID,
			"hari_telat": approved.HariTelat,
			"denda":      approved.Denda,
			"new_stock":  stok,
		},
		"user": map[string]interface{}{
			"id":   approverID,
			"name": approverName,
		},
		"message": fmt.Sprintf("%s approved a return (%d day(s) late, fine Rp %d)", approverName, approved.HariTelat, approved.Denda),
	})

	return approved, nil
}

// PayDenda records the settlement of an assessed fine
func (s *returnService) PayDenda(returnID uuid.UUID, staffID, staffName string) (*model.Return, error) {
	var paid *model.Return

	err := s.db.Transaction(func(tx *gorm.DB) error {
		ret, err := s.returnRepo.LockByID(tx, returnID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReturnNotFound
			}
			return err
		}

		// A fine exists only once the return has been approved
		if ret.Status != model.ReturnApproved || ret.Denda == 0 {
			return ErrNoFineDue
		}
		if ret.DendaDibayar {
			return ErrAlreadyPaid
		}

		now := time.Now()
		rows, err := s.returnRepo.MarkFinePaid(tx, ret.ID, map[string]interface{}{
			"tanggal_bayar_denda": now,
			"updated_by":          staffID,
		})
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAlreadyPaid
		}

		ret.DendaDibayar = true
		ret.TanggalBayarDenda = &now
		paid = ret
		return nil
	})

	if err != nil {
		return nil, err
	}

	go s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":   "return_update",
		"action": "fine_paid",
		"return": map[string]interface{}{
			"id":      paid.ID,
			"loan_id": paid.LoanID,
			"denda":   paid.Denda,
		},
		"user": map[string]interface{}{
			"id":   staffID,
			"name": staffName,
		},
		"message": fmt.Sprintf("%s recorded a fine payment of Rp %d", staffName, paid.Denda),
	})

	return paid, nil
}

func (s *returnService) GetAllReturns() ([]model.Return, error) {
	return s.returnRepo.FindAll()
}

func (s *returnService) GetReturnByID(id uuid.UUID) (*model.Return, error) {
	return s.returnRepo.FindByID(id)
}

func (s *returnService) GetReturnsByBorrower(borrowerID string) ([]model.Return, error) {
	return s.returnRepo.FindByBorrower(borrowerID)
}
