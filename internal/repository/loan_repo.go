package repository

import (
	"go-equipment-loan/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository interface {
	Create(loan *model.Loan) error
	FindAll() ([]model.Loan, error)
	FindByID(id uuid.UUID) (*model.Loan, error)
	FindByBorrower(borrowerID string) ([]model.Loan, error)
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Loan, error)
	TransitionStatus(tx *gorm.DB, id uuid.UUID, from, to model.LoanStatus, updates map[string]interface{}) (int64, error)
	SumBorrowedQty(equipmentID uuid.UUID) (int, error)
}

type loanRepo struct {
	db *gorm.DB
}

func NewLoanRepo(db *gorm.DB) LoanRepository {
	return &loanRepo{db}
}

func (r *loanRepo) Create(loan *model.Loan) error {
	return r.db.Create(loan).Error
}

func (r *loanRepo) FindAll() ([]model.Loan, error) {
	var loans []model.Loan
	err := r.db.Preload("Equipment").Preload("Borrower").Preload("ApprovedByUser").
		Order("created_at DESC").Find(&loans).Error
	return loans, err
}

func (r *loanRepo) FindByID(id uuid.UUID) (*model.Loan, error) {
	var loan model.Loan
	err := r.db.Preload("Equipment").Preload("Borrower").Preload("ApprovedByUser").
		First(&loan, "id = ?", id).Error
	return &loan, err
}

func (r *loanRepo) FindByBorrower(borrowerID string) ([]model.Loan, error) {
	var loans []model.Loan
	err := r.db.Preload("Equipment").Where("borrower_id = ?", borrowerID).
		Order("created_at DESC").Find(&loans).Error
	return loans, err
}

// LockByID reads the loan row under FOR UPDATE inside the caller's transaction.
// The lock serializes concurrent approvals on Postgres; the status guard in
// TransitionStatus is what actually enforces single-shot transitions.
func (r *loanRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Loan, error) {
	var loan model.Loan
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&loan, "id = ?", id).Error
	return &loan, err
}

// TransitionStatus applies a guarded state transition: the UPDATE only matches
// when the row still holds the expected `from` status. Zero rows affected means
// somebody else finalized the loan first.
func (r *loanRepo) TransitionStatus(tx *gorm.DB, id uuid.UUID, from, to model.LoanStatus, updates map[string]interface{}) (int64, error) {
	values := map[string]interface{}{"status": to}
	for k, v := range updates {
		values[k] = v
	}
	res := tx.Model(&model.Loan{}).
		Where("id = ? AND status = ?", id, from).
		Updates(values)
	return res.RowsAffected, res.Error
}

// SumBorrowedQty returns the units of an equipment currently out on loan
func (r *loanRepo) SumBorrowedQty(equipmentID uuid.UUID) (int, error) {
	var total int
	err := r.db.Model(&model.Loan{}).
		Where("equipment_id = ? AND status = ?", equipmentID, model.LoanBorrowed).
		Select("COALESCE(SUM(jumlah), 0)").
		Scan(&total).Error
	return total, err
}
