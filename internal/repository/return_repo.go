package repository

import (
	"go-equipment-loan/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReturnRepository interface {
	Create(ret *model.Return) error
	FindAll() ([]model.Return, error)
	FindByID(id uuid.UUID) (*model.Return, error)
	FindByLoanID(loanID uuid.UUID) (*model.Return, error)
	FindByBorrower(borrowerID string) ([]model.Return, error)
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Return, error)
	Approve(tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) (int64, error)
	MarkFinePaid(tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) (int64, error)
}

type returnRepo struct {
	db *gorm.DB
}

func NewReturnRepo(db *gorm.DB) ReturnRepository {
	return &returnRepo{db}
}

func (r *returnRepo) Create(ret *model.Return) error {
	return r.db.Create(ret).Error
}

func (r *returnRepo) FindAll() ([]model.Return, error) {
	var returns []model.Return
	err := r.db.Preload("Loan").Preload("Loan.Equipment").Preload("Loan.Borrower").Preload("ApprovedByUser").
		Order("created_at DESC").Find(&returns).Error
	return returns, err
}

func (r *returnRepo) FindByID(id uuid.UUID) (*model.Return, error) {
	var ret model.Return
	err := r.db.Preload("Loan").Preload("Loan.Equipment").Preload("Loan.Borrower").Preload("ApprovedByUser").
		First(&ret, "id = ?", id).Error
	return &ret, err
}

func (r *returnRepo) FindByLoanID(loanID uuid.UUID) (*model.Return, error) {
	var ret model.Return
	err := r.db.First(&ret, "loan_id = ?", loanID).Error
	return &ret, err
}

func (r *returnRepo) FindByBorrower(borrowerID string) ([]model.Return, error) {
	var returns []model.Return
	err := r.db.Preload("Loan").Preload("Loan.Equipment").
		Joins("JOIN loans ON loans.id = returns.loan_id").
		Where("loans.borrower_id = ?", borrowerID).
		Order("returns.created_at DESC").
		Find(&returns).Error
	return returns, err
}

func (r *returnRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Return, error) {
	var ret model.Return
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ret, "id = ?", id).Error
	return &ret, err
}

// Approve finalizes a PENDING return. The status guard in the WHERE clause makes
// the PENDING->APPROVED transition single-shot even under concurrent staff clicks:
// the loser of the race matches zero rows.
func (r *returnRepo) Approve(tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) (int64, error) {
	values := map[string]interface{}{"status": model.ReturnApproved}
	for k, v := range updates {
		values[k] = v
	}
	res := tx.Model(&model.Return{}).
		Where("id = ? AND status = ?", id, model.ReturnPending).
		Updates(values)
	return res.RowsAffected, res.Error
}

// MarkFinePaid flips the payment flag exactly once
func (r *returnRepo) MarkFinePaid(tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) (int64, error) {
	values := map[string]interface{}{"denda_dibayar": true}
	for k, v := range updates {
		values[k] = v
	}
	res := tx.Model(&model.Return{}).
		Where("id = ? AND status = ? AND denda > 0 AND denda_dibayar = ?", id, model.ReturnApproved, false).
		Updates(values)
	return res.RowsAffected, res.Error
}
