package model

import (
	"time"

	"github.com/google/uuid"
)

type LoanStatus string

const (
	LoanPending  LoanStatus = "PENDING"
	LoanBorrowed LoanStatus = "BORROWED"
	LoanRejected LoanStatus = "REJECTED"
	LoanReturned LoanStatus = "RETURNED"
)

// Loan records a borrower holding Jumlah units of an Equipment.
// Status only ever moves forward: PENDING -> BORROWED -> RETURNED,
// or PENDING -> REJECTED. Stock is touched exclusively on the
// PENDING->BORROWED and BORROWED->RETURNED transitions.
type Loan struct {
	BaseModel
	EquipmentID uuid.UUID  `gorm:"type:uuid;not null;index" json:"equipment_id" validate:"uuid_required"`
	Equipment   *Equipment `gorm:"foreignKey:EquipmentID" json:"equipment,omitempty" validate:"-"`

	BorrowerID string `gorm:"type:varchar(255);not null;index" json:"borrower_id"`
	Borrower   *User  `gorm:"foreignKey:BorrowerID;references:ID" json:"borrower,omitempty"`

	Jumlah int        `gorm:"not null" json:"jumlah" validate:"required,gte=1"`
	Status LoanStatus `gorm:"type:varchar(10);not null;default:'PENDING';index" json:"status"`

	Keperluan string `gorm:"type:text" json:"keperluan"` // purpose of the loan

	TanggalPinjam   time.Time  `gorm:"not null" json:"tanggal_pinjam"`
	TanggalDeadline time.Time  `gorm:"not null" json:"tanggal_deadline" validate:"required"`
	TanggalKembali  *time.Time `json:"tanggal_kembali,omitempty"` // set on return approval

	// Stamped once, by the approval (or rejection) transaction
	ApprovedByUserID *string    `gorm:"type:varchar(255)" json:"approved_by_user_id,omitempty"`
	ApprovedByUser   *User      `gorm:"foreignKey:ApprovedByUserID;references:ID" json:"approved_by_user,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
}

// IsFinal reports whether the loan is in a terminal state
func (l *Loan) IsFinal() bool {
	return l.Status == LoanRejected || l.Status == LoanReturned
}
