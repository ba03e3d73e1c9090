package model

import (
	"time"

	"github.com/google/uuid"
)

type ReturnStatus string

const (
	ReturnPending  ReturnStatus = "PENDING"
	ReturnApproved ReturnStatus = "APPROVED"
)

// Return is the record of a borrower handing equipment back, one per Loan.
// It stays PENDING (loan still BORROWED, stock untouched) until staff approve
// it; approval computes HariTelat/Denda exactly once and they never change
// afterward except for the payment flag.
type Return struct {
	BaseModel
	LoanID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"loan_id" validate:"uuid_required"`
	Loan   *Loan     `gorm:"foreignKey:LoanID" json:"loan,omitempty" validate:"-"`

	Status ReturnStatus `gorm:"type:varchar(10);not null;default:'PENDING'" json:"status"`

	KondisiAlat string `gorm:"type:varchar(50)" json:"kondisi_alat"` // condition on hand-back
	Catatan     string `gorm:"type:text" json:"catatan"`

	TanggalKembali *time.Time `json:"tanggal_kembali,omitempty"` // finalized on approval

	// Late fee, assessed at approval time
	HariTelat         int        `gorm:"default:0" json:"hari_telat"`
	Denda             int64      `gorm:"default:0" json:"denda"`
	DendaDibayar      bool       `gorm:"default:false" json:"denda_dibayar"`
	TanggalBayarDenda *time.Time `json:"tanggal_bayar_denda,omitempty"`

	ApprovedByUserID *string    `gorm:"type:varchar(255)" json:"approved_by_user_id,omitempty"`
	ApprovedByUser   *User      `gorm:"foreignKey:ApprovedByUserID;references:ID" json:"approved_by_user,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
}

// TableName specifies the table name for GORM
func (Return) TableName() string {
	return "returns"
}
