package model

type Equipment struct {
	BaseModel
	Kode      string `gorm:"type:varchar(50);uniqueIndex;not null" json:"kode" validate:"required"`
	Nama      string `gorm:"type:varchar(255);not null" json:"nama" validate:"required"`
	Deskripsi string `gorm:"type:text" json:"deskripsi"`
	Kondisi   string `gorm:"type:varchar(50)" json:"kondisi"` // BAIK, RUSAK RINGAN, etc.

	// Stok is the count of units currently available for borrowing. It is
	// mutated only inside loan-approval and return-approval transactions.
	Stok int `gorm:"default:0" json:"stok" validate:"gte=0"`

	CategoryID *uint     `gorm:"index" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:varchar(255)" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User   `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty"`

	// Relasi
	Loans []Loan `json:"loans,omitempty"`
}
