package model

// Category groups equipment for browsing and reporting (e.g. "Kamera", "Audio")
type Category struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Nama      string `gorm:"type:varchar(100);uniqueIndex;not null" json:"nama" validate:"required"`
	Deskripsi string `gorm:"type:text" json:"deskripsi"`
}
