package repository

import (
	"go-equipment-loan/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EquipmentRepository interface {
	Create(equipment *model.Equipment) error
	FindAll() ([]model.Equipment, error)
	FindByID(id uuid.UUID) (*model.Equipment, error)
	FindByKode(kode string) (*model.Equipment, error)
	Update(equipment *model.Equipment) error
	ExistsTx(tx *gorm.DB, id uuid.UUID) (bool, error)
	ReserveStock(tx *gorm.DB, id uuid.UUID, qty int) (int64, error)
	ReleaseStock(tx *gorm.DB, id uuid.UUID, qty int) (int64, error)
	CurrentStock(id uuid.UUID) (int, error)
}

type equipmentRepo struct {
	db *gorm.DB
}

func NewEquipmentRepo(db *gorm.DB) EquipmentRepository {
	return &equipmentRepo{db}
}

func (r *equipmentRepo) Create(equipment *model.Equipment) error {
	return r.db.Create(equipment).Error
}

func (r *equipmentRepo) FindAll() ([]model.Equipment, error) {
	var equipments []model.Equipment
	err := r.db.Preload("Category").Preload("CreatedByUser").Preload("UpdatedByUser").Find(&equipments).Error
	return equipments, err
}

func (r *equipmentRepo) FindByID(id uuid.UUID) (*model.Equipment, error) {
	var equipment model.Equipment
	err := r.db.Preload("Category").Preload("CreatedByUser").Preload("UpdatedByUser").First(&equipment, "id = ?", id).Error
	return &equipment, err
}

func (r *equipmentRepo) FindByKode(kode string) (*model.Equipment, error) {
	var equipment model.Equipment
	err := r.db.First(&equipment, "kode = ?", kode).Error
	return &equipment, err
}

func (r *equipmentRepo) Update(equipment *model.Equipment) error {
	return r.db.Save(equipment).Error
}

// ExistsTx checks presence inside the caller's transaction, used to distinguish
// "not found" from "not enough stock" after a conditional update touched no rows
func (r *equipmentRepo) ExistsTx(tx *gorm.DB, id uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&model.Equipment{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ReserveStock menerima *gorm.DB (tx) agar berjalan dalam transaksi approval.
// The decrement is a single conditional UPDATE so two concurrent approvals can
// never drive stok below zero; zero rows affected means the precondition failed.
func (r *equipmentRepo) ReserveStock(tx *gorm.DB, id uuid.UUID, qty int) (int64, error) {
	res := tx.Model(&model.Equipment{}).
		Where("id = ? AND stok >= ?", id, qty).
		UpdateColumn("stok", gorm.Expr("stok - ?", qty))
	return res.RowsAffected, res.Error
}

// ReleaseStock is the unconditional counterpart, run when a return is approved
func (r *equipmentRepo) ReleaseStock(tx *gorm.DB, id uuid.UUID, qty int) (int64, error) {
	res := tx.Model(&model.Equipment{}).
		Where("id = ?", id).
		UpdateColumn("stok", gorm.Expr("stok + ?", qty))
	return res.RowsAffected, res.Error
}

func (r *equipmentRepo) CurrentStock(id uuid.UUID) (int, error) {
	var stok int
	err := r.db.Model(&model.Equipment{}).Where("id = ?", id).Select("stok").Scan(&stok).Error
	return stok, err
}
