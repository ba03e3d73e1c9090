package service

import (
	"errors"
	"fmt"

	"go-equipment-loan/internal/model"
	"go-equipment-loan/internal/repository"
	"go-equipment-loan/internal/ws"
	"go-equipment-loan/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EquipmentService interface {
	CreateEquipment(req *model.Equipment, userID, userName string) error
	UpdateEquipment(id uuid.UUID, req *model.Equipment, userID, userName string) (*model.Equipment, error)
	GetAllEquipment() ([]model.Equipment, error)
	GetEquipmentByID(id uuid.UUID) (*model.Equipment, error)
	CreateCategory(req *model.Category) error
	GetAllCategories() ([]model.Category, error)
}

type equipmentService struct {
	equipmentRepo repository.EquipmentRepository
	categoryRepo  repository.CategoryRepository
	db            *gorm.DB
	wsHub         *ws.Hub
}

func NewEquipmentService(eRepo repository.EquipmentRepository, cRepo repository.CategoryRepository, db *gorm.DB, hub *ws.Hub) EquipmentService {
	return &equipmentService{
		equipmentRepo: eRepo,
		categoryRepo:  cRepo,
		db:            db,
		wsHub:         hub,
	}
}

func (s *equipmentService) CreateEquipment(req *model.Equipment, userID, userName string) error {
	// 1. Validasi Struct Dasar
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Cek Duplikasi Kode
	existing, _ := s.equipmentRepo.FindByKode(req.Kode)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrKodeExists
	}

	// 3. Category harus valid jika diisi
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*req.CategoryID); err != nil {
			return ErrCategoryNotFound
		}
	}

	// 4. Set Audit Fields
	req.CreatedBy = userID
	req.UpdatedBy = userID
	req.CreatedByUserID = &userID
	req.UpdatedByUserID = &userID

	if err := s.equipmentRepo.Create(req); err != nil {
		return err
	}

	go s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":   "stock_update",
		"action": "equipment_created",
		"equipment": map[string]interface{}{
			"id":   req.ID,
			"kode": req.Kode,
			"nama": req.Nama,
			"stok": req.Stok,
		},
		"user": map[string]interface{}{
			"id":   userID,
			"name": userName,
		},
		"message": fmt.Sprintf("%s added equipment '%s'", userName, req.Nama),
	})

	return nil
}

// UpdateEquipment edits metadata and can restock. It locks the row so a manual
// stock edit cannot interleave with a concurrent loan approval.
func (s *equipmentService) UpdateEquipment(id uuid.UUID, req *model.Equipment, userID, userName string) (*model.Equipment, error) {
	var updated *model.Equipment
	var oldStok int

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Equipment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&existing, "id = ?", id).Error; err != nil {
			return ErrEquipmentNotFound
		}

		if req.Stok < 0 {
			return errors.New("stok cannot be negative")
		}

		oldStok = existing.Stok

		existing.Kode = req.Kode
		existing.Nama = req.Nama
		existing.Deskripsi = req.Deskripsi
		existing.Kondisi = req.Kondisi
		existing.Stok = req.Stok
		existing.CategoryID = req.CategoryID
		existing.UpdatedBy = userID
		existing.UpdatedByUserID = &userID

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		updated = &existing
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Broadcast only once the transaction has committed; announcing inside the
	// closure would leak a stock level that a failed commit rolls back
	go s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":   "stock_update",
		"action": "equipment_updated",
		"equipment": map[string]interface{}{
			"id":       updated.ID,
			"kode":     updated.Kode,
			"nama":     updated.Nama,
			"old_stok": oldStok,
			"new_stok": updated.Stok,
		},
		"user": map[string]interface{}{
			"id":   userID,
			"name": userName,
		},
		"message": fmt.Sprintf("%s updated equipment '%s'", userName, updated.Nama),
	})

	return updated, nil
}

func (s *equipmentService) GetAllEquipment() ([]model.Equipment, error) {
	return s.equipmentRepo.FindAll()
}

func (s *equipmentService) GetEquipmentByID(id uuid.UUID) (*model.Equipment, error) {
	return s.equipmentRepo.FindByID(id)
}

func (s *equipmentService) CreateCategory(req *model.Category) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	existing, _ := s.categoryRepo.FindByNama(req.Nama)
	if existing != nil {
		return errors.New("category already exists")
	}

	return s.categoryRepo.Create(req)
}

func (s *equipmentService) GetAllCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}
