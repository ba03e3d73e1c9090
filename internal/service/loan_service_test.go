package service

import (
	"fmt"
	"testing"
	"time"

	"go-equipment-loan/internal/model"
	"go-equipment-loan/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testFinePerDay int64 = 5000

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:loan_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&model.Category{}, &model.Equipment{}, &model.Loan{}, &model.Return{}, &model.User{}, &model.Privilege{}, &model.Role{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return db
}

// newTestStack wires the lifecycle services the way cmd/api does, minus the hub
func newTestStack(t *testing.T) (*gorm.DB, LoanService, ReturnService) {
	t.Helper()
	db := setupTestDB(t)

	equipmentRepo := repository.NewEquipmentRepo(db)
	loanRepo := repository.NewLoanRepo(db)
	returnRepo := repository.NewReturnRepo(db)

	loanSvc := NewLoanService(loanRepo, equipmentRepo, db, nil)
	returnSvc := NewReturnService(returnRepo, loanRepo, equipmentRepo, db, nil, testFinePerDay)
	return db, loanSvc, returnSvc
}

func createUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, FullName: "Test " + email, IsActive: true}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createEquipment(t *testing.T, db *gorm.DB, kode string, stok int) *model.Equipment {
	t.Helper()
	eq := &model.Equipment{Kode: kode, Nama: "Equipment " + kode, Kondisi: "BAIK", Stok: stok}
	require.NoError(t, db.Create(eq).Error)
	return eq
}

// createLoan inserts a loan fixture directly, bypassing the request flow
func createLoan(t *testing.T, db *gorm.DB, eq *model.Equipment, borrower *model.User, jumlah int, status model.LoanStatus, deadline time.Time) *model.Loan {
	t.Helper()
	loan := &model.Loan{
		EquipmentID:     eq.ID,
		BorrowerID:      borrower.ID.String(),
		Jumlah:          jumlah,
		Status:          status,
		TanggalPinjam:   time.Now().AddDate(0, 0, -1),
		TanggalDeadline: deadline,
	}
	require.NoError(t, db.Create(loan).Error)
	return loan
}

func currentStok(t *testing.T, db *gorm.DB, eq *model.Equipment) int {
	t.Helper()
	var stok int
	require.NoError(t, db.Model(&model.Equipment{}).Where("id = ?", eq.ID).Select("stok").Scan(&stok).Error)
	return stok
}

// conservedTotal is stok plus every unit out on BORROWED loans; it must equal
// the equipment's initial inventory after any sequence of transitions
func conservedTotal(t *testing.T, db *gorm.DB, eq *model.Equipment) int {
	t.Helper()
	var out int
	require.NoError(t, db.Model(&model.Loan{}).
		Where("equipment_id = ? AND status = ?", eq.ID, model.LoanBorrowed).
		Select("COALESCE(SUM(jumlah), 0)").Scan(&out).Error)
	return currentStok(t, db, eq) + out
}

func reloadLoan(t *testing.T, db *gorm.DB, id interface{}) *model.Loan {
	t.Helper()
	var loan model.Loan
	require.NoError(t, db.First(&loan, "id = ?", id).Error)
	return &loan
}

func TestRequestLoanCreatesPendingWithoutStockEffect(t *testing.T) {
	db, loanSvc, _ := newTestStack(t)
	borrower := createUser(t, db, "borrower@example.com")
	eq := createEquipment(t, db, "CAM-001", 5)

	deadline := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	loan, err := loanSvc.RequestLoan(&RequestLoanInput{
		EquipmentID:     eq.ID,
		Jumlah:          3,
		TanggalDeadline: deadline,
		Keperluan:       "praktikum",
	}, borrower.ID.String(), borrower.FullName)

	require.NoError(t, err)
	assert.Equal(t, model.LoanPending, loan.Status)
	assert.Equal(t, borrower.ID.String(), loan.BorrowerID)
	assert.Nil(t, loan.ApprovedAt)

	// A pending request is not a claim
	assert.Equal(t, 5, currentStok(t, db, eq))
}

func TestRequestLoanValidation(t *testing.T) {
	db, loanSvc, _ := newTestStack(t)
	borrower := createUser(t, db, "borrower@example.com")
	eq := createEquipment(t, db, "CAM-001", 5)

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	// jumlah must be at least 1
	_, err := loanSvc.RequestLoan(&RequestLoanInput{
		EquipmentID:     eq.ID,
		Jumlah:          0,
		TanggalDeadline: tomorrow,
	}, borrower.ID.String(), borrower.FullName)
	assert.Error(t, err)

	// equipment must exist
	_, err = loanSvc.RequestLoan(&RequestLoanInput{
		EquipmentID:     uuid.New(),
		Jumlah:          1,
		TanggalDeadline: tomorrow,
	}, borrower.ID.String(), borrower.FullName)
	assert.ErrorIs(t, err, ErrEquipmentNotFound)

	// deadline must fall strictly after the loan date
	today := time.Now().Format("2006-01-02")
	_, err = loanSvc.RequestLoan(&RequestLoanInput{
		EquipmentID:     eq.ID,
		Jumlah:          1,
		TanggalDeadline: today,
	}, borrower.ID.String(), borrower.FullName)
	assert.ErrorIs(t, err, ErrInvalidDeadline)
}

func TestApproveDecrementsStockExactlyOnce(t *testing.T) {
	db, loanSvc, _ := newTestStack(t)
	borrower := createUser(t, db, "borrower@example.com")
	staff := createUser(t, db, "staff@example.com")
	eq := createEquipment(t, db, "CAM-001", 5)
	loan := createLoan(t, db, eq, borrower, 3, model.LoanPending, time.Now().AddDate(0, 0, 7))

	approved, err := loanSvc.Approve(loan.ID, staff.ID.String(), staff.FullName)
	require.NoError(t, err)
	assert.Equal(t, model.LoanBorrowed, approved.Status)
	require.NotNil(t, approved.ApprovedByUserID)
	assert.Equal(t, staff.ID.String(), *approved.ApprovedByUserID)
	assert.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, 2, currentStok(t, db, eq))

	// Second approval is an idempotency violation, not a second decrement
	_, err = loanSvc.Approve(loan.ID, staff.ID.String(), staff.FullName)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.Equal(t, 2, currentStok(t, db, eq))

	assert.Equal(t, 5, conservedTotal(t, db, eq))
}

func TestApproveInsufficientStockIsAllOrNothing(t *testing.T) {
	db, loanSvc, _ := newTestStack(t)
	borrower := createUser(t, db, "borrower@example.com")
	staff := createUser(t, db, "staff@example.com")
	eq := createEquipment(t, db, "CAM-001", 2)
	loan := createLoan(t, db, eq, borrower, 3, model.LoanPending, time.Now().AddDate(0, 0, 7))

	_, err := loanSvc.Approve(loan.ID, staff.ID.String(), staff.FullName)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing moved: stock intact, loan still approvable later
	assert.Equal(t, 2, currentStok(t, db, eq))
	assert.Equal(t, model.LoanPending, reloadLoan(t, db, loan.ID).Status)
}

func TestOversubscribedApprovalsAdmitOnlyWhatFits(t *testing.T) {
	db, loanSvc, _ := newTestStack(t)
	borrower := createUser(t, db, "borrower@example.com")
	staff := createUser(t, db, "staff@example.com")
	eq := createEquipment(t, db, "CAM-001", 5)

	first := createLoan(t, db, eq, borrower, 3, model.LoanPending, time.Now().AddDate(0, 0, 7))
	second := createLoan(t, db, eq, borrower, 3, model.LoanPending, time.Now().AddDate(0, 0, 7))

	_, err := loanSvc.Approve(first.ID, staff.ID.String(), staff.FullName)
	require.NoError(t, err)

	_, err = loanSvc.Approve(second.ID, staff.ID.String(), staff.FullName)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 2, currentStok(t, db, eq))
	assert.Equal(t, model.LoanPending, reloadLoan(t, db, second.ID).Status)
	assert.Equal(t, 5, conservedTotal(t, db, eq))
}

func TestRejectHasNoStockEffectAndIsFinal(t *testing.T) {
	db, loanSvc, _ := newTestStack(t)
	borrower := createUser(t, db, "borrower@example.com")
	staff := createUser(t, db, "staff@example.com")
	eq := createEquipment(t, db, "CAM-001", 5)
	loan := createLoan(t, db, eq, borrower, 3, model.LoanPending, time.Now().AddDate(0, 0, 7))

	rejected, err := loanSvc.Reject(loan.ID, staff.ID.String(), staff.FullName)
	require.NoError(t, err)
	assert.Equal(t, model.LoanRejected, rejected.Status)
	assert.Equal(t, 5, currentStok(t, db, eq))

	// REJECTED is terminal in both directions
	_, err = loanSvc.Reject(loan.ID, staff.ID.String(), staff.FullName)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	_, err = loanSvc.Approve(loan.ID, staff.ID.String(), staff.FullName)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.Equal(t, 5, currentStok(t, db, eq))
}

func TestApproveUnknownLoan(t *testing.T) {
	db, loanSvc, _ := newTestStack(t)
	staff := createUser(t, db, "staff@example.com")

	_, err := loanSvc.Approve(uuid.New(), staff.ID.String(), staff.FullName)
	assert.ErrorIs(t, err, ErrLoanNotFound)
}
