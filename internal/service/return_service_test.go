package service

import (
	"testing"
	"time"

	"go-equipment-loan/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func reloadReturn(t *testing.T, db *gorm.DB, id uuid.UUID) *model.Return {
	t.Helper()
	var ret model.Return
	require.NoError(t, db.First(&ret, "id = ?", id).Error)
	return &ret
}

func TestRequestReturnCreatesPending(t *testing.T) {
	db, loanSvc, returnSvc := newTestStack(t)
	borrower := createUser(t, db, "borrower@example.com")
	staff := createUser(t, db, "staff@example.com")
	eq := createEquipment(t, db, "CAM-001", 5)
	loan := createLoan(t, db, eq, borrower, 3, model.LoanPending, time.Now().AddDate(0, 0, 7))

	_, err := loanSvc.Approve(loan.ID, staff.ID.String(), staff.FullName)
	require.NoError(t, err)

	ret, err := returnSvc.RequestReturn(&RequestReturnInput{
		LoanID:      loan.ID,
		KondisiAlat: "BAIK",
		Catatan:     "lengkap",
	}, borrower.ID.String(), borrower.FullName)

	require.NoError(t, err)
	assert.Equal(t, model.ReturnPending, ret.Status)
	assert.Equal(t, loan.ID, ret.LoanID)

	// The loan stays open and the units stay out until staff approve
	assert.Equal(t, model.LoanBorrowed, reloadLoan(t, db, loan.ID).Status)
	assert.Equal(t, 2, currentStok(t, db, eq))
}

func TestRequestReturnGuards(t *testing.T) {
	db, _, returnSvc := newTestStack(t)
	borrower := createUser(t, db, "borrower@example.com")
	other := createUser(t, db, "other@example.com")
	eq := createEquipment(t, db, "CAM-001", 2)

	// unknown loan
	_, err := returnSvc.RequestReturn(&RequestReturnInput{
		LoanID:      uuid.New(),
		KondisiAlat: "BAIK",
	}, borrower.ID.String(), borrower.FullName)
	assert.ErrorIs(t, err, ErrLoanNotFound)

	// a PENDING loan has nothing out to hand back
	pending := createLoan(t, db, eq, borrower, 1, model.LoanPending, time.Now().AddDate(0, 0, 7))
	_, err = returnSvc.RequestReturn(&RequestReturnInput{
		LoanID:      pending.ID,
		KondisiAlat: "BAIK",
	}, borrower.ID.String(), borrower.FullName)
	assert.ErrorIs(t, err, ErrInvalidLoanState)

	// only the borrower on the loan can initiate the return
	borrowed := createLoan(t, db, eq, borrower, 1, model.LoanBorrowed, time.Now().AddDate(0, 0, 7))
	_, err = returnSvc.RequestReturn(&RequestReturnInput{
		LoanID:      borrowed.ID,
		KondisiAlat: "BAIK",
	}, other.ID.String(), other.FullName)
	assert.ErrorIs(t, err, ErrNotLoanOwner)

	// one Return per Loan
	_, err = returnSvc.RequestReturn(&RequestReturnInput{
		LoanID:      borrowed.ID,
		KondisiAlat: "BAIK",
	}, borrower.ID.String(), borrower.FullName)
	require.NoError(t, err)
	_, err = returnSvc.RequestReturn(&RequestReturnInput{
		LoanID:      borrowed.ID,
		KondisiAlat: "BAIK",
	}, borrower.ID.String(), borrower.FullName)
	assert.ErrorIs(t, err, ErrReturnPending)
}

// Full on-time lifecycle: request, approve, return, approve return. Stock must
// come back to its starting level and no fine may be assessed.
func TestReturnLifecycleOnTime(t *testing.T) {
	db, loanSvc, returnSvc := newTestStack(t)
	borrower := createUser(t, db, "borrower@example.com")
	staff := createUser(t, db, "staff@example.com")
	eq := createEquipment(t, db, "PROJ-001", 4)

	deadline := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	loan, err := loanSvc.RequestLoan(&RequestLoanInput{
		EquipmentID:     eq.ID,
		Jumlah:          3,
		TanggalDeadline: deadline,
		Keperluan:       "seminar",
	}, borrower.ID.String(), borrower.FullName)
	require.NoError(t, err)

	_, err = loanSvc.Approve(loan.ID, staff.ID.String(), staff.FullName)
	require.NoError(t, err)
	assert.Equal(t, 1, currentStok(t, db, eq))

	ret, err := returnSvc.RequestReturn(&RequestReturnInput{
		LoanID:      loan.ID,
		KondisiAlat: "BAIK",
	}, borrower.ID.String(), borrower.FullName)
	require.NoError(t, err)

	approved, err := returnSvc.ApproveReturn(ret.ID, staff.ID.String(), staff.FullName)
	require.NoError(t, err)
	assert.Equal(t, model.ReturnApproved, approved.Status)
	assert.Equal(t, 0, approved.HariTelat)
	assert.Equal(t, int64(0), approved.Denda)
	require.NotNil(t, approved.TanggalKembali)

	closed := reloadLoan(t, db, loan.ID)
	assert.Equal(t, model.LoanReturned, closed.Status)
	assert.NotNil(t, closed.TanggalKembali)
	assert.Equal(t, 4, currentStok(t, db, eq))
	assert.Equal(t, 4, conservedTotal(t, db, eq))

	// No fine assessed, so there is nothing to pay
	_, err = returnSvc.PayDenda(ret.ID, staff.ID.String(), staff.FullName)
	assert.ErrorIs(t, err, ErrNoFineDue)
}

func TestReturnLifecycleLateAssessesFine(t *testing.T) {
	db, _, returnSvc := newTestStack(t)
	borrower := createUser(t, db, "borrower@example.com")
	staff := createUser(t, db, "staff@example.com")

	// 3 of 5 units are out, deadline blown by two days
	eq := createEquipment(t, db, "CAM-001", 2)
	loan := createLoan(t, db, eq, borrower, 3, model.LoanBorrowed, time.Now().AddDate(0, 0, -2))

	ret, err := returnSvc.RequestReturn(&RequestReturnInput{
		LoanID:      loan.ID,
		KondisiAlat: "BAIK",
	}, borrower.ID.String(), borrower.FullName)
	require.NoError(t, err)

	approved, err := returnSvc.ApproveReturn(ret.ID, staff.ID.String(), staff.FullName)
	require.NoError(t, err)
	assert.Equal(t, 2, approved.HariTelat)
	assert.Equal(t, 2*testFinePerDay, approved.Denda)
	assert.False(t, approved.DendaDibayar)
	assert.Equal(t, 5, currentStok(t, db, eq))

	paid, err := returnSvc.PayDenda(ret.ID, staff.ID.String(), staff.FullName)
	require.NoError(t, err)
	assert.True(t, paid.DendaDibayar)
	assert.NotNil(t, paid.TanggalBayarDenda)

	// Settling twice is refused and nothing changes
	_, err = returnSvc.PayDenda(ret.ID, staff.ID.String(), staff.FullName)
	assert.ErrorIs(t, err, ErrAlreadyPaid)
	assert.True(t, reloadReturn(t, db, ret.ID).DendaDibayar)
}

func TestApproveReturnTwiceIncrementsStockOnce(t *testing.T) {
	db, _, returnSvc := newTestStack(t)
	borrower := createUser(t, db, "borrower@example.com")
	staff := createUser(t, db, "staff@example.com")
	eq := createEquipment(t, db, "CAM-001", 3)
	loan := createLoan(t, db, eq, borrower, 2, model.LoanBorrowed, time.Now().AddDate(0, 0, 7))

	ret, err := returnSvc.RequestReturn(&RequestReturnInput{
		LoanID:      loan.ID,
		KondisiAlat: "BAIK",
	}, borrower.ID.String(), borrower.FullName)
	require.NoError(t, err)

	_, err = returnSvc.ApproveReturn(ret.ID, staff.ID.String(), staff.FullName)
	require.NoError(t, err)
	assert.Equal(t, 5, currentStok(t, db, eq))

	_, err = returnSvc.ApproveReturn(ret.ID, staff.ID.String(), staff.FullName)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.Equal(t, 5, currentStok(t, db, eq))
}

// A Return pointing at a loan that is already RETURNED (partial failure or
// manual correction in old data) must be finalized without touching stock:
// incrementing again would mint inventory.
func TestApproveReturnOnClosedLoanSkipsStock(t *testing.T) {
	db, _, returnSvc := newTestStack(t)
	borrower := createUser(t, db, "borrower@example.com")
	staff := createUser(t, db, "staff@example.com")
	eq := createEquipment(t, db, "CAM-001", 5)

	deadline := time.Now().AddDate(0, 0, -10)
	loan := createLoan(t, db, eq, borrower, 2, model.LoanReturned, deadline)
	kembali := deadline.AddDate(0, 0, 3)
	require.NoError(t, db.Model(&model.Loan{}).Where("id = ?", loan.ID).
		Update("tanggal_kembali", kembali).Error)

	ret := &model.Return{LoanID: loan.ID, Status: model.ReturnPending, KondisiAlat: "BAIK"}
	require.NoError(t, db.Create(ret).Error)

	approved, err := returnSvc.ApproveReturn(ret.ID, staff.ID.String(), staff.FullName)
	require.NoError(t, err)
	assert.Equal(t, model.ReturnApproved, approved.Status)

	// Late days come from the recorded hand-back date, not from now
	assert.Equal(t, 3, approved.HariTelat)
	assert.Equal(t, 3*testFinePerDay, approved.Denda)
	assert.Equal(t, 5, currentStok(t, db, eq))
}

func TestApproveReturnOnRejectedLoanRefused(t *testing.T) {
	db, _, returnSvc := newTestStack(t)
	borrower := createUser(t, db, "borrower@example.com")
	staff := createUser(t, db, "staff@example.com")
	eq := createEquipment(t, db, "CAM-001", 5)
	loan := createLoan(t, db, eq, borrower, 2, model.LoanRejected, time.Now().AddDate(0, 0, 7))

	ret := &model.Return{LoanID: loan.ID, Status: model.ReturnPending, KondisiAlat: "BAIK"}
	require.NoError(t, db.Create(ret).Error)

	_, err := returnSvc.ApproveReturn(ret.ID, staff.ID.String(), staff.FullName)
	assert.ErrorIs(t, err, ErrInvalidLoanState)
	assert.Equal(t, 5, currentStok(t, db, eq))
	assert.Equal(t, model.ReturnPending, reloadReturn(t, db, ret.ID).Status)
}

func TestPayDendaGuards(t *testing.T) {
	db, _, returnSvc := newTestStack(t)
	borrower := createUser(t, db, "borrower@example.com")
	staff := createUser(t, db, "staff@example.com")
	eq := createEquipment(t, db, "CAM-001", 3)
	loan := createLoan(t, db, eq, borrower, 1, model.LoanBorrowed, time.Now().AddDate(0, 0, 7))

	_, err := returnSvc.PayDenda(uuid.New(), staff.ID.String(), staff.FullName)
	assert.ErrorIs(t, err, ErrReturnNotFound)

	// A fine exists only once the return has been approved
	ret, err := returnSvc.RequestReturn(&RequestReturnInput{
		LoanID:      loan.ID,
		KondisiAlat: "BAIK",
	}, borrower.ID.String(), borrower.FullName)
	require.NoError(t, err)

	_, err = returnSvc.PayDenda(ret.ID, staff.ID.String(), staff.FullName)
	assert.ErrorIs(t, err, ErrNoFineDue)
}
