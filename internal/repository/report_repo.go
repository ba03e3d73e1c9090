package repository

import (
	"time"

	"go-equipment-loan/internal/model"

	"gorm.io/gorm"
)

type ReportRepository interface {
	GetLoanActivity(startDate, endDate time.Time) ([]LoanActivityData, error)
	GetDashboardStats() (*DashboardStats, error)
	GetFineSummary(startDate, endDate time.Time) (int64, int64, error)
}

// LoanActivityData untuk chart data
type LoanActivityData struct {
	Date     string `json:"date"`
	Borrowed int    `json:"borrowed"`
	Returned int    `json:"returned"`
}

// DashboardStats untuk overview stats
type DashboardStats struct {
	TotalEquipment int64 `json:"total_equipment"`
	UnitsOnLoan    int64 `json:"units_on_loan"`
	PendingLoans   int64 `json:"pending_loans"`
	PendingReturns int64 `json:"pending_returns"`
	LateLoans      int64 `json:"late_loans"`
	UnpaidFines    int64 `json:"unpaid_fines"`
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) GetLoanActivity(startDate, endDate time.Time) ([]LoanActivityData, error) {
	var results []LoanActivityData

	// Aggregate approvals per hari; returned units counted on the day the loan closed
	rows, err := r.db.Model(&model.Loan{}).
		Select(`
			DATE(approved_at) as date,
			COALESCE(SUM(CASE WHEN status IN ('BORROWED', 'RETURNED') THEN jumlah ELSE 0 END), 0) as borrowed,
			COALESCE(SUM(CASE WHEN status = 'RETURNED' THEN jumlah ELSE 0 END), 0) as returned
		`).
		Where("approved_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(approved_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data LoanActivityData
		if err := rows.Scan(&data.Date, &data.Borrowed, &data.Returned); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}

func (r *reportRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	// Total Equipment
	r.db.Model(&model.Equipment{}).Count(&stats.TotalEquipment)

	// Units currently out on loan
	r.db.Model(&model.Loan{}).Where("status = ?", model.LoanBorrowed).
		Select("COALESCE(SUM(jumlah), 0)").Scan(&stats.UnitsOnLoan)

	// Pending approvals on both sides of the lifecycle
	r.db.Model(&model.Loan{}).Where("status = ?", model.LoanPending).Count(&stats.PendingLoans)
	r.db.Model(&model.Return{}).Where("status = ?", model.ReturnPending).Count(&stats.PendingReturns)

	// Loans out past their deadline
	r.db.Model(&model.Loan{}).Where("status = ? AND tanggal_deadline < ?", model.LoanBorrowed, time.Now()).
		Count(&stats.LateLoans)

	// Assessed fines awaiting payment
	r.db.Model(&model.Return{}).
		Where("status = ? AND denda > 0 AND denda_dibayar = ?", model.ReturnApproved, false).
		Select("COALESCE(SUM(denda), 0)").Scan(&stats.UnpaidFines)

	return &stats, nil
}

func (r *reportRepo) GetFineSummary(startDate, endDate time.Time) (int64, int64, error) {
	var assessed int64
	var collected int64

	// Denda assessed in the window
	err := r.db.Model(&model.Return{}).
		Where("status = ? AND approved_at BETWEEN ? AND ?", model.ReturnApproved, startDate, endDate).
		Select("COALESCE(SUM(denda), 0)").
		Scan(&assessed).Error
	if err != nil {
		return 0, 0, err
	}

	// Denda actually paid in the window
	err = r.db.Model(&model.Return{}).
		Where("denda_dibayar = ? AND tanggal_bayar_denda BETWEEN ? AND ?", true, startDate, endDate).
		Select("COALESCE(SUM(denda), 0)").
		Scan(&collected).Error
	if err != nil {
		return 0, 0, err
	}

	return assessed, collected, nil
}
