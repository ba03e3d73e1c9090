package service

import (
	"time"

	"go-equipment-loan/internal/repository"
)

type DashboardService interface {
	GetLoanActivity(days int) ([]repository.LoanActivityData, error)
	GetDashboardStats() (*repository.DashboardStats, error)
	GetFineSummary(days int) (*FineSummary, error)
}

type FineSummary struct {
	Assessed  int64 `json:"assessed"`
	Collected int64 `json:"collected"`
}

type dashboardService struct {
	reportRepo repository.ReportRepository
}

func NewDashboardService(reportRepo repository.ReportRepository) DashboardService {
	return &dashboardService{reportRepo: reportRepo}
}

func (s *dashboardService) GetLoanActivity(days int) ([]repository.LoanActivityData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.reportRepo.GetLoanActivity(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats() (*repository.DashboardStats, error) {
	return s.reportRepo.GetDashboardStats()
}

func (s *dashboardService) GetFineSummary(days int) (*FineSummary, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	assessed, collected, err := s.reportRepo.GetFineSummary(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return &FineSummary{Assessed: assessed, Collected: collected}, nil
}
