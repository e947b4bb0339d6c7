package service

import (
	"time"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardStats is the landing-screen summary card.
type DashboardStats struct {
	TotalProducts  int64           `json:"total_products"`
	LowStockItems  int64           `json:"low_stock_items"`
	StockValuation decimal.Decimal `json:"stock_valuation"`
	TodaySales     decimal.Decimal `json:"today_sales"`
	TodayCount     int64           `json:"today_count"`
}

type ReportService interface {
	GetDailyReport(date time.Time) (*model.DailyReport, error)
	GetRecentReports(limit int) ([]model.DailyReport, error)
	GetDashboardStats() (*DashboardStats, error)
	GetStockFlow(days int) ([]repository.StockMovementData, error)
}

type reportService struct {
	productRepo  repository.ProductRepository
	saleRepo     repository.SaleRepository
	movementRepo repository.StockMovementRepository
	reportRepo   repository.DailyReportRepository
}

func NewReportService(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	movementRepo repository.StockMovementRepository,
	reportRepo repository.DailyReportRepository,
) ReportService {
	return &reportService{
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		movementRepo: movementRepo,
		reportRepo:   reportRepo,
	}
}

func (s *reportService) GetDailyReport(date time.Time) (*model.DailyReport, error) {
	return s.reportRepo.FindByDate(date)
}

func (s *reportService) GetRecentReports(limit int) ([]model.DailyReport, error) {
	if limit <= 0 {
		limit = 30
	}
	return s.reportRepo.FindRecent(limit)
}

func (s *reportService) GetDashboardStats() (*DashboardStats, error) {
	totalProducts, err := s.productRepo.CountActive()
	if err != nil {
		return nil, err
	}
	lowStock, err := s.productRepo.CountLowStock()
	if err != nil {
		return nil, err
	}
	valuation, err := s.productRepo.TotalValuation()
	if err != nil {
		return nil, err
	}
	summary, err := s.saleRepo.SummaryForDate(time.Now())
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalProducts:  totalProducts,
		LowStockItems:  lowStock,
		StockValuation: valuation,
		TodaySales:     summary.TotalSales,
		TodayCount:     summary.TotalTransactions,
	}, nil
}

func (s *reportService) GetStockFlow(days int) ([]repository.StockMovementData, error) {
	if days <= 0 {
		days = 7
	}
	end := time.Now()
	start := end.AddDate(0, 0, -days)
	return s.movementRepo.GetDailyFlow(start, end)
}
