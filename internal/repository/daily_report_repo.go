package repository

import (
	"errors"
	"time"

	"go-pos-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyReportRepository interface {
	// LockOrCreate returns the report row for the date, locked FOR UPDATE,
	// creating it seeded at zero on the first sale of the day. Concurrent
	// sales on the same date serialize on this lock.
	LockOrCreate(tx *gorm.DB, date time.Time) (*model.DailyReport, error)
	Save(tx *gorm.DB, report *model.DailyReport) error
	SetTopSellingProduct(tx *gorm.DB, reportID uuid.UUID, productID *uuid.UUID) error
	FindByDate(date time.Time) (*model.DailyReport, error)
	FindRecent(limit int) ([]model.DailyReport, error)
}

type dailyReportRepo struct {
	db *gorm.DB
}

func NewDailyReportRepo(db *gorm.DB) DailyReportRepository {
	return &dailyReportRepo{db}
}

func (r *dailyReportRepo) LockOrCreate(tx *gorm.DB, date time.Time) (*model.DailyReport, error) {
	day := truncateToDate(date)

	var report model.DailyReport
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&report, "date = ?", day).Error
	if err == nil {
		return &report, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// First sale of the day. ON CONFLICT DO NOTHING keeps a concurrent
	// winner's unique violation from aborting this transaction; the locked
	// re-read then blocks until the winner commits.
	report = model.DailyReport{Date: day}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&report).Error; err != nil {
		return nil, err
	}
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&report, "date = ?", day).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *dailyReportRepo) Save(tx *gorm.DB, report *model.DailyReport) error {
	return tx.Model(&model.DailyReport{}).
		Where("id = ?", report.ID).
		Updates(map[string]interface{}{
			"total_sales":        report.TotalSales,
			"total_transactions": report.TotalTransactions,
			"cash_sales":         report.CashSales,
			"card_sales":         report.CardSales,
			"mobile_sales":       report.MobileSales,
		}).Error
}

func (r *dailyReportRepo) SetTopSellingProduct(tx *gorm.DB, reportID uuid.UUID, productID *uuid.UUID) error {
	return tx.Model(&model.DailyReport{}).
		Where("id = ?", reportID).
		Update("top_selling_product_id", productID).Error
}

func (r *dailyReportRepo) FindByDate(date time.Time) (*model.DailyReport, error) {
	var report model.DailyReport
	err := r.db.Preload("TopSellingProduct").
		First(&report, "date = ?", truncateToDate(date)).Error
	return &report, err
}

func (r *dailyReportRepo) FindRecent(limit int) ([]model.DailyReport, error) {
	var reports []model.DailyReport
	q := r.db.Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&reports).Error
	return reports, err
}

// truncateToDate maps an instant to its UTC calendar day. Both the rollup
// key and the summary windows use this so a sale near midnight on a
// non-UTC server lands on the same day everywhere.
func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
