package service

import (
	"log"
	"time"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/ws"

	"github.com/google/uuid"
)

type AlertService interface {
	GetUnreadAlerts(limit int) ([]model.Alert, error)
	MarkAlertRead(id uuid.UUID) error
	// CheckLowStock is the periodic sweep behind the cron schedule. Unlike
	// the inline alerts raised at sale time, the sweep deduplicates: at most
	// one alert per product per day.
	CheckLowStock() error
}

type alertService struct {
	productRepo repository.ProductRepository
	alertRepo   repository.AlertRepository
	wsHub       *ws.Hub
}

func NewAlertService(productRepo repository.ProductRepository, alertRepo repository.AlertRepository, hub *ws.Hub) AlertService {
	return &alertService{
		productRepo: productRepo,
		alertRepo:   alertRepo,
		wsHub:       hub,
	}
}

func (s *alertService) GetUnreadAlerts(limit int) ([]model.Alert, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.alertRepo.ListUnread(limit)
}

func (s *alertService) MarkAlertRead(id uuid.UUID) error {
	return s.alertRepo.MarkRead(id)
}

func (s *alertService) CheckLowStock() error {
	products, err := s.productRepo.FindLowStock()
	if err != nil {
		return err
	}

	since := time.Now().UTC().Truncate(24 * time.Hour)
	created := 0

	for i := range products {
		product := &products[i]

		exists, err := s.alertRepo.ExistsForProductSince(product.ID, since)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		alert := alertForStockLevel(product)
		if alert == nil {
			continue
		}
		alert.CreatedBy = "system"
		if err := s.alertRepo.Create(alert); err != nil {
			return err
		}
		created++

		if s.wsHub != nil {
			s.wsHub.PublishJSON(map[string]interface{}{
				"type":  "alert",
				"alert": alert,
			})
		}
	}

	if created > 0 {
		log.Printf("low stock sweep created %d alert(s)", created)
	}
	return nil
}
