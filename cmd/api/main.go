package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-pos-ws/internal/handler"
	"go-pos-ws/internal/middleware"
	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/service"
	"go-pos-ws/internal/ws"
	"go-pos-ws/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.Cashier{},
		&model.Sale{},
		&model.SaleItem{},
		&model.StockMovement{},
		&model.DailyReport{},
		&model.Alert{},
		&model.ReceiptSettings{},
	)

	// 3. Seed receipt settings and default cashier
	seedDefaults(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)
	reportRepo := repository.NewDailyReportRepo(db)
	alertRepo := repository.NewAlertRepo(db)
	cashierRepo := repository.NewCashierRepo(db)
	settingsRepo := repository.NewSettingsRepo(db)

	saleService := service.NewSaleService(db, productRepo, saleRepo, movementRepo, reportRepo, alertRepo, cashierRepo, settingsRepo, wsHub)
	catalogService := service.NewCatalogService(db, productRepo, categoryRepo, movementRepo)
	alertService := service.NewAlertService(productRepo, alertRepo, wsHub)
	reportService := service.NewReportService(productRepo, saleRepo, movementRepo, reportRepo)

	saleHandler := handler.NewSaleHandler(saleService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	alertHandler := handler.NewAlertHandler(alertService)
	reportHandler := handler.NewReportHandler(reportService)

	// 6. Nightly low-stock sweep (inline alerts at sale time are immediate;
	// the sweep catches drift from manual adjustments and dedups per day)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("0 18 * * *", func() {
		if err := alertService.CheckLowStock(); err != nil {
			log.Printf("low stock sweep failed: %v", err)
		}
	}); err != nil {
		log.Printf("Warning: failed to schedule low stock sweep: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "POS Backend v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 8. Routes. Session issuing lives elsewhere; every route here consumes
	// an already-issued cashier token.
	api := app.Group("/api/v1")
	protected := api.Group("", middleware.RequireAuth(cashierRepo))

	// Sales (the POS checkout flow)
	protected.Post("/sales", saleHandler.CompleteSale)
	protected.Get("/sales", saleHandler.GetSales)
	protected.Get("/sales/summary", saleHandler.GetSalesSummary)
	protected.Get("/sales/:id", saleHandler.GetSale)

	// Catalog
	protected.Get("/products", catalogHandler.GetProducts)
	protected.Post("/products", catalogHandler.CreateProduct)
	protected.Get("/products/sku/:sku", catalogHandler.GetProductBySKU)
	protected.Get("/products/:id", catalogHandler.GetProduct)
	protected.Get("/categories", catalogHandler.GetCategories)
	protected.Post("/categories", catalogHandler.CreateCategory)

	// Stock operations (each writes a ledger entry)
	protected.Post("/stock/receive", catalogHandler.ReceiveStock)
	protected.Post("/stock/return", catalogHandler.ReturnStock)
	protected.Post("/stock/write-off", catalogHandler.WriteOffStock)
	protected.Post("/stock/adjust", catalogHandler.AdjustStock)

	// Alerts
	protected.Get("/alerts", alertHandler.GetAlerts)
	protected.Post("/alerts/:id/read", alertHandler.MarkRead)

	// Reports
	protected.Get("/dashboard/stats", reportHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", reportHandler.GetStockFlow)
	protected.Get("/reports/daily", reportHandler.GetDailyReport)
	protected.Get("/reports/recent", reportHandler.GetRecentReports)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedDefaults creates the receipt settings row and a default cashier so a
// fresh install can log in and sell immediately.
func seedDefaults(db *gorm.DB) {
	settingsRepo := repository.NewSettingsRepo(db)
	cashierRepo := repository.NewCashierRepo(db)

	if _, err := settingsRepo.GetReceiptSettings(); err != nil {
		log.Printf("Warning: Failed to seed receipt settings: %v", err)
	}

	if _, err := cashierRepo.FindByEmail("cashier@example.com"); err != nil {
		cashier := &model.Cashier{
			Email:    "cashier@example.com",
			FullName: "Default Cashier",
			IsActive: true,
		}
		cashier.CreatedBy = "system"
		cashier.UpdatedBy = "system"

		if err := cashier.SetPassword("cashier123"); err != nil {
			log.Printf("Warning: Failed to hash cashier password: %v", err)
			return
		}

		if err := cashierRepo.Create(cashier); err != nil {
			log.Printf("Warning: Failed to create default cashier: %v", err)
		} else {
			log.Println("✅ Default cashier created: cashier@example.com / cashier123")
		}
	}
}
