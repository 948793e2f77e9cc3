package main

import (
	"log"

	"github.com/edusuite/school-fees-api/internal/application/service"
	"github.com/edusuite/school-fees-api/internal/config"
	"github.com/edusuite/school-fees-api/internal/infrastructure/database"
	"github.com/edusuite/school-fees-api/internal/infrastructure/repository"
	"github.com/edusuite/school-fees-api/internal/presentation/http/handler"
	"github.com/edusuite/school-fees-api/internal/presentation/http/routes"
	"github.com/edusuite/school-fees-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	parentLinkRepo := repository.NewParentLinkRepository(db)
	feeStructureRepo := repository.NewFeeStructureRepository(db)
	feeRepo := repository.NewFeeRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	userService := service.NewUserService(userRepo, parentLinkRepo)
	feeStructureService := service.NewFeeStructureService(feeStructureRepo, feeRepo)
	feeService := service.NewFeeService(feeRepo, feeStructureRepo, userRepo, paymentRepo, discountRepo, parentLinkRepo, cfg.Fees)
	paymentService := service.NewPaymentService(paymentRepo, feeRepo, parentLinkRepo)
	discountService := service.NewDiscountService(discountRepo, feeRepo, parentLinkRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, feeRepo, paymentRepo, parentLinkRepo)
	reportService := service.NewReportService(reportRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(userService),
		FeeStructure: handler.NewFeeStructureHandler(feeStructureService),
		Fee:          handler.NewFeeHandler(feeService),
		Payment:      handler.NewPaymentHandler(paymentService),
		Discount:     handler.NewDiscountHandler(discountService),
		Invoice:      handler.NewInvoiceHandler(invoiceService),
		Report:       handler.NewReportHandler(reportService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
