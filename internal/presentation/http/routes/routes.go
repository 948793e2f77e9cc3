package routes

import (
	"github.com/edusuite/school-fees-api/internal/config"
	"github.com/edusuite/school-fees-api/internal/domain/enum"
	"github.com/edusuite/school-fees-api/internal/presentation/http/handler"
	"github.com/edusuite/school-fees-api/internal/presentation/http/middleware"
	"github.com/edusuite/school-fees-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	FeeStructure *handler.FeeStructureHandler
	Fee          *handler.FeeHandler
	Payment      *handler.PaymentHandler
	Discount     *handler.DiscountHandler
	Invoice      *handler.InvoiceHandler
	Report       *handler.ReportHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewClientRateLimiter(&deps.Cfg.RateLimit)
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	adminOnly := middleware.RequireRole(enum.RoleAdmin)

	// Profile
	protected.GET("/profile", h.Auth.Me)

	// Users and parent links
	protected.POST("/users", adminOnly, h.User.Create)
	protected.GET("/users/:id", h.User.Get)
	protected.GET("/students", adminOnly, h.User.ListStudents)
	protected.POST("/parent-links", adminOnly, h.User.CreateParentLink)
	protected.DELETE("/parent-links/:id", adminOnly, h.User.DeleteParentLink)

	// Fee structures
	feeStructures := protected.Group("/fee-structures")
	{
		feeStructures.GET("", adminOnly, h.FeeStructure.List)
		feeStructures.POST("", adminOnly, h.FeeStructure.Create)
		feeStructures.GET("/standard/:standard", h.FeeStructure.ListByStandard)
		feeStructures.PUT("/:id", adminOnly, h.FeeStructure.Update)
		feeStructures.DELETE("/:id", adminOnly, h.FeeStructure.Delete)
	}

	// Fee ledger
	fees := protected.Group("/fees")
	{
		fees.POST("", adminOnly, h.Fee.AddAdhoc)
		fees.POST("/assign", adminOnly, h.Fee.Assign)
		fees.POST("/assign-bulk", adminOnly, h.Fee.AssignBulk)
		fees.GET("/student/:student_id", h.Fee.GetForStudent)
		fees.GET("/class/:standard", adminOnly, h.Fee.GetByClass)
		fees.PUT("/:id", adminOnly, h.Fee.Update)
		fees.DELETE("/:id", adminOnly, h.Fee.Delete)
	}

	// Payments
	payments := protected.Group("/payments")
	{
		payments.POST("", adminOnly, h.Payment.Record)
		payments.GET("/student/:student_id", h.Payment.ListForStudent)
		payments.GET("/receipt/:receipt_number", h.Payment.GetByReceipt)
		payments.GET("/recent", adminOnly, h.Payment.ListRecent)
		payments.DELETE("/:id", adminOnly, h.Payment.Delete)
	}

	// Discounts
	discounts := protected.Group("/discounts")
	{
		discounts.POST("", adminOnly, h.Discount.Apply)
		discounts.GET("/student/:student_id", h.Discount.ListForStudent)
		discounts.DELETE("/:id", adminOnly, h.Discount.Delete)
	}

	// Invoices
	invoices := protected.Group("/invoices")
	{
		invoices.POST("", adminOnly, h.Invoice.Create)
		invoices.GET("/student/:student_id", h.Invoice.ListForStudent)
		invoices.GET("/class/:standard", adminOnly, h.Invoice.ListByClass)
		invoices.GET("/:identifier", h.Invoice.Get)
		invoices.PUT("/:id/status", adminOnly, h.Invoice.UpdateStatus)
		invoices.DELETE("/:id", adminOnly, h.Invoice.Delete)
	}

	// Reports
	reports := protected.Group("/reports")
	reports.Use(adminOnly)
	{
		reports.GET("/pending-fees", h.Report.PendingFees)
		reports.GET("/collection-summary", h.Report.CollectionSummary)
		reports.GET("/class-collection", h.Report.ClassCollection)
	}
}
