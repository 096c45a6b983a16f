package router

import (
	"github.com/gin-gonic/gin"

	"rcmbooks/internal/domain"
	"rcmbooks/internal/handler"
	"rcmbooks/internal/middleware"
	"rcmbooks/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	allowedOrigins []string,
	authH *handler.AuthHandler,
	registrationH *handler.RegistrationHandler,
	userH *handler.UserHandler,
	transactionH *handler.TransactionHandler,
	ledgerH *handler.LedgerHandler,
	reconciliationH *handler.ReconciliationHandler,
	complianceH *handler.ComplianceHandler,
	reportH *handler.ReportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Public onboarding
	v1.POST("/registrations", registrationH.Create)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Registration management
	regs := protected.Group("/registrations")
	regs.GET("/:id", registrationH.GetByID)
	regs.GET("", middleware.RequireRole(domain.RoleAdmin), registrationH.List)
	regs.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), registrationH.Deactivate)

	// User management (registration-scoped)
	users := protected.Group("/users")
	users.POST("", middleware.RequireRole(domain.RoleAdmin), userH.Create)
	users.GET("", middleware.RequireRole(domain.RoleAdmin), userH.List)
	users.GET("/:id", userH.GetByID)
	users.PUT("/:id", userH.Update)
	users.POST("/me/password", userH.ChangePassword)
	users.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), userH.Delete)

	// Reverse-charge transactions
	txs := protected.Group("/transactions")
	txs.POST("", transactionH.Create)
	txs.GET("", transactionH.List)
	txs.GET("/:id", transactionH.GetByID)
	txs.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), transactionH.Delete)
	txs.POST("/:id/payment", transactionH.RecordPayment)
	txs.POST("/:id/itc", transactionH.EvaluateITC)
	txs.GET("/:id/itc", transactionH.ITCHistory)
	txs.GET("/:id/compliance", complianceH.GetByTransaction)

	// Electronic credit ledger
	ledger := protected.Group("/ledger")
	ledger.GET("/balance", ledgerH.Balance)
	ledger.GET("/statement", ledgerH.Statement)
	ledger.POST("/utilize", middleware.RequireRole(domain.RoleAdmin), ledgerH.Utilize)

	// Period lifecycle: GSTR-2B feed, reconciliation, compliance, GSTR-3B
	protected.GET("/periods", reportH.ListPeriods)
	periods := protected.Group("/periods/:period")
	periods.PUT("/gstr2b", reconciliationH.ImportFeed)
	periods.POST("/reconciliation", reconciliationH.Run)
	periods.GET("/reconciliation", reconciliationH.Get)
	periods.GET("/reconciliation/export", reconciliationH.ExportCSV)
	periods.POST("/compliance", complianceH.Refresh)
	periods.GET("/compliance", complianceH.ListByPeriod)
	periods.GET("/report", reportH.Build)
	periods.GET("/report/validate", reportH.Validate)
	periods.POST("/report/books", reportH.ReconcileWithBooks)
	periods.POST("/report/file", middleware.RequireRole(domain.RoleAdmin), reportH.File)

	// Overdue payment reminders
	protected.POST("/compliance/reminders", middleware.RequireRole(domain.RoleAdmin), complianceH.SendReminders)

	return r
}
