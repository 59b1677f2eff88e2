package server

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/mekarlab/billing-api/internal/cache"
	"github.com/mekarlab/billing-api/internal/config"
	"github.com/mekarlab/billing-api/internal/handler"
	"github.com/mekarlab/billing-api/internal/middleware"
	"github.com/mekarlab/billing-api/internal/repository"
	"github.com/mekarlab/billing-api/internal/service"
)

// Server owns the wired HTTP surface of the application.
type Server struct {
	Router *gin.Engine
	Auth   *service.AuthService
}

// New wires repositories, services, handlers, and routes into a ready
// router. reportCache may be nil (analytics caching disabled).
func New(db *sqlx.DB, reportCache *cache.ReportCache, cfg *config.Config) *Server {
	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	clientRepo := repository.NewClientRepository(db)
	billRepo := repository.NewBillRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost)
	catalogSvc := service.NewCatalogService(productRepo)
	billingSvc := service.NewBillingService(billRepo, reportCache)
	clientSvc := service.NewClientService(clientRepo)
	reportSvc := service.NewReportService(reportRepo, billRepo, reportCache)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	productHandler := handler.NewProductHandler(catalogSvc)
	billHandler := handler.NewBillHandler(billingSvc, reportSvc)
	clientHandler := handler.NewClientHandler(clientSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	healthHandler := handler.NewHealthHandler(db)

	authMw := middleware.NewAuthMiddleware(cfg.JWTSecret, userRepo)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())

	setupRoutes(router, authMw, authHandler, productHandler, billHandler, clientHandler, reportHandler, healthHandler)

	return &Server{Router: router, Auth: authSvc}
}

// setupRoutes registers all routes. Everything except login and health
// requires a bearer token; role gates follow the operation table.
func setupRoutes(
	router *gin.Engine,
	authMw *middleware.AuthMiddleware,
	auth *handler.AuthHandler,
	products *handler.ProductHandler,
	bills *handler.BillHandler,
	clients *handler.ClientHandler,
	reports *handler.ReportHandler,
	health *handler.HealthHandler,
) {
	router.GET("/health", health.GetHealth)
	router.POST("/auth/login", auth.Login)

	authed := router.Group("/")
	authed.Use(authMw.Handle())

	admin := authed.Group("/", authMw.RequireAdmin())
	staff := authed.Group("/", authMw.RequireStaffOrAdmin())

	// Auth management
	admin.POST("/auth/register", auth.Register)

	// Bills
	staff.POST("/bills/create", bills.Create)
	staff.GET("/bills/list", bills.List)
	staff.GET("/bills/:id", bills.Get)
	staff.GET("/bills/:id/invoice", bills.Invoice)

	// Products
	admin.POST("/products/add", products.Add)
	staff.GET("/products/list", products.List)
	admin.POST("/products/update_price", products.UpdatePrice)
	admin.POST("/products/update_stock", products.UpdateStock)
	admin.DELETE("/products/:id", products.Deactivate)
	admin.POST("/products/restore/:id", products.Restore)

	// Clients
	staff.GET("/clients/list", clients.List)
	staff.GET("/clients/:id/history", clients.History)
	staff.GET("/clients/by_name/:name/history", clients.HistoryByName)

	// Analytics & export
	admin.GET("/analytics/summary", reports.Summary)
	admin.GET("/export/monthly_csv", reports.MonthlyCSV)
}
