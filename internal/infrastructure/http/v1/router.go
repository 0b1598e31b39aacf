// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"fieldops/internal/domain/auth"
	"fieldops/internal/domain/catalogs/product"
	"fieldops/internal/domain/catalogs/warehouse"
	"fieldops/internal/domain/inventory"
	"fieldops/internal/domain/purchasing"
	"fieldops/internal/domain/workorder"
	"fieldops/internal/infrastructure/http/v1/handlers"
	"fieldops/internal/infrastructure/http/v1/middleware"
	"fieldops/internal/infrastructure/storage/postgres"
	"fieldops/pkg/logger"
)

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	Pool       *postgres.Pool
	Logger     *logger.Logger
	AuditStore *postgres.MovementAuditStore

	JWTValidator middleware.JWTValidator

	AuthService       *auth.Service
	WarehouseService  *warehouse.Service
	ProductService    *product.Service
	InventoryService  *inventory.Service
	PurchasingService *purchasing.Service
	WorkOrderService  *workorder.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth, no tenant required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()

	v1 := router.Group("/api/v1")
	{
		// Auth endpoints resolve the tenant but run before JWT validation.
		authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
		authGroup := v1.Group("/auth")
		authGroup.Use(middleware.Tenant())
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/register", authHandler.Register)
		}

		// Protected endpoints: tenant resolution first, then JWT.
		protected := v1.Group("")
		protected.Use(middleware.Tenant())
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerCatalogRoutes(protected, base, cfg)
		registerInventoryRoutes(protected, base, cfg)
		registerBridgeRoutes(protected, base, cfg)
	}

	return router
}

func registerCatalogRoutes(g *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	// Catalog mutations are manager work; reads stay open to any
	// authenticated user.
	manager := middleware.RequireRole(auth.RoleManager)

	warehouseHandler := handlers.NewWarehouseHandler(base, cfg.WarehouseService)
	warehouses := g.Group("/warehouses")
	{
		warehouses.GET("", warehouseHandler.List)
		warehouses.POST("", manager, warehouseHandler.Create)
		warehouses.GET("/:id", warehouseHandler.Get)
		warehouses.PUT("/:id", manager, warehouseHandler.Update)
		warehouses.DELETE("/:id", manager, warehouseHandler.Delete)
	}

	productHandler := handlers.NewProductHandler(base, cfg.ProductService)
	products := g.Group("/products")
	{
		products.GET("", productHandler.List)
		products.POST("", manager, productHandler.Create)
		products.GET("/:id", productHandler.Get)
		products.PUT("/:id", manager, productHandler.Update)
		products.DELETE("/:id", manager, productHandler.Delete)
	}
}

func registerInventoryRoutes(g *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewInventoryHandler(base, cfg.InventoryService)
	inv := g.Group("/inventory")
	{
		inv.POST("/import", h.Import)
		inv.POST("/export", h.Export)
		inv.POST("/transfer", h.Transfer)
		inv.POST("/stocktake", h.Stocktake)
		inv.POST("/reserve", h.Reserve)
		inv.POST("/release", h.Release)

		inv.GET("/balances", h.ListBalances)
		inv.GET("/balances/:warehouseId/:productId", h.GetBalance)
		inv.GET("/ledger", h.GetLedger)
		inv.GET("/documents/:documentNo", h.GetDocument)
		inv.GET("/availability/:productId", h.GetAvailability)
		inv.GET("/stats", h.GetStats)

		if cfg.AuditStore != nil {
			auditHandler := handlers.NewAuditHandler(base, cfg.AuditStore)
			inv.GET("/audit/:documentNo", auditHandler.History)
		}
	}
}

func registerBridgeRoutes(g *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	purchasingHandler := handlers.NewPurchasingHandler(base, cfg.PurchasingService)
	g.POST("/purchasing/receive", purchasingHandler.Receive)

	workOrderHandler := handlers.NewWorkOrderHandler(base, cfg.WorkOrderService)
	workOrders := g.Group("/workorders")
	{
		workOrders.POST("/reserve", workOrderHandler.ReserveParts)
		workOrders.POST("/release", workOrderHandler.ReleaseParts)
		workOrders.POST("/consume", workOrderHandler.ConsumeParts)
	}
}
