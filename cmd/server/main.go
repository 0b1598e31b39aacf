// Package main is the entry point for the fieldops API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fieldops/internal/config"
	"fieldops/internal/domain/auth"
	"fieldops/internal/domain/catalogs/product"
	"fieldops/internal/domain/catalogs/warehouse"
	"fieldops/internal/domain/inventory"
	"fieldops/internal/domain/purchasing"
	"fieldops/internal/domain/workorder"
	v1 "fieldops/internal/infrastructure/http/v1"
	"fieldops/internal/infrastructure/storage/postgres"
	"fieldops/internal/infrastructure/storage/postgres/auth_repo"
	"fieldops/internal/infrastructure/storage/postgres/catalog_repo"
	"fieldops/internal/infrastructure/storage/postgres/inventory_repo"
	"fieldops/pkg/docnum"
	"fieldops/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting fieldops server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.ConnectionString())
	if cfg.DB.MaxConns > 0 {
		poolCfg.MaxConns = cfg.DB.MaxConns
	}
	if cfg.DB.MinConns > 0 {
		poolCfg.MinConns = cfg.DB.MinConns
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	warehouseRepo := catalog_repo.NewWarehouseRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	ledgerRepo := inventory_repo.NewLedgerRepo(txManager)
	balanceRepo := inventory_repo.NewBalanceRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)

	auditStore, err := postgres.NewMovementAuditStore(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit store", "error", err)
	}

	// --- Services ---
	numbers := docnum.New()

	jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
	if cfg.JWT.Expiration > 0 {
		jwtConfig.AccessTokenTTL = cfg.JWT.Expiration
	}
	if cfg.JWT.Issuer != "" {
		jwtConfig.Issuer = cfg.JWT.Issuer
	}
	jwtService := auth.NewJWTService(jwtConfig)
	authService := auth.NewService(userRepo, txManager, jwtService, auth.DefaultServiceConfig())

	warehouseService := warehouse.NewService(warehouseRepo, numbers)
	productService := product.NewService(productRepo, numbers)

	inventoryService := inventory.NewService(
		txManager,
		ledgerRepo,
		balanceRepo,
		warehouseService,
		productService,
		numbers,
		auditStore,
	)

	purchasingService := purchasing.NewService(inventoryService)
	workOrderService := workorder.NewService(inventoryService)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:              pool,
		Logger:            log,
		AuditStore:        auditStore,
		JWTValidator:      jwtService,
		AuthService:       authService,
		WarehouseService:  warehouseService,
		ProductService:    productService,
		InventoryService:  inventoryService,
		PurchasingService: purchasingService,
		WorkOrderService:  workOrderService,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Infow("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
