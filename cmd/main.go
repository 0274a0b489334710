package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	echojwt "github.com/labstack/echo-jwt/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/random"

	"steelstore/internal/analytics"
	"steelstore/internal/caching"
	"steelstore/internal/events"
	"steelstore/internal/handlers"
	"steelstore/internal/jobs/background"
	"steelstore/internal/middleware"
	"steelstore/internal/repositories"
	"steelstore/internal/services"
	"steelstore/pkg/database"
)

const version = "1.0.0"

// defaultTenantID scopes a single-shop install. Multi-shop deployments set
// TENANT_ID per instance.
const defaultTenantID = "6f1e2b3c-0000-4000-8000-000000000001"

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32)
		log.Printf("WARNING: Using generated JWT secret; sessions will not survive a restart")
	}

	tenantID, err := uuid.Parse(getEnv("TENANT_ID", defaultTenantID))
	if err != nil {
		log.Fatalf("Invalid TENANT_ID: %v", err)
	}

	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if db, err := strconv.Atoi(raw); err == nil {
			redisDB = db
		}
	}

	minioEndpoint := getEnv("MINIO_ENDPOINT", "localhost:9000")
	minioAccessKey := getEnv("MINIO_ACCESS_KEY", "minioadmin")
	minioSecretKey := getEnv("MINIO_SECRET_KEY", "minioadmin")
	minioBucket := getEnv("MINIO_BUCKET", "steelstore-backups")
	minioUseSSL := os.Getenv("MINIO_USE_SSL") == "true"

	backupSvc, err := services.NewMinioBackupService(minioEndpoint, minioAccessKey, minioSecretKey, minioBucket, minioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize backup storage: %v", err)
	}
	if err := backupSvc.EnsureBucket(context.Background()); err != nil {
		log.Printf("WARNING: backup bucket unavailable: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	vendorRepo := repositories.NewVendorRepo(pool)
	receivingRepo := repositories.NewReceivingRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)
	movementRepo := repositories.NewMovementRepo(pool)

	// Cache and event bus
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)
	bus := events.NewBus()

	// Services
	authSvc := services.NewAuthService(userRepo, jwtSecret, 0)
	productSvc := services.NewProductService(productRepo, cacheSvc, bus)
	defer productSvc.Close()
	vendorSvc := services.NewVendorService(vendorRepo, bus)
	receivingSvc := services.NewReceivingService(receivingRepo, cacheSvc, bus)
	defer receivingSvc.Close()
	paymentSvc := services.NewPaymentService(paymentRepo, receivingRepo, bus)
	movementSvc := services.NewMovementService(movementRepo)
	analyticsSvc := analytics.NewService(productRepo, vendorRepo, receivingRepo, cacheSvc)

	if err := authSvc.EnsureDefaultAdmin(context.Background(), tenantID); err != nil {
		log.Fatalf("Failed to ensure default admin: %v", err)
	}

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, tenantID)
	productHandlers := handlers.NewProductHandlers(productSvc)
	vendorHandlers := handlers.NewVendorHandlers(vendorSvc)
	receivingHandlers := handlers.NewReceivingHandlers(receivingSvc)
	paymentHandlers := handlers.NewPaymentHandlers(paymentSvc)
	movementHandlers := handlers.NewMovementHandlers(movementSvc)
	dashboardHandlers := handlers.NewDashboardHandlers(analyticsSvc)
	backupHandlers := handlers.NewBackupHandlers(backupSvc)
	healthHandlers := handlers.NewHealthHandlers(pool)

	// Background jobs
	scheduler, err := background.NewJobScheduler(analyticsSvc, productRepo, vendorRepo, tenantID)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop scheduler: %v", err)
		}
	}()
	jobHandlers := handlers.NewJobHandlers(scheduler, analyticsSvc, cacheSvc)

	e := echo.New()
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	e.GET("/health", healthHandlers.Health)
	e.GET("/health/ready", healthHandlers.Ready)

	v1 := e.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", authHandlers.Login)

	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(middleware.JWTConfig(jwtSecret)))
	protected.Use(middleware.TenantContext())

	protected.POST("/auth/change-password", authHandlers.ChangePassword)

	// Product routes
	protected.GET("/products", productHandlers.ListProducts)
	protected.POST("/products", productHandlers.CreateProduct)
	protected.GET("/products/search", productHandlers.SearchProducts)
	protected.GET("/products/categories", productHandlers.GetCategories)
	protected.GET("/products/low-stock", productHandlers.GetLowStockProducts)
	protected.GET("/products/barcode/:code", productHandlers.GetProductByBarcode)
	protected.GET("/products/:id", productHandlers.GetProduct)
	protected.PUT("/products/:id", productHandlers.UpdateProduct)
	protected.DELETE("/products/:id", productHandlers.DeleteProduct)
	protected.POST("/products/:id/stock", productHandlers.AdjustStock)
	protected.GET("/products/:id/movements", movementHandlers.GetProductHistory)

	// Vendor routes
	protected.GET("/vendors", vendorHandlers.ListVendors)
	protected.POST("/vendors", vendorHandlers.CreateVendor)
	protected.GET("/vendors/outstanding", vendorHandlers.GetVendorsWithOutstanding)
	protected.GET("/vendors/:id", vendorHandlers.GetVendor)
	protected.PUT("/vendors/:id", vendorHandlers.UpdateVendor)
	protected.DELETE("/vendors/:id", vendorHandlers.DeleteVendor)
	protected.GET("/vendors/:id/payments", paymentHandlers.ListPaymentsByVendor)

	// Receiving routes
	protected.GET("/receivings", receivingHandlers.ListReceivings)
	protected.POST("/receivings", receivingHandlers.CreateReceiving)
	protected.GET("/receivings/:id", receivingHandlers.GetReceiving)
	protected.PUT("/receivings/:id", receivingHandlers.UpdateReceiving)
	protected.DELETE("/receivings/:id", receivingHandlers.DeleteReceiving)
	protected.GET("/receivings/:id/payments", paymentHandlers.ListPaymentsByReceiving)

	// Payment routes
	protected.POST("/payments", paymentHandlers.RecordPayment)
	protected.GET("/payments/:id", paymentHandlers.GetPayment)

	// Movement ledger
	protected.GET("/movements", movementHandlers.SearchMovements)

	// Dashboard
	protected.GET("/dashboard/stats", dashboardHandlers.GetDashboardStats)

	// Maintenance
	protected.GET("/jobs/status", jobHandlers.GetJobStatus)
	protected.POST("/jobs/dashboard-refresh", jobHandlers.TriggerDashboardRefresh)
	protected.POST("/cache/invalidate", jobHandlers.InvalidateCache)

	// Backups
	protected.POST("/backups", backupHandlers.UploadBackup)
	protected.GET("/backups", backupHandlers.ListBackups)
	protected.GET("/backups/:name", backupHandlers.DownloadBackup)
	protected.GET("/backups/:name/url", backupHandlers.GetBackupURL)
	protected.DELETE("/backups/:name", backupHandlers.DeleteBackup)

	port := getEnv("PORT", "8080")
	log.Printf("Steelstore server v%s starting on port %s", version, port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", port)))
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
