// Package main provides the main entry point for the farm storefront API
package main

// @title Farm Storefront API
// @version 1.0
// @description Admin session and content management API for the farm storefront.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirphl/farm-storefront/app/handlers"
	"github.com/amirphl/farm-storefront/app/middleware"
	"github.com/amirphl/farm-storefront/app/router"
	"github.com/amirphl/farm-storefront/app/services"
	businessflow "github.com/amirphl/farm-storefront/business_flow"
	"github.com/amirphl/farm-storefront/config"
	"github.com/amirphl/farm-storefront/repository"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting farm storefront application...")

	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logOutput, closeLog := initializeLogging(cfg.Logging)
	defer closeLog()

	app, err := initializeApplication(cfg, logOutput)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-sigChan
	log.Println("Shutting down gracefully...")

	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeLogging points the standard logger at stdout, a rotated file, or
// both. The returned writer also receives access log lines.
func initializeLogging(cfg config.LoggingConfig) (io.Writer, func()) {
	if cfg.Output == "stdout" {
		return os.Stdout, func() {}
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	var out io.Writer = rotator
	if cfg.Output == "both" {
		out = io.MultiWriter(os.Stdout, rotator)
	}
	log.SetOutput(out)
	log.SetFlags(log.LstdFlags | log.LUTC)

	return out, func() {
		if err := rotator.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
	}
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.New(log.Default(), logger.Config{
			SlowThreshold:             cfg.SlowQueryTime,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the redis client and verifies connectivity.
// A nil client means caching and the login lockout are disabled.
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established (db=%d)", cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor periodically pings redis to surface connectivity
// issues. The returned func stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeStorage connects to MinIO and makes sure the media bucket exists.
// A nil store disables gallery uploads.
func initializeStorage(cfg config.StorageConfig) (services.MediaStorage, error) {
	if !cfg.Enabled {
		log.Println("Media storage disabled; gallery uploads will be rejected")
		return nil, nil
	}

	storage, err := services.NewMediaStorage(services.MediaStorageConfig{
		Endpoint:      cfg.Endpoint,
		AccessKey:     cfg.AccessKey,
		SecretKey:     cfg.SecretKey,
		Bucket:        cfg.Bucket,
		UseSSL:        cfg.UseSSL,
		PublicBaseURL: cfg.PublicBaseURL,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := storage.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	log.Printf("Media storage ready (bucket=%s)", cfg.Bucket)
	return storage, nil
}

func initializeApplication(cfg *config.ProductionConfig, logOutput io.Writer) (*Application, error) {
	var stopFuncs []func()

	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	if rc != nil {
		stopFuncs = append(stopFuncs, startCacheHealthMonitor(context.Background(), rc, 30*time.Second))
		stopFuncs = append(stopFuncs, func() { _ = rc.Close() })
	}

	storage, err := initializeStorage(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media storage: %w", err)
	}

	// Repositories
	adminRepo := repository.NewAdminRepository(db)
	productRepo := repository.NewProductRepository(db)
	testimonialRepo := repository.NewTestimonialRepository(db)
	teamRepo := repository.NewTeamMemberRepository(db)
	galleryRepo := repository.NewGalleryMediaRepository(db)
	siteSettingsRepo := repository.NewSiteSettingsRepository(db)

	// Services
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	var loginLimiter services.LoginLimiter
	if rc != nil {
		loginLimiter = services.NewLoginLimiter(rc, cfg.Cache.RedisPrefix, cfg.Security.LoginMaxAttempts, cfg.Security.LoginLockoutWindow)
	}
	contentCache := services.NewContentCache(rc, cfg.Cache.RedisPrefix, cfg.Cache.DefaultTTL)

	// Business flows
	sessionFlow, err := businessflow.NewAdminSessionFlow(adminRepo, tokenService, loginLimiter)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize admin session flow: %w", err)
	}
	productFlow := businessflow.NewProductFlow(productRepo, contentCache)
	testimonialFlow := businessflow.NewTestimonialFlow(testimonialRepo, contentCache)
	teamFlow := businessflow.NewTeamFlow(teamRepo, contentCache)
	galleryFlow := businessflow.NewGalleryFlow(galleryRepo, storage, contentCache)
	siteSettingsFlow := businessflow.NewSiteSettingsFlow(siteSettingsRepo, contentCache)

	if err := ensureBootstrapAdmin(adminRepo, cfg); err != nil {
		return nil, err
	}

	// Health checks
	checks := map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rc != nil {
		checks["redis"] = func(ctx context.Context) error { return rc.Ping(ctx).Err() }
	}

	appRouter := router.NewFiberRouter(cfg, router.Handlers{
		AdminAuth:    handlers.NewAdminAuthHandler(sessionFlow, cfg.Security.SessionCookieSecure),
		Product:      handlers.NewProductHandler(productFlow),
		Testimonial:  handlers.NewTestimonialHandler(testimonialFlow),
		Team:         handlers.NewTeamHandler(teamFlow),
		Gallery:      handlers.NewGalleryHandler(galleryFlow),
		SiteSettings: handlers.NewSiteSettingsHandler(siteSettingsFlow),
		Health:       handlers.NewHealthHandler(cfg.Deployment.Version, checks),
	}, middleware.NewAuthMiddleware(sessionFlow), logOutput)

	return &Application{
		router:    appRouter,
		config:    cfg,
		server:    appRouter.GetApp(),
		stopFuncs: stopFuncs,
	}, nil
}

// ensureBootstrapAdmin creates the configured admin on first start
func ensureBootstrapAdmin(adminRepo repository.AdminRepository, cfg *config.ProductionConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := businessflow.EnsureBootstrapAdmin(ctx, adminRepo, cfg.Admin.Email, cfg.Admin.Password, cfg.Security.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to ensure bootstrap admin: %w", err)
	}
	if created {
		log.Printf("Bootstrap admin %s created", cfg.Admin.Email)
	}
	return nil
}
