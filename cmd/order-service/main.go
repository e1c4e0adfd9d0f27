package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kousaila502/ecommerce-microservices-platform/config"
	"github.com/kousaila502/ecommerce-microservices-platform/internal/application"
	"github.com/kousaila502/ecommerce-microservices-platform/internal/infrastructure/client"
	pginfra "github.com/kousaila502/ecommerce-microservices-platform/internal/infrastructure/postgres"
	handlers "github.com/kousaila502/ecommerce-microservices-platform/internal/interface/http"
	"github.com/kousaila502/ecommerce-microservices-platform/internal/interface/middleware"
	"github.com/kousaila502/ecommerce-microservices-platform/internal/router"
	"github.com/kousaila502/ecommerce-microservices-platform/internal/router/modules"
	"github.com/kousaila502/ecommerce-microservices-platform/pkg/helpers"
	"github.com/kousaila502/ecommerce-microservices-platform/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger("order-service", cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.OrderPostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := runMigrations(cfg.OrderPostgresDSN(), cfg.OrderMigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	// RabbitMQ is optional; without it order events are skipped.
	var pub *helpers.RabbitPublisher
	if cfg.OrderEventsEnabled && cfg.RabbitMQURL != "" {
		pub, err = helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQOrdersQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable, order events disabled")
			pub = nil
		}
	}
	defer pub.Close()

	jwtManager := helpers.NewJWTManager(cfg.JWTSecret, cfg.AccessTTL)

	orderRepo := pginfra.NewOrderRepository(pool)
	cartClient := client.NewCartClient(cfg.CartServiceURL, cfg.ClientTimeout)
	productClient := client.NewProductClient(cfg.ProductServiceURL, cfg.ClientTimeout)
	userClient := client.NewUserClient(cfg.UserServiceURL, cfg.ClientTimeout)

	orderSvc := &application.OrderService{
		Orders:   orderRepo,
		Cart:     cartClient,
		Products: productClient,
		Rabbit:   pub,
		Logger:   logger,
	}

	orderHandler := handlers.NewOrderHandler(orderSvc, logger)
	adminOrderHandler := handlers.NewAdminOrderHandler(orderSvc, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r, "/")
	reg.Add(modules.NewHealthModule("order-service", pool))
	reg.Add(modules.NewOrderModule(orderHandler, userClient, jwtManager, rdb))
	reg.Add(modules.NewAdminOrderModule(adminOrderHandler, userClient, jwtManager))
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.OrderServicePort, Handler: r}
	go func() {
		logger.Infof("order service starting on :%s", cfg.OrderServicePort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

func runMigrations(dsn, migrationsDir string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
