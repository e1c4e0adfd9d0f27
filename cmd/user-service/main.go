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
	logger := helpers.NewLogger("user-service", cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.UserPostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := runMigrations(cfg.UserPostgresDSN(), cfg.UserMigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	// RabbitMQ is optional; without it verification emails are skipped.
	var pub *helpers.RabbitPublisher
	if cfg.RabbitMQURL != "" {
		pub, err = helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable, email jobs disabled")
			pub = nil
		}
	}
	defer pub.Close()

	// Elasticsearch is optional; without it admin search returns empty.
	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.WithError(err).Warn("elasticsearch unavailable, user search disabled")
		es = nil
	}

	jwtManager := helpers.NewJWTManager(cfg.JWTSecret, cfg.AccessTTL)

	userRepo := pginfra.NewUserRepository(pool)
	sessionRepo := pginfra.NewSessionRepository(pool)

	userSvc := &application.UserService{
		Users:               userRepo,
		Sessions:            sessionRepo,
		JWT:                 jwtManager,
		Redis:               rdb,
		Rabbit:              pub,
		Logger:              logger,
		ES:                  es,
		ESIndex:             cfg.ESUsersIndex,
		VerificationEnabled: cfg.EmailVerificationEnabled,
		VerifyEmailURL:      cfg.VerifyEmailURL,
	}
	adminSvc := &application.AdminService{
		Users:    userRepo,
		Sessions: sessionRepo,
		Logger:   logger,
		ES:       es,
		ESIndex:  cfg.ESUsersIndex,
	}

	authHandler := handlers.NewAuthHandler(userSvc, logger)
	adminHandler := handlers.NewAdminHandler(adminSvc, logger)

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
	reg.Add(modules.NewHealthModule("user-service", pool))
	reg.Add(modules.NewAuthModule(authHandler, userRepo, jwtManager, rdb))
	reg.Add(modules.NewAdminModule(adminHandler, userRepo, jwtManager))
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.UserServicePort, Handler: r}
	go func() {
		logger.Infof("user service starting on :%s", cfg.UserServicePort)
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
