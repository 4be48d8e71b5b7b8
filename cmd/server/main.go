// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/driprats/storefront-admin/internal/config"
	"github.com/driprats/storefront-admin/internal/database"
	"github.com/driprats/storefront-admin/internal/i18n"
	"github.com/driprats/storefront-admin/internal/repository"
	"github.com/driprats/storefront-admin/internal/router"
	"github.com/driprats/storefront-admin/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	setupLogging(cfg.Log)

	// Initialize i18n
	if err := i18n.Initialize(); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Product documents
	mongoClient, err := database.InitializeMongo(ctx, cfg.Mongo)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize mongo")
	}
	defer database.CloseMongo(mongoClient)

	products := repository.NewProductRepository(mongoClient, cfg.Mongo.Database, cfg.Mongo.UseTransactions)
	if err := products.EnsureIndexes(ctx); err != nil {
		logrus.WithError(err).Warn("Failed to ensure product indexes")
	}

	// Orders table
	dynamo, err := repository.NewDynamoDBClient(cfg.Dynamo)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize DynamoDB client")
	}
	orders := repository.NewOrderRepository(dynamo, cfg.Dynamo.OrdersTable)

	if cfg.Seed.SampleData && !cfg.IsProduction() {
		if _, err := database.SeedOrders(ctx, orders); err != nil {
			logrus.WithError(err).Error("Failed to seed sample orders")
		}
	}

	deps := router.Dependencies{
		Products:   products,
		Orders:     orders,
		HTTPClient: &http.Client{Timeout: time.Duration(cfg.Shipping.TimeoutSeconds) * time.Second},
	}

	// Image uploads are optional
	if cfg.Storage.Bucket != "" {
		images, err := services.NewS3Client(cfg.Storage)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize S3 client")
		}
		deps.Images = images
	}

	// Audit store is optional
	if cfg.Database.Enabled {
		db, err := database.Initialize(cfg.Database)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize database")
		}
		defer database.Close(db)

		if err := database.RunMigrations(db); err != nil {
			logrus.WithError(err).Fatal("Failed to run migrations")
		}

		audit := repository.NewAuditRepository(db)
		deps.Audit = audit
		deps.Repairs = audit
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r := router.Initialize(ctx, deps, cfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}

	logrus.Info("Server exited")
}

func setupLogging(cfg config.LogConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
