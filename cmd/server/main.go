package main

import (
	"os"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	sqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"roamstay/server/config"
	"roamstay/server/internal/api"
	"roamstay/server/internal/database"
	"roamstay/server/internal/geocoding"
	"roamstay/server/internal/ingest"
	"roamstay/server/internal/notify"
	"roamstay/server/internal/scheduler"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	// Optional .env for local development
	if err := godotenv.Load(); err == nil {
		logger.Info("Loaded environment from .env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Get the current working directory
	currentDir, err := os.Getwd()
	if err != nil {
		logger.WithError(err).Fatal("Failed to get current directory")
	}

	dbPath := filepath.Join(currentDir, cfg.Server.DBPath)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.WithError(err).Fatal("Failed to create database directory")
	}
	logger.Infof("Using database at: %s", dbPath)

	// Initialize database
	db, err := database.NewDatabase(dbPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	// Run database migrations
	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Listing ingest pipeline: queue feeding transactional batch upserts
	gormDB, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		logger.WithError(err).Fatal("Failed to open ingest database connection")
	}

	queue := ingest.NewListingQueue(cfg.Ingest.QueueSize, logger)
	processor := ingest.NewBatchProcessor(gormDB, queue, cfg, logger)
	queue.Start()
	processor.Start()
	defer processor.Stop()
	defer queue.Close()

	// Background geocoding of listings submitted without coordinates
	cacheDir := filepath.Join(os.TempDir(), "roamstay", "geocode_cache")
	geocoder := geocoding.NewGeocoder(logger, cacheDir)
	coordScheduler := scheduler.NewScheduler(db, geocoder, cfg, logger)
	coordScheduler.Start()
	defer coordScheduler.Stop()

	// Host booking notifications
	notifier := notify.NewService(logger)
	if tgConfig, err := db.GetTelegramConfig(); err == nil && tgConfig != nil {
		notifier.UpdateConfig(tgConfig)
	}

	// Initialize router
	router := gin.Default()
	router.Use(cors.Default())

	handler := api.NewHandler(db, cfg, queue, notifier, logger)
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
