package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/furnishd/staging-service/config"
	"github.com/furnishd/staging-service/internal/api"
	"github.com/furnishd/staging-service/internal/docstore"
	"github.com/furnishd/staging-service/pkg/broker"
	"github.com/furnishd/staging-service/pkg/cache"
	"github.com/furnishd/staging-service/pkg/logger"
	"github.com/furnishd/staging-service/pkg/search"

	catalogH "github.com/furnishd/staging-service/internal/catalog/handler"
	catalogUCPkg "github.com/furnishd/staging-service/internal/catalog/usecase"

	listH "github.com/furnishd/staging-service/internal/list/handler"
	listUCPkg "github.com/furnishd/staging-service/internal/list/usecase"

	resH "github.com/furnishd/staging-service/internal/reservation/handler"
	resListenerPkg "github.com/furnishd/staging-service/internal/reservation/listener"
	resUCPkg "github.com/furnishd/staging-service/internal/reservation/usecase"

	roomH "github.com/furnishd/staging-service/internal/room/handler"
	roomUCPkg "github.com/furnishd/staging-service/internal/room/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Open the Document Store
	var store docstore.Store
	switch cfg.Store.Driver {
	case "memory":
		store = docstore.NewMemoryStore()
		appLogger.Info("Using in-memory document store")
	case "postgres":
		pg, err := docstore.NewPostgresStore(&docstore.PostgresConfig{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			DBName:          cfg.Postgres.DBName,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to document store", zap.Error(err))
		}
		defer pg.Close()
		store = pg
		appLogger.Info("Connected to PostgreSQL document store", zap.String("db_name", cfg.Postgres.DBName))
	default:
		appLogger.Fatal("Unknown store driver", zap.String("driver", cfg.Store.Driver))
	}

	// 4. Initialize Redis
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		var err error
		redisClient, err = cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 5. Initialize Elasticsearch
	var esClient *search.Client
	if cfg.Elastic.Enabled {
		var err error
		esClient, err = search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch (search features limited)", zap.Error(err))
			esClient = nil
		} else {
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 6. Initialize UseCases
	resUC := resUCPkg.NewReservationUseCase(store, redisClient, appLogger)
	roomUC := roomUCPkg.NewRoomUseCase(store, appLogger)
	listUC := listUCPkg.NewListUseCase(store, resUC, appLogger)
	catalogUC := catalogUCPkg.NewCatalogUseCase(store, redisClient, esClient, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 6.5 Initialize Kafka Listener
	if cfg.Kafka.Enabled {
		kafkaConsumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka Consumer",
			zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

		resListener := resListenerPkg.NewReservationListener(kafkaConsumer, resUC, appLogger)
		go resListener.Start(ctx)
	}

	// 7. Initialize Handlers and Router
	handlers := &api.Handlers{
		List:        listH.NewListHandler(listUC, appLogger),
		Room:        roomH.NewRoomHandler(roomUC, appLogger),
		Reservation: resH.NewReservationHandler(resUC, cfg.Warehouse.DefaultID, appLogger),
		Catalog:     catalogH.NewCatalogHandler(catalogUC, cfg.Warehouse.DefaultID, appLogger),
	}
	router := api.SetupRouter(handlers)

	// 8. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	srv := &http.Server{
		Addr:    port,
		Handler: router,
	}

	appLogger.Info("Starting HTTP server", zap.String("port", port))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to serve: %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
