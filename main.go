package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"movie-catalog/cmd"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/events"
	"movie-catalog/internal/wire"
	"movie-catalog/pkg/database"
	"movie-catalog/pkg/middleware"
	"movie-catalog/pkg/utils"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("storage", config.Storage.Backend),
		zap.Bool("debug", config.App.Debug),
	)

	// Open the selected storage backend
	repos, closeStore, err := openRepository(ctx, config, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer closeStore()

	logger.Info("Storage ready", zap.String("backend", config.Storage.Backend))

	// Domain events
	publisher, err := events.NewPublisher(config.Broker.URL, config.Broker.Exchange, logger)
	if err != nil {
		logger.Fatal("Failed to connect to broker", zap.Error(err))
	}
	defer publisher.Close()

	// Rate limiting
	var limiter middleware.Limiter
	if config.RateLimit.Enabled {
		rdb, err := database.InitRedis(ctx, config.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		if rdb != nil {
			defer rdb.Close()
		}
		limiter = middleware.NewLimiter(config.RateLimit, rdb)
	}

	// Wire all dependencies
	app := wire.Wiring(repos, publisher, limiter, config, logger)

	if err := cmd.APIServer(ctx, app.Router, config, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}

func openRepository(ctx context.Context, config *utils.Config, logger *zap.Logger) (*repository.Repository, func(), error) {
	switch config.Storage.Backend {
	case utils.BackendPostgres:
		db, err := database.InitDB(ctx, config.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repository.NewRepository(db, logger), db.Close, nil

	case utils.BackendFile:
		store, err := database.InitFileStore(afero.NewOsFs(), config.File.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewFileRepository(store, logger), func() {}, nil

	default:
		client, db, err := database.InitMongo(ctx, config.Mongo)
		if err != nil {
			return nil, nil, err
		}
		closeClient := func() { _ = client.Disconnect(context.Background()) }

		repos, err := repository.NewMongoRepository(ctx, db, logger)
		if err != nil {
			closeClient()
			return nil, nil, err
		}
		return repos, closeClient, nil
	}
}
