package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"portfolio/config"
	"portfolio/database"
	"portfolio/events"
	"portfolio/gateway"
	"portfolio/localstore"
	"portfolio/logger"
	"portfolio/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App bundles the services every command builds on. DB, Bucket and Relay
// are nil when their backing service is not configured.
type App struct {
	Config  *config.Config
	Log     *zap.Logger
	DB      *database.DB
	Bucket  *storage.Bucket
	Gateway *gateway.Gateway
	KV      *localstore.Store
	Bus     *events.Bus
	Relay   *events.RedisRelay
	redis   *redis.Client
}

// Setup connects to whatever the configuration enables. A missing
// database is not an error: the gateway runs unconfigured.
func Setup(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log, Bus: events.NewBus()}

	if err := os.MkdirAll(filepath.Dir(cfg.LocalStorePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create local store dir: %w", err)
	}
	kv, err := localstore.Open(cfg.LocalStorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	app.KV = kv

	var store gateway.Store
	if cfg.DatabaseConfigured() {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		db, err := database.Connect(connectCtx, cfg.DatabaseURL, log)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.DB = db
		store = db
	} else {
		log.Warn("DATABASE_URL not set, running without the remote data service")
	}

	var objects gateway.ObjectStore
	bucket, err := storage.NewBucket(cfg.StorageDir, cfg.StorageBucket, cfg.PublicBaseURL)
	if err != nil {
		log.Warn("Image uploads disabled", zap.Error(err))
	} else {
		app.Bucket = bucket
		objects = bucket
	}

	app.Gateway = gateway.New(store, objects, log)

	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		app.redis = redis.NewClient(opt)
		app.Relay = events.NewRedisRelay(app.Bus, app.redis, log)
	}

	return app, nil
}

// Events is the publisher commands should emit refresh events on.
func (a *App) Events() events.Publisher {
	if a.Relay != nil {
		return a.Relay
	}
	return a.Bus
}

func (a *App) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
	if a.KV != nil {
		a.KV.Close()
	}
	a.Log.Sync()
}

// run loads config and logging, builds the App and hands it to fn.
func run(ctx context.Context, module string, fn func(ctx context.Context, app *App) error) error {
	cfg := config.Load()
	log := logger.Module(logger.New(cfg.LogFile, cfg.IsProduction()), module)

	app, err := Setup(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(ctx, app)
}
