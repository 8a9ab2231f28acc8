package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giygas/emergency-reference/assets"
	"github.com/giygas/emergency-reference/conditionsparser"
	"github.com/giygas/emergency-reference/config"
	"github.com/giygas/emergency-reference/data"
	"github.com/giygas/emergency-reference/handlers"
	"github.com/giygas/emergency-reference/health"
	"github.com/giygas/emergency-reference/interfaces"
	"github.com/giygas/emergency-reference/logging"
	"github.com/giygas/emergency-reference/scheduler"
	"github.com/giygas/emergency-reference/search"
	"github.com/giygas/emergency-reference/server"
	"github.com/giygas/emergency-reference/storage"
	"github.com/giygas/emergency-reference/userstate"
	"github.com/giygas/emergency-reference/validation"
	"github.com/joho/godotenv"
)

// bundledDatasetPath is where the offline shell fetches the dataset from.
const bundledDatasetPath = "/data/emergencyConditions.json"

type userStore interface {
	interfaces.KeyValueStore
	health.Pinger
}

// openStore picks the user state backend named by the configuration
func openStore(ctx context.Context, cfg *config.Config) (userStore, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return storage.NewMemoryStore(), nil
	case config.StoreRedis:
		return storage.NewRedisStore(ctx, storage.RedisOptions{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
		})
	default:
		return storage.NewFileStore(cfg.StorePath)
	}
}

func main() {
	// A missing .env is fine: the environment may already be set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to read .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.InitLoggerWithOptions(logging.Options{
		Dir:            cfg.LogDir,
		Env:            cfg.Env,
		Level:          cfg.LogLevel,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
	})
	defer logging.Close()

	logging.Info("Starting emergency reference service", "env", cfg.Env, "store", cfg.StoreBackend)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := openStore(ctx, cfg)
	cancel()
	if err != nil {
		logging.Error("Failed to open user state store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	state := userstate.New(store)
	if err := state.Load(context.Background()); err != nil {
		// Unreadable keys fall back to empty collections
		logging.Warn("User state loaded with errors", "error", err)
	}

	dataContainer := data.NewDataContainer()
	dataContainer.SetServerStartTime(time.Now())
	validator := validation.NewDataValidator()
	loader := conditionsparser.NewConditionsParser(cfg.DatasetPath, cfg.DatasetEncoding)

	sched := scheduler.NewScheduler(dataContainer, loader, validator, cfg.DatasetReloadInterval)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to load the condition dataset", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	engine := search.NewEngine(dataContainer, state, cfg.FilterCacheSize)
	healthChecker := health.NewHealthChecker(dataContainer, store).WithSchedule(sched)
	httpHandler := handlers.NewHTTPHandler(dataContainer, validator, engine, state, healthChecker).
		WithMaxBodyBytes(cfg.MaxRequestBody)

	worker := setupAssetWorker(cfg)

	srv := server.NewServer(cfg, httpHandler, worker)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Shutdown failed", "error", err)
	}
}

// setupAssetWorker installs and activates the offline asset cache over the
// static directory, with the bundled dataset served at its fixed path. A
// failed install leaves the worker serving straight from the origin.
func setupAssetWorker(cfg *config.Config) *assets.Worker {
	origin := assets.NewFSOrigin(os.DirFS(cfg.StaticDir), map[string][]byte{
		bundledDatasetPath: conditionsparser.BundledDocument(),
	})
	worker := assets.NewWorker(assets.NewStorage(), origin, cfg.AssetCacheVersion)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := worker.Install(ctx); err != nil {
		logging.Warn("Asset precache failed, serving from origin", "static_dir", cfg.StaticDir, "error", err)
		return worker
	}
	if deleted := worker.Activate(); len(deleted) > 0 {
		logging.Info("Removed stale asset caches", "caches", deleted)
	}
	return worker
}
