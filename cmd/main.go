package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	httpadapter "adledger/internal/adapter/http"
	boltledger "adledger/internal/adapter/ledger/bbolt"
	levelledger "adledger/internal/adapter/ledger/leveldb"
	"adledger/internal/adapter/ledger/memory"
	"adledger/internal/adapter/postgres"
	"adledger/internal/adapter/usecase"
	"adledger/internal/config"
	"adledger/internal/config/configs"
	"adledger/internal/core/port"
	"adledger/internal/db"
)

// main is the entry point of the ledger service. It loads configuration,
// opens the configured world-state backend, optionally seeds it, then
// serves invocations over HTTP. On a termination signal it drains
// in-flight requests and exits with 128+signal.
func main() {
	exitCode := 1
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		} else {
			os.Exit(exitCode)
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		return
	}

	logger := cfg.Log.NewLogger(os.Stdout).With(slog.String("env", cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ledger, closeLedger, err := openLedger(ctx, cfg, logger)
	if err != nil {
		logger.Error("ledger open error", slog.Any("error", err))
		return
	}
	defer closeLedger()

	svc := usecase.NewAssetUseCase(ledger, logger)

	if cfg.Ledger.Seed {
		tx := port.TxContext{TxID: uuid.NewString(), Timestamp: time.Now().UTC()}
		if err = svc.InitLedger(ctx, tx); err != nil {
			logger.Error("seed error", slog.Any("error", err))
			return
		}
		logger.Info("ledger seeded", slog.Int("assets", len(usecase.DemoAssets())))
	}

	handler := httpadapter.NewHandler(svc, logger)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case value := <-quit:
		exitCode = 128 + int(value.(syscall.Signal))
	case err = <-serverErr:
		logger.Error("server error", slog.Any("error", err))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancelShutdown()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}
}

// openLedger builds the backend selected by cfg.Ledger. The returned func
// releases it.
func openLedger(ctx context.Context, cfg config.Config, logger *slog.Logger) (port.Ledger, func(), error) {
	kind, err := cfg.Ledger.Kind()
	if err != nil {
		return nil, nil, err
	}
	logger = logger.With(slog.String("backend", kind))

	switch kind {
	case configs.BackendBolt:
		l, err := boltledger.Open(cfg.Ledger.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("ledger opened", slog.String("path", cfg.Ledger.Path))
		return l, closer(logger, l.Close), nil

	case configs.BackendLevelDB:
		l, err := levelledger.Open(cfg.Ledger.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("ledger opened", slog.String("path", cfg.Ledger.Path))
		return l, closer(logger, l.Close), nil

	case configs.BackendPostgres:
		if cfg.Psql.RunMigrations {
			if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
			logger.Info("migrations applied successfully")
		}
		pool, err := db.NewPostgresPool(ctx, cfg.Psql)
		if err != nil {
			return nil, nil, fmt.Errorf("database connection: %w", err)
		}
		logger.Info("ledger opened")
		return postgres.NewLedger(pool), pool.Close, nil

	default:
		logger.Warn("using in-memory ledger; state is lost on exit")
		return memory.NewLedger(), func() {}, nil
	}
}

func closer(logger *slog.Logger, closeFn func() error) func() {
	return func() {
		if err := closeFn(); err != nil {
			logger.Error("ledger close error", slog.Any("error", err))
		}
	}
}
