package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	chirouter "chunkvault/internal/adapters/handlers/http/chi"
	uploadhandler "chunkvault/internal/adapters/handlers/http/chi/v1/upload"
	"chunkvault/internal/adapters/repository/postgres"
	"chunkvault/internal/adapters/storage/minio"
	"chunkvault/internal/config"
	"chunkvault/internal/core/port"
	"chunkvault/internal/core/service/access"
	"chunkvault/internal/core/service/chunk"
	"chunkvault/internal/core/service/cleanup"
	"chunkvault/internal/core/service/upload"
	"chunkvault/internal/core/sessionlock"

	natsbroker "chunkvault/internal/adapters/eventbroker/nats"

	_ "github.com/lib/pq"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {
			logger.Error("failed to close database", "error", err)
			os.Exit(1)
		}
	}(db)
	logger.Info("db connection established")

	//storage
	minioAdapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
	if err != nil {
		logger.Error("failed to init minio", "error", err)
		os.Exit(1)
	}

	//eventing
	publisher, err := natsbroker.NewNATSPublisher(ctx, cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to init nats publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	//repositories
	unitOfWork := postgres.NewUnitOfWork(db)
	sessionRepo := postgres.NewSQLUploadSessionRepository(db)

	// one locker shared by finalize, abort and the sweeper
	locker := sessionlock.New(cfg.Upload.LockTimeout)

	chunkService := chunk.NewChunkService(unitOfWork, minioAdapter)
	uploadService := upload.NewUploadService(unitOfWork, minioAdapter, locker, publisher, cfg.Upload, logger)
	accessService := access.NewAccessService(sessionRepo, minioAdapter, cfg.Access)
	cleanupService := cleanup.NewCleanupService(unitOfWork, minioAdapter, locker, publisher, logger)

	//http
	uploadHandler := uploadhandler.NewUploadHandlerV1(uploadService, chunkService, accessService, logger)

	router := chirouter.NewRouter(logger, uploadHandler, cfg.Env.Env)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// init sweep task
	wg.Add(1)
	go func() {
		defer wg.Done()
		initSweepTask(ctx, cleanupService, cfg.Upload.SweepEvery, logger)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}

func initSweepTask(ctx context.Context, service port.CleanupService, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("sweep task initialized", "interval", every)

	for {
		select {
		case <-ticker.C:
			logger.Info("sweep task starting")
			reclaimed, err := service.Sweep(ctx, time.Now())
			if err != nil {
				logger.Error("failed to sweep expired sessions", "error", err)
			} else {
				logger.Info("sweep task completed successfully", "reclaimed", reclaimed)
			}
		case <-ctx.Done():
			logger.Info("sweep task stopped")
			return
		}
	}

}
