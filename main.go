package main

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"file-drive/internal/audit"
	"file-drive/internal/config"
	"file-drive/internal/drive"
	"file-drive/internal/http"
	"file-drive/internal/http/middleware"
	"file-drive/internal/migrations"
	"file-drive/internal/repository/postgres"
	"file-drive/internal/session"
	"file-drive/internal/storage"
	"file-drive/internal/storage/local"
	"file-drive/internal/storage/s3"
	"file-drive/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	envFilePath      = ".env"
	serverAddrPrefix = ":"
	signalBufferSize = 1
)

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

func main() {
	envErr := godotenv.Load(envFilePath)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if envErr != nil {
		log.Info(".env file not found, using environment variables")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	log.Info("database connection established")

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(context.Background(), db.SQL); err != nil {
			return err
		}
		log.Info("migrations applied")
	}

	users := postgres.NewUserRepository(db.SQL)
	folders := postgres.NewFolderRepository(db.SQL)
	files := postgres.NewFileRepository(db.SQL)

	blobs, err := newBlobStore(&cfg.Storage)
	if err != nil {
		return err
	}
	log.Info("blob storage ready", zap.String("driver", cfg.Storage.Driver))

	var revocations session.RevocationList
	if cfg.Redis.Addr != "" {
		client := session.NewRedisClient(&cfg.Redis)
		defer client.Close()

		if err := client.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		revocations = session.NewRedisRevocationList(client)
		log.Info("session revocation enabled", zap.String("redis_addr", cfg.Redis.Addr))
	}

	sessions := session.NewManager(
		session.NewTokenService(cfg.Session.Secret, cfg.Session.TTL),
		revocations,
		users,
		&cfg.Session,
		log,
	)

	auditLogger := audit.NewLogger(db.SQL, log)
	defer auditLogger.Wait()

	server, err := http.NewServer(&http.ServerDependencies{
		Config:   cfg,
		DB:       db,
		Users:    users,
		Folders:  folders,
		Files:    files,
		Drive:    drive.NewService(folders, files, blobs, cfg.Storage.MaxUploadSize, log),
		Sessions: sessions,
		Audit:    auditLogger,
		Metrics:  middleware.NewMetrics(),
		Logger:   log,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := server.Start(serverAddrPrefix + cfg.Server.Port); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, signalBufferSize)
	signal.Notify(quit, shutdownSignals...)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited gracefully")
	return nil
}

func newBlobStore(cfg *config.StorageConfig) (storage.BlobStore, error) {
	switch cfg.Driver {
	case config.StorageDriverS3:
		svc, err := s3.NewClient(&cfg.S3)
		if err != nil {
			return nil, err
		}
		return s3.New(svc, cfg.S3.Bucket, cfg.UploadDir), nil
	default:
		store, err := local.New(cfg.UploadDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
