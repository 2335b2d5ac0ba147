package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"devconnector/internal/config"
	"devconnector/internal/database"
	handlers "devconnector/internal/handler"
	"devconnector/internal/repository"
	"devconnector/internal/repository/memory"
	mongorepo "devconnector/internal/repository/mongo"
	"devconnector/internal/repository/postgres"
	"devconnector/internal/service"
	"devconnector/internal/storage"
)

// App holds everything the HTTP server needs.
type App struct {
	Config   *config.Config
	Log      logrus.FieldLogger
	Repo     *repository.Repository
	Services *service.Service
	Handlers *handlers.Handlers

	closers []func(context.Context) error
}

// New connects the configured backend and object storage and wires the
// services and handlers. Close must be called on shutdown.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	repo, err := a.connectRepository(ctx)
	if err != nil {
		return nil, err
	}
	a.Repo = repo

	// store stays a nil interface when MinIO is off.
	var store storage.Storage
	if cfg.MinIO.Enabled() {
		client, err := storage.NewMinIOClient(ctx, cfg.MinIO)
		if err != nil {
			_ = a.Close(ctx)
			return nil, fmt.Errorf("init minio: %w", err)
		}
		store = client
		log.WithField("bucket", cfg.MinIO.BucketName).Info("image storage ready")
	} else {
		log.Warn("MINIO_ENDPOINT not set, post images are disabled")
	}

	a.Services = service.NewService(repo, cfg, store, log)
	a.Handlers = handlers.NewHandlers(a.Services, cfg, log)
	return a, nil
}

func (a *App) connectRepository(ctx context.Context) (*repository.Repository, error) {
	log := a.Log.WithField("driver", a.Config.StorageDriver)

	switch a.Config.StorageDriver {
	case config.DriverPostgres:
		db, err := database.ConnectPostgres(ctx, a.Config.DB, log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })
		return postgres.NewRepository(db), nil

	case config.DriverMongo:
		client, db, err := database.ConnectMongo(ctx, a.Config.Mongo, log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Disconnect)
		return mongorepo.NewRepository(db), nil

	case config.DriverMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		return memory.NewRepository(), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", a.Config.StorageDriver)
	}
}

// Close releases backend connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
