// Package app wires configuration, services, and handlers for the serving
// process.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ternarybob/arbor"

	"github.com/jzhengTT/compatibility-matrix/internal/common"
	"github.com/jzhengTT/compatibility-matrix/internal/handlers"
	"github.com/jzhengTT/compatibility-matrix/internal/interfaces"
	"github.com/jzhengTT/compatibility-matrix/internal/services/cache"
	"github.com/jzhengTT/compatibility-matrix/internal/services/converter"
	"github.com/jzhengTT/compatibility-matrix/internal/services/registry"
	"github.com/jzhengTT/compatibility-matrix/internal/services/s3"
	"github.com/jzhengTT/compatibility-matrix/internal/services/scheduler"
	"github.com/jzhengTT/compatibility-matrix/internal/services/sources"
	storagebadger "github.com/jzhengTT/compatibility-matrix/internal/storage/badger"
)

// App holds the wired services and handlers for the HTTP server.
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	Cache      *cache.Service
	RunStorage interfaces.RunStorage
	Scheduler  *scheduler.Service

	CompatibilityHandler *handlers.CompatibilityHandler
	RunsHandler          *handlers.RunsHandler
	APIHandler           *handlers.APIHandler

	closers []io.Closer
}

// New builds the application. The document fetch goes to S3 when upload is
// enabled (the published copy is authoritative) and to the local artifact
// otherwise. The scheduler, when enabled, runs the full conversion pipeline
// and clears the cache after each successful run.
func New(ctx context.Context, cfg *common.Config) (*App, error) {
	logger := common.GetLogger()

	a := &App{
		Config: cfg,
		Logger: logger,
	}

	var fetcher interfaces.DocumentFetcher
	if cfg.S3.Enabled {
		client, err := s3.NewClient(ctx, cfg.S3, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		fetcher = client
	} else {
		fetcher = localFetcher{path: cfg.Output.Path}
	}

	a.Cache = cache.NewService(fetcher.FetchDocument, cfg.Cache.TTLDuration(), logger)

	if cfg.Storage.Badger.Enabled {
		store, err := storagebadger.Open(cfg.Storage.Badger.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open run store: %w", err)
		}
		runStorage := storagebadger.NewRunStorage(store)
		a.RunStorage = runStorage
		a.closers = append(a.closers, runStorage)
	}

	if cfg.Scheduler.Enabled {
		if err := a.initScheduler(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	a.CompatibilityHandler = handlers.NewCompatibilityHandler(a.Cache, logger)
	a.RunsHandler = handlers.NewRunsHandler(a.RunStorage, logger)
	a.APIHandler = handlers.NewAPIHandler()

	return a, nil
}

func (a *App) initScheduler(ctx context.Context) error {
	reg, err := registry.Load(a.Config.Registry.Path, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	source, closer, err := NewSource(ctx, a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize record source: %w", err)
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	var uploader interfaces.Uploader
	if a.Config.S3.Enabled {
		client, err := s3.NewClient(ctx, a.Config.S3, a.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		uploader = client
	}

	pipeline := converter.NewService(a.Config, a.Logger, reg, source, uploader, a.RunStorage)
	a.Scheduler = scheduler.NewService(a.Config.Scheduler.Schedule, func(runCtx context.Context) error {
		_, err := pipeline.Run(runCtx)
		if err == nil {
			a.Cache.Clear()
		}
		return err
	}, a.Logger)

	return nil
}

// NewSource builds the configured record source. The returned closer is nil
// for sources without connections to release.
func NewSource(ctx context.Context, cfg *common.Config, logger arbor.ILogger) (interfaces.RecordSource, io.Closer, error) {
	switch cfg.Source.Type {
	case "database":
		src, err := sources.OpenPostgres(ctx, cfg.Source.Database.DSN(), logger)
		if err != nil {
			return nil, nil, err
		}
		return src, src, nil
	case "excel":
		return sources.NewExcelSource(cfg.Source.Excel.Path, cfg.Source.Excel.Sheet, logger), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown source type %q", cfg.Source.Type)
	}
}

// Close releases application resources in reverse acquisition order.
func (a *App) Close() {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close resource")
		}
	}
	a.closers = nil
}

// localFetcher reads the conversion artifact from disk for deployments that
// serve without S3.
type localFetcher struct {
	path string
}

func (f localFetcher) FetchDocument(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", f.path, err)
	}
	return data, nil
}
