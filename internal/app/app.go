package app

import (
	"context"
	"fmt"
	"log/slog"

	"noctua/internal/config"
	"noctua/internal/domain"
	"noctua/internal/infrastructure/feed"
	"noctua/internal/infrastructure/snapshot"
	"noctua/internal/logging"
	"noctua/internal/ports"
	"noctua/internal/usecase"
)

// Application wires configuration to the pipeline stages.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	store      ports.SnapshotStore
	downloader *usecase.Downloader
	engine     *usecase.FilterEngine
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	fetcher := feed.NewFetcher(feed.NewHTTPClient(), baseLogger.With("component", "fetcher"))

	return &Application{
		cfg:        cfg,
		logger:     baseLogger,
		store:      snapshot.NewStore(cfg.OutputDir()),
		downloader: usecase.NewDownloader(fetcher, baseLogger.With("component", "download")),
		engine:     usecase.NewFilterEngine(baseLogger.With("component", "filter")),
	}
}

// Run executes the named pipeline stage.
func (a *Application) Run(ctx context.Context, stage string) error {
	switch stage {
	case domain.StepDownload:
		return a.Download(ctx)
	case domain.StepFilter:
		return a.Filter(ctx)
	case "run":
		if err := a.Download(ctx); err != nil {
			return err
		}
		return a.Filter(ctx)
	default:
		return fmt.Errorf("unknown stage %q (expected download, filter or run)", stage)
	}
}

// Download fetches all configured feeds and saves the download snapshot.
func (a *Application) Download(ctx context.Context) error {
	data := a.downloader.Run(ctx, a.cfg)

	path, err := a.store.Save(data, domain.StepDownload)
	if err != nil {
		return fmt.Errorf("save download snapshot: %w", err)
	}

	a.logger.Info("download complete",
		"articles", data.TotalArticles(),
		"sections", len(data.Sections),
		"output", path)
	return nil
}

// Filter loads the download snapshot, marks articles against the effective
// policies, reports the decisions, then drops the flagged articles and
// saves the filter snapshot.
func (a *Application) Filter(ctx context.Context) error {
	data, err := a.store.Load(domain.StepDownload)
	if err != nil {
		return err
	}

	a.logger.Info("loaded download snapshot", "articles", data.TotalArticles())

	stats := a.engine.Run(a.cfg, data)

	a.logger.Info("filtering summary",
		"total", stats.Total,
		"kept", stats.Kept,
		"filtered", stats.Filtered)
	for reason, count := range stats.Reasons {
		a.logger.Info("filter reason", "reason", reason, "count", count)
	}

	usecase.RemoveFiltered(data)

	path, err := a.store.Save(data, domain.StepFilter)
	if err != nil {
		return fmt.Errorf("save filter snapshot: %w", err)
	}

	a.logger.Info("filter complete",
		"remaining", data.TotalArticles(),
		"output", path)
	return nil
}
