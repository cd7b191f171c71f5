package app

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/AIObjectives/tttc-light-js-sub001/internal/config"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/infrastructure/notify"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/infrastructure/storage"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/logging"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/ports"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/pyserver"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/retry"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/rows"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/usecase"
)

// Application wires configuration to the pipeline and its adapters.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	client *pyserver.Client
	store  ports.ReportStore
	notify ports.Notifier
	rows   *rows.Registry
	db     *sql.DB
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	client := pyserver.New(cfg.PyServer, retryOptions(cfg.Retry), baseLogger.With("component", "pyserver"))

	application := &Application{
		cfg:    cfg,
		logger: baseLogger,
		client: client,
		rows:   rows.NewRegistry(),
	}

	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		application.db = db
		application.store = storage.NewPostgresRepository(db)
	}

	if cfg.Notifications.WebhookURL != "" {
		application.notify = notify.NewWebhookNotifier(cfg.Notifications.WebhookURL)
	}

	return application, nil
}

// Logger exposes the base logger for command-level output.
func (a *Application) Logger() *slog.Logger {
	return a.logger
}

// Rows exposes the input row loader registry.
func (a *Application) Rows() *rows.Registry {
	return a.rows
}

// Client exposes the processing-service client for direct probes.
func (a *Application) Client() *pyserver.Client {
	return a.client
}

// PipelineFor builds a pipeline bound to one report id, so the
// correlation header follows every stage call of that run.
func (a *Application) PipelineFor(reportID string) *usecase.Pipeline {
	return usecase.NewPipeline(usecase.PipelineDeps{
		Service:  a.client.WithReport(reportID),
		Store:    a.store,
		Notifier: a.notify,
		Logger:   a.logger.With("component", "pipeline"),
	})
}

// Close flushes pooled connections and the database handle.
func (a *Application) Close() error {
	if a.client != nil {
		a.client.Close()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func retryOptions(cfg config.RetryConfig) retry.Options {
	opts := retry.DefaultOptions()
	if cfg.Retries > 0 {
		opts.Retries = cfg.Retries
	}
	if cfg.Factor > 0 {
		opts.Factor = cfg.Factor
	}
	if cfg.MinDelay > 0 {
		opts.MinDelay = cfg.MinDelay
	}
	if cfg.MaxDelay > 0 {
		opts.MaxDelay = cfg.MaxDelay
	}
	if cfg.OperationTimeout > 0 {
		opts.OperationTimeout = cfg.OperationTimeout
	}
	return opts
}
