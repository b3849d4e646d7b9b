// Package app wires the generator together with uber-fx and runs the
// configured job sequence.
package app

import (
	"context"
	"embed"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/shopseed/shopseed/internal/config"
	"github.com/shopseed/shopseed/internal/generator"
	"github.com/shopseed/shopseed/internal/metrics"
	"github.com/shopseed/shopseed/internal/migration"
	"github.com/shopseed/shopseed/internal/repository"
	"github.com/shopseed/shopseed/pkg/database"
	"github.com/shopseed/shopseed/pkg/storage"
	"github.com/shopseed/shopseed/pkg/storage/local"
	"github.com/shopseed/shopseed/pkg/support/configbinder"
	"github.com/shopseed/shopseed/pkg/support/logger"
)

// migrationsPath is the directory inside the embedded FS that holds the
// SQL migration files.
const migrationsPath = "resources/migrations"

// RunID identifies one generator run in logs.
type RunID string

// NewRunID generates a fresh run identifier.
func NewRunID() RunID {
	return RunID(uuid.New().String())
}

// RunApplication sets up the fx container and runs the configured job
// sequence. overrides holds -D command line properties applied on top of the
// loaded configuration.
func RunApplication(appCtx context.Context, envFilePath string, embeddedConfig config.EmbeddedConfig, migrationsFS embed.FS, overrides map[string]interface{}) error {
	app := fx.New(
		fx.Supply(
			embeddedConfig,
			fx.Annotate(envFilePath, fx.ResultTags(`name:"envFilePath"`)),
			fx.Annotate(
				appCtx,
				fx.As(new(context.Context)),
				fx.ResultTags(`name:"appCtx"`),
			),
		),
		logger.Module,
		fx.Provide(
			newConfig(overrides),
			NewRunID,
			newDatabaseConnection,
			repository.NewStore,
			migration.NewMigrator,
			newStorageConnection,
			newRecorder,
			newRegistry(migrationsFS),
		),
		fx.Invoke(fx.Annotate(startGeneration, fx.ParamTags(
			"",              // lc fx.Lifecycle
			"",              // shutdowner fx.Shutdowner
			"",              // registry *generator.Registry
			"",              // cfg *config.Config
			"",              // rec metrics.Recorder
			"",              // runID RunID
			`name:"appCtx"`, // appCtx context.Context
		))),
	)

	app.Run()
	return app.Err()
}

// newConfig builds the fx config provider: the layered loader followed by
// the command line property overrides.
func newConfig(overrides map[string]interface{}) func(params config.ConfigParams) (*config.Config, error) {
	return func(params config.ConfigParams) (*config.Config, error) {
		cfg, err := config.NewConfigProvider(params)
		if err != nil {
			return nil, err
		}
		if len(overrides) > 0 {
			// -D properties bind onto the shopseed subtree with weak typing,
			// so -D seed=7 and -D generator.payments.batch_size=5000 work.
			if err := configbinder.BindProperties(overrides, &cfg.Shopseed); err != nil {
				return nil, fmt.Errorf("failed to apply command line overrides: %w", err)
			}
			if err := config.Validate(cfg); err != nil {
				return nil, fmt.Errorf("configuration invalid after command line overrides: %w", err)
			}
		}
		return cfg, nil
	}
}

func newDatabaseConnection(lc fx.Lifecycle, cfg *config.Config) (*database.Connection, error) {
	conn, err := database.Open(cfg.Shopseed.Database)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return conn.Close()
		},
	})
	return conn, nil
}

func newStorageConnection(lc fx.Lifecycle, cfg *config.Config) (storage.Connection, error) {
	var conn storage.Connection
	var err error
	switch cfg.Shopseed.Storage.Type {
	case local.ProviderType, "":
		conn, err = local.NewLocalAdapter(cfg.Shopseed.Storage.Path)
	default:
		return nil, fmt.Errorf("unsupported storage type: '%s'", cfg.Shopseed.Storage.Type)
	}
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return conn.Close()
		},
	})
	return conn, nil
}

func newRecorder(cfg *config.Config) metrics.Recorder {
	if !cfg.Shopseed.Metrics.Enabled {
		return metrics.NewNoopRecorder()
	}
	rec := metrics.NewPrometheusRecorder()
	if addr := cfg.Shopseed.Metrics.ListenAddress; addr != "" {
		rec.Serve(addr)
	}
	return rec
}

// newRegistry registers every known job. The configured shopseed.jobs list
// selects which of them actually run, and in what order.
func newRegistry(migrationsFS embed.FS) func(cfg *config.Config, store repository.Store, migrator migration.Migrator, storageConn storage.Connection, rec metrics.Recorder) *generator.Registry {
	return func(cfg *config.Config, store repository.Store, migrator migration.Migrator, storageConn storage.Connection, rec metrics.Recorder) *generator.Registry {
		reg := generator.NewRegistry()
		reg.Register(generator.NewMigrateJob(migrator, migrationsFS, migrationsPath))
		reg.Register(generator.NewResetJob(store))
		reg.Register(generator.NewCustomersJob(cfg, store, rec))
		reg.Register(generator.NewOrdersJob(cfg, store, rec))
		reg.Register(generator.NewOrderItemsJob(cfg, store, rec))
		reg.Register(generator.NewPaymentsJob(cfg, store, rec))
		reg.Register(generator.NewReturnsJob(cfg, store, rec))
		reg.Register(generator.NewExportJob(store, storageConn, "payments"))
		return reg
	}
}

// startGeneration runs the job sequence in a goroutine once the container is
// up, then requests shutdown.
func startGeneration(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	registry *generator.Registry,
	cfg *config.Config,
	rec metrics.Recorder,
	runID RunID,
	appCtx context.Context,
) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer func() {
					if r := recover(); r != nil {
						logger.Errorf("Panic recovered during generation run %s: %v", runID, r)
					}
					if err := shutdowner.Shutdown(); err != nil {
						logger.Errorf("Failed to shutdown application: %v", err)
					}
				}()

				logger.Infof("Generation run %s starting with seed %d: jobs=%v", runID, cfg.Shopseed.Seed, cfg.Shopseed.Jobs)
				if err := registry.RunSequence(appCtx, cfg.Shopseed.Jobs, rec); err != nil {
					logger.Errorf("Generation run %s failed: %v", runID, err)
					return
				}
				logger.Infof("Generation run %s completed.", runID)
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			logger.Infof("Application is shutting down.")
			return nil
		},
	})
}
