package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/chekinn-backend/internal/clients/redis"
	"github.com/yungbote/chekinn-backend/internal/data/db"
	httpserver "github.com/yungbote/chekinn-backend/internal/http"
	"github.com/yungbote/chekinn-backend/internal/observability"
	"github.com/yungbote/chekinn-backend/internal/pkg/envutil"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
	"github.com/yungbote/chekinn-backend/internal/temporalx"
	"github.com/yungbote/chekinn-backend/internal/temporalx/matchgen"
	"github.com/yungbote/chekinn-backend/internal/temporalx/temporalworker"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *gorm.DB
	Metrics  *observability.Metrics
	Clients  Clients
	Repos    Repos
	Services Services
	Server   *httpserver.Server

	dbService    *db.Service
	otelShutdown func(context.Context) error
}

// New loads configuration, connects the database and the external clients,
// and wires every layer.
func New(ctx context.Context, log *logger.Logger) (*App, error) {
	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	shutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	dbs, err := openDB(cfg, log)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	clients, err := wireClients(cfg, log)
	if err != nil {
		dbs.Close()
		_ = shutdown(ctx)
		return nil, err
	}

	a := assemble(log, cfg, dbs.DB(), sharedOracles(clients.OpenAI), clients, observability.Init(log))
	a.dbService = dbs
	a.otelShutdown = shutdown
	return a, nil
}

func assemble(log *logger.Logger, cfg Config, theDB *gorm.DB, oracles Oracles, clients Clients, metrics *observability.Metrics) *App {
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, oracles, clients, metrics)
	handlerset := wireHandlers(log, theDB, serviceset)
	return &App{
		Log:      log,
		Cfg:      cfg,
		DB:       theDB,
		Metrics:  metrics,
		Clients:  clients,
		Repos:    reposet,
		Services: serviceset,
		Server:   wireServer(log, cfg, metrics, handlerset),
	}
}

func openDB(cfg Config, log *logger.Logger) (*db.Service, error) {
	dbs, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if envutil.Bool("DB_AUTO_MIGRATE", true, log) {
		if err := db.AutoMigrateAll(dbs.DB()); err != nil {
			dbs.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}
	return dbs, nil
}

// Migrate applies the schema and exits without wiring clients.
func Migrate(log *logger.Logger) error {
	dbs, err := db.Open(db.LoadConfig(log), log)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer dbs.Close()
	if err := db.AutoMigrateAll(dbs.DB()); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	log.Info("Schema migrated")
	return nil
}

// Serve runs the HTTP API until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.startCollectors(ctx)
	a.Log.Info("HTTP server listening", "addr", a.Cfg.HTTPAddr)
	return a.Server.Run(ctx, a.Cfg.HTTPAddr)
}

// RunWorker polls the Temporal matching queue until ctx is cancelled.
func (a *App) RunWorker(ctx context.Context) error {
	tc, err := temporalx.NewClient(a.Cfg.Temporal, a.Log)
	if err != nil {
		return err
	}
	if tc == nil {
		return fmt.Errorf("worker requires TEMPORAL_ADDRESS")
	}
	defer tc.Close()

	runner, err := temporalworker.NewRunner(a.Log, tc, a.Cfg.Temporal, a.Services.Matching)
	if err != nil {
		return err
	}
	a.startCollectors(ctx)
	if err := runner.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// GenerateIntros runs one match generation for userID. With viaTemporal the
// run is submitted as a workflow; otherwise it runs in process.
func (a *App) GenerateIntros(ctx context.Context, userID uuid.UUID, maxMatches int, viaTemporal bool) (matchgen.Result, error) {
	if !viaTemporal {
		acts := &matchgen.Activities{Log: a.Log, Matching: a.Services.Matching}
		return acts.Generate(ctx, matchgen.Input{UserID: userID.String(), MaxMatches: maxMatches})
	}
	tc, err := temporalx.NewClient(a.Cfg.Temporal, a.Log)
	if err != nil {
		return matchgen.Result{}, err
	}
	if tc == nil {
		return matchgen.Result{}, fmt.Errorf("--temporal requires TEMPORAL_ADDRESS")
	}
	defer tc.Close()
	return matchgen.Run(ctx, tc, a.Cfg.Temporal.TaskQueue, matchgen.Input{UserID: userID.String(), MaxMatches: maxMatches})
}

func (a *App) startCollectors(ctx context.Context) {
	a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
	a.Metrics.StartRedisCollector(ctx, a.Log, redis.Client(a.Clients.IntroBus))
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.dbService != nil {
		a.dbService.Close()
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}

