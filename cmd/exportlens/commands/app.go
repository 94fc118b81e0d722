package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/exportlens/backend/internal/contracts"
	"github.com/exportlens/backend/internal/ingest"
	"github.com/exportlens/backend/internal/peers"
	"github.com/exportlens/backend/internal/pipeline"
	"github.com/exportlens/backend/internal/runconfig"
	"github.com/exportlens/backend/internal/store"
	"github.com/exportlens/backend/pkg/config"
	"github.com/exportlens/backend/pkg/database"
	"github.com/exportlens/backend/pkg/httputil"
	"github.com/exportlens/backend/pkg/logger"
	"github.com/exportlens/backend/pkg/redis"
)

// app bundles the wired dependencies shared by the commands.
type app struct {
	cfg    *config.Config
	runCfg *runconfig.Config
	log    *logger.Logger
	db     *database.DB
	redis  *redis.Client
	store  *store.OutputStore
	cache  contracts.FingerprintCache
	runner *pipeline.Runner
}

// newApp loads configuration and wires the full dependency graph.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	runCfg, err := runconfig.LoadOrDefault(cfg.RunConfigPath)
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := store.EnsureSchema(ctx, db.Pool); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	curated, err := peers.LoadCuratedAssigner(cfg.PeerGroupPath)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, err
	}

	outputStore := store.NewOutputStore(db.Pool, log)
	cache := redis.NewFingerprintCache(redisClient, "exportlens", 90*24*time.Hour)

	reader := ingest.NewReader(httputil.New(log), cfg.TradeValueScale, log)
	assigners := []peers.Assigner{
		curated,
		peers.NewTradeStructureAssigner(runCfg.Clustering),
		peers.NewOpportunityAssigner(runCfg.Clustering),
	}

	runner := pipeline.NewRunner(cfg.RefCountry, runCfg, reader, assigners, outputStore, cache, log)

	return &app{
		cfg:    cfg,
		runCfg: runCfg,
		log:    log,
		db:     db,
		redis:  redisClient,
		store:  outputStore,
		cache:  cache,
		runner: runner,
	}, nil
}

func (a *app) Close() {
	a.redis.Close()
	a.db.Close()
}
