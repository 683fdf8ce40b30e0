package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/mohammad-safakhou/learntabs/config"
	"github.com/mohammad-safakhou/learntabs/internal/httpclient"
	"github.com/mohammad-safakhou/learntabs/internal/inference"
	"github.com/mohammad-safakhou/learntabs/internal/logger"
	"github.com/mohammad-safakhou/learntabs/internal/planner"
	"github.com/mohammad-safakhou/learntabs/internal/retriever"
	"github.com/mohammad-safakhou/learntabs/internal/settings"
	"github.com/mohammad-safakhou/learntabs/internal/sources"
	"github.com/mohammad-safakhou/learntabs/internal/telemetry"
)

// app holds the wired components shared by every command.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	registry  *prometheus.Registry
	retriever *retriever.Retriever
	planner   *planner.Planner
	closers   []func() error
}

func newApp(ctx context.Context, cfgPath string) (*app, error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.General.LogLevel, cfg.General.LogFormat)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: log}

	var metrics *telemetry.Metrics
	if cfg.Telemetry.Enabled {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = telemetry.NewMetrics(a.registry)
	}

	srcCfg := sources.Config{Endpoints: map[sources.Source]string{}}
	for name, endpoint := range cfg.Retrieval.Endpoints {
		srcCfg.Endpoints[sources.Source(name)] = endpoint
	}
	for _, name := range cfg.Retrieval.Disabled {
		srcCfg.Disabled = append(srcCfg.Disabled, sources.Source(name))
	}
	adapters, err := sources.New(srcCfg, httpclient.New(cfg.Retrieval.Timeout, cfg.Retrieval.UserAgent))
	if err != nil {
		return nil, err
	}
	a.retriever = retriever.New(adapters, log, metrics)

	gen := inference.New(inference.Config{
		BaseURL:      cfg.Inference.BaseURL,
		Model:        cfg.Inference.Model,
		MaxNewTokens: cfg.Inference.MaxNewTokens,
		Temperature:  &cfg.Inference.Temperature,
	}, httpclient.New(cfg.Inference.Timeout, cfg.Retrieval.UserAgent))

	a.planner = planner.New(a.settingsStore(ctx), gen, a.retriever, log, metrics)
	return a, nil
}

// settingsStore prefers redis and falls back to configured values.
func (a *app) settingsStore(ctx context.Context) settings.Store {
	static := settings.Static{
		settings.KeyToken: a.cfg.Inference.Token,
		settings.KeyModel: a.cfg.Inference.Model,
	}
	rc := a.cfg.Storage.Redis
	if !rc.Enabled() {
		return static
	}
	client, err := settings.Conn(ctx, settings.RedisOptions{
		Host:     rc.Host,
		Port:     rc.Port,
		Password: rc.Password,
		DB:       rc.DB,
		Timeout:  rc.Timeout,
	})
	if err != nil {
		a.logger.Warn("redis settings unavailable, using config values", zap.Error(err))
		return static
	}
	a.closers = append(a.closers, client.Close)
	return settings.Layered{settings.NewRedis(client, rc.KeyPrefix), static}
}

func (a *app) Close() {
	for _, c := range a.closers {
		_ = c()
	}
	_ = a.logger.Sync()
}
