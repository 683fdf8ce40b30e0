// Package planner turns a learning goal into a tab group. It tries a hosted
// language model when a token is stored, then live retrieval, then a fixed
// list of search links, so Plan always returns a usable response.
package planner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mohammad-safakhou/learntabs/internal/settings"
	"github.com/mohammad-safakhou/learntabs/internal/tabs"
	"github.com/mohammad-safakhou/learntabs/internal/telemetry"
)

// DefaultMaxTabs applies to every strategy when the instruction has no maxTabs.
const DefaultMaxTabs = 12

const (
	StrategyInference = "inference"
	StrategyRetrieval = "retrieval"
	StrategyFallback  = "fallback"
)

// Generator produces a completion for prompt.
type Generator interface {
	Generate(ctx context.Context, token, model, prompt string) (string, error)
}

// Retriever ranks live search results for an instruction.
type Retriever interface {
	Retrieve(ctx context.Context, in tabs.Instruction) []tabs.GeneratedTab
}

// Planner picks the first strategy that yields tabs.
type Planner struct {
	settings  settings.Store
	generator Generator
	retriever Retriever
	logger    *zap.Logger
	metrics   *telemetry.Metrics
}

// New wires a planner. Any collaborator may be nil, which disables the
// strategy that needs it.
func New(store settings.Store, gen Generator, ret Retriever, logger *zap.Logger, metrics *telemetry.Metrics) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		settings:  store,
		generator: gen,
		retriever: ret,
		logger:    logger.Named("planner"),
		metrics:   metrics,
	}
}

// Plan never fails. Strategy errors are logged and the next one is tried.
func (p *Planner) Plan(ctx context.Context, in tabs.Instruction) tabs.GenerateResponse {
	start := time.Now()
	log := p.logger.With(zap.String("style", string(in.EffectiveStyle())))

	if resp, ok := p.fromModel(ctx, in, log); ok {
		p.done(StrategyInference, resp, start, log)
		return resp
	}

	if p.retriever != nil {
		found := p.retriever.Retrieve(ctx, in.WithMaxTabs(DefaultMaxTabs))
		if len(found) > 0 {
			resp := FromRetrieval(in, found)
			p.done(StrategyRetrieval, resp, start, log)
			return resp
		}
		log.Info("retrieval returned no tabs")
	}

	resp := Fallback(in)
	p.done(StrategyFallback, resp, start, log)
	return resp
}

func (p *Planner) fromModel(ctx context.Context, in tabs.Instruction, log *zap.Logger) (tabs.GenerateResponse, bool) {
	if p.generator == nil || p.settings == nil {
		return tabs.GenerateResponse{}, false
	}
	token := p.setting(ctx, settings.KeyToken, log)
	if token == "" {
		return tabs.GenerateResponse{}, false
	}
	model := p.setting(ctx, settings.KeyModel, log)

	text, err := p.generator.Generate(ctx, token, model, BuildPrompt(in))
	if err != nil {
		log.Warn("inference failed", zap.Error(err))
		return tabs.GenerateResponse{}, false
	}
	resp, err := ParseCompletion(text, in)
	if err != nil {
		log.Warn("unusable completion", zap.Error(err))
		return tabs.GenerateResponse{}, false
	}
	return resp, true
}

func (p *Planner) setting(ctx context.Context, key string, log *zap.Logger) string {
	v, err := p.settings.Get(ctx, key)
	if err != nil {
		log.Warn("settings read failed", zap.String("key", key), zap.Error(err))
	}
	return v
}

func (p *Planner) done(strategy string, resp tabs.GenerateResponse, start time.Time, log *zap.Logger) {
	p.metrics.ObservePlan(strategy)
	log.Info("plan ready",
		zap.String("strategy", strategy),
		zap.Int("tabs", len(resp.Tabs)),
		zap.Duration("took", time.Since(start)))
}
