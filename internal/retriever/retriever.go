// Package retriever fans a learning goal out to every source adapter and
// ranks the merged candidates into a bounded tab list.
package retriever

import (
	"context"
	"sort"
	"time"

	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"

	"github.com/mohammad-safakhou/learntabs/internal/helpers"
	"github.com/mohammad-safakhou/learntabs/internal/sources"
	"github.com/mohammad-safakhou/learntabs/internal/tabs"
	"github.com/mohammad-safakhou/learntabs/internal/telemetry"
)

// DefaultMaxTabs applies when the instruction carries no maxTabs.
const DefaultMaxTabs = 10

// Retriever merges and ranks candidates from a fixed set of adapters.
type Retriever struct {
	adapters []sources.Adapter
	logger   *zap.Logger
	metrics  *telemetry.Metrics
}

// New returns a Retriever over adapters in fan-out order. logger and metrics
// may be nil.
func New(adapters []sources.Adapter, logger *zap.Logger, metrics *telemetry.Metrics) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{adapters: adapters, logger: logger.Named("retriever"), metrics: metrics}
}

// Retrieve queries every adapter concurrently and returns at most
// in.Limit(DefaultMaxTabs) tabs, best first, with no two sharing a canonical
// URL. Adapter failures contribute nothing. An empty goal returns nil without
// any outbound request.
func (r *Retriever) Retrieve(ctx context.Context, in tabs.Instruction) []tabs.GeneratedTab {
	query := in.Query()
	if query == "" {
		return nil
	}
	start := time.Now()

	// one goroutine per adapter; the default limit is GOMAXPROCS
	mapper := iter.Mapper[sources.Adapter, []sources.Candidate]{MaxGoroutines: max(len(r.adapters), 1)}
	results := mapper.Map(r.adapters, func(a *sources.Adapter) []sources.Candidate {
		return r.search(ctx, *a, query)
	})

	var merged []sources.Candidate
	for _, res := range results {
		merged = append(merged, res...)
	}
	unique := dedup(merged)
	duplicates := len(merged) - len(unique)

	style := in.EffectiveStyle()
	for i := range unique {
		unique[i].Score += Boost(style, unique[i].URL)
	}
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Score > unique[j].Score
	})

	limit := in.Limit(DefaultMaxTabs)
	if len(unique) > limit {
		unique = unique[:limit]
	}
	out := make([]tabs.GeneratedTab, 0, len(unique))
	for _, c := range unique {
		out = append(out, tabs.GeneratedTab{Title: c.Title, URL: c.URL})
	}

	r.metrics.ObserveRetrieve(time.Since(start), duplicates)
	r.logger.Debug("retrieved",
		zap.String("style", string(style)),
		zap.Int("candidates", len(merged)),
		zap.Int("tabs", len(out)),
		zap.Duration("took", time.Since(start)))
	return out
}

func (r *Retriever) search(ctx context.Context, a sources.Adapter, query string) []sources.Candidate {
	start := time.Now()
	found, err := a.Search(ctx, query)
	took := time.Since(start)
	src := string(a.Source())
	if err != nil {
		r.logger.Warn("source failed", zap.String("source", src), zap.Duration("took", took), zap.Error(err))
		r.metrics.ObserveSource(src, telemetry.OutcomeError, 0, took)
		return nil
	}
	outcome := telemetry.OutcomeOK
	if len(found) == 0 {
		outcome = telemetry.OutcomeEmpty
	}
	r.metrics.ObserveSource(src, outcome, len(found), took)
	return found
}

// dedup keeps the first candidate for each canonical URL.
func dedup(in []sources.Candidate) []sources.Candidate {
	seen := make(map[string]struct{}, len(in))
	out := make([]sources.Candidate, 0, len(in))
	for _, c := range in {
		key := helpers.DedupKey(c.URL)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
