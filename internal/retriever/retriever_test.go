package retriever

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mohammad-safakhou/learntabs/internal/sources"
	"github.com/mohammad-safakhou/learntabs/internal/tabs"
	"github.com/mohammad-safakhou/learntabs/internal/telemetry"
)

type fakeAdapter struct {
	source sources.Source
	out    []sources.Candidate
	err    error
	calls  atomic.Int32
}

func (f *fakeAdapter) Source() sources.Source { return f.source }

func (f *fakeAdapter) Search(ctx context.Context, query string) ([]sources.Candidate, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]sources.Candidate, len(f.out))
	copy(out, f.out)
	return out, nil
}

func cand(url string, score float64) sources.Candidate {
	return sources.Candidate{Title: url, URL: url, Score: score}
}

func intp(n int) *int { return &n }

func urls(ts []tabs.GeneratedTab) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.URL
	}
	return out
}

func TestRetrieveEmptyGoalMakesNoCalls(t *testing.T) {
	a := &fakeAdapter{source: sources.Wikipedia, out: []sources.Candidate{cand("https://a.example/", 1)}}
	r := New([]sources.Adapter{a}, zaptest.NewLogger(t), nil)

	assert.Empty(t, r.Retrieve(context.Background(), tabs.Instruction{Goal: "   \t"}))
	assert.Zero(t, a.calls.Load())
}

func TestRetrieveDedupKeepsFirst(t *testing.T) {
	first := &fakeAdapter{source: sources.HackerNews, out: []sources.Candidate{
		{Title: "first", URL: "https://example.com/a?utm=1", Score: 2},
	}}
	second := &fakeAdapter{source: sources.Reddit, out: []sources.Candidate{
		{Title: "second", URL: "https://example.com/a?ref=2", Score: 9},
		cand("https://other.example/", 1),
	}}
	r := New([]sources.Adapter{first, second}, nil, nil)

	got := r.Retrieve(context.Background(), tabs.Instruction{Goal: "go"})
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, "https://example.com/a?utm=1", got[0].URL)
}

func TestRetrieveVideosBoost(t *testing.T) {
	a := &fakeAdapter{source: sources.Reddit, out: []sources.Candidate{
		cand("https://example.com/article", 6),
		cand("https://youtube.com/watch?v=x", 3),
	}}
	r := New([]sources.Adapter{a}, nil, nil)

	got := r.Retrieve(context.Background(), tabs.Instruction{Goal: "chess", Style: tabs.StyleVideos})
	assert.Equal(t, []string{"https://youtube.com/watch?v=x", "https://example.com/article"}, urls(got))

	mixed := r.Retrieve(context.Background(), tabs.Instruction{Goal: "chess"})
	assert.Equal(t, []string{"https://example.com/article", "https://youtube.com/watch?v=x"}, urls(mixed))
}

func TestRetrieveClamp(t *testing.T) {
	var many []sources.Candidate
	for i := 0; i < 40; i++ {
		many = append(many, cand(fmt.Sprintf("https://example.com/%d", i), float64(40-i)))
	}
	a := &fakeAdapter{source: sources.GitHub, out: many}
	r := New([]sources.Adapter{a}, nil, nil)
	ctx := context.Background()

	assert.Len(t, r.Retrieve(ctx, tabs.Instruction{Goal: "x", MaxTabs: intp(0)}), 3)
	assert.Len(t, r.Retrieve(ctx, tabs.Instruction{Goal: "x", MaxTabs: intp(1000)}), 30)
	assert.Len(t, r.Retrieve(ctx, tabs.Instruction{Goal: "x"}), DefaultMaxTabs)
	assert.Len(t, r.Retrieve(ctx, tabs.Instruction{Goal: "x", MaxTabs: intp(7)}), 7)
}

func TestRetrieveToleratesFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(reg)
	bad := &fakeAdapter{source: sources.StackOverflow, err: errors.New("boom")}
	empty := &fakeAdapter{source: sources.PubMed}
	good := &fakeAdapter{source: sources.Arxiv, out: []sources.Candidate{cand("https://arxiv.org/abs/1", 8)}}
	r := New([]sources.Adapter{bad, empty, good}, zaptest.NewLogger(t), m)

	got := r.Retrieve(context.Background(), tabs.Instruction{Goal: "ml"})
	assert.Equal(t, []string{"https://arxiv.org/abs/1"}, urls(got))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceRequests.WithLabelValues("stackoverflow", telemetry.OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceRequests.WithLabelValues("pubmed", telemetry.OutcomeEmpty)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceRequests.WithLabelValues("arxiv", telemetry.OutcomeOK)))
}

func TestRetrieveAllFail(t *testing.T) {
	var adapters []sources.Adapter
	for _, s := range sources.All {
		adapters = append(adapters, &fakeAdapter{source: s, err: errors.New("offline")})
	}
	r := New(adapters, nil, nil)
	assert.Empty(t, r.Retrieve(context.Background(), tabs.Instruction{Goal: "anything"}))
}

func TestRetrieveStableAndIdempotent(t *testing.T) {
	a := &fakeAdapter{source: sources.Wikipedia, out: []sources.Candidate{
		cand("https://a.example/", 5), cand("https://b.example/", 5),
	}}
	b := &fakeAdapter{source: sources.HackerNews, out: []sources.Candidate{
		cand("https://c.example/", 5), cand("https://d.example/", 7),
	}}
	r := New([]sources.Adapter{a, b}, nil, nil)
	in := tabs.Instruction{Goal: "ties"}

	first := r.Retrieve(context.Background(), in)
	assert.Equal(t, []string{"https://d.example/", "https://a.example/", "https://b.example/", "https://c.example/"}, urls(first))
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, r.Retrieve(context.Background(), in))
	}
}

func TestRetrieveNoCanonicalDuplicates(t *testing.T) {
	a := &fakeAdapter{source: sources.Reddit, out: []sources.Candidate{
		cand("https://Example.com:443/x#top", 1),
		cand("https://example.com/x", 2),
		cand("http://example.com/x", 3),
		cand("not a url", 1),
		cand("not a url", 4),
	}}
	r := New([]sources.Adapter{a}, nil, nil)

	got := r.Retrieve(context.Background(), tabs.Instruction{Goal: "x", MaxTabs: intp(30)})
	assert.Equal(t, []string{"http://example.com/x", "https://Example.com:443/x#top", "not a url"}, urls(got))
}

func TestBoostRules(t *testing.T) {
	tests := []struct {
		style tabs.Style
		url   string
		want  float64
	}{
		{tabs.StyleVideos, "https://youtu.be/abc", 5},
		{tabs.StyleVideos, "https://www.YouTube.com/watch?v=1", 5},
		{tabs.StyleVideos, "https://vimeo.com/1", 0},
		{tabs.StyleResearch, "https://arxiv.org/abs/1", 4},
		{tabs.StyleResearch, "https://cs.stanford.edu/paper.PDF", 5.5},
		{tabs.StyleResearch, "https://github.com/x/y", 1.5},
		{tabs.StyleResearch, "https://pubmed.ncbi.nlm.nih.gov/1/", 2.5},
		{tabs.StyleQuick, "https://docs.python.org/3/", 2.5},
		{tabs.StyleQuick, "https://dev.to/post", 4},
		{tabs.StyleQuick, "https://medium.com/@a/b", 1.5},
		{tabs.StyleMix, "https://youtube.com/watch?v=1", 0},
		{tabs.StyleMix, "https://arxiv.org/abs/1", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Boost(tt.style, tt.url), "%s %s", tt.style, tt.url)
	}
}

func TestRetrieveUnknownStyleIsMix(t *testing.T) {
	a := &fakeAdapter{source: sources.Reddit, out: []sources.Candidate{
		cand("https://example.com/article", 6),
		cand("https://youtube.com/watch?v=x", 3),
	}}
	r := New([]sources.Adapter{a}, nil, nil)
	got := r.Retrieve(context.Background(), tabs.Instruction{Goal: "x", Style: "podcasts"})
	assert.Equal(t, "https://example.com/article", got[0].URL)
}

// gatedAdapter blocks until every adapter in the group has started or the
// deadline passes, recording the highest number of concurrent calls.
type gatedAdapter struct {
	source   sources.Source
	inFlight *atomic.Int32
	peak     *atomic.Int32
	want     int32
}

func (g *gatedAdapter) Source() sources.Source { return g.source }

func (g *gatedAdapter) Search(ctx context.Context, query string) ([]sources.Candidate, error) {
	n := g.inFlight.Add(1)
	defer g.inFlight.Add(-1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	deadline := time.Now().Add(2 * time.Second)
	for g.peak.Load() < g.want && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	return []sources.Candidate{cand("https://example.com/"+string(g.source), 1)}, nil
}

func TestRetrieveCallsAllAdaptersConcurrently(t *testing.T) {
	prev := runtime.GOMAXPROCS(2)
	defer runtime.GOMAXPROCS(prev)

	var inFlight, peak atomic.Int32
	var adapters []sources.Adapter
	for _, s := range sources.All {
		adapters = append(adapters, &gatedAdapter{source: s, inFlight: &inFlight, peak: &peak, want: int32(len(sources.All))})
	}
	r := New(adapters, nil, nil)

	got := r.Retrieve(context.Background(), tabs.Instruction{Goal: "x", MaxTabs: intp(30)})
	assert.Len(t, got, len(sources.All))
	assert.Equal(t, int32(len(sources.All)), peak.Load(), "every adapter should be in flight at once")
}
