// Package sources contains one adapter per public content provider. Every
// adapter performs a single search request and turns the provider's response
// into a short list of scored candidates.
package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/learntabs/internal/httpclient"
)

// Source identifies the adapter that produced a candidate.
type Source string

const (
	Wikipedia     Source = "wikipedia"
	HackerNews    Source = "hackernews"
	StackOverflow Source = "stackoverflow"
	Reddit        Source = "reddit"
	Arxiv         Source = "arxiv"
	GitHub        Source = "github"
	PubMed        Source = "pubmed"
	Archive       Source = "archive"
)

// All lists every source in fan-out order. Earlier sources win URL ties.
var All = []Source{Wikipedia, HackerNews, StackOverflow, Reddit, Arxiv, GitHub, PubMed, Archive}

// Candidate is one search hit before ranking.
type Candidate struct {
	Title  string
	URL    string
	Score  float64
	Source Source
}

// Adapter searches one provider.
type Adapter interface {
	Source() Source
	Search(ctx context.Context, query string) ([]Candidate, error)
}

// Config selects endpoints and disabled sources. Endpoints missing from the
// map use the provider's public URL.
type Config struct {
	Endpoints map[Source]string
	Disabled  []Source
}

// New builds the enabled adapters in fan-out order.
func New(cfg Config, client *httpclient.Client) ([]Adapter, error) {
	disabled := make(map[Source]bool, len(cfg.Disabled))
	for _, s := range cfg.Disabled {
		if !known(s) {
			return nil, fmt.Errorf("unknown source %q", s)
		}
		disabled[s] = true
	}
	for s := range cfg.Endpoints {
		if !known(s) {
			return nil, fmt.Errorf("unknown source %q", s)
		}
	}

	var out []Adapter
	for _, s := range All {
		if disabled[s] {
			continue
		}
		endpoint := strings.TrimSpace(cfg.Endpoints[s])
		switch s {
		case Wikipedia:
			out = append(out, &WikipediaAdapter{Endpoint: endpoint, http: client})
		case HackerNews:
			out = append(out, &HackerNewsAdapter{Endpoint: endpoint, http: client})
		case StackOverflow:
			out = append(out, &StackOverflowAdapter{Endpoint: endpoint, http: client})
		case Reddit:
			out = append(out, &RedditAdapter{Endpoint: endpoint, http: client})
		case Arxiv:
			out = append(out, &ArxivAdapter{Endpoint: endpoint, http: client})
		case GitHub:
			out = append(out, &GitHubAdapter{Endpoint: endpoint, http: client})
		case PubMed:
			out = append(out, &PubMedAdapter{Endpoint: endpoint, http: client})
		case Archive:
			out = append(out, &ArchiveAdapter{Endpoint: endpoint, http: client})
		}
	}
	return out, nil
}

func known(s Source) bool {
	for _, k := range All {
		if k == s {
			return true
		}
	}
	return false
}

func endpointOr(endpoint, def string) string {
	if endpoint == "" {
		return def
	}
	return endpoint
}

func titleOr(title string, s Source) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return placeholders[s]
	}
	return title
}

var placeholders = map[Source]string{
	Wikipedia:     "(Wikipedia) result",
	HackerNews:    "(HN) result",
	StackOverflow: "(StackOverflow) result",
	Reddit:        "(Reddit) result",
	Arxiv:         "(arXiv) result",
	GitHub:        "(GitHub) result",
	PubMed:        "(PubMed) result",
	Archive:       "(Archive.org) result",
}

func capped(in []Candidate, n int) []Candidate {
	if len(in) > n {
		return in[:n]
	}
	return in
}
