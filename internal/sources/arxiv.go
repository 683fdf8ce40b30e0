package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/mohammad-safakhou/learntabs/internal/httpclient"
)

const (
	arxivEndpoint = "https://export.arxiv.org/api/query"
	arxivCap      = 5
	arxivScore    = 8
)

// ArxivAdapter reads the arXiv Atom API. Each entry links to its abstract
// page through the entry id.
type ArxivAdapter struct {
	Endpoint string
	http     *httpclient.Client
}

func (a *ArxivAdapter) Source() Source { return Arxiv }

func (a *ArxivAdapter) Search(ctx context.Context, query string) ([]Candidate, error) {
	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(arxivCap))

	resp, err := a.http.Do(ctx, http.MethodGet, endpointOr(a.Endpoint, arxivEndpoint)+"?"+params.Encode(), nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse arxiv feed: %w", err)
	}

	var out []Candidate
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		link := firstNonEmpty(item.GUID, item.Link)
		if link == "" {
			continue
		}
		out = append(out, Candidate{
			Title:  titleOr(strings.Join(strings.Fields(item.Title), " "), Arxiv),
			URL:    link,
			Score:  arxivScore,
			Source: Arxiv,
		})
	}
	return capped(out, arxivCap), nil
}
