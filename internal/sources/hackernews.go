package sources

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/mohammad-safakhou/learntabs/internal/httpclient"
)

const (
	hackerNewsEndpoint = "https://hn.algolia.com/api/v1/search"
	hackerNewsItem     = "https://news.ycombinator.com/item?id="
	hackerNewsCap      = 10
)

// HackerNewsAdapter searches stories through the Algolia HN API. Score mixes
// points and comment count.
type HackerNewsAdapter struct {
	Endpoint string
	http     *httpclient.Client
}

func (a *HackerNewsAdapter) Source() Source { return HackerNews }

func (a *HackerNewsAdapter) Search(ctx context.Context, query string) ([]Candidate, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("tags", "story")

	var resp struct {
		Hits []struct {
			Title       string  `json:"title"`
			StoryTitle  string  `json:"story_title"`
			URL         string  `json:"url"`
			StoryURL    string  `json:"story_url"`
			ObjectID    string  `json:"objectID"`
			Points      float64 `json:"points"`
			NumComments float64 `json:"num_comments"`
		} `json:"hits"`
	}
	if err := a.http.DoJSON(ctx, http.MethodGet, endpointOr(a.Endpoint, hackerNewsEndpoint)+"?"+params.Encode(), nil, nil, &resp); err != nil {
		return nil, err
	}

	var out []Candidate
	for i, h := range resp.Hits {
		if i >= hackerNewsCap {
			break
		}
		link := firstNonEmpty(h.URL, h.StoryURL)
		if link == "" && strings.TrimSpace(h.ObjectID) != "" {
			link = hackerNewsItem + url.QueryEscape(strings.TrimSpace(h.ObjectID))
		}
		if link == "" {
			continue
		}
		title := titleOr(firstNonEmpty(h.Title, h.StoryTitle), HackerNews)
		out = append(out, Candidate{
			Title:  title,
			URL:    link,
			Score:  h.Points/50 + h.NumComments/100,
			Source: HackerNews,
		})
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
