package sources

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mohammad-safakhou/learntabs/internal/httpclient"
)

const (
	redditEndpoint = "https://www.reddit.com/search.json"
	redditCap      = 10
)

// RedditAdapter searches link posts site-wide.
type RedditAdapter struct {
	Endpoint string
	http     *httpclient.Client
}

func (a *RedditAdapter) Source() Source { return Reddit }

func (a *RedditAdapter) Search(ctx context.Context, query string) ([]Candidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", "relevance")
	params.Set("type", "link")
	params.Set("limit", strconv.Itoa(redditCap))

	var resp struct {
		Data struct {
			Children []struct {
				Data struct {
					Title              string  `json:"title"`
					URL                string  `json:"url"`
					URLOverriddenByDst string  `json:"url_overridden_by_dest"`
					Ups                float64 `json:"ups"`
					NumComments        float64 `json:"num_comments"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	headers := map[string]string{"Accept": "application/json"}
	if err := a.http.DoJSON(ctx, http.MethodGet, endpointOr(a.Endpoint, redditEndpoint)+"?"+params.Encode(), headers, nil, &resp); err != nil {
		return nil, err
	}

	var out []Candidate
	for _, c := range resp.Data.Children {
		d := c.Data
		link := firstNonEmpty(d.URLOverriddenByDst, d.URL)
		if link == "" {
			continue
		}
		out = append(out, Candidate{
			Title:  titleOr(d.Title, Reddit),
			URL:    link,
			Score:  d.Ups/100 + d.NumComments/200,
			Source: Reddit,
		})
	}
	return capped(out, redditCap), nil
}
