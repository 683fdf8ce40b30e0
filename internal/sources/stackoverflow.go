package sources

import (
	"context"
	"html"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mohammad-safakhou/learntabs/internal/httpclient"
)

const (
	stackOverflowEndpoint = "https://api.stackexchange.com/2.3/search/advanced"
	stackOverflowCap      = 10
)

// StackOverflowAdapter queries the Stack Exchange search API. Questions with
// an accepted answer get a +2 bonus on top of score/5.
type StackOverflowAdapter struct {
	Endpoint string
	http     *httpclient.Client
}

func (a *StackOverflowAdapter) Source() Source { return StackOverflow }

func (a *StackOverflowAdapter) Search(ctx context.Context, query string) ([]Candidate, error) {
	params := url.Values{}
	params.Set("order", "desc")
	params.Set("sort", "relevance")
	params.Set("q", query)
	params.Set("site", "stackoverflow")
	params.Set("filter", "default")
	params.Set("pagesize", strconv.Itoa(stackOverflowCap))

	var resp struct {
		Items []struct {
			Title            string  `json:"title"`
			Link             string  `json:"link"`
			Score            float64 `json:"score"`
			IsAccepted       bool    `json:"is_accepted"`
			AcceptedAnswerID int64   `json:"accepted_answer_id"`
		} `json:"items"`
	}
	if err := a.http.DoJSON(ctx, http.MethodGet, endpointOr(a.Endpoint, stackOverflowEndpoint)+"?"+params.Encode(), nil, nil, &resp); err != nil {
		return nil, err
	}

	var out []Candidate
	for _, it := range resp.Items {
		link := firstNonEmpty(it.Link)
		if link == "" {
			continue
		}
		score := it.Score / 5
		if it.IsAccepted || it.AcceptedAnswerID != 0 {
			score += 2
		}
		out = append(out, Candidate{
			// the API returns HTML-escaped titles
			Title:  titleOr(html.UnescapeString(it.Title), StackOverflow),
			URL:    link,
			Score:  score,
			Source: StackOverflow,
		})
	}
	return capped(out, stackOverflowCap), nil
}
