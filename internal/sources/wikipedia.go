package sources

import (
	"context"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/mohammad-safakhou/learntabs/internal/httpclient"
)

const (
	wikipediaEndpoint = "https://en.wikipedia.org/w/api.php"
	wikipediaArticle  = "https://en.wikipedia.org/wiki/"
	wikipediaCap      = 5
)

// WikipediaAdapter searches English Wikipedia. Hits score 7 plus up to 2 for
// article length.
type WikipediaAdapter struct {
	Endpoint string
	http     *httpclient.Client
}

func (a *WikipediaAdapter) Source() Source { return Wikipedia }

func (a *WikipediaAdapter) Search(ctx context.Context, query string) ([]Candidate, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("format", "json")
	params.Set("origin", "*")

	var resp struct {
		Query struct {
			Search []struct {
				Title string  `json:"title"`
				Size  float64 `json:"size"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := a.http.DoJSON(ctx, http.MethodGet, endpointOr(a.Endpoint, wikipediaEndpoint)+"?"+params.Encode(), nil, nil, &resp); err != nil {
		return nil, err
	}

	var out []Candidate
	for i, p := range resp.Query.Search {
		if i >= wikipediaCap {
			break
		}
		title := strings.TrimSpace(p.Title)
		if title == "" {
			continue
		}
		out = append(out, Candidate{
			Title:  title,
			URL:    wikipediaArticle + escapeComponent(strings.Join(strings.Fields(title), "_")),
			Score:  7 + math.Min(p.Size/50000, 2),
			Source: Wikipedia,
		})
	}
	return out, nil
}

var componentUnescaper = strings.NewReplacer("+", "%20", "%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*")

// escapeComponent percent-encodes s like encodeURIComponent, leaving
// !'()* readable in article links.
func escapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
