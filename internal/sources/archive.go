package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mohammad-safakhou/learntabs/internal/httpclient"
)

const (
	archiveEndpoint = "https://archive.org/advancedsearch.php"
	archiveDetails  = "https://archive.org/details/"
	archiveCap      = 5
)

// ArchiveAdapter runs an Internet Archive advanced search.
type ArchiveAdapter struct {
	Endpoint string
	http     *httpclient.Client
}

func (a *ArchiveAdapter) Source() Source { return Archive }

func (a *ArchiveAdapter) Search(ctx context.Context, query string) ([]Candidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Add("fl[]", "identifier")
	params.Add("fl[]", "title")
	params.Add("fl[]", "downloads")
	params.Set("rows", strconv.Itoa(archiveCap))
	params.Set("page", "1")
	params.Set("output", "json")

	var resp struct {
		Response struct {
			Docs []struct {
				Identifier string          `json:"identifier"`
				Title      json.RawMessage `json:"title"`
				Downloads  float64         `json:"downloads"`
			} `json:"docs"`
		} `json:"response"`
	}
	if err := a.http.DoJSON(ctx, http.MethodGet, endpointOr(a.Endpoint, archiveEndpoint)+"?"+params.Encode(), nil, nil, &resp); err != nil {
		return nil, err
	}

	var out []Candidate
	for _, d := range resp.Response.Docs {
		id := strings.TrimSpace(d.Identifier)
		if id == "" {
			continue
		}
		out = append(out, Candidate{
			Title:  titleOr(archiveTitle(d.Title), Archive),
			URL:    archiveDetails + url.PathEscape(id),
			Score:  d.Downloads/1000 + 5,
			Source: Archive,
		})
	}
	return capped(out, archiveCap), nil
}

// archiveTitle accepts either a string or a list of strings.
func archiveTitle(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}
