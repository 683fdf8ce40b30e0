package sources

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mohammad-safakhou/learntabs/internal/httpclient"
)

const (
	gitHubEndpoint = "https://api.github.com/search/repositories"
	gitHubCap      = 5
)

// GitHubAdapter searches repositories ordered by stars.
type GitHubAdapter struct {
	Endpoint string
	http     *httpclient.Client
}

func (a *GitHubAdapter) Source() Source { return GitHub }

func (a *GitHubAdapter) Search(ctx context.Context, query string) ([]Candidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", "stars")
	params.Set("order", "desc")
	params.Set("per_page", strconv.Itoa(gitHubCap))

	var resp struct {
		Items []struct {
			FullName        string  `json:"full_name"`
			HTMLURL         string  `json:"html_url"`
			StargazersCount float64 `json:"stargazers_count"`
		} `json:"items"`
	}
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if err := a.http.DoJSON(ctx, http.MethodGet, endpointOr(a.Endpoint, gitHubEndpoint)+"?"+params.Encode(), headers, nil, &resp); err != nil {
		return nil, err
	}

	var out []Candidate
	for _, it := range resp.Items {
		link := firstNonEmpty(it.HTMLURL)
		if link == "" {
			continue
		}
		out = append(out, Candidate{
			Title:  titleOr(it.FullName, GitHub),
			URL:    link,
			Score:  it.StargazersCount/1000 + 3,
			Source: GitHub,
		})
	}
	return capped(out, gitHubCap), nil
}
