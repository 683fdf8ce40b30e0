package sources

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mohammad-safakhou/learntabs/internal/httpclient"
)

const (
	pubMedEndpoint = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	pubMedArticle  = "https://pubmed.ncbi.nlm.nih.gov/"
	pubMedCap      = 5
	pubMedScore    = 7
)

// PubMedAdapter uses the esearch endpoint, which returns ids only, so titles
// are synthesized from the id.
type PubMedAdapter struct {
	Endpoint string
	http     *httpclient.Client
}

func (a *PubMedAdapter) Source() Source { return PubMed }

func (a *PubMedAdapter) Search(ctx context.Context, query string) ([]Candidate, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("retmode", "json")
	params.Set("retmax", strconv.Itoa(pubMedCap))
	params.Set("term", query)

	var resp struct {
		ESearchResult struct {
			IDList []string `json:"idlist"`
		} `json:"esearchresult"`
	}
	if err := a.http.DoJSON(ctx, http.MethodGet, endpointOr(a.Endpoint, pubMedEndpoint)+"?"+params.Encode(), nil, nil, &resp); err != nil {
		return nil, err
	}

	var out []Candidate
	for _, id := range resp.ESearchResult.IDList {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		out = append(out, Candidate{
			Title:  "PubMed Article " + id,
			URL:    pubMedArticle + url.PathEscape(id) + "/",
			Score:  pubMedScore,
			Source: PubMed,
		})
	}
	return capped(out, pubMedCap), nil
}
