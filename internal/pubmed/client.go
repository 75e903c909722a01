// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed queries the NCBI E-utilities API: esearch for ordered PMID
// lists and efetch for full citation records.
package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/ksato/medquery/internal/cache"
	"github.com/ksato/medquery/internal/httputil"
	"github.com/ksato/medquery/pkg/types"
)

// eutilsBase is the E-utilities endpoint prefix. Declared as a var so tests
// can substitute an httptest server.
var eutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"

// defaultMaxResults caps a search when the caller passes no positive cap.
const defaultMaxResults = 5

// Client calls the E-utilities search and fetch operations. Construct with
// NewClient; the zero value works but carries no rate limit or memoization.
type Client struct {
	Config types.PubMedConfig

	// SearchHTTP and FetchHTTP carry the per-operation timeouts.
	SearchHTTP *http.Client
	FetchHTTP  *http.Client

	// Limiter paces E-utilities calls. NCBI enforces 10 req/s with an API
	// key, 3 req/s without.
	Limiter *rate.Limiter

	// SearchCache and FetchCache memoize successful responses for a short
	// TTL. Nil disables memoization.
	SearchCache *cache.TTL[[]string]
	FetchCache  *cache.TTL[[]types.Record]
}

// NewClient returns a Client with defaults filled in from cfg.
func NewClient(cfg types.PubMedConfig) *Client {
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = types.DefaultConfig().PubMed.SearchTimeout
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = types.DefaultConfig().PubMed.FetchTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = types.DefaultConfig().PubMed.CacheTTL
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		if cfg.APIKey != "" {
			rps = 10
		} else {
			rps = 3
		}
	}

	return &Client{
		Config:      cfg,
		SearchHTTP:  httputil.NewClient(cfg.SearchTimeout),
		FetchHTTP:   httputil.NewClient(cfg.FetchTimeout),
		Limiter:     rate.NewLimiter(rate.Limit(rps), 1),
		SearchCache: cache.New[[]string](cfg.CacheTTL),
		FetchCache:  cache.New[[]types.Record](cfg.CacheTTL),
	}
}

// esearchResponse is the JSON envelope returned by esearch.fcgi.
type esearchResponse struct {
	ESearchResult esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	IDList []string `json:"idlist"`
}

// Search sends query to esearch and returns at most maxResults PMIDs in the
// relevance order of the response. An absent or empty ID list is a valid
// empty result, not an error.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query")
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	key := strconv.Itoa(maxResults) + "|" + query
	if ids, ok := c.SearchCache.Get(key); ok {
		return ids, nil
	}

	params := url.Values{
		"db":      {"pubmed"},
		"term":    {query},
		"retmax":  {strconv.Itoa(maxResults)},
		"retmode": {"json"},
	}
	if c.Config.APIKey != "" {
		params.Set("api_key", c.Config.APIKey)
	}

	resp, err := c.get(ctx, c.SearchHTTP, "esearch.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("esearch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("esearch returned HTTP %d", resp.StatusCode)
	}

	var er esearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}

	ids := er.ESearchResult.IDList
	if len(ids) > maxResults {
		ids = ids[:maxResults]
	}

	c.SearchCache.Set(key, ids)
	return ids, nil
}

// Fetch retrieves full records for ids in one batched efetch call and parses
// them. An empty id list returns immediately with no network call.
func (c *Client) Fetch(ctx context.Context, ids []string) ([]types.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	joined := strings.Join(ids, ",")
	if records, ok := c.FetchCache.Get(joined); ok {
		return records, nil
	}

	params := url.Values{
		"db":      {"pubmed"},
		"id":      {joined},
		"retmode": {"xml"},
	}
	if c.Config.APIKey != "" {
		params.Set("api_key", c.Config.APIKey)
	}

	resp, err := c.get(ctx, c.FetchHTTP, "efetch.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("efetch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("efetch returned HTTP %d", resp.StatusCode)
	}

	records, err := ParseArticles(resp.Body)
	if err != nil {
		return nil, err
	}

	c.FetchCache.Set(joined, records)
	return records, nil
}

// get waits on the rate limiter and issues one GET against an E-utilities
// operation.
func (c *Client) get(ctx context.Context, client *http.Client, op string, params url.Values) (*http.Response, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, eutilsBase+op+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.Config.UserAgent != "" {
		req.Header.Set("User-Agent", c.Config.UserAgent)
	}

	if client == nil {
		client = http.DefaultClient
	}
	return client.Do(req)
}
