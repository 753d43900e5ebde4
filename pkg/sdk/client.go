package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/shopsearch"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 64 << 10
)

// Client talks to a shopsearch server.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	obs        *observer
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("shopsearch: invalid base URL %q", baseURL)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{baseURL: u, apiKey: cfg.apiKey, httpClient: hc, obs: obs}, nil
}

// Search runs one query. PriceMax at or above the server's price ceiling
// means no limit.
func (c *Client) Search(ctx context.Context, q shopsearch.Query) (res *shopsearch.Results, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	params := url.Values{}
	if q.Text != "" {
		params.Set("q", q.Text)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.PriceMax != nil {
		params.Set("price_max", strconv.FormatFloat(*q.PriceMax, 'f', -1, 64))
	}
	if q.RatingMin != nil {
		params.Set("rating_min", strconv.FormatFloat(*q.RatingMin, 'f', -1, 64))
	}
	if q.DynamicPricing != nil {
		params.Set("dynamic_pricing", strconv.FormatBool(*q.DynamicPricing))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	res = &shopsearch.Results{}
	if err = c.do(ctx, http.MethodGet, "/search", params, nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

type batchQuery struct {
	Q              string   `json:"q"`
	Category       *string  `json:"category,omitempty"`
	PriceMax       *float64 `json:"price_max,omitempty"`
	RatingMin      *float64 `json:"rating_min,omitempty"`
	DynamicPricing *bool    `json:"dynamic_pricing,omitempty"`
	Limit          *int     `json:"limit,omitempty"`
}

type batchResponse struct {
	Results []struct {
		Query  string              `json:"query"`
		Status string              `json:"status"`
		Error  *APIError           `json:"error"`
		Result *shopsearch.Results `json:"result"`
	} `json:"results"`
}

// SearchBatch runs many queries in one request. Per-query failures are
// reported in BatchResult.Err; err covers the request as a whole.
func (c *Client) SearchBatch(ctx context.Context, queries []shopsearch.Query) (out []shopsearch.BatchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search_batch", start, err) }()

	body := struct {
		Queries []batchQuery `json:"queries"`
	}{Queries: make([]batchQuery, len(queries))}
	for i, q := range queries {
		bq := batchQuery{Q: q.Text, PriceMax: q.PriceMax, RatingMin: q.RatingMin, DynamicPricing: q.DynamicPricing}
		if q.Category != "" {
			cat := q.Category
			bq.Category = &cat
		}
		if q.Limit > 0 {
			limit := q.Limit
			bq.Limit = &limit
		}
		body.Queries[i] = bq
	}

	var resp batchResponse
	if err = c.do(ctx, http.MethodPost, "/search/batch", nil, body, &resp); err != nil {
		return nil, err
	}

	out = make([]shopsearch.BatchResult, len(resp.Results))
	for i, r := range resp.Results {
		out[i] = shopsearch.BatchResult{Query: r.Query, Results: r.Result}
		if r.Error != nil {
			r.Error.StatusCode = http.StatusOK
			out[i].Err = r.Error
		}
	}
	return out, nil
}

// Explain asks the server which constraints it parses from query.
func (c *Client) Explain(ctx context.Context, query string) (ex shopsearch.Explanation, err error) {
	start := time.Now()
	defer func() { c.obs.observe("explain", start, err) }()

	err = c.do(ctx, http.MethodGet, "/intent", url.Values{"q": {query}}, nil, &ex)
	return ex, err
}

// Categories lists the catalog's categories.
func (c *Client) Categories(ctx context.Context) (cats []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("categories", start, err) }()

	var resp struct {
		Categories []string `json:"categories"`
	}
	if err = c.do(ctx, http.MethodGet, "/categories", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// ReloadInfo describes a freshly loaded catalog.
type ReloadInfo struct {
	Items      int    `json:"items"`
	Vocabulary int    `json:"vocabulary"`
	Version    int64  `json:"version"`
	LoadedAt   string `json:"loaded_at"`
}

// Reload makes the server re-read its catalog.
func (c *Client) Reload(ctx context.Context) (info ReloadInfo, err error) {
	start := time.Now()
	defer func() { c.obs.observe("reload", start, err) }()

	err = c.do(ctx, http.MethodPost, "/catalog/reload", nil, nil, &info)
	return info, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil {
		apiErr.body = body
		err = json.Unmarshal(body, apiErr)
	}
	if err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
