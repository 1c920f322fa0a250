package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	cataloghttp "github.com/mizunime/mizunime/internal/catalog/http"
	"github.com/mizunime/mizunime/internal/config"
)

// Upstream endpoint paths, relative to the configured base URL
const (
	EndpointHome     = "/home.php"
	EndpointDetail   = "/detail.php"
	EndpointWatch    = "/watch.php"
	EndpointSchedule = "/schedule.php"
	EndpointSearch   = "/search.php"
	EndpointBatch    = "/batch.php"
)

const statusSuccess = "success"

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data"`
}

type listData struct {
	Anime       []AnimeItem `json:"anime"`
	TotalPages  FlexInt     `json:"total_pages"`
	CurrentPage FlexInt     `json:"current_page"`
}

// Client handles communication with the upstream catalog API
type Client struct {
	baseURL    string
	httpClient *cataloghttp.Client
	cache      *ResponseCache
	debug      bool
	logger     *slog.Logger
}

// Option customizes a Client
type Option func(*clientOptions)

type clientOptions struct {
	observer cataloghttp.Observer
	noCache  bool
}

// WithObserver reports every upstream request, e.g. to metrics
func WithObserver(o cataloghttp.Observer) Option {
	return func(opts *clientOptions) { opts.observer = o }
}

// WithoutCache disables response caching. Interactive hosts use this so
// that every pagination step reflects the upstream.
func WithoutCache() Option {
	return func(opts *clientOptions) { opts.noCache = true }
}

// NewClient creates a new catalog client
func NewClient(cfg *config.Config, logger *slog.Logger, opts ...Option) *Client {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	var cache *ResponseCache
	if !o.noCache {
		cache = NewResponseCache(cfg.Catalog.CacheTTL, 0)
	}

	httpClient := cataloghttp.NewClient(cataloghttp.ClientConfig{
		Timeout:   cfg.Catalog.Timeout,
		UserAgent: cfg.Catalog.UserAgent,
		Debug:     cfg.Advanced.Debug,
		Logger:    logger,
		Observer:  o.observer,
	})

	return &Client{
		baseURL:    strings.TrimRight(cfg.Catalog.BaseURL, "/"),
		httpClient: httpClient,
		cache:      cache,
		debug:      cfg.Advanced.Debug,
		logger:     logger,
	}
}

// Home returns a page of the latest releases feed
func (c *Client) Home(ctx context.Context, page int) (*PagedResult, error) {
	return c.list(ctx, EndpointHome, page, nil)
}

// Search returns a page of search results for q
func (c *Client) Search(ctx context.Context, q string, page int) (*PagedResult, error) {
	return c.list(ctx, EndpointSearch, page, url.Values{"q": {q}})
}

// Batch returns a page of completed batch releases
func (c *Client) Batch(ctx context.Context, page int) (*PagedResult, error) {
	return c.list(ctx, EndpointBatch, page, nil)
}

// Schedule returns the weekly release schedule
func (c *Client) Schedule(ctx context.Context) (ScheduleMap, error) {
	fullURL, data, err := c.fetchData(ctx, EndpointSchedule, nil)
	if err != nil {
		return nil, err
	}

	schedule := ScheduleMap{}
	if err := json.Unmarshal(data, &schedule); err != nil {
		return nil, &MalformedResponseError{URL: fullURL, Status: statusSuccess, Err: err}
	}
	return schedule, nil
}

// Detail returns a series' detail page data
func (c *Client) Detail(ctx context.Context, slug string) (*Detail, error) {
	fullURL, data, err := c.fetchData(ctx, EndpointDetail, url.Values{"slug": {slug}})
	if err != nil {
		return nil, err
	}

	var detail Detail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, &MalformedResponseError{URL: fullURL, Status: statusSuccess, Err: err}
	}
	if detail.Slug == "" {
		detail.Slug = slug
	}
	return &detail, nil
}

// Watch returns an episode's streaming data
func (c *Client) Watch(ctx context.Context, slug string) (*Watch, error) {
	fullURL, data, err := c.fetchData(ctx, EndpointWatch, url.Values{"slug": {slug}})
	if err != nil {
		return nil, err
	}

	var watch Watch
	if err := json.Unmarshal(data, &watch); err != nil {
		return nil, &MalformedResponseError{URL: fullURL, Status: statusSuccess, Err: err}
	}
	if watch.Slug == "" {
		watch.Slug = slug
	}
	if watch.AnimeSlug == "" {
		watch.AnimeSlug = AnimeItem{Slug: slug}.AnimeSlug()
	}
	return &watch, nil
}

// Raw returns the upstream body for endpoint unchanged. It is used by the
// same-origin proxy.
func (c *Client) Raw(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	fullURL, err := c.buildURL(endpoint, params)
	if err != nil {
		return nil, err
	}
	body, cached, err := c.get(ctx, fullURL)
	if err != nil {
		return nil, err
	}
	if !cached {
		var env envelope
		if json.Unmarshal(body, &env) == nil && env.Status == statusSuccess {
			c.cache.Set(fullURL, body)
		}
	}
	return body, nil
}

func (c *Client) list(ctx context.Context, endpoint string, page int, params url.Values) (*PagedResult, error) {
	if page < 1 {
		page = 1
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("page", strconv.Itoa(page))

	fullURL, data, err := c.fetchData(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	var payload listData
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &MalformedResponseError{URL: fullURL, Status: statusSuccess, Err: err}
	}

	result := &PagedResult{
		Items:      payload.Anime,
		Page:       page,
		TotalPages: int(payload.TotalPages),
		Status:     statusSuccess,
	}
	if payload.CurrentPage > 0 {
		result.Page = int(payload.CurrentPage)
	}
	if result.Items == nil {
		result.Items = []AnimeItem{}
	}

	if c.debug {
		c.logger.Debug("catalog list", "endpoint", endpoint, "page", result.Page, "items", len(result.Items), "total_pages", result.TotalPages)
	}
	return result, nil
}

// fetchData performs the request and unwraps the status envelope
func (c *Client) fetchData(ctx context.Context, endpoint string, params url.Values) (string, json.RawMessage, error) {
	fullURL, err := c.buildURL(endpoint, params)
	if err != nil {
		return "", nil, err
	}

	body, cached, err := c.get(ctx, fullURL)
	if err != nil {
		return fullURL, nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fullURL, nil, &MalformedResponseError{URL: fullURL, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	if env.Status != statusSuccess {
		return fullURL, nil, &MalformedResponseError{URL: fullURL, Status: env.Status}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fullURL, nil, &MalformedResponseError{URL: fullURL, Status: env.Status, Err: errors.New("missing data field")}
	}
	if !cached {
		c.cache.Set(fullURL, body)
	}
	return fullURL, env.Data, nil
}

// get returns the body for fullURL, from the cache when fresh. Callers store
// bodies only after validating the envelope so failures are never cached.
func (c *Client) get(ctx context.Context, fullURL string) ([]byte, bool, error) {
	if body, ok := c.cache.Get(fullURL); ok {
		return body, true, nil
	}

	resp, err := c.httpClient.Get(ctx, fullURL, nil)
	if err != nil {
		c.logger.Error("catalog fetch failed", "url", fullURL, "error", err)
		var statusErr *cataloghttp.StatusError
		if errors.As(err, &statusErr) {
			return nil, false, &NetworkError{URL: fullURL, StatusCode: statusErr.StatusCode, Err: err}
		}
		return nil, false, &NetworkError{URL: fullURL, Err: err}
	}
	return resp.Body(), false, nil
}

func (c *Client) buildURL(endpoint string, params url.Values) (string, error) {
	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	return u.String(), nil
}
