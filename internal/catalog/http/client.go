package http

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Observer is notified after every completed request. status is 0 when the
// request failed before a response arrived.
type Observer func(host string, status int, elapsed time.Duration)

// Client wraps resty.Client with timeout handling and optional debug logging.
// Requests are never retried; callers decide how to degrade.
type Client struct {
	resty    *resty.Client
	debug    bool
	logger   *slog.Logger
	observer Observer
}

// ClientConfig holds configuration for the HTTP client
type ClientConfig struct {
	Timeout   time.Duration
	UserAgent string
	Debug     bool
	Logger    *slog.Logger
	Observer  Observer
}

// StatusError is returned for responses outside the 2xx range
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

// NewClient creates a new HTTP client with the given configuration
func NewClient(config ClientConfig) *Client {
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "mizunime/1.0"
	}

	restyClient := resty.New().
		SetTimeout(config.Timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", config.UserAgent).
		SetHeader("Accept", "application/json, text/html, */*").
		SetHeader("Accept-Language", "id-ID,id;q=0.9,en-US;q=0.8")

	client := &Client{
		resty:    restyClient,
		debug:    config.Debug,
		logger:   config.Logger,
		observer: config.Observer,
	}

	if config.Debug && config.Logger != nil {
		restyClient.OnBeforeRequest(func(c *resty.Client, r *resty.Request) error {
			client.logRequest(r)
			return nil
		})
		restyClient.OnAfterResponse(func(c *resty.Client, r *resty.Response) error {
			client.logResponse(r)
			return nil
		})
	}

	return client
}

// Get performs a GET request with context support. On a non-2xx status the
// response is returned together with a *StatusError.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*resty.Response, error) {
	req := c.resty.R().SetContext(ctx)

	for key, value := range headers {
		req.SetHeader(key, value)
	}

	start := time.Now()
	resp, err := req.Get(url)
	if err != nil {
		c.observe(req, 0, time.Since(start))
		return nil, fmt.Errorf("GET request failed for %s: %w", url, err)
	}
	c.observe(req, resp.StatusCode(), time.Since(start))

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		body := resp.String()
		if len(body) > 200 {
			body = body[:200] + "..."
		}
		return resp, &StatusError{URL: url, StatusCode: resp.StatusCode(), Body: body}
	}

	return resp, nil
}

func (c *Client) observe(r *resty.Request, status int, elapsed time.Duration) {
	if c.observer == nil {
		return
	}
	host := ""
	if r.RawRequest != nil && r.RawRequest.URL != nil {
		host = r.RawRequest.URL.Host
	}
	c.observer(host, status, elapsed)
}

// logRequest logs HTTP request details
func (c *Client) logRequest(r *resty.Request) {
	if c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Request",
		"method", r.Method,
		"url", r.URL,
	)
}

// logResponse logs HTTP response details
func (c *Client) logResponse(r *resty.Response) {
	if c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Response",
		"status", r.StatusCode(),
		"url", r.Request.URL,
		"time", r.Time(),
	)

	bodyStr := r.String()
	if len(bodyStr) > 1000 {
		bodyStr = bodyStr[:1000] + "... (truncated)"
	}
	c.logger.Debug("Response Body",
		"body", bodyStr,
	)
}
