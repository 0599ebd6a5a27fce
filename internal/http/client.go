// Package http implements the transport client: authenticated JSON requests
// against a shop's Admin API origin, with transient-failure retries and
// response error mapping.
package http

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/shopkit-io/shopkit/internal/constants"
	"github.com/shopkit-io/shopkit/pkg/admin"
)

// Request represents an API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string

	// Session carries the shop origin and credential for this call.
	Session *admin.Session
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client is the transport client. It owns retry policy and error mapping;
// callers own cancellation and timeouts via context.
type Client struct {
	httpClient   *retryablehttp.Client
	userAgent    string
	logger       admin.Logger
	debug        bool
	cache        admin.Cache
	cacheTTL     time.Duration
	interceptors *admin.InterceptorChain
	rateLimits   *admin.RateLimitTracker
}

// Option configures the Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger admin.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig tunes the transient-failure retry policy.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithHTTPTimeout caps the total time per HTTP attempt. Per-request deadlines
// still come from the caller's context.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithHTTPClient swaps the underlying standard client, e.g. for custom TLS.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient = httpClient
	}
}

// WithCache enables GET response caching with the given TTL.
func WithCache(cache admin.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// WithInterceptors appends custom interceptors to the built-in chain.
func WithInterceptors(configure func(*admin.InterceptorChain)) Option {
	return func(c *Client) {
		configure(c.interceptors)
	}
}

// NewClient creates a transport client. Requests carry their own Session, so
// one transport serves any number of shops.
func NewClient(options ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil

	client := &Client{
		httpClient:   retryClient,
		userAgent:    constants.DefaultUserAgent,
		interceptors: admin.NewInterceptorChain(),
		rateLimits:   &admin.RateLimitTracker{},
	}

	for _, option := range options {
		option(client)
	}

	client.interceptors.AddResponseInterceptor(admin.RateLimitInterceptor(client.rateLimits))

	return client
}

// RateLimit returns the most recently observed call-limit state.
func (c *Client) RateLimit() admin.RateLimit {
	return c.rateLimits.Last()
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, session *admin.Session, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query, Session: session})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, session *admin.Session, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body, Session: session})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, session *admin.Session, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body, Session: session})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, session *admin.Session, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path, Query: query, Session: session})
}

// Do executes a request. Non-2xx statuses are returned alongside a typed
// error: NotFoundError for 404, ValidationError for 422, APIError otherwise.
// Connectivity failures surface as a TransportError with no partial state.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	err := req.Session.Validate()
	if err != nil {
		return nil, err
	}

	target := req.Session.BaseURL() + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    target,
		})
	}

	cacheKey := cacheKey(req.Session.Shop, req.Path, req.Query)

	if cached := c.cachedResponse(ctx, req, cacheKey); cached != nil {
		return cached, nil
	}

	info := &admin.RequestInfo{
		Method:  req.Method,
		Path:    req.Path,
		Shop:    req.Session.Shop,
		Headers: make(http.Header),
	}

	err = c.interceptors.ExecuteRequestInterceptors(ctx, info)
	if err != nil {
		return nil, err
	}

	httpReq, err := c.buildRequest(ctx, req, target, info.Headers)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		transportErr := &admin.TransportError{Err: err}
		_ = c.interceptors.ExecuteResponseInterceptors(ctx, info, &admin.ResponseInfo{Err: transportErr})

		return nil, transportErr
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	err = c.interceptors.ExecuteResponseInterceptors(ctx, info, &admin.ResponseInfo{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
	})
	if err != nil {
		return resp, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method": req.Method,
			"url":    target,
			"status": resp.StatusCode,
		})
	}

	return c.finishResponse(ctx, req, resp, cacheKey)
}

// buildRequest assembles the retryable HTTP request with auth and content
// headers.
func (c *Client) buildRequest(ctx context.Context, req *Request, target string, extra http.Header) (*retryablehttp.Request, error) {
	var rawBody []byte

	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		rawBody = encoded
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, target, bytes.NewReader(rawBody))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if req.Session.AccessToken != "" {
		httpReq.Header.Set(constants.AccessTokenHeader, req.Session.AccessToken)
	}

	for name, values := range extra {
		for _, value := range values {
			httpReq.Header.Add(name, value)
		}
	}

	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}

	return httpReq, nil
}

// cacheKey derives the cache key for a GET response. The raw shop/path/query
// triple carries characters KV backends reject (NATS keys allow only
// [-/_=.a-zA-Z0-9]), so the triple is hashed to hex.
func cacheKey(shop, path string, query url.Values) string {
	sum := sha256.Sum256([]byte(shop + "|" + path + "|" + query.Encode()))

	return hex.EncodeToString(sum[:])
}

// cachedResponse returns a cached GET response when available.
func (c *Client) cachedResponse(ctx context.Context, req *Request, key string) *Response {
	if c.cache == nil || req.Method != http.MethodGet {
		return nil
	}

	entry, err := c.cache.Get(ctx, key)
	if err != nil {
		return nil
	}

	return &Response{
		StatusCode: http.StatusOK,
		Headers:    make(http.Header),
		Body:       entry.Data,
	}
}

// finishResponse maps non-success statuses to typed errors and stores
// successful GET bodies in the cache.
func (c *Client) finishResponse(ctx context.Context, req *Request, resp *Response, cacheKey string) (*Response, error) {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if c.cache != nil && req.Method == http.MethodGet {
			_ = c.cache.Set(ctx, cacheKey, &admin.CacheEntry{
				Data:      resp.Body,
				ExpiresAt: time.Now().Add(c.cacheTTL),
				ETag:      resp.Headers.Get("ETag"),
			})
		}

		return resp, nil

	case resp.StatusCode == http.StatusNotFound:
		return resp, &admin.NotFoundError{Path: req.Path}

	case resp.StatusCode == http.StatusUnprocessableEntity:
		return resp, &admin.ValidationError{Status: resp.StatusCode, Body: resp.Body}

	default:
		return resp, &admin.APIError{Status: resp.StatusCode, Body: resp.Body, Headers: resp.Headers}
	}
}
