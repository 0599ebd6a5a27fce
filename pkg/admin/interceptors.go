package admin

import (
	"context"
	"fmt"
	"net/http"
)

// RequestInfo describes an outgoing request as seen by interceptors.
type RequestInfo struct {
	Method  string
	Path    string
	Shop    string
	Headers http.Header
}

// ResponseInfo describes a received response as seen by interceptors.
type ResponseInfo struct {
	StatusCode int
	Headers    http.Header
	Err        error
}

// RequestInterceptor is called before a request is sent.
type RequestInterceptor func(ctx context.Context, req *RequestInfo) error

// ResponseInterceptor is called after a response is received.
type ResponseInterceptor func(ctx context.Context, req *RequestInfo, resp *ResponseInfo) error

// InterceptorChain manages a chain of interceptors executed around every
// transport call.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates a new interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{
		requestInterceptors:  make([]RequestInterceptor, 0),
		responseInterceptors: make([]ResponseInterceptor, 0),
	}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.requestInterceptors = append(c.requestInterceptors, interceptor)
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.responseInterceptors = append(c.responseInterceptors, interceptor)
}

// ExecuteRequestInterceptors runs all request interceptors.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *RequestInfo) error {
	for _, interceptor := range c.requestInterceptors {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs all response interceptors.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *RequestInfo, resp *ResponseInfo) error {
	for _, interceptor := range c.responseInterceptors {
		err := interceptor(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// Common interceptors

// LoggingInterceptor logs outgoing requests.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *RequestInfo) error {
		logger.Debug("API Request", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
			"shop":   req.Shop,
		})

		return nil
	}
}

// LoggingResponseInterceptor logs received responses.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *RequestInfo, resp *ResponseInfo) error {
		fields := map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
			"status": resp.StatusCode,
		}

		if resp.Err != nil {
			fields["error"] = resp.Err.Error()
			logger.Error("API Response", fields)

			return nil
		}

		logger.Debug("API Response", fields)

		return nil
	}
}

// CallLimitHeader is the response header reporting the shop's API call budget.
const CallLimitHeader = "X-Shopify-Shop-Api-Call-Limit"

// RateLimitInterceptor records the call-limit header of every response into
// the tracker. Responses without the header are ignored; a malformed header
// is ignored too, on the grounds that observation must never fail a call.
func RateLimitInterceptor(tracker *RateLimitTracker) ResponseInterceptor {
	return func(ctx context.Context, req *RequestInfo, resp *ResponseInfo) error {
		value := resp.Headers.Get(CallLimitHeader)
		if value == "" {
			return nil
		}

		limit, err := ParseRateLimit(value)
		if err != nil {
			return nil
		}

		tracker.Record(limit)

		return nil
	}
}
