package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	internalhttp "github.com/shopkit-io/shopkit/internal/http"
	"github.com/shopkit-io/shopkit/pkg/admin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger captures log calls for verification.
type mockLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *mockLogger) log(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, message)
}

func (l *mockLogger) Debug(message string, _ map[string]interface{}) { l.log(message) }
func (l *mockLogger) Info(message string, _ map[string]interface{})  { l.log(message) }
func (l *mockLogger) Warn(message string, _ map[string]interface{})  { l.log(message) }
func (l *mockLogger) Error(message string, _ map[string]interface{}) { l.log(message) }

func (l *mockLogger) logged() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.messages...)
}

func testSession(server *httptest.Server) *admin.Session {
	return &admin.Session{
		Shop:        server.URL,
		AccessToken: "shpat_test_token",
	}
}

func TestClient_Do(t *testing.T) {
	t.Parallel()

	t.Run("successful GET with auth headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "GET", r.Method)
			assert.Equal(t, "/admin/api/2022-10/products.json", r.URL.Path)
			assert.Equal(t, "shpat_test_token", r.Header.Get("X-Shopify-Access-Token"))
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			assert.Equal(t, "shopkit-go", r.Header.Get("User-Agent"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"products":[]}`))
		}))
		defer server.Close()

		client := internalhttp.NewClient()

		resp, err := client.Get(context.Background(), testSession(server), "/admin/api/2022-10/products.json", nil)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"products":[]}`, string(resp.Body))
	})

	t.Run("query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "2", r.URL.Query().Get("limit"))
			assert.Equal(t, "active", r.URL.Query().Get("status"))

			_, _ = w.Write([]byte(`{"products":[]}`))
		}))
		defer server.Close()

		client := internalhttp.NewClient()
		query := admin.NewQueryParams().WithLimit(2).WithFilter("status", "active").ToValues()

		_, err := client.Get(context.Background(), testSession(server), "/admin/api/2022-10/products.json", query)
		require.NoError(t, err)
	})

	t.Run("POST encodes body as JSON", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body map[string]interface{}

			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]interface{}{"product": map[string]interface{}{"title": "Grappler"}}, body)

			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"product":{"id":1,"title":"Grappler"}}`))
		}))
		defer server.Close()

		client := internalhttp.NewClient()
		body := map[string]interface{}{"product": map[string]interface{}{"title": "Grappler"}}

		resp, err := client.Post(context.Background(), testSession(server), "/admin/api/2022-10/products.json", body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("session is validated before sending", func(t *testing.T) {
		t.Parallel()

		client := internalhttp.NewClient()

		_, err := client.Get(context.Background(), &admin.Session{}, "/admin/api/2022-10/products.json", nil)
		assert.ErrorIs(t, err, admin.ErrShopRequired)

		_, err = client.Do(context.Background(), &internalhttp.Request{Method: "GET", Path: "/x"})
		assert.ErrorIs(t, err, admin.ErrSessionRequired)
	})

	t.Run("connectivity failure is a transport error", func(t *testing.T) {
		t.Parallel()

		client := internalhttp.NewClient(internalhttp.WithRetryConfig(0, time.Millisecond, time.Millisecond))
		session := &admin.Session{Shop: "http://127.0.0.1:1", AccessToken: "x"}

		_, err := client.Get(context.Background(), session, "/admin/api/2022-10/products.json", nil)
		require.Error(t, err)

		transportErr := &admin.TransportError{}
		assert.ErrorAs(t, err, &transportErr)
	})
}

func TestClient_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		body       string
		check      func(*testing.T, error)
	}{
		{
			name:       "404 not found",
			statusCode: http.StatusNotFound,
			body:       `{"errors":"Not Found"}`,
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, admin.IsNotFound(err))
			},
		},
		{
			name:       "422 validation",
			statusCode: http.StatusUnprocessableEntity,
			body:       `{"errors":{"title":["can't be blank"]}}`,
			check: func(t *testing.T, err error) {
				t.Helper()
				require.True(t, admin.IsValidation(err))

				validationErr := &admin.ValidationError{}
				require.ErrorAs(t, err, &validationErr)
				assert.JSONEq(t, `{"errors":{"title":["can't be blank"]}}`, string(validationErr.Body))
			},
		},
		{
			name:       "500 generic API error",
			statusCode: http.StatusInternalServerError,
			body:       `{"errors":"boom"}`,
			check: func(t *testing.T, err error) {
				t.Helper()

				apiErr := &admin.APIError{}
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(testCase.statusCode)
				_, _ = w.Write([]byte(testCase.body))
			}))
			defer server.Close()

			client := internalhttp.NewClient(internalhttp.WithRetryConfig(0, time.Millisecond, time.Millisecond))

			resp, err := client.Get(context.Background(), testSession(server), "/admin/api/2022-10/products/1.json", nil)
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, testCase.statusCode, resp.StatusCode)

			testCase.check(t, err)
		})
	}
}

func TestClient_Retries(t *testing.T) {
	t.Parallel()

	t.Run("retries on 5xx", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if attempts.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)

				return
			}

			_, _ = w.Write([]byte(`{"products":[]}`))
		}))
		defer server.Close()

		client := internalhttp.NewClient(internalhttp.WithRetryConfig(5, time.Millisecond, 5*time.Millisecond))

		resp, err := client.Get(context.Background(), testSession(server), "/admin/api/2022-10/products.json", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int32(3), attempts.Load())
	})

	t.Run("retries on 429", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if attempts.Add(1) == 1 {
				w.Header().Set("Retry-After", "0")
				w.WriteHeader(http.StatusTooManyRequests)

				return
			}

			_, _ = w.Write([]byte(`{"products":[]}`))
		}))
		defer server.Close()

		client := internalhttp.NewClient(internalhttp.WithRetryConfig(3, time.Millisecond, 5*time.Millisecond))

		_, err := client.Get(context.Background(), testSession(server), "/admin/api/2022-10/products.json", nil)
		require.NoError(t, err)
		assert.Equal(t, int32(2), attempts.Load())
	})

	t.Run("does not retry on 4xx", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			attempts.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := internalhttp.NewClient(internalhttp.WithRetryConfig(3, time.Millisecond, 5*time.Millisecond))

		_, err := client.Get(context.Background(), testSession(server), "/admin/api/2022-10/products/1.json", nil)
		require.Error(t, err)
		assert.Equal(t, int32(1), attempts.Load())
	})
}

func TestClient_HTTPTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))

	defer server.Close()
	defer close(release)

	client := internalhttp.NewClient(
		internalhttp.WithHTTPTimeout(50*time.Millisecond),
		internalhttp.WithRetryConfig(0, time.Millisecond, time.Millisecond),
	)

	start := time.Now()

	_, err := client.Get(context.Background(), testSession(server), "/admin/api/2022-10/shop.json", nil)
	require.Error(t, err)

	var transportErr *admin.TransportError

	assert.ErrorAs(t, err, &transportErr)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestClient_Methods(t *testing.T) {
	t.Parallel()

	methods := []struct {
		name string
		call func(*internalhttp.Client, *admin.Session) (*internalhttp.Response, error)
		want string
	}{
		{
			name: "GET",
			call: func(c *internalhttp.Client, s *admin.Session) (*internalhttp.Response, error) {
				return c.Get(context.Background(), s, "/x.json", nil)
			},
			want: http.MethodGet,
		},
		{
			name: "POST",
			call: func(c *internalhttp.Client, s *admin.Session) (*internalhttp.Response, error) {
				return c.Post(context.Background(), s, "/x.json", map[string]string{"a": "b"})
			},
			want: http.MethodPost,
		},
		{
			name: "PUT",
			call: func(c *internalhttp.Client, s *admin.Session) (*internalhttp.Response, error) {
				return c.Put(context.Background(), s, "/x.json", map[string]string{"a": "b"})
			},
			want: http.MethodPut,
		},
		{
			name: "DELETE",
			call: func(c *internalhttp.Client, s *admin.Session) (*internalhttp.Response, error) {
				return c.Delete(context.Background(), s, "/x.json", nil)
			},
			want: http.MethodDelete,
		},
	}

	for _, testCase := range methods {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var seen string

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = r.Method

				_, _ = w.Write([]byte(`{}`))
			}))
			defer server.Close()

			client := internalhttp.NewClient()

			_, err := testCase.call(client, testSession(server))
			require.NoError(t, err)
			assert.Equal(t, testCase.want, seen)
		})
	}
}

func TestClient_DebugLogging(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	logger := &mockLogger{}
	client := internalhttp.NewClient(internalhttp.WithLogger(logger), internalhttp.WithDebug(true))

	_, err := client.Get(context.Background(), testSession(server), "/x.json", nil)
	require.NoError(t, err)

	messages := logger.logged()
	assert.Contains(t, messages, "HTTP Request")
	assert.Contains(t, messages, "HTTP Response")
}

func TestClient_RateLimitObservation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(admin.CallLimitHeader, "32/40")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient()

	_, err := client.Get(context.Background(), testSession(server), "/x.json", nil)
	require.NoError(t, err)

	assert.Equal(t, admin.RateLimit{Used: 32, Cap: 40}, client.RateLimit())
	assert.Equal(t, 8, client.RateLimit().Remaining())
}

// recordingCache captures the keys the transport hands to the cache.
type recordingCache struct {
	mu      sync.Mutex
	getKeys []string
	setKeys []string
}

func (c *recordingCache) Get(_ context.Context, key string) (*admin.CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.getKeys = append(c.getKeys, key)

	return nil, admin.ErrCacheDisabled
}

func (c *recordingCache) Set(_ context.Context, key string, _ *admin.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setKeys = append(c.setKeys, key)

	return nil
}

func (c *recordingCache) Delete(context.Context, string) error { return nil }
func (c *recordingCache) Clear(context.Context) error          { return nil }
func (c *recordingCache) Has(context.Context, string) bool     { return false }

func TestClient_Cache(t *testing.T) {
	t.Parallel()

	t.Run("repeated GET served from cache", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			_, _ = w.Write([]byte(`{"product":{"id":1}}`))
		}))
		defer server.Close()

		client := internalhttp.NewClient(internalhttp.WithCache(admin.NewMemoryCache(10), time.Minute))
		session := testSession(server)

		for range 3 {
			resp, err := client.Get(context.Background(), session, "/admin/api/2022-10/products/1.json", nil)
			require.NoError(t, err)
			assert.JSONEq(t, `{"product":{"id":1}}`, string(resp.Body))
		}

		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("non-GET requests bypass the cache", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := internalhttp.NewClient(internalhttp.WithCache(admin.NewMemoryCache(10), time.Minute))
		session := testSession(server)

		for range 2 {
			_, err := client.Post(context.Background(), session, "/x.json", map[string]string{"a": "b"})
			require.NoError(t, err)
		}

		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("keys fit KV backend constraints", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		spy := &recordingCache{}
		client := internalhttp.NewClient(internalhttp.WithCache(spy, time.Minute))

		query := admin.NewQueryParams().
			WithLimit(2).
			WithFilter("status", "active").
			ToValues()

		_, err := client.Get(context.Background(), testSession(server), "/admin/api/2022-10/products.json", query)
		require.NoError(t, err)

		require.Len(t, spy.getKeys, 1)
		require.Len(t, spy.setKeys, 1)
		assert.Equal(t, spy.getKeys[0], spy.setKeys[0])

		// NATS JetStream KV accepts only this character set in keys.
		for _, key := range append(spy.getKeys, spy.setKeys...) {
			assert.Regexp(t, `^[-/_=.a-zA-Z0-9]+$`, key)
		}
	})

	t.Run("different query strings cache separately", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			_, _ = w.Write([]byte(`{"products":[]}`))
		}))
		defer server.Close()

		client := internalhttp.NewClient(internalhttp.WithCache(admin.NewMemoryCache(10), time.Minute))
		session := testSession(server)

		_, err := client.Get(context.Background(), session, "/x.json", admin.NewQueryParams().WithLimit(1).ToValues())
		require.NoError(t, err)

		_, err = client.Get(context.Background(), session, "/x.json", admin.NewQueryParams().WithLimit(2).ToValues())
		require.NoError(t, err)

		assert.Equal(t, int32(2), hits.Load())
	})
}

func TestClient_CustomInterceptors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-value", r.Header.Get("X-Custom-Header"))

		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(internalhttp.WithInterceptors(func(chain *admin.InterceptorChain) {
		chain.AddRequestInterceptor(func(_ context.Context, req *admin.RequestInfo) error {
			req.Headers.Set("X-Custom-Header", "test-value")

			return nil
		})
	}))

	_, err := client.Get(context.Background(), testSession(server), "/x.json", nil)
	require.NoError(t, err)
}
