package client_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopkit-io/shopkit/internal/client"
	"github.com/shopkit-io/shopkit/pkg/admin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, version string) *client.Client {
	t.Helper()

	c, err := client.New(&admin.Config{Version: version})
	require.NoError(t, err)

	return c
}

func testSession(server *httptest.Server) *admin.Session {
	return &admin.Session{
		Shop:        server.URL,
		AccessToken: "shpat_test_token",
	}
}

func TestProducts_Find(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/admin/api/2022-10/products/7504536535062.json", r.URL.Path)

		_, _ = w.Write([]byte(`{"product":{"id":7504536535062,"title":"Grappler","status":"active"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, "2022-10")

	product, err := c.Products().Find(context.Background(), testSession(server), 7504536535062, nil)
	require.NoError(t, err)

	assert.Equal(t, "Grappler", product.GetString("title"))
	assert.Equal(t, admin.StatePersisted, product.State())

	id, ok := product.ID()
	require.True(t, ok)
	assert.Equal(t, int64(7504536535062), id)
}

func TestProducts_Find_NotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":"Not Found"}`))
	}))
	defer server.Close()

	c := newTestClient(t, "2022-10")

	_, err := c.Products().Find(context.Background(), testSession(server), 1, nil)
	require.Error(t, err)
	assert.True(t, admin.IsNotFound(err))
}

func TestProducts_UpdateSendsFullAttributeSet(t *testing.T) {
	t.Parallel()

	var puts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"product":{"id":7504536535062,"title":"An old title"}}`))

		case http.MethodPut:
			puts.Add(1)

			assert.Equal(t, "/admin/api/2022-10/products/7504536535062.json", r.URL.Path)

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{"product":{"id":7504536535062,"title":"A new title"}}`, string(body))

			_, _ = w.Write([]byte(`{"product":{"id":7504536535062,"title":"A new title"}}`))

		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	c := newTestClient(t, "2022-10")
	session := testSession(server)

	product, err := c.Products().Find(context.Background(), session, 7504536535062, nil)
	require.NoError(t, err)

	product.Set("title", "A new title")

	require.NoError(t, product.Save(context.Background()))

	assert.Equal(t, int32(1), puts.Load())
	assert.Equal(t, "A new title", product.GetString("title"))
	assert.Equal(t, admin.StatePersisted, product.State())
}

func TestProducts_RepeatedSaveSendsIdenticalBody(t *testing.T) {
	t.Parallel()

	const envelope = `{"product":{"id":7504536535062,"title":"Grappler","status":"active"}}`

	var (
		mu     sync.Mutex
		bodies []string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(envelope))

		case http.MethodPut:
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)

			mu.Lock()
			bodies = append(bodies, string(body))
			mu.Unlock()

			_, _ = w.Write([]byte(envelope))

		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	c := newTestClient(t, "2022-10")
	session := testSession(server)

	product, err := c.Products().Find(context.Background(), session, 7504536535062, nil)
	require.NoError(t, err)

	require.NoError(t, product.Save(context.Background()))
	require.NoError(t, product.Save(context.Background()))

	require.Len(t, bodies, 2)
	assert.JSONEq(t, bodies[0], bodies[1])
	assert.JSONEq(t, envelope, bodies[0])
}

func TestProducts_Create(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/api/2022-10/products.json", r.URL.Path)

		var body map[string]map[string]interface{}

		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Grappler", body["product"]["title"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"product":{"id":99,"title":"Grappler","status":"draft"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, "2022-10")

	product := c.Products().New(testSession(server))
	product.Set("title", "Grappler")

	require.NoError(t, product.Save(context.Background()))

	id, ok := product.ID()
	require.True(t, ok)
	assert.Equal(t, int64(99), id)
	assert.Equal(t, "draft", product.GetString("status"))
	assert.Equal(t, admin.StatePersisted, product.State())
}

func TestProducts_Create_MissingPrimaryKeyInResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"product":{"title":"Grappler"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, "2022-10")

	product := c.Products().New(testSession(server))
	product.Set("title", "Grappler")

	err := product.Save(context.Background())
	require.Error(t, err)
	assert.True(t, admin.IsValidation(err))
	assert.Equal(t, admin.StateUnsaved, product.State())
}

func TestProducts_SaveValidationFailureLeavesInstanceUntouched(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":{"title":["can't be blank"]}}`))
	}))
	defer server.Close()

	c := newTestClient(t, "2022-10")

	product := c.Products().New(testSession(server))
	product.Set("title", "")
	product.Set("vendor", "acme")

	err := product.Save(context.Background())
	require.Error(t, err)
	require.True(t, admin.IsValidation(err))

	validationErr := &admin.ValidationError{}
	require.ErrorAs(t, err, &validationErr)
	assert.JSONEq(t, `{"errors":{"title":["can't be blank"]}}`, string(validationErr.Body))

	assert.Equal(t, admin.StateUnsaved, product.State())
	assert.Equal(t, map[string]interface{}{"title": "", "vendor": "acme"}, product.Attributes())
}

func TestProducts_Delete(t *testing.T) {
	t.Parallel()

	t.Run("by id", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/admin/api/2022-10/products/42.json", r.URL.Path)

			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := newTestClient(t, "2022-10")

		err := c.Products().Delete(context.Background(), testSession(server), 42, nil)
		require.NoError(t, err)
	})

	t.Run("via instance", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				_, _ = w.Write([]byte(`{"product":{"id":42,"title":"Grappler"}}`))

				return
			}

			assert.Equal(t, http.MethodDelete, r.Method)
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := newTestClient(t, "2022-10")
		session := testSession(server)

		product, err := c.Products().Find(context.Background(), session, 42, nil)
		require.NoError(t, err)

		require.NoError(t, product.Delete(context.Background()))
		assert.Equal(t, admin.StateDeleted, product.State())

		err = product.Save(context.Background())
		assert.ErrorIs(t, err, admin.ErrResourceDeleted)
	})
}

func TestProducts_Count(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2022-10/products/count.json", r.URL.Path)
		assert.Equal(t, "active", r.URL.Query().Get("status"))

		_, _ = w.Write([]byte(`{"count":153}`))
	}))
	defer server.Close()

	c := newTestClient(t, "2022-10")
	params := admin.NewQueryParams().WithFilter("status", "active")

	count, err := c.Products().Count(context.Background(), testSession(server), params)
	require.NoError(t, err)
	assert.Equal(t, 153, count)
}

func TestProducts_All_MissingEnvelopeKey(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"things":[]}`))
	}))
	defer server.Close()

	c := newTestClient(t, "2022-10")

	_, err := c.Products().All(context.Background(), testSession(server), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, admin.ErrMissingEnvelopeKey)
}

// paginatedProducts serves a two-page collection, issuing a next link on the
// first page and a previous link on the second.
func paginatedProducts(t *testing.T) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2022-10/products.json", r.URL.Path)

		base := "https://shop.example.com" + r.URL.Path

		switch r.URL.Query().Get("page_info") {
		case "":
			w.Header().Set("Link", fmt.Sprintf(`<%s?page_info=page-two&limit=2>; rel="next"`, base))
			_, _ = w.Write([]byte(`{"products":[{"id":1,"title":"one"},{"id":2,"title":"two"}]}`))

		case "page-two":
			w.Header().Set("Link", fmt.Sprintf(`<%s?page_info=page-one&limit=2>; rel="previous"`, base))
			_, _ = w.Write([]byte(`{"products":[{"id":3,"title":"three"}]}`))

		default:
			t.Errorf("unexpected page_info %q", r.URL.Query().Get("page_info"))
		}
	})
}

func TestProducts_All_CursorPagination(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(paginatedProducts(t))
	defer server.Close()

	c := newTestClient(t, "2022-10")
	session := testSession(server)
	products := c.Products()

	first, err := products.All(context.Background(), session, admin.NewQueryParams().WithLimit(2))
	require.NoError(t, err)

	require.Len(t, first.Resources, 2)
	assert.Equal(t, "one", first.Resources[0].GetString("title"))
	require.NotNil(t, first.NextPageInfo)
	assert.Nil(t, first.PrevPageInfo)
	assert.Equal(t, "page-two", first.NextPageInfo.Token())

	// The shared per-type tracker mirrors the latest page's cursors.
	require.NotNil(t, products.NextPageInfo())
	assert.Equal(t, "page-two", products.NextPageInfo().Token())

	second, err := products.All(context.Background(), session, admin.NewQueryParamsFromPageInfo(first.NextPageInfo))
	require.NoError(t, err)

	require.Len(t, second.Resources, 1)
	assert.Equal(t, "three", second.Resources[0].GetString("title"))
	assert.Nil(t, second.NextPageInfo)
	require.NotNil(t, second.PrevPageInfo)
	assert.Equal(t, "page-one", second.PrevPageInfo.Token())

	// Last page: the tracker's forward cursor is cleared.
	assert.Nil(t, products.NextPageInfo())
	require.NotNil(t, products.PrevPageInfo())
	assert.Equal(t, "page-one", products.PrevPageInfo().Token())
}

func TestProducts_All_TrackerOverwrittenByLatestCall(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := fmt.Sprintf("cursor-%d", calls.Add(1))
		w.Header().Set("Link", fmt.Sprintf(`<https://shop.example.com%s?page_info=%s>; rel="next"`, r.URL.Path, token))

		_, _ = w.Write([]byte(`{"products":[{"id":1}]}`))
	}))
	defer server.Close()

	c := newTestClient(t, "2022-10")
	session := testSession(server)
	products := c.Products()

	_, err := products.All(context.Background(), session, nil)
	require.NoError(t, err)
	assert.Equal(t, "cursor-1", products.NextPageInfo().Token())

	_, err = products.All(context.Background(), session, nil)
	require.NoError(t, err)
	assert.Equal(t, "cursor-2", products.NextPageInfo().Token())
}

func TestProducts_All_MalformedLinkHeader(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Link", "not a link header")
		_, _ = w.Write([]byte(`{"products":[{"id":1}]}`))
	}))
	defer server.Close()

	c := newTestClient(t, "2022-10")
	products := c.Products()

	_, err := products.All(context.Background(), testSession(server), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, admin.ErrMalformedLinkHeader)

	// A failed list call never touches the shared tracker.
	assert.Nil(t, products.NextPageInfo())
	assert.Nil(t, products.PrevPageInfo())
}

func TestProducts_FetchAllPagesEndToEnd(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(paginatedProducts(t))
	defer server.Close()

	c := newTestClient(t, "2022-10")

	all, err := admin.FetchAllPages(
		context.Background(),
		c.Products(),
		testSession(server),
		admin.NewQueryParams().WithLimit(2),
		nil,
	)
	require.NoError(t, err)

	require.Len(t, all, 3)
	assert.Equal(t, "three", all[2].GetString("title"))
}

func TestProducts_LargeIDsSurviveDecoding(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"products":[{"id":9223372036854775807,"title":"max"}]}`))
	}))
	defer server.Close()

	c := newTestClient(t, "2022-10")

	result, err := c.Products().All(context.Background(), testSession(server), nil)
	require.NoError(t, err)
	require.Len(t, result.Resources, 1)

	id, ok := result.Resources[0].ID()
	require.True(t, ok)
	assert.Equal(t, int64(9223372036854775807), id)
}
