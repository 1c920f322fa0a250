package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizunime/mizunime/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.DefaultConfig()
	cfg.Catalog.BaseURL = server.URL
	cfg.Catalog.Timeout = 2 * time.Second
	return NewClient(cfg, nil, opts...)
}

func TestClient_Home(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, EndpointHome, r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		_, _ = w.Write([]byte(`{"status":"success","data":{"anime":[{"slug":"a","title":"A"},{"slug":"b","title":"B"}],"total_pages":9}}`))
	})

	res, err := client.Home(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 9, res.TotalPages)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "a", res.Items[0].Slug)
	assert.True(t, res.HasNext())
}

func TestClient_SearchEncodesQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, EndpointSearch, r.URL.Path)
		assert.Equal(t, "one piece & co", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"status":"success","data":{"anime":null,"total_pages":0}}`))
	})

	res, err := client.Search(context.Background(), "one piece & co", 0)

	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.NotNil(t, res.Items)
}

func TestClient_Schedule(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, EndpointSchedule, r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"success","data":{"Senin":[{"slug":"a","title":"A"}],"Selasa":[]}}`))
	})

	schedule, err := client.Schedule(context.Background())

	require.NoError(t, err)
	assert.Len(t, schedule["Senin"], 1)
	assert.Empty(t, schedule["Selasa"])
}

func TestClient_DetailAndWatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case EndpointDetail:
			assert.Equal(t, "frieren", r.URL.Query().Get("slug"))
			_, _ = w.Write([]byte(`{"status":"success","data":{"title":"Frieren","score":8.9,"genres":["Fantasy"],"episodes":[{"slug":"frieren-episode-1","title":"Ep 1"}]}}`))
		case EndpointWatch:
			_, _ = w.Write([]byte(`{"status":"success","data":{"title":"Frieren Ep 1","servers":[{"name":"Mega","url":"https://p.test/1"}],"next_episode":"frieren-episode-2"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	detail, err := client.Detail(context.Background(), "frieren")
	require.NoError(t, err)
	assert.Equal(t, "frieren", detail.Slug)
	assert.Equal(t, FlexString("8.9"), detail.Score)
	require.Len(t, detail.Episodes, 1)

	watch, err := client.Watch(context.Background(), "frieren-episode-1")
	require.NoError(t, err)
	assert.Equal(t, "frieren-episode-1", watch.Slug)
	assert.Equal(t, "frieren", watch.AnimeSlug)
	assert.Equal(t, "frieren-episode-2", watch.NextEpisode)
}

func TestClient_Errors(t *testing.T) {
	t.Run("non-2xx is a network error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.Home(context.Background(), 1)

		require.Error(t, err)
		var netErr *NetworkError
		require.ErrorAs(t, err, &netErr)
		assert.Equal(t, http.StatusBadGateway, netErr.StatusCode)
		assert.True(t, IsNetworkError(err))
		assert.False(t, IsMalformed(err))
	})

	t.Run("error status is malformed", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"error","message":"nope"}`))
		})

		_, err := client.Search(context.Background(), "x", 1)

		require.Error(t, err)
		assert.True(t, IsMalformed(err))
		assert.True(t, IsNetworkError(err))
	})

	t.Run("invalid json is malformed", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>maintenance</html>`))
		})

		_, err := client.Batch(context.Background(), 1)

		assert.True(t, IsMalformed(err))
	})

	t.Run("transport failure is a network error", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Catalog.BaseURL = "http://127.0.0.1:1"
		client := NewClient(cfg, nil)

		_, err := client.Home(context.Background(), 1)

		var netErr *NetworkError
		require.ErrorAs(t, err, &netErr)
		assert.Zero(t, netErr.StatusCode)
	})
}

func TestClient_Cache(t *testing.T) {
	var hits atomic.Int32
	var fail atomic.Bool
	handler := func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if fail.Load() {
			_, _ = w.Write([]byte(`{"status":"error"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"success","data":{"anime":[{"slug":"a","title":"A"}]}}`))
	}

	t.Run("serves repeated requests from cache", func(t *testing.T) {
		hits.Store(0)
		client := newTestClient(t, handler)

		_, err := client.Home(context.Background(), 1)
		require.NoError(t, err)
		body, err := client.Raw(context.Background(), EndpointHome, url.Values{"page": {"1"}})
		require.NoError(t, err)

		assert.Contains(t, string(body), `"slug":"a"`)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("never caches failures", func(t *testing.T) {
		hits.Store(0)
		fail.Store(true)
		defer fail.Store(false)
		client := newTestClient(t, handler)

		_, err := client.Home(context.Background(), 1)
		require.Error(t, err)
		_, err = client.Home(context.Background(), 1)
		require.Error(t, err)

		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("can be disabled", func(t *testing.T) {
		hits.Store(0)
		client := newTestClient(t, handler, WithoutCache())

		_, _ = client.Home(context.Background(), 1)
		_, _ = client.Home(context.Background(), 1)

		assert.Equal(t, int32(2), hits.Load())
	})
}

func TestResponseCacheExpiry(t *testing.T) {
	cache := NewResponseCache(time.Minute, 2)
	now := time.Unix(0, 0)
	cache.now = func() time.Time { return now }

	cache.Set("a", []byte("1"))
	_, ok := cache.Get("a")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = cache.Get("a")
	assert.False(t, ok)

	cache.Set("b", []byte("2"))
	cache.Set("c", []byte("3"))
	assert.LessOrEqual(t, cache.Len(), 2)

	assert.Nil(t, NewResponseCache(0, 0))
	var disabled *ResponseCache
	disabled.Set("x", nil)
	_, ok = disabled.Get("x")
	assert.False(t, ok)
}
