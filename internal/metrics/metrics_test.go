package metrics

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(m *Metrics) *gin.Engine {
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/todos/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))
	return r
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := New()
	r := newRouter(m)

	for _, path := range []string{"/todos/101", "/todos/102"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/todos/:id", "200")))
}

func TestMiddleware_UnmatchedSharesOneSeries(t *testing.T) {
	m := New()
	r := newRouter(m)

	for i := range 50 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/scan/%d", i), nil))
		require.Equal(t, http.StatusNotFound, w.Code)
	}

	assert.Equal(t, 1, testutil.CollectAndCount(m.requests, "http_requests_total"))
	assert.Equal(t, 50.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", UnmatchedRoute, "404")))
}

func TestObserve_Histogram(t *testing.T) {
	m := New()
	m.Observe("POST", "/todos", 201, 20*time.Millisecond)
	m.Observe("POST", "/todos", 201, 2*time.Second)

	assert.Equal(t, 1, testutil.CollectAndCount(m.duration, "http_request_duration_seconds"))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["http_requests_total"])
	assert.True(t, names["http_request_duration_seconds"])
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	r := newRouter(m)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/todos/7", nil))

	srv := httptest.NewServer(r)
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, `http_requests_total{method="GET",route="/todos/:id",status_code="200"} 1`)
	assert.Contains(t, out, `http_request_duration_seconds_bucket{method="GET",route="/todos/:id",status_code="200",le="0.01"}`)
	assert.Contains(t, out, "go_goroutines")
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))
}
