package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apikeydomain "github.com/villagiolabs/villagio/internal/apikey/domain"
	"github.com/villagiolabs/villagio/internal/clock"
	"github.com/villagiolabs/villagio/internal/config"
)

func newTestServer(t *testing.T) (*Server, *miniredis.Miniredis, *prometheus.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	registry := prometheus.NewRegistry()

	s := &Server{
		cfg: config.Config{
			Auth: config.AuthConfig{RateLimitRPS: 2, RateLimitBurst: 0},
		},
		log:         zap.NewNop(),
		redis:       goredis.NewClient(&goredis.Options{Addr: mr.Addr()}),
		clock:       clock.Fixed{At: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
		httpMetrics: newHTTPMetrics(registry),
	}
	return s, mr, registry
}

func TestAllowRateFixedWindow(t *testing.T) {
	s, _, _ := newTestServer(t)

	key := &apikeydomain.APIKey{ID: snowflake.ID(42)}
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/villages", nil)

	require.NoError(t, s.allowRate(c, key))
	require.NoError(t, s.allowRate(c, key))
	assert.ErrorIs(t, s.allowRate(c, key), ErrRateLimited)
}

func TestAllowRateSeparateKeys(t *testing.T) {
	s, _, _ := newTestServer(t)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/villages", nil)

	first := &apikeydomain.APIKey{ID: snowflake.ID(1)}
	second := &apikeydomain.APIKey{ID: snowflake.ID(2)}

	require.NoError(t, s.allowRate(c, first))
	require.NoError(t, s.allowRate(c, first))
	assert.ErrorIs(t, s.allowRate(c, first), ErrRateLimited)

	// The second key has its own window.
	require.NoError(t, s.allowRate(c, second))
}

func TestAllowRateFailsOpenWithoutRedis(t *testing.T) {
	s, mr, _ := newTestServer(t)
	mr.Close()

	key := &apikeydomain.APIKey{ID: snowflake.ID(7)}
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/villages", nil)

	require.NoError(t, s.allowRate(c, key))
}

func TestMetricsMiddleware(t *testing.T) {
	s, _, registry := newTestServer(t)

	r := gin.New()
	r.Use(s.Metrics())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	families, err := registry.Gather()
	require.NoError(t, err)

	var requests *dto.MetricFamily
	for _, family := range families {
		if family.GetName() == "villagio_http_requests_total" {
			requests = family
		}
	}
	require.NotNil(t, requests)
	require.Len(t, requests.GetMetric(), 1)
	assert.Equal(t, float64(1), requests.GetMetric()[0].GetCounter().GetValue())

	labels := map[string]string{}
	for _, pair := range requests.GetMetric()[0].GetLabel() {
		labels[pair.GetName()] = pair.GetValue()
	}
	assert.Equal(t, "/ping", labels["route"])
	assert.Equal(t, "200", labels["status"])
}

func TestRequestIDMiddleware(t *testing.T) {
	s, _, _ := newTestServer(t)

	r := gin.New()
	r.Use(s.RequestID())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(headerRequestID))

	// A caller-supplied ID is kept.
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(headerRequestID, "given-id")
	r.ServeHTTP(w, req)
	assert.Equal(t, "given-id", w.Header().Get(headerRequestID))
}
