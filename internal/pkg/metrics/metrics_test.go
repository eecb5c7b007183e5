package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"orderflow/internal/core/domain/model/effect"
	"orderflow/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerMetrics_Middleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewServerMetrics(reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/orders/:id", func(c echo.Context) error {
		if c.Param("id") == "0" {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return c.NoContent(http.StatusOK)
	})

	for _, path := range []string{"/orders/1", "/orders/2", "/orders/0"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.Requests.WithLabelValues("/orders/:id", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Requests.WithLabelValues("/orders/:id", "404")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.LatencyMS))
}

func TestRelayMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewRelayMetrics(reg)

	m.EffectDispatched(effect.KindNotify)
	m.EffectDispatched(effect.KindNotify)
	m.EffectFailed(effect.KindGenerateDocument)

	assert.InDelta(t, 2, testutil.ToFloat64(m.Dispatched.WithLabelValues("NOTIFY")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Failed.WithLabelValues("GENERATE_DOCUMENT")), 0)
}

func TestHandler_ExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewRelayMetrics(reg).EffectDispatched(effect.KindNotify)

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `orderflow_relay_effects_dispatched_total{kind="NOTIFY"} 1`))
}
