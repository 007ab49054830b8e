package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveEvaluation(t *testing.T) {
	c := New()

	c.ObserveEvaluation(8, 100, 2*time.Millisecond)
	c.ObserveEvaluation(0, 0, time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(c.evaluationsTotal), 1e-9)
	assert.Equal(t, 1, testutil.CollectAndCount(c.evaluationUtilization))
}

func TestObserveSelection(t *testing.T) {
	c := New()

	c.ObserveSelection(true, 3, time.Millisecond)
	c.ObserveSelection(true, 3, time.Millisecond)
	c.ObserveSelection(false, 1, time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(c.selectionsTotal.WithLabelValues("found")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(c.selectionsTotal.WithLabelValues("none")), 1e-9)
}

func TestObserveRequest(t *testing.T) {
	c := New()

	c.ObserveRequest(http.MethodPost, "/api/select", http.StatusOK, 5*time.Millisecond)
	c.ObserveRequest(http.MethodPost, "/api/select", http.StatusBadRequest, time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(c.httpRequestsTotal.WithLabelValues("POST", "/api/select", "200")), 1e-9)
	assert.Equal(t, 2, testutil.CollectAndCount(c.httpRequestsTotal))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.ObserveSelection(true, 1, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `cartonfit_selections_total{outcome="found"} 1`), body)
	assert.Contains(t, body, "go_goroutines")
}

func TestCollectorsAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.ObserveEvaluation(1, 10, time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(a.evaluationsTotal), 1e-9)
	assert.InDelta(t, 0, testutil.ToFloat64(b.evaluationsTotal), 1e-9)
	assert.NotSame(t, a.Registry(), b.Registry())
}
