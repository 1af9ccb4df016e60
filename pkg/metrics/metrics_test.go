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

func TestNewMetricsDefaults(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "facesearch"})

	assert.Equal(t, DefaultMetricsAddress, m.Server.Addr)
	assert.False(t, m.enabled)
}

func TestCountersAndHistograms(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "facesearch", Namespace: "facesearch"})

	m.IncrementRequests("find", "success")
	m.IncrementRequests("find", "success")
	m.IncrementRequests("index", "error")
	m.IncrementImages("index", "Redis")
	m.ObserveRetrieval("Qdrant", 0.75, 0.6)
	m.RecordRequestDuration(time.Now().Add(-time.Second), "find")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("find", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("index", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.imagesProcessed.WithLabelValues("index", "Redis")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.precision))
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestDuration))
}

func TestHandlerExposesServiceLabel(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "facesearch", Namespace: "facesearch"})
	m.IncrementRequests("find", "success")

	rec := httptest.NewRecorder()
	m.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `facesearch_requests_total{operation="find",service="facesearch",status="success"} 1`), body)
}
