package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector()

	c.ObserveQuery("matches", time.Millisecond)
	c.ObserveQuery("matches", time.Millisecond)
	c.ObserveQuery("greeting", time.Microsecond)
	c.ObserveRequest("/api/v1/resolve", "POST", 200)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.queriesTotal.WithLabelValues("matches")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.queriesTotal.WithLabelValues("greeting")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requestsTotal.WithLabelValues("/api/v1/resolve", "POST", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.queryDuration))
}

func TestCollectorsAreIndependent(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	a.ObserveQuery("help", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.queriesTotal.WithLabelValues("help")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.queriesTotal.WithLabelValues("help")))
}

func TestHandler(t *testing.T) {
	c := NewCollector()
	c.ObserveQuery("no_match", time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `cardiag_queries_total{kind="no_match"} 1`)
	assert.Contains(t, string(body), "cardiag_query_duration_seconds_count 1")
	assert.Contains(t, string(body), "go_goroutines")
}
