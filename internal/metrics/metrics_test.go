package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.LineRead()
	m.LineRead()
	m.LineRead()
	m.RecordParsed()
	m.RecordParsed()
	m.LineRejected()
	m.RecordFiltered()
	m.BatchStored(2, 150*time.Millisecond)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.linesRead))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.recordsParsed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.linesRejected))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recordsFiltered))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.recordsStored))
	assert.Equal(t, 1, testutil.CollectAndCount(m.batchDuration))
}

func TestMetrics_RunFinished(t *testing.T) {
	m := New()
	ts := time.Date(2025, 2, 17, 12, 0, 0, 0, time.UTC)

	m.RunFinished(ts)

	assert.Equal(t, float64(ts.Unix()), testutil.ToFloat64(m.lastRun))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.LineRead()
		m.RecordParsed()
		m.LineRejected()
		m.RecordFiltered()
		m.BatchStored(10, time.Second)
		m.RunFinished(time.Now())
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.LineRead()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "gkgfeed_lines_read_total 1")
	assert.Contains(t, string(body), "gkgfeed_batch_duration_seconds_bucket")
	assert.Contains(t, string(body), "go_goroutines")
}
