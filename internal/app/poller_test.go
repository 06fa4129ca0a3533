package app

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/gkgfeed/internal/app/ingest"
	"github.com/heartmarshall/gkgfeed/internal/config"
	"github.com/heartmarshall/gkgfeed/internal/fetch"
	"github.com/heartmarshall/gkgfeed/internal/metrics"
	"github.com/heartmarshall/gkgfeed/internal/transport/rest"
)

// zipSample returns the sample feed file packed as a GDELT archive.
func zipSample(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "gkg", "testdata", "sample.gkg.csv"))
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("20150218230000.gkg.csv")
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// newFeedServer serves a lastupdate listing that points at one archive.
func newFeedServer(t *testing.T, archive []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	sum := md5.Sum(archive)
	var downloads atomic.Int32

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lastupdate.txt":
			fmt.Fprintf(w, "10 aaa %s/20150218230000.export.CSV.zip\n", srv.URL)
			fmt.Fprintf(w, "%d %s %s/20150218230000.gkg.csv.zip\n", len(archive), hex.EncodeToString(sum[:]), srv.URL)
		case "/20150218230000.gkg.csv.zip":
			downloads.Add(1)
			_, _ = w.Write(archive)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &downloads
}

func newTestPoller(t *testing.T, baseURL string, m *metrics.Metrics) *Poller {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	client := fetch.NewClient(config.FetchConfig{BaseURL: baseURL, Timeout: 5 * time.Second}, log)
	pipeline := ingest.NewPipeline(log, nil, m, ingest.Config{BatchSize: 2, Workers: 2, DryRun: true})
	return NewPoller(client, pipeline, log, time.Hour, false)
}

func TestPoller_PollSkipsIngestedFile(t *testing.T) {
	srv, downloads := newFeedServer(t, zipSample(t))
	p := newTestPoller(t, srv.URL, nil)
	ctx := context.Background()

	res, ingested, err := p.Poll(ctx)
	require.NoError(t, err)
	assert.True(t, ingested)
	assert.Equal(t, 3, res.Parsed)
	assert.Equal(t, 1, res.Rejected)

	_, ingested, err = p.Poll(ctx)
	require.NoError(t, err)
	assert.False(t, ingested)
	assert.Equal(t, int32(1), downloads.Load())
}

func TestPoller_PollRetriesAfterFailure(t *testing.T) {
	archive := zipSample(t)
	var fail atomic.Bool
	fail.Store(true)

	sum := md5.Sum(archive)
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/lastupdate.txt":
			fmt.Fprintf(w, "%d %s %s/20150218230000.gkg.csv.zip\n", len(archive), hex.EncodeToString(sum[:]), srv.URL)
		case fail.Load():
			w.WriteHeader(http.StatusNotFound)
		default:
			_, _ = w.Write(archive)
		}
	}))
	defer srv.Close()

	p := newTestPoller(t, srv.URL, nil)
	ctx := context.Background()

	_, ingested, err := p.Poll(ctx)
	require.Error(t, err)
	assert.False(t, ingested)

	fail.Store(false)
	_, ingested, err = p.Poll(ctx)
	require.NoError(t, err)
	assert.True(t, ingested)
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	srv, downloads := newFeedServer(t, zipSample(t))
	p := newTestPoller(t, srv.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()

	require.Eventually(t, func() bool { return downloads.Load() == 1 }, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestPoller_MetricsServedByRouter(t *testing.T) {
	srv, _ := newFeedServer(t, zipSample(t))
	m := metrics.New()
	p := newTestPoller(t, srv.URL, m)

	_, ingested, err := p.Poll(context.Background())
	require.NoError(t, err)
	require.True(t, ingested)

	router := rest.NewRouter(rest.Deps{
		Log:     slog.New(slog.DiscardHandler),
		Health:  rest.NewHealthHandler(Version, nil),
		Metrics: m,
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`(?m)^gkgfeed_lines_read_total [1-9]`), string(body))
	assert.Regexp(t, regexp.MustCompile(`(?m)^gkgfeed_records_parsed_total 3$`), string(body))
	assert.Regexp(t, regexp.MustCompile(`(?m)^gkgfeed_lines_rejected_total 1$`), string(body))
}
