package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/heartmarshall/gkgfeed/internal/app/ingest"
	"github.com/heartmarshall/gkgfeed/internal/fetch"
)

// Poller downloads the newest feed file on a fixed interval and runs it
// through the pipeline. A file is ingested at most once per process; a
// failed file is retried on the next tick.
type Poller struct {
	client      *fetch.Client
	pipeline    *ingest.Pipeline
	log         *slog.Logger
	interval    time.Duration
	translation bool

	lastURL string
}

// NewPoller creates a Poller. Poll and Run must not be called concurrently.
func NewPoller(client *fetch.Client, pipeline *ingest.Pipeline, log *slog.Logger, interval time.Duration, translation bool) *Poller {
	return &Poller{
		client:      client,
		pipeline:    pipeline,
		log:         log.With(slog.String("component", "poller")),
		interval:    interval,
		translation: translation,
	}
}

// Run polls once immediately, then every interval until ctx is done.
// Errors are logged and do not stop the loop.
func (p *Poller) Run(ctx context.Context) {
	p.log.Info("poller started", slog.Duration("interval", p.interval), slog.Bool("translation", p.translation))
	p.pollAndLog(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.log.Info("poller stopped")
			return
		case <-ticker.C:
			p.pollAndLog(ctx)
		}
	}
}

func (p *Poller) pollAndLog(ctx context.Context) {
	if _, _, err := p.Poll(ctx); err != nil && ctx.Err() == nil {
		p.log.Error("poll failed", slog.String("error", err.Error()))
	}
}

// Poll ingests the newest feed file unless it is the one ingested last.
// It reports whether a file was ingested.
func (p *Poller) Poll(ctx context.Context) (ingest.Result, bool, error) {
	entry, err := p.client.LatestGKG(ctx, p.translation)
	if err != nil {
		return ingest.Result{}, false, err
	}
	if entry.URL == p.lastURL {
		p.log.Debug("no new feed file", slog.String("url", entry.URL))
		return ingest.Result{}, false, nil
	}

	dir, err := os.MkdirTemp("", "gkgfeed-poll-")
	if err != nil {
		return ingest.Result{}, false, fmt.Errorf("create download dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path, err := p.client.Download(ctx, entry.URL, dir, entry.MD5)
	if err != nil {
		return ingest.Result{}, false, err
	}
	src, err := fetch.OpenGKG(path)
	if err != nil {
		return ingest.Result{}, false, err
	}
	defer src.Close()

	res, err := p.pipeline.Run(ctx, src, filepath.Base(path))
	if err != nil {
		return res, false, err
	}
	p.lastURL = entry.URL
	return res, true, nil
}
