package main

import (
	"context"
	"fmt"

	"github.com/heartmarshall/gkgfeed/internal/app"
)

func runIngest(ctx context.Context, args []string) error {
	fs, configPath := newFlagSet("ingest")
	source := addSourceFlags(fs)
	opts := addFilterFlags(fs)
	dryRun := fs.Bool("dry-run", false, "parse and filter without writing to the database")
	batchSize := fs.Int("batch-size", 0, "records per insert batch (default: ingest.batch_size)")
	workers := fs.Int("workers", 0, "parse goroutines (default: ingest.workers)")
	maxErrors := fs.Int("max-errors", -1, "abort after this many rejected lines, 0 = unlimited (default: ingest.max_errors)")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := source.checkArgs(fs, positional); err != nil {
		return err
	}

	cfg, log, err := setup(*configPath)
	if err != nil {
		return err
	}

	// CLI flags override config.
	if *dryRun {
		cfg.Ingest.DryRun = true
	}
	if *batchSize > 0 {
		cfg.Ingest.BatchSize = *batchSize
	}
	if *workers > 0 {
		cfg.Ingest.Workers = *workers
	}
	if *maxErrors >= 0 {
		cfg.Ingest.MaxErrors = *maxErrors
	}

	f, err := buildFilter(opts)
	if err != nil {
		return err
	}

	path, cleanup, err := source.resolve(ctx, cfg, log, positional)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := app.Ingest(ctx, cfg, log, path, f)
	if err != nil {
		return err
	}

	fmt.Printf("lines=%d parsed=%d rejected=%d filtered=%d accepted=%d stored=%d duplicates=%d duration=%s\n",
		res.Lines, res.Parsed, res.Rejected, res.Filtered, res.Accepted, res.Stored, res.Duplicates, res.Duration)
	return nil
}

func runMigrate(ctx context.Context, args []string) error {
	fs, configPath := newFlagSet("migrate")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	cfg, log, err := setup(*configPath)
	if err != nil {
		return err
	}
	return app.Migrate(ctx, cfg, log)
}

func runServe(ctx context.Context, args []string) error {
	fs, configPath := newFlagSet("serve")
	interval := fs.Duration("ingest-interval", -1, "poll for and ingest the newest feed file this often, 0 = never (default: ingest.interval)")
	translation := fs.Bool("translation", false, "poll the translated-sources feed")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	cfg, log, err := setup(*configPath)
	if err != nil {
		return err
	}
	if *interval >= 0 {
		cfg.Ingest.Interval = *interval
	}
	if *translation {
		cfg.Ingest.Translation = true
	}
	return app.Serve(ctx, cfg, log)
}
