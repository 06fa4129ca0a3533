package main

import (
	"context"
	"flag"
	"os"

	"github.com/heartmarshall/gkgfeed/internal/app"
	"github.com/heartmarshall/gkgfeed/internal/domain"
	"github.com/heartmarshall/gkgfeed/internal/fetch"
	"github.com/heartmarshall/gkgfeed/internal/output"
	"github.com/heartmarshall/gkgfeed/internal/stats"
)

func runStats(ctx context.Context, args []string) error {
	fs, configPath := newFlagSet("stats")
	source := addSourceFlags(fs)
	opts := addFilterFlags(fs)
	top := fs.Int("top", stats.DefaultTopN, "rows per frequency table")
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
	f, err := buildFilter(opts)
	if err != nil {
		return err
	}

	path, cleanup, err := source.resolve(ctx, cfg, log, positional)
	if err != nil {
		return err
	}
	defer cleanup()

	src, err := fetch.OpenGKG(path)
	if err != nil {
		return err
	}
	defer src.Close()

	var records []*domain.Record
	_, err = app.Scan(ctx, src, log, f, func(rec *domain.Record) error {
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return err
	}

	return stats.Compute(records, *top).Print(os.Stdout)
}

func runSchema(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	return output.WriteSchema(os.Stdout)
}
