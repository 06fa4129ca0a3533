package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/heartmarshall/gkgfeed/internal/app"
	"github.com/heartmarshall/gkgfeed/internal/domain"
	"github.com/heartmarshall/gkgfeed/internal/fetch"
	"github.com/heartmarshall/gkgfeed/internal/output"
)

func runParse(ctx context.Context, args []string) error {
	fs, configPath := newFlagSet("parse")
	source := addSourceFlags(fs)
	opts := addFilterFlags(fs)
	format := fs.String("format", output.FormatJSON, "output format: json, json-compact or ndjson")
	fields := fs.String("fields", "", "comma-separated record fields to keep (default: all)")
	limit := fs.Int("limit", 0, "write at most this many records (0 = all)")
	offset := fs.Int("offset", 0, "skip this many matching records")
	outPath := fs.String("output", "", "write to this file instead of stdout")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := source.checkArgs(fs, positional); err != nil {
		return err
	}
	if *limit < 0 || *offset < 0 {
		return domain.NewValidationError("limit", "limit and offset must not be negative")
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

	var w io.Writer = os.Stdout
	var file *os.File
	if *outPath != "" {
		file, err = os.Create(*outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", *outPath, err)
		}
		defer file.Close()
		w = file
	}

	formatter, err := output.NewFormatter(*format, w, splitList(*fields))
	if err != nil {
		return err
	}

	if err := formatter.Begin(); err != nil {
		return err
	}
	res, err := app.Scan(ctx, src, log, f, app.Page(*offset, *limit, formatter.WriteRecord))
	// Close the array even on a failed read so the output stays valid JSON.
	if ferr := formatter.Finish(); err == nil {
		err = ferr
	}
	if err != nil {
		return err
	}
	if file != nil {
		if err := file.Close(); err != nil {
			return fmt.Errorf("close %s: %w", *outPath, err)
		}
	}

	log.Info("parse complete",
		slog.String("file", path),
		slog.Int("lines", res.Lines),
		slog.Int("parsed", res.Parsed),
		slog.Int("rejected", res.Rejected),
		slog.Int("matched", res.Matched),
	)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
