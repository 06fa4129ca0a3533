package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/heartmarshall/gkgfeed/internal/fetch"
)

func runFetch(ctx context.Context, args []string) error {
	fs, configPath := newFlagSet("fetch")
	date := fs.String("date", "", "download the 15-minute slot YYYYMMDDHHMMSS instead of the latest")
	translation := fs.Bool("translation", false, "use the translated-sources feed")
	out := fs.String("out", "", "output directory (default: fetch.data_dir)")
	extract := fs.Bool("extract", true, "extract the CSV from the downloaded archive")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	cfg, log, err := setup(*configPath)
	if err != nil {
		return err
	}
	if *out == "" {
		*out = cfg.Fetch.DataDir
	}

	client := fetch.NewClient(cfg.Fetch, log)

	zipPath, err := client.DownloadGKG(ctx, *out, *date, *translation)
	if err != nil {
		return err
	}

	path := zipPath
	if *extract {
		path, err = fetch.ExtractGKG(zipPath, *out)
		if err != nil {
			return err
		}
		if !cfg.Fetch.KeepZip {
			if err := os.Remove(zipPath); err != nil {
				log.Warn("remove archive", slog.String("path", zipPath), slog.String("error", err.Error()))
			}
		}
	}

	fmt.Println(path)
	return nil
}
