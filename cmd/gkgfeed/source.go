package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/heartmarshall/gkgfeed/internal/config"
	"github.com/heartmarshall/gkgfeed/internal/fetch"
)

// sourceOptions selects the feed file a command reads: a local file given
// as the argument, or an archive downloaded from the GDELT server.
type sourceOptions struct {
	latest      bool
	date        string
	translation bool
}

func addSourceFlags(fs *flag.FlagSet) *sourceOptions {
	var o sourceOptions
	fs.BoolVar(&o.latest, "latest", false, "download and read the newest feed file instead of a local one")
	fs.StringVar(&o.date, "date", "", "download and read the 15-minute slot YYYYMMDDHHMMSS instead of a local one")
	fs.BoolVar(&o.translation, "translation", false, "with -latest or -date, use the translated-sources feed")
	return &o
}

func (o *sourceOptions) remote() bool {
	return o.latest || o.date != ""
}

// checkArgs validates the combination of source flags and positionals
// before any configuration is loaded.
func (o *sourceOptions) checkArgs(fs *flag.FlagSet, positional []string) error {
	switch {
	case o.latest && o.date != "":
		return usageError(fs, "-latest and -date are mutually exclusive")
	case o.remote() && len(positional) > 0:
		return usageError(fs, "a file argument cannot be combined with -latest or -date")
	case !o.remote() && o.translation:
		return usageError(fs, "-translation requires -latest or -date")
	case o.remote():
		return nil
	}
	_, err := oneFile(fs, positional)
	return err
}

// resolve returns the path of the feed file to read. A downloaded archive
// lives in a temporary directory that cleanup removes.
func (o *sourceOptions) resolve(ctx context.Context, cfg *config.Config, log *slog.Logger, positional []string) (path string, cleanup func(), err error) {
	if !o.remote() {
		return positional[0], func() {}, nil
	}

	dir, err := os.MkdirTemp("", "gkgfeed-")
	if err != nil {
		return "", nil, fmt.Errorf("create download dir: %w", err)
	}
	cleanup = func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn("remove download dir", slog.String("path", dir), slog.String("error", err.Error()))
		}
	}

	path, err = fetch.NewClient(cfg.Fetch, log).DownloadGKG(ctx, dir, o.date, o.translation)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

func usageError(fs *flag.FlagSet, msg string) error {
	fmt.Fprintf(fs.Output(), "%s: %s\n", fs.Name(), msg)
	fs.Usage()
	return errUsage
}
