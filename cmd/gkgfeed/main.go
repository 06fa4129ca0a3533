// Command gkgfeed downloads, parses, summarizes and stores the GDELT Global
// Knowledge Graph v2.1 feed.
//
// Usage:
//
//	gkgfeed <command> [flags] [file]
//
// Commands:
//
//	fetch    download the latest (or a historical) GKG archive
//	parse    parse a feed file and write records as JSON or NDJSON
//	stats    print frequency and tone summaries of a feed file
//	schema   print the JSON Schema of a parsed record
//	ingest   parse a feed file and store it in Postgres
//	migrate  apply database migrations
//	serve    run the HTTP API
//	version  print build information
//
// parse, stats and ingest read the file argument, or with --latest or
// --date download the archive first.
//
// Every command accepts --config (default $CONFIG_PATH, then ./gkgfeed.yaml).
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/gkgfeed/internal/app"
	"github.com/heartmarshall/gkgfeed/internal/config"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, args []string) error
}

var commands = []command{
	{"fetch", "download the latest (or a historical) GKG archive", runFetch},
	{"parse", "parse a feed file and write records as JSON or NDJSON", runParse},
	{"stats", "print frequency and tone summaries of a feed file", runStats},
	{"schema", "print the JSON Schema of a parsed record", runSchema},
	{"ingest", "parse a feed file and store it in Postgres", runIngest},
	{"migrate", "apply database migrations", runMigrate},
	{"serve", "run the HTTP API", runServe},
	{"version", "print build information", runVersion},
}

// errUsage marks errors already reported by a flag set.
var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(stderr)
		if len(args) == 0 {
			return 1
		}
		return 0
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == args[0] {
			cmd = &commands[i]
			break
		}
	}
	if cmd == nil {
		fmt.Fprintf(stderr, "gkgfeed: unknown command %q\n\n", args[0])
		usage(stderr)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.run(ctx, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		if !errors.Is(err, errUsage) {
			slog.Error(cmd.name+" failed", slog.String("error", err.Error()))
		}
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gkgfeed <command> [flags] [file]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'gkgfeed <command> -h' for command flags.")
}

// newFlagSet returns a flag set carrying the shared --config flag.
func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := fs.String("config", "", "path to YAML config file")
	return fs, configPath
}

// parseArgs parses flags that may appear before or after positional
// arguments and returns the positionals in order.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, err
			}
			return nil, errUsage
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

// setup loads configuration and installs the default logger.
func setup(configPath string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, app.NewLogger(cfg.Log), nil
}

// oneFile returns the single positional file argument.
func oneFile(fs *flag.FlagSet, positional []string) (string, error) {
	if len(positional) != 1 {
		return "", usageError(fs, "expected exactly one file argument")
	}
	return positional[0], nil
}

func runVersion(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	fmt.Println(app.BuildVersion())
	return nil
}
