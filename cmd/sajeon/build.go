package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/japaniel/sajeon/internal/config"
	"github.com/japaniel/sajeon/pkg/ingest"
	"github.com/japaniel/sajeon/pkg/lexicon"
)

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "normalize a dictionary package into a fresh SQLite store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "dictionary package `PATH` (.zip, .tar.gz, .json) or http(s) URL",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "SQLite store `DB` to create; an existing file is replaced",
				Value:   "dict.db",
			},
			&cli.IntFlag{
				Name:  "max",
				Usage: "stop after `N` admitted records (0 means no limit)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "read settings from YAML `FILE`",
				EnvVars: []string{"SAJEON_CONFIG"},
			},
		},
		Action: runBuild,
	}
}

func runBuild(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("max") {
		cfg.Build.MaxRecords = c.Int("max")
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	log := newLogger(c)

	input, err := resolveInput(c.Context, cfg, log, c.String("input"))
	if err != nil {
		return err
	}

	n, err := cfg.Normalizer()
	if err != nil {
		return err
	}
	ig := ingest.NewIngester(n)
	ig.BatchSize = cfg.Build.CommitEvery
	ig.MaxRecords = cfg.Build.MaxRecords
	ig.Logger = log
	out := c.App.Writer
	ig.OnProgress = func(admitted int) {
		fmt.Fprintf(out, "inserted %d\n", admitted)
	}

	stats, err := ig.Build(c.Context, input, c.String("out"))
	if err != nil {
		return err
	}
	for _, r := range stats.Reasons() {
		log.Info("entries rejected", "reason", r, "count", stats.Rejected[r])
	}
	fmt.Fprintf(out, "done %d\n", stats.Admitted)
	return nil
}

// resolveInput returns a local package path, downloading remote packages
// into the cache directory first.
func resolveInput(ctx context.Context, cfg *config.Config, log *slog.Logger, input string) (string, error) {
	if !lexicon.IsRemote(input) {
		return input, nil
	}
	dest, err := lexicon.CachePath(cfg.Build.CacheDir, input)
	if err != nil {
		return "", err
	}
	f := lexicon.NewFetcher()
	f.Logger = log
	if err := f.Ensure(ctx, input, dest); err != nil {
		return "", fmt.Errorf("fetch %s: %w", input, err)
	}
	return dest, nil
}
