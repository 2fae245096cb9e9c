package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/japaniel/sajeon/internal/logger"
	"github.com/japaniel/sajeon/pkg/tokenize"
)

const (
	// ExitCodeSuccess is the successful exit code.
	ExitCodeSuccess int = iota

	// ExitCodeFailure is the exit code for any fatal error.
	ExitCodeFailure
)

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "sajeon",
		Usage:     "Build a normalized SQLite store from Korean dictionary packages.",
		Version:   tokenize.Version(),
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			buildCommand(),
			exportCommand(),
			lookupCommand(),
			statsCommand(),
			similarCommand(),
		},
	}
}

// newLogger sends diagnostics to the app's error writer so stdout only
// carries command output.
func newLogger(c *cli.Context) *slog.Logger {
	return logger.NewWithWriter(c.App.ErrWriter, os.Getenv("LOG_LEVEL"), c.Command.Name)
}

func dbFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db",
		Usage:   "SQLite store `DB` to read",
		Value:   "dict.db",
		EnvVars: []string{"SAJEON_DB"},
	}
}
