package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/japaniel/sajeon/pkg/store"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the store as a replayable SQL script",
		Flags: []cli.Flag{
			dbFlag(),
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    "SQL script `FILE` to write",
				Required: true,
			},
		},
		Action: runExport,
	}
}

func runExport(c *cli.Context) error {
	conn, err := store.Open(c.String("db"))
	if err != nil {
		return err
	}
	defer conn.Close()

	path := c.String("out")
	n, err := store.ExportFile(conn, path)
	if err != nil {
		return err
	}
	newLogger(c).Debug("export finished", "rows", n, "file", path)
	fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
	return nil
}
