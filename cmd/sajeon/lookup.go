package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/japaniel/sajeon/pkg/store"
)

func lookupCommand() *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Usage:     "print the stored records for each word",
		ArgsUsage: "WORD...",
		Flags:     []cli.Flag{dbFlag()},
		Action:    runLookup,
	}
}

func runLookup(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("lookup: at least one WORD is required")
	}
	conn, err := store.Open(c.String("db"))
	if err != nil {
		return err
	}
	defer conn.Close()

	tbl := table.New("Word", "POS", "Level", "Definition", "Tokens", "Related").WithWriter(c.App.Writer)
	found := 0
	for _, word := range c.Args().Slice() {
		entries, err := store.LookupEntries(conn, word)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintf(c.App.ErrWriter, "no entries for %s\n", word)
			continue
		}
		for _, e := range entries {
			tbl.AddRow(e.Word, e.POS, e.Level, e.Definition,
				strings.Join(e.Tokens, ", "), strings.Join(e.RelTokens, ", "))
			found++
		}
	}
	if found > 0 {
		tbl.Print()
	}
	return nil
}
