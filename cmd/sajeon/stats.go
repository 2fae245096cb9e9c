package main

import (
	"fmt"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/japaniel/sajeon/pkg/store"
)

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "summarize the store",
		Flags: []cli.Flag{
			dbFlag(),
			&cli.IntFlag{
				Name:  "top",
				Usage: "show the `N` most frequent definition tokens",
				Value: 20,
			},
		},
		Action: runStats,
	}
}

func runStats(c *cli.Context) error {
	conn, err := store.Open(c.String("db"))
	if err != nil {
		return err
	}
	defer conn.Close()

	total, err := store.CountEntries(conn)
	if err != nil {
		return err
	}
	byPOS, err := store.CountByPOS(conn)
	if err != nil {
		return err
	}
	top, err := store.TopTokens(conn, c.Int("top"))
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "entries %d\n\n", total)

	posTbl := table.New("POS", "Entries").WithWriter(w)
	for _, p := range byPOS {
		pos := p.POS
		if pos == "" {
			pos = "-"
		}
		posTbl.AddRow(pos, p.Count)
	}
	posTbl.Print()
	fmt.Fprintln(w)

	tokTbl := table.New("Token", "Count").WithWriter(w)
	for _, t := range top {
		tokTbl.AddRow(t.Token, t.Count)
	}
	tokTbl.Print()
	return nil
}
