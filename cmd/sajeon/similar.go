package main

import (
	"errors"
	"fmt"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/japaniel/sajeon/pkg/similarity"
	"github.com/japaniel/sajeon/pkg/store"
)

func similarCommand() *cli.Command {
	return &cli.Command{
		Name:      "similar",
		Usage:     "score how close GUESS is to ANSWER by shared definition and relation tokens",
		ArgsUsage: "GUESS ANSWER",
		Flags:     []cli.Flag{dbFlag()},
		Action:    runSimilar,
	}
}

func runSimilar(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("similar: expected exactly two words, GUESS and ANSWER")
	}
	conn, err := store.Open(c.String("db"))
	if err != nil {
		return err
	}
	defer conn.Close()

	guess, err := firstEntry(conn, c.Args().Get(0))
	if err != nil {
		return err
	}
	answer, err := firstEntry(conn, c.Args().Get(1))
	if err != nil {
		return err
	}

	b := similarity.Compare(guess, answer)
	tbl := table.New("Guess", "Answer", "Tokens", "Tokens/Rel", "Rel/Tokens", "Score").WithWriter(c.App.Writer)
	tbl.AddRow(guess.Word, answer.Word,
		fmt.Sprintf("%.4f", b.Base),
		fmt.Sprintf("%.4f", b.TokensToRel),
		fmt.Sprintf("%.4f", b.RelToTokens),
		fmt.Sprintf("%.4f", b.Score))
	tbl.Print()
	return nil
}

// firstEntry returns the earliest stored record for word.
func firstEntry(db store.DBExecutor, word string) (store.Entry, error) {
	entries, err := store.LookupEntries(db, word)
	if err != nil {
		return store.Entry{}, err
	}
	if len(entries) == 0 {
		return store.Entry{}, fmt.Errorf("no entries for %s", word)
	}
	return entries[0], nil
}
