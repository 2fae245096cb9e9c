package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/japaniel/sajeon/pkg/lexicon"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

const insertEntrySQL = `INSERT INTO entries(word,pos,level,definition,example,tokens,rel_tokens) VALUES (?,?,?,?,?,?,?)`

const selectEntriesSQL = `SELECT id, word, pos, level, definition, example, tokens, rel_tokens FROM entries`

// InsertEntry persists one canonical record and returns its row id.
func InsertEntry(db DBExecutor, r lexicon.Record) (int64, error) {
	if strings.TrimSpace(r.Word) == "" {
		return 0, fmt.Errorf("word must be non-empty")
	}
	res, err := db.Exec(insertEntrySQL,
		r.Word, r.POS, r.Level, r.Definition, r.Example,
		EncodeTokens(r.Tokens), EncodeTokens(r.RelTokens),
	)
	if err != nil {
		return 0, fmt.Errorf("insert entry %s: %w", r.Word, err)
	}
	return res.LastInsertId()
}

// CountEntries returns the number of stored rows.
func CountEntries(db DBExecutor) (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// LookupEntries returns the rows for word in insertion order.
func LookupEntries(db DBExecutor, word string) ([]Entry, error) {
	var out []Entry
	err := scan(db, func(e Entry) error {
		out = append(out, e)
		return nil
	}, selectEntriesSQL+` WHERE word = ? ORDER BY id`, word)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ScanEntries calls fn for every row in insertion order.
func ScanEntries(db DBExecutor, fn func(Entry) error) error {
	return scan(db, fn, selectEntriesSQL+` ORDER BY id`)
}

func scan(db DBExecutor, fn func(Entry) error, query string, args ...interface{}) error {
	rows, err := db.Query(query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e Entry
		var pos, level, def, ex, toks, rel sql.NullString
		if err := rows.Scan(&e.ID, &e.Word, &pos, &level, &def, &ex, &toks, &rel); err != nil {
			return err
		}
		e.POS = pos.String
		e.Level = level.String
		e.Definition = def.String
		e.Example = ex.String
		if e.Tokens, err = DecodeTokens(toks.String); err != nil {
			return fmt.Errorf("row %d tokens: %w", e.ID, err)
		}
		if e.RelTokens, err = DecodeTokens(rel.String); err != nil {
			return fmt.Errorf("row %d rel_tokens: %w", e.ID, err)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return rows.Err()
}

// CountByPOS returns row counts per part of speech, largest first.
func CountByPOS(db DBExecutor) ([]POSCount, error) {
	rows, err := db.Query(`SELECT IFNULL(pos, ''), COUNT(*) AS n FROM entries GROUP BY IFNULL(pos, '') ORDER BY n DESC, 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []POSCount
	for rows.Next() {
		var c POSCount
		if err := rows.Scan(&c.POS, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// TopTokens returns the limit tokens that occur in the most rows, ties
// broken by token text.
func TopTokens(db DBExecutor, limit int) ([]TokenCount, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	rows, err := db.Query(`
		SELECT j.value AS token, COUNT(*) AS n
		FROM entries, json_each(entries.tokens) AS j
		GROUP BY j.value
		ORDER BY n DESC, token
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TokenCount
	for rows.Next() {
		var c TokenCount
		if err := rows.Scan(&c.Token, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
