package store

import (
	"bufio"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// exportColumns is the column list shared by the SELECT and every emitted
// INSERT statement.
const exportColumns = "word,pos,level,definition,example,tokens,rel_tokens"

// ExportSQL writes every row as an INSERT statement inside a single
// BEGIN/COMMIT block and returns the number of rows written. Values are
// single-quoted with embedded quotes doubled; NULL columns stay NULL.
func ExportSQL(db DBExecutor, w io.Writer) (int, error) {
	rows, err := db.Query(`SELECT ` + exportColumns + ` FROM entries ORDER BY id`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("BEGIN;\n"); err != nil {
		return 0, err
	}

	n := 0
	vals := make([]sql.NullString, 7)
	dest := make([]interface{}, len(vals))
	for i := range vals {
		dest[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return n, err
		}
		bw.WriteString("INSERT INTO entries(" + exportColumns + ") VALUES (")
		for i, v := range vals {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(SQLLiteral(v))
		}
		if _, err := bw.WriteString(");\n"); err != nil {
			return n, err
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, err
	}
	if _, err := bw.WriteString("COMMIT;\n"); err != nil {
		return n, err
	}
	return n, bw.Flush()
}

// ExportFile writes the SQL script to path. The script is written to a temp
// file beside path and renamed into place only once it is complete, so a
// failed export leaves any existing file untouched.
func ExportFile(db DBExecutor, path string) (int, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".part-*")
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return 0, err
	}

	n, err := ExportSQL(db, tmp)
	if err != nil {
		tmp.Close()
		return n, fmt.Errorf("export %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return n, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return n, err
	}
	return n, nil
}

// SQLLiteral renders v as a SQL string literal, or NULL.
func SQLLiteral(v sql.NullString) string {
	if !v.Valid {
		return "NULL"
	}
	return "'" + strings.ReplaceAll(v.String, "'", "''") + "'"
}
