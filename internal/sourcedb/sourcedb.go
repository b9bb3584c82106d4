// Package sourcedb talks to the live source database before it is snapshotted.
package sourcedb

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Result is the row returned by PRAGMA wal_checkpoint.
type Result struct {
	Busy         bool
	LogFrames    int
	Checkpointed int
}

// Checkpoint folds the write-ahead log of the SQLite database at path back
// into the main file, so a plain file copy captures committed data.
// The database is opened read-write without create; a missing file is an
// error. Databases not in WAL mode report LogFrames == -1.
func Checkpoint(ctx context.Context, path string) (Result, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return Result{}, fmt.Errorf("opening source database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	var busy int
	var res Result
	row := db.QueryRowContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)")
	if err := row.Scan(&busy, &res.LogFrames, &res.Checkpointed); err != nil {
		return Result{}, fmt.Errorf("checkpointing %s: %w", path, err)
	}
	res.Busy = busy != 0
	return res, nil
}

// dsn builds a file: URI with the path percent-encoded, so '#', '?' and
// '%' in file names reach SQLite intact.
func dsn(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	q := url.Values{}
	q.Set("mode", "rw")
	q.Set("_busy_timeout", "5000")
	u.RawQuery = q.Encode()
	return u.String()
}
