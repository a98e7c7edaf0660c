package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "modernc.org/sqlite"

	"github.com/i474232898/holiday-planner/internal/holiday"
)

const schema = `
CREATE TABLE IF NOT EXISTS holiday (
	position INTEGER PRIMARY KEY,
	name     TEXT NOT NULL,
	date     TEXT NOT NULL
);`

// SQLite stores holidays in a single table of a SQLite database file.
type SQLite struct {
	path string
}

// NewSQLite creates a SQLite backend for path.
func NewSQLite(path string) *SQLite {
	return &SQLite{path: path}
}

func (s *SQLite) Path() string {
	return s.path
}

func (s *SQLite) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return db, nil
}

// Load returns the stored holidays in saved order.
func (s *SQLite) Load(ctx context.Context) ([]holiday.Record, error) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoData, s.path)
	}

	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT name, date FROM holiday ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []holiday.Record
	for rows.Next() {
		var name, date string
		if err := rows.Scan(&name, &date); err != nil {
			return nil, err
		}
		rec, err := holiday.NewRecord(name, date)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(results)+1, err)
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

// Save replaces the table contents in one transaction.
func (s *SQLite) Save(ctx context.Context, records []holiday.Record) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM holiday"); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO holiday (position, name, date) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, i, rec.Name, rec.DateString()); err != nil {
			return fmt.Errorf("insert %q: %w", rec.Name, err)
		}
	}
	return tx.Commit()
}
