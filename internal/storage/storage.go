package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/i474232898/holiday-planner/internal/holiday"
)

// ErrNoData is returned by Load when the backing file does not exist yet.
var ErrNoData = errors.New("no saved holidays")

// Backend persists the ordered holiday list.
type Backend interface {
	Load(ctx context.Context) ([]holiday.Record, error)
	Save(ctx context.Context, records []holiday.Record) error
	Path() string
}

// Open picks a backend from the file extension: SQLite for .db, .sqlite and
// .sqlite3, JSON otherwise.
func Open(path string) Backend {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLite(path)
	default:
		return NewJSONFile(path)
	}
}
