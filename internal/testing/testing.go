// package testing contains shared testing utilities
package testing

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/hymnx/internal/shared"
)

// SongRow is a fixture row for the songs table. Nil fields are stored as NULL.
type SongRow struct {
	ID         int64
	Category   any
	Title      any
	SongNumber any
}

// ScenarioRows mirrors a small mixed catalogue: two English hymns around a Tamil title.
var ScenarioRows = []SongRow{
	{ID: 1, Category: "Hymns", Title: "Amazing Grace", SongNumber: "12"},
	{ID: 2, Category: "Tamil", Title: "அருள்மிகு", SongNumber: "5"},
	{ID: 3, Category: "Hymns", Title: "  How Great Thou Art!  ", SongNumber: "7"},
}

// NewSongsDB creates a migrated SQLite file in a temp directory, inserts rows and returns its path.
func NewSongsDB(t *testing.T, rows ...SongRow) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "church_songs.db")
	db, err := shared.NewDatabase(path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if err := shared.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	InsertSongs(t, db, rows...)
	return path
}

// NewEmptyDB creates a SQLite file with no songs table.
func NewEmptyDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "empty.db")
	db, err := shared.NewDatabase(path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("CREATE TABLE settings (key TEXT PRIMARY KEY, value TEXT)"); err != nil {
		t.Fatalf("failed to create settings table: %v", err)
	}
	return path
}

// InsertSongs writes rows into the songs table.
func InsertSongs(t *testing.T, db *sql.DB, rows ...SongRow) {
	t.Helper()

	for _, r := range rows {
		if _, err := db.Exec(
			"INSERT INTO songs (id, category, title, song_number) VALUES (?, ?, ?, ?)",
			r.ID, r.Category, r.Title, r.SongNumber,
		); err != nil {
			t.Fatalf("failed to insert song %d: %v", r.ID, err)
		}
	}
}

// MustOpen opens path read-write and closes it when the test ends.
func MustOpen(t *testing.T, path string) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(path)
	if err != nil {
		t.Fatalf("failed to open database %s: %v", path, err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertFileMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("File should not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
