// package repositories provides persistence layer implementations for songs.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/hymnx/internal/models"
	"github.com/desertthunder/hymnx/internal/shared"
)

// SongsTable is the table holding the catalogue.
const SongsTable = "songs"

// requiredColumns are the columns every query here relies on.
var requiredColumns = []string{"id", "category", "title", "song_number"}

// SchemaInspector reads schema metadata from a SQLite database.
type SchemaInspector struct {
	db *sql.DB
}

// NewSchemaInspector creates a new SchemaInspector with the given database connection
func NewSchemaInspector(db *sql.DB) *SchemaInspector {
	return &SchemaInspector{db: db}
}

// Tables lists user tables in sqlite_master.
func (i *SchemaInspector) Tables(ctx context.Context) ([]string, error) {
	rows, err := i.db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table'")
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// HasTable reports whether a table with the given name exists.
func (i *SchemaInspector) HasTable(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := i.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?)", name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	return exists, nil
}

// Columns returns the columns of table in declaration order.
func (i *SchemaInspector) Columns(ctx context.Context, table string) ([]models.Column, error) {
	ok, err := i.HasTable(ctx, table)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: table %s not found", shared.ErrMissingSchema, table)
	}

	// PRAGMA arguments cannot be bound; the name was just confirmed against sqlite_master.
	rows, err := i.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	var columns []models.Column
	for rows.Next() {
		var c models.Column
		var colType sql.NullString
		var notNull, pk int
		if err := rows.Scan(&c.CID, &c.Name, &colType, &notNull, &c.Default, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		c.Type = colType.String
		c.NotNull = notNull != 0
		c.PrimaryKey = pk > 0
		columns = append(columns, c)
	}
	return columns, rows.Err()
}

// RequireSongs verifies the songs table and the columns read from it exist.
func (i *SchemaInspector) RequireSongs(ctx context.Context) error {
	columns, err := i.Columns(ctx, SongsTable)
	if err != nil {
		return err
	}

	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c.Name] = true
	}
	for _, name := range requiredColumns {
		if !present[name] {
			return fmt.Errorf("%w: %s.%s", shared.ErrMissingColumn, SongsTable, name)
		}
	}
	return nil
}

// SongRepository reads songs with named-column access.
type SongRepository struct {
	db     *sql.DB
	schema *SchemaInspector
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db, schema: NewSchemaInspector(db)}
}

// Schema exposes the inspector used for the guarded existence checks.
func (r *SongRepository) Schema() *SchemaInspector {
	return r.schema
}

// Each calls fn for every song in storage order, stopping at the first error.
//
// No ORDER BY is applied, so iteration order is whatever SQLite returns.
func (r *SongRepository) Each(ctx context.Context, fn func(models.Song) error) error {
	if err := r.schema.RequireSongs(ctx); err != nil {
		return err
	}

	rows, err := r.db.QueryContext(ctx, "SELECT id, category, title, song_number FROM songs")
	if err != nil {
		return fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return err
		}
		if err := fn(song); err != nil {
			return err
		}
	}
	return rows.Err()
}

// List returns every song in storage order.
func (r *SongRepository) List(ctx context.Context) ([]models.Song, error) {
	var songs []models.Song
	err := r.Each(ctx, func(s models.Song) error {
		songs = append(songs, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return songs, nil
}

// Sample returns up to limit songs from the start of the table.
func (r *SongRepository) Sample(ctx context.Context, limit int) ([]models.Song, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: sample limit must be positive", shared.ErrInvalidArgument)
	}
	if err := r.schema.RequireSongs(ctx); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, "SELECT id, category, title, song_number FROM songs LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to sample songs: %w", err)
	}
	defer rows.Close()

	var songs []models.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// Count returns the number of rows in the songs table.
func (r *SongRepository) Count(ctx context.Context) (int, error) {
	ok, err := r.schema.HasTable(ctx, SongsTable)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: table %s not found", shared.ErrMissingSchema, SongsTable)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM songs").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count songs: %w", err)
	}
	return count, nil
}

// Categories returns distinct trimmed categories in first-seen order. NULL categories are skipped.
func (r *SongRepository) Categories(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	categories := []string{}

	err := r.Each(ctx, func(s models.Song) error {
		if !s.Category.Valid {
			return nil
		}
		category := s.Export().Category
		if !seen[category] {
			seen[category] = true
			categories = append(categories, category)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func scanSong(rows *sql.Rows) (models.Song, error) {
	var s models.Song
	if err := rows.Scan(&s.ID, &s.Category, &s.Title, &s.SongNumber); err != nil {
		return models.Song{}, fmt.Errorf("failed to scan song: %w", err)
	}
	return s, nil
}
