package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/hymnx/internal/models"
	"github.com/desertthunder/hymnx/internal/repositories"
	"github.com/desertthunder/hymnx/internal/shared"
	"github.com/desertthunder/hymnx/internal/ui"
	"github.com/urfave/cli/v3"
)

// openSongs opens the configured database read-only.
//
// The caller owns the returned handle and must close it.
func (r *Runner) openSongs(cmd *cli.Command) (*sql.DB, string, error) {
	path := stringOr(cmd, "db", r.config.Database.Path)
	db, err := shared.OpenReadOnly(path)
	if err != nil {
		return nil, path, err
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, path, nil
}

// Inspect prints the tables in the database and, when present, the songs columns, first row and count.
func (r *Runner) Inspect(ctx context.Context, cmd *cli.Command) error {
	db, path, err := r.openSongs(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	schema := repositories.NewSchemaInspector(db)
	tables, err := schema.Tables(ctx)
	if err != nil {
		return err
	}

	r.writePlainHeader("Database: " + path)
	r.writePlainln("Tables: %s", strings.Join(tables, ", "))

	ok, err := schema.HasTable(ctx, repositories.SongsTable)
	if err != nil {
		return err
	}
	if !ok {
		r.logger.Warn("songs table not found", "database", path)
		return r.writePlainln("%s", ui.Warn("No songs table; nothing else to show."))
	}

	columns, err := schema.Columns(ctx, repositories.SongsTable)
	if err != nil {
		return err
	}
	r.writePlainln("\nColumns in songs:\n%s", renderTable(
		[]string{"#", "Name", "Type", "Not Null", "Default", "PK"},
		columnRows(columns),
		[]columnAlignment{alignRight},
	))

	repo := repositories.NewSongRepository(db)
	if err := schema.RequireSongs(ctx); err != nil {
		r.logger.Warn("songs table is missing expected columns", "error", err)
		r.writePlainln("%s", ui.Error("✗ "+err.Error()))
	} else {
		sample, err := repo.Sample(ctx, 1)
		if err != nil {
			return err
		}
		r.writePlainln("\nRow 1:\n%s", renderSongs(sample))
	}

	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	return r.writePlainln("\nLocal DB has %d songs.", count)
}

// Categories prints the distinct categories of the songs table.
func (r *Runner) Categories(ctx context.Context, cmd *cli.Command) error {
	db, path, err := r.openSongs(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	categories, err := repositories.NewSongRepository(db).Categories(ctx)
	if err != nil {
		return err
	}
	r.logger.Debug("listed categories", "database", path, "count", len(categories))

	if cmd.Bool("json") {
		return r.writeJSON(categories)
	}

	r.writePlainHeader("Categories")
	for _, c := range categories {
		r.writePlainln("  %s", c)
	}
	return nil
}

func columnRows(columns []models.Column) [][]string {
	rows := make([][]string, 0, len(columns))
	for _, c := range columns {
		rows = append(rows, []string{
			strconv.Itoa(c.CID),
			c.Name,
			c.Type,
			strconv.FormatBool(c.NotNull),
			c.Default.String,
			strconv.FormatBool(c.PrimaryKey),
		})
	}
	return rows
}

func renderSongs(songs []models.Song) string {
	rows := make([][]string, 0, len(songs))
	for _, s := range songs {
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			nullable(s.Category),
			nullable(s.Title),
			nullable(s.SongNumber),
		})
	}
	return renderTable([]string{"ID", "Category", "Title", "Song Number"}, rows, []columnAlignment{alignRight})
}

func nullable(ns sql.NullString) string {
	if !ns.Valid {
		return "NULL"
	}
	return fmt.Sprintf("%q", ns.String)
}
