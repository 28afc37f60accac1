// package models defines the data model for songs and their exports
package models

import (
	"database/sql"

	"github.com/desertthunder/hymnx/internal/shared"
)

// Song is one row of the songs table. Every column but id may be NULL.
type Song struct {
	ID         int64
	Category   sql.NullString
	Title      sql.NullString
	SongNumber sql.NullString
}

// NewSong builds a Song from plain values, treating nil as NULL.
func NewSong(id int64, category, title, songNumber any) Song {
	return Song{
		ID:         id,
		Category:   nullString(category),
		Title:      nullString(title),
		SongNumber: nullString(songNumber),
	}
}

// TitleValue returns the title as a nullable value for classification.
func (s Song) TitleValue() any {
	if !s.Title.Valid {
		return nil
	}
	return s.Title.String
}

// IsEnglish reports whether the song's title passes [shared.IsEnglishTitle].
func (s Song) IsEnglish() bool {
	return shared.IsEnglishTitle(s.TitleValue())
}

// Export converts the song into its trimmed export form.
func (s Song) Export() ExportedSong {
	return ExportedSong{
		ID:         s.ID,
		Title:      cleanNull(s.Title),
		Category:   cleanNull(s.Category),
		SongNumber: cleanNull(s.SongNumber),
	}
}

// ExportedSong is the normalized entry written to the export file.
type ExportedSong struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	SongNumber string `json:"song_number"`
}

// ExportSummary reports how titles were classified during an export.
type ExportSummary struct {
	Total         int      `json:"total"`
	EnglishCount  int      `json:"englishCount"`
	OtherCount    int      `json:"otherCount"`
	SampleEnglish []string `json:"sampleEnglish"`
	SampleOther   []string `json:"sampleOther"`
}

// ReferenceSong is a song object recovered from the mobile app's JavaScript bundle.
type ReferenceSong struct {
	Title    string `json:"title"`
	Lyrics   string `json:"lyrics"`
	Category string `json:"category,omitempty"`
	Number   int    `json:"number,omitempty"`
}

// NumberUpdate records a local song whose number disagrees with the reference catalogue.
type NumberUpdate struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	OldNumber string `json:"oldNumber"`
	NewNumber int    `json:"newNumber"`
	Category  string `json:"category"`
}

// Column describes one column as reported by PRAGMA table_info.
type Column struct {
	CID        int
	Name       string
	Type       string
	NotNull    bool
	Default    sql.NullString
	PrimaryKey bool
}

func nullString(v any) sql.NullString {
	s, ok := shared.Stringify(v)
	return sql.NullString{String: s, Valid: ok}
}

func cleanNull(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return shared.CleanField(ns.String)
}
