// package formatter renders exported songs and generated updates to JSON, CSV, plain text and SQL
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/hymnx/internal/models"
	"github.com/desertthunder/hymnx/internal/shared"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatText Format = "txt"
)

// ParseFormat validates a --format value. An empty string selects JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// MarshalJSON encodes v with two-space indentation, leaving non-ASCII and HTML characters unescaped.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToJSON renders songs as a JSON array. An empty export is written as [].
func ExportToJSON(songs []models.ExportedSong) ([]byte, error) {
	if songs == nil {
		songs = []models.ExportedSong{}
	}
	return MarshalJSON(songs)
}

// ExportToCSV renders songs with columns: id, title, category, song_number
func ExportToCSV(songs []models.ExportedSong) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"id", "title", "category", "song_number"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, s := range songs {
		record := []string{strconv.FormatInt(s.ID, 10), s.Title, s.Category, s.SongNumber}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToText renders one "[number] title (category)" line per song
func ExportToText(songs []models.ExportedSong) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Songs: %d\n\n", len(songs))
	for _, s := range songs {
		number := s.SongNumber
		if number == "" {
			number = "-"
		}
		fmt.Fprintf(&buf, "[%s] %s", number, s.Title)
		if s.Category != "" {
			fmt.Fprintf(&buf, " (%s)", s.Category)
		}
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}

// Export renders songs in the requested format.
func Export(songs []models.ExportedSong, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return ExportToJSON(songs)
	case FormatCSV:
		return ExportToCSV(songs)
	case FormatText:
		return ExportToText(songs)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportUpdateSQL renders one UPDATE statement per number change.
func ExportUpdateSQL(updates []models.NumberUpdate) []byte {
	var buf bytes.Buffer
	for _, u := range updates {
		fmt.Fprintf(&buf, "UPDATE songs SET song_number = %s WHERE id = %d;\n",
			quoteSQL(strconv.Itoa(u.NewNumber)), u.ID)
	}
	return buf.Bytes()
}

// WriteFile writes data to path, replacing any existing file.
func WriteFile(path string, data []byte) error {
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func quoteSQL(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
