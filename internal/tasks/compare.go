package tasks

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/hymnx/internal/models"
	"github.com/desertthunder/hymnx/internal/shared"
)

// CompareResult contains the outcome of reconciling local song numbers with a reference catalogue.
type CompareResult struct {
	LocalCount     int                   // Local songs compared
	ReferenceCount int                   // Reference songs with English titles
	Updates        []models.NumberUpdate // Songs whose numbers differ
	NotFound       []models.ExportedSong // Local songs with no reference match
}

// CompareNumbers matches local songs against reference songs by folded title and reports differing numbers.
//
// Only reference songs with English titles take part. An exact key match wins; otherwise the first
// reference whose key contains, or is contained in, the local key is used. References without a
// number never produce an update.
func CompareNumbers(local []models.ExportedSong, reference []models.ReferenceSong) CompareResult {
	type keyed struct {
		key  string
		song models.ReferenceSong
	}

	english := make([]keyed, 0, len(reference))
	exact := make(map[string]models.ReferenceSong)
	for _, r := range reference {
		if !shared.IsEnglishTitle(r.Title) {
			continue
		}
		key := shared.NormalizeTitleKey(r.Title)
		english = append(english, keyed{key: key, song: r})
		exact[key] = r
	}

	result := CompareResult{
		LocalCount:     len(local),
		ReferenceCount: len(english),
		Updates:        []models.NumberUpdate{},
		NotFound:       []models.ExportedSong{},
	}

	for _, l := range local {
		key := shared.NormalizeTitleKey(l.Title)

		match, ok := exact[key]
		if !ok && key != "" {
			for _, r := range english {
				if r.key != "" && (strings.Contains(r.key, key) || strings.Contains(key, r.key)) {
					match, ok = r.song, true
					break
				}
			}
		}
		if !ok {
			result.NotFound = append(result.NotFound, l)
			continue
		}

		if match.Number != 0 && l.SongNumber != strconv.Itoa(match.Number) {
			result.Updates = append(result.Updates, models.NumberUpdate{
				ID:        l.ID,
				Title:     l.Title,
				OldNumber: l.SongNumber,
				NewNumber: match.Number,
				Category:  match.Category,
			})
		}
	}

	return result
}

// LoadExport reads songs previously written by an export run.
func LoadExport(path string) ([]models.ExportedSong, error) {
	var songs []models.ExportedSong
	if err := readJSON(path, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

// LoadReference reads a reference catalogue written by [ExtractReferenceFile].
func LoadReference(path string) ([]models.ReferenceSong, error) {
	var songs []models.ReferenceSong
	if err := readJSON(path, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s is not valid JSON: %v", shared.ErrInvalidInput, path, err)
	}
	return nil
}
