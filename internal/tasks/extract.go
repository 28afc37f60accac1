package tasks

import (
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/desertthunder/hymnx/internal/formatter"
	"github.com/desertthunder/hymnx/internal/models"
)

var (
	// songLiteral matches a brace-delimited object with a double-quoted title and a backtick lyrics template.
	songLiteral     = regexp.MustCompile("\\{[^{}]*?title:\"([^\"]+)\"[^{}]*?lyrics:`([^`]+)`[^{}]*?\\}")
	categoryLiteral = regexp.MustCompile(`category:"([^"]+)"`)
	numberLiteral   = regexp.MustCompile(`(?:number|songNumber|id):"?(\d+)"?`)
)

// ExtractReference recovers song objects from a minified JavaScript bundle, in source order.
func ExtractReference(bundle []byte) []models.ReferenceSong {
	matches := songLiteral.FindAllSubmatch(bundle, -1)
	songs := make([]models.ReferenceSong, 0, len(matches))

	for _, m := range matches {
		song := models.ReferenceSong{
			Title:  string(m[1]),
			Lyrics: string(m[2]),
		}

		if c := categoryLiteral.FindSubmatch(m[0]); c != nil {
			song.Category = string(c[1])
		}
		if n := numberLiteral.FindSubmatch(m[0]); n != nil {
			if number, err := strconv.Atoi(string(n[1])); err == nil {
				song.Number = number
			}
		}

		songs = append(songs, song)
	}

	return songs
}

// ExtractReferenceFile reads bundlePath and writes the recovered songs to outPath as JSON.
func ExtractReferenceFile(bundlePath, outPath string) ([]models.ReferenceSong, error) {
	bundle, err := os.ReadFile(bundlePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}

	songs := ExtractReference(bundle)

	data, err := formatter.MarshalJSON(songs)
	if err != nil {
		return nil, err
	}
	if err := formatter.WriteFile(outPath, data); err != nil {
		return nil, err
	}

	return songs, nil
}
