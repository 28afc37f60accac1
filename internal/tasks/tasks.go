package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hymnx/internal/formatter"
	"github.com/desertthunder/hymnx/internal/models"
	"github.com/desertthunder/hymnx/internal/repositories"
	"github.com/desertthunder/hymnx/internal/shared"
)

const (
	summaryEnglishSamples = 10
	summaryOtherSamples   = 5
)

// ExportOpts configures a single export run.
type ExportOpts struct {
	Format      formatter.Format // Output encoding, JSON when empty
	SummaryPath string           // Summary JSON destination, skipped when empty
}

// ExportResult contains everything an export run produced.
type ExportResult struct {
	Songs      []models.ExportedSong // Exported entries in source order
	Summary    models.ExportSummary  // Classification counts and samples
	OutputPath string                // File the songs were written to
}

// ExportEngine runs English song exports against a SQLite database.
type ExportEngine struct {
	logger *log.Logger
}

// NewExportEngine creates an ExportEngine. A nil logger discards output.
func NewExportEngine(logger *log.Logger) *ExportEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ExportEngine{logger: logger}
}

// Export reads every song from dbPath, keeps those with English titles and writes them to outPath.
//
// A missing database returns [shared.ErrMissingDatabase] and a database without the songs table
// returns [shared.ErrMissingSchema]; neither touches outPath. The connection is closed on every path.
func (e *ExportEngine) Export(ctx context.Context, dbPath, outPath string, opts ExportOpts) (*ExportResult, error) {
	if outPath == "" {
		return nil, fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	db, err := shared.OpenReadOnly(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	logger := shared.WithLogger(e.logger, "database", dbPath)
	logger.Debug("reading songs")

	repo := repositories.NewSongRepository(db)
	songs, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read songs: %w", err)
	}

	exported := FilterEnglish(songs)
	summary := Summarize(songs)
	logger.Info("classified songs", "total", summary.Total, "english", summary.EnglishCount, "other", summary.OtherCount)

	data, err := formatter.Export(exported, opts.Format)
	if err != nil {
		return nil, err
	}
	if err := formatter.WriteFile(outPath, data); err != nil {
		return nil, err
	}
	logger.Info("wrote export", "path", outPath, "songs", len(exported))

	if opts.SummaryPath != "" {
		data, err := formatter.MarshalJSON(summary)
		if err != nil {
			return nil, err
		}
		if err := formatter.WriteFile(opts.SummaryPath, data); err != nil {
			return nil, err
		}
		logger.Info("wrote summary", "path", opts.SummaryPath)
	}

	return &ExportResult{Songs: exported, Summary: summary, OutputPath: outPath}, nil
}

// IsSkippable reports whether err means the export was skipped because the schema is absent.
func IsSkippable(err error) bool {
	return errors.Is(err, shared.ErrMissingSchema)
}

// FilterEnglish returns the export form of every song with an English title, preserving order.
func FilterEnglish(songs []models.Song) []models.ExportedSong {
	exported := make([]models.ExportedSong, 0, len(songs))
	for _, s := range songs {
		if s.IsEnglish() {
			exported = append(exported, s.Export())
		}
	}
	return exported
}

// Summarize counts English and other titles and keeps the first few of each.
func Summarize(songs []models.Song) models.ExportSummary {
	summary := models.ExportSummary{
		Total:         len(songs),
		SampleEnglish: []string{},
		SampleOther:   []string{},
	}

	for _, s := range songs {
		title := s.Export().Title
		if s.IsEnglish() {
			summary.EnglishCount++
			if len(summary.SampleEnglish) < summaryEnglishSamples {
				summary.SampleEnglish = append(summary.SampleEnglish, title)
			}
			continue
		}

		summary.OtherCount++
		if len(summary.SampleOther) < summaryOtherSamples {
			summary.SampleOther = append(summary.SampleOther, title)
		}
	}

	return summary
}
