package main

import (
	"context"
	"strconv"

	"github.com/desertthunder/hymnx/internal/formatter"
	"github.com/desertthunder/hymnx/internal/tasks"
	"github.com/desertthunder/hymnx/internal/ui"
	"github.com/urfave/cli/v3"
)

// Export writes songs with English titles to the output file and prints a short sample.
//
// A database without a songs table is logged and skipped; it is not an error.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	dbPath := stringOr(cmd, "db", r.config.Database.Path)
	outPath := stringOr(cmd, "output", r.config.Export.Output)

	opts, err := r.exportOpts(cmd)
	if err != nil {
		return err
	}

	result, err := r.engine.Export(ctx, dbPath, outPath, opts)
	if tasks.IsSkippable(err) {
		r.logger.Warn("songs table not found, skipping export", "database", dbPath)
		return nil
	} else if err != nil {
		return err
	}

	r.writePlainHeader("Export")
	r.writePlainln("Local English Songs: %d", len(result.Songs))
	r.writePlainln("Other Songs: %d", result.Summary.OtherCount)

	if n := min(r.config.Export.SampleSize, len(result.Songs)); n > 0 {
		rows := make([][]string, 0, n)
		for _, s := range result.Songs[:n] {
			rows = append(rows, []string{strconv.FormatInt(s.ID, 10), s.Title})
		}
		r.writePlainln("%s", ui.Help("Local English Sample:"))
		r.writePlainln("%s", renderTable([]string{"ID", "Title"}, rows, []columnAlignment{alignRight}))
	}

	if opts.SummaryPath != "" {
		r.writePlainln("Summary saved to %s", opts.SummaryPath)
	}
	return r.writePlainln("%s", ui.OK("✓ Exported to "+result.OutputPath))
}

// Extract recovers reference songs from a JavaScript bundle.
func (r *Runner) Extract(ctx context.Context, cmd *cli.Command) error {
	bundle := cmd.String("bundle")
	outPath := stringOr(cmd, "output", r.config.Compare.Reference)

	songs, err := tasks.ExtractReferenceFile(bundle, outPath)
	if err != nil {
		return err
	}

	r.logger.Info("extracted reference songs", "bundle", bundle, "songs", len(songs))
	return r.writePlainln("%s", ui.OK("✓ Extracted "+strconv.Itoa(len(songs))+" songs to "+outPath))
}

// Compare reports songs whose numbers differ from the reference and writes SQL to fix them.
func (r *Runner) Compare(ctx context.Context, cmd *cli.Command) error {
	localPath := stringOr(cmd, "local", r.config.Export.Output)
	referencePath := stringOr(cmd, "reference", r.config.Compare.Reference)
	outPath := stringOr(cmd, "output", r.config.Compare.Output)

	local, err := tasks.LoadExport(localPath)
	if err != nil {
		return err
	}
	reference, err := tasks.LoadReference(referencePath)
	if err != nil {
		return err
	}

	result := tasks.CompareNumbers(local, reference)

	r.writePlainHeader("Compare")
	r.writePlainln("Loaded %d local English songs, %d reference English songs.", result.LocalCount, result.ReferenceCount)
	r.writePlainln("Found %d songs that have DIFFERENT numbers in the reference vs local DB.", len(result.Updates))
	r.writePlainln("Could not find %d local songs in the reference.", len(result.NotFound))

	if len(result.Updates) == 0 {
		return r.writePlainln("%s", ui.OK("All matching songs have the identical numbering already!"))
	}

	rows := make([][]string, 0, min(5, len(result.Updates)))
	for _, u := range result.Updates[:min(5, len(result.Updates))] {
		rows = append(rows, []string{u.Title, u.OldNumber, strconv.Itoa(u.NewNumber)})
	}
	r.writePlainln("%s", ui.Help("Sample differences:"))
	r.writePlainln("%s", renderTable([]string{"Title", "Local", "Reference"}, rows, []columnAlignment{alignLeft, alignRight, alignRight}))

	if err := formatter.WriteFile(outPath, formatter.ExportUpdateSQL(result.Updates)); err != nil {
		return err
	}

	r.logger.Info("wrote update queries", "path", outPath, "updates", len(result.Updates))
	return r.writePlainln("%s", ui.OK("✓ Wrote "+strconv.Itoa(len(result.Updates))+" update queries to "+outPath))
}
