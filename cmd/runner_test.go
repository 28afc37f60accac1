package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hymnx/internal/models"
	"github.com/desertthunder/hymnx/internal/shared"
	tu "github.com/desertthunder/hymnx/internal/testing"
)

// newTestRunner builds a Runner whose relative paths resolve inside a temp directory
func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		BaseDir: dir,
		Logger:  log.New(io.Discard),
		Output:  output,
	})
	return runner, output, dir
}

func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	return newApp(r).Run(context.Background(), append([]string{"hymnx"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/etc/hymnx/config.toml",
				BaseDir:    "/opt/hymnx",
				Logger:     logger,
				Output:     output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.configPath != "/etc/hymnx/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.baseDir != "/opt/hymnx" {
				t.Errorf("expected baseDir to be set, got %s", runner.baseDir)
			}
			if runner.engine == nil {
				t.Error("expected export engine to be created")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.baseDir == "" {
				t.Error("expected baseDir to default to the executable directory")
			}
		})
	})

	t.Run("Before", func(t *testing.T) {
		t.Run("missing default config uses defaults anchored to base dir", func(t *testing.T) {
			runner, _, dir := newTestRunner(t)

			if err := run(t, runner, "categories", "--db", tu.NewSongsDB(t)); err != nil {
				t.Fatalf("command failed: %v", err)
			}

			if runner.config.Export.Output != filepath.Join(dir, "local_english_songs.json") {
				t.Errorf("expected export output in base dir, got %s", runner.config.Export.Output)
			}
		})

		t.Run("config next to the executable is loaded", func(t *testing.T) {
			runner, _, dir := newTestRunner(t)
			tu.MustWriteFile(t, filepath.Join(dir, "config.toml"), "[export]\noutput = \"english.json\"\nsample_size = 1\n")

			if err := run(t, runner, "categories", "--db", tu.NewSongsDB(t)); err != nil {
				t.Fatalf("command failed: %v", err)
			}

			if runner.config.Export.Output != filepath.Join(dir, "english.json") {
				t.Errorf("expected configured output, got %s", runner.config.Export.Output)
			}
			if runner.config.Export.SampleSize != 1 {
				t.Errorf("expected sample size 1, got %d", runner.config.Export.SampleSize)
			}
		})

		t.Run("explicit missing config fails", func(t *testing.T) {
			runner, _, dir := newTestRunner(t)

			err := run(t, runner, "--config", filepath.Join(dir, "nope.toml"), "categories")
			if !errors.Is(err, os.ErrNotExist) {
				t.Errorf("expected not-exist error, got %v", err)
			}
			if !errors.Is(err, shared.ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output, BaseDir: t.TempDir()})

			if err := runner.writeJSON(map[string]string{"key": "value"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("returns error on write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}, BaseDir: t.TempDir()})

			if err := runner.writeJSON([]string{"a"}); err == nil {
				t.Error("expected error from failing writer")
			}
		})

		t.Run("returns error on unmarshalable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, BaseDir: t.TempDir()})

			if err := runner.writeJSON(make(chan int)); err == nil {
				t.Error("expected marshal error")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("fails after limited writes", func(t *testing.T) {
			buf := &bytes.Buffer{}
			w := tu.NewLimitedWriter(1, 0, buf)
			runner := NewRunner(RunnerOpts{Output: &w, BaseDir: t.TempDir()})

			if err := runner.writePlainln("first"); err != nil {
				t.Fatalf("first write should succeed: %v", err)
			}
			if err := runner.writePlainln("second"); err == nil {
				t.Error("second write should fail")
			}
			if buf.String() != "first\n" {
				t.Errorf("unexpected output %q", buf.String())
			}
		})
	})
}

func TestExportCommand(t *testing.T) {
	t.Run("exports scenario", func(t *testing.T) {
		runner, output, dir := newTestRunner(t)
		dbPath := tu.NewSongsDB(t, tu.ScenarioRows...)
		outPath := filepath.Join(dir, "out.json")

		if err := run(t, runner, "export", "--db", dbPath, "--output", outPath); err != nil {
			t.Fatalf("export failed: %v", err)
		}

		var decoded []models.ExportedSong
		if err := json.Unmarshal([]byte(tu.MustReadFile(t, outPath)), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		want := []models.ExportedSong{
			{ID: 1, Title: "Amazing Grace", Category: "Hymns", SongNumber: "12"},
			{ID: 3, Title: "How Great Thou Art!", Category: "Hymns", SongNumber: "7"},
		}
		if len(decoded) != len(want) || decoded[0] != want[0] || decoded[1] != want[1] {
			t.Errorf("expected %+v, got %+v", want, decoded)
		}

		printed := output.String()
		if !strings.Contains(printed, "Local English Songs: 2") {
			t.Errorf("expected count in output, got %s", printed)
		}
		if !strings.Contains(printed, "Amazing Grace") {
			t.Errorf("expected sample in output, got %s", printed)
		}
	})

	t.Run("defaults write next to the database", func(t *testing.T) {
		runner, _, dir := newTestRunner(t)
		src := tu.NewSongsDB(t, tu.ScenarioRows...)
		data := tu.MustReadFile(t, src)
		tu.MustWriteFile(t, filepath.Join(dir, "church_songs.db"), data)

		if err := run(t, runner, "export"); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "local_english_songs.json"))
	})

	t.Run("skips database without songs table", func(t *testing.T) {
		runner, _, dir := newTestRunner(t)
		outPath := filepath.Join(dir, "out.json")

		if err := run(t, runner, "export", "--db", tu.NewEmptyDB(t), "--output", outPath); err != nil {
			t.Fatalf("missing schema should be skipped, got %v", err)
		}
		tu.AssertFileMissing(t, outPath)
	})

	t.Run("missing database fails", func(t *testing.T) {
		runner, _, dir := newTestRunner(t)

		err := run(t, runner, "export", "--db", filepath.Join(dir, "missing.db"))
		if !errors.Is(err, shared.ErrMissingDatabase) {
			t.Errorf("expected ErrMissingDatabase, got %v", err)
		}
	})

	t.Run("invalid format fails", func(t *testing.T) {
		runner, _, _ := newTestRunner(t)

		err := run(t, runner, "export", "--db", tu.NewSongsDB(t), "--format", "xml")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestInspectCommand(t *testing.T) {
	t.Run("with songs table", func(t *testing.T) {
		runner, output, _ := newTestRunner(t)

		if err := run(t, runner, "inspect", "--db", tu.NewSongsDB(t, tu.ScenarioRows...)); err != nil {
			t.Fatalf("inspect failed: %v", err)
		}

		printed := output.String()
		for _, s := range []string{"Tables:", "songs", "song_number", `"Amazing Grace"`, "Local DB has 3 songs."} {
			if !strings.Contains(printed, s) {
				t.Errorf("expected %q in output:\n%s", s, printed)
			}
		}
	})

	t.Run("without songs table", func(t *testing.T) {
		runner, output, _ := newTestRunner(t)

		if err := run(t, runner, "inspect", "--db", tu.NewEmptyDB(t)); err != nil {
			t.Fatalf("inspect failed: %v", err)
		}
		if !strings.Contains(output.String(), "settings") {
			t.Errorf("expected table list, got %s", output.String())
		}
		if strings.Contains(output.String(), "Local DB has") {
			t.Error("should not count songs without a songs table")
		}
	})

	t.Run("songs table missing columns", func(t *testing.T) {
		runner, output, dir := newTestRunner(t)
		dbPath := filepath.Join(dir, "legacy.db")
		db := tu.MustOpen(t, dbPath)
		if _, err := db.Exec("CREATE TABLE songs (id INTEGER PRIMARY KEY, title TEXT)"); err != nil {
			t.Fatalf("failed to create songs table: %v", err)
		}
		db.Close()

		if err := run(t, runner, "inspect", "--db", dbPath); err != nil {
			t.Fatalf("inspect failed: %v", err)
		}

		printed := output.String()
		if !strings.Contains(printed, "missing column: songs.category") {
			t.Errorf("expected missing column report, got %s", printed)
		}
		if strings.Contains(printed, "Row 1:") {
			t.Error("should not sample a songs table without the expected columns")
		}
		if !strings.Contains(printed, "Local DB has 0 songs.") {
			t.Errorf("expected count, got %s", printed)
		}
	})
}

func TestCategoriesCommand(t *testing.T) {
	runner, output, _ := newTestRunner(t)

	if err := run(t, runner, "categories", "--json", "--db", tu.NewSongsDB(t, tu.ScenarioRows...)); err != nil {
		t.Fatalf("categories failed: %v", err)
	}

	var categories []string
	if err := json.Unmarshal(output.Bytes(), &categories); err != nil {
		t.Fatalf("invalid JSON %q: %v", output.String(), err)
	}
	if len(categories) != 2 || categories[0] != "Hymns" || categories[1] != "Tamil" {
		t.Errorf("unexpected categories: %v", categories)
	}
}

func TestSetupCommand(t *testing.T) {
	t.Run("database", func(t *testing.T) {
		runner, _, dir := newTestRunner(t)
		dbPath := filepath.Join(dir, "fresh.db")

		if err := run(t, runner, "setup", "database", "--db", dbPath); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		runner2, output, _ := newTestRunner(t)
		if err := run(t, runner2, "inspect", "--db", dbPath); err != nil {
			t.Fatalf("inspect failed: %v", err)
		}
		if !strings.Contains(output.String(), "Local DB has 0 songs.") {
			t.Errorf("expected empty songs table, got %s", output.String())
		}
	})

	t.Run("config", func(t *testing.T) {
		runner, _, dir := newTestRunner(t)

		if err := run(t, runner, "setup", "config"); err != nil {
			t.Fatalf("setup config failed: %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "config.toml"))

		if err := run(t, runner, "setup", "config"); err == nil {
			t.Error("expected error when config already exists")
		}
	})
}

func TestExtractAndCompareCommands(t *testing.T) {
	runner, output, dir := newTestRunner(t)

	bundle := filepath.Join(dir, "index.js")
	tu.MustWriteFile(t, bundle, "x=[{title:\"Amazing Grace\",lyrics:`grace`,category:\"Hymns\",number:\"15\"},"+
		"{title:\"How Great Thou Art!\",lyrics:`great`,number:7}]")

	if err := run(t, runner, "extract", "--bundle", bundle); err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	tu.AssertFileExists(t, filepath.Join(dir, "apk_database.json"))

	if err := run(t, runner, "export", "--db", tu.NewSongsDB(t, tu.ScenarioRows...)); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	if err := run(t, runner, "compare"); err != nil {
		t.Fatalf("compare failed: %v", err)
	}

	sql := tu.MustReadFile(t, filepath.Join(dir, "update_numbers.sql"))
	if sql != "UPDATE songs SET song_number = '15' WHERE id = 1;\n" {
		t.Errorf("unexpected SQL: %q", sql)
	}
	if !strings.Contains(output.String(), "Found 1 songs that have DIFFERENT numbers") {
		t.Errorf("expected difference count, got %s", output.String())
	}

	t.Run("extract requires bundle", func(t *testing.T) {
		r, _, _ := newTestRunner(t)
		if err := run(t, r, "extract"); err == nil {
			t.Error("expected missing flag error")
		}
	})

	t.Run("compare with identical numbers writes nothing", func(t *testing.T) {
		r, out, d := newTestRunner(t)
		local := filepath.Join(d, "local.json")
		reference := filepath.Join(d, "ref.json")
		tu.MustWriteFile(t, local, `[{"id":1,"title":"Amazing Grace","category":"Hymns","song_number":"15"}]`)
		tu.MustWriteFile(t, reference, `[{"title":"Amazing Grace","lyrics":"","number":15}]`)

		if err := run(t, r, "compare", "--local", local, "--reference", reference); err != nil {
			t.Fatalf("compare failed: %v", err)
		}
		if !strings.Contains(out.String(), "identical numbering") {
			t.Errorf("expected identical message, got %s", out.String())
		}
		tu.AssertFileMissing(t, filepath.Join(d, "update_numbers.sql"))
	})
}
