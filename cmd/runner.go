package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hymnx/internal/formatter"
	"github.com/desertthunder/hymnx/internal/shared"
	"github.com/desertthunder/hymnx/internal/tasks"
	"github.com/desertthunder/hymnx/internal/ui"
	"github.com/urfave/cli/v3"
)

const defaultConfigName = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	baseDir    string
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.ExportEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	BaseDir    string // Directory relative paths resolve against, defaults to the executable's
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.BaseDir == "" {
		opts.BaseDir = shared.ExecutableDir()
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		baseDir:    opts.BaseDir,
		logger:     opts.Logger,
		output:     opts.Output,
		engine:     tasks.NewExportEngine(opts.Logger),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, inspectCommand, exportCommand, categoriesCommand, extractCommand, compareCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration shared by every command.
//
// An explicit --config must exist; the default config.toml next to the executable is optional.
// Relative paths in the config are anchored to the base directory.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	path := cmd.String("config")
	explicit := path != ""
	if !explicit && r.configPath != "" {
		path = r.configPath
	}
	if path == "" {
		path = filepath.Join(r.baseDir, defaultConfigName)
	}

	config, err := shared.LoadConfig(path)
	switch {
	case err == nil:
		r.logger.Debug("loaded config", "path", path)
		r.config = config
	case errors.Is(err, os.ErrNotExist) && !explicit:
		r.logger.Debug("config file not found, using defaults", "path", path)
	case errors.Is(err, os.ErrNotExist):
		return ctx, fmt.Errorf("%w: %w", shared.ErrMissingConfig, err)
	default:
		return ctx, err
	}

	r.configPath = path
	r.config.ResolvePaths(r.baseDir)
	return ctx, nil
}

// exportOpts collects export flags, falling back to the config.
func (r *Runner) exportOpts(cmd *cli.Command) (tasks.ExportOpts, error) {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return tasks.ExportOpts{}, err
	}
	return tasks.ExportOpts{
		Format:      format,
		SummaryPath: stringOr(cmd, "summary", r.config.Export.Summary),
	}, nil
}

func (r *Runner) writeJSON(data any) error {
	output, err := formatter.MarshalJSON(data)
	if err != nil {
		return err
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	return r.writePlain(format+"\n", args...)
}

func (r *Runner) writePlainHeader(title string) error {
	return r.writePlain("%s\n", ui.Title("═══ "+title+" ═══"))
}

// stringOr returns the flag value when set, otherwise fallback.
func stringOr(cmd *cli.Command, name, fallback string) string {
	if v := cmd.String(name); v != "" {
		return v
	}
	return fallback
}
