package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Export   ExportConfig   `toml:"export"`
	Compare  CompareConfig  `toml:"compare"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ExportConfig controls where filtered songs are written.
type ExportConfig struct {
	Output     string `toml:"output"`
	Summary    string `toml:"summary"`     // Optional summary JSON path, empty to skip
	SampleSize int    `toml:"sample_size"` // Titles echoed to the console after an export
}

// CompareConfig points at the reference catalogue and the generated SQL file.
type CompareConfig struct {
	Reference string `toml:"reference"`
	Output    string `toml:"output"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolvePaths anchors every relative path in the config to dir.
//
// The database and its exports live next to the executable, so the CLI passes the executable's directory here.
func (c *Config) ResolvePaths(dir string) {
	for _, p := range []*string{&c.Database.Path, &c.Export.Output, &c.Export.Summary, &c.Compare.Reference, &c.Compare.Output} {
		*p = ResolvePath(dir, *p)
	}
}

// ResolvePath joins path onto dir unless path is empty or already absolute.
func ResolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}

// ExecutableDir returns the directory holding the running binary, or "." when it cannot be determined.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}
