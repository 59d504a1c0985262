package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration for run artifacts.
type Paths struct {
	// LogDir holds the run log, the exclusive run lock, and the journal
	// database unless journal.path overrides it.
	LogDir string `toml:"log_dir"`
}

// Artifacts contains configuration for the remote artifact source.
type Artifacts struct {
	// BaseURL is the root the variant manifests are fetched from. Each
	// manifest entry appends its relative source path to this URL.
	BaseURL string `toml:"base_url"`
	// FetchTimeout bounds a single manifest download, in seconds.
	FetchTimeout int `toml:"fetch_timeout"`
	// VerifyChecksums enables SHA-256 verification for manifest entries
	// that declare a digest. Entries without digests are never verified.
	VerifyChecksums bool `toml:"verify_checksums"`
}

// Selector contains configuration for the interactive variant prompt.
type Selector struct {
	// Timeout is how long the prompt waits for input, in seconds.
	Timeout int `toml:"timeout"`
	// DefaultVariant is used when the prompt times out or no terminal is
	// available. Must name a known variant.
	DefaultVariant string `toml:"default_variant"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Journal contains configuration for the run journal database.
type Journal struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // Default: <log_dir>/journal.db
}

// Config encapsulates all configuration values for lxcsetup.
//
// Configuration sections by subsystem:
//   - Paths: log/lock/journal directory
//   - Artifacts: remote artifact source and integrity policy
//   - Selector: interactive variant prompt timing and fallback
//   - Logging: log format and level
//   - Journal: run history persistence
type Config struct {
	Paths     Paths     `toml:"paths"`
	Artifacts Artifacts `toml:"artifacts"`
	Selector  Selector  `toml:"selector"`
	Logging   Logging   `toml:"logging"`
	Journal   Journal   `toml:"journal"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lxcsetup/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("lxcsetup.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if c.Journal.Enabled && strings.TrimSpace(c.Journal.Path) != "" {
		dirs = append(dirs, filepath.Dir(c.Journal.Path))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath returns the exclusive run lock location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.LogDir, "lxcsetup.lock")
}

// LogFilePath returns the run log location.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "lxcsetup.log")
}

// JournalPath returns the resolved journal database location. Whether the
// journal is recorded at all is decided by Journal.Enabled, not here.
func (c *Config) JournalPath() string {
	if strings.TrimSpace(c.Journal.Path) != "" {
		return c.Journal.Path
	}
	return filepath.Join(c.Paths.LogDir, "journal.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
