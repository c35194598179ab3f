package platform

import (
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/notepad/pkg/core"
)

// Config is the file-backed configuration of a notepad installation.
type Config struct {
	File string `yaml:"-"`
	// NotesDir is the notes root. Empty means DefaultNotesDir().
	NotesDir string `yaml:"notes-dir"`
	// ExportDir receives export artifacts. Empty means DefaultExportDir().
	ExportDir string `yaml:"export-dir"`
	// SystemDir is the hidden bookkeeping directory inside the notes root.
	SystemDir string `yaml:"system-dir" default:".notepad"`
	// LockTimeout bounds how long a write waits for the notes lock.
	LockTimeout time.Duration `yaml:"lock-timeout" default:"5s"`
	Log         LogConfig     `yaml:"log"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// File receives logs in append mode; empty means stderr.
	File string `yaml:"file"`
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" default:"info"`
	// Format is text or json.
	Format string `yaml:"format" default:"text"`
}

// DefaultConfig returns a config with every default applied.
func DefaultConfig() *Config {
	c := new(Config)
	_ = defaults.Set(c)
	return c
}

// LoadConfig reads a YAML config file. Fields missing or empty in the file keep their defaults.
func LoadConfig(f string) (*Config, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, err
	}
	realpath = filepath.Clean(realpath)

	c := new(Config)
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, errors.Wrap(err, "read config file failed")
	}
	if err := yaml.Unmarshal(file, c); err != nil {
		return nil, errors.Wrap(err, "parse config file failed")
	}

	// Second pass fills keys present in the YAML but left empty.
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "re-set default config failed")
	}
	c.File = realpath
	return c, nil
}

// Save writes the config back to its file.
func (c *Config) Save() error {
	if c.File == "" {
		return errors.New("config has no file")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}
	if err := os.MkdirAll(filepath.Dir(c.File), 0755); err != nil {
		return errors.Wrap(err, "create config directory failed")
	}
	return errors.Wrap(os.WriteFile(c.File, data, 0644), "write config file failed")
}

// ResolvedNotesDir returns NotesDir or the default location.
func (c *Config) ResolvedNotesDir() string {
	if c.NotesDir != "" {
		return expandHome(c.NotesDir)
	}
	return DefaultNotesDir()
}

// ResolvedExportDir returns ExportDir or the default location.
func (c *Config) ResolvedExportDir() string {
	if c.ExportDir != "" {
		return expandHome(c.ExportDir)
	}
	return DefaultExportDir()
}

// DefaultNotesDir is ~/Documents/G-Assist-Notes.
func DefaultNotesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "G-Assist-Notes")
	}
	return filepath.Join(home, "Documents", "G-Assist-Notes")
}

// DefaultExportDir is ~/Desktop when it exists, the home directory otherwise.
func DefaultExportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	desktop := filepath.Join(home, "Desktop")
	if info, err := os.Stat(desktop); err == nil && info.IsDir() {
		return desktop
	}
	return home
}

// DefaultConfigPath is where the CLI looks for a config when --config is not given.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "notepad", "config.yaml")
}

func expandHome(p string) string {
	if p == "~" || len(p) > 1 && p[0] == '~' && (p[1] == '/' || p[1] == filepath.Separator) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[1:])
		}
	}
	return p
}

// systemDirOr returns the configured system dir or the core default.
func (c *Config) systemDirOr() string {
	if c.SystemDir == "" {
		return core.DefaultSystemDir
	}
	return c.SystemDir
}
