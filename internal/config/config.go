package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"imgsort/internal/catalog"
	"imgsort/internal/errors"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultCategories is used when default_categories is blank.
	DefaultCategories = "keep, delete, fix, other"
	// DefaultFilterFiles is used when filter_files is blank.
	DefaultFilterFiles = "png, jpg, jpeg"
	// DefaultFileName is the config file looked up in the working directory.
	DefaultFileName = "config.yml"
	// EnvConfigPath names the config file when no --config flag is given.
	EnvConfigPath = "IMGSORT_CONFIG"
)

// Config represents the application configuration structure.
type Config struct {
	DefaultDirectory  string   `yaml:"default_directory"`  // Directory opened at startup
	JSONPath          string   `yaml:"json_path"`          // Annotation ledger file
	DefaultCategories string   `yaml:"default_categories"` // Comma separated labels
	FilterFiles       string   `yaml:"filter_files"`       // Comma separated extensions
	ImageHeightClamp  int      `yaml:"image_height_clamp"` // Max displayed image height
	ClampImage        bool     `yaml:"clamp_image"`        // Clamp display height by default
	IgnorePatterns    []string `yaml:"ignore_patterns"`    // Globs hidden from the listing
	Resume            bool     `yaml:"resume"`             // Reload a matching ledger at startup
	JournalPath       string   `yaml:"journal_path"`       // SQLite move journal
	DisableJournal    bool     `yaml:"disable_journal"`    // Skip recording moves
	Settings          struct {
		DryRun    bool   `yaml:"dry_run"`   // Report moves without touching files
		Collision string `yaml:"collision"` // fail, skip or rename
	} `yaml:"settings"`
	Slideshow struct {
		Interval   int  `yaml:"interval"`   // Seconds between images
		Shuffle    bool `yaml:"shuffle"`    // Randomize order
		Continuous bool `yaml:"continuous"` // Wrap around at the end
	} `yaml:"slideshow"`
	Watch  bool `yaml:"watch"` // Refresh the listing on filesystem changes
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
}

// LoadConfig loads configuration from $IMGSORT_CONFIG, falling back to
// config.yml in the working directory.
func LoadConfig() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		path = DefaultFileName
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// Blank directory, ledger path and categories are filled from the working
// directory and written back to the file so later runs see them. A missing
// file yields the defaults without creating it.
func LoadConfigFile(path string) (*Config, error) {
	switch filepath.Ext(path) {
	case ".yml", ".yaml":
	default:
		return nil, errors.NewConfigError("config file must be a yml or yaml file", path, errors.InvalidConfig, nil)
	}

	cfg := defaultConfig()
	exists := true

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.NewConfigError("error reading config file", path, errors.InvalidConfig, err)
		}
		exists = false
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("error getting current directory: %w", err)
	}
	if cfg.fillBlanks(cwd) && exists {
		if err := SaveConfig(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.DefaultCategories = DefaultCategories
	cfg.FilterFiles = DefaultFilterFiles
	cfg.ImageHeightClamp = 896
	cfg.ClampImage = true
	cfg.IgnorePatterns = []string{}
	cfg.Resume = false

	cfg.Settings.DryRun = false
	cfg.Settings.Collision = "fail"

	cfg.Slideshow.Interval = 3
	cfg.Slideshow.Continuous = true

	cfg.Watch = true
	cfg.Server.ListenAddr = "127.0.0.1:8765"

	return cfg
}

// fillBlanks resolves settings that default relative to the working
// directory and reports whether anything changed.
func (c *Config) fillBlanks(cwd string) bool {
	changed := false
	if c.DefaultDirectory == "" || !isDir(c.DefaultDirectory) {
		c.DefaultDirectory = cwd
		changed = true
	}
	if c.JSONPath == "" {
		c.JSONPath = filepath.Join(cwd, "annotations.json")
		changed = true
	}
	if c.JournalPath == "" {
		c.JournalPath = filepath.Join(cwd, "imgsort.db")
		changed = true
	}
	if strings.TrimSpace(c.DefaultCategories) == "" {
		c.DefaultCategories = DefaultCategories
		changed = true
	}
	if strings.TrimSpace(c.FilterFiles) == "" {
		c.FilterFiles = DefaultFilterFiles
		changed = true
	}
	return changed
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	if filepath.Ext(c.JSONPath) != ".json" {
		return errors.NewConfigError("ledger path must be a json file", "json_path", errors.InvalidConfig, nil)
	}
	if len(c.Categories()) == 0 {
		return errors.NewConfigError("at least one category is required", "default_categories", errors.InvalidConfig, nil)
	}
	if len(c.Extensions()) == 0 {
		return errors.NewConfigError("at least one file extension is required", "filter_files", errors.InvalidConfig, nil)
	}
	if c.ImageHeightClamp < 0 {
		return errors.NewConfigError("image height clamp must be >= 0", "image_height_clamp", errors.InvalidConfig, nil)
	}

	validCollisions := map[string]bool{"fail": true, "skip": true, "rename": true}
	if !validCollisions[c.Settings.Collision] {
		return errors.NewConfigError(fmt.Sprintf("invalid collision setting %q", c.Settings.Collision), "settings.collision", errors.InvalidConfig, nil)
	}

	if c.Slideshow.Interval < 1 {
		return errors.NewConfigError("slideshow interval must be >= 1 second", "slideshow.interval", errors.InvalidConfig, nil)
	}

	return nil
}

// Categories splits DefaultCategories into trimmed labels. Blank entries and
// repeated labels are dropped, keeping the first occurrence.
func (c *Config) Categories() []string {
	return ParseCategories(c.DefaultCategories)
}

// ParseCategories parses a comma separated category string.
func ParseCategories(csv string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, part := range strings.Split(csv, ",") {
		label := strings.TrimSpace(part)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}

// Extensions returns the dot-prefixed extension allow-list.
func (c *Config) Extensions() []string {
	return catalog.ParseExtensions(c.FilterFiles)
}

// SlideshowInterval returns the slideshow pacing delay.
func (c *Config) SlideshowInterval() time.Duration {
	return time.Duration(c.Slideshow.Interval) * time.Second
}

// NewTestConfig creates a configuration rooted at dir for tests.
func NewTestConfig(dir string) *Config {
	cfg := defaultConfig()
	cfg.DefaultDirectory = dir
	cfg.JSONPath = filepath.Join(dir, "annotations.json")
	cfg.JournalPath = filepath.Join(dir, "imgsort.db")
	cfg.Watch = false
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}
