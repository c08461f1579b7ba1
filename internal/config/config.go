// Package config provides unified configuration management for ttct.
// Configuration is loaded from multiple sources with the following precedence:
// embedded defaults → global file → env vars → local file → CLI flags
package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/alexander-akhmetov/ttct/internal/dirs"
)

//go:embed defaults/config.yaml
var defaultsFS embed.FS

// LocalDirName is the per-project override directory.
const LocalDirName = ".ttct"

// UIConfig holds terminal UI settings.
type UIConfig struct {
	Style     string `yaml:"style"`
	AltScreen bool   `yaml:"alt_screen"`

	// Set tracking for merge
	AltScreenSet bool `yaml:"-"`
}

// Config holds all configuration settings for ttct.
// Fields ending in *Set track whether that field was explicitly set in config.
// This allows distinguishing explicit 0 from "not set", so a local file can
// turn simulated latency off after a global file turned it on.
type Config struct {
	DBPath          string `yaml:"db_path"`
	LatencyMs       int    `yaml:"latency_ms"`
	AutosaveDelayMs int    `yaml:"autosave_delay_ms"`
	ToastSeconds    int    `yaml:"toast_seconds"`
	LogsDir         string `yaml:"logs_dir"`

	UI UIConfig `yaml:"ui"`

	// Templates (loaded separately, not from YAML)
	Templates *Templates `yaml:"-"`

	// Set tracking for merge behavior
	LatencyMsSet       bool `yaml:"-"`
	AutosaveDelayMsSet bool `yaml:"-"`
	ToastSecondsSet    bool `yaml:"-"`

	configDir string
	localDir  string
	sources   []string // ordered list of sources that contributed to this config
}

// Sources returns the ordered list of sources that contributed to this config.
func (c *Config) Sources() []string {
	return c.sources
}

// LocalDir returns the local project config directory if one was detected.
func (c *Config) LocalDir() string {
	return c.localDir
}

// ConfigDir returns the global config directory.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// Load loads all configuration from the default locations.
// It auto-detects .ttct/ in the current working directory for local overrides.
func Load() (*Config, error) {
	var localDir string
	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, LocalDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			localDir = candidate
		}
	}

	return LoadWithDirs(dirs.ConfigDir(), localDir)
}

// LoadWithDirs loads configuration with explicit global and local directories.
// If localDir is empty, only global config is used.
func LoadWithDirs(globalDir, localDir string) (*Config, error) {
	if err := InstallDefaults(globalDir); err != nil {
		return nil, fmt.Errorf("install defaults: %w", err)
	}

	// 1. Start with embedded defaults
	cfg, err := loadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load embedded defaults: %w", err)
	}
	cfg.sources = append(cfg.sources, "embedded")

	// 2. Merge global config
	globalPath := filepath.Join(globalDir, "config.yaml")
	if globalCfg, err := loadFile(globalPath); err == nil {
		cfg.mergeFrom(globalCfg)
		cfg.sources = append(cfg.sources, globalPath)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("load global config: %w", err)
	}

	// 3. Apply environment variables (between global and local)
	cfg.applyEnv()

	// 4. Merge local config (highest file precedence)
	if localDir != "" {
		localPath := filepath.Join(localDir, "config.yaml")
		if localCfg, err := loadFile(localPath); err == nil {
			cfg.mergeFrom(localCfg)
			cfg.sources = append(cfg.sources, localPath)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load local config: %w", err)
		}
	}

	cfg.configDir = globalDir
	cfg.localDir = localDir

	templates, err := LoadTemplates(globalDir, localDir)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	cfg.Templates = templates

	return cfg, nil
}

// InstallDefaults creates the config directory and installs default config if not exists.
func InstallDefaults(configDir string) error {
	if err := dirs.Ensure(configDir, 0o700); err != nil {
		return err
	}

	templatesDir := filepath.Join(configDir, "templates")
	if err := dirs.Ensure(templatesDir, 0o700); err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		data, err := defaultsFS.ReadFile("defaults/config.yaml")
		if err != nil {
			return fmt.Errorf("read embedded config: %w", err)
		}
		if err := os.WriteFile(configPath, data, 0o600); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	}

	return nil
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func loadEmbedded() (*Config, error) {
	data, err := defaultsFS.ReadFile("defaults/config.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded defaults: %w", err)
	}
	return parseConfig(data)
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user's config file
	if err != nil {
		return nil, err
	}
	return parseConfigWithTracking(data)
}

func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// parseConfigWithTracking parses YAML config and tracks which fields were set.
func parseConfigWithTracking(data []byte) (*Config, error) {
	cfg, err := parseConfig(data)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if _, ok := raw["latency_ms"]; ok {
		cfg.LatencyMsSet = true
	}
	if _, ok := raw["autosave_delay_ms"]; ok {
		cfg.AutosaveDelayMsSet = true
	}
	if _, ok := raw["toast_seconds"]; ok {
		cfg.ToastSecondsSet = true
	}
	if ui, ok := raw["ui"].(map[string]any); ok {
		if _, ok := ui["alt_screen"]; ok {
			cfg.UI.AltScreenSet = true
		}
	}

	return cfg, nil
}

// applyEnv applies environment variables to the config.
// Env vars sit between global and local config in precedence.
func (c *Config) applyEnv() {
	if v := os.Getenv("TTCT_DB_PATH"); v != "" {
		c.DBPath = v
		c.sources = append(c.sources, "env:TTCT_DB_PATH")
	}

	if v := os.Getenv("TTCT_LATENCY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LatencyMs = n
			c.LatencyMsSet = true
			c.sources = append(c.sources, "env:TTCT_LATENCY_MS")
		}
	}

	if v := os.Getenv("TTCT_AUTOSAVE_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.AutosaveDelayMs = n
			c.AutosaveDelayMsSet = true
			c.sources = append(c.sources, "env:TTCT_AUTOSAVE_DELAY_MS")
		}
	}

	if v := os.Getenv("TTCT_TOAST_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ToastSeconds = n
			c.ToastSecondsSet = true
			c.sources = append(c.sources, "env:TTCT_TOAST_SECONDS")
		}
	}

	if v := os.Getenv("TTCT_LOGS_DIR"); v != "" {
		c.LogsDir = v
		c.sources = append(c.sources, "env:TTCT_LOGS_DIR")
	}
}

// mergeFrom merges non-empty/set values from src into c.
func (c *Config) mergeFrom(src *Config) {
	if src.DBPath != "" {
		c.DBPath = src.DBPath
	}
	if src.LatencyMsSet {
		c.LatencyMs = src.LatencyMs
		c.LatencyMsSet = true
	}
	if src.AutosaveDelayMsSet {
		c.AutosaveDelayMs = src.AutosaveDelayMs
		c.AutosaveDelayMsSet = true
	}
	if src.ToastSecondsSet {
		c.ToastSeconds = src.ToastSeconds
		c.ToastSecondsSet = true
	}
	if src.LogsDir != "" {
		c.LogsDir = src.LogsDir
	}

	if src.UI.Style != "" {
		c.UI.Style = src.UI.Style
	}
	if src.UI.AltScreenSet {
		c.UI.AltScreen = src.UI.AltScreen
		c.UI.AltScreenSet = true
	}
}

// ApplyCLIFlags applies CLI flag overrides to the config.
// CLI flags have the highest precedence. Negative values mean "not given".
func (c *Config) ApplyCLIFlags(dbPath string, latencyMs int) {
	if dbPath != "" {
		c.DBPath = dbPath
		c.sources = append(c.sources, "cli:db")
	}
	if latencyMs >= 0 {
		c.LatencyMs = latencyMs
		c.LatencyMsSet = true
		c.sources = append(c.sources, "cli:latency-ms")
	}
}
