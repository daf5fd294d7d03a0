package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. FINDPANE_PREFS_BACKEND
const EnvPrefix = "FINDPANE"

// Config represents the application configuration
type Config struct {
	Version     int            `mapstructure:"version" toml:"version"`
	WindowTitle string         `mapstructure:"window_title" toml:"window_title"`
	Editor      string         `mapstructure:"editor" toml:"editor"` // command used to open results, $EDITOR when empty
	LogFile     string         `mapstructure:"log_file" toml:"log_file"`
	Debug       bool           `mapstructure:"debug" toml:"debug"`
	Prefs       PrefsSettings  `mapstructure:"prefs" toml:"prefs"`
	Search      SearchSettings `mapstructure:"search" toml:"search"`
	UI          UISettings     `mapstructure:"ui" toml:"ui"`
}

// PrefsSettings selects where history and favorites are kept
type PrefsSettings struct {
	Backend   string `mapstructure:"backend" toml:"backend"` // file, memory or redis
	Path      string `mapstructure:"path" toml:"path"`
	RedisURL  string `mapstructure:"redis_url" toml:"redis_url"`
	Namespace string `mapstructure:"namespace" toml:"namespace"`
}

// SearchSettings configures the built-in search engine
type SearchSettings struct {
	Root       string   `mapstructure:"root" toml:"root"`
	Extensions []string `mapstructure:"extensions" toml:"extensions"`
	BatchSize  int      `mapstructure:"batch_size" toml:"batch_size"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	KeepDialogOpen   bool `mapstructure:"keep_dialog_open" toml:"keep_dialog_open"`
	PreviewCacheSize int  `mapstructure:"preview_cache_size" toml:"preview_cache_size"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service using the user config directory
func NewConfigService() ConfigService {
	return &configService{
		filePath: filepath.Join(configDir(), "config.toml"),
	}
}

// NewConfigServiceAt creates a config service for the file at path
func NewConfigServiceAt(path string) ConfigService {
	if path == "" {
		return NewConfigService()
	}
	return &configService{filePath: path}
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration file. A missing file yields the defaults,
// environment overrides still apply.
func (cs *configService) Load() (*Config, error) {
	return load(cs.filePath, false)
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path, which must exist
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	return load(path, true)
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func load(path string, mustExist bool) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	} else if mustExist {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("window_title", d.WindowTitle)
	v.SetDefault("editor", d.Editor)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("prefs.backend", d.Prefs.Backend)
	v.SetDefault("prefs.path", d.Prefs.Path)
	v.SetDefault("prefs.redis_url", d.Prefs.RedisURL)
	v.SetDefault("prefs.namespace", d.Prefs.Namespace)
	v.SetDefault("search.root", d.Search.Root)
	v.SetDefault("search.extensions", d.Search.Extensions)
	v.SetDefault("search.batch_size", d.Search.BatchSize)
	v.SetDefault("ui.keep_dialog_open", d.UI.KeepDialogOpen)
	v.SetDefault("ui.preview_cache_size", d.UI.PreviewCacheSize)
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		dir, err = os.UserHomeDir()
		if err != nil {
			dir = "."
		}
		dir = filepath.Join(dir, ".config")
	}
	return filepath.Join(dir, "findpane")
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:     1,
		WindowTitle: "Find",
		LogFile:     filepath.Join(configDir(), "findpane.log"),
		Prefs: PrefsSettings{
			Backend:   "file",
			Path:      filepath.Join(configDir(), "prefs.toml"),
			Namespace: "findpane",
		},
		Search: SearchSettings{
			Root:       ".",
			Extensions: []string{".java", ".kt", ".smali", ".xml", ".json", ".properties", ".txt"},
			BatchSize:  50,
		},
		UI: UISettings{
			KeepDialogOpen:   false,
			PreviewCacheSize: 256,
		},
	}
}
