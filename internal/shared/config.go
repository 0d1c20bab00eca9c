package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Mylar    MylarConfig    `toml:"mylar"`
	Kapowarr KapowarrConfig `toml:"kapowarr"`
	Options  OptionsConfig  `toml:"options"`
	Database DatabaseConfig `toml:"database"`
}

// MylarConfig contains Mylar connection settings.
type MylarConfig struct {
	URL      string `toml:"url"`
	APIKey   string `toml:"api_key"`
	HostRoot string `toml:"host_root"` // where Mylar's /comics/ lives on the host
}

// KapowarrConfig contains Kapowarr connection settings.
type KapowarrConfig struct {
	URL          string `toml:"url"`
	APIKey       string `toml:"api_key"`
	HostRoot     string `toml:"host_root"` // where Kapowarr's /comics-1/ lives on the host
	RootFolderID int    `toml:"root_folder_id"`
}

// OptionsConfig contains migration behavior defaults, overridable per run by CLI flags.
type OptionsConfig struct {
	CopyFiles    bool   `toml:"copy_files"`
	UseImport    bool   `toml:"use_import"`
	RenameFiles  bool   `toml:"rename_files"`
	RefreshScan  bool   `toml:"refresh_scan"`
	MassRename   bool   `toml:"mass_rename"`
	DryRun       bool   `toml:"dry_run"`
	Limit        int    `toml:"limit"`
	DelaySeconds int    `toml:"delay"`
	LogLevel     string `toml:"log_level"`
}

// Delay returns the inter-entry delay as a [time.Duration].
func (o OptionsConfig) Delay() time.Duration {
	return time.Duration(o.DelaySeconds) * time.Second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingConfig, path, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	return &config, nil
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
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
