// Package config provides configuration management for skillvault.
// It supports YAML configuration files, environment variables, and sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/skillvault/skillvault/internal/plan"
	"github.com/skillvault/skillvault/internal/util"
)

// Config represents the complete skillvault configuration. A loaded Config
// is passed by reference to the components that need it; nothing reads
// configuration through package-level state.
type Config struct {
	// Remote configures the backup document endpoint
	Remote RemoteConfig `yaml:"remote"`

	// Sync configures default synchronization behavior
	Sync SyncConfig `yaml:"sync"`

	// Inventory configures the local skill collector
	Inventory InventoryConfig `yaml:"inventory"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output"`

	// Retry configures remote call retry behavior
	Retry RetryConfig `yaml:"retry"`
}

// RemoteConfig holds backup endpoint settings.
type RemoteConfig struct {
	// BaseURL is the backup service endpoint
	BaseURL string `yaml:"base_url"`
	// Document is the name of the backup document for this machine's skills
	Document string `yaml:"document"`
	// Timeout bounds a single remote call
	Timeout time.Duration `yaml:"timeout"`
}

// SyncConfig holds synchronization settings.
type SyncConfig struct {
	// DefaultMode is the sync mode used when none is given on the command line
	DefaultMode string `yaml:"default_mode"`
	// DefaultSource is the owner/repo locator substituted for skills
	// that carry no source (legacy payload entries)
	DefaultSource string `yaml:"default_source"`
}

// InventoryConfig holds local collector settings.
type InventoryConfig struct {
	// Command is the skills CLI binary invoked to list and install skills
	Command string `yaml:"command"`
	// LockFile is the path to the skills lock file used for hydration
	// when the CLI reports nothing
	LockFile string `yaml:"lock_file"`
	// AgentConfigs are extra agent config.toml files whose skill
	// directories are scanned
	AgentConfigs []string `yaml:"agent_configs,omitempty"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Format is the default output format (text, json)
	Format string `yaml:"format"`
	// Color controls color output (auto, always, never)
	Color string `yaml:"color"`
	// Verbose enables verbose output
	Verbose bool `yaml:"verbose"`
}

// RetryConfig holds remote retry settings.
type RetryConfig struct {
	// Attempts is the maximum number of tries per remote call
	Attempts int `yaml:"attempts"`
	// BaseDelay is the first backoff delay; it doubles per attempt
	BaseDelay time.Duration `yaml:"base_delay"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Remote: RemoteConfig{
			BaseURL:  "https://api.skillvault.dev",
			Document: "default",
			Timeout:  30 * time.Second,
		},
		Sync: SyncConfig{
			DefaultMode:   plan.ModeMerge.String(),
			DefaultSource: "vercel-labs/agent-skills",
		},
		Inventory: InventoryConfig{
			Command:  "skills",
			LockFile: "~/.agents/skills-lock.json",
		},
		Output: OutputConfig{
			Format: "text",
			Color:  "auto",
		},
		Retry: RetryConfig{
			Attempts:  3,
			BaseDelay: 500 * time.Millisecond,
		},
	}
}

// FilePath returns the path to the configuration file.
func FilePath() string {
	return filepath.Join(util.ConfigDir(), "config.yaml")
}

// Exists returns true if a config file exists.
func Exists() bool {
	_, err := os.Stat(FilePath())
	return err == nil
}

// Load reads configuration in precedence order: defaults, then the config
// file if present, then environment variables.
func Load() (*Config, error) {
	return LoadFrom(FilePath())
}

// LoadFrom reads configuration from the given file path. A missing file is
// not an error; defaults and environment variables still apply.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) // #nosec G304 - path comes from trusted config dir
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save writes the configuration to the config file, creating the config
// directory if needed.
func (c *Config) Save() error {
	dir := util.ConfigDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(FilePath(), data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// applyEnv overrides configuration from SKILLVAULT_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("SKILLVAULT_REMOTE_URL"); v != "" {
		c.Remote.BaseURL = v
	}
	if v := os.Getenv("SKILLVAULT_REMOTE_DOCUMENT"); v != "" {
		c.Remote.Document = v
	}
	if v := os.Getenv("SKILLVAULT_SYNC_MODE"); v != "" {
		c.Sync.DefaultMode = v
	}
	if v := os.Getenv("SKILLVAULT_DEFAULT_SOURCE"); v != "" {
		c.Sync.DefaultSource = v
	}
	if v := os.Getenv("SKILLVAULT_SKILLS_COMMAND"); v != "" {
		c.Inventory.Command = v
	}
	if v := os.Getenv("SKILLVAULT_LOCK_FILE"); v != "" {
		c.Inventory.LockFile = v
	}
	if v := os.Getenv("SKILLVAULT_AGENT_CONFIGS"); v != "" {
		c.Inventory.AgentConfigs = splitPaths(v)
	}
	if v := os.Getenv("SKILLVAULT_OUTPUT_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("SKILLVAULT_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
	if v := os.Getenv("SKILLVAULT_OUTPUT_VERBOSE"); v != "" {
		c.Output.Verbose = parseBool(v)
	}
	if v := os.Getenv("SKILLVAULT_RETRY_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Retry.Attempts = n
		}
	}
}

// GetMode returns the configured default sync mode, validating it.
func (c *Config) GetMode() plan.Mode {
	mode := plan.Mode(c.Sync.DefaultMode)
	if mode.IsValid() {
		return mode
	}
	return plan.ModeMerge
}

// LockFilePath returns the expanded lock file path.
func (c *Config) LockFilePath() string {
	return util.ExpandPath(c.Inventory.LockFile, "")
}

// AgentConfigPaths returns the expanded agent config paths.
func (c *Config) AgentConfigPaths() []string {
	return util.ExpandPaths(c.Inventory.AgentConfigs, "")
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// splitPaths splits a colon-separated path string into individual paths.
// Empty segments are filtered out.
func splitPaths(s string) []string {
	parts := strings.Split(s, ":")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
