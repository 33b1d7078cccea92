// Package config handles configuration loading and parsing for iacgate.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iacgate/iacgate/internal/constants"
	"github.com/iacgate/iacgate/internal/logger"
)

//go:embed config.toml
var defaultConfig []byte

// DefaultAuditMaxSize is the rotation threshold used when the config does
// not set one.
const DefaultAuditMaxSize = 5 * 1024 * 1024

// fileConfig mirrors the TOML schema.
type fileConfig struct {
	Checks struct {
		Disabled []string `toml:"disabled"`
	} `toml:"checks"`
	Deny struct {
		Globs []string `toml:"globs"`
	} `toml:"deny"`
	Audit struct {
		MaxSizeBytes int64 `toml:"max_size_bytes"`
	} `toml:"audit"`
}

// Config holds the loaded configuration.
type Config struct {
	// Disabled maps check IDs that must never produce findings.
	Disabled map[string]bool
	// DenyGlobs are extra basename globs blocked at pre-write, on top of
	// the built-in state/credential deny list.
	DenyGlobs []string
	// AuditMaxSize is the audit log rotation threshold in bytes.
	AuditMaxSize int64
}

var (
	globalConfig      *Config
	configInitialized bool
	configPath        string
	initErr           error
)

// GetConfigDir returns the config directory path.
// Uses IACGATE_CONFIG env var if set, otherwise ~/.config/iacgate
func GetConfigDir() (string, error) {
	if dir := os.Getenv(constants.EnvConfigDir); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", constants.AppName), nil
}

// EnsureConfigFiles creates the config directory and writes the default
// config file if it doesn't exist.
func EnsureConfigFiles(configDir string) error {
	if err := os.MkdirAll(configDir, constants.DirMode); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(configDir, constants.ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, defaultConfig, constants.FileMode); err != nil {
			return fmt.Errorf("failed to write %s: %w", constants.ConfigFileName, err)
		}
	}

	return nil
}

// Load parses TOML data into a Config.
func Load(data []byte) (*Config, error) {
	var raw fileConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg := &Config{
		Disabled:     make(map[string]bool, len(raw.Checks.Disabled)),
		DenyGlobs:    raw.Deny.Globs,
		AuditMaxSize: raw.Audit.MaxSizeBytes,
	}
	for _, id := range raw.Checks.Disabled {
		cfg.Disabled[id] = true
	}
	if cfg.AuditMaxSize <= 0 {
		cfg.AuditMaxSize = DefaultAuditMaxSize
	}
	return cfg, nil
}

func loadEmbeddedDefaults() *Config {
	cfg, _ := Load(defaultConfig)
	return cfg
}

// Init loads configuration from files, creating defaults if necessary.
// If loading fails, it falls back to embedded defaults.
func Init() error {
	if configInitialized {
		return initErr
	}

	fallback := func(err error) error {
		globalConfig = loadEmbeddedDefaults()
		configInitialized = true
		initErr = err
		return err
	}

	configDir, err := GetConfigDir()
	if err != nil {
		logger.Debug("failed to get config dir, using embedded defaults", "error", err)
		return fallback(err)
	}

	if err := EnsureConfigFiles(configDir); err != nil {
		logger.Debug("failed to ensure config files, using embedded defaults", "error", err)
		return fallback(err)
	}

	path := filepath.Join(configDir, constants.ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("failed to read config file, using embedded defaults", "path", path, "error", err)
		return fallback(fmt.Errorf("failed to read %s: %w", constants.ConfigFileName, err))
	}

	cfg, err := Load(data)
	if err != nil {
		logger.Debug("failed to parse config, using embedded defaults", "error", err)
		return fallback(fmt.Errorf("failed to load config: %w", err))
	}

	globalConfig = cfg
	configPath = path
	configInitialized = true
	initErr = nil
	logger.Debug("config loaded successfully",
		"path", path,
		"disabled", len(cfg.Disabled),
		"deny_globs", len(cfg.DenyGlobs))
	return nil
}

// Get returns the current configuration.
// If Init has not been called, it initializes with defaults.
func Get() *Config {
	if !configInitialized {
		Init()
	}
	return globalConfig
}

// GetConfigPath returns the path the config was loaded from, empty when
// running on embedded defaults.
func GetConfigPath() string {
	return configPath
}

// InitError returns the error from the last Init, if any.
func InitError() error {
	return initErr
}

// Reset resets the configuration state. Used for testing.
func Reset() {
	configInitialized = false
	globalConfig = nil
	configPath = ""
	initErr = nil
}

// GetDefaultConfig returns the embedded default configuration.
func GetDefaultConfig() []byte {
	return defaultConfig
}
