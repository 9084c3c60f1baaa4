package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is read from a YAML file under the user's home directory.
// All fields are optional; defaults are applied through the accessor methods.
//
// Example (~/.boardroom/config.yaml):
//
// server:
//   host: 127.0.0.1
//   port: 8098
// database:
//   path: ~/.boardroom/boardroom.db
// generator:
//   provider: local
//   model: gpt-4o-mini
//   base_url: ""
//   api_key: ""
//   max_tokens: 1024
//
// Notes:
// - If the config file does not exist, Load returns defaults without error.
// - If the config file exists but cannot be parsed, Load returns an error.
// - Port must be between 1 and 65535.
// - generator.provider must be one of: local, openai, ollama, claude.

type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Generator GeneratorConfig `yaml:"generator"`
}

type ServerConfig struct {
	Host *string `yaml:"host"`
	Port *int    `yaml:"port"`
}

type DatabaseConfig struct {
	Path *string `yaml:"path"`
}

type GeneratorConfig struct {
	Provider  *string `yaml:"provider"`
	Model     *string `yaml:"model"`
	BaseURL   *string `yaml:"base_url"`
	APIKey    *string `yaml:"api_key"`
	MaxTokens *int    `yaml:"max_tokens"`
}

const (
	DefaultHost      = "127.0.0.1"
	DefaultPort      = 8098
	DefaultProvider  = "local"
	DefaultModel     = "gpt-4o-mini"
	DefaultMaxTokens = 1024
)

var validProviders = map[string]bool{
	"local":  true,
	"openai": true,
	"ollama": true,
	"claude": true,
}

// DefaultPaths returns the config dir and config file path.
func DefaultPaths() (configDir string, configFile string, err error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("get user home dir: %w", err)
	}
	configDir = filepath.Join(home, ".boardroom")
	configFile = filepath.Join(configDir, "config.yaml")
	return configDir, configFile, nil
}

// Load reads ~/.boardroom/config.yaml.
// If the file doesn't exist, it returns a default config and nil error.
func Load() (*AppConfig, string, error) {
	_, configFile, err := DefaultPaths()
	if err != nil {
		return nil, "", err
	}

	cfg := &AppConfig{}

	b, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, configFile, nil
		}
		return nil, "", fmt.Errorf("read config file %s: %w", configFile, err)
	}

	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, "", fmt.Errorf("parse yaml config %s: %w", configFile, err)
	}

	// Validate
	host := cfg.Host()
	if strings.TrimSpace(host) == "" {
		return nil, "", fmt.Errorf("invalid server.host (empty) in %s", configFile)
	}

	port := cfg.Port()
	if port < 1 || port > 65535 {
		return nil, "", fmt.Errorf("invalid server.port %d in %s", port, configFile)
	}

	provider := cfg.Provider()
	if !validProviders[provider] {
		return nil, "", fmt.Errorf("invalid generator.provider %q in %s", provider, configFile)
	}

	return cfg, configFile, nil
}

// EnsureDefaultConfig writes a default config file if it doesn't already exist.
// It is safe to call on startup.
func EnsureDefaultConfig() (string, error) {
	configDir, configFile, err := DefaultPaths()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configFile); err == nil {
		return configFile, nil
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("create config dir %s: %w", configDir, err)
	}

	defaultCfg := AppConfig{
		Server:    ServerConfig{Host: ptr(DefaultHost), Port: ptr(DefaultPort)},
		Generator: GeneratorConfig{Provider: ptr(DefaultProvider)},
	}
	b, err := yaml.Marshal(&defaultCfg)
	if err != nil {
		return "", fmt.Errorf("marshal default config: %w", err)
	}

	// Write with restrictive permissions; the file may hold an API key later.
	if err := os.WriteFile(configFile, b, 0o600); err != nil {
		return "", fmt.Errorf("write default config file %s: %w", configFile, err)
	}

	return configFile, nil
}

func (c *AppConfig) Host() string {
	if c == nil || c.Server.Host == nil {
		return DefaultHost
	}
	v := strings.TrimSpace(*c.Server.Host)
	if v == "" {
		return DefaultHost
	}
	return v
}

func (c *AppConfig) Port() int {
	if c == nil || c.Server.Port == nil {
		return DefaultPort
	}
	return *c.Server.Port
}

// DatabasePath returns the sqlite file path, defaulting to
// <configDir>/boardroom.db.
func (c *AppConfig) DatabasePath() (string, error) {
	if c != nil && c.Database.Path != nil && strings.TrimSpace(*c.Database.Path) != "" {
		return *c.Database.Path, nil
	}
	configDir, _, err := DefaultPaths()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "boardroom.db"), nil
}

func (c *AppConfig) Provider() string {
	if c == nil || c.Generator.Provider == nil {
		return DefaultProvider
	}
	v := strings.TrimSpace(*c.Generator.Provider)
	if v == "" {
		return DefaultProvider
	}
	return strings.ToLower(v)
}

func (c *AppConfig) Model() string {
	if c == nil || c.Generator.Model == nil {
		return DefaultModel
	}
	v := strings.TrimSpace(*c.Generator.Model)
	if v == "" {
		return DefaultModel
	}
	return v
}

func (c *AppConfig) BaseURL() string {
	if c == nil || c.Generator.BaseURL == nil {
		return ""
	}
	return strings.TrimSpace(*c.Generator.BaseURL)
}

func (c *AppConfig) APIKey() string {
	if c == nil || c.Generator.APIKey == nil {
		return ""
	}
	return strings.TrimSpace(*c.Generator.APIKey)
}

func (c *AppConfig) MaxTokens() int {
	if c == nil || c.Generator.MaxTokens == nil || *c.Generator.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return *c.Generator.MaxTokens
}

func ptr[T any](v T) *T { return &v }
