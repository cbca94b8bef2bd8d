// Package config handles configuration loading for the courier CLI.
//
// It provides:
//   - Discovery of .courier.config.json / courier.config.json files
//   - Default configuration values
//   - Named client profile definitions for the transport layer
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BBGONE/courier/packages/clientpool"
)

// Config is the courier CLI configuration.
type Config struct {
	Profile   string                   `json:"profile,omitempty"`
	Profiles  map[string]ProfileConfig `json:"profiles,omitempty"`
	Charset   string                   `json:"charset,omitempty"`
	HistoryDB string                   `json:"historyDB,omitempty"`
	Verbose   *bool                    `json:"verbose,omitempty"`
	NoColor   *bool                    `json:"noColor,omitempty"`
}

// ProfileConfig is one named client profile as written in the config file.
type ProfileConfig struct {
	Timeout         int               `json:"timeout,omitempty"` // milliseconds
	FollowRedirects *bool             `json:"followRedirects,omitempty"`
	MaxRedirects    int               `json:"maxRedirects,omitempty"`
	ValidateSSL     *bool             `json:"validateSSL,omitempty"`
	Proxy           string            `json:"proxy,omitempty"`
	Headers         map[string]string `json:"headers,omitempty"`
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".courier.config.json",
	"courier.config.json",
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Profile:   clientpool.DefaultProfile,
		HistoryDB: ".courier.history.db",
	}
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// LoadConfig loads configuration from the specified path, or searches the
// current directory when path is empty.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory,
// returning defaults when none exists.
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}
	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return config, nil
}

// RegisterProfiles installs every configured profile into the registry.
func (c *Config) RegisterProfiles(registry *clientpool.Registry) {
	for name, p := range c.Profiles {
		registry.Register(name, clientpool.Profile{
			Timeout:         time.Duration(p.Timeout) * time.Millisecond,
			FollowRedirects: p.FollowRedirects,
			MaxRedirects:    p.MaxRedirects,
			ValidateSSL:     p.ValidateSSL,
			Proxy:           p.Proxy,
			Headers:         p.Headers,
		})
	}
}
