package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the server configuration
type Config struct {
	Server  ServerConfig `yaml:"server"`
	Logging LogConfig    `yaml:"logging"`
}

// ServerConfig contains settings for the listener and the protocol core
type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	Directory   string   `yaml:"directory"`
	Encodings   []string `yaml:"encodings"`
	MaxConns    int      `yaml:"max_conns"`    // 0 means one goroutine per connection, unbounded
	ReadTimeout int      `yaml:"read_timeout"` // in seconds, 0 disables
}

// LogConfig contains settings for logging
type LogConfig struct {
	LogToFile   bool   `yaml:"log_to_file"`
	LogFilePath string `yaml:"log_file_path"`
	MaxSize     int    `yaml:"max_size"`    // megabytes
	MaxBackups  int    `yaml:"max_backups"` // number of rotated files kept
	MaxAge      int    `yaml:"max_age"`     // days
	Compress    bool   `yaml:"compress"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:      "127.0.0.1:4221",
			Directory: "/",
			Encodings: []string{"gzip"},
		},
		Logging: LogConfig{
			LogFilePath: "httpx-serve.log",
			MaxSize:     10,
			MaxBackups:  3,
			MaxAge:      28,
			Compress:    true,
		},
	}
}

// Load reads configuration from a file and merges it over the defaults.
// Keys present in the file win, including false booleans and empty lists.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, or returns the defaults together with the load
// error so the caller can report it. An empty path is not an error.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}
	if c.Server.Directory == "" {
		return errors.New("server.directory must not be empty")
	}
	if c.Server.MaxConns < 0 {
		return fmt.Errorf("server.max_conns must be >= 0, got %d", c.Server.MaxConns)
	}
	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("server.read_timeout must be >= 0, got %d", c.Server.ReadTimeout)
	}
	return nil
}
