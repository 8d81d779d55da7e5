// Package config loads and validates the server configuration. The
// engine receives a validated, immutable Config; anything structurally
// wrong is reported here, before a socket is bound.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	RootDirectory  string `yaml:"root_directory"`
	KeepAlive      bool   `yaml:"keep_alive"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxClients     int    `yaml:"max_clients"`
	BindAddress    string `yaml:"bind_address"`
	Port           int    `yaml:"port"`
}

func Default() *Config {
	return &Config{
		RootDirectory:  "./public",
		KeepAlive:      true,
		TimeoutSeconds: 180,
		MaxClients:     4,
		BindAddress:    "127.0.0.1",
		Port:           7878,
	}
}

func (c *Config) Address() string {
	return c.BindAddress + ":" + strconv.Itoa(c.Port)
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	info, err := os.Stat(c.RootDirectory)
	if err != nil {
		return fmt.Errorf("config: root directory %q: %w", c.RootDirectory, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("config: root directory %q is not a directory", c.RootDirectory)
	}
	if _, err := os.ReadDir(c.RootDirectory); err != nil {
		return fmt.Errorf("config: root directory %q is not readable: %w", c.RootDirectory, err)
	}
	if c.MaxClients < 1 {
		return fmt.Errorf("config: max_clients must be at least 1, got %d", c.MaxClients)
	}
	if c.TimeoutSeconds < 1 {
		return fmt.Errorf("config: timeout_seconds must be at least 1, got %d", c.TimeoutSeconds)
	}
	if c.BindAddress == "" {
		return fmt.Errorf("config: bind_address must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	return nil
}
