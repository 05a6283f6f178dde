// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads and validates the YAML configuration shared by
// all commands. Values support ${VAR}, ${VAR:-default} and $VAR
// environment expansion.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	// Remote is the agent the client commands talk to.
	Remote RemoteConfig `yaml:"remote"`

	// Poll controls the task polling loop.
	Poll PollConfig `yaml:"poll"`

	// Agent configures the reference server run by the serve command.
	Agent AgentConfig `yaml:"agent"`

	// Storage configures task persistence for the serve command.
	Storage StorageConfig `yaml:"storage"`

	// Logging configures the process logger.
	Logging LoggingConfig `yaml:"logging"`
}

// RemoteConfig identifies the remote agent.
type RemoteConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// PollConfig bounds the polling loop.
type PollConfig struct {
	MaxPolls      int           `yaml:"max_polls"`
	Interval      time.Duration `yaml:"interval"`
	HistoryLength int           `yaml:"history_length"`
}

// AgentConfig describes the served agent.
type AgentConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`

	// Greeting is the canned reply of the built-in responder.
	Greeting string `yaml:"greeting"`

	// ChunkSize splits the reply into streamed artifact chunks.
	ChunkSize int `yaml:"chunk_size"`
}

// StorageConfig selects the task store backend. An empty driver keeps
// tasks in memory.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Load reads, expands and validates a config file. A missing path
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Remote.URL == "" {
		c.Remote.URL = "http://localhost:9999"
	}
	if c.Remote.Timeout <= 0 {
		c.Remote.Timeout = 60 * time.Second
	}
	if c.Poll.MaxPolls <= 0 {
		c.Poll.MaxPolls = 30
	}
	if c.Poll.Interval <= 0 {
		c.Poll.Interval = 2 * time.Second
	}
	if c.Poll.HistoryLength <= 0 {
		c.Poll.HistoryLength = 5
	}
	if c.Agent.Name == "" {
		c.Agent.Name = "Hello World Agent"
	}
	if c.Agent.Description == "" {
		c.Agent.Description = "Just a hello world agent"
	}
	if c.Agent.Version == "" {
		c.Agent.Version = "1.0.0"
	}
	if c.Agent.Host == "" {
		c.Agent.Host = "localhost"
	}
	if c.Agent.Port <= 0 {
		c.Agent.Port = 9999
	}
	if c.Agent.Greeting == "" {
		c.Agent.Greeting = "Hi there!"
	}
	if c.Agent.ChunkSize <= 0 {
		c.Agent.ChunkSize = 16
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "simple"
	}
}

// Validate rejects configurations that cannot work.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "", "sqlite", "sqlite3", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported storage driver: %s (supported: sqlite, postgres, mysql)", c.Storage.Driver)
	}
	if c.Storage.Driver != "" && c.Storage.DSN == "" {
		return fmt.Errorf("storage driver %s requires a dsn", c.Storage.Driver)
	}
	if c.Agent.Port < 0 || c.Agent.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Agent.Port)
	}
	return nil
}
