// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for reposcout with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file (YAML or TOML)
//  4. Built-in defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// MaxPerPage is the largest page size GitHub's search API accepts.
const MaxPerPage = 100

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .reposcout.yaml, .reposcout.yml, .reposcout.toml (current directory)
//   - ~/.reposcout/config.yaml, config.yml, config.toml
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides. The state directory has ~ and environment variables expanded.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		for _, path := range defaultPaths() {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)

	cfg.State.Dir = expandPath(cfg.State.Dir)

	return cfg, nil
}

func defaultPaths() []string {
	home := homeDir()
	return []string{
		".reposcout.yaml",
		".reposcout.yml",
		".reposcout.toml",
		filepath.Join(home, ".reposcout", "config.yaml"),
		filepath.Join(home, ".reposcout", "config.yml"),
		filepath.Join(home, ".reposcout", "config.toml"),
	}
}

// loadConfigFile reads a config file, choosing the parser by extension.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// Enumerated values match case-insensitively, as they do for flags and env.
	cfg.GitHub.Backend = strings.ToLower(cfg.GitHub.Backend)
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
// Malformed numeric values are ignored.
func applyEnvOverrides(cfg *Config) {
	// GitHub endpoints
	if endpoint := os.Getenv("GITHUB_API_ENDPOINT"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}
	if endpoint := os.Getenv("GITHUB_GRAPHQL_ENDPOINT"); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}
	if backend := os.Getenv("REPOSCOUT_BACKEND"); backend != "" {
		cfg.GitHub.Backend = strings.ToLower(backend)
	}

	// Search policy
	if perPage := os.Getenv("REPOSCOUT_PER_PAGE"); perPage != "" {
		if n, err := parsePositiveInt(perPage); err == nil {
			cfg.Search.PerPage = n
		}
	}
	if minLen := os.Getenv("REPOSCOUT_MIN_QUERY_LENGTH"); minLen != "" {
		if n, err := parsePositiveInt(minLen); err == nil {
			cfg.Search.MinQueryLength = n
		}
	}
	if ms := os.Getenv("REPOSCOUT_DEBOUNCE_MS"); ms != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(ms)); err == nil && n >= 0 {
			cfg.Search.Debounce = Duration(time.Duration(n) * time.Millisecond)
		}
	}

	if stateDir := os.Getenv("REPOSCOUT_STATE_DIR"); stateDir != "" {
		cfg.State.Dir = stateDir
	}

	// Logging
	if level := os.Getenv("REPOSCOUT_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("REPOSCOUT_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = strings.ToLower(format)
	}
}

func homeDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home = os.Getenv("USERPROFILE") // Windows
	}
	return home
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(homeDir(), path[2:])
	}
	return os.ExpandEnv(path)
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// Token resolves the GitHub token: the explicit value if set, then the
// configured environment variable, then GITHUB_TOKEN. It may return "".
func (c *Config) Token(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if c.GitHub.TokenEnv != "" {
		if token := os.Getenv(c.GitHub.TokenEnv); token != "" {
			return token
		}
	}
	return os.Getenv("GITHUB_TOKEN")
}

// Validate checks if the configuration contains valid values. This should be
// called after loading configuration and applying flags to catch invalid
// settings early.
func (c *Config) Validate() error {
	if c.Search.PerPage <= 0 {
		return fmt.Errorf("search per_page must be positive, got: %d", c.Search.PerPage)
	}
	if c.Search.PerPage > MaxPerPage {
		return fmt.Errorf("search per_page %d exceeds GitHub API limit of %d", c.Search.PerPage, MaxPerPage)
	}
	if c.Search.MinQueryLength < 1 {
		return fmt.Errorf("search min_query_length must be at least 1, got: %d", c.Search.MinQueryLength)
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("search debounce cannot be negative, got: %s", c.Search.Debounce.Std())
	}
	if c.GitHub.Timeout < 0 {
		return fmt.Errorf("GitHub timeout cannot be negative, got: %s", c.GitHub.Timeout.Std())
	}
	if c.GitHub.APIEndpoint == "" {
		return fmt.Errorf("GitHub API endpoint cannot be empty")
	}
	if c.GitHub.GraphQLEndpoint == "" {
		return fmt.Errorf("GitHub GraphQL endpoint cannot be empty")
	}
	switch c.GitHub.Backend {
	case BackendREST, BackendGraphQL:
	default:
		return fmt.Errorf("unknown search backend %q (want %q or %q)", c.GitHub.Backend, BackendREST, BackendGraphQL)
	}
	if c.State.Dir == "" {
		return fmt.Errorf("state directory cannot be empty")
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	switch c.Logging.Format {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want auto, text or json)", c.Logging.Format)
	}
	return nil
}
