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

// Package config types define the configuration structures used throughout
// reposcout. These types represent settings that can be loaded from YAML or
// TOML configuration files, environment variables, or command-line flags.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Search backends.
const (
	BackendREST    = "rest"
	BackendGraphQL = "graphql"
)

// Config represents the complete configuration for reposcout.
type Config struct {
	GitHub  GitHubConfig  `yaml:"github" toml:"github"`
	Search  SearchConfig  `yaml:"search" toml:"search"`
	State   StateConfig   `yaml:"state" toml:"state"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// GitHubConfig contains GitHub-specific settings including API endpoints
// and authentication configuration. This allows easy configuration for
// GitHub Enterprise deployments by specifying custom endpoints.
type GitHubConfig struct {
	APIEndpoint     string   `yaml:"api_endpoint" toml:"api_endpoint"`
	GraphQLEndpoint string   `yaml:"graphql_endpoint" toml:"graphql_endpoint"`
	TokenEnv        string   `yaml:"token_env" toml:"token_env"`
	Backend         string   `yaml:"backend" toml:"backend"`
	Timeout         Duration `yaml:"timeout" toml:"timeout"`
}

// SearchConfig is the input policy applied before a search reaches the store.
type SearchConfig struct {
	MinQueryLength int      `yaml:"min_query_length" toml:"min_query_length"`
	Debounce       Duration `yaml:"debounce" toml:"debounce"`
	PerPage        int      `yaml:"per_page" toml:"per_page"`
}

// StateConfig controls where the selection is persisted.
type StateConfig struct {
	Dir string `yaml:"dir" toml:"dir"`
}

// LoggingConfig controls the shared logger.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Duration is a time.Duration written as a string such as "500ms" or "30s".
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// UnmarshalText implements encoding.TextUnmarshaler (used by the TOML decoder).
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// DefaultConfig returns a Config with sensible defaults for public GitHub.com.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIEndpoint:     "https://api.github.com/",
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
			Backend:         BackendREST,
			Timeout:         Duration(30 * time.Second),
		},
		Search: SearchConfig{
			MinQueryLength: 3,
			Debounce:       Duration(500 * time.Millisecond),
			PerPage:        20,
		},
		State: StateConfig{
			Dir: "~/.reposcout/state",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "auto",
		},
	}
}
