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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points discovery at empty directories so a developer's own
// config files never leak into a test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, key := range []string{
		"GITHUB_API_ENDPOINT", "GITHUB_GRAPHQL_ENDPOINT", "REPOSCOUT_BACKEND",
		"REPOSCOUT_PER_PAGE", "REPOSCOUT_DEBOUNCE_MS", "REPOSCOUT_MIN_QUERY_LENGTH",
		"REPOSCOUT_STATE_DIR", "REPOSCOUT_LOG_LEVEL", "REPOSCOUT_LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
	return home
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.GitHub.APIEndpoint != "https://api.github.com/" {
		t.Errorf("APIEndpoint = %s, want https://api.github.com/", cfg.GitHub.APIEndpoint)
	}
	if cfg.GitHub.GraphQLEndpoint != "https://api.github.com/graphql" {
		t.Errorf("GraphQLEndpoint = %s, want https://api.github.com/graphql", cfg.GitHub.GraphQLEndpoint)
	}
	if cfg.GitHub.Backend != BackendREST {
		t.Errorf("Backend = %s, want %s", cfg.GitHub.Backend, BackendREST)
	}
	if cfg.Search.MinQueryLength != 3 {
		t.Errorf("MinQueryLength = %d, want 3", cfg.Search.MinQueryLength)
	}
	if cfg.Search.Debounce.Std() != 500*time.Millisecond {
		t.Errorf("Debounce = %s, want 500ms", cfg.Search.Debounce.Std())
	}
	if cfg.Search.PerPage != 20 {
		t.Errorf("PerPage = %d, want 20", cfg.Search.PerPage)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %s, want warn", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "config.yaml",
			content: `
github:
  api_endpoint: https://github.example.com/api/v3/
  graphql_endpoint: https://github.example.com/api/graphql
  token_env: GHE_TOKEN
  backend: graphql
  timeout: 5s
search:
  min_query_length: 2
  debounce: 250ms
  per_page: 50
state:
  dir: /custom/state
logging:
  level: debug
  format: json
`,
		},
		{
			name: "toml",
			file: "config.toml",
			content: `
[github]
api_endpoint = "https://github.example.com/api/v3/"
graphql_endpoint = "https://github.example.com/api/graphql"
token_env = "GHE_TOKEN"
backend = "graphql"
timeout = "5s"

[search]
min_query_length = 2
debounce = "250ms"
per_page = 50

[state]
dir = "/custom/state"

[logging]
level = "debug"
format = "json"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			cfg, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}

			if cfg.GitHub.APIEndpoint != "https://github.example.com/api/v3/" {
				t.Errorf("APIEndpoint = %s", cfg.GitHub.APIEndpoint)
			}
			if cfg.GitHub.TokenEnv != "GHE_TOKEN" {
				t.Errorf("TokenEnv = %s, want GHE_TOKEN", cfg.GitHub.TokenEnv)
			}
			if cfg.GitHub.Backend != BackendGraphQL {
				t.Errorf("Backend = %s, want graphql", cfg.GitHub.Backend)
			}
			if cfg.GitHub.Timeout.Std() != 5*time.Second {
				t.Errorf("Timeout = %s, want 5s", cfg.GitHub.Timeout.Std())
			}
			if cfg.Search.MinQueryLength != 2 || cfg.Search.PerPage != 50 {
				t.Errorf("Search = %+v", cfg.Search)
			}
			if cfg.Search.Debounce.Std() != 250*time.Millisecond {
				t.Errorf("Debounce = %s, want 250ms", cfg.Search.Debounce.Std())
			}
			if cfg.State.Dir != "/custom/state" {
				t.Errorf("State.Dir = %s, want /custom/state", cfg.State.Dir)
			}
			if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
				t.Errorf("Logging = %+v", cfg.Logging)
			}
		})
	}
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("search:\n  per_page: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Search.PerPage != 5 {
		t.Errorf("PerPage = %d, want 5", cfg.Search.PerPage)
	}
	if cfg.Search.MinQueryLength != 3 {
		t.Errorf("MinQueryLength = %d, want default 3", cfg.Search.MinQueryLength)
	}
	if cfg.GitHub.Backend != BackendREST {
		t.Errorf("Backend = %s, want default rest", cfg.GitHub.Backend)
	}
}

func TestLoadConfigFileEnumsAreCaseInsensitive(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	files := map[string]string{
		"config.yaml": "github:\n  backend: REST\nlogging:\n  format: JSON\n",
		"config.toml": "[github]\nbackend = \"GraphQL\"\n\n[logging]\nformat = \"Text\"\n",
	}
	want := map[string][2]string{
		"config.yaml": {BackendREST, "json"},
		"config.toml": {BackendGraphQL, "text"},
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}

			cfg, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if cfg.GitHub.Backend != want[name][0] {
				t.Errorf("Backend = %q, want %q", cfg.GitHub.Backend, want[name][0])
			}
			if cfg.Logging.Format != want[name][1] {
				t.Errorf("Format = %q, want %q", cfg.Logging.Format, want[name][1])
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestLoadConfigDiscovery(t *testing.T) {
	home := isolate(t)

	// Without any file the defaults apply and ~ is expanded.
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if want := filepath.Join(home, ".reposcout", "state"); cfg.State.Dir != want {
		t.Errorf("State.Dir = %s, want %s", cfg.State.Dir, want)
	}

	// A home config is found.
	if err := os.MkdirAll(filepath.Join(home, ".reposcout"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(home, ".reposcout", "config.toml"), []byte("[search]\nper_page = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Search.PerPage != 7 {
		t.Errorf("PerPage = %d, want 7 from home config", cfg.Search.PerPage)
	}

	// A file in the working directory wins over the home config.
	if err := os.WriteFile(".reposcout.yaml", []byte("search:\n  per_page: 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Search.PerPage != 9 {
		t.Errorf("PerPage = %d, want 9 from local config", cfg.Search.PerPage)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("search: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Error("expected error for malformed yaml")
	}

	badDuration := filepath.Join(dir, "duration.toml")
	if err := os.WriteFile(badDuration, []byte("[search]\ndebounce = \"soon\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(badDuration); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("search:\n  per_page: 50\n  debounce: 1s\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GITHUB_API_ENDPOINT", "https://env.example.com/")
	t.Setenv("GITHUB_GRAPHQL_ENDPOINT", "https://env.example.com/graphql")
	t.Setenv("REPOSCOUT_BACKEND", "GraphQL")
	t.Setenv("REPOSCOUT_PER_PAGE", "30")
	t.Setenv("REPOSCOUT_DEBOUNCE_MS", "0")
	t.Setenv("REPOSCOUT_MIN_QUERY_LENGTH", "4")
	t.Setenv("REPOSCOUT_STATE_DIR", "/env/state")
	t.Setenv("REPOSCOUT_LOG_LEVEL", "info")
	t.Setenv("REPOSCOUT_LOG_FORMAT", "text")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.GitHub.APIEndpoint != "https://env.example.com/" {
		t.Errorf("APIEndpoint = %s", cfg.GitHub.APIEndpoint)
	}
	if cfg.GitHub.GraphQLEndpoint != "https://env.example.com/graphql" {
		t.Errorf("GraphQLEndpoint = %s", cfg.GitHub.GraphQLEndpoint)
	}
	if cfg.GitHub.Backend != BackendGraphQL {
		t.Errorf("Backend = %s, want graphql", cfg.GitHub.Backend)
	}
	if cfg.Search.PerPage != 30 {
		t.Errorf("PerPage = %d, want 30 (env beats file)", cfg.Search.PerPage)
	}
	if cfg.Search.Debounce != 0 {
		t.Errorf("Debounce = %s, want 0", cfg.Search.Debounce.Std())
	}
	if cfg.Search.MinQueryLength != 4 {
		t.Errorf("MinQueryLength = %d, want 4", cfg.Search.MinQueryLength)
	}
	if cfg.State.Dir != "/env/state" {
		t.Errorf("State.Dir = %s", cfg.State.Dir)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestEnvOverridesIgnoreMalformedNumbers(t *testing.T) {
	isolate(t)
	t.Setenv("REPOSCOUT_PER_PAGE", "lots")
	t.Setenv("REPOSCOUT_MIN_QUERY_LENGTH", "0")
	t.Setenv("REPOSCOUT_DEBOUNCE_MS", "-5")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Search.PerPage != 20 {
		t.Errorf("PerPage = %d, want default 20", cfg.Search.PerPage)
	}
	if cfg.Search.MinQueryLength != 3 {
		t.Errorf("MinQueryLength = %d, want default 3", cfg.Search.MinQueryLength)
	}
	if cfg.Search.Debounce.Std() != 500*time.Millisecond {
		t.Errorf("Debounce = %s, want default 500ms", cfg.Search.Debounce.Std())
	}
}

func TestToken(t *testing.T) {
	isolate(t)
	cfg := DefaultConfig()
	cfg.GitHub.TokenEnv = "GHE_TOKEN"

	t.Setenv("GHE_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")
	if got := cfg.Token(""); got != "" {
		t.Errorf("Token() = %q, want empty", got)
	}

	t.Setenv("GITHUB_TOKEN", "fallback")
	if got := cfg.Token(""); got != "fallback" {
		t.Errorf("Token() = %q, want fallback", got)
	}

	t.Setenv("GHE_TOKEN", "configured")
	if got := cfg.Token(""); got != "configured" {
		t.Errorf("Token() = %q, want configured", got)
	}

	if got := cfg.Token("flag"); got != "flag" {
		t.Errorf("Token(flag) = %q, want flag", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "valid defaults", modify: func(*Config) {}},
		{name: "zero debounce is allowed", modify: func(c *Config) { c.Search.Debounce = 0 }},
		{name: "max per page", modify: func(c *Config) { c.Search.PerPage = 100 }},
		{name: "zero per page", modify: func(c *Config) { c.Search.PerPage = 0 }, wantErr: "per_page must be positive"},
		{name: "per page over limit", modify: func(c *Config) { c.Search.PerPage = 101 }, wantErr: "exceeds GitHub API limit"},
		{name: "min length zero", modify: func(c *Config) { c.Search.MinQueryLength = 0 }, wantErr: "min_query_length"},
		{name: "negative debounce", modify: func(c *Config) { c.Search.Debounce = Duration(-time.Millisecond) }, wantErr: "debounce cannot be negative"},
		{name: "negative timeout", modify: func(c *Config) { c.GitHub.Timeout = Duration(-time.Second) }, wantErr: "timeout cannot be negative"},
		{name: "empty api endpoint", modify: func(c *Config) { c.GitHub.APIEndpoint = "" }, wantErr: "API endpoint cannot be empty"},
		{name: "empty graphql endpoint", modify: func(c *Config) { c.GitHub.GraphQLEndpoint = "" }, wantErr: "GraphQL endpoint cannot be empty"},
		{name: "unknown backend", modify: func(c *Config) { c.GitHub.Backend = "soap" }, wantErr: "unknown search backend"},
		{name: "empty state dir", modify: func(c *Config) { c.State.Dir = "" }, wantErr: "state directory"},
		{name: "bad log level", modify: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "invalid log level"},
		{name: "bad log format", modify: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "unknown log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := isolate(t)
	t.Setenv("REPOSCOUT_TEST_DIR", "/var/data")

	tests := []struct {
		in   string
		want string
	}{
		{"~/state", filepath.Join(home, "state")},
		{"$REPOSCOUT_TEST_DIR/state", "/var/data/state"},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
