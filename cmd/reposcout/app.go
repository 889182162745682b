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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sirseerhq/reposcout/internal/config"
	scouterrors "github.com/sirseerhq/reposcout/internal/errors"
	"github.com/sirseerhq/reposcout/internal/giterror"
	"github.com/sirseerhq/reposcout/internal/github"
	"github.com/sirseerhq/reposcout/internal/logging"
	"github.com/sirseerhq/reposcout/internal/metadata"
	"github.com/sirseerhq/reposcout/internal/session"
	"github.com/sirseerhq/reposcout/internal/state"
	"github.com/sirseerhq/reposcout/internal/store"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	token      string
	backend    string
	stateDir   string
	logLevel   string
}

// loadConfig resolves configuration with flags applied on top, validates it
// and points logging at stderr.
func loadConfig(opts *globalOptions, stderr io.Writer) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.backend != "" {
		cfg.GitHub.Backend = strings.ToLower(opts.backend)
	}
	if opts.stateDir != "" {
		cfg.State.Dir = opts.stateDir
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logging.Configure(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: stderr,
	})

	return cfg, nil
}

// newSearcher builds the configured search backend.
func newSearcher(cfg *config.Config, token string) (github.Searcher, error) {
	opts := []github.Option{github.WithTimeout(cfg.GitHub.Timeout.Std())}

	if cfg.GitHub.Backend == config.BackendGraphQL {
		client, err := github.NewGraphQLClient(token, cfg.GitHub.GraphQLEndpoint, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	client, err := github.NewRESTClient(token, cfg.GitHub.APIEndpoint, opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// openStore opens the repository store over the file-backed selection.
func openStore(ctx context.Context, cfg *config.Config, searcher github.Searcher, onFetch func(*metadata.SearchMetadata)) (*store.Store, error) {
	return store.Open(ctx, store.Options{
		Searcher: searcher,
		Storage:  state.NewFileStore(cfg.State.Dir),
		Backend:  cfg.GitHub.Backend,
		OnFetch:  onFetch,
	})
}

// closeStore flushes the selection and reports a failure without masking
// the command's own error.
func closeStore(st *store.Store, logger *logrus.Entry) {
	if err := st.Close(); err != nil {
		logger.WithError(err).Error("failed to save selection")
	}
}

// sessionConfig maps the search section onto the session policy.
func sessionConfig(cfg *config.Config) session.Config {
	return session.Config{
		MinQueryLength: cfg.Search.MinQueryLength,
		Debounce:       cfg.Search.Debounce.Std(),
		PerPage:        cfg.Search.PerPage,
	}
}

// recordingSearcher remembers the last search error so a command can turn a
// failure the store absorbed back into an exit code.
type recordingSearcher struct {
	github.Searcher

	mu  sync.Mutex
	err error
}

func (r *recordingSearcher) Search(ctx context.Context, opts github.SearchOptions) (*github.SearchPage, error) {
	page, err := r.Searcher.Search(ctx, opts)
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
	return page, err
}

func (r *recordingSearcher) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// offlineSearcher backs commands that only touch the selection.
type offlineSearcher struct{}

func (offlineSearcher) Search(context.Context, github.SearchOptions) (*github.SearchPage, error) {
	return nil, scouterrors.NewClientError(errors.New("search is not available in this command"))
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	// Search failures carry their kind and status. Their text can embed a
	// URL whose port looks like a status code, so it is only inspected for
	// network causes.
	var fetchErr *scouterrors.FetchError
	if errors.As(err, &fetchErr) {
		switch {
		case fetchErr.IsAuthError(), fetchErr.IsNotFoundError(), fetchErr.IsRateLimitError():
			return 2
		case fetchErr.Kind == scouterrors.KindClient && giterror.NewInspector().IsNetworkError(fetchErr):
			return 3
		default:
			return 1
		}
	}

	inspector := giterror.NewErrorChainInspector(giterror.NewInspector())

	// Check for specific error types
	if errors.Is(err, scouterrors.ErrInvalidToken) ||
		errors.Is(err, scouterrors.ErrNotFound) ||
		errors.Is(err, scouterrors.ErrRateLimit) ||
		inspector.IsAuthError(err) ||
		inspector.IsRateLimitError(err) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, scouterrors.ErrNetworkFailure) || inspector.IsNetworkError(err) {
		return 3 // Network errors
	}

	return 1 // General error
}
