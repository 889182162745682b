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

package github

import (
	"context"
	"sync"

	scouterrors "github.com/sirseerhq/reposcout/internal/errors"
)

// MockClient is a mock implementation of the Searcher interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Repositories to return for every query
	Repositories []Repository

	// Error to return instead of results
	Error error

	// Responder, when set, takes precedence over Repositories and Error
	Responder func(opts SearchOptions) (*SearchPage, error)

	// Track calls for verification
	CallCount   int
	LastOptions SearchOptions
	Queries     []string
}

// NewMockClient creates a new mock client with default test data
func NewMockClient() *MockClient {
	return &MockClient{
		Repositories: generateTestRepositories(),
	}
}

// Search implements the Searcher interface
func (m *MockClient) Search(ctx context.Context, opts SearchOptions) (*SearchPage, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastOptions = opts
	m.Queries = append(m.Queries, opts.Query)
	responder := m.Responder
	repos := m.Repositories
	mockErr := m.Error
	m.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, scouterrors.NewClientError(ctx.Err())
	default:
	}

	if responder != nil {
		return responder(opts)
	}

	if mockErr != nil {
		return nil, mockErr
	}

	page := &SearchPage{
		Repositories: make([]Repository, len(repos)),
		TotalCount:   len(repos),
	}
	copy(page.Repositories, repos)

	return page, nil
}

// Calls returns the number of Search calls so far.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// generateTestRepositories creates sample search results for testing
func generateTestRepositories() []Repository {
	return []Repository{
		{
			ID:              10270250,
			Name:            "react",
			FullName:        "facebook/react",
			HTMLURL:         "https://github.com/facebook/react",
			StargazersCount: 120,
			Owner:           Owner{Login: "facebook", AvatarURL: "https://avatars.githubusercontent.com/u/69631"},
		},
		{
			ID:              75396575,
			Name:            "react-native-web",
			FullName:        "necolas/react-native-web",
			HTMLURL:         "https://github.com/necolas/react-native-web",
			StargazersCount: 5,
			Owner:           Owner{Login: "necolas", AvatarURL: "https://avatars.githubusercontent.com/u/239676"},
		},
		{
			ID:              42,
			Name:            "react-playground",
			FullName:        "octocat/react-playground",
			HTMLURL:         "https://github.com/octocat/react-playground",
			StargazersCount: 0,
			Owner:           Owner{Login: "octocat", AvatarURL: "https://avatars.githubusercontent.com/u/583231"},
		},
	}
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithRepositories sets specific repositories to return
func WithRepositories(repos []Repository) MockClientOption {
	return func(m *MockClient) {
		m.Repositories = repos
	}
}

// WithError makes the client return a specific error
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithStatus makes the client fail as if the endpoint answered with code.
func WithStatus(code int) MockClientOption {
	return func(m *MockClient) {
		m.Error = scouterrors.NewTransportError(code, "")
	}
}

// WithResponder installs a function that computes each response.
func WithResponder(fn func(opts SearchOptions) (*SearchPage, error)) MockClientOption {
	return func(m *MockClient) {
		m.Responder = fn
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}

