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

package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/sirseerhq/reposcout/internal/github"
)

// GraphQLRequest represents a parsed GraphQL request.
type GraphQLRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	Authorization string                 `json:"-"`
}

// GraphQLSearchServer behaves like GitHub's GraphQL search connection: it
// returns the first page of a fixed result set with an opaque end cursor and
// rejects anonymous requests.
type GraphQLSearchServer struct {
	*httptest.Server

	mu      sync.Mutex
	repos   []github.Repository
	history []GraphQLRequest
}

// NewGraphQLSearchServer serves repos from /graphql.
func NewGraphQLSearchServer(t *testing.T, repos []github.Repository) *GraphQLSearchServer {
	t.Helper()
	m := &GraphQLSearchServer{repos: repos}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(m.Close)
	return m
}

// Endpoint is the URL a GraphQL client should use.
func (m *GraphQLSearchServer) Endpoint() string {
	return m.URL + "/graphql"
}

// History returns the requests served so far.
func (m *GraphQLSearchServer) History() []GraphQLRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]GraphQLRequest, len(m.history))
	copy(out, m.history)
	return out
}

func (m *GraphQLSearchServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/graphql" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Bad credentials"}`))
		return
	}

	var req GraphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	req.Authorization = r.Header.Get("Authorization")

	m.mu.Lock()
	m.history = append(m.history, req)
	repos := m.repos
	m.mu.Unlock()

	first := len(repos)
	if v, ok := req.Variables["first"].(float64); ok && v > 0 {
		first = int(v)
	}
	end := first
	if end > len(repos) {
		end = len(repos)
	}

	cursor := ""
	if end > 0 {
		cursor = "cursor:" + strconv.Itoa(end)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(GraphQLSearchResponse(repos[:end], len(repos), end < len(repos), cursor))
}
