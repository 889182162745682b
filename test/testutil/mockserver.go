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
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirseerhq/reposcout/internal/github"
)

// SearchRequest is what the mock REST server saw.
type SearchRequest struct {
	Query         string
	Page          int
	PerPage       int
	Sort          string
	Order         string
	Authorization string
	UserAgent     string
}

// MockServer is an httptest server standing in for GitHub's REST search endpoint.
type MockServer struct {
	*httptest.Server

	requestCount int32

	mu       sync.Mutex
	requests []SearchRequest
}

// NewMockServer wraps handler and records every request. The server is
// closed when the test ends.
func NewMockServer(t *testing.T, handler http.HandlerFunc) *MockServer {
	t.Helper()
	m := &MockServer{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&m.requestCount, 1)
		m.record(r)
		handler(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

// NewSearchServer answers /search/repositories with repos.
func NewSearchServer(t *testing.T, repos []github.Repository) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/repositories" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		WriteResponse(t, w, RESTSearchResponse(repos))
	})
}

// NewErrorServer answers every request with statusCode.
func NewErrorServer(t *testing.T, statusCode int) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(`{"message": "` + http.StatusText(statusCode) + `"}`))
	})
}

// WriteResponse encodes body as the JSON response.
func WriteResponse(t *testing.T, w http.ResponseWriter, body interface{}) {
	t.Helper()
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("Failed to write response: %v", err)
	}
}

// RequestCount returns the number of requests served.
func (m *MockServer) RequestCount() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// Requests returns the recorded requests in arrival order.
func (m *MockServer) Requests() []SearchRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SearchRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// APIEndpoint is the base URL a REST client should use.
func (m *MockServer) APIEndpoint() string {
	return m.URL + "/"
}

func (m *MockServer) record(r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, SearchRequest{
		Query:         q.Get("q"),
		Page:          page,
		PerPage:       perPage,
		Sort:          q.Get("sort"),
		Order:         q.Get("order"),
		Authorization: r.Header.Get("Authorization"),
		UserAgent:     r.Header.Get("User-Agent"),
	})
}
