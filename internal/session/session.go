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

// Package session turns raw user intents (typing, pull-to-refresh, tapping a
// checkbox) into store actions. It owns the input policy the store itself
// does not enforce: the minimum query length, the debounce window and the
// page size.
package session

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/sirseerhq/reposcout/internal/debounce"
	"github.com/sirseerhq/reposcout/internal/github"
	"github.com/sirseerhq/reposcout/internal/logging"
	"github.com/sirseerhq/reposcout/internal/store"
)

// Policy defaults.
const (
	DefaultMinQueryLength = 3
	DefaultDebounce       = 500 * time.Millisecond
	DefaultPerPage        = github.DefaultPerPage
)

// Config is the input policy.
type Config struct {
	MinQueryLength int
	Debounce       time.Duration
	PerPage        int
}

// DefaultConfig returns the standard policy: 3 characters, 500ms, 20 per page.
func DefaultConfig() Config {
	return Config{
		MinQueryLength: DefaultMinQueryLength,
		Debounce:       DefaultDebounce,
		PerPage:        DefaultPerPage,
	}
}

// Store is the subset of *store.Store a session drives.
type Store interface {
	Fetch(ctx context.Context, query string, page, perPage int)
	Reset()
	ClearError()
	Toggle(id int64) error
	State() store.State
}

var _ Store = (*store.Store)(nil)

// Option configures a Session.
type Option func(*Session)

// WithClock replaces the debounce timer source.
func WithClock(c debounce.Clock) Option {
	return func(s *Session) {
		s.clock = c
	}
}

// WithLogger replaces the component logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// Session is one search screen. It is safe for concurrent use.
type Session struct {
	ctx    context.Context
	store  Store
	cfg    Config
	clock  debounce.Clock
	logger *logrus.Entry

	debouncer *debounce.Debouncer[string]

	mu   sync.Mutex
	text string
}

// New creates a session. ctx bounds every search the session starts.
func New(ctx context.Context, st Store, cfg Config, opts ...Option) *Session {
	if cfg.MinQueryLength < 1 {
		cfg.MinQueryLength = DefaultMinQueryLength
	}
	if cfg.PerPage < 1 {
		cfg.PerPage = DefaultPerPage
	}
	if cfg.Debounce < 0 {
		cfg.Debounce = 0
	}

	s := &Session{
		ctx:   ctx,
		store: st,
		cfg:   cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewLogger("session")
	}

	var debounceOpts []debounce.Option
	if s.clock != nil {
		debounceOpts = append(debounceOpts, debounce.WithClock(s.clock))
	}
	s.debouncer = debounce.New(cfg.Debounce, s.search, debounceOpts...)

	return s
}

// OnQueryChange records the new search text, dismisses any error and
// schedules a search for when typing pauses.
func (s *Session) OnQueryChange(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()

	s.store.ClearError()
	s.debouncer.Call(text)
}

// search runs when the debounce window closes.
func (s *Session) search(text string) {
	if !s.passesGate(text) {
		s.logger.WithField("query", text).Debug("query too short, clearing results")
		s.store.Reset()
		return
	}
	s.store.Fetch(s.ctx, text, 1, s.cfg.PerPage)
}

// Refresh searches the current text immediately. It does nothing, and
// returns false, when the text is too short.
func (s *Session) Refresh() bool {
	text := s.Query()
	if !s.passesGate(text) {
		return false
	}
	s.store.Fetch(s.ctx, text, 1, s.cfg.PerPage)
	return true
}

// Toggle flips the selection of one repository.
func (s *Session) Toggle(id int64) error {
	return s.store.Toggle(id)
}

// Flush runs a pending debounced search now. It reports whether one was pending.
func (s *Session) Flush() bool {
	return s.debouncer.Flush()
}

// Pending reports whether a debounced search is waiting.
func (s *Session) Pending() bool {
	return s.debouncer.Pending()
}

// Wait blocks until a search started by the debounce timer or Flush has
// returned.
func (s *Session) Wait() {
	s.debouncer.Wait()
}

// Close drops any pending search and waits for a running one.
func (s *Session) Close() {
	s.debouncer.Stop()
	s.debouncer.Wait()
}

// Query returns the current search text.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

func (s *Session) passesGate(text string) bool {
	return utf8.RuneCountInString(text) >= s.cfg.MinQueryLength
}
