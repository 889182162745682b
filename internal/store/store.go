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

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	scouterrors "github.com/sirseerhq/reposcout/internal/errors"
	"github.com/sirseerhq/reposcout/internal/giterror"
	"github.com/sirseerhq/reposcout/internal/github"
	"github.com/sirseerhq/reposcout/internal/logging"
	"github.com/sirseerhq/reposcout/internal/metadata"
	"github.com/sirseerhq/reposcout/internal/state"
	"github.com/sirseerhq/reposcout/pkg/version"
)

// FetchState is the transient part of the store. None of it is persisted;
// every process starts from the zero value.
type FetchState struct {
	// Results is nil before any search and after Reset. A failed search
	// leaves it empty but non-nil.
	Results []github.Repository

	// Loading is true while the latest search is in flight.
	Loading bool

	// Error is the message of the last failed search, "" if none.
	Error string

	// TotalStars is the sum of StargazersCount over Results.
	TotalStars int
}

// State is a consistent snapshot of the whole store.
type State struct {
	FetchState

	// Selection holds selected repository ids in insertion order.
	Selection state.Selection
}

func (s State) clone() State {
	out := s
	if s.Results != nil {
		out.Results = make([]github.Repository, len(s.Results))
		copy(out.Results, s.Results)
	}
	out.Selection = s.Selection.Clone()
	return out
}

// Options configures Open.
type Options struct {
	// Searcher runs the searches. Required.
	Searcher github.Searcher

	// Storage persists the selection. Required.
	Storage state.Storage

	// Logger defaults to the "store" component logger.
	Logger *logrus.Entry

	// Backend is recorded in search metadata.
	Backend string

	// OnFetch, if set, receives the metadata of every finished search,
	// including dropped ones.
	OnFetch func(*metadata.SearchMetadata)
}

// Store is the single source of truth for search results and selection.
// It is safe for concurrent use.
type Store struct {
	searcher github.Searcher
	storage  state.Storage
	logger   *logrus.Entry
	backend  string
	onFetch  func(*metadata.SearchMetadata)
	inspect  giterror.Inspector

	mu        sync.Mutex
	fetch     FetchState
	selection state.Selection
	seq       uint64 // number of the most recently issued fetch
	dirty     bool   // selection differs from what storage last accepted

	listenersMu  sync.Mutex
	listeners    []listener
	nextListener uint64
}

type listener struct {
	id uint64
	fn func(State)
}

// Open creates the store and rehydrates the selection from storage. A missing
// record starts with an empty selection. So does a corrupted one, after a
// warning; startup does not fail because of a bad record.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Searcher == nil {
		return nil, errors.New("store: a searcher is required")
	}
	if opts.Storage == nil {
		return nil, errors.New("store: a storage is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger("store")
	}

	sel, err := opts.Storage.Load()
	switch {
	case errors.Is(err, scouterrors.ErrStateCorrupted):
		logger.WithError(err).Warn("discarding unreadable selection, starting empty")
		sel = state.Selection{}
	case err != nil:
		return nil, fmt.Errorf("failed to load selection: %w", err)
	}
	if sel == nil {
		sel = state.Selection{}
	}

	logger.WithField("selected", len(sel)).Debug("store opened")

	return &Store{
		searcher:  opts.Searcher,
		storage:   opts.Storage,
		logger:    logger,
		backend:   opts.Backend,
		onFetch:   opts.OnFetch,
		inspect:   giterror.NewErrorChainInspector(giterror.NewInspector()),
		selection: sel,
	}, nil
}

// Close writes the selection one final time if an earlier write-through
// failed. It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}
	if err := s.storage.Save(s.selection); err != nil {
		return fmt.Errorf("failed to persist selection: %w", err)
	}
	s.dirty = false
	return nil
}

// Fetch searches for query and commits the outcome. It blocks until the
// search finishes. Exactly one Searcher call is made; the query is not
// validated here.
func (s *Store) Fetch(ctx context.Context, query string, page, perPage int) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.fetch.Loading = true
	s.fetch.Error = ""
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	log := s.logger.WithFields(logrus.Fields{
		"query": query,
		"page":  page,
		"seq":   seq,
	})
	log.Debug("fetch started")

	tracker := metadata.New()
	result, err := s.searcher.Search(ctx, github.SearchOptions{
		Query:   query,
		Page:    page,
		PerPage: perPage,
	})

	var repos []github.Repository
	if err == nil {
		repos = make([]github.Repository, 0)
		if result != nil {
			repos = append(repos, result.Repositories...)
		}
		for _, r := range repos {
			tracker.RecordRepository(r)
		}
	}

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		log.Debug("dropping stale fetch result")
		s.report(tracker, query, page, perPage, metadata.OutcomeDropped, "")
		return
	}

	outcome := metadata.OutcomeCommitted
	msg := ""
	if err != nil {
		msg = errorMessage(err)
		s.fetch.Results = []github.Repository{}
		s.fetch.TotalStars = 0
		s.fetch.Error = msg
		outcome = metadata.OutcomeFailed
	} else {
		s.fetch.Results = repos
		s.fetch.TotalStars = tracker.Stats().TotalStars
	}
	s.fetch.Loading = false
	snap = s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		entry := log.WithError(err)
		if hint := s.failureHint(err); hint != "" {
			entry = entry.WithField("hint", hint)
		}
		entry.Info("fetch failed")
	} else {
		log.WithFields(logrus.Fields{
			"results":     len(repos),
			"total_stars": snap.TotalStars,
		}).Debug("fetch committed")
	}

	s.notify(snap)
	s.report(tracker, query, page, perPage, outcome, msg)
}

// Reset discards the results. Loading and Error are left as they are.
func (s *Store) Reset() {
	s.mu.Lock()
	s.fetch.Results = nil
	s.fetch.TotalStars = 0
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// ClearError dismisses the last error. Results and Loading are left as they are.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.fetch.Error = ""
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Toggle selects id if it is not selected and deselects it otherwise, then
// writes the selection through to storage. If the write fails the in-memory
// change stands, the error is returned and Close retries the write.
func (s *Store) Toggle(id int64) error {
	s.mu.Lock()
	s.selection = s.selection.Toggle(id)
	err := s.persistLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return err
}

// ClearSelection deselects everything, writing through like Toggle.
func (s *Store) ClearSelection() error {
	s.mu.Lock()
	s.selection = state.Selection{}
	err := s.persistLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return err
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// IsSelected reports whether id is in the selection.
func (s *Store) IsSelected(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Contains(id)
}

// SelectedRepositories returns the current results that are selected, in
// results order. Selected ids missing from the current results are skipped.
func (s *Store) SelectedRepositories() []github.Repository {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]github.Repository, 0, len(s.selection))
	for _, r := range s.fetch.Results {
		if s.selection.Contains(r.ID) {
			out = append(out, r)
		}
	}
	return out
}

// Subscribe registers fn to run after every state change. fn runs
// synchronously on the goroutine that made the change, without store locks
// held, so it may call back into the store. The returned function removes
// the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	s.nextListener++
	id := s.nextListener
	s.listeners = append(s.listeners, listener{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			defer s.listenersMu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *Store) notify(snap State) {
	s.listenersMu.Lock()
	listeners := make([]listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.listenersMu.Unlock()

	for _, l := range listeners {
		l.fn(snap.clone())
	}
}

// persistLocked writes the selection through. s.mu must be held.
func (s *Store) persistLocked() error {
	if err := s.storage.Save(s.selection); err != nil {
		s.dirty = true
		s.logger.WithError(err).Warn("failed to persist selection")
		return fmt.Errorf("failed to persist selection: %w", err)
	}
	s.dirty = false
	return nil
}

func (s *Store) snapshotLocked() State {
	return State{FetchState: s.fetch, Selection: s.selection}.clone()
}

func (s *Store) report(tracker *metadata.Tracker, query string, page, perPage int, outcome metadata.Outcome, msg string) {
	if s.onFetch == nil {
		return
	}
	s.onFetch(tracker.GenerateMetadata(version.Version, metadata.SearchParams{
		Query:   query,
		Page:    page,
		PerPage: perPage,
		Backend: s.backend,
	}, outcome, msg))
}

func (s *Store) failureHint(err error) string {
	switch {
	case s.inspect.IsRateLimitError(err):
		return "rate limited, wait before searching again"
	case s.inspect.IsAuthError(err):
		return "check the GitHub token"
	case s.inspect.IsNetworkError(err):
		return "GitHub is unreachable"
	case s.inspect.IsDecodeError(err):
		return "unexpected response body"
	default:
		return ""
	}
}

// errorMessage is the text shown for a failed search.
func errorMessage(err error) string {
	var fetchErr *scouterrors.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Error()
	}
	return scouterrors.NewClientError(err).Error()
}
