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

// Package metadata records statistics about individual searches: the
// parameters, the outcome, how many repositories and stars came back and how
// long the request took.
//
// Metadata can be written to any io.Writer or saved as JSON files in the
// state directory so external tools can analyze search history.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirseerhq/reposcout/internal/github"
)

// Tracker collects statistics during a search and generates metadata.
// Create a new tracker at the start of each search.
type Tracker struct {
	mu        sync.Mutex
	startTime time.Time
	stats     RepositoryStats
}

// RepositoryStats holds running totals over the repositories seen.
type RepositoryStats struct {
	Count       int    // Number of repositories recorded
	TotalStars  int    // Sum of stargazer counts
	MostStarred string // Full name of the repository with the most stars
	MaxStars    int    // Stars of MostStarred
}

// New creates a new tracker and initializes it with the current time.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
	}
}

// RecordRepository updates the running statistics with one repository.
// This method is safe to call concurrently from multiple goroutines.
func (t *Tracker) RecordRepository(repo github.Repository) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.Count++
	t.stats.TotalStars += repo.StargazersCount

	if t.stats.MostStarred == "" || repo.StargazersCount > t.stats.MaxStars {
		t.stats.MostStarred = repo.FullName
		t.stats.MaxStars = repo.StargazersCount
	}
}

// Stats returns a copy of the running statistics.
func (t *Tracker) Stats() RepositoryStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// GenerateMetadata creates the record for a finished search. errMsg is only
// kept for OutcomeFailed.
func (t *Tracker) GenerateMetadata(version string, params SearchParams, outcome Outcome, errMsg string) *SearchMetadata {
	t.mu.Lock()
	defer t.mu.Unlock()

	completedAt := time.Now()
	duration := completedAt.Sub(t.startTime)

	results := SearchResults{
		Outcome:          outcome,
		Repositories:     t.stats.Count,
		TotalStars:       t.stats.TotalStars,
		MostStarred:      t.stats.MostStarred,
		MostStarredCount: t.stats.MaxStars,
		Duration:         duration.String(),
		StartedAt:        t.startTime,
		CompletedAt:      completedAt,
	}
	if outcome == OutcomeFailed {
		results.Error = errMsg
	}

	return &SearchMetadata{
		ReposcoutVersion: version,
		FetchID:          fmt.Sprintf("search-%d", t.startTime.UnixNano()),
		Parameters:       params,
		Results:          results,
	}
}

// SaveMetadata persists a record to a JSON file in dir. The file is written
// atomically using a temporary file and rename.
//
// The metadata file will be named: search-metadata-{unix-nanos}.json
func SaveMetadata(metadata *SearchMetadata, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create metadata directory: %w", err)
	}

	filename := fmt.Sprintf("search-metadata-%d.json", metadata.Results.StartedAt.UnixNano())
	path := filepath.Join(dir, filename)

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return "", fmt.Errorf("failed to create metadata file: %w", err)
	}

	if err := WriteMetadataToWriter(metadata, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return "", fmt.Errorf("failed to save metadata file: %w", err)
	}

	return path, nil
}

// WriteMetadataToWriter serializes metadata as indented JSON.
func WriteMetadataToWriter(metadata *SearchMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}
