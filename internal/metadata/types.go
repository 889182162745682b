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

package metadata

import (
	"time"
)

// Outcome is how a search ended from the store's point of view.
type Outcome string

const (
	// OutcomeCommitted means the results were applied to the store.
	OutcomeCommitted Outcome = "committed"
	// OutcomeFailed means the failure was recorded in the store's error.
	OutcomeFailed Outcome = "failed"
	// OutcomeDropped means a newer search was issued before this one answered.
	OutcomeDropped Outcome = "dropped"
)

// SearchMetadata is the record of a single search. It captures what was
// asked, how long it took and what came back.
type SearchMetadata struct {
	ReposcoutVersion string        `json:"reposcout_version"`
	FetchID          string        `json:"fetch_id"`
	Parameters       SearchParams  `json:"parameters"`
	Results          SearchResults `json:"results"`
}

// SearchParams captures the inputs of a search.
type SearchParams struct {
	Query   string `json:"query"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	Backend string `json:"backend,omitempty"`
}

// SearchResults contains statistics about the returned page.
type SearchResults struct {
	Outcome          Outcome   `json:"outcome"`
	Error            string    `json:"error,omitempty"`
	Repositories     int       `json:"repositories"`
	TotalStars       int       `json:"total_stars"`
	MostStarred      string    `json:"most_starred,omitempty"`
	MostStarredCount int       `json:"most_starred_count"`
	Duration         string    `json:"fetch_duration"`
	StartedAt        time.Time `json:"started_at"`
	CompletedAt      time.Time `json:"completed_at"`
}
