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

// Repository is one search hit. Values are immutable once received; a search
// replaces the whole result slice rather than editing entries in place.
type Repository struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	FullName        string `json:"full_name"`
	HTMLURL         string `json:"html_url"`
	StargazersCount int    `json:"stargazers_count"`
	Owner           Owner  `json:"owner"`
}

// Owner identifies the account that owns a repository.
type Owner struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// SearchOptions configures a single search request.
type SearchOptions struct {
	// Query is the free-text keyword query, sent verbatim.
	Query string

	// Page is 1-based. Values below 1 are sent as 1.
	Page int

	// PerPage is the page size. Values below 1 use DefaultPerPage.
	PerPage int
}

// SearchPage is one page of results, sorted by stars descending.
type SearchPage struct {
	Repositories      []Repository
	TotalCount        int
	IncompleteResults bool
}

// Search defaults and the fixed ordering applied to every request.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100

	sortByStars = "stars"
	orderDesc   = "desc"
)

// normalize applies the page defaults.
func (o SearchOptions) normalize() SearchOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PerPage < 1 {
		o.PerPage = DefaultPerPage
	}
	return o
}
