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

package output

import (
	"fmt"

	"github.com/sirseerhq/reposcout/internal/github"
)

// RepositoryRecord is the line written for one search hit.
type RepositoryRecord struct {
	ID        int64  `json:"id"`
	FullName  string `json:"full_name"`
	Name      string `json:"name"`
	Owner     string `json:"owner"`
	AvatarURL string `json:"avatar_url,omitempty"`
	HTMLURL   string `json:"html_url"`
	Stars     int    `json:"stars"`
	Selected  bool   `json:"selected,omitempty"`
}

// SelectionRecord is the line written for one persisted selection entry.
type SelectionRecord struct {
	ID int64 `json:"id"`
}

// NewRepositoryRecord flattens a repository for output.
func NewRepositoryRecord(repo github.Repository, selected bool) RepositoryRecord {
	return RepositoryRecord{
		ID:        repo.ID,
		FullName:  repo.FullName,
		Name:      repo.Name,
		Owner:     repo.Owner.Login,
		AvatarURL: repo.Owner.AvatarURL,
		HTMLURL:   repo.HTMLURL,
		Stars:     repo.StargazersCount,
		Selected:  selected,
	}
}

// TotalStarsLine renders the star summary shown after a search.
func TotalStarsLine(total int) string {
	return fmt.Sprintf("⭐ %d", total)
}
