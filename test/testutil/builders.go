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
	"fmt"

	"github.com/sirseerhq/reposcout/internal/github"
)

// RepositoryBuilder provides a fluent interface for building test repositories.
type RepositoryBuilder struct {
	repo github.Repository
}

// NewRepositoryBuilder creates a builder with defaults derived from id.
func NewRepositoryBuilder(id int64) *RepositoryBuilder {
	owner := fmt.Sprintf("owner%d", id)
	name := fmt.Sprintf("repo%d", id)
	return &RepositoryBuilder{
		repo: github.Repository{
			ID:       id,
			Name:     name,
			FullName: owner + "/" + name,
			HTMLURL:  "https://github.com/" + owner + "/" + name,
			Owner: github.Owner{
				Login:     owner,
				AvatarURL: fmt.Sprintf("https://avatars.githubusercontent.com/u/%d?v=4", id),
			},
		},
	}
}

// WithName sets the owner and repository name, and the derived fields.
func (b *RepositoryBuilder) WithName(owner, name string) *RepositoryBuilder {
	b.repo.Name = name
	b.repo.FullName = owner + "/" + name
	b.repo.HTMLURL = "https://github.com/" + owner + "/" + name
	b.repo.Owner.Login = owner
	return b
}

// WithStars sets the stargazer count.
func (b *RepositoryBuilder) WithStars(stars int) *RepositoryBuilder {
	b.repo.StargazersCount = stars
	return b
}

// WithAvatar sets the owner's avatar URL.
func (b *RepositoryBuilder) WithAvatar(url string) *RepositoryBuilder {
	b.repo.Owner.AvatarURL = url
	return b
}

// Build returns the repository.
func (b *RepositoryBuilder) Build() github.Repository {
	return b.repo
}

// Repositories builds one repository per star count, with ids 1..n.
func Repositories(stars ...int) []github.Repository {
	repos := make([]github.Repository, len(stars))
	for i, s := range stars {
		repos[i] = NewRepositoryBuilder(int64(i + 1)).WithStars(s).Build()
	}
	return repos
}

// RESTSearchResponse is the body GitHub's REST search endpoint returns.
func RESTSearchResponse(repos []github.Repository) map[string]interface{} {
	return map[string]interface{}{
		"total_count":        len(repos),
		"incomplete_results": false,
		"items":              repos,
	}
}

// GraphQLSearchResponse is the body of a GraphQL search connection page.
func GraphQLSearchResponse(repos []github.Repository, total int, hasNext bool, endCursor string) map[string]interface{} {
	nodes := make([]map[string]interface{}, 0, len(repos))
	for _, r := range repos {
		nodes = append(nodes, map[string]interface{}{
			"databaseId":     r.ID,
			"name":           r.Name,
			"nameWithOwner":  r.FullName,
			"url":            r.HTMLURL,
			"stargazerCount": r.StargazersCount,
			"owner": map[string]interface{}{
				"login":     r.Owner.Login,
				"avatarUrl": r.Owner.AvatarURL,
			},
		})
	}

	var cursor interface{}
	if endCursor != "" {
		cursor = endCursor
	}

	return map[string]interface{}{
		"data": map[string]interface{}{
			"search": map[string]interface{}{
				"repositoryCount": total,
				"pageInfo": map[string]interface{}{
					"hasNextPage": hasNext,
					"endCursor":   cursor,
				},
				"nodes": nodes,
			},
		},
	}
}
