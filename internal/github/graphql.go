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
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shurcooL/graphql"
	"github.com/sirupsen/logrus"

	scouterrors "github.com/sirseerhq/reposcout/internal/errors"
)

// DefaultGraphQLEndpoint is the public GitHub GraphQL endpoint.
const DefaultGraphQLEndpoint = "https://api.github.com/graphql"

// GraphQLClient implements Searcher using the GraphQL search connection.
// The connection has no page offsets and reaching page N would take N-1 extra
// requests, so only the first page is served; later pages are rejected with a
// validation error before any request is made.
type GraphQLClient struct {
	client *graphql.Client
	logger *logrus.Entry
}

// NewGraphQLClient creates a GraphQL search client. GitHub rejects anonymous
// GraphQL requests, so a token is required.
func NewGraphQLClient(token string, endpoint string, opts ...Option) (*GraphQLClient, error) {
	if token == "" {
		return nil, fmt.Errorf("graphql backend requires a token: %w", scouterrors.ErrInvalidToken)
	}
	if endpoint == "" {
		endpoint = DefaultGraphQLEndpoint
	}

	o := buildOptions(opts)

	return &GraphQLClient{
		client: graphql.NewClient(endpoint, newHTTPClient(token, o.timeout)),
		logger: o.logger,
	}, nil
}

type repositoryNode struct {
	Repository struct {
		DatabaseID     int64  `graphql:"databaseId"`
		Name           string
		NameWithOwner  string
		URL            string `graphql:"url"`
		StargazerCount int
		Owner          struct {
			Login     string
			AvatarURL string `graphql:"avatarUrl"`
		}
	} `graphql:"... on Repository"`
}

type pageInfo struct {
	HasNextPage graphql.Boolean
	EndCursor   graphql.String
}

// Search implements Searcher.
func (c *GraphQLClient) Search(ctx context.Context, opts SearchOptions) (*SearchPage, error) {
	opts = opts.normalize()
	if opts.Page > 1 {
		return nil, scouterrors.NewValidationError("graphql backend only serves page 1, got page %d", opts.Page)
	}
	if opts.PerPage > MaxPerPage {
		opts.PerPage = MaxPerPage
	}

	c.logger.WithFields(logrus.Fields{
		"query":    opts.Query,
		"page":     opts.Page,
		"per_page": opts.PerPage,
	}).Debug("searching repositories via graphql")

	variables := map[string]interface{}{
		"query": graphql.String(opts.Query + " sort:stars-desc"),
		"first": graphql.Int(int32(opts.PerPage)), // #nosec G115 - capped at MaxPerPage
	}

	var query struct {
		Search struct {
			RepositoryCount graphql.Int
			PageInfo        pageInfo
			Nodes           []repositoryNode
		} `graphql:"search(query: $query, type: REPOSITORY, first: $first)"`
	}
	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, mapGraphQLError(err)
	}

	page := &SearchPage{
		TotalCount:   int(query.Search.RepositoryCount),
		Repositories: make([]Repository, 0, len(query.Search.Nodes)),
	}
	for _, node := range query.Search.Nodes {
		r := node.Repository
		page.Repositories = append(page.Repositories, Repository{
			ID:              r.DatabaseID,
			Name:            r.Name,
			FullName:        r.NameWithOwner,
			HTMLURL:         r.URL,
			StargazersCount: r.StargazerCount,
			Owner: Owner{
				Login:     r.Owner.Login,
				AvatarURL: r.Owner.AvatarURL,
			},
		})
	}

	return page, nil
}

// statusPrefix is how the graphql library reports a non-200 response.
const statusPrefix = "non-200 OK status code: "

// mapGraphQLError maps library errors onto the FetchError kinds used by the REST client.
func mapGraphQLError(err error) error {
	var fetchErr *scouterrors.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr
	}
	if code, status, ok := parseStatusError(err); ok {
		return scouterrors.NewTransportError(code, status)
	}
	return scouterrors.NewClientError(err)
}

// parseStatusError extracts "503 Service Unavailable" from
// "non-200 OK status code: 503 Service Unavailable body: \"...\"".
func parseStatusError(err error) (int, string, bool) {
	msg := err.Error()
	idx := strings.Index(msg, statusPrefix)
	if idx < 0 {
		return 0, "", false
	}
	status := msg[idx+len(statusPrefix):]
	if end := strings.Index(status, " body:"); end >= 0 {
		status = status[:end]
	}
	codeText, _, _ := strings.Cut(status, " ")
	code, convErr := strconv.Atoi(codeText)
	if convErr != nil {
		return 0, "", false
	}
	return code, status, true
}
