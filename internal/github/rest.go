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
	"fmt"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v33/github"
	"github.com/sirupsen/logrus"

	scouterrors "github.com/sirseerhq/reposcout/internal/errors"
	"github.com/sirseerhq/reposcout/pkg/version"
)

// DefaultAPIEndpoint is the public GitHub REST root.
const DefaultAPIEndpoint = "https://api.github.com/"

// RESTClient implements Searcher against the REST search endpoint
// ({endpoint}/search/repositories).
type RESTClient struct {
	client *gh.Client
	logger *logrus.Entry
}

// NewRESTClient creates a REST search client. The token may be empty, in which
// case requests are anonymous. endpoint is the API root, e.g.
// "https://api.github.com/" or "https://ghe.example.com/api/v3/".
func NewRESTClient(token string, endpoint string, opts ...Option) (*RESTClient, error) {
	o := buildOptions(opts)

	if endpoint == "" {
		endpoint = DefaultAPIEndpoint
	}
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	baseURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid API endpoint %q: %w", endpoint, err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("invalid API endpoint %q: scheme and host are required", endpoint)
	}

	client := gh.NewClient(newHTTPClient(token, o.timeout))
	client.BaseURL = baseURL
	client.UserAgent = version.UserAgent()

	return &RESTClient{
		client: client,
		logger: o.logger,
	}, nil
}

// Search implements Searcher with a single GET to search/repositories,
// sorted by stars descending.
func (c *RESTClient) Search(ctx context.Context, opts SearchOptions) (*SearchPage, error) {
	opts = opts.normalize()

	c.logger.WithFields(logrus.Fields{
		"query":    opts.Query,
		"page":     opts.Page,
		"per_page": opts.PerPage,
	}).Debug("searching repositories")

	result, resp, err := c.client.Search.Repositories(ctx, opts.Query, &gh.SearchOptions{
		Sort:  sortByStars,
		Order: orderDesc,
		ListOptions: gh.ListOptions{
			Page:    opts.Page,
			PerPage: opts.PerPage,
		},
	})
	if err != nil {
		return nil, c.mapError(err, resp)
	}

	page := &SearchPage{
		TotalCount:        result.GetTotal(),
		IncompleteResults: result.GetIncompleteResults(),
		Repositories:      make([]Repository, 0, len(result.Repositories)),
	}
	for _, r := range result.Repositories {
		if r == nil {
			continue
		}
		page.Repositories = append(page.Repositories, convertRESTRepository(r))
	}

	return page, nil
}

// mapError classifies a failed call: a received non-2xx status is a transport
// error, anything else (no response, bad body) is a client error.
func (c *RESTClient) mapError(err error, resp *gh.Response) error {
	if resp != nil && resp.Response != nil && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		c.logger.WithField("status", resp.StatusCode).Debug("search endpoint returned an error status")
		return scouterrors.NewTransportError(resp.StatusCode, resp.Status)
	}
	return scouterrors.NewClientError(err)
}

func convertRESTRepository(r *gh.Repository) Repository {
	return Repository{
		ID:              r.GetID(),
		Name:            r.GetName(),
		FullName:        r.GetFullName(),
		HTMLURL:         r.GetHTMLURL(),
		StargazersCount: r.GetStargazersCount(),
		Owner: Owner{
			Login:     r.GetOwner().GetLogin(),
			AvatarURL: r.GetOwner().GetAvatarURL(),
		},
	}
}
