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

// Package github searches GitHub repositories by keyword. Results are always
// sorted by star count, highest first.
//
// The package includes:
//   - A Searcher interface consumed by the repository store
//   - A REST implementation using google/go-github (the default backend)
//   - A GraphQL implementation using the shurcooL/graphql library
//   - Mock client for testing
//
// Basic usage:
//
//	client, err := github.NewRESTClient(token, "https://api.github.com/")
//	if err != nil {
//	    // Handle error
//	}
//	page, err := client.Search(ctx, github.SearchOptions{Query: "react", Page: 1, PerPage: 20})
//	if err != nil {
//	    // err is an *errors.FetchError
//	}
//	for _, repo := range page.Repositories {
//	    // Process repository
//	}
//
// Neither client retries. A failed request is reported once and the caller
// decides what to do next.
package github
