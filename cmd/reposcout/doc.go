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

// Package main implements the reposcout command-line interface.
// This tool searches GitHub repositories by keyword, sorted by stars, and
// keeps a persistent selection of repositories across runs.
//
// The CLI supports:
//   - One-shot searches with NDJSON output and a total star count
//   - Toggling, listing and clearing the persisted selection
//   - An interactive mode that reads search text line by line, debounces it
//     and renders the result list as it changes
//   - REST (default) or GraphQL search backends
//
// Usage:
//
//	reposcout search <query> [flags]
//	reposcout select toggle <id>...
//	reposcout interactive
//
// Example:
//
//	reposcout search react --per-page 5 | jq .full_name
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication, rate limit or not-found error
//   - 3: Network error
package main
