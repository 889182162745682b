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

// Package store holds the client's state: the current search results, the
// fetch status and the user's selection of repositories.
//
// A search moves the store through a small state machine:
//
//	Idle     Loading=false  Error=""   Results=nil
//	Fetching Loading=true   Error=""   Results=previous
//	Loaded   Loading=false  Error=""   Results=page
//	Failed   Loading=false  Error=msg  Results=[] (empty, not nil)
//
// Fetch never returns an error; a failed search is recorded in State.Error.
// Only the most recently issued Fetch may commit. A response that arrives
// after a newer Fetch was issued is discarded.
//
// The selection is the only durable part. Every Toggle is written through to
// the configured state.Storage before it returns.
package store
