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

// Package state persists the user's repository selection.
//
// The selection is the only part of the application state that survives a
// restart. It is stored as a single JSON record named "repositories-storage"
// inside the state directory (~/.reposcout/state by default). Every write is
// atomic, using a write-to-temp-and-rename pattern, and carries a SHA256
// checksum and a schema version so a damaged record is detected on load.
//
// Example usage:
//
//	store := state.NewFileStore(cfg.State.Dir)
//	sel, err := store.Load()
//	sel = sel.Toggle(42)
//	err = store.Save(sel)
package state
