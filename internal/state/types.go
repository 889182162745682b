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

package state

// CurrentVersion is the current state schema version.
// Increment this when making breaking changes to the SelectionFile structure.
const CurrentVersion = 1

// RecordName names the persisted selection record.
const RecordName = "repositories-storage"

// Selection is the ordered set of selected repository ids, in the order they
// were first selected. It never contains duplicates.
type Selection []int64

// Contains reports whether id is selected.
func (s Selection) Contains(id int64) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle returns a new selection with id removed if present, or appended if
// absent. The receiver is not modified.
func (s Selection) Toggle(id int64) Selection {
	out := make(Selection, 0, len(s)+1)
	found := false
	for _, v := range s {
		if v == id {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, id)
	}
	return out
}

// Clone returns an independent copy. The copy of an empty selection is empty, not nil.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	copy(out, s)
	return out
}

// dedupe drops repeated ids, keeping the first occurrence.
func (s Selection) dedupe() Selection {
	seen := make(map[int64]struct{}, len(s))
	out := make(Selection, 0, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// SelectionFile is the on-disk form of the selection record.
// Fields that describe a search (results, loading, errors) have no place here.
type SelectionFile struct {
	// Version indicates the schema version of this state file.
	Version int `json:"version"`

	// Checksum is the SHA256 hash of the record content (excluding this field).
	// Used to detect corruption or tampering.
	Checksum string `json:"checksum"`

	// Selection holds the selected repository ids in insertion order.
	Selection Selection `json:"selection"`
}
