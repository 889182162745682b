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
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirseerhq/reposcout/internal/state"
)

// NDJSONRecord is the subset of a repository line the assertions inspect.
type NDJSONRecord struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Stars    int    `json:"stars"`
	Selected bool   `json:"selected"`
}

// ParseNDJSON decodes repository lines, failing the test on invalid JSON.
func ParseNDJSON(t *testing.T, output string) []NDJSONRecord {
	t.Helper()

	var records []NDJSONRecord
	for i, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var rec NDJSONRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("Line %d: invalid JSON: %v", i+1, err)
		}
		records = append(records, rec)
	}
	return records
}

// AssertNDJSONOutput checks the ids of the repository lines, in order.
func AssertNDJSONOutput(t *testing.T, output string, wantIDs ...int64) {
	t.Helper()

	records := ParseNDJSON(t, output)
	if len(records) != len(wantIDs) {
		t.Fatalf("Expected %d repositories, got %d\n%s", len(wantIDs), len(records), output)
	}
	for i, rec := range records {
		if rec.ID != wantIDs[i] {
			t.Errorf("Line %d: id = %d, want %d", i+1, rec.ID, wantIDs[i])
		}
	}
}

// AssertSelectionFile checks the persisted selection in stateDir.
func AssertSelectionFile(t *testing.T, stateDir string, want ...int64) {
	t.Helper()

	sel, err := state.LoadSelection(state.FilePath(stateDir))
	if err != nil {
		t.Fatalf("Failed to load selection: %v", err)
	}
	if len(sel) != len(want) {
		t.Fatalf("Persisted selection = %v, want %v", sel, want)
	}
	for i := range want {
		if sel[i] != want[i] {
			t.Fatalf("Persisted selection = %v, want %v", sel, want)
		}
	}
}

// AssertMetadataFile validates the single search metadata file in dir and
// returns its decoded contents.
func AssertMetadataFile(t *testing.T, dir string) map[string]interface{} {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, "search-metadata-*.json"))
	if err != nil {
		t.Fatalf("Failed to glob metadata files: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected one metadata file, found %d", len(matches))
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("Failed to read metadata file: %v", err)
	}

	var metadata map[string]interface{}
	if err := json.Unmarshal(data, &metadata); err != nil {
		t.Fatalf("Invalid metadata JSON: %v", err)
	}

	for _, field := range []string{"reposcout_version", "fetch_id", "parameters", "results"} {
		if _, ok := metadata[field]; !ok {
			t.Errorf("Missing required metadata field: %s", field)
		}
	}
	return metadata
}

// AssertContainsString checks if a string contains a substring
func AssertContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("Expected string to contain %q, got: %s", needle, haystack)
	}
}

// AssertNotContainsString checks if a string does not contain a substring
func AssertNotContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Errorf("Expected string to NOT contain %q, got: %s", needle, haystack)
	}
}
