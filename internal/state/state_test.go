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

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	scouterrors "github.com/sirseerhq/reposcout/internal/errors"
)

func TestFilePath(t *testing.T) {
	got := FilePath("/tmp/scout")
	want := filepath.Join("/tmp/scout", "repositories-storage.json")
	if got != want {
		t.Errorf("FilePath() = %q, want %q", got, want)
	}
}

func TestSaveAndLoadSelection(t *testing.T) {
	tempDir := t.TempDir()
	stateFile := filepath.Join(tempDir, "nested", "selection.json")

	if err := SaveSelection(Selection{42, 7, 1001}, stateFile); err != nil {
		t.Fatalf("SaveSelection failed: %v", err)
	}

	info, err := os.Stat(stateFile)
	if err != nil {
		t.Fatalf("State file not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("State file permissions = %o, want 600", perm)
	}

	loaded, err := LoadSelection(stateFile)
	if err != nil {
		t.Fatalf("LoadSelection failed: %v", err)
	}

	want := Selection{42, 7, 1001}
	if len(loaded) != len(want) {
		t.Fatalf("loaded %v, want %v", loaded, want)
	}
	for i := range want {
		if loaded[i] != want[i] {
			t.Errorf("index %d: got %d, want %d (order must be preserved)", i, loaded[i], want[i])
		}
	}

	// Verify on-disk format
	data, err := os.ReadFile(stateFile)
	if err != nil {
		t.Fatal(err)
	}
	var record SelectionFile
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("state file is not JSON: %v", err)
	}
	if record.Version != CurrentVersion {
		t.Errorf("Version mismatch: got %d, want %d", record.Version, CurrentVersion)
	}
	if record.Checksum == "" {
		t.Error("Checksum should not be empty")
	}
}

func TestSaveEmptySelection(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "empty.json")

	if err := SaveSelection(nil, stateFile); err != nil {
		t.Fatalf("SaveSelection failed: %v", err)
	}

	data, err := os.ReadFile(stateFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"selection":[]`) {
		t.Errorf("empty selection should be written as [], got %s", data)
	}

	loaded, err := LoadSelection(stateFile)
	if err != nil {
		t.Fatalf("LoadSelection failed: %v", err)
	}
	if loaded == nil || len(loaded) != 0 {
		t.Errorf("expected empty non-nil selection, got %#v", loaded)
	}
}

func TestLoadSelection_FileNotExist(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "nonexistent.json")

	sel, err := LoadSelection(stateFile)
	if err != nil {
		t.Fatalf("missing record should not be an error: %v", err)
	}
	if sel == nil || len(sel) != 0 {
		t.Errorf("expected empty selection, got %#v", sel)
	}
}

func TestLoadSelection_Corrupted(t *testing.T) {
	tests := []struct {
		name    string
		content func(t *testing.T, valid []byte) []byte
		wantMsg string
	}{
		{
			name: "invalid JSON",
			content: func(t *testing.T, valid []byte) []byte {
				return []byte("{ invalid json")
			},
			wantMsg: "not valid JSON",
		},
		{
			name: "checksum mismatch",
			content: func(t *testing.T, valid []byte) []byte {
				tampered := strings.Replace(string(valid), "[42]", "[43]", 1)
				if tampered == string(valid) {
					t.Fatal("tampering did not change the record")
				}
				return []byte(tampered)
			},
			wantMsg: "checksum",
		},
		{
			name: "version mismatch",
			content: func(t *testing.T, valid []byte) []byte {
				record := SelectionFile{Version: 0, Selection: Selection{42}}
				checksum, err := calculateChecksum(&record)
				if err != nil {
					t.Fatal(err)
				}
				record.Checksum = checksum
				data, _ := json.Marshal(record)
				return data
			},
			wantMsg: "version 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stateFile := filepath.Join(t.TempDir(), "record.json")
			if err := SaveSelection(Selection{42}, stateFile); err != nil {
				t.Fatal(err)
			}
			valid, err := os.ReadFile(stateFile)
			if err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(stateFile, tt.content(t, valid), 0o600); err != nil {
				t.Fatal(err)
			}

			_, err = LoadSelection(stateFile)
			if err == nil {
				t.Fatal("LoadSelection should fail")
			}
			if !errors.Is(err, scouterrors.ErrStateCorrupted) {
				t.Errorf("expected ErrStateCorrupted, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Unexpected error message: %v", err)
			}
		})
	}
}

func TestLoadSelection_DropsDuplicates(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "dupes.json")

	record := SelectionFile{Version: CurrentVersion, Selection: Selection{5, 9, 5, 2, 9}}
	checksum, err := calculateChecksum(&record)
	if err != nil {
		t.Fatal(err)
	}
	record.Checksum = checksum
	data, _ := json.Marshal(record)
	if err := os.WriteFile(stateFile, data, 0o600); err != nil {
		t.Fatal(err)
	}

	sel, err := LoadSelection(stateFile)
	if err != nil {
		t.Fatalf("LoadSelection failed: %v", err)
	}
	if fmt.Sprint(sel) != "[5 9 2]" {
		t.Errorf("got %v, want [5 9 2]", sel)
	}
}

func TestAtomicWrite(t *testing.T) {
	tempDir := t.TempDir()
	stateFile := filepath.Join(tempDir, "atomic.json")

	if err := SaveSelection(Selection{1}, stateFile); err != nil {
		t.Fatal(err)
	}
	if err := SaveSelection(Selection{1, 2}, stateFile); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temporary file %s left behind", e.Name())
		}
	}

	sel, err := LoadSelection(stateFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(sel) != 2 {
		t.Errorf("expected the second write to win, got %v", sel)
	}
}

func TestSaveSelection_UnwritableDir(t *testing.T) {
	tempDir := t.TempDir()
	blocker := filepath.Join(tempDir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	// A regular file where the directory should be.
	err := SaveSelection(Selection{1}, filepath.Join(blocker, "record.json"))
	if err == nil {
		t.Fatal("SaveSelection should fail when the directory cannot be created")
	}
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	if store.Path() != FilePath(dir) {
		t.Errorf("Path() = %q, want %q", store.Path(), FilePath(dir))
	}

	var _ Storage = store

	if err := store.Save(Selection{3, 1}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A second instance sees the same record, as after a restart.
	sel, err := NewFileStore(dir).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if fmt.Sprint(sel) != "[3 1]" {
		t.Errorf("got %v, want [3 1]", sel)
	}
}

func TestConcurrentSaves(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "concurrent.json")

	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func(id int64) {
			done <- SaveSelection(Selection{id}, stateFile)
		}(int64(i))
	}

	for i := 0; i < 10; i++ {
		if err := <-done; err != nil {
			t.Errorf("concurrent save failed: %v", err)
		}
	}

	// The exact content doesn't matter, just that it's valid
	sel, err := LoadSelection(stateFile)
	if err != nil {
		t.Fatalf("Failed to load final state: %v", err)
	}
	if len(sel) != 1 {
		t.Errorf("expected a single id, got %v", sel)
	}
}
