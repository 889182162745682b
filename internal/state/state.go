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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	scouterrors "github.com/sirseerhq/reposcout/internal/errors"
)

// FilePath returns the path of the selection record inside dir.
func FilePath(dir string) string {
	return filepath.Join(dir, RecordName+".json")
}

// Storage loads and saves the selection record.
type Storage interface {
	// Load returns the persisted selection. A missing record is an empty
	// selection. A record that cannot be trusted yields an error wrapping
	// errors.ErrStateCorrupted.
	Load() (Selection, error)

	// Save replaces the persisted selection. It returns once the record is durable.
	Save(Selection) error
}

// FileStore is the file-backed Storage.
type FileStore struct {
	path string
}

// NewFileStore stores the record under dir, creating dir on first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: FilePath(dir)}
}

// Path returns the record's file path.
func (f *FileStore) Path() string {
	return f.path
}

// Load implements Storage.
func (f *FileStore) Load() (Selection, error) {
	return LoadSelection(f.path)
}

// Save implements Storage.
func (f *FileStore) Save(sel Selection) error {
	return SaveSelection(sel, f.path)
}

// SaveSelection atomically writes the selection with integrity validation.
// It uses a write-to-temp-and-rename pattern to ensure atomicity.
func SaveSelection(sel Selection, stateFile string) error {
	record := &SelectionFile{
		Version:   CurrentVersion,
		Selection: sel.Clone(),
	}

	checksum, err := calculateChecksum(record)
	if err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}
	record.Checksum = checksum

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	stateDir := filepath.Dir(stateFile)
	if mkdirErr := os.MkdirAll(stateDir, 0o755); mkdirErr != nil {
		return fmt.Errorf("failed to create state directory: %w", mkdirErr)
	}

	// The temp file lives next to the target so the rename stays on one filesystem.
	tmp, err := os.CreateTemp(stateDir, filepath.Base(stateFile)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary state file: %w", err)
	}
	tempFile := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempFile, stateFile); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// LoadSelection reads and validates the selection record.
// A missing file is an empty selection, not an error.
func LoadSelection(stateFile string) (Selection, error) {
	data, err := os.ReadFile(stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			return Selection{}, nil
		}
		return nil, fmt.Errorf("failed to read state file %s: %w", stateFile, err)
	}

	var record SelectionFile
	if unmarshalErr := json.Unmarshal(data, &record); unmarshalErr != nil {
		return nil, fmt.Errorf("%s is not valid JSON: %v: %w", stateFile, unmarshalErr, scouterrors.ErrStateCorrupted)
	}

	if record.Version != CurrentVersion {
		return nil, fmt.Errorf("%s has version %d, expected %d: %w",
			stateFile, record.Version, CurrentVersion, scouterrors.ErrStateCorrupted)
	}

	savedChecksum := record.Checksum
	record.Checksum = ""

	calculatedChecksum, err := calculateChecksum(&record)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksum for validation: %w", err)
	}

	if savedChecksum != calculatedChecksum {
		return nil, fmt.Errorf("%s failed checksum validation: %w", stateFile, scouterrors.ErrStateCorrupted)
	}

	return record.Selection.dedupe(), nil
}

// calculateChecksum computes the SHA256 hash of the record content.
// The checksum field itself is excluded from the calculation.
func calculateChecksum(record *SelectionFile) (string, error) {
	recordCopy := *record
	recordCopy.Checksum = ""
	if recordCopy.Selection == nil {
		recordCopy.Selection = Selection{}
	}

	data, err := json.Marshal(recordCopy)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
