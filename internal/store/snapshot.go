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

package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirseerhq/discussions-loader/internal/content"
)

// SnapshotVersion is the current snapshot schema version.
// Increment this when making breaking changes to the file layout.
const SnapshotVersion = 1

// snapshotFile is the on-disk form of a Snapshot.
type snapshotFile struct {
	// Version indicates the schema version of this file.
	Version int `json:"version"`

	// Checksum is the SHA256 hash of the file content (excluding this field).
	// Used to detect corruption or tampering.
	Checksum string `json:"checksum"`

	SavedAt time.Time       `json:"saved_at"`
	Entries []snapshotEntry `json:"entries"`
}

type snapshotEntry struct {
	ID       string            `json:"id"`
	Data     json.RawMessage   `json:"data"`
	Rendered *content.Rendered `json:"rendered,omitempty"`
}

// Snapshot is a memory store persisted to one JSON file on Flush and Close.
type Snapshot struct {
	*Memory
	path string
}

// SnapshotPath returns the default snapshot location for a repository in
// "owner/repo" format: ~/.discussions-loader/snapshots/owner-repo.json
func SnapshotPath(repository string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	safeRepoName := strings.ReplaceAll(repository, "/", "-")
	return filepath.Join(homeDir, ".discussions-loader", "snapshots", safeRepoName+".json")
}

// OpenSnapshot opens the snapshot at path, loading its entries when the file
// exists. A corrupted or incompatible file is an error rather than being
// silently replaced.
func OpenSnapshot(path string) (*Snapshot, error) {
	s := &Snapshot{Memory: NewMemory(), path: path}

	file, err := readSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	for _, e := range file.Entries {
		s.entries[e.ID] = content.Entry{ID: e.ID, Data: e.Data, Rendered: e.Rendered}
	}
	return s, nil
}

// Path returns the snapshot file path.
func (s *Snapshot) Path() string {
	return s.path
}

// Flush atomically writes the current entries to disk.
func (s *Snapshot) Flush(ctx context.Context) error {
	entries, err := s.Entries(ctx)
	if err != nil {
		return err
	}

	file := &snapshotFile{
		Version: SnapshotVersion,
		SavedAt: time.Now().UTC(),
		Entries: make([]snapshotEntry, 0, len(entries)),
	}
	for _, e := range entries {
		data, err := json.Marshal(e.Data)
		if err != nil {
			return fmt.Errorf("failed to marshal entry %s: %w", e.ID, err)
		}
		file.Entries = append(file.Entries, snapshotEntry{ID: e.ID, Data: data, Rendered: e.Rendered})
	}

	return writeSnapshot(file, s.path)
}

// Close implements Store by flushing the snapshot.
func (s *Snapshot) Close() error {
	return s.Flush(context.Background())
}

// writeSnapshot atomically saves file with integrity validation.
// It uses a write-to-temp-and-rename pattern to ensure atomicity.
func writeSnapshot(file *snapshotFile, path string) error {
	file.Checksum = ""
	checksum, err := calculateChecksum(file)
	if err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}
	file.Checksum = checksum

	if mkdirErr := os.MkdirAll(filepath.Dir(path), 0o755); mkdirErr != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", mkdirErr)
	}

	data, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tempFile := path + ".tmp"
	f, err := os.OpenFile(tempFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create temporary snapshot file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to write temporary snapshot file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// readSnapshot reads and validates a snapshot file. It verifies the checksum
// and version compatibility. A missing file is reported with an error
// satisfying os.IsNotExist.
func readSnapshot(path string) (*snapshotFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("snapshot %s is corrupted (invalid JSON): %w", path, err)
	}

	if file.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version (%d) is incompatible with current version (%d)",
			file.Version, SnapshotVersion)
	}

	saved := file.Checksum
	file.Checksum = ""
	calculated, err := calculateChecksum(&file)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksum for validation: %w", err)
	}
	if saved != calculated {
		return nil, fmt.Errorf("snapshot %s is corrupted (checksum mismatch)", path)
	}
	file.Checksum = saved

	return &file, nil
}

// calculateChecksum computes the SHA256 hash of the snapshot content.
// The checksum field itself is excluded from the calculation.
func calculateChecksum(file *snapshotFile) (string, error) {
	fileCopy := *file
	fileCopy.Checksum = ""

	data, err := json.Marshal(fileCopy)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
