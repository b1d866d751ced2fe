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

// Package metadata provides functionality for tracking and persisting metadata
// about load operations. It records statistics about each load including
// the number of discussions written, the nodes rejected during validation,
// categories truncated at the page size, and the failure of failed loads.
//
// Metadata is saved as JSON files in a directory of the caller's choosing,
// allowing external tools to analyze load history.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// QueryVersion identifies the shape of the GraphQL document used for a load.
	QueryVersion = "graphql-multi-category-v1"
)

// Tracker collects statistics during a load and generates its metadata.
// Create a new tracker at the start of each load. All methods are safe for
// concurrent use.
type Tracker struct {
	mu           sync.Mutex
	loadID       string
	startTime    time.Time
	apiCallCount int
	stats        DiscussionStats
	rejections   []Rejection
	truncated    []Truncation
	failure      *Failure
}

// DiscussionStats holds statistical information about the discussions written
// by a load.
type DiscussionStats struct {
	Total  int       // Number of discussions written
	First  int       // Lowest discussion number seen
	Last   int       // Highest discussion number seen
	Oldest time.Time // Earliest creation date
	Newest time.Time // Latest update date
}

// New creates a new metadata tracker with a fresh load id, initialized with
// the current time.
func New() *Tracker {
	return &Tracker{
		loadID:    uuid.NewString(),
		startTime: time.Now(),
	}
}

// LoadID returns the id assigned to this load.
func (t *Tracker) LoadID() string {
	return t.loadID
}

// IncrementAPICall records that an API call was made.
func (t *Tracker) IncrementAPICall() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.apiCallCount++
}

// RecordDiscussion updates the running statistics with a discussion written
// to the store.
func (t *Tracker) RecordDiscussion(number int, createdAt, updatedAt time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.Total++

	if t.stats.First == 0 || number < t.stats.First {
		t.stats.First = number
	}
	if number > t.stats.Last {
		t.stats.Last = number
	}

	if t.stats.Oldest.IsZero() || createdAt.Before(t.stats.Oldest) {
		t.stats.Oldest = createdAt
	}
	if updatedAt.After(t.stats.Newest) {
		t.stats.Newest = updatedAt
	}
}

// RecordRejection records a node dropped during validation.
func (t *Tracker) RecordRejection(r Rejection) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rejections = append(t.rejections, r)
}

// RecordTruncation records a category with more results than one page holds.
func (t *Tracker) RecordTruncation(tr Truncation) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.truncated = append(t.truncated, tr)
}

// Fail marks the load as failed. Statistics recorded for discussions are
// cleared because a failed load writes none.
func (t *Tracker) Fail(kind, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failure = &Failure{Kind: kind, Message: message}
	t.stats = DiscussionStats{}
}

// Stats returns a copy of the discussion statistics collected so far.
func (t *Tracker) Stats() DiscussionStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// GenerateMetadata creates the LoadMetadata record for the load. Call this
// once the load's outcome has been published.
func (t *Tracker) GenerateMetadata(loaderVersion string, params LoadParams) *LoadMetadata {
	t.mu.Lock()
	defer t.mu.Unlock()

	completedAt := time.Now()

	md := &LoadMetadata{
		LoaderVersion: loaderVersion,
		QueryVersion:  QueryVersion,
		LoadID:        t.loadID,
		Parameters:    params,
		Results: LoadResults{
			Emitted:          t.stats.Total,
			Rejected:         len(t.rejections),
			FirstDiscussion:  t.stats.First,
			LastDiscussion:   t.stats.Last,
			OldestDiscussion: t.stats.Oldest,
			NewestDiscussion: t.stats.Newest,
			Duration:         completedAt.Sub(t.startTime).String(),
			APICallCount:     t.apiCallCount,
			StartedAt:        t.startTime,
			CompletedAt:      completedAt,
		},
		Rejections: append([]Rejection(nil), t.rejections...),
		Truncated:  append([]Truncation(nil), t.truncated...),
	}
	if t.failure != nil {
		f := *t.failure
		md.Failure = &f
	}
	return md
}

// Ref returns a reference to this load for linking from a later one.
func (m *LoadMetadata) Ref() *LoadRef {
	return &LoadRef{
		LoadID:      m.LoadID,
		CompletedAt: m.Results.CompletedAt,
		Emitted:     m.Results.Emitted,
	}
}

// SaveMetadata persists a LoadMetadata record to a JSON file in the specified
// directory. The file is written atomically using a temporary file and rename
// to prevent corruption. The filename includes a timestamp for easy sorting.
//
// The metadata file will be named: load-metadata-{timestamp}-{load id prefix}.json
//
// Returns the path written.
func SaveMetadata(metadata *LoadMetadata, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create metadata directory: %w", err)
	}

	id := metadata.LoadID
	if len(id) > 8 {
		id = id[:8]
	}
	filename := fmt.Sprintf("load-metadata-%d-%s.json", metadata.Results.StartedAt.Unix(), id)
	path := filepath.Join(dir, filename)

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return "", fmt.Errorf("failed to create metadata file: %w", err)
	}

	if err := WriteMetadataToWriter(metadata, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return "", fmt.Errorf("failed to save metadata file: %w", err)
	}

	return path, nil
}

// LoadLatestMetadata finds and loads the most recent metadata file for the
// specified repository ("owner/repo") from dir. Files are ordered by the
// completion time they record.
//
// Returns nil if no metadata exists for the repository, or an error if
// loading fails.
func LoadLatestMetadata(dir, repo string) (*LoadMetadata, error) {
	pattern := filepath.Join(dir, "load-metadata-*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata files: %w", err)
	}

	var latest *LoadMetadata
	for _, file := range files {
		md, err := readMetadata(file)
		if err != nil {
			return nil, err
		}

		fullRepo := fmt.Sprintf("%s/%s", md.Parameters.Owner, md.Parameters.Repository)
		if fullRepo != repo {
			continue
		}
		if latest == nil || md.Results.CompletedAt.After(latest.Results.CompletedAt) {
			latest = md
		}
	}

	return latest, nil
}

func readMetadata(path string) (*LoadMetadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer file.Close()

	var metadata LoadMetadata
	if err := json.NewDecoder(file).Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metadata %s: %w", filepath.Base(path), err)
	}
	return &metadata, nil
}

// WriteMetadataToWriter serializes metadata to JSON and writes it to the
// provided io.Writer. The output is formatted with indentation for readability.
func WriteMetadataToWriter(metadata *LoadMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}
