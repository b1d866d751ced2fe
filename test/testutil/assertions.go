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
)

// ErrorEntryID is the id of the entry written when a load fails.
const ErrorEntryID = "discussions-loader:error"

// AssertEntryIDs validates that an ndjson file holds exactly the given ids
// in order
func AssertEntryIDs(t *testing.T, filePath string, wantIDs ...string) []Entry {
	t.Helper()

	entries := ReadNDJSON(t, filePath)
	got := make([]string, len(entries))
	for i, e := range entries {
		got[i] = e.ID
	}

	if strings.Join(got, ",") != strings.Join(wantIDs, ",") {
		t.Errorf("Expected entries %v, got %v", wantIDs, got)
	}
	return entries
}

// AssertErrorEntry validates that an ndjson file holds only the error entry
// and that it has the expected kind
func AssertErrorEntry(t *testing.T, filePath, wantKind string) {
	t.Helper()

	entries := AssertEntryIDs(t, filePath, ErrorEntryID)
	if len(entries) != 1 {
		return
	}
	if kind := entries[0].Data["kind"]; kind != wantKind {
		t.Errorf("Expected error kind %q, got %v (message: %v)", wantKind, kind, entries[0].Data["message"])
	}
}

// AssertMetadataFile validates the load report saved in dir and returns it
func AssertMetadataFile(t *testing.T, dir string) map[string]interface{} {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, "load-metadata-*.json"))
	if err != nil {
		t.Fatalf("Failed to glob metadata files: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("No metadata file found")
	}

	data, err := os.ReadFile(matches[len(matches)-1])
	if err != nil {
		t.Fatalf("Failed to read metadata file: %v", err)
	}

	var metadata map[string]interface{}
	if err := json.Unmarshal(data, &metadata); err != nil {
		t.Fatalf("Invalid metadata JSON: %v", err)
	}

	requiredFields := []string{"loader_version", "query_version", "load_id", "parameters", "results"}
	for _, field := range requiredFields {
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
