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

// Package metadata types define the structures used for tracking and
// persisting information about load operations.
package metadata

import (
	"time"
)

// LoadMetadata represents the complete report of a single load. It captures
// what was requested, what was written to the store, which records were
// rejected and, for failed loads, why nothing was written.
type LoadMetadata struct {
	LoaderVersion string      `json:"loader_version"`
	QueryVersion  string      `json:"query_version"`
	LoadID        string      `json:"load_id"`
	Parameters    LoadParams  `json:"parameters"`
	Results       LoadResults `json:"results"`

	Rejections []Rejection  `json:"rejections,omitempty"`
	Truncated  []Truncation `json:"truncated,omitempty"`
	Failure    *Failure     `json:"failure,omitempty"`

	PreviousLoad *LoadRef `json:"previous_load,omitempty"`
}

// Failed reports whether the load wrote an error entry instead of discussions.
func (m *LoadMetadata) Failed() bool {
	return m != nil && m.Failure != nil
}

// LoadParams captures the input parameters of a load.
type LoadParams struct {
	Owner      string   `json:"owner"`
	Repository string   `json:"repository"`
	Categories []string `json:"categories"`
	PageSize   int      `json:"page_size"`
	Rendered   bool     `json:"rendered"`
}

// LoadResults contains statistics about a completed load: how many records
// reached the store, the discussion number and date ranges they cover, and
// timing.
type LoadResults struct {
	Emitted          int       `json:"emitted"`
	Rejected         int       `json:"rejected"`
	FirstDiscussion  int       `json:"first_discussion_number,omitempty"`
	LastDiscussion   int       `json:"last_discussion_number,omitempty"`
	OldestDiscussion time.Time `json:"oldest_discussion_date"`
	NewestDiscussion time.Time `json:"newest_discussion_date"`
	Duration         string    `json:"load_duration"`
	APICallCount     int       `json:"api_calls_made"`
	StartedAt        time.Time `json:"started_at"`
	CompletedAt      time.Time `json:"completed_at"`
}

// Rejection describes a node dropped during validation.
type Rejection struct {
	Alias  string `json:"alias"`
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

// Truncation records a category whose results did not fit in one page.
type Truncation struct {
	Alias      string `json:"alias"`
	CategoryID string `json:"category_id,omitempty"`
	Fetched    int    `json:"fetched"`
	TotalCount int    `json:"total_count"`
}

// Failure describes why a load wrote an error entry.
type Failure struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// LoadRef is a lightweight reference to a previous load of the same repository.
type LoadRef struct {
	LoadID      string    `json:"load_id"`
	CompletedAt time.Time `json:"completed_at"`
	Emitted     int       `json:"emitted"`
}
