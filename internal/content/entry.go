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

// Package content defines the entries the loader hands to a host content store.
package content

// ErrorEntryID is the reserved id of the entry written in place of discussions
// when a load fails. It cannot collide with GitHub node ids, which never contain a colon.
const ErrorEntryID = "discussions-loader:error"

// Entry is one record written to a content store.
type Entry struct {
	// ID keys the entry; stores keep the last entry written for an id.
	ID string `json:"id"`

	// Data is the normalized record, a discussion.Discussion or ErrorData.
	Data any `json:"data"`

	// Rendered is present when a renderer was configured.
	Rendered *Rendered `json:"rendered,omitempty"`
}

// Rendered is the HTML form of a discussion body.
type Rendered struct {
	HTML     string   `json:"html"`
	Metadata Metadata `json:"metadata"`
}

// Metadata carries data extracted while rendering.
type Metadata struct {
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
}

// ErrorData is the payload of the error entry.
type ErrorData struct {
	// Kind classifies the failure: auth, not_found, rate_limit, complexity,
	// network, render or unknown.
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// IsError reports whether e is the reserved error entry.
func (e Entry) IsError() bool {
	return e.ID == ErrorEntryID
}
