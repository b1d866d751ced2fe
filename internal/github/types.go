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

package github

import "encoding/json"

// Response holds the discussion connections of one query, keyed by alias.
type Response map[string]CategoryResult

// CategoryResult is one aliased discussions connection.
type CategoryResult struct {
	TotalCount int      `json:"totalCount"`
	PageInfo   PageInfo `json:"pageInfo"`

	// Nodes are left undecoded; the loader validates each one on its own so a
	// malformed node does not fail its siblings.
	Nodes []json.RawMessage `json:"nodes"`
}

// PageInfo contains pagination information from GraphQL responses.
type PageInfo struct {
	EndCursor   string `json:"endCursor"`
	HasNextPage bool   `json:"hasNextPage"`
}

// Category is a repository's discussion category.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
