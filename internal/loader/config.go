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

package loader

import (
	"fmt"
	"net/url"
	"strings"

	loadererrors "github.com/sirseerhq/discussions-loader/internal/errors"
)

// DefaultEndpoint is GitHub's public GraphQL endpoint.
const DefaultEndpoint = "https://api.github.com/graphql"

// Config describes one load.
type Config struct {
	// RepoURL locates the repository; its last two path segments name the
	// owner and the repository.
	RepoURL string

	// APIKey is presented to GitHub as a bearer credential. An empty key sends
	// unauthenticated requests, which GitHub's GraphQL API rejects.
	APIKey string

	// CategoryIDs lists discussion category node ids to load, in order.
	// Empty loads every category.
	CategoryIDs []string

	// PageSize is the number of discussions requested per category, 1..100.
	// Zero selects the default of 100.
	PageSize int

	// Endpoint overrides the GraphQL endpoint, e.g. for GitHub Enterprise.
	Endpoint string
}

// ParseRepoURL extracts the owner and repository name from the last two
// '/'-separated segments of rawURL. Trailing slashes and a ".git" suffix are
// ignored, so "https://github.com/acme/widgets/" and
// "git@github.com:acme/widgets.git" both name acme/widgets.
func ParseRepoURL(rawURL string) (owner, repo string, err error) {
	s := strings.TrimSpace(rawURL)
	if u, perr := url.Parse(s); perr == nil && u.Scheme != "" && u.Host != "" {
		s = u.Path
	}
	s = strings.TrimRight(s, "/")
	s = strings.TrimSuffix(s, ".git")
	s = strings.ReplaceAll(s, ":", "/")

	parts := strings.Split(s, "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("%q does not end in owner/repo: %w", rawURL, loadererrors.ErrInvalidRepoURL)
	}

	owner, repo = parts[len(parts)-2], parts[len(parts)-1]
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("%q does not end in owner/repo: %w", rawURL, loadererrors.ErrInvalidRepoURL)
	}
	return owner, repo, nil
}
