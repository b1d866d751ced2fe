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

import "context"

// Transport executes a discussion query document against GitHub.
// This interface allows for easy mocking in tests.
type Transport interface {
	// Execute sends query with variables in a single request and returns the
	// discussion connections of the repository object, keyed by alias.
	// A null repository is reported as ErrRepoNotFound.
	Execute(ctx context.Context, query string, variables map[string]any) (Response, error)
}

// CategoryLister lists the discussion categories of a repository.
type CategoryLister interface {
	ListCategories(ctx context.Context, owner, repo string) ([]Category, error)
}
