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

// Package errors defines sentinel errors for consistent error handling across the application.
// The CLI maps them to exit codes and the loader maps them to the kind recorded in an
// error entry, so callers can branch with errors.Is regardless of how deeply they are wrapped.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrInvalidToken indicates GitHub authentication failed.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrRepoNotFound indicates the specified repository does not exist or is not accessible.
	// Maps to exit code 2.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRateLimit indicates GitHub API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")

	// ErrQueryComplexity indicates the multi-category document exceeded GitHub's
	// query cost limits. Requesting fewer categories or a smaller page size helps.
	ErrQueryComplexity = errors.New("graphql query complexity exceeded")

	// ErrInvalidRepoURL indicates a repository URL whose last two path segments
	// do not name an owner and a repository.
	ErrInvalidRepoURL = errors.New("invalid repository url")

	// ErrInvalidArgument indicates a caller supplied an out-of-contract value,
	// such as an empty owner or a page size above GitHub's limit.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrRender indicates the body renderer failed for at least one discussion.
	ErrRender = errors.New("render failed")
)
