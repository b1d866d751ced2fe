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

// Package main implements the discussions-loader command-line interface.
// It loads the discussions of a GitHub repository into a content store,
// standing in for the site generator that normally hosts the loader.
//
// Commands:
//   - load: fetch, render and store discussions
//   - query: print the GraphQL document a load would send
//   - categories: list a repository's discussion categories
//
// Usage:
//
//	discussions-loader load <repo-url> [flags]
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	discussions-loader load https://github.com/acme/widgets \
//	    --category announcements --output discussions.ndjson
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication, not found or rate limit error
//   - 3: Network error
package main
