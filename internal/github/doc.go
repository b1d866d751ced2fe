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

// Package github executes discussion queries against GitHub's GraphQL API.
//
// The package includes:
//   - A Transport interface that runs a prebuilt query document and returns the
//     per-alias discussion connections
//   - GraphQLTransport, the HTTP implementation built on hasura/go-graphql-client
//   - CategoryClient, a typed lookup of a repository's discussion categories
//     using shurcooL/graphql
//   - MockTransport for tests
//
// Basic usage:
//
//	transport := github.NewGraphQLTransport("your-github-token", "https://api.github.com/graphql")
//	resp, err := transport.Execute(ctx, doc.Query, doc.Variables)
//	for _, alias := range doc.Aliases {
//	    result := resp[alias]
//	    ...
//	}
//
// Failures are mapped onto the sentinel errors of internal/errors, so callers can
// use errors.Is to tell an invalid token from a missing repository or a network
// problem.
package github
