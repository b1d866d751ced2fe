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

import (
	"context"
	"encoding/json"
	"fmt"

	hasura "github.com/hasura/go-graphql-client"

	loadererrors "github.com/sirseerhq/discussions-loader/internal/errors"
	"github.com/sirseerhq/discussions-loader/internal/giterror"
	"github.com/sirseerhq/discussions-loader/internal/query"
)

// GraphQLTransport implements Transport over GitHub's GraphQL endpoint.
// The query document is sent as built; nothing is rewritten or paginated.
type GraphQLTransport struct {
	client    *hasura.Client
	inspector giterror.Inspector
}

// NewGraphQLTransport creates a transport for the given token and endpoint,
// such as a GitHub Enterprise URL. Requests go through newHTTPClient.
func NewGraphQLTransport(token, endpoint string) *GraphQLTransport {
	return &GraphQLTransport{
		client:    hasura.NewClient(endpoint, newHTTPClient(token)),
		inspector: giterror.NewErrorChainInspector(giterror.NewInspector()),
	}
}

// Execute implements Transport.
func (t *GraphQLTransport) Execute(ctx context.Context, query string, variables map[string]any) (Response, error) {
	data, err := t.client.ExecRaw(ctx, query, variables)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("discussion query canceled: %w", ctxErr)
		}
		return nil, t.mapError(err, variables)
	}

	var payload struct {
		Repository Response `json:"repository"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode discussion response: %w", err)
	}
	if payload.Repository == nil {
		return nil, fmt.Errorf("repository '%s' not found: %w", repoName(variables), loadererrors.ErrRepoNotFound)
	}

	return payload.Repository, nil
}

// mapError maps GraphQL errors to our domain errors with actionable messages
func (t *GraphQLTransport) mapError(err error, variables map[string]any) error {
	return mapError(t.inspector, err, repoName(variables))
}

func mapError(inspector giterror.Inspector, err error, repo string) error {
	if err == nil {
		return nil
	}

	// Check rate limit first, as 403 can be both auth and rate limit
	if inspector.IsRateLimitError(err) {
		return fmt.Errorf("GitHub API rate limit exceeded. Please wait before retrying: %w", loadererrors.ErrRateLimit)
	}

	if inspector.IsAuthError(err) {
		return fmt.Errorf("GitHub API authentication failed. Please provide a valid token via --token flag or GITHUB_TOKEN environment variable: %w", loadererrors.ErrInvalidToken)
	}

	if inspector.IsNotFoundError(err) {
		return fmt.Errorf("repository '%s' not found. Please check the repository name and your access permissions: %w", repo, loadererrors.ErrRepoNotFound)
	}

	if inspector.IsComplexityError(err) {
		return fmt.Errorf("GraphQL query complexity exceeded. Requesting fewer categories or a smaller page size may help: %w", loadererrors.ErrQueryComplexity)
	}

	if inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to GitHub API. Please check your internet connection and try again: %w", loadererrors.ErrNetworkFailure)
	}

	return fmt.Errorf("failed to fetch discussions: %w", err)
}

func repoName(variables map[string]any) string {
	return fmt.Sprintf("%v/%v", variables[query.VarOwner], variables[query.VarRepo])
}
