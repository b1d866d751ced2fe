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

package integration

import (
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirseerhq/discussions-loader/test/testutil"
)

// TestUpstreamFailures checks that every upstream failure becomes a single
// error entry, and that --fail-on-error maps its kind to an exit code.
func TestUpstreamFailures(t *testing.T) {
	requireIntegration(t)

	tests := []struct {
		name         string
		endpoint     func(t *testing.T) string
		args         []string
		wantKind     string
		wantExitCode int
	}{
		{
			name: "bad credentials",
			endpoint: func(t *testing.T) string {
				return testutil.NewErrorServer(t, http.StatusUnauthorized).URL + "/graphql"
			},
			wantKind:     "auth",
			wantExitCode: 2,
		},
		{
			name: "rate limited",
			endpoint: func(t *testing.T) string {
				return testutil.NewRateLimitServer(t, 60).URL + "/graphql"
			},
			wantKind:     "rate_limit",
			wantExitCode: 2,
		},
		{
			name: "repository not found",
			endpoint: func(t *testing.T) string {
				return testutil.NewGraphQLErrorServer(t, "NOT_FOUND", "Could not resolve to a Repository with the name 'acme/widgets'.").URL + "/graphql"
			},
			wantKind:     "not_found",
			wantExitCode: 2,
		},
		{
			name: "query too complex",
			endpoint: func(t *testing.T) string {
				server := widgetsServer(t)
				server.SetMaxNodes(100)
				return server.GraphQLURL()
			},
			wantKind:     "complexity",
			wantExitCode: 1,
		},
		{
			name: "connection refused",
			endpoint: func(t *testing.T) string {
				server := testutil.NewErrorServer(t, http.StatusOK)
				url := server.URL + "/graphql"
				server.Close()
				return url
			},
			wantKind:     "network",
			wantExitCode: 3,
		},
		{
			name: "timeout",
			endpoint: func(t *testing.T) string {
				return testutil.NewSlowServer(t, 5*time.Second).URL + "/graphql"
			},
			args:         []string{"--timeout", "200ms"},
			wantKind:     "canceled",
			wantExitCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoint := tt.endpoint(t)
			outputFile := filepath.Join(t.TempDir(), "out.ndjson")

			args := append([]string{"--output", outputFile}, tt.args...)
			result := testutil.RunLoad(t, endpoint, "acme/widgets", args...)
			testutil.AssertCLISuccess(t, result)
			testutil.AssertContainsString(t, result.Stderr, "Load of acme/widgets failed ("+tt.wantKind+")")
			testutil.AssertErrorEntry(t, outputFile, tt.wantKind)

			args = append(args, "--fail-on-error")
			result = testutil.RunLoad(t, endpoint, "acme/widgets", args...)
			testutil.AssertExitCode(t, result, tt.wantExitCode)
			testutil.AssertErrorEntry(t, outputFile, tt.wantKind)
		})
	}
}
