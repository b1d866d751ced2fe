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
	"os"
	"testing"

	"github.com/sirseerhq/discussions-loader/test/testutil"
)

// requireIntegration skips tests that build and run the binary unless
// INTEGRATION_TEST=true.
func requireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}
}

// widgetsServer serves acme/widgets with two categories: three
// announcements and two ideas.
func widgetsServer(t *testing.T) *testutil.GitHubLikeMockServer {
	t.Helper()

	server := testutil.NewGitHubLikeMockServer(t, "test-token", "acme", "widgets")
	server.AddCategory(
		testutil.Category{ID: "DIC_announce", Name: "Announcements", Slug: "announcements"},
		testutil.BuildDiscussions(1, 3, "", "")...,
	)
	server.AddCategory(
		testutil.Category{ID: "DIC_ideas", Name: "Ideas", Slug: "ideas"},
		testutil.BuildDiscussions(4, 2, "", "")...,
	)
	return server
}
