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
	"path/filepath"
	"testing"

	"github.com/sirseerhq/discussions-loader/test/testutil"
	"gopkg.in/yaml.v3"
)

// TestConfigFilePrecedence tests configuration loading and precedence rules
// for the page size: flag over environment over repository over defaults.
func TestConfigFilePrecedence(t *testing.T) {
	requireIntegration(t)

	tests := []struct {
		name          string
		configFile    map[string]interface{}
		envVars       map[string]string
		cliArgs       []string
		expectedFirst float64
	}{
		{
			name:          "built-in default",
			expectedFirst: 100,
		},
		{
			name: "config file only",
			configFile: map[string]interface{}{
				"defaults": map[string]interface{}{"page_size": 25},
			},
			expectedFirst: 25,
		},
		{
			name: "env var overrides config file",
			configFile: map[string]interface{}{
				"defaults": map[string]interface{}{"page_size": 25},
			},
			envVars:       map[string]string{"DISCUSSIONS_PAGE_SIZE": "30"},
			expectedFirst: 30,
		},
		{
			name: "repository-specific config",
			configFile: map[string]interface{}{
				"defaults": map[string]interface{}{"page_size": 50},
				"repositories": map[string]interface{}{
					"acme/widgets": map[string]interface{}{"page_size": 15},
				},
			},
			expectedFirst: 15,
		},
		{
			name: "CLI flag overrides everything",
			configFile: map[string]interface{}{
				"repositories": map[string]interface{}{
					"acme/widgets": map[string]interface{}{"page_size": 15},
				},
			},
			envVars:       map[string]string{"DISCUSSIONS_PAGE_SIZE": "30"},
			cliArgs:       []string{"--page-size", "40"},
			expectedFirst: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := widgetsServer(t)
			testDir := t.TempDir()
			outputFile := filepath.Join(testDir, "output.ndjson")

			args := []string{"load", "acme/widgets", "--output", outputFile}
			if tt.configFile != nil {
				configPath := filepath.Join(testDir, "config.yaml")
				configData, err := yaml.Marshal(tt.configFile)
				if err != nil {
					t.Fatalf("Failed to marshal config: %v", err)
				}
				if err := os.WriteFile(configPath, configData, 0o644); err != nil {
					t.Fatalf("Failed to write config file: %v", err)
				}
				args = append([]string{"--config", configPath}, args...)
			}
			args = append(args, tt.cliArgs...)

			env := testutil.TestEnv(t, server.GraphQLURL())
			for k, v := range tt.envVars {
				env[k] = v
			}

			result := testutil.RunCLI(t, args, env)
			testutil.AssertCLISuccess(t, result)

			history := server.GetRequestHistory()
			if len(history) != 1 {
				t.Fatalf("Expected 1 request, got %d", len(history))
			}
			if first := history[0].Variables["first"]; first != tt.expectedFirst {
				t.Errorf("Expected first=%v, got %v", tt.expectedFirst, first)
			}
		})
	}
}

// TestConfiguredCategories checks that categories from the config file are
// used when no --category flag is given
func TestConfiguredCategories(t *testing.T) {
	requireIntegration(t)

	server := widgetsServer(t)
	testDir := t.TempDir()
	outputFile := filepath.Join(testDir, "output.ndjson")
	configPath := filepath.Join(testDir, "config.toml")

	config := "[repositories.\"acme/widgets\"]\ncategories = [\"ideas\"]\n"
	if err := os.WriteFile(configPath, []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}

	result := testutil.RunCLI(t, []string{"--config", configPath, "load", "acme/widgets", "--output", outputFile}, testutil.TestEnv(t, server.GraphQLURL()))
	testutil.AssertCLISuccess(t, result)
	testutil.AssertEntryIDs(t, outputFile, "D_4", "D_5")
}

// TestTokenPrecedence tests GitHub token configuration precedence
func TestTokenPrecedence(t *testing.T) {
	requireIntegration(t)

	tests := []struct {
		name    string
		env     map[string]string
		args    []string
		wantErr bool
	}{
		{
			name: "flag wins over env",
			env:  map[string]string{"GITHUB_TOKEN": "wrong"},
			args: []string{"--token", "test-token"},
		},
		{
			name: "GITHUB_TOKEN",
			env:  map[string]string{"GITHUB_TOKEN": "test-token"},
		},
		{
			name: "GH_API_KEY fallback",
			env:  map[string]string{"GITHUB_TOKEN": "", "GH_API_KEY": "test-token"},
		},
		{
			name:    "wrong token",
			env:     map[string]string{"GITHUB_TOKEN": "wrong"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := widgetsServer(t)
			outputFile := filepath.Join(t.TempDir(), "output.ndjson")

			env := testutil.TestEnv(t, server.GraphQLURL())
			for k, v := range tt.env {
				env[k] = v
			}
			args := append([]string{"load", "acme/widgets", "--output", outputFile, "--fail-on-error"}, tt.args...)

			result := testutil.RunCLI(t, args, env)
			if tt.wantErr {
				testutil.AssertExitCode(t, result, 2)
				testutil.AssertErrorEntry(t, outputFile, "auth")
				return
			}
			testutil.AssertCLISuccess(t, result)
			testutil.AssertEntryIDs(t, outputFile, "D_1", "D_2", "D_3", "D_4", "D_5")
		})
	}
}
