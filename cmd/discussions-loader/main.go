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

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	loadererrors "github.com/sirseerhq/discussions-loader/internal/errors"
	"github.com/sirseerhq/discussions-loader/pkg/version"
	"github.com/spf13/cobra"
)

// globalOptions holds the flags shared by every subcommand.
type globalOptions struct {
	configPath string
	token      string
	logLevel   string
	logFormat  string
}

func main() {
	rootCmd := newRootCommand(os.Stdout, os.Stderr)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	globals := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "discussions-loader",
		Short: "Load GitHub Discussions into a content store",
		Long: `discussions-loader fetches the discussions of a GitHub repository through the
GraphQL API, optionally renders their Markdown bodies to HTML and writes them
as content entries to a store (NDJSON, snapshot file, SQLite or memory).

All selected categories are fetched in a single GraphQL round trip.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globals.configPath, "config", "", "Config file (default: .discussions-loader.yaml or ~/.discussions-loader/config.yaml)")
	flags.StringVar(&globals.token, "token", "", "GitHub token (overrides the env var named by github.token_env)")
	flags.StringVar(&globals.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, off")
	flags.StringVar(&globals.logFormat, "log-format", "", "Log format: console or json")

	rootCmd.AddCommand(
		newLoadCommand(globals),
		newQueryCommand(globals),
		newCategoriesCommand(globals),
	)

	return rootCmd
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, loadererrors.ErrInvalidToken) ||
		errors.Is(err, loadererrors.ErrRepoNotFound) ||
		errors.Is(err, loadererrors.ErrRateLimit) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, loadererrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
