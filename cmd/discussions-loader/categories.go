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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/sirseerhq/discussions-loader/internal/config"
	"github.com/sirseerhq/discussions-loader/internal/github"
	"github.com/spf13/cobra"
)

func newCategoriesCommand(globals *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "categories <repo-url>",
		Short: "List a repository's discussion categories",
		Long: `List the discussion categories of a GitHub repository with their node ids,
names and slugs. Any of the three can be passed to "load --category".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(globals, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			return runCategories(ctx, cfg, globals.token, args[0], asJSON, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print categories as JSON")

	return cmd
}

// runCategories executes the categories command
func runCategories(ctx context.Context, cfg *config.Config, tokenFlag, repoURL string, asJSON bool, stdout io.Writer) error {
	t, err := parseTarget(repoURL)
	if err != nil {
		return err
	}

	token, err := requireToken(cfg, tokenFlag)
	if err != nil {
		return err
	}

	categories, err := github.NewCategoryClient(token, cfg.GitHub.GraphQLEndpoint).ListCategories(ctx, t.owner, t.repo)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(categories)
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSLUG")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.Slug)
	}
	return tw.Flush()
}
