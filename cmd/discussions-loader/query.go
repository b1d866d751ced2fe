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
	"time"

	"github.com/sirseerhq/discussions-loader/internal/config"
	"github.com/sirseerhq/discussions-loader/internal/github"
	"github.com/sirseerhq/discussions-loader/internal/query"
	"github.com/spf13/cobra"
)

type queryOptions struct {
	categories []string
	pageSize   int
	asJSON     bool
}

func newQueryCommand(globals *globalOptions) *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query <repo-url>",
		Short: "Print the GraphQL query a load would send",
		Long: `Print the GraphQL document and variables that "load" would send for a
repository, without sending them.

With --json the output is a request body that can be posted to the GraphQL
endpoint directly. Category slugs still need a token to be resolved to ids.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(globals, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			return runQuery(ctx, cfg, globals.token, args[0], opts, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&opts.categories, "category", nil, "Category id, slug or name (repeatable; default: all)")
	flags.IntVar(&opts.pageSize, "page-size", 0, "Discussions per category, 1-100 (default from config)")
	flags.BoolVar(&opts.asJSON, "json", false, "Print a JSON request body")

	return cmd
}

// runQuery executes the query command
func runQuery(ctx context.Context, cfg *config.Config, tokenFlag, repoURL string, opts *queryOptions, stdout io.Writer) error {
	t, err := parseTarget(repoURL)
	if err != nil {
		return err
	}

	refs := opts.categories
	if len(refs) == 0 {
		refs = cfg.Categories(t.String())
	}
	lister := github.NewCategoryClient(cfg.Token(tokenFlag), cfg.GitHub.GraphQLEndpoint)
	categoryIDs, err := github.ResolveCategories(ctx, lister, t.owner, t.repo, refs)
	if err != nil {
		return fmt.Errorf("failed to resolve categories: %w", err)
	}

	pageSize := opts.pageSize
	if pageSize == 0 {
		pageSize = cfg.PageSize(t.String())
	}

	doc, err := query.Build(query.Options{
		Owner:       t.owner,
		Repo:        t.repo,
		CategoryIDs: categoryIDs,
		PageSize:    pageSize,
	})
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Query         string         `json:"query"`
			OperationName string         `json:"operationName"`
			Variables     map[string]any `json:"variables"`
		}{doc.Query, query.OperationName, doc.Variables})
	}

	vars, err := json.MarshalIndent(doc.Variables, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode variables: %w", err)
	}
	fmt.Fprintln(stdout, doc.Query)
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "# variables\n%s\n", vars)
	return nil
}
