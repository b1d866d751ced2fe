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

package query

import (
	"fmt"
	"strconv"
	"strings"

	loadererrors "github.com/sirseerhq/discussions-loader/internal/errors"
)

// NoFilter is the category identifier that requests discussions from every
// category. It is rendered as a literal `categoryId: null`.
const NoFilter = ""

const (
	// DefaultPageSize is used when Options.PageSize is zero.
	DefaultPageSize = 100

	// MaxPageSize is GitHub's upper bound for the first argument of a connection.
	MaxPageSize = 100

	// OperationName names the generated query operation.
	OperationName = "GetMultipleCategoryDiscussions"

	aliasPrefix = "cat_"
)

// Variable names declared by every generated document.
const (
	VarOwner = "owner"
	VarRepo  = "repo"
	VarFirst = "first"
)

// discussionAttributes is the selection requested for every discussion node.
const discussionAttributes = `id
number
title
body
url
labels(first: 100) {
  nodes {
    id
    name
  }
}
createdAt
updatedAt
author {
  login
  url
}
category {
  id
  name
}`

// Options configures Build.
type Options struct {
	// Owner is the repository owner login. Required.
	Owner string

	// Repo is the repository name. Required.
	Repo string

	// CategoryIDs lists the categories to query, in order. NoFilter entries
	// query every category. A nil or empty slice behaves like []string{NoFilter}.
	CategoryIDs []string

	// PageSize is the number of discussions requested per category.
	// Zero selects DefaultPageSize.
	PageSize int
}

// Document is a ready-to-execute GraphQL request.
type Document struct {
	// Query is the complete GraphQL document.
	Query string

	// Variables always holds owner, repo and first.
	Variables map[string]any

	// Aliases lists the field alias of every category sub-query in input order.
	Aliases []string

	// Categories is the effective category list; Categories[i] was queried under Aliases[i].
	Categories []string
}

// Alias returns the field alias used for the category at index i.
func Alias(i int) string {
	return aliasPrefix + strconv.Itoa(i)
}

// Build constructs the multi-category discussions document for the given options.
// It returns ErrInvalidArgument when owner or repo is empty or the page size is
// outside 1..MaxPageSize.
func Build(opts Options) (*Document, error) {
	if strings.TrimSpace(opts.Owner) == "" || strings.TrimSpace(opts.Repo) == "" {
		return nil, fmt.Errorf("owner and repo must be non-empty, got %q/%q: %w",
			opts.Owner, opts.Repo, loadererrors.ErrInvalidArgument)
	}

	pageSize := opts.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return nil, fmt.Errorf("page size must be between 1 and %d, got %d: %w",
			MaxPageSize, pageSize, loadererrors.ErrInvalidArgument)
	}

	categories := opts.CategoryIDs
	if len(categories) == 0 {
		categories = []string{NoFilter}
	}

	doc := &Document{
		Variables: map[string]any{
			VarOwner: opts.Owner,
			VarRepo:  opts.Repo,
			VarFirst: pageSize,
		},
		Aliases:    make([]string, 0, len(categories)),
		Categories: append([]string(nil), categories...),
	}

	var b strings.Builder
	fmt.Fprintf(&b, "query %s($%s: String!, $%s: String!, $%s: Int!) {\n",
		OperationName, VarOwner, VarRepo, VarFirst)
	fmt.Fprintf(&b, "  repository(owner: $%s, name: $%s) {\n", VarOwner, VarRepo)
	for i, categoryID := range categories {
		alias := Alias(i)
		doc.Aliases = append(doc.Aliases, alias)
		writeCategoryField(&b, alias, categoryID)
	}
	b.WriteString("  }\n}\n")

	doc.Query = b.String()
	return doc, nil
}

// writeCategoryField appends one aliased discussions selection.
func writeCategoryField(b *strings.Builder, alias, categoryID string) {
	fmt.Fprintf(b, "    %s: discussions(first: $%s, categoryId: %s) {\n", alias, VarFirst, categoryLiteral(categoryID))
	b.WriteString("      totalCount\n")
	b.WriteString("      pageInfo {\n        endCursor\n        hasNextPage\n      }\n")
	b.WriteString("      nodes {\n")
	for _, line := range strings.Split(discussionAttributes, "\n") {
		b.WriteString("        ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("      }\n")
	b.WriteString("    }\n")
}

// categoryLiteral renders a category id as a GraphQL argument value.
func categoryLiteral(categoryID string) string {
	if categoryID == NoFilter {
		return "null"
	}
	return `"` + categoryID + `"`
}
