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
	"fmt"
	"strings"

	"github.com/shurcooL/graphql"

	loadererrors "github.com/sirseerhq/discussions-loader/internal/errors"
	"github.com/sirseerhq/discussions-loader/internal/giterror"
)

// CategoryIDPrefix starts every GitHub discussion category node id.
const CategoryIDPrefix = "DIC_"

// maxCategories is the number of categories GitHub allows per repository.
const maxCategories = 25

// CategoryClient looks up a repository's discussion categories.
type CategoryClient struct {
	client    *graphql.Client
	inspector giterror.Inspector
}

// NewCategoryClient creates a category client for the given token and endpoint.
func NewCategoryClient(token, endpoint string) *CategoryClient {
	return &CategoryClient{
		client:    graphql.NewClient(endpoint, newHTTPClient(token)),
		inspector: giterror.NewErrorChainInspector(giterror.NewInspector()),
	}
}

// ListCategories implements CategoryLister.
func (c *CategoryClient) ListCategories(ctx context.Context, owner, repo string) ([]Category, error) {
	var query struct {
		Repository struct {
			DiscussionCategories struct {
				Nodes []struct {
					ID   graphql.String
					Name graphql.String
					Slug graphql.String
				}
			} `graphql:"discussionCategories(first: $first)"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]interface{}{
		"owner": graphql.String(owner),
		"repo":  graphql.String(repo),
		"first": graphql.Int(maxCategories),
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("category query canceled: %w", ctx.Err())
		}
		return nil, mapError(c.inspector, err, owner+"/"+repo)
	}

	nodes := query.Repository.DiscussionCategories.Nodes
	categories := make([]Category, 0, len(nodes))
	for _, n := range nodes {
		categories = append(categories, Category{
			ID:   string(n.ID),
			Name: string(n.Name),
			Slug: string(n.Slug),
		})
	}
	return categories, nil
}

// ResolveCategories turns category references into category ids, keeping their
// order. References that already look like node ids, and the empty no-filter
// reference, pass through; anything else is matched against the slugs and
// then the names of the repository's categories. The lister is only consulted
// when at least one reference needs resolving.
func ResolveCategories(ctx context.Context, lister CategoryLister, owner, repo string, refs []string) ([]string, error) {
	ids := make([]string, len(refs))
	var pending []int
	for i, ref := range refs {
		if ref == "" || strings.HasPrefix(ref, CategoryIDPrefix) {
			ids[i] = ref
			continue
		}
		pending = append(pending, i)
	}
	if len(pending) == 0 {
		return ids, nil
	}

	categories, err := lister.ListCategories(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	for _, i := range pending {
		id, ok := lookupCategory(categories, refs[i])
		if !ok {
			return nil, fmt.Errorf("no discussion category %q in %s/%s: %w",
				refs[i], owner, repo, loadererrors.ErrInvalidArgument)
		}
		ids[i] = id
	}
	return ids, nil
}

func lookupCategory(categories []Category, ref string) (string, bool) {
	for _, c := range categories {
		if strings.EqualFold(c.Slug, ref) {
			return c.ID, true
		}
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, ref) {
			return c.ID, true
		}
	}
	return "", false
}
