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
	"errors"
	"regexp"
	"strconv"
	"strings"
	"testing"

	loadererrors "github.com/sirseerhq/discussions-loader/internal/errors"
)

var aliasPattern = regexp.MustCompile(`(cat_\d+): discussions\(first: \$first, categoryId: (null|"[^"]*")\)`)

func TestBuild_AliasesFollowInputOrder(t *testing.T) {
	tests := []struct {
		name       string
		categories []string
		wantArgs   []string
	}{
		{
			name:       "single category",
			categories: []string{"DIC_A"},
			wantArgs:   []string{`"DIC_A"`},
		},
		{
			name:       "two categories",
			categories: []string{"CAT_A", "CAT_B"},
			wantArgs:   []string{`"CAT_A"`, `"CAT_B"`},
		},
		{
			name:       "mixed with no filter",
			categories: []string{"CAT_A", NoFilter, "CAT_C"},
			wantArgs:   []string{`"CAT_A"`, "null", `"CAT_C"`},
		},
		{
			name:       "five categories",
			categories: []string{"a", "b", "c", "d", "e"},
			wantArgs:   []string{`"a"`, `"b"`, `"c"`, `"d"`, `"e"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Build(Options{Owner: "acme", Repo: "widgets", CategoryIDs: tt.categories})
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}

			matches := aliasPattern.FindAllStringSubmatch(doc.Query, -1)
			if len(matches) != len(tt.categories) {
				t.Fatalf("got %d aliased sub-queries, want %d\n%s", len(matches), len(tt.categories), doc.Query)
			}
			if got := strings.Count(doc.Query, "discussions("); got != len(tt.categories) {
				t.Errorf("discussions selections = %d, want %d", got, len(tt.categories))
			}

			for i, m := range matches {
				if want := "cat_" + strconv.Itoa(i); m[1] != want {
					t.Errorf("alias %d = %s, want %s", i, m[1], want)
				}
				if m[2] != tt.wantArgs[i] {
					t.Errorf("alias %d categoryId = %s, want %s", i, m[2], tt.wantArgs[i])
				}
				if doc.Aliases[i] != m[1] {
					t.Errorf("Aliases[%d] = %s, want %s", i, doc.Aliases[i], m[1])
				}
			}
		})
	}
}

func TestBuild_DefaultsToSingleUnfilteredQuery(t *testing.T) {
	for _, categories := range [][]string{nil, {}} {
		doc, err := Build(Options{Owner: "acme", Repo: "widgets", CategoryIDs: categories})
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		matches := aliasPattern.FindAllStringSubmatch(doc.Query, -1)
		if len(matches) != 1 {
			t.Fatalf("got %d sub-queries, want 1", len(matches))
		}
		if matches[0][1] != "cat_0" || matches[0][2] != "null" {
			t.Errorf("got %s with categoryId %s, want cat_0 with null", matches[0][1], matches[0][2])
		}
		if len(doc.Categories) != 1 || doc.Categories[0] != NoFilter {
			t.Errorf("Categories = %q, want [NoFilter]", doc.Categories)
		}
	}
}

func TestBuild_Variables(t *testing.T) {
	tests := []struct {
		name      string
		pageSize  int
		wantFirst int
	}{
		{"default page size", 0, DefaultPageSize},
		{"explicit page size", 25, 25},
		{"maximum page size", 100, 100},
		{"minimum page size", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Build(Options{Owner: "acme", Repo: "widgets", PageSize: tt.pageSize})
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}

			if doc.Variables[VarOwner] != "acme" {
				t.Errorf("owner = %v, want acme", doc.Variables[VarOwner])
			}
			if doc.Variables[VarRepo] != "widgets" {
				t.Errorf("repo = %v, want widgets", doc.Variables[VarRepo])
			}
			if doc.Variables[VarFirst] != tt.wantFirst {
				t.Errorf("first = %v, want %d", doc.Variables[VarFirst], tt.wantFirst)
			}
			if len(doc.Variables) != 3 {
				t.Errorf("len(Variables) = %d, want 3", len(doc.Variables))
			}
		})
	}
}

func TestBuild_DocumentShape(t *testing.T) {
	doc, err := Build(Options{Owner: "acme", Repo: "widgets", CategoryIDs: []string{"A", "B"}})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wantFragments := []string{
		"query GetMultipleCategoryDiscussions($owner: String!, $repo: String!, $first: Int!) {",
		"repository(owner: $owner, name: $repo) {",
		"totalCount",
		"endCursor",
		"hasNextPage",
		"labels(first: 100) {",
		"author {",
		"category {",
		"createdAt",
		"updatedAt",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(doc.Query, fragment) {
			t.Errorf("query missing %q", fragment)
		}
	}

	if strings.Count(doc.Query, "query ") != 1 {
		t.Error("expected exactly one operation")
	}
	if strings.Count(doc.Query, "{") != strings.Count(doc.Query, "}") {
		t.Error("unbalanced braces in generated document")
	}
	if strings.Count(doc.Query, "repository(") != 1 {
		t.Error("expected exactly one repository selection")
	}
}

func TestBuild_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"empty owner", Options{Repo: "widgets"}},
		{"empty repo", Options{Owner: "acme"}},
		{"blank owner", Options{Owner: "  ", Repo: "widgets"}},
		{"negative page size", Options{Owner: "acme", Repo: "widgets", PageSize: -1}},
		{"page size above limit", Options{Owner: "acme", Repo: "widgets", PageSize: 101}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.opts)
			if err == nil {
				t.Fatal("Build() error = nil, want error")
			}
			if !errors.Is(err, loadererrors.ErrInvalidArgument) {
				t.Errorf("Build() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestBuild_DoesNotAliasInput(t *testing.T) {
	categories := []string{"A", "B"}
	doc, err := Build(Options{Owner: "acme", Repo: "widgets", CategoryIDs: categories})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	categories[0] = "changed"
	if doc.Categories[0] != "A" {
		t.Errorf("Categories[0] = %q, want A", doc.Categories[0])
	}
}

func TestAlias(t *testing.T) {
	if got := Alias(0); got != "cat_0" {
		t.Errorf("Alias(0) = %s, want cat_0", got)
	}
	if got := Alias(12); got != "cat_12" {
		t.Errorf("Alias(12) = %s, want cat_12", got)
	}
}
