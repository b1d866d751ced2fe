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

package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirseerhq/discussions-loader/internal/content"
	"github.com/sirseerhq/discussions-loader/internal/discussion"
	loadererrors "github.com/sirseerhq/discussions-loader/internal/errors"
	"github.com/sirseerhq/discussions-loader/internal/github"
	"github.com/sirseerhq/discussions-loader/internal/render"
	"github.com/sirseerhq/discussions-loader/internal/store"
)

// recordingSink keeps every write in order.
type recordingSink struct {
	mu     sync.Mutex
	writes []content.Entry
	err    error
}

func (s *recordingSink) Set(_ context.Context, e content.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.writes = append(s.writes, e)
	return nil
}

func (s *recordingSink) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.writes))
	for _, e := range s.writes {
		ids = append(ids, e.ID)
	}
	return ids
}

func node(id, body string) map[string]any {
	return map[string]any{
		"id":        id,
		"number":    1,
		"title":     "Discussion " + id,
		"body":      body,
		"url":       "https://github.com/acme/widgets/discussions/1",
		"createdAt": "2024-03-01T10:00:00Z",
		"updatedAt": "2024-03-02T10:00:00Z",
		"author":    map[string]any{"login": "octocat", "url": "https://github.com/octocat"},
		"labels":    map[string]any{"nodes": []any{}},
		"category":  map[string]any{"id": "DIC_a", "name": "General"},
	}
}

func TestLoad_TwoCategories(t *testing.T) {
	transport := github.NewMockTransportWithOptions(
		github.WithCategory("cat_0", node("1", "first")),
		github.WithCategory("cat_1", node("2", "second")),
	)
	sink := &recordingSink{}

	cfg := Config{
		RepoURL:     "https://github.com/acme/widgets",
		APIKey:      "token",
		CategoryIDs: []string{"A", "B"},
	}
	report, err := New(cfg, transport, sink).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := sink.ids(); !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Errorf("writes = %v, want [1 2]", got)
	}
	if transport.Calls() != 1 {
		t.Errorf("transport called %d times, want 1", transport.Calls())
	}

	vars := transport.LastVariables
	if vars["owner"] != "acme" || vars["repo"] != "widgets" || vars["first"] != 100 {
		t.Errorf("variables = %v", vars)
	}
	for _, want := range []string{`cat_0: discussions(first: $first, categoryId: "A")`, `cat_1: discussions(first: $first, categoryId: "B")`} {
		if !strings.Contains(transport.LastQuery, want) {
			t.Errorf("query missing %q", want)
		}
	}

	if report.Failed() || report.Results.Emitted != 2 || report.Results.Rejected != 0 {
		t.Errorf("report = %+v", report.Results)
	}
	if report.Parameters.Owner != "acme" || report.Parameters.Repository != "widgets" {
		t.Errorf("parameters = %+v", report.Parameters)
	}

	d, ok := sink.writes[0].Data.(discussion.Discussion)
	if !ok {
		t.Fatalf("entry data is %T, want discussion.Discussion", sink.writes[0].Data)
	}
	if d.Body != "first" || d.Author == nil || d.Author.Login != "octocat" || d.Category.Name != "General" {
		t.Errorf("discussion = %+v", d)
	}
	if sink.writes[0].Rendered != nil {
		t.Error("entry rendered without a renderer")
	}
}

func TestLoad_NoCategoriesQueriesAll(t *testing.T) {
	transport := github.NewMockTransportWithOptions(github.WithCategory("cat_0", node("D_1", "x")))
	sink := &recordingSink{}

	_, err := New(Config{RepoURL: "acme/widgets"}, transport, sink).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if strings.Count(transport.LastQuery, "discussions(") != 1 ||
		!strings.Contains(transport.LastQuery, "cat_0: discussions(first: $first, categoryId: null)") {
		t.Errorf("query = %s", transport.LastQuery)
	}
	if got := sink.ids(); !reflect.DeepEqual(got, []string{"D_1"}) {
		t.Errorf("writes = %v", got)
	}
}

func TestLoad_PreservesOrderWithinAndAcrossCategories(t *testing.T) {
	transport := github.NewMockTransportWithOptions(
		github.WithCategory("cat_0", node("c", "x"), node("a", "x")),
		github.WithCategory("cat_1", node("b", "x")),
		github.WithCategory("cat_2", node("e", "x"), node("d", "x")),
	)
	sink := &recordingSink{}

	cfg := Config{RepoURL: "acme/widgets", CategoryIDs: []string{"X", "Y", "Z"}}
	if _, err := New(cfg, transport, sink).Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := sink.ids(); !reflect.DeepEqual(got, []string{"c", "a", "b", "e", "d"}) {
		t.Errorf("writes = %v", got)
	}
}

func TestLoad_TransportFailure(t *testing.T) {
	tests := []struct {
		name     string
		mock     *github.MockTransport
		wantKind string
	}{
		{name: "auth", mock: github.NewMockTransportWithOptions(github.WithAuthFailure()), wantKind: "auth"},
		{name: "network", mock: github.NewMockTransportWithOptions(github.WithNetworkFailure()), wantKind: "network"},
		{name: "unclassified", mock: github.NewMockTransportWithOptions(github.WithError(errors.New("boom"))), wantKind: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{}
			report, err := New(Config{RepoURL: "acme/widgets"}, tt.mock, sink).Load(context.Background())
			if err != nil {
				t.Fatalf("Load() error = %v, want nil", err)
			}

			if len(sink.writes) != 1 {
				t.Fatalf("got %d writes, want exactly one error entry", len(sink.writes))
			}
			entry := sink.writes[0]
			if !entry.IsError() {
				t.Fatalf("entry id = %q, want %q", entry.ID, content.ErrorEntryID)
			}
			data, ok := entry.Data.(content.ErrorData)
			if !ok || data.Kind != tt.wantKind || data.Message == "" {
				t.Errorf("error data = %+v", entry.Data)
			}

			if !report.Failed() || report.Failure.Kind != tt.wantKind {
				t.Errorf("report failure = %+v", report.Failure)
			}
			if report.Results.Emitted != 0 {
				t.Errorf("Emitted = %d", report.Results.Emitted)
			}
		})
	}
}

func TestLoad_CanceledContextStillReports(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := store.NewMemory()
	report, err := New(Config{RepoURL: "acme/widgets"}, github.NewMockTransport(), s).Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if report.Failure == nil || report.Failure.Kind != "canceled" {
		t.Errorf("failure = %+v", report.Failure)
	}
	if _, ok, _ := s.Get(context.Background(), content.ErrorEntryID); !ok {
		t.Error("error entry not written")
	}
}

func TestLoad_DropsInvalidNodes(t *testing.T) {
	missingBody := node("D_2", "")
	delete(missingBody, "body")
	missingID := node("", "x")
	delete(missingID, "id")

	transport := github.NewMockTransportWithOptions(
		github.WithCategory("cat_0", node("D_1", "ok"), missingBody, missingID, json.RawMessage(`null`)),
		github.WithCategory("cat_1", node("D_3", "ok")),
	)
	sink := &recordingSink{}

	cfg := Config{RepoURL: "acme/widgets", CategoryIDs: []string{"A", "B"}}
	report, err := New(cfg, transport, sink).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := sink.ids(); !reflect.DeepEqual(got, []string{"D_1", "D_3"}) {
		t.Errorf("writes = %v, want [D_1 D_3]", got)
	}
	if report.Results.Rejected != 3 || len(report.Rejections) != 3 {
		t.Fatalf("rejections = %+v", report.Rejections)
	}

	first := report.Rejections[0]
	if first.Alias != "cat_0" || first.Index != 1 || first.ID != "D_2" || !strings.Contains(first.Reason, "body") {
		t.Errorf("first rejection = %+v", first)
	}
	if report.Rejections[1].Index != 2 || report.Rejections[2].Index != 3 {
		t.Errorf("rejection indexes = %+v", report.Rejections)
	}
}

func TestLoad_LabelShapesNormalize(t *testing.T) {
	wrapped := node("D_1", "x")
	wrapped["labels"] = map[string]any{"nodes": []any{map[string]any{"id": "L1", "name": "bug"}}}
	bare := node("D_2", "x")
	bare["labels"] = []any{map[string]any{"id": "L1", "name": "bug"}}

	transport := github.NewMockTransportWithOptions(github.WithCategory("cat_0", wrapped, bare))
	sink := &recordingSink{}
	if _, err := New(Config{RepoURL: "acme/widgets"}, transport, sink).Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	a := sink.writes[0].Data.(discussion.Discussion).Labels
	b := sink.writes[1].Data.(discussion.Discussion).Labels
	want := []discussion.Label{{ID: "L1", Name: "bug"}}
	if !reflect.DeepEqual(a, want) || !reflect.DeepEqual(b, want) {
		t.Errorf("labels = %+v and %+v, want %+v", a, b, want)
	}
}

func TestLoad_Idempotent(t *testing.T) {
	transport := github.NewMockTransportWithOptions(
		github.WithCategory("cat_0", node("D_1", "a"), node("D_2", "b")),
	)
	s := store.NewMemory()
	l := New(Config{RepoURL: "acme/widgets"}, transport, s)

	if _, err := l.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	first, _ := s.Entries(context.Background())

	if _, err := l.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	second, _ := s.Entries(context.Background())

	if !reflect.DeepEqual(first, second) {
		t.Errorf("second load changed the store:\n%+v\n%+v", first, second)
	}
	if s.Len() != 2 {
		t.Errorf("store has %d entries, want 2", s.Len())
	}
}

func TestLoad_SuccessClearsPreviousError(t *testing.T) {
	s := store.NewMemory()

	failing := github.NewMockTransportWithOptions(github.WithNetworkFailure())
	if _, err := New(Config{RepoURL: "acme/widgets"}, failing, s).Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get(context.Background(), content.ErrorEntryID); !ok {
		t.Fatal("error entry missing after failed load")
	}

	ok := github.NewMockTransportWithOptions(github.WithCategory("cat_0", node("D_1", "a")))
	if _, err := New(Config{RepoURL: "acme/widgets"}, ok, s).Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := s.IDs(); !reflect.DeepEqual(got, []string{"D_1"}) {
		t.Errorf("store ids = %v, want [D_1]", got)
	}
}

func TestLoad_PersistentStoreHoldsOnlyLatestLoad(t *testing.T) {
	for _, kind := range []string{store.KindSnapshot, store.KindSQLite} {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "entries."+kind)
			cfg := Config{RepoURL: "acme/widgets"}

			load := func(transport github.Transport) []string {
				t.Helper()
				s, err := store.Open(kind, path)
				if err != nil {
					t.Fatalf("Open() error = %v", err)
				}
				if _, err := New(cfg, transport, s).Load(ctx); err != nil {
					t.Fatalf("Load() error = %v", err)
				}
				if err := s.Close(); err != nil {
					t.Fatalf("Close() error = %v", err)
				}

				s, err = store.Open(kind, path)
				if err != nil {
					t.Fatalf("reopen error = %v", err)
				}
				defer s.Close()
				entries, err := s.Entries(ctx)
				if err != nil {
					t.Fatalf("Entries() error = %v", err)
				}
				ids := make([]string, 0, len(entries))
				for _, e := range entries {
					ids = append(ids, e.ID)
				}
				return ids
			}

			both := github.NewMockTransportWithOptions(github.WithCategory("cat_0", node("D_1", "a"), node("D_2", "b")))
			if got := load(both); !reflect.DeepEqual(got, []string{"D_1", "D_2"}) {
				t.Fatalf("first load = %v", got)
			}

			shrunk := github.NewMockTransportWithOptions(github.WithCategory("cat_0", node("D_1", "a")))
			if got := load(shrunk); !reflect.DeepEqual(got, []string{"D_1"}) {
				t.Errorf("after upstream removal = %v, want [D_1]", got)
			}

			failing := github.NewMockTransportWithOptions(github.WithNetworkFailure())
			if got := load(failing); !reflect.DeepEqual(got, []string{content.ErrorEntryID}) {
				t.Errorf("after failed load = %v, want only the error entry", got)
			}

			if got := load(both); !reflect.DeepEqual(got, []string{"D_1", "D_2"}) {
				t.Errorf("after recovery = %v", got)
			}
		})
	}
}

func TestLoad_ResolvesCategoryReferences(t *testing.T) {
	lister := &github.MockCategoryLister{Categories: []github.Category{
		{ID: "DIC_a", Name: "Announcements", Slug: "announcements"},
		{ID: "DIC_b", Name: "Ideas", Slug: "ideas"},
	}}
	transport := github.NewMockTransportWithOptions(
		github.WithCategory("cat_0", node("D_1", "a")),
		github.WithCategory("cat_1", node("D_2", "b")),
	)
	sink := &recordingSink{}

	cfg := Config{RepoURL: "acme/widgets", CategoryIDs: []string{"ideas", "DIC_a"}}
	report, err := New(cfg, transport, sink, WithCategoryLister(lister)).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !strings.Contains(transport.LastQuery, `cat_0: discussions(first: $first, categoryId: "DIC_b")`) ||
		!strings.Contains(transport.LastQuery, `cat_1: discussions(first: $first, categoryId: "DIC_a")`) {
		t.Errorf("query did not use resolved ids:\n%s", transport.LastQuery)
	}
	if !reflect.DeepEqual(report.Parameters.Categories, []string{"DIC_b", "DIC_a"}) {
		t.Errorf("report categories = %v", report.Parameters.Categories)
	}
	if lister.CallCount != 1 {
		t.Errorf("lister called %d times, want 1", lister.CallCount)
	}
}

func TestLoad_CategoryLookupFailure(t *testing.T) {
	tests := []struct {
		name      string
		listerErr error
		wantKind  string
		wantErr   error
	}{
		{name: "upstream failure becomes error entry", listerErr: loadererrors.ErrInvalidToken, wantKind: "auth"},
		{name: "unknown category is a configuration error", wantErr: loadererrors.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := &github.MockCategoryLister{
				Categories: []github.Category{{ID: "DIC_a", Slug: "announcements"}},
				Error:      tt.listerErr,
			}
			transport := github.NewMockTransport()
			sink := &recordingSink{}

			cfg := Config{RepoURL: "acme/widgets", CategoryIDs: []string{"ideas"}}
			report, err := New(cfg, transport, sink, WithCategoryLister(lister)).Load(context.Background())

			if transport.Calls() != 0 {
				t.Errorf("discussions queried %d times after failed lookup", transport.Calls())
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Load() error = %v, want %v", err, tt.wantErr)
				}
				if len(sink.writes) != 0 {
					t.Errorf("writes = %v, want none", sink.ids())
				}
				return
			}

			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got := sink.ids(); !reflect.DeepEqual(got, []string{content.ErrorEntryID}) {
				t.Fatalf("writes = %v, want only the error entry", got)
			}
			if report.Failure == nil || report.Failure.Kind != tt.wantKind {
				t.Errorf("failure = %+v", report.Failure)
			}
		})
	}
}

func TestLoad_Renderer(t *testing.T) {
	var calls atomic.Int32
	renderer := render.Func(func(_ context.Context, body string) (*content.Rendered, error) {
		calls.Add(1)
		return &content.Rendered{HTML: "<p>" + body + "</p>"}, nil
	})

	var nodes []any
	for i := 0; i < 20; i++ {
		nodes = append(nodes, node(fmt.Sprintf("D_%02d", i), fmt.Sprintf("body %d", i)))
	}
	transport := github.NewMockTransportWithOptions(github.WithCategory("cat_0", nodes...))
	sink := &recordingSink{}

	report, err := New(Config{RepoURL: "acme/widgets"}, transport, sink,
		WithRenderer(renderer),
		WithRenderConcurrency(4),
	).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if calls.Load() != 20 || len(sink.writes) != 20 {
		t.Fatalf("rendered %d, wrote %d", calls.Load(), len(sink.writes))
	}
	for i, e := range sink.writes {
		if e.ID != fmt.Sprintf("D_%02d", i) {
			t.Errorf("write %d = %s, order not preserved", i, e.ID)
		}
		if e.Rendered == nil || e.Rendered.HTML != fmt.Sprintf("<p>body %d</p>", i) {
			t.Errorf("entry %s rendered = %+v", e.ID, e.Rendered)
		}
	}
	if !report.Parameters.Rendered {
		t.Error("report does not record rendering")
	}
}

func TestLoad_MarkdownRenderer(t *testing.T) {
	transport := github.NewMockTransportWithOptions(
		github.WithCategory("cat_0", node("D_1", "---\ntitle: Hello\n---\n# Heading\n")),
	)
	sink := &recordingSink{}

	_, err := New(Config{RepoURL: "acme/widgets"}, transport, sink,
		WithRenderer(render.NewMarkdown(render.Options{})),
	).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	r := sink.writes[0].Rendered
	if r == nil || !strings.Contains(r.HTML, "<h1>Heading</h1>") || r.Metadata.Frontmatter["title"] != "Hello" {
		t.Errorf("rendered = %+v", r)
	}
}

func TestLoad_MarkdownRendererThematicBreakBody(t *testing.T) {
	transport := github.NewMockTransportWithOptions(
		github.WithCategory("cat_0",
			node("D_1", "---\nThanks everyone for joining the call\n---\n\nNotes below."),
			node("D_2", "plain"),
		),
	)
	sink := &recordingSink{}

	report, err := New(Config{RepoURL: "acme/widgets"}, transport, sink,
		WithRenderer(render.NewMarkdown(render.Options{})),
	).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if report.Failed() {
		t.Fatalf("load failed: %+v", report.Failure)
	}
	if got := sink.ids(); !reflect.DeepEqual(got, []string{"D_1", "D_2"}) {
		t.Fatalf("writes = %v", got)
	}
	r := sink.writes[0].Rendered
	if r == nil || r.Metadata.Frontmatter != nil || !strings.Contains(r.HTML, "<p>Notes below.</p>") {
		t.Errorf("rendered = %+v", r)
	}
}

func TestLoad_RendererFailure(t *testing.T) {
	renderer := render.Func(func(_ context.Context, body string) (*content.Rendered, error) {
		if body == "bad" {
			return nil, errors.New("unsupported syntax")
		}
		return &content.Rendered{HTML: body}, nil
	})

	transport := github.NewMockTransportWithOptions(
		github.WithCategory("cat_0", node("D_1", "good"), node("D_2", "bad"), node("D_3", "good")),
	)
	sink := &recordingSink{}

	report, err := New(Config{RepoURL: "acme/widgets"}, transport, sink, WithRenderer(renderer)).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(sink.writes) != 1 || !sink.writes[0].IsError() {
		t.Fatalf("writes = %v, want only the error entry", sink.ids())
	}
	data := sink.writes[0].Data.(content.ErrorData)
	if data.Kind != "render" || !strings.Contains(data.Message, "D_2") {
		t.Errorf("error data = %+v", data)
	}
	if !report.Failed() {
		t.Error("report not marked failed")
	}
}

func TestLoad_Truncation(t *testing.T) {
	transport := github.NewMockTransportWithOptions(
		github.WithResult("cat_0", github.CategoryResult{
			TotalCount: 150,
			PageInfo:   github.PageInfo{EndCursor: "abc", HasNextPage: true},
			Nodes:      []json.RawMessage{mustJSON(t, node("D_1", "x"))},
		}),
	)

	report, err := New(Config{RepoURL: "acme/widgets", CategoryIDs: []string{"DIC_a"}}, transport, &recordingSink{}).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Truncated) != 1 {
		t.Fatalf("truncated = %+v", report.Truncated)
	}
	tr := report.Truncated[0]
	if tr.Alias != "cat_0" || tr.CategoryID != "DIC_a" || tr.Fetched != 1 || tr.TotalCount != 150 {
		t.Errorf("truncation = %+v", tr)
	}
}

func TestLoad_MissingAlias(t *testing.T) {
	transport := github.NewMockTransportWithOptions(github.WithCategory("cat_1", node("D_2", "x")))
	sink := &recordingSink{}

	cfg := Config{RepoURL: "acme/widgets", CategoryIDs: []string{"A", "B"}}
	if _, err := New(cfg, transport, sink).Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := sink.ids(); !reflect.DeepEqual(got, []string{"D_2"}) {
		t.Errorf("writes = %v", got)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "single segment", cfg: Config{RepoURL: "widgets"}, wantErr: loadererrors.ErrInvalidRepoURL},
		{name: "empty", cfg: Config{RepoURL: ""}, wantErr: loadererrors.ErrInvalidRepoURL},
		{name: "missing repo", cfg: Config{RepoURL: "https://github.com/acme/"}, wantErr: loadererrors.ErrInvalidRepoURL},
		{name: "page size too large", cfg: Config{RepoURL: "acme/widgets", PageSize: 101}, wantErr: loadererrors.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := github.NewMockTransport()
			sink := &recordingSink{}

			report, err := New(tt.cfg, transport, sink).Load(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Load() error = %v, want %v", err, tt.wantErr)
			}
			if report != nil {
				t.Error("report returned for an invalid config")
			}
			if transport.Calls() != 0 || len(sink.writes) != 0 {
				t.Errorf("calls = %d, writes = %d; want none", transport.Calls(), len(sink.writes))
			}
		})
	}
}

func TestLoad_SinkFailure(t *testing.T) {
	transport := github.NewMockTransportWithOptions(github.WithCategory("cat_0", node("D_1", "x")))
	sink := &recordingSink{err: errors.New("disk full")}

	_, err := New(Config{RepoURL: "acme/widgets"}, transport, sink).Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Load() error = %v, want sink failure", err)
	}
}

func TestNewGitHub(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"repository": map[string]any{
					"cat_0": map[string]any{
						"totalCount": 1,
						"pageInfo":   map[string]any{"endCursor": nil, "hasNextPage": false},
						"nodes":      []any{node("D_kwDO", "hello")},
					},
				},
			},
		})
	}))
	defer server.Close()

	s := store.NewMemory()
	cfg := Config{RepoURL: "https://github.com/acme/widgets", APIKey: "secret", Endpoint: server.URL}
	report, err := NewGitHub(cfg, s).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if auth != "Bearer secret" {
		t.Errorf("Authorization = %q", auth)
	}
	if report.Results.Emitted != 1 || report.Results.APICallCount != 1 {
		t.Errorf("results = %+v", report.Results)
	}
	if _, ok, _ := s.Get(context.Background(), "D_kwDO"); !ok {
		t.Error("discussion not stored")
	}
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}
