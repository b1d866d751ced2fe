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
	"runtime"
	"strings"

	"github.com/sirseerhq/discussions-loader/internal/content"
	"github.com/sirseerhq/discussions-loader/internal/discussion"
	loadererrors "github.com/sirseerhq/discussions-loader/internal/errors"
	"github.com/sirseerhq/discussions-loader/internal/github"
	"github.com/sirseerhq/discussions-loader/internal/logger"
	"github.com/sirseerhq/discussions-loader/internal/metadata"
	"github.com/sirseerhq/discussions-loader/internal/query"
	"github.com/sirseerhq/discussions-loader/internal/render"
	"github.com/sirseerhq/discussions-loader/pkg/version"
)

// Sink receives the entries of a load. Set must keep the last entry written
// for an id and be safe for concurrent use.
type Sink interface {
	Set(ctx context.Context, entry content.Entry) error
}

// Deleter is implemented by sinks that can remove an entry. A successful load
// uses it to clear the error entry left by an earlier failed load.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// Replacer is implemented by sinks that keep content between loads. Every
// load replaces their whole content, so records removed upstream and records
// of an earlier load never sit next to the error entry.
type Replacer interface {
	Replace(ctx context.Context, entries []content.Entry) error
}

// Loader loads one repository's discussions into a sink.
type Loader struct {
	cfg       Config
	transport github.Transport
	sink      Sink

	renderer    render.Renderer
	categories  github.CategoryLister
	concurrency int
	log         *logger.Logger
	version     string
}

// Option configures a Loader.
type Option func(*Loader)

// WithRenderer renders every accepted discussion body with r.
func WithRenderer(r render.Renderer) Option {
	return func(l *Loader) {
		l.renderer = r
	}
}

// WithCategoryLister resolves category slugs and names in Config.CategoryIDs
// through lister at the start of every load. Without it every reference is
// queried as given.
func WithCategoryLister(lister github.CategoryLister) Option {
	return func(l *Loader) {
		l.categories = lister
	}
}

// WithRenderConcurrency bounds the number of bodies rendered in parallel.
// Values below 1 are ignored.
func WithRenderConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithLogger sets the logger used for progress and rejected nodes.
func WithLogger(log *logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// WithVersion sets the version recorded in load reports.
func WithVersion(v string) Option {
	return func(l *Loader) {
		l.version = v
	}
}

// New creates a loader that executes queries through transport and writes
// entries to sink.
func New(cfg Config, transport github.Transport, sink Sink, opts ...Option) *Loader {
	l := &Loader{
		cfg:         cfg,
		transport:   transport,
		sink:        sink,
		concurrency: runtime.GOMAXPROCS(0),
		log:         logger.Nop(),
		version:     version.Version,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewGitHub creates a loader that talks to GitHub's GraphQL API with
// cfg.APIKey as credential.
func NewGitHub(cfg Config, sink Sink, opts ...Option) *Loader {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return New(cfg, github.NewGraphQLTransport(cfg.APIKey, endpoint), sink, opts...)
}

// Load runs one load and returns its report.
//
// An error is returned only when the configuration is unusable (a repository
// URL without owner/repo, an out-of-range page size, a category reference the
// repository does not have) or the sink fails; in the first case nothing is
// written. Upstream and render failures, including a failed category lookup,
// are not returned: they are written to the sink as the error entry and
// recorded in the report's Failure.
func (l *Loader) Load(ctx context.Context) (*metadata.LoadMetadata, error) {
	owner, repo, err := ParseRepoURL(l.cfg.RepoURL)
	if err != nil {
		return nil, err
	}

	opts := query.Options{
		Owner:       owner,
		Repo:        repo,
		CategoryIDs: l.cfg.CategoryIDs,
		PageSize:    l.cfg.PageSize,
	}
	doc, err := query.Build(opts)
	if err != nil {
		return nil, err
	}

	tracker := metadata.New()
	log := l.log.With().
		Str("load_id", tracker.LoadID()).
		Str("repo", owner+"/"+repo).
		Logger()

	var out outcome
	if l.categories != nil {
		doc, out, err = l.resolve(ctx, opts, doc)
		if err != nil {
			return nil, err
		}
	}

	if out.err == nil {
		log.Debug().Int("categories", len(doc.Aliases)).Msg("loading discussions")
		out = l.fetch(ctx, doc, tracker, &log)
	}
	if out.err == nil && l.renderer != nil {
		out = l.renderAll(ctx, out)
	}

	if err := l.publish(ctx, out, tracker, &log); err != nil {
		return nil, err
	}

	md := tracker.GenerateMetadata(l.version, metadata.LoadParams{
		Owner:      owner,
		Repository: repo,
		Categories: doc.Categories,
		PageSize:   doc.Variables[query.VarFirst].(int),
		Rendered:   l.renderer != nil,
	})

	log.Info().
		Int("emitted", md.Results.Emitted).
		Int("rejected", md.Results.Rejected).
		Bool("failed", md.Failed()).
		Str("duration", md.Results.Duration).
		Msg("load finished")

	return md, nil
}

// resolve rebuilds doc with category references turned into ids. An unknown
// category is a configuration error; a failed lookup is a failed outcome.
func (l *Loader) resolve(ctx context.Context, opts query.Options, doc *query.Document) (*query.Document, outcome, error) {
	ids, err := github.ResolveCategories(ctx, l.categories, opts.Owner, opts.Repo, opts.CategoryIDs)
	if errors.Is(err, loadererrors.ErrInvalidArgument) {
		return nil, outcome{}, err
	}
	if err != nil {
		return doc, failed(fmt.Errorf("failed to resolve categories: %w", err)), nil
	}

	opts.CategoryIDs = ids
	doc, err = query.Build(opts)
	if err != nil {
		return nil, outcome{}, err
	}
	return doc, outcome{}, nil
}

// fetch executes doc and stages every valid node, walking categories in alias
// order and nodes in response order.
func (l *Loader) fetch(ctx context.Context, doc *query.Document, tracker *metadata.Tracker, log *logger.Logger) outcome {
	tracker.IncrementAPICall()
	resp, err := l.transport.Execute(ctx, doc.Query, doc.Variables)
	if err != nil {
		return failed(err)
	}

	var entries []content.Entry
	for i, alias := range doc.Aliases {
		result, ok := resp[alias]
		if !ok {
			log.Warn().Str("alias", alias).Msg("category missing from response")
			continue
		}

		if result.PageInfo.HasNextPage {
			tracker.RecordTruncation(metadata.Truncation{
				Alias:      alias,
				CategoryID: doc.Categories[i],
				Fetched:    len(result.Nodes),
				TotalCount: result.TotalCount,
			})
			log.Warn().
				Str("alias", alias).
				Int("fetched", len(result.Nodes)).
				Int("total", result.TotalCount).
				Msg("category has more discussions than one page; the rest are not loaded")
		}

		entries = append(entries, l.decodeNodes(alias, result.Nodes, tracker, log)...)
	}

	return succeeded(entries)
}

func (l *Loader) decodeNodes(alias string, nodes []json.RawMessage, tracker *metadata.Tracker, log *logger.Logger) []content.Entry {
	entries := make([]content.Entry, 0, len(nodes))
	for j, raw := range nodes {
		d, err := discussion.Decode(raw)
		if err != nil {
			rej := metadata.Rejection{Alias: alias, Index: j, Reason: err.Error()}
			var rerr *discussion.RejectionError
			if errors.As(err, &rerr) {
				rej.ID = rerr.ID
				rej.Reason = strings.Join(rerr.Reasons, "; ")
			}
			tracker.RecordRejection(rej)
			log.Warn().
				Str("alias", alias).
				Int("index", j).
				Str("id", rej.ID).
				Str("reason", rej.Reason).
				Msg("discussion rejected")
			continue
		}
		entries = append(entries, content.Entry{ID: d.ID, Data: *d})
	}
	return entries
}

// publish writes the outcome to the sink. A failed outcome becomes the single
// error entry.
func (l *Loader) publish(ctx context.Context, out outcome, tracker *metadata.Tracker, log *logger.Logger) error {
	if out.err != nil {
		entry := errorEntry(out.err)
		data := entry.Data.(content.ErrorData)
		tracker.Fail(data.Kind, data.Message)
		log.Error().Err(out.err).Str("kind", data.Kind).Msg("load failed")

		// The request context may be the cause of the failure.
		if err := l.write(context.WithoutCancel(ctx), []content.Entry{entry}, false); err != nil {
			return fmt.Errorf("failed to store error entry: %w", err)
		}
		return nil
	}

	if err := l.write(ctx, out.entries, true); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(out.entries))
	for _, entry := range out.entries {
		if _, dup := seen[entry.ID]; dup {
			continue
		}
		seen[entry.ID] = struct{}{}
		if d, ok := entry.Data.(discussion.Discussion); ok {
			tracker.RecordDiscussion(d.Number, d.CreatedAt, d.UpdatedAt)
		}
	}
	return nil
}

// write hands entries to the sink, replacing its content when it supports
// that. Otherwise a successful load only clears the stale error entry.
func (l *Loader) write(ctx context.Context, entries []content.Entry, success bool) error {
	if r, ok := l.sink.(Replacer); ok {
		if err := r.Replace(ctx, entries); err != nil {
			return fmt.Errorf("failed to replace stored entries: %w", err)
		}
		return nil
	}

	if d, ok := l.sink.(Deleter); ok && success {
		if err := d.Delete(ctx, content.ErrorEntryID); err != nil {
			return fmt.Errorf("failed to clear error entry: %w", err)
		}
	}
	for _, entry := range entries {
		if err := l.sink.Set(ctx, entry); err != nil {
			return fmt.Errorf("failed to store discussion %s: %w", entry.ID, err)
		}
	}
	return nil
}
