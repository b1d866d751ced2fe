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
	"fmt"
	"io"
	"time"

	"github.com/sirseerhq/discussions-loader/internal/config"
	"github.com/sirseerhq/discussions-loader/internal/github"
	"github.com/sirseerhq/discussions-loader/internal/loader"
	"github.com/sirseerhq/discussions-loader/internal/logger"
	"github.com/sirseerhq/discussions-loader/internal/metadata"
	"github.com/sirseerhq/discussions-loader/internal/output"
	"github.com/sirseerhq/discussions-loader/internal/render"
	"github.com/sirseerhq/discussions-loader/internal/store"
	"github.com/sirseerhq/discussions-loader/pkg/version"
	"github.com/spf13/cobra"
)

type loadOptions struct {
	categories  []string
	pageSize    int
	storeKind   string
	storePath   string
	outputFile  string
	render      bool
	sanitize    bool
	headingIDs  bool
	concurrency int
	metadataDir string
	printReport bool
	failOnError bool
	timeout     time.Duration
}

func newLoadCommand(globals *globalOptions) *cobra.Command {
	opts := &loadOptions{}

	cmd := &cobra.Command{
		Use:   "load <repo-url>",
		Short: "Load a repository's discussions into a content store",
		Long: `Load discussions from a GitHub repository and write them as content entries.

The repository is taken from the last two segments of the URL, so
https://github.com/acme/widgets, github.com/acme/widgets and acme/widgets
all name the same repository.

Categories may be given as node ids (DIC_...) or as slugs/names, which are
resolved with one extra request. Without --category every category is loaded.

If GitHub rejects the request, a single error entry with id
"discussions-loader:error" is written instead of any discussions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(globals, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			applyLoadDefaults(cmd, cfg, opts)

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			return runLoad(ctx, cfg, globals.token, args[0], opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&opts.categories, "category", nil, "Category id, slug or name to load (repeatable; default: all)")
	flags.IntVar(&opts.pageSize, "page-size", 0, "Discussions per category, 1-100 (default from config)")
	flags.StringVar(&opts.storeKind, "store", "", "Store: ndjson, snapshot, sqlite or memory (default from config)")
	flags.StringVar(&opts.storePath, "store-path", "", "Path for the snapshot or sqlite store")
	flags.StringVar(&opts.outputFile, "output", "", "Output file for the ndjson store (default: stdout)")
	flags.BoolVar(&opts.render, "render", true, "Render Markdown bodies to HTML")
	flags.BoolVar(&opts.sanitize, "sanitize", true, "Sanitize rendered HTML")
	flags.BoolVar(&opts.headingIDs, "heading-ids", false, "Add id attributes to rendered headings")
	flags.IntVar(&opts.concurrency, "render-concurrency", 0, "Bodies rendered in parallel (default: GOMAXPROCS)")
	flags.StringVar(&opts.metadataDir, "metadata-dir", "", "Directory to save the load report in")
	flags.BoolVar(&opts.printReport, "print-report", false, "Print the load report to stderr")
	flags.BoolVar(&opts.failOnError, "fail-on-error", false, "Exit non-zero when the load wrote an error entry")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Timeout for the whole load")

	return cmd
}

// applyLoadDefaults fills options the user did not set from the config.
func applyLoadDefaults(cmd *cobra.Command, cfg *config.Config, opts *loadOptions) {
	flags := cmd.Flags()
	if !flags.Changed("store") {
		opts.storeKind = cfg.Defaults.Store
	}
	if !flags.Changed("store-path") {
		opts.storePath = cfg.Defaults.StorePath
	}
	if !flags.Changed("render") {
		opts.render = cfg.Defaults.Render
	}
	if !flags.Changed("sanitize") {
		opts.sanitize = cfg.Defaults.Sanitize
	}
	if !flags.Changed("heading-ids") {
		opts.headingIDs = cfg.Defaults.HeadingIDs
	}
	if !flags.Changed("render-concurrency") {
		opts.concurrency = cfg.Defaults.RenderConcurrency
	}
	if !flags.Changed("metadata-dir") {
		opts.metadataDir = cfg.Defaults.MetadataDir
	}
}

// runLoad executes the load command
func runLoad(ctx context.Context, cfg *config.Config, tokenFlag, repoURL string, opts *loadOptions, stdout, stderr io.Writer) error {
	t, err := parseTarget(repoURL)
	if err != nil {
		return err
	}

	token, err := requireToken(cfg, tokenFlag)
	if err != nil {
		return err
	}

	log := logger.Named("load")
	endpoint := cfg.GitHub.GraphQLEndpoint

	refs := opts.categories
	if len(refs) == 0 {
		refs = cfg.Categories(t.String())
	}

	pageSize := opts.pageSize
	if pageSize == 0 {
		pageSize = cfg.PageSize(t.String())
	}

	dst, err := openSink(t, opts, stdout)
	if err != nil {
		return err
	}

	loaderOpts := []loader.Option{
		loader.WithLogger(logger.Named("loader")),
		loader.WithVersion(version.Version),
		loader.WithRenderConcurrency(opts.concurrency),
		loader.WithCategoryLister(github.NewCategoryClient(token, endpoint)),
	}
	if opts.render {
		loaderOpts = append(loaderOpts, loader.WithRenderer(render.NewMarkdown(render.Options{
			Sanitize:   opts.sanitize,
			HeadingIDs: opts.headingIDs,
		})))
	}

	l := loader.NewGitHub(loader.Config{
		RepoURL:     repoURL,
		APIKey:      token,
		CategoryIDs: refs,
		PageSize:    pageSize,
		Endpoint:    endpoint,
	}, dst, loaderOpts...)

	fmt.Fprintf(stderr, "Loading discussions from %s...\n", t)

	md, err := l.Load(ctx)
	closeErr := dst.Close()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close store: %w", closeErr)
	}

	if opts.metadataDir != "" {
		prev, err := metadata.LoadLatestMetadata(opts.metadataDir, t.String())
		if err != nil {
			log.Warn().Err(err).Msg("ignoring unreadable previous load report")
		} else if prev != nil {
			md.PreviousLoad = prev.Ref()
		}

		path, err := metadata.SaveMetadata(md, opts.metadataDir)
		if err != nil {
			return fmt.Errorf("failed to save load report: %w", err)
		}
		log.Debug().Str("path", path).Msg("load report saved")
	}

	if opts.printReport {
		if err := metadata.WriteMetadataToWriter(md, stderr); err != nil {
			return fmt.Errorf("failed to print load report: %w", err)
		}
	}

	if md.Failed() {
		fmt.Fprintf(stderr, "Load of %s failed (%s): %s\n", t, md.Failure.Kind, md.Failure.Message)
		if opts.failOnError {
			return failureError(md.Failure.Kind, md.Failure.Message)
		}
		return nil
	}

	if md.Results.Emitted > 0 {
		fmt.Fprintf(stderr, "Successfully loaded %d discussions from %s", md.Results.Emitted, t)
	} else {
		fmt.Fprintf(stderr, "No discussions found in %s", t)
	}
	if md.Results.Rejected > 0 {
		fmt.Fprintf(stderr, " (%d rejected)", md.Results.Rejected)
	}
	fmt.Fprintln(stderr)
	for _, tr := range md.Truncated {
		fmt.Fprintf(stderr, "Category %s returned %d of %d discussions\n", tr.CategoryID, tr.Fetched, tr.TotalCount)
	}

	return nil
}

// openSink opens the store selected by opts. The ndjson store writes to
// opts.outputFile or stdout.
func openSink(t target, opts *loadOptions, stdout io.Writer) (output.EntryWriter, error) {
	switch opts.storeKind {
	case config.StoreNDJSON, "":
		if opts.outputFile == "" {
			return output.NewWriter(stdout), nil
		}
		w, err := output.NewFileWriter(opts.outputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
		return w, nil
	case config.StoreSnapshot:
		path := opts.storePath
		if path == "" {
			path = store.SnapshotPath(t.String())
		}
		return store.Open(store.KindSnapshot, path)
	default:
		return store.Open(opts.storeKind, opts.storePath)
	}
}
