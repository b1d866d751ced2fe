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

// Package render turns discussion bodies into HTML.
//
// The loader accepts any Renderer. Markdown is the stock implementation: it
// renders GitHub Flavored Markdown with goldmark, lifts a leading YAML front
// matter block into the rendered metadata, and optionally sanitizes the HTML
// with a bluemonday user-generated-content policy.
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/sirseerhq/discussions-loader/internal/content"
)

// Renderer converts a raw discussion body into rendered content.
type Renderer interface {
	Render(ctx context.Context, body string) (*content.Rendered, error)
}

// Func adapts a plain function to the Renderer interface.
type Func func(ctx context.Context, body string) (*content.Rendered, error)

// Render calls f.
func (f Func) Render(ctx context.Context, body string) (*content.Rendered, error) {
	return f(ctx, body)
}

// Options configures the Markdown renderer.
type Options struct {
	// Sanitize runs the produced HTML through bluemonday's UGC policy.
	// Raw HTML in bodies is only passed through when Sanitize is set.
	Sanitize bool

	// HeadingIDs adds id attributes to headings.
	HeadingIDs bool
}

// Markdown renders GitHub Flavored Markdown.
type Markdown struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewMarkdown creates a Markdown renderer.
func NewMarkdown(opts Options) *Markdown {
	var parserOpts []parser.Option
	if opts.HeadingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}

	var rendererOpts []goldmark.Option
	rendererOpts = append(rendererOpts,
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parserOpts...),
	)

	m := &Markdown{}
	if opts.Sanitize {
		// Raw HTML is kept here and filtered by the policy afterwards.
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
		m.policy = bluemonday.UGCPolicy()
	}
	m.md = goldmark.New(rendererOpts...)
	return m
}

// Render converts body to HTML. Front matter, when present, is removed from
// the rendered output and returned in Metadata.Frontmatter.
func (m *Markdown) Render(ctx context.Context, body string) (*content.Rendered, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	frontmatter, rest := SplitFrontMatter(body)

	var buf bytes.Buffer
	if err := m.md.Convert([]byte(rest), &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	out := buf.String()
	if m.policy != nil {
		out = m.policy.Sanitize(out)
	}

	return &content.Rendered{
		HTML:     out,
		Metadata: content.Metadata{Frontmatter: frontmatter},
	}, nil
}
