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
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sirseerhq/discussions-loader/internal/content"
	"github.com/sirseerhq/discussions-loader/internal/discussion"
	loadererrors "github.com/sirseerhq/discussions-loader/internal/errors"
)

// renderAll renders the body of every staged entry. Results are written into
// the slot of their entry so order is preserved; the first failure fails the
// whole outcome.
func (l *Loader) renderAll(ctx context.Context, out outcome) outcome {
	rendered := make([]*content.Rendered, len(out.entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for i, entry := range out.entries {
		d, ok := entry.Data.(discussion.Discussion)
		if !ok {
			continue
		}
		i := i
		g.Go(func() error {
			r, err := l.renderer.Render(gctx, d.Body)
			if err != nil {
				return fmt.Errorf("discussion %s: %w: %w", d.ID, loadererrors.ErrRender, err)
			}
			rendered[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return failed(err)
	}

	entries := make([]content.Entry, len(out.entries))
	for i, entry := range out.entries {
		entry.Rendered = rendered[i]
		entries[i] = entry
	}
	return succeeded(entries)
}
