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

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirseerhq/discussions-loader/internal/content"
	loadererrors "github.com/sirseerhq/discussions-loader/internal/errors"
)

// Store kinds accepted by Open.
const (
	KindMemory   = "memory"
	KindSnapshot = "snapshot"
	KindSQLite   = "sqlite"
)

// Store is a content store keyed by entry id.
type Store interface {
	// Set writes entry, replacing any entry with the same id.
	Set(ctx context.Context, entry content.Entry) error

	// Delete removes the entry with id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// Replace atomically swaps the whole content for entries.
	Replace(ctx context.Context, entries []content.Entry) error

	// Get returns the entry with id and whether it exists.
	Get(ctx context.Context, id string) (content.Entry, bool, error)

	// Entries returns all entries ordered by id.
	Entries(ctx context.Context) ([]content.Entry, error)

	// Close flushes and releases the store.
	Close() error
}

// Open opens a store of the given kind. Persistent kinds require path.
func Open(kind, path string) (Store, error) {
	switch strings.ToLower(kind) {
	case KindMemory, "":
		return NewMemory(), nil
	case KindSnapshot:
		if path == "" {
			return nil, fmt.Errorf("snapshot store needs a path: %w", loadererrors.ErrInvalidArgument)
		}
		return OpenSnapshot(path)
	case KindSQLite:
		if path == "" {
			return nil, fmt.Errorf("sqlite store needs a path: %w", loadererrors.ErrInvalidArgument)
		}
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store %q: %w", kind, loadererrors.ErrInvalidArgument)
	}
}
