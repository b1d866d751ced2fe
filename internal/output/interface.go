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

package output

import (
	"context"

	"github.com/sirseerhq/discussions-loader/internal/content"
)

// EntryWriter defines the interface for streaming loaded entries.
// This abstraction allows for other line formats to be added without
// changing the loader.
type EntryWriter interface {
	// Set writes a single entry to the output.
	// The entry should be immediately flushed to avoid memory accumulation.
	Set(ctx context.Context, entry content.Entry) error

	// Close closes the underlying writer and releases any resources.
	// This should be called when all writing is complete.
	Close() error
}
