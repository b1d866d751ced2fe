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
	"github.com/sirseerhq/discussions-loader/internal/content"
	"github.com/sirseerhq/discussions-loader/internal/giterror"
)

// outcome is the staged result of a load: either the entries to write or the
// error that replaces them. Nothing reaches the sink until publish.
type outcome struct {
	entries []content.Entry
	err     error
}

func succeeded(entries []content.Entry) outcome {
	return outcome{entries: entries}
}

func failed(err error) outcome {
	return outcome{err: err}
}

// errorEntry builds the entry written in place of discussions for a failed load.
func errorEntry(err error) content.Entry {
	return content.Entry{
		ID: content.ErrorEntryID,
		Data: content.ErrorData{
			Kind:    giterror.Kind(err),
			Message: err.Error(),
		},
	}
}
