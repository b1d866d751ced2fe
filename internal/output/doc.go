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

// Package output streams loaded entries as NDJSON (Newline Delimited JSON),
// one entry per line, so other tools can consume a load with a line reader.
//
// Writer implements the loader's sink interface. Unlike the stores in
// internal/store it keeps nothing: every Set is written immediately, and an
// id written twice appears twice, with the later line taking precedence for
// consumers that build a map.
//
// Example usage:
//
//	w, err := output.NewFileWriter("discussions.ndjson")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	report, err := loader.NewGitHub(cfg, w).Load(ctx)
//	fmt.Fprintf(os.Stderr, "Wrote %d entries\n", w.Count())
package output
