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

// Package store provides content stores for loaded discussions.
//
// Three implementations are available:
//   - Memory keeps entries in a map for the lifetime of the process
//   - Snapshot keeps entries in memory and persists them to a single JSON
//     file on Close, using an atomic write with a SHA256 checksum
//   - SQLite upserts entries into a table in a SQLite database
//
// All stores keep the last entry written for an id and are safe for
// concurrent use. Replace swaps the whole content at once; the loader uses it
// so a store never mixes two loads. Entries read back from a persistent store carry their data
// as json.RawMessage.
package store
