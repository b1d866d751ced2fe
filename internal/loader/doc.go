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

// Package loader loads the discussions of a GitHub repository into a content
// store.
//
// A load is a single GraphQL round trip: the repository URL is resolved to an
// owner and name, one document querying every requested category is built and
// executed, and the returned nodes are validated, optionally rendered, and
// written to the store keyed by discussion id.
//
// Loads never write partial results. When the request or the renderer fails,
// the store receives exactly one entry with id content.ErrorEntryID that
// describes the failure, and no discussions. Nodes that fail validation are
// dropped individually; their siblings are still written. Sinks that keep
// content between loads (see Replacer) hold only the latest load.
//
// Basic usage:
//
//	cfg := loader.Config{RepoURL: "https://github.com/acme/widgets", APIKey: token}
//	report, err := loader.NewGitHub(cfg, store.NewMemory(),
//	    loader.WithRenderer(render.NewMarkdown(render.Options{})),
//	).Load(ctx)
package loader
