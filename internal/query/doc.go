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

// Package query builds the GraphQL document used to fetch discussions from
// several categories in a single round trip.
//
// GitHub's discussions connection accepts one categoryId per call, so each
// requested category becomes its own aliased field (cat_0, cat_1, ...) nested
// under one repository selection. The aliases follow the input order, which
// lets callers map a response back to the category it was requested for by
// index alone.
//
// Basic usage:
//
//	doc, err := query.Build(query.Options{
//	    Owner:       "acme",
//	    Repo:        "widgets",
//	    CategoryIDs: []string{"DIC_kwDOA", "DIC_kwDOB"},
//	})
//	if err != nil {
//	    // Handle error
//	}
//	// doc.Query is the document, doc.Variables holds owner, repo and first.
//
// Build performs no I/O.
package query
