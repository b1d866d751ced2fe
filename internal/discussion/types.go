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

// Package discussion defines the normalized discussion record and decodes raw
// GraphQL nodes into it.
//
// GitHub nodes are decoded one at a time so a malformed node can be rejected
// without affecting its siblings. Labels may arrive either as a bare list or
// wrapped in a connection object ({"nodes": [...]}); both shapes are collapsed
// into a plain []Label while decoding and only the plain form leaves this package.
package discussion

import "time"

// Discussion is a normalized GitHub discussion.
type Discussion struct {
	ID        string       `json:"id"`
	Number    int          `json:"number"`
	Title     string       `json:"title"`
	Body      string       `json:"body"`
	URL       string       `json:"url"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Author    *Author      `json:"author,omitempty"`
	Labels    []Label      `json:"labels"`
	Category  *CategoryRef `json:"category,omitempty"`
}

// Author identifies the account that opened a discussion. GitHub returns a
// null author for deleted accounts, so Discussion.Author may be nil.
type Author struct {
	Login string `json:"login" validate:"required"`
	URL   string `json:"url" validate:"omitempty,url"`
}

// Label is a repository label attached to a discussion.
type Label struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// CategoryRef names the category a discussion belongs to.
type CategoryRef struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}
