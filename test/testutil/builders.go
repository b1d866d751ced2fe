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

package testutil

import (
	"fmt"
	"time"
)

// DiscussionBuilder provides a fluent API for creating discussion nodes as
// GitHub returns them.
type DiscussionBuilder struct {
	id            string
	number        int
	title         string
	body          *string
	url           string
	author        string
	createdAt     time.Time
	updatedAt     time.Time
	labels        []string
	wrappedLabels bool
	categoryID    string
	categoryName  string
}

// NewDiscussionBuilder creates a new discussion builder with defaults
func NewDiscussionBuilder(number int) *DiscussionBuilder {
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, number)
	body := fmt.Sprintf("Body of discussion %d", number)
	return &DiscussionBuilder{
		id:            fmt.Sprintf("D_%d", number),
		number:        number,
		title:         fmt.Sprintf("Discussion %d", number),
		body:          &body,
		url:           fmt.Sprintf("https://github.com/test/repo/discussions/%d", number),
		author:        fmt.Sprintf("user%d", number),
		createdAt:     created,
		updatedAt:     created.Add(time.Hour),
		wrappedLabels: true,
	}
}

// WithID sets the node id
func (b *DiscussionBuilder) WithID(id string) *DiscussionBuilder {
	b.id = id
	return b
}

// WithTitle sets the discussion title
func (b *DiscussionBuilder) WithTitle(title string) *DiscussionBuilder {
	b.title = title
	return b
}

// WithBody sets the discussion body
func (b *DiscussionBuilder) WithBody(body string) *DiscussionBuilder {
	b.body = &body
	return b
}

// WithoutBody omits the body, which makes the node invalid
func (b *DiscussionBuilder) WithoutBody() *DiscussionBuilder {
	b.body = nil
	return b
}

// WithAuthor sets the author login; empty means a deleted account
func (b *DiscussionBuilder) WithAuthor(author string) *DiscussionBuilder {
	b.author = author
	return b
}

// WithCreatedAt sets when the discussion was created
func (b *DiscussionBuilder) WithCreatedAt(t time.Time) *DiscussionBuilder {
	b.createdAt = t
	if b.updatedAt.Before(t) {
		b.updatedAt = t
	}
	return b
}

// WithLabels sets the label names. Ids are derived from the names.
func (b *DiscussionBuilder) WithLabels(labels ...string) *DiscussionBuilder {
	b.labels = labels
	return b
}

// WithBareLabels emits labels as a plain list instead of {nodes: [...]}
func (b *DiscussionBuilder) WithBareLabels() *DiscussionBuilder {
	b.wrappedLabels = false
	return b
}

// WithCategory sets the category the discussion belongs to
func (b *DiscussionBuilder) WithCategory(id, name string) *DiscussionBuilder {
	b.categoryID = id
	b.categoryName = name
	return b
}

// Build creates the discussion node
func (b *DiscussionBuilder) Build() map[string]interface{} {
	labels := make([]map[string]interface{}, len(b.labels))
	for i, label := range b.labels {
		labels[i] = map[string]interface{}{
			"id":   "LA_" + label,
			"name": label,
		}
	}

	node := map[string]interface{}{
		"number":    b.number,
		"title":     b.title,
		"url":       b.url,
		"createdAt": b.createdAt.Format(time.RFC3339),
		"updatedAt": b.updatedAt.Format(time.RFC3339),
	}
	if b.id != "" {
		node["id"] = b.id
	}
	if b.body != nil {
		node["body"] = *b.body
	}

	if b.wrappedLabels {
		node["labels"] = map[string]interface{}{"nodes": labels}
	} else {
		node["labels"] = labels
	}

	if b.author != "" {
		node["author"] = map[string]interface{}{
			"login": b.author,
			"url":   "https://github.com/" + b.author,
		}
	} else {
		node["author"] = nil
	}

	if b.categoryID != "" {
		node["category"] = map[string]interface{}{
			"id":   b.categoryID,
			"name": b.categoryName,
		}
	}

	return node
}

// BuildDiscussions creates count discussions numbered from start in the
// given category.
func BuildDiscussions(start, count int, categoryID, categoryName string) []map[string]interface{} {
	nodes := make([]map[string]interface{}, 0, count)
	for i := start; i < start+count; i++ {
		nodes = append(nodes, NewDiscussionBuilder(i).WithCategory(categoryID, categoryName).Build())
	}
	return nodes
}
