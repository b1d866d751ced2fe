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
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// maxNodes mirrors GitHub's limit on the number of nodes a query may request.
const maxNodes = 500000

// labelsPerDiscussion is the labels page size the discussion query requests.
const labelsPerDiscussion = 100

// Category is a discussion category served by the mock.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// GitHubLikeMockServer creates a mock server that behaves like the real GitHub API
type GitHubLikeMockServer struct {
	*httptest.Server
	mu                 sync.RWMutex
	token              string
	owner              string
	repo               string
	categories         []Category
	discussions        map[string][]map[string]interface{}
	rateLimitRemaining int32
	rateLimitReset     int64
	maxNodes           int
	requestHistory     []GraphQLRequest
}

// GraphQLRequest represents a parsed GraphQL request
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
	Timestamp time.Time
}

// NewGitHubLikeMockServer creates a realistic GitHub API mock serving the
// repository owner/repo. Requests must carry "Bearer <token>".
func NewGitHubLikeMockServer(t *testing.T, token, owner, repo string) *GitHubLikeMockServer {
	t.Helper()

	mock := &GitHubLikeMockServer{
		token:              token,
		owner:              owner,
		repo:               repo,
		discussions:        make(map[string][]map[string]interface{}),
		rateLimitRemaining: 5000,
		rateLimitReset:     time.Now().Add(time.Hour).Unix(),
		maxNodes:           maxNodes,
	}

	mock.Server = httptest.NewServer(http.HandlerFunc(mock.handle))
	t.Cleanup(mock.Close)
	return mock
}

// GraphQLURL returns the server's GraphQL endpoint
func (m *GitHubLikeMockServer) GraphQLURL() string {
	return m.URL + "/graphql"
}

// AddCategory registers a category and its discussions, newest first as
// GitHub orders them.
func (m *GitHubLikeMockServer) AddCategory(c Category, discussions ...map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories = append(m.categories, c)
	for _, d := range discussions {
		if _, ok := d["category"]; !ok {
			d["category"] = map[string]interface{}{"id": c.ID, "name": c.Name}
		}
	}
	m.discussions[c.ID] = append(m.discussions[c.ID], discussions...)
}

func (m *GitHubLikeMockServer) handle(w http.ResponseWriter, r *http.Request) {
	// Validate request method and path
	if r.Method != "POST" || r.URL.Path != "/graphql" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	// Check authorization
	if r.Header.Get("Authorization") != "Bearer "+m.token {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message":           "Bad credentials",
			"documentation_url": "https://docs.github.com/graphql",
		})
		return
	}

	var req GraphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "Problems parsing JSON",
		})
		return
	}
	req.Timestamp = time.Now()

	m.mu.Lock()
	m.requestHistory = append(m.requestHistory, req)
	m.mu.Unlock()

	// Check rate limit
	remaining := atomic.AddInt32(&m.rateLimitRemaining, -1)
	if remaining < 0 {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(m.rateLimitReset, 10))
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message":           "API rate limit exceeded",
			"documentation_url": "https://docs.github.com/graphql/overview/rate-limits-and-node-limits-for-the-graphql-api",
		})
		return
	}
	w.Header().Set("X-RateLimit-Limit", "5000")
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(remaining)))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(m.rateLimitReset, 10))
	w.Header().Set("Content-Type", "application/json")

	owner, _ := req.Variables["owner"].(string)
	repo, _ := req.Variables["repo"].(string)
	if owner != m.owner || repo != m.repo {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"repository": nil},
			"errors": []map[string]interface{}{{
				"type":    "NOT_FOUND",
				"path":    []string{"repository"},
				"message": fmt.Sprintf("Could not resolve to a Repository with the name '%s/%s'.", owner, repo),
			}},
		})
		return
	}

	if strings.Contains(req.Query, "discussionCategories") {
		_ = json.NewEncoder(w).Encode(m.categoriesResponse())
		return
	}

	first := 0
	if f, ok := req.Variables["first"].(float64); ok {
		first = int(f)
	}
	selections := ParseCategorySelections(req.Query)

	m.mu.RLock()
	limit := m.maxNodes
	m.mu.RUnlock()
	if nodes := len(selections) * first * labelsPerDiscussion; nodes > limit {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"errors": []map[string]interface{}{{
				"type":    "MAX_NODE_LIMIT_EXCEEDED",
				"message": fmt.Sprintf("This query requests up to %d possible nodes which exceeds the maximum limit of %d. Query complexity too high.", nodes, limit),
			}},
		})
		return
	}

	_ = json.NewEncoder(w).Encode(m.discussionsResponse(selections, first))
}

func (m *GitHubLikeMockServer) categoriesResponse() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"data": map[string]interface{}{
			"repository": map[string]interface{}{
				"discussionCategories": map[string]interface{}{
					"nodes": m.categories,
				},
			},
		},
	}
}

func (m *GitHubLikeMockServer) discussionsResponse(selections []CategorySelection, first int) map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make(map[string]CategoryResult, len(selections))
	for _, sel := range selections {
		var all []map[string]interface{}
		if sel.CategoryID == "" {
			for _, c := range m.categories {
				all = append(all, m.discussions[c.ID]...)
			}
		} else {
			all = m.discussions[sel.CategoryID]
		}

		page := all
		if len(page) > first {
			page = page[:first]
		}
		results[sel.Alias] = CategoryResult{
			Nodes:       page,
			TotalCount:  len(all),
			HasNextPage: len(all) > len(page),
		}
	}
	return GenerateDiscussionResponse(results)
}

// GetRequestHistory returns the history of GraphQL requests
func (m *GitHubLikeMockServer) GetRequestHistory() []GraphQLRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := make([]GraphQLRequest, len(m.requestHistory))
	copy(history, m.requestHistory)
	return history
}

// SetRateLimit sets a specific rate limit
func (m *GitHubLikeMockServer) SetRateLimit(remaining int32) {
	atomic.StoreInt32(&m.rateLimitRemaining, remaining)
}

// SetMaxNodes lowers the node limit to provoke complexity errors
func (m *GitHubLikeMockServer) SetMaxNodes(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxNodes = n
}
