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

// Package testutil provides common test helpers for discussions-loader
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

// MockServer provides common mock server configurations for testing
type MockServer struct {
	*httptest.Server
	requests int32
}

// RequestCount returns the number of requests received
func (m *MockServer) RequestCount() int {
	return int(atomic.LoadInt32(&m.requests))
}

// GraphQLURL returns the server's GraphQL endpoint
func (m *MockServer) GraphQLURL() string {
	return m.URL + "/graphql"
}

func newCountingServer(t *testing.T, handler http.HandlerFunc) *MockServer {
	t.Helper()
	mock := &MockServer{}
	mock.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&mock.requests, 1)
		handler(w, r)
	}))
	t.Cleanup(mock.Close)
	return mock
}

// NewMockServer creates a basic mock server that responds to GraphQL requests
func NewMockServer(t *testing.T, handler http.HandlerFunc) *MockServer {
	t.Helper()
	return newCountingServer(t, handler)
}

// NewRateLimitServer creates a mock server that always answers with a
// primary rate limit response
func NewRateLimitServer(t *testing.T, retryAfter int) *MockServer {
	t.Helper()
	return newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message": "API rate limit exceeded"}`))
	})
}

// NewErrorServer creates a mock server that always returns the specified error
func NewErrorServer(t *testing.T, statusCode int) *MockServer {
	t.Helper()
	return newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(http.StatusText(statusCode)))
	})
}

// NewGraphQLErrorServer creates a mock server that answers every request with
// a GraphQL error of the given type
func NewGraphQLErrorServer(t *testing.T, errType, message string) *MockServer {
	t.Helper()
	return newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"repository": nil},
			"errors": []map[string]interface{}{
				{"type": errType, "message": message},
			},
		})
	})
}

// NewSlowServer creates a mock server that waits delay before answering
// with an empty repository
func NewSlowServer(t *testing.T, delay time.Duration) *MockServer {
	t.Helper()
	return newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(GenerateDiscussionResponse(nil))
	})
}

// CategoryResult is one aliased discussions selection in a response.
type CategoryResult struct {
	Nodes       []map[string]interface{}
	TotalCount  int
	HasNextPage bool
}

// GenerateDiscussionResponse builds a response body with one selection per
// alias. TotalCount defaults to the number of nodes.
func GenerateDiscussionResponse(results map[string]CategoryResult) map[string]interface{} {
	repository := make(map[string]interface{}, len(results))
	for alias, r := range results {
		nodes := r.Nodes
		if nodes == nil {
			nodes = []map[string]interface{}{}
		}
		total := r.TotalCount
		if total == 0 {
			total = len(nodes)
		}
		var cursor interface{}
		if len(nodes) > 0 {
			cursor = "cursor_" + alias
		}
		repository[alias] = map[string]interface{}{
			"totalCount": total,
			"pageInfo": map[string]interface{}{
				"endCursor":   cursor,
				"hasNextPage": r.HasNextPage,
			},
			"nodes": nodes,
		}
	}

	return map[string]interface{}{
		"data": map[string]interface{}{
			"repository": repository,
		},
	}
}

var aliasPattern = regexp.MustCompile(`(cat_\d+): discussions\(first: \$first, categoryId: (null|"[^"]*")\)`)

// CategorySelection is an aliased discussions selection found in a query.
type CategorySelection struct {
	Alias      string
	CategoryID string // empty for categoryId: null
}

// ParseCategorySelections extracts the aliased selections from a discussion
// query in document order
func ParseCategorySelections(query string) []CategorySelection {
	var selections []CategorySelection
	for _, m := range aliasPattern.FindAllStringSubmatch(query, -1) {
		id := ""
		if m[2] != "null" {
			id = m[2][1 : len(m[2])-1]
		}
		selections = append(selections, CategorySelection{Alias: m[1], CategoryID: id})
	}
	return selections
}

// AssertGraphQLRequest validates a GraphQL request structure
func AssertGraphQLRequest(t *testing.T, r *http.Request) {
	t.Helper()
	if r.URL.Path != "/graphql" {
		t.Errorf("Unexpected path: %s", r.URL.Path)
	}
	if r.Method != "POST" {
		t.Errorf("Expected POST method, got: %s", r.Method)
	}
	if ct := r.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type: application/json, got: %s", ct)
	}
}
