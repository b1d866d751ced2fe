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

package github

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	loadererrors "github.com/sirseerhq/discussions-loader/internal/errors"
)

// MockTransport is a mock implementation of the Transport interface for testing.
type MockTransport struct {
	mu sync.Mutex

	// Response to return
	Response Response

	// Error to return
	Error error

	// Behavior flags
	ShouldFailAuth     bool
	ShouldFailNetwork  bool
	ShouldFailNotFound bool

	// Track calls for verification
	CallCount     int
	LastQuery     string
	LastVariables map[string]any
}

// NewMockTransport creates a new mock transport with an empty response.
func NewMockTransport() *MockTransport {
	return &MockTransport{
		Response: Response{},
	}
}

// Execute implements the Transport interface
func (m *MockTransport) Execute(ctx context.Context, query string, variables map[string]any) (Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	m.LastQuery = query
	m.LastVariables = variables

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return nil, fmt.Errorf("authentication failed: %w", loadererrors.ErrInvalidToken)
	}

	if m.ShouldFailNetwork {
		return nil, fmt.Errorf("network timeout: %w", loadererrors.ErrNetworkFailure)
	}

	if m.ShouldFailNotFound {
		return nil, fmt.Errorf("repository not found: %w", loadererrors.ErrRepoNotFound)
	}

	if m.Error != nil {
		return nil, m.Error
	}

	return m.Response, nil
}

// Calls returns the number of Execute calls so far.
func (m *MockTransport) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// MockTransportOption allows configuring the mock transport
type MockTransportOption func(*MockTransport)

// WithCategory sets the result returned for alias. Nodes are marshaled to JSON;
// a json.RawMessage node is used as is.
func WithCategory(alias string, nodes ...any) MockTransportOption {
	return func(m *MockTransport) {
		raw := make([]json.RawMessage, 0, len(nodes))
		for _, n := range nodes {
			if r, ok := n.(json.RawMessage); ok {
				raw = append(raw, r)
				continue
			}
			b, err := json.Marshal(n)
			if err != nil {
				panic(fmt.Sprintf("mock node for %s: %v", alias, err))
			}
			raw = append(raw, b)
		}
		m.Response[alias] = CategoryResult{
			TotalCount: len(raw),
			Nodes:      raw,
		}
	}
}

// WithResult sets the full result returned for alias.
func WithResult(alias string, result CategoryResult) MockTransportOption {
	return func(m *MockTransport) {
		m.Response[alias] = result
	}
}

// WithError makes the transport return a specific error
func WithError(err error) MockTransportOption {
	return func(m *MockTransport) {
		m.Error = err
	}
}

// WithAuthFailure makes the transport simulate authentication failure
func WithAuthFailure() MockTransportOption {
	return func(m *MockTransport) {
		m.ShouldFailAuth = true
	}
}

// WithNetworkFailure makes the transport simulate a network failure
func WithNetworkFailure() MockTransportOption {
	return func(m *MockTransport) {
		m.ShouldFailNetwork = true
	}
}

// NewMockTransportWithOptions creates a mock transport with options
func NewMockTransportWithOptions(opts ...MockTransportOption) *MockTransport {
	mock := NewMockTransport()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}

// MockCategoryLister is a static CategoryLister.
type MockCategoryLister struct {
	Categories []Category
	Error      error
	CallCount  int
}

// ListCategories implements CategoryLister.
func (m *MockCategoryLister) ListCategories(ctx context.Context, owner, repo string) ([]Category, error) {
	m.CallCount++
	if m.Error != nil {
		return nil, m.Error
	}
	return m.Categories, nil
}
