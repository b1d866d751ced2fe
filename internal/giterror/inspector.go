package giterror

import (
	"errors"
	"strings"

	loadererrors "github.com/sirseerhq/discussions-loader/internal/errors"
)

// Inspector classifies errors returned by the GitHub GraphQL API.
type Inspector interface {
	// IsAuthError returns true if the error represents an authentication or authorization failure.
	IsAuthError(err error) bool

	// IsNotFoundError returns true if the error represents a missing or inaccessible repository.
	IsNotFoundError(err error) bool

	// IsRateLimitError returns true if the error represents a primary or secondary rate limit.
	IsRateLimitError(err error) bool

	// IsComplexityError returns true if the error represents a query over GitHub's node or complexity limits.
	IsComplexityError(err error) bool

	// IsNetworkError returns true if the error represents a network connectivity error.
	IsNetworkError(err error) bool
}

// errorClass matches error text by HTTP status and lower-case fragments.
// Fragments include the GraphQL error types GitHub puts in "errors[].type".
type errorClass struct {
	statuses  []string
	fragments []string
}

func (c errorClass) matches(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	for _, code := range c.statuses {
		if hasStatus(s, code) {
			return true
		}
	}
	for _, f := range c.fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

var (
	authClass = errorClass{
		statuses: []string{"401", "403"},
		fragments: []string{
			"unauthorized",
			"forbidden",
			"bad credentials",
			"authentication",
			"resource not accessible by integration",
		},
	}

	notFoundClass = errorClass{
		statuses: []string{"404"},
		fragments: []string{
			"not found",
			"not_found",
			"could not resolve to a repository",
		},
	}

	rateLimitClass = errorClass{
		statuses: []string{"429"},
		fragments: []string{
			"rate limit",
			"rate_limited",
			"abuse detection",
		},
	}

	complexityClass = errorClass{
		fragments: []string{
			"complexity",
			"max_node_limit_exceeded",
			"possible nodes",
			"exceeds maximum",
			"exceeds the maximum",
		},
	}

	networkClass = errorClass{
		fragments: []string{
			"connection refused",
			"connection reset",
			"no such host",
			"timeout",
			"temporary failure",
			"dial tcp",
			"tls handshake",
			"network is unreachable",
			"unexpected eof",
		},
	}
)

// GitHubErrorInspector implements Inspector by matching error text.
type GitHubErrorInspector struct{}

// NewInspector creates a new GitHubErrorInspector.
func NewInspector() Inspector {
	return &GitHubErrorInspector{}
}

// IsAuthError implements Inspector.
func (i *GitHubErrorInspector) IsAuthError(err error) bool { return authClass.matches(err) }

// IsNotFoundError implements Inspector.
func (i *GitHubErrorInspector) IsNotFoundError(err error) bool { return notFoundClass.matches(err) }

// IsRateLimitError implements Inspector.
func (i *GitHubErrorInspector) IsRateLimitError(err error) bool { return rateLimitClass.matches(err) }

// IsComplexityError implements Inspector.
func (i *GitHubErrorInspector) IsComplexityError(err error) bool { return complexityClass.matches(err) }

// IsNetworkError implements Inspector.
func (i *GitHubErrorInspector) IsNetworkError(err error) bool { return networkClass.matches(err) }

// hasStatus reports whether code appears in s as a standalone number, so a
// port such as :44013 in a URL is not taken for a 401.
func hasStatus(s, code string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], code)
		if j < 0 {
			return false
		}
		start, end := i+j, i+j+len(code)
		if (start == 0 || !isDigit(s[start-1])) && (end == len(s) || !isDigit(s[end])) {
			return true
		}
		i = start + 1
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// ErrorChainInspector consults the error chain before falling back to a base
// inspector: first the loader's sentinel errors, then any error in the chain
// that reports its own class through an IsXxxError() bool method.
type ErrorChainInspector struct {
	base Inspector
}

// NewErrorChainInspector creates a new ErrorChainInspector over base.
func NewErrorChainInspector(base Inspector) Inspector {
	return &ErrorChainInspector{base: base}
}

// inChain reports whether err wraps sentinel or an error whose method
// (selected by is) returns true.
func inChain[T any](err, sentinel error, is func(T) bool) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sentinel) {
		return true
	}
	var typed T
	return errors.As(err, &typed) && is(typed)
}

// IsAuthError implements Inspector.
func (e *ErrorChainInspector) IsAuthError(err error) bool {
	return inChain(err, loadererrors.ErrInvalidToken, func(v interface{ IsAuthError() bool }) bool { return v.IsAuthError() }) ||
		e.base.IsAuthError(err)
}

// IsNotFoundError implements Inspector.
func (e *ErrorChainInspector) IsNotFoundError(err error) bool {
	return inChain(err, loadererrors.ErrRepoNotFound, func(v interface{ IsNotFoundError() bool }) bool { return v.IsNotFoundError() }) ||
		e.base.IsNotFoundError(err)
}

// IsRateLimitError implements Inspector.
func (e *ErrorChainInspector) IsRateLimitError(err error) bool {
	return inChain(err, loadererrors.ErrRateLimit, func(v interface{ IsRateLimitError() bool }) bool { return v.IsRateLimitError() }) ||
		e.base.IsRateLimitError(err)
}

// IsComplexityError implements Inspector.
func (e *ErrorChainInspector) IsComplexityError(err error) bool {
	return inChain(err, loadererrors.ErrQueryComplexity, func(v interface{ IsComplexityError() bool }) bool { return v.IsComplexityError() }) ||
		e.base.IsComplexityError(err)
}

// IsNetworkError implements Inspector.
func (e *ErrorChainInspector) IsNetworkError(err error) bool {
	return inChain(err, loadererrors.ErrNetworkFailure, func(v interface{ IsNetworkError() bool }) bool { return v.IsNetworkError() }) ||
		e.base.IsNetworkError(err)
}
