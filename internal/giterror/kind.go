package giterror

import (
	"context"
	"errors"

	loadererrors "github.com/sirseerhq/discussions-loader/internal/errors"
)

// Kinds recorded in a load's error entry.
const (
	KindAuth       = "auth"
	KindNotFound   = "not_found"
	KindRateLimit  = "rate_limit"
	KindComplexity = "complexity"
	KindNetwork    = "network"
	KindRender     = "render"
	KindCanceled   = "canceled"
	KindUnknown    = "unknown"
)

// Kind names the failure class of err. Render failures and cancellation are
// recognized first; everything else goes through the chain inspector, with
// rate limits ahead of auth because GitHub reports both as 403.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, loadererrors.ErrRender) {
		return KindRender
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}

	inspector := NewErrorChainInspector(NewInspector())
	switch {
	case inspector.IsRateLimitError(err):
		return KindRateLimit
	case inspector.IsAuthError(err):
		return KindAuth
	case inspector.IsNotFoundError(err):
		return KindNotFound
	case inspector.IsComplexityError(err):
		return KindComplexity
	case inspector.IsNetworkError(err):
		return KindNetwork
	}
	return KindUnknown
}
