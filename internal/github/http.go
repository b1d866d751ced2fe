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
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	loadererrors "github.com/sirseerhq/discussions-loader/internal/errors"
	"github.com/sirseerhq/discussions-loader/pkg/version"
)

// maxResponseBytes caps a single GraphQL response. One page of 100 discussions
// per category with full bodies stays well below it.
const maxResponseBytes = 32 * 1024 * 1024

// newHTTPClient creates the HTTP client shared by GraphQLTransport and
// CategoryClient. The token, when present, is presented as a bearer credential.
func newHTTPClient(token string) *http.Client {
	var rt http.RoundTripper = &headerTransport{
		base: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		},
		limit: maxResponseBytes,
	}

	if token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   rt,
		}
	}

	return &http.Client{Transport: rt}
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// headerTransport identifies the client, turns credential and rate limit
// rejections into sentinel errors and applies the response size limit. Authentication is layered on top by
// oauth2.Transport.
type headerTransport struct {
	base  http.RoundTripper
	limit int64
}

// RoundTrip implements http.RoundTripper
func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", fmt.Sprintf("discussions-loader/%s", version.Version))

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// No waiting or retrying here; the caller reports the failure.
	if isRateLimited(resp) {
		reset := resp.Header.Get("X-RateLimit-Reset")
		resp.Body.Close()
		if reset != "" {
			if sec, perr := parseUnix(reset); perr == nil {
				return nil, fmt.Errorf("rate limit exceeded, reset at %s: %w",
					sec.Format(time.Kitchen), loadererrors.ErrRateLimit)
			}
		}
		return nil, fmt.Errorf("rate limit exceeded: %w", loadererrors.ErrRateLimit)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		return nil, fmt.Errorf("401 unauthorized: %w", loadererrors.ErrInvalidToken)
	}

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      t.limit,
		}
	}

	return resp, nil
}

// isRateLimited reports whether resp is GitHub's primary or secondary rate
// limit rejection.
func isRateLimited(resp *http.Response) bool {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return true
	case http.StatusForbidden:
		return resp.Header.Get("X-RateLimit-Remaining") == "0" ||
			resp.Header.Get("Retry-After") != ""
	default:
		return false
	}
}

func parseUnix(s string) (time.Time, error) {
	var sec int64
	if _, err := fmt.Sscanf(s, "%d", &sec); err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, 0), nil
}
