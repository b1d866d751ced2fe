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
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
)

// cliTimeout bounds a single CLI invocation so a hung load fails the test
// instead of the whole package run.
const cliTimeout = 60 * time.Second

var buildBinary = sync.OnceValues(func() (string, error) {
	root, err := moduleRoot()
	if err != nil {
		return "", err
	}
	dir, err := os.MkdirTemp("", "discussions-loader-bin")
	if err != nil {
		return "", err
	}
	bin := filepath.Join(dir, "discussions-loader")
	build := exec.Command("go", "build", "-o", bin, "./cmd/discussions-loader")
	build.Dir = root
	if out, err := build.CombinedOutput(); err != nil {
		return "", fmt.Errorf("go build: %w\n%s", err, out)
	}
	return bin, nil
})

// BuildBinary compiles cmd/discussions-loader once per test process and
// returns the path of the binary.
func BuildBinary(t *testing.T) string {
	t.Helper()

	bin, err := buildBinary()
	if err != nil {
		t.Fatalf("Failed to build binary: %v", err)
	}
	return bin
}

// CLIResult is what a finished CLI invocation left behind.
type CLIResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// RunCLI runs the binary with args. Entries in env replace any inherited
// variable of the same name.
func RunCLI(t *testing.T, args []string, env map[string]string) CLIResult {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, BuildBinary(t), args...)
	cmd.Env = mergeEnv(os.Environ(), env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CLIResult{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = -1
	}
	if ctx.Err() != nil {
		t.Fatalf("discussions-loader %s did not finish within %s", strings.Join(args, " "), cliTimeout)
	}
	return result
}

func mergeEnv(base []string, overrides map[string]string) []string {
	merged := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		name, _, _ := strings.Cut(kv, "=")
		if _, ok := overrides[name]; !ok {
			merged = append(merged, kv)
		}
	}
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		merged = append(merged, name+"="+overrides[name])
	}
	return merged
}

func AssertCLISuccess(t *testing.T, result CLIResult) {
	t.Helper()

	if result.ExitCode != 0 || result.Err != nil {
		t.Fatalf("Command exited %d: %v\nStderr: %s", result.ExitCode, result.Err, result.Stderr)
	}
}

// AssertCLIError fails unless the command exited non-zero and, when want is
// set, mentioned it on stderr.
func AssertCLIError(t *testing.T, result CLIResult, want string) {
	t.Helper()

	if result.ExitCode == 0 {
		t.Fatalf("Expected command to fail, stdout: %s", result.Stdout)
	}
	if want != "" && !strings.Contains(result.Stderr, want) {
		t.Errorf("Stderr does not mention %q:\n%s", want, result.Stderr)
	}
}

func AssertExitCode(t *testing.T, result CLIResult, want int) {
	t.Helper()

	if result.ExitCode != want {
		t.Errorf("Exit code = %d, want %d\nStderr: %s", result.ExitCode, want, result.Stderr)
	}
}

// TestEnv isolates HOME and points the CLI at endpoint with a fixed token.
func TestEnv(t *testing.T, endpoint string) map[string]string {
	t.Helper()

	return map[string]string{
		"HOME":                    t.TempDir(),
		"GITHUB_TOKEN":            "test-token",
		"GH_API_KEY":              "",
		"GITHUB_GRAPHQL_ENDPOINT": endpoint,
		"LOG_LEVEL":               "warn",
	}
}

// RunLoad runs "load repo args..." against endpoint.
func RunLoad(t *testing.T, endpoint, repo string, args ...string) CLIResult {
	t.Helper()

	return RunCLI(t, append([]string{"load", repo}, args...), TestEnv(t, endpoint))
}

// moduleRoot is two directories above this file.
func moduleRoot() (string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("cannot locate testutil source")
	}
	root := filepath.Join(filepath.Dir(file), "..", "..")
	if _, err := os.Stat(filepath.Join(root, "go.mod")); err != nil {
		return "", err
	}
	return root, nil
}
