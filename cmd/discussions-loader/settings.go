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

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirseerhq/discussions-loader/internal/config"
	loadererrors "github.com/sirseerhq/discussions-loader/internal/errors"
	"github.com/sirseerhq/discussions-loader/internal/giterror"
	"github.com/sirseerhq/discussions-loader/internal/loader"
	"github.com/sirseerhq/discussions-loader/internal/logger"
)

// setup loads and validates the configuration, applies the global flags and
// initializes logging.
func setup(globals *globalOptions, stderr io.Writer) (*config.Config, error) {
	cfg, err := config.LoadConfig(globals.configPath)
	if err != nil {
		return nil, err
	}

	if globals.logLevel != "" {
		if !logger.ValidLevel(globals.logLevel) {
			return nil, fmt.Errorf("invalid log level %q: %w", globals.logLevel, loadererrors.ErrInvalidArgument)
		}
		cfg.Logging.Level = globals.logLevel
	}
	if globals.logFormat != "" {
		cfg.Logging.Format = globals.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Init(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: stderr,
	})

	return cfg, nil
}

// target is the repository a command operates on.
type target struct {
	owner string
	repo  string
}

func (t target) String() string {
	return t.owner + "/" + t.repo
}

func parseTarget(repoURL string) (target, error) {
	owner, repo, err := loader.ParseRepoURL(repoURL)
	if err != nil {
		return target{}, err
	}
	return target{owner: owner, repo: repo}, nil
}

// requireToken returns the credential or an error naming where to set it.
func requireToken(cfg *config.Config, flagToken string) (string, error) {
	token := cfg.Token(flagToken)
	if token == "" {
		return "", fmt.Errorf("GitHub token not found. Set %s or use --token flag: %w",
			cfg.GitHub.TokenEnv, loadererrors.ErrInvalidToken)
	}
	return token, nil
}

// failureError turns a failed load's kind back into a sentinel so the exit
// code reflects the upstream failure.
func failureError(kind, message string) error {
	var sentinel error
	switch kind {
	case giterror.KindAuth:
		sentinel = loadererrors.ErrInvalidToken
	case giterror.KindNotFound:
		sentinel = loadererrors.ErrRepoNotFound
	case giterror.KindRateLimit:
		sentinel = loadererrors.ErrRateLimit
	case giterror.KindComplexity:
		sentinel = loadererrors.ErrQueryComplexity
	case giterror.KindNetwork:
		sentinel = loadererrors.ErrNetworkFailure
	case giterror.KindRender:
		sentinel = loadererrors.ErrRender
	default:
		return errors.New("load failed: " + message)
	}
	return fmt.Errorf("load failed: %s: %w", message, sentinel)
}
