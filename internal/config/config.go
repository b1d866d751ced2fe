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

// Package config provides configuration management for discussions-loader
// with support for multiple configuration sources and a well-defined
// precedence order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Repository-specific configuration
//  4. Global configuration file
//  5. Built-in defaults
//
// Configuration files may be YAML or TOML; the format is chosen by file
// extension.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FallbackTokenEnv is consulted when the configured token variable is unset.
const FallbackTokenEnv = "GH_API_KEY"

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .discussions-loader.yaml, .yml or .toml (current directory)
//   - ~/.discussions-loader/config.yaml, .yml or .toml
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides. Path expansion (~ and environment variables) is performed
// on file and directory paths.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		home := homeDir()
		defaultPaths := []string{
			".discussions-loader.yaml",
			".discussions-loader.yml",
			".discussions-loader.toml",
			filepath.Join(home, ".discussions-loader", "config.yaml"),
			filepath.Join(home, ".discussions-loader", "config.yml"),
			filepath.Join(home, ".discussions-loader", "config.toml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)

	cfg.Defaults.StorePath = expandPath(cfg.Defaults.StorePath)
	cfg.Defaults.MetadataDir = expandPath(cfg.Defaults.MetadataDir)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML or TOML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("GITHUB_GRAPHQL_ENDPOINT"); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}

	if pageSize := os.Getenv("DISCUSSIONS_PAGE_SIZE"); pageSize != "" {
		if size, err := parsePositiveInt(pageSize); err == nil {
			cfg.Defaults.PageSize = size
		}
	}
	if store := os.Getenv("DISCUSSIONS_STORE"); store != "" {
		cfg.Defaults.Store = strings.ToLower(store)
	}
	if storePath := os.Getenv("DISCUSSIONS_STORE_PATH"); storePath != "" {
		cfg.Defaults.StorePath = storePath
	}
	if render := os.Getenv("DISCUSSIONS_RENDER"); render != "" {
		cfg.Defaults.Render = parseBool(render)
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logging.Level = strings.ToLower(level)
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Logging.Format = strings.ToLower(format)
	}
}

func homeDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home = os.Getenv("USERPROFILE") // Windows
	}
	return home
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(homeDir(), path[2:])
	}
	return os.ExpandEnv(path)
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	var i int
	_, err := fmt.Sscanf(s, "%d", &i)
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// parseBool parses various boolean representations
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}

// PageSize returns the effective page size for a repository in "owner/repo"
// format, taking repository-specific overrides into account.
func (c *Config) PageSize(repo string) int {
	if repoConfig, ok := c.Repositories[repo]; ok && repoConfig.PageSize > 0 {
		return repoConfig.PageSize
	}
	return c.Defaults.PageSize
}

// Categories returns the categories configured for a repository, or nil to
// load every category.
func (c *Config) Categories(repo string) []string {
	if repoConfig, ok := c.Repositories[repo]; ok && len(repoConfig.Categories) > 0 {
		return append([]string(nil), repoConfig.Categories...)
	}
	return nil
}

// Token returns the GitHub credential: flagValue when set, otherwise the
// variable named by github.token_env, otherwise GH_API_KEY.
func (c *Config) Token(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if c.GitHub.TokenEnv != "" {
		if token := os.Getenv(c.GitHub.TokenEnv); token != "" {
			return token
		}
	}
	return os.Getenv(FallbackTokenEnv)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks if the configuration contains valid values. It ensures
// page sizes are within GitHub's limits, the endpoint is a URL and the store
// kind is known. Persistent stores other than ndjson need a store path.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describe(fe))
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
	}

	if c.Defaults.Store == StoreSQLite && c.Defaults.StorePath == "" {
		return fmt.Errorf("invalid configuration: defaults.store_path is required for the sqlite store")
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s cannot be empty", field)
	case "url":
		return fmt.Sprintf("%s must be a URL, got %q", field, fe.Value())
	case "min", "max":
		return fmt.Sprintf("%s must be %s %s, got %v", field, map[string]string{"min": "at least", "max": "at most"}[fe.Tag()], fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
