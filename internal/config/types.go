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

// Package config types define the configuration structures used throughout
// discussions-loader. These types represent settings that can be loaded from
// YAML or TOML configuration files, environment variables, or command-line flags.
package config

// Store kinds accepted in DefaultsConfig.Store.
const (
	StoreMemory   = "memory"
	StoreSnapshot = "snapshot"
	StoreSQLite   = "sqlite"
	StoreNDJSON   = "ndjson"
)

// Config represents the complete configuration for discussions-loader.
type Config struct {
	GitHub       GitHubConfig          `yaml:"github" toml:"github"`
	Defaults     DefaultsConfig        `yaml:"defaults" toml:"defaults"`
	Repositories map[string]RepoConfig `yaml:"repositories" toml:"repositories" validate:"dive"`
	Logging      LoggingConfig         `yaml:"logging" toml:"logging"`
}

// GitHubConfig contains GitHub-specific settings. Setting GraphQLEndpoint
// points the loader at a GitHub Enterprise Server.
type GitHubConfig struct {
	GraphQLEndpoint string `yaml:"graphql_endpoint" toml:"graphql_endpoint" validate:"required,url"`
	TokenEnv        string `yaml:"token_env" toml:"token_env" validate:"required"`
}

// DefaultsConfig contains settings that apply to every load unless
// overridden by repository-specific settings or command-line flags.
type DefaultsConfig struct {
	PageSize          int    `yaml:"page_size" toml:"page_size" validate:"min=1,max=100"`
	Store             string `yaml:"store" toml:"store" validate:"oneof=memory snapshot sqlite ndjson"`
	StorePath         string `yaml:"store_path" toml:"store_path"`
	Render            bool   `yaml:"render" toml:"render"`
	Sanitize          bool   `yaml:"sanitize" toml:"sanitize"`
	HeadingIDs        bool   `yaml:"heading_ids" toml:"heading_ids"`
	RenderConcurrency int    `yaml:"render_concurrency" toml:"render_concurrency" validate:"min=0"`
	MetadataDir       string `yaml:"metadata_dir" toml:"metadata_dir"`
}

// RepoConfig contains repository-specific overrides keyed by "owner/repo".
// Categories may hold category node ids or slugs.
type RepoConfig struct {
	Categories []string `yaml:"categories" toml:"categories"`
	PageSize   int      `yaml:"page_size" toml:"page_size" validate:"min=0,max=100"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level" validate:"omitempty,oneof=trace debug info warn warning error disabled off none"`
	Format string `yaml:"format" toml:"format" validate:"omitempty,oneof=console json"`
}

// DefaultConfig returns a Config with defaults suitable for public GitHub.com.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
		Defaults: DefaultsConfig{
			PageSize: 100,
			Store:    StoreNDJSON,
			Render:   true,
			Sanitize: true,
		},
		Repositories: make(map[string]RepoConfig),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
