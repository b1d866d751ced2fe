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

package render

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterFence = "---"

// SplitFrontMatter separates a leading YAML front matter block from body.
// A block starts with a "---" line at the very top and ends at the next
// "---" line. Bodies without a block are returned unchanged with nil front
// matter. A block that is never closed, or whose content is not a YAML
// mapping, is plain Markdown (a thematic break followed by a setext heading
// looks the same) and the body is returned unchanged.
func SplitFrontMatter(body string) (map[string]any, string) {
	normalized := strings.ReplaceAll(body, "\r\n", "\n")
	if !strings.HasPrefix(normalized, frontMatterFence+"\n") {
		return nil, body
	}

	rest := normalized[len(frontMatterFence)+1:]
	var block string
	switch {
	case strings.HasPrefix(rest, frontMatterFence+"\n"), rest == frontMatterFence:
		block, rest = "", strings.TrimPrefix(strings.TrimPrefix(rest, frontMatterFence), "\n")
	default:
		end := strings.Index(rest, "\n"+frontMatterFence+"\n")
		if end < 0 {
			if !strings.HasSuffix(rest, "\n"+frontMatterFence) {
				return nil, body
			}
			end = len(rest) - len(frontMatterFence) - 1
			block, rest = rest[:end], ""
		} else {
			block, rest = rest[:end], rest[end+len(frontMatterFence)+2:]
		}
	}

	frontmatter := map[string]any{}
	if strings.TrimSpace(block) != "" {
		if err := yaml.Unmarshal([]byte(block), &frontmatter); err != nil {
			return nil, body
		}
	}
	return frontmatter, rest
}
