package setting

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var frontMatterPattern = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n?(.*)`)

// FrontMatter is the optional YAML header of an imported setting document.
type FrontMatter struct {
	Title    string   `yaml:"title"`
	Category string   `yaml:"category"`
	Tags     []string `yaml:"tags,flow"`
}

// ParseFrontMatter splits a leading "---" YAML block from content. Content
// without a header is returned unchanged with a nil FrontMatter.
func ParseFrontMatter(content string) (*FrontMatter, string, error) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	m := frontMatterPattern.FindStringSubmatch(normalized)
	if m == nil {
		return nil, content, nil
	}
	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(m[1]), &fm); err != nil {
		return nil, content, fmt.Errorf("parse front matter: %w", err)
	}
	return &fm, m[2], nil
}
