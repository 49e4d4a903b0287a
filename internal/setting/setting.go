// Package setting turns an imported directory tree into setting categories
// and generates lorebook entries from their documents.
package setting

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dgallion1/aitrpg/internal/doctree"
	"github.com/dgallion1/aitrpg/internal/importer"
	"github.com/dgallion1/aitrpg/internal/parser"
)

// DefaultDocumentCategory is assigned to documents whose front matter does
// not name a category.
const DefaultDocumentCategory = "Imported settings"

const (
	maxTags      = 3
	maxTagLength = 20
)

// Document is one imported text file.
type Document struct {
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	Format       doctree.Format `json:"format"`
	Category     string         `json:"category,omitempty"`
	Tags         []string       `json:"tags"`
	LastModified string         `json:"lastModified,omitempty"`
}

// Category groups the documents of one directory.
type Category struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	Documents     []Document  `json:"documents"`
	Subcategories []*Category `json:"subcategories,omitempty"`
}

var (
	lower      = cases.Lower(language.Und)
	whitespace = regexp.MustCompile(`\s+`)
)

// CategoryID derives the stable id of a category from its directory name.
func CategoryID(name string) string {
	return "category_" + whitespace.ReplaceAllString(lower.String(name), "_")
}

// ConvertToCategories maps each direct subdirectory of root to a category.
// Files directly under root are not part of any category.
func ConvertToCategories(root *importer.FileTreeNode) []*Category {
	return convert(root, time.Now())
}

func convert(root *importer.FileTreeNode, now time.Time) []*Category {
	out := []*Category{}
	if root == nil {
		return out
	}
	for _, child := range root.Children {
		if child.IsDir {
			out = append(out, convertDir(child, now))
		}
	}
	return out
}

func convertDir(n *importer.FileTreeNode, now time.Time) *Category {
	c := &Category{
		ID:          CategoryID(n.Name),
		Name:        n.Name,
		Description: n.Name + " settings",
		Documents:   []Document{},
	}
	for _, child := range n.Children {
		switch {
		case child.IsDir:
			c.Subcategories = append(c.Subcategories, convertDir(child, now))
		case child.Content != nil && *child.Content != "":
			c.Documents = append(c.Documents, convertFile(child, now))
		}
	}
	return c
}

func convertFile(n *importer.FileTreeNode, now time.Time) Document {
	lowerName := strings.ToLower(n.Name)
	doc := Document{
		Title:        documentTitle(n.Name),
		Content:      *n.Content,
		Format:       doctree.FormatPlain,
		Category:     DefaultDocumentCategory,
		LastModified: now.UTC().Format(time.RFC3339),
	}
	if strings.HasSuffix(lowerName, ".md") || strings.HasSuffix(lowerName, ".markdown") {
		doc.Format = doctree.FormatMarkdown
	}

	// A malformed header is treated as ordinary text.
	fm, body, err := ParseFrontMatter(doc.Content)
	if err == nil && fm != nil {
		doc.Content = body
		if fm.Title != "" {
			doc.Title = fm.Title
		}
		if fm.Category != "" {
			doc.Category = fm.Category
		}
		if len(fm.Tags) > 0 {
			doc.Tags = fm.Tags
		}
	}
	if doc.Tags == nil {
		doc.Tags = headingTags(doc.Content)
	}
	return doc
}

func documentTitle(name string) string {
	lowerName := strings.ToLower(name)
	for _, ext := range []string{".markdown", ".md", ".txt"} {
		if strings.HasSuffix(lowerName, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// headingTags returns up to three level-1 headings shorter than 20
// characters. Plain text is read as Markdown too, so "# " lines count.
func headingTags(content string) []string {
	tags := []string{}
	tree, err := (&parser.MarkdownParser{}).Parse(strings.NewReader(content), "")
	if err != nil {
		return tags
	}
	headings := tree.Headings(1)
	if len(headings) > maxTags {
		headings = headings[:maxTags]
	}
	for _, h := range headings {
		if n := utf8.RuneCountInString(h); n > 0 && n < maxTagLength {
			tags = append(tags, h)
		}
	}
	return tags
}

// CollectDocuments flattens categories and their subcategories, parents
// first.
func CollectDocuments(categories []*Category) []Document {
	var docs []Document
	for _, c := range categories {
		docs = append(docs, c.Documents...)
		docs = append(docs, CollectDocuments(c.Subcategories)...)
	}
	return docs
}

// TotalSize is the combined content length in bytes.
func TotalSize(docs []Document) int {
	total := 0
	for _, d := range docs {
		total += len(d.Content)
	}
	return total
}

// Summary describes an import in one sentence.
func Summary(categories []*Category) string {
	docs := CollectDocuments(categories)
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return fmt.Sprintf("Contains %d files, %.1f KB total. Main categories: %s.",
		len(docs), float64(TotalSize(docs))/1024, strings.Join(names, ", "))
}
