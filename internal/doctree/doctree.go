// Package doctree holds the section tree parsers build from source documents.
package doctree

import "strings"

// Format names the kind of source a tree was parsed from.
type Format string

const (
	FormatPlain    Format = "plaintext"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
	FormatCSV      Format = "csv"
)

// DocTree is the root of a parsed document.
type DocTree struct {
	Title    string // From the document itself when available, else the filename stem.
	Format   Format
	Children []*DocNode
}

// DocNode is a section of the document. Leaf paragraphs have no Title.
type DocNode struct {
	Title    string
	Level    int    // Heading level, 0 for untitled text.
	Text     string // Body text directly under this heading.
	Page     int    // Source page, 0 if N/A.
	Children []*DocNode
}

// Chunk is a sized text segment with its heading path.
type Chunk struct {
	Text       string
	Index      int
	Breadcrumb []string // e.g. ["Geography", "The Northern Wastes"]
	PageStart  int
	PageEnd    int
}

// Walk visits every node depth-first, parents before children.
func (t *DocTree) Walk(fn func(n *DocNode, depth int)) {
	var visit func(nodes []*DocNode, depth int)
	visit = func(nodes []*DocNode, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			visit(n.Children, depth+1)
		}
	}
	visit(t.Children, 0)
}

// Headings returns the titles of all headings at the given level, in order.
func (t *DocTree) Headings(level int) []string {
	var out []string
	t.Walk(func(n *DocNode, _ int) {
		if n.Level == level && n.Title != "" {
			out = append(out, n.Title)
		}
	})
	return out
}

// PlainText flattens the tree into text, headings on their own line and
// blocks separated by blank lines.
func (t *DocTree) PlainText() string {
	var parts []string
	t.Walk(func(n *DocNode, _ int) {
		if n.Title != "" {
			parts = append(parts, n.Title)
		}
		if n.Text != "" {
			parts = append(parts, n.Text)
		}
	})
	return strings.Join(parts, "\n\n")
}
