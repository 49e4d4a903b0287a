package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/aitrpg/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser builds sections from Markdown headings using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	tree := &doctree.DocTree{
		Title:  stem(filename, ".markdown", ".md"),
		Format: doctree.FormatMarkdown,
	}
	o := newOutline(tree.Title)

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			o.heading(h.Level, strings.TrimSpace(string(inlineText(h, src))))
			continue
		}
		o.block(blockText(n, src))
	}
	o.finish(tree)

	return tree, nil
}

// blockText returns the source text of a block. Leaf blocks (paragraphs,
// code) carry their own lines; containers (lists, quotes) are joined from
// their children.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if lines := n.Lines(); lines.Len() > 0 {
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() != ast.TypeBlock {
			continue
		}
		if t := blockText(c, src); t != "" {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(t)
		}
	}
	return strings.TrimSpace(buf.String())
}

func inlineText(n ast.Node, src []byte) []byte {
	var buf bytes.Buffer
	if t, ok := n.(*ast.Text); ok {
		buf.Write(t.Value(src))
		if t.HardLineBreak() || t.SoftLineBreak() {
			buf.WriteByte('\n')
		}
		return buf.Bytes()
	}
	if s, ok := n.(*ast.String); ok {
		return s.Value
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		buf.Write(inlineText(c, src))
	}
	return buf.Bytes()
}
