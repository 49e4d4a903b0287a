package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/aitrpg/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXParser builds sections from paragraphs styled Heading1..Heading6.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	path, cleanup, err := spool(r, "aitrpg-*.docx")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat docx: %w", err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	tree := &doctree.DocTree{
		Title:  stem(filename, ".docx"),
		Format: doctree.FormatDOCX,
	}
	o := newOutline(tree.Title)

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}
		if level := headingStyleLevel(para); level > 0 {
			o.heading(level, text)
		} else {
			o.block(text)
		}
	}
	o.finish(tree)

	return tree, nil
}

// headingStyleLevel reads "Heading3" or "heading 3" style names.
func headingStyleLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if !strings.HasPrefix(style, "heading") || len(style) != len("heading")+1 {
		return 0
	}
	level := int(style[len(style)-1] - '0')
	if level < 1 || level > 6 {
		return 0
	}
	return level
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
