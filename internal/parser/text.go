package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/aitrpg/internal/doctree"
)

// TextParser splits plain text into one node per blank-line separated paragraph.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	tree := &doctree.DocTree{
		Title:  stem(filename, ".txt"),
		Format: doctree.FormatPlain,
	}

	var para strings.Builder
	emit := func() {
		if para.Len() == 0 {
			return
		}
		tree.Children = append(tree.Children, &doctree.DocNode{Text: para.String()})
		para.Reset()
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			emit()
			continue
		}
		if para.Len() > 0 {
			para.WriteByte('\n')
		}
		para.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	emit()

	return tree, nil
}
