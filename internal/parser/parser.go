// Package parser turns narrative source files into section trees.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/aitrpg/internal/doctree"
)

// Parser converts raw document bytes into a DocTree.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.DocTree, error)
}

// Options tune parsers that have external fallbacks.
type Options struct {
	// PDFFallback shells out to pdftotext when the Go PDF reader fails.
	PDFFallback bool
}

// SupportedExtensions lists the extensions ForFile accepts, lowercased, without the dot.
var SupportedExtensions = map[string]bool{
	"txt":      true,
	"md":       true,
	"markdown": true,
	"csv":      true,
	"html":     true,
	"htm":      true,
	"pdf":      true,
	"docx":     true,
}

// ForFile returns the parser for filename using default options.
func ForFile(filename string) (Parser, error) {
	return Options{}.ForFile(filename)
}

// ForFile returns the parser for filename.
func (o Options) ForFile(filename string) (Parser, error) {
	switch ext := extension(filename); ext {
	case "txt":
		return &TextParser{}, nil
	case "md", "markdown":
		return &MarkdownParser{}, nil
	case "csv":
		return &CSVParser{}, nil
	case "html", "htm":
		return &HTMLParser{}, nil
	case "pdf":
		return &PDFParser{FallbackPdftotext: o.PDFFallback}, nil
	case "docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension reports whether ForFile can handle filename.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[extension(filename)]
}

// ExtractText parses r with the parser for filename and flattens the result.
func (o Options) ExtractText(r io.Reader, filename string) (string, error) {
	p, err := o.ForFile(filename)
	if err != nil {
		return "", err
	}
	tree, err := p.Parse(r, filename)
	if err != nil {
		return "", err
	}
	return tree.PlainText(), nil
}

func extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// stem strips the first matching suffix (case-insensitive) from filename.
func stem(filename string, suffixes ...string) string {
	base := filepath.Base(filename)
	lower := strings.ToLower(base)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s) {
			return base[:len(base)-len(s)]
		}
	}
	return base
}
