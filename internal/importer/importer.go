// Package importer snapshots a directory of narrative source material into a
// FileTreeNode tree.
//
// Failures below the root never abort an import. A child whose metadata or
// directory listing cannot be read is left out of its parent entirely; a
// recognized text file that cannot be read stays in the tree with no content.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/aitrpg/internal/parser"
	"github.com/gobwas/glob"
)

// ErrPathNotFound is returned when the import root does not exist.
var ErrPathNotFound = errors.New("import path not found")

// TextExtensions are the extensions whose content is read by default. Matching
// is case-sensitive.
var TextExtensions = map[string]bool{
	"md":       true,
	"markdown": true,
	"txt":      true,
}

// FileTreeNode is one file or directory in an imported tree.
type FileTreeNode struct {
	Name     string          `json:"name"`
	Path     string          `json:"path"`
	IsDir    bool            `json:"is_dir"`
	Content  *string         `json:"content"`
	Children []*FileTreeNode `json:"children"`
}

// Importer walks directory trees. The zero value is not usable; call New.
type Importer struct {
	ignore   []glob.Glob
	rich     bool
	parsers  parser.Options
	maxDepth int
	log      *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer) error

// WithIgnore skips children whose name matches any of the glob patterns.
func WithIgnore(patterns ...string) Option {
	return func(im *Importer) error {
		for _, p := range patterns {
			if p = strings.TrimSpace(p); p == "" {
				continue
			}
			g, err := glob.Compile(p)
			if err != nil {
				return fmt.Errorf("ignore pattern %q: %w", p, err)
			}
			im.ignore = append(im.ignore, g)
		}
		return nil
	}
}

// WithRichText also extracts text from formats the parser package supports
// beyond plain text and Markdown (HTML, PDF, DOCX, CSV).
func WithRichText(opts parser.Options) Option {
	return func(im *Importer) error {
		im.rich = true
		im.parsers = opts
		return nil
	}
}

// WithMaxDepth stops descending below depth n; deeper directories are kept
// with no children. Zero means unlimited.
func WithMaxDepth(n int) Option {
	return func(im *Importer) error {
		if n < 0 {
			return fmt.Errorf("max depth must not be negative, got %d", n)
		}
		im.maxDepth = n
		return nil
	}
}

// WithLogger reports dropped entries at debug level.
func WithLogger(log *slog.Logger) Option {
	return func(im *Importer) error {
		if log != nil {
			im.log = log
		}
		return nil
	}
}

// New creates an Importer.
func New(opts ...Option) (*Importer, error) {
	im := &Importer{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		if err := opt(im); err != nil {
			return nil, err
		}
	}
	return im, nil
}

// Import builds the tree rooted at root. Only a failure at root itself is
// returned as an error.
func Import(root string) (*FileTreeNode, error) {
	im, _ := New()
	return im.Import(root)
}

// Import builds the tree rooted at root.
func (im *Importer) Import(root string) (*FileTreeNode, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, abs)
		}
		return nil, fmt.Errorf("stat %s: %w", abs, err)
	}
	return im.visit(abs, nil)
}

// errCycle marks a directory that is its own ancestor through a symlink.
var errCycle = errors.New("directory cycle")

// visit characterizes one path. ancestors holds the directories above it.
// The caller decides what to do with a failure.
func (im *Importer) visit(path string, ancestors []fs.FileInfo) (*FileTreeNode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	node := &FileTreeNode{
		Name:  info.Name(),
		Path:  path,
		IsDir: info.IsDir(),
	}

	if !info.IsDir() {
		node.Content = im.readContent(path, info)
		return node, nil
	}

	for _, a := range ancestors {
		if os.SameFile(a, info) {
			return nil, fmt.Errorf("%w at %s", errCycle, path)
		}
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	node.Children = make([]*FileTreeNode, 0, len(entries))
	if im.maxDepth > 0 && len(ancestors) >= im.maxDepth {
		return node, nil
	}
	ancestors = append(ancestors[:len(ancestors):len(ancestors)], info)
	for _, e := range entries {
		if im.ignored(e.Name()) {
			continue
		}
		child, err := im.visit(filepath.Join(path, e.Name()), ancestors)
		if err != nil {
			im.log.Debug("dropping unreadable entry", "path", filepath.Join(path, e.Name()), "error", err)
			continue
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// readContent returns the text of recognized files, or nil.
func (im *Importer) readContent(path string, info fs.FileInfo) *string {
	if !info.Mode().IsRegular() {
		return nil
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	switch {
	case TextExtensions[ext]:
		data, err := os.ReadFile(path)
		if err != nil || !utf8.Valid(data) {
			return nil
		}
		s := string(data)
		return &s
	case im.rich && parser.IsSupportedExtension(path) && !TextExtensions[strings.ToLower(ext)]:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		s, err := im.parsers.ExtractText(bytes.NewReader(data), info.Name())
		if err != nil {
			im.log.Debug("text extraction failed", "path", path, "error", err)
			return nil
		}
		return &s
	}
	return nil
}

func (im *Importer) ignored(name string) bool {
	for _, g := range im.ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// CountFiles returns the number of file nodes under n that carry content.
func CountFiles(n *FileTreeNode) int {
	if n == nil {
		return 0
	}
	if !n.IsDir {
		if n.Content != nil {
			return 1
		}
		return 0
	}
	count := 0
	for _, c := range n.Children {
		count += CountFiles(c)
	}
	return count
}
