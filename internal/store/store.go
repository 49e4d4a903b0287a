// Package store persists opaque text documents on local disk.
//
// Documents live in one directory per Category under the application root.
// The store never inspects document contents; callers own the format.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dgallion1/aitrpg/internal/paths"
)

var (
	// ErrNotFound is returned when a named document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidName is returned for filenames that are not a single path element.
	ErrInvalidName = errors.New("invalid document name")
	// ErrUnknownCategory is returned by ParseCategory.
	ErrUnknownCategory = errors.New("unknown category")
)

// Category is a kind of document with its own storage directory.
type Category struct {
	Dir   string // Subdirectory under the application root.
	Label string // Used in confirmation messages.
}

var (
	Saves      = Category{Dir: "saves", Label: "Save"}
	Worldlines = Category{Dir: "worldlines", Label: "Worldline"}
	Lorebooks  = Category{Dir: "lorebooks", Label: "Lorebook"}
)

// Categories lists every document category.
var Categories = []Category{Saves, Worldlines, Lorebooks}

// ParseCategory maps a directory name ("saves") or its singular ("save") to a Category.
func ParseCategory(name string) (Category, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range Categories {
		if name == c.Dir || name == strings.ToLower(c.Label) {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// DocumentStore provides CRUD over one category directory.
type DocumentStore struct {
	category Category
	dir      string
	log      *slog.Logger
}

// NewDocumentStore creates a store for category rooted by r. A nil logger
// discards output.
func NewDocumentStore(r *paths.Resolver, category Category, log *slog.Logger) *DocumentStore {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &DocumentStore{
		category: category,
		dir:      r.CategoryDir(category.Dir),
		log:      log.With("category", category.Dir),
	}
}

// Category returns the category this store serves.
func (s *DocumentStore) Category() Category { return s.category }

// Dir returns the category directory. It may not exist yet.
func (s *DocumentStore) Dir() string { return s.dir }

// Save writes content to filename, replacing any existing document.
func (s *DocumentStore) Save(filename, content string) (string, error) {
	if err := ValidateName(filename); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s directory: %w", s.category.Dir, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, filename), []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	s.log.Info("document saved", "filename", filename, "bytes", len(content))
	return fmt.Sprintf("%s saved: %s", s.category.Label, filename), nil
}

// Load returns the text of filename.
func (s *DocumentStore) Load(filename string) (string, error) {
	if err := ValidateName(filename); err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		return "", wrapNotFound(err)
	}
	return string(data), nil
}

// List returns the .json filenames in the category directory, sorted by name.
// A category directory that does not exist yields an empty list.
func (s *DocumentStore) List() ([]string, error) {
	f, err := os.Open(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("open %s directory: %w", s.category.Dir, err)
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		// Keep whatever was enumerated before the failure.
		s.log.Warn("partial directory listing", "error", err, "entries", len(entries))
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		// A bare ".json" is a dotfile with no extension.
		if filepath.Ext(e.Name()) == ".json" && e.Name() != ".json" {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// Delete removes filename.
func (s *DocumentStore) Delete(filename string) (string, error) {
	if err := ValidateName(filename); err != nil {
		return "", err
	}
	if err := os.Remove(filepath.Join(s.dir, filename)); err != nil {
		return "", wrapNotFound(err)
	}
	s.log.Info("document deleted", "filename", filename)
	return fmt.Sprintf("%s deleted: %s", s.category.Label, filename), nil
}

// Export is Load under the name the worldline screens use.
func (s *DocumentStore) Export(filename string) (string, error) {
	return s.Load(filename)
}

// Import is Save under the name the worldline screens use. The payload is not
// validated.
func (s *DocumentStore) Import(filename, content string) (string, error) {
	return s.Save(filename, content)
}

// ValidateName rejects names that would escape the category directory.
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`), strings.ContainsRune(name, filepath.Separator):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
