// Package paths derives the on-disk layout of the application data folder.
//
// All storage lives under a single root, <documents>/AI-TRPG, where
// <documents> is the platform documents directory of the current user.
package paths

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppDirName is the folder created inside the user's documents directory.
const AppDirName = "AI-TRPG"

// ErrEnvironment is returned when the documents directory cannot be determined.
var ErrEnvironment = errors.New("cannot determine documents directory")

// documentsDir is swapped out in tests.
var documentsDir = func() (string, error) {
	dir := xdg.UserDirs.Documents
	if dir == "" {
		return "", ErrEnvironment
	}
	return dir, nil
}

// Resolver maps categories and well-known files to absolute paths.
type Resolver struct {
	root string
}

// New returns a resolver rooted at root. The root is used as-is; AppDirName is
// not appended.
func New(root string) *Resolver {
	return &Resolver{root: filepath.Clean(root)}
}

// FromEnvironment returns a resolver rooted at <documents>/AI-TRPG.
func FromEnvironment() (*Resolver, error) {
	dir, err := documentsDir()
	if err != nil {
		if !errors.Is(err, ErrEnvironment) {
			err = fmt.Errorf("%w: %w", ErrEnvironment, err)
		}
		return nil, err
	}
	return New(filepath.Join(dir, AppDirName)), nil
}

// Root is the application data folder.
func (r *Resolver) Root() string { return r.root }

// CategoryDir returns <root>/<category>.
func (r *Resolver) CategoryDir(category string) string {
	return filepath.Join(r.root, category)
}

// ConfigPath returns <root>/config.json.
func (r *Resolver) ConfigPath() string {
	return filepath.Join(r.root, "config.json")
}

// LogsDir returns <root>/logs.
func (r *Resolver) LogsDir() string {
	return filepath.Join(r.root, "logs")
}
