// Package logsink writes the application log to a per-day file and mirrors
// lines to the console.
//
// The day is fixed when the sink is opened. A process that runs past midnight
// keeps appending to the file it opened at startup.
package logsink

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

const (
	filePrefix = "ai-trpg-"
	fileExt    = ".log"
	timeLayout = "2006-01-02 15:04:05.000"
)

// ErrBadName is returned by ReadFile for names that are not log files in dir.
var ErrBadName = errors.New("invalid log file name")

// Sink owns the open log file. All writes are serialized.
type Sink struct {
	mu        sync.Mutex
	file      *os.File
	path      string
	console   io.Writer
	minLevel  slog.Level
	now       func() time.Time
	closeOnce sync.Once
}

// Option configures a Sink.
type Option func(*Sink)

// WithConsole sets the mirror destination. Nil disables mirroring.
func WithConsole(w io.Writer) Option {
	return func(s *Sink) { s.console = w }
}

// WithConsoleLevel mirrors only lines at or above level. The file still gets
// every line.
func WithConsoleLevel(level slog.Level) Option {
	return func(s *Sink) { s.minLevel = level }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Sink) { s.now = now }
}

// FileName returns the log file name for the day containing t.
func FileName(t time.Time) string {
	return filePrefix + t.Format(time.DateOnly) + fileExt
}

// Open creates dir if needed and opens today's log file for appending. If the
// file cannot be opened the returned sink still mirrors to the console, and
// the error says why file logging is off.
func Open(dir string, opts ...Option) (*Sink, error) {
	s := &Sink{console: os.Stderr, minLevel: slog.LevelDebug, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return s, fmt.Errorf("create log directory: %w", err)
	}
	path := filepath.Join(dir, FileName(s.now()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return s, fmt.Errorf("open log file: %w", err)
	}
	s.file = f
	s.path = path
	return s, nil
}

// Path is the open log file, or "" when file logging is off.
func (s *Sink) Path() string { return s.path }

// Write appends one line: "[timestamp] [LEVEL] message", with "[context] "
// before the message when context is set. The file is synced before Write
// returns.
func (s *Sink) Write(level slog.Level, context, message string) {
	line := s.format(level, context, message)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		if _, err := io.WriteString(s.file, line); err == nil {
			s.file.Sync()
		}
	}
	if s.console != nil && level >= s.minLevel {
		io.WriteString(s.console, line)
	}
}

func (s *Sink) format(level slog.Level, context, message string) string {
	var b strings.Builder
	b.Grow(len(message) + 48)
	b.WriteByte('[')
	b.WriteString(s.now().Format(timeLayout))
	b.WriteString("] [")
	b.WriteString(level.String())
	b.WriteString("] ")
	if context != "" {
		b.WriteByte('[')
		b.WriteString(context)
		b.WriteString("] ")
	}
	b.WriteString(message)
	b.WriteByte('\n')
	return b.String()
}

// Close closes the log file. Later writes only reach the console.
func (s *Sink) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.file != nil {
			err = s.file.Close()
			s.file = nil
		}
	})
	return err
}

// ListFiles returns the log file names in dir, newest day first. A missing
// directory yields an empty list.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read log directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), fileExt) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	slices.Reverse(names)
	return names, nil
}

// ReadFile returns the contents of one log file in dir.
func ReadFile(dir, name string) (string, error) {
	if name == "" || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) || !strings.HasSuffix(name, fileExt) {
		return "", fmt.Errorf("%w: %q", ErrBadName, name)
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("read log file: %w", err)
	}
	return string(data), nil
}
