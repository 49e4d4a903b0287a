package setting

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dgallion1/aitrpg/internal/chunker"
	"github.com/dgallion1/aitrpg/internal/doctree"
	"github.com/dgallion1/aitrpg/internal/parser"
)

const (
	minEntryChars       = 50
	maxEntriesPerDoc    = 10
	maxEntryChars       = 500
	maxKeywords         = 5
	firstInsertion      = 100
	defaultScanDepth    = 10
	lorebookDescription = "World background knowledge base"
)

// Lorebook is the keyword-triggered reference book the game injects into
// prompts.
type Lorebook struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description,omitempty"`
	Entries           []Entry `json:"entries"`
	ScanDepth         int     `json:"scanDepth"`
	RecursiveScanning bool    `json:"recursiveScanning"`
	BudgetEnabled     bool    `json:"budgetEnabled"`
	CreatedAt         string  `json:"createdAt,omitempty"`
	UpdatedAt         string  `json:"updatedAt,omitempty"`
}

// Entry is one lorebook record.
type Entry struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Keys           []string `json:"keys"`
	Content        string   `json:"content"`
	Enabled        bool     `json:"enabled"`
	InsertionOrder int      `json:"insertionOrder"`
	Memo           string   `json:"memo,omitempty"`
	CaseSensitive  bool     `json:"caseSensitive"`
	UseRegex       bool     `json:"useRegex"`
	CreatedAt      string   `json:"createdAt,omitempty"`
	UpdatedAt      string   `json:"updatedAt,omitempty"`
}

// Generator builds lorebooks from setting documents.
type Generator struct {
	chunking chunker.Config
	now      func() time.Time
	newID    func() string
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithChunkSize sets the target entry size in estimated tokens.
func WithChunkSize(tokens int) GeneratorOption {
	return func(g *Generator) { g.chunking.ChunkSize = tokens }
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) { g.now = now }
}

// WithIDs replaces the random id source.
func WithIDs(next func() string) GeneratorOption {
	return func(g *Generator) { g.newID = next }
}

// NewGenerator returns a Generator with lorebook-sized chunking.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		chunking: chunker.DefaultConfig(),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	g.chunking.MinChunk = 1
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ToLorebook converts documents with a default Generator.
func ToLorebook(docs []Document, name string) Lorebook {
	return NewGenerator().ToLorebook(docs, name)
}

// ToLorebook turns each document into at most ten entries. Pieces of 50
// characters or less and pieces without usable keywords are skipped.
// Insertion order starts at 100 and increases across all documents.
func (g *Generator) ToLorebook(docs []Document, name string) Lorebook {
	stamp := g.now().UTC().Format(time.RFC3339)
	book := Lorebook{
		ID:                "lorebook_" + g.newID(),
		Name:              name + " - Lorebook",
		Description:       lorebookDescription,
		Entries:           []Entry{},
		ScanDepth:         defaultScanDepth,
		RecursiveScanning: true,
		CreatedAt:         stamp,
		UpdatedAt:         stamp,
	}

	order := firstInsertion
	for _, doc := range docs {
		for _, chunk := range g.pieces(doc) {
			keys := Keywords(chunk.Text)
			if len(keys) == 0 {
				continue
			}
			title := doc.Title + " - excerpt"
			if n := len(chunk.Breadcrumb); n > 0 {
				title = doc.Title + " - " + chunk.Breadcrumb[n-1]
			}
			book.Entries = append(book.Entries, Entry{
				ID:             "entry_" + g.newID(),
				Title:          title,
				Keys:           keys,
				Content:        truncateRunes(chunk.Text, maxEntryChars),
				Enabled:        true,
				InsertionOrder: order,
				Memo:           "Source: " + doc.Title,
				CreatedAt:      stamp,
				UpdatedAt:      stamp,
			})
			order++
		}
	}
	return book
}

// pieces returns the first ten chunks of doc long enough to become entries.
func (g *Generator) pieces(doc Document) []doctree.Chunk {
	var p parser.Parser = &parser.TextParser{}
	if doc.Format == doctree.FormatMarkdown {
		p = &parser.MarkdownParser{}
	}
	tree, err := p.Parse(strings.NewReader(doc.Content), doc.Title)
	if err != nil {
		return nil
	}
	var out []doctree.Chunk
	for _, c := range chunker.ChunkTree(tree, g.chunking) {
		if utf8.RuneCountInString(c.Text) <= minEntryChars {
			continue
		}
		out = append(out, c)
		if len(out) == maxEntriesPerDoc {
			break
		}
	}
	return out
}

var (
	markup         = regexp.MustCompile("[#*_`\\[\\]()]")
	wordSeparators = regexp.MustCompile(`[\s,，。.!！?？；;：:、]+`)
)

// Keywords takes the first five words of 2 to 14 characters in text, after
// Markdown punctuation is removed, and drops repeats among them. A repeated
// word still uses up one of the five, so fewer than five keys may come back.
func Keywords(text string) []string {
	clean := markup.ReplaceAllString(text, "")
	var keys []string
	seen := map[string]bool{}
	taken := 0
	for _, w := range wordSeparators.Split(clean, -1) {
		if n := utf8.RuneCountInString(w); n < 2 || n > 14 {
			continue
		}
		taken++
		if !seen[w] {
			seen[w] = true
			keys = append(keys, w)
		}
		if taken == maxKeywords {
			break
		}
	}
	return keys
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
