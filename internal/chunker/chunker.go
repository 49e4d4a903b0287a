// Package chunker cuts section trees into bounded, heading-aware text chunks.
package chunker

import (
	"strings"

	"github.com/dgallion1/aitrpg/internal/doctree"
)

// Config controls chunking behavior. Sizes are in estimated tokens.
type Config struct {
	ChunkSize    int // Target chunk size.
	ChunkOverlap int // Overlap carried into the next chunk of the same section.
	MinChunk     int // Chunks smaller than this are dropped.
}

// DefaultConfig suits lorebook entries: short, mostly one paragraph each.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    120,
		ChunkOverlap: 0,
		MinChunk:     12,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ChunkSize <= 0 {
		c.ChunkSize = d.ChunkSize
	}
	if c.ChunkOverlap < 0 {
		c.ChunkOverlap = 0
	}
	if c.MinChunk <= 0 {
		c.MinChunk = d.MinChunk
	}
	return c
}

// ChunkTree walks tree and produces chunks in document order.
func ChunkTree(tree *doctree.DocTree, cfg Config) []doctree.Chunk {
	cfg = cfg.withDefaults()

	var chunks []doctree.Chunk
	for _, child := range tree.Children {
		chunks = walkNode(child, nil, cfg, chunks)
	}
	return chunks
}

func walkNode(node *doctree.DocNode, breadcrumb []string, cfg Config, chunks []doctree.Chunk) []doctree.Chunk {
	bc := breadcrumb
	if node.Title != "" {
		bc = append(append([]string(nil), breadcrumb...), node.Title)
	}

	if node.Text != "" {
		parts := []string{node.Text}
		if EstimateTokens(node.Text) > cfg.ChunkSize {
			parts = splitText(node.Text, cfg.ChunkSize, cfg.ChunkOverlap)
		}
		for _, part := range parts {
			if EstimateTokens(part) < cfg.MinChunk {
				continue
			}
			chunks = append(chunks, doctree.Chunk{
				Text:       part,
				Index:      len(chunks),
				Breadcrumb: copyBreadcrumb(bc),
				PageStart:  node.Page,
				PageEnd:    node.Page,
			})
		}
	}

	for _, child := range node.Children {
		chunks = walkNode(child, bc, cfg, chunks)
	}
	return chunks
}

// Paragraphs splits text on blank lines and drops empty pieces.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitText packs paragraphs into chunks of about target tokens. Paragraphs
// that alone exceed the target are split by sentence.
func splitText(text string, target, overlap int) []string {
	var p packer
	p.target, p.overlap, p.sep = target, overlap, "\n\n"

	for _, para := range Paragraphs(text) {
		if EstimateTokens(para) > target {
			p.flush(false)
			var s packer
			s.target, s.overlap, s.sep = target, overlap, " "
			for _, sent := range splitSentences(para) {
				s.add(sent)
			}
			s.flush(false)
			p.out = append(p.out, s.out...)
			continue
		}
		p.add(para)
	}
	p.flush(false)
	return p.out
}

// packer accumulates pieces until the target size is reached.
type packer struct {
	target, overlap int
	sep             string
	cur             strings.Builder
	tokens          int
	out             []string
}

func (p *packer) add(piece string) {
	n := EstimateTokens(piece)
	if p.tokens > 0 && p.tokens+n > p.target {
		p.flush(true)
	}
	if p.cur.Len() > 0 {
		p.cur.WriteString(p.sep)
	}
	p.cur.WriteString(piece)
	p.tokens += n
}

// flush emits the current chunk. With carry set, the tail of the emitted
// chunk seeds the next one.
func (p *packer) flush(carry bool) {
	if p.tokens == 0 {
		return
	}
	done := p.cur.String()
	p.out = append(p.out, done)
	p.cur.Reset()
	p.tokens = 0
	if carry {
		if tail := overlapText(done, p.overlap); tail != "" {
			p.cur.WriteString(tail)
			p.tokens = EstimateTokens(tail)
		}
	}
}

// splitSentences breaks on Western terminators followed by a space and on
// CJK full-width terminators.
func splitSentences(text string) []string {
	var out []string
	var cur strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		cur.WriteRune(r)
		end := false
		switch r {
		case '。', '！', '？', '；':
			end = true
		case '.', '!', '?':
			end = i+1 < len(runes) && runes[i+1] == ' '
		}
		if end {
			if s := strings.TrimSpace(cur.String()); s != "" {
				out = append(out, s)
			}
			cur.Reset()
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		out = append(out, s)
	}
	return out
}

// overlapText returns roughly the last target tokens of text, on word
// boundaries.
func overlapText(text string, target int) string {
	words := strings.Fields(text)
	n := int(float64(target) / 1.33)
	if n <= 0 || len(words) <= n {
		return ""
	}
	return strings.Join(words[len(words)-n:], " ")
}

func copyBreadcrumb(bc []string) []string {
	if len(bc) == 0 {
		return nil
	}
	return append([]string(nil), bc...)
}
