package setting

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/aitrpg/internal/doctree"
)

func testGenerator(opts ...GeneratorOption) *Generator {
	n := 0
	base := []GeneratorOption{
		WithClock(func() time.Time { return time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC) }),
		WithIDs(func() string { n++; return fmt.Sprint(n) }),
	}
	return NewGenerator(append(base, opts...)...)
}

func TestToLorebookMarkdown(t *testing.T) {
	doc := Document{
		Title:   "ports",
		Format:  doctree.FormatMarkdown,
		Content: "# Harbor\n\nPort Vell is a harbor town built on black basalt cliffs above the grey sea.\n\nShort line.\n",
	}

	book := testGenerator().ToLorebook([]Document{doc}, "Vell")

	assert.Equal(t, "lorebook_1", book.ID)
	assert.Equal(t, "Vell - Lorebook", book.Name)
	assert.Equal(t, 10, book.ScanDepth)
	assert.True(t, book.RecursiveScanning)
	assert.False(t, book.BudgetEnabled)
	assert.Equal(t, "2026-04-01T12:00:00Z", book.CreatedAt)

	require.Len(t, book.Entries, 1)
	e := book.Entries[0]
	assert.Equal(t, "entry_2", e.ID)
	assert.Equal(t, "ports - Harbor", e.Title)
	assert.Equal(t, []string{"Port", "Vell", "is", "harbor", "town"}, e.Keys)
	assert.True(t, strings.HasPrefix(e.Content, "Port Vell is a harbor town"))
	assert.True(t, e.Enabled)
	assert.Equal(t, 100, e.InsertionOrder)
	assert.Equal(t, "Source: ports", e.Memo)
}

func TestToLorebookLimitsAndOrder(t *testing.T) {
	var paras []string
	for i := range 12 {
		paras = append(paras, fmt.Sprintf("Paragraph %02d tells of the river trade between the northern and southern towns.", i))
	}
	first := Document{
		Title:   "rivers",
		Format:  doctree.FormatPlain,
		Content: "tiny\n\n" + strings.Join(paras, "\n\n"),
	}
	second := Document{
		Title:   "roads",
		Format:  doctree.FormatPlain,
		Content: "The old imperial road runs from the capital to the western marches.",
	}

	book := testGenerator().ToLorebook([]Document{first, second}, "Realm")

	require.Len(t, book.Entries, 11)
	for i, e := range book.Entries {
		assert.Equal(t, 100+i, e.InsertionOrder)
	}
	assert.Equal(t, "rivers - excerpt", book.Entries[0].Title)
	assert.Contains(t, book.Entries[0].Content, "Paragraph 00")
	assert.Contains(t, book.Entries[9].Content, "Paragraph 09")
	assert.Equal(t, "Source: roads", book.Entries[10].Memo)
}

func TestToLorebookSkipsEntriesWithoutKeywords(t *testing.T) {
	doc := Document{
		Title:   "noise",
		Format:  doctree.FormatPlain,
		Content: strings.Repeat("a ", 40) + "\n\nThe lighthouse keeper records every ship that passes the cape at night.",
	}

	book := testGenerator().ToLorebook([]Document{doc}, "Cape")

	require.Len(t, book.Entries, 1)
	assert.Equal(t, 100, book.Entries[0].InsertionOrder)
	assert.Contains(t, book.Entries[0].Content, "lighthouse")
}

func TestToLorebookCapsContent(t *testing.T) {
	doc := Document{
		Title:   "dragons",
		Format:  doctree.FormatPlain,
		Content: strings.Repeat("龙龙 ", 200),
	}

	book := testGenerator(WithChunkSize(1000)).ToLorebook([]Document{doc}, "Sky")

	require.Len(t, book.Entries, 1)
	assert.Equal(t, 500, utf8.RuneCountInString(book.Entries[0].Content))
	assert.Equal(t, []string{"龙龙"}, book.Entries[0].Keys)
}

func TestToLorebookEmpty(t *testing.T) {
	book := ToLorebook(nil, "Nothing")
	assert.NotNil(t, book.Entries)
	assert.Empty(t, book.Entries)
	assert.True(t, strings.HasPrefix(book.ID, "lorebook_"))

	data, err := json.Marshal(book)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"entries":[]`)
	assert.Contains(t, string(data), `"scanDepth":10`)
	assert.Contains(t, string(data), `"recursiveScanning":true`)
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"markdown stripped", "**Ser Aldric** (the knight) said: hello", []string{"Ser", "Aldric", "the", "knight", "said"}},
		{"cjk punctuation", "长安城，大唐的都城。长安城！", []string{"长安城", "大唐的都城"}},
		{"length bounds", "a " + strings.Repeat("w", 15) + " ok", []string{"ok"}},
		{"repeats count toward five", "the road the river the hills beyond", []string{"the", "road", "river"}},
		{"short words do not count", "a road b river c hill d gate e wall f moat", []string{"road", "river", "hill", "gate", "wall"}},
		{"none", "a b c", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Keywords(tt.text))
		})
	}
}
