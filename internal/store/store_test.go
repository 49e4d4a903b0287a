package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/aitrpg/internal/paths"
)

func newStore(t *testing.T, c Category) (*DocumentStore, *paths.Resolver) {
	t.Helper()
	r := paths.New(filepath.Join(t.TempDir(), "AI-TRPG"))
	return NewDocumentStore(r, c, nil), r
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, _ := newStore(t, Saves)

	cases := map[string]string{
		"slot1.json":   `{"hp": 10}`,
		"empty.json":   "",
		"unicode.json": "存档 ✓ — 세이브",
		"notjson.txt":  "not json at all {",
	}
	for name, content := range cases {
		msg, err := s.Save(name, content)
		require.NoError(t, err)
		assert.Contains(t, msg, name)

		got, err := s.Load(name)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s, _ := newStore(t, Worldlines)

	_, err := s.Save("w.json", "first version that is longer")
	require.NoError(t, err)
	_, err = s.Save("w.json", "second")
	require.NoError(t, err)

	got, err := s.Load("w.json")
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestSaveMessageUsesLabel(t *testing.T) {
	for _, c := range Categories {
		s, _ := newStore(t, c)
		msg, err := s.Save("a.json", "{}")
		require.NoError(t, err)
		assert.Equal(t, c.Label+" saved: a.json", msg)

		msg, err = s.Delete("a.json")
		require.NoError(t, err)
		assert.Equal(t, c.Label+" deleted: a.json", msg)
	}
}

func TestListMissingDirectory(t *testing.T) {
	s, _ := newStore(t, Lorebooks)

	names, err := s.List()
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
	assert.NoDirExists(t, s.Dir())
}

func TestListFiltersJSON(t *testing.T) {
	s, _ := newStore(t, Saves)

	for _, name := range []string{"b.json", "a.json", "c.txt", "d.JSON", "e.json.bak", ".json", ".hidden.json"} {
		_, err := s.Save(name, "x")
		require.NoError(t, err)
	}

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{".hidden.json", "a.json", "b.json"}, names)
}

func TestCategoriesAreIndependent(t *testing.T) {
	r := paths.New(t.TempDir())
	saves := NewDocumentStore(r, Saves, nil)
	lore := NewDocumentStore(r, Lorebooks, nil)

	_, err := saves.Save("same.json", "save")
	require.NoError(t, err)

	names, err := lore.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = lore.Load("same.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteThenLoad(t *testing.T) {
	s, _ := newStore(t, Saves)

	_, err := s.Save("gone.json", "{}")
	require.NoError(t, err)
	_, err = s.Delete("gone.json")
	require.NoError(t, err)

	_, err = s.Load("gone.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestDeleteMissing(t *testing.T) {
	s, _ := newStore(t, Saves)

	_, err := s.Delete("never.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExportImportAliases(t *testing.T) {
	s, _ := newStore(t, Worldlines)

	payload := `{"id":"w1","name":"Neo Kyoto"`
	msg, err := s.Import("w1.json", payload)
	require.NoError(t, err)
	assert.Equal(t, "Worldline saved: w1.json", msg)

	got, err := s.Export("w1.json")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestRejectsPathNames(t *testing.T) {
	s, r := newStore(t, Saves)

	for _, name := range []string{"", ".", "..", "../config.json", "a/b.json", `a\b.json`} {
		_, err := s.Save(name, "x")
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
		_, err = s.Load(name)
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
		_, err = s.Delete(name)
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}
	assert.NoFileExists(t, r.ConfigPath())
}

func TestConcurrentSavesDifferentFiles(t *testing.T) {
	s, _ := newStore(t, Saves)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Save(string(rune('a'+i))+".json", "x")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	names, err := s.List()
	require.NoError(t, err)
	assert.Len(t, names, 16)
}

func TestListUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	s, _ := newStore(t, Saves)
	_, err := s.Save("a.json", "x")
	require.NoError(t, err)

	require.NoError(t, os.Chmod(s.Dir(), 0o000))
	t.Cleanup(func() { os.Chmod(s.Dir(), 0o755) })

	_, err = s.List()
	assert.Error(t, err)
}

func TestParseCategory(t *testing.T) {
	for in, want := range map[string]Category{
		"saves":      Saves,
		"save":       Saves,
		"Worldlines": Worldlines,
		"worldline":  Worldlines,
		" lorebooks": Lorebooks,
	} {
		got, err := ParseCategory(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseCategory("config")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}
