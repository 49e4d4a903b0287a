package importer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/aitrpg/internal/parser"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func childNamed(t *testing.T, n *FileTreeNode, name string) *FileTreeNode {
	t.Helper()
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no child %q under %s", name, n.Path)
	return nil
}

func TestImportMixedTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "notes.md"), "hello")
	writeFile(t, filepath.Join(root, "image.png"), "\x89PNG\r\n\x1a\n\x00\x00")
	writeFile(t, filepath.Join(root, "sub", "deep.txt"), "world")

	tree, err := Import(root)
	require.NoError(t, err)

	assert.True(t, tree.IsDir)
	assert.Equal(t, filepath.Base(root), tree.Name)
	assert.Equal(t, root, tree.Path)
	assert.Nil(t, tree.Content)
	require.Len(t, tree.Children, 3)

	sub := childNamed(t, tree, "sub")
	assert.True(t, sub.IsDir)
	require.Len(t, sub.Children, 1)
	deep := sub.Children[0]
	assert.Equal(t, "deep.txt", deep.Name)
	assert.False(t, deep.IsDir)
	require.NotNil(t, deep.Content)
	assert.Equal(t, "world", *deep.Content)
	assert.Nil(t, deep.Children)

	notes := childNamed(t, tree, "notes.md")
	require.NotNil(t, notes.Content)
	assert.Equal(t, "hello", *notes.Content)
	assert.Equal(t, filepath.Join(root, "notes.md"), notes.Path)

	img := childNamed(t, tree, "image.png")
	assert.False(t, img.IsDir)
	assert.Nil(t, img.Content)

	assert.Equal(t, 2, CountFiles(tree))
}

func TestImportMissingRoot(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestImportRelativeRootIsAbsolute(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "x")
	t.Chdir(root)

	tree, err := Import(".")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(tree.Path))
	assert.Equal(t, filepath.Join(tree.Path, "a.md"), tree.Children[0].Path)
}

func TestImportEmptyDirectoryHasChildren(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0o755))

	tree, err := Import(root)
	require.NoError(t, err)

	empty := childNamed(t, tree, "empty")
	assert.NotNil(t, empty.Children)
	assert.Empty(t, empty.Children)

	data, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"children":[]`)
	assert.Contains(t, string(data), `"is_dir":true`)
}

func TestImportDropsBrokenSymlink(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "a")
	writeFile(t, filepath.Join(root, "b.txt"), "b")
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling.md")))

	tree, err := Import(root)
	require.NoError(t, err)

	// Three directory entries, one of which has no readable metadata.
	assert.Len(t, tree.Children, 2)
	for _, c := range tree.Children {
		assert.NotEqual(t, "dangling.md", c.Name)
	}
}

func TestImportDropsSymlinkLoop(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.md"), "k")
	require.NoError(t, os.Symlink(filepath.Join(root, "loop-b"), filepath.Join(root, "loop-a")))
	require.NoError(t, os.Symlink(filepath.Join(root, "loop-a"), filepath.Join(root, "loop-b")))

	tree, err := Import(root)
	require.NoError(t, err)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, "keep.md", tree.Children[0].Name)
}

func TestImportDropsAncestorSymlink(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "world", "map.md"), "m")
	require.NoError(t, os.Symlink(root, filepath.Join(root, "world", "up")))

	tree, err := Import(root)
	require.NoError(t, err)

	world := childNamed(t, tree, "world")
	require.Len(t, world.Children, 1)
	assert.Equal(t, "map.md", world.Children[0].Name)
}

func TestImportUnreadableDirectoryDropped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ok.md"), "ok")
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "secret.md"), "s")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	tree, err := Import(root)
	require.NoError(t, err)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, "ok.md", tree.Children[0].Name)
}

func TestImportUnreadableFileKeptWithoutContent(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := t.TempDir()
	path := filepath.Join(root, "sealed.md")
	writeFile(t, path, "sealed")
	require.NoError(t, os.Chmod(path, 0o000))
	t.Cleanup(func() { os.Chmod(path, 0o644) })

	tree, err := Import(root)
	require.NoError(t, err)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, "sealed.md", tree.Children[0].Name)
	assert.Nil(t, tree.Children[0].Content)
}

func TestImportContentRules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lower.markdown"), "md")
	writeFile(t, filepath.Join(root, "UPPER.MD"), "upper")
	writeFile(t, filepath.Join(root, "Mixed.Txt"), "mixed")
	writeFile(t, filepath.Join(root, "latin1.txt"), "caf\xe9")
	writeFile(t, filepath.Join(root, "page.html"), "<p>html</p>")

	tree, err := Import(root)
	require.NoError(t, err)

	require.NotNil(t, childNamed(t, tree, "lower.markdown").Content)
	assert.Nil(t, childNamed(t, tree, "UPPER.MD").Content)
	assert.Nil(t, childNamed(t, tree, "Mixed.Txt").Content)
	assert.Nil(t, childNamed(t, tree, "latin1.txt").Content)
	assert.Nil(t, childNamed(t, tree, "page.html").Content)
}

func TestImportIgnorePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "ref")
	writeFile(t, filepath.Join(root, "draft.tmp.md"), "d")
	writeFile(t, filepath.Join(root, "canon.md"), "c")

	im, err := New(WithIgnore(".git", "*.tmp.md", " "))
	require.NoError(t, err)

	tree, err := im.Import(root)
	require.NoError(t, err)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, "canon.md", tree.Children[0].Name)
}

func TestImportBadIgnorePattern(t *testing.T) {
	_, err := New(WithIgnore("[unclosed"))
	assert.Error(t, err)
}

func TestImportMaxDepth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "b", "c.md"), "c")

	im, err := New(WithMaxDepth(1))
	require.NoError(t, err)

	tree, err := im.Import(root)
	require.NoError(t, err)
	a := childNamed(t, tree, "a")
	assert.NotNil(t, a.Children)
	assert.Empty(t, a.Children)

	_, err = New(WithMaxDepth(-1))
	assert.Error(t, err)
}

func TestImportRichText(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "page.html"), "<html><body><h1>Port Vell</h1><p>A harbor town.</p></body></html>")
	writeFile(t, filepath.Join(root, "UPPER.MD"), "upper")
	writeFile(t, filepath.Join(root, "broken.pdf"), "not a pdf")

	im, err := New(WithRichText(parser.Options{}))
	require.NoError(t, err)

	tree, err := im.Import(root)
	require.NoError(t, err)

	page := childNamed(t, tree, "page.html")
	require.NotNil(t, page.Content)
	assert.Equal(t, "Port Vell\n\nA harbor town.", *page.Content)

	// Rich mode does not relax the case-sensitive rule for plain formats.
	assert.Nil(t, childNamed(t, tree, "UPPER.MD").Content)
	assert.Nil(t, childNamed(t, tree, "broken.pdf").Content)
}

func TestImportFileRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "single.md")
	writeFile(t, path, "solo")

	node, err := Import(path)
	require.NoError(t, err)
	assert.False(t, node.IsDir)
	require.NotNil(t, node.Content)
	assert.Equal(t, "solo", *node.Content)
}

func TestCountFilesNil(t *testing.T) {
	assert.Equal(t, 0, CountFiles(nil))
}
