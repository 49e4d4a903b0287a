package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/aitrpg/internal/app"
	"github.com/dgallion1/aitrpg/internal/importer"
	"github.com/dgallion1/aitrpg/internal/setting"
	"github.com/dgallion1/aitrpg/internal/store"
)

func (e *env) importTree(path string) (*importer.FileTreeNode, error) {
	im, err := app.Importer(e.cfg, e.log)
	if err != nil {
		return nil, err
	}
	return im.Import(path)
}

func newImportCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Read a directory of setting material",
	}

	tree := &cobra.Command{
		Use:   "tree <path>",
		Short: "Print the directory snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := e.importTree(args[0])
			if err != nil {
				return err
			}
			var b strings.Builder
			printTree(&b, root, 0)
			return e.print(cmd.OutOrStdout(), root, strings.TrimRight(b.String(), "\n"))
		},
	}

	settings := &cobra.Command{
		Use:   "settings <path>",
		Short: "Group the directory into setting categories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := e.importTree(args[0])
			if err != nil {
				return err
			}
			cats := setting.ConvertToCategories(root)
			summary := setting.Summary(cats)
			return e.print(cmd.OutOrStdout(), map[string]any{
				"categories": cats,
				"summary":    summary,
				"file_count": importer.CountFiles(root),
			}, summary)
		},
	}

	var name, saveAs string
	lorebook := &cobra.Command{
		Use:   "lorebook <path>",
		Short: "Generate lorebook entries from the directory's documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			root, err := e.importTree(args[0])
			if err != nil {
				return err
			}
			book := app.Lorebooks(e.cfg).ToLorebook(setting.CollectDocuments(setting.ConvertToCategories(root)), name)
			data, err := json.MarshalIndent(book, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal lorebook: %w", err)
			}
			if saveAs == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			msg, err := store.NewDocumentStore(e.paths, store.Lorebooks, e.log).Save(saveAs, string(data))
			if err != nil {
				return err
			}
			return e.print(cmd.OutOrStdout(), map[string]any{"message": msg, "entries": len(book.Entries)},
				fmt.Sprintf("%s (%d entries)", msg, len(book.Entries)))
		},
	}
	lorebook.Flags().StringVar(&name, "name", "", "Lorebook name")
	lorebook.Flags().StringVar(&saveAs, "save", "", "Store the result in lorebooks under this filename")

	cmd.AddCommand(tree, settings, lorebook)
	return cmd
}

// printTree writes one indented line per node; files with content are
// marked with their size.
func printTree(w io.Writer, n *importer.FileTreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	switch {
	case n.IsDir:
		fmt.Fprintf(w, "%s%s/\n", indent, n.Name)
		for _, c := range n.Children {
			printTree(w, c, depth+1)
		}
	case n.Content != nil:
		fmt.Fprintf(w, "%s%s (%d bytes)\n", indent, n.Name, len(*n.Content))
	default:
		fmt.Fprintf(w, "%s%s\n", indent, n.Name)
	}
}
