package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/aitrpg/internal/store"
)

func (e *env) documentStore(name string) (*store.DocumentStore, error) {
	c, err := store.ParseCategory(name)
	if err != nil {
		return nil, err
	}
	return store.NewDocumentStore(e.paths, c, e.log), nil
}

func newSaveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "save <category> <filename> [content]",
		Short: "Write a document, reading content from stdin when omitted",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := e.documentStore(args[0])
			if err != nil {
				return err
			}
			content, err := contentArg(cmd, args, 2)
			if err != nil {
				return err
			}
			msg, err := ds.Save(args[1], content)
			if err != nil {
				return err
			}
			return e.print(cmd.OutOrStdout(), map[string]string{"message": msg}, msg)
		},
	}
}

func newLoadCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "load <category> <filename>",
		Short: "Print a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := e.documentStore(args[0])
			if err != nil {
				return err
			}
			content, err := ds.Load(args[1])
			if err != nil {
				return err
			}
			return e.print(cmd.OutOrStdout(), map[string]string{"filename": args[1], "content": content}, content)
		},
	}
}

func newListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "list <category>",
		Aliases: []string{"ls"},
		Short:   "List the .json documents of a category",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := e.documentStore(args[0])
			if err != nil {
				return err
			}
			names, err := ds.List()
			if err != nil {
				return err
			}
			return e.print(cmd.OutOrStdout(), map[string]any{"files": names}, strings.Join(names, "\n"))
		},
	}
}

func newDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <category> <filename>",
		Aliases: []string{"rm"},
		Short:   "Remove a document",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := e.documentStore(args[0])
			if err != nil {
				return err
			}
			msg, err := ds.Delete(args[1])
			if err != nil {
				return err
			}
			return e.print(cmd.OutOrStdout(), map[string]string{"message": msg}, msg)
		},
	}
}

func newWorldlineCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worldline",
		Short: "Export and import worldline packs",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "export <filename>",
			Short: "Print a worldline pack",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				content, err := store.NewDocumentStore(e.paths, store.Worldlines, e.log).Export(args[0])
				if err != nil {
					return err
				}
				return e.print(cmd.OutOrStdout(), map[string]string{"filename": args[0], "content": content}, content)
			},
		},
		&cobra.Command{
			Use:   "import <filename> [content]",
			Short: "Store a worldline pack, reading stdin when content is omitted",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				content, err := contentArg(cmd, args, 1)
				if err != nil {
					return err
				}
				msg, err := store.NewDocumentStore(e.paths, store.Worldlines, e.log).Import(args[0], content)
				if err != nil {
					return err
				}
				return e.print(cmd.OutOrStdout(), map[string]string{"message": msg}, msg)
			},
		},
	)
	return cmd
}
