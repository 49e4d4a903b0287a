package cli

import (
	"github.com/spf13/cobra"

	"github.com/dgallion1/aitrpg/internal/store"
)

func newConfigCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or replace the application configuration document",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the configuration, or the built-in default when none is saved",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := store.NewConfigStore(e.paths, e.log).Resolve()
				if err != nil {
					return err
				}
				return e.print(cmd.OutOrStdout(), map[string]string{
					"content": res.Content,
					"source":  string(res.Source),
				}, res.Content)
			},
		},
		&cobra.Command{
			Use:   "set [content]",
			Short: "Replace the configuration, reading stdin when content is omitted",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				content, err := contentArg(cmd, args, 0)
				if err != nil {
					return err
				}
				if err := store.NewConfigStore(e.paths, e.log).Save(content); err != nil {
					return err
				}
				return e.print(cmd.OutOrStdout(), map[string]string{"message": "Config saved"}, "Config saved")
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print where the configuration file lives",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				p := e.paths.ConfigPath()
				return e.print(cmd.OutOrStdout(), map[string]string{"path": p}, p)
			},
		},
	)
	return cmd
}
