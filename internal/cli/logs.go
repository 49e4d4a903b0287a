package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/aitrpg/internal/logsink"
)

func newLogsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Inspect and append to the daily log files",
	}

	var logContext string
	write := &cobra.Command{
		Use:   "write <debug|info|warn|error> <message>",
		Short: "Append one line to today's log",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(args[0])); err != nil {
				return fmt.Errorf("unknown level %q", args[0])
			}
			e.sink.Write(level, logContext, args[1])
			return nil
		},
	}
	write.Flags().StringVar(&logContext, "context", "", "Component name shown in brackets")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List log files, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				names, err := logsink.ListFiles(e.paths.LogsDir())
				if err != nil {
					return err
				}
				return e.print(cmd.OutOrStdout(), map[string]any{"files": names}, strings.Join(names, "\n"))
			},
		},
		&cobra.Command{
			Use:   "show <name>",
			Short: "Print one log file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				content, err := logsink.ReadFile(e.paths.LogsDir(), args[0])
				if err != nil {
					return err
				}
				return e.print(cmd.OutOrStdout(), map[string]string{"name": args[0], "content": content},
					strings.TrimRight(content, "\n"))
			},
		},
		write,
	)
	return cmd
}
