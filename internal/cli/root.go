// Package cli implements aitrpgctl, a command-line client for the local
// document store.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dgallion1/aitrpg/internal/app"
	"github.com/dgallion1/aitrpg/internal/config"
	"github.com/dgallion1/aitrpg/internal/logsink"
	"github.com/dgallion1/aitrpg/internal/paths"
)

// env is the state shared by every subcommand, built once before any of
// them runs.
type env struct {
	cfg     config.Config
	paths   *paths.Resolver
	sink    *logsink.Sink
	log     *slog.Logger
	json    bool
	dataDir string
}

// NewRootCmd returns the aitrpgctl command tree.
func NewRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "aitrpgctl",
		Short:         "Manage AI-TRPG saves, worldlines, lorebooks and settings imports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.init(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if e.sink != nil {
				return e.sink.Close()
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&e.json, "json", false, "Print results as JSON")
	root.PersistentFlags().StringVar(&e.dataDir, "data-dir", "", "Override the AI-TRPG data directory")

	root.AddCommand(
		newSaveCmd(e),
		newLoadCmd(e),
		newListCmd(e),
		newDeleteCmd(e),
		newWorldlineCmd(e),
		newConfigCmd(e),
		newImportCmd(e),
		newLogsCmd(e),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "error:", err)
		return 1
	}
	return 0
}

func (e *env) init(stderr io.Writer) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	e.cfg = config.Load()
	if e.dataDir != "" {
		e.cfg.DataDir = e.dataDir
	}

	r, err := app.Paths(e.cfg)
	if err != nil {
		return err
	}
	e.paths = r

	// The CLI keeps the console quiet below warn; the file gets the
	// configured level.
	sink, err := logsink.Open(r.LogsDir(), logsink.WithConsole(stderr), logsink.WithConsoleLevel(slog.LevelWarn))
	e.sink = sink
	e.log = slog.New(logsink.NewHandler(sink, e.cfg.LogLevel))
	if err != nil {
		fmt.Fprintln(stderr, "warning: file logging disabled:", err)
	}
	e.log = e.log.With("component", "cli")
	return nil
}

// print writes v as indented JSON under --json and text otherwise.
func (e *env) print(w io.Writer, v any, text string) error {
	if !e.json {
		_, err := fmt.Fprintln(w, text)
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// contentArg returns args[i] when present, otherwise all of stdin.
func contentArg(cmd *cobra.Command, args []string, i int) (string, error) {
	if len(args) > i {
		return args[i], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
