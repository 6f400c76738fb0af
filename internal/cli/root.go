package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"pomo-cli/internal/debuglog"
	"pomo-cli/internal/format"
	"pomo-cli/internal/session"
	"pomo-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	PrettyJSON bool
	Format     string
	DebugLog   string

	log      *slog.Logger
	closeLog func() error
}

func NewRootCmd() *cobra.Command {
	app := &App{log: debuglog.Discard()}

	cmd := &cobra.Command{
		Use:          "pomo [file]",
		Short:        "Task sessions backed by a Markdown checklist",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		Example: strings.TrimSpace(`
  # Start the interactive TUI on a checklist
  pomo ~/notes/today.md

  # Scriptable commands
  pomo list ~/notes/today.md
  pomo add ~/notes/today.md "Write report"
  pomo complete ~/notes/today.md "Write report"

  # Compare two checklists without changing either
  pomo diff today.md --against backup.md
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runTUI(app, path)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		l, closeFn, err := debuglog.Open(app.DebugLog)
		if err != nil {
			// The log is opt-in; a bad path should not block the command.
			fmt.Fprintf(cmd.ErrOrStderr(), "debug log disabled: %v\n", err)
		}
		app.log = l
		app.closeLog = closeFn
		app.log.Debug("command start", "cmd", cmd.CommandPath(), "args", args)
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.closeLog != nil {
			return app.closeLog()
		}
		return nil
	}

	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("POMO_FORMAT", "json"), "Output format (json|text)")
	cmd.PersistentFlags().StringVar(&app.DebugLog, "debug-log", envOr(debuglog.EnvPath, ""), "Append debug logs to this file")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newCompleteCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newReorderCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newDiffCmd(app))
	cmd.AddCommand(newSyncCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newRecentCmd(app))

	return cmd
}

func runTUI(app *App, path string) error {
	var (
		s   *session.Session
		err error
	)
	if path == "" {
		s = session.New(session.WithLogger(app.log))
	} else {
		// A missing or unreadable file still opens the TUI, with sync disabled.
		s, err = session.Load(path, session.WithLogger(app.log))
	}
	return tui.Run(s, tui.Options{Logger: app.log, LoadErr: err})
}

// loadSession loads path for a one-shot command. Unlike the TUI, a load
// failure is fatal here.
func loadSession(app *App, path string) (*session.Session, error) {
	return session.Load(path, session.WithLogger(app.log))
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
