package cli

import (
	"fmt"
	"strconv"

	"pomo-cli/internal/model"
	"pomo-cli/internal/mutate"
	"pomo-cli/internal/session"

	"github.com/spf13/cobra"
)

func parseSectionArg(name, v string) (model.Section, error) {
	s, ok := model.ParseSection(v)
	if !ok {
		return "", fmt.Errorf("%w: --%s %q (expected backlog|active|completed)", mutate.ErrInvalidSection, name, v)
	}
	return s, nil
}

func parseIndexArg(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, v)
	}
	return n, nil
}

// mutateFile loads path, applies fn, and writes the result back when the
// document changed.
func mutateFile(cmd *cobra.Command, app *App, path, action string, fn func(*session.Session) (mutate.Result, error)) error {
	s, err := loadSession(app, path)
	if err != nil {
		return writeErr(cmd, err)
	}
	res, err := fn(s)
	if err != nil {
		return writeErr(cmd, err)
	}
	outcome, err := s.WriteThrough()
	if err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, out(newMutationView(path, action, res, outcome)))
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <file>",
		Short: "Print the tasks of a checklist by section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, out(newDocumentView(args[0], s.Document())))
		},
	}
}

func newAddCmd(app *App) *cobra.Command {
	var section string
	cmd := &cobra.Command{
		Use:   "add <file> <text>",
		Short: "Append a task to a section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sec, err := parseSectionArg("section", section)
			if err != nil {
				return writeErr(cmd, err)
			}
			return mutateFile(cmd, app, args[0], "added", func(s *session.Session) (mutate.Result, error) {
				return s.Add(args[1], sec)
			})
		},
	}
	cmd.Flags().StringVar(&section, "section", string(model.SectionBacklog), "Section (backlog|active|completed)")
	return cmd
}

func newCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <file> <text>",
		Short: "Move a task to the end of Completed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateFile(cmd, app, args[0], "completed", func(s *session.Session) (mutate.Result, error) {
				return s.Complete(args[1])
			})
		},
	}
}

func newMoveCmd(app *App) *cobra.Command {
	var (
		from string
		to   string
		at   int
	)
	cmd := &cobra.Command{
		Use:   "move <file> <text>",
		Short: "Move a task between sections",
		Long: "Move a task between sections.\n\n" +
			"Active is not stored in the file: a task moved to active is written as an unchecked line.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromSec, err := parseSectionArg("from", from)
			if err != nil {
				return writeErr(cmd, err)
			}
			toSec, err := parseSectionArg("to", to)
			if err != nil {
				return writeErr(cmd, err)
			}
			return mutateFile(cmd, app, args[0], "moved", func(s *session.Session) (mutate.Result, error) {
				return s.MoveTask(args[1], fromSec, toSec, at)
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", string(model.SectionBacklog), "Source section")
	cmd.Flags().StringVar(&to, "to", "", "Target section")
	cmd.Flags().IntVar(&at, "at", mutate.AppendPosition, "Target position (default: append)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <file> <section> <from> <to>",
		Short: "Move a task to another position within its section",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			sec, err := parseSectionArg("section", args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			from, err := parseIndexArg("from", args[2])
			if err != nil {
				return writeErr(cmd, err)
			}
			to, err := parseIndexArg("to", args[3])
			if err != nil {
				return writeErr(cmd, err)
			}
			return mutateFile(cmd, app, args[0], "reordered", func(s *session.Session) (mutate.Result, error) {
				return s.Reorder(sec, from, to)
			})
		},
	}
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <file> <section> <index>",
		Short: "Remove a task",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sec, err := parseSectionArg("section", args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			idx, err := parseIndexArg("index", args[2])
			if err != nil {
				return writeErr(cmd, err)
			}
			return mutateFile(cmd, app, args[0], "deleted", func(s *session.Session) (mutate.Result, error) {
				return s.Delete(sec, idx)
			})
		},
	}
}
