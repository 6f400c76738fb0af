package cli

import (
	"errors"
	"fmt"

	"pomo-cli/internal/store"
	"pomo-cli/internal/syncflow"

	"github.com/spf13/cobra"
)

func newDiffCmd(app *App) *cobra.Command {
	var against string
	cmd := &cobra.Command{
		Use:   "diff <file> --against <other>",
		Short: "Compare the tasks of two checklists",
		Long: "Load <file> as the in-memory document and reconcile it against <other>.\n\n" +
			"Only membership is compared: reordering never shows up as a difference.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			flow := syncflow.New(s.Document(), store.ChecklistFile{Path: against}, syncflow.WithLogger(app.log))
			if err := flow.Start(); err != nil {
				return writeErr(cmd, err)
			}
			view := flowView(args[0], against, flow)
			flow.Cancel()
			return writeOut(cmd, app, out(view))
		},
	}
	cmd.Flags().StringVar(&against, "against", "", "Checklist to compare with")
	_ = cmd.MarkFlagRequired("against")
	return cmd
}

func newSyncCmd(app *App) *cobra.Command {
	var (
		with    string
		resolve string
	)
	cmd := &cobra.Command{
		Use:   "sync <file> --with <other> --resolve write|read|cancel",
		Short: "Reconcile two checklists and apply a bulk resolution",
		Long: "Load <file> as the in-memory document and sync it with <other>.\n\n" +
			"write: rewrite <other> with the tasks of <file>, keeping the filler lines of <other>.\n" +
			"read:  take the tasks of <other> and write them back into <file>.\n" +
			"cancel: report the differences and change nothing.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ok := syncflow.ParseResolution(resolve)
			if !ok || r == syncflow.PerItem {
				return writeErr(cmd, fmt.Errorf("%w: %q (expected write|read|cancel)", syncflow.ErrInvalidResolution, resolve))
			}
			s, err := loadSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			doc := s.Document()
			flow := syncflow.New(doc, store.ChecklistFile{Path: with}, syncflow.WithLogger(app.log))
			if err := flow.Start(); err != nil {
				return writeErr(cmd, err)
			}
			view := flowView(args[0], with, flow)
			if flow.State() != syncflow.Presenting {
				return writeOut(cmd, app, out(view))
			}
			if err := flow.Resolve(r); err != nil {
				flow.Cancel()
				return writeErr(cmd, err)
			}
			view.Outcome = flow.Outcome().String()

			if flow.Outcome() == syncflow.ApplyReadFromFile {
				back := syncflow.New(doc, store.ChecklistFile{Path: args[0]}, syncflow.WithLogger(app.log))
				if err := back.Start(); err != nil {
					return writeErr(cmd, err)
				}
				if back.State() == syncflow.Presenting {
					if err := back.Resolve(syncflow.WriteToFile); err != nil {
						back.Cancel()
						return writeErr(cmd, errors.Join(errors.New("write back"), err))
					}
				}
			}
			return writeOut(cmd, app, out(view))
		},
	}
	cmd.Flags().StringVar(&with, "with", "", "Checklist to sync with")
	cmd.Flags().StringVar(&resolve, "resolve", "cancel", "Resolution (write|read|cancel)")
	_ = cmd.MarkFlagRequired("with")
	return cmd
}

func flowView(memory, file string, flow *syncflow.Flow) divergenceView {
	res := flow.Result()
	return divergenceView{
		Memory:      memory,
		File:        file,
		InSync:      flow.State() != syncflow.Presenting,
		Counts:      res.Counts(),
		Divergences: res.Divergences(),
	}
}
