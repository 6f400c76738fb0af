package cli

import (
	"pomo-cli/internal/session"

	"github.com/spf13/cobra"
)

type initView struct {
	Path  string `json:"path"`
	Tasks int    `json:"tasks"`
}

func (v initView) Text() string { return v.Path }

func newInitCmd(app *App) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default task file (or --path) if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := session.New(session.WithLogger(app.log))
			var err error
			if path != "" {
				err = s.CreateFile(path)
			} else {
				path, err = s.CreateDefaultFile()
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			snap, _ := s.Snapshot()
			return writeOut(cmd, app, out(initView{Path: s.Path(), Tasks: snap.TaskCount()}))
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "Create this file instead of the default task file")
	return cmd
}
