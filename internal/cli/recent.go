package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pomo-cli/internal/store"

	"github.com/spf13/cobra"
)

type recentView struct {
	Files []store.UIState `json:"files"`
}

func (v recentView) Text() string {
	var b strings.Builder
	for _, f := range v.Files {
		fmt.Fprintf(&b, "%s  %s\n", f.UpdatedAt.Local().Format(time.DateTime), f.Path)
	}
	return b.String()
}

func newRecentCmd(app *App) *cobra.Command {
	var (
		limit  int
		forget string
	)
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List checklists recently opened in the TUI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.DefaultUIStateStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if forget != "" {
				if err := st.ForgetFile(ctx, forget); err != nil {
					return writeErr(cmd, err)
				}
			}
			files, err := st.RecentFiles(ctx, limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, out(recentView{Files: files}))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of files")
	cmd.Flags().StringVar(&forget, "forget", "", "Drop the saved state for this file first")
	return cmd
}
