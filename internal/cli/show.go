package cli

import (
	"fmt"
	"strings"

	"pomo-cli/internal/docs"
	"pomo-cli/internal/markdown"
	"pomo-cli/internal/store"

	"github.com/spf13/cobra"
)

type markdownView struct {
	Path     string `json:"path,omitempty"`
	Topic    string `json:"topic,omitempty"`
	Markdown string `json:"markdown"`
}

func (v markdownView) Text() string { return v.Markdown }

func newShowCmd(app *App) *cobra.Command {
	var (
		raw   bool
		width int
		style string
	)
	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Render a checklist file as styled Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := store.ChecklistFile{Path: args[0]}.ReadText()
			if err != nil {
				return writeErr(cmd, err)
			}
			return printMarkdown(cmd, app, markdownView{Path: args[0], Markdown: body}, raw, width, style)
		},
	}
	addMarkdownFlags(cmd, &raw, &width, &style)
	return cmd
}

func newDocsCmd(app *App) *cobra.Command {
	var (
		raw   bool
		width int
		style string
	)
	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show documentation topics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, out(map[string]any{"topics": docs.Topics()}))
			}
			body, ok := docs.Get(args[0])
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `pomo docs` to list topics)", args[0]))
			}
			return printMarkdown(cmd, app, markdownView{Topic: args[0], Markdown: body}, raw, width, style)
		},
	}
	addMarkdownFlags(cmd, &raw, &width, &style)
	return cmd
}

func addMarkdownFlags(cmd *cobra.Command, raw *bool, width *int, style *string) {
	cmd.Flags().BoolVar(raw, "raw", false, "Print raw markdown (no JSON envelope, no styling)")
	cmd.Flags().IntVar(width, "width", 80, "Wrap width for styled output")
	cmd.Flags().StringVar(style, "style", "", "Markdown style (dark|light|notty; default: from config/env)")
}

// printMarkdown writes the view as JSON, or styled with glamour for --format text.
func printMarkdown(cmd *cobra.Command, app *App, v markdownView, raw bool, width int, style string) error {
	if raw {
		_, err := fmt.Fprint(cmd.OutOrStdout(), v.Markdown)
		return err
	}
	if strings.EqualFold(strings.TrimSpace(app.Format), "text") {
		if style == "" {
			style = configuredMarkdownStyle()
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), markdown.Render(v.Markdown, width, style))
		return err
	}
	return writeOut(cmd, app, out(v))
}

func configuredMarkdownStyle() string {
	cfg, err := store.LoadConfig()
	if err != nil || cfg.TUI == nil {
		return ""
	}
	return cfg.TUI.MarkdownStyle
}
