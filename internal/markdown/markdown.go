// Package markdown renders checklist files for the terminal with glamour.
package markdown

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	renderersMu sync.Mutex
	// Renderers are cached by style + wrap width. WithAutoStyle can block on
	// terminal queries, so styles are always chosen explicitly.
	renderers = map[string]*glamour.TermRenderer{}
)

// Render renders md at the given wrap width. On any renderer error the input
// is returned unchanged.
func Render(md string, width int, style string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	style = normalizeStyle(style)

	key := style + ":" + strconv.Itoa(width)
	renderersMu.Lock()
	r := renderers[key]
	renderersMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(StyleConfig(style)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		renderersMu.Lock()
		if existing := renderers[key]; existing != nil {
			r = existing
		} else {
			renderers[key] = rr
			r = rr
		}
		renderersMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func normalizeStyle(style string) string {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	case "notty", "ascii":
		return "notty"
	default:
		return Style()
	}
}

// StyleConfig returns the glamour style for name with the checklist tweaks applied.
func StyleConfig(name string) ansi.StyleConfig {
	var cfg ansi.StyleConfig
	switch name {
	case "light":
		cfg = styles.LightStyleConfig
	case "notty":
		cfg = styles.NoTTYStyleConfig
	default:
		cfg = styles.DarkStyleConfig
	}
	// Task lists are the whole point; keep them flush with the margin.
	zero := uint(0)
	cfg.Document.Margin = &zero
	if name != "notty" {
		cfg.Task.Ticked = "[x] "
		cfg.Task.Unticked = "[ ] "
	}
	cfg.BlockQuote.Faint = boolPtr(false)
	return cfg
}

// Style picks a glamour style from the environment, without querying the terminal.
//
// Priority:
// 1) POMO_TUI_MD_STYLE=light|dark|notty
// 2) POMO_TUI_THEME=light|dark
// 3) COLORFGBG heuristic ("fg;bg")
// 4) Lip Gloss background detection
func Style() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("POMO_TUI_MD_STYLE"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	case "notty":
		return "notty"
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("POMO_TUI_THEME"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			// Common xterm palette: 0-6 dark colors, 7-15 light colors.
			if bg >= 7 {
				return "light"
			}
			return "dark"
		}
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func boolPtr(b bool) *bool { return &b }
