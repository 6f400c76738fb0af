package markdown

import (
	"strings"
	"testing"
)

func TestStyle_EnvPriority(t *testing.T) {
	t.Setenv("POMO_TUI_MD_STYLE", "")
	t.Setenv("POMO_TUI_THEME", "light")
	t.Setenv("COLORFGBG", "15;0")
	if got := Style(); got != "light" {
		t.Fatalf("expected theme to win over COLORFGBG; got %q", got)
	}

	t.Setenv("POMO_TUI_THEME", "")
	if got := Style(); got != "dark" {
		t.Fatalf("expected COLORFGBG bg=0 to select dark; got %q", got)
	}

	t.Setenv("POMO_TUI_MD_STYLE", "notty")
	if got := Style(); got != "notty" {
		t.Fatalf("expected explicit md style; got %q", got)
	}
}

func TestRender_ChecklistText(t *testing.T) {
	out := Render("# Today\n\n- [ ] Buy milk\n- [x] Call mom\n", 40, "notty")
	if !strings.Contains(out, "Buy milk") || !strings.Contains(out, "Call mom") {
		t.Fatalf("expected task texts in output; got %q", out)
	}
	if Render("   ", 40, "dark") != "" {
		t.Fatalf("expected empty input to render empty")
	}
}
