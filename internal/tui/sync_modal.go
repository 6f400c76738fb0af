package tui

import (
	"fmt"
	"strings"

	"pomo-cli/internal/reconcile"
	"pomo-cli/internal/syncflow"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func divergenceMarker(d reconcile.Divergence) (string, lipgloss.TerminalColor) {
	switch d.Kind {
	case reconcile.KindAddedInMemory:
		return "+", colorAddedMemory
	case reconcile.KindAddedInFile:
		return "-", colorAddedFile
	default:
		return "?", colorAmbiguous
	}
}

func divergenceLabel(d reconcile.Divergence) string {
	switch d.Kind {
	case reconcile.KindAddedInMemory:
		return "only in memory (" + d.MemorySection.Title() + ")"
	case reconcile.KindAddedInFile:
		return "only in file (" + d.Section.Title() + ")"
	default:
		return fmt.Sprintf("ambiguous: %d in memory, %d in file", d.MemoryCount, d.FileCount)
	}
}

func (m appModel) viewSyncModal() string {
	divs := m.flow.Divergences()
	choices := m.flow.Choices()
	bodyW := modalBodyWidth(m.width) - 2

	lines := make([]string, 0, len(divs)+4)
	lines = append(lines, fmt.Sprintf("%d difference(s) with %s", len(divs), m.sess.Path()), "")
	for i, d := range divs {
		mark, color := divergenceMarker(d)
		keep := "memory"
		if d.Kind != reconcile.KindAmbiguous && i < len(choices) && choices[i] == syncflow.KeepFile {
			keep = "file"
		}
		row := fmt.Sprintf("%s %s  %s", mark, d.Text, styleMuted().Render(divergenceLabel(d)+" "+glyphArrow()+" keep "+keep))
		row = xansi.Truncate(row, bodyW, "…")
		st := lipgloss.NewStyle().Foreground(color)
		if i == m.syncIdx {
			st = st.Background(colorSelectedBg).Bold(true)
		}
		lines = append(lines, st.Render(row))
	}
	lines = append(lines, "", styleMuted().Render("w: write memory to file   r: read file into memory"))
	lines = append(lines, styleMuted().Render("m/f: keep memory/file for this item   enter: apply choices   esc: cancel"))
	return renderModalBox(m.width, "Sync", strings.Join(lines, "\n"))
}
