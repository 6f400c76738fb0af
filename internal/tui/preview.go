package tui

import (
	"pomo-cli/internal/checklist"
	"pomo-cli/internal/markdown"
)

// previewMarkdown is the file as the next write would produce it.
func (m appModel) previewMarkdown() string {
	doc := m.sess.Document()
	if snap, ok := m.sess.Snapshot(); ok {
		return checklist.Render(doc, snap)
	}
	return checklist.Markdown(doc)
}

func (m *appModel) refreshPreview() {
	md := m.previewMarkdown()
	if md == "" {
		m.preview.SetContent(styleMuted().Render("(empty)"))
		return
	}
	m.preview.SetContent(markdown.Render(md, m.preview.Width, m.mdStyle))
}
