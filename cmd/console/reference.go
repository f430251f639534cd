package main

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// referenceState is a read-only Markdown page: the rulebook or a weapon table
type referenceState struct {
	title    string
	markdown string
	vp       viewport.Model
	err      error
}

func renderMarkdown(md string, width int) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}

func (m ConsoleUI) openReference(title, md string) (tea.Model, tea.Cmd) {
	m.ref = referenceState{title: title, markdown: md}
	m.view = viewReference
	m.renderReference()
	return m, nil
}

// renderReference renders the page for the current width into the viewport
func (m *ConsoleUI) renderReference() {
	chrome := 5
	if !m.configured {
		chrome += 5
	}
	width := max(m.width-6, 30)
	m.ref.vp = viewport.New(width, max(m.height-chrome, 5))

	out, err := renderMarkdown(m.ref.markdown, width-2)
	if err != nil {
		m.log.Error("Failed to render reference page", "title", m.ref.title, "error", err)
		m.ref.err = err
		m.ref.vp.SetContent(m.ref.markdown)
		return
	}
	m.ref.err = nil
	m.ref.vp.SetContent(out)
}

func (m ConsoleUI) updateReference(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c":
		m.showQuitModal = true
		return m, nil
	case "esc", "q":
		m.view = viewRoster
		return m, nil
	}

	var cmd tea.Cmd
	m.ref.vp, cmd = m.ref.vp.Update(msg)
	return m, cmd
}

func (m ConsoleUI) renderReferenceView() string {
	body := m.ref.vp.View()
	if m.ref.err != nil {
		body = errorStyle.Render("No se pudo dar formato a la página: "+m.ref.err.Error()) + "\n" + body
	}
	help := promptStyle.Render("↑/↓ RePág/AvPág desplazar • Esc volver")
	return panelStyle.Render(m.header(m.ref.title) + "\n" + body + "\n" + help)
}
