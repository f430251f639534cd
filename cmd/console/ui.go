package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/investigator-sheets/pkg/rules"
	"github.com/muesli/reflow/wordwrap"
)

const (
	AppTitle = "HOJAS DE INVESTIGADOR"

	configNotice = "Configuración requerida: define SHEET_URL con la URL de tu script de hoja de cálculo desplegado. " +
		"Hasta entonces no se pueden listar, cargar ni guardar personajes."
)

type view int

const (
	viewRoster view = iota
	viewSheet
	viewReference
)

// ackModal is a dismissable acknowledgment raised after create and save
type ackModal struct {
	title string
	body  string
	isErr bool
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	store      characterStore
	log        *slog.Logger
	roller     rules.Roller
	copyText   func(string) error
	configured bool

	view   view
	width  int
	height int
	ready  bool

	showQuitModal bool
	ack           *ackModal

	roster rosterState
	sheet  *sheetState
	ref    referenceState
}

func NewConsoleUI(store characterStore, log *slog.Logger) ConsoleUI {
	if log == nil {
		log = slog.Default()
	}
	m := ConsoleUI{
		store:      store,
		log:        log,
		roller:     rules.NewRoller(),
		copyText:   clipboard.WriteAll,
		configured: store.Configured(),
		view:       viewRoster,
		roster:     newRosterState(),
	}
	m.roster.loading = m.configured
	return m
}

func (m ConsoleUI) Init() tea.Cmd {
	if !m.configured {
		m.log.Warn("Spreadsheet endpoint not configured; remote calls disabled")
		return nil
	}
	return loadNames(m.store)
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Remote results land regardless of which view or modal is showing
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil
	case namesLoadedMsg:
		return m.handleNamesLoaded(msg)
	case characterCreatedMsg:
		return m.handleCreated(msg)
	case characterLoadedMsg:
		return m.handleCharacterLoaded(msg)
	case characterSavedMsg:
		return m.handleSaved(msg)
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.ack != nil {
		return m.updateAckModal(msg)
	}

	switch m.view {
	case viewSheet:
		return m.updateSheet(msg)
	case viewReference:
		return m.updateReference(msg)
	default:
		return m.updateRoster(msg)
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc", "enter", "s", "S", "y", "Y":
		return m, tea.Quit
	case "n", "N":
		m.showQuitModal = false
	}
	return m, nil
}

func (m ConsoleUI) updateAckModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "enter", "esc", " ", "q":
		m.ack = nil
	case "ctrl+c":
		m.ack = nil
		m.showQuitModal = true
	}
	return m, nil
}

// resize propagates the window size to whichever views exist
func (m *ConsoleUI) resize() {
	m.roster.input.Width = max(m.width/2-10, 20)
	if m.sheet != nil {
		m.sheet.resize(m.formWidth(), m.sheetFormHeight())
	}
	if m.view == viewReference {
		m.renderReference()
	}
}

func (m ConsoleUI) formWidth() int {
	return max(int(float64(m.width)*0.62), 40)
}

func (m ConsoleUI) sideWidth() int {
	return max(m.width-m.formWidth()-2, 24)
}

func (m ConsoleUI) View() string {
	if !m.ready {
		return "\n  Iniciando..."
	}
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.ack != nil {
		return m.renderAckModal()
	}

	switch m.view {
	case viewSheet:
		return m.renderSheet()
	case viewReference:
		return m.renderReferenceView()
	default:
		return m.renderRoster()
	}
}

// header renders the title line plus the configuration notice when needed
func (m ConsoleUI) header(subtitle string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(AppTitle))
	if subtitle != "" {
		b.WriteString(promptStyle.Render("  ·  ") + titleStyle.Render(subtitle))
	}
	b.WriteString("\n")
	if !m.configured {
		width := max(m.width-8, 30)
		b.WriteString("\n" + noticeStyle.Width(width).Render(wordwrap.String(configNotice, width-4)) + "\n")
	}
	return b.String()
}

func (m ConsoleUI) renderQuitModal() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("¿Salir?"))
	content.WriteString("\n\n")
	if m.sheet != nil && m.sheet.editor.Dirty() {
		content.WriteString(dirtyStyle.Render("La hoja abierta tiene cambios sin guardar."))
		content.WriteString("\n\n")
	}
	content.WriteString("¿Seguro que quieres salir?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Pulsa S para salir, N para continuar o Ctrl+C para forzar la salida"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderAckModal() string {
	title := modalTitleStyle.Render(m.ack.title)
	body := wordwrap.String(m.ack.body, 46)
	if m.ack.isErr {
		body = errorStyle.Render(body)
	} else {
		body = successStyle.Render(body)
	}

	content := fmt.Sprintf("%s\n\n%s\n\n%s", title, body, promptStyle.Render("Pulsa Enter para continuar"))
	modal := modalStyle.Width(54).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}
