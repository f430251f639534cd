package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/investigator-sheets/internal/sheetclient"
	"github.com/jwebster45206/investigator-sheets/pkg/reference"
	"github.com/muesli/reflow/wordwrap"
)

type rosterState struct {
	names    []string
	selected int
	loading  bool
	loaded   bool
	err      error

	input     textinput.Model
	typing    bool // create input has focus
	creating  bool
	status    string
	statusErr bool
}

func newRosterState() rosterState {
	ti := textinput.New()
	ti.Placeholder = "Nombre del nuevo personaje"
	ti.Prompt = "> "
	ti.CharLimit = 80
	ti.Width = 40
	ti.Cursor.SetMode(cursor.CursorStatic)
	return rosterState{input: ti}
}

func (m ConsoleUI) updateRoster(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.roster.typing {
		return m.updateCreateInput(key)
	}

	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.showQuitModal = true
	case "up", "k":
		if m.roster.selected > 0 {
			m.roster.selected--
		}
	case "down", "j":
		if m.roster.selected < len(m.roster.names)-1 {
			m.roster.selected++
		}
	case "enter":
		if len(m.roster.names) > 0 {
			return m.openSheet(m.roster.names[m.roster.selected])
		}
	case "n":
		m.roster.typing = true
		m.roster.status = ""
		m.roster.input.Focus()
	case "r":
		return m.refreshRoster()
	case "m":
		return m.openReference(reference.RulebookTitle, reference.Rulebook())
	case "w":
		return m.openReference(reference.MeleeTitle, reference.MeleePage())
	case "g":
		return m.openReference(reference.RangedTitle, reference.RangedPage())
	}
	return m, nil
}

func (m ConsoleUI) updateCreateInput(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		m.showQuitModal = true
		return m, nil
	case "esc":
		m.roster.typing = false
		m.roster.input.Blur()
		return m, nil
	case "enter":
		return m.submitCreate()
	}

	var cmd tea.Cmd
	m.roster.input, cmd = m.roster.input.Update(key)
	return m, cmd
}

func (m ConsoleUI) refreshRoster() (tea.Model, tea.Cmd) {
	if !m.configured || m.roster.loading {
		return m, nil
	}
	m.roster.loading = true
	return m, loadNames(m.store)
}

func (m ConsoleUI) submitCreate() (tea.Model, tea.Cmd) {
	if !m.configured {
		m.roster.status = configNotice
		m.roster.statusErr = true
		m.ack = &ackModal{title: "Configuración requerida", body: configNotice, isErr: true}
		return m, nil
	}
	if m.roster.creating {
		return m, nil
	}
	name, err := sheetclient.ValidateName(m.roster.input.Value())
	if err != nil {
		var verr *sheetclient.ValidationError
		if errors.As(err, &verr) {
			m.roster.status = "Nombre no válido: " + verr.Reason
		} else {
			m.roster.status = err.Error()
		}
		m.roster.statusErr = true
		return m, nil
	}
	m.roster.creating = true
	m.roster.status = ""
	return m, createCharacter(m.store, name)
}

func (m ConsoleUI) handleNamesLoaded(msg namesLoadedMsg) (tea.Model, tea.Cmd) {
	m.roster.loading = false
	if msg.err != nil {
		m.log.Error("Failed to load character names", "error", msg.err)
		m.roster.err = msg.err
		m.roster.names = nil
		m.roster.selected = 0
		return m, nil
	}
	m.roster.err = nil
	m.roster.loaded = true
	m.roster.names = msg.names
	if m.roster.selected >= len(m.roster.names) {
		m.roster.selected = max(len(m.roster.names)-1, 0)
	}
	return m, nil
}

func (m ConsoleUI) handleCreated(msg characterCreatedMsg) (tea.Model, tea.Cmd) {
	m.roster.creating = false
	if msg.err != nil {
		m.log.Error("Failed to create character", "name", msg.name, "error", msg.err)
		m.roster.status = "Error al crear: " + msg.err.Error()
		m.roster.statusErr = true
		m.ack = &ackModal{title: "No se pudo crear el personaje", body: msg.err.Error(), isErr: true}
		return m, nil
	}

	m.log.Info("Character created", "name", msg.name)
	body := fmt.Sprintf("Personaje %q creado.", msg.name)
	if msg.result != nil && msg.result.Message != "" {
		body = msg.result.Message
	}
	m.roster.status = body
	m.roster.statusErr = false
	m.roster.input.Reset()
	m.roster.input.Blur()
	m.roster.typing = false
	m.ack = &ackModal{title: "Personaje creado", body: body}

	m.roster.loading = true
	return m, loadNames(m.store)
}

func (m ConsoleUI) renderRoster() string {
	var b strings.Builder
	b.WriteString(m.header("Personajes"))
	b.WriteString("\n")

	r := m.roster
	switch {
	case !m.configured:
	case r.loading && !r.loaded:
		b.WriteString(loadingStyle.Render("Cargando personajes..."))
		b.WriteString("\n")
	case len(r.names) == 0 && r.loaded:
		b.WriteString(promptStyle.Render("No hay personajes todavía. Pulsa n para crear uno."))
		b.WriteString("\n")
	default:
		for i, name := range r.names {
			if i == r.selected {
				b.WriteString(selectedItemStyle.Render(" " + name + " "))
			} else {
				b.WriteString(itemStyle.Render(" " + name))
			}
			b.WriteString("\n")
		}
		if r.loading {
			b.WriteString(loadingStyle.Render("Actualizando..."))
			b.WriteString("\n")
		}
	}

	if r.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(wordwrap.String("Error al cargar la lista: "+r.err.Error(), max(m.width-8, 30))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", max(m.width/2, 20))))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Nuevo personaje"))
	b.WriteString("\n")
	b.WriteString(m.roster.input.View())
	b.WriteString("\n")
	if r.creating {
		b.WriteString(loadingStyle.Render("Creando..."))
		b.WriteString("\n")
	}
	if r.status != "" {
		style := successStyle
		if r.statusErr {
			style = errorStyle
		}
		b.WriteString(style.Render(wordwrap.String(r.status, max(m.width-8, 30))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := "↑/↓ elegir • Enter abrir • n nuevo • r actualizar • m manual • w cuerpo a cuerpo • g a distancia • Esc salir"
	if r.typing {
		help = "Enter crear • Esc cancelar"
	}
	b.WriteString(promptStyle.Render(help))

	return panelStyle.Render(b.String())
}
