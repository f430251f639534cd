package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/investigator-sheets/pkg/rules"
	"github.com/jwebster45206/investigator-sheets/pkg/sheet"
	"github.com/muesli/reflow/wordwrap"
)

const labelWidth = 30

// fieldInput is the widget bound to one sheet field: a single line for
// numbers, a text area for multiline text.
type fieldInput struct {
	field sheet.Field
	line  textinput.Model
	area  textarea.Model
}

func newFieldInput(f sheet.Field) fieldInput {
	in := fieldInput{field: f}
	if f.IsNumeric() {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 12
		ti.Width = 12
		ti.Placeholder = "0"
		ti.Cursor.SetMode(cursor.CursorStatic)
		in.line = ti
		return in
	}

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = "│ "
	ta.CharLimit = 0
	ta.SetHeight(max(f.Rows, 1))
	ta.Cursor.SetMode(cursor.CursorStatic)
	in.area = ta
	return in
}

func (in *fieldInput) value() string {
	if in.field.IsNumeric() {
		return in.line.Value()
	}
	return in.area.Value()
}

func (in *fieldInput) setValue(s string) {
	if in.field.IsNumeric() {
		in.line.SetValue(s)
		in.line.CursorEnd()
		return
	}
	in.area.SetValue(s)
}

func (in *fieldInput) focus() {
	if in.field.IsNumeric() {
		in.line.Focus()
		return
	}
	in.area.Focus()
}

func (in *fieldInput) blur() {
	if in.field.IsNumeric() {
		in.line.Blur()
		return
	}
	in.area.Blur()
}

func (in *fieldInput) setWidth(w int) {
	if !in.field.IsNumeric() {
		in.area.SetWidth(max(w, 20))
	}
}

func (in *fieldInput) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if in.field.IsNumeric() {
		in.line, cmd = in.line.Update(msg)
	} else {
		in.area, cmd = in.area.Update(msg)
	}
	return cmd
}

func (in *fieldInput) view(focused bool) string {
	label := labelStyle
	if focused {
		label = focusedLabelStyle
	}

	var b strings.Builder
	if in.field.IsNumeric() {
		b.WriteString(label.Width(labelWidth).Render(in.field.Label))
		b.WriteString(in.line.View())
	} else {
		b.WriteString(label.Render(in.field.Label))
		b.WriteString("\n")
		b.WriteString(in.area.View())
	}
	if in.field.Note != "" {
		b.WriteString("\n")
		b.WriteString(noteStyle.Render(in.field.Note))
	}
	return b.String()
}

type sheetState struct {
	editor  *sheet.Editor
	inputs  []fieldInput
	focus   int
	loading bool
	loadErr error
	saveErr error

	status         string
	discardArmed   bool
	difficulty     rules.Difficulty
	lastRoll       string
	lastRollFailed bool
	disorders      []rules.Disorder

	form viewport.Model
}

func newSheetState(name string) *sheetState {
	s := &sheetState{
		editor:     sheet.NewEditor(name),
		loading:    true,
		difficulty: rules.Normal,
		form:       viewport.New(60, 20),
	}
	for _, f := range s.editor.Fields() {
		s.inputs = append(s.inputs, newFieldInput(f))
	}
	s.syncAll()
	s.inputs[0].focus()
	return s
}

func (s *sheetState) focused() *fieldInput {
	return &s.inputs[s.focus]
}

// syncAll resets every widget from the editor state
func (s *sheetState) syncAll() {
	for i := range s.inputs {
		s.inputs[i].setValue(s.editor.Value(s.inputs[i].field.ID).String())
	}
}

// moveFocus blurs the current field, committing a cleared number to 0, and
// focuses the field delta positions away, wrapping at both ends.
func (s *sheetState) moveFocus(delta int) {
	cur := s.focused()
	s.editor.Blur(cur.field.ID)
	cur.setValue(s.editor.Value(cur.field.ID).String())
	cur.blur()

	n := len(s.inputs)
	s.focus = ((s.focus+delta)%n + n) % n
	s.focused().focus()
}

func (s *sheetState) resize(width, height int) {
	s.form.Width = width
	s.form.Height = max(height, 5)
	for i := range s.inputs {
		s.inputs[i].setWidth(width - 8)
	}
	s.refreshForm()
}

// refreshForm re-renders the form into the viewport and scrolls so the
// focused field is fully visible when it fits.
func (s *sheetState) refreshForm() {
	var b strings.Builder
	line := 0
	var focusStart, focusEnd int

	write := func(str string) {
		b.WriteString(str)
		line += strings.Count(str, "\n")
	}

	idx := 0
	for gi, g := range sheet.Groups() {
		if gi > 0 {
			write("\n")
		}
		write(groupStyle.Render(g.Name) + "\n")
		for range g.Fields {
			start := line
			write(s.inputs[idx].view(idx == s.focus) + "\n")
			if idx == s.focus {
				focusStart, focusEnd = start, line-1
			}
			idx++
		}
	}

	s.form.SetContent(b.String())
	switch {
	case focusStart < s.form.YOffset:
		s.form.SetYOffset(focusStart)
	case focusEnd >= s.form.YOffset+s.form.Height:
		s.form.SetYOffset(focusEnd - s.form.Height + 1)
	}
}

func (m ConsoleUI) openSheet(name string) (tea.Model, tea.Cmd) {
	if !m.configured {
		return m, nil
	}
	m.sheet = newSheetState(name)
	m.sheet.resize(m.formWidth(), m.sheetFormHeight())
	m.view = viewSheet
	return m, loadCharacter(m.store, name)
}

// sheetFormHeight is the height left for the scrolling form under the header and help line
func (m ConsoleUI) sheetFormHeight() int {
	chrome := 5
	if !m.configured {
		chrome += 5
	}
	return m.height - chrome
}

func (m ConsoleUI) handleCharacterLoaded(msg characterLoadedMsg) (tea.Model, tea.Cmd) {
	if m.sheet == nil || m.sheet.editor.Name() != msg.name {
		m.log.Debug("Discarding stale character load", "name", msg.name)
		return m, nil
	}
	s := m.sheet
	s.loading = false
	if msg.err != nil {
		m.log.Error("Failed to load character", "name", msg.name, "error", msg.err)
		s.loadErr = msg.err
		return m, nil
	}
	s.loadErr = nil
	s.editor.Load(msg.record)
	s.syncAll()
	s.refreshForm()
	return m, nil
}

func (m ConsoleUI) handleSaved(msg characterSavedMsg) (tea.Model, tea.Cmd) {
	if m.sheet == nil || m.sheet.editor.Name() != msg.name {
		if msg.err != nil {
			m.log.Error("Save finished after leaving the sheet", "name", msg.name, "error", msg.err)
		}
		return m, nil
	}
	s := m.sheet
	if msg.err != nil {
		m.log.Error("Failed to save character", "name", msg.name, "error", msg.err)
		s.editor.FailSave()
		s.saveErr = msg.err
		s.status = ""
		m.ack = &ackModal{title: "No se pudieron guardar los cambios", body: msg.err.Error(), isErr: true}
		return m, nil
	}

	m.log.Info("Character saved", "name", msg.name)
	s.editor.CompleteSave()
	s.saveErr = nil
	s.status = fmt.Sprintf("Personaje %q guardado.", msg.name)
	if msg.result != nil && msg.result.Message != "" {
		s.status = msg.result.Message
	}
	m.ack = &ackModal{title: "Cambios guardados", body: s.status}
	return m, nil
}

func (m ConsoleUI) updateSheet(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	s := m.sheet

	k := key.String()
	if k != "esc" {
		s.discardArmed = false
	}

	switch k {
	case "ctrl+c":
		m.showQuitModal = true
		return m, nil
	case "esc":
		if s.editor.Dirty() && !s.discardArmed && s.loadErr == nil {
			s.discardArmed = true
			s.status = "Hay cambios sin guardar. Pulsa Esc otra vez para descartarlos."
			return m, nil
		}
		return m.closeSheet()
	}

	if s.loading || s.loadErr != nil {
		return m, nil
	}

	switch k {
	case "tab":
		s.moveFocus(1)
	case "shift+tab":
		s.moveFocus(-1)
	case "up", "down":
		if !s.focused().field.IsNumeric() {
			return m.editFocused(key)
		}
		if k == "up" {
			s.moveFocus(-1)
		} else {
			s.moveFocus(1)
		}
	case "pgup", "pgdown":
		var cmd tea.Cmd
		s.form, cmd = s.form.Update(key)
		return m, cmd
	case "ctrl+s":
		return m.beginSave()
	case "ctrl+r":
		m.rollFocused()
	case "ctrl+d":
		s.cycleDifficulty()
	case "ctrl+t":
		m.rollDisorder()
	case "ctrl+z":
		s.editor.Revert()
		s.syncAll()
		s.status = "Cambios descartados."
	case "ctrl+y":
		m.copySheet()
	default:
		return m.editFocused(key)
	}
	s.refreshForm()
	return m, nil
}

func (m ConsoleUI) closeSheet() (tea.Model, tea.Cmd) {
	m.sheet = nil
	m.view = viewRoster
	return m, nil
}

// editFocused forwards a key to the focused widget and records any change in the editor
func (m ConsoleUI) editFocused(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.sheet
	in := s.focused()
	before := in.value()
	cmd := in.update(key)
	if after := in.value(); after != before {
		s.editor.Edit(in.field.ID, after)
		s.status = ""
	}
	s.refreshForm()
	return m, cmd
}

func (m ConsoleUI) beginSave() (tea.Model, tea.Cmd) {
	s := m.sheet
	if !m.configured {
		return m, nil
	}
	if s.editor.Saving() {
		return m, nil
	}
	rec, ok := s.editor.BeginSave()
	if !ok {
		s.status = "No hay cambios que guardar."
		return m, nil
	}
	s.saveErr = nil
	s.status = ""
	return m, saveCharacter(m.store, s.editor.Name(), rec)
}

func (m ConsoleUI) rollFocused() {
	s := m.sheet
	f := s.focused().field
	if !f.IsNumeric() {
		s.status = "Solo se puede tirar por un campo numérico."
		return
	}
	pool := s.editor.Value(f.ID).Int()
	res := rules.Check(pool, s.difficulty, m.roller)
	verdict := "fallo"
	if res.Passed {
		verdict = fmt.Sprintf("éxito (margen %d)", res.Margin)
	}
	s.lastRoll = fmt.Sprintf("%s %dD6 vs %s: %s, %s", f.Label, pool, s.difficulty, res.PoolResult, verdict)
	s.lastRollFailed = !res.Passed
	m.log.Debug("Rolled dice", "field", f.ID, "pool", pool, "difficulty", int(s.difficulty), "successes", res.Successes)
}

// rollDisorder rolls one disorder while the current Cordura still owes more
// than were rolled this session. Disorders already written in any text field
// count as owned.
func (m ConsoleUI) rollDisorder() {
	s := m.sheet
	sum := rules.Summarize(s.editor.State())
	if len(s.disorders) >= sum.Disorders {
		s.status = "No hay trastornos pendientes."
		return
	}

	owned := make(map[string]bool)
	for _, d := range s.disorders {
		owned[d.Name] = true
	}
	for _, in := range s.inputs {
		if in.field.IsNumeric() {
			continue
		}
		text := s.editor.Value(in.field.ID).String()
		for _, d := range rules.Disorders() {
			if strings.Contains(text, d.Name) {
				owned[d.Name] = true
			}
		}
	}

	d, ok := rules.RollDisorder(m.roller, owned)
	if !ok {
		s.status = "El personaje ya sufre todos los trastornos."
		return
	}
	s.disorders = append(s.disorders, d)
	s.status = fmt.Sprintf("Trastorno (%d): %s", d.Roll, d.Name)
	m.log.Debug("Rolled disorder", "roll", d.Roll, "disorder", d.Name)
}

func (s *sheetState) cycleDifficulty() {
	all := rules.Difficulties()
	for i, d := range all {
		if d == s.difficulty {
			s.difficulty = all[(i+1)%len(all)]
			return
		}
	}
	s.difficulty = rules.Normal
}

func (m ConsoleUI) copySheet() {
	s := m.sheet
	text := exportSheet(s.editor.Name(), s.editor.State())
	if err := m.copyText(text); err != nil {
		m.log.Error("Failed to copy sheet to clipboard", "error", err)
		s.status = "No se pudo copiar: " + err.Error()
		return
	}
	s.status = "Hoja copiada al portapapeles."
}

func (m ConsoleUI) renderSheet() string {
	s := m.sheet
	header := m.header(s.editor.Name())

	if s.loading {
		return panelStyle.Render(header + "\n" + loadingStyle.Render("Cargando hoja de personaje...") +
			"\n\n" + promptStyle.Render("Esc volver"))
	}
	if s.loadErr != nil {
		body := errorStyle.Render(wordwrap.String("No se pudo cargar el personaje: "+s.loadErr.Error(), max(m.width-8, 30)))
		return panelStyle.Render(header + "\n" + body + "\n\n" + promptStyle.Render("Pulsa Esc para volver a la lista de personajes"))
	}

	form := s.form.View()
	side := m.renderSummary()
	body := lipgloss.JoinHorizontal(lipgloss.Top, form, "  ", side)

	help := "Tab/↑/↓ mover • Ctrl+S guardar • Ctrl+R tirar • Ctrl+D dificultad • Ctrl+T trastorno • Ctrl+Z deshacer • Ctrl+Y copiar • RePág/AvPág desplazar • Esc volver"
	return panelStyle.Render(header + "\n" + body + "\n" + promptStyle.Render(wordwrap.String(help, max(m.width-6, 30))))
}

func (m ConsoleUI) renderSummary() string {
	s := m.sheet
	width := m.sideWidth()
	wrap := func(str string) string { return wordwrap.String(str, max(width-2, 10)) }

	var b strings.Builder
	switch {
	case s.editor.Saving():
		b.WriteString(loadingStyle.Render("Guardando..."))
	case s.editor.Dirty():
		b.WriteString(dirtyStyle.Render("● Cambios sin guardar"))
	default:
		b.WriteString(successStyle.Render("Sin cambios"))
	}
	b.WriteString("\n\n")

	sum := rules.Summarize(s.editor.State())
	b.WriteString(groupStyle.Render("Estado"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Aguante      %d/%d\n", sum.Endurance.Current, sum.Endurance.Max)
	fmt.Fprintf(&b, "Cordura      %d/%d\n", sum.Sanity.Current, sum.Sanity.Max)
	fmt.Fprintf(&b, "Estabilidad  %d/%d\n", sum.Stability.Current, sum.Stability.Max)
	b.WriteString(wrap(fmt.Sprintf("Mente: %s. %s", sum.SanityTier, sum.SanityTier.Effect())))
	b.WriteString("\n")
	if sum.Disorders > 0 {
		fmt.Fprintf(&b, "Trastornos por cordura: %d\n", sum.Disorders)
	}
	for _, d := range s.disorders {
		b.WriteString(dirtyStyle.Render(wrap(fmt.Sprintf("• %s: %s", d.Name, d.Effect))))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Puntos de Héroe: %d\n", sum.HeroPoints)
	if f := s.focused().field; f.Group == sheet.GroupPrimary {
		lvl := max(s.editor.Value(f.ID).Int(), 0)
		fmt.Fprintf(&b, "Siguiente nivel: %d PH\n", rules.ImprovementCost(f.ID, lvl))
		if reach := rules.AffordableLevel(f.ID, lvl, sum.HeroPoints); reach > lvl {
			b.WriteString(wrap(fmt.Sprintf("Hasta nivel %d: %d PH", reach, rules.UpgradeCost(f.ID, lvl, reach))))
			b.WriteString("\n")
		}
	}
	fmt.Fprintf(&b, "Fortuna: %d/%d\n", sum.Fortune, rules.MaxFortune)
	b.WriteString(wrap("Social: " + sum.SocialCredit.String()))
	b.WriteString("\n")
	b.WriteString(wrap("Clandestino: " + sum.ShadowCredit.String()))
	b.WriteString("\n")

	for _, w := range sum.Warnings {
		b.WriteString(dirtyStyle.Render(wrap("! " + w)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(groupStyle.Render("Tirada"))
	b.WriteString("\n")
	b.WriteString("Dificultad: " + s.difficulty.String())
	b.WriteString("\n")
	if s.lastRoll != "" {
		style := successStyle
		if s.lastRollFailed {
			style = errorStyle
		}
		b.WriteString(style.Render(wrap(s.lastRoll)))
		b.WriteString("\n")
	}

	if s.saveErr != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(wrap("Error al guardar: " + s.saveErr.Error())))
		b.WriteString("\n")
	}
	if s.status != "" {
		b.WriteString("\n")
		b.WriteString(promptStyle.Render(wrap(s.status)))
		b.WriteString("\n")
	}

	return sidePanelStyle.Width(width).Render(b.String())
}
