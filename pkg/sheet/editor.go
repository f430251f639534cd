package sheet

// Editor holds the editable state of a single character for one view.
// It tracks the last loaded-or-saved snapshot, the dirty flag and the
// in-flight save. It is not safe for concurrent use.
type Editor struct {
	name     string
	fields   []Field
	state    FormState
	snapshot FormState
	pending  FormState // state submitted by the in-flight save
	dirty    bool
	saving   bool
	loaded   bool
}

// NewEditor creates an editor for the named character, initialised to defaults
func NewEditor(name string) *Editor {
	return &Editor{
		name:   name,
		fields: Fields(),
		state:  DefaultState(),
	}
}

func (e *Editor) Name() string    { return e.name }
func (e *Editor) Fields() []Field { return e.fields }
func (e *Editor) Dirty() bool     { return e.dirty }
func (e *Editor) Saving() bool    { return e.saving }
func (e *Editor) Loaded() bool    { return e.loaded }

// State returns a copy of the current form state
func (e *Editor) State() FormState {
	return e.state.Clone()
}

// Value returns the current value of a field
func (e *Editor) Value(id string) Value {
	return e.state[id]
}

// Load replaces the form with a freshly fetched record and clears the dirty flag
func (e *Editor) Load(rec Record) {
	e.state = Hydrate(rec, e.fields)
	e.snapshot = e.state.Clone()
	e.dirty = false
	e.loaded = true
}

// Edit applies raw user input to a field and marks the form dirty.
// Returns false for unknown fields, which are not edits.
func (e *Editor) Edit(id, raw string) bool {
	if _, ok := Lookup(id); !ok {
		return false
	}
	e.state = ApplyEdit(e.state, id, raw)
	e.dirty = true
	return true
}

// Blur commits a cleared numeric field to 0
func (e *Editor) Blur(id string) {
	e.state = NormalizeOnBlur(e.state, id)
}

// BeginSave starts a save and returns the record to submit.
// ok is false when nothing changed or a save is already in flight.
func (e *Editor) BeginSave() (rec Record, ok bool) {
	if !e.dirty || e.saving {
		return nil, false
	}
	e.saving = true
	e.pending = e.state.Clone()
	return Serialize(e.pending, e.fields), true
}

// CompleteSave records a successful save. The submitted state becomes the new
// snapshot; edits made while the save was in flight keep the form dirty.
func (e *Editor) CompleteSave() {
	if !e.saving {
		return
	}
	e.saving = false
	e.snapshot = e.pending
	e.pending = nil
	e.dirty = !e.state.Equal(e.snapshot)
}

// FailSave ends a failed save. The edited state and dirty flag are kept.
func (e *Editor) FailSave() {
	e.saving = false
	e.pending = nil
}

// Revert discards unsaved edits and restores the last snapshot
func (e *Editor) Revert() {
	if e.snapshot == nil {
		e.state = DefaultState()
	} else {
		e.state = e.snapshot.Clone()
	}
	e.dirty = false
}
