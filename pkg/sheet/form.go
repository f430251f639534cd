package sheet

// FormState is the typed, in-memory form of one character.
// After Hydrate it holds exactly one entry per schema field.
type FormState map[string]Value

// Clone returns an independent copy of the state
func (s FormState) Clone() FormState {
	out := make(FormState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Equal reports whether both states hold the same values for the same keys
func (s FormState) Equal(o FormState) bool {
	if len(s) != len(o) {
		return false
	}
	for k, v := range s {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Hydrate converts a remote record into typed form state.
// Every field in fields is populated: numeric cells are parsed (falling back
// to 0), text cells are copied, missing cells take the field default.
// Record keys without a descriptor are dropped.
func Hydrate(rec Record, fields []Field) FormState {
	state := make(FormState, len(fields))
	for _, f := range fields {
		raw, ok := rec[f.ID]
		switch {
		case !ok:
			state[f.ID] = f.Default()
		case f.IsNumeric():
			state[f.ID] = Number(parseNumber(raw))
		default:
			state[f.ID] = Text(raw)
		}
	}
	return state
}

// ApplyEdit returns a copy of state with raw input applied to fieldID.
// Numeric fields store the parsed number, or Empty when raw is "", so a
// number box can be cleared without snapping back to 0 on every keystroke.
// Unknown field IDs leave the state unchanged.
func ApplyEdit(state FormState, fieldID, raw string) FormState {
	f, ok := Lookup(fieldID)
	if !ok {
		return state.Clone()
	}
	next := state.Clone()
	switch {
	case !f.IsNumeric():
		next[fieldID] = Text(raw)
	case raw == "":
		next[fieldID] = Empty()
	default:
		next[fieldID] = Number(parseNumber(raw))
	}
	return next
}

// NormalizeOnBlur commits a cleared numeric input back to 0
func NormalizeOnBlur(state FormState, fieldID string) FormState {
	next := state.Clone()
	f, ok := Lookup(fieldID)
	if !ok || !f.IsNumeric() {
		return next
	}
	if v, present := next[fieldID]; !present || v.IsEmpty() {
		next[fieldID] = Number(0)
	}
	return next
}

// Serialize converts typed state back into the remote string form.
// The result always has one entry per field; missing or Empty numbers are
// written as "0" and missing text as "".
func Serialize(state FormState, fields []Field) Record {
	rec := make(Record, len(fields))
	for _, f := range fields {
		v, ok := state[f.ID]
		switch {
		case f.IsNumeric():
			n, isNum := v.Float()
			if !ok || !isNum {
				n = parseNumber(v.String())
			}
			rec[f.ID] = formatNumber(n)
		case ok:
			rec[f.ID] = v.String()
		default:
			rec[f.ID] = ""
		}
	}
	return rec
}
