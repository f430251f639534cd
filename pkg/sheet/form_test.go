package sheet

import (
	"encoding/json"
	"testing"
)

func fullRecord() Record {
	rec := Record{}
	for i, f := range Fields() {
		if f.IsNumeric() {
			rec[f.ID] = []string{"0", "3", "12", "2.5", "-1", "40"}[i%6]
		} else {
			rec[f.ID] = "línea uno\nlínea dos " + f.ID
		}
	}
	return rec
}

func TestSerializeHydrateRoundTrip(t *testing.T) {
	rec := fullRecord()
	fields := Fields()

	got := Serialize(Hydrate(rec, fields), fields)

	if len(got) != len(fields) {
		t.Fatalf("Serialize() produced %d fields, want %d", len(got), len(fields))
	}
	for _, f := range fields {
		if got[f.ID] != rec[f.ID] {
			t.Errorf("field %q round-tripped to %q, want %q", f.ID, got[f.ID], rec[f.ID])
		}
	}
}

func TestHydrate(t *testing.T) {
	fields := Fields()

	tests := []struct {
		name  string
		rec   Record
		field string
		want  Value
	}{
		{"missing numeric takes default", Record{}, FieldStrength, Number(0)},
		{"missing text takes default", Record{}, FieldInventory, Text("")},
		{"numeric parsed", Record{FieldStrength: "4"}, FieldStrength, Number(4)},
		{"numeric with spaces", Record{FieldAgility: " 3 "}, FieldAgility, Number(3)},
		{"decimal", Record{FieldFunds: "12.75"}, FieldFunds, Number(12.75)},
		{"malformed numeric falls back to zero", Record{FieldCharisma: "abc"}, FieldCharisma, Number(0)},
		{"empty numeric is zero", Record{FieldCharisma: ""}, FieldCharisma, Number(0)},
		{"NaN is zero", Record{FieldCharisma: "NaN"}, FieldCharisma, Number(0)},
		{"text verbatim", Record{FieldProfession: "  Detective\n"}, FieldProfession, Text("  Detective\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := Hydrate(tt.rec, fields)
			if got := state[tt.field]; !got.Equal(tt.want) {
				t.Errorf("Hydrate()[%q] = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}

func TestHydrate_ExactKeySet(t *testing.T) {
	rec := Record{"Nombre": "Silas", "Columna extra": "x", FieldStrength: "4"}
	state := Hydrate(rec, Fields())

	if len(state) != len(Fields()) {
		t.Fatalf("Hydrate() has %d keys, want %d", len(state), len(Fields()))
	}
	if _, ok := state["Columna extra"]; ok {
		t.Error("Hydrate() kept an unknown record key")
	}
	for _, f := range Fields() {
		if _, ok := state[f.ID]; !ok {
			t.Errorf("Hydrate() missing field %q", f.ID)
		}
	}
}

func TestApplyEdit(t *testing.T) {
	base := DefaultState()

	tests := []struct {
		name  string
		field string
		raw   string
		want  Value
	}{
		{"number", FieldStrength, "7", Number(7)},
		{"non numeric falls back to zero", FieldStrength, "abc", Number(0)},
		{"empty becomes Empty", FieldStrength, "", Empty()},
		{"text verbatim", FieldInventory, "revólver, linterna", Text("revólver, linterna")},
		{"empty text stays text", FieldInventory, "", Text("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyEdit(base, tt.field, tt.raw)
			if !got[tt.field].Equal(tt.want) {
				t.Errorf("ApplyEdit(%q, %q) = %v, want %v", tt.field, tt.raw, got[tt.field], tt.want)
			}
		})
	}

	if !base[FieldStrength].Equal(Number(0)) {
		t.Error("ApplyEdit() mutated its input state")
	}
}

func TestApplyEdit_UnknownField(t *testing.T) {
	base := DefaultState()
	got := ApplyEdit(base, "Nombre", "Silas")
	if !got.Equal(base) {
		t.Error("ApplyEdit() with unknown field changed the state")
	}
}

func TestNormalizeOnBlur(t *testing.T) {
	state := ApplyEdit(DefaultState(), FieldWillpower, "")
	if !state[FieldWillpower].IsEmpty() {
		t.Fatalf("expected Empty after clearing, got %v", state[FieldWillpower])
	}

	state = NormalizeOnBlur(state, FieldWillpower)
	if n, ok := state[FieldWillpower].Float(); !ok || n != 0 {
		t.Errorf("NormalizeOnBlur() = %v, want 0", state[FieldWillpower])
	}

	// Non-empty numbers and text fields are untouched
	state = ApplyEdit(state, FieldWillpower, "5")
	state = NormalizeOnBlur(state, FieldWillpower)
	if n, _ := state[FieldWillpower].Float(); n != 5 {
		t.Errorf("NormalizeOnBlur() changed a concrete number to %v", n)
	}
	state = ApplyEdit(state, FieldInventory, "")
	state = NormalizeOnBlur(state, FieldInventory)
	if !state[FieldInventory].Equal(Text("")) {
		t.Errorf("NormalizeOnBlur() changed a text field to %v", state[FieldInventory])
	}
}

func TestSerialize_Total(t *testing.T) {
	state := FormState{
		FieldStrength:  Empty(),
		FieldAgility:   Number(3.5),
		FieldInventory: Text("cuerda"),
	}

	rec := Serialize(state, Fields())

	if len(rec) != len(Fields()) {
		t.Fatalf("Serialize() has %d keys, want %d", len(rec), len(Fields()))
	}
	want := map[string]string{
		FieldStrength:   "0",
		FieldAgility:    "3.5",
		FieldInventory:  "cuerda",
		FieldProfession: "",
		FieldFortune:    "0",
	}
	for id, v := range want {
		if rec[id] != v {
			t.Errorf("Serialize()[%q] = %q, want %q", id, rec[id], v)
		}
	}
}

func TestRecord_UnmarshalJSON(t *testing.T) {
	data := []byte(`{"Fuerza": 4, "Agilidad": "3", "Inventario": "cuerda", "Fondos disponibles": 12.5, "Activo": true, "Notas": null}`)

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := Record{
		"Fuerza":             "4",
		"Agilidad":           "3",
		"Inventario":         "cuerda",
		"Fondos disponibles": "12.5",
		"Activo":             "true",
	}
	if len(rec) != len(want) {
		t.Fatalf("Unmarshal() = %v, want %v", rec, want)
	}
	for k, v := range want {
		if rec[k] != v {
			t.Errorf("rec[%q] = %q, want %q", k, rec[k], v)
		}
	}
}

func TestRecord_UnmarshalJSON_RejectsNested(t *testing.T) {
	var rec Record
	if err := json.Unmarshal([]byte(`{"Fuerza": {"x": 1}}`), &rec); err == nil {
		t.Error("expected error for nested object value")
	}
	if err := json.Unmarshal([]byte(`["Silas"]`), &rec); err == nil {
		t.Error("expected error for array payload")
	}
}

func TestGroups(t *testing.T) {
	groups := Groups()
	wantOrder := []string{GroupDetails, GroupPrimary, GroupResources, GroupOther, GroupInventory}

	if len(groups) != len(wantOrder) {
		t.Fatalf("Groups() returned %d groups, want %d", len(groups), len(wantOrder))
	}
	total := 0
	for i, g := range groups {
		if g.Name != wantOrder[i] {
			t.Errorf("group %d = %q, want %q", i, g.Name, wantOrder[i])
		}
		total += len(g.Fields)
	}
	if total != len(Fields()) {
		t.Errorf("groups hold %d fields, want %d", total, len(Fields()))
	}
}

func TestDefaultState(t *testing.T) {
	state := DefaultState()
	for _, f := range Fields() {
		v, ok := state[f.ID]
		if !ok {
			t.Errorf("DefaultState() missing %q", f.ID)
			continue
		}
		if f.IsNumeric() && !v.Equal(Number(0)) {
			t.Errorf("DefaultState()[%q] = %v, want 0", f.ID, v)
		}
		if !f.IsNumeric() && !v.Equal(Text("")) {
			t.Errorf("DefaultState()[%q] = %v, want empty text", f.ID, v)
		}
	}
}
