package sheet

// Kind is the value kind of a sheet field
type Kind int

const (
	KindNumber Kind = iota
	KindMultiline
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindMultiline:
		return "multiline"
	default:
		return "unknown"
	}
}

// Display groups, in the order they appear on the sheet
const (
	GroupDetails   = "Detalles del Personaje"
	GroupPrimary   = "Atributos Primarios"
	GroupResources = "Recursos y Estado"
	GroupOther     = "Otros Recursos"
	GroupInventory = "Inventario y Equipamiento"
)

// Field IDs are the spreadsheet column names, so they must match the remote sheet exactly.
const (
	FieldProfession      = "Profesión"
	FieldMotivation      = "Motivación Principal"
	FieldPillars         = "Pilares de Estabilidad"
	FieldConstitution    = "Constitución"
	FieldMentalStability = "Estabilidad Mental"
	FieldStrength        = "Fuerza"
	FieldAgility         = "Agilidad"
	FieldIntelligence    = "Inteligencia"
	FieldCharisma        = "Carisma"
	FieldPerception      = "Percepción"
	FieldWillpower       = "Voluntad"
	FieldMaxEndurance    = "Puntos de Aguante"
	FieldEndurance       = "Aguante actual"
	FieldMaxSanity       = "Puntos de Cordura"
	FieldSanity          = "Cordura actual"
	FieldMaxStability    = "Puntos de Estabilidad"
	FieldStability       = "Estabilidad actual"
	FieldSocialCredit    = "Crédito Social"
	FieldShadowCredit    = "Crédito Clandestino"
	FieldFunds           = "Fondos disponibles"
	FieldExperience      = "Puntos de Experiencia"
	FieldFortune         = "Puntos de Fortuna"
	FieldInventory       = "Inventario"
)

const sheetValueNote = "(Valor de Hoja)"

// Field describes one editable attribute of a character.
type Field struct {
	ID    string
	Label string
	Kind  Kind
	Group string
	Note  string // optional help text shown next to the label
	Rows  int    // preferred height for multiline fields
}

// IsNumeric reports whether the field holds a number
func (f Field) IsNumeric() bool {
	return f.Kind == KindNumber
}

// Default returns the value a field holds before any remote data arrives
func (f Field) Default() Value {
	if f.IsNumeric() {
		return Number(0)
	}
	return Text("")
}

var fields = []Field{
	{ID: FieldProfession, Label: "Profesión", Kind: KindMultiline, Group: GroupDetails, Rows: 2},
	{ID: FieldMotivation, Label: "Motivación Principal", Kind: KindMultiline, Group: GroupDetails, Rows: 3},
	{ID: FieldPillars, Label: "Pilares de Estabilidad", Kind: KindMultiline, Group: GroupDetails, Rows: 3},

	{ID: FieldConstitution, Label: "Constitución", Kind: KindNumber, Group: GroupPrimary},
	{ID: FieldMentalStability, Label: "Estabilidad Mental", Kind: KindNumber, Group: GroupPrimary},
	{ID: FieldStrength, Label: "Fuerza", Kind: KindNumber, Group: GroupPrimary},
	{ID: FieldAgility, Label: "Agilidad", Kind: KindNumber, Group: GroupPrimary},
	{ID: FieldIntelligence, Label: "Inteligencia", Kind: KindNumber, Group: GroupPrimary},
	{ID: FieldCharisma, Label: "Carisma", Kind: KindNumber, Group: GroupPrimary},
	{ID: FieldPerception, Label: "Percepción", Kind: KindNumber, Group: GroupPrimary},
	{ID: FieldWillpower, Label: "Voluntad", Kind: KindNumber, Group: GroupPrimary},

	{ID: FieldMaxEndurance, Label: "Puntos de Aguante (Max)", Kind: KindNumber, Group: GroupResources, Note: sheetValueNote},
	{ID: FieldEndurance, Label: "Aguante Actual", Kind: KindNumber, Group: GroupResources},
	{ID: FieldMaxSanity, Label: "Puntos de Cordura (Max)", Kind: KindNumber, Group: GroupResources, Note: sheetValueNote},
	{ID: FieldSanity, Label: "Cordura Actual", Kind: KindNumber, Group: GroupResources},
	{ID: FieldMaxStability, Label: "Puntos de Estabilidad (Max)", Kind: KindNumber, Group: GroupResources, Note: sheetValueNote},
	{ID: FieldStability, Label: "Estabilidad Actual", Kind: KindNumber, Group: GroupResources},

	{ID: FieldSocialCredit, Label: "Crédito Social", Kind: KindNumber, Group: GroupOther},
	{ID: FieldShadowCredit, Label: "Crédito Clandestino", Kind: KindNumber, Group: GroupOther},
	{ID: FieldFunds, Label: "Fondos Disponibles", Kind: KindNumber, Group: GroupOther},
	{ID: FieldExperience, Label: "Puntos de Experiencia", Kind: KindNumber, Group: GroupOther},
	{ID: FieldFortune, Label: "Puntos de Fortuna", Kind: KindNumber, Group: GroupOther},

	{ID: FieldInventory, Label: "Inventario", Kind: KindMultiline, Group: GroupInventory, Rows: 5},
}

var fieldIndex = func() map[string]int {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f.ID] = i
	}
	return idx
}()

// Fields returns the ordered field descriptors of a character sheet.
// The returned slice is a copy and may be modified by the caller.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Lookup finds a field descriptor by ID
func Lookup(id string) (Field, bool) {
	i, ok := fieldIndex[id]
	if !ok {
		return Field{}, false
	}
	return fields[i], true
}

// Group is a named run of fields rendered together
type Group struct {
	Name   string
	Fields []Field
}

// Groups returns the fields bucketed by display group, in first-seen order
func Groups() []Group {
	var groups []Group
	pos := make(map[string]int)
	for _, f := range fields {
		i, ok := pos[f.Group]
		if !ok {
			i = len(groups)
			pos[f.Group] = i
			groups = append(groups, Group{Name: f.Group})
		}
		groups[i].Fields = append(groups[i].Fields, f)
	}
	return groups
}

// DefaultState returns a form with every field at its default value
func DefaultState() FormState {
	state := make(FormState, len(fields))
	for _, f := range fields {
		state[f.ID] = f.Default()
	}
	return state
}
