package rules

// SanityTier is a band of current Cordura with its mechanical effect
type SanityTier int

const (
	SanityHealthy SanityTier = iota
	SanityFissures
	SanityFractures
	SanityVeilTorn
	SanityLiminal
	SanityCollapse
)

type tierInfo struct {
	name   string
	effect string
}

var sanityTiers = map[SanityTier]tierInfo{
	SanityHealthy:   {"Estado mental saludable", "Sin alteraciones."},
	SanityFissures:  {"Ligeras fisuras", "-1 dado en pruebas bajo presión emocional."},
	SanityFractures: {"Fracturas perceptivas", "+1 dado en tiradas sobrenaturales, -1 dado en interacciones sociales."},
	SanityVeilTorn:  {"El velo se rompe", "+2 dados en rituales y símbolos, -2 dados en percepción común."},
	SanityLiminal:   {"Conciencia liminal", "-3 dados en interacciones normales y pruebas prácticas."},
	SanityCollapse:  {"Colapso mental", "Trastorno psiquiátrico severo."},
}

// SanityTierFor classifies current Cordura
func SanityTierFor(current int) SanityTier {
	switch {
	case current > 10:
		return SanityHealthy
	case current >= 7:
		return SanityFissures
	case current >= 4:
		return SanityFractures
	case current >= 2:
		return SanityVeilTorn
	case current == 1:
		return SanityLiminal
	default:
		return SanityCollapse
	}
}

func (t SanityTier) String() string {
	return sanityTiers[t].name
}

// Effect describes the dice modifiers of the tier
func (t SanityTier) Effect() string {
	return sanityTiers[t].effect
}

// DisordersFor counts the psychiatric disorders a character has acquired at
// the given Cordura: one on reaching zero and one more per full three points below.
func DisordersFor(current int) int {
	if current > 0 {
		return 0
	}
	return 1 + (-current)/3
}

// Disorder is an entry of the psychiatric disorder table
type Disorder struct {
	Roll   int // 2D6 total that selects it
	Name   string
	Effect string
}

var disorders = []Disorder{
	{2, "Amnesia disociativa", "-3 dados al recordar información; +1 dado al improvisar."},
	{3, "Delirio mesiánico", "+1 dado de Carisma sobre lo sobrenatural; -2 dados al acatar órdenes."},
	{4, "Trastorno obsesivo-compulsivo", "-3 dados si no cumple su ritual; +1 dado si lo cumple."},
	{5, "Fobia específica", "-3 dados al enfrentarse al detonante."},
	{6, "Paranoia persecutoria", "+1 dado para detectar mentiras; -2 dados en pruebas cooperativas."},
	{7, "Alucinaciones auditivas", "-3 dados en tareas sostenidas; +1 dado en el caos."},
	{8, "Personalidad escindida", "+2 dados una vez por sesión; el DJ puede forzar -3 dados."},
	{9, "Trastorno de estrés postraumático", "-3 dados ante el trauma; +1 dado protegiendo a otros."},
	{10, "Catatonia parcial", "Tirada de Voluntad en escenas intensas o pierde dos turnos."},
	{11, "Cleptomanía ritualizada", "+1 dado en sigilo o robo; -1 dado ante las consecuencias."},
	{12, "Síndrome del saber prohibido", "+1 dado en saber arcano; el DJ puede imponer -4 dados."},
}

// Disorders returns the disorder table in roll order
func Disorders() []Disorder {
	out := make([]Disorder, len(disorders))
	copy(out, disorders)
	return out
}

// RollDisorder rolls 2D6 on the disorder table, rerolling results the
// character already has (keyed by name). It reports false when every
// disorder is already owned.
func RollDisorder(r Roller, owned map[string]bool) (Disorder, bool) {
	have := 0
	for _, d := range disorders {
		if owned[d.Name] {
			have++
		}
	}
	if have == len(disorders) {
		return Disorder{}, false
	}
	if r == nil {
		r = NewRoller()
	}
	for {
		d := disorders[r.D6()+r.D6()-2]
		if !owned[d.Name] {
			return d, true
		}
	}
}
