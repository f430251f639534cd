// Package reference holds the static player reference material: weapon
// tables and the field manual, both rendered as Markdown.
package reference

import (
	"strings"

	"github.com/jwebster45206/investigator-sheets/pkg/sheet"
)

// Weapon is one row of a weapon table
type Weapon struct {
	Damage  string
	Name    string
	Ability string
	Cost    string
	Notes   string
}

const (
	MeleeTitle  = "Manual de Armas: Cuerpo a Cuerpo"
	RangedTitle = "Manual de Armas: A Distancia"

	MeleeIntro = "El combate cercano es una realidad brutal y a menudo inevitable. " +
		"Instrumentos desde los más improvisados hasta herramientas contundentes, " +
		"para cuando la distancia se ha cerrado."
	RangedIntro = "Mantener la distancia puede ser la diferencia entre la vida y la locura. " +
		"Armas de proyectiles, desde las más comunes hasta explosivos. " +
		"El uso de ciertas armas puede atraer atención indeseada."

	emptyTable = "No hay armas para mostrar en esta categoría."
)

var melee = []Weapon{
	{"1", "Puñetazo / patada", sheet.FieldStrength, "-", "Sin arma. No causa heridas graves salvo crítico."},
	{"1", "Nudilleras de latón", sheet.FieldStrength, "$1", "Fáciles de ocultar."},
	{"2", "Porra o cachiporra", sheet.FieldStrength, "$2", "Puede dejar inconsciente en lugar de herir."},
	{"2", "Cuchillo", sheet.FieldStrength, "$2", "+1 dado en espacios reducidos."},
	{"2", "Navaja de afeitar", sheet.FieldStrength, "$1", "Discreta. Heridas sangrantes."},
	{"3", "Palanca", sheet.FieldStrength, "$1", "Sirve también para forzar puertas."},
	{"3", "Bate de béisbol", sheet.FieldStrength, "$3", "Se rompe con un fallo de gravedad 3 o más."},
	{"3", "Bayoneta calada", sheet.FieldStrength, "$5", "Requiere fusil."},
	{"4", "Hacha", sheet.FieldStrength, "$3", "Pesada. -1 dado si se usa con una mano."},
	{"4", "Sable o espada", sheet.FieldStrength, "$25", "Llamativa en la ciudad."},
	{"5", "Machete", sheet.FieldStrength, "$4", "Habitual en expediciones tropicales."},
}

var ranged = []Weapon{
	{"1", "Piedra u objeto arrojadizo", sheet.FieldAgility, "-", "Alcance corto."},
	{"2", "Cuchillo arrojadizo", sheet.FieldAgility, "$3", "Recuperable tras el combate."},
	{"2", "Derringer .41", sheet.FieldAgility, "$12", "Dos disparos. Fácil de ocultar."},
	{"3", "Revólver .38", sheet.FieldAgility, "$25", "Seis disparos. Arma de policía y detective."},
	{"4", "Pistola automática .45", sheet.FieldAgility, "$40", "Siete disparos. Recarga rápida."},
	{"4", "Escopeta del calibre 12", sheet.FieldAgility, "$40", "+1 dado a corta distancia, -1 dado a larga."},
	{"5", "Rifle de caza .30-06", sheet.FieldAgility, "$75", "+1 dado apuntando un turno completo."},
	{"5", "Subfusil Thompson", sheet.FieldAgility, "$200", "Ráfagas. Ilegal para civiles; requiere Crédito Clandestino."},
	{"6", "Cartucho de dinamita", sheet.FieldAgility, "$2", "Afecta a todos en la zona. Mecha de un turno."},
}

// Melee returns the close combat weapons, which roll Fuerza
func Melee() []Weapon {
	return clone(melee)
}

// Ranged returns the ranged weapons, which roll Agilidad
func Ranged() []Weapon {
	return clone(ranged)
}

func clone(ws []Weapon) []Weapon {
	out := make([]Weapon, len(ws))
	copy(out, ws)
	return out
}

// WeaponTable renders weapons as a Markdown document headed by title.
// An empty list renders a notice instead of an empty table.
func WeaponTable(title string, weapons []Weapon) string {
	var b strings.Builder
	if title != "" {
		b.WriteString("# " + title + "\n\n")
	}
	if len(weapons) == 0 {
		b.WriteString(emptyTable + "\n")
		return b.String()
	}

	b.WriteString("| DAÑO | ARMA | HABILIDAD | COSTE (1930s) | NOTAS |\n")
	b.WriteString("|:---:|---|---|---|---|\n")
	for _, w := range weapons {
		b.WriteString("| ")
		b.WriteString(strings.Join([]string{
			cell(w.Damage), cell(w.Name), cell(w.Ability), cell(w.Cost), cell(w.Notes),
		}, " | "))
		b.WriteString(" |\n")
	}
	return b.String()
}

// MeleePage is the melee table with its introduction
func MeleePage() string {
	return page(MeleeTitle, MeleeIntro, melee)
}

// RangedPage is the ranged table with its introduction
func RangedPage() string {
	return page(RangedTitle, RangedIntro, ranged)
}

func page(title, intro string, weapons []Weapon) string {
	return "# " + title + "\n\n" + intro + "\n\n" + WeaponTable("", weapons)
}

// cell escapes characters that would break a Markdown table row
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
