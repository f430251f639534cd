package reference

import (
	"strings"
	"testing"

	"github.com/jwebster45206/investigator-sheets/pkg/rules"
	"github.com/jwebster45206/investigator-sheets/pkg/sheet"
)

func TestWeaponAbilities(t *testing.T) {
	for _, w := range Melee() {
		if w.Ability != sheet.FieldStrength {
			t.Errorf("melee weapon %q uses %q", w.Name, w.Ability)
		}
	}
	for _, w := range Ranged() {
		if w.Ability != sheet.FieldAgility {
			t.Errorf("ranged weapon %q uses %q", w.Name, w.Ability)
		}
	}
}

func TestWeaponsAreCopies(t *testing.T) {
	ws := Melee()
	ws[0].Name = "changed"
	if Melee()[0].Name == "changed" {
		t.Error("Melee() exposes the shared table")
	}
}

func TestWeaponTable(t *testing.T) {
	md := WeaponTable("Prueba", []Weapon{
		{Damage: "2", Name: "Cuchillo", Ability: "Fuerza", Cost: "$2", Notes: "uno | dos\ntres"},
	})

	lines := strings.Split(strings.TrimSpace(md), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected title, blank, header, separator and one row, got %d lines:\n%s", len(lines), md)
	}
	if lines[0] != "# Prueba" {
		t.Errorf("title line = %q", lines[0])
	}
	want := `| 2 | Cuchillo | Fuerza | $2 | uno \| dos tres |`
	if lines[4] != want {
		t.Errorf("row = %q, want %q", lines[4], want)
	}
}

func TestWeaponTable_Empty(t *testing.T) {
	md := WeaponTable("", nil)
	if !strings.Contains(md, emptyTable) || strings.Contains(md, "|") {
		t.Errorf("empty table rendered as %q", md)
	}
}

func TestPages(t *testing.T) {
	if !strings.HasPrefix(MeleePage(), "# "+MeleeTitle) || !strings.Contains(MeleePage(), "Machete") {
		t.Error("melee page is incomplete")
	}
	if !strings.HasPrefix(RangedPage(), "# "+RangedTitle) || !strings.Contains(RangedPage(), "Revólver") {
		t.Error("ranged page is incomplete")
	}
}

func TestRulebook(t *testing.T) {
	book := Rulebook()
	if !strings.HasPrefix(book, "# "+RulebookTitle) {
		t.Errorf("rulebook starts with %q", strings.SplitN(book, "\n", 2)[0])
	}
	for _, d := range rules.Difficulties() {
		if !strings.Contains(book, "| "+d.String()+" |") {
			t.Errorf("rulebook is missing difficulty %s", d)
		}
	}
	for _, d := range rules.Disorders() {
		if !strings.Contains(book, d.Name) {
			t.Errorf("rulebook is missing disorder %s", d.Name)
		}
	}
}
