package rules

import (
	"fmt"

	"github.com/jwebster45206/investigator-sheets/pkg/sheet"
)

// Track is a current/maximum resource pair. Derived is the maximum the
// rules compute from primary attributes, which may differ from the value
// written on the sheet.
type Track struct {
	Current int
	Max     int
	Derived int
}

// Summary is the rules view of a character form
type Summary struct {
	Endurance    Track
	Sanity       Track
	Stability    Track
	SanityTier   SanityTier
	Disorders    int
	HeroPoints   int
	Fortune      int
	SocialCredit CreditLevel
	ShadowCredit CreditLevel
	Warnings     []string
}

// Summarize reads the numeric fields of a form and applies the rules to them.
// Empty fields count as zero.
func Summarize(state sheet.FormState) Summary {
	num := func(id string) int { return state[id].Int() }

	con := num(sheet.FieldConstitution)
	em := num(sheet.FieldMentalStability)

	s := Summary{
		Endurance: Track{Current: num(sheet.FieldEndurance), Max: num(sheet.FieldMaxEndurance), Derived: MaxEndurance(con)},
		Sanity:    Track{Current: num(sheet.FieldSanity), Max: num(sheet.FieldMaxSanity), Derived: MaxSanity(em)},
		Stability: Track{Current: num(sheet.FieldStability), Max: num(sheet.FieldMaxStability), Derived: BaseStability(em)},

		HeroPoints:   HeroPoints(num(sheet.FieldExperience)),
		Fortune:      num(sheet.FieldFortune),
		SocialCredit: CreditLevelFor(num(sheet.FieldSocialCredit)),
		ShadowCredit: CreditLevelFor(num(sheet.FieldShadowCredit)),
	}
	s.SanityTier = SanityTierFor(s.Sanity.Current)
	s.Disorders = DisordersFor(s.Sanity.Current)

	s.checkTrack("Aguante", s.Endurance)
	s.checkTrack("Cordura", s.Sanity)
	s.checkTrack("Estabilidad", s.Stability)
	if s.Fortune > MaxFortune {
		s.Warnings = append(s.Warnings, fmt.Sprintf("Fortuna %d supera el máximo de %d", s.Fortune, MaxFortune))
	}
	return s
}

func (s *Summary) checkTrack(name string, t Track) {
	if t.Max != t.Derived {
		s.Warnings = append(s.Warnings, fmt.Sprintf("%s máximo %d, las reglas dan %d", name, t.Max, t.Derived))
	}
	if t.Current > t.Max && t.Max > 0 {
		s.Warnings = append(s.Warnings, fmt.Sprintf("%s actual %d supera el máximo %d", name, t.Current, t.Max))
	}
}
