package rules

import "github.com/jwebster45206/investigator-sheets/pkg/sheet"

const (
	pointsPerLevel  = 6
	stabilityOffset = 3

	// XPPerHeroPoint is how many experience points buy one hero point
	XPPerHeroPoint = 20

	// MaxFortune caps the fortune points a character may hold at once
	MaxFortune = 2

	// StartingLevel is the initial value of Constitución and Estabilidad Mental
	StartingLevel = 2

	// StartingPoints are spread over the six basic abilities at creation
	StartingPoints = 18

	// MaxStartingLevel caps any ability at creation
	MaxStartingLevel = 5

	cheapCeiling = 6
)

// MaxEndurance is six Aguante points per level of Constitución
func MaxEndurance(constitution int) int {
	return pointsPerLevel * max(constitution, 0)
}

// MaxSanity is six Cordura points per level of Estabilidad Mental
func MaxSanity(mentalStability int) int {
	return pointsPerLevel * max(mentalStability, 0)
}

// BaseStability is Estabilidad Mental plus three
func BaseStability(mentalStability int) int {
	return max(mentalStability, 0) + stabilityOffset
}

// HeroPoints converts experience to spendable hero points, rounding down
func HeroPoints(xp int) int {
	if xp <= 0 {
		return 0
	}
	return xp / XPPerHeroPoint
}

// ImprovementCost returns the hero points needed to raise attribute from
// currentLevel to currentLevel+1.
func ImprovementCost(attribute string, currentLevel int) int {
	switch attribute {
	case sheet.FieldConstitution, sheet.FieldMentalStability:
		return 3
	}
	if currentLevel+1 <= cheapCeiling {
		return 1
	}
	return 2
}

// UpgradeCost sums ImprovementCost from one level to a higher one.
// It returns 0 when to is not above from.
func UpgradeCost(attribute string, from, to int) int {
	total := 0
	for lvl := from; lvl < to; lvl++ {
		total += ImprovementCost(attribute, lvl)
	}
	return total
}

// AffordableLevel is the highest level attribute can reach from from by
// spending at most heroPoints.
func AffordableLevel(attribute string, from, heroPoints int) int {
	lvl := from
	for heroPoints >= ImprovementCost(attribute, lvl) {
		heroPoints -= ImprovementCost(attribute, lvl)
		lvl++
	}
	return lvl
}

// CreditLevel names the six tiers of Crédito Social and Crédito Clandestino
type CreditLevel int

var creditNames = []string{
	"Nulo",
	"Básico",
	"Funcional",
	"Influyente",
	"Poderoso",
	"Autoridad/Oculto Mayor",
}

// CreditLevelFor clamps a sheet value into the 1..6 credit scale
func CreditLevelFor(v int) CreditLevel {
	return CreditLevel(min(max(v, 1), len(creditNames)))
}

func (c CreditLevel) String() string {
	i := min(max(int(c), 1), len(creditNames)) - 1
	return creditNames[i]
}
