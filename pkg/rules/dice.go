// Package rules holds the D6 dice-pool system used by investigator sheets:
// pool rolls, difficulty checks, derived maxima, sanity tiers and experience.
package rules

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Roller produces six-sided die results in 1..6
type Roller interface {
	D6() int
}

type randomRoller struct{}

func (randomRoller) D6() int {
	return rand.IntN(6) + 1
}

// NewRoller returns a Roller backed by the runtime's random source
func NewRoller() Roller {
	return randomRoller{}
}

const (
	successFace  = 5
	criticalFace = 6
	botchFace    = 2
)

// PoolResult is the outcome of rolling a pool of d6.
// Severity is only counted when the roll has no successes.
type PoolResult struct {
	Dice      []int
	Successes int
	Criticals int
	Severity  int
}

// Failed reports whether the roll produced no successes at all
func (p PoolResult) Failed() bool {
	return p.Successes == 0
}

func (p PoolResult) String() string {
	faces := make([]string, len(p.Dice))
	for i, d := range p.Dice {
		faces[i] = fmt.Sprint(d)
	}
	dice := "[" + strings.Join(faces, " ") + "]"

	switch {
	case len(p.Dice) == 0:
		return "sin dados"
	case p.Failed() && p.Severity > 0:
		return fmt.Sprintf("fallo (gravedad %d) %s", p.Severity, dice)
	case p.Failed():
		return "fallo " + dice
	case p.Criticals > 0:
		return fmt.Sprintf("%d %s (%d %s) %s", p.Successes, plural(p.Successes, "éxito", "éxitos"),
			p.Criticals, plural(p.Criticals, "crítico", "críticos"), dice)
	default:
		return fmt.Sprintf("%d %s %s", p.Successes, plural(p.Successes, "éxito", "éxitos"), dice)
	}
}

// Roll throws pool dice. Pools below 1 roll nothing.
func Roll(pool int, r Roller) PoolResult {
	if r == nil {
		r = NewRoller()
	}
	if pool < 1 {
		return PoolResult{}
	}

	res := PoolResult{Dice: make([]int, pool)}
	low := 0
	for i := range res.Dice {
		d := r.D6()
		res.Dice[i] = d
		if d >= successFace {
			res.Successes++
		}
		if d == criticalFace {
			res.Criticals++
		}
		if d <= botchFace {
			low++
		}
	}
	if res.Successes == 0 {
		res.Severity = low
	}
	return res
}

// Difficulty is the number of successes an action requires
type Difficulty int

const (
	Easy Difficulty = iota + 1
	Normal
	Hard
	VeryHard
	Absurd
	Impossible
)

var difficultyNames = map[Difficulty]string{
	Easy:       "Fácil",
	Normal:     "Normal",
	Hard:       "Difícil",
	VeryHard:   "Muy Difícil",
	Absurd:     "Absurdo",
	Impossible: "Imposible",
}

func (d Difficulty) String() string {
	if name, ok := difficultyNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Dificultad %d", int(d))
}

// Difficulties lists every level from Easy to Impossible
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Normal, Hard, VeryHard, Absurd, Impossible}
}

// CheckResult is a pool roll judged against a difficulty.
// Margin is the surplus of successes on a pass and zero otherwise.
type CheckResult struct {
	PoolResult
	Difficulty Difficulty
	Passed     bool
	Margin     int
}

// Check rolls pool dice against d
func Check(pool int, d Difficulty, r Roller) CheckResult {
	res := CheckResult{PoolResult: Roll(pool, r), Difficulty: d}
	if res.Successes >= int(d) {
		res.Passed = true
		res.Margin = res.Successes - int(d)
	}
	return res
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
