// Package dice provides the randomness abstraction, dice expressions, and
// roll results used for checks and damage.
package dice

import (
	"fmt"
	"strings"
)

// RollResult is the audit trail for one evaluated expression or formula.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // source text, e.g. "2d6+1d4+3"
	Dice       []int  // kept die results in term order
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String renders the roll as "2d6+3 → [4 5] +3 = 12".
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	dice := make([]string, len(r.Dice))
	for i, d := range r.Dice {
		dice[i] = fmt.Sprint(d)
	}
	return fmt.Sprintf("%s → [%s] %+d = %d", r.Expression, strings.Join(dice, " "), r.Modifier, r.Total())
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
