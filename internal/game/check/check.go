// Package check describes checks and damage rolls and executes them.
package check

import (
	"slices"

	"github.com/cory-johannsen/bestiary/internal/game/dice"
	"github.com/cory-johannsen/bestiary/internal/game/modifier"
)

// Type identifies the kind of check being rolled.
type Type string

const (
	TypeAttackRoll      Type = "attack-roll"
	TypeSpellAttackRoll Type = "spell-attack-roll"
	TypeSavingThrow     Type = "saving-throw"
	TypeSkillCheck      Type = "skill-check"
	TypePerceptionCheck Type = "perception-check"
)

// StatSnapshot is an immutable copy of a finalized statistic.
type StatSnapshot struct {
	Name      string              `json:"name"`
	Label     string              `json:"label"`
	Total     int                 `json:"total"`
	Modifiers []modifier.Modifier `json:"modifiers"`
	Breakdown string              `json:"breakdown"`
}

// Snapshot captures s as displayed through tr.
//
// Postcondition: later changes to s do not affect the snapshot.
func Snapshot(s *modifier.Statistic, label string, tr modifier.Translator, prefix ...string) StatSnapshot {
	return StatSnapshot{
		Name:      s.Name,
		Label:     label,
		Total:     s.Total(),
		Modifiers: append([]modifier.Modifier(nil), s.Modifiers...),
		Breakdown: s.Breakdown(tr, prefix...),
	}
}

// Statistic rebuilds a mutable statistic from the snapshot.
func (s StatSnapshot) Statistic() *modifier.Statistic {
	return modifier.NewStatistic(s.Name, s.Modifiers...)
}

// DC is the difficulty class a check is rolled against.
type DC struct {
	Value int    `json:"value"`
	Label string `json:"label,omitempty"`
}

// Spec is everything an executor needs to roll one check.
type Spec struct {
	Label     string
	Statistic StatSnapshot
	Type      Type
	Options   []string
	DC        *DC
	Notes     []modifier.Note
	// Extra holds situational modifiers such as the multiple attack penalty.
	Extra []modifier.Modifier
}

// Modifier is the check's total modifier with Extra stacked onto the
// snapshot's modifiers.
func (s Spec) Modifier() int {
	if len(s.Extra) == 0 {
		return s.Statistic.Total
	}
	mods := append(append([]modifier.Modifier(nil), s.Statistic.Modifiers...), s.Extra...)
	return modifier.NewStatistic(s.Statistic.Name, mods...).Total()
}

// HasOption reports whether opt is one of the spec's roll options.
func (s Spec) HasOption(opt string) bool {
	return slices.Contains(s.Options, opt)
}

// Result is the outcome of an executed check.
type Result struct {
	Spec    Spec
	Natural int
	Total   int
	// Degree is nil when the spec had no DC.
	Degree *Degree
	// Notes are the spec's notes whose outcome filter matched.
	Notes []modifier.Note
}

// DamageSpec describes one damage roll.
type DamageSpec struct {
	Label      string
	Formula    dice.Formula
	DamageType string
	Breakdown  []string
	Options    []string
	Notes      []modifier.Note
	// Multiplier scales the rolled total; values below 1 count as 1.
	Multiplier int
}

// DamageResult is the outcome of a damage roll.
type DamageResult struct {
	Spec     DamageSpec
	Roll     dice.RollResult
	Total    int
	Critical bool
}

// FilterNotes returns the notes that apply to degree d. Notes without an
// outcome list always apply; when d is nil only those notes are kept.
func FilterNotes(notes []modifier.Note, d *Degree) []modifier.Note {
	var out []modifier.Note
	for _, n := range notes {
		if len(n.Outcome) == 0 || (d != nil && slices.Contains(n.Outcome, d.Key())) {
			out = append(out, n)
		}
	}
	return out
}
