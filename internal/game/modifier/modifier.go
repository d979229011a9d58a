// Package modifier provides the typed bonus/penalty model shared by every
// derived statistic: individual modifiers, the stacking aggregator, and the
// tag-keyed bag that rule elements fill once per recomputation pass.
package modifier

import "fmt"

// Kind is the bonus/penalty type of a modifier.
type Kind string

const (
	KindUntyped      Kind = "untyped"
	KindAbility      Kind = "ability"
	KindProficiency  Kind = "proficiency"
	KindCircumstance Kind = "circumstance"
	KindItem         Kind = "item"
	KindStatus       Kind = "status"
	KindPotency      Kind = "potency"
)

var validKinds = map[Kind]bool{
	KindUntyped:      true,
	KindAbility:      true,
	KindProficiency:  true,
	KindCircumstance: true,
	KindItem:         true,
	KindStatus:       true,
	KindPotency:      true,
}

// ParseKind converts s into a Kind. Unknown or empty strings map to KindUntyped.
//
// Postcondition: the returned Kind is always valid.
func ParseKind(s string) Kind {
	k := Kind(s)
	if validKinds[k] {
		return k
	}
	return KindUntyped
}

// Stacks reports whether every modifier of this kind contributes regardless
// of other modifiers of the same kind.
func (k Kind) Stacks() bool {
	return k == KindUntyped
}

// Modifier is a single signed contribution to a statistic.
type Modifier struct {
	// Label is a localization key or literal display name.
	Label string `yaml:"label" json:"label"`
	// Value is the signed contribution.
	Value int `yaml:"value" json:"value"`
	// Kind drives stacking.
	Kind Kind `yaml:"type" json:"type"`
	// Enabled is false when the modifier is suppressed by stacking or Ignored.
	Enabled bool `yaml:"-" json:"enabled"`
	// Ignored suppresses the modifier unconditionally; it never re-enables.
	Ignored bool `yaml:"ignored" json:"ignored,omitempty"`
	// Source is the originating item ID, if any.
	Source string `yaml:"source" json:"source,omitempty"`
}

// New returns an enabled modifier.
func New(label string, value int, kind Kind) Modifier {
	return Modifier{Label: label, Value: value, Kind: kind, Enabled: true}
}

// IsBonus reports whether the modifier counts as a bonus for stacking.
// Zero-valued modifiers are bonuses that contribute nothing.
func (m Modifier) IsBonus() bool {
	return m.Value >= 0
}

// Signed renders the value with an explicit sign, e.g. "+2" or "-1".
func (m Modifier) Signed() string {
	return fmt.Sprintf("%+d", m.Value)
}

// Scaled returns a copy with its value multiplied by factor.
func (m Modifier) Scaled(factor int) Modifier {
	m.Value *= factor
	return m
}
