// Package adjustment implements the elite and weak creature adjustments.
package adjustment

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/bestiary/internal/game/modifier"
)

// Tier is an NPC's power adjustment.
type Tier string

const (
	Normal Tier = "normal"
	Elite  Tier = "elite"
	Weak   Tier = "weak"
)

// Localization keys for the adjustment modifiers.
const (
	EliteLabel = "npc.adjustment.elite"
	WeakLabel  = "npc.adjustment.weak"
)

// StatisticDelta is the magnitude of the all-statistics and damage adjustment.
const StatisticDelta = 2

// ParseTier converts s into a Tier.
//
// Postcondition: returns an error for anything but normal, elite, weak, or "".
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case Normal, "":
		return Normal, nil
	case Elite:
		return Elite, nil
	case Weak:
		return Weak, nil
	default:
		return "", fmt.Errorf("adjustment: unknown tier %q", s)
	}
}

// TierOf reports the tier held by a trait list. Elite wins if both traits
// are somehow present.
func TierOf(traits []string) Tier {
	weak := false
	for _, t := range traits {
		switch Tier(t) {
		case Elite:
			return Elite
		case Weak:
			weak = true
		}
	}
	if weak {
		return Weak
	}
	return Normal
}

// HPDeltaForLevel returns the hit point adjustment for a creature of level.
//
// Postcondition: returns 30 for level >= 20, 20 for 5..19, 15 for 2..4, and
// 10 for level <= 1.
func HPDeltaForLevel(level int) int {
	switch {
	case level >= 20:
		return 30
	case level >= 5:
		return 20
	case level >= 2:
		return 15
	default:
		return 10
	}
}

// sign returns +1 for elite, -1 for weak and 0 otherwise.
func (t Tier) sign() int {
	switch t {
	case Elite:
		return 1
	case Weak:
		return -1
	default:
		return 0
	}
}

// Label returns the localization key describing t, or "" for Normal.
func (t Tier) Label() string {
	switch t {
	case Elite:
		return EliteLabel
	case Weak:
		return WeakLabel
	default:
		return ""
	}
}

// Injection is one modifier to add to the bag under Tag.
type Injection struct {
	Tag      string
	Modifier modifier.Modifier
}

// Modifiers returns the all, damage and hp modifiers a tier injects.
//
// Postcondition: empty for Normal; otherwise exactly three injections.
func Modifiers(t Tier, level int) []Injection {
	s := t.sign()
	if s == 0 {
		return nil
	}
	label := t.Label()
	return []Injection{
		{Tag: modifier.TagAll, Modifier: modifier.New(label, s*StatisticDelta, modifier.KindUntyped)},
		{Tag: modifier.TagDamage, Modifier: modifier.New(label, s*StatisticDelta, modifier.KindUntyped)},
		{Tag: modifier.TagHP, Modifier: modifier.New(label, s*HPDeltaForLevel(level), modifier.KindUntyped)},
	}
}

// ApplyTier moves an NPC from its current tier (read from traits) to target.
//
// Precondition: target is Normal, Elite, or Weak.
// Postcondition: if the current tier already equals target the inputs are
// returned unchanged. Otherwise newTraits is WithTier(target, traits) and
// newHP is ShiftHP(current, target, level, hp).
func ApplyTier(target Tier, level, hp int, traits []string) (newHP int, newTraits []string) {
	current := TierOf(traits)
	if current == target {
		return hp, traits
	}
	return ShiftHP(current, target, level, hp), WithTier(target, traits)
}

// ShiftHP removes current's hit point delta from hp and applies target's,
// flooring the result at 0.
func ShiftHP(current, target Tier, level, hp int) int {
	out := hp + (target.sign()-current.sign())*HPDeltaForLevel(level)
	if out < 0 {
		return 0
	}
	return out
}

// WithTier returns traits sorted, without either tier trait, plus target's
// trait unless target is Normal.
func WithTier(target Tier, traits []string) []string {
	out := make([]string, 0, len(traits)+1)
	for _, t := range traits {
		if IsTierTrait(t) {
			continue
		}
		out = append(out, t)
	}
	if target != Normal {
		out = append(out, string(target))
	}
	sort.Strings(out)
	return out
}

// IsTierTrait reports whether trait is the elite or weak trait.
func IsTierTrait(trait string) bool {
	return Tier(trait) == Elite || Tier(trait) == Weak
}
