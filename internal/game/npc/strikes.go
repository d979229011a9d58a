package npc

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/cory-johannsen/bestiary/internal/game/adjustment"
	"github.com/cory-johannsen/bestiary/internal/game/check"
	"github.com/cory-johannsen/bestiary/internal/game/damage"
	"github.com/cory-johannsen/bestiary/internal/game/modifier"
)

// MAPTable holds the second and third attack penalties per weapon category.
type MAPTable struct {
	Standard [2]int `mapstructure:"standard"`
	Agile    [2]int `mapstructure:"agile"`
}

// DefaultMAP is the standard multiple attack penalty table.
var DefaultMAP = MAPTable{Standard: [2]int{-5, -10}, Agile: [2]int{-4, -8}}

// Penalties returns the penalties for a weapon with traits.
func (m MAPTable) Penalties(traits []string) [2]int {
	if slices.Contains(traits, "agile") {
		return m.Agile
	}
	return m.Standard
}

// StrikeTrait is one trait shown on a strike.
type StrikeTrait struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Toggle bool   `json:"toggle"`
}

// StrikeVariant is one attack of a strike: the plain attack or a multiple
// attack penalty step.
type StrikeVariant struct {
	Label   string `json:"label"`
	Penalty int    `json:"penalty"`
}

// Strike is the derived attack of a melee or ranged item together with the
// descriptors needed to roll its attack and damage.
//
// Invariant: Variants[0..2] have strictly decreasing effective totals.
type Strike struct {
	ID              string             `json:"id"`
	ItemID          string             `json:"item_id"`
	Name            string             `json:"name"`
	Ability         modifier.Ability   `json:"ability"`
	AttackRollType  string             `json:"attack_roll_type"`
	Description     string             `json:"description,omitempty"`
	Traits          []StrikeTrait      `json:"traits"`
	WeaponTraits    []string           `json:"weapon_traits,omitempty"`
	AttackEffects   []string           `json:"attack_effects,omitempty"`
	Statistic       check.StatSnapshot `json:"statistic"`
	DamageBreakdown []string           `json:"damage_breakdown,omitempty"`
	Variants        []StrikeVariant    `json:"variants"`
	Notes           []modifier.Note    `json:"notes,omitempty"`

	label   string
	rolls   []damage.Roll
	bag     *modifier.Bag
	owned   []Item
	calc    damage.Calculator
	effects *EffectGatherer
	tr      modifier.Translator
}

// Total is the attack modifier of the plain variant.
func (s *Strike) Total() int {
	return s.Statistic.Total
}

// options returns the caller's options followed by every weapon trait.
func (s *Strike) options(args RollArgs) []string {
	return append(append([]string(nil), args.Options...), s.WeaponTraits...)
}

// AttackSpec builds the check specification for variant, gathering the
// strike's attack effect notes first.
//
// Precondition: 0 <= variant < len(s.Variants).
func (s *Strike) AttackSpec(ctx context.Context, variant int, args RollArgs) (check.Spec, error) {
	if variant < 0 || variant >= len(s.Variants) {
		return check.Spec{}, fmt.Errorf("strike %q: no variant %d", s.Name, variant)
	}
	notes := append([]modifier.Note(nil), s.Notes...)
	if s.effects != nil {
		extra, err := s.effects.Gather(ctx, s.Description, s.AttackEffects, s.owned)
		if err != nil {
			return check.Spec{}, err
		}
		notes = append(notes, extra...)
	}
	mods := append([]modifier.Modifier(nil), args.Modifiers...)
	if p := s.Variants[variant].Penalty; p != 0 {
		mods = append(mods, modifier.New(LabelMAPPenalty, p, modifier.KindUntyped))
	}
	return check.Spec{
		Label:     s.label,
		Statistic: s.Statistic,
		Type:      check.TypeAttackRoll,
		Options:   s.options(args),
		DC:        args.DC,
		Notes:     notes,
		Extra:     mods,
	}, nil
}

// Attack rolls variant through exec.
func (s *Strike) Attack(ctx context.Context, exec check.Executor, variant int, args RollArgs) (check.Result, error) {
	spec, err := s.AttackSpec(ctx, variant, args)
	if err != nil {
		return check.Result{}, err
	}
	return exec.Check(ctx, spec)
}

// DamageSpec asks the damage calculator for the strike's damage roll.
func (s *Strike) DamageSpec(args RollArgs) (check.DamageSpec, error) {
	if s.calc == nil {
		return check.DamageSpec{}, errors.New("strike has no damage calculator")
	}
	names := make([]string, len(s.Traits))
	for i, t := range s.Traits {
		names[i] = t.Name
	}
	return s.calc.Calculate(damage.Request{
		Label:      s.Name,
		ItemID:     s.ItemID,
		Ability:    s.Ability,
		Traits:     names,
		Rolls:      s.rolls,
		Bag:        s.bag,
		Multiplier: 1,
		Options:    s.options(args),
		Notes:      s.Notes,
		Translator: s.tr,
	})
}

// Damage rolls the strike's damage for a success.
func (s *Strike) Damage(ctx context.Context, exec check.Executor, args RollArgs) (check.DamageResult, error) {
	return s.rollDamage(ctx, exec, args, check.Success)
}

// Critical rolls the strike's damage for a critical success.
func (s *Strike) Critical(ctx context.Context, exec check.Executor, args RollArgs) (check.DamageResult, error) {
	return s.rollDamage(ctx, exec, args, check.CriticalSuccess)
}

func (s *Strike) rollDamage(ctx context.Context, exec check.Executor, args RollArgs, outcome check.Degree) (check.DamageResult, error) {
	spec, err := s.DamageSpec(args)
	if err != nil {
		return check.DamageResult{}, fmt.Errorf("strike %q: %w", s.Name, err)
	}
	return exec.RollDamage(ctx, spec, outcome)
}

// strikeAbility picks the ability governing an attack. Ranged attacks use
// dexterity and melee attacks strength; finesse forces dexterity and brutal,
// checked last, forces strength.
func strikeAbility(ranged bool, traits []string) modifier.Ability {
	ability := modifier.Str
	if ranged {
		ability = modifier.Dex
	}
	if slices.Contains(traits, "finesse") {
		ability = modifier.Dex
	}
	if slices.Contains(traits, "brutal") {
		ability = modifier.Str
	}
	return ability
}

// buildStrike derives the strike of one melee item.
func (p *pass) buildStrike(item Item) *Strike {
	ranged := strings.EqualFold(item.WeaponType, "ranged")
	ability := strikeAbility(ranged, item.Traits)
	mod := p.snap.AbilityMod(ability)
	tags := modifier.StrikeTags(item.Name, item.ID, ability)

	mods := []modifier.Modifier{
		modifier.New(LabelBase, item.Bonus.Int()-mod, modifier.KindUntyped),
		modifier.New(abilityLabel(ability), mod, modifier.KindAbility),
	}
	mods = append(mods, p.bag.Modifiers(tags...)...)
	stat := modifier.NewStatistic(item.Name, mods...)

	s := &Strike{
		ID:            p.opts.NewID(),
		ItemID:        item.ID,
		Name:          item.Name,
		Ability:       ability,
		Description:   item.Description,
		WeaponTraits:  append([]string(nil), item.Traits...),
		AttackEffects: append([]string(nil), item.AttackEffects...),
		Statistic:     check.Snapshot(stat, item.Name, p.tr),
		Notes:         p.bag.Notes(tags...),
		label:         fmt.Sprintf("%s: %s", p.tr.Localize(LabelStrike), item.Name),
		rolls:         append([]damage.Roll(nil), item.DamageRolls...),
		bag:           p.bag,
		owned:         p.owned,
		calc:          p.opts.Damage,
		effects:       p.opts.Effects,
		tr:            p.tr,
	}

	s.AttackRollType = LabelAttackMelee
	if ranged {
		s.AttackRollType = LabelAttackRanged
	}

	s.Traits = []StrikeTrait{{Name: "attack", Label: p.tr.Localize(LabelTraitAttack)}}
	for _, t := range item.Traits {
		s.Traits = append(s.Traits, StrikeTrait{Name: t, Label: t})
	}
	if ranged && !slices.ContainsFunc(s.Traits, func(t StrikeTrait) bool { return t.Name == "range" }) {
		s.Traits = slices.Insert(s.Traits, 1, StrikeTrait{Name: "range", Label: p.tr.Localize(LabelTraitRange)})
	}
	for _, e := range item.AttackEffects {
		s.Traits = append(s.Traits, StrikeTrait{Name: strings.ToLower(e), Label: e})
	}

	for _, r := range item.DamageRolls {
		s.DamageBreakdown = append(s.DamageBreakdown, strings.TrimSpace(r.Formula+" "+r.Type))
	}
	if len(s.DamageBreakdown) > 0 {
		switch p.tier {
		case adjustment.Elite:
			s.DamageBreakdown[0] += fmt.Sprintf(" +%d %s", adjustment.StatisticDelta, p.tr.Localize(p.tier.Label()))
		case adjustment.Weak:
			s.DamageBreakdown[0] += fmt.Sprintf(" -%d %s", adjustment.StatisticDelta, p.tr.Localize(p.tier.Label()))
		}
	}

	penalties := p.opts.MAP.Penalties(item.Traits)
	total := stat.Total()
	s.Variants = []StrikeVariant{
		{Label: fmt.Sprintf("%s %+d", p.tr.Localize(LabelStrike), total)},
		{Label: fmt.Sprintf("%s %d", p.tr.Localize(LabelMAP), penalties[0]), Penalty: penalties[0]},
		{Label: fmt.Sprintf("%s %d", p.tr.Localize(LabelMAP), penalties[1]), Penalty: penalties[1]},
	}
	return s
}
