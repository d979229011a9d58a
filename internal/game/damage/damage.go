// Package damage builds damage-roll specifications for NPC strikes.
package damage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/bestiary/internal/game/check"
	"github.com/cory-johannsen/bestiary/internal/game/dice"
	"github.com/cory-johannsen/bestiary/internal/game/modifier"
)

// Roll is one damage entry of a strike, e.g. {"1d8+4", "piercing"}.
type Roll struct {
	Formula string `yaml:"damage" json:"damage"`
	Type    string `yaml:"damage_type" json:"damage_type"`
}

// Request is everything a Calculator may read to build a damage roll.
type Request struct {
	Label      string
	ItemID     string
	Ability    modifier.Ability
	Traits     []string
	Rolls      []Roll
	Bag        *modifier.Bag
	Multiplier int
	Options    []string
	Notes      []modifier.Note
	Translator modifier.Translator
}

// Calculator turns a Request into a damage specification.
type Calculator interface {
	Calculate(req Request) (check.DamageSpec, error)
}

// WeaponCalculator sums a strike's damage rolls, applies matching dice
// modifications and adds the stacked damage modifiers as a flat bonus.
type WeaponCalculator struct{}

// NewWeaponCalculator returns a WeaponCalculator.
func NewWeaponCalculator() *WeaponCalculator {
	return &WeaponCalculator{}
}

// Calculate implements Calculator.
//
// Postcondition: the formula's modifier includes the total of the
// damage, <item-id>-damage, <ability>-damage and strike-damage modifiers.
func (WeaponCalculator) Calculate(req Request) (check.DamageSpec, error) {
	if len(req.Rolls) == 0 {
		return check.DamageSpec{}, errors.New("damage: strike has no damage rolls")
	}
	tr := req.Translator
	if tr == nil {
		tr = modifier.Identity
	}

	var formula dice.Formula
	var breakdown []string
	for _, r := range req.Rolls {
		f, err := dice.ParseFormula(r.Formula)
		if err != nil {
			return check.DamageSpec{}, fmt.Errorf("damage: roll %q: %w", r.Formula, err)
		}
		formula = formula.Plus(f)
		breakdown = append(breakdown, strings.TrimSpace(r.Formula+" "+r.Type))
	}

	bag := req.Bag
	if bag == nil {
		bag = modifier.NewBag()
	}
	tags := modifier.StrikeDamageTags(req.ItemID, req.Ability)
	for _, dm := range bag.Dice(tags...) {
		sides, err := dieSides(dm.DieSize)
		if err != nil {
			return check.DamageSpec{}, fmt.Errorf("damage: dice modification %q: %w", dm.Label, err)
		}
		switch {
		case dm.Override:
			for i := range formula.Terms {
				formula.Terms[i].Sides = sides
			}
			breakdown = append(breakdown, fmt.Sprintf("%s d%d", tr.Localize(dm.Label), sides))
		case dm.DiceNumber > 0:
			formula.Terms = append(formula.Terms, dice.Term{Count: dm.DiceNumber, Sides: sides})
			breakdown = append(breakdown, strings.TrimSpace(fmt.Sprintf("%s +%dd%d %s", tr.Localize(dm.Label), dm.DiceNumber, sides, dm.DamageType)))
		}
	}

	stat := modifier.NewStatistic("damage", bag.Modifiers(tags...)...)
	formula.Modifier += stat.Total()
	breakdown = append(breakdown, stat.BreakdownParts(tr)...)
	formula.Raw = formula.String()

	return check.DamageSpec{
		Label:      req.Label,
		Formula:    formula,
		DamageType: req.Rolls[0].Type,
		Breakdown:  breakdown,
		Options:    append([]string(nil), req.Options...),
		Notes:      append([]modifier.Note(nil), req.Notes...),
		Multiplier: req.Multiplier,
	}, nil
}

func dieSides(size string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(size), "d"))
	if err != nil {
		return 0, fmt.Errorf("invalid die size %q", size)
	}
	if n < 2 {
		return 0, fmt.Errorf("invalid die size %q", size)
	}
	return n, nil
}
