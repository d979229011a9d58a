package damage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/bestiary/internal/game/damage"
	"github.com/cory-johannsen/bestiary/internal/game/modifier"
)

func TestWeaponCalculator_SumsRollsAndModifiers(t *testing.T) {
	bag := modifier.NewBag()
	bag.Add(modifier.TagDamage, modifier.New("npc.adjustment.elite", 2, modifier.KindUntyped))
	bag.Add("item1-damage", modifier.New("rage", 2, modifier.KindStatus))
	bag.Add("str-damage", modifier.New("inspire", 1, modifier.KindStatus))

	spec, err := damage.NewWeaponCalculator().Calculate(damage.Request{
		Label:   "Jaws",
		ItemID:  "item1",
		Ability: modifier.Str,
		Rolls: []damage.Roll{
			{Formula: "1d8+4", Type: "piercing"},
			{Formula: "1d6", Type: "fire"},
		},
		Bag: bag,
	})
	require.NoError(t, err)
	assert.Equal(t, "1d8+1d6+8", spec.Formula.String())
	assert.Equal(t, "piercing", spec.DamageType)
	assert.Equal(t, []string{"1d8+4 piercing", "1d6 fire", "npc.adjustment.elite +2", "rage +2"}, spec.Breakdown)
}

func TestWeaponCalculator_DiceModifications(t *testing.T) {
	bag := modifier.NewBag()
	bag.AddDice(modifier.DiceModification{Selector: "strike-damage", Label: "Sneak", DiceNumber: 1, DieSize: "d6", DamageType: "precision"})
	bag.AddDice(modifier.DiceModification{Selector: "claw-damage", Label: "Deadly", DieSize: "d10", Override: true})

	spec, err := damage.NewWeaponCalculator().Calculate(damage.Request{
		ItemID:  "claw",
		Ability: modifier.Str,
		Rolls:   []damage.Roll{{Formula: "2d8+3", Type: "slashing"}},
		Bag:     bag,
	})
	require.NoError(t, err)
	assert.Equal(t, "2d10+1d6+3", spec.Formula.String())
}

func TestWeaponCalculator_Errors(t *testing.T) {
	calc := damage.NewWeaponCalculator()
	_, err := calc.Calculate(damage.Request{})
	assert.Error(t, err)

	_, err = calc.Calculate(damage.Request{Rolls: []damage.Roll{{Formula: "lots"}}})
	assert.Error(t, err)

	bag := modifier.NewBag()
	bag.AddDice(modifier.DiceModification{Selector: "damage", DiceNumber: 1, DieSize: "big"})
	_, err = calc.Calculate(damage.Request{Rolls: []damage.Roll{{Formula: "1d4"}}, Bag: bag})
	assert.Error(t, err)
}
