package adjustment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/bestiary/internal/game/adjustment"
	"github.com/cory-johannsen/bestiary/internal/game/modifier"
)

func TestHPDeltaForLevel_Table(t *testing.T) {
	cases := map[int]int{
		-1: 10, 0: 10, 1: 10,
		2: 15, 4: 15,
		5: 20, 10: 20, 19: 20,
		20: 30, 25: 30,
	}
	for level, want := range cases {
		assert.Equal(t, want, adjustment.HPDeltaForLevel(level), "level %d", level)
	}
}

func TestApplyTier_NormalToElite(t *testing.T) {
	hp, traits := adjustment.ApplyTier(adjustment.Elite, 10, 100, []string{"humanoid"})
	assert.Equal(t, 120, hp)
	assert.Equal(t, []string{"elite", "humanoid"}, traits)
}

func TestApplyTier_EliteThenWeak_NetMinusDelta(t *testing.T) {
	hp, traits := adjustment.ApplyTier(adjustment.Elite, 10, 100, []string{"humanoid"})
	hp, traits = adjustment.ApplyTier(adjustment.Weak, 10, hp, traits)
	assert.Equal(t, 80, hp, "normal -> elite -> weak must net -delta")
	assert.Equal(t, []string{"humanoid", "weak"}, traits)
	assert.NotContains(t, traits, "elite")
}

func TestApplyTier_WeakToNormal(t *testing.T) {
	hp, traits := adjustment.ApplyTier(adjustment.Normal, 3, 20, []string{"weak", "animal"})
	assert.Equal(t, 35, hp)
	assert.Equal(t, []string{"animal"}, traits)
}

func TestApplyTier_SameTierIsNoOp(t *testing.T) {
	in := []string{"elite", "undead"}
	hp, traits := adjustment.ApplyTier(adjustment.Elite, 1, 42, in)
	assert.Equal(t, 42, hp)
	assert.Equal(t, in, traits)

	hp, traits = adjustment.ApplyTier(adjustment.Normal, 1, 42, []string{"undead"})
	assert.Equal(t, 42, hp)
	assert.Equal(t, []string{"undead"}, traits)
}

func TestApplyTier_HPFloorsAtZero(t *testing.T) {
	hp, _ := adjustment.ApplyTier(adjustment.Weak, 1, 4, nil)
	assert.Equal(t, 0, hp)
}

func TestParseTier(t *testing.T) {
	tier, err := adjustment.ParseTier("")
	require.NoError(t, err)
	assert.Equal(t, adjustment.Normal, tier)

	tier, err = adjustment.ParseTier("weak")
	require.NoError(t, err)
	assert.Equal(t, adjustment.Weak, tier)

	_, err = adjustment.ParseTier("legendary")
	assert.Error(t, err)
}

func TestModifiers_Elite(t *testing.T) {
	inj := adjustment.Modifiers(adjustment.Elite, 20)
	require.Len(t, inj, 3)
	assert.Equal(t, modifier.TagAll, inj[0].Tag)
	assert.Equal(t, 2, inj[0].Modifier.Value)
	assert.Equal(t, modifier.TagDamage, inj[1].Tag)
	assert.Equal(t, 2, inj[1].Modifier.Value)
	assert.Equal(t, modifier.TagHP, inj[2].Tag)
	assert.Equal(t, 30, inj[2].Modifier.Value)
	assert.Empty(t, adjustment.Modifiers(adjustment.Normal, 20))
}

func TestModifiers_Weak(t *testing.T) {
	inj := adjustment.Modifiers(adjustment.Weak, 1)
	require.Len(t, inj, 3)
	assert.Equal(t, -2, inj[0].Modifier.Value)
	assert.Equal(t, -10, inj[2].Modifier.Value)
	assert.Equal(t, adjustment.WeakLabel, inj[0].Modifier.Label)
}

func TestPropertyApplyTier_Idempotent(t *testing.T) {
	tiers := []adjustment.Tier{adjustment.Normal, adjustment.Elite, adjustment.Weak}
	rapid.Check(t, func(t *rapid.T) {
		level := rapid.IntRange(-1, 25).Draw(t, "level")
		hp := rapid.IntRange(100, 500).Draw(t, "hp")
		start := rapid.SampledFrom(tiers).Draw(t, "start")
		target := rapid.SampledFrom(tiers).Draw(t, "target")

		var traits []string
		if start != adjustment.Normal {
			traits = []string{string(start)}
		}
		hp1, traits1 := adjustment.ApplyTier(target, level, hp, traits)
		hp2, traits2 := adjustment.ApplyTier(target, level, hp1, traits1)
		assert.Equal(t, hp1, hp2)
		assert.Equal(t, traits1, traits2)
		assert.Equal(t, target, adjustment.TierOf(traits1))
	})
}

func TestPropertyApplyTier_RoundTripRestoresHP(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		level := rapid.IntRange(-1, 25).Draw(t, "level")
		hp := rapid.IntRange(100, 500).Draw(t, "hp")
		target := rapid.SampledFrom([]adjustment.Tier{adjustment.Elite, adjustment.Weak}).Draw(t, "target")

		adjHP, traits := adjustment.ApplyTier(target, level, hp, nil)
		backHP, backTraits := adjustment.ApplyTier(adjustment.Normal, level, adjHP, traits)
		assert.Equal(t, hp, backHP)
		assert.Empty(t, backTraits)
	})
}
