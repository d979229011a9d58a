package modifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/bestiary/internal/game/modifier"
)

func TestStatistic_UntypedStacks(t *testing.T) {
	s := modifier.NewStatistic("ac",
		modifier.New("a", 2, modifier.KindUntyped),
		modifier.New("b", 3, modifier.KindUntyped),
		modifier.New("c", -1, modifier.KindUntyped),
	)
	assert.Equal(t, 4, s.Total())
	assert.Len(t, s.Enabled(), 3)
}

func TestStatistic_SameKindBonusesKeepHighest(t *testing.T) {
	s := modifier.NewStatistic("attack",
		modifier.New("bless", 1, modifier.KindStatus),
		modifier.New("heroism", 2, modifier.KindStatus),
		modifier.New("rune", 1, modifier.KindItem),
	)
	assert.Equal(t, 3, s.Total())
	require.Len(t, s.Modifiers, 3, "suppressed modifiers must stay in the list")
	assert.False(t, s.Modifiers[0].Enabled)
	assert.True(t, s.Modifiers[1].Enabled)
	assert.True(t, s.Modifiers[2].Enabled)
}

func TestStatistic_SameKindPenaltiesKeepMostSevere(t *testing.T) {
	s := modifier.NewStatistic("ac",
		modifier.New("frightened", -1, modifier.KindStatus),
		modifier.New("sickened", -2, modifier.KindStatus),
		modifier.New("heroism", 1, modifier.KindStatus),
	)
	assert.Equal(t, -1, s.Total())
	assert.False(t, s.Modifiers[0].Enabled)
	assert.True(t, s.Modifiers[1].Enabled)
	assert.True(t, s.Modifiers[2].Enabled)
}

func TestStatistic_TieKeepsFirst(t *testing.T) {
	s := modifier.NewStatistic("ac",
		modifier.New("first", 2, modifier.KindCircumstance),
		modifier.New("second", 2, modifier.KindCircumstance),
	)
	assert.Equal(t, 2, s.Total())
	assert.True(t, s.Modifiers[0].Enabled)
	assert.False(t, s.Modifiers[1].Enabled)
}

func TestStatistic_IgnoredNeverCounts(t *testing.T) {
	ignored := modifier.New("off", 5, modifier.KindItem)
	ignored.Ignored = true
	s := modifier.NewStatistic("ac", ignored, modifier.New("on", 1, modifier.KindItem))
	assert.Equal(t, 1, s.Total())
	assert.False(t, s.Modifiers[0].Enabled)
}

func TestStatistic_PushReResolves(t *testing.T) {
	s := modifier.NewStatistic("save", modifier.New("a", 1, modifier.KindStatus))
	s.Push(modifier.New("b", 3, modifier.KindStatus))
	assert.Equal(t, 3, s.Total())
	assert.False(t, s.Modifiers[0].Enabled)
}

func TestStatistic_Breakdown(t *testing.T) {
	s := modifier.NewStatistic("ac",
		modifier.New("Base", 4, modifier.KindUntyped),
		modifier.New("Dexterity", -1, modifier.KindAbility),
		modifier.New("lesser", 1, modifier.KindItem),
		modifier.New("greater", 2, modifier.KindItem),
	)
	assert.Equal(t, "10, Base +4, Dexterity -1, greater +2", s.Breakdown(nil, "10"))
}

func TestStatistic_CloneIsIndependent(t *testing.T) {
	s := modifier.NewStatistic("x", modifier.New("a", 1, modifier.KindUntyped))
	c := s.Clone()
	c.Modifiers[0].Value = 9
	assert.Equal(t, 1, s.Total())
}

func TestParseKind_UnknownIsUntyped(t *testing.T) {
	assert.Equal(t, modifier.KindUntyped, modifier.ParseKind("bogus"))
	assert.Equal(t, modifier.KindStatus, modifier.ParseKind("status"))
}

func genModifiers(t *rapid.T) []modifier.Modifier {
	kinds := []modifier.Kind{
		modifier.KindUntyped, modifier.KindStatus, modifier.KindItem, modifier.KindCircumstance,
	}
	n := rapid.IntRange(0, 12).Draw(t, "n")
	out := make([]modifier.Modifier, n)
	for i := range out {
		out[i] = modifier.New("m",
			rapid.IntRange(-6, 6).Draw(t, "value"),
			rapid.SampledFrom(kinds).Draw(t, "kind"))
	}
	return out
}

// manualTotal resolves stacking independently of the implementation.
func manualTotal(mods []modifier.Modifier) int {
	total := 0
	best := map[modifier.Kind]int{}
	worst := map[modifier.Kind]int{}
	for _, m := range mods {
		switch {
		case m.Kind == modifier.KindUntyped:
			total += m.Value
		case m.Value >= 0:
			if v, ok := best[m.Kind]; !ok || m.Value > v {
				best[m.Kind] = m.Value
			}
		default:
			if v, ok := worst[m.Kind]; !ok || m.Value < v {
				worst[m.Kind] = m.Value
			}
		}
	}
	for _, v := range best {
		total += v
	}
	for _, v := range worst {
		total += v
	}
	return total
}

func TestPropertyStatistic_TotalMatchesManualStacking(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mods := genModifiers(t)
		s := modifier.NewStatistic("p", mods...)
		assert.Equal(t, manualTotal(mods), s.Total())

		sum := 0
		for _, m := range s.Modifiers {
			if m.Enabled {
				sum += m.Value
			}
		}
		assert.Equal(t, sum, s.Total(), "total must exclude disabled modifiers")
		assert.Len(t, s.Modifiers, len(mods), "stacking must never drop modifiers")
	})
}

func TestPropertyStatistic_StackingIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := modifier.NewStatistic("p", genModifiers(t)...)
		before := append([]modifier.Modifier(nil), s.Modifiers...)
		total := s.ApplyStacking()
		assert.Equal(t, before, s.Modifiers, "re-aggregation must flip no flags")
		assert.Equal(t, s.Total(), total)
	})
}
