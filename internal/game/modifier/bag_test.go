package modifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/bestiary/internal/game/modifier"
)

func TestBag_ModifiersInTagOrder(t *testing.T) {
	b := modifier.NewBag()
	b.Add("all", modifier.New("all", 1, modifier.KindUntyped))
	b.Add("ac", modifier.New("ac", 2, modifier.KindUntyped))

	got := b.Modifiers("ac", "missing", "all")
	require.Len(t, got, 2)
	assert.Equal(t, "ac", got[0].Label)
	assert.Equal(t, "all", got[1].Label)
}

func TestBag_TagsMatchIgnoringCase(t *testing.T) {
	b := modifier.NewBag()
	b.Add("Ab12Cd-attack", modifier.New("rune", 1, modifier.KindItem))
	b.AddNote(modifier.Note{Selector: "AB12CD-attack", Text: "shove"})
	b.AddDice(modifier.DiceModification{Selector: "ab12cd-damage", DiceNumber: 1, DieSize: "d6"})

	assert.Len(t, b.Modifiers("ab12cd-attack"), 1)
	assert.Len(t, b.Notes("Ab12Cd-attack"), 1)
	assert.Len(t, b.Dice("Ab12Cd-damage"), 1)
	assert.Equal(t, "AB12CD-attack", b.Notes("ab12cd-attack")[0].Selector, "selector text is preserved")
}

func TestBag_ReadersGetCopies(t *testing.T) {
	b := modifier.NewBag()
	b.Add("all", modifier.New("x", 1, modifier.KindStatus))

	first := b.Modifiers("all")
	first[0].Value = 100
	first[0].Enabled = false

	second := b.Modifiers("all")
	assert.Equal(t, 1, second[0].Value)
	assert.True(t, second[0].Enabled)
}

func TestBag_StackingOnCopiesDoesNotLeak(t *testing.T) {
	b := modifier.NewBag()
	b.Add("all", modifier.New("low", 1, modifier.KindStatus))
	b.Add("ac", modifier.New("high", 2, modifier.KindStatus))

	ac := modifier.NewStatistic("ac", b.Modifiers("ac", "all")...)
	assert.Equal(t, 2, ac.Total())

	save := modifier.NewStatistic("will", b.Modifiers("will", "all")...)
	assert.Equal(t, 1, save.Total(), "suppression in one statistic must not affect another")
}

func TestBag_IgnoredStaysDisabled(t *testing.T) {
	b := modifier.NewBag()
	m := modifier.New("x", 1, modifier.KindUntyped)
	m.Ignored = true
	b.Add("all", m)
	assert.False(t, b.Modifiers("all")[0].Enabled)
}

func TestBag_NotesAndDice(t *testing.T) {
	b := modifier.NewBag()
	b.AddNote(modifier.Note{Selector: "will", Text: "+1 vs fear", Outcome: []string{"success"}})
	b.AddDice(modifier.DiceModification{Selector: "damage", DiceNumber: 1, DieSize: "d6"})

	notes := b.Notes("will", "all")
	require.Len(t, notes, 1)
	notes[0].Outcome[0] = "changed"
	assert.Equal(t, "success", b.Notes("will")[0].Outcome[0])
	assert.Len(t, b.Dice("damage"), 1)
}

func TestBag_CloneIndependent(t *testing.T) {
	b := modifier.NewBag()
	b.Add("all", modifier.New("x", 1, modifier.KindUntyped))
	c := b.Clone()
	c.Add("all", modifier.New("y", 1, modifier.KindUntyped))
	assert.Len(t, b.Modifiers("all"), 1)
	assert.Len(t, c.Modifiers("all"), 2)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "sailing-lore", modifier.Slugify("Sailing Lore"))
	assert.Equal(t, "athletics", modifier.Slugify("  Athletics "))
	assert.Equal(t, "lore-the-abyss", modifier.Slugify("Lore: The Abyss!"))
}

func TestNameAttack(t *testing.T) {
	assert.Equal(t, "tail-(grab)-attack", modifier.NameAttack("Tail  (Grab)"))
}

func TestSpeedTags(t *testing.T) {
	assert.Equal(t, []string{"land-speed", "speed"}, modifier.SpeedTags("Land"))
	assert.Equal(t, []string{"fly-speed", "speed"}, modifier.SpeedTags("Fly"))
}
