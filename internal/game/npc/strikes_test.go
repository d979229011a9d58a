package npc_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/bestiary/internal/game/check"
	"github.com/cory-johannsen/bestiary/internal/game/compendium"
	"github.com/cory-johannsen/bestiary/internal/game/dice"
	"github.com/cory-johannsen/bestiary/internal/game/npc"
	"github.com/cory-johannsen/bestiary/internal/game/rules"
)

func executor(t *testing.T, faces ...int) *check.DiceExecutor {
	logger := zaptest.NewLogger(t)
	return check.NewDiceExecutor(dice.NewLoggedRoller(dice.NewFixedSource(faces...), logger), logger)
}

func TestStrike_AttackAppliesMAPAndEffects(t *testing.T) {
	tmpl := loadBandit(t)
	o := opts(t)
	o.Effects = npc.NewEffectGatherer(nil, zap.NewNop())
	d := npc.Derive(&tmpl.Snapshot, rules.NewOutput(), o)
	sword := d.Strike("shortsword")

	res, err := sword.Attack(context.Background(), executor(t, 10), 1, npc.RollArgs{
		Options: []string{"target:prone"},
		DC:      &check.DC{Value: 18},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, res.Natural)
	assert.Equal(t, 18, res.Total, "12 - 4 MAP + 10")
	require.NotNil(t, res.Degree)
	assert.Equal(t, check.Success, *res.Degree)
	assert.Equal(t, "Strike: Shortsword", res.Spec.Label)
	assert.Equal(t, []string{"target:prone", "agile", "finesse", "versatile-s"}, res.Spec.Options)
	require.Len(t, res.Notes, 1)
	assert.Equal(t, "Grab: The captain seizes the target.", res.Notes[0].Text)
}

func TestStrike_AttackRejectsUnknownVariant(t *testing.T) {
	tmpl := loadBandit(t)
	d := npc.Derive(&tmpl.Snapshot, rules.NewOutput(), npc.Options{})
	_, err := d.Strikes[0].AttackSpec(context.Background(), 3, npc.RollArgs{})
	assert.Error(t, err)
}

func TestStrike_DamageAndCritical(t *testing.T) {
	tmpl := loadBandit(t)
	d := npc.Derive(&tmpl.Snapshot, rules.NewOutput(), opts(t))
	sword := d.Strike("shortsword")

	hit, err := sword.Damage(context.Background(), executor(t, 3), npc.RollArgs{})
	require.NoError(t, err)
	assert.Equal(t, 7, hit.Total)
	assert.False(t, hit.Critical)
	assert.Equal(t, "piercing", hit.Spec.DamageType)

	crit, err := sword.Critical(context.Background(), executor(t, 3), npc.RollArgs{})
	require.NoError(t, err)
	assert.Equal(t, 14, crit.Total)
	assert.True(t, crit.Critical)
}

func TestStrike_DamageWithoutRollsFails(t *testing.T) {
	snap := &npc.Snapshot{Items: []npc.Item{{ID: "x", Name: "Gaze", Type: npc.ItemMelee}}}
	d := npc.Derive(snap, rules.NewOutput(), npc.Options{})
	_, err := d.Strikes[0].Damage(context.Background(), executor(t, 1), npc.RollArgs{})
	assert.Error(t, err)
}

func TestCheckAction_RollUsesStatistic(t *testing.T) {
	tmpl := loadBandit(t)
	d := npc.Derive(&tmpl.Snapshot, rules.NewOutput(), opts(t))
	res, err := d.Saves["will"].Action.Roll(context.Background(), executor(t, 20), npc.RollArgs{DC: &check.DC{Value: 30}})
	require.NoError(t, err)
	assert.Equal(t, 27, res.Total)
	assert.Equal(t, check.TypeSavingThrow, res.Spec.Type)
}

func TestProficiencyOption_Clamps(t *testing.T) {
	assert.Equal(t, "proficiency:untrained", npc.ProficiencyOption(-3))
	assert.Equal(t, "proficiency:trained", npc.ProficiencyOption(1))
	assert.Equal(t, "proficiency:legendary", npc.ProficiencyOption(9))
}

func TestMAPTable_Penalties(t *testing.T) {
	assert.Equal(t, [2]int{-4, -8}, npc.DefaultMAP.Penalties([]string{"agile"}))
	assert.Equal(t, [2]int{-5, -10}, npc.DefaultMAP.Penalties(nil))

	custom := npc.MAPTable{Standard: [2]int{-3, -6}, Agile: [2]int{-2, -4}}
	snap := &npc.Snapshot{Items: []npc.Item{{ID: "w", Name: "Whip", Type: npc.ItemMelee, Traits: []string{"agile"}}}}
	d := npc.Derive(snap, rules.NewOutput(), npc.Options{MAP: custom})
	assert.Equal(t, -2, d.Strikes[0].Variants[1].Penalty)
}

func TestDerive_NewIDIssuesDescriptorIDs(t *testing.T) {
	var n atomic.Int64
	o := npc.Options{NewID: func() string { return fmt.Sprintf("id-%d", n.Add(1)) }}
	snap := &npc.Snapshot{Items: []npc.Item{{ID: "w", Name: "Bite", Type: npc.ItemMelee}}}
	d := npc.Derive(snap, rules.NewOutput(), o)
	assert.NotEmpty(t, d.Strikes[0].ID)
	assert.NotEqual(t, d.Saves["fortitude"].Action.ID, d.Saves["will"].Action.ID)
}

type stubLookup struct {
	entries map[string]compendium.Entry
	err     error
}

func (s stubLookup) Lookup(ctx context.Context, name string) (compendium.Entry, error) {
	if err := ctx.Err(); err != nil {
		return compendium.Entry{}, err
	}
	if s.err != nil {
		return compendium.Entry{}, s.err
	}
	e, ok := s.entries[name]
	if !ok {
		return compendium.Entry{}, compendium.ErrEntryNotFound
	}
	return e, nil
}

var errBackend = errors.New("backend down")
