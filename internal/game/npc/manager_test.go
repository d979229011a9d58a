package npc_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/bestiary/internal/game/adjustment"
	"github.com/cory-johannsen/bestiary/internal/game/condition"
	"github.com/cory-johannsen/bestiary/internal/game/npc"
	"github.com/cory-johannsen/bestiary/internal/game/rules"
)

func newManager(t *testing.T) *npc.Manager {
	t.Helper()
	return npc.NewManager(npc.NewPreparer(nil, opts(t), zaptest.NewLogger(t)))
}

func TestManager_Spawn(t *testing.T) {
	m := newManager(t)
	tmpl := loadBandit(t)

	inst, err := m.Spawn(context.Background(), tmpl)
	require.NoError(t, err)
	assert.NotEmpty(t, inst.ID)
	assert.NotEqual(t, tmpl.ID, inst.ID)
	assert.Equal(t, "bandit", inst.TemplateID)
	assert.Equal(t, "Bandit Captain", inst.Name())
	assert.NotNil(t, inst.Loot)
	assert.Equal(t, 45, inst.Derived.HP.Max)
	assert.Equal(t, "unharmed", inst.HealthDescription())
	assert.False(t, inst.PreparedAt.IsZero())

	got, ok := m.Get(inst.ID)
	require.True(t, ok)
	assert.Same(t, inst, got)
	assert.Nil(t, tmpl.Attributes.HP.Base, "the template itself is never pinned")
}

func TestManager_ApplyTierReadsCustomTraits(t *testing.T) {
	m := newManager(t)
	tmpl := loadBandit(t)
	tmpl.Traits.Custom = "brigand; elite | veteran"

	inst, err := m.Spawn(context.Background(), tmpl)
	require.NoError(t, err)
	require.Equal(t, adjustment.Elite, inst.Derived.Tier)
	hp, hpMax := inst.Derived.HP.Value, inst.Derived.HP.Max

	weak, err := m.ApplyTier(context.Background(), inst.ID, adjustment.Weak)
	require.NoError(t, err)
	assert.Equal(t, adjustment.Weak, weak.Derived.Tier)
	assert.Contains(t, weak.Derived.Traits, "weak")
	assert.NotContains(t, weak.Derived.Traits, "elite")
	assert.Equal(t, "brigand, veteran", weak.Snapshot.Traits.Custom)
	assert.Equal(t, hpMax-30, weak.Derived.HP.Max, "level 3 moves 15 hp per tier step")
	assert.Equal(t, hp-30, weak.Derived.HP.Value)

	again, err := m.ApplyTier(context.Background(), inst.ID, adjustment.Weak)
	require.NoError(t, err)
	assert.Equal(t, weak.Derived.HP.Value, again.Derived.HP.Value)
	assert.Equal(t, weak.Derived.HP.Max, again.Derived.HP.Max)
}

func TestManager_SpawnNilTemplate(t *testing.T) {
	_, err := newManager(t).Spawn(context.Background(), nil)
	assert.Error(t, err)
}

func TestManager_ApplyTierDoesNotDoubleCount(t *testing.T) {
	m := newManager(t)
	inst, err := m.Spawn(context.Background(), loadBandit(t))
	require.NoError(t, err)

	elite, err := m.ApplyTier(context.Background(), inst.ID, adjustment.Elite)
	require.NoError(t, err)
	assert.Equal(t, adjustment.Elite, elite.Derived.Tier)
	assert.Equal(t, 60, elite.Derived.HP.Max)
	assert.Equal(t, 60, elite.Derived.HP.Value)
	assert.Equal(t, 21, elite.Derived.AC.Value)
	assert.Greater(t, elite.Revision, inst.Revision)

	weak, err := m.ApplyTier(context.Background(), inst.ID, adjustment.Weak)
	require.NoError(t, err)
	assert.Equal(t, adjustment.Weak, weak.Derived.Tier)
	assert.Equal(t, 30, weak.Derived.HP.Max)
	assert.Equal(t, 30, weak.Derived.HP.Value)
	assert.NotContains(t, weak.Derived.Traits, "elite")

	normal, err := m.ApplyTier(context.Background(), inst.ID, adjustment.Normal)
	require.NoError(t, err)
	assert.Equal(t, 45, normal.Derived.HP.Max)
	assert.Equal(t, 45, normal.Derived.HP.Value)

	assert.Equal(t, 45, inst.Derived.HP.Value, "published instances are never mutated")
}

func TestManager_SetDisposition(t *testing.T) {
	m := newManager(t)
	inst, err := m.Spawn(context.Background(), loadBandit(t))
	require.NoError(t, err)
	assert.Equal(t, npc.DispositionNeutral, inst.Derived.Disposition)

	inst, err = m.SetDisposition(context.Background(), inst.ID, npc.DispositionFriendly)
	require.NoError(t, err)
	assert.Equal(t, npc.Friendly, inst.Derived.Attitude)
	assert.Equal(t, npc.DispositionFriendly, inst.Derived.Disposition)

	_, err = m.SetAttitude(context.Background(), inst.ID, "grumpy")
	assert.Error(t, err)
}

func TestManager_UpdateErrors(t *testing.T) {
	m := newManager(t)
	_, err := m.Update(context.Background(), "missing", func(*npc.Snapshot) error { return nil })
	assert.ErrorIs(t, err, npc.ErrInstanceNotFound)

	inst, err := m.Spawn(context.Background(), loadBandit(t))
	require.NoError(t, err)
	boom := errors.New("boom")
	_, err = m.Update(context.Background(), inst.ID, func(s *npc.Snapshot) error {
		s.Name = "Renamed"
		return boom
	})
	assert.ErrorIs(t, err, boom)
	got, _ := m.Get(inst.ID)
	assert.Same(t, inst, got, "a failed update publishes nothing")
}

func TestManager_AddClonesAndAssignsID(t *testing.T) {
	m := newManager(t)
	snap := &npc.Snapshot{Name: "Imported", Attributes: npc.Attributes{HP: npc.HPData{Value: 0, Max: 20}}}
	inst, err := m.Add(context.Background(), snap)
	require.NoError(t, err)
	assert.NotEmpty(t, inst.ID)
	assert.Empty(t, snap.ID)
	assert.Nil(t, snap.Attributes.HP.Base)
	assert.True(t, inst.IsDead())
	assert.Equal(t, "dead", inst.HealthDescription())
	assert.Empty(t, inst.TemplateID)
}

func TestManager_RemoveListFind(t *testing.T) {
	m := newManager(t)
	bandit, err := m.Spawn(context.Background(), loadBandit(t))
	require.NoError(t, err)
	wolf, err := m.Add(context.Background(), &npc.Snapshot{ID: "wolf-1", Name: "Wolf"})
	require.NoError(t, err)

	list := m.List()
	require.Len(t, list, 2)
	assert.Less(t, list[0].ID, list[1].ID)
	assert.Same(t, bandit, m.FindByName("bandit"))
	assert.Same(t, wolf, m.FindByName("WO"))
	assert.Nil(t, m.FindByName("goblin"))

	require.NoError(t, m.Remove(wolf.ID))
	assert.ErrorIs(t, m.Remove(wolf.ID), npc.ErrInstanceNotFound)
	assert.Len(t, m.List(), 1)
}

func TestManager_ConcurrentPassesKeepLatest(t *testing.T) {
	m := newManager(t)
	inst, err := m.Spawn(context.Background(), loadBandit(t))
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tier := []adjustment.Tier{adjustment.Normal, adjustment.Elite, adjustment.Weak}[i%3]
			_, err := m.ApplyTier(context.Background(), inst.ID, tier)
			assert.NoError(t, err)
			_, err = m.Refresh(context.Background(), inst.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, ok := m.Get(inst.ID)
	require.True(t, ok)
	assert.Equal(t, uint64(1+2*workers), got.Revision)
	assert.Equal(t, adjustment.TierOf(got.Snapshot.Traits.Value), got.Derived.Tier,
		"the published view always matches its own snapshot")
}

func TestPreparer_PartialRulesAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := npc.NewPreparer(nil, npc.Options{}, zap.New(core))
	snap := &npc.Snapshot{
		ID:         "x",
		Attributes: npc.Attributes{AC: npc.BaseValue{Value: 15}},
		Items: []npc.Item{ruleItem("ring",
			rules.Element{Key: rules.KeyFlatModifier, Selector: "ac", Label: "ring", Value: 1, Type: "item"},
			rules.Element{Key: "Aura"},
		)},
	}
	d, err := p.Prepare(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, 16, d.AC.Value, "valid elements still apply")

	entries := logs.FilterMessage("rule elements partially applied").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "x", entries[0].ContextMap()["npc"])
}

type failingSource struct{ err error }

func (f failingSource) Collect(context.Context, rules.Subject) (rules.Output, error) {
	return rules.Output{}, f.err
}

func TestPreparer_ContextErrorsAbort(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := npc.NewPreparer(failingSource{err: ctx.Err()}, npc.Options{}, zap.NewNop())
	_, err := p.Prepare(ctx, &npc.Snapshot{ID: "x"})
	assert.ErrorIs(t, err, context.Canceled)

	m := npc.NewManager(p)
	_, err = m.Spawn(ctx, loadBandit(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, m.List())
}

func TestPreparer_SourceFailureStillDerives(t *testing.T) {
	p := npc.NewPreparer(failingSource{err: fmt.Errorf("script error")}, npc.Options{}, zap.NewNop())
	d, err := p.Prepare(context.Background(), &npc.Snapshot{ID: "x", Attributes: npc.Attributes{AC: npc.BaseValue{Value: 12}}})
	require.NoError(t, err)
	assert.Equal(t, 12, d.AC.Value)
}

func TestManager_Conditions(t *testing.T) {
	frightened := &condition.ConditionDef{ID: "frightened", Name: "Frightened", MaxStacks: 4,
		Penalties: []condition.Penalty{{Selector: "all", PerStack: 1}}}
	offGuard := &condition.ConditionDef{ID: "off-guard", Name: "Off-Guard",
		Penalties: []condition.Penalty{{Selector: "ac", Type: "circumstance", PerStack: 2}}}
	reg := condition.NewRegistry()
	reg.Register(frightened)
	reg.Register(offGuard)

	logger := zaptest.NewLogger(t)
	source := rules.Chain{rules.ItemSource{}, condition.Source{Registry: reg}}
	m := npc.NewManager(npc.NewPreparer(source, opts(t), logger))
	ctx := context.Background()

	inst, err := m.Spawn(ctx, loadBandit(t))
	require.NoError(t, err)
	id := inst.ID

	inst, err = m.ApplyCondition(ctx, id, frightened, 2)
	require.NoError(t, err)
	assert.Equal(t, 17, inst.Derived.AC.Value)
	assert.Equal(t, 5, inst.Derived.Saves["will"].Value)
	assert.Contains(t, inst.Derived.AC.Statistic.Breakdown, "Frightened 2 -2")

	inst, err = m.ApplyCondition(ctx, id, frightened, 5)
	require.NoError(t, err)
	assert.Equal(t, 4, inst.Snapshot.Conditions.Stacks("frightened"), "value caps at max stacks")

	inst, err = m.RemoveCondition(ctx, id, "frightened")
	require.NoError(t, err)
	inst, err = m.ApplyCondition(ctx, id, offGuard, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, inst.Snapshot.Conditions.Stacks("off-guard"))
	assert.Equal(t, 17, inst.Derived.AC.Value)
	assert.Equal(t, 7, inst.Derived.Saves["will"].Value)
}
