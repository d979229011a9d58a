package npc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/bestiary/internal/game/compendium"
	"github.com/cory-johannsen/bestiary/internal/game/inventory"
	"github.com/cory-johannsen/bestiary/internal/game/npc"
	"github.com/cory-johannsen/bestiary/internal/game/rules"
	"github.com/cory-johannsen/bestiary/internal/scripting"
)

func TestShippedContent_PreparesEveryTemplate(t *testing.T) {
	templates, err := npc.LoadTemplates("../../../content/npcs")
	require.NoError(t, err)
	require.NotEmpty(t, templates)

	glossary, err := compendium.LoadDirectory("../../../content/glossary")
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	scripts := scripting.NewManager(logger, 100000)
	t.Cleanup(scripts.Close)
	require.NoError(t, scripts.LoadDirectory("../../../content/scripts"))

	o := opts(t)
	o.Effects = npc.NewEffectGatherer(glossary, logger)
	mgr := npc.NewManager(npc.NewPreparer(rules.Chain{rules.ItemSource{}, scripts}, o, logger))

	for _, tmpl := range templates {
		inst, err := mgr.Spawn(context.Background(), tmpl)
		require.NoError(t, err, tmpl.ID)
		assert.Positive(t, inst.Derived.HP.Max, tmpl.ID)
		assert.Positive(t, inst.Derived.AC.Value, tmpl.ID)
		for _, s := range inst.Derived.Strikes {
			for _, effect := range s.AttackEffects {
				_, err := glossary.Lookup(context.Background(), effect)
				assert.NoError(t, err, "%s: attack effect %q has no glossary entry", tmpl.ID, effect)
			}
		}
	}
}

func TestShippedContent_GoblinScriptApplies(t *testing.T) {
	templates, err := npc.LoadTemplates("../../../content/npcs")
	require.NoError(t, err)

	var goblin *npc.Template
	for _, tmpl := range templates {
		if tmpl.ID == "goblin_cultist" {
			goblin = tmpl
		}
	}
	require.NotNil(t, goblin)

	logger := zaptest.NewLogger(t)
	scripts := scripting.NewManager(logger, 100000)
	t.Cleanup(scripts.Close)
	require.NoError(t, scripts.LoadDirectory("../../../content/scripts"))

	mgr := npc.NewManager(npc.NewPreparer(rules.Chain{rules.ItemSource{}, scripts}, opts(t), logger))
	inst, err := mgr.Spawn(context.Background(), goblin)
	require.NoError(t, err)

	assert.Equal(t, 9, inst.Derived.Saves["reflex"].Value)
	assert.Equal(t, 8, inst.Derived.Saves["will"].Value)
	assert.Equal(t, 16, inst.Derived.AC.Value)
	assert.Equal(t, "buckler", inst.Derived.Shield.ItemID)
	assert.Equal(t, 1, inst.Derived.Shield.AC)
}

func TestShippedContent_LootItemsDefined(t *testing.T) {
	templates, err := npc.LoadTemplates("../../../content/npcs")
	require.NoError(t, err)
	items, err := inventory.LoadRegistry("../../../content/items")
	require.NoError(t, err)

	for _, tmpl := range templates {
		if tmpl.Loot != nil {
			assert.NoError(t, tmpl.Loot.CheckItems(items), tmpl.ID)
		}
	}
}
