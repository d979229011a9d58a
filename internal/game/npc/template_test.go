package npc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/bestiary/internal/game/npc"
)

func TestLoadTemplateFromBytes_Lenient(t *testing.T) {
	tmpl := loadBandit(t)
	assert.Equal(t, "bandit", tmpl.ID)
	assert.Equal(t, npc.Number(3), tmpl.Level)
	assert.Equal(t, npc.Number(25), tmpl.Attributes.Speed.Value, `"25 feet" keeps its leading integer`)
	assert.Equal(t, npc.Number(1), tmpl.Abilities["cha"])
	assert.Equal(t, npc.Unfriendly, tmpl.Traits.Attitude)
	require.NotNil(t, tmpl.Loot)
	assert.Len(t, tmpl.Items, 6)
}

func TestTemplate_ValidateRejects(t *testing.T) {
	cases := map[string]string{
		"missing id":      "name: X\n",
		"missing name":    "id: x\n",
		"low level":       "id: x\nname: X\nlevel: -2\n",
		"bad attitude":    "id: x\nname: X\ntraits: {attitude: grumpy}\n",
		"item without id": "id: x\nname: X\nitems:\n  - name: Claw\n    type: melee\n",
		"duplicate item":  "id: x\nname: X\nitems:\n  - {id: a, name: A, type: melee}\n  - {id: a, name: B, type: melee}\n",
		"untyped item":    "id: x\nname: X\nitems:\n  - {id: a, name: A}\n",
		"bad rule": "id: x\nname: X\nitems:\n  - id: a\n    name: A\n    type: equipment\n" +
			"    rules:\n      - {key: FlatModifier, selector: ac}\n",
		"bad loot": "id: x\nname: X\nloot:\n  currency:\n    min: {gp: 2}\n    max: {gp: 1}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := npc.LoadTemplateFromBytes([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestTemplate_NewSnapshotIsIndependent(t *testing.T) {
	tmpl := loadBandit(t)
	a, err := tmpl.NewSnapshot("a")
	require.NoError(t, err)
	b, err := tmpl.NewSnapshot("b")
	require.NoError(t, err)
	a.Items[0].Name = "Changed"
	a.Abilities["str"] = 9

	assert.Equal(t, "a", a.ID)
	assert.Equal(t, "Shortsword", b.Items[0].Name)
	assert.Equal(t, npc.Number(4), b.Abilities["str"])
	assert.Equal(t, "bandit", tmpl.ID)
}

func TestSnapshot_CloneIsDeep(t *testing.T) {
	tmpl := loadBandit(t)
	tmpl.Snapshot.Conditions = map[string]int{"frightened": 2}

	c, err := tmpl.Snapshot.Clone()
	require.NoError(t, err)
	assert.Equal(t, tmpl.Snapshot.Name, c.Name)
	assert.Equal(t, tmpl.Snapshot.Items, c.Items)

	c.Conditions["frightened"] = 4
	c.Items[0].Traits[0] = "deadly-d8"
	assert.Equal(t, 2, tmpl.Snapshot.Conditions["frightened"])
	assert.Equal(t, "agile", tmpl.Snapshot.Items[0].Traits[0])
}

func TestLoadTemplates_Directory(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile("testdata/bandit.yaml")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bandit.yaml"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wolf.yaml"), []byte("id: wolf\nname: Wolf\nlevel: 1\n"), 0o644))

	templates, err := npc.LoadTemplates(dir)
	require.NoError(t, err)
	assert.Len(t, templates, 2)
}

func TestLoadTemplates_ReportsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: nobody\n"), 0o644))
	_, err := npc.LoadTemplates(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}

func TestSnapshot_PinBaseHP(t *testing.T) {
	snap := &npc.Snapshot{Attributes: npc.Attributes{HP: npc.HPData{Value: 20, Max: 30}}}
	snap.PinBaseHP()
	require.NotNil(t, snap.Attributes.HP.Base)
	assert.Equal(t, npc.Number(30), *snap.Attributes.HP.Base)

	snap.Attributes.HP.Max = 99
	snap.PinBaseHP()
	assert.Equal(t, npc.Number(30), *snap.Attributes.HP.Base, "an existing base is kept")

	noMax := &npc.Snapshot{Attributes: npc.Attributes{HP: npc.HPData{Value: 12}}}
	noMax.PinBaseHP()
	assert.Equal(t, npc.Number(12), *noMax.Attributes.HP.Base)
}
