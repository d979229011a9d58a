package condition_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/bestiary/internal/game/condition"
	"github.com/cory-johannsen/bestiary/internal/game/rules"
)

func frightened() *condition.ConditionDef {
	return &condition.ConditionDef{
		ID: "frightened", Name: "Frightened", MaxStacks: 4,
		Penalties: []condition.Penalty{{Selector: "all", PerStack: 1}},
	}
}

func offGuard() *condition.ConditionDef {
	return &condition.ConditionDef{
		ID: "off-guard", Name: "Off-Guard",
		Penalties: []condition.Penalty{{Selector: "ac", Type: "circumstance", PerStack: 2}},
		Note:      "Flanked or caught unaware.",
	}
}

func TestConditionDef_Validate(t *testing.T) {
	assert.NoError(t, frightened().Validate())

	bad := &condition.ConditionDef{MaxStacks: -1, Penalties: []condition.Penalty{{PerStack: 0}}}
	err := bad.Validate()
	require.Error(t, err)
	for _, want := range []string{"id", "name", "max_stacks", "selector", "per_stack"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestConditionDef_Elements_ScaleWithValue(t *testing.T) {
	got := frightened().Elements(3)
	require.Len(t, got, 1)
	assert.Equal(t, rules.Element{
		Key: rules.KeyFlatModifier, Selector: "all", Label: "Frightened 3", Value: -3, Type: "status",
	}, got[0])
}

func TestConditionDef_Elements_UnstackableIgnoresValue(t *testing.T) {
	got := offGuard().Elements(5)
	require.Len(t, got, 2)
	assert.Equal(t, "Off-Guard", got[0].Label)
	assert.Equal(t, -2, got[0].Value)
	assert.Equal(t, "circumstance", got[0].Type)
	assert.Equal(t, rules.KeyNote, got[1].Key)
	assert.Equal(t, "Off-Guard: Flanked or caught unaware.", got[1].Text)
}

func TestRegistry_GetAndAllSorted(t *testing.T) {
	reg := condition.NewRegistry()
	reg.Register(offGuard())
	reg.Register(frightened())

	got, ok := reg.Get("frightened")
	require.True(t, ok)
	assert.Equal(t, "Frightened", got.Name)
	_, ok = reg.Get("nonexistent")
	assert.False(t, ok)

	all := reg.All()
	require.Len(t, all, 2)
	assert.Equal(t, "frightened", all[0].ID)
	assert.Equal(t, "off-guard", all[1].ID)
}

func TestLoadDirectory_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	yaml := `
id: clumsy
name: Clumsy
description: "Your movements become clumsy and inexact."
max_stacks: 4
penalties:
  - selector: dex-based
    per_stack: 1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clumsy.yaml"), []byte(yaml), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	reg, err := condition.LoadDirectory(dir)
	require.NoError(t, err)
	got, ok := reg.Get("clumsy")
	require.True(t, ok)
	assert.Equal(t, 4, got.MaxStacks)
	assert.Equal(t, []condition.Penalty{{Selector: "dex-based", PerStack: 1}}, got.Penalties)
}

func TestLoadDirectory_EmptyDir(t *testing.T) {
	reg, err := condition.LoadDirectory(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, reg.All())
}

func TestLoadDirectory_RejectsUnknownFieldsAndInvalidDefs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.yaml"), []byte("id: x\nname: X\nlua_on_tick: boom\n"), 0o644))
	_, err := condition.LoadDirectory(dir)
	assert.Error(t, err)

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "y.yaml"), []byte("id: y\n"), 0o644))
	_, err = condition.LoadDirectory(dir)
	assert.ErrorContains(t, err, "y.yaml")
}

func TestLoadDirectory_MissingDir(t *testing.T) {
	_, err := condition.LoadDirectory(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
