package compendium_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/bestiary/internal/game/compendium"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadDirectory_MultiDocument(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "effects.yaml", `id: grab
name: Grab
description: The monster grabs the target.
---
id: knockdown
name: Knockdown
description: The target is knocked prone.
traits: [attack]
`)
	writeFile(t, dir, "README.md", "not yaml")

	g, err := compendium.LoadDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []string{"Grab", "Knockdown"}, g.Names())

	e, err := g.Lookup(context.Background(), "  GRAB ")
	require.NoError(t, err)
	assert.Equal(t, "The monster grabs the target.", e.Description)

	e, err = g.Lookup(context.Background(), "knockdown")
	require.NoError(t, err)
	assert.Equal(t, []string{"attack"}, e.Traits)
}

func TestLoadDirectory_Errors(t *testing.T) {
	_, err := compendium.LoadDirectory(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "id: x\nname: X\nbogus: 1\n")
	_, err = compendium.LoadDirectory(dir)
	assert.Error(t, err)

	dir = t.TempDir()
	writeFile(t, dir, "invalid.yaml", "id: x\n")
	_, err = compendium.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestLookup_NotFound(t *testing.T) {
	g := compendium.NewGlossary()
	g.Register(&compendium.Entry{ID: "improved-grab", Name: "Improved Grab"})

	_, err := g.Lookup(context.Background(), "Constrict")
	assert.ErrorIs(t, err, compendium.ErrEntryNotFound)

	e, err := g.Lookup(context.Background(), "improved-grab")
	require.NoError(t, err)
	assert.Equal(t, "Improved Grab", e.Name)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Lookup(ctx, "Improved Grab")
	assert.ErrorIs(t, err, context.Canceled)
}
