package npc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/bestiary/internal/game/npc"
)

func TestParseAttitude(t *testing.T) {
	a, err := npc.ParseAttitude("")
	require.NoError(t, err)
	assert.Equal(t, npc.Hostile, a)

	a, err = npc.ParseAttitude("helpful")
	require.NoError(t, err)
	assert.Equal(t, npc.Helpful, a)

	_, err = npc.ParseAttitude("grumpy")
	assert.Error(t, err)
}

func TestAttitude_Disposition(t *testing.T) {
	cases := map[npc.Attitude]npc.Disposition{
		"":              npc.DispositionHostile,
		npc.Hostile:     npc.DispositionHostile,
		npc.Unfriendly:  npc.DispositionNeutral,
		npc.Indifferent: npc.DispositionNeutral,
		npc.Friendly:    npc.DispositionFriendly,
		npc.Helpful:     npc.DispositionFriendly,
	}
	for a, want := range cases {
		assert.Equal(t, want, a.Disposition(), "attitude %q", a)
	}
}

func TestPropertyAttitudeFromDisposition_RoundTrips(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := npc.Disposition(rapid.IntRange(-1, 1).Draw(t, "disposition"))
		assert.Equal(t, d, npc.AttitudeFromDisposition(d).Disposition())
	})
}

func TestEffectivePermission(t *testing.T) {
	assert.Equal(t, npc.PermissionNone, npc.EffectivePermission(npc.PermissionNone, false, 5, true), "living npcs are not lootable")
	assert.Equal(t, npc.PermissionLimited, npc.EffectivePermission(npc.PermissionNone, false, 0, true))
	assert.Equal(t, npc.PermissionNone, npc.EffectivePermission(npc.PermissionNone, false, 0, false), "setting disabled")
	assert.Equal(t, npc.PermissionObserver, npc.EffectivePermission(npc.PermissionObserver, false, -3, true), "higher access is kept")
	assert.Equal(t, npc.PermissionNone, npc.EffectivePermission(npc.PermissionNone, true, 0, true), "game masters keep their base")
}
