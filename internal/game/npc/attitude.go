package npc

import "fmt"

// Attitude is an NPC's stance toward the party.
type Attitude string

const (
	Hostile     Attitude = "hostile"
	Unfriendly  Attitude = "unfriendly"
	Indifferent Attitude = "indifferent"
	Friendly    Attitude = "friendly"
	Helpful     Attitude = "helpful"
)

// ParseAttitude converts s into an Attitude. The empty string is hostile.
func ParseAttitude(s string) (Attitude, error) {
	switch a := Attitude(s); a {
	case "":
		return Hostile, nil
	case Hostile, Unfriendly, Indifferent, Friendly, Helpful:
		return a, nil
	default:
		return "", fmt.Errorf("npc: unknown attitude %q", s)
	}
}

// OrDefault returns a, or Hostile when a is unset.
func (a Attitude) OrDefault() Attitude {
	if a == "" {
		return Hostile
	}
	return a
}

// Disposition is the token disposition shown on the map.
type Disposition int

const (
	DispositionHostile  Disposition = -1
	DispositionNeutral  Disposition = 0
	DispositionFriendly Disposition = 1
)

// Disposition maps a to a token disposition: hostile or unset is hostile,
// unfriendly and indifferent are neutral, anything else is friendly.
func (a Attitude) Disposition() Disposition {
	switch a {
	case "", Hostile:
		return DispositionHostile
	case Unfriendly, Indifferent:
		return DispositionNeutral
	default:
		return DispositionFriendly
	}
}

// AttitudeFromDisposition maps a token disposition back to an attitude.
//
// Postcondition: friendly maps to Friendly, neutral to Indifferent and
// everything else to Hostile.
func AttitudeFromDisposition(d Disposition) Attitude {
	switch d {
	case DispositionFriendly:
		return Friendly
	case DispositionNeutral:
		return Indifferent
	default:
		return Hostile
	}
}

// Permission is a viewer's access level to an NPC.
type Permission int

const (
	PermissionNone Permission = iota
	PermissionLimited
	PermissionObserver
	PermissionOwner
)

// Lootable reports whether a dead NPC may be looted when the lootable NPC
// setting is enabled.
func Lootable(currentHP int, lootableNPCs bool) bool {
	return lootableNPCs && currentHP <= 0
}

// EffectivePermission returns the access a viewer holding base has. Game
// masters and living NPCs keep base; a lootable dead NPC grants at least
// limited access.
func EffectivePermission(base Permission, gm bool, currentHP int, lootableNPCs bool) Permission {
	if gm || !Lootable(currentHP, lootableNPCs) {
		return base
	}
	return max(base, PermissionLimited)
}
