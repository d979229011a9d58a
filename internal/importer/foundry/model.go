// Package foundry imports NPC actors exported from a Foundry VTT world or
// compendium pack.
package foundry

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/cory-johannsen/bestiary/internal/game/npc"
)

// Foundry item types that map onto a different NPC item type.
const (
	foundryArmor  = "armor"
	foundryWeapon = "weapon"
)

// systemData returns the actor or item's system data. Older exports keep it
// under "data", newer ones under "system".
func systemData(doc gjson.Result) gjson.Result {
	if d := doc.Get("system"); d.Exists() {
		return d
	}
	return doc.Get("data")
}

// number reads r leniently: numeric strings and suffixed values such as
// "25 feet" are accepted.
func number(r gjson.Result) npc.Number {
	if !r.Exists() {
		return 0
	}
	if r.Type == gjson.Number {
		return npc.ParseNumber(r.Raw)
	}
	return npc.ParseNumber(r.String())
}

// value reads "<path>.value" when present and "<path>" otherwise.
func value(doc gjson.Result, path string) gjson.Result {
	r := doc.Get(path)
	if r.IsObject() {
		return r.Get("value")
	}
	return r
}

// stringList returns the string elements of an array result.
func stringList(r gjson.Result) []string {
	var out []string
	for _, v := range r.Array() {
		if s := strings.TrimSpace(v.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}
