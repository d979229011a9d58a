package npc

import (
	"regexp"
	"sort"
	"strings"

	"github.com/cory-johannsen/bestiary/internal/game/adjustment"
)

var customTraitSep = regexp.MustCompile(`\s*[,;|]\s*`)

// NormalizeTraits merges the stored trait list, the rarity and the free-text
// custom traits into one deduplicated, lexically sorted list.
//
// Postcondition: the result holds no empty strings and no duplicates.
func NormalizeTraits(t Traits) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}
	for _, v := range t.Value {
		add(v)
	}
	add(t.Rarity)
	for _, v := range customTraitSep.Split(t.Custom, -1) {
		add(v)
	}
	sort.Strings(out)
	return out
}

// withoutTierTraits drops elite and weak from a custom trait string. The
// string is returned untouched when it holds neither.
func withoutTierTraits(custom string) string {
	parts := customTraitSep.Split(strings.TrimSpace(custom), -1)
	kept := parts[:0]
	for _, p := range parts {
		if !adjustment.IsTierTrait(p) {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(parts) {
		return custom
	}
	return strings.Join(kept, ", ")
}
