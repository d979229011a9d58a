package npc

import "github.com/cory-johannsen/bestiary/internal/game/modifier"

// SkillDef is one canonical skill.
type SkillDef struct {
	Name      string
	Shortform string
	Ability   modifier.Ability
}

// CanonicalSkills is the fixed skill list every NPC starts with, untrained.
var CanonicalSkills = []SkillDef{
	{"acrobatics", "acr", modifier.Dex},
	{"arcana", "arc", modifier.Int},
	{"athletics", "ath", modifier.Str},
	{"crafting", "cra", modifier.Int},
	{"deception", "dec", modifier.Cha},
	{"diplomacy", "dip", modifier.Cha},
	{"intimidation", "itm", modifier.Cha},
	{"medicine", "med", modifier.Wis},
	{"nature", "nat", modifier.Wis},
	{"occultism", "occ", modifier.Int},
	{"performance", "prf", modifier.Cha},
	{"religion", "rel", modifier.Wis},
	{"society", "soc", modifier.Int},
	{"stealth", "ste", modifier.Dex},
	{"survival", "sur", modifier.Wis},
	{"thievery", "thi", modifier.Dex},
}

var skillsByName = func() map[string]SkillDef {
	m := make(map[string]SkillDef, len(CanonicalSkills))
	for _, s := range CanonicalSkills {
		m[s.Name] = s
	}
	return m
}()

var canonicalShortforms = func() map[string]bool {
	m := make(map[string]bool, len(CanonicalSkills))
	for _, s := range CanonicalSkills {
		m[s.Shortform] = true
	}
	return m
}()

// LookupSkill resolves a slugified skill name. Unknown names are freeform
// lore skills based on intelligence and keyed by the slug, or by slug
// plus "-lore" when the slug is a canonical shortform such as "med".
func LookupSkill(slug string) (def SkillDef, canonical bool) {
	if s, ok := skillsByName[slug]; ok {
		return s, true
	}
	key := slug
	if canonicalShortforms[key] {
		key += "-lore"
	}
	return SkillDef{Name: slug, Shortform: key, Ability: modifier.Int}, false
}
