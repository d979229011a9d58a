package modifier

import (
	"regexp"
	"strings"
)

// Ability is one of the six ability abbreviations used in selectors.
type Ability string

const (
	Str Ability = "str"
	Dex Ability = "dex"
	Con Ability = "con"
	Int Ability = "int"
	Wis Ability = "wis"
	Cha Ability = "cha"
)

// Abilities lists every ability in canonical order.
var Abilities = []Ability{Str, Dex, Con, Int, Wis, Cha}

// ParseAbility returns the Ability for s, or fallback when s is not one.
func ParseAbility(s string, fallback Ability) Ability {
	a := Ability(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Abilities {
		if a == known {
			return a
		}
	}
	return fallback
}

// Fixed selectors read by the statistics.
const (
	TagAll          = "all"
	TagDamage       = "damage"
	TagHP           = "hp"
	TagHPPerLevel   = "hp-per-level"
	TagSpeed        = "speed"
	TagLandSpeed    = "land-speed"
	TagAC           = "ac"
	TagSavingThrow  = "saving-throw"
	TagPerception   = "perception"
	TagSkillCheck   = "skill-check"
	TagAttack       = "attack"
	TagMundane      = "mundane-attack"
	TagAttackRoll   = "attack-roll"
	TagSpellAttack  = "spell-attack"
	TagSpellDC      = "spell-dc"
	TagStrikeDamage = "strike-damage"
)

// AbilityBased is "<ability>-based".
func AbilityBased(a Ability) string { return string(a) + "-based" }

// AbilityAttack is "<ability>-attack".
func AbilityAttack(a Ability) string { return string(a) + "-attack" }

// AbilityDamage is "<ability>-damage".
func AbilityDamage(a Ability) string { return string(a) + "-damage" }

// SpeedTag is "<movement type>-speed", lower-cased.
func SpeedTag(movement string) string { return strings.ToLower(movement) + "-speed" }

// SpellAttack is "<tradition>-spell-attack".
func SpellAttack(tradition string) string { return tradition + "-spell-attack" }

// SpellDC is "<tradition>-spell-dc".
func SpellDC(tradition string) string { return tradition + "-spell-dc" }

// ItemAttack is "<item id>-attack".
func ItemAttack(itemID string) string { return itemID + "-attack" }

// ItemDamage is "<item id>-damage".
func ItemDamage(itemID string) string { return itemID + "-damage" }

var whitespace = regexp.MustCompile(`\s+`)

// NameAttack is the strike-name selector: whitespace runs become dashes and
// letters are lower-cased. Other punctuation is kept.
func NameAttack(name string) string {
	return strings.ToLower(whitespace.ReplaceAllString(name, "-")) + "-attack"
}

var nonAlnum = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Slugify lower-cases s and collapses every run of non-alphanumerics into a
// single dash, trimming dashes at either end.
func Slugify(s string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// SaveTags returns the selectors read by a saving throw.
func SaveTags(save string, a Ability) []string {
	return []string{save, AbilityBased(a), TagSavingThrow, TagAll}
}

// PerceptionTags returns the selectors read by perception.
func PerceptionTags() []string {
	return []string{TagPerception, AbilityBased(Wis), TagAll}
}

// SkillTags returns the selectors read by a skill or lore check.
func SkillTags(skill string, a Ability) []string {
	return []string{skill, AbilityBased(a), TagSkillCheck, TagAll}
}

// ACTags returns the selectors read by armor class.
func ACTags() []string {
	return []string{TagAC, AbilityBased(Dex), TagAll}
}

// StrikeTags returns the selectors read by a strike's attack roll.
func StrikeTags(name, itemID string, a Ability) []string {
	return []string{
		NameAttack(name),
		TagAttack,
		TagMundane,
		AbilityAttack(a),
		AbilityBased(a),
		ItemAttack(itemID),
		TagAttackRoll,
		TagAll,
	}
}

// StrikeDamageTags returns the selectors read by a strike's damage roll.
func StrikeDamageTags(itemID string, a Ability) []string {
	return []string{TagDamage, AbilityDamage(a), ItemDamage(itemID), TagStrikeDamage}
}

// SpellAttackTags returns the selectors read by a spellcasting entry's attack.
func SpellAttackTags(tradition string, a Ability) []string {
	return []string{AbilityBased(a), TagAll, SpellAttack(tradition), TagSpellAttack, TagAttack, TagAttackRoll}
}

// SpellDCTags returns the selectors read by a spellcasting entry's DC.
func SpellDCTags(tradition string, a Ability) []string {
	return []string{SpellDC(tradition), TagSpellDC, AbilityBased(a), TagAll}
}

// SpeedTags returns the selectors read by a movement speed.
func SpeedTags(movement string) []string {
	if strings.EqualFold(movement, "land") {
		return []string{TagLandSpeed, TagSpeed}
	}
	return []string{SpeedTag(movement), TagSpeed}
}
