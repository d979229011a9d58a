package npc

import "github.com/cory-johannsen/bestiary/internal/game/modifier"

// Localization keys used in labels and breakdowns.
const (
	LabelBase          = "npc.modifier.base"
	LabelHPBase        = "npc.hp.base"
	LabelSpeedBase     = "npc.speed.base"
	LabelACBase        = "npc.ac.base"
	LabelAC            = "npc.ac"
	LabelPerception    = "npc.perception"
	LabelStrike        = "npc.strike.label"
	LabelMAP           = "npc.strike.map"
	LabelMAPPenalty    = "npc.strike.map_penalty"
	LabelTraitAttack   = "npc.trait.attack"
	LabelTraitRange    = "npc.trait.range"
	LabelAttackMelee   = "npc.attack.melee"
	LabelAttackRanged  = "npc.attack.ranged"
	LabelSpellAttack   = "npc.spell.attack"
	LabelSpellDC       = "npc.spell.dc"
	LabelSpellDCBase   = "npc.spell.dc.base"
	LabelNoDescription = "npc.attack_effect.none"
)

// abilityLabel is the localization key naming ability a.
func abilityLabel(a modifier.Ability) string {
	return "npc.ability." + string(a)
}

// saveLabel is the localization key naming a saving throw.
func saveLabel(save string) string {
	return "npc.save." + save
}

// skillLabel is the localization key naming a canonical skill.
func skillLabel(skill string) string {
	return "npc.skill." + skill
}
