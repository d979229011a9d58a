package npc

import (
	"github.com/cory-johannsen/bestiary/internal/game/adjustment"
	"github.com/cory-johannsen/bestiary/internal/game/check"
	"github.com/cory-johannsen/bestiary/internal/game/inventory"
	"github.com/cory-johannsen/bestiary/internal/game/modifier"
)

// Derived is the full set of statistics computed from one Snapshot. It is
// rebuilt from scratch on every pass and never persisted.
type Derived struct {
	ID           string                            `json:"id"`
	Name         string                            `json:"name"`
	Level        int                               `json:"level"`
	Tier         adjustment.Tier                   `json:"tier"`
	Traits       []string                          `json:"traits"`
	Size         inventory.Size                    `json:"size"`
	Attitude     Attitude                          `json:"attitude"`
	Disposition  Disposition                       `json:"disposition"`
	Abilities    map[modifier.Ability]AbilityScore `json:"abilities"`
	HP           HitPoints                         `json:"hp"`
	Speed        Speed                             `json:"speed"`
	OtherSpeeds  []Speed                           `json:"other_speeds,omitempty"`
	AC           ArmorClass                        `json:"ac"`
	DexCap       *int                              `json:"dex_cap,omitempty"`
	Shield       Shield                            `json:"shield"`
	Saves        map[string]*Check                 `json:"saves"`
	Perception   *Check                            `json:"perception"`
	Skills       map[string]*Skill                 `json:"skills"`
	Strikes      []*Strike                         `json:"strikes,omitempty"`
	Spellcasting []*SpellcastingEntry              `json:"spellcasting,omitempty"`
	Wealth       inventory.Coins                   `json:"wealth"`
}

// AbilityScore pairs the authoritative modifier with its synthesized score.
type AbilityScore struct {
	Mod   int `json:"mod"`
	Value int `json:"value"`
}

// HitPoints is the derived hit point block.
type HitPoints struct {
	Value     int                `json:"value"`
	Max       int                `json:"max"`
	Base      int                `json:"base"`
	Temp      int                `json:"temp"`
	Statistic check.StatSnapshot `json:"statistic"`
}

// Speed is one derived movement speed.
type Speed struct {
	Type      string             `json:"type"`
	Base      int                `json:"base"`
	Total     int                `json:"total"`
	Statistic check.StatSnapshot `json:"statistic"`
}

// ArmorClass is the derived armor class.
type ArmorClass struct {
	Base      int                `json:"base"`
	Value     int                `json:"value"`
	Statistic check.StatSnapshot `json:"statistic"`
}

// Shield is the derived state of the NPC's shield.
type Shield struct {
	ItemID          string `json:"item_id,omitempty"`
	Value           int    `json:"value"`
	Max             int    `json:"max"`
	AC              int    `json:"ac"`
	Hardness        int    `json:"hardness"`
	BrokenThreshold int    `json:"broken_threshold"`
	Broken          bool   `json:"broken"`
}

// Check is a derived save or perception statistic.
type Check struct {
	Name    string           `json:"name"`
	Ability modifier.Ability `json:"ability"`
	Base    int              `json:"base"`
	Value   int              `json:"value"`
	Action  *CheckAction     `json:"action"`
}

// Breakdown returns the display breakdown of the finalized statistic.
func (c *Check) Breakdown() string {
	return c.Action.Statistic.Breakdown
}

// Skill is a derived skill or lore statistic.
type Skill struct {
	Check
	Shortform string         `json:"shortform"`
	Expanded  string         `json:"expanded"`
	Label     string         `json:"label"`
	Lore      bool           `json:"lore"`
	Rank      int            `json:"rank"`
	Visible   bool           `json:"visible"`
	ItemID    string         `json:"item_id,omitempty"`
	Variants  []SkillVariant `json:"variants,omitempty"`
}

// SpellcastingEntry is the derived attack and DC of one spellcasting item.
type SpellcastingEntry struct {
	ItemID    string           `json:"item_id"`
	Name      string           `json:"name"`
	Tradition string           `json:"tradition"`
	Ability   modifier.Ability `json:"ability"`
	Rank      int              `json:"rank"`
	Attack    *Check           `json:"attack"`
	DC        SpellDifficulty  `json:"dc"`
}

// SpellDifficulty is the derived DC of a spellcasting entry.
type SpellDifficulty struct {
	Base      int                `json:"base"`
	Value     int                `json:"value"`
	Notes     []modifier.Note    `json:"notes,omitempty"`
	Statistic check.StatSnapshot `json:"statistic"`
}

// Skill returns the skill keyed by shortform, or nil.
func (d *Derived) Skill(shortform string) *Skill {
	return d.Skills[shortform]
}

// Strike returns the first strike built from itemID, or nil.
func (d *Derived) Strike(itemID string) *Strike {
	for _, s := range d.Strikes {
		if s.ItemID == itemID {
			return s
		}
	}
	return nil
}
