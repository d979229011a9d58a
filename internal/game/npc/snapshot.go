package npc

import (
	"encoding/json"
	"fmt"

	"github.com/cory-johannsen/bestiary/internal/game/condition"
	"github.com/cory-johannsen/bestiary/internal/game/damage"
	"github.com/cory-johannsen/bestiary/internal/game/inventory"
	"github.com/cory-johannsen/bestiary/internal/game/modifier"
	"github.com/cory-johannsen/bestiary/internal/game/rules"
)

// Item types the derivation reads.
const (
	ItemLore         = "lore"
	ItemMelee        = "melee"
	ItemSpellcasting = "spellcastingEntry"
	ItemEquipment    = "equipment"
	ItemShield       = "shield"
	ItemAction       = "action"
	ItemTreasure     = "treasure"
)

// Snapshot is the stored state of an NPC. Derived values are never stored;
// they are recomputed from a Snapshot on every pass.
type Snapshot struct {
	ID         string            `yaml:"id" json:"id"`
	Name       string            `yaml:"name" json:"name"`
	Level      Number            `yaml:"level" json:"level"`
	Abilities  map[string]Number `yaml:"abilities" json:"abilities"`
	Traits     Traits            `yaml:"traits" json:"traits"`
	Attributes Attributes        `yaml:"attributes" json:"attributes"`
	Saves      Saves             `yaml:"saves" json:"saves"`
	Items      []Item            `yaml:"items" json:"items"`
	Treasure   inventory.Coins   `yaml:"treasure,omitempty" json:"treasure,omitempty"`
	Conditions condition.Set     `yaml:"conditions,omitempty" json:"conditions,omitempty"`
}

// Traits holds the stored trait data.
type Traits struct {
	Value    []string `yaml:"value" json:"value"`
	Rarity   string   `yaml:"rarity" json:"rarity"`
	Custom   string   `yaml:"custom,omitempty" json:"custom,omitempty"`
	Size     string   `yaml:"size,omitempty" json:"size,omitempty"`
	Attitude Attitude `yaml:"attitude,omitempty" json:"attitude,omitempty"`
}

// Attributes holds the stored attribute blocks.
type Attributes struct {
	HP         HPData     `yaml:"hp" json:"hp"`
	AC         BaseValue  `yaml:"ac" json:"ac"`
	Perception BaseValue  `yaml:"perception" json:"perception"`
	Speed      SpeedData  `yaml:"speed" json:"speed"`
	Shield     ShieldData `yaml:"shield" json:"shield"`
}

// HPData is the stored hit point block.
type HPData struct {
	Value Number  `yaml:"value" json:"value"`
	Max   Number  `yaml:"max" json:"max"`
	Temp  Number  `yaml:"temp,omitempty" json:"temp,omitempty"`
	Base  *Number `yaml:"base,omitempty" json:"base,omitempty"`
}

// SpeedData is the stored land speed and any other movement types.
type SpeedData struct {
	Value       Number       `yaml:"value" json:"value"`
	OtherSpeeds []OtherSpeed `yaml:"other_speeds,omitempty" json:"other_speeds,omitempty"`
}

// OtherSpeed is a non-land movement speed such as fly or swim.
type OtherSpeed struct {
	Type  string `yaml:"type" json:"type"`
	Value Number `yaml:"value" json:"value"`
}

// ShieldData is legacy shield data stored directly on the NPC.
type ShieldData struct {
	Value           Number `yaml:"value" json:"value"`
	Max             Number `yaml:"max" json:"max"`
	AC              Number `yaml:"ac" json:"ac"`
	Hardness        Number `yaml:"hardness" json:"hardness"`
	BrokenThreshold Number `yaml:"broken_threshold" json:"broken_threshold"`
}

// Saves holds the three stored saving throws.
type Saves struct {
	Fortitude BaseValue `yaml:"fortitude" json:"fortitude"`
	Reflex    BaseValue `yaml:"reflex" json:"reflex"`
	Will      BaseValue `yaml:"will" json:"will"`
}

// Item is one owned item. Only the fields relevant to its Type are read.
type Item struct {
	ID          string          `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Type        string          `yaml:"type" json:"type"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
	Rules       []rules.Element `yaml:"rules,omitempty" json:"rules,omitempty"`

	// lore
	Mod      BaseValue      `yaml:"mod,omitempty" json:"mod,omitempty"`
	Variants []SkillVariant `yaml:"variants,omitempty" json:"variants,omitempty"`

	// melee
	Bonus         Number        `yaml:"bonus,omitempty" json:"bonus,omitempty"`
	WeaponType    string        `yaml:"weapon_type,omitempty" json:"weapon_type,omitempty"`
	Traits        []string      `yaml:"traits,omitempty" json:"traits,omitempty"`
	DamageRolls   []damage.Roll `yaml:"damage_rolls,omitempty" json:"damage_rolls,omitempty"`
	AttackEffects []string      `yaml:"attack_effects,omitempty" json:"attack_effects,omitempty"`

	// spellcastingEntry
	Tradition   string  `yaml:"tradition,omitempty" json:"tradition,omitempty"`
	Ability     string  `yaml:"ability,omitempty" json:"ability,omitempty"`
	Proficiency Number  `yaml:"proficiency,omitempty" json:"proficiency,omitempty"`
	SpellDC     SpellDC `yaml:"spelldc,omitempty" json:"spelldc,omitempty"`

	// shield
	Equipped        bool   `yaml:"equipped,omitempty" json:"equipped,omitempty"`
	HP              Number `yaml:"hp,omitempty" json:"hp,omitempty"`
	MaxHP           Number `yaml:"max_hp,omitempty" json:"max_hp,omitempty"`
	Armor           Number `yaml:"armor,omitempty" json:"armor,omitempty"`
	Hardness        Number `yaml:"hardness,omitempty" json:"hardness,omitempty"`
	BrokenThreshold Number `yaml:"broken_threshold,omitempty" json:"broken_threshold,omitempty"`

	// equipment and treasure
	Price    *inventory.Price `yaml:"price,omitempty" json:"price,omitempty"`
	Quantity Number           `yaml:"quantity,omitempty" json:"quantity,omitempty"`
	Size     string           `yaml:"size,omitempty" json:"size,omitempty"`
}

// SkillVariant is an alternate use of a lore skill carrying extra options.
type SkillVariant struct {
	Label   string `yaml:"label" json:"label"`
	Options string `yaml:"options" json:"options"`
}

// SpellDC is the stored attack bonus and DC of a spellcasting entry.
type SpellDC struct {
	Value Number `yaml:"value" json:"value"`
	DC    Number `yaml:"dc" json:"dc"`
}

// AbilityMod returns the stored modifier of a, 0 when absent.
func (s *Snapshot) AbilityMod(a modifier.Ability) int {
	return s.Abilities[string(a)].Int()
}

// HasTrait reports whether the stored trait list contains t.
func (s *Snapshot) HasTrait(t string) bool {
	for _, v := range s.Traits.Value {
		if v == t {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of s made by a JSON round trip.
func (s *Snapshot) Clone() (*Snapshot, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("cloning npc %q: %w", s.ID, err)
	}
	var c Snapshot
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("cloning npc %q: %w", s.ID, err)
	}
	return &c, nil
}

// Subject returns the rules-relevant view of s.
func (s *Snapshot) Subject() rules.Subject {
	items := make([]rules.Item, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, rules.Item{ID: it.ID, Name: it.Name, Type: it.Type, Rules: it.Rules})
	}
	conditions := make(map[string]int, len(s.Conditions))
	for id, v := range s.Conditions {
		conditions[id] = v
	}
	return rules.Subject{
		ID:         s.ID,
		Name:       s.Name,
		Level:      s.Level.Int(),
		Traits:     append([]string(nil), s.Traits.Value...),
		Items:      items,
		Conditions: conditions,
	}
}

// PinBaseHP records the unadjusted maximum as the explicit hit point base
// when none is stored, so later tier changes to the current value do not
// move the maximum. The stored max is used when set, else the current value.
func (s *Snapshot) PinBaseHP() {
	hp := &s.Attributes.HP
	if hp.Base != nil {
		return
	}
	base := hp.Max
	if base.Int() <= 0 {
		base = hp.Value
	}
	hp.Base = &base
}

// equippedShield returns the first equipped shield item, or nil.
func (s *Snapshot) equippedShield() *Item {
	for i := range s.Items {
		if s.Items[i].Type == ItemShield && s.Items[i].Equipped {
			return &s.Items[i]
		}
	}
	return nil
}
