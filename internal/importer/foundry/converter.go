package foundry

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/cory-johannsen/bestiary/internal/game/damage"
	"github.com/cory-johannsen/bestiary/internal/game/inventory"
	"github.com/cory-johannsen/bestiary/internal/game/npc"
	"github.com/cory-johannsen/bestiary/internal/game/rules"
	"github.com/cory-johannsen/bestiary/internal/importer"
)

var abilities = []string{"str", "dex", "con", "int", "wis", "cha"}

// ConvertActor transforms one exported actor into an NPC template.
//
// Precondition: actor must be a JSON object.
// Postcondition: returns nil and a warning for actors that are not NPCs or
// have no name; otherwise a non-nil Template and a (possibly empty) slice of
// warnings for recoverable issues such as unsupported or unnamed items.
func ConvertActor(actor gjson.Result) (*npc.Template, []string) {
	name := strings.TrimSpace(actor.Get("name").String())
	if typ := actor.Get("type").String(); typ != "npc" {
		return nil, []string{fmt.Sprintf("actor %q: type %q is not npc; skipping", name, typ)}
	}
	if name == "" {
		return nil, []string{fmt.Sprintf("actor %q: missing name; skipping", actor.Get("_id").String())}
	}

	var warnings []string
	d := systemData(actor)
	tmpl := &npc.Template{Description: strings.TrimSpace(d.Get("details.publicNotes").String())}
	snap := &tmpl.Snapshot
	snap.ID = importer.NameToID(name)
	snap.Name = name
	snap.Level = number(value(d, "details.level"))

	snap.Abilities = make(map[string]npc.Number, len(abilities))
	for _, a := range abilities {
		snap.Abilities[a] = number(d.Get("abilities." + a + ".mod"))
	}

	traits := d.Get("traits")
	traitValues := traits.Get("traits.value")
	if !traitValues.Exists() {
		traitValues = traits.Get("value")
	}
	snap.Traits = npc.Traits{
		Value:    stringList(traitValues),
		Rarity:   value(traits, "rarity").String(),
		Custom:   traits.Get("traits.custom").String(),
		Size:     value(traits, "size").String(),
		Attitude: npc.Attitude(value(traits, "attitude").String()),
	}
	if snap.Traits.Attitude != "" {
		if _, err := npc.ParseAttitude(string(snap.Traits.Attitude)); err != nil {
			warnings = append(warnings, fmt.Sprintf("actor %q: %v; using default attitude", name, err))
			snap.Traits.Attitude = ""
		}
	}

	attrs := d.Get("attributes")
	snap.Attributes.HP = npc.HPData{
		Value: number(attrs.Get("hp.value")),
		Max:   number(attrs.Get("hp.max")),
		Temp:  number(attrs.Get("hp.temp")),
	}
	snap.Attributes.AC = baseValue(attrs.Get("ac"))
	snap.Attributes.Perception = baseValue(attrs.Get("perception"))
	if !attrs.Get("perception").Exists() {
		snap.Attributes.Perception.Value = number(d.Get("perception.mod"))
	}
	snap.Attributes.Speed.Value = number(attrs.Get("speed.value"))
	for _, s := range attrs.Get("speed.otherSpeeds").Array() {
		snap.Attributes.Speed.OtherSpeeds = append(snap.Attributes.Speed.OtherSpeeds, npc.OtherSpeed{
			Type:  strings.ToLower(s.Get("type").String()),
			Value: number(s.Get("value")),
		})
	}
	if sh := attrs.Get("shield"); sh.Exists() {
		snap.Attributes.Shield = npc.ShieldData{
			Value:           number(sh.Get("value")),
			Max:             number(sh.Get("max")),
			AC:              number(sh.Get("ac")),
			Hardness:        number(sh.Get("hardness")),
			BrokenThreshold: number(sh.Get("brokenThreshold")),
		}
	}

	snap.Saves = npc.Saves{
		Fortitude: baseValue(d.Get("saves.fortitude")),
		Reflex:    baseValue(d.Get("saves.reflex")),
		Will:      baseValue(d.Get("saves.will")),
	}

	seen := make(map[string]bool)
	for i, it := range actor.Get("items").Array() {
		item, warn := convertItem(it)
		if warn != "" {
			warnings = append(warnings, fmt.Sprintf("actor %q item %d: %s", name, i, warn))
		}
		if item == nil {
			continue
		}
		if seen[item.ID] {
			warnings = append(warnings, fmt.Sprintf("actor %q: duplicate item id %q; skipping", name, item.ID))
			continue
		}
		seen[item.ID] = true
		snap.Items = append(snap.Items, *item)
	}
	return tmpl, warnings
}

func baseValue(r gjson.Result) npc.BaseValue {
	bv := npc.BaseValue{Value: number(r.Get("value"))}
	if b := r.Get("base"); b.Exists() {
		n := number(b)
		bv.Base = &n
	}
	return bv
}

// convertItem maps one exported item. A nil item means it was skipped.
func convertItem(it gjson.Result) (*npc.Item, string) {
	name := strings.TrimSpace(it.Get("name").String())
	if name == "" {
		return nil, "missing name; skipping"
	}
	id := it.Get("_id").String()
	if id == "" {
		id = importer.NameToID(name)
	}
	d := systemData(it)
	item := &npc.Item{
		ID:          id,
		Name:        name,
		Type:        it.Get("type").String(),
		Description: strings.TrimSpace(value(d, "description").String()),
	}
	if item.Type == "" {
		return nil, fmt.Sprintf("%q has no type; skipping", name)
	}

	var warn string
	item.Rules, warn = convertRules(d.Get("rules"))

	switch item.Type {
	case npc.ItemMelee:
		item.Bonus = number(value(d, "bonus"))
		item.WeaponType = value(d, "weaponType").String()
		item.Traits = stringList(value(d, "traits"))
		item.AttackEffects = stringList(value(d, "attackEffects"))
		d.Get("damageRolls").ForEach(func(_, r gjson.Result) bool {
			item.DamageRolls = append(item.DamageRolls, damage.Roll{
				Formula: r.Get("damage").String(),
				Type:    r.Get("damageType").String(),
			})
			return true
		})
	case npc.ItemLore:
		item.Mod = npc.BaseValue{Value: number(value(d, "mod"))}
		d.Get("variants").ForEach(func(_, v gjson.Result) bool {
			item.Variants = append(item.Variants, npc.SkillVariant{
				Label:   v.Get("label").String(),
				Options: v.Get("options").String(),
			})
			return true
		})
	case npc.ItemSpellcasting:
		item.Tradition = value(d, "tradition").String()
		item.Ability = value(d, "ability").String()
		item.Proficiency = number(value(d, "proficiency"))
		item.SpellDC = npc.SpellDC{
			Value: number(d.Get("spelldc.value")),
			DC:    number(d.Get("spelldc.dc")),
		}
	case foundryArmor:
		if value(d, "category").String() != npc.ItemShield {
			physical(item, d)
			item.Type = npc.ItemEquipment
			break
		}
		item.Type = npc.ItemShield
		fallthrough
	case npc.ItemShield:
		item.Equipped = equipped(d.Get("equipped"))
		item.HP = number(value(d, "hp"))
		item.MaxHP = number(first(d, "hp.max", "maxHp"))
		item.Armor = number(first(d, "acBonus", "armor"))
		item.Hardness = number(value(d, "hardness"))
		item.BrokenThreshold = number(first(d, "hp.brokenThreshold", "brokenThreshold"))
	case foundryWeapon, "consumable":
		physical(item, d)
		item.Type = npc.ItemEquipment
	case npc.ItemEquipment, npc.ItemTreasure:
		physical(item, d)
	}
	return item, warn
}

// equipped reads either a plain flag or an object whose carry type says the
// item is in hand.
func equipped(r gjson.Result) bool {
	if !r.IsObject() {
		return r.Bool()
	}
	if v := r.Get("value"); v.Exists() {
		return v.Bool()
	}
	return r.Get("carryType").String() == "held"
}

// first returns the first of paths present in d, unwrapping "value".
func first(d gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := value(d, p); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

// physical reads the price, quantity and size of a physical item.
func physical(item *npc.Item, d gjson.Result) {
	item.Quantity = number(value(d, "quantity"))
	item.Size = value(d, "size").String()
	price := d.Get("price")
	if price.IsObject() && price.Get("value").Exists() {
		price = price.Get("value")
	}
	switch {
	case price.IsObject():
		c := inventory.FromValues(
			price.Get("cp").Float(), price.Get("sp").Float(),
			price.Get("gp").Float(), price.Get("pp").Float(),
		)
		item.Price = &inventory.Price{Value: c, Per: int(d.Get("price.per").Int())}
	case price.Type == gjson.String && price.String() != "":
		item.Price = &inventory.Price{Value: inventory.ParseCoins(price.String(), 1, nil)}
	}
	if item.Type == npc.ItemTreasure && value(d, "denomination").Exists() {
		// Coin items carry their denomination instead of a price.
		den := inventory.Denomination(value(d, "denomination").String())
		item.Price = &inventory.Price{Value: inventory.Coins{}.With(den, 1)}
	}
}

// convertRules keeps the rule elements that pass validation.
func convertRules(r gjson.Result) ([]rules.Element, string) {
	var out []rules.Element
	var dropped []string
	for _, e := range r.Array() {
		el := rules.Element{
			Key:        e.Get("key").String(),
			Selector:   e.Get("selector").String(),
			Label:      e.Get("label").String(),
			Value:      number(e.Get("value")).Int(),
			Type:       e.Get("type").String(),
			Text:       e.Get("text").String(),
			Outcome:    stringList(e.Get("outcome")),
			DiceNumber: int(e.Get("diceNumber").Int()),
			DieSize:    e.Get("dieSize").String(),
			DamageType: e.Get("damageType").String(),
			Override:   e.Get("override").Bool(),
			Ignored:    e.Get("ignored").Bool(),
		}
		if el.Label == "" && el.Key == rules.KeyFlatModifier {
			el.Label = e.Get("name").String()
		}
		if err := el.Validate(); err != nil {
			dropped = append(dropped, el.Key)
			continue
		}
		out = append(out, el)
	}
	if len(dropped) > 0 {
		return out, fmt.Sprintf("dropped unsupported rule elements %v", dropped)
	}
	return out, ""
}
