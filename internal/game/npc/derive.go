package npc

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/bestiary/internal/game/adjustment"
	"github.com/cory-johannsen/bestiary/internal/game/check"
	"github.com/cory-johannsen/bestiary/internal/game/damage"
	"github.com/cory-johannsen/bestiary/internal/game/inventory"
	"github.com/cory-johannsen/bestiary/internal/game/modifier"
	"github.com/cory-johannsen/bestiary/internal/game/rules"
)

// Options configures a derivation pass. The zero value is usable.
type Options struct {
	// Translator renders labels and breakdowns; nil leaves keys unrendered.
	Translator modifier.Translator
	// MAP is the multiple attack penalty table; zero means DefaultMAP.
	MAP MAPTable
	// Damage builds strike damage rolls; nil means a WeaponCalculator.
	Damage damage.Calculator
	// Effects resolves attack effects when a strike is rolled; nil means
	// strikes roll without effect notes.
	Effects *EffectGatherer
	// NewID issues roll descriptor ids; nil means random UUIDs.
	NewID func() string
}

func (o Options) withDefaults() Options {
	if o.Translator == nil {
		o.Translator = modifier.Identity
	}
	if o.MAP == (MAPTable{}) {
		o.MAP = DefaultMAP
	}
	if o.Damage == nil {
		o.Damage = damage.NewWeaponCalculator()
	}
	if o.NewID == nil {
		o.NewID = func() string { return uuid.NewString() }
	}
	return o
}

// pass is the working state of one derivation.
type pass struct {
	snap  *Snapshot
	owned []Item
	bag   *modifier.Bag
	caps  []rules.DexCap
	tier  adjustment.Tier
	opts  Options
	tr    modifier.Translator
}

// saveAbilities pairs each saving throw with its ability, in display order.
var saveAbilities = []struct {
	Name    string
	Ability modifier.Ability
}{
	{"fortitude", modifier.Con},
	{"reflex", modifier.Dex},
	{"will", modifier.Wis},
}

// Derive computes every derived statistic of snap from the rule output.
// It is a pure function: neither snap nor out is modified, and the result
// shares no mutable state with them.
//
// Precondition: snap must be non-nil.
// Postcondition: the pipeline runs in a fixed order (traits, tier
// modifiers, ability scores, hit points, speeds, armor class, shield,
// saves, perception, skills, strikes, spellcasting).
func Derive(snap *Snapshot, out rules.Output, opts Options) *Derived {
	opts = opts.withDefaults()
	bag := modifier.NewBag()
	if out.Bag != nil {
		bag = out.Bag.Clone()
	}

	traits := NormalizeTraits(snap.Traits)
	level := snap.Level.Int()
	tier := adjustment.TierOf(traits)
	for _, inj := range adjustment.Modifiers(tier, level) {
		bag.Add(inj.Tag, inj.Modifier)
	}

	p := &pass{
		snap:  snap,
		owned: append([]Item(nil), snap.Items...),
		bag:   bag,
		caps:  append([]rules.DexCap(nil), out.DexCaps...),
		tier:  tier,
		opts:  opts,
		tr:    opts.Translator,
	}

	size, err := inventory.ParseSize(snap.Traits.Size)
	if err != nil {
		size = inventory.SizeMedium
	}

	d := &Derived{
		ID:          snap.ID,
		Name:        snap.Name,
		Level:       level,
		Tier:        tier,
		Traits:      traits,
		Size:        size,
		Attitude:    snap.Traits.Attitude.OrDefault(),
		Disposition: snap.Traits.Attitude.Disposition(),
	}
	d.Abilities = p.abilities()
	d.HP = p.hitPoints()
	d.Speed, d.OtherSpeeds = p.speeds()
	d.AC, d.DexCap = p.armorClass()
	d.Shield = p.shield()
	d.Saves = p.saves()
	d.Perception = p.perception()
	d.Skills = p.skills()
	for _, item := range snap.Items {
		switch item.Type {
		case ItemMelee:
			d.Strikes = append(d.Strikes, p.buildStrike(item))
		case ItemSpellcasting:
			d.Spellcasting = append(d.Spellcasting, p.spellcasting(item))
		}
	}
	d.Wealth = wealth(snap)
	return d
}

func (p *pass) abilities() map[modifier.Ability]AbilityScore {
	out := make(map[modifier.Ability]AbilityScore, len(modifier.Abilities))
	for _, a := range modifier.Abilities {
		mod := p.snap.AbilityMod(a)
		out[a] = AbilityScore{Mod: mod, Value: mod*2 + 10}
	}
	return out
}

func (p *pass) hitPoints() HitPoints {
	hp := p.snap.Attributes.HP
	base := hp.Value.Int()
	if hp.Base != nil {
		base = hp.Base.Int()
	}
	level := p.snap.Level.Int()
	mods := p.bag.Modifiers(modifier.TagHP)
	for _, m := range p.bag.Modifiers(modifier.TagHPPerLevel) {
		mods = append(mods, m.Scaled(level))
	}
	stat := modifier.NewStatistic("hp", mods...)
	maxHP := base + stat.Total()
	return HitPoints{
		Value:     min(hp.Value.Int(), maxHP),
		Max:       maxHP,
		Base:      base,
		Temp:      hp.Temp.Int(),
		Statistic: check.Snapshot(stat, "hp", p.tr, fmt.Sprintf("%s %d", p.tr.Localize(LabelHPBase), base)),
	}
}

func (p *pass) speed(movement string, base int) Speed {
	stat := modifier.NewStatistic(movement, p.bag.Modifiers(modifier.SpeedTags(movement)...)...)
	return Speed{
		Type:      movement,
		Base:      base,
		Total:     base + stat.Total(),
		Statistic: check.Snapshot(stat, movement, p.tr, fmt.Sprintf("%s %d", p.tr.Localize(LabelSpeedBase), base)),
	}
}

func (p *pass) speeds() (Speed, []Speed) {
	sd := p.snap.Attributes.Speed
	land := p.speed("land", sd.Value.Int())
	var others []Speed
	for _, o := range sd.OtherSpeeds {
		others = append(others, p.speed(o.Type, o.Value.Int()))
	}
	return land, others
}

func (p *pass) armorClass() (ArmorClass, *int) {
	base := p.snap.Attributes.AC.BaseOrValue()
	dex := p.snap.AbilityMod(modifier.Dex)
	var capped *int
	for _, c := range p.caps {
		if capped == nil || c.Value < *capped {
			v := c.Value
			capped = &v
		}
	}
	if capped != nil {
		dex = min(dex, *capped)
	}
	mods := []modifier.Modifier{
		modifier.New(LabelBase, base-10-dex, modifier.KindUntyped),
		modifier.New(abilityLabel(modifier.Dex), dex, modifier.KindAbility),
	}
	mods = append(mods, p.bag.Modifiers(modifier.ACTags()...)...)
	stat := modifier.NewStatistic("ac", mods...)
	return ArmorClass{
		Base:      base,
		Value:     10 + stat.Total(),
		Statistic: check.Snapshot(stat, p.tr.Localize(LabelAC), p.tr, p.tr.Localize(LabelACBase)),
	}, capped
}

func (p *pass) shield() Shield {
	if item := p.snap.equippedShield(); item != nil {
		s := Shield{
			ItemID:          item.ID,
			Value:           item.HP.Int(),
			Max:             item.MaxHP.Int(),
			AC:              item.Armor.Int(),
			Hardness:        item.Hardness.Int(),
			BrokenThreshold: item.BrokenThreshold.Int(),
		}
		s.Broken = s.Value <= s.BrokenThreshold
		if s.Broken {
			s.AC = 0
		}
		return s
	}
	legacy := p.snap.Attributes.Shield
	if legacy.Max.Int() == 0 {
		return Shield{}
	}
	s := Shield{
		Value:           legacy.Value.Int(),
		Max:             legacy.Max.Int(),
		AC:              legacy.AC.Int(),
		Hardness:        legacy.Hardness.Int(),
		BrokenThreshold: legacy.BrokenThreshold.Int(),
	}
	s.Broken = s.Value <= s.BrokenThreshold
	if s.Broken {
		s.AC = 0
	}
	return s
}

// statCheck builds a statistic whose untyped base is stored - ability modifier.
func (p *pass) statCheck(name, label string, typ check.Type, stored int, a modifier.Ability, tags []string) *Check {
	mod := p.snap.AbilityMod(a)
	mods := []modifier.Modifier{
		modifier.New(LabelBase, stored-mod, modifier.KindUntyped),
		modifier.New(abilityLabel(a), mod, modifier.KindAbility),
	}
	mods = append(mods, p.bag.Modifiers(tags...)...)
	stat := modifier.NewStatistic(name, mods...)
	return &Check{
		Name:    name,
		Ability: a,
		Base:    stored,
		Value:   stat.Total(),
		Action: &CheckAction{
			ID:        p.opts.NewID(),
			Label:     label,
			Type:      typ,
			Statistic: check.Snapshot(stat, label, p.tr),
			Notes:     p.bag.Notes(tags...),
		},
	}
}

func (p *pass) saves() map[string]*Check {
	stored := map[string]BaseValue{
		"fortitude": p.snap.Saves.Fortitude,
		"reflex":    p.snap.Saves.Reflex,
		"will":      p.snap.Saves.Will,
	}
	out := make(map[string]*Check, len(saveAbilities))
	for _, s := range saveAbilities {
		out[s.Name] = p.statCheck(s.Name, p.tr.Localize(saveLabel(s.Name)), check.TypeSavingThrow,
			stored[s.Name].BaseOrValue(), s.Ability, modifier.SaveTags(s.Name, s.Ability))
	}
	return out
}

func (p *pass) perception() *Check {
	return p.statCheck("perception", p.tr.Localize(LabelPerception), check.TypePerceptionCheck,
		p.snap.Attributes.Perception.BaseOrValue(), modifier.Wis, modifier.PerceptionTags())
}

func (p *pass) skills() map[string]*Skill {
	out := make(map[string]*Skill, len(CanonicalSkills))
	for _, def := range CanonicalSkills {
		label := p.tr.Localize(skillLabel(def.Name))
		c := p.statCheck(def.Name, label, check.TypeSkillCheck, p.snap.AbilityMod(def.Ability), def.Ability,
			modifier.SkillTags(def.Name, def.Ability))
		c.Base = 0
		out[def.Shortform] = &Skill{
			Check:     *c,
			Shortform: def.Shortform,
			Expanded:  def.Name,
			Label:     label,
		}
	}
	for _, item := range p.snap.Items {
		if item.Type != ItemLore {
			continue
		}
		slug := modifier.Slugify(item.Name)
		def, canonical := LookupSkill(slug)
		c := p.statCheck(item.Name, item.Name, check.TypeSkillCheck, item.Mod.BaseOrValue(), def.Ability,
			modifier.SkillTags(slug, def.Ability))
		out[def.Shortform] = &Skill{
			Check:     *c,
			Shortform: def.Shortform,
			Expanded:  slug,
			Label:     item.Name,
			Lore:      !canonical,
			Rank:      1,
			Visible:   true,
			ItemID:    item.ID,
			Variants:  append([]SkillVariant(nil), item.Variants...),
		}
	}
	return out
}

func (p *pass) spellcasting(item Item) *SpellcastingEntry {
	ability := modifier.ParseAbility(item.Ability, modifier.Int)
	tradition := item.Tradition
	rank := item.Proficiency.Int()
	mod := p.snap.AbilityMod(ability)

	attack := p.statCheck(item.Name, fmt.Sprintf("%s: %s", p.tr.Localize(LabelSpellAttack), item.Name),
		check.TypeSpellAttackRoll, item.SpellDC.Value.Int(), ability, modifier.SpellAttackTags(tradition, ability))
	attack.Action.Proficiency = ProficiencyOption(rank)

	dcBase := item.SpellDC.DC.Int()
	tags := modifier.SpellDCTags(tradition, ability)
	mods := []modifier.Modifier{
		modifier.New(LabelBase, dcBase-10-mod, modifier.KindUntyped),
		modifier.New(abilityLabel(ability), mod, modifier.KindAbility),
	}
	mods = append(mods, p.bag.Modifiers(tags...)...)
	stat := modifier.NewStatistic(item.Name, mods...)

	return &SpellcastingEntry{
		ItemID:    item.ID,
		Name:      item.Name,
		Tradition: tradition,
		Ability:   ability,
		Rank:      rank,
		Attack:    attack,
		DC: SpellDifficulty{
			Base:      dcBase,
			Value:     10 + stat.Total(),
			Notes:     p.bag.Notes(tags...),
			Statistic: check.Snapshot(stat, p.tr.Localize(LabelSpellDC), p.tr, p.tr.Localize(LabelSpellDCBase)),
		},
	}
}

// wealth totals stored coins and the size-adjusted price of every treasure
// item.
func wealth(snap *Snapshot) inventory.Coins {
	total := snap.Treasure.Normalize()
	for _, item := range snap.Items {
		if item.Type != ItemTreasure || item.Price == nil {
			continue
		}
		size, err := inventory.ParseSize(item.Size)
		if err != nil {
			size = inventory.SizeMedium
		}
		qty := max(1, item.Quantity.Int())
		total = total.Plus(item.Price.ForSize(size).Total(qty))
	}
	return total
}
