package modifier

import "strings"

// Note is a piece of text attached to checks matching Selector.
type Note struct {
	Selector string   `yaml:"selector" json:"selector"`
	Text     string   `yaml:"text" json:"text"`
	Outcome  []string `yaml:"outcome" json:"outcome,omitempty"`
}

// DiceModification adds or overrides damage dice on rolls matching Selector.
type DiceModification struct {
	Selector   string `yaml:"selector" json:"selector"`
	Label      string `yaml:"label" json:"label"`
	DiceNumber int    `yaml:"dice_number" json:"dice_number"`
	DieSize    string `yaml:"die_size" json:"die_size"`
	DamageType string `yaml:"damage_type" json:"damage_type,omitempty"`
	// Override replaces the die size of the base damage instead of adding dice.
	Override bool `yaml:"override" json:"override,omitempty"`
}

// Bag is a tag-keyed multi-map of modifiers and notes. Tags match
// case-insensitively.
//
// A Bag is filled once per pass and read by every statistic afterwards.
// Readers always receive copies, so no statistic can affect another.
// It is not safe for concurrent mutation.
type Bag struct {
	mods  map[string][]Modifier
	notes map[string][]Note
	dice  map[string][]DiceModification
}

// NewBag returns an empty Bag.
func NewBag() *Bag {
	return &Bag{
		mods:  make(map[string][]Modifier),
		notes: make(map[string][]Note),
		dice:  make(map[string][]DiceModification),
	}
}

// Add appends mods under tag. New modifiers are enabled unless Ignored.
func (b *Bag) Add(tag string, mods ...Modifier) {
	for _, m := range mods {
		m.Enabled = !m.Ignored
		b.mods[key(tag)] = append(b.mods[key(tag)], m)
	}
}

// AddNote appends notes under their own selector.
func (b *Bag) AddNote(notes ...Note) {
	for _, n := range notes {
		k := key(n.Selector)
		b.notes[k] = append(b.notes[k], n)
	}
}

// AddDice appends dice modifications under their own selector.
func (b *Bag) AddDice(mods ...DiceModification) {
	for _, d := range mods {
		k := key(d.Selector)
		b.dice[k] = append(b.dice[k], d)
	}
}

// Modifiers returns copies of every modifier stored under tags, in tag order
// and insertion order within a tag. Missing tags contribute nothing.
func (b *Bag) Modifiers(tags ...string) []Modifier {
	var out []Modifier
	for _, t := range tags {
		out = append(out, b.mods[key(t)]...)
	}
	return out
}

// Notes returns copies of every note stored under tags.
func (b *Bag) Notes(tags ...string) []Note {
	var out []Note
	for _, t := range tags {
		for _, n := range b.notes[key(t)] {
			n.Outcome = append([]string(nil), n.Outcome...)
			out = append(out, n)
		}
	}
	return out
}

// Dice returns copies of every dice modification stored under tags.
func (b *Bag) Dice(tags ...string) []DiceModification {
	var out []DiceModification
	for _, t := range tags {
		out = append(out, b.dice[key(t)]...)
	}
	return out
}

// Merge appends everything from other into b.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for tag, mods := range other.mods {
		b.mods[tag] = append(b.mods[tag], mods...)
	}
	for tag, notes := range other.notes {
		b.notes[tag] = append(b.notes[tag], notes...)
	}
	for tag, dice := range other.dice {
		b.dice[tag] = append(b.dice[tag], dice...)
	}
}

// Clone returns an independent deep copy.
func (b *Bag) Clone() *Bag {
	c := NewBag()
	c.Merge(b)
	for tag, notes := range c.notes {
		cp := make([]Note, len(notes))
		for i, n := range notes {
			n.Outcome = append([]string(nil), n.Outcome...)
			cp[i] = n
		}
		c.notes[tag] = cp
	}
	return c
}

// Tags returns the number of distinct modifier tags.
func (b *Bag) Tags() int {
	return len(b.mods)
}

func key(tag string) string {
	return strings.ToLower(tag)
}
