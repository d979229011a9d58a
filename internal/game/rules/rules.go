// Package rules turns rule elements attached to an NPC's items into the
// modifier bag and dexterity caps a derivation pass reads.
package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/cory-johannsen/bestiary/internal/game/modifier"
)

// Rule element keys.
const (
	KeyFlatModifier         = "FlatModifier"
	KeyNote                 = "Note"
	KeyDamageDice           = "DamageDice"
	KeyDexterityModifierCap = "DexterityModifierCap"
)

// Element is one rule element as stored on an item or returned by a script.
type Element struct {
	Key        string   `yaml:"key" json:"key"`
	Selector   string   `yaml:"selector,omitempty" json:"selector,omitempty"`
	Label      string   `yaml:"label,omitempty" json:"label,omitempty"`
	Value      int      `yaml:"value,omitempty" json:"value,omitempty"`
	Type       string   `yaml:"type,omitempty" json:"type,omitempty"`
	Text       string   `yaml:"text,omitempty" json:"text,omitempty"`
	Outcome    []string `yaml:"outcome,omitempty" json:"outcome,omitempty"`
	DiceNumber int      `yaml:"dice_number,omitempty" json:"dice_number,omitempty"`
	DieSize    string   `yaml:"die_size,omitempty" json:"die_size,omitempty"`
	DamageType string   `yaml:"damage_type,omitempty" json:"damage_type,omitempty"`
	Override   bool     `yaml:"override,omitempty" json:"override,omitempty"`
	Ignored    bool     `yaml:"ignored,omitempty" json:"ignored,omitempty"`
}

// Validate reports every problem with e.
func (e Element) Validate() error {
	var errs []error
	switch e.Key {
	case KeyFlatModifier:
		if e.Selector == "" {
			errs = append(errs, errors.New("FlatModifier requires a selector"))
		}
		if e.Label == "" {
			errs = append(errs, errors.New("FlatModifier requires a label"))
		}
	case KeyNote:
		if e.Selector == "" {
			errs = append(errs, errors.New("Note requires a selector"))
		}
		if e.Text == "" {
			errs = append(errs, errors.New("Note requires text"))
		}
	case KeyDamageDice:
		if e.Selector == "" {
			errs = append(errs, errors.New("DamageDice requires a selector"))
		}
		if e.DieSize == "" {
			errs = append(errs, errors.New("DamageDice requires a die_size"))
		}
	case KeyDexterityModifierCap:
	default:
		errs = append(errs, fmt.Errorf("unknown rule element key %q", e.Key))
	}
	return errors.Join(errs...)
}

// DexCap is an upper bound on the dexterity modifier applied to AC.
type DexCap struct {
	Value  int    `json:"value"`
	Source string `json:"source"`
}

// Output is the result of evaluating every rule element for one pass.
type Output struct {
	Bag     *modifier.Bag
	DexCaps []DexCap
}

// NewOutput returns an empty Output.
func NewOutput() Output {
	return Output{Bag: modifier.NewBag()}
}

// Apply adds e, contributed by item source, to o.
//
// Postcondition: an invalid element leaves o unchanged and returns an error.
func (o *Output) Apply(source string, e Element) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if o.Bag == nil {
		o.Bag = modifier.NewBag()
	}
	switch e.Key {
	case KeyFlatModifier:
		m := modifier.New(e.Label, e.Value, modifier.ParseKind(e.Type))
		m.Source = source
		m.Ignored = e.Ignored
		o.Bag.Add(e.Selector, m)
	case KeyNote:
		o.Bag.AddNote(modifier.Note{
			Selector: e.Selector,
			Text:     e.Text,
			Outcome:  append([]string(nil), e.Outcome...),
		})
	case KeyDamageDice:
		o.Bag.AddDice(modifier.DiceModification{
			Selector:   e.Selector,
			Label:      e.Label,
			DiceNumber: e.DiceNumber,
			DieSize:    e.DieSize,
			DamageType: e.DamageType,
			Override:   e.Override,
		})
	case KeyDexterityModifierCap:
		o.DexCaps = append(o.DexCaps, DexCap{Value: e.Value, Source: source})
	}
	return nil
}

// Merge appends other into o.
func (o *Output) Merge(other Output) {
	if o.Bag == nil {
		o.Bag = modifier.NewBag()
	}
	o.Bag.Merge(other.Bag)
	o.DexCaps = append(o.DexCaps, other.DexCaps...)
}

// Item is the rules-relevant view of an owned item.
type Item struct {
	ID    string
	Name  string
	Type  string
	Rules []Element
}

// Subject is the rules-relevant view of an NPC.
type Subject struct {
	ID     string
	Name   string
	Level  int
	Traits []string
	Items  []Item
	// Conditions maps each condition on the NPC to its value.
	Conditions map[string]int
}

// Source produces the rule output for a subject.
type Source interface {
	Collect(ctx context.Context, subject Subject) (Output, error)
}

// ItemSource applies the rule elements stored on the subject's items.
type ItemSource struct{}

// Collect implements Source. Invalid elements are skipped and reported in
// the joined error; the output holds every valid element.
func (ItemSource) Collect(ctx context.Context, subject Subject) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	out := NewOutput()
	var errs []error
	for _, item := range subject.Items {
		for i, e := range item.Rules {
			if err := out.Apply(item.ID, e); err != nil {
				errs = append(errs, fmt.Errorf("item %q rule %d: %w", item.Name, i, err))
			}
		}
	}
	return out, errors.Join(errs...)
}

// Chain runs every source in order and merges their outputs.
type Chain []Source

// Collect implements Source. A failing source still contributes whatever
// partial output it returned; errors are joined.
func (c Chain) Collect(ctx context.Context, subject Subject) (Output, error) {
	out := NewOutput()
	var errs []error
	for _, src := range c {
		o, err := src.Collect(ctx, subject)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Output{}, ctxErr
			}
			errs = append(errs, err)
		}
		out.Merge(o)
	}
	return out, errors.Join(errs...)
}
