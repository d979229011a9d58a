// Package condition defines the conditions an NPC can suffer and turns the
// conditions on an NPC into rule elements.
package condition

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/bestiary/internal/game/rules"
)

// Penalty is one modifier a condition imposes, scaled by its value.
type Penalty struct {
	Selector string `yaml:"selector"`
	// Type is the modifier kind; empty means status.
	Type string `yaml:"type"`
	// PerStack is the magnitude subtracted per condition value.
	PerStack int `yaml:"per_stack"`
}

// ConditionDef is the static definition of a condition, loaded from YAML.
type ConditionDef struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	MaxStacks   int       `yaml:"max_stacks"` // 0 = unstackable
	Penalties   []Penalty `yaml:"penalties"`
	// Note is attached to every check when non-empty.
	Note string `yaml:"note"`
}

// Validate reports every problem with d.
func (d *ConditionDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if d.MaxStacks < 0 {
		errs = append(errs, errors.New("max_stacks must be >= 0"))
	}
	for i, p := range d.Penalties {
		if p.Selector == "" {
			errs = append(errs, fmt.Errorf("penalty %d: selector must not be empty", i))
		}
		if p.PerStack <= 0 {
			errs = append(errs, fmt.Errorf("penalty %d: per_stack must be > 0", i))
		}
	}
	return errors.Join(errs...)
}

// Label is the display label for d at value, e.g. "Frightened 2".
func (d *ConditionDef) Label(value int) string {
	if d.MaxStacks == 0 {
		return d.Name
	}
	return fmt.Sprintf("%s %d", d.Name, value)
}

// Elements returns the rule elements d imposes at value.
//
// Precondition: value >= 1.
func (d *ConditionDef) Elements(value int) []rules.Element {
	if d.MaxStacks == 0 {
		value = 1
	}
	label := d.Label(value)
	out := make([]rules.Element, 0, len(d.Penalties)+1)
	for _, p := range d.Penalties {
		kind := p.Type
		if kind == "" {
			kind = "status"
		}
		out = append(out, rules.Element{
			Key:      rules.KeyFlatModifier,
			Selector: p.Selector,
			Label:    label,
			Value:    -p.PerStack * value,
			Type:     kind,
		})
	}
	if d.Note != "" {
		out = append(out, rules.Element{Key: rules.KeyNote, Selector: "all", Text: label + ": " + d.Note})
	}
	return out
}

// Registry holds all known ConditionDefs keyed by ID.
type Registry struct {
	defs map[string]*ConditionDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*ConditionDef)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *ConditionDef) {
	r.defs[def.ID] = def
}

// Get returns the ConditionDef for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*ConditionDef, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns every registered ConditionDef sorted by ID.
func (r *Registry) All() []*ConditionDef {
	out := make([]*ConditionDef, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a ConditionDef,
// and returns a populated Registry.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to
// parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading condition dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def ConditionDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("invalid condition in %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
