// Package npc derives NPC statistics from stored snapshots and manages the
// latest derived view of every live NPC.
package npc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template is a reusable NPC stat block loaded from YAML. Its snapshot is
// copied for every spawned instance.
type Template struct {
	Snapshot    `yaml:",inline"`
	Description string     `yaml:"description"`
	Loot        *LootTable `yaml:"loot"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, level >= -1,
// the attitude is known, every item has a unique id, a name and a type,
// every rule element is valid, and the loot table is valid; returns an error
// on the first violation otherwise.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("npc template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("npc template %q: name must not be empty", t.ID)
	}
	if t.Level.Int() < -1 {
		return fmt.Errorf("npc template %q: level must be >= -1", t.ID)
	}
	if _, err := ParseAttitude(string(t.Traits.Attitude)); err != nil {
		return fmt.Errorf("npc template %q: %w", t.ID, err)
	}
	seen := make(map[string]bool, len(t.Items))
	for i, item := range t.Items {
		if item.ID == "" {
			return fmt.Errorf("npc template %q: item[%d] must have an id", t.ID, i)
		}
		if seen[item.ID] {
			return fmt.Errorf("npc template %q: duplicate item id %q", t.ID, item.ID)
		}
		seen[item.ID] = true
		if item.Name == "" || item.Type == "" {
			return fmt.Errorf("npc template %q: item %q must have a name and a type", t.ID, item.ID)
		}
		for j, rule := range item.Rules {
			if err := rule.Validate(); err != nil {
				return fmt.Errorf("npc template %q: item %q rule %d: %w", t.ID, item.ID, j, err)
			}
		}
	}
	if t.Loot != nil {
		if err := t.Loot.Validate(); err != nil {
			return fmt.Errorf("npc template %q: %w", t.ID, err)
		}
	}
	return nil
}

// NewSnapshot returns an independent copy of the template's snapshot with
// the given instance id.
func (t *Template) NewSnapshot(id string) (*Snapshot, error) {
	s, err := t.Snapshot.Clone()
	if err != nil {
		return nil, fmt.Errorf("npc template %q: %w", t.ID, err)
	}
	s.ID = id
	return s, nil
}

// LoadTemplateFromBytes parses a single NPC template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading npc dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
