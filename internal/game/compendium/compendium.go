// Package compendium holds reference entries for named abilities such as
// the attack effects NPC strikes carry.
package compendium

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEntryNotFound is returned by Lookup when no entry matches.
var ErrEntryNotFound = errors.New("compendium: entry not found")

// Entry is one glossary record loaded from YAML.
type Entry struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Traits      []string `yaml:"traits"`
}

// Validate reports every problem with e.
func (e *Entry) Validate() error {
	var errs []error
	if e.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if e.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	return errors.Join(errs...)
}

// Glossary holds entries keyed by lower-cased name and by ID.
//
// A Glossary is read-only after loading and safe for concurrent Lookup.
type Glossary struct {
	byName map[string]*Entry
	byID   map[string]*Entry
}

// NewGlossary creates an empty Glossary.
func NewGlossary() *Glossary {
	return &Glossary{byName: make(map[string]*Entry), byID: make(map[string]*Entry)}
}

// Register adds e, replacing any entry with the same ID or name.
//
// Precondition: e is non-nil and valid.
func (g *Glossary) Register(e *Entry) {
	g.byID[e.ID] = e
	g.byName[normalize(e.Name)] = e
}

// Lookup finds an entry by case-insensitive name, falling back to ID.
//
// Postcondition: returns ErrEntryNotFound (wrapped) when nothing matches.
func (g *Glossary) Lookup(ctx context.Context, name string) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	if e, ok := g.byName[normalize(name)]; ok {
		return *e, nil
	}
	if e, ok := g.byID[name]; ok {
		return *e, nil
	}
	return Entry{}, fmt.Errorf("%w: %q", ErrEntryNotFound, name)
}

// Len returns the number of registered entries.
func (g *Glossary) Len() int {
	return len(g.byID)
}

// Names returns every entry name, sorted.
func (g *Glossary) Names() []string {
	out := make([]string, 0, len(g.byID))
	for _, e := range g.byID {
		out = append(out, e.Name)
	}
	sort.Strings(out)
	return out
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// LoadDirectory reads every *.yaml file in dir. Each file holds one or more
// YAML documents, each an Entry.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns a populated Glossary, or an error naming the first
// file that fails to parse or validate.
func LoadDirectory(dir string) (*Glossary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading compendium dir %q: %w", dir, err)
	}
	g := NewGlossary()
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, de.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		if err := g.load(data); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
	}
	return g, nil
}

func (g *Glossary) load(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	for {
		var e Entry
		err := dec.Decode(&e)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := e.Validate(); err != nil {
			return fmt.Errorf("entry %q: %w", e.ID, err)
		}
		g.Register(&e)
	}
}
