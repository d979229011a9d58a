// Package i18n resolves display strings and currency abbreviations for a
// requested locale.
package i18n

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/bestiary/internal/game/inventory"
)

//go:embed locales/*.yaml
var embedded embed.FS

// Catalog is the message set of one locale.
type Catalog struct {
	Tag      string            `yaml:"tag"`
	Currency map[string]string `yaml:"currency"`
	Messages map[string]string `yaml:"messages"`
}

// Validate reports every problem with c.
func (c *Catalog) Validate() error {
	var errs []error
	if c.Tag == "" {
		errs = append(errs, errors.New("tag must not be empty"))
	} else if _, err := language.Parse(c.Tag); err != nil {
		errs = append(errs, fmt.Errorf("tag %q: %w", c.Tag, err))
	}
	for code := range c.Currency {
		if !isDenomination(code) {
			errs = append(errs, fmt.Errorf("currency: unknown denomination %q", code))
		}
	}
	return errors.Join(errs...)
}

func isDenomination(code string) bool {
	for _, d := range inventory.Denominations {
		if string(d) == code {
			return true
		}
	}
	return false
}

// Bundle holds the catalogs of every loaded locale. The first loaded
// catalog is the fallback when nothing matches.
type Bundle struct {
	catalogs []*Catalog
	tags     []language.Tag
	matcher  language.Matcher
}

// NewBundle returns a Bundle with the built-in en-US and de-DE catalogs.
//
// Postcondition: en-US is the fallback locale.
func NewBundle() (*Bundle, error) {
	b := &Bundle{}
	for _, name := range []string{"locales/en-US.yaml", "locales/de-DE.yaml"} {
		data, err := embedded.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading embedded %q: %w", name, err)
		}
		if err := b.Add(data); err != nil {
			return nil, fmt.Errorf("loading embedded %q: %w", name, err)
		}
	}
	return b, nil
}

// LoadFromFS adds every *.yaml catalog found at the top level of fsys.
// Catalogs whose tag is already loaded replace the earlier messages key by
// key.
func (b *Bundle) LoadFromFS(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading locale dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		data, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return fmt.Errorf("reading %q: %w", e.Name(), err)
		}
		if err := b.Add(data); err != nil {
			return fmt.Errorf("loading %q: %w", e.Name(), err)
		}
	}
	return nil
}

// Add parses one YAML catalog and registers it.
func (b *Bundle) Add(data []byte) error {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return fmt.Errorf("parsing catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}
	tag := language.MustParse(c.Tag)
	for i, t := range b.tags {
		if t == tag {
			merge(b.catalogs[i], &c)
			return nil
		}
	}
	b.catalogs = append(b.catalogs, &c)
	b.tags = append(b.tags, tag)
	b.matcher = language.NewMatcher(b.tags)
	return nil
}

func merge(dst, src *Catalog) {
	if dst.Currency == nil {
		dst.Currency = make(map[string]string)
	}
	if dst.Messages == nil {
		dst.Messages = make(map[string]string)
	}
	for k, v := range src.Currency {
		dst.Currency[k] = v
	}
	for k, v := range src.Messages {
		dst.Messages[k] = v
	}
}

// Tags returns the loaded locale tags in load order.
func (b *Bundle) Tags() []string {
	out := make([]string, len(b.tags))
	for i, t := range b.tags {
		out[i] = t.String()
	}
	return out
}

// Localizer returns the localizer for the best match of the requested
// locales, e.g. "de", "de-AT", "en-GB;q=0.8". Unparseable or unmatched
// requests get the fallback locale.
//
// Precondition: at least one catalog is loaded.
func (b *Bundle) Localizer(requested ...string) *Localizer {
	_, idx := language.MatchStrings(b.matcher, requested...)
	fallback := b.catalogs[0]
	if idx < 0 || idx >= len(b.catalogs) {
		idx = 0
	}
	return &Localizer{catalog: b.catalogs[idx], fallback: fallback}
}

// Localizer renders keys for one locale. It satisfies both
// modifier.Translator and inventory.AbbreviationLookup.
type Localizer struct {
	catalog  *Catalog
	fallback *Catalog
}

// Tag is the locale this localizer renders.
func (l *Localizer) Tag() string {
	return l.catalog.Tag
}

// Localize returns the message for key, the fallback locale's message, or
// key itself.
func (l *Localizer) Localize(key string) string {
	if v, ok := l.catalog.Messages[key]; ok {
		return v
	}
	if v, ok := l.fallback.Messages[key]; ok {
		return v
	}
	return key
}

// Abbreviation returns the display abbreviation of d, or "" when this
// locale has no mapping.
func (l *Localizer) Abbreviation(d inventory.Denomination) string {
	return strings.TrimSpace(l.catalog.Currency[string(d)])
}
