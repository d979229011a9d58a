package npc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/bestiary/internal/game/compendium"
	"github.com/cory-johannsen/bestiary/internal/game/modifier"
)

// EffectLookup resolves attack effect names that the NPC does not own.
type EffectLookup interface {
	Lookup(ctx context.Context, name string) (compendium.Entry, error)
}

// EffectGatherer builds the roll notes describing a strike's attack effects.
// It is safe for concurrent use.
type EffectGatherer struct {
	lookup EffectLookup
	logger *zap.Logger
}

// NewEffectGatherer returns a gatherer. A nil lookup means only owned items
// can describe effects.
//
// Precondition: logger must be non-nil.
func NewEffectGatherer(lookup EffectLookup, logger *zap.Logger) *EffectGatherer {
	return &EffectGatherer{lookup: lookup, logger: logger}
}

// Gather returns one note for the strike description, if any, followed by
// one note per resolvable attack effect in the order listed. Each effect is
// resolved from an owned item with the same name (case-insensitive) and
// otherwise from the lookup; lookups run concurrently. Unresolvable effects
// are logged at Warn and produce no note.
//
// Postcondition: the only error returned is a context error.
func (g *EffectGatherer) Gather(ctx context.Context, description string, effects []string, owned []Item) ([]modifier.Note, error) {
	var notes []modifier.Note
	if description != "" {
		notes = append(notes, modifier.Note{Selector: modifier.TagAll, Text: description})
	}

	resolved := make([]*modifier.Note, len(effects))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, effect := range effects {
		if item := findOwned(owned, effect); item != nil {
			resolved[i] = &modifier.Note{Selector: modifier.TagAll, Text: effectText(effect, item.Description)}
			continue
		}
		if g.lookup == nil {
			g.warnMissing(effect, nil)
			continue
		}
		eg.Go(func() error {
			entry, err := g.lookup.Lookup(egCtx, effect)
			if err != nil {
				if ctxErr := egCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				g.warnMissing(effect, err)
				return nil
			}
			resolved[i] = &modifier.Note{Selector: modifier.TagAll, Text: effectText(effect, entry.Description)}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("gathering attack effects: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("gathering attack effects: %w", err)
	}

	for _, n := range resolved {
		if n != nil {
			notes = append(notes, *n)
		}
	}
	return notes, nil
}

func (g *EffectGatherer) warnMissing(effect string, err error) {
	fields := []zap.Field{zap.String("attack_effect", effect)}
	if err != nil && !errors.Is(err, compendium.ErrEntryNotFound) {
		fields = append(fields, zap.Error(err))
	}
	g.logger.Warn("attack effect not found", fields...)
}

func findOwned(items []Item, name string) *Item {
	for i := range items {
		if strings.EqualFold(items[i].Name, name) {
			return &items[i]
		}
	}
	return nil
}

func effectText(name, description string) string {
	if description == "" {
		return name
	}
	return name + ": " + description
}
