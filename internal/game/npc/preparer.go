package npc

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/bestiary/internal/game/rules"
)

// Preparer runs complete derivation passes: it collects rule output for a
// snapshot and derives every statistic from it.
type Preparer struct {
	source rules.Source
	opts   Options
	logger *zap.Logger
}

// NewPreparer returns a Preparer. A nil source applies only the rule
// elements stored on the snapshot's items.
//
// Precondition: logger must be non-nil.
func NewPreparer(source rules.Source, opts Options, logger *zap.Logger) *Preparer {
	if source == nil {
		source = rules.ItemSource{}
	}
	return &Preparer{source: source, opts: opts, logger: logger}
}

// Prepare derives snap. Rule elements that fail to apply are logged and
// skipped; the pass still completes with everything that did apply.
//
// Precondition: snap must be non-nil.
// Postcondition: the only error returned is a context error.
func (p *Preparer) Prepare(ctx context.Context, snap *Snapshot) (*Derived, error) {
	out, err := p.source.Collect(ctx, snap.Subject())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("preparing npc %q: %w", snap.ID, ctxErr)
		}
		p.logger.Warn("rule elements partially applied",
			zap.String("npc", snap.ID),
			zap.Error(err),
		)
	}
	d := Derive(snap, out, p.opts)
	p.logger.Debug("npc prepared",
		zap.String("npc", snap.ID),
		zap.String("tier", string(d.Tier)),
		zap.Int("hp", d.HP.Value),
		zap.Int("ac", d.AC.Value),
		zap.Int("strikes", len(d.Strikes)),
	)
	return d, nil
}
