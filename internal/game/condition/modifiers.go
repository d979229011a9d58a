package condition

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/bestiary/internal/game/rules"
)

// Source is a rules.Source that applies the penalties of the subject's
// conditions.
type Source struct {
	Registry *Registry
}

// Collect implements rules.Source. Conditions missing from the registry are
// skipped and reported in the joined error.
func (s Source) Collect(ctx context.Context, subject rules.Subject) (rules.Output, error) {
	if err := ctx.Err(); err != nil {
		return rules.Output{}, err
	}
	out := rules.NewOutput()
	ids := make([]string, 0, len(subject.Conditions))
	for id, v := range subject.Conditions {
		if v > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var errs []error
	for _, id := range ids {
		def, ok := s.lookup(id)
		if !ok {
			errs = append(errs, fmt.Errorf("condition %q is not defined", id))
			continue
		}
		for _, e := range def.Elements(subject.Conditions[id]) {
			if err := out.Apply("condition:"+id, e); err != nil {
				errs = append(errs, fmt.Errorf("condition %q: %w", id, err))
			}
		}
	}
	return out, errors.Join(errs...)
}

func (s Source) lookup(id string) (*ConditionDef, bool) {
	if s.Registry == nil {
		return nil, false
	}
	return s.Registry.Get(id)
}
