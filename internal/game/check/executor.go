package check

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/bestiary/internal/game/dice"
)

// Executor rolls checks and damage.
type Executor interface {
	Check(ctx context.Context, spec Spec) (Result, error)
	RollDamage(ctx context.Context, spec DamageSpec, degree Degree) (DamageResult, error)
}

// DiceExecutor rolls checks with a d20 from a dice.Roller.
type DiceExecutor struct {
	roller *dice.Roller
	logger *zap.Logger
}

// NewDiceExecutor returns a DiceExecutor.
//
// Precondition: roller and logger must be non-nil.
func NewDiceExecutor(roller *dice.Roller, logger *zap.Logger) *DiceExecutor {
	return &DiceExecutor{roller: roller, logger: logger}
}

// Check rolls d20 + spec.Modifier() and grades it against spec.DC if set.
//
// Postcondition: result.Total == result.Natural + spec.Modifier().
func (e *DiceExecutor) Check(ctx context.Context, spec Spec) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("rolling %q: %w", spec.Label, err)
	}
	natural := e.roller.D20()
	res := Result{Spec: spec, Natural: natural, Total: natural + spec.Modifier()}
	if spec.DC != nil {
		d := DegreeOf(natural, res.Total, spec.DC.Value)
		res.Degree = &d
	}
	res.Notes = FilterNotes(spec.Notes, res.Degree)

	fields := []zap.Field{
		zap.String("label", spec.Label),
		zap.String("type", string(spec.Type)),
		zap.Int("natural", natural),
		zap.Int("total", res.Total),
		zap.Strings("options", spec.Options),
	}
	if res.Degree != nil {
		fields = append(fields, zap.Int("dc", spec.DC.Value), zap.Stringer("degree", *res.Degree))
	}
	e.logger.Info("check rolled", fields...)
	return res, nil
}

// RollDamage rolls spec's formula. A critical success doubles the total.
//
// Postcondition: result.Total >= 0.
func (e *DiceExecutor) RollDamage(ctx context.Context, spec DamageSpec, degree Degree) (DamageResult, error) {
	if err := ctx.Err(); err != nil {
		return DamageResult{}, fmt.Errorf("rolling damage %q: %w", spec.Label, err)
	}
	roll := e.roller.RollFormula(spec.Formula)
	total := roll.Total()
	if spec.Multiplier > 1 {
		total *= spec.Multiplier
	}
	critical := degree == CriticalSuccess
	if critical {
		total *= 2
	}
	if total < 0 {
		total = 0
	}
	e.logger.Info("damage rolled",
		zap.String("label", spec.Label),
		zap.String("formula", spec.Formula.String()),
		zap.String("damage_type", spec.DamageType),
		zap.Int("total", total),
		zap.Bool("critical", critical),
	)
	return DamageResult{Spec: spec, Roll: roll, Total: total, Critical: critical}, nil
}
