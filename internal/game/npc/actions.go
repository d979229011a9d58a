package npc

import (
	"context"
	"strings"

	"github.com/cory-johannsen/bestiary/internal/game/check"
	"github.com/cory-johannsen/bestiary/internal/game/modifier"
)

// RollArgs are the caller-supplied parameters of a roll request.
type RollArgs struct {
	Options   []string
	DC        *check.DC
	Modifiers []modifier.Modifier
}

// proficiencyRanks maps a stored proficiency rank to its roll option value.
var proficiencyRanks = []string{"untrained", "trained", "expert", "master", "legendary"}

// ProficiencyOption returns the "proficiency:<rank>" roll option for rank,
// clamped to the known ranks.
func ProficiencyOption(rank int) string {
	rank = max(0, min(rank, len(proficiencyRanks)-1))
	return "proficiency:" + proficiencyRanks[rank]
}

// CheckAction is a roll descriptor for a save, perception, skill or spell
// attack. It holds an immutable copy of the finalized statistic.
type CheckAction struct {
	ID        string             `json:"id"`
	Label     string             `json:"label"`
	Type      check.Type         `json:"type"`
	Statistic check.StatSnapshot `json:"statistic"`
	Notes     []modifier.Note    `json:"notes,omitempty"`
	// Proficiency, when set, is added as a roll option unless the caller
	// already supplied a proficiency option.
	Proficiency string `json:"proficiency,omitempty"`
}

// Spec builds the check specification for one roll.
//
// Postcondition: the returned spec shares no slices with a.
func (a *CheckAction) Spec(args RollArgs) check.Spec {
	options := append([]string(nil), args.Options...)
	if a.Proficiency != "" && !hasPrefix(options, "proficiency:") {
		options = append(options, a.Proficiency)
	}
	return check.Spec{
		Label:     a.Label,
		Statistic: a.Statistic,
		Type:      a.Type,
		Options:   options,
		DC:        args.DC,
		Notes:     append([]modifier.Note(nil), a.Notes...),
		Extra:     append([]modifier.Modifier(nil), args.Modifiers...),
	}
}

// Roll hands the check to exec.
func (a *CheckAction) Roll(ctx context.Context, exec check.Executor, args RollArgs) (check.Result, error) {
	return exec.Check(ctx, a.Spec(args))
}

func hasPrefix(options []string, prefix string) bool {
	for _, o := range options {
		if strings.HasPrefix(o, prefix) {
			return true
		}
	}
	return false
}
