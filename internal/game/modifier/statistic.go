package modifier

import (
	"fmt"
	"strings"
)

// Translator renders localization keys into display text.
type Translator interface {
	Localize(key string) string
}

type identity struct{}

func (identity) Localize(key string) string { return key }

// Identity is a Translator that returns keys unchanged.
var Identity Translator = identity{}

// Statistic is an ordered modifier list whose total is always derived from
// the list itself.
//
// Invariant: Total() == sum of Value over Modifiers with Enabled set, where
// Enabled reflects the last ApplyStacking call.
type Statistic struct {
	Name      string     `json:"name"`
	Modifiers []Modifier `json:"modifiers"`
}

// NewStatistic builds a Statistic from mods and resolves stacking.
//
// Postcondition: the returned Statistic owns its own copy of mods.
func NewStatistic(name string, mods ...Modifier) *Statistic {
	s := &Statistic{Name: name, Modifiers: append([]Modifier(nil), mods...)}
	s.ApplyStacking()
	return s
}

// Push appends mods and re-resolves stacking.
func (s *Statistic) Push(mods ...Modifier) {
	s.Modifiers = append(s.Modifiers, mods...)
	s.ApplyStacking()
}

// ApplyStacking resolves the stacking rule in place and returns the total.
//
// Untyped modifiers always count. For every other kind only the greatest
// bonus and the most severe penalty stay enabled; the first occurrence wins
// ties. Ignored modifiers are disabled and take no part in the comparison.
//
// Postcondition: repeated calls with unchanged Modifiers flip no flags.
func (s *Statistic) ApplyStacking() int {
	bestBonus := make(map[Kind]int)
	worstPenalty := make(map[Kind]int)

	for i := range s.Modifiers {
		m := &s.Modifiers[i]
		if m.Ignored {
			m.Enabled = false
			continue
		}
		m.Enabled = true
		if m.Kind.Stacks() {
			continue
		}
		best := bestBonus
		if !m.IsBonus() {
			best = worstPenalty
		}
		j, seen := best[m.Kind]
		if !seen {
			best[m.Kind] = i
			continue
		}
		prev := &s.Modifiers[j]
		if abs(m.Value) > abs(prev.Value) {
			prev.Enabled = false
			best[m.Kind] = i
		} else {
			m.Enabled = false
		}
	}
	return s.Total()
}

// Total sums the enabled modifiers.
func (s *Statistic) Total() int {
	total := 0
	for _, m := range s.Modifiers {
		if m.Enabled {
			total += m.Value
		}
	}
	return total
}

// Enabled returns copies of the enabled modifiers in order.
func (s *Statistic) Enabled() []Modifier {
	out := make([]Modifier, 0, len(s.Modifiers))
	for _, m := range s.Modifiers {
		if m.Enabled {
			out = append(out, m)
		}
	}
	return out
}

// BreakdownParts renders each enabled modifier as "<label> <signed value>".
func (s *Statistic) BreakdownParts(tr Translator) []string {
	if tr == nil {
		tr = Identity
	}
	enabled := s.Enabled()
	out := make([]string, 0, len(enabled))
	for _, m := range enabled {
		out = append(out, fmt.Sprintf("%s %s", tr.Localize(m.Label), m.Signed()))
	}
	return out
}

// Breakdown joins the prefix lines and the enabled modifiers with ", ".
func (s *Statistic) Breakdown(tr Translator, prefix ...string) string {
	parts := append(append([]string(nil), prefix...), s.BreakdownParts(tr)...)
	return strings.Join(parts, ", ")
}

// Clone returns a deep copy.
func (s *Statistic) Clone() *Statistic {
	return &Statistic{Name: s.Name, Modifiers: append([]Modifier(nil), s.Modifiers...)}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
