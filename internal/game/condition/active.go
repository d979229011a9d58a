package condition

import "sort"

// Set maps each condition on an NPC to its value. Unstackable conditions
// have value 1. A Set is a value type: every method returns a new Set and
// leaves the receiver unchanged.
type Set map[string]int

// Apply adds or raises a condition.
// If the condition is already present, its value is incremented (capped at MaxStacks).
// If MaxStacks == 0 (unstackable), the value is always stored as 1.
//
// Precondition: def must not be nil.
// Postcondition: the result has def.ID with a value in [1, max(1, MaxStacks)];
// a non-positive stacks leaves s unchanged.
func (s Set) Apply(def *ConditionDef, stacks int) Set {
	out := s.clone()
	if stacks <= 0 {
		return out
	}
	if def.MaxStacks == 0 {
		out[def.ID] = 1
		return out
	}
	v := out[def.ID] + stacks
	if v > def.MaxStacks {
		v = def.MaxStacks
	}
	out[def.ID] = v
	return out
}

// Remove returns s without the condition id. Removing an absent condition
// is a no-op.
func (s Set) Remove(id string) Set {
	out := s.clone()
	delete(out, id)
	return out
}

// Has reports whether the condition with id is present.
func (s Set) Has(id string) bool {
	return s[id] > 0
}

// Stacks returns the value of condition id, or 0 if not present.
func (s Set) Stacks(id string) int {
	return s[id]
}

// IDs returns the present conditions in sorted order.
func (s Set) IDs() []string {
	out := make([]string, 0, len(s))
	for id, v := range s {
		if v > 0 {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (s Set) clone() Set {
	out := make(Set, len(s)+1)
	for id, v := range s {
		out[id] = v
	}
	return out
}
