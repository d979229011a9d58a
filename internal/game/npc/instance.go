package npc

import "time"

// Instance is one live NPC: its stored snapshot and the view derived from
// it by the latest completed pass. An Instance is never mutated once
// published by the Manager; updates publish a replacement.
type Instance struct {
	// ID uniquely identifies this runtime instance.
	ID string
	// TemplateID is the source template's ID, empty for imported snapshots.
	TemplateID string
	// Description is copied from the template.
	Description string
	// Snapshot is the stored state the derived view was computed from.
	Snapshot *Snapshot
	// Derived is the output of the latest pass.
	Derived *Derived
	// Loot is the loot table copied from the template; nil means no loot.
	Loot *LootTable
	// Revision increases with every published pass.
	Revision uint64
	// PreparedAt is when the derived view was computed.
	PreparedAt time.Time
}

// Name is the instance's display name.
func (i *Instance) Name() string {
	return i.Snapshot.Name
}

// IsDead reports whether the instance has zero or fewer hit points.
func (i *Instance) IsDead() bool {
	return i.Derived.HP.Value <= 0
}

// HealthDescription summarizes remaining hit points for stat block output.
//
// Postcondition: Returns a non-empty string.
func (i *Instance) HealthDescription() string {
	hp := i.Derived.HP
	if hp.Value <= 0 {
		return "dead"
	}
	if hp.Max <= 0 {
		return "unharmed"
	}
	pct := float64(hp.Value) / float64(hp.Max)
	switch {
	case pct >= 1.0:
		return "unharmed"
	case pct >= 0.85:
		return "barely scratched"
	case pct >= 0.60:
		return "lightly wounded"
	case pct >= 0.40:
		return "moderately wounded"
	case pct >= 0.20:
		return "heavily wounded"
	default:
		return "critically wounded"
	}
}
