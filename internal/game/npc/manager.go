package npc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/bestiary/internal/game/adjustment"
	"github.com/cory-johannsen/bestiary/internal/game/condition"
)

// ErrInstanceNotFound is returned when no live instance has the given id.
var ErrInstanceNotFound = errors.New("npc instance not found")

// Manager tracks the latest derived view of every live NPC by ID.
// All methods are safe for concurrent use. Passes run outside the lock;
// when two passes for the same NPC race, the last to complete is kept.
type Manager struct {
	mu        sync.RWMutex
	instances map[string]*Instance
	preparer  *Preparer
	revision  atomic.Uint64
	now       func() time.Time
}

// NewManager creates an empty NPC Manager.
//
// Precondition: preparer must be non-nil.
func NewManager(preparer *Preparer) *Manager {
	return &Manager{
		instances: make(map[string]*Instance),
		preparer:  preparer,
		now:       time.Now,
	}
}

// Spawn creates a new instance from tmpl with a fresh UUID and prepares it.
//
// Precondition: tmpl must be non-nil.
// Postcondition: Returns the published Instance.
func (m *Manager) Spawn(ctx context.Context, tmpl *Template) (*Instance, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("npc.Manager.Spawn: tmpl must not be nil")
	}
	snap, err := tmpl.NewSnapshot(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("npc.Manager.Spawn: %w", err)
	}
	snap.PinBaseHP()
	inst := &Instance{
		TemplateID:  tmpl.ID,
		Description: tmpl.Description,
		Snapshot:    snap,
		Loot:        tmpl.Loot,
	}
	return m.publish(ctx, inst)
}

// Add prepares and publishes an existing snapshot, e.g. one loaded from
// storage. A snapshot without an id is given a fresh UUID. Spawned and
// added snapshots have their hit point base pinned (see PinBaseHP).
//
// Precondition: snap must be non-nil.
func (m *Manager) Add(ctx context.Context, snap *Snapshot) (*Instance, error) {
	if snap == nil {
		return nil, fmt.Errorf("npc.Manager.Add: snap must not be nil")
	}
	s, err := snap.Clone()
	if err != nil {
		return nil, fmt.Errorf("npc.Manager.Add: %w", err)
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.PinBaseHP()
	return m.publish(ctx, &Instance{Snapshot: s})
}

// Get returns the instance with the given ID.
//
// Postcondition: Returns (inst, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(id string) (*Instance, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inst, ok := m.instances[id]
	return inst, ok
}

// Update applies fn to a copy of the instance's snapshot, re-derives it and
// publishes the result.
//
// Precondition: fn must not retain the snapshot.
// Postcondition: on error nothing is published.
func (m *Manager) Update(ctx context.Context, id string, fn func(*Snapshot) error) (*Instance, error) {
	cur, ok := m.Get(id)
	if !ok {
		return nil, fmt.Errorf("npc.Manager.Update %q: %w", id, ErrInstanceNotFound)
	}
	snap, err := cur.Snapshot.Clone()
	if err != nil {
		return nil, fmt.Errorf("npc.Manager.Update %q: %w", id, err)
	}
	if err := fn(snap); err != nil {
		return nil, fmt.Errorf("npc.Manager.Update %q: %w", id, err)
	}
	snap.ID = id
	next := *cur
	next.Snapshot = snap
	return m.publish(ctx, &next)
}

// Refresh re-derives an instance from its current snapshot, e.g. after the
// rule scripts changed.
func (m *Manager) Refresh(ctx context.Context, id string) (*Instance, error) {
	return m.Update(ctx, id, func(*Snapshot) error { return nil })
}

// ApplyTier moves an instance to tier, adjusting its current hit points and
// tier traits. The current tier is read from every trait source, custom
// traits included. Applying the tier it already has is a no-op pass.
func (m *Manager) ApplyTier(ctx context.Context, id string, tier adjustment.Tier) (*Instance, error) {
	return m.Update(ctx, id, func(s *Snapshot) error {
		current := adjustment.TierOf(NormalizeTraits(s.Traits))
		if current == tier {
			return nil
		}
		s.Attributes.HP.Value = Number(adjustment.ShiftHP(current, tier, s.Level.Int(), s.Attributes.HP.Value.Int()))
		s.Traits.Value = adjustment.WithTier(tier, s.Traits.Value)
		s.Traits.Custom = withoutTierTraits(s.Traits.Custom)
		return nil
	})
}

// ApplyCondition adds stacks of def to an instance, capped at the
// condition's maximum. The penalties take effect only when the preparer's
// source includes a condition.Source.
//
// Precondition: def must be non-nil.
func (m *Manager) ApplyCondition(ctx context.Context, id string, def *condition.ConditionDef, stacks int) (*Instance, error) {
	return m.Update(ctx, id, func(s *Snapshot) error {
		s.Conditions = s.Conditions.Apply(def, stacks)
		return nil
	})
}

// RemoveCondition clears a condition from an instance.
func (m *Manager) RemoveCondition(ctx context.Context, id, conditionID string) (*Instance, error) {
	return m.Update(ctx, id, func(s *Snapshot) error {
		s.Conditions = s.Conditions.Remove(conditionID)
		return nil
	})
}

// SetAttitude changes an instance's attitude.
func (m *Manager) SetAttitude(ctx context.Context, id string, attitude Attitude) (*Instance, error) {
	if _, err := ParseAttitude(string(attitude)); err != nil {
		return nil, err
	}
	return m.Update(ctx, id, func(s *Snapshot) error {
		s.Traits.Attitude = attitude
		return nil
	})
}

// SetDisposition changes an instance's attitude to match a token disposition.
func (m *Manager) SetDisposition(ctx context.Context, id string, d Disposition) (*Instance, error) {
	return m.SetAttitude(ctx, id, AttitudeFromDisposition(d))
}

// Remove deletes an instance by ID.
//
// Postcondition: Returns an error wrapping ErrInstanceNotFound if absent.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.instances[id]; !ok {
		return fmt.Errorf("npc instance %q: %w", id, ErrInstanceNotFound)
	}
	delete(m.instances, id)
	return nil
}

// List returns every live instance ordered by ID.
//
// Postcondition: Returns a non-nil slice (may be empty).
func (m *Manager) List() []*Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Instance, 0, len(m.instances))
	for _, inst := range m.instances {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FindByName returns the first instance, in ID order, whose name has target
// as a case-insensitive prefix. Returns nil if no match is found.
func (m *Manager) FindByName(target string) *Instance {
	lower := strings.ToLower(target)
	for _, inst := range m.List() {
		if strings.HasPrefix(strings.ToLower(inst.Name()), lower) {
			return inst
		}
	}
	return nil
}

// publish prepares inst.Snapshot and stores the result under its ID.
func (m *Manager) publish(ctx context.Context, inst *Instance) (*Instance, error) {
	derived, err := m.preparer.Prepare(ctx, inst.Snapshot)
	if err != nil {
		return nil, err
	}
	inst.ID = inst.Snapshot.ID
	inst.Derived = derived
	inst.PreparedAt = m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	inst.Revision = m.revision.Add(1)
	m.instances[inst.ID] = inst
	return inst, nil
}
