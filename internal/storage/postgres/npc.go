package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/bestiary/internal/game/npc"
)

// ErrNPCNotFound is returned when no stored snapshot has the requested id.
var ErrNPCNotFound = errors.New("npc not found")

// StoredNPC is one persisted NPC snapshot.
type StoredNPC struct {
	Snapshot   *npc.Snapshot
	TemplateID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NPCRepository persists NPC snapshots as JSONB documents.
type NPCRepository struct {
	db *pgxpool.Pool
}

// NewNPCRepository creates an NPCRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewNPCRepository(db *pgxpool.Pool) *NPCRepository {
	return &NPCRepository{db: db}
}

// Save inserts snap or replaces the stored snapshot with the same id.
//
// Precondition: snap must be non-nil with a non-empty ID.
// Postcondition: Returns the stored row with its timestamps.
func (r *NPCRepository) Save(ctx context.Context, templateID string, snap *npc.Snapshot) (*StoredNPC, error) {
	if snap == nil || snap.ID == "" {
		return nil, errors.New("saving npc: snapshot must have an id")
	}
	doc, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding npc %q: %w", snap.ID, err)
	}

	out := StoredNPC{TemplateID: templateID}
	err = r.db.QueryRow(ctx, `
		INSERT INTO npc_snapshots (id, template_id, name, level, snapshot)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET template_id = EXCLUDED.template_id,
		    name        = EXCLUDED.name,
		    level       = EXCLUDED.level,
		    snapshot    = EXCLUDED.snapshot,
		    updated_at  = NOW()
		RETURNING created_at, updated_at`,
		snap.ID, templateID, snap.Name, snap.Level.Int(), doc,
	).Scan(&out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("saving npc %q: %w", snap.ID, err)
	}
	var stored npc.Snapshot
	if err := json.Unmarshal(doc, &stored); err != nil {
		return nil, fmt.Errorf("decoding npc %q: %w", snap.ID, err)
	}
	out.Snapshot = &stored
	return &out, nil
}

// SaveInstance stores a live instance's snapshot under its template id.
func (r *NPCRepository) SaveInstance(ctx context.Context, inst *npc.Instance) (*StoredNPC, error) {
	return r.Save(ctx, inst.TemplateID, inst.Snapshot)
}

// Get returns the snapshot stored under id.
//
// Postcondition: Returns ErrNPCNotFound if no row matches.
func (r *NPCRepository) Get(ctx context.Context, id string) (*StoredNPC, error) {
	row := r.db.QueryRow(ctx, `
		SELECT snapshot, template_id, created_at, updated_at
		FROM npc_snapshots WHERE id = $1`, id)
	out, err := scanNPC(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNPCNotFound
		}
		return nil, fmt.Errorf("loading npc %q: %w", id, err)
	}
	return out, nil
}

// List returns every stored snapshot ordered by name, then id.
//
// Postcondition: Returns a non-nil slice (may be empty) or a non-nil error.
func (r *NPCRepository) List(ctx context.Context) ([]*StoredNPC, error) {
	rows, err := r.db.Query(ctx, `
		SELECT snapshot, template_id, created_at, updated_at
		FROM npc_snapshots ORDER BY lower(name), id`)
	if err != nil {
		return nil, fmt.Errorf("listing npcs: %w", err)
	}
	defer rows.Close()

	out := []*StoredNPC{}
	for rows.Next() {
		n, err := scanNPC(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning npc: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing npcs: %w", err)
	}
	return out, nil
}

// Delete removes the snapshot stored under id.
//
// Postcondition: Returns ErrNPCNotFound if no row matched.
func (r *NPCRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM npc_snapshots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting npc %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNPCNotFound
	}
	return nil
}

func scanNPC(row pgx.Row) (*StoredNPC, error) {
	var (
		doc []byte
		out StoredNPC
	)
	if err := row.Scan(&doc, &out.TemplateID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	var snap npc.Snapshot
	if err := json.Unmarshal(doc, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	out.Snapshot = &snap
	return &out, nil
}
