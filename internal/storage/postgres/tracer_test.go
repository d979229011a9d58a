package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/bestiary/internal/storage/postgres"
)

func TestQueryLogger_LogsQueries(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	tr := postgres.NewQueryLogger(zap.New(core))

	ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT id\n  FROM npc_snapshots"})
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("SELECT 2")})

	entries := logs.FilterMessage("query").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.DebugLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "SELECT id FROM npc_snapshots", fields["sql"])
	assert.Equal(t, "SELECT 2", fields["tag"])
}

func TestQueryLogger_WarnsOnFailure(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	tr := postgres.NewQueryLogger(zap.New(core))

	ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "DELETE FROM npc_snapshots"})
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: errors.New("permission denied")})

	entries := logs.FilterMessage("query failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, "permission denied", entries[0].ContextMap()["error"])
}

func TestQueryLogger_EndWithoutStart(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	postgres.NewQueryLogger(zap.New(core)).TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{})
	assert.Equal(t, 1, logs.Len())
}
