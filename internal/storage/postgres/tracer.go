package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type queryStartKey struct{}

type queryStart struct {
	sql string
	at  time.Time
}

// QueryLogger is a pgx query tracer. Queries are logged at debug level and
// failed queries at warn level.
type QueryLogger struct {
	logger *zap.Logger
}

// NewQueryLogger returns a tracer writing to logger.
func NewQueryLogger(logger *zap.Logger) *QueryLogger {
	return &QueryLogger{logger: logger}
}

// TraceQueryStart implements pgx.QueryTracer.
func (q *QueryLogger) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, at: time.Now()})
}

// TraceQueryEnd implements pgx.QueryTracer.
func (q *QueryLogger) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	var elapsed time.Duration
	if ok {
		elapsed = time.Since(start.at)
	}
	fields := []zap.Field{
		zap.String("sql", strings.Join(strings.Fields(start.sql), " ")),
		zap.Duration("elapsed", elapsed),
	}
	if data.Err != nil {
		q.logger.Warn("query failed", append(fields, zap.Error(data.Err))...)
		return
	}
	q.logger.Debug("query", append(fields, zap.String("tag", data.CommandTag.String()))...)
}
