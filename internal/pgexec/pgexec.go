// Package pgexec runs compiled queries against Postgres through a pgx pool.
package pgexec

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roach88/wherequery/internal/querysql"
)

// Result holds the rows of an executed query with column names in order.
type Result struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// Executor wraps a pgx pool.
type Executor struct {
	pool *pgxpool.Pool
}

// Open connects to the database at dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*Executor, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Executor{pool: pool}, nil
}

// Close closes the pool.
func (e *Executor) Close() {
	if e.pool != nil {
		e.pool.Close()
	}
}

// Run binds q and executes it. When q.ReturnOne is set at most one row is
// returned.
func (e *Executor) Run(ctx context.Context, q querysql.Query) (*Result, error) {
	sql, args, err := querysql.Bind(q)
	if err != nil {
		return nil, fmt.Errorf("bind query: %w", err)
	}

	rows, err := e.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	result := &Result{Columns: make([]string, len(fields))}
	for i, fd := range fields {
		result.Columns[i] = fd.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := make(map[string]any, len(fields))
		for i, name := range result.Columns {
			row[name] = values[i]
		}
		result.Rows = append(result.Rows, row)
		if q.ReturnOne {
			break
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}
