package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a compilation does not exist.
var ErrNotFound = errors.New("compilation not found")

const selectCompilation = `
	SELECT id, seq, resource, filter, sql, parameters, diagnostics
	FROM compilations`

// Get returns the compilation with the given id.
func (s *Store) Get(ctx context.Context, id string) (Compilation, error) {
	row := s.db.QueryRowContext(ctx, selectCompilation+` WHERE id = ?`, id)
	c, err := scanCompilation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Compilation{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Compilation{}, err
	}
	return c, nil
}

// List returns recorded compilations in seq order. An empty resource
// lists every resource. A limit of 0 or less means no limit; otherwise the
// most recent limit entries are returned, still in seq order.
//
// Returns an empty slice (not nil) when nothing was recorded.
func (s *Store) List(ctx context.Context, resource string, limit int) ([]Compilation, error) {
	query := `SELECT * FROM (` + selectCompilation + `
		WHERE (? = '' OR resource = ?)
		ORDER BY seq DESC, id COLLATE BINARY DESC`
	args := []any{resource, resource}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	query += `) ORDER BY seq ASC, id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query compilations: %w", err)
	}
	defer rows.Close()

	compilations := []Compilation{}
	for rows.Next() {
		c, err := scanCompilation(rows)
		if err != nil {
			return nil, err
		}
		compilations = append(compilations, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate compilations: %w", err)
	}
	return compilations, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompilation(row rowScanner) (Compilation, error) {
	var c Compilation
	var params, diags string
	if err := row.Scan(&c.ID, &c.Seq, &c.Resource, &c.Filter, &c.SQL, &params, &diags); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Compilation{}, err
		}
		return Compilation{}, fmt.Errorf("scan compilation: %w", err)
	}
	c.Parameters = json.RawMessage(params)
	if err := json.Unmarshal([]byte(diags), &c.Diagnostics); err != nil {
		return Compilation{}, fmt.Errorf("unmarshal diagnostics for %s: %w", c.ID, err)
	}
	return c, nil
}
