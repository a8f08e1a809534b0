package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/wherequery/internal/querysql"
	"github.com/roach88/wherequery/internal/writer"
)

// Compilation is one recorded run of the compiler.
type Compilation struct {
	ID          string              `json:"id"`
	Seq         int64               `json:"seq"`
	Resource    string              `json:"resource"`
	Filter      string              `json:"filter"`
	SQL         string              `json:"sql"`
	Parameters  json.RawMessage     `json:"parameters"`
	Diagnostics []writer.Diagnostic `json:"diagnostics"`
}

// NewCompilation captures a compiled query for recording.
// filterText is the filter as the caller supplied it (JSON, YAML or query string).
func NewCompilation(resource, filterText string, compiled writer.Writer[querysql.Query]) (Compilation, error) {
	q, log := compiled.Read()

	params := q.Parameters
	if params == nil {
		params = map[string]any{}
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return Compilation{}, fmt.Errorf("marshal parameters: %w", err)
	}

	return Compilation{
		Resource:    resource,
		Filter:      filterText,
		SQL:         q.SQL,
		Parameters:  paramsJSON,
		Diagnostics: log,
	}, nil
}

// Record appends c to the history. An empty ID is replaced by one from the
// store's IDGenerator (UUIDv7 by default). The returned Compilation carries
// the assigned ID and seq.
// Recording the same ID twice is a no-op.
func (s *Store) Record(ctx context.Context, c Compilation) (Compilation, error) {
	if c.ID == "" {
		c.ID = s.ids.Generate()
	}
	if c.Parameters == nil {
		c.Parameters = json.RawMessage("{}")
	}
	if c.Diagnostics == nil {
		c.Diagnostics = []writer.Diagnostic{}
	}

	diagJSON, err := json.Marshal(c.Diagnostics)
	if err != nil {
		return Compilation{}, fmt.Errorf("record compilation: marshal diagnostics: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO compilations
		(id, seq, resource, filter, sql, parameters, diagnostics)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM compilations), ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		c.ID,
		c.Resource,
		c.Filter,
		c.SQL,
		string(c.Parameters),
		string(diagJSON),
	)
	if err != nil {
		return Compilation{}, fmt.Errorf("record compilation: %w", err)
	}

	return s.Get(ctx, c.ID)
}
