package querysql

import (
	"fmt"

	"github.com/roach88/wherequery/internal/filter"
	"github.com/roach88/wherequery/internal/wherequery"
	"github.com/roach88/wherequery/internal/writer"
)

// Config describes a queryable table.
type Config struct {
	// Name identifies the resource in configuration and on the CLI.
	Name string `json:"name"`

	// Table is the table (or view) to select from.
	Table string `json:"table"`

	// Columns are the allowed filter columns, in match order.
	Columns []string `json:"columns"`

	// ReturnOne limits the query to a single row.
	ReturnOne bool `json:"returnOne"`
}

// Query is a compiled statement ready for binding.
type Query struct {
	SQL        string         `json:"sql"`
	Parameters map[string]any `json:"parameters"`
	ReturnOne  bool           `json:"returnOne"`
}

// Compiler compiles filters against a single Config.
type Compiler struct {
	cfg Config
}

// NewCompiler creates a Compiler for cfg.
func NewCompiler(cfg Config) *Compiler {
	return &Compiler{cfg: cfg}
}

// Config returns the compiler's configuration.
func (c *Compiler) Config() Config {
	return c.cfg
}

// Compile builds the SELECT statement for f.
// Diagnostics from the WHERE compiler are carried in the returned Writer.
// An error is returned only when a value cannot be bound as a parameter.
func (c *Compiler) Compile(f *filter.Filter) (writer.Writer[Query], error) {
	if c.cfg.Table == "" {
		return writer.Writer[Query]{}, fmt.Errorf("compile %q: table is required", c.cfg.Name)
	}

	params, err := Parameters(f, c.cfg.Columns)
	if err != nil {
		return writer.Writer[Query]{}, fmt.Errorf("compile %q: %w", c.cfg.Name, err)
	}

	return writer.Map(wherequery.WhereQuery(f, c.cfg.Columns), func(where string) Query {
		sql := "SELECT * FROM " + c.cfg.Table
		if where != "" {
			sql += " " + where
		}
		if c.cfg.ReturnOne {
			sql += " LIMIT 1"
		}
		return Query{SQL: sql, Parameters: params, ReturnOne: c.cfg.ReturnOne}
	}), nil
}

// Parameters returns the value of every placeholder WhereQuery emits for f.
//
// Array elements are bound under their indexed names. Null values and the
// deprecated IS (NOT) NULL strings compile to literals and are not bound.
// Discarded keys are skipped.
func Parameters(f *filter.Filter, cols []string) (map[string]any, error) {
	params := make(map[string]any)
	if len(cols) == 0 {
		return params, nil
	}

	for _, w := range wherequery.SortQueryType(f, cols) {
		entry := w.Value()
		if entry.Type == wherequery.TypeDiscarded {
			continue
		}
		if entry.Type == wherequery.TypeQuery && (filter.IsNull(entry.Value) || wherequery.IsDeprecatedNull(entry.Value)) {
			continue
		}

		if arr, ok := entry.Value.(filter.Array); ok && entry.Type == wherequery.TypeQuery {
			for i, elem := range arr {
				v, err := filter.Native(elem)
				if err != nil {
					return nil, fmt.Errorf("parameter %q[%d]: %w", entry.Col, i, err)
				}
				params[wherequery.ElementParamName(entry.Col, i+1)] = v
			}
			continue
		}

		v, err := filter.Native(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", entry.Col, err)
		}
		params[wherequery.ParamName(entry.Col)] = v
	}
	return params, nil
}
