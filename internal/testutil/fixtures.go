// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"time"

	"github.com/roach88/wherequery/internal/filter"
)

// ReferenceColumns is the whitelist paired with ReferenceFilter.
func ReferenceColumns() []string {
	return []string{
		"column1", "column2", "column3", "column4", "column5",
		"table.column6", "column7", "column9",
	}
}

// ReferenceFilter uses every key form once: plain, to_, from_, array,
// like_, dotted, not_, not_like_, match, and two keys that are not allowed
// (column8 and ignored).
func ReferenceFilter() *filter.Filter {
	return filter.New(
		filter.P("column1", filter.Int(1)),
		filter.P("to_column2", filter.NewTime(time.UnixMilli(500))),
		filter.P("from_column3", filter.NewTime(time.UnixMilli(800))),
		filter.P("column4", filter.Strings("some value", "other value")),
		filter.P("like_column5", filter.String("contain")),
		filter.P("table.column6", filter.String("complex")),
		filter.P("not_column7", filter.String("different")),
		filter.P("column8", filter.String("ignored")),
		filter.P("not_like_column9", filter.String("not contain")),
		filter.P("match", filter.String("%6%")),
		filter.P("ignored", filter.String("ignored too")),
	)
}
