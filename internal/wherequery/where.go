package wherequery

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/wherequery/internal/filter"
	"github.com/roach88/wherequery/internal/writer"
)

// Entry is a classified filter key.
type Entry struct {
	Type  ColType      `json:"type"`
	Col   string       `json:"col"`
	Value filter.Value `json:"value"`
}

// SortQueryType classifies every key of f, in key order. Each result
// carries the diagnostics produced for that key.
func SortQueryType(f *filter.Filter, cols []string) []writer.Writer[Entry] {
	cols = filter.NormalizeKeys(cols)
	entries := make([]writer.Writer[Entry], 0, f.Len())
	for key, value := range f.All() {
		entries = append(entries, writer.Map(classify(key, cols), func(t ColType) Entry {
			return Entry{Type: t, Col: key, Value: value}
		}))
	}
	return entries
}

// WhereQuery compiles f into a WHERE clause restricted to cols.
//
// Clauses follow key order, except the match clause which always comes
// last. Keys that do not resolve to an allowed column are reported in one
// ignoring diagnostic at the end of the log. With no allowed columns the
// filter is not inspected and the clause is empty. When no clause
// survives, the result is the empty string rather than a bare WHERE.
// Allowed columns are compared and emitted in NFC form, like filter keys.
func WhereQuery(f *filter.Filter, cols []string) writer.Writer[string] {
	cols = filter.NormalizeKeys(cols)
	if len(cols) == 0 {
		return writer.New("", noSearchable())
	}

	var (
		fragments []string
		match     string
		hasMatch  bool
		ignored   []string
		log       []writer.Diagnostic
	)

	for _, w := range SortQueryType(f, cols) {
		entry, entryLog := w.Read()
		for _, d := range entryLog {
			if d.Type != writer.TypeIgnoring {
				log = append(log, d)
			}
		}

		switch entry.Type {
		case TypeDiscarded:
			ignored = append(ignored, entry.Col)
		case TypeMatch:
			match, hasMatch = MatchClause(entry.Col, entry.Value, cols)
		case TypeFrom:
			fragments = append(fragments, FromClause(entry.Col, entry.Value, cols))
		case TypeTo:
			fragments = append(fragments, ToClause(entry.Col, entry.Value, cols))
		case TypeLike:
			fragments = append(fragments, LikeClause(entry.Col, entry.Value, cols))
		case TypeNotLike:
			fragments = append(fragments, NotLikeClause(entry.Col, entry.Value, cols))
		case TypeQuery:
			var clause writer.Writer[string]
			if isNegated(entry.Col, cols) {
				clause = NotClause(entry.Col, entry.Value, cols)
			} else {
				clause = QueryClause(entry.Col, entry.Value, cols)
			}
			sql, clauseLog := clause.Read()
			fragments = append(fragments, sql)
			log = append(log, clauseLog...)
		}
	}

	if hasMatch {
		fragments = append(fragments, match)
	}

	if len(ignored) > 0 {
		// Most recently seen key first.
		slices.Reverse(ignored)
		log = append(log, writer.Diagnostic{
			Type: writer.TypeIgnoring,
			Message: fmt.Sprintf("Ignoring columns: [%s]. Allowed columns: [%s]",
				strings.Join(ignored, ", "), strings.Join(cols, ", ")),
		})
	}

	return writer.New(joinClauses(fragments), log...)
}

// joinClauses prefixes the first fragment with WHERE and the rest with AND.
func joinClauses(fragments []string) string {
	if len(fragments) == 0 {
		return ""
	}
	var b strings.Builder
	for i, frag := range fragments {
		if i == 0 {
			b.WriteString("WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		b.WriteString(frag)
	}
	return b.String()
}

// LogDiagnostics writes each diagnostic to logger. Deprecation warnings are
// logged at Warn, everything else at Info.
func LogDiagnostics(ctx context.Context, logger *slog.Logger, log []writer.Diagnostic) {
	if logger == nil {
		return
	}
	for _, d := range log {
		level := slog.LevelInfo
		if d.Type == writer.TypeWarn {
			level = slog.LevelWarn
		}
		logger.LogAttrs(ctx, level, "filter diagnostic",
			slog.String("type", string(d.Type)),
			slog.String("message", d.Message))
	}
}
