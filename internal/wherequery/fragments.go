package wherequery

import (
	"fmt"
	"strings"

	"github.com/roach88/wherequery/internal/filter"
	"github.com/roach88/wherequery/internal/writer"
)

// FromClause compares a timestamp column against a lower bound.
func FromClause(key string, _ filter.Value, _ []string) string {
	col := strings.TrimPrefix(key, PrefixFrom)
	return fmt.Sprintf("%s::timestamp >= $%s::timestamp", col, ParamName(key))
}

// ToClause compares a timestamp column against an upper bound.
func ToClause(key string, _ filter.Value, _ []string) string {
	col := strings.TrimPrefix(key, PrefixTo)
	return fmt.Sprintf("%s::timestamp <= $%s::timestamp", col, ParamName(key))
}

// LikeClause matches a column case-insensitively against a pattern.
func LikeClause(key string, _ filter.Value, _ []string) string {
	col := strings.TrimPrefix(key, PrefixLike)
	return fmt.Sprintf("%s::text ILIKE $%s", col, ParamName(key))
}

// NotLikeClause excludes rows whose column matches a pattern.
func NotLikeClause(key string, _ filter.Value, _ []string) string {
	col := strings.TrimPrefix(key, PrefixNotLike)
	return fmt.Sprintf("%s::text NOT ILIKE $%s", col, ParamName(key))
}

// NotClause is the negated form of QueryClause for not_ keys.
func NotClause(key string, value filter.Value, _ []string) writer.Writer[string] {
	col := strings.TrimPrefix(key, PrefixNot)
	return writer.Map(Placeholder(key, value, true), func(p string) string {
		return col + " " + p
	})
}

// QueryClause compares key's column for equality, membership or nullness.
func QueryClause(key string, value filter.Value, _ []string) writer.Writer[string] {
	return writer.Map(Placeholder(key, value, false), func(p string) string {
		return key + " " + p
	})
}

// MatchClause searches every allowed column, in order, for the match
// pattern. It returns false when there is no column to search.
func MatchClause(key string, _ filter.Value, cols []string) (string, bool) {
	if len(cols) == 0 {
		return "", false
	}
	name := ParamName(key)
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = fmt.Sprintf("%s::text ILIKE $%s", col, name)
	}
	return "(" + strings.Join(parts, " OR ") + ")", true
}
