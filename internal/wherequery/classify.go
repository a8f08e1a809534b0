package wherequery

import (
	"slices"
	"strings"

	"github.com/roach88/wherequery/internal/filter"
	"github.com/roach88/wherequery/internal/writer"
)

// ColType is the operator category assigned to a filter key.
type ColType string

const (
	TypeQuery     ColType = "query"
	TypeFrom      ColType = "from"
	TypeTo        ColType = "to"
	TypeLike      ColType = "like"
	TypeNotLike   ColType = "notLike"
	TypeMatch     ColType = "match"
	TypeDiscarded ColType = "discarded"
)

// Key prefixes recognized by Classify.
const (
	PrefixTo      = "to_"
	PrefixFrom    = "from_"
	PrefixLike    = "like_"
	PrefixNotLike = "not_like_"
	PrefixNot     = "not_"

	// MatchKey is the column-less key searching every allowed column.
	MatchKey = "match"
)

// NoSearchableMessage is reported when the allowed column list is empty.
const NoSearchableMessage = "There are no allowed columns, all columns will be ignored"

// prefixRule maps a key prefix to the type it selects.
type prefixRule struct {
	prefix string
	typ    ColType
}

// prefixRules are tried in order; not_like_ must precede not_.
// not_ keys classify as query and are negated at dispatch.
var prefixRules = []prefixRule{
	{PrefixTo, TypeTo},
	{PrefixFrom, TypeFrom},
	{PrefixLike, TypeLike},
	{PrefixNotLike, TypeNotLike},
	{PrefixNot, TypeQuery},
}

// Classify assigns a ColType to key given the allowed columns.
//
// The first matching rule wins: the key itself is an allowed column, then
// each prefix whose remainder is an allowed column, then the match key.
// Anything else is discarded with an ignoring diagnostic naming the key.
// Both key and cols are compared in NFC form.
func Classify(key string, cols []string) writer.Writer[ColType] {
	return classify(filter.NormalizeKey(key), filter.NormalizeKeys(cols))
}

// classify is Classify for an already normalized key and whitelist.
func classify(key string, cols []string) writer.Writer[ColType] {
	if slices.Contains(cols, key) {
		return writer.Of(TypeQuery)
	}

	for _, rule := range prefixRules {
		if col, ok := strings.CutPrefix(key, rule.prefix); ok && slices.Contains(cols, col) {
			return writer.Of(rule.typ)
		}
	}

	if key == MatchKey {
		if len(cols) > 0 {
			return writer.Of(TypeMatch)
		}
		return writer.New(TypeDiscarded, noSearchable())
	}

	return writer.New(TypeDiscarded, writer.Diagnostic{Type: writer.TypeIgnoring, Message: key})
}

// isNegated reports whether a query-typed key is a not_ key rather than an
// allowed column on its own.
func isNegated(key string, cols []string) bool {
	if slices.Contains(cols, key) {
		return false
	}
	col, ok := strings.CutPrefix(key, PrefixNot)
	return ok && slices.Contains(cols, col)
}

func noSearchable() writer.Diagnostic {
	return writer.Diagnostic{Type: writer.TypeNoSearchable, Message: NoSearchableMessage}
}
