package wherequery

import (
	"strconv"
	"strings"

	"github.com/roach88/wherequery/internal/filter"
	"github.com/roach88/wherequery/internal/writer"
)

// DeprecatedNullMessage is reported when a null check is spelled as a string.
const DeprecatedNullMessage = "Passing `IS (NOT) NULL` to filter value is deprecated, please pass null directly with not_ prefix if needed"

// deprecatedNullValues are passed through verbatim for older callers.
var deprecatedNullValues = map[filter.String]bool{
	"IS_NULL":     true,
	"IS NULL":     true,
	"IS_NOT_NULL": true,
	"IS NOT NULL": true,
}

// ParamName returns the placeholder name for a filter key.
// Example: "table.column" → "table__column"
func ParamName(key string) string {
	return strings.ReplaceAll(key, ".", "__")
}

// ElementParamName returns the placeholder name of the i-th (1-based)
// element of an array value.
func ElementParamName(key string, i int) string {
	return ParamName(key) + strconv.Itoa(i)
}

// IsDeprecatedNull reports whether v is one of the string spellings of a
// null check.
func IsDeprecatedNull(v filter.Value) bool {
	s, ok := v.(filter.String)
	return ok && deprecatedNullValues[s]
}

// Placeholder returns the comparison that follows the column name for key.
//
//	deprecated null string → passed through, with a warn diagnostic
//	null                   → IS NULL / IS NOT NULL
//	array                  → IN ($key1, $key2) / NOT IN (...)
//	scalar                 → = $key / != $key
func Placeholder(key string, value filter.Value, negate bool) writer.Writer[string] {
	if IsDeprecatedNull(value) {
		return writer.New(string(value.(filter.String)), writer.Diagnostic{
			Type:    writer.TypeWarn,
			Message: DeprecatedNullMessage,
		})
	}

	if filter.IsNull(value) {
		if negate {
			return writer.Of("IS NOT NULL")
		}
		return writer.Of("IS NULL")
	}

	if arr, ok := value.(filter.Array); ok {
		names := make([]string, len(arr))
		for i := range arr {
			names[i] = "$" + ElementParamName(key, i+1)
		}
		op := "IN"
		if negate {
			op = "NOT IN"
		}
		return writer.Of(op + " (" + strings.Join(names, ", ") + ")")
	}

	if negate {
		return writer.Of("!= $" + ParamName(key))
	}
	return writer.Of("= $" + ParamName(key))
}
