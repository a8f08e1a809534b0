package querysql

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrUnboundParameter is returned when the SQL references a placeholder with
// no value in Parameters.
var ErrUnboundParameter = errors.New("unbound parameter")

// unknownParam matches a name-like placeholder body that is not in
// Parameters. Positional $1 is not matched.
var unknownParam = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*`)

// Bind rewrites named placeholders into positional $1..$n and returns the
// arguments in position order. A name used several times (such as $match)
// is bound once and reuses its position.
//
// Placeholders are matched against the names in q.Parameters, longest
// first, so any column name the compiler accepts (non-ASCII letters,
// hyphens) binds, and $column41 is never read as $column4.
func Bind(q Query) (string, []any, error) {
	names := paramNames(q.Parameters)
	positions := make(map[string]int)
	var args []any

	var b strings.Builder
	b.Grow(len(q.SQL))
	sql := q.SQL
	for {
		i := strings.IndexByte(sql, '$')
		if i < 0 {
			b.WriteString(sql)
			break
		}
		b.WriteString(sql[:i])
		rest := sql[i+1:]

		name, ok := matchParam(rest, names)
		if !ok {
			if unknown := unknownParam.FindString(rest); unknown != "" {
				return "", nil, fmt.Errorf("%w: %s", ErrUnboundParameter, unknown)
			}
			b.WriteByte('$')
			sql = rest
			continue
		}

		pos, seen := positions[name]
		if !seen {
			args = append(args, q.Parameters[name])
			pos = len(args)
			positions[name] = pos
		}
		b.WriteString("$" + strconv.Itoa(pos))
		sql = rest[len(name):]
	}
	return b.String(), args, nil
}

// paramNames returns the parameter names, longest first.
func paramNames(params map[string]any) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		if name != "" {
			names = append(names, name)
		}
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return names
}

// matchParam returns the longest name that prefixes s and is not followed
// by another identifier character.
func matchParam(s string, names []string) (string, bool) {
	for _, name := range names {
		if strings.HasPrefix(s, name) && !continuesIdent(s[len(name):]) {
			return name, true
		}
	}
	return "", false
}

func continuesIdent(s string) bool {
	if s == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
