// Package filter models the loosely-typed filter object a caller hands to
// the WHERE compiler.
//
// A Filter is an ordered mapping from key to Value. Key order is the order
// of insertion and is observable: the compiler emits clauses in that order.
// Value is a sealed interface; only Null, String, Int, Float, Bool, Time and
// Array implement it. Arrays hold scalars only.
//
// Filters can be built in code with New and P, or parsed from JSON, YAML or
// a raw URL query string. All parsers keep the source key order.
package filter
