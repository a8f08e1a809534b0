// Package wherequery compiles a filter object into a parameterized Postgres
// WHERE clause.
//
// Filter keys name a column and, through a prefix, an operator:
//
//	column          column = $column        (IN (...) for arrays, IS NULL for null)
//	not_column      column != $not_column   (NOT IN (...), IS NOT NULL)
//	from_column     column::timestamp >= $from_column::timestamp
//	to_column       column::timestamp <= $to_column::timestamp
//	like_column     column::text ILIKE $like_column
//	not_like_column column::text NOT ILIKE $not_like_column
//	match           (col1::text ILIKE $match OR col2::text ILIKE $match ...)
//
// Only keys that resolve to an allowed column take part. Everything else is
// reported, never rejected: every function returns a writer.Writer whose
// log carries ignoring, warn and no searchable diagnostics.
//
// Placeholders are named after the filter key with dots replaced by a
// double underscore ($table__column); array elements append a 1-based index.
// Output is a pure function of the input, so the compiler needs no locking.
package wherequery
