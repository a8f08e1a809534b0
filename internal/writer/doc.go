// Package writer provides Writer, an immutable value paired with an ordered
// log of diagnostics.
//
// Every step of the filter compiler returns a Writer so that diagnostics
// accumulate through composition instead of being threaded by hand:
//
//	w := writer.Chain(Classify(key, cols), func(t ColType) writer.Writer[string] {
//	    ...
//	})
//
// Composition laws:
//   - Map(w, identity) leaves value and log unchanged
//   - Chain concatenates logs in call order (outer first, then inner)
//   - No combinator drops or reorders an entry already in a log
//
// Writers are values; combinators copy logs and never mutate their inputs,
// so a Writer may be shared between goroutines.
package writer
