package filter

import (
	"fmt"
	"time"
)

// Value is a sealed interface over the values a filter key may carry.
type Value interface {
	filterValue() // Sealed - only these types implement it
}

// Null represents an absent or null value.
type Null struct{}

func (Null) filterValue() {}

// String is a text scalar.
type String string

func (String) filterValue() {}

// Int is an integer scalar.
type Int int64

func (Int) filterValue() {}

// Float is a floating point scalar.
type Float float64

func (Float) filterValue() {}

// Bool is a boolean scalar.
type Bool bool

func (Bool) filterValue() {}

// Time is a date or timestamp.
type Time struct {
	time.Time
}

func (Time) filterValue() {}

// Array is an ordered sequence of scalars.
type Array []Value

func (Array) filterValue() {}

// NewTime wraps t as a Time value.
func NewTime(t time.Time) Time {
	return Time{Time: t}
}

// NewArray creates an Array from values.
func NewArray(vals ...Value) Array {
	return Array(vals)
}

// Strings is a shorthand for an Array of String values.
func Strings(vals ...string) Array {
	arr := make(Array, len(vals))
	for i, v := range vals {
		arr[i] = String(v)
	}
	return arr
}

// IsNull reports whether v is Null. A nil Value counts as Null.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// Native converts v to the Go value a database driver binds.
// Arrays are not bindable as a single parameter and return an error.
func Native(v Value) (any, error) {
	switch val := v.(type) {
	case nil, Null:
		return nil, nil
	case String:
		return string(val), nil
	case Int:
		return int64(val), nil
	case Float:
		return float64(val), nil
	case Bool:
		return bool(val), nil
	case Time:
		return val.Time, nil
	case Array:
		return nil, fmt.Errorf("array cannot be bound as a single parameter")
	default:
		return nil, fmt.Errorf("unsupported filter value type: %T", v)
	}
}

// scalar validates that v may appear inside an Array.
func scalar(v Value) error {
	switch v.(type) {
	case String, Int, Float, Bool, Time, Null:
		return nil
	case Array:
		return fmt.Errorf("nested arrays are not allowed in filter values")
	default:
		return fmt.Errorf("unsupported filter value type: %T", v)
	}
}
