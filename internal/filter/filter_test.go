package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	// Compile-time check that every variant implements Value
	var _ Value = Null{}
	var _ Value = String("test")
	var _ Value = Int(42)
	var _ Value = Float(1.5)
	var _ Value = Bool(true)
	var _ Value = NewTime(time.Unix(0, 0))
	var _ Value = Array{String("a"), Int(1)}
}

func TestFilterPreservesInsertionOrder(t *testing.T) {
	f := New(
		P("zebra", Int(1)),
		P("apple", Int(2)),
		P("mango", Int(3)),
	)

	assert.Equal(t, []string{"zebra", "apple", "mango"}, f.Keys())
	assert.Equal(t, 3, f.Len())
}

func TestFilterSetExistingKeepsPosition(t *testing.T) {
	f := New(P("a", Int(1)), P("b", Int(2)))

	f.Set("a", Int(10))

	assert.Equal(t, []string{"a", "b"}, f.Keys())
	v, ok := f.Get("a")
	require.True(t, ok)
	assert.Equal(t, Int(10), v)
}

func TestFilterNilValueStoredAsNull(t *testing.T) {
	f := New(P("a", nil))

	v, ok := f.Get("a")
	require.True(t, ok)
	assert.Equal(t, Null{}, v)
}

func TestFilterNormalizesKeys(t *testing.T) {
	// "é" precomposed (U+00E9) vs "e" + combining acute (U+0065 U+0301)
	f := New(P("caf\u00e9", Int(1)))
	f.Set("cafe\u0301", Int(2))

	assert.Equal(t, 1, f.Len())
	v, ok := f.Get("cafe\u0301")
	require.True(t, ok)
	assert.Equal(t, Int(2), v)
}

func TestNormalizeKeys(t *testing.T) {
	cols := []string{"cafe\u0301", "plain"}

	got := NormalizeKeys(cols)

	assert.Equal(t, []string{"caf\u00e9", "plain"}, got)
	assert.Equal(t, "cafe\u0301", cols[0], "input is not modified")
	assert.Nil(t, NormalizeKeys(nil))
}

func TestFilterZeroValue(t *testing.T) {
	var f Filter
	f.Set("a", String("x"))

	assert.Equal(t, []string{"a"}, f.Keys())
}

func TestFilterNil(t *testing.T) {
	var f *Filter

	assert.Equal(t, 0, f.Len())
	assert.Nil(t, f.Keys())
	_, ok := f.Get("a")
	assert.False(t, ok)
	for range f.All() {
		t.Fatal("nil filter should not yield")
	}
}

func TestFilterAll(t *testing.T) {
	f := New(P("b", Int(1)), P("a", String("x")))

	var keys []string
	var values []Value
	for k, v := range f.All() {
		keys = append(keys, k)
		values = append(values, v)
	}

	assert.Equal(t, []string{"b", "a"}, keys)
	assert.Equal(t, []Value{Int(1), String("x")}, values)
}

func TestIsNull(t *testing.T) {
	assert.True(t, IsNull(nil))
	assert.True(t, IsNull(Null{}))
	assert.False(t, IsNull(String("")))
	assert.False(t, IsNull(Array{}))
}

func TestNative(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	testCases := []struct {
		name  string
		value Value
		want  any
	}{
		{"null", Null{}, nil},
		{"nil", nil, nil},
		{"string", String("x"), "x"},
		{"int", Int(7), int64(7)},
		{"float", Float(1.5), 1.5},
		{"bool", Bool(true), true},
		{"time", NewTime(ts), ts},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Native(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := Native(Strings("a"))
	assert.Error(t, err)
}
