package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	data := []byte(`{
		"column1": 1,
		"to_column2": "1970-01-01T00:00:00.500Z",
		"column4": ["some value", "other value"],
		"ratio": 0.5,
		"active": true,
		"not_column7": null,
		"table.column6": "complex"
	}`)

	f, err := ParseJSON(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"column1", "to_column2", "column4", "ratio", "active", "not_column7", "table.column6"}, f.Keys())

	v, _ := f.Get("column1")
	assert.Equal(t, Int(1), v)
	v, _ = f.Get("column4")
	assert.Equal(t, Strings("some value", "other value"), v)
	v, _ = f.Get("ratio")
	assert.Equal(t, Float(0.5), v)
	v, _ = f.Get("active")
	assert.Equal(t, Bool(true), v)
	v, _ = f.Get("not_column7")
	assert.Equal(t, Null{}, v)
}

func TestParseJSON_Empty(t *testing.T) {
	f, err := ParseJSON([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, 0, f.Len())
}

func TestParseJSON_Errors(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{"not an object", `[1, 2]`},
		{"nested object", `{"a": {"b": 1}}`},
		{"nested array", `{"a": [[1]]}`},
		{"object in array", `{"a": [{"b": 1}]}`},
		{"trailing data", `{"a": 1} {"b": 2}`},
		{"malformed", `{"a": `},
		{"null document", `null`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tc.data))
			assert.Error(t, err)
		})
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
column1: 1
to_column2: !!timestamp 2001-12-14T21:59:43Z
column4:
  - some value
  - other value
ratio: 0.5
active: true
not_column7: null
name: "42"
`)

	f, err := ParseYAML(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"column1", "to_column2", "column4", "ratio", "active", "not_column7", "name"}, f.Keys())

	v, _ := f.Get("column1")
	assert.Equal(t, Int(1), v)
	v, _ = f.Get("to_column2")
	require.IsType(t, Time{}, v)
	assert.True(t, v.(Time).Equal(time.Date(2001, 12, 14, 21, 59, 43, 0, time.UTC)))
	v, _ = f.Get("column4")
	assert.Equal(t, Strings("some value", "other value"), v)
	v, _ = f.Get("ratio")
	assert.Equal(t, Float(0.5), v)
	v, _ = f.Get("active")
	assert.Equal(t, Bool(true), v)
	v, _ = f.Get("not_column7")
	assert.Equal(t, Null{}, v)
	v, _ = f.Get("name")
	assert.Equal(t, String("42"), v)
}

func TestParseYAML_Empty(t *testing.T) {
	f, err := ParseYAML([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, 0, f.Len())
}

func TestParseYAML_Errors(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{"sequence root", "- a\n- b\n"},
		{"nested mapping", "a:\n  b: 1\n"},
		{"nested sequence", "a:\n  - [1, 2]\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tc.data))
			assert.Error(t, err)
		})
	}
}

func TestParseQuery(t *testing.T) {
	f, err := ParseQuery("?column1=1&like_name=%25jo%25&tags=a&tags=b&ids[]=7&not_deleted_at&table.col=x+y")
	require.NoError(t, err)

	assert.Equal(t, []string{"column1", "like_name", "tags", "ids", "not_deleted_at", "table.col"}, f.Keys())

	v, _ := f.Get("column1")
	assert.Equal(t, String("1"), v)
	v, _ = f.Get("like_name")
	assert.Equal(t, String("%jo%"), v)
	v, _ = f.Get("tags")
	assert.Equal(t, Strings("a", "b"), v)
	v, _ = f.Get("ids")
	assert.Equal(t, Strings("7"), v)
	v, _ = f.Get("not_deleted_at")
	assert.Equal(t, Null{}, v)
	v, _ = f.Get("table.col")
	assert.Equal(t, String("x y"), v)
}

func TestParseQuery_Empty(t *testing.T) {
	f, err := ParseQuery("")
	require.NoError(t, err)
	assert.Equal(t, 0, f.Len())
}

func TestParseQuery_InvalidEscape(t *testing.T) {
	_, err := ParseQuery("a=%zz")
	assert.Error(t, err)
}
