package filter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ParseJSON decodes a JSON object into a Filter, keeping key order.
// Integers become Int, other numbers Float. Nested objects are rejected.
func ParseJSON(data []byte) (*Filter, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read filter: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("filter must be a JSON object")
	}

	f := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read filter key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("filter key %q: %w", key, err)
		}
		val, err := convertJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("filter key %q: %w", key, err)
		}
		f.Set(key, val)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read filter: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after filter object")
	}
	return f, nil
}

// convertJSON converts a decoded JSON value to a filter Value.
func convertJSON(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return Int(n), nil
		}
		fl, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %s", val)
		}
		return Float(fl), nil
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			item, err := convertJSON(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			if err := scalar(item); err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = item
		}
		return arr, nil
	case map[string]any:
		return nil, fmt.Errorf("objects are not allowed in filter values")
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// ParseYAML decodes a YAML mapping into a Filter, keeping key order.
// Timestamps (!!timestamp) become Time values. An empty document yields an
// empty Filter.
func ParseYAML(data []byte) (*Filter, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse filter: %w", err)
	}

	f := New()
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return f, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("filter must be a YAML mapping (line %d)", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], root.Content[i+1]
		val, err := convertYAML(valNode)
		if err != nil {
			return nil, fmt.Errorf("filter key %q (line %d): %w", keyNode.Value, keyNode.Line, err)
		}
		f.Set(keyNode.Value, val)
	}
	return f, nil
}

// convertYAML converts a YAML node to a filter Value.
func convertYAML(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return convertYAMLScalar(n)
	case yaml.SequenceNode:
		arr := make(Array, len(n.Content))
		for i, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("array[%d]: only scalars are allowed in arrays", i)
			}
			val, err := convertYAMLScalar(item)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = val
		}
		return arr, nil
	case yaml.AliasNode:
		return convertYAML(n.Alias)
	default:
		return nil, fmt.Errorf("mappings are not allowed in filter values")
	}
}

func convertYAMLScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, err
		}
		return Int(i), nil
	case "!!float":
		var fl float64
		if err := n.Decode(&fl); err != nil {
			return nil, err
		}
		return Float(fl), nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, err
		}
		return NewTime(t), nil
	default:
		return String(n.Value), nil
	}
}

// ParseQuery parses a raw URL query string (without the leading '?') into a
// Filter, keeping the order in which keys first appear.
//
// Values stay strings. A repeated key, or a key ending in "[]", becomes an
// Array. A key with no '=' is Null.
func ParseQuery(raw string) (*Filter, error) {
	f := New()
	raw = strings.TrimPrefix(raw, "?")

	for part := range strings.SplitSeq(raw, "&") {
		if part == "" {
			continue
		}
		rawKey, rawVal, hasValue := strings.Cut(part, "=")

		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("invalid query key %q: %w", rawKey, err)
		}
		if !hasValue {
			f.Set(key, Null{})
			continue
		}
		val, err := url.QueryUnescape(rawVal)
		if err != nil {
			return nil, fmt.Errorf("invalid value for query key %q: %w", key, err)
		}

		forceArray := strings.HasSuffix(key, "[]")
		key = strings.TrimSuffix(key, "[]")

		existing, ok := f.Get(key)
		switch {
		case !ok && forceArray:
			f.Set(key, Strings(val))
		case !ok:
			f.Set(key, String(val))
		default:
			f.Set(key, appendValue(existing, String(val)))
		}
	}
	return f, nil
}

// appendValue turns existing into an Array (if needed) and appends v.
func appendValue(existing, v Value) Array {
	switch e := existing.(type) {
	case Array:
		return append(e, v)
	case Null:
		return Array{v}
	default:
		return Array{e, v}
	}
}
