package castkit

import (
	"fmt"

	j "github.com/goccy/go-json"
)

// Bind converts a decoded tree into T through its JSON representation.
// Struct fields should be tagged with logical key names.
func Bind[T any](v any) (T, error) {
	var out T
	b, err := j.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("castkit: bind: %w", err)
	}
	if err := j.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("castkit: bind: %w", err)
	}
	return out, nil
}

// Unbind converts a Go value (typically a struct tagged with logical key
// names) into a generic tree suitable for Encode.
func Unbind(v any) (any, error) {
	b, err := j.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("castkit: unbind: %w", err)
	}
	return ParseJSON(b)
}

// Cast parses data, decodes it against the registered schema name and binds
// the result to T.
func Cast[T any](c *Caster, name string, data []byte, opts ...ParseOpt) (T, error) {
	var zero T
	raw, err := ParseJSON(data, opts...)
	if err != nil {
		return zero, err
	}
	v, err := c.DecodeType(raw, name)
	if err != nil {
		return zero, err
	}
	return Bind[T](v)
}

// Uncast encodes v against the registered schema name and renders JSON
// indented by two spaces.
func Uncast(c *Caster, name string, v any) ([]byte, error) {
	tree, err := Unbind(v)
	if err != nil {
		return nil, err
	}
	wire, err := c.EncodeType(tree, name)
	if err != nil {
		return nil, err
	}
	return MarshalJSONIndent(wire, "", "  ")
}
