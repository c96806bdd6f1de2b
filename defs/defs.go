// Package defs builds a castkit.Registry from a declarative YAML (or JSON)
// document:
//
//	types:
//	  NamedAPIResource:
//	    object:
//	      fields:
//	        - {json: name, type: string}
//	        - {json: url, type: string}
//	  Variety:
//	    object:
//	      unknown: strict
//	      fields:
//	        - {json: is_default, name: isDefault, type: boolean}
//	        - {json: pokemon, type: {ref: NamedAPIResource}}
//
// A type expression is either a scalar (string, number, boolean, null,
// undefined, any, date) or a mapping with a single key: array, optional,
// nullable, map, union, enum, literal, ref or object.
package defs

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	castkit "github.com/reoring/castkit"
)

// Error locates a problem in a definitions document.
type Error struct {
	Path string // Dotted path of the offending expression, e.g. "Variety.fields[1].type".
	Line int
	Col  int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("defs: %s at %d:%d: %s", e.Path, e.Line, e.Col, e.Msg)
}

// LoadFile reads and loads the document at path.
func LoadFile(path string) (*castkit.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	return Parse(data)
}

// Load reads a document from r.
func Load(r io.Reader) (*castkit.Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	return Parse(data)
}

// Parse builds a validated Registry from document bytes.
func Parse(data []byte) (*castkit.Registry, error) {
	nodes, err := ParseNodes(data)
	if err != nil {
		return nil, err
	}
	return castkit.NewRegistry(nodes)
}

// ParseNodes returns the schema nodes declared by the document without
// validating references.
func ParseNodes(data []byte) (map[string]castkit.Node, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		if err == io.EOF {
			return nil, &Error{Path: "types", Msg: "empty document"}
		}
		return nil, fmt.Errorf("decode definitions: %w", err)
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil, fail(doc, "", "document must be a mapping")
	}
	types := lookup(doc, "types")
	if types == nil {
		return nil, fail(doc, "types", "missing types section")
	}
	if types.Kind != yaml.MappingNode {
		return nil, fail(types, "types", "types must be a mapping")
	}

	out := make(map[string]castkit.Node, len(types.Content)/2)
	for i := 0; i+1 < len(types.Content); i += 2 {
		name := types.Content[i].Value
		if _, dup := out[name]; dup {
			return nil, fail(types.Content[i], name, "duplicate type name")
		}
		n, err := expr(types.Content[i+1], name)
		if err != nil {
			return nil, err
		}
		out[name] = n
	}
	return out, nil
}

var scalars = map[string]func() castkit.Node{
	"string":    castkit.String,
	"number":    castkit.Number,
	"boolean":   castkit.Bool,
	"null":      castkit.Null,
	"undefined": castkit.Undefined,
	"any":       castkit.Any,
	"date":      castkit.Date,
}

func expr(n *yaml.Node, path string) (castkit.Node, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		mk, ok := scalars[n.Value]
		if !ok {
			return nil, fail(n, path, fmt.Sprintf("unknown type %q", n.Value))
		}
		return mk(), nil
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, fail(n, path, "type mapping must have exactly one key")
		}
		return compound(n.Content[0].Value, n.Content[1], path)
	case yaml.AliasNode:
		return expr(n.Alias, path)
	}
	return nil, fail(n, path, "type must be a scalar or a mapping")
}

func compound(kind string, v *yaml.Node, path string) (castkit.Node, error) {
	sub := path + "." + kind
	switch kind {
	case "array", "optional", "nullable", "map":
		elem, err := expr(v, sub)
		if err != nil {
			return nil, err
		}
		switch kind {
		case "array":
			return castkit.Array(elem), nil
		case "optional":
			return castkit.Optional(elem), nil
		case "nullable":
			return castkit.Nullable(elem), nil
		}
		return castkit.Map(elem), nil
	case "union":
		if v.Kind != yaml.SequenceNode || len(v.Content) == 0 {
			return nil, fail(v, sub, "union needs a non-empty list")
		}
		members := make([]castkit.Node, len(v.Content))
		for i, m := range v.Content {
			n, err := expr(m, fmt.Sprintf("%s[%d]", sub, i))
			if err != nil {
				return nil, err
			}
			members[i] = n
		}
		return castkit.Union(members...), nil
	case "enum":
		var cases []string
		if v.Kind != yaml.SequenceNode || v.Decode(&cases) != nil || len(cases) == 0 {
			return nil, fail(v, sub, "enum needs a non-empty list of strings")
		}
		return castkit.Enum(cases...), nil
	case "literal":
		var val any
		if err := v.Decode(&val); err != nil {
			return nil, fail(v, sub, err.Error())
		}
		return castkit.Literal(val), nil
	case "ref":
		if v.Kind != yaml.ScalarNode || v.Value == "" {
			return nil, fail(v, sub, "ref needs a type name")
		}
		return castkit.Ref(v.Value), nil
	case "object":
		return object(v, sub)
	}
	return nil, fail(v, path, fmt.Sprintf("unknown type constructor %q", kind))
}

type fieldDoc struct {
	JSON string    `yaml:"json"`
	Name string    `yaml:"name"`
	Type yaml.Node `yaml:"type"`
}

func object(v *yaml.Node, path string) (castkit.Node, error) {
	if v.Kind != yaml.MappingNode {
		return nil, fail(v, path, "object must be a mapping")
	}
	policy := castkit.UnknownStrip
	if u := lookup(v, "unknown"); u != nil {
		p, ok := castkit.ParseUnknownPolicy(u.Value)
		if !ok {
			return nil, fail(u, path+".unknown", fmt.Sprintf("unknown policy %q", u.Value))
		}
		policy = p
	}
	var additional castkit.Node
	if a := lookup(v, "additional"); a != nil {
		if policy != castkit.UnknownPassthrough {
			return nil, fail(a, path+".additional", "additional requires unknown: passthrough")
		}
		n, err := expr(a, path+".additional")
		if err != nil {
			return nil, err
		}
		additional = n
	}

	var fields []castkit.FieldSpec
	seenWire := map[string]bool{}
	seenName := map[string]bool{}
	if fs := lookup(v, "fields"); fs != nil {
		if fs.Kind != yaml.SequenceNode {
			return nil, fail(fs, path+".fields", "fields must be a list")
		}
		for i, item := range fs.Content {
			fp := fmt.Sprintf("%s.fields[%d]", path, i)
			var fd fieldDoc
			if err := item.Decode(&fd); err != nil {
				return nil, fail(item, fp, err.Error())
			}
			if fd.JSON == "" {
				return nil, fail(item, fp, "field needs a json key")
			}
			if fd.Name == "" {
				fd.Name = fd.JSON
			}
			if seenWire[fd.JSON] || seenName[fd.Name] {
				return nil, fail(item, fp, fmt.Sprintf("duplicate field %q", fd.JSON))
			}
			seenWire[fd.JSON], seenName[fd.Name] = true, true
			if fd.Type.Kind == 0 {
				return nil, fail(item, fp, "field needs a type")
			}
			n, err := expr(&fd.Type, fp+".type")
			if err != nil {
				return nil, err
			}
			fields = append(fields, castkit.Rename(fd.JSON, fd.Name, n))
		}
	}
	return castkit.Object(fields...).WithPolicy(policy, additional), nil
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func fail(n *yaml.Node, path, msg string) error {
	return &Error{Path: path, Line: n.Line, Col: n.Column, Msg: msg}
}
