package castkit

import (
	"fmt"

	"github.com/reoring/castkit/jsonschema"
)

// ExportJSONSchema describes every registered schema under "$defs". Objects
// are described by their wire keys.
func ExportJSONSchema(reg *Registry) *jsonschema.Schema {
	root := &jsonschema.Schema{Schema: jsonschema.Draft, Defs: map[string]*jsonschema.Schema{}}
	for _, name := range reg.Names() {
		n, _ := reg.Lookup(name)
		s := NodeJSONSchema(n)
		s.Title = name
		root.Defs[name] = s
	}
	return root
}

// NodeJSONSchema describes a single node. References become "$ref" pointers
// into "$defs".
func NodeJSONSchema(n Node) *jsonschema.Schema {
	switch t := n.(type) {
	case *PrimitiveNode:
		if t.Kind == KindUndefined {
			// only meaningful as an optional marker inside unions
			return &jsonschema.Schema{}
		}
		return &jsonschema.Schema{Type: t.Kind.String()}
	case *LiteralNode:
		return &jsonschema.Schema{Const: t.Value}
	case *EnumNode:
		cases := make([]any, len(t.Cases))
		for i, c := range t.Cases {
			cases[i] = c
		}
		return &jsonschema.Schema{Type: "string", Enum: cases}
	case *ArrayNode:
		return &jsonschema.Schema{Type: "array", Items: NodeJSONSchema(t.Elem)}
	case *UnionNode:
		var members []*jsonschema.Schema
		for _, m := range t.Members {
			if isUndefined(m) {
				continue
			}
			members = append(members, NodeJSONSchema(m))
		}
		switch len(members) {
		case 0:
			return &jsonschema.Schema{}
		case 1:
			return members[0]
		}
		return &jsonschema.Schema{AnyOf: members}
	case *ObjectNode:
		return objectJSONSchema(t)
	case *MapNode:
		return &jsonschema.Schema{Type: "object", AdditionalProperties: NodeJSONSchema(t.Elem)}
	case *RefNode:
		return jsonschema.RefTo(t.Name)
	case *AnyNode:
		return &jsonschema.Schema{}
	case *DateNode:
		return &jsonschema.Schema{AnyOf: []*jsonschema.Schema{
			{Type: "string", Format: "date-time"},
			{Type: "null"},
		}}
	default:
		panic(fmt.Sprintf("castkit: unsupported node %T", n))
	}
}

func objectJSONSchema(o *ObjectNode) *jsonschema.Schema {
	s := &jsonschema.Schema{Type: "object", Properties: make(map[string]*jsonschema.Schema, len(o.Fields))}
	for _, f := range o.Fields {
		s.Properties[f.Wire] = NodeJSONSchema(f.Node)
		if !acceptsAbsent(f.Node) {
			s.Required = append(s.Required, f.Wire)
		}
	}
	switch o.Unknown {
	case UnknownStrict:
		s.AdditionalProperties = false
	case UnknownPassthrough:
		if o.Additional != nil {
			s.AdditionalProperties = NodeJSONSchema(o.Additional)
		}
	}
	return s
}

// acceptsAbsent reports whether a missing key satisfies n without following
// references.
func acceptsAbsent(n Node) bool {
	switch t := n.(type) {
	case *AnyNode:
		return true
	case *PrimitiveNode:
		return t.Kind == KindUndefined
	case *UnionNode:
		for _, m := range t.Members {
			if acceptsAbsent(m) {
				return true
			}
		}
	}
	return false
}
