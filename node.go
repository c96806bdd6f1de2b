package castkit

import "fmt"

// Node describes an expected data shape. The set of implementations is closed:
// *PrimitiveNode, *LiteralNode, *EnumNode, *ArrayNode, *UnionNode,
// *ObjectNode, *MapNode, *RefNode, *AnyNode and *DateNode.
type Node interface {
	node()
}

// absent marks a key missing from an object.
type absent struct{}

func (absent) String() string { return "undefined" }

// Absent is the value handed to a field schema when the key is missing from
// the input object. Only Undefined() and Any() accept it, and fields that
// resolve to Absent are omitted from the output.
var Absent any = absent{}

// PrimitiveNode matches a scalar by runtime type.
type PrimitiveNode struct{ Kind PrimitiveKind }

// LiteralNode describes a single expected value. It only serves to describe
// expectations in messages: decoding or encoding through it always fails.
type LiteralNode struct{ Value any }

// EnumNode matches a string present in Cases (case-sensitive).
type EnumNode struct{ Cases []string }

// ArrayNode matches a JSON array whose elements all match Elem.
type ArrayNode struct{ Elem Node }

// UnionNode matches the first member, in declaration order, that accepts the value.
type UnionNode struct{ Members []Node }

// FieldSpec binds a wire (external) key to a logical (internal) key.
type FieldSpec struct {
	Wire string
	Name string
	Node Node
}

// ObjectNode matches a JSON object with declared fields.
type ObjectNode struct {
	Fields     []FieldSpec
	Unknown    UnknownPolicy
	Additional Node // Schema for undeclared keys under UnknownPassthrough; nil means Any.

	byWire map[string]int
	byName map[string]int
}

// MapNode matches a JSON object whose every value matches Elem.
type MapNode struct{ Elem Node }

// RefNode is resolved through the Registry when the branch is exercised.
type RefNode struct{ Name string }

// AnyNode accepts every value unchanged.
type AnyNode struct{}

// DateNode matches values coercible to a time; numbers are rejected.
type DateNode struct{}

func (*PrimitiveNode) node() {}
func (*LiteralNode) node()   {}
func (*EnumNode) node()      {}
func (*ArrayNode) node()     {}
func (*UnionNode) node()     {}
func (*ObjectNode) node()    {}
func (*MapNode) node()       {}
func (*RefNode) node()       {}
func (*AnyNode) node()       {}
func (*DateNode) node()      {}

var (
	stringNode    = &PrimitiveNode{Kind: KindString}
	numberNode    = &PrimitiveNode{Kind: KindNumber}
	boolNode      = &PrimitiveNode{Kind: KindBoolean}
	nullNode      = &PrimitiveNode{Kind: KindNull}
	undefinedNode = &PrimitiveNode{Kind: KindUndefined}
	anyNode       = &AnyNode{}
	dateNode      = &DateNode{}
)

// Primitive returns the node for kind.
func Primitive(kind PrimitiveKind) Node {
	switch kind {
	case KindString:
		return stringNode
	case KindNumber:
		return numberNode
	case KindBoolean:
		return boolNode
	case KindNull:
		return nullNode
	case KindUndefined:
		return undefinedNode
	}
	panic(fmt.Sprintf("castkit: unknown primitive kind %d", kind))
}

func String() Node    { return stringNode }
func Number() Node    { return numberNode }
func Bool() Node      { return boolNode }
func Null() Node      { return nullNode }
func Undefined() Node { return undefinedNode }
func Any() Node       { return anyNode }

// Date matches date strings (see codec.ParseTime) and time.Time values.
// Decoding yields time.Time and encoding a time.Time writes the canonical UTC
// RFC 3339 form, so a date round trip preserves the instant but not the text:
// "2020-01-02" comes back as "2020-01-02T00:00:00Z" and offsets become Z.
func Date() Node { return dateNode }

// Literal describes a literal value.
func Literal(v any) Node { return &LiteralNode{Value: v} }

// Enum matches one of the given string cases.
func Enum(cases ...string) Node {
	return &EnumNode{Cases: append([]string(nil), cases...)}
}

// Array matches arrays of elem.
func Array(elem Node) Node { return &ArrayNode{Elem: elem} }

// Union matches the first of members that accepts the value.
func Union(members ...Node) Node {
	return &UnionNode{Members: append([]Node(nil), members...)}
}

// Optional accepts a missing key or n.
func Optional(n Node) Node { return Union(Undefined(), n) }

// Nullable accepts null or n.
func Nullable(n Node) Node { return Union(Null(), n) }

// Map matches objects whose values all match elem.
func Map(elem Node) Node { return &MapNode{Elem: elem} }

// Ref refers to a registered schema by name.
func Ref(name string) Node { return &RefNode{Name: name} }

// Field declares a field whose wire and logical names are equal.
func Field(name string, n Node) FieldSpec { return FieldSpec{Wire: name, Name: name, Node: n} }

// Rename declares a field read from the wire key into the logical key name.
func Rename(wire, name string, n Node) FieldSpec { return FieldSpec{Wire: wire, Name: name, Node: n} }

// Object builds an object node with the UnknownStrip policy. The key lookup
// tables are computed here once. It panics on duplicate wire or logical names
// and on nil field schemas.
func Object(fields ...FieldSpec) *ObjectNode {
	o := &ObjectNode{
		Fields: append([]FieldSpec(nil), fields...),
		byWire: make(map[string]int, len(fields)),
		byName: make(map[string]int, len(fields)),
	}
	for i, f := range o.Fields {
		if f.Node == nil {
			panic(fmt.Sprintf("castkit: field %q has no schema", f.Wire))
		}
		if _, dup := o.byWire[f.Wire]; dup {
			panic(fmt.Sprintf("castkit: duplicate wire key %q", f.Wire))
		}
		if _, dup := o.byName[f.Name]; dup {
			panic(fmt.Sprintf("castkit: duplicate logical key %q", f.Name))
		}
		o.byWire[f.Wire] = i
		o.byName[f.Name] = i
	}
	return o
}

// Strict returns a copy of o that rejects undeclared keys.
func (o *ObjectNode) Strict() *ObjectNode {
	cp := *o
	cp.Unknown, cp.Additional = UnknownStrict, nil
	return &cp
}

// Strip returns a copy of o that drops undeclared keys.
func (o *ObjectNode) Strip() *ObjectNode {
	cp := *o
	cp.Unknown, cp.Additional = UnknownStrip, nil
	return &cp
}

// Passthrough returns a copy of o that keeps undeclared keys after checking
// them against additional (nil means Any).
func (o *ObjectNode) Passthrough(additional Node) *ObjectNode {
	cp := *o
	cp.Unknown, cp.Additional = UnknownPassthrough, additional
	return &cp
}

// WithPolicy returns a copy of o using policy p.
func (o *ObjectNode) WithPolicy(p UnknownPolicy, additional Node) *ObjectNode {
	switch p {
	case UnknownStrict:
		return o.Strict()
	case UnknownPassthrough:
		return o.Passthrough(additional)
	default:
		return o.Strip()
	}
}

// lookup finds the field declared under key: by wire name when decoding and
// by logical name when encoding.
func (o *ObjectNode) lookup(key string, dir direction) (FieldSpec, bool) {
	table := o.byWire
	if dir == encoding {
		table = o.byName
	}
	if table != nil {
		i, ok := table[key]
		if !ok {
			return FieldSpec{}, false
		}
		return o.Fields[i], true
	}
	// hand-built ObjectNode literal without tables
	for _, f := range o.Fields {
		if (dir == decoding && f.Wire == key) || (dir == encoding && f.Name == key) {
			return f, true
		}
	}
	return FieldSpec{}, false
}
