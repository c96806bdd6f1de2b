package castkit

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/reoring/castkit/codec"
)

// DefaultMaxDepth bounds recursion through nested values.
const DefaultMaxDepth = 512

type direction int

const (
	decoding direction = iota
	encoding
)

func (d direction) reverse() direction {
	if d == decoding {
		return encoding
	}
	return decoding
}

// Option configures a Caster.
type Option func(*Caster)

// WithStrictUnknown upgrades objects using UnknownStrip to UnknownStrict.
func WithStrictUnknown(strict bool) Option {
	return func(c *Caster) { c.strictUnknown = strict }
}

// WithMaxDepth sets the nesting limit; values <= 0 restore DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(c *Caster) {
		if n <= 0 {
			n = DefaultMaxDepth
		}
		c.maxDepth = n
	}
}

// Caster validates and reshapes values against schema nodes. It holds no
// mutable state and is safe for concurrent use.
type Caster struct {
	reg           *Registry
	strictUnknown bool
	maxDepth      int
}

// NewCaster returns a Caster resolving references through reg, which may be
// nil when schemas contain no references.
func NewCaster(reg *Registry, opts ...Option) *Caster {
	c := &Caster{reg: reg, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the registry used for reference resolution.
func (c *Caster) Registry() *Registry { return c.reg }

// Decode validates raw (a parsed JSON tree) against n and returns the value
// keyed by logical field names.
func (c *Caster) Decode(raw any, n Node) (any, error) {
	return c.run(raw, n, decoding)
}

// Encode validates v (keyed by logical names) against n and returns the wire
// shape. Structs must be converted with Unbind first.
func (c *Caster) Encode(v any, n Node) (any, error) {
	return c.run(v, n, encoding)
}

// DecodeType decodes raw against the registered schema name.
func (c *Caster) DecodeType(raw any, name string) (any, error) {
	return c.Decode(raw, Ref(name))
}

// EncodeType encodes v against the registered schema name.
func (c *Caster) EncodeType(v any, name string) (any, error) {
	return c.Encode(v, Ref(name))
}

func (c *Caster) run(v any, n Node, dir direction) (any, error) {
	w := walker{c: c, dir: dir}
	return w.transform(v, n, site{}, 0)
}

// site locates the value being transformed.
type site struct {
	key    string
	parent string
	path   *pathSeg
}

type walker struct {
	c   *Caster
	dir direction
}

func (w walker) transform(val any, n Node, s site, depth int) (any, error) {
	if depth > w.c.maxDepth {
		return nil, &ValidationError{Code: CodeTooDeep, Path: s.path.pointer(), Key: s.key, Parent: s.parent, Value: val}
	}
	ref := ""
	for {
		r, ok := n.(*RefNode)
		if !ok {
			break
		}
		resolved, ok := w.c.reg.Lookup(r.Name)
		if !ok {
			return nil, &ValidationError{Code: CodeUnresolvedRef, Path: s.path.pointer(), Key: s.key, Parent: s.parent, Expected: r.Name, Value: val}
		}
		ref, n = r.Name, resolved
	}

	switch t := n.(type) {
	case *AnyNode:
		return val, nil
	case *PrimitiveNode:
		if matchPrimitive(t.Kind, val) {
			return val, nil
		}
		return nil, invalid(CodeInvalidType, Describe(t), val, s)
	case *LiteralNode:
		return nil, invalid(CodeInvalidLiteral, Describe(t), val, s)
	case *EnumNode:
		return w.enum(t, val, s)
	case *DateNode:
		return w.date(val, s)
	case *ArrayNode:
		return w.array(t, val, s, depth)
	case *UnionNode:
		return w.union(t, val, s, depth)
	case *ObjectNode:
		return w.object(t, ref, val, s, depth)
	case *MapNode:
		return w.mapping(t, ref, val, s, depth)
	default:
		panic(fmt.Sprintf("castkit: unsupported node %T", n))
	}
}

func (w walker) enum(t *EnumNode, val any, s site) (any, error) {
	if str, ok := val.(string); ok {
		for _, c := range t.Cases {
			if c == str {
				return val, nil
			}
		}
	}
	return nil, invalid(CodeInvalidEnum, Describe(t), val, s)
}

// date accepts null (kept as nil), time.Time and parseable strings; numbers
// are rejected as ambiguous.
func (w walker) date(val any, s site) (any, error) {
	switch v := val.(type) {
	case nil:
		return nil, nil
	case time.Time:
		if w.dir == encoding {
			return codec.FormatTime(v), nil
		}
		return v, nil
	case string:
		t, err := codec.ParseTime(v)
		if err != nil {
			e := invalid(CodeInvalidFormat, "Date", val, s)
			e.Cause = err
			return nil, e
		}
		if w.dir == encoding {
			return v, nil
		}
		return t, nil
	}
	return nil, invalid(CodeInvalidType, "Date", val, s)
}

func (w walker) array(t *ArrayNode, val any, s site, depth int) (any, error) {
	arr, ok := val.([]any)
	if !ok {
		return nil, invalid(CodeInvalidType, "array", val, s)
	}
	out := make([]any, len(arr))
	for i, el := range arr {
		r, err := w.transform(el, t.Elem, site{key: s.key, parent: s.parent, path: s.path.index(i)}, depth+1)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func (w walker) union(t *UnionNode, val any, s site, depth int) (any, error) {
	for _, m := range t.Members {
		r, err := w.transform(val, m, site{path: s.path}, depth)
		if err == nil {
			return r, nil
		}
		if fatal(err) {
			return nil, err
		}
	}
	return nil, invalid(CodeInvalidType, Describe(t), val, s)
}

func (w walker) object(t *ObjectNode, ref string, val any, s site, depth int) (any, error) {
	m, ok := val.(map[string]any)
	if !ok {
		return nil, invalid(CodeInvalidType, nameOr(ref, "object"), val, s)
	}
	out := make(map[string]any, len(t.Fields))
	for _, f := range t.Fields {
		in, key := f.Wire, f.Name
		if w.dir == encoding {
			in, key = f.Name, f.Wire
		}
		v, present := m[in]
		if !present {
			v = Absent
		}
		r, err := w.transform(v, f.Node, site{key: in, parent: ref, path: s.path.field(in)}, depth+1)
		if err != nil {
			return nil, err
		}
		if r != Absent {
			out[key] = r
		}
	}

	policy := t.Unknown
	if policy == UnknownStrip && w.c.strictUnknown {
		policy = UnknownStrict
	}
	if policy == UnknownStrip {
		return out, nil
	}
	for _, k := range sortedKeys(m) {
		if _, declared := t.lookup(k, w.dir); declared {
			continue
		}
		if policy == UnknownStrict {
			return nil, &ValidationError{Code: CodeUnknownKey, Path: s.path.field(k).pointer(), Key: k, Parent: ref, Value: m[k]}
		}
		if _, declared := t.lookup(k, w.dir.reverse()); declared {
			return nil, &ValidationError{Code: CodeKeyCollision, Path: s.path.field(k).pointer(), Key: k, Parent: ref, Value: m[k]}
		}
		additional := t.Additional
		if additional == nil {
			additional = anyNode
		}
		r, err := w.transform(m[k], additional, site{key: k, parent: ref, path: s.path.field(k)}, depth+1)
		if err != nil {
			return nil, err
		}
		out[k] = r
	}
	return out, nil
}

func (w walker) mapping(t *MapNode, ref string, val any, s site, depth int) (any, error) {
	m, ok := val.(map[string]any)
	if !ok {
		return nil, invalid(CodeInvalidType, nameOr(ref, "object"), val, s)
	}
	out := make(map[string]any, len(m))
	for _, k := range sortedKeys(m) {
		r, err := w.transform(m[k], t.Elem, site{key: k, parent: ref, path: s.path.field(k)}, depth+1)
		if err != nil {
			return nil, err
		}
		out[k] = r
	}
	return out, nil
}

// invalid builds the mismatch error; a missing value reports CodeRequired.
func invalid(code, expected string, val any, s site) *ValidationError {
	if val == Absent && code == CodeInvalidType {
		code = CodeRequired
	}
	return &ValidationError{Code: code, Path: s.path.pointer(), Key: s.key, Parent: s.parent, Expected: expected, Value: val}
}

// fatal reports errors that unions must not swallow.
func fatal(err error) bool {
	ve, ok := AsValidationError(err)
	return ok && (ve.Code == CodeUnresolvedRef || ve.Code == CodeTooDeep)
}

func matchPrimitive(k PrimitiveKind, val any) bool {
	switch k {
	case KindString:
		_, ok := val.(string)
		return ok
	case KindNumber:
		return isNumber(val)
	case KindBoolean:
		_, ok := val.(bool)
		return ok
	case KindNull:
		return val == nil
	case KindUndefined:
		return val == Absent
	}
	return false
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
