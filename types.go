package castkit

// PrimitiveKind enumerates scalar kinds matched by runtime type.
type PrimitiveKind int

const (
	KindString PrimitiveKind = iota
	KindNumber
	KindBoolean
	KindNull
	KindUndefined
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// UnknownPolicy controls how object keys that are not declared are handled.
type UnknownPolicy int

const (
	UnknownStrip       UnknownPolicy = iota // Drop undeclared keys.
	UnknownStrict                           // Reject undeclared keys with an error.
	UnknownPassthrough                      // Decode undeclared keys against Additional and keep them.
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownStrict:
		return "strict"
	case UnknownPassthrough:
		return "passthrough"
	default:
		return "strip"
	}
}

// ParseUnknownPolicy maps "strip", "strict" and "passthrough" to a policy.
func ParseUnknownPolicy(s string) (UnknownPolicy, bool) {
	switch s {
	case "", "strip":
		return UnknownStrip, true
	case "strict":
		return UnknownStrict, true
	case "passthrough":
		return UnknownPassthrough, true
	}
	return UnknownStrip, false
}

// NumberMode dictates how JSON numbers are represented in parsed trees.
type NumberMode int

const (
	NumberFloat64    NumberMode = iota // float64 (with potential precision loss).
	NumberJSONNumber                   // json.Number, textual and lossless.
)

// Severity expresses how strictly an input anomaly is treated.
type Severity int

const (
	Ignore Severity = iota
	Error
)

// ParseOpt bundles options for ParseJSON.
type ParseOpt struct {
	NumberMode     NumberMode
	OnDuplicateKey Severity
	// MaxDepth bounds container nesting; values <= 0 use DefaultMaxDepth.
	MaxDepth int
	MaxBytes int64
}
