package castkit

import (
	"errors"
	"fmt"

	j "github.com/goccy/go-json"

	"github.com/reoring/castkit/i18n"
)

// Error codes carried by ValidationError.
const (
	CodeInvalidType    = "invalid_type"
	CodeRequired       = "required"
	CodeInvalidEnum    = "invalid_enum"
	CodeInvalidLiteral = "invalid_literal"
	CodeInvalidFormat  = "invalid_format"
	CodeUnknownKey     = "unknown_key"
	CodeKeyCollision   = "key_collision"
	CodeUnresolvedRef  = "unresolved_ref"
	CodeTooDeep        = "too_deep"
	CodeParseError     = "parse_error"
	CodeDuplicateKey   = "duplicate_key"
	CodeTruncated      = "truncated"
)

// ValidationError is the single error kind produced by the caster and the
// JSON boundary. The first mismatch found aborts the call.
type ValidationError struct {
	Code     string
	Path     string // JSON Pointer of the offending value ("/" for the root).
	Key      string // Field key in the direction being processed, if any.
	Parent   string // Name of the containing registered type, if known.
	Expected string // Pretty-printed expected type.
	Value    any    // The value received (Absent when missing).
	Cause    error
}

func (e *ValidationError) Error() string {
	data := map[string]string{
		i18n.KeyKey:      e.Key,
		i18n.KeyParent:   e.Parent,
		i18n.KeyExpected: e.Expected,
		i18n.KeyGot:      renderValue(e.Value),
		i18n.KeyPath:     e.Path,
	}
	if e.Cause != nil {
		data[i18n.KeyCause] = e.Cause.Error()
	}
	return i18n.T(e.Code, data)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// AsValidationError extracts a *ValidationError from err using errors.As.
func AsValidationError(err error) (*ValidationError, bool) {
	if err == nil {
		return nil, false
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// renderValue serializes a received value for diagnostics.
func renderValue(v any) string {
	if v == Absent {
		return "undefined"
	}
	b, err := j.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
