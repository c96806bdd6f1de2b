// Package middleware adapts the castkit caster and the pokeview ambient stack
// to gin handlers.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reoring/castkit"
)

// DefaultMaxBodyBytes caps request bodies decoded by Cast.
const DefaultMaxBodyBytes = 1 << 20

// Error codes that do not come from a ValidationError.
const (
	CodeNotFound = "not_found"
	CodeUpstream = "upstream_error"
	CodeInternal = "internal"
)

// Decoded is the outcome of a successful Cast.
type Decoded struct {
	Type  string
	Value any
}

// ctxKeyDecoded is a typed context key for storing Decoded.
type ctxKeyDecoded struct{}

// ContextWithDecoded attaches a Decoded to the context.
func ContextWithDecoded(ctx context.Context, d Decoded) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded{}, d)
}

// DecodedFromContext retrieves a Decoded from context.
func DecodedFromContext(ctx context.Context) (Decoded, bool) {
	v, ok := ctx.Value(ctxKeyDecoded{}).(Decoded)
	return v, ok
}

// GetDecoded fetches the Decoded stored by Cast from gin.Context.
func GetDecoded(c *gin.Context) (Decoded, bool) {
	return DecodedFromContext(c.Request.Context())
}

// Bound binds the value stored by Cast into T.
func Bound[T any](c *gin.Context) (T, error) {
	d, ok := GetDecoded(c)
	if !ok {
		var zero T
		return zero, errors.New("no decoded value in request context")
	}
	return castkit.Bind[T](d.Value)
}

// DefaultParseOpt returns a recommended default for HTTP JSON boundaries.
// - Duplicate keys are errors
// - Bodies are capped at DefaultMaxBodyBytes
func DefaultParseOpt() castkit.ParseOpt {
	return castkit.ParseOpt{
		OnDuplicateKey: castkit.Error,
		MaxDepth:       castkit.DefaultMaxDepth,
		MaxBytes:       DefaultMaxBodyBytes,
	}
}

// Cast decodes the request body against the registered type name, stores
// the result in the request context and aborts with an error payload on
// failure. A zero opt means DefaultParseOpt.
func Cast(caster *castkit.Caster, name string, opt castkit.ParseOpt) gin.HandlerFunc {
	return cast(caster, func(*gin.Context) string { return name }, opt)
}

// CastParam is Cast with the type name taken from the route parameter param.
// Names missing from the registry abort with 404.
func CastParam(caster *castkit.Caster, param string, opt castkit.ParseOpt) gin.HandlerFunc {
	return cast(caster, func(c *gin.Context) string { return c.Param(param) }, opt)
}

func cast(caster *castkit.Caster, nameOf func(*gin.Context) string, opt castkit.ParseOpt) gin.HandlerFunc {
	if opt == (castkit.ParseOpt{}) {
		opt = DefaultParseOpt()
	}
	return func(c *gin.Context) {
		name := nameOf(c)
		if _, ok := caster.Registry().Lookup(name); !ok {
			Abort(c, http.StatusNotFound, NewError(CodeNotFound, fmt.Sprintf("unknown type %q", name)))
			return
		}

		v, err := castkit.ParseJSONReader(c.Request.Body, opt)
		if err == nil {
			v, err = caster.DecodeType(v, name)
		}
		if err != nil {
			Logger(c).Debugw("reject request body", "type", name, "error", err)
			Abort(c, StatusFor(err), ErrorPayload(err))
			return
		}

		c.Request = c.Request.WithContext(ContextWithDecoded(c.Request.Context(), Decoded{Type: name, Value: v}))
		c.Next()
	}
}

// StatusFor maps a castkit error to an HTTP status: malformed JSON is 400,
// an oversized body 413 and any other mismatch 422.
func StatusFor(err error) int {
	ve, ok := castkit.AsValidationError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch ve.Code {
	case castkit.CodeParseError, castkit.CodeDuplicateKey:
		return http.StatusBadRequest
	case castkit.CodeTruncated:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusUnprocessableEntity
	}
}
