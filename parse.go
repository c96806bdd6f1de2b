package castkit

import (
	"errors"
	"fmt"
	"io"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/castkit/internal/engine"
)

// ParseJSON parses exactly one JSON value into a generic tree of
// map[string]any, []any, string, number, bool and nil. Parsing failures are
// reported as *ValidationError with a parse_error, duplicate_key, too_deep or
// truncated code.
func ParseJSON(data []byte, opts ...ParseOpt) (any, error) {
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, truncated(opt.MaxBytes)
	}
	return decodeTree(eng.NewBytes(data), opt)
}

// ParseJSONReader is ParseJSON over a reader. When MaxBytes is set it
// enforces the size cap up front; otherwise the input is streamed.
func ParseJSONReader(r io.Reader, opts ...ParseOpt) (any, error) {
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(r, opt.MaxBytes+1))
		if err != nil {
			return nil, &ValidationError{Code: CodeParseError, Path: "/", Cause: err}
		}
		return ParseJSON(data, opt)
	}
	return decodeTree(eng.NewReader(r), opt)
}

// MarshalJSON serializes a tree (map keys sorted).
func MarshalJSON(v any) ([]byte, error) {
	return j.Marshal(v)
}

// MarshalJSONIndent is MarshalJSON with indentation.
func MarshalJSONIndent(v any, prefix, indent string) ([]byte, error) {
	return j.MarshalIndent(v, prefix, indent)
}

func lastOpt(opts []ParseOpt) ParseOpt {
	if len(opts) == 0 {
		return ParseOpt{}
	}
	return opts[len(opts)-1]
}

func decodeTree(src eng.TokenSource, opt ParseOpt) (any, error) {
	eo := eng.EnforceOptions{MaxDepth: opt.MaxDepth}
	if eo.MaxDepth <= 0 {
		eo.MaxDepth = DefaultMaxDepth
	}
	if opt.OnDuplicateKey == Error {
		eo.OnDuplicate = eng.DupError
	}
	conv := eng.Float64Numbers
	if opt.NumberMode == NumberJSONNumber {
		conv = eng.JSONNumbers
	}
	v, err := eng.DecodeAny(eng.WrapWithEnforcement(src, eo), conv)
	if err != nil {
		return nil, toValidationError(err)
	}
	return v, nil
}

func toValidationError(err error) error {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return &ValidationError{Code: ie.Code, Path: ie.Path, Cause: errors.New(ie.Message)}
	}
	return &ValidationError{Code: CodeParseError, Path: "/", Cause: err}
}

func truncated(limit int64) error {
	return &ValidationError{Code: CodeTruncated, Path: "/", Cause: fmt.Errorf("input exceeds %d bytes", limit)}
}
