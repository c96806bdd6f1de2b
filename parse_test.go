package castkit_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	castkit "github.com/reoring/castkit"
)

func TestParseJSON_Tree(t *testing.T) {
	v, err := castkit.ParseJSON([]byte(`{"a":[1,"x",true,null],"b":{}}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	want := map[string]any{
		"a": []any{float64(1), "x", true, nil},
		"b": map[string]any{},
	}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %#v want %#v", v, want)
	}
}

func TestParseJSON_NumberMode(t *testing.T) {
	v, err := castkit.ParseJSON([]byte(`12345678901234567890`), castkit.ParseOpt{NumberMode: castkit.NumberJSONNumber})
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if v != json.Number("12345678901234567890") {
		t.Fatalf("expected json.Number, got %#v", v)
	}
}

func TestParseJSON_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		opt  castkit.ParseOpt
		code string
		path string
	}{
		{"truncated document", `{"a":`, castkit.ParseOpt{}, castkit.CodeParseError, "/"},
		{"empty input", ``, castkit.ParseOpt{}, castkit.CodeParseError, "/"},
		{"trailing value", `1 2`, castkit.ParseOpt{}, castkit.CodeParseError, "/"},
		{"duplicate key", `{"a":1,"a":2}`, castkit.ParseOpt{OnDuplicateKey: castkit.Error}, castkit.CodeDuplicateKey, "/a"},
		{"depth", `[[[1]]]`, castkit.ParseOpt{MaxDepth: 2}, castkit.CodeTooDeep, ""},
		{"size", `"abcdef"`, castkit.ParseOpt{MaxBytes: 4}, castkit.CodeTruncated, "/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := castkit.ParseJSON([]byte(tc.in), tc.opt)
			ve := mustValidationError(t, err)
			if ve.Code != tc.code {
				t.Fatalf("code: got %q want %q (%v)", ve.Code, tc.code, err)
			}
			if tc.path != "" && ve.Path != tc.path {
				t.Fatalf("path: got %q want %q", ve.Path, tc.path)
			}
		})
	}
}

func TestParseJSON_DefaultDepthLimit(t *testing.T) {
	n := castkit.DefaultMaxDepth + 1
	deep := strings.Repeat("[", n) + strings.Repeat("]", n)
	_, err := castkit.ParseJSON([]byte(deep))
	if ve := mustValidationError(t, err); ve.Code != castkit.CodeTooDeep {
		t.Fatalf("code: got %q want %q", ve.Code, castkit.CodeTooDeep)
	}
	_, err = castkit.ParseJSONReader(strings.NewReader(deep))
	if ve := mustValidationError(t, err); ve.Code != castkit.CodeTooDeep {
		t.Fatalf("reader code: got %q want %q", ve.Code, castkit.CodeTooDeep)
	}
}

func TestParseJSON_DuplicateIgnoredByDefault(t *testing.T) {
	v, err := castkit.ParseJSON([]byte(`{"a":1,"a":2}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if v.(map[string]any)["a"] != float64(2) {
		t.Fatalf("last duplicate should win: %#v", v)
	}
}

func TestParseJSONReader(t *testing.T) {
	v, err := castkit.ParseJSONReader(strings.NewReader(`{"name":"bulbasaur"}`))
	if err != nil {
		t.Fatalf("ParseJSONReader: %v", err)
	}
	if v.(map[string]any)["name"] != "bulbasaur" {
		t.Fatalf("unexpected value %#v", v)
	}

	_, err = castkit.ParseJSONReader(strings.NewReader(`{"name":"bulbasaur"}`), castkit.ParseOpt{MaxBytes: 8})
	if ve := mustValidationError(t, err); ve.Code != castkit.CodeTruncated {
		t.Fatalf("unexpected code %q", ve.Code)
	}
}

func TestMarshalJSON_SortsKeys(t *testing.T) {
	b, err := castkit.MarshalJSON(map[string]any{"b": 1, "a": []any{true}})
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(b) != `{"a":[true],"b":1}` {
		t.Fatalf("unexpected output %s", b)
	}
}
