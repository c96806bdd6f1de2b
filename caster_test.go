package castkit_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	castkit "github.com/reoring/castkit"
)

func testRegistry(t *testing.T) *castkit.Registry {
	t.Helper()
	reg, err := castkit.NewRegistry(map[string]castkit.Node{
		"NamedAPIResource": castkit.Object(
			castkit.Field("name", castkit.String()),
			castkit.Field("url", castkit.String()),
		),
		"Variety": castkit.Object(
			castkit.Rename("is_default", "isDefault", castkit.Bool()),
			castkit.Field("pokemon", castkit.Ref("NamedAPIResource")),
		),
		"Color": castkit.Object(
			castkit.Field("name", castkit.String()),
			castkit.Field("url", castkit.Optional(castkit.String())),
		),
		"Pokemon": castkit.Object(
			castkit.Field("name", castkit.String()),
			castkit.Field("tags", castkit.Array(castkit.String())),
		),
		"List": castkit.Object(
			castkit.Field("value", castkit.Number()),
			castkit.Field("next", castkit.Optional(castkit.Ref("List"))),
		),
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

func mustParse(t *testing.T, s string) any {
	t.Helper()
	v, err := castkit.ParseJSON([]byte(s))
	if err != nil {
		t.Fatalf("ParseJSON(%s): %v", s, err)
	}
	return v
}

func mustValidationError(t *testing.T, err error) *castkit.ValidationError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	ve, ok := castkit.AsValidationError(err)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	return ve
}

func TestDecode_NamedResource(t *testing.T) {
	c := castkit.NewCaster(testRegistry(t))
	got, err := c.DecodeType(mustParse(t, `{"name":"bulbasaur","url":"https://x/pokemon/1/"}`), "NamedAPIResource")
	if err != nil {
		t.Fatalf("DecodeType: %v", err)
	}
	want := map[string]any{"name": "bulbasaur", "url": "https://x/pokemon/1/"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestDecode_MissingRequiredField(t *testing.T) {
	c := castkit.NewCaster(testRegistry(t))
	_, err := c.DecodeType(mustParse(t, `{"name":"bulbasaur"}`), "NamedAPIResource")
	ve := mustValidationError(t, err)
	if ve.Code != castkit.CodeRequired || ve.Key != "url" || ve.Path != "/url" || ve.Parent != "NamedAPIResource" {
		t.Fatalf("unexpected error fields: %+v", ve)
	}
	want := `Invalid value for key "url" on NamedAPIResource. Expected string but got undefined`
	if ve.Error() != want {
		t.Fatalf("message:\n got %q\nwant %q", ve.Error(), want)
	}
}

func TestDecode_MissingOptionalField(t *testing.T) {
	c := castkit.NewCaster(testRegistry(t))
	got, err := c.DecodeType(mustParse(t, `{"name":"red"}`), "Color")
	if err != nil {
		t.Fatalf("DecodeType: %v", err)
	}
	m := got.(map[string]any)
	if _, ok := m["url"]; ok {
		t.Fatalf("absent optional field must be omitted: %#v", m)
	}
	if m["name"] != "red" {
		t.Fatalf("unexpected name: %#v", m)
	}
}

func TestDecode_OptionalMismatchMessage(t *testing.T) {
	c := castkit.NewCaster(testRegistry(t))
	_, err := c.DecodeType(mustParse(t, `{"name":"red","url":5}`), "Color")
	ve := mustValidationError(t, err)
	want := `Invalid value for key "url" on Color. Expected an optional string but got 5`
	if ve.Error() != want {
		t.Fatalf("message:\n got %q\nwant %q", ve.Error(), want)
	}
}

func TestDecode_VarietyKeepsNestedObject(t *testing.T) {
	c := castkit.NewCaster(testRegistry(t))
	got, err := c.DecodeType(mustParse(t, `{"is_default": true, "pokemon": {"name":"a","url":"b"}}`), "Variety")
	if err != nil {
		t.Fatalf("DecodeType: %v", err)
	}
	want := map[string]any{
		"isDefault": true,
		"pokemon":   map[string]any{"name": "a", "url": "b"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestDecode_UnionFirstMatchWins(t *testing.T) {
	a := castkit.Object(castkit.Rename("v", "a", castkit.Number()))
	b := castkit.Object(castkit.Rename("v", "b", castkit.Number()))
	c := castkit.NewCaster(nil)

	got, err := c.Decode(mustParse(t, `{"v":1}`), castkit.Union(a, b))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(got, map[string]any{"a": float64(1)}) {
		t.Fatalf("expected first member result, got %#v", got)
	}

	got, err = c.Decode(mustParse(t, `{"v":1}`), castkit.Union(b, a))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(got, map[string]any{"b": float64(1)}) {
		t.Fatalf("expected first member result, got %#v", got)
	}
}

func TestDecode_UnionAllFail(t *testing.T) {
	c := castkit.NewCaster(nil)
	_, err := c.Decode(true, castkit.Union(castkit.String(), castkit.Number()))
	ve := mustValidationError(t, err)
	if ve.Code != castkit.CodeInvalidType || ve.Expected != "one of [string, number]" {
		t.Fatalf("unexpected error: %+v", ve)
	}
}

func TestDecode_EnumRejection(t *testing.T) {
	c := castkit.NewCaster(nil)
	enum := castkit.Enum("x", "y")
	for _, in := range []any{"z", "X", float64(1), nil, true} {
		_, err := c.Decode(in, enum)
		ve := mustValidationError(t, err)
		if ve.Code != castkit.CodeInvalidEnum {
			t.Fatalf("%v: unexpected code %q", in, ve.Code)
		}
		if !strings.Contains(ve.Error(), `one of ["x", "y"]`) {
			t.Fatalf("%v: message must list cases, got %q", in, ve.Error())
		}
	}
	if v, err := c.Decode("y", enum); err != nil || v != "y" {
		t.Fatalf("expected y, got %v (%v)", v, err)
	}
}

func TestDecode_UnregisteredReferenceFails(t *testing.T) {
	c := castkit.NewCaster(testRegistry(t))
	schema := castkit.Object(castkit.Field("g", castkit.Optional(castkit.Ref("Ghost"))))

	// not exercised
	if _, err := c.Decode(map[string]any{}, schema); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := c.Decode(map[string]any{"g": "boo"}, schema)
	ve := mustValidationError(t, err)
	if ve.Code != castkit.CodeUnresolvedRef || ve.Expected != "Ghost" {
		t.Fatalf("unexpected error: %+v", ve)
	}
}

func TestDecode_ArrayElementError(t *testing.T) {
	c := castkit.NewCaster(testRegistry(t))
	_, err := c.DecodeType(mustParse(t, `{"name":"p","tags":["a",1]}`), "Pokemon")
	ve := mustValidationError(t, err)
	if ve.Path != "/tags/1" || ve.Key != "tags" || ve.Parent != "Pokemon" || ve.Expected != "string" {
		t.Fatalf("unexpected error: %+v", ve)
	}

	_, err = c.DecodeType(mustParse(t, `{"name":"p","tags":"a"}`), "Pokemon")
	ve = mustValidationError(t, err)
	if ve.Expected != "array" {
		t.Fatalf("expected array mismatch, got %+v", ve)
	}
}

func TestDecode_ObjectRejectsNonObjects(t *testing.T) {
	c := castkit.NewCaster(testRegistry(t))
	for _, in := range []any{nil, []any{}, "s", float64(1)} {
		_, err := c.DecodeType(in, "Color")
		ve := mustValidationError(t, err)
		if ve.Expected != "Color" {
			t.Fatalf("%#v: expected ref name in error, got %+v", in, ve)
		}
	}
}

func TestDecode_UnknownKeyPolicies(t *testing.T) {
	reg := testRegistry(t)
	raw := mustParse(t, `{"name":"a","url":"b","extra":1}`)
	base := castkit.Object(
		castkit.Field("name", castkit.String()),
		castkit.Field("url", castkit.String()),
	)

	got, err := castkit.NewCaster(reg).Decode(raw, base)
	if err != nil {
		t.Fatalf("strip: %v", err)
	}
	if _, ok := got.(map[string]any)["extra"]; ok {
		t.Fatalf("strip must drop extra: %#v", got)
	}

	_, err = castkit.NewCaster(reg).Decode(raw, base.Strict())
	ve := mustValidationError(t, err)
	if ve.Code != castkit.CodeUnknownKey || ve.Key != "extra" || ve.Path != "/extra" {
		t.Fatalf("strict: unexpected error %+v", ve)
	}

	_, err = castkit.NewCaster(reg, castkit.WithStrictUnknown(true)).Decode(raw, base)
	if ve := mustValidationError(t, err); ve.Code != castkit.CodeUnknownKey {
		t.Fatalf("WithStrictUnknown: unexpected error %+v", ve)
	}

	got, err = castkit.NewCaster(reg).Decode(raw, base.Passthrough(nil))
	if err != nil {
		t.Fatalf("passthrough: %v", err)
	}
	if got.(map[string]any)["extra"] != float64(1) {
		t.Fatalf("passthrough must keep extra: %#v", got)
	}

	_, err = castkit.NewCaster(reg).Decode(raw, base.Passthrough(castkit.String()))
	ve = mustValidationError(t, err)
	if ve.Path != "/extra" || ve.Expected != "string" {
		t.Fatalf("passthrough additional: unexpected error %+v", ve)
	}
}

func TestDecode_Map(t *testing.T) {
	c := castkit.NewCaster(nil)
	got, err := c.Decode(mustParse(t, `{"a":1,"b":2}`), castkit.Map(castkit.Number()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(got, map[string]any{"a": float64(1), "b": float64(2)}) {
		t.Fatalf("unexpected map: %#v", got)
	}
	_, err = c.Decode(mustParse(t, `{"a":1,"b":"x"}`), castkit.Map(castkit.Number()))
	if ve := mustValidationError(t, err); ve.Path != "/b" || ve.Key != "b" {
		t.Fatalf("unexpected error %+v", ve)
	}
}

func TestDecode_LiteralAlwaysFails(t *testing.T) {
	c := castkit.NewCaster(nil)
	_, err := c.Decode("a", castkit.Literal("a"))
	if ve := mustValidationError(t, err); ve.Code != castkit.CodeInvalidLiteral {
		t.Fatalf("unexpected code %q", ve.Code)
	}
	_, err = c.Encode("a", castkit.Literal("a"))
	if ve := mustValidationError(t, err); ve.Code != castkit.CodeInvalidLiteral {
		t.Fatalf("unexpected code %q", ve.Code)
	}
}

func TestDate(t *testing.T) {
	c := castkit.NewCaster(nil)

	got, err := c.Decode("2024-01-02T03:04:05Z", castkit.Date())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if tm, ok := got.(time.Time); !ok || !tm.Equal(want) {
		t.Fatalf("unexpected date %#v", got)
	}

	if got, err := c.Decode(nil, castkit.Date()); err != nil || got != nil {
		t.Fatalf("null date: got %v (%v)", got, err)
	}

	_, err = c.Decode(float64(1700000000), castkit.Date())
	if ve := mustValidationError(t, err); ve.Code != castkit.CodeInvalidType || ve.Expected != "Date" {
		t.Fatalf("numbers must be rejected: %+v", ve)
	}

	_, err = c.Decode("not a date", castkit.Date())
	if ve := mustValidationError(t, err); ve.Code != castkit.CodeInvalidFormat {
		t.Fatalf("unexpected error %+v", ve)
	}

	enc, err := c.Encode(want, castkit.Date())
	if err != nil || enc != "2024-01-02T03:04:05Z" {
		t.Fatalf("Encode: got %v (%v)", enc, err)
	}

	for in, out := range map[string]string{
		"2020-01-02":                "2020-01-02T00:00:00Z",
		"2020-01-02T09:00:00+09:00": "2020-01-02T00:00:00Z",
	} {
		dec, err := c.Decode(in, castkit.Date())
		if err != nil {
			t.Fatalf("Decode %q: %v", in, err)
		}
		if enc, err := c.Encode(dec, castkit.Date()); err != nil || enc != out {
			t.Fatalf("round trip %q: got %v (%v) want %q", in, enc, err, out)
		}
	}
}

func TestNumbers(t *testing.T) {
	c := castkit.NewCaster(nil)
	for _, v := range []any{float64(1.5), 3, int64(4), uint8(2), json.Number("12")} {
		if _, err := c.Decode(v, castkit.Number()); err != nil {
			t.Fatalf("%T should be a number: %v", v, err)
		}
	}
	if _, err := c.Decode("1", castkit.Number()); err == nil {
		t.Fatalf("string must not be a number")
	}
}

func TestRoundTrip(t *testing.T) {
	reg := testRegistry(t)
	c := castkit.NewCaster(reg)
	variety, _ := reg.Lookup("Variety")
	j := mustParse(t, `{"is_default": false, "pokemon": {"name":"a","url":"b","x":1}, "extra": [1,2]}`)

	open := variety.(*castkit.ObjectNode).Passthrough(nil)
	dec, err := c.Decode(j, open)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	enc, err := c.Encode(dec, open)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	wantOpen := mustParse(t, `{"is_default": false, "pokemon": {"name":"a","url":"b"}, "extra": [1,2]}`)
	if !reflect.DeepEqual(enc, wantOpen) {
		t.Fatalf("passthrough round trip:\n got %#v\nwant %#v", enc, wantOpen)
	}

	dec, err = c.DecodeType(j, "Variety")
	if err != nil {
		t.Fatalf("DecodeType: %v", err)
	}
	enc, err = c.EncodeType(dec, "Variety")
	if err != nil {
		t.Fatalf("EncodeType: %v", err)
	}
	want := mustParse(t, `{"is_default": false, "pokemon": {"name":"a","url":"b"}}`)
	if !reflect.DeepEqual(enc, want) {
		t.Fatalf("strip round trip:\n got %#v\nwant %#v", enc, want)
	}
}

func TestPassthrough_RenameCollision(t *testing.T) {
	c := castkit.NewCaster(nil)
	n := castkit.Object(castkit.Rename("a", "b", castkit.String())).Passthrough(nil)

	_, err := c.Decode(mustParse(t, `{"a":"x","b":"y"}`), n)
	ve := mustValidationError(t, err)
	if ve.Code != castkit.CodeKeyCollision || ve.Key != "b" || ve.Path != "/b" {
		t.Fatalf("decode: unexpected error %+v", ve)
	}

	_, err = c.Encode(map[string]any{"b": "x", "a": "y"}, n)
	ve = mustValidationError(t, err)
	if ve.Code != castkit.CodeKeyCollision || ve.Key != "a" || ve.Path != "/a" {
		t.Fatalf("encode: unexpected error %+v", ve)
	}

	// the collision is reported even when the renamed field is absent
	n = castkit.Object(castkit.Rename("a", "b", castkit.Optional(castkit.String()))).Passthrough(nil)
	if _, err := c.Decode(mustParse(t, `{"b":"y"}`), n); mustValidationError(t, err).Code != castkit.CodeKeyCollision {
		t.Fatalf("absent field: expected key_collision, got %v", err)
	}

	raw := mustParse(t, `{"a":"x","c":"y"}`)
	dec, err := c.Decode(raw, n)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	enc, err := c.Encode(dec, n)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !reflect.DeepEqual(enc, raw) {
		t.Fatalf("round trip:\n got %#v\nwant %#v", enc, raw)
	}
}

func TestEncode_UsesLogicalKeys(t *testing.T) {
	c := castkit.NewCaster(testRegistry(t))
	_, err := c.EncodeType(map[string]any{"is_default": true, "pokemon": map[string]any{"name": "a", "url": "b"}}, "Variety")
	ve := mustValidationError(t, err)
	if ve.Key != "isDefault" || ve.Code != castkit.CodeRequired {
		t.Fatalf("unexpected error %+v", ve)
	}
}

func TestDecode_MaxDepth(t *testing.T) {
	c := castkit.NewCaster(testRegistry(t), castkit.WithMaxDepth(4))
	shallow := mustParse(t, `{"value":1,"next":{"value":2}}`)
	if _, err := c.DecodeType(shallow, "List"); err != nil {
		t.Fatalf("shallow list: %v", err)
	}
	deep := mustParse(t, `{"value":1,"next":{"value":2,"next":{"value":3,"next":{"value":4,"next":{"value":5}}}}}`)
	_, err := c.DecodeType(deep, "List")
	if ve := mustValidationError(t, err); ve.Code != castkit.CodeTooDeep {
		t.Fatalf("unexpected error %+v", ve)
	}
}

func TestCaster_ConcurrentUse(t *testing.T) {
	c := castkit.NewCaster(testRegistry(t))
	raw := mustParse(t, `{"is_default": true, "pokemon": {"name":"a","url":"b"}}`)
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.DecodeType(raw, "Variety"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent decode: %v", err)
	}
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		node castkit.Node
		want string
	}{
		{castkit.Optional(castkit.Ref("Color")), "an optional Color"},
		{castkit.Nullable(castkit.String()), "one of [null, string]"},
		{castkit.Enum("a", "b"), `one of ["a", "b"]`},
		{castkit.Array(castkit.Any()), "array"},
		{castkit.Map(castkit.Any()), "object"},
		{castkit.Date(), "Date"},
		{castkit.Optional(castkit.Union(castkit.Literal("a"), castkit.Literal(1))), "an optional one of [a, 1]"},
	}
	for _, tc := range cases {
		if got := castkit.Describe(tc.node); got != tc.want {
			t.Fatalf("Describe: got %q want %q", got, tc.want)
		}
	}
}
