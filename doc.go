// Package castkit provides a runtime schema caster: declarative schema nodes
// that validate untyped JSON trees and reshape them into logical values
// (Decode), and the reverse (Encode).
//
//   - Schema nodes form a closed sum type (Primitive, Literal, Enum, Array,
//     Union, Object, Map, Reference, Any, Date) built with small constructors.
//   - A Registry maps names to nodes so that schemas may reference each other
//     recursively; it is validated once and immutable afterwards.
//   - Every mismatch fails the whole call with a *ValidationError describing the
//     expected type, the key and containing type, and the received value.
//
// Design policy:
//   - Keep the caster pure: no globals are read during Decode/Encode except the
//     message translator, and a Caster is safe for concurrent use.
//   - JSON text enters through ParseJSON (goccy/go-json tokens) and leaves
//     through MarshalJSON.
//
// Typical usage:
//
//	reg := castkit.MustRegistry(map[string]castkit.Node{
//	    "Color": castkit.Object(
//	        castkit.Field("name", castkit.String()),
//	        castkit.Field("url", castkit.String()),
//	    ),
//	})
//	c := castkit.NewCaster(reg)
//	raw, err := castkit.ParseJSON(data)
//	v, err := c.DecodeType(raw, "Color")
package castkit
