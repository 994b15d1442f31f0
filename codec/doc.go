// Package codec implements the recursive metapack encoder and decoder engines.
//
// # Engines
//
// Each container (record, sequence, set or map) is built by its own Encoder
// engine: an append-only list of (name, tag, bytes) items. Scalars are
// serialized inline; composite values are encoded by a fresh child engine whose
// finalized container buffer becomes the parent's segment. Decoding mirrors
// this: a Decoder engine owns one container's metadata index and data region
// and creates a child Decoder scoped to a field's slice for every nested value.
// No state is shared between nesting levels, and an engine tree belongs to a
// single Encode or Decode call.
//
// # Structural Interface
//
// Values describe their shape through capability interfaces:
//
//	type Point struct{ X, Y int }
//
//	func (p Point) MarshalRecord(enc *codec.RecordEncoder) error {
//	    if err := enc.Field("x", p.X); err != nil {
//	        return err
//	    }
//	    return enc.Field("y", p.Y)
//	}
//
//	func (p *Point) UnmarshalRecord(dec *codec.RecordDecoder) error {
//	    var err error
//	    if p.X, err = codec.Field[int](dec, "x"); err != nil {
//	        return err
//	    }
//	    p.Y, err = codec.Field[int](dec, "y")
//	    return err
//	}
//
// Plain Go values need no methods: booleans, integers, floats, strings, byte
// slices, time.Time, pointers, slices, arrays, maps and structs are walked by
// reflection. Struct fields use the `metapack:"name,omitempty"` tag; "-" skips
// a field.
//
// # Wire Tags
//
//	Go value                          tag
//	nil, nil pointer/slice/map        0
//	bool                              b
//	integer fitting int32             i
//	other integer, float              n
//	string                            s
//	[]byte, [N]byte                   8
//	RawData                           x
//	time.Time                         d
//	slice, array, SequenceMarshaler   a
//	Set, SetMarshaler                 t
//	map, MapMarshaler                 m
//	struct, RecordMarshaler           o
//
// Sets and Go maps are written in a deterministic order (sorted by the encoded
// bytes of each element or key), so equal values produce equal buffers.
//
// # Envelope
//
// Encode prepends the magic number and wraps the value in the record
// {"ver003": true, "payload": value}; Decode requires both.
package codec
