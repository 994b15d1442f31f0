package codec

// RecordMarshaler is implemented by values that encode as a record of named fields.
type RecordMarshaler interface {
	MarshalRecord(enc *RecordEncoder) error
}

// SequenceMarshaler is implemented by values that encode as an ordered sequence.
type SequenceMarshaler interface {
	MarshalSequence(enc *SequenceEncoder) error
}

// SetMarshaler is implemented by values that encode as an unordered collection.
// Elements are written sorted by their encoded bytes.
type SetMarshaler interface {
	MarshalSet(enc *SequenceEncoder) error
}

// MapMarshaler is implemented by values that encode as key/value pairs.
// Pairs are written sorted by the encoded bytes of their keys.
type MapMarshaler interface {
	MarshalMap(enc *MapEncoder) error
}

// ScalarMarshaler is implemented by atomic values that encode as a scalar.
//
// MarshalScalar must return a scalar: nil, a boolean, a number, a string,
// a byte slice, RawData or a time.Time.
type ScalarMarshaler interface {
	MarshalScalar() (any, error)
}

// RecordUnmarshaler is implemented by values that decode from a record.
type RecordUnmarshaler interface {
	UnmarshalRecord(dec *RecordDecoder) error
}

// SequenceUnmarshaler is implemented by values that decode from a sequence or set.
type SequenceUnmarshaler interface {
	UnmarshalSequence(dec *SequenceDecoder) error
}

// MapUnmarshaler is implemented by values that decode from a map.
type MapUnmarshaler interface {
	UnmarshalMap(dec *MapDecoder) error
}

// ScalarUnmarshaler is implemented by values that decode from a scalar.
// The argument is the dynamically decoded scalar (see DecodeDynamic).
type ScalarUnmarshaler interface {
	UnmarshalScalar(v any) error
}

// RawData is an opaque byte sequence written with the raw-data tag.
type RawData []byte
