// Package metapack provides a self-describing binary serialization format.
//
// A metapack buffer is a tree of containers. Each container starts with a
// 4-byte little-endian length, followed by a JSON metadata block that maps
// sequential ids to {start, size, type tag, name} entries, followed by the
// concatenated byte segments those entries describe. Nested values are
// containers embedded as segments of their parent, so every level can be
// inspected and read by name without a schema.
//
// # Core Features
//
//   - Self-describing layout, readable by name at every nesting level
//   - One-character type tags for scalars, sequences, sets, maps and records
//   - Deterministic output for sets and Go maps
//   - Struct support through reflection, or full control through the
//     codec capability interfaces
//   - Caller-imposed limits on nesting depth and input size
//
// # Basic Usage
//
//	type Reading struct {
//	    Sensor string    `metapack:"sensor"`
//	    Value  float64   `metapack:"value"`
//	    At     time.Time `metapack:"at"`
//	}
//
//	data, err := metapack.Marshal(Reading{Sensor: "t1", Value: 21.5, At: time.Now()})
//	if err != nil {
//	    return err
//	}
//
//	r, err := metapack.Decode[Reading](data)
//
// Decoding without a target type:
//
//	var v any
//	err := metapack.Unmarshal(data, &v) // map[string]any{"sensor": "t1", ...}
//
// # Package Structure
//
// This package provides top-level wrappers around the codec package. For
// custom encodings, implement the codec capability interfaces; the section
// package reads and writes raw containers.
package metapack

import (
	"github.com/arloliu/metapack/codec"
)

// Option configures an encode or decode call.
type Option = codec.Option

// WithMaxDepth limits the container nesting depth. The payload's own
// container is depth 1; zero disables the limit.
func WithMaxDepth(n int) Option {
	return codec.WithMaxDepth(n)
}

// WithMaxInputSize rejects decode input longer than n bytes. Zero disables the limit.
func WithMaxInputSize(n int) Option {
	return codec.WithMaxInputSize(n)
}

// Marshal encodes v into an enveloped metapack buffer.
//
// Parameters:
//   - v: Value to encode
//   - opts: Optional limits (see WithMaxDepth)
//
// Returns:
//   - []byte: The encoded buffer, starting with the magic number
//   - error: An error wrapping one of the errs kinds
//
// Example:
//
//	data, err := metapack.Marshal([]int{1, 2, 3})
func Marshal(v any, opts ...Option) ([]byte, error) {
	return codec.Encode(v, opts...)
}

// Unmarshal decodes an enveloped metapack buffer into target, a non-nil pointer.
//
// Returns an error wrapping errs.ErrParsing for a missing magic number or a
// malformed layout, and errs.ErrMetadata for an unsupported version or a
// missing field.
func Unmarshal(data []byte, target any, opts ...Option) error {
	return codec.Decode(data, target, opts...)
}

// Decode decodes an enveloped metapack buffer as T.
//
// Example:
//
//	ids, err := metapack.Decode[[]int64](data)
func Decode[T any](data []byte, opts ...Option) (T, error) {
	var v T
	err := codec.Decode(data, &v, opts...)

	return v, err
}

// Inspect returns the entry tree of a buffer for diagnostics.
// The magic number is optional.
func Inspect(data []byte, opts ...Option) (*codec.Node, error) {
	return codec.Inspect(data, opts...)
}
