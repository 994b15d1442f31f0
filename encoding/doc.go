// Package encoding implements the scalar codec of the metapack wire format.
//
// Scalars are stored as raw byte segments whose interpretation is given by the
// segment's type tag:
//
//	tag  width  content
//	i    4      signed 32-bit integer, native byte order
//	n    8      IEEE 754 double, native byte order
//	d    8      IEEE 754 double, milliseconds since Unix epoch
//	b    1      boolean, nonzero is true
//	s    any    UTF-8 text
//	0    1      null, a single zero byte
//
// # Integer Policy
//
// An integer whose value fits the int32 range is written as a 4-byte integer
// (tag i). Any other integer is written as an 8-byte double (tag n), which is
// exact up to 2^53 and rounds beyond that.
//
// Decoding an integer accepts both tags. A tag i value must fit the target
// width; a tag n value must be integral and inside both the int64 range and the
// target's range:
//
//	v, err := encoding.DecodeInteger[int8](format.TagInt32, raw) // 300 fails, 100 succeeds
//
// # Errors
//
// Width and UTF-8 violations wrap errs.ErrParsing, range violations wrap
// errs.ErrParsing through errs.ErrValueOutOfRange, and tag mismatches wrap
// errs.ErrUnsupportedType.
package encoding
