package encoding

import (
	"fmt"
	"math"
	"time"
	"unsafe"

	"github.com/arloliu/metapack/errs"
	"github.com/arloliu/metapack/format"
)

// Signed is the set of signed integer types.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is the set of unsigned integer types.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is the set of all integer types.
type Integer interface {
	Signed | Unsigned
}

// Float is the set of floating point types.
type Float interface {
	~float32 | ~float64
}

// int64 bounds as doubles; the upper one is exclusive.
const (
	minInt64Float = -(1 << 63)
	maxInt64Float = 1 << 63
)

func isSigned[T Integer]() bool {
	var zero T
	return zero-1 < zero
}

// integerBounds returns the inclusive lower and exclusive upper bound of T as doubles.
func integerBounds[T Integer]() (float64, float64) {
	var zero T
	bits := int(unsafe.Sizeof(zero)) * 8
	if isSigned[T]() {
		return -math.Ldexp(1, bits-1), math.Ldexp(1, bits-1)
	}

	return 0, math.Ldexp(1, bits)
}

func fitsInt32[T Integer](v T) bool {
	if isSigned[T]() {
		i := int64(v)
		return i >= math.MinInt32 && i <= math.MaxInt32
	}

	return uint64(v) <= math.MaxInt32
}

// EncodeInteger serializes v according to the integer policy.
//
// Returns:
//   - format.Tag: TagInt32 when v fits int32, TagNumber otherwise
//   - []byte: the 4-byte integer or 8-byte double
func EncodeInteger[T Integer](v T) (format.Tag, []byte) {
	if fitsInt32(v) {
		return format.TagInt32, AppendInt32(make([]byte, 0, Int32Size), int32(v)) //nolint: gosec
	}

	if isSigned[T]() {
		return format.TagNumber, AppendFloat64(make([]byte, 0, Float64Size), float64(int64(v)))
	}

	return format.TagNumber, AppendFloat64(make([]byte, 0, Float64Size), float64(uint64(v)))
}

// EncodeFloat serializes v as an 8-byte double.
func EncodeFloat[T Float](v T) (format.Tag, []byte) {
	return format.TagNumber, AppendFloat64(make([]byte, 0, Float64Size), float64(v))
}

// DecodeInteger decodes a segment into the integer type T.
//
// Parameters:
//   - tag: Type tag of the segment
//   - data: Segment bytes
//
// Returns:
//   - T: Decoded value
//   - error: errs.ErrValueOutOfRange if the value does not fit T or is fractional,
//     errs.ErrInvalidWidth on a wrong segment width, errs.ErrUnsupportedType for
//     any tag other than TagInt32 and TagNumber
func DecodeInteger[T Integer](tag format.Tag, data []byte) (T, error) {
	lo, hi := integerBounds[T]()

	switch tag { //nolint: exhaustive
	case format.TagInt32:
		v, err := ReadInt32(data)
		if err != nil {
			return 0, err
		}

		f := float64(v)
		if f < lo || f >= hi {
			var zero T
			return 0, fmt.Errorf("%w: %d does not fit %T", errs.ErrValueOutOfRange, v, zero)
		}

		return T(v), nil

	case format.TagNumber:
		f, err := ReadFloat64(data)
		if err != nil {
			return 0, err
		}

		lo = max(lo, minInt64Float)
		hi = min(hi, maxInt64Float)
		if !(f >= lo && f < hi) {
			var zero T
			return 0, fmt.Errorf("%w: %g does not fit %T", errs.ErrValueOutOfRange, f, zero)
		}
		if f != math.Round(f) {
			return 0, fmt.Errorf("%w: %g is not integral", errs.ErrValueOutOfRange, f)
		}

		if isSigned[T]() {
			return T(int64(f)), nil
		}

		return T(uint64(f)), nil

	default:
		var zero T
		return 0, fmt.Errorf("%w: cannot decode %q as %T", errs.ErrUnsupportedType, tag.String(), zero)
	}
}

// DecodeFloat decodes a segment into the floating point type T.
//
// TagInt32 values are widened, TagNumber values are converted to T.
func DecodeFloat[T Float](tag format.Tag, data []byte) (T, error) {
	switch tag { //nolint: exhaustive
	case format.TagInt32:
		v, err := ReadInt32(data)
		if err != nil {
			return 0, err
		}

		return T(v), nil

	case format.TagNumber:
		f, err := ReadFloat64(data)
		if err != nil {
			return 0, err
		}

		return T(f), nil

	default:
		var zero T
		return 0, fmt.Errorf("%w: cannot decode %q as %T", errs.ErrUnsupportedType, tag.String(), zero)
	}
}

// DecodeBool decodes a TagBool segment.
func DecodeBool(tag format.Tag, data []byte) (bool, error) {
	if tag != format.TagBool {
		return false, fmt.Errorf("%w: cannot decode %q as bool", errs.ErrUnsupportedType, tag.String())
	}

	return ReadBool(data)
}

// DecodeString decodes a TagString segment.
func DecodeString(tag format.Tag, data []byte) (string, error) {
	if tag != format.TagString {
		return "", fmt.Errorf("%w: cannot decode %q as string", errs.ErrUnsupportedType, tag.String())
	}

	return ReadUTF8(data)
}

// EncodeTime serializes t as a double of milliseconds since the Unix epoch.
// Sub-millisecond precision is kept as the fractional part, as far as a
// double allows.
func EncodeTime(t time.Time) []byte {
	ms := float64(t.UnixMilli()) + float64(t.Nanosecond()%int(time.Millisecond))/float64(time.Millisecond)

	return AppendFloat64(make([]byte, 0, Float64Size), ms)
}

// DecodeTime decodes a millisecond double into a UTC time.
//
// Both TagDate and TagNumber are accepted. The stored value is in milliseconds;
// dividing by 1000 gives seconds since the epoch.
func DecodeTime(tag format.Tag, data []byte) (time.Time, error) {
	if tag != format.TagDate && tag != format.TagNumber {
		return time.Time{}, fmt.Errorf("%w: cannot decode %q as time", errs.ErrUnsupportedType, tag.String())
	}

	ms, err := ReadFloat64(data)
	if err != nil {
		return time.Time{}, err
	}

	if !(ms >= minInt64Float && ms < maxInt64Float) {
		return time.Time{}, fmt.Errorf("%w: %g is not a valid timestamp", errs.ErrValueOutOfRange, ms)
	}

	whole := math.Floor(ms)
	frac := time.Duration(math.Round((ms - whole) * float64(time.Millisecond)))

	return time.UnixMilli(int64(whole)).Add(frac).UTC(), nil
}
