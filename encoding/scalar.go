package encoding

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/arloliu/metapack/endian"
	"github.com/arloliu/metapack/errs"
)

// Fixed scalar widths in bytes.
const (
	Int32Size   = 4
	Float64Size = 8
	BoolSize    = 1
	NullSize    = 1
)

var engine = endian.GetNativeEngine()

// ReadInt32 reads a 4-byte native-order signed integer.
//
// Returns errs.ErrInvalidWidth if len(data) is not 4.
func ReadInt32(data []byte) (int32, error) {
	if len(data) != Int32Size {
		return 0, fmt.Errorf("%w: int32 needs %d bytes, got %d", errs.ErrInvalidWidth, Int32Size, len(data))
	}

	return int32(engine.Uint32(data)), nil //nolint: gosec
}

// ReadFloat64 reads an 8-byte native-order double.
//
// Returns errs.ErrInvalidWidth if len(data) is not 8.
func ReadFloat64(data []byte) (float64, error) {
	if len(data) != Float64Size {
		return 0, fmt.Errorf("%w: double needs %d bytes, got %d", errs.ErrInvalidWidth, Float64Size, len(data))
	}

	return math.Float64frombits(engine.Uint64(data)), nil
}

// ReadBool reads a single-byte boolean. Any nonzero byte is true.
func ReadBool(data []byte) (bool, error) {
	if len(data) != BoolSize {
		return false, fmt.Errorf("%w: boolean needs %d byte, got %d", errs.ErrInvalidWidth, BoolSize, len(data))
	}

	return data[0] != 0, nil
}

// ReadUTF8 converts data to a string, rejecting invalid UTF-8.
func ReadUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errs.ErrInvalidUTF8
	}

	return string(data), nil
}

// AppendInt32 appends v as 4 native-order bytes.
func AppendInt32(dst []byte, v int32) []byte {
	return engine.AppendUint32(dst, uint32(v)) //nolint: gosec
}

// AppendFloat64 appends v as 8 native-order bytes.
func AppendFloat64(dst []byte, v float64) []byte {
	return engine.AppendUint64(dst, math.Float64bits(v))
}

// AppendBool appends v as a single 0/1 byte.
func AppendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}

	return append(dst, 0)
}

// AppendNull appends the single zero byte that represents an absent value.
func AppendNull(dst []byte) []byte {
	return append(dst, 0)
}

// AppendUTF8 appends the UTF-8 bytes of s.
//
// Returns errs.ErrEncodingFailed if s is not valid UTF-8.
func AppendUTF8(dst []byte, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return dst, fmt.Errorf("%w: string is not valid UTF-8", errs.ErrEncodingFailed)
	}

	return append(dst, s...), nil
}
