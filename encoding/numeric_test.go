package encoding

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/metapack/errs"
	"github.com/arloliu/metapack/format"
)

func TestEncodeInteger(t *testing.T) {
	t.Run("fits int32", func(t *testing.T) {
		tag, data := EncodeInteger(int64(100))
		require.Equal(t, format.TagInt32, tag)
		require.Len(t, data, Int32Size)

		tag, data = EncodeInteger(uint32(math.MaxInt32))
		require.Equal(t, format.TagInt32, tag)
		require.Len(t, data, Int32Size)

		tag, _ = EncodeInteger(int8(-5))
		require.Equal(t, format.TagInt32, tag)
	})

	t.Run("beyond int32 falls back to double", func(t *testing.T) {
		tag, data := EncodeInteger(int64(math.MaxInt32) + 1)
		require.Equal(t, format.TagNumber, tag)
		require.Len(t, data, Float64Size)

		f, err := ReadFloat64(data)
		require.NoError(t, err)
		require.Equal(t, float64(math.MaxInt32)+1, f)

		tag, _ = EncodeInteger(uint32(math.MaxUint32))
		require.Equal(t, format.TagNumber, tag)

		tag, _ = EncodeInteger(int64(math.MinInt32) - 1)
		require.Equal(t, format.TagNumber, tag)
	})
}

func TestDecodeIntegerRange(t *testing.T) {
	_, raw300 := EncodeInteger(300)
	_, err := DecodeInteger[int8](format.TagInt32, raw300)
	require.ErrorIs(t, err, errs.ErrParsing)
	require.ErrorIs(t, err, errs.ErrValueOutOfRange)

	_, raw100 := EncodeInteger(100)
	v, err := DecodeInteger[int8](format.TagInt32, raw100)
	require.NoError(t, err)
	require.Equal(t, int8(100), v)

	_, rawNeg := EncodeInteger(-1)
	_, err = DecodeInteger[uint16](format.TagInt32, rawNeg)
	require.ErrorIs(t, err, errs.ErrValueOutOfRange)

	u, err := DecodeInteger[uint8](format.TagInt32, AppendInt32(nil, 255))
	require.NoError(t, err)
	require.Equal(t, uint8(255), u)

	_, err = DecodeInteger[uint8](format.TagInt32, AppendInt32(nil, 256))
	require.ErrorIs(t, err, errs.ErrValueOutOfRange)
}

func TestDecodeIntegerFromDouble(t *testing.T) {
	v, err := DecodeInteger[int](format.TagNumber, AppendFloat64(nil, 3.0))
	require.NoError(t, err)
	require.Equal(t, 3, v)

	_, err = DecodeInteger[int](format.TagNumber, AppendFloat64(nil, 3.5))
	require.ErrorIs(t, err, errs.ErrParsing)

	big := int64(1) << 52
	tag, data := EncodeInteger(big)
	require.Equal(t, format.TagNumber, tag)
	got, err := DecodeInteger[int64](tag, data)
	require.NoError(t, err)
	require.Equal(t, big, got)

	_, err = DecodeInteger[int32](format.TagNumber, AppendFloat64(nil, float64(math.MaxInt32)+1))
	require.ErrorIs(t, err, errs.ErrValueOutOfRange)

	_, err = DecodeInteger[int64](format.TagNumber, AppendFloat64(nil, 1e19))
	require.ErrorIs(t, err, errs.ErrValueOutOfRange)

	_, err = DecodeInteger[uint64](format.TagNumber, AppendFloat64(nil, 1e19))
	require.ErrorIs(t, err, errs.ErrValueOutOfRange, "doubles beyond int64 are rejected")

	_, err = DecodeInteger[int64](format.TagNumber, AppendFloat64(nil, math.NaN()))
	require.ErrorIs(t, err, errs.ErrValueOutOfRange)

	_, err = DecodeInteger[int64](format.TagNumber, AppendFloat64(nil, math.Inf(-1)))
	require.ErrorIs(t, err, errs.ErrValueOutOfRange)

	minimum, err := DecodeInteger[int64](format.TagNumber, AppendFloat64(nil, -(1<<63)))
	require.NoError(t, err)
	require.Equal(t, int64(math.MinInt64), minimum)
}

func TestDecodeIntegerTagMismatch(t *testing.T) {
	_, err := DecodeInteger[int](format.TagString, []byte("12"))
	require.ErrorIs(t, err, errs.ErrUnsupportedType)

	_, err = DecodeInteger[int](format.TagInt32, []byte{1, 2})
	require.ErrorIs(t, err, errs.ErrInvalidWidth)
}

func TestDecodeFloat(t *testing.T) {
	f, err := DecodeFloat[float64](format.TagInt32, AppendInt32(nil, -7))
	require.NoError(t, err)
	require.Equal(t, -7.0, f)

	tag, data := EncodeFloat(float32(1.5))
	require.Equal(t, format.TagNumber, tag)
	f32, err := DecodeFloat[float32](tag, data)
	require.NoError(t, err)
	require.Equal(t, float32(1.5), f32)

	_, err = DecodeFloat[float64](format.TagBool, []byte{1})
	require.ErrorIs(t, err, errs.ErrUnsupportedType)
}

func TestDecodeBoolAndString(t *testing.T) {
	b, err := DecodeBool(format.TagBool, []byte{1})
	require.NoError(t, err)
	require.True(t, b)

	_, err = DecodeBool(format.TagInt32, AppendInt32(nil, 1))
	require.ErrorIs(t, err, errs.ErrUnsupportedType)

	s, err := DecodeString(format.TagString, []byte("abc"))
	require.NoError(t, err)
	require.Equal(t, "abc", s)

	_, err = DecodeString(format.TagBool, []byte{1})
	require.ErrorIs(t, err, errs.ErrUnsupportedType)
}

func TestTimeRoundTrip(t *testing.T) {
	want := time.UnixMilli(1_760_000_000_123).UTC()

	data := EncodeTime(want)
	ms, err := ReadFloat64(data)
	require.NoError(t, err)
	require.Equal(t, 1_760_000_000_123.0, ms, "stored in milliseconds")

	got, err := DecodeTime(format.TagDate, data)
	require.NoError(t, err)
	require.True(t, want.Equal(got), "want %v got %v", want, got)

	got, err = DecodeTime(format.TagNumber, data)
	require.NoError(t, err)
	require.True(t, want.Equal(got))

	before := time.Date(1969, 7, 20, 20, 17, 40, 0, time.UTC)
	got, err = DecodeTime(format.TagDate, EncodeTime(before))
	require.NoError(t, err)
	require.True(t, before.Equal(got))

	_, err = DecodeTime(format.TagString, data)
	require.ErrorIs(t, err, errs.ErrUnsupportedType)

	_, err = DecodeTime(format.TagDate, AppendFloat64(nil, math.Inf(1)))
	require.ErrorIs(t, err, errs.ErrValueOutOfRange)
}
