package codec

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/metapack/encoding"
	"github.com/arloliu/metapack/errs"
	"github.com/arloliu/metapack/format"
	"github.com/arloliu/metapack/section"
)

type lineItem struct {
	SKU      string  `metapack:"sku"`
	Quantity uint16  `metapack:"qty"`
	Price    float64 `metapack:"price"`
}

type order struct {
	ID       int64              `metapack:"id"`
	Customer person             `metapack:"customer"`
	Items    []lineItem         `metapack:"items"`
	Tags     Set[string]        `metapack:"tags"`
	Totals   map[string]float64 `metapack:"totals"`
	Created  time.Time          `metapack:"created"`
	Checksum [4]byte            `metapack:"checksum"`
	Payload  []byte             `metapack:"payload"`
	Raw      RawData            `metapack:"raw"`
	Note     *string            `metapack:"note"`
	Parent   *order             `metapack:"parent,omitempty"`
	Version  version            `metapack:"version"`
	Extra    any                `metapack:"extra"`
}

func sampleOrder() order {
	note := "leave at door"

	return order{
		ID:       1 << 40,
		Customer: person{name: "ada", age: 36},
		Items: []lineItem{
			{SKU: "A-1", Quantity: 2, Price: 9.99},
			{SKU: "B-2", Quantity: 1, Price: 120},
		},
		Tags:     NewSet("gift", "express"),
		Totals:   map[string]float64{"net": 140.0, "tax": 11.2},
		Created:  time.UnixMilli(1700000000123).UTC(),
		Checksum: [4]byte{0xde, 0xad, 0xbe, 0xef},
		Payload:  []byte("body"),
		Raw:      RawData{1, 2, 3},
		Note:     &note,
		Parent:   &order{ID: 7, Tags: NewSet[string](), Created: time.UnixMilli(0).UTC()},
		Version:  version{major: 2, minor: 1},
		Extra:    "free form",
	}
}

func TestDecode_RoundTripStruct(t *testing.T) {
	want := sampleOrder()

	data, err := Encode(want)
	require.NoError(t, err)

	var got order
	require.NoError(t, Decode(data, &got))

	require.True(t, want.Created.Equal(got.Created))
	require.True(t, want.Parent.Created.Equal(got.Parent.Created))
	got.Created, got.Parent.Created = want.Created, want.Parent.Created

	require.Equal(t, want, got)
}

func TestDecode_RoundTripScalars(t *testing.T) {
	t.Run("int kinds", func(t *testing.T) {
		roundTrip(t, int8(-128))
		roundTrip(t, int16(math.MaxInt16))
		roundTrip(t, int32(math.MinInt32))
		roundTrip(t, int64(math.MaxInt32)+1)
		roundTrip(t, int64(-1)<<53)
		roundTrip(t, uint8(255))
		roundTrip(t, uint32(math.MaxUint32))
		roundTrip(t, uint64(1)<<52)
		roundTrip(t, 0)
	})

	t.Run("floats", func(t *testing.T) {
		roundTrip(t, 3.25)
		roundTrip(t, float32(-0.5))
		roundTrip(t, math.Inf(1))
	})

	t.Run("strings and bytes", func(t *testing.T) {
		roundTrip(t, "")
		roundTrip(t, "日本語")
		roundTrip(t, []byte{0, 1, 2})
		roundTrip(t, [3]byte{3, 2, 1})
		roundTrip(t, RawData("opaque"))
		roundTrip(t, true)
	})

	t.Run("time", func(t *testing.T) {
		want := time.Date(2024, 2, 29, 12, 30, 45, 250*int(time.Millisecond), time.UTC)

		data, err := Encode(want)
		require.NoError(t, err)

		var got time.Time
		require.NoError(t, Decode(data, &got))
		require.True(t, want.Equal(got), "got %s", got)
	})

	t.Run("composites", func(t *testing.T) {
		roundTrip(t, []string{"a", "b"})
		roundTrip(t, []int{})
		roundTrip(t, [][]int{{1}, {2, 3}})
		roundTrip(t, [2]bool{true, false})
		roundTrip(t, map[int]string{1: "one", -5: "minus five"})
		roundTrip(t, map[string][]string{"k": {"v"}})
		roundTrip(t, NewSet(3, 1, 2))
		roundTrip(t, countdown(4))
		roundTrip(t, headers{{"accept", "json"}, {"host", "example.org"}})
		roundTrip(t, counter{n: 9})
	})
}

func roundTrip[T any](t *testing.T, want T) {
	t.Helper()

	data, err := Encode(want)
	require.NoError(t, err)

	var got T
	require.NoError(t, Decode(data, &got))
	require.Equal(t, want, got)
}

func TestDecode_Null(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)

	p := new(int)
	require.NoError(t, Decode(data, &p))
	require.Nil(t, p)

	s := []int{1}
	require.NoError(t, Decode(data, &s))
	require.Nil(t, s)

	var v any = 1
	require.NoError(t, Decode(data, &v))
	require.Nil(t, v)

	var n int
	require.ErrorIs(t, Decode(data, &n), errs.ErrUnsupportedType)
}

func TestDecode_IntegerRange(t *testing.T) {
	tests := []struct {
		name    string
		v       any
		decode  func([]byte) error
		wantErr error
	}{
		{"300 into int8", 300, decodeInto[int8], errs.ErrValueOutOfRange},
		{"100 into int8", 100, decodeInto[int8], nil},
		{"-1 into uint", -1, decodeInto[uint], errs.ErrValueOutOfRange},
		{"fraction into int", 3.5, decodeInto[int], errs.ErrValueOutOfRange},
		{"integral double into int", 3.0, decodeInto[int], nil},
		{"2^40 into int32", int64(1) << 40, decodeInto[int32], errs.ErrValueOutOfRange},
		{"uint64 max into uint64", uint64(math.MaxUint64), decodeInto[uint64], errs.ErrValueOutOfRange},
		{"NaN into int64", math.NaN(), decodeInto[int64], errs.ErrValueOutOfRange},
		{"string into int", "7", decodeInto[int], errs.ErrUnsupportedType},
		{"int into string", 7, decodeInto[string], errs.ErrUnsupportedType},
		{"int into float", 7, decodeInto[float64], nil},
		{"bool into int", true, decodeInto[int], errs.ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.v)
			require.NoError(t, err)

			err = tt.decode(data)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func decodeInto[T any](data []byte) error {
	var v T
	return Decode(data, &v)
}

func TestDecode_StructFields(t *testing.T) {
	type wide struct {
		A int
		B string
		C bool
	}
	type narrow struct {
		A int
		B string
	}
	type optional struct {
		A int
		D []int `metapack:",omitempty"`
	}

	data, err := Encode(wide{A: 1, B: "b", C: true})
	require.NoError(t, err)

	t.Run("extra fields are ignored", func(t *testing.T) {
		var n narrow
		require.NoError(t, Decode(data, &n))
		require.Equal(t, narrow{A: 1, B: "b"}, n)
	})

	t.Run("missing field", func(t *testing.T) {
		short, err := Encode(narrow{A: 1})
		require.NoError(t, err)

		var w wide
		err = Decode(short, &w)
		require.ErrorIs(t, err, errs.ErrFieldNotFound)
		require.ErrorIs(t, err, errs.ErrMetadata)
	})

	t.Run("missing omitempty field", func(t *testing.T) {
		var o optional
		require.NoError(t, Decode(data, &o))
		require.Equal(t, optional{A: 1}, o)
	})

	t.Run("struct from map", func(t *testing.T) {
		var n narrow
		m, err := Encode(map[string]int{"A": 1})
		require.NoError(t, err)
		require.ErrorIs(t, Decode(m, &n), errs.ErrUnsupportedType)
	})

	t.Run("record into string keyed map", func(t *testing.T) {
		var m map[string]any
		require.NoError(t, Decode(data, &m))
		require.Equal(t, map[string]any{"A": int64(1), "B": "b", "C": true}, m)
	})
}

func TestDecode_Envelope(t *testing.T) {
	valid, err := Encode(5)
	require.NoError(t, err)

	payload := section.Item{Name: section.PayloadField, Type: format.TagInt32, Data: encoding.AppendInt32(nil, 5)}

	tests := []struct {
		name string
		data []byte
		want []error
	}{
		{"empty", nil, []error{errs.ErrInvalidMagicNumber, errs.ErrParsing}},
		{"wrong magic", append([]byte{0xAA, 0xBB, 0xBB, 0xAB}, valid[4:]...), []error{errs.ErrInvalidMagicNumber}},
		{"bare container", valid[4:], []error{errs.ErrInvalidMagicNumber}},
		{"truncated length", valid[:6], []error{errs.ErrInvalidLength, errs.ErrParsing}},
		{"truncated metadata", valid[:12], []error{errs.ErrInvalidLength}},
		{"malformed metadata", rawMetadataEnvelope(`{"1":`, nil), []error{errs.ErrDecoding}},
		{"unknown tag", rawMetadataEnvelope(`{"1":{"s":0,"z":1,"t":"q","n":"ver003"}}`, []byte{1}), []error{errs.ErrDecoding}},
		{"missing version", rawEnvelope(t, payload), []error{errs.ErrUnsupportedVersion, errs.ErrMetadata}},
		{"false version", rawEnvelope(t,
			section.Item{Name: section.VersionField, Type: format.TagBool, Data: []byte{0}}, payload),
			[]error{errs.ErrUnsupportedVersion}},
		{"string version", rawEnvelope(t,
			section.Item{Name: section.VersionField, Type: format.TagString, Data: []byte("true")}, payload),
			[]error{errs.ErrUnsupportedVersion}},
		{"missing payload", rawEnvelope(t,
			section.Item{Name: section.VersionField, Type: format.TagBool, Data: []byte{1}}),
			[]error{errs.ErrFieldNotFound}},
		{"payload out of range", rawMetadataEnvelope(
			`{"1":{"s":0,"z":1,"t":"b","n":"ver003"},"2":{"s":1,"z":100,"t":"i","n":"payload"}}`,
			[]byte{1, 5, 0, 0, 0}),
			[]error{errs.ErrOffsetOutOfRange, errs.ErrParsing}},
		{"bad payload width", rawEnvelope(t,
			section.Item{Name: section.VersionField, Type: format.TagBool, Data: []byte{1}},
			section.Item{Name: section.PayloadField, Type: format.TagInt32, Data: []byte{1, 2}}),
			[]error{errs.ErrInvalidWidth, errs.ErrParsing}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v int
			err := Decode(tt.data, &v)
			require.Error(t, err)
			for _, want := range tt.want {
				require.ErrorIs(t, err, want)
			}
		})
	}

	t.Run("valid", func(t *testing.T) {
		var v int
		require.NoError(t, Decode(valid, &v))
		require.Equal(t, 5, v)
	})
}

func TestDecode_InvalidTarget(t *testing.T) {
	data, err := Encode(1)
	require.NoError(t, err)

	var v int
	require.ErrorIs(t, Decode(data, v), errs.ErrInvalidDecodeTarget)
	require.ErrorIs(t, Decode(data, nil), errs.ErrInvalidDecodeTarget)
	require.ErrorIs(t, Decode(data, (*int)(nil)), errs.ErrInvalidDecodeTarget)

	var e error
	require.ErrorIs(t, Decode(data, &e), errs.ErrUnsupportedType)
}

func TestDecode_Limits(t *testing.T) {
	data, err := Encode([][]int{{1}})
	require.NoError(t, err)

	var v [][]int
	err = Decode(data, &v, WithMaxDepth(1))
	require.ErrorIs(t, err, errs.ErrMaxDepthExceeded)

	require.NoError(t, Decode(data, &v, WithMaxDepth(2)))

	err = Decode(data, &v, WithMaxInputSize(len(data)-1))
	require.ErrorIs(t, err, errs.ErrMaxInputSizeExceeded)
	require.ErrorIs(t, err, errs.ErrLimitExceeded)

	require.NoError(t, Decode(data, &v, WithMaxInputSize(len(data))))
}

func TestDecode_Reencode(t *testing.T) {
	data, err := Encode(sampleOrder())
	require.NoError(t, err)

	var o order
	require.NoError(t, Decode(data, &o))

	again, err := Encode(o)
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func TestDecode_ArrayLength(t *testing.T) {
	data, err := Encode([]int{1, 2, 3})
	require.NoError(t, err)

	var short [2]int
	require.ErrorIs(t, Decode(data, &short), errs.ErrUnsupportedType)

	b, err := Encode([]byte{1, 2, 3})
	require.NoError(t, err)

	var fixed [2]byte
	require.ErrorIs(t, Decode(b, &fixed), errs.ErrInvalidWidth)
}

func TestDecode_UnhashableKey(t *testing.T) {
	data, err := Encode(sliceKeyMap{})
	require.NoError(t, err)

	var m map[any]any
	require.ErrorIs(t, Decode(data, &m), errs.ErrUnhashableMapKey)
}
