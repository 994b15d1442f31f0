package codec

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/metapack/endian"
	"github.com/arloliu/metapack/section"
)

type person struct {
	name string
	age  int
}

func (p person) MarshalRecord(enc *RecordEncoder) error {
	if err := enc.Field("name", p.name); err != nil {
		return err
	}

	return enc.Field("age", p.age)
}

func (p *person) UnmarshalRecord(dec *RecordDecoder) error {
	name, err := dec.String("name")
	if err != nil {
		return err
	}

	age, err := Field[int](dec, "age")
	if err != nil {
		return err
	}

	p.name, p.age = name, age

	return nil
}

// countdown encodes as the sequence n, n-1, ..., 1.
type countdown int

func (c countdown) MarshalSequence(enc *SequenceEncoder) error {
	for i := int(c); i > 0; i-- {
		if err := enc.Append(i); err != nil {
			return err
		}
	}

	return nil
}

func (c *countdown) UnmarshalSequence(dec *SequenceDecoder) error {
	*c = countdown(dec.Len())
	for !dec.AtEnd() {
		want := dec.Len() - dec.Position()
		got, err := Next[int](dec)
		if err != nil {
			return err
		}
		if got != want {
			return fmt.Errorf("element %d: got %d", want, got)
		}
	}

	return nil
}

type header struct {
	key   string
	value string
}

type headers []header

func (h headers) MarshalMap(enc *MapEncoder) error {
	for _, kv := range h {
		if err := enc.Entry(kv.key, kv.value); err != nil {
			return err
		}
	}

	return nil
}

func (h *headers) UnmarshalMap(dec *MapDecoder) error {
	out := make(headers, 0, dec.Len())
	for !dec.AtEnd() {
		var kv header
		if err := dec.Next(&kv.key, &kv.value); err != nil {
			return err
		}
		out = append(out, kv)
	}
	*h = out

	return nil
}

type version struct {
	major int
	minor int
}

func (v version) MarshalScalar() (any, error) {
	return fmt.Sprintf("%d.%d", v.major, v.minor), nil
}

func (v *version) UnmarshalScalar(s any) error {
	str, ok := s.(string)
	if !ok {
		return fmt.Errorf("version: unexpected %T", s)
	}

	_, err := fmt.Sscanf(str, "%d.%d", &v.major, &v.minor)

	return err
}

// counter carries its capabilities on the pointer receiver only.
type counter struct {
	n int
}

func (c *counter) MarshalScalar() (any, error) {
	return c.n, nil
}

func (c *counter) UnmarshalScalar(v any) error {
	n, ok := v.(int64)
	if !ok {
		return fmt.Errorf("counter: unexpected %T", v)
	}
	c.n = int(n)

	return nil
}

var errBoom = errors.New("boom")

type failingScalar struct{}

func (failingScalar) MarshalScalar() (any, error) {
	return nil, errBoom
}

type compositeScalar struct{}

func (compositeScalar) MarshalScalar() (any, error) {
	return []int{1, 2}, nil
}

type duplicateRecord struct{}

func (duplicateRecord) MarshalRecord(enc *RecordEncoder) error {
	if err := enc.Field("a", 1); err != nil {
		return err
	}

	return enc.Field("a", 2)
}

// sliceKeyMap writes a single pair whose key is a sequence.
type sliceKeyMap struct{}

func (sliceKeyMap) MarshalMap(enc *MapEncoder) error {
	return enc.Entry([]int{1}, "one")
}

// splitContainer returns the index and data region of a container buffer.
func splitContainer(t *testing.T, buf []byte) (*section.Index, []byte) {
	t.Helper()

	idx, data, err := section.Extract(buf)
	require.NoError(t, err)

	return idx, data
}

// fieldSegment returns the segment of the named entry.
func fieldSegment(t *testing.T, idx *section.Index, data []byte, name string) (section.Entry, []byte) {
	t.Helper()

	e, ok := idx.Lookup(name)
	require.True(t, ok, "entry %q", name)

	seg, ok := e.Slice(data)
	require.True(t, ok, "entry %q in bounds", name)

	return e, seg
}

// payloadOf returns the payload entry and segment of an enveloped buffer.
func payloadOf(t *testing.T, data []byte) (section.Entry, []byte) {
	t.Helper()

	require.True(t, section.HasMagic(data))
	idx, region := splitContainer(t, data[section.MagicSize:])

	return fieldSegment(t, idx, region, section.PayloadField)
}

// rawEnvelope frames items into an enveloped buffer without going through the encoder.
func rawEnvelope(t *testing.T, items ...section.Item) []byte {
	t.Helper()

	out, err := section.AppendContainer(section.AppendMagic(nil), items)
	require.NoError(t, err)

	return out
}

// rawMetadataEnvelope frames a hand-written metadata block and data region.
func rawMetadataEnvelope(metadata string, data []byte) []byte {
	out := section.AppendMagic(nil)
	out = endian.GetLittleEndianEngine().AppendUint32(out, uint32(len(metadata))) //nolint: gosec
	out = append(out, metadata...)

	return append(out, data...)
}
