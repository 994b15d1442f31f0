package codec

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/arloliu/metapack/errs"
	"github.com/arloliu/metapack/format"
	"github.com/arloliu/metapack/section"
)

// Decoder is the engine that reads a single container buffer.
//
// It owns the container's metadata index and data region, plus a cursor for
// positional access. Nested values are read by child engines scoped to the
// field's slice. A Decoder is not safe for concurrent use.
type Decoder struct {
	cfg    *Config
	depth  int
	index  *section.Index
	data   []byte
	cursor int
}

func newDecoder(cfg *Config, depth int, buf []byte) (*Decoder, error) {
	idx, data, err := section.Extract(buf)
	if err != nil {
		return nil, err
	}

	return &Decoder{
		cfg:   cfg,
		depth: depth,
		index: idx,
		data:  data,
	}, nil
}

func (d *Decoder) child(buf []byte) (*Decoder, error) {
	if err := d.cfg.checkDepth(d.depth + 1); err != nil {
		return nil, err
	}

	return newDecoder(d.cfg, d.depth+1, buf)
}

// fieldBytes resolves name to its entry and segment.
//
// Returns errs.ErrFieldNotFound if no entry carries name, and
// errs.ErrOffsetOutOfRange if the entry's segment lies outside the data region.
func (d *Decoder) fieldBytes(name string) (section.Entry, []byte, error) {
	entry, ok := d.index.Lookup(name)
	if !ok {
		return entry, nil, fmt.Errorf("%w: %q", errs.ErrFieldNotFound, name)
	}

	raw, ok := entry.Slice(d.data)
	if !ok {
		return entry, nil, fmt.Errorf("%w: field %q [%d, %d) of %d bytes",
			errs.ErrOffsetOutOfRange, name, entry.Start, entry.End(), len(d.data))
	}

	return entry, raw, nil
}

// decodeField decodes the field name into target, a non-nil pointer.
func (d *Decoder) decodeField(name string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: got %T", errs.ErrInvalidDecodeTarget, target)
	}

	return d.decodeFieldValue(name, rv.Elem())
}

func (d *Decoder) decodeFieldValue(name string, rv reflect.Value) error {
	entry, raw, err := d.fieldBytes(name)
	if err != nil {
		return err
	}

	return d.decodeValue(entry.Type, raw, rv)
}

// atEnd reports whether every positional entry has been consumed.
func (d *Decoder) atEnd() bool {
	return d.cursor >= d.index.Len()
}

// decodeNextValue decodes the entry at the cursor and advances it on success.
func (d *Decoder) decodeNextValue(rv reflect.Value) error {
	if d.atEnd() {
		return fmt.Errorf("%w: position %d of %d", errs.ErrSequenceExhausted, d.cursor, d.index.Len())
	}

	if err := d.decodeFieldValue(strconv.Itoa(d.cursor), rv); err != nil {
		return err
	}
	d.cursor++

	return nil
}

func (d *Decoder) decodeNext(target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: got %T", errs.ErrInvalidDecodeTarget, target)
	}

	return d.decodeNextValue(rv.Elem())
}

// nestedDecoder opens a child engine over raw after checking the tag.
func (d *Decoder) nestedDecoder(tag format.Tag, raw []byte, accept func(format.Tag) bool, want string) (*Decoder, error) {
	if !accept(tag) {
		return nil, fmt.Errorf("%w: cannot decode %q as %s", errs.ErrUnsupportedType, tag.String(), want)
	}

	return d.child(raw)
}

func isRecordTag(t format.Tag) bool   { return t == format.TagObject }
func isSequenceTag(t format.Tag) bool { return t.IsSequence() }
func isMapTag(t format.Tag) bool      { return t == format.TagMap }

// nextPair opens the pair record at the cursor of a map container and advances.
func (d *Decoder) nextPair() (*Decoder, error) {
	if d.atEnd() {
		return nil, fmt.Errorf("%w: position %d of %d", errs.ErrSequenceExhausted, d.cursor, d.index.Len())
	}

	entry, raw, err := d.fieldBytes(strconv.Itoa(d.cursor))
	if err != nil {
		return nil, err
	}

	pair, err := d.nestedDecoder(entry.Type, raw, isRecordTag, "map pair")
	if err != nil {
		return nil, err
	}
	d.cursor++

	return pair, nil
}

// RecordDecoder reads the named fields of a record container.
// Fields may be read in any order and more than once.
type RecordDecoder struct {
	d *Decoder
}

// Len returns the number of entries in the record.
func (r *RecordDecoder) Len() int {
	return r.d.index.Len()
}

// Names returns the field names in encode order.
func (r *RecordDecoder) Names() []string {
	names := make([]string, 0, r.d.index.Len())
	for _, e := range r.d.index.Entries() {
		names = append(names, e.Name)
	}

	return names
}

// Has reports whether the record has a field named name.
func (r *RecordDecoder) Has(name string) bool {
	_, ok := r.d.index.Lookup(name)
	return ok
}

// Tag returns the type tag of the field name.
func (r *RecordDecoder) Tag(name string) (format.Tag, bool) {
	e, ok := r.d.index.Lookup(name)
	return e.Type, ok
}

// Decode decodes the field name into target, which must be a non-nil pointer.
func (r *RecordDecoder) Decode(name string, target any) error {
	return r.d.decodeField(name, target)
}

// Bool decodes a boolean field.
func (r *RecordDecoder) Bool(name string) (bool, error) {
	return Field[bool](r, name)
}

// String decodes a string field.
func (r *RecordDecoder) String(name string) (string, error) {
	return Field[string](r, name)
}

// Int64 decodes an integer field.
func (r *RecordDecoder) Int64(name string) (int64, error) {
	return Field[int64](r, name)
}

// Float64 decodes a numeric field.
func (r *RecordDecoder) Float64(name string) (float64, error) {
	return Field[float64](r, name)
}

// Bytes decodes a byte array or raw data field. The result does not alias the input.
func (r *RecordDecoder) Bytes(name string) ([]byte, error) {
	return Field[[]byte](r, name)
}

// Time decodes a date field.
func (r *RecordDecoder) Time(name string) (time.Time, error) {
	return Field[time.Time](r, name)
}

// Field decodes the field name of a record as T.
func Field[T any](r *RecordDecoder, name string) (T, error) {
	var v T
	err := r.d.decodeField(name, &v)

	return v, err
}

// SequenceDecoder reads the elements of a sequence or set container.
//
// Access is strictly forward: each successful Decode consumes the element at
// the cursor.
type SequenceDecoder struct {
	d *Decoder
}

// Len returns the number of elements.
func (s *SequenceDecoder) Len() int {
	return s.d.index.Len()
}

// Position returns the cursor, the position of the next element.
func (s *SequenceDecoder) Position() int {
	return s.d.cursor
}

// AtEnd reports whether all elements were consumed.
func (s *SequenceDecoder) AtEnd() bool {
	return s.d.atEnd()
}

// Tag returns the type tag of the next element.
func (s *SequenceDecoder) Tag() (format.Tag, bool) {
	e, ok := s.d.index.Lookup(strconv.Itoa(s.d.cursor))
	return e.Type, ok
}

// Decode decodes the next element into target and advances the cursor.
//
// Returns errs.ErrSequenceExhausted when AtEnd.
func (s *SequenceDecoder) Decode(target any) error {
	return s.d.decodeNext(target)
}

// Next decodes the next element of a sequence as T.
func Next[T any](s *SequenceDecoder) (T, error) {
	var v T
	err := s.d.decodeNext(&v)

	return v, err
}

// MapDecoder reads the key/value pairs of a map container in encoded order.
type MapDecoder struct {
	d *Decoder
}

// Len returns the number of pairs.
func (m *MapDecoder) Len() int {
	return m.d.index.Len()
}

// AtEnd reports whether all pairs were consumed.
func (m *MapDecoder) AtEnd() bool {
	return m.d.atEnd()
}

// Next decodes the next pair into key and value, both non-nil pointers.
func (m *MapDecoder) Next(key, value any) error {
	pair, err := m.d.nextPair()
	if err != nil {
		return err
	}

	if err := pair.decodeField("0", key); err != nil {
		return err
	}

	return pair.decodeField("1", value)
}
