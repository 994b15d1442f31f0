package codec

import (
	"bytes"
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"time"

	"github.com/arloliu/metapack/encoding"
	"github.com/arloliu/metapack/errs"
	"github.com/arloliu/metapack/format"
	"github.com/arloliu/metapack/internal/collision"
	"github.com/arloliu/metapack/internal/pool"
	"github.com/arloliu/metapack/section"
)

type containerShape uint8

const (
	shapeRecord containerShape = iota
	shapeSequence
	shapeSet
)

// initialItemCapacity covers typical record field counts without regrowth.
const initialItemCapacity = 8

// Encoder is the engine that builds a single container buffer.
//
// It accumulates an ordered list of (name, tag, bytes) items; composite values
// are encoded by child engines. An Encoder is owned by one Encode call and is
// not safe for concurrent use.
type Encoder struct {
	cfg   *Config
	depth int
	shape containerShape
	items []section.Item
	names *collision.Tracker // record containers only
}

func newEncoder(cfg *Config, depth int, shape containerShape) *Encoder {
	e := &Encoder{
		cfg:   cfg,
		depth: depth,
		shape: shape,
		items: make([]section.Item, 0, initialItemCapacity),
	}
	if shape == shapeRecord {
		e.names = collision.NewTracker(initialItemCapacity)
	}

	return e
}

func (e *Encoder) child(shape containerShape) (*Encoder, error) {
	if err := e.cfg.checkDepth(e.depth + 1); err != nil {
		return nil, err
	}

	return newEncoder(e.cfg, e.depth+1, shape), nil
}

// recordField serializes v and appends it under name.
//
// Record containers reject a name that was already recorded.
func (e *Encoder) recordField(name string, v any) error {
	if e.names != nil {
		if err := e.names.Track(name); err != nil {
			return err
		}
	}

	tag, data, err := e.serialize(v)
	if err != nil {
		return err
	}

	e.items = append(e.items, section.Item{Name: name, Type: tag, Data: data})

	return nil
}

// recordPositional serializes v and appends it under its stringified position.
func (e *Encoder) recordPositional(v any, pos int) error {
	tag, data, err := e.serialize(v)
	if err != nil {
		return err
	}

	e.items = append(e.items, section.Item{Name: strconv.Itoa(pos), Type: tag, Data: data})

	return nil
}

// finalize frames the recorded items into a container buffer.
func (e *Encoder) finalize() ([]byte, error) {
	if e.shape == shapeSet {
		slices.SortStableFunc(e.items, func(a, b section.Item) int {
			return compareSegments(a, b)
		})
		for i := range e.items {
			e.items[i].Name = strconv.Itoa(i)
		}
	}

	bb := pool.GetContainerBuffer()
	defer pool.PutContainerBuffer(bb)

	var err error
	if bb.B, err = section.AppendContainer(bb.B, e.items); err != nil {
		return nil, err
	}

	return bb.Clone(), nil
}

// serialize produces the tag and segment bytes of v.
func (e *Encoder) serialize(v any) (format.Tag, []byte, error) {
	kind, v := classify(v)

	switch kind { //nolint: exhaustive
	case kindScalarMarshaler:
		s, err := v.(ScalarMarshaler).MarshalScalar() //nolint: forcetypeassert
		if err != nil {
			return 0, nil, err
		}

		sk, sv := classify(s)
		if !sk.isScalar() {
			return 0, nil, fmt.Errorf("%w: MarshalScalar of %T returned %T", errs.ErrInvalidCollectionElement, v, s)
		}

		return serializeScalar(sk, sv)

	case kindRecordMarshaler:
		return e.encodeComposite(format.TagObject, shapeRecord, func(c *Encoder) error {
			return v.(RecordMarshaler).MarshalRecord(&RecordEncoder{e: c}) //nolint: forcetypeassert
		})

	case kindSequenceMarshaler:
		return e.encodeComposite(format.TagArray, shapeSequence, func(c *Encoder) error {
			return v.(SequenceMarshaler).MarshalSequence(&SequenceEncoder{e: c}) //nolint: forcetypeassert
		})

	case kindSetMarshaler:
		return e.encodeComposite(format.TagSet, shapeSet, func(c *Encoder) error {
			return v.(SetMarshaler).MarshalSet(&SequenceEncoder{e: c}) //nolint: forcetypeassert
		})

	case kindMapMarshaler:
		return e.encodeMap(func(m *MapEncoder) error {
			return v.(MapMarshaler).MarshalMap(m) //nolint: forcetypeassert
		})

	case kindPointer:
		return e.serialize(reflect.ValueOf(v).Elem().Interface())

	case kindSequence:
		rv := reflect.ValueOf(v)
		return e.encodeComposite(format.TagArray, shapeSequence, func(c *Encoder) error {
			for i := range rv.Len() {
				if err := c.recordPositional(rv.Index(i).Interface(), i); err != nil {
					return err
				}
			}

			return nil
		})

	case kindMap:
		rv := reflect.ValueOf(v)
		return e.encodeMap(func(m *MapEncoder) error {
			iter := rv.MapRange()
			for iter.Next() {
				if err := m.Entry(iter.Key().Interface(), iter.Value().Interface()); err != nil {
					return err
				}
			}

			return nil
		})

	case kindRecord:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Struct {
			return 0, nil, fmt.Errorf("%w: %T", errs.ErrUnsupportedCollection, v)
		}

		return e.encodeComposite(format.TagObject, shapeRecord, func(c *Encoder) error {
			for _, f := range structFields(rv.Type()) {
				fv := rv.FieldByIndex(f.index)
				if f.omitEmpty && fv.IsZero() {
					continue
				}
				if err := c.recordField(f.name, fv.Interface()); err != nil {
					return err
				}
			}

			return nil
		})

	default:
		return serializeScalar(kind, v)
	}
}

func (e *Encoder) encodeComposite(tag format.Tag, shape containerShape, fill func(*Encoder) error) (format.Tag, []byte, error) {
	c, err := e.child(shape)
	if err != nil {
		return 0, nil, err
	}

	if err := fill(c); err != nil {
		return 0, nil, err
	}

	data, err := c.finalize()
	if err != nil {
		return 0, nil, err
	}

	return tag, data, nil
}

func (e *Encoder) encodeMap(fill func(*MapEncoder) error) (format.Tag, []byte, error) {
	c, err := e.child(shapeSequence)
	if err != nil {
		return 0, nil, err
	}

	m := &MapEncoder{e: c}
	if err := fill(m); err != nil {
		return 0, nil, err
	}

	data, err := m.finalize()
	if err != nil {
		return 0, nil, err
	}

	return format.TagMap, data, nil
}

func serializeScalar(kind valueKind, v any) (format.Tag, []byte, error) {
	if kind == kindNull {
		return format.TagNull, encoding.AppendNull(nil), nil
	}

	rv := reflect.ValueOf(v)

	switch kind { //nolint: exhaustive
	case kindBool:
		return format.TagBool, encoding.AppendBool(nil, rv.Bool()), nil
	case kindInt:
		tag, data := encoding.EncodeInteger(rv.Int())
		return tag, data, nil
	case kindUint:
		tag, data := encoding.EncodeInteger(rv.Uint())
		return tag, data, nil
	case kindFloat:
		tag, data := encoding.EncodeFloat(rv.Float())
		return tag, data, nil
	case kindString:
		data, err := encoding.AppendUTF8(nil, rv.String())
		if err != nil {
			return 0, nil, err
		}

		return format.TagString, data, nil
	case kindBytes:
		return format.TagByteArray, copyBytes(rv), nil
	case kindRaw:
		return format.TagRawData, copyBytes(rv), nil
	case kindTime:
		return format.TagDate, encoding.EncodeTime(v.(time.Time)), nil //nolint: forcetypeassert
	default:
		return 0, nil, fmt.Errorf("%w: %T", errs.ErrInvalidCollectionElement, v)
	}
}

func copyBytes(rv reflect.Value) []byte {
	out := make([]byte, rv.Len())
	if rv.Kind() == reflect.Slice {
		copy(out, rv.Bytes())
		return out
	}

	for i := range out {
		out[i] = byte(rv.Index(i).Uint())
	}

	return out
}

// compareSegments orders items by tag, then by segment bytes.
func compareSegments(a, b section.Item) int {
	if c := cmp.Compare(a.Type, b.Type); c != 0 {
		return c
	}

	return bytes.Compare(a.Data, b.Data)
}

// RecordEncoder records the named fields of a record container.
type RecordEncoder struct {
	e *Encoder
}

// Field serializes v as the field name.
//
// Returns errs.ErrDuplicateField if name was already recorded in this record.
func (r *RecordEncoder) Field(name string, v any) error {
	return r.e.recordField(name, v)
}

// Len returns the number of fields recorded so far.
func (r *RecordEncoder) Len() int {
	return len(r.e.items)
}

// SequenceEncoder records the elements of a sequence or set container.
type SequenceEncoder struct {
	e *Encoder
}

// Append serializes v as the next element.
func (s *SequenceEncoder) Append(v any) error {
	return s.e.recordPositional(v, len(s.e.items))
}

// Len returns the number of elements recorded so far.
func (s *SequenceEncoder) Len() int {
	return len(s.e.items)
}

type mapPair struct {
	key   section.Item
	value section.Item
}

// MapEncoder records the key/value pairs of a map container.
//
// Each pair becomes a record {"0": key, "1": value}; the map container is a
// sequence of those records, ordered by the encoded key.
type MapEncoder struct {
	e     *Encoder
	pairs []mapPair
	pairE *Encoder // serializes keys and values at pair-record depth
}

// Entry serializes one key/value pair.
func (m *MapEncoder) Entry(key, value any) error {
	if m.pairE == nil {
		pe, err := m.e.child(shapeRecord)
		if err != nil {
			return err
		}
		m.pairE = pe
	}

	kt, kd, err := m.pairE.serialize(key)
	if err != nil {
		return err
	}

	vt, vd, err := m.pairE.serialize(value)
	if err != nil {
		return err
	}

	m.pairs = append(m.pairs, mapPair{
		key:   section.Item{Name: "0", Type: kt, Data: kd},
		value: section.Item{Name: "1", Type: vt, Data: vd},
	})

	return nil
}

// Len returns the number of pairs recorded so far.
func (m *MapEncoder) Len() int {
	return len(m.pairs)
}

func (m *MapEncoder) finalize() ([]byte, error) {
	slices.SortStableFunc(m.pairs, func(a, b mapPair) int {
		return compareSegments(a.key, b.key)
	})

	for i, p := range m.pairs {
		data, err := section.AppendContainer(nil, []section.Item{p.key, p.value})
		if err != nil {
			return nil, err
		}
		m.e.items = append(m.e.items, section.Item{Name: strconv.Itoa(i), Type: format.TagObject, Data: data})
	}

	return m.e.finalize()
}
