package codec

import (
	"fmt"
	"reflect"

	"github.com/arloliu/metapack/encoding"
	"github.com/arloliu/metapack/errs"
	"github.com/arloliu/metapack/format"
)

// decodeValue decodes the segment raw, tagged tag, into the settable value rv.
func (d *Decoder) decodeValue(tag format.Tag, raw []byte, rv reflect.Value) error {
	if rv.CanAddr() {
		if handled, err := d.decodeCapability(tag, raw, rv.Addr().Interface()); handled {
			return err
		}
	}

	if rv.Type() == timeType {
		t, err := encoding.DecodeTime(tag, raw)
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(t))

		return nil
	}

	if tag == format.TagNull || tag == format.TagUndefined {
		switch rv.Kind() { //nolint: exhaustive
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
			rv.SetZero()
			return nil
		}
	}

	switch rv.Kind() { //nolint: exhaustive
	case reflect.Pointer:
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}

		return d.decodeValue(tag, raw, rv.Elem())

	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return unsupported(tag, rv.Type())
		}

		v, err := d.decodeDynamic(tag, raw)
		if err != nil {
			return err
		}
		if v == nil {
			rv.SetZero()
		} else {
			rv.Set(reflect.ValueOf(v))
		}

		return nil

	case reflect.Bool:
		v, err := encoding.DecodeBool(tag, raw)
		if err != nil {
			return err
		}
		rv.SetBool(v)

		return nil

	case reflect.Int:
		return setSigned[int](tag, raw, rv)
	case reflect.Int8:
		return setSigned[int8](tag, raw, rv)
	case reflect.Int16:
		return setSigned[int16](tag, raw, rv)
	case reflect.Int32:
		return setSigned[int32](tag, raw, rv)
	case reflect.Int64:
		return setSigned[int64](tag, raw, rv)
	case reflect.Uint:
		return setUnsigned[uint](tag, raw, rv)
	case reflect.Uint8:
		return setUnsigned[uint8](tag, raw, rv)
	case reflect.Uint16:
		return setUnsigned[uint16](tag, raw, rv)
	case reflect.Uint32:
		return setUnsigned[uint32](tag, raw, rv)
	case reflect.Uint64:
		return setUnsigned[uint64](tag, raw, rv)
	case reflect.Uintptr:
		return setUnsigned[uintptr](tag, raw, rv)

	case reflect.Float32:
		v, err := encoding.DecodeFloat[float32](tag, raw)
		if err != nil {
			return err
		}
		rv.SetFloat(float64(v))

		return nil

	case reflect.Float64:
		v, err := encoding.DecodeFloat[float64](tag, raw)
		if err != nil {
			return err
		}
		rv.SetFloat(v)

		return nil

	case reflect.String:
		v, err := encoding.DecodeString(tag, raw)
		if err != nil {
			return err
		}
		rv.SetString(v)

		return nil

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 && tag.IsBinary() {
			rv.SetBytes(append([]byte{}, raw...))
			return nil
		}

		return d.decodeSlice(tag, raw, rv)

	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 && tag.IsBinary() {
			if len(raw) != rv.Len() {
				return fmt.Errorf("%w: %d bytes into %s", errs.ErrInvalidWidth, len(raw), rv.Type())
			}
			for i, b := range raw {
				rv.Index(i).SetUint(uint64(b))
			}

			return nil
		}

		return d.decodeArray(tag, raw, rv)

	case reflect.Map:
		return d.decodeMap(tag, raw, rv)

	case reflect.Struct:
		return d.decodeStruct(tag, raw, rv)

	default:
		return unsupported(tag, rv.Type())
	}
}

// decodeCapability dispatches to the unmarshaler interfaces implemented by ptr.
func (d *Decoder) decodeCapability(tag format.Tag, raw []byte, ptr any) (bool, error) {
	switch u := ptr.(type) {
	case RecordUnmarshaler:
		c, err := d.nestedDecoder(tag, raw, isRecordTag, "record")
		if err != nil {
			return true, err
		}

		return true, u.UnmarshalRecord(&RecordDecoder{d: c})

	case SequenceUnmarshaler:
		c, err := d.nestedDecoder(tag, raw, isSequenceTag, "sequence")
		if err != nil {
			return true, err
		}

		return true, u.UnmarshalSequence(&SequenceDecoder{d: c})

	case MapUnmarshaler:
		c, err := d.nestedDecoder(tag, raw, isMapTag, "map")
		if err != nil {
			return true, err
		}

		return true, u.UnmarshalMap(&MapDecoder{d: c})

	case ScalarUnmarshaler:
		if tag.IsComposite() {
			return true, fmt.Errorf("%w: cannot decode %q as scalar", errs.ErrUnsupportedType, tag.String())
		}

		v, err := d.decodeDynamic(tag, raw)
		if err != nil {
			return true, err
		}

		return true, u.UnmarshalScalar(v)

	default:
		return false, nil
	}
}

func (d *Decoder) decodeSlice(tag format.Tag, raw []byte, rv reflect.Value) error {
	c, err := d.nestedDecoder(tag, raw, isSequenceTag, rv.Type().String())
	if err != nil {
		return err
	}

	n := c.index.Len()
	s := reflect.MakeSlice(rv.Type(), n, n)
	for i := range n {
		if err := c.decodeNextValue(s.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(s)

	return nil
}

func (d *Decoder) decodeArray(tag format.Tag, raw []byte, rv reflect.Value) error {
	c, err := d.nestedDecoder(tag, raw, isSequenceTag, rv.Type().String())
	if err != nil {
		return err
	}

	if c.index.Len() != rv.Len() {
		return fmt.Errorf("%w: %d elements into %s", errs.ErrUnsupportedType, c.index.Len(), rv.Type())
	}

	for i := range rv.Len() {
		if err := c.decodeNextValue(rv.Index(i)); err != nil {
			return err
		}
	}

	return nil
}

// decodeMap fills a Go map from a map container, or from a record container
// when the map key is a string kind.
func (d *Decoder) decodeMap(tag format.Tag, raw []byte, rv reflect.Value) error {
	mt := rv.Type()

	if tag == format.TagObject && mt.Key().Kind() == reflect.String {
		c, err := d.child(raw)
		if err != nil {
			return err
		}

		m := reflect.MakeMapWithSize(mt, c.index.Len())
		for _, e := range c.index.Entries() {
			val := reflect.New(mt.Elem()).Elem()
			if err := c.decodeFieldValue(e.Name, val); err != nil {
				return err
			}
			m.SetMapIndex(reflect.ValueOf(e.Name).Convert(mt.Key()), val)
		}
		rv.Set(m)

		return nil
	}

	c, err := d.nestedDecoder(tag, raw, isMapTag, mt.String())
	if err != nil {
		return err
	}

	m := reflect.MakeMapWithSize(mt, c.index.Len())
	for !c.atEnd() {
		pair, err := c.nextPair()
		if err != nil {
			return err
		}

		key := reflect.New(mt.Key()).Elem()
		if err := pair.decodeFieldValue("0", key); err != nil {
			return err
		}

		val := reflect.New(mt.Elem()).Elem()
		if err := pair.decodeFieldValue("1", val); err != nil {
			return err
		}

		if key.Kind() == reflect.Interface && !key.IsNil() && !key.Elem().Type().Comparable() {
			return fmt.Errorf("%w: %s", errs.ErrUnhashableMapKey, key.Elem().Type())
		}
		m.SetMapIndex(key, val)
	}
	rv.Set(m)

	return nil
}

func (d *Decoder) decodeStruct(tag format.Tag, raw []byte, rv reflect.Value) error {
	c, err := d.nestedDecoder(tag, raw, isRecordTag, rv.Type().String())
	if err != nil {
		return err
	}

	for _, f := range structFields(rv.Type()) {
		if f.omitEmpty {
			if _, ok := c.index.Lookup(f.name); !ok {
				continue
			}
		}

		if err := c.decodeFieldValue(f.name, rv.FieldByIndex(f.index)); err != nil {
			return err
		}
	}

	return nil
}

func setSigned[T encoding.Signed](tag format.Tag, raw []byte, rv reflect.Value) error {
	v, err := encoding.DecodeInteger[T](tag, raw)
	if err != nil {
		return err
	}
	rv.SetInt(int64(v))

	return nil
}

func setUnsigned[T encoding.Unsigned](tag format.Tag, raw []byte, rv reflect.Value) error {
	v, err := encoding.DecodeInteger[T](tag, raw)
	if err != nil {
		return err
	}
	rv.SetUint(uint64(v))

	return nil
}

func unsupported(tag format.Tag, t reflect.Type) error {
	return fmt.Errorf("%w: cannot decode %q into %s", errs.ErrUnsupportedType, tag.String(), t)
}
