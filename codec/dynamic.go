package codec

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/arloliu/metapack/encoding"
	"github.com/arloliu/metapack/errs"
	"github.com/arloliu/metapack/format"
)

// decodeDynamic decodes a segment without a target type.
//
// Scalars map to int64, float64, bool, string, []byte, RawData, time.Time,
// json.RawMessage or nil. Sequences and sets become []any, maps become
// map[any]any and records become map[string]any.
func (d *Decoder) decodeDynamic(tag format.Tag, raw []byte) (any, error) {
	switch tag {
	case format.TagNull, format.TagUndefined:
		return nil, nil //nolint: nilnil
	case format.TagBool:
		return encoding.DecodeBool(tag, raw)
	case format.TagInt32:
		return encoding.DecodeInteger[int64](tag, raw)
	case format.TagNumber:
		return encoding.ReadFloat64(raw)
	case format.TagString:
		return encoding.DecodeString(tag, raw)
	case format.TagDate:
		return encoding.DecodeTime(tag, raw)
	case format.TagByteArray, format.TagDataView:
		return append([]byte{}, raw...), nil
	case format.TagRawData:
		return RawData(append([]byte{}, raw...)), nil
	case format.TagJSON:
		if !json.Valid(raw) {
			return nil, fmt.Errorf("%w: invalid JSON segment", errs.ErrDecoding)
		}

		return json.RawMessage(append([]byte{}, raw...)), nil
	case format.TagArray, format.TagSet:
		return d.dynamicSequence(tag, raw)
	case format.TagMap:
		return d.dynamicMap(tag, raw)
	case format.TagObject:
		return d.dynamicRecord(raw)
	default:
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownTag, tag.String())
	}
}

func (d *Decoder) dynamicSequence(tag format.Tag, raw []byte) ([]any, error) {
	c, err := d.nestedDecoder(tag, raw, isSequenceTag, "sequence")
	if err != nil {
		return nil, err
	}

	out := make([]any, 0, c.index.Len())
	for !c.atEnd() {
		entry, seg, err := c.fieldBytes(strconv.Itoa(c.cursor))
		if err != nil {
			return nil, err
		}

		v, err := c.decodeDynamic(entry.Type, seg)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		c.cursor++
	}

	return out, nil
}

func (d *Decoder) dynamicMap(tag format.Tag, raw []byte) (map[any]any, error) {
	c, err := d.nestedDecoder(tag, raw, isMapTag, "map")
	if err != nil {
		return nil, err
	}

	out := make(map[any]any, c.index.Len())
	for !c.atEnd() {
		pair, err := c.nextPair()
		if err != nil {
			return nil, err
		}

		key, err := pair.dynamicField("0")
		if err != nil {
			return nil, err
		}
		if key != nil && !reflect.TypeOf(key).Comparable() {
			return nil, fmt.Errorf("%w: %T", errs.ErrUnhashableMapKey, key)
		}

		value, err := pair.dynamicField("1")
		if err != nil {
			return nil, err
		}
		out[key] = value
	}

	return out, nil
}

func (d *Decoder) dynamicRecord(raw []byte) (map[string]any, error) {
	c, err := d.child(raw)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, c.index.Len())
	for _, e := range c.index.Entries() {
		if _, seen := out[e.Name]; seen {
			continue
		}

		v, err := c.dynamicField(e.Name)
		if err != nil {
			return nil, err
		}
		out[e.Name] = v
	}

	return out, nil
}

func (d *Decoder) dynamicField(name string) (any, error) {
	entry, raw, err := d.fieldBytes(name)
	if err != nil {
		return nil, err
	}

	return d.decodeDynamic(entry.Type, raw)
}
