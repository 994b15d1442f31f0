// Package format defines the closed set of type tags persisted in container metadata.
//
// Each byte segment of a container is described by a one-character tag that tells
// the decoder how to interpret it. The character form is what appears in the
// metadata JSON ("t" key); the Tag type itself is just that character.
package format

import (
	"encoding/json"
	"fmt"

	"github.com/arloliu/metapack/errs"
)

// Tag is a one-character wire type marker.
type Tag byte

const (
	TagArray     Tag = 'a' // TagArray marks an ordered sequence container.
	TagByteArray Tag = '8' // TagByteArray marks a byte array passed through unmodified.
	TagBool      Tag = 'b' // TagBool marks a single-byte boolean.
	TagDate      Tag = 'd' // TagDate marks an 8-byte double of milliseconds since epoch.
	TagInt32     Tag = 'i' // TagInt32 marks a 4-byte signed integer.
	TagJSON      Tag = 'j' // TagJSON marks a JSON blob (reserved, never produced).
	TagMap       Tag = 'm' // TagMap marks a container of {0: key, 1: value} pair records.
	TagNull      Tag = '0' // TagNull marks an absent value, a single zero byte.
	TagNumber    Tag = 'n' // TagNumber marks an 8-byte double.
	TagObject    Tag = 'o' // TagObject marks a record container of named fields.
	TagString    Tag = 's' // TagString marks UTF-8 text.
	TagSet       Tag = 't' // TagSet marks an unordered collection container.
	TagUndefined Tag = 'u' // TagUndefined is reserved, never produced.
	TagDataView  Tag = 'v' // TagDataView is reserved, never produced.
	TagRawData   Tag = 'x' // TagRawData marks raw data passed through unmodified.
)

// ParseTag parses the one-character textual form of a tag.
//
// Returns errs.ErrUnknownTag if s is not exactly one known character.
func ParseTag(s string) (Tag, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownTag, s)
	}

	t := Tag(s[0])
	if !t.IsValid() {
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownTag, s)
	}

	return t, nil
}

// IsValid reports whether t belongs to the tag table.
func (t Tag) IsValid() bool {
	switch t {
	case TagArray, TagByteArray, TagBool, TagDate, TagInt32, TagJSON, TagMap, TagNull,
		TagNumber, TagObject, TagString, TagSet, TagUndefined, TagDataView, TagRawData:
		return true
	default:
		return false
	}
}

// IsComposite reports whether segments tagged t hold a nested container buffer.
func (t Tag) IsComposite() bool {
	switch t { //nolint: exhaustive
	case TagArray, TagSet, TagMap, TagObject:
		return true
	default:
		return false
	}
}

// IsSequence reports whether t is positionally indexed (array or set).
func (t Tag) IsSequence() bool {
	return t == TagArray || t == TagSet
}

// IsBinary reports whether segments tagged t are opaque bytes.
func (t Tag) IsBinary() bool {
	return t == TagByteArray || t == TagRawData || t == TagDataView
}

// String returns the one-character textual form, or "Unknown".
func (t Tag) String() string {
	if !t.IsValid() {
		return "Unknown"
	}

	return string(rune(t))
}

// Name returns a human readable name of the tag category.
func (t Tag) Name() string {
	switch t {
	case TagArray:
		return "array"
	case TagByteArray:
		return "byte-array"
	case TagBool:
		return "boolean"
	case TagDate:
		return "date"
	case TagInt32:
		return "int32"
	case TagJSON:
		return "json"
	case TagMap:
		return "map"
	case TagNull:
		return "null"
	case TagNumber:
		return "number"
	case TagObject:
		return "object"
	case TagString:
		return "string"
	case TagSet:
		return "set"
	case TagUndefined:
		return "undefined"
	case TagDataView:
		return "dataview"
	case TagRawData:
		return "raw-data"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the tag as a one-character JSON string.
func (t Tag) MarshalJSON() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: 0x%02x", errs.ErrUnknownTag, byte(t))
	}

	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a one-character JSON string.
func (t *Tag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: tag: %w", errs.ErrDecoding, err)
	}

	parsed, err := ParseTag(s)
	if err != nil {
		return err
	}
	*t = parsed

	return nil
}

// MarshalText encodes the tag as its one-character form.
func (t Tag) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: 0x%02x", errs.ErrUnknownTag, byte(t))
	}

	return []byte{byte(t)}, nil
}

// UnmarshalText decodes the one-character form.
func (t *Tag) UnmarshalText(text []byte) error {
	parsed, err := ParseTag(string(text))
	if err != nil {
		return err
	}
	*t = parsed

	return nil
}
