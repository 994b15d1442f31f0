package codec

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/arloliu/metapack/errs"
	"github.com/arloliu/metapack/section"
)

// Encode serializes v into an enveloped metapack buffer.
//
// The output is the magic number followed by a record container holding
// {"ver003": true, "payload": v}.
//
// Parameters:
//   - v: Value to encode; see the package documentation for the supported kinds
//   - opts: Limits applied while encoding
//
// Returns:
//   - []byte: Enveloped buffer
//   - error: Encoding error, wrapping one of the errs kinds
func Encode(v any, opts ...Option) ([]byte, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	root := newEncoder(cfg, 0, shapeRecord)
	if err := root.recordField(section.VersionField, true); err != nil {
		return nil, err
	}
	if err := root.recordField(section.PayloadField, v); err != nil {
		return nil, err
	}

	body, err := root.finalize()
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, section.MagicSize+len(body))
	out = section.AppendMagic(out)

	return append(out, body...), nil
}

// Decode deserializes an enveloped buffer into target, a non-nil pointer.
//
// Returns errs.ErrInvalidMagicNumber when the magic number is absent and
// errs.ErrUnsupportedVersion unless the envelope carries ver003 = true.
func Decode(data []byte, target any, opts ...Option) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: got %T", errs.ErrInvalidDecodeTarget, target)
	}

	root, err := openEnvelope(data, opts)
	if err != nil {
		return err
	}

	return root.decodeFieldValue(section.PayloadField, rv.Elem())
}

// DecodeDynamic deserializes an enveloped buffer without a target type.
// See Decoder for the mapping of tags to Go values.
func DecodeDynamic(data []byte, opts ...Option) (any, error) {
	root, err := openEnvelope(data, opts)
	if err != nil {
		return nil, err
	}

	return root.dynamicField(section.PayloadField)
}

// openEnvelope validates the envelope and returns the root decoder.
func openEnvelope(data []byte, opts []Option) (*Decoder, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	if cfg.maxInputSize > 0 && len(data) > cfg.maxInputSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", errs.ErrMaxInputSizeExceeded, len(data), cfg.maxInputSize)
	}

	body, err := section.StripMagic(data)
	if err != nil {
		return nil, err
	}

	root, err := newDecoder(cfg, 0, body)
	if err != nil {
		return nil, err
	}

	if err := root.checkVersion(); err != nil {
		return nil, err
	}

	return root, nil
}

func (d *Decoder) checkVersion() error {
	var ok bool
	err := d.decodeField(section.VersionField, &ok)
	switch {
	case errors.Is(err, errs.ErrFieldNotFound):
		return fmt.Errorf("%w: %s missing", errs.ErrUnsupportedVersion, section.VersionField)
	case errors.Is(err, errs.ErrUnsupportedType):
		return fmt.Errorf("%w: %s is not a boolean", errs.ErrUnsupportedVersion, section.VersionField)
	case err != nil:
		return err
	case !ok:
		return fmt.Errorf("%w: %s is false", errs.ErrUnsupportedVersion, section.VersionField)
	}

	return nil
}
