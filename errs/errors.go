// Package errs defines the sentinel errors returned by metapack.
//
// Every failure produced by the codec wraps exactly one of the kind sentinels
// below, so callers can classify a rejection with errors.Is regardless of the
// detail message:
//
//	if errors.Is(err, errs.ErrParsing) {
//	    // malformed byte layout
//	}
package errs

import "errors"

// Error kinds.
var (
	// ErrParsing reports a malformed byte layout: a fixed-width read with the wrong
	// slice length, invalid UTF-8, a magic number mismatch, a metadata length that
	// exceeds the buffer or entry offsets outside the data region.
	ErrParsing = errors.New("metapack: parsing error")

	// ErrDecoding reports malformed metadata JSON or a structurally invalid index.
	ErrDecoding = errors.New("metapack: decoding error")

	// ErrMetadata reports a required entry that is absent, or an envelope whose
	// version flag fails validation.
	ErrMetadata = errors.New("metapack: metadata error")

	// ErrUnsupportedType reports a mismatch between an entry's type tag and the
	// requested target type.
	ErrUnsupportedType = errors.New("metapack: unsupported type")

	// ErrEncodingFailed reports a value that could not be serialized.
	ErrEncodingFailed = errors.New("metapack: encoding failed")

	// ErrInvalidCollectionElement reports a value the encoder has no way to
	// enumerate or serialize (channels, functions, complex numbers).
	ErrInvalidCollectionElement = errors.New("metapack: invalid collection element")

	// ErrLimitExceeded reports an input or nesting depth beyond a caller-imposed limit.
	ErrLimitExceeded = errors.New("metapack: limit exceeded")
)

// Specific failures, each wrapping its kind.
var (
	ErrInvalidMagicNumber    = wrap(ErrParsing, "invalid magic number")
	ErrInvalidLength         = wrap(ErrParsing, "invalid metadata length")
	ErrInvalidWidth          = wrap(ErrParsing, "invalid fixed-width length")
	ErrInvalidUTF8           = wrap(ErrParsing, "invalid UTF-8")
	ErrOffsetOutOfRange      = wrap(ErrParsing, "entry offset out of range")
	ErrValueOutOfRange       = wrap(ErrParsing, "value does not fit target type")
	ErrFieldNotFound         = wrap(ErrMetadata, "field not found")
	ErrUnsupportedVersion    = wrap(ErrMetadata, "unsupported version")
	ErrInvalidIndex          = wrap(ErrDecoding, "invalid metadata index")
	ErrUnknownTag            = wrap(ErrDecoding, "unknown type tag")
	ErrDuplicateField        = wrap(ErrEncodingFailed, "duplicate field name")
	ErrSequenceExhausted     = wrap(ErrMetadata, "no more positional entries")
	ErrInvalidDecodeTarget   = wrap(ErrUnsupportedType, "decode target must be a non-nil pointer")
	ErrUnhashableMapKey      = wrap(ErrUnsupportedType, "map key is not comparable")
	ErrMaxDepthExceeded      = wrap(ErrLimitExceeded, "maximum nesting depth exceeded")
	ErrMaxInputSizeExceeded  = wrap(ErrLimitExceeded, "maximum input size exceeded")
	ErrUnsupportedCollection = wrap(ErrInvalidCollectionElement, "value cannot be enumerated")
)

type kindError struct {
	kind error
	msg  string
}

func wrap(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string {
	return e.kind.Error() + ": " + e.msg
}

func (e *kindError) Unwrap() error {
	return e.kind
}
