package section

import "math"

const (
	// LengthPrefixSize is the size of the little-endian metadata length that opens
	// every container buffer.
	LengthPrefixSize = 4

	// MaxMetadataLength is the largest metadata block a length prefix can describe.
	MaxMetadataLength = math.MaxUint32

	// MagicSize is the size of the envelope magic number.
	MagicSize = 4

	// VersionField is the envelope record field carrying the format version flag.
	VersionField = "ver003"

	// PayloadField is the envelope record field carrying the root value.
	PayloadField = "payload"
)

// MagicNumber opens every encoded envelope.
var MagicNumber = [MagicSize]byte{0xAA, 0xBB, 0xBB, 0xAA}
