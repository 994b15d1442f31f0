package section

import (
	"fmt"
	"slices"

	"github.com/arloliu/metapack/endian"
	"github.com/arloliu/metapack/errs"
)

// AppendContainer frames items into a container buffer appended to dst.
//
// Layout:
//
//	[4 bytes: little-endian metadata length L]
//	[L bytes: metadata JSON]
//	[segments of items, in order]
func AppendContainer(dst []byte, items []Item) ([]byte, error) {
	idx, dataLen := Build(items)

	metadata, err := idx.MarshalJSON()
	if err != nil {
		return dst, fmt.Errorf("%w: metadata: %w", errs.ErrEncodingFailed, err)
	}
	if uint64(len(metadata)) > MaxMetadataLength {
		return dst, fmt.Errorf("%w: metadata of %d bytes", errs.ErrEncodingFailed, len(metadata))
	}

	dst = slices.Grow(dst, LengthPrefixSize+len(metadata)+dataLen)
	dst = endian.GetLittleEndianEngine().AppendUint32(dst, uint32(len(metadata))) //nolint: gosec
	dst = append(dst, metadata...)
	for _, item := range items {
		dst = append(dst, item.Data...)
	}

	return dst, nil
}

// HasMagic reports whether data starts with the envelope magic number.
func HasMagic(data []byte) bool {
	return len(data) >= MagicSize &&
		data[0] == MagicNumber[0] && data[1] == MagicNumber[1] &&
		data[2] == MagicNumber[2] && data[3] == MagicNumber[3]
}

// AppendMagic appends the envelope magic number to dst.
func AppendMagic(dst []byte) []byte {
	return append(dst, MagicNumber[:]...)
}

// StripMagic verifies and removes the envelope magic number.
//
// Returns errs.ErrInvalidMagicNumber if data does not start with it.
func StripMagic(data []byte) ([]byte, error) {
	if !HasMagic(data) {
		return nil, errs.ErrInvalidMagicNumber
	}

	return data[MagicSize:], nil
}
