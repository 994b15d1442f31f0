// Package endian provides the byte orders used by the metapack wire format.
//
// Two byte orders appear on the wire:
//
//   - Container length prefixes are always little-endian.
//   - Scalar payloads (4-byte integers, 8-byte doubles) are written in the
//     native byte order of the encoding host.
//
// Both are exposed as an EndianEngine, which combines binary.ByteOrder with
// binary.AppendByteOrder so encoders can append directly to their buffers:
//
//	engine := endian.GetNativeEngine()
//	buf = engine.AppendUint32(buf, uint32(v))
//
// All functions in this package are safe for concurrent use.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine is a byte order that can both put and append fixed-width values.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

var nativeEngine = detectNative()

func detectNative() EndianEngine {
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return nativeEngine == binary.LittleEndian
}

// GetNativeEngine returns the host byte order, used for scalar payloads.
func GetNativeEngine() EndianEngine {
	return nativeEngine
}

// GetLittleEndianEngine returns the little-endian engine, used for length prefixes.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
