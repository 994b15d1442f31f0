// Package hash computes the 64-bit identifiers used to index field names.
package hash

import "github.com/cespare/xxhash/v2"

// Name computes the xxHash64 of a field name.
func Name(name string) uint64 {
	return xxhash.Sum64String(name)
}
