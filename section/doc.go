// Package section defines the byte layout of metapack containers and envelopes.
//
// # Container Buffer
//
// Every record, sequence, set and map is framed as a self-contained container
// buffer:
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Metadata length L (4 bytes, little-endian uint32)       │
//	├─────────────────────────────────────────────────────────┤
//	│ Metadata JSON (L bytes)                                 │
//	│  {"1": {"s": 0, "z": 4, "t": "i", "n": "0"}, ...}       │
//	├─────────────────────────────────────────────────────────┤
//	│ Data region: item segments concatenated in encode order │
//	└─────────────────────────────────────────────────────────┘
//
// The metadata maps a 1-based sequential id (insertion order) to an Entry with
// the segment start offset ("s"), size ("z"), type tag ("t") and field name
// ("n"). Sequence containers name their entries "0", "1", ... so positional and
// by-name lookup coincide.
//
// # Envelope
//
// An encoded value is a 4-byte magic number followed by the container buffer of
// a record with two fields:
//
//	AA BB BB AA  { "ver003": true, "payload": <root value> }
//
// # Bounds
//
// Extract validates only what it needs to split the buffer (the length prefix)
// and the structure of the metadata JSON. Entry offsets are checked lazily by
// Entry.Slice, so a single out-of-range entry makes only that field missing.
package section
