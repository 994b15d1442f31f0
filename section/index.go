package section

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/arloliu/metapack/endian"
	"github.com/arloliu/metapack/errs"
	"github.com/arloliu/metapack/format"
	"github.com/arloliu/metapack/internal/collision"
)

// Item is one serialized field waiting to be framed into a container.
type Item struct {
	Name string
	Type format.Tag
	Data []byte
}

// Index is the metadata index of a container: its entries in encode order plus
// a name lookup table.
//
// Lookup returns the first entry carrying a name, exactly as a linear scan
// would, but through an xxHash64 keyed map.
type Index struct {
	entries []Entry
	names   *collision.Tracker
}

// NewIndex creates an index over entries, which must be in encode order.
func NewIndex(entries []Entry) *Index {
	idx := &Index{
		entries: entries,
		names:   collision.NewTracker(len(entries)),
	}
	for i, e := range entries {
		idx.names.Add(e.Name, i)
	}

	return idx
}

// Build assigns entries to items in order.
//
// Returns:
//   - *Index: Entries with sequential offsets into the concatenated segments
//   - int: Total length of the data region
func Build(items []Item) (*Index, int) {
	entries := make([]Entry, len(items))
	offset := 0
	for i, item := range items {
		entries[i] = Entry{
			Start: offset,
			Size:  len(item.Data),
			Type:  item.Type,
			Name:  item.Name,
		}
		offset += len(item.Data)
	}

	return NewIndex(entries), offset
}

// Len returns the number of entries.
func (x *Index) Len() int {
	return len(x.entries)
}

// At returns the i-th entry in encode order.
func (x *Index) At(i int) Entry {
	return x.entries[i]
}

// Entries returns the entries in encode order. The slice must not be modified.
func (x *Index) Entries() []Entry {
	return x.entries
}

// Lookup returns the first entry named name.
func (x *Index) Lookup(name string) (Entry, bool) {
	pos, ok := x.names.Lookup(name)
	if !ok {
		return Entry{}, false
	}

	return x.entries[pos], true
}

// MarshalJSON encodes the index as an object from 1-based sequential id to entry.
func (x *Index) MarshalJSON() ([]byte, error) {
	m := make(map[string]Entry, len(x.entries))
	for i, e := range x.entries {
		m[strconv.Itoa(i+1)] = e
	}

	return json.Marshal(m)
}

// ParseIndex decodes the metadata JSON of a container.
//
// Entries are ordered by their numeric id. Returns an error wrapping
// errs.ErrDecoding for malformed JSON, non-numeric or duplicate ids, unknown
// type tags and negative offsets.
func ParseIndex(metadata []byte) (*Index, error) {
	var raw map[string]Entry
	if err := json.Unmarshal(metadata, &raw); err != nil {
		return nil, fmt.Errorf("%w: metadata: %w", errs.ErrDecoding, err)
	}

	type numbered struct {
		id    int
		entry Entry
	}

	list := make([]numbered, 0, len(raw))
	for key, e := range raw {
		id, err := strconv.Atoi(key)
		if err != nil || id < 1 {
			return nil, fmt.Errorf("%w: entry id %q", errs.ErrInvalidIndex, key)
		}
		if err := e.validate(key); err != nil {
			return nil, err
		}
		list = append(list, numbered{id: id, entry: e})
	}

	slices.SortFunc(list, func(a, b numbered) int { return a.id - b.id })

	entries := make([]Entry, len(list))
	for i, n := range list {
		if i > 0 && list[i-1].id == n.id {
			return nil, fmt.Errorf("%w: duplicate entry id %d", errs.ErrInvalidIndex, n.id)
		}
		entries[i] = n.entry
	}

	return NewIndex(entries), nil
}

// Extract splits a container buffer into its index and data region.
//
// Parameters:
//   - buf: Container buffer, [length][metadata JSON][data]
//
// Returns:
//   - *Index: Parsed metadata index
//   - []byte: Data region following the metadata block
//   - error: errs.ErrInvalidLength if buf is shorter than the length prefix or the
//     length exceeds the remaining bytes, errs.ErrDecoding for invalid metadata
func Extract(buf []byte) (*Index, []byte, error) {
	if len(buf) < LengthPrefixSize {
		return nil, nil, fmt.Errorf("%w: %d bytes is shorter than the length prefix", errs.ErrInvalidLength, len(buf))
	}

	metaLen := uint64(endian.GetLittleEndianEngine().Uint32(buf))
	rest := buf[LengthPrefixSize:]
	if metaLen > uint64(len(rest)) {
		return nil, nil, fmt.Errorf("%w: metadata length %d exceeds %d remaining bytes", errs.ErrInvalidLength, metaLen, len(rest))
	}

	idx, err := ParseIndex(rest[:metaLen])
	if err != nil {
		return nil, nil, err
	}

	return idx, rest[metaLen:], nil
}
