package section

import (
	"fmt"

	"github.com/arloliu/metapack/errs"
	"github.com/arloliu/metapack/format"
)

// Entry describes one field segment of a container.
//
// On the wire it is a JSON object:
//
//	{"s": 0, "z": 4, "t": "i", "n": "0"}
type Entry struct {
	// Start is the offset of the segment within the data region.
	Start int `json:"s"`
	// Size is the byte length of the segment.
	Size int `json:"z"`
	// Type is the segment's type tag.
	Type format.Tag `json:"t"`
	// Name is the field name, or the stringified position in sequence containers.
	Name string `json:"n"`
}

// End returns the exclusive end offset of the segment.
func (e Entry) End() int {
	return e.Start + e.Size
}

// InBounds reports whether the segment lies within a data region of dataLen bytes.
func (e Entry) InBounds(dataLen int) bool {
	return e.Start >= 0 && e.Size >= 0 && e.Start <= dataLen && e.Size <= dataLen-e.Start
}

// Slice returns the entry's segment of data.
//
// Returns false if the segment does not lie within data; the segment is then
// treated as missing and data is never read out of range.
func (e Entry) Slice(data []byte) ([]byte, bool) {
	if !e.InBounds(len(data)) {
		return nil, false
	}

	return data[e.Start:e.End():e.End()], true
}

// validate checks the structural invariants that do not depend on the data region.
func (e Entry) validate(id string) error {
	if !e.Type.IsValid() {
		return fmt.Errorf("%w: entry %s has no valid type tag", errs.ErrInvalidIndex, id)
	}
	if e.Start < 0 || e.Size < 0 {
		return fmt.Errorf("%w: entry %s has negative offset or size", errs.ErrInvalidIndex, id)
	}

	return nil
}
