package codec

// Set is an unordered collection of comparable values, encoded with the set tag.
//
// Elements are written sorted by their encoded bytes, so equal sets always
// produce identical output.
type Set[T comparable] map[T]struct{}

// NewSet creates a set holding values.
func NewSet[T comparable](values ...T) Set[T] {
	s := make(Set[T], len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}

	return s
}

// Add inserts v.
func (s Set[T]) Add(v T) {
	s[v] = struct{}{}
}

// Has reports whether v is a member.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of members.
func (s Set[T]) Len() int {
	return len(s)
}

// MarshalSet implements SetMarshaler.
func (s Set[T]) MarshalSet(enc *SequenceEncoder) error {
	for v := range s {
		if err := enc.Append(v); err != nil {
			return err
		}
	}

	return nil
}

// UnmarshalSequence implements SequenceUnmarshaler.
// It accepts both sets and arrays; repeated elements collapse.
func (s *Set[T]) UnmarshalSequence(dec *SequenceDecoder) error {
	out := make(Set[T], dec.Len())
	for !dec.AtEnd() {
		v, err := Next[T](dec)
		if err != nil {
			return err
		}
		out[v] = struct{}{}
	}
	*s = out

	return nil
}
