package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	s := NewSet(1, 2, 2)
	require.Equal(t, 2, s.Len())
	require.True(t, s.Has(1))
	require.False(t, s.Has(3))

	s.Add(3)
	require.True(t, s.Has(3))
	require.Equal(t, 3, s.Len())
}

func TestSet_FromArray(t *testing.T) {
	data, err := Encode([]string{"x", "y", "x"})
	require.NoError(t, err)

	var s Set[string]
	require.NoError(t, Decode(data, &s))
	require.Equal(t, NewSet("x", "y"), s)
}

func TestSet_EqualSetsEncodeEqually(t *testing.T) {
	a := NewSet[string]()
	b := NewSet[string]()
	for _, v := range []string{"q", "w", "e", "r", "t", "y"} {
		a.Add(v)
	}
	for _, v := range []string{"y", "t", "r", "e", "w", "q"} {
		b.Add(v)
	}

	da, err := Encode(a)
	require.NoError(t, err)
	db, err := Encode(b)
	require.NoError(t, err)
	require.Equal(t, da, db)
}
