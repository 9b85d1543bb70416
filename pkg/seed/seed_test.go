package seed

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomShape(t *testing.T) {
	seeds, err := Random(16)
	require.NoError(t, err)

	require.Len(t, seeds, 16)
	for _, s := range seeds {
		assert.Len(t, s, Width)
	}
}

func TestRandomRejectsNegativeCount(t *testing.T) {
	_, err := Random(-1)
	assert.Error(t, err)
}

func TestDeterministicReproducible(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)

	first, err := Deterministic(key, 8)
	require.NoError(t, err)
	second, err := Deterministic(key, 8)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDeterministicKeySensitivity(t *testing.T) {
	a, err := Deterministic(bytes.Repeat([]byte{1}, 32), 4)
	require.NoError(t, err)
	b, err := Deterministic(bytes.Repeat([]byte{2}, 32), 4)
	require.NoError(t, err)

	assert.NotEqual(t, a[0], b[0])
}

func TestDeterministicRejectsBadKey(t *testing.T) {
	_, err := Deterministic([]byte("short"), 4)
	assert.Error(t, err)
}

func TestExplicitCopiesInputs(t *testing.T) {
	original := []byte("seed")
	seeds := Explicit(original)

	original[0] = 'X'
	assert.Equal(t, []byte("seed"), seeds[0])
}
