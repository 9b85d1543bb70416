package attack

import (
	"context"
	"crypto/sha1"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainforge/rainbowdb/pkg/plainspace"
)

func sha1Hash(b []byte) []byte {
	d := sha1.Sum(b)
	return d[:]
}

func TestBruteForceFinds(t *testing.T) {
	space, err := plainspace.New([]byte("abc"), 3)
	require.NoError(t, err)

	target := sha1Hash([]byte("cab"))
	plaintext, found, err := BruteForce(context.Background(), space, sha1Hash, target, nil)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("cab"), plaintext)
}

func TestBruteForceSalted(t *testing.T) {
	space, err := plainspace.New([]byte("ab"), 2)
	require.NoError(t, err)

	salt := []byte("s1:")
	target := sha1Hash([]byte("s1:ba"))
	plaintext, found, err := BruteForce(context.Background(), space, sha1Hash, target, salt)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("ba"), plaintext)
}

func TestBruteForceMiss(t *testing.T) {
	space, err := plainspace.New([]byte("ab"), 2)
	require.NoError(t, err)

	plaintext, found, err := BruteForce(context.Background(), space, sha1Hash, sha1Hash([]byte("zzzz")), nil)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, plaintext)
}

func TestBruteForceHonorsContext(t *testing.T) {
	// Large enough that the first context check fires before the space is
	// exhausted.
	space, err := plainspace.New([]byte("abcdefgh"), 8)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = BruteForce(ctx, space, sha1Hash, sha1Hash([]byte("unreachable")), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDictionaryFinds(t *testing.T) {
	list := strings.NewReader("alpha\nbeta\n\n  gamma  \ndelta\n")

	target := sha1Hash([]byte("gamma"))
	word, found, err := Dictionary(context.Background(), list, sha1Hash, target, nil)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("gamma"), word)
}

func TestDictionarySalted(t *testing.T) {
	list := strings.NewReader("alpha\nbeta\n")

	target := sha1Hash([]byte("pepper-beta"))
	word, found, err := Dictionary(context.Background(), list, sha1Hash, target, []byte("pepper-"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("beta"), word)
}

func TestDictionaryMiss(t *testing.T) {
	list := strings.NewReader("alpha\nbeta\n")

	word, found, err := Dictionary(context.Background(), list, sha1Hash, sha1Hash([]byte("gamma")), nil)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, word)
}
