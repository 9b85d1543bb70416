package chain

import (
	"crypto/sha1"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainforge/rainbowdb/pkg/plainspace"
	"github.com/chainforge/rainbowdb/pkg/reduction"
)

func sha1Hash(b []byte) []byte {
	d := sha1.Sum(b)
	return d[:]
}

func testReducer(t *testing.T) reduction.Strategy {
	t.Helper()
	space, err := plainspace.New([]byte("ab"), 2)
	require.NoError(t, err)
	return reduction.NewMixedRadix(space, reduction.PositionSalted)
}

func TestBuildDeterministic(t *testing.T) {
	b := NewBuilder(sha1Hash, testReducer(t), 5, Hooks{})

	first, err := b.Build([]byte("a"))
	require.NoError(t, err)
	second, err := b.Build([]byte("a"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []byte("a"), first.Start)
}

func TestBuildEndStaysInsideSpace(t *testing.T) {
	b := NewBuilder(sha1Hash, testReducer(t), 8, Hooks{})

	c, err := b.Build([]byte("seed that is much wider than the space"))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(c.End), 2)
}

func TestBuildMatchesManualFold(t *testing.T) {
	reducer := testReducer(t)
	b := NewBuilder(sha1Hash, reducer, 3, Hooks{})

	cur := []byte("b")
	for i := 0; i < 3; i++ {
		next, err := reducer.Reduce(sha1Hash(cur), uint64(i))
		require.NoError(t, err)
		cur = next
	}

	c, err := b.Build([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, cur, c.End)
}

func TestBuildFiresHooksPerStep(t *testing.T) {
	var hashes, reduces int
	var positions []uint64

	b := NewBuilder(sha1Hash, testReducer(t), 4, Hooks{
		OnHash:   func(_, _ []byte) { hashes++ },
		OnReduce: func(_, _ []byte, pos uint64) { reduces++; positions = append(positions, pos) },
	})

	_, err := b.Build([]byte("a"))
	require.NoError(t, err)

	assert.Equal(t, 4, hashes)
	assert.Equal(t, 4, reduces)
	assert.Equal(t, []uint64{0, 1, 2, 3}, positions)
}

func TestBuildConcurrentSeeds(t *testing.T) {
	b := NewBuilder(sha1Hash, testReducer(t), 6, Hooks{})

	seeds := [][]byte{[]byte("a"), []byte("b"), []byte("ab"), []byte("ba")}
	results := make([]Chain, len(seeds))

	done := make(chan int, len(seeds))
	for i, s := range seeds {
		i, s := i, s
		go func() {
			c, err := b.Build(s)
			if err == nil {
				results[i] = c
			}
			done <- i
		}()
	}
	for range seeds {
		<-done
	}

	for i, s := range seeds {
		sequential, err := b.Build(s)
		require.NoError(t, err)
		assert.Equal(t, sequential, results[i], "seed %q", s)
	}
}
