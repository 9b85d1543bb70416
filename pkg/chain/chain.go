// Package chain builds hash/reduce chains from seed plaintexts. A chain of
// length n applies n alternating hash and reduce steps; only its first and
// last plaintext are kept, which is what makes the table compact.
package chain

import (
	"fmt"

	"github.com/chainforge/rainbowdb/pkg/reduction"
)

// HashFunc is an opaque one-way function supplied by the caller, typically
// a cryptographic digest. The engine never selects an algorithm itself.
type HashFunc func([]byte) []byte

// Chain is the (start, end) pair that survives from a built chain.
type Chain struct {
	Start []byte
	End   []byte
}

// Hooks are optional callbacks invoked around every hash and reduce call.
// They exist for tracing and call counting; nil fields are skipped. Hooks
// must not retain the byte slices they are handed.
type Hooks struct {
	OnHash   func(plaintext, digest []byte)
	OnReduce func(digest, plaintext []byte, position uint64)
}

// Builder turns seed plaintexts into chains. It holds no mutable state, so
// a single Builder may build chains for distinct seeds concurrently.
type Builder struct {
	hash     HashFunc
	reduce   reduction.Strategy
	chainLen int
	hooks    Hooks
}

func NewBuilder(hash HashFunc, reduce reduction.Strategy, chainLen int, hooks Hooks) *Builder {
	return &Builder{
		hash:     hash,
		reduce:   reduce,
		chainLen: chainLen,
		hooks:    hooks,
	}
}

// Build runs chainLen hash/reduce steps from start. The first step reduces
// with position 0. Build is a pure function of the seed for a fixed hash
// function and reduction strategy.
func (b *Builder) Build(start []byte) (Chain, error) {
	cur := start
	for i := 0; i < b.chainLen; i++ {
		h := b.hash(cur)
		if b.hooks.OnHash != nil {
			b.hooks.OnHash(cur, h)
		}

		next, err := b.reduce.Reduce(h, uint64(i))
		if err != nil {
			return Chain{}, fmt.Errorf("reduce at step %d: %w", i, err)
		}
		if b.hooks.OnReduce != nil {
			b.hooks.OnReduce(h, next, uint64(i))
		}
		cur = next
	}

	return Chain{Start: start, End: cur}, nil
}

// Len returns the number of hash/reduce steps per chain.
func (b *Builder) Len() int { return b.chainLen }
