// Package reduction maps hash digests back onto candidate plaintexts. A
// reduction function is the second half of every chain step: hash a
// plaintext, then reduce the digest to the next plaintext.
package reduction

import (
	"math/big"

	"github.com/chainforge/rainbowdb/pkg/plainspace"
)

// Strategy is a deterministic mapping from a digest and a chain position to
// a candidate plaintext. The same (digest, position) pair always yields the
// same plaintext.
//
// A strategy may ignore the position. Doing so makes same-length chains far
// more likely to merge (degrading the table's success rate), but it is what
// permits the cheaper position-naive lookup. A strategy that honors the
// position must only ever be paired with the position-aware lookup.
type Strategy interface {
	// Reduce maps digest to a plaintext of the underlying space.
	Reduce(digest []byte, position uint64) ([]byte, error)
	// PositionAware reports whether Reduce's result depends on position.
	PositionAware() bool
}

// Mode selects how MixedRadix treats the chain position.
type Mode int

const (
	// PositionBlind applies the same formula at every chain step.
	PositionBlind Mode = iota
	// PositionSalted folds the chain position into the digest integer
	// before the modular reduction, so each step uses a distinct member of
	// the reduction family.
	PositionSalted
)

// MixedRadix interprets the digest as a big-endian unsigned integer,
// reduces it modulo the total size of the plaintext space, and decodes the
// result through the space's mixed-radix codec.
type MixedRadix struct {
	space *plainspace.Space
	mode  Mode
	total *big.Int
}

func NewMixedRadix(space *plainspace.Space, mode Mode) *MixedRadix {
	return &MixedRadix{
		space: space,
		mode:  mode,
		total: new(big.Int).SetUint64(space.Total()),
	}
}

func (r *MixedRadix) PositionAware() bool { return r.mode == PositionSalted }

func (r *MixedRadix) Reduce(digest []byte, position uint64) ([]byte, error) {
	n := new(big.Int).SetBytes(digest)
	if r.mode == PositionSalted {
		n.Add(n, new(big.Int).SetUint64(position))
	}
	n.Mod(n, r.total)

	// n < total, so n fits a uint64 and Decode cannot reject it.
	return r.space.Decode(n.Uint64())
}
