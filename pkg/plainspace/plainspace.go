// Package plainspace enumerates the finite space of candidate plaintexts
// defined by an ordered alphabet and a maximum length. It provides the
// bijection between an unsigned integer index and a variable-length
// plaintext over that alphabet, which the reduction function uses to map
// hash-derived integers onto candidate passwords.
package plainspace

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrOutOfRange is returned by Decode when the index is not below the
	// total size of the space. It usually means the caller interpreted a
	// digest without reducing it modulo Total first.
	ErrOutOfRange = errors.New("plainspace: index outside plaintext space")

	ErrEmptyAlphabet     = errors.New("plainspace: alphabet must not be empty")
	ErrDuplicateSymbol   = errors.New("plainspace: alphabet symbols must be unique")
	ErrNegativeMaxLen    = errors.New("plainspace: maximum length must not be negative")
	ErrSpaceTooLarge     = errors.New("plainspace: plaintext space exceeds uint64 range")
	ErrSymbolNotInSpace  = errors.New("plainspace: plaintext contains a symbol outside the alphabet")
	ErrPlaintextTooLong  = errors.New("plainspace: plaintext longer than the configured maximum")
)

// Space is an immutable description of a plaintext space. The zero value is
// not usable; construct one with New.
type Space struct {
	alphabet []byte
	index    [256]int // symbol -> position in alphabet, -1 if absent
	maxLen   int
	total    uint64
}

// New validates the alphabet and maximum length and precomputes the total
// number of plaintexts of length 0 through maxLen. The total must fit in a
// uint64 so that hash-derived integers can be reduced into it.
func New(alphabet []byte, maxLen int) (*Space, error) {
	if len(alphabet) == 0 {
		return nil, ErrEmptyAlphabet
	}
	if maxLen < 0 {
		return nil, ErrNegativeMaxLen
	}

	s := &Space{
		alphabet: append([]byte(nil), alphabet...),
		maxLen:   maxLen,
	}
	for i := range s.index {
		s.index[i] = -1
	}
	for i, sym := range alphabet {
		if s.index[sym] != -1 {
			return nil, fmt.Errorf("%w: %q occurs twice", ErrDuplicateSymbol, sym)
		}
		s.index[sym] = i
	}

	total, err := sumOfSizes(uint64(len(alphabet)), maxLen)
	if err != nil {
		return nil, err
	}
	s.total = total

	return s, nil
}

// sumOfSizes computes sum over L in [0, maxLen] of base^L with overflow
// checks. For base > 1 the result equals the geometric series
// (base^(maxLen+1) - 1) / (base - 1); for base == 1 it is maxLen + 1.
func sumOfSizes(base uint64, maxLen int) (uint64, error) {
	if base == 1 {
		return uint64(maxLen) + 1, nil
	}

	var total, sizeL uint64 = 0, 1
	for L := 0; L <= maxLen; L++ {
		if total > math.MaxUint64-sizeL {
			return 0, ErrSpaceTooLarge
		}
		total += sizeL
		if L < maxLen {
			if sizeL > math.MaxUint64/base {
				return 0, ErrSpaceTooLarge
			}
			sizeL *= base
		}
	}
	return total, nil
}

// Total returns the number of plaintexts in the space, including the single
// empty plaintext of length zero.
func (s *Space) Total() uint64 { return s.total }

// MaxLen returns the configured maximum plaintext length.
func (s *Space) MaxLen() int { return s.maxLen }

// Alphabet returns a copy of the ordered alphabet.
func (s *Space) Alphabet() []byte { return append([]byte(nil), s.alphabet...) }

// Decode maps an index in [0, Total) to its plaintext. Digits are extracted
// least-significant-first and emitted in extraction order; the digit
// sequence is deliberately not reversed, so symbol 0 occupies the first
// extracted position. Encode applies the same convention.
func (s *Space) Decode(n uint64) ([]byte, error) {
	if n >= s.total {
		return nil, fmt.Errorf("%w: %d >= %d", ErrOutOfRange, n, s.total)
	}

	base := uint64(len(s.alphabet))
	sizeL := uint64(1)
	for L := 0; L <= s.maxLen; L++ {
		if n < sizeL {
			out := make([]byte, 0, L)
			for i := 0; i < L; i++ {
				out = append(out, s.alphabet[n%base])
				n /= base
			}
			return out, nil
		}
		n -= sizeL
		sizeL *= base
	}

	// Unreachable: n < total implies one of the length buckets matched.
	return nil, ErrOutOfRange
}

// Encode is the inverse of Decode: it maps a plaintext over the alphabet
// back to its index in [0, Total).
func (s *Space) Encode(p []byte) (uint64, error) {
	if len(p) > s.maxLen {
		return 0, fmt.Errorf("%w: length %d > %d", ErrPlaintextTooLong, len(p), s.maxLen)
	}

	base := uint64(len(s.alphabet))

	// Offset of the length-len(p) bucket.
	var offset, sizeL uint64 = 0, 1
	for L := 0; L < len(p); L++ {
		offset += sizeL
		sizeL *= base
	}

	var n, weight uint64 = 0, 1
	for _, sym := range p {
		idx := s.index[sym]
		if idx == -1 {
			return 0, fmt.Errorf("%w: %q", ErrSymbolNotInSpace, sym)
		}
		n += uint64(idx) * weight
		weight *= base
	}

	return offset + n, nil
}
