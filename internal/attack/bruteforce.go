// Package attack holds the exhaustive collaborators around the rainbow
// table engine: brute force over the plaintext space and dictionary scans
// over a wordlist. Both consume the same opaque hash functions the engine
// does and share its plaintext space enumeration.
package attack

import (
	"bytes"
	"context"
	"fmt"

	"github.com/chainforge/rainbowdb/pkg/chain"
	"github.com/chainforge/rainbowdb/pkg/plainspace"
)

// ctxCheckInterval is how many candidates are tried between context
// checks.
const ctxCheckInterval = 4096

// BruteForce enumerates the whole plaintext space in index order and
// returns the first plaintext whose (optionally salted) hash equals
// target. A salt, when given, is prepended to the candidate before
// hashing. A miss returns (nil, false, nil).
func BruteForce(ctx context.Context, space *plainspace.Space, hash chain.HashFunc, target, salt []byte) ([]byte, bool, error) {
	total := space.Total()
	buf := make([]byte, len(salt), len(salt)+space.MaxLen())
	copy(buf, salt)

	for n := uint64(0); n < total; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, false, err
			}
		}

		candidate, err := space.Decode(n)
		if err != nil {
			return nil, false, fmt.Errorf("decode candidate %d: %w", n, err)
		}

		digest := hash(append(buf[:len(salt)], candidate...))
		if bytes.Equal(digest, target) {
			return candidate, true, nil
		}
	}

	return nil, false, nil
}
