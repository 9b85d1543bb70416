package rainbowdb

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrNaiveNeedsBlindReduction is returned by LookupNaive on a table whose
// reduction honors the chain position. Mixing the naive walk with a
// position-salted reduction silently misses almost everything, so the
// combination is rejected outright.
var ErrNaiveNeedsBlindReduction = errors.New(
	"rainbowdb: position-naive lookup requires a position-blind reduction")

// Lookup tries to find a plaintext whose hash equals target. It returns
// the plaintext and true on success, and (nil, false, nil) on a miss; a
// miss is an ordinary outcome, not an error. Lookup never mutates the
// table and is safe to call concurrently against a built table.
//
// The target digest might have been produced at any step i of some chain.
// Candidate origin positions are tried from the last step down: the chain
// remainder is simulated from position i to the end, and when the
// simulated endpoint is in the index the full chain is replayed from its
// stored start, comparing every step's hash against the target. A replay
// without a match means the hit was an endpoint collision, and the scan
// continues. Cost is O(chainLen²) hash/reduce calls in the worst case.
func (t *Table) Lookup(target []byte) ([]byte, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := t.config.ChainLen - 1; i >= 0; i-- {
		simulated := target
		var endCandidate []byte
		for pos := i; pos < t.config.ChainLen; pos++ {
			candidate, err := t.reduce(simulated, uint64(pos))
			if err != nil {
				return nil, false, fmt.Errorf("reduce at position %d: %w", pos, err)
			}
			simulated = t.hash(candidate)
			endCandidate = candidate
		}

		start, ok, err := t.index.get(endCandidate)
		if err != nil {
			return nil, false, fmt.Errorf("index lookup: %w", err)
		}
		if !ok {
			continue
		}

		plaintext, found, err := t.replay(start, target)
		if err != nil {
			return nil, false, err
		}
		if found {
			t.log.Debug("lookup hit", "position", i, "plaintext", string(plaintext))
			return plaintext, true, nil
		}
		// Endpoint collision, not a digest match; keep scanning earlier
		// origin positions.
	}

	return nil, false, nil
}

// LookupNaive is the cheaper variant that assumes every chain step used
// the same reduction. It walks at most chainLen candidates forward from
// the target digest instead of simulating every origin position.
func (t *Table) LookupNaive(target []byte) ([]byte, bool, error) {
	if t.reducer.PositionAware() {
		return nil, false, ErrNaiveNeedsBlindReduction
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	current := target
	for i := 0; i < t.config.ChainLen; i++ {
		candidate, err := t.reduce(current, 0)
		if err != nil {
			return nil, false, fmt.Errorf("reduce: %w", err)
		}

		start, ok, err := t.index.get(candidate)
		if err != nil {
			return nil, false, fmt.Errorf("index lookup: %w", err)
		}
		if ok {
			plaintext, found, err := t.replay(start, target)
			if err != nil {
				return nil, false, err
			}
			if found {
				return plaintext, true, nil
			}
		}

		current = t.hash(candidate)
	}

	return nil, false, nil
}

// replay rebuilds the chain from start and returns the plaintext whose
// hash equals target, if any step produces it. Every returned plaintext
// has been verified against the target, so no false positive escapes.
func (t *Table) replay(start, target []byte) ([]byte, bool, error) {
	current := start
	for pos := 0; pos < t.config.ChainLen; pos++ {
		digest := t.hash(current)
		if bytes.Equal(digest, target) {
			return current, true, nil
		}
		next, err := t.reduce(digest, uint64(pos))
		if err != nil {
			return nil, false, fmt.Errorf("reduce at position %d: %w", pos, err)
		}
		current = next
	}
	return nil, false, nil
}
