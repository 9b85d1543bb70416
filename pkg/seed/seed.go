// Package seed supplies chain seeds for table builds. Seeds are opaque
// byte strings fed straight into the chain builder; the first reduce step
// folds them into the plaintext space, so their width only has to be large
// enough to cover the space.
package seed

import (
	"crypto/rand"
	"fmt"

	"github.com/aead/chacha20/chacha"
)

// Width is the fixed byte width of generated seeds. 32 bytes comfortably
// exceeds any plaintext space whose total fits a uint64.
const Width = 32

// Explicit copies caller-provided seeds so later mutation of the inputs
// cannot reach into a build.
func Explicit(seeds ...[]byte) [][]byte {
	out := make([][]byte, len(seeds))
	for i, s := range seeds {
		out[i] = append([]byte(nil), s...)
	}
	return out
}

// Random draws count seeds of Width bytes from the operating system's
// entropy source.
func Random(count int) ([][]byte, error) {
	if count < 0 {
		return nil, fmt.Errorf("seed: negative count %d", count)
	}

	out := make([][]byte, count)
	for i := range out {
		s := make([]byte, Width)
		if _, err := rand.Read(s); err != nil {
			return nil, fmt.Errorf("seed: read random: %w", err)
		}
		out[i] = s
	}
	return out, nil
}

// Deterministic draws count seeds of Width bytes from a ChaCha20 keystream
// under the given 32-byte key. The same key always yields the same seed
// sequence, which makes table builds reproducible.
func Deterministic(key []byte, count int) ([][]byte, error) {
	if len(key) != chacha.KeySize {
		return nil, fmt.Errorf("seed: key must be %d bytes, got %d", chacha.KeySize, len(key))
	}
	if count < 0 {
		return nil, fmt.Errorf("seed: negative count %d", count)
	}

	stream := make([]byte, count*Width)
	nonce := make([]byte, chacha.NonceSize)
	chacha.XORKeyStream(stream, stream, nonce, key, 20)

	out := make([][]byte, count)
	for i := range out {
		out[i] = stream[i*Width : (i+1)*Width : (i+1)*Width]
	}
	return out, nil
}
