// Package hashreg maps algorithm names to hash functions. The engine core
// only ever sees an opaque func([]byte) []byte; this registry is how the
// CLI and the attack tooling pick one by name.
package hashreg

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"sort"

	simd "github.com/minio/sha256-simd"
	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"
)

// Func is a one-way hash over a plaintext.
type Func func([]byte) []byte

var registry = map[string]Func{
	"sha1": func(b []byte) []byte {
		d := sha1.Sum(b)
		return d[:]
	},
	"sha224": func(b []byte) []byte {
		d := sha256.Sum224(b)
		return d[:]
	},
	"sha256": func(b []byte) []byte {
		d := simd.Sum256(b)
		return d[:]
	},
	"md5": func(b []byte) []byte {
		d := md5.Sum(b)
		return d[:]
	},
	"blake3": func(b []byte) []byte {
		d := blake3.Sum256(b)
		return d[:]
	},
	"xxh3": func(b []byte) []byte {
		d := xxh3.Hash128(b).Bytes()
		return d[:]
	},
}

// Get returns the hash function registered under name.
func Get(name string) (Func, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("hashreg: unsupported algorithm %q (supported: %v)", name, Names())
	}
	return fn, nil
}

// Names lists the registered algorithm names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
