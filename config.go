package rainbowdb

import (
	"errors"
	"log/slog"
	"math/bits"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/chainforge/rainbowdb/pkg/chain"
)

var (
	ErrNoHashFunction = errors.New("rainbowdb: a hash function is required")
	ErrChainLength    = errors.New("rainbowdb: chain length must be positive")
	// ErrDigestTooNarrow means the configured plaintext space is larger
	// than the hash function's output can address; reducing such digests
	// would only ever reach a fraction of the space.
	ErrDigestTooNarrow = errors.New("rainbowdb: hash digest too narrow for the plaintext space")
)

// Config configures a Table. Alphabet, MaxLen, ChainLen and the reduction
// mode are the table's identity: a table built under one configuration can
// only answer lookups under the same one. The engine does not detect a
// mismatch beyond what surfaces as decode or verification failures.
type Config struct {
	// Alphabet is the ordered set of plaintext symbols. Symbols must be
	// unique.
	Alphabet []byte
	// MaxLen is the maximum plaintext length, inclusive. Length zero (the
	// empty plaintext) is always part of the space.
	MaxLen int
	// ChainLen is the number of hash/reduce steps per chain.
	ChainLen int
	// Hash is the one-way function under attack. The engine never selects
	// an algorithm itself.
	Hash chain.HashFunc
	// PositionSalted selects the reduction mode. When true, each chain
	// position uses a distinct member of the reduction family, which
	// breaks up chain merges but rules out the position-naive lookup.
	PositionSalted bool
	// Workers bounds build parallelism. Values below one select the CPU
	// count.
	Workers int
	// StorePath, when set, keeps the chain index in a BadgerDB directory
	// at that path instead of in memory. The directory must exist.
	StorePath string
	// MinimumFreeMB aborts opening an on-disk index on a filesystem with
	// less free space. Zero disables the check.
	MinimumFreeMB int
	// Logger is an optional structured logger. If nil, a stderr logger is
	// used.
	Logger *slog.Logger
	// StoreLogger is passed to the on-disk index layer.
	StoreLogger *logrus.Logger
	// Hooks are invoked around every hash and reduce call, during builds
	// and lookups alike. Intended for tracing and call counting.
	Hooks chain.Hooks
}

// defaultLogger returns a logger that writes text logs to stderr at Info
// level. Applications can inject their own slog.Logger for JSON, different
// levels, etc.
func defaultLogger() *slog.Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(h)
}

func (conf *Config) check() error {
	if conf.Hash == nil {
		return ErrNoHashFunction
	}
	if conf.ChainLen <= 0 {
		return ErrChainLength
	}
	return nil
}

// checkDigestWidth probes the hash function once and verifies its output
// is wide enough to address the whole plaintext space.
func (conf *Config) checkDigestWidth(total uint64) error {
	probe := conf.Hash([]byte{})
	if len(probe)*8 < 64-bits.LeadingZeros64(total-1) {
		return ErrDigestTooNarrow
	}
	return nil
}
