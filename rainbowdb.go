// Package rainbowdb is a rainbow-table cryptanalysis engine: it
// precomputes chains of alternating hash and reduce steps over a bounded
// plaintext space, keeps only each chain's endpoints, and later inverts
// target digests by regenerating chain fragments against that compact
// index. Success is probabilistic; it depends on chain count, chain length
// and endpoint collisions.
package rainbowdb

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/chainforge/rainbowdb/internal/tablestore"
	"github.com/chainforge/rainbowdb/pkg/chain"
	"github.com/chainforge/rainbowdb/pkg/plainspace"
	"github.com/chainforge/rainbowdb/pkg/reduction"
	"github.com/chainforge/rainbowdb/pkg/seed"
	"github.com/chainforge/rainbowdb/pkg/workerpool"
)

// Table owns the endpoint->start chain index together with the plaintext
// space, reduction strategy and chain builder it was built under. A Table
// is either under construction (one exclusive builder) or queryable (any
// number of concurrent lookups); the two phases never interleave.
type Table struct {
	config  Config
	log     *slog.Logger
	space   *plainspace.Space
	reducer reduction.Strategy
	builder *chain.Builder
	pool    *workerpool.Pool

	mu    sync.RWMutex
	index chainIndex

	closeOnce sync.Once
}

// New validates the configuration and returns an empty Table. The alphabet
// and maximum length are validated by the plaintext space; the hash
// function's digest width is probed against the space's total size.
func New(conf Config) (*Table, error) {
	if err := conf.check(); err != nil {
		return nil, err
	}
	if conf.Logger == nil {
		conf.Logger = defaultLogger()
	}

	space, err := plainspace.New(conf.Alphabet, conf.MaxLen)
	if err != nil {
		return nil, err
	}
	if err := conf.checkDigestWidth(space.Total()); err != nil {
		return nil, err
	}

	mode := reduction.PositionBlind
	if conf.PositionSalted {
		mode = reduction.PositionSalted
	}
	reducer := reduction.NewMixedRadix(space, mode)

	index, err := newIndex(conf)
	if err != nil {
		return nil, err
	}

	t := &Table{
		config:  conf,
		log:     conf.Logger,
		space:   space,
		reducer: reducer,
		builder: chain.NewBuilder(conf.Hash, reducer, conf.ChainLen, conf.Hooks),
		pool:    workerpool.New(workerpool.Config{WorkerCount: conf.Workers}),
		index:   index,
	}
	return t, nil
}

// Space exposes the table's plaintext space, mainly for collaborators that
// enumerate it (brute force) or report on it.
func (t *Table) Space() *plainspace.Space { return t.space }

// ChainLen returns the number of hash/reduce steps per chain.
func (t *Table) ChainLen() int { return t.config.ChainLen }

// PositionSalted reports the table's reduction mode.
func (t *Table) PositionSalted() bool { return t.reducer.PositionAware() }

// Build resets the table and populates it from the given seeds. Chains are
// constructed in parallel across the worker pool, but inserted in seed
// order, so when two chains collapse to the same endpoint the later seed's
// start is the one that stays retrievable. A failed build leaves the
// previous contents untouched.
func (t *Table) Build(seeds [][]byte) error {
	room := t.pool.CreateRoom(len(seeds))
	for _, s := range seeds {
		s := s
		room.Submit(func() interface{} {
			c, err := t.builder.Build(s)
			if err != nil {
				return err
			}
			return c
		})
	}

	ordered := make([]chain.Chain, len(seeds))
	for _, r := range room.Collect() {
		switch v := r.Value.(type) {
		case error:
			return fmt.Errorf("build chain %d: %w", r.Index, v)
		case chain.Chain:
			ordered[r.Index] = v
		}
	}

	batch := make([][2][]byte, len(ordered))
	for i, c := range ordered {
		batch[i] = [2][]byte{c.End, c.Start}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.index.reset(); err != nil {
		return fmt.Errorf("reset table: %w", err)
	}
	if err := t.index.putBatch(batch); err != nil {
		return fmt.Errorf("insert chains: %w", err)
	}

	t.log.Info("rainbow table built",
		"seeds", len(seeds),
		"chains", t.lenLocked(),
		"chainLen", t.config.ChainLen,
	)
	return nil
}

// BuildRandom builds the table from count random fixed-width seeds.
func (t *Table) BuildRandom(count int) error {
	seeds, err := seed.Random(count)
	if err != nil {
		return err
	}
	return t.Build(seeds)
}

// BuildDeterministic builds the table from count seeds drawn from a
// ChaCha20 keystream under key, so the same key reproduces the same table.
func (t *Table) BuildDeterministic(key []byte, count int) error {
	seeds, err := seed.Deterministic(key, count)
	if err != nil {
		return err
	}
	return t.Build(seeds)
}

// InsertChain grows the table incrementally by one chain built from start,
// without resetting existing contents. Last write wins on an endpoint
// collision.
func (t *Table) InsertChain(start []byte) error {
	c, err := t.builder.Build(start)
	if err != nil {
		return fmt.Errorf("build chain: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.index.put(c.End, c.Start); err != nil {
		return fmt.Errorf("insert chain: %w", err)
	}
	return nil
}

// Len returns the number of chains currently stored.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lenLocked()
}

func (t *Table) lenLocked() int {
	n, err := t.index.len()
	if err != nil {
		t.log.Error("count chains", "error", err)
		return 0
	}
	return n
}

// Close releases the worker pool and, for store-backed tables, the
// underlying store. Close is idempotent.
func (t *Table) Close() error {
	var closeErr error
	t.closeOnce.Do(func() {
		t.pool.Close()
		if err := t.index.close(); err != nil {
			closeErr = fmt.Errorf("close index: %w", err)
		}
	})
	return closeErr
}

// hash applies the configured hash function and fires the tracing hook.
func (t *Table) hash(plaintext []byte) []byte {
	digest := t.config.Hash(plaintext)
	if t.config.Hooks.OnHash != nil {
		t.config.Hooks.OnHash(plaintext, digest)
	}
	return digest
}

// reduce applies the reduction strategy and fires the tracing hook.
func (t *Table) reduce(digest []byte, position uint64) ([]byte, error) {
	plaintext, err := t.reducer.Reduce(digest, position)
	if err != nil {
		return nil, err
	}
	if t.config.Hooks.OnReduce != nil {
		t.config.Hooks.OnReduce(digest, plaintext, position)
	}
	return plaintext, nil
}

// newIndex selects the chain index backend from the configuration.
func newIndex(conf Config) (chainIndex, error) {
	if conf.StorePath == "" {
		return newMemoryIndex(), nil
	}

	store, err := tablestore.Open(tablestore.StoreConfig{
		Path:          conf.StorePath,
		MinimumFreeMB: conf.MinimumFreeMB,
		Logger:        conf.StoreLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open chain store: %w", err)
	}
	return &storeIndex{store: store}, nil
}
