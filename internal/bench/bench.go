// Package bench measures rainbow table build and lookup cost: wall time,
// hash and reduce call counts (via the engine's instrumentation hooks) and
// process-visible memory use.
package bench

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/mem"

	"github.com/chainforge/rainbowdb"
	"github.com/chainforge/rainbowdb/pkg/chain"
)

// Options shapes one benchmark run.
type Options struct {
	// Seeds is the number of random chains to build the table from.
	Seeds int
	// Samples is the number of Monte Carlo lookups: targets are hashes of
	// uniformly drawn members of the plaintext space, so the hit rate
	// estimates the table's success rate.
	Samples int
	// Rand seeds the sample draw; zero picks the current time.
	Rand int64
}

// Result is the outcome of a benchmark run.
type Result struct {
	Chains      int
	BuildTime   time.Duration
	BuildHash   uint64
	BuildReduce uint64

	Lookups      int
	Hits         int
	LookupTime   time.Duration
	LookupHash   uint64
	LookupReduce uint64

	UsedMemMB float64
}

// HitRate is the fraction of sampled targets the table inverted.
func (r Result) HitRate() float64 {
	if r.Lookups == 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.Lookups)
}

// Run builds a table from random seeds under conf and measures Monte Carlo
// lookups against it. The hooks in conf are replaced with counters.
func Run(conf rainbowdb.Config, opts Options) (Result, error) {
	var hashCalls, reduceCalls atomic.Uint64
	conf.Hooks = chain.Hooks{
		OnHash:   func(_, _ []byte) { hashCalls.Add(1) },
		OnReduce: func(_, _ []byte, _ uint64) { reduceCalls.Add(1) },
	}

	table, err := rainbowdb.New(conf)
	if err != nil {
		return Result{}, fmt.Errorf("configure table: %w", err)
	}
	defer table.Close()

	var res Result

	buildStart := time.Now()
	if err := table.BuildRandom(opts.Seeds); err != nil {
		return Result{}, fmt.Errorf("build table: %w", err)
	}
	res.BuildTime = time.Since(buildStart)
	res.Chains = table.Len()
	res.BuildHash = hashCalls.Swap(0)
	res.BuildReduce = reduceCalls.Swap(0)

	seed := opts.Rand
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	space := table.Space()
	lookupStart := time.Now()
	for i := 0; i < opts.Samples; i++ {
		n := rng.Uint64() % space.Total()
		plaintext, err := space.Decode(n)
		if err != nil {
			return Result{}, fmt.Errorf("draw sample %d: %w", i, err)
		}
		target := conf.Hash(plaintext)

		_, found, err := table.Lookup(target)
		if err != nil {
			return Result{}, fmt.Errorf("lookup sample %d: %w", i, err)
		}
		res.Lookups++
		if found {
			res.Hits++
		}
	}
	res.LookupTime = time.Since(lookupStart)
	res.LookupHash = hashCalls.Load()
	res.LookupReduce = reduceCalls.Load()

	if vm, err := mem.VirtualMemory(); err == nil {
		res.UsedMemMB = float64(vm.Used) / (1024 * 1024)
	}

	return res, nil
}
