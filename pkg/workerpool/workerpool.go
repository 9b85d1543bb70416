// Package workerpool runs independent tasks across a fixed set of worker
// goroutines. The table build phase uses it to construct chains from many
// seeds in parallel; chain construction is pure per seed, so tasks never
// share state.
package workerpool

import (
	"runtime"
	"sync"
)

type Config struct {
	// WorkerCount is the number of worker goroutines. Values below one
	// select runtime.NumCPU().
	WorkerCount int
	// QueueBuffer is the capacity of the shared task queue. Values below
	// one select a default of 1024.
	QueueBuffer int
}

// Pool owns the worker goroutines and the shared task queue. A Pool may
// serve many Rooms over its lifetime; Close stops the workers once all
// submitted tasks have drained.
type Pool struct {
	config    Config
	taskQueue chan task
	closeOnce sync.Once
}

type task struct {
	index int
	run   func() interface{}
	room  *Room
}

// Room collects the results of one batch of related tasks. Results arrive
// in completion order; each result carries the index its task was
// submitted under so callers can restore submission order.
type Room struct {
	pool       *Pool
	resultChan chan Result
	pending    sync.WaitGroup
	submitted  int
}

// Result is one task's outcome.
type Result struct {
	Index int
	Value interface{}
}

func New(config Config) *Pool {
	if config.WorkerCount < 1 {
		config.WorkerCount = runtime.NumCPU()
	}
	if config.QueueBuffer < 1 {
		config.QueueBuffer = 1024
	}

	p := &Pool{
		config:    config,
		taskQueue: make(chan task, config.QueueBuffer),
	}
	for i := 0; i < config.WorkerCount; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for t := range p.taskQueue {
		t.room.resultChan <- Result{Index: t.index, Value: t.run()}
		t.room.pending.Done()
	}
}

// Close stops the workers. Every room with submitted tasks must be
// collected before Close; Close is idempotent.
func (p *Pool) Close() {
	p.closeOnce.Do(func() { close(p.taskQueue) })
}

// CreateRoom prepares a collection point for a batch of up to size tasks.
// The size only shapes the result buffer; submitting more is allowed.
func (p *Pool) CreateRoom(size int) *Room {
	return &Room{
		pool:       p,
		resultChan: make(chan Result, size),
	}
}

// Submit queues one task. Submit blocks when the shared queue is full.
func (ro *Room) Submit(job func() interface{}) {
	ro.pending.Add(1)
	ro.pool.taskQueue <- task{index: ro.submitted, run: job, room: ro}
	ro.submitted++
}

// Collect waits for every submitted task and returns all results. The room
// must not be reused afterwards.
func (ro *Room) Collect() []Result {
	go func() {
		ro.pending.Wait()
		close(ro.resultChan)
	}()

	results := make([]Result, 0, ro.submitted)
	for r := range ro.resultChan {
		results = append(results, r)
	}
	return results
}
