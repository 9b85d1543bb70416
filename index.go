package rainbowdb

import "github.com/chainforge/rainbowdb/internal/tablestore"

// chainIndex is the endpoint->start mapping behind a Table. The in-memory
// implementation is the default; the store-backed one holds tables that do
// not fit in memory. Both apply last-write-wins on endpoint collisions.
type chainIndex interface {
	put(end, start []byte) error
	putBatch(batch [][2][]byte) error
	get(end []byte) ([]byte, bool, error)
	len() (int, error)
	each(fn func(end, start []byte) error) error
	reset() error
	close() error
}

type memoryIndex struct {
	chains map[string][]byte
}

func newMemoryIndex() *memoryIndex {
	return &memoryIndex{chains: make(map[string][]byte)}
}

func (m *memoryIndex) put(end, start []byte) error {
	m.chains[string(end)] = append([]byte(nil), start...)
	return nil
}

func (m *memoryIndex) putBatch(batch [][2][]byte) error {
	for _, kv := range batch {
		if err := m.put(kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryIndex) get(end []byte) ([]byte, bool, error) {
	start, ok := m.chains[string(end)]
	return start, ok, nil
}

func (m *memoryIndex) len() (int, error) { return len(m.chains), nil }

func (m *memoryIndex) each(fn func(end, start []byte) error) error {
	for end, start := range m.chains {
		if err := fn([]byte(end), start); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryIndex) reset() error {
	m.chains = make(map[string][]byte)
	return nil
}

func (m *memoryIndex) close() error { return nil }

type storeIndex struct {
	store *tablestore.Store
}

// storeKeyPrefix precedes every stored endpoint. Badger rejects empty
// keys, and the empty plaintext is a legitimate chain endpoint, so raw
// endpoints cannot serve as keys directly.
const storeKeyPrefix = 'e'

func storeKey(end []byte) []byte {
	return append([]byte{storeKeyPrefix}, end...)
}

func (s *storeIndex) put(end, start []byte) error { return s.store.Put(storeKey(end), start) }

func (s *storeIndex) putBatch(batch [][2][]byte) error {
	// Badger batches do not promise an ordering between writes to the same
	// key, so colliding endpoints are resolved here before submission.
	lastIdx := make(map[string]int, len(batch))
	for i, kv := range batch {
		lastIdx[string(kv[0])] = i
	}
	dedup := make([][2][]byte, 0, len(lastIdx))
	for i, kv := range batch {
		if lastIdx[string(kv[0])] == i {
			dedup = append(dedup, [2][]byte{storeKey(kv[0]), kv[1]})
		}
	}
	return s.store.WriteBatch(dedup)
}

func (s *storeIndex) get(end []byte) ([]byte, bool, error) { return s.store.Get(storeKey(end)) }

func (s *storeIndex) len() (int, error) { return s.store.Count() }

func (s *storeIndex) each(fn func(end, start []byte) error) error {
	return s.store.Each(func(key, start []byte) error {
		return fn(key[1:], start)
	})
}

func (s *storeIndex) reset() error { return s.store.Reset() }

func (s *storeIndex) close() error { return s.store.Close() }
