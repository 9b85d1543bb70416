// Package tablestore persists endpoint->start chain records in BadgerDB.
// It backs tables too large for an in-memory map; the engine treats it as
// an alternative chain index behind the same operations.
package tablestore

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("tablestore: store is closed")

type StoreConfig struct {
	// Path is the Badger data directory. It must exist and be writable.
	Path string
	// MinimumFreeMB aborts Open when the filesystem holding Path has less
	// free space than this. Zero disables the check.
	MinimumFreeMB int
	Logger        *logrus.Logger
}

type Store struct {
	config   StoreConfig
	badgerDB *badger.DB
	log      *logrus.Logger
}

func Open(config StoreConfig) (*Store, error) {
	if config.Logger == nil {
		config.Logger = logrus.New()
	}

	if err := config.check(); err != nil {
		return nil, fmt.Errorf("tablestore config: %w", err)
	}

	opts := badger.DefaultOptions(config.Path)
	opts.Logger = nil
	opts.SyncWrites = false

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", config.Path, err)
	}

	store := &Store{
		config:   config,
		badgerDB: db,
		log:      config.Logger,
	}
	store.log.WithFields(logrus.Fields{
		"path": config.Path,
	}).Info("chain store opened")

	return store, nil
}

// Put stores one endpoint->start record. An existing record for the same
// endpoint is overwritten; the table's collision policy is last write wins.
func (s *Store) Put(end, start []byte) error {
	if s.badgerDB == nil {
		return ErrClosed
	}
	err := s.badgerDB.Update(func(txn *badger.Txn) error {
		return txn.Set(end, start)
	})
	if err != nil {
		return fmt.Errorf("put chain: %w", err)
	}
	return nil
}

// WriteBatch stores many endpoint->start records in submission order, so
// the last record for a colliding endpoint wins within the batch too.
func (s *Store) WriteBatch(batch [][2][]byte) error {
	if s.badgerDB == nil {
		return ErrClosed
	}
	wb := s.badgerDB.NewWriteBatch()
	defer wb.Cancel()

	for _, kv := range batch {
		if err := wb.Set(kv[0], kv[1]); err != nil {
			return fmt.Errorf("batch set: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush batch: %w", err)
	}
	return nil
}

// Get looks up the chain start stored for an endpoint.
func (s *Store) Get(end []byte) ([]byte, bool, error) {
	if s.badgerDB == nil {
		return nil, false, ErrClosed
	}

	var start []byte
	err := s.badgerDB.View(func(txn *badger.Txn) error {
		item, err := txn.Get(end)
		if err != nil {
			return err
		}
		start, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get chain: %w", err)
	}
	return start, true, nil
}

// Count iterates the key space and returns the number of stored chains.
func (s *Store) Count() (int, error) {
	if s.badgerDB == nil {
		return 0, ErrClosed
	}

	count := 0
	err := s.badgerDB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count chains: %w", err)
	}
	return count, nil
}

// Each calls fn for every stored (end, start) pair. The slices are only
// valid for the duration of the call.
func (s *Store) Each(fn func(end, start []byte) error) error {
	if s.badgerDB == nil {
		return ErrClosed
	}

	err := s.badgerDB.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			end := item.Key()
			if err := item.Value(func(start []byte) error {
				return fn(end, start)
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("iterate chains: %w", err)
	}
	return nil
}

// Reset drops every stored chain. Build calls it before repopulating.
func (s *Store) Reset() error {
	if s.badgerDB == nil {
		return ErrClosed
	}
	if err := s.badgerDB.DropAll(); err != nil {
		return fmt.Errorf("drop chains: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"path": s.config.Path,
	}).Info("chain store reset")
	return nil
}

func (s *Store) Close() error {
	if s.badgerDB == nil {
		return nil
	}
	db := s.badgerDB
	s.badgerDB = nil
	if err := db.Close(); err != nil {
		return fmt.Errorf("close badger: %w", err)
	}
	return nil
}
