package cache

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerOptions configures a persistent store.
type BadgerOptions struct {
	Dir      string        // database directory; ignored when InMemory
	InMemory bool          // keep everything in RAM (tests, one-shot runs)
	TTL      time.Duration // 0 keeps entries until overwritten
}

// Badger is a Store backed by a badger database.
type Badger struct {
	db     *badger.DB
	ttl    time.Duration
	hits   atomic.Uint64
	misses atomic.Uint64
}

// OpenBadger opens (or creates) the database described by o.
func OpenBadger(o BadgerOptions) (*Badger, error) {
	bo := badger.DefaultOptions(o.Dir)
	if o.InMemory {
		bo = badger.DefaultOptions("").WithInMemory(true)
	}
	bo.Logger = nil

	db, err := badger.Open(bo)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}

	return &Badger{db: db, ttl: o.TTL}, nil
}

// Get implements Store.
func (b *Badger) Get(key string) ([]byte, bool, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)

		return err
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		b.misses.Add(1)
		return nil, false, nil
	case errors.Is(err, badger.ErrDBClosed):
		return nil, false, ErrClosed
	case err != nil:
		return nil, false, fmt.Errorf("badger get: %w", err)
	}
	b.hits.Add(1)

	return val, true, nil
}

// Put implements Store.
func (b *Badger) Put(key string, val []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), val)
		if b.ttl > 0 {
			e = e.WithTTL(b.ttl)
		}

		return txn.SetEntry(e)
	})
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrClosed
	}
	if err != nil {
		return fmt.Errorf("badger put: %w", err)
	}

	return nil
}

// Stats returns the lookup counters. Size is not tracked for badger.
func (b *Badger) Stats() Stats {
	return Stats{Hits: b.hits.Load(), Misses: b.misses.Load()}
}

// Close flushes and closes the database.
func (b *Badger) Close() error { return b.db.Close() }
