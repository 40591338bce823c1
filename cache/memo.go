package cache

import (
	"encoding/json"
	"io"
	"log/slog"

	"golang.org/x/sync/singleflight"
)

// Memo memoizes computations of T in a Store, JSON-encoded and passed
// through a Codec. Cache failures are logged and never fail a call.
type Memo[T any] struct {
	store  Store
	codec  Codec
	logger *slog.Logger

	group singleflight.Group
}

// outcome is what one shared lookup-or-compute hands to every waiter.
type outcome[T any] struct {
	val T
	hit bool
}

// NewMemo wraps store. A nil codec means Identity, a nil logger discards.
func NewMemo[T any](store Store, codec Codec, logger *slog.Logger) *Memo[T] {
	if codec == nil {
		codec = Identity{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Memo[T]{store: store, codec: codec, logger: logger}
}

// Do returns the cached value for key, or runs compute, stores its result
// and returns it. hit reports whether the value came from the store.
// Concurrent calls with the same key share one lookup and one computation.
func (m *Memo[T]) Do(key string, compute func() (T, error)) (val T, hit bool, err error) {
	res, err, shared := m.group.Do(key, func() (any, error) {
		if v, ok := m.load(key); ok {
			return outcome[T]{val: v, hit: true}, nil
		}
		v, err := compute()
		if err != nil {
			return nil, err
		}
		m.save(key, v)

		return outcome[T]{val: v}, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	if shared {
		m.logger.Debug("cache call shared", "key", key)
	}
	o := res.(outcome[T])

	return o.val, o.hit, nil
}

func (m *Memo[T]) load(key string) (T, bool) {
	var zero T
	raw, ok, err := m.store.Get(key)
	if err != nil {
		m.logger.Warn("cache get failed", "key", key, "error", err)
		return zero, false
	}
	if !ok {
		return zero, false
	}
	plain, err := m.codec.Decode(raw)
	if err != nil {
		m.logger.Warn("cache decode failed", "key", key, "codec", m.codec.Name(), "error", err)
		return zero, false
	}
	var v T
	if err := json.Unmarshal(plain, &v); err != nil {
		m.logger.Warn("cache payload invalid", "key", key, "error", err)
		return zero, false
	}
	m.logger.Debug("cache hit", "key", key)

	return v, true
}

func (m *Memo[T]) save(key string, v T) {
	plain, err := json.Marshal(v)
	if err != nil {
		m.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	raw, err := m.codec.Encode(plain)
	if err != nil {
		m.logger.Warn("cache compress failed", "key", key, "codec", m.codec.Name(), "error", err)
		return
	}
	if err := m.store.Put(key, raw); err != nil {
		m.logger.Warn("cache put failed", "key", key, "error", err)
		return
	}
	m.logger.Debug("cache stored", "key", key, "bytes", len(raw), "plain_bytes", len(plain))
}
