package cache

import "errors"

// ErrClosed is returned by a Store used after Close.
var ErrClosed = errors.New("cache: store closed")

// Store is a byte-oriented key/value tier.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the payload for key; ok is false on a miss or an expired entry.
	Get(key string) (val []byte, ok bool, err error)

	// Put stores val under key, replacing any previous entry.
	Put(key string, val []byte) error

	Close() error
}

// Stats counts lookups of a Store.
type Stats struct {
	Size   int
	Hits   uint64
	Misses uint64
}

// HitRate returns hits as a percentage of all lookups (0 with none).
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total) * 100
}
