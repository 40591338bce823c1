package cache

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Key hashes op, the JSON encoding of params (map keys sorted by
// encoding/json) and the IEEE-754 bits of every array into a 16-hex-digit key.
// Array lengths are mixed in so ([1],[2,3]) and ([1,2],[3]) differ.
func Key(op string, params map[string]any, arrays ...[]float64) (string, error) {
	p, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("cache key params: %w", err)
	}

	h := xxhash.New()
	var word [8]byte
	_, _ = h.WriteString(op)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(p)
	for _, xs := range arrays {
		binary.LittleEndian.PutUint64(word[:], uint64(len(xs)))
		_, _ = h.Write(word[:])
		for _, x := range xs {
			binary.LittleEndian.PutUint64(word[:], math.Float64bits(x))
			_, _ = h.Write(word[:])
		}
	}

	return fmt.Sprintf("%s-%016x", op, h.Sum64()), nil
}
