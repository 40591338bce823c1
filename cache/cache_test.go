package cache_test

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tsalign/cache"
	"github.com/katalvlaran/tsalign/series"
)

func TestKey_Deterministic(t *testing.T) {
	params := map[string]any{"method": "lttb", "n_points": 10}
	a, err := cache.Key("downsample", params, []float64{1, 2, 3}, []float64{4})
	require.NoError(t, err)
	b, err := cache.Key("downsample", map[string]any{"n_points": 10, "method": "lttb"}, []float64{1, 2, 3}, []float64{4})
	require.NoError(t, err)
	assert.Equal(t, a, b, "map order must not matter")
	assert.True(t, strings.HasPrefix(a, "downsample-"))
	assert.Len(t, a, len("downsample-")+16)

	c, err := cache.Key("downsample", params, []float64{1, 2}, []float64{3, 4})
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "array boundaries are part of the key")

	d, err := cache.Key("downsample", map[string]any{"method": "minmax", "n_points": 10}, []float64{1, 2, 3}, []float64{4})
	require.NoError(t, err)
	assert.NotEqual(t, a, d)

	e, err := cache.Key("downsample", params, []float64{1, 2, math.NaN()}, []float64{4})
	require.NoError(t, err)
	e2, err := cache.Key("downsample", params, []float64{1, 2, math.NaN()}, []float64{4})
	require.NoError(t, err)
	assert.Equal(t, e, e2, "NaN hashes by its bits")
}

func TestKey_UnencodableParams(t *testing.T) {
	_, err := cache.Key("op", map[string]any{"bad": math.Inf(1)})
	assert.Error(t, err)
}

func TestCodecs_RoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte(`{"values":[1.5,2.5,null]}`), 64)
	for _, name := range []string{cache.CodecIdentity, cache.CodecSnappy, cache.CodecZstd} {
		t.Run(name, func(t *testing.T) {
			c, err := cache.NewCodec(name, 2)
			require.NoError(t, err)
			assert.Equal(t, name, c.Name())

			enc, err := c.Encode(payload)
			require.NoError(t, err)
			if name != cache.CodecIdentity {
				assert.Less(t, len(enc), len(payload), "repetitive payload must shrink")
			}
			dec, err := c.Decode(enc)
			require.NoError(t, err)
			assert.Equal(t, payload, dec)
		})
	}
}

func TestZstd_Levels(t *testing.T) {
	payload := bytes.Repeat([]byte("tsalign "), 256)
	for level := 1; level <= 4; level++ {
		z, err := cache.NewZstd(level)
		require.NoError(t, err)
		enc, err := z.Encode(payload)
		require.NoError(t, err)
		dec, err := z.Decode(enc)
		require.NoError(t, err)
		assert.Equal(t, payload, dec)
		z.Close()
	}
}

func TestCodecs_Errors(t *testing.T) {
	_, err := cache.NewCodec("lz4", 0)
	assert.ErrorIs(t, err, series.ErrUnsupportedMethod)

	_, err = cache.Snappy{}.Decode([]byte{0xff, 0xff, 0xff})
	assert.Error(t, err)

	z, err := cache.NewZstd(0)
	require.NoError(t, err)
	defer z.Close()
	_, err = z.Decode([]byte("not zstd"))
	assert.Error(t, err)
}

func TestMemory_LRUEviction(t *testing.T) {
	m := cache.NewMemory(2, 0)
	require.NoError(t, m.Put("a", []byte("1")))
	require.NoError(t, m.Put("b", []byte("2")))

	_, ok, _ := m.Get("a") // a becomes most recent
	require.True(t, ok)
	require.NoError(t, m.Put("c", []byte("3")))

	_, ok, _ = m.Get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok, _ = m.Get("a")
	assert.True(t, ok)
	_, ok, _ = m.Get("c")
	assert.True(t, ok)

	st := m.Stats()
	assert.Equal(t, 2, st.Size)
	assert.Equal(t, uint64(3), st.Hits)
	assert.Equal(t, uint64(1), st.Misses)
	assert.InDelta(t, 75.0, st.HitRate(), 1e-12)

	require.NoError(t, m.Close())
	_, _, err := m.Get("a")
	assert.ErrorIs(t, err, cache.ErrClosed)
	assert.ErrorIs(t, m.Put("a", nil), cache.ErrClosed)
}

func TestStats_HitRateEmpty(t *testing.T) {
	assert.Equal(t, 0.0, cache.Stats{}.HitRate())
}

func TestBadger_InMemory(t *testing.T) {
	b, err := cache.OpenBadger(cache.BadgerOptions{InMemory: true})
	require.NoError(t, err)

	_, ok, err := b.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Put("k", []byte("payload")))
	v, ok, err := b.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("payload"), v)

	require.NoError(t, b.Put("k", []byte("replaced")))
	v, _, err = b.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("replaced"), v)

	assert.Equal(t, uint64(2), b.Stats().Hits)
	assert.Equal(t, uint64(1), b.Stats().Misses)
	require.NoError(t, b.Close())
}

func TestBadger_Directory(t *testing.T) {
	dir := t.TempDir()
	b, err := cache.OpenBadger(cache.BadgerOptions{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, b.Put("k", []byte("persisted")))
	require.NoError(t, b.Close())

	b, err = cache.OpenBadger(cache.BadgerOptions{Dir: dir})
	require.NoError(t, err)
	defer b.Close()
	v, ok, err := b.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("persisted"), v)
}

type payload struct {
	Values []float64 `json:"values"`
}

func TestMemo_ComputesOnceAndHits(t *testing.T) {
	z, err := cache.NewZstd(1)
	require.NoError(t, err)
	defer z.Close()
	memo := cache.NewMemo[payload](cache.NewMemory(8, 0), z, nil)

	var calls atomic.Int32
	compute := func() (payload, error) {
		calls.Add(1)
		return payload{Values: []float64{1, 2, 3}}, nil
	}

	v, hit, err := memo.Do("k", compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []float64{1, 2, 3}, v.Values)

	v, hit, err = memo.Do("k", compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []float64{1, 2, 3}, v.Values)
	assert.Equal(t, int32(1), calls.Load())
}

func TestMemo_ConcurrentSameKey(t *testing.T) {
	memo := cache.NewMemo[int](cache.NewMemory(8, 0), cache.Snappy{}, nil)
	release := make(chan struct{})
	var calls atomic.Int32

	const callers = 16
	var started, done sync.WaitGroup
	started.Add(callers)
	done.Add(callers)
	results := make([]int, callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer done.Done()
			started.Done()
			results[i], _, _ = memo.Do("same", func() (int, error) {
				calls.Add(1)
				<-release
				return 42, nil
			})
		}(i)
	}
	started.Wait()
	close(release)
	done.Wait()

	for _, r := range results {
		assert.Equal(t, 42, r)
	}
	// A caller that arrives after the first computation finished reads the
	// stored value instead of recomputing.
	assert.Equal(t, int32(1), calls.Load())
}

func TestMemo_ErrorsAreNotCached(t *testing.T) {
	store := cache.NewMemory(8, 0)
	memo := cache.NewMemo[int](store, nil, nil)
	boom := errors.New("boom")

	_, _, err := memo.Do("k", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, store.Stats().Size)

	v, hit, err := memo.Do("k", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 7, v)
}

func TestMemo_ConcurrentErrorReachesEveryCaller(t *testing.T) {
	memo := cache.NewMemo[int](cache.NewMemory(8, 0), nil, nil)
	boom := errors.New("boom")
	release := make(chan struct{})

	const callers = 8
	var started, done sync.WaitGroup
	started.Add(callers)
	done.Add(callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer done.Done()
			started.Done()
			_, _, errs[i] = memo.Do("k", func() (int, error) {
				<-release
				return 0, boom
			})
		}(i)
	}
	started.Wait()
	close(release)
	done.Wait()

	for _, err := range errs {
		assert.ErrorIs(t, err, boom)
	}
}

func TestMemo_CorruptEntryRecomputes(t *testing.T) {
	store := cache.NewMemory(8, 0)
	require.NoError(t, store.Put("k", []byte("not json")))
	memo := cache.NewMemo[int](store, nil, nil)

	v, hit, err := memo.Do("k", func() (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3, v)
}
