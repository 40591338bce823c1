package cli

import (
	"github.com/katalvlaran/tsalign/cache"
	"github.com/katalvlaran/tsalign/series"
)

// cached runs compute through the configured result cache, or directly when
// caching is off. Cache setup failures are logged and fall back to compute.
func cached[T any](opts *RootOptions, op string, params map[string]any, in []series.Series, compute func() (T, error)) (T, error) {
	if !opts.cfg.Cache.Enabled {
		return compute()
	}
	log := opts.logger

	arrays := make([][]float64, 0, 2*len(in))
	ids := make([]any, len(in))
	for i, s := range in {
		arrays = append(arrays, s.Time, s.Values)
		ids[i] = s.ID
	}
	keyParams := map[string]any{"params": params, "ids": ids}
	key, err := cache.Key(op, keyParams, arrays...)
	if err != nil {
		log.Warn("cache key failed", "error", err)
		return compute()
	}

	store, err := opts.cfg.OpenStore()
	if err != nil {
		log.Warn("cache unavailable", "error", err)
		return compute()
	}
	defer store.Close()

	codec, err := opts.cfg.NewCodec()
	if err != nil {
		log.Warn("cache codec unavailable", "error", err)
		return compute()
	}
	if z, ok := codec.(*cache.Zstd); ok {
		defer z.Close()
	}

	val, hit, err := cache.NewMemo[T](store, codec, log).Do(key, compute)
	log.Debug("cache lookup", "op", op, "key", key, "hit", hit)

	return val, err
}
