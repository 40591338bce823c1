// Package cache is the caller-owned result cache of the tsalign front ends.
//
// The transforms themselves never cache. A caller that wants reuse builds a
// Store (Memory for a bounded in-process LRU, Badger for a persistent
// directory), picks a Codec for the stored payloads and wraps a computation
// in a Memo. Keys are content hashes of the operation, its parameters and
// the raw input arrays, so identical requests share one entry.
//
// Memo guarantees at most one computation per key in flight: concurrent
// callers asking for the same key wait for the first one.
package cache
