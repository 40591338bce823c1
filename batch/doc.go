// Package batch fans independent transform calls out over a bounded worker
// pool: downsampling a set of series, synchronizing every pair of series, and
// the symmetric DTW distance matrix.
//
// Every call only reads its inputs and allocates fresh outputs, so workers
// share nothing but the result slice, which each writes at its own index.
// The first error cancels the remaining work and is returned.
package batch
