// Package result is the envelope every transform attaches to its output:
// the operation name, the effective parameters, the wall-clock duration and
// a small set of quality metrics (validity counts, reconstruction errors,
// compression ratio).
//
// Non-finite metrics are encoded as JSON null so an envelope always
// marshals, including for all-NaN inputs.
package result
