// Package series holds the raw input type shared by every transform in
// tsalign, together with the error taxonomy and a handful of ordering and
// finiteness helpers.
//
// Errors fall in two families:
//
//	input:         ErrEmptyInput, ErrLengthMismatch, ErrKeyMismatch, ErrNoOverlap,
//	                ErrInsufficientData, ErrInvalidTarget, ErrGridTooLarge
//	configuration: ErrUnsupportedMethod, ErrInvalidStep, ErrInvalidParameter
//
// Use IsInputError / IsConfigurationError to branch on the family.
// Numerical degeneracies (singular covariance, zero time steps) never reach
// the caller; the kalman package recovers from them locally.
package series
