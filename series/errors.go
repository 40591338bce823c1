package series

import "errors"

// Every sentinel is prefixed with "tsalign:" so log lines are easy to grep.
// Return them directly or wrap with fmt.Errorf("op: %w", ErrX); callers match
// with errors.Is.

// Input errors: the caller handed over data the transforms cannot work with.
var (
	// ErrEmptyInput indicates that no series (or a series with no usable timestamp) was supplied.
	ErrEmptyInput = errors.New("tsalign: empty input")

	// ErrLengthMismatch indicates that time and value arrays differ in length.
	ErrLengthMismatch = errors.New("tsalign: time and value lengths differ")

	// ErrKeyMismatch indicates that the value and time maps carry different series ids.
	ErrKeyMismatch = errors.New("tsalign: series and times key sets differ")

	// ErrNoOverlap indicates that the series share no common time window.
	ErrNoOverlap = errors.New("tsalign: series time windows do not overlap")

	// ErrInsufficientData indicates too few points for the requested transform.
	ErrInsufficientData = errors.New("tsalign: insufficient data")

	// ErrInvalidTarget indicates a non-positive target point count.
	ErrInvalidTarget = errors.New("tsalign: target point count must be > 0")

	// ErrGridTooLarge indicates that the derived grid exceeds the configured point cap.
	ErrGridTooLarge = errors.New("tsalign: grid exceeds point limit")
)

// Configuration errors: the request named something that does not exist or
// carries a parameter outside its domain.
var (
	// ErrUnsupportedMethod indicates an unknown method, grid reducer or interpolation kind.
	ErrUnsupportedMethod = errors.New("tsalign: unsupported method")

	// ErrInvalidStep indicates an explicit grid step that is not finite and positive.
	ErrInvalidStep = errors.New("tsalign: grid step must be finite and > 0")

	// ErrInvalidParameter indicates a tuning parameter outside its documented range.
	ErrInvalidParameter = errors.New("tsalign: invalid parameter")
)

var (
	inputErrors = []error{
		ErrEmptyInput, ErrLengthMismatch, ErrKeyMismatch, ErrNoOverlap,
		ErrInsufficientData, ErrInvalidTarget, ErrGridTooLarge,
	}
	configErrors = []error{ErrUnsupportedMethod, ErrInvalidStep, ErrInvalidParameter}
)

// IsInputError reports whether err wraps one of the input sentinels.
func IsInputError(err error) bool { return isAny(err, inputErrors) }

// IsConfigurationError reports whether err wraps one of the configuration sentinels.
func IsConfigurationError(err error) bool { return isAny(err, configErrors) }

func isAny(err error, set []error) bool {
	if err == nil {
		return false
	}
	for _, target := range set {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
