package dtw

import "errors"

// MemoryMode controls how much of the DP table DTW keeps.
type MemoryMode int

const (
	// FullMatrix keeps the whole (n+1)×(m+1) table; required for ReturnPath.
	FullMatrix MemoryMode = iota

	// TwoRows keeps the previous and the current row: O(m) memory.
	TwoRows

	// NoMemory keeps a single row plus the running diagonal: O(m) memory,
	// half of TwoRows.
	NoMemory
)

// Unlimited disables the Sakoe–Chiba window.
const Unlimited = -1

var (
	// ErrEmptyInput indicates that one of the sequences is empty.
	ErrEmptyInput = errors.New("dtw: input sequences must be non-empty")

	// ErrBadInput indicates an option outside its domain or a non-finite sample.
	ErrBadInput = errors.New("dtw: bad input")

	// ErrPathNeedsMatrix indicates ReturnPath without MemoryMode=FullMatrix.
	ErrPathNeedsMatrix = errors.New("dtw: ReturnPath requires MemoryMode=FullMatrix")
)

// Options configures DTW.
//
//   - Window: maximum |i-j| (Sakoe–Chiba band); Unlimited (-1) disables it,
//     0 allows the diagonal only.
//   - SlopePenalty: extra cost of every insertion or deletion step (>= 0).
//   - ReturnPath: also return the optimal warping path.
//   - MemoryMode: DP storage; paths need FullMatrix.
type Options struct {
	Window       int
	SlopePenalty float64
	ReturnPath   bool
	MemoryMode   MemoryMode
}

// DefaultOptions returns an unconstrained, distance-only configuration.
func DefaultOptions() Options {
	return Options{Window: Unlimited, MemoryMode: TwoRows}
}

// Coord is one cell (I into a, J into b) of a warping path.
type Coord struct {
	I, J int
}
