package dtw

import (
	"fmt"
	"math"
)

// DTW returns the Dynamic Time Warping distance between a and b.
//
// Implementation:
//   - D[0][0] = 0, D[i][0] = D[0][j] = +Inf.
//   - D[i][j] = |a[i-1]-b[j-1]| + min(D[i-1][j-1], D[i-1][j]+p, D[i][j-1]+p)
//     inside the window, +Inf outside it.
//   - With ReturnPath the table is walked back from (n, m), preferring the
//     diagonal, then the step from a, then the step from b on equal cost.
//
// A nil opts means DefaultOptions(). Disjoint windows (|n-m| > Window) give +Inf.
//
// Errors:
//   - ErrEmptyInput, ErrBadInput (Window < -1, negative or NaN penalty, unknown
//     mode, non-finite samples), ErrPathNeedsMatrix.
//
// Complexity:
//   - Time O(n·m), Space O(n·m) for FullMatrix, O(m) otherwise.
func DTW(a, b []float64, opts *Options) (float64, []Coord, error) {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if err := validate(a, b, o); err != nil {
		return 0, nil, err
	}

	switch o.MemoryMode {
	case FullMatrix:
		D := fullTable(a, b, o)
		dist := D[len(a)][len(b)]
		if !o.ReturnPath {
			return dist, nil, nil
		}
		if math.IsInf(dist, 1) {
			return dist, nil, nil
		}

		return dist, backtrack(D, o.SlopePenalty), nil
	case TwoRows:
		return twoRows(a, b, o), nil, nil
	default:
		return singleRow(a, b, o), nil, nil
	}
}

func validate(a, b []float64, o Options) error {
	if len(a) == 0 || len(b) == 0 {
		return ErrEmptyInput
	}
	if o.Window < Unlimited {
		return fmt.Errorf("window %d: %w", o.Window, ErrBadInput)
	}
	if !(o.SlopePenalty >= 0) || math.IsInf(o.SlopePenalty, 1) {
		return fmt.Errorf("slope penalty %v: %w", o.SlopePenalty, ErrBadInput)
	}
	switch o.MemoryMode {
	case FullMatrix, TwoRows, NoMemory:
	default:
		return fmt.Errorf("memory mode %d: %w", o.MemoryMode, ErrBadInput)
	}
	if o.ReturnPath && o.MemoryMode != FullMatrix {
		return ErrPathNeedsMatrix
	}
	for _, seq := range [][]float64{a, b} {
		for i, x := range seq {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return fmt.Errorf("sample %d = %v: %w", i, x, ErrBadInput)
			}
		}
	}

	return nil
}

func outside(i, j, w int) bool {
	if w == Unlimited {
		return false
	}
	d := i - j
	if d < 0 {
		d = -d
	}

	return d > w
}

func cell(diag, up, left, cost, p float64) float64 {
	return cost + min(diag, up+p, left+p)
}

func fullTable(a, b []float64, o Options) [][]float64 {
	n, m := len(a), len(b)
	inf := math.Inf(1)
	D := make([][]float64, n+1)
	for i := range D {
		D[i] = make([]float64, m+1)
		D[i][0] = inf
	}
	for j := 1; j <= m; j++ {
		D[0][j] = inf
	}
	D[0][0] = 0

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if outside(i, j, o.Window) {
				D[i][j] = inf
				continue
			}
			D[i][j] = cell(D[i-1][j-1], D[i-1][j], D[i][j-1], math.Abs(a[i-1]-b[j-1]), o.SlopePenalty)
		}
	}

	return D
}

func twoRows(a, b []float64, o Options) float64 {
	n, m := len(a), len(b)
	inf := math.Inf(1)
	prev := make([]float64, m+1)
	curr := make([]float64, m+1)
	for j := 1; j <= m; j++ {
		prev[j] = inf
	}

	for i := 1; i <= n; i++ {
		curr[0] = inf
		for j := 1; j <= m; j++ {
			if outside(i, j, o.Window) {
				curr[j] = inf
				continue
			}
			curr[j] = cell(prev[j-1], prev[j], curr[j-1], math.Abs(a[i-1]-b[j-1]), o.SlopePenalty)
		}
		prev, curr = curr, prev
	}

	return prev[m]
}

// singleRow overwrites row in place, carrying D[i-1][j-1] in diag.
func singleRow(a, b []float64, o Options) float64 {
	n, m := len(a), len(b)
	inf := math.Inf(1)
	row := make([]float64, m+1)
	for j := 1; j <= m; j++ {
		row[j] = inf
	}

	for i := 1; i <= n; i++ {
		diag := row[0]
		row[0] = inf
		for j := 1; j <= m; j++ {
			up := row[j]
			if outside(i, j, o.Window) {
				row[j] = inf
			} else {
				row[j] = cell(diag, up, row[j-1], math.Abs(a[i-1]-b[j-1]), o.SlopePenalty)
			}
			diag = up
		}
	}

	return row[m]
}

// backtrack walks the optimal path from (n, m) back to (1, 1).
func backtrack(D [][]float64, p float64) []Coord {
	i, j := len(D)-1, len(D[0])-1
	path := make([]Coord, 0, i+j)
	for {
		path = append(path, Coord{I: i - 1, J: j - 1})
		if i == 1 && j == 1 {
			break
		}
		diag, up, left := D[i-1][j-1], D[i-1][j]+p, D[i][j-1]+p
		switch {
		case diag <= up && diag <= left:
			i, j = i-1, j-1
		case up <= left:
			i--
		default:
			j--
		}
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}

	return path
}
