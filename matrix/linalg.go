// SPDX-License-Identifier: MIT
// Package matrix: linear-algebra kernels over *Dense.
//
// Purpose:
//   - Elementwise Add/Sub, Mul, Transpose, Scale, Doolittle LU and Inverse.
//   - Every kernel validates first, allocates a fresh result and never mutates
//     its operands.
//
// Notes:
//   - LU runs without pivoting: bit-for-bit reproducible, and a pivot at or
//     below the tolerance is reported as ErrSingular instead of being rescued.

package matrix

import (
	"fmt"
	"math"
)

// ZeroPivot is the default pivot tolerance of LU/Inverse (exact zero test).
const ZeroPivot = 0.0

func isNonFinite(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }

// addSub computes out = a + sign*b for sign ∈ {+1, -1}.
func addSub(a, b *Dense, sign float64, opTag string) (*Dense, error) {
	if err := validateSameShape(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	out := &Dense{r: a.r, c: a.c, data: make([]float64, len(a.data))}
	for i := range a.data {
		out.data[i] = a.data[i] + sign*b.data[i]
	}

	return out, nil
}

// Add returns a + b.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Add(a, b *Dense) (*Dense, error) { return addSub(a, b, +1, opAdd) }

// Sub returns a − b.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
func Sub(a, b *Dense) (*Dense, error) { return addSub(a, b, -1, opSub) }

// Mul returns the matrix product a·b.
//
// Implementation:
//   - Stage 1: validate a.Cols == b.Rows.
//   - Stage 2: i→k→j loop so the inner loop walks both b and out row-major.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r·k·c), Space O(r·c).
func Mul(a, b *Dense) (*Dense, error) {
	if err := validateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	out := &Dense{r: a.r, c: b.c, data: make([]float64, a.r*b.c)}
	for i := 0; i < a.r; i++ {
		for k := 0; k < a.c; k++ {
			aik := a.data[i*a.c+k]
			for j := 0; j < b.c; j++ {
				out.data[i*b.c+j] += aik * b.data[k*b.c+j]
			}
		}
	}

	return out, nil
}

// Transpose returns mᵀ.
//
// Errors:
//   - ErrNilMatrix.
func Transpose(m *Dense) (*Dense, error) {
	if m == nil {
		return nil, matrixErrorf(opTranspose, ErrNilMatrix)
	}
	out := &Dense{r: m.c, c: m.r, data: make([]float64, len(m.data))}
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			out.data[j*m.r+i] = m.data[i*m.c+j]
		}
	}

	return out, nil
}

// Scale returns alpha·m.
//
// Errors:
//   - ErrNilMatrix.
func Scale(m *Dense, alpha float64) (*Dense, error) {
	if m == nil {
		return nil, matrixErrorf(opScale, ErrNilMatrix)
	}
	out := &Dense{r: m.r, c: m.c, data: make([]float64, len(m.data))}
	for i, v := range m.data {
		out.data[i] = alpha * v
	}

	return out, nil
}

// LU computes the Doolittle factorization m = L·U with unit diagonal on L.
//
// Implementation:
//   - Stage 1: validate m (not nil, square); set diag(L)=1.
//   - Stage 2: for i=0..n-1 build row i of U, check the pivot, then column i of L.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular (|U[i,i]| <= tol).
//
// Complexity:
//   - Time O(n³), Space O(n²).
func LU(m *Dense, tol float64) (*Dense, *Dense, error) {
	if err := validateSquare(m); err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	n := m.r
	L, _ := NewIdentity(n)
	U := &Dense{r: n, c: n, data: make([]float64, n*n)}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sum := 0.0
			for k := 0; k < i; k++ {
				sum += L.data[i*n+k] * U.data[k*n+j]
			}
			U.data[i*n+j] = m.data[i*n+j] - sum
		}

		pivot := U.data[i*n+i]
		if math.Abs(pivot) <= tol || isNonFinite(pivot) {
			return nil, nil, matrixErrorf(opLU, ErrSingular)
		}

		for j := i + 1; j < n; j++ {
			sum := 0.0
			for k := 0; k < i; k++ {
				sum += L.data[j*n+k] * U.data[k*n+i]
			}
			L.data[j*n+i] = (m.data[j*n+i] - sum) / pivot
		}
	}

	return L, U, nil
}

// Inverse returns m⁻¹ using an exact zero-pivot test.
func Inverse(m *Dense) (*Dense, error) { return InverseTol(m, ZeroPivot) }

// InverseTol returns m⁻¹, treating any LU pivot with |pivot| <= tol as singular.
//
// Implementation:
//   - Stage 1: LU(m, tol).
//   - Stage 2: per column e_col: forward-solve L·y = e_col, back-solve U·x = y.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular.
//
// Complexity:
//   - Time O(n³), Space O(n²).
func InverseTol(m *Dense, tol float64) (*Dense, error) {
	L, U, err := LU(m, tol)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	n := m.r
	inv := &Dense{r: n, c: n, data: make([]float64, n*n)}
	y := make([]float64, n)
	x := make([]float64, n)
	for col := 0; col < n; col++ {
		for i := 0; i < n; i++ {
			sum := 0.0
			for k := 0; k < i; k++ {
				sum += L.data[i*n+k] * y[k]
			}
			if i == col {
				y[i] = 1 - sum
			} else {
				y[i] = -sum
			}
		}
		for i := n - 1; i >= 0; i-- {
			sum := 0.0
			for k := i + 1; k < n; k++ {
				sum += U.data[i*n+k] * x[k]
			}
			x[i] = (y[i] - sum) / U.data[i*n+i]
		}
		for i := 0; i < n; i++ {
			inv.data[i*n+col] = x[i]
		}
	}

	return inv, nil
}

// MulChain multiplies left to right: ms[0]·ms[1]·…·ms[k-1].
func MulChain(ms ...*Dense) (*Dense, error) {
	if len(ms) == 0 {
		return nil, matrixErrorf(opMul, ErrNilMatrix)
	}
	acc := ms[0]
	for i, m := range ms[1:] {
		next, err := Mul(acc, m)
		if err != nil {
			return nil, fmt.Errorf("factor %d: %w", i+1, err)
		}
		acc = next
	}

	return acc, nil
}
