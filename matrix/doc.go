// SPDX-License-Identifier: MIT

// Package matrix offers the small dense linear algebra the Kalman/RTS pass
// runs on: a row-major Dense type with checked accessors and the kernels
// Add, Sub, Mul, Transpose, Scale, LU and Inverse.
//
// Every kernel validates its operands, returns a fresh matrix and reports
// problems through sentinel errors (ErrDimensionMismatch, ErrSingular, ...)
// instead of panicking. LU runs without pivoting so results are reproducible
// bit for bit; a vanishing pivot surfaces as ErrSingular and the caller
// decides the fallback.
//
//	F, _ := matrix.NewFromRows([][]float64{{1, dt}, {0, 1}})
//	Ft, _ := matrix.Transpose(F)
//	FP, _ := matrix.Mul(F, P)
//	Pp, _ := matrix.Mul(FP, Ft)
package matrix
