// Copyright ©2025 The krylov Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"errors"
	"fmt"
)

// Construction errors returned by New.
var (
	ErrShape  = errors.New("krylov: inconsistent matrix dimensions")
	ErrRowPtr = errors.New("krylov: malformed row pointer")
	ErrColIdx = errors.New("krylov: column index out of range")
)

// Matrix is a square sparse matrix in compressed sparse row (CSR)
// format. The non-zero entries of row i occupy values[rowPtr[i]:rowPtr[i+1]]
// with their column indices at the same positions in colIdx. Column
// indices within a row need not be sorted.
//
// A Matrix is immutable once constructed. The caller hands ownership of
// the three slices to New and must not modify them afterwards.
type Matrix struct {
	n      int
	values []float64
	colIdx []int
	rowPtr []int
}

// New validates the given CSR arrays and wraps them in a Matrix. The
// dimension n must be positive, rowPtr must hold n+1 monotonically
// non-decreasing offsets with rowPtr[0] == 0 and rowPtr[n] == len(values),
// len(colIdx) must equal len(values), and every column index must lie in
// [0, n).
func New(n int, values []float64, colIdx, rowPtr []int) (*Matrix, error) {
	if n <= 0 {
		return nil, fmt.Errorf("krylov: dimension %d: %w", n, ErrShape)
	}
	if len(colIdx) != len(values) {
		return nil, fmt.Errorf("krylov: %d values but %d column indices: %w", len(values), len(colIdx), ErrShape)
	}
	if len(rowPtr) != n+1 {
		return nil, fmt.Errorf("krylov: %d row offsets for dimension %d: %w", len(rowPtr), n, ErrRowPtr)
	}
	if rowPtr[0] != 0 || rowPtr[n] != len(values) {
		return nil, fmt.Errorf("krylov: row pointer endpoints [%d, %d]: %w", rowPtr[0], rowPtr[n], ErrRowPtr)
	}
	for i := 0; i < n; i++ {
		if rowPtr[i] > rowPtr[i+1] {
			return nil, fmt.Errorf("krylov: row pointer decreases at row %d: %w", i, ErrRowPtr)
		}
	}
	for k, j := range colIdx {
		if j < 0 || n <= j {
			return nil, fmt.Errorf("krylov: entry %d has column %d: %w", k, j, ErrColIdx)
		}
	}
	return &Matrix{
		n:      n,
		values: values,
		colIdx: colIdx,
		rowPtr: rowPtr,
	}, nil
}

// Dim returns the dimension of the matrix.
func (m *Matrix) Dim() int { return m.n }

// NNZ returns the number of stored non-zero entries.
func (m *Matrix) NNZ() int { return len(m.values) }

// MulVec computes dst = M*x. The lengths of dst and x must equal the
// matrix dimension and the two slices must not overlap.
func (m *Matrix) MulVec(dst, x []float64) {
	if len(x) != m.n {
		panic("krylov: mismatched vector length")
	}
	if len(dst) != m.n {
		panic("krylov: mismatched destination length")
	}
	m.mulVecRange(dst, x, 0, m.n)
}

// mulVecRange computes dst[lo:hi] of the product M*x. Rows are
// independent, so disjoint ranges may be computed concurrently.
func (m *Matrix) mulVecRange(dst, x []float64, lo, hi int) {
	for i := lo; i < hi; i++ {
		var sum float64
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			sum += m.values[k] * x[m.colIdx[k]]
		}
		dst[i] = sum
	}
}
