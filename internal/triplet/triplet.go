// Copyright ©2025 The krylov Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package triplet provides a coordinate-format sparse matrix builder.
// Entries are appended in any order and compressed into CSR arrays;
// the straightforward MulVec doubles as a reference product in tests.
package triplet

type entry struct {
	row, col int
	v        float64
}

type Matrix struct {
	r, c int
	data []entry
}

func New(r, c int) *Matrix {
	return &Matrix{
		r: r,
		c: c,
	}
}

func (m *Matrix) Dims() (r, c int) {
	return m.r, m.c
}

func (m *Matrix) NNZ() int {
	return len(m.data)
}

func (m *Matrix) Append(i, j int, v float64) {
	if i < 0 || m.r <= i {
		panic("row index out of range")
	}
	if j < 0 || m.c <= j {
		panic("column index out of range")
	}
	m.data = append(m.data, entry{i, j, v})
}

func (m *Matrix) MulVec(dst, x []float64) {
	if m.c != len(x) {
		panic("dimension mismatch")
	}
	if m.r != len(dst) {
		panic("dimension mismatch")
	}
	for i := range dst {
		dst[i] = 0
	}
	for _, aij := range m.data {
		dst[aij.row] += aij.v * x[aij.col]
	}
}

// Compress returns the CSR arrays for the accumulated entries. Entries
// are grouped by row; within a row they keep their append order.
// Duplicate coordinates are kept as separate entries.
func (m *Matrix) Compress() (values []float64, colIdx, rowPtr []int) {
	rowPtr = make([]int, m.r+1)
	for _, aij := range m.data {
		rowPtr[aij.row+1]++
	}
	for i := 0; i < m.r; i++ {
		rowPtr[i+1] += rowPtr[i]
	}

	values = make([]float64, len(m.data))
	colIdx = make([]int, len(m.data))
	next := make([]int, m.r)
	copy(next, rowPtr[:m.r])
	for _, aij := range m.data {
		k := next[aij.row]
		values[k] = aij.v
		colIdx[k] = aij.col
		next[aij.row]++
	}
	return values, colIdx, rowPtr
}
