// Copyright ©2025 The krylov Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/ramlanjekar/krylov/internal/triplet"
)

func TestNewValidation(t *testing.T) {
	for _, tc := range []struct {
		name   string
		n      int
		values []float64
		colIdx []int
		rowPtr []int
		err    error
	}{
		{
			name: "NonPositiveDimension",
			n:    0, values: nil, colIdx: nil, rowPtr: []int{0},
			err: ErrShape,
		},
		{
			name: "MismatchedValueAndColumnLengths",
			n:    2, values: []float64{1, 2}, colIdx: []int{0}, rowPtr: []int{0, 1, 2},
			err: ErrShape,
		},
		{
			name: "ShortRowPtr",
			n:    2, values: []float64{1, 2}, colIdx: []int{0, 1}, rowPtr: []int{0, 2},
			err: ErrRowPtr,
		},
		{
			name: "RowPtrNotStartingAtZero",
			n:    2, values: []float64{1, 2}, colIdx: []int{0, 1}, rowPtr: []int{1, 1, 2},
			err: ErrRowPtr,
		},
		{
			name: "RowPtrNotEndingAtNNZ",
			n:    2, values: []float64{1, 2}, colIdx: []int{0, 1}, rowPtr: []int{0, 1, 3},
			err: ErrRowPtr,
		},
		{
			name: "DecreasingRowPtr",
			n:    3, values: []float64{1, 2}, colIdx: []int{0, 1}, rowPtr: []int{0, 2, 1, 2},
			err: ErrRowPtr,
		},
		{
			name: "ColumnOutOfRange",
			n:    2, values: []float64{1, 2}, colIdx: []int{0, 2}, rowPtr: []int{0, 1, 2},
			err: ErrColIdx,
		},
		{
			name: "NegativeColumn",
			n:    2, values: []float64{1, 2}, colIdx: []int{0, -1}, rowPtr: []int{0, 1, 2},
			err: ErrColIdx,
		},
		{
			name: "Valid",
			n:    2, values: []float64{1, 2}, colIdx: []int{0, 1}, rowPtr: []int{0, 1, 2},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m, err := New(tc.n, tc.values, tc.colIdx, tc.rowPtr)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.n, m.Dim())
			require.Equal(t, len(tc.values), m.NNZ())
		})
	}
}

// identity returns the n×n identity matrix in CSR form.
func identity(n int) *Matrix {
	values := make([]float64, n)
	colIdx := make([]int, n)
	rowPtr := make([]int, n+1)
	for i := 0; i < n; i++ {
		values[i] = 1
		colIdx[i] = i
		rowPtr[i+1] = i + 1
	}
	m, err := New(n, values, colIdx, rowPtr)
	if err != nil {
		panic(err)
	}
	return m
}

// randomTriplet builds an n×n matrix with a handful of off-diagonal
// entries per row and a dominant diagonal.
func randomTriplet(n int, rnd *rand.Rand) *triplet.Matrix {
	tm := triplet.New(n, n)
	for i := 0; i < n; i++ {
		var offSum float64
		for k := 1; k <= 3; k++ {
			j := (i + 7*k) % n
			if j == i {
				continue
			}
			v := 2*rnd.Float64() - 1
			tm.Append(i, j, v)
			if v < 0 {
				offSum -= v
			} else {
				offSum += v
			}
		}
		tm.Append(i, i, offSum+4)
	}
	return tm
}

// fromTriplet compresses a triplet matrix into CSR form.
func fromTriplet(tm *triplet.Matrix) *Matrix {
	r, _ := tm.Dims()
	values, colIdx, rowPtr := tm.Compress()
	m, err := New(r, values, colIdx, rowPtr)
	if err != nil {
		panic(err)
	}
	return m
}

func TestMulVecIdentity(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, n := range []int{1, 2, 7, 100} {
		m := identity(n)
		x := make([]float64, n)
		for i := range x {
			x[i] = rnd.NormFloat64()
		}
		dst := make([]float64, n)
		m.MulVec(dst, x)
		if !floats.Equal(dst, x) {
			t.Errorf("n=%d: identity product differs from input", n)
		}
	}
}

func TestMulVecMatchesTriplet(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, n := range []int{1, 2, 5, 17, 100} {
		tm := randomTriplet(n, rnd)
		m := fromTriplet(tm)

		x := make([]float64, n)
		for i := range x {
			x[i] = rnd.NormFloat64()
		}
		want := make([]float64, n)
		tm.MulVec(want, x)
		got := make([]float64, n)
		m.MulVec(got, x)

		if !floats.EqualApprox(got, want, 1e-12) {
			t.Errorf("n=%d: CSR product differs from triplet reference", n)
		}
	}
}

func TestMulVecParallelMatchesSerial(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	n := 233
	m := fromTriplet(randomTriplet(n, rnd))
	x := make([]float64, n)
	for i := range x {
		x[i] = rnd.NormFloat64()
	}
	want := make([]float64, n)
	m.MulVec(want, x)

	for _, workers := range []int{1, 2, 4, 8} {
		got := make([]float64, n)
		parallelOps{workers: workers}.matVec(m, got, x)
		if !floats.EqualApprox(got, want, 1e-12) {
			t.Errorf("workers=%d: parallel product differs from serial", workers)
		}
	}
}

func TestMulVecPanicsOnMismatch(t *testing.T) {
	m := identity(4)
	mustPanic(t, "short x", func() { m.MulVec(make([]float64, 4), make([]float64, 3)) })
	mustPanic(t, "short dst", func() { m.MulVec(make([]float64, 3), make([]float64, 4)) })
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}
