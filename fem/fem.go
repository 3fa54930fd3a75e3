// Copyright ©2025 The krylov Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fem assembles the linear system of the 2D Laplace equation on
// the unit square, discretized on a structured nx×ny grid with bilinear
// rectangular elements. The operator reduces to the 5-point stencil;
// Dirichlet boundary rows become identity rows, with the top boundary
// held at 1 and the remaining boundaries at 0.
package fem

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/ramlanjekar/krylov"
	"github.com/ramlanjekar/krylov/internal/triplet"
)

// ErrGridTooSmall is returned when a grid dimension leaves no interior
// nodes to discretize.
var ErrGridTooSmall = errors.New("fem: grid dimensions must be at least 3")

// System is an assembled linear system A*X = B. X starts zeroed and is
// overwritten by a solve.
type System struct {
	A *krylov.Matrix
	B []float64
	X []float64
}

// NewSystem assembles the system for an nx×ny grid. Nodes are numbered
// row by row, node (i,j) at index i*nx+j. Boundary nodes contribute an
// identity row and a fixed right-hand side; interior nodes contribute
// the 5-point stencil of the bilinear element stiffness matrix.
func NewSystem(nx, ny int) (*System, error) {
	if nx < 3 || ny < 3 {
		return nil, fmt.Errorf("fem: %dx%d grid: %w", nx, ny, ErrGridTooSmall)
	}
	n := nx * ny
	tm := triplet.New(n, n)
	b := make([]float64, n)

	hx := 1 / float64(nx-1)
	hy := 1 / float64(ny-1)

	// Element stiffness coefficients: diagonal, south/north neighbor,
	// west/east neighbor.
	ke := (hy/hx + hx/hy) / 3
	kn := -(hy / hx) / 6
	kw := -(hx / hy) / 6

	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			node := i*nx + j
			switch {
			case j == 0, i == ny-1:
				// Dirichlet row, boundary value 0.
				tm.Append(node, node, 1)
			case j == nx-1:
				// Top boundary, held at 1. Checked before i == 0 so the
				// corner it shares with the left boundary stays at 1.
				tm.Append(node, node, 1)
				b[node] = 1
			case i == 0:
				tm.Append(node, node, 1)
			default:
				tm.Append(node, node-1, kw)
				tm.Append(node, node-nx, kn)
				tm.Append(node, node, ke)
				tm.Append(node, node+nx, kn)
				tm.Append(node, node+1, kw)
			}
		}
	}

	values, colIdx, rowPtr := tm.Compress()
	a, err := krylov.New(n, values, colIdx, rowPtr)
	if err != nil {
		return nil, err
	}
	return &System{
		A: a,
		B: b,
		X: make([]float64, n),
	}, nil
}

// Dim returns the number of unknowns.
func (s *System) Dim() int { return s.A.Dim() }

// Reset zeroes the solution vector so the system can be solved again
// from the same initial guess.
func (s *System) Reset() {
	for i := range s.X {
		s.X[i] = 0
	}
}

// ResidualNorm computes |B - A*X|, the independent convergence check a
// caller should apply after a solve.
func (s *System) ResidualNorm() float64 {
	ax := make([]float64, s.Dim())
	s.A.MulVec(ax, s.X)
	return floats.Distance(s.B, ax, 2)
}
