// Copyright ©2025 The krylov Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package krylov solves large sparse non-symmetric linear systems
//
//	A x = b
//
// with the BiConjugate Gradient Stabilized (BiCGSTAB) iterative method.
// The matrix is held in compressed sparse row format, and every vector
// and matrix-vector kernel exists in a serial and a fork-join parallel
// form with identical arithmetic, so a solve may be run on one
// goroutine or partitioned across a fixed number of workers.
package krylov

import "time"

// Settings holds the parameters of a solve.
type Settings struct {
	// MaxIterations is the limit on the number of iterations. It is
	// not defaulted: a zero value makes Solve return immediately with
	// StatusIterationLimit and an untouched solution vector.
	MaxIterations int

	// Tolerance is the relative-residual stopping threshold. The
	// iteration stops as soon as |r| / |b| drops below it. It must lie
	// in (0, 1).
	Tolerance float64
}

// DefaultSettings returns the settings used by the reference benchmark:
// at most 10000 iterations to a relative residual of 1e-8.
func DefaultSettings() Settings {
	return Settings{
		MaxIterations: 10000,
		Tolerance:     1e-8,
	}
}

// Status classifies how a solve terminated.
type Status int

const (
	// StatusConverged means a relative-residual check passed.
	StatusConverged Status = iota
	// StatusBreakdown means the rho or omega scalar became numerically
	// indistinguishable from zero and the iteration stopped early. The
	// solution holds whatever the completed iterations produced;
	// callers must check the residual themselves to judge its quality.
	StatusBreakdown
	// StatusIterationLimit means MaxIterations was exhausted without
	// either convergence check passing.
	StatusIterationLimit
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusBreakdown:
		return "breakdown"
	case StatusIterationLimit:
		return "iteration limit"
	default:
		return "unknown"
	}
}

// Result reports the outcome of a solve.
type Result struct {
	// Iterations is the iteration count at termination: the number of
	// the iteration whose convergence check passed, or the number of
	// complete iterations before a breakdown, or MaxIterations when
	// the limit was reached.
	Iterations int

	// Status classifies the termination.
	Status Status

	// ResidualNorm is the relative residual |r| / |b| at the last
	// convergence check, or zero if no check ran.
	ResidualNorm float64

	// Runtime is the wall-clock duration of the solve.
	Runtime time.Duration
}

// IterationCount flattens the result into the single integer of the
// classic contract: the iteration count on convergence or breakdown,
// and -1 when the iteration limit was reached.
func (r Result) IterationCount() int {
	if r.Status == StatusIterationLimit {
		return -1
	}
	return r.Iterations
}

// Solve runs the serial BiCGSTAB iteration on the system a*x = b. The
// solution is accumulated into x, which the caller must zero before an
// independent solve. The lengths of b and x must equal the matrix
// dimension.
func Solve(a *Matrix, b, x []float64, settings Settings) Result {
	return bicgstab(a, b, x, settings, serialOps{})
}

// SolveParallel runs the same iteration with every vector and
// matrix-vector kernel partitioned across the given number of worker
// goroutines. The worker count must be positive and is fixed for the
// duration of the solve. Results may differ from Solve in the last few
// digits because parallel reductions combine partial sums in a
// different order.
func SolveParallel(a *Matrix, b, x []float64, settings Settings, workers int) Result {
	if workers <= 0 {
		panic("krylov: worker count not positive")
	}
	return bicgstab(a, b, x, settings, parallelOps{workers: workers})
}
