// Copyright ©2025 The krylov Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"math"
	"time"
)

// breakdownTol is the threshold below which the rho and omega scalars
// are treated as zero and the iteration stops early.
const breakdownTol = 1e-30

// bicgstab runs the BiCGSTAB iteration using the given kernel set. The
// serial and parallel entry points differ only in the ops they pass in;
// the sequence of arithmetic operations per iteration is identical.
//
// The shadow residual r0 is the constant all-ones vector rather than
// the customary copy of the initial residual. When Dirichlet rows make
// the residual's non-zero support shift under grid refinement, the
// classical choice can make dot(r0, r) collapse and break the
// recurrence; a uniform r0 keeps a non-zero inner product with any
// residual that is not identically zero.
func bicgstab(a *Matrix, b, x []float64, settings Settings, k ops) Result {
	n := a.n
	if len(b) != n {
		panic("krylov: mismatched length of b")
	}
	if len(x) != n {
		panic("krylov: mismatched length of x")
	}
	if settings.Tolerance <= 0 || 1 <= settings.Tolerance {
		panic("krylov: invalid tolerance")
	}

	start := time.Now()

	// Scratch vectors live for exactly one solve.
	r := make([]float64, n)
	r0 := make([]float64, n)
	p := make([]float64, n)
	v := make([]float64, n)
	s := make([]float64, n)
	t := make([]float64, n)

	// x is zero on entry, so the initial residual is b itself.
	k.copyVec(r, b)
	k.fill(r0, 1)
	k.copyVec(p, r)

	rho, alpha, omega := 1.0, 1.0, 1.0

	bnorm := k.norm(b)
	if bnorm == 0 {
		bnorm = 1
	}

	res := Result{
		Iterations: settings.MaxIterations,
		Status:     StatusIterationLimit,
	}
	for iter := 0; iter < settings.MaxIterations; iter++ {
		rhoPrev := rho
		rho = k.dot(r0, r)
		if math.Abs(rho) < breakdownTol {
			res.Iterations = iter
			res.Status = StatusBreakdown
			break
		}

		if iter == 0 {
			k.copyVec(p, r)
		} else {
			beta := (rho / rhoPrev) * (alpha / omega)
			k.direction(beta, omega, r, v, p)
		}

		k.matVec(a, v, p)

		// No guard on the denominator: a zero dot(r0, v) propagates a
		// non-finite alpha into the norms below instead of raising an
		// explicit breakdown.
		alpha = rho / k.dot(r0, v)

		k.axpby(1, r, -alpha, v, s) // s = r - alpha*v

		snorm := k.norm(s)
		if snorm/bnorm < settings.Tolerance {
			k.axpy(alpha, p, x)
			res.Iterations = iter + 1
			res.Status = StatusConverged
			res.ResidualNorm = snorm / bnorm
			break
		}

		k.matVec(a, t, s)

		omega = k.dot(t, s) / k.dot(t, t)

		k.axpy(alpha, p, x)
		k.axpy(omega, s, x)

		k.axpby(1, s, -omega, t, r) // r = s - omega*t

		rnorm := k.norm(r)
		res.ResidualNorm = rnorm / bnorm
		if rnorm/bnorm < settings.Tolerance {
			res.Iterations = iter + 1
			res.Status = StatusConverged
			break
		}

		if math.Abs(omega) < breakdownTol {
			res.Iterations = iter
			res.Status = StatusBreakdown
			break
		}
	}

	res.Runtime = time.Since(start)
	return res
}
