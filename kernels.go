// Copyright ©2025 The krylov Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// ops bundles the vector and matrix kernels used by one solve. The
// serial and parallel implementations perform the same arithmetic per
// element; the parallel reductions may combine partial sums in a
// different order, which is the only permitted numerical divergence.
type ops interface {
	// copyVec copies src into dst.
	copyVec(dst, src []float64)
	// fill sets every element of x to v.
	fill(x []float64, v float64)
	// dot returns the inner product of a and b.
	dot(a, b []float64) float64
	// norm returns the Euclidean norm of x.
	norm(x []float64) float64
	// axpy computes y += alpha*x.
	axpy(alpha float64, x, y []float64)
	// axpby computes z = alpha*x + beta*y. The output must not alias
	// either input.
	axpby(alpha float64, x []float64, beta float64, y, z []float64)
	// direction computes p = r + beta*(p - omega*v), the BiCGSTAB
	// search direction update.
	direction(beta, omega float64, r, v, p []float64)
	// matVec computes dst = m*x.
	matVec(m *Matrix, dst, x []float64)
}

// serialOps implements ops with single-goroutine kernels.
type serialOps struct{}

func (serialOps) copyVec(dst, src []float64) { copy(dst, src) }

func (serialOps) fill(x []float64, v float64) {
	for i := range x {
		x[i] = v
	}
}

func (serialOps) dot(a, b []float64) float64 { return floats.Dot(a, b) }

func (serialOps) norm(x []float64) float64 { return math.Sqrt(floats.Dot(x, x)) }

func (serialOps) axpy(alpha float64, x, y []float64) { floats.AddScaled(y, alpha, x) }

func (serialOps) axpby(alpha float64, x []float64, beta float64, y, z []float64) {
	floats.ScaleTo(z, beta, y)
	floats.AddScaled(z, alpha, x)
}

func (serialOps) direction(beta, omega float64, r, v, p []float64) {
	floats.AddScaled(p, -omega, v) // p -= omega*v
	floats.Scale(beta, p)          // p *= beta
	floats.Add(p, r)               // p += r
}

func (serialOps) matVec(m *Matrix, dst, x []float64) { m.MulVec(dst, x) }

// parallelOps implements ops by partitioning each kernel across a fixed
// number of worker goroutines. Every call forks the workers and joins
// them before returning; no concurrency outlives a single kernel call.
type parallelOps struct {
	workers int
}

// forEach splits [0, n) into at most o.workers contiguous ranges and
// runs fn on each range in its own goroutine, returning after all
// ranges complete.
func (o parallelOps) forEach(n int, fn func(w, lo, hi int)) {
	chunk := (n + o.workers - 1) / o.workers
	var wg sync.WaitGroup
	for w, lo := 0, 0; lo < n; w, lo = w+1, lo+chunk {
		hi := min(lo+chunk, n)
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			fn(w, lo, hi)
		}(w, lo, hi)
	}
	wg.Wait()
}

func (o parallelOps) copyVec(dst, src []float64) {
	o.forEach(len(dst), func(_, lo, hi int) {
		copy(dst[lo:hi], src[lo:hi])
	})
}

func (o parallelOps) fill(x []float64, v float64) {
	o.forEach(len(x), func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			x[i] = v
		}
	})
}

func (o parallelOps) dot(a, b []float64) float64 {
	partial := make([]float64, o.workers)
	o.forEach(len(a), func(w, lo, hi int) {
		partial[w] = floats.Dot(a[lo:hi], b[lo:hi])
	})
	return floats.Sum(partial)
}

func (o parallelOps) norm(x []float64) float64 { return math.Sqrt(o.dot(x, x)) }

func (o parallelOps) axpy(alpha float64, x, y []float64) {
	o.forEach(len(y), func(_, lo, hi int) {
		floats.AddScaled(y[lo:hi], alpha, x[lo:hi])
	})
}

func (o parallelOps) axpby(alpha float64, x []float64, beta float64, y, z []float64) {
	o.forEach(len(z), func(_, lo, hi int) {
		floats.ScaleTo(z[lo:hi], beta, y[lo:hi])
		floats.AddScaled(z[lo:hi], alpha, x[lo:hi])
	})
}

func (o parallelOps) direction(beta, omega float64, r, v, p []float64) {
	o.forEach(len(p), func(_, lo, hi int) {
		floats.AddScaled(p[lo:hi], -omega, v[lo:hi])
		floats.Scale(beta, p[lo:hi])
		floats.Add(p[lo:hi], r[lo:hi])
	})
}

func (o parallelOps) matVec(m *Matrix, dst, x []float64) {
	if len(x) != m.n {
		panic("krylov: mismatched vector length")
	}
	if len(dst) != m.n {
		panic("krylov: mismatched destination length")
	}
	o.forEach(m.n, func(_, lo, hi int) {
		m.mulVecRange(dst, x, lo, hi)
	})
}
