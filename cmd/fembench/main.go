// Copyright ©2025 The krylov Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command fembench benchmarks the serial and parallel BiCGSTAB solvers
// on 2D Laplace systems of increasing grid size and reports speedup and
// parallel efficiency per worker count.
package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ramlanjekar/krylov"
	"github.com/ramlanjekar/krylov/fem"
)

type options struct {
	grids   []int
	workers []int
	maxIter int
	tol     float64
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "fembench",
		Short:         "Benchmark serial and parallel BiCGSTAB on 2D Laplace systems",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(out, opts)
		},
	}
	cmd.Flags().IntSliceVar(&opts.grids, "grids", []int{10, 14, 20}, "grid sizes to benchmark (each size g builds a g×g grid)")
	cmd.Flags().IntSliceVar(&opts.workers, "workers", []int{2, 4, 8}, "worker counts for the parallel solves")
	cmd.Flags().IntVar(&opts.maxIter, "max-iter", 10000, "iteration limit per solve")
	cmd.Flags().Float64Var(&opts.tol, "tol", 1e-8, "relative-residual tolerance")
	return cmd
}

func run(out io.Writer, opts options) error {
	fmt.Fprintln(out, "BiCGSTAB benchmark: 2D Laplace equation on the unit square")
	fmt.Fprintln(out, "Boundary conditions: top T=1, bottom/left/right T=0")

	for _, g := range opts.grids {
		if err := runGrid(out, g, opts); err != nil {
			return err
		}
	}
	return nil
}

func runGrid(out io.Writer, g int, opts options) error {
	sys, err := fem.NewSystem(g, g)
	if err != nil {
		return err
	}
	n := sys.Dim()
	nnz := sys.A.NNZ()
	fmt.Fprintf(out, "\nGrid %dx%d: %d nodes, %d non-zeros, sparsity %.2f%%\n",
		g, g, n, nnz, 100*float64(nnz)/(float64(n)*float64(n)))

	settings := krylov.Settings{
		MaxIterations: opts.maxIter,
		Tolerance:     opts.tol,
	}

	serial := krylov.Solve(sys.A, sys.B, sys.X, settings)
	report(out, "serial", serial, sys)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "workers\titerations\ttime\tspeedup\tefficiency\tresidual")
	for _, workers := range opts.workers {
		sys.Reset()
		par := krylov.SolveParallel(sys.A, sys.B, sys.X, settings, workers)
		if par.Status == krylov.StatusIterationLimit {
			fmt.Fprintf(w, "%d\t%d\tdid not converge within %d iterations\t\t\t\n",
				workers, par.IterationCount(), opts.maxIter)
			continue
		}
		speedup := serial.Runtime.Seconds() / par.Runtime.Seconds()
		fmt.Fprintf(w, "%d\t%d\t%v\t%.2f\t%.1f%%\t%.3e\n",
			workers, par.Iterations, par.Runtime, speedup,
			100*speedup/float64(workers), sys.ResidualNorm())
	}
	return w.Flush()
}

func report(out io.Writer, name string, res krylov.Result, sys *fem.System) {
	switch res.Status {
	case krylov.StatusIterationLimit:
		fmt.Fprintf(out, "%s: did not converge (iteration count %d)\n", name, res.IterationCount())
	case krylov.StatusBreakdown:
		fmt.Fprintf(out, "%s: breakdown after %d iterations, residual %.3e, time %v\n",
			name, res.Iterations, sys.ResidualNorm(), res.Runtime)
	default:
		fmt.Fprintf(out, "%s: converged in %d iterations, residual %.3e, time %v\n",
			name, res.Iterations, sys.ResidualNorm(), res.Runtime)
	}
}
