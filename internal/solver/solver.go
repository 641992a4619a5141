// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solver defines the narrow interface shared by the CPU-Implicit
// and GPU time-integration backends, and the Crank-Nicolson constants
// both backends are built from.
package solver

// Theta is the Crank-Nicolson weight used by both backends: 1/2 makes
// the scheme unconditionally stable and second-order accurate in time.
const Theta = 0.5

// Solver advances the nodal temperature field through time under a
// fixed, pre-assembled system (mass, conduction, radiation operator,
// and a phase-indexed forcing vector family). Implementations factor
// or invert their constant system matrix once at construction and
// spend every subsequent Step on cheap matrix-vector work.
type Solver interface {
	// Step advances the temperature field by one time step, using
	// whichever forcing vector the last UpdateF call selected.
	Step() error

	// RunFor calls Step n times.
	RunFor(n int) error

	// UpdateF switches the forcing vector used by subsequent steps to
	// {F_phi}[index].
	UpdateF(index int) error

	// Temperature returns the current nodal temperature field, indexed
	// by global point id. The returned slice is owned by the solver and
	// must not be retained past the next Step/RunFor call.
	Temperature() []float64

	// Close releases any backend-specific resources (e.g. a GPU
	// context). Implementations that hold none may no-op.
	Close() error
}
