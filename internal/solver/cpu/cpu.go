// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements the CPU-Implicit solver backend: a dense LU
// factorization of the constant system matrix A, computed once, reused
// for every subsequent Step via a triangular solve.
package cpu

import (
	"github.com/JulianVentura/AgniB3V/internal/assembly"
	"github.com/JulianVentura/AgniB3V/internal/solver"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// Implicit is the CPU-Implicit backend: A = M/dt + theta*K is factored
// once via dense LU; each Step forms b = D*T + H*T^4 + F_phi and solves
// A*T_next = b against the cached factorization.
type Implicit struct {
	d *mat.Dense // M/dt - (1-theta)*K, constant
	h *mat.Dense // L - E, constant
	f []*mat.VecDense

	lu mat.LU

	n int

	temp   *mat.VecDense
	temp4  *mat.VecDense
	b      *mat.VecDense
	fIndex int
}

// New builds the Implicit backend from an assembled Model and a fixed
// time step, factoring A once.
func New(model *assembly.Model, timeStep float64) (*Implicit, error) {
	if timeStep <= 0 {
		return nil, chk.Err("cpu: time step must be positive, got %g", timeStep)
	}
	n := model.NPoints

	a := mat.NewDense(n, n, nil)
	d := mat.NewDense(n, n, nil)
	a.Scale(1/timeStep, model.M)
	d.Scale(1/timeStep, model.M)

	scaledK := mat.NewDense(n, n, nil)
	scaledK.Scale(solver.Theta, model.K)
	a.Add(a, scaledK)

	scaledK.Scale(1-solver.Theta, model.K)
	d.Sub(d, scaledK)

	var lu mat.LU
	lu.Factorize(a)

	temp := mat.NewVecDense(n, append([]float64(nil), model.T0...))

	return &Implicit{
		d:     d,
		h:     model.H,
		f:     model.F,
		lu:    lu,
		n:     n,
		temp:  temp,
		temp4: mat.NewVecDense(n, nil),
		b:     mat.NewVecDense(n, nil),
	}, nil
}

// Step advances the temperature field by one time step.
func (s *Implicit) Step() error {
	for i := 0; i < s.n; i++ {
		t := s.temp.AtVec(i)
		t2 := t * t
		s.temp4.SetVec(i, t2*t2)
	}

	var radiation mat.VecDense
	radiation.MulVec(s.h, s.temp4)
	radiation.AddVec(&radiation, s.f[s.fIndex])

	s.b.MulVec(s.d, s.temp)
	s.b.AddVec(s.b, &radiation)

	if err := s.lu.SolveVecTo(s.temp, false, s.b); err != nil {
		return chk.Err("cpu: couldn't solve linear system: %v", err)
	}
	return nil
}

// RunFor calls Step n times.
func (s *Implicit) RunFor(n int) error {
	for i := 0; i < n; i++ {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// UpdateF switches the forcing vector index used by subsequent steps.
func (s *Implicit) UpdateF(index int) error {
	if index < 0 || index >= len(s.f) {
		return chk.Err("cpu: forcing vector index %d out of range [0,%d)", index, len(s.f))
	}
	s.fIndex = index
	return nil
}

// Temperature returns the current nodal temperature field.
func (s *Implicit) Temperature() []float64 {
	out := make([]float64, s.n)
	for i := range out {
		out[i] = s.temp.AtVec(i)
	}
	return out
}

// Close is a no-op: the CPU backend owns no external resources.
func (s *Implicit) Close() error {
	return nil
}

var _ solver.Solver = (*Implicit)(nil)
