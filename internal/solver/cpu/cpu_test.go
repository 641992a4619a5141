// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"testing"

	"github.com/JulianVentura/AgniB3V/internal/assembly"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// Test_Step_conservation checks the no-source conservation property: a
// two-point system with zero forcing and zero radiation (H=0) must keep
// sum(M*T) constant across steps, since D and A are built from the same
// M and K split by theta.
func Test_Step_conservation(tst *testing.T) {
	n := 2
	m := mat.NewDense(n, n, []float64{2, 1, 1, 2})
	k := mat.NewDense(n, n, []float64{1, -1, -1, 1})
	h := mat.NewDense(n, n, nil)
	f := []*mat.VecDense{mat.NewVecDense(n, []float64{0, 0})}

	model := &assembly.Model{NPoints: n, M: m, K: k, H: h, F: f, T0: []float64{300, 350}}

	s, err := New(model, 1.0)
	if err != nil {
		tst.Fatal(err)
	}

	sumBefore := sumMT(m, model.T0)

	if err := s.RunFor(5); err != nil {
		tst.Fatal(err)
	}

	sumAfter := sumMT(m, s.Temperature())
	chk.Scalar(tst, "sum(M*T) conserved", 1e-6, sumAfter, sumBefore)
}

func sumMT(m *mat.Dense, t []float64) float64 {
	n := len(t)
	var mt mat.VecDense
	mt.MulVec(m, mat.NewVecDense(n, t))
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += mt.AtVec(i)
	}
	return sum
}

// Test_UpdateF_out_of_range checks the bounds check on the forcing
// vector family index.
func Test_UpdateF_out_of_range(tst *testing.T) {
	n := 1
	m := mat.NewDense(n, n, []float64{1})
	k := mat.NewDense(n, n, []float64{0})
	h := mat.NewDense(n, n, []float64{0})
	f := []*mat.VecDense{mat.NewVecDense(n, []float64{0})}
	model := &assembly.Model{NPoints: n, M: m, K: k, H: h, F: f, T0: []float64{300}}

	s, err := New(model, 1.0)
	if err != nil {
		tst.Fatal(err)
	}
	if err := s.UpdateF(1); err == nil {
		tst.Fatal("expected an out-of-range error")
	}
}
