// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assembly

import (
	"github.com/JulianVentura/AgniB3V/internal/mesh"
	"github.com/JulianVentura/AgniB3V/internal/orbit"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// Model is the fully assembled global system: the constant mass and
// conduction matrices, the radiation operator H = L - E, the
// phase-indexed forcing vector family, and the ordered initial
// temperature field (indexed by global point id).
type Model struct {
	NPoints int
	M       *mat.Dense   // n x n mass matrix
	K       *mat.Dense   // n x n conduction matrix
	H       *mat.Dense   // n x n radiation operator, L - E
	F       []*mat.VecDense // one n-vector per expanded orbit phase
	T0      []float64    // initial nodal temperatures, length n
}

// Build assembles a Model from a list of triangles, the environment
// constants they share, and the expanded orbit-phase list produced by
// orbit.Manager.EclipseDivisions.
func Build(triangles []mesh.Triangle, env Environment, eclipse []orbit.EclipseDivision) (*Model, error) {
	if len(triangles) == 0 {
		return nil, chk.Err("assembly: no triangles given")
	}

	elements := make([]*Element, len(triangles))
	nPoints := 0
	for i, t := range triangles {
		e, err := NewElement(t, env, eclipse)
		if err != nil {
			return nil, chk.Err("assembly: triangle %d: %v", i, err)
		}
		elements[i] = e
		for _, p := range t.P {
			if p.GlobalID+1 > nPoints {
				nPoints = p.GlobalID + 1
			}
		}
	}

	t0, err := gatherInitialTemperatures(triangles, nPoints)
	if err != nil {
		return nil, err
	}

	m := mat.NewDense(nPoints, nPoints, nil)
	k := mat.NewDense(nPoints, nPoints, nil)
	e := mat.NewDense(nPoints, nPoints, nil)
	scatterAdd3x3(m, triangles, func(i int) [3][3]float64 { return elements[i].M })
	scatterAdd3x3(k, triangles, func(i int) [3][3]float64 { return elements[i].K })
	scatterAdd3x3(e, triangles, func(i int) [3][3]float64 { return elements[i].E })

	l := buildLMatrix(triangles, elements, nPoints)

	h := mat.NewDense(nPoints, nPoints, nil)
	h.Sub(l, e)

	fFamily := make([]*mat.VecDense, len(eclipse))
	for phase := range eclipse {
		fFamily[phase] = mat.NewVecDense(nPoints, nil)
		scatterAddVec3(fFamily[phase], triangles, func(i int) [3]float64 { return elements[i].F[phase] })
	}

	return &Model{
		NPoints: nPoints,
		M:       m,
		K:       k,
		H:       h,
		F:       fFamily,
		T0:      t0,
	}, nil
}

// gatherInitialTemperatures reads T0 off of each triangle's owned
// points into a dense array indexed by global point id.
func gatherInitialTemperatures(triangles []mesh.Triangle, nPoints int) ([]float64, error) {
	t0 := make([]float64, nPoints)
	seen := make([]bool, nPoints)
	for _, tr := range triangles {
		for _, p := range tr.P {
			if p.GlobalID < 0 || p.GlobalID >= nPoints {
				return nil, chk.Err("assembly: point global id %d out of range [0,%d)", p.GlobalID, nPoints)
			}
			t0[p.GlobalID] = p.T0
			seen[p.GlobalID] = true
		}
	}
	for i, ok := range seen {
		if !ok {
			return nil, chk.Err("assembly: point %d is never referenced by a triangle", i)
		}
	}
	return t0, nil
}

// scatterAdd3x3 scatter-adds each triangle's 3x3 local matrix into the
// global matrix at the rows/columns given by its points' global ids.
func scatterAdd3x3(dst *mat.Dense, triangles []mesh.Triangle, local func(i int) [3][3]float64) {
	for i, tr := range triangles {
		lm := local(i)
		ids := [3]int{tr.P[0].GlobalID, tr.P[1].GlobalID, tr.P[2].GlobalID}
		for y := 0; y < 3; y++ {
			for x := 0; x < 3; x++ {
				gy, gx := ids[y], ids[x]
				dst.Set(gy, gx, dst.At(gy, gx)+lm[y][x])
			}
		}
	}
}

// scatterAddVec3 scatter-adds each triangle's local 3-vector into the
// global vector at the rows given by its points' global ids.
func scatterAddVec3(dst *mat.VecDense, triangles []mesh.Triangle, local func(i int) [3]float64) {
	for i, tr := range triangles {
		lv := local(i)
		ids := [3]int{tr.P[0].GlobalID, tr.P[1].GlobalID, tr.P[2].GlobalID}
		for y := 0; y < 3; y++ {
			dst.SetVec(ids[y], dst.AtVec(ids[y])+lv[y])
		}
	}
}

// buildLMatrix forms the inter-element radiation exchange matrix.
// P[i,j] = viewFactors[i][j] * alphaIR(i) * alphaIR(j) * area(i); for
// every pair of global nodes (a,b), L[a,b] = (sigma/9) * sum over
// triangles k touching a, w touching b, of P[w,k].
func buildLMatrix(triangles []mesh.Triangle, elements []*Element, nPoints int) *mat.Dense {
	n := len(triangles)

	pointElements := make([][]int, nPoints)
	for i, tr := range triangles {
		for _, p := range tr.P {
			pointElements[p.GlobalID] = append(pointElements[p.GlobalID], i)
		}
	}

	p := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		alphaI := elements[i].Mat.AlphaIR
		areaI := elements[i].Area
		for j := 0; j < n; j++ {
			alphaJ := elements[j].Mat.AlphaIR
			p.Set(i, j, elements[i].viewFactors[j]*alphaI*alphaJ*areaI)
		}
	}

	l := mat.NewDense(nPoints, nPoints, nil)
	for a := 0; a < nPoints; a++ {
		for b := 0; b < nPoints; b++ {
			v := 0.0
			for _, k := range pointElements[a] {
				for _, w := range pointElements[b] {
					v += p.At(w, k)
				}
			}
			l.Set(a, b, v*Boltzmann/9)
		}
	}
	return l
}
