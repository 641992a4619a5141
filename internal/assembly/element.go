// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package assembly builds the global matrices and forcing vectors that
// package solver integrates in time: the mass matrix M, the conduction
// matrix K, the radiation operator H = L - E, and the phase-indexed
// forcing vector family {F_phi}. It has no notion of time stepping; that
// belongs to package solver.
package assembly

import (
	"math"

	"github.com/JulianVentura/AgniB3V/internal/mesh"
	"github.com/JulianVentura/AgniB3V/internal/orbit"
	"github.com/cpmech/gosl/chk"
)

// Boltzmann is the Stefan-Boltzmann constant, in W/m^2/K^4.
const Boltzmann = 5.670373e-8

// Environment holds the orbit-wide environmental constants shared by
// every triangle's forcing vector.
type Environment struct {
	SolarConstant float64 // S, W/m^2
	EarthIR       float64 // I_E, W/m^2
	AlbedoCoeff   float64 // a, in [0,1]
}

// Element is one triangle with its local matrices and phase-indexed
// forcing vectors computed from a mesh.Triangle.
type Element struct {
	P    [3]mesh.Point
	Area float64
	Mat  mesh.MaterialProperties

	K [3][3]float64 // local conduction matrix
	M [3][3]float64 // local mass/capacitance matrix
	E [3][3]float64 // local self-emission matrix
	F [][3]float64  // one local forcing vector per expanded orbit phase

	viewFactors []float64 // this element's row of the element-to-element table
}

// NewElement computes the local matrices for a triangle. eclipse is the
// expanded (original-phase-index, in-eclipse) list from package orbit;
// F has one entry per entry of eclipse.
func NewElement(t mesh.Triangle, env Environment, eclipse []orbit.EclipseDivision) (*Element, error) {
	if err := checkTriangle(t); err != nil {
		return nil, err
	}

	area := calculateArea(t.P[0], t.P[1], t.P[2])
	if area <= 0 {
		return nil, chk.Err("assembly: degenerate triangle, area = %g", area)
	}

	e := &Element{
		P:           t.P,
		Area:        area,
		Mat:         t.Mat,
		viewFactors: t.VF.Elements,
	}
	e.K = calculateK(t.P[0], t.P[1], t.P[2], t.Mat.Conductivity, area, t.Mat.Thickness)
	e.M = calculateM(area, t.Mat.SpecificHeat, t.Mat.Density, t.Mat.Thickness)
	e.E = calculateE(area, t.Mat.AlphaIR, t.TwoSidedRadiate)
	e.F = make([][3]float64, len(eclipse))
	for i, ph := range eclipse {
		e.F[i] = calculateF(area, t.Mat, t.VF, env, t.QGen, ph.OriginalIndex, ph.InEclipse)
	}
	return e, nil
}

func checkTriangle(t mesh.Triangle) error {
	for _, p := range t.P {
		if len(p.X) != 3 {
			return chk.Err("assembly: point with wrong dimensionality")
		}
	}
	return nil
}

// calculateArea returns the area of the triangle p1-p2-p3 via the
// magnitude of half the cross product of two of its edges.
func calculateArea(p1, p2, p3 mesh.Point) float64 {
	ab := sub(p2.X, p1.X)
	ac := sub(p3.X, p1.X)
	a := ab[1]*ac[2] - ab[2]*ac[1]
	b := ab[2]*ac[0] - ab[0]*ac[2]
	c := ab[0]*ac[1] - ab[1]*ac[0]
	return math.Sqrt(a*a+b*b+c*c) / 2
}

func sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func sqrDistance(p1, p2 mesh.Point) float64 {
	d := sub(p1.X, p2.X)
	return d[0]*d[0] + d[1]*d[1] + d[2]*d[2]
}

// edgesDotProduct is the dot product of edge a0->a1 with edge b0->b1.
func edgesDotProduct(a0, a1, b0, b1 mesh.Point) float64 {
	e1 := sub(a1.X, a0.X)
	e2 := sub(b1.X, b0.X)
	return e1[0]*e2[0] + e1[1]*e2[1] + e1[2]*e2[2]
}

// calculateK is the local conduction matrix, scaled by
// thickness * conductivity / (4 * area).
func calculateK(p1, p2, p3 mesh.Point, conductivity, area, thickness float64) [3][3]float64 {
	k11 := sqrDistance(p2, p3)
	k22 := sqrDistance(p1, p3)
	k33 := sqrDistance(p1, p2)

	k12 := edgesDotProduct(p2, p3, p3, p1)
	k13 := edgesDotProduct(p2, p3, p1, p2)
	k23 := edgesDotProduct(p3, p1, p1, p2)

	k := [3][3]float64{
		{k11, k12, k13},
		{k12, k22, k23},
		{k13, k23, k33},
	}
	scale := thickness * conductivity / (4 * area)
	for i := range k {
		for j := range k[i] {
			k[i][j] *= scale
		}
	}
	return k
}

// calculateM is the local mass/capacitance matrix,
// (area*specificHeat*density*thickness/12) * [[2,1,1],[1,2,1],[1,1,2]].
func calculateM(area, specificHeat, density, thickness float64) [3][3]float64 {
	scale := area * specificHeat * density * thickness / 12
	return [3][3]float64{
		{2 * scale, scale, scale},
		{scale, 2 * scale, scale},
		{scale, scale, 2 * scale},
	}
}

// calculateE is the local self-emission matrix, sigma*alphaIR*area/3*I3,
// doubled when twoSided is set.
func calculateE(area, alphaIR float64, twoSided bool) [3][3]float64 {
	factor := 1.0
	if twoSided {
		factor = 2.0
	}
	v := factor * Boltzmann * alphaIR * area / 3
	return [3][3]float64{
		{v, 0, 0},
		{0, v, 0},
		{0, 0, v},
	}
}

// calculateF is the local forcing vector for one expanded orbit phase.
// All three entries are equal to (q_gen + q_solar + q_ir + q_albedo) *
// area / 3; q_solar is zeroed when the phase is in eclipse, and q_ir /
// q_albedo are looked up by the ORIGINAL (pre-expansion) phase index,
// since a single original phase may be split into an eclipsed and a
// non-eclipsed expanded entry sharing the same photometric data.
func calculateF(area float64, mat mesh.MaterialProperties, vf mesh.ViewFactors, env Environment, qGen float64, originalIndex int, inEclipse bool) [3]float64 {
	solar := 0.0
	if !inEclipse {
		solar = mat.AlphaSun * env.SolarConstant * vf.Sun
	}
	ir := mat.AlphaIR * env.EarthIR * vf.EarthIR[originalIndex]
	albedo := mat.AlphaSun * env.SolarConstant * env.AlbedoCoeff * vf.EarthAlbedo[originalIndex]

	magnitude := (qGen + solar + ir + albedo) * area / 3
	return [3]float64{magnitude, magnitude, magnitude}
}
