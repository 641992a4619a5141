// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

// MaterialProperties holds the per-triangle thermal and optical parameters.
type MaterialProperties struct {
	Conductivity float64 // W/m/K
	Density      float64 // kg/m^3
	SpecificHeat float64 // J/kg/K
	Thickness    float64 // m
	AlphaSun     float64 // solar absorptivity, in [0,1]
	AlphaIR      float64 // infrared absorptivity/emissivity, in [0,1]
}

// ViewFactors holds the phase-indexed and element-to-element view factors
// belonging to one triangle.
type ViewFactors struct {
	EarthIR     []float64 // one scalar per orbit division
	EarthAlbedo []float64 // one scalar per orbit division
	Sun         float64   // phase-independent in this model
	Elements    []float64 // dense row, length N_triangles
}

// Triangle is one mesh facet with its three owned points, material and
// optical properties, per-phase view factors, radiation sidedness, and a
// uniform internal heat generation term.
type Triangle struct {
	P               [3]Point
	Mat             MaterialProperties
	VF              ViewFactors
	TwoSidedRadiate bool    // multiplies local emission e by 2 when true
	QGen            float64 // uniform internal heat generation, W/m^2
}
