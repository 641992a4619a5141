// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package caseio

import (
	"encoding/json"
	"os"

	"github.com/cpmech/gosl/chk"
)

// GlobalProperties holds the orbit and environment constants and the
// timing knobs that are independent of material/boundary assignment.
type GlobalProperties struct {
	OrbitPeriod       float64 `json:"orbit_period"`
	EclipseStart      float64 `json:"eclipse_start"`
	EclipseEnd        float64 `json:"eclipse_end"`
	Albedo            float64 `json:"albedo"`
	EarthIR           float64 `json:"earth_ir"`
	SolarConstant     float64 `json:"solar_constant"`
	InitialTemperature float64 `json:"initial_temperature"`
	TimeStep          float64 `json:"time_step"`
	SnapshotPeriod    float64 `json:"snapshot_period"`
	SimulationTime    float64 `json:"simulation_time"`

	// BetaAngle and SpaceTemperature are parsed for forward
	// compatibility with case files produced by upstream tooling; this
	// implementation is geometric-eclipse-only (see Design Notes on
	// rejecting analytic beta-angle eclipse derivation) and does not
	// consume them.
	BetaAngle       float64 `json:"beta_angle"`
	SpaceTemperature float64 `json:"space_temperature"`
}

// Material is one named entry of the materials map: per-triangle
// thermal/optical properties, applied to the listed element ids.
type Material struct {
	Conductivity float64 `json:"conductivity"`
	Density      float64 `json:"density"`
	SpecificHeat float64 `json:"specific_heat"`
	Thickness    float64 `json:"thickness"`
	AlphaSun     float64 `json:"alpha_sun"`
	AlphaIR      float64 `json:"alpha_ir"`
	Elements     []int   `json:"elements"`
}

// BoundaryCondition is one named entry of the boundary-condition map:
// per-triangle overrides that only take effect when their "on" flag is
// set, applied to the listed element ids.
type BoundaryCondition struct {
	InitialTemperature     float64 `json:"initial_temperature"`
	InitialTemperatureOn   bool    `json:"initial_temperature_on"`
	Flux                   float64 `json:"flux"`
	FluxOn                 bool    `json:"flux_on"`
	TwoSidedRadiation      bool    `json:"two_sided_radiation"`
	TwoSidedRadiationOn    bool    `json:"two_sided_radiation_on"`
	Elements               []int   `json:"elements"`
}

// Properties is the full contents of properties.json.
type Properties struct {
	Global              GlobalProperties              `json:"global"`
	Materials           map[string]Material           `json:"materials"`
	BoundaryConditions  map[string]BoundaryCondition   `json:"boundary_conditions"`
}

// ReadProperties parses properties.json.
func ReadProperties(path string) (*Properties, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, chk.Err("caseio: couldn't read properties file %q: %v", path, err)
	}
	var p Properties
	if err := json.Unmarshal(buf, &p); err != nil {
		return nil, chk.Err("caseio: couldn't parse properties file %q: %v", path, err)
	}
	if len(p.Materials) == 0 {
		return nil, chk.Err("caseio: properties file %q defines no materials", path)
	}
	return &p, nil
}
