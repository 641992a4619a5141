// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package caseio

import (
	"path/filepath"

	"github.com/cpmech/gosl/chk"

	"github.com/JulianVentura/AgniB3V/internal/assembly"
	"github.com/JulianVentura/AgniB3V/internal/engine"
	"github.com/JulianVentura/AgniB3V/internal/mesh"
	"github.com/JulianVentura/AgniB3V/internal/orbit"
)

// Case is everything read from a case directory, combined into the
// shapes package assembly, orbit and engine expect.
type Case struct {
	Triangles        []mesh.Triangle
	Environment       assembly.Environment
	OrbitParameters   orbit.Parameters
	EngineParameters  engine.Parameters
	ResultsDir        string
}

// Load reads mesh.vtk, properties.json and view_factors.vf from dir and
// combines them into a Case.
func Load(dir string) (*Case, error) {
	rawMesh, err := ReadMesh(filepath.Join(dir, "mesh.vtk"))
	if err != nil {
		return nil, err
	}
	props, err := ReadProperties(filepath.Join(dir, "properties.json"))
	if err != nil {
		return nil, err
	}
	vf, err := ReadViewFactors(filepath.Join(dir, "view_factors.vf"))
	if err != nil {
		return nil, err
	}

	nTriangles := len(rawMesh.Connectivity)
	if len(vf.Matrix) != nTriangles {
		return nil, chk.Err("caseio: view factor matrix has %d rows, mesh has %d triangles", len(vf.Matrix), nTriangles)
	}
	for i, row := range vf.Matrix {
		if len(row) != nTriangles {
			return nil, chk.Err("caseio: view factor matrix row %d has %d columns, want %d", i, len(row), nTriangles)
		}
	}

	points := BuildPoints(rawMesh, props.Global.InitialTemperature)

	matByElement, err := expandByElement(props.Materials, nTriangles, "material")
	if err != nil {
		return nil, err
	}
	bcByElement := expandBoundaryConditions(props.BoundaryConditions, nTriangles)

	earthIR := transposePhaseTables(vf.EarthIR, nTriangles)
	earthAlbedo := transposePhaseTables(vf.EarthAlbedo, nTriangles)
	sun := transposeSun(vf.Sun, nTriangles)

	triangles := make([]mesh.Triangle, nTriangles)
	for i, conn := range rawMesh.Connectivity {
		matName, ok := matByElement[i]
		if !ok {
			return nil, chk.Err("caseio: triangle %d has no material assignment", i)
		}
		mat := props.Materials[matName]

		p := [3]mesh.Point{
			points[conn[0]].WithLocalID(1),
			points[conn[1]].WithLocalID(2),
			points[conn[2]].WithLocalID(3),
		}

		twoSided := false
		qGen := 0.0
		if bc, ok := bcByElement[i]; ok {
			if bc.InitialTemperatureOn {
				for j := range p {
					p[j].T0 = bc.InitialTemperature
				}
			}
			if bc.FluxOn {
				qGen = bc.Flux
			}
			if bc.TwoSidedRadiationOn {
				twoSided = bc.TwoSidedRadiation
			}
		}

		triangles[i] = mesh.Triangle{
			P: p,
			Mat: mesh.MaterialProperties{
				Conductivity: mat.Conductivity,
				Density:      mat.Density,
				SpecificHeat: mat.SpecificHeat,
				Thickness:    mat.Thickness,
				AlphaSun:     mat.AlphaSun,
				AlphaIR:      mat.AlphaIR,
			},
			VF: mesh.ViewFactors{
				EarthIR:     earthIR[i],
				EarthAlbedo: earthAlbedo[i],
				Sun:         sun[i],
				Elements:    vf.Matrix[i],
			},
			TwoSidedRadiate: twoSided,
			QGen:            qGen,
		}
	}

	return &Case{
		Triangles: triangles,
		Environment: assembly.Environment{
			SolarConstant: props.Global.SolarConstant,
			EarthIR:       props.Global.EarthIR,
			AlbedoCoeff:   props.Global.Albedo,
		},
		OrbitParameters: orbit.Parameters{
			OrbitPeriod:    props.Global.OrbitPeriod,
			OrbitDivisions: phaseStartTimes(vf.EarthIR),
			EclipseStart:   props.Global.EclipseStart,
			EclipseEnd:     props.Global.EclipseEnd,
		},
		EngineParameters: engine.Parameters{
			SimulationTime: props.Global.SimulationTime,
			TimeStep:       props.Global.TimeStep,
			SnapshotPeriod: props.Global.SnapshotPeriod,
		},
		ResultsDir: filepath.Join(dir, "results"),
	}, nil
}

// expandByElement inverts a name->{elements} map into an
// elementID->name lookup, failing if any element id is out of range or
// claimed by more than one entry.
func expandByElement(materials map[string]Material, nTriangles int, kind string) (map[int]string, error) {
	out := make(map[int]string, nTriangles)
	for name, m := range materials {
		for _, id := range m.Elements {
			if id < 0 || id >= nTriangles {
				return nil, chk.Err("caseio: %s %q references out-of-range element id %d", kind, name, id)
			}
			if prior, ok := out[id]; ok {
				return nil, chk.Err("caseio: element %d claimed by both %s %q and %q", id, kind, prior, name)
			}
			out[id] = name
		}
	}
	return out, nil
}

// expandBoundaryConditions inverts the boundary-condition map into an
// elementID->entry lookup without erroring: out-of-range element ids
// are skipped, and when several entries list the same element id one of
// them is kept silently; which one is not defined, since Go map
// iteration order is unspecified.
func expandBoundaryConditions(bcs map[string]BoundaryCondition, nTriangles int) map[int]BoundaryCondition {
	out := make(map[int]BoundaryCondition, nTriangles)
	for _, bc := range bcs {
		for _, id := range bc.Elements {
			if id < 0 || id >= nTriangles {
				continue
			}
			out[id] = bc
		}
	}
	return out
}

// transposePhaseTables turns the file's phase-major layout (one
// PhaseTable per orbit division, holding one value per triangle) into
// the triangle-major layout mesh.ViewFactors needs (one slice per
// triangle, indexed by orbit division).
func transposePhaseTables(tables []PhaseTable, nTriangles int) [][]float64 {
	out := make([][]float64, nTriangles)
	for t := 0; t < nTriangles; t++ {
		out[t] = make([]float64, len(tables))
		for phase, table := range tables {
			if t < len(table.Data) {
				out[t][phase] = table.Data[t]
			}
		}
	}
	return out
}

// transposeSun collapses the sun phase tables to one phase-independent
// scalar per triangle, per the data model's note that the sun view
// factor has no phase dimension: the first table's value is used.
func transposeSun(tables []PhaseTable, nTriangles int) []float64 {
	out := make([]float64, nTriangles)
	if len(tables) == 0 {
		return out
	}
	for t := 0; t < nTriangles && t < len(tables[0].Data); t++ {
		out[t] = tables[0].Data[t]
	}
	return out
}

// phaseStartTimes extracts the orbit division boundary times carried
// by the earth_ir phase tables (all three tables share the same
// division grid by construction).
func phaseStartTimes(tables []PhaseTable) []float64 {
	out := make([]float64, len(tables))
	for i, t := range tables {
		out[i] = t.StartTime
	}
	return out
}
