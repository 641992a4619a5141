// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"

	"github.com/JulianVentura/AgniB3V/internal/assembly"
	"github.com/JulianVentura/AgniB3V/internal/caseio"
	"github.com/JulianVentura/AgniB3V/internal/engine"
	"github.com/JulianVentura/AgniB3V/internal/mesh"
	"github.com/JulianVentura/AgniB3V/internal/orbit"
	"github.com/JulianVentura/AgniB3V/internal/solver"
	"github.com/JulianVentura/AgniB3V/internal/solver/cpu"
	"github.com/JulianVentura/AgniB3V/internal/solver/gpu"
	"github.com/JulianVentura/AgniB3V/internal/writer"
)

func main() {

	defer func() {
		failed := false
		if err := recover(); err != nil {
			failed = true
			if mpi.Rank() == 0 {
				chk.Verbose = true
				for i := 8; i > 3; i-- {
					chk.CallerInfo(i)
				}
				io.PfRed("ERROR: %v\n", err)
			}
		}
		mpi.Stop(false)
		if failed {
			os.Exit(1)
		}
	}()
	mpi.Start(false)

	if mpi.Rank() == 0 {
		io.PfWhite("\nAgniB3V -- transient thermal FEM solver for LEO shells\n\n")
	}

	flag.Parse()
	if len(flag.Args()) != 2 {
		chk.Panic("usage: agnib3v <case-directory> <method>, method in {Implicit, GPU}")
	}
	caseDir := flag.Arg(0)
	method := flag.Arg(1)

	if err := run(caseDir, method); err != nil {
		chk.Panic("%v", err)
	}
}

func run(caseDir, method string) error {
	io.Pf("loading case from %s\n", caseDir)
	c, err := caseio.Load(caseDir)
	if err != nil {
		return err
	}

	io.Pf("building orbit manager\n")
	orbitMgr, err := orbit.New(c.OrbitParameters)
	if err != nil {
		return err
	}

	io.Pf("assembling global system (%d triangles)\n", len(c.Triangles))
	model, err := assembly.Build(c.Triangles, c.Environment, orbitMgr.EclipseDivisions())
	if err != nil {
		return err
	}

	io.Pf("building %s solver\n", method)
	backend, points, err := buildSolver(method, model, c)
	if err != nil {
		return err
	}
	defer backend.Close()

	io.Pf("starting results writer at %s\n", c.ResultsDir)
	w, err := writer.New(c.ResultsDir, points, c.Triangles, c.EngineParameters.SnapshotPeriod)
	if err != nil {
		return err
	}

	eng, err := engine.New(c.EngineParameters, orbitMgr, backend, w)
	if err != nil {
		w.Close()
		return err
	}

	io.Pf("running simulation\n")
	if err := eng.Run(); err != nil {
		return err
	}

	io.PfGreen("done\n")
	return nil
}

func buildSolver(method string, model *assembly.Model, c *caseio.Case) (solver.Solver, []mesh.Point, error) {
	switch method {
	case "Implicit":
		s, err := cpu.New(model, c.EngineParameters.TimeStep)
		if err != nil {
			return nil, nil, err
		}
		return s, pointsOf(c.Triangles, model.NPoints), nil
	case "GPU":
		s, err := gpu.New(model, c.EngineParameters.TimeStep)
		if err != nil {
			return nil, nil, err
		}
		return s, pointsOf(c.Triangles, model.NPoints), nil
	default:
		return nil, nil, chk.Err("unrecognized solver method %q, want Implicit or GPU", method)
	}
}

// pointsOf gathers one authoritative mesh.Point per global id from the
// triangles that own it, for use by the results writer.
func pointsOf(triangles []mesh.Triangle, nPoints int) []mesh.Point {
	points := make([]mesh.Point, nPoints)
	for _, t := range triangles {
		for _, p := range t.P {
			points[p.GlobalID] = p
		}
	}
	return points
}
