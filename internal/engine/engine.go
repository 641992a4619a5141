// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine runs the outer simulation loop: it interleaves
// snapshot emission, orbit-phase updates, and bounded solver runs so
// that no run steps over a snapshot, and each run ends at the first
// step that reaches or passes the next phase boundary.
package engine

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/JulianVentura/AgniB3V/internal/orbit"
	"github.com/JulianVentura/AgniB3V/internal/solver"
)

// Parameters are the engine's own timing knobs, independent of the
// assembled model or the chosen solver backend.
type Parameters struct {
	SimulationTime float64
	TimeStep       float64
	SnapshotPeriod float64
}

// Sink receives one nodal temperature snapshot at a time, in step
// order, plus a final Close once the run is complete. Package writer
// implements this.
type Sink interface {
	Result(t []float64) error
	Close() error
}

// Engine owns the outer time loop.
type Engine struct {
	simulationSteps int
	snapshotSteps   int
	timeStep        float64

	solver solver.Solver
	orbit  *orbit.Manager
	sink   Sink

	fIndex int
}

// New validates the timing parameters and builds an Engine.
func New(p Parameters, mgr *orbit.Manager, s solver.Solver, sink Sink) (*Engine, error) {
	if p.TimeStep > p.SnapshotPeriod {
		return nil, chk.Err("engine: snapshot period cannot be smaller than time step")
	}
	if !isMultiple(p.SimulationTime, p.SnapshotPeriod) {
		return nil, chk.Err("engine: simulation time must be a multiple of snapshot period")
	}
	if !isMultiple(p.SnapshotPeriod, p.TimeStep) {
		return nil, chk.Err("engine: snapshot period must be a multiple of time step")
	}

	simulationSteps := int(p.SimulationTime / p.TimeStep)
	snapshotSteps := int(p.SnapshotPeriod / p.TimeStep)

	return &Engine{
		simulationSteps: simulationSteps,
		snapshotSteps:   snapshotSteps,
		timeStep:        p.TimeStep,
		solver:          s,
		orbit:           mgr,
		sink:            sink,
	}, nil
}

// Run drives the simulation to completion, emitting one snapshot every
// N_snap steps (including the very first and very last) to the sink.
func (e *Engine) Run() error {
	step := 0
	for step < e.simulationSteps {
		if err := e.saveResults(step); err != nil {
			return err
		}
		if err := e.updateF(step); err != nil {
			return err
		}
		simulated, err := e.executeSolver(step)
		if err != nil {
			return err
		}
		step += simulated
	}
	if err := e.saveResults(step); err != nil {
		return err
	}
	return e.sink.Close()
}

func (e *Engine) updateF(step int) error {
	time := float64(step) * e.timeStep
	idx := e.orbit.CurrentIndex(time)
	if idx == e.fIndex {
		return nil
	}
	e.fIndex = idx
	return e.solver.UpdateF(e.fIndex)
}

// calculateIterationSteps bounds how many steps may run: up to the next
// snapshot, or up to the next orbit-phase boundary rounded up to a whole
// number of steps, whichever comes first.
func calculateIterationSteps(nextDivisionTime float64, snapshotSteps, currentStep int, timeStep float64) int {
	nextSnapSteps := snapshotSteps - currentStep%snapshotSteps
	nextDivisionSteps := int(math.Ceil(nextDivisionTime / timeStep))
	if nextDivisionSteps < nextSnapSteps {
		return nextDivisionSteps
	}
	return nextSnapSteps
}

func (e *Engine) executeSolver(currentStep int) (int, error) {
	nextDivisionTime := e.orbit.TimeToNext(float64(currentStep) * e.timeStep)
	steps := calculateIterationSteps(nextDivisionTime, e.snapshotSteps, currentStep, e.timeStep)
	if currentStep+steps > e.simulationSteps {
		steps = e.simulationSteps - currentStep
	}
	if err := e.solver.RunFor(steps); err != nil {
		return 0, err
	}
	return steps, nil
}

func (e *Engine) saveResults(currentStep int) error {
	if currentStep%e.snapshotSteps == 0 {
		return e.sink.Result(e.solver.Temperature())
	}
	return nil
}

func isMultiple(dividend, divisor float64) bool {
	ratio := dividend / divisor
	frac := ratio - math.Floor(ratio)
	return frac < 1e-12 || frac > 1-1e-12
}
