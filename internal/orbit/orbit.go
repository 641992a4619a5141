// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package orbit implements OrbitManager: it maps a simulation time to a
// stable phase index into the forcing-vector family {F_phi} built by
// package assembly, and tells the engine how long it may run before the
// next phase or eclipse boundary.
package orbit

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Parameters describes one orbit: its period, the sorted phase-boundary
// times within it (always starting at 0), and the eclipse entry/exit
// times. The eclipse interval may wrap (End < Start). EclipseStart or
// EclipseEnd below zero, or EclipseStart == EclipseEnd, means "no eclipse":
// the boundary-insertion step is skipped entirely.
type Parameters struct {
	OrbitPeriod     float64
	OrbitDivisions  []float64
	EclipseStart    float64
	EclipseEnd      float64
}

// Division is one entry of the expanded division list: the boundary time
// and the original (user-supplied) division index it was derived from.
// Several expanded entries may share the same OriginalIndex, split apart
// at the points where the eclipse interval enters or leaves that division.
type Division struct {
	OriginalIndex int
	Boundary      float64
}

// EclipseDivision pairs one expanded division with its eclipse state. This
// is the list Assembly consumes to build one forcing vector F_phi per
// entry: the length of this list is the size of the {F_phi} family, and
// Manager.CurrentIndex returns an index into it.
type EclipseDivision struct {
	OriginalIndex int
	InEclipse     bool
}

// Manager answers "which phase applies now" and "how long until the next
// boundary" with an amortized O(1) cursor that only moves forward within
// an orbit and resets to zero when time wraps to a new orbit.
type Manager struct {
	period     float64
	boundaries []float64 // expanded division boundary times, ascending, boundaries[0] == 0
	eclipse    []EclipseDivision
	cursor     int
}

// New builds a Manager from Parameters, expanding the user's orbit
// divisions with the eclipse entry/exit boundaries and labelling each
// expanded entry with its eclipse state.
func New(p Parameters) (*Manager, error) {
	if p.OrbitPeriod <= 0 {
		return nil, chk.Err("orbit: OrbitPeriod must be positive, got %g", p.OrbitPeriod)
	}
	if len(p.OrbitDivisions) == 0 {
		return nil, chk.Err("orbit: OrbitDivisions must not be empty")
	}
	if p.OrbitDivisions[0] != 0 {
		return nil, chk.Err("orbit: OrbitDivisions must start at 0, got %g", p.OrbitDivisions[0])
	}
	expanded := expandTimeDivisions(p.OrbitDivisions, p.EclipseStart, p.EclipseEnd)
	eclipse := expandEclipseDivisions(expanded, p.EclipseStart, p.EclipseEnd)
	boundaries := make([]float64, len(expanded))
	for i, d := range expanded {
		boundaries[i] = d.Boundary
	}
	return &Manager{
		period:     p.OrbitPeriod,
		boundaries: boundaries,
		eclipse:    eclipse,
	}, nil
}

// EclipseDivisions returns the expanded (phase-index, in-eclipse) list
// consumed by Assembly to build the {F_phi} family. Its length is the size
// of that family; CurrentIndex returns an index into this slice.
func (m *Manager) EclipseDivisions() []EclipseDivision {
	return m.eclipse
}

// CurrentIndex reduces t modulo the orbit period and advances the cursor
// (cyclically, never rescanning from zero unless time wraps to a new lap)
// until the reduced time lies in the cursor's half-open interval. It
// returns the cursor index into the expanded division list, i.e. an index
// directly usable against the {F_phi} family built by Assembly.
func (m *Manager) CurrentIndex(t float64) int {
	m.reduceAndAdvance(t)
	return m.cursor
}

// TimeToNext returns the time remaining until the next phase boundary,
// after the same cursor reduction/advance CurrentIndex performs. If the
// cursor sits on the last entry, "next" wraps to the orbit period.
func (m *Manager) TimeToNext(t float64) float64 {
	tau := m.reduceAndAdvance(t)
	return m.upperBound(m.cursor) - tau
}

// reduceAndAdvance reduces t to an orbit-local time and advances the
// cursor to the interval containing it, returning the reduced time.
func (m *Manager) reduceAndAdvance(t float64) float64 {
	tau := math.Mod(t, m.period)
	if tau < 0 {
		tau += m.period
	}
	if tau < m.boundaries[m.cursor] {
		// time wrapped to a new lap: the cursor cannot still be valid, so
		// restart the forward scan from the beginning of the orbit.
		m.cursor = 0
	}
	for tau >= m.upperBound(m.cursor) && m.cursor < len(m.boundaries)-1 {
		m.cursor++
	}
	return tau
}

// upperBound is the boundary that ends the cursor's current interval: the
// next entry's boundary time, or the orbit period if the cursor is on the
// last entry.
func (m *Manager) upperBound(cursor int) float64 {
	if cursor+1 < len(m.boundaries) {
		return m.boundaries[cursor+1]
	}
	return m.period
}

// expandTimeDivisions inserts the eclipse entry/exit times into the
// interval of the user's orbit divisions that contains them, carrying the
// left neighbor's original index. Skips insertion entirely when there is
// no eclipse (start == end, or either is a negative sentinel).
func expandTimeDivisions(divisions []float64, eclipseStart, eclipseEnd float64) []Division {
	first, last := eclipseStart, eclipseEnd
	if eclipseEnd < eclipseStart {
		first, last = eclipseEnd, eclipseStart
	}
	skip := eclipseStart == eclipseEnd || eclipseStart < 0 || eclipseEnd < 0

	n := len(divisions)
	out := make([]Division, 0, n+2)
	for idx, t := range divisions {
		nextIdx := (idx + 1) % n
		upper := divisions[nextIdx]
		if nextIdx == 0 {
			// last division: its interval extends to the orbit period,
			// not back to the first division's boundary time.
			upper = math.Inf(1)
		}
		out = append(out, Division{idx, t})
		if !skip {
			if first < upper && first > t {
				out = append(out, Division{idx, first})
			}
			if last < upper && last > t {
				out = append(out, Division{idx, last})
			}
		}
	}
	return out
}

// expandEclipseDivisions labels each expanded division entry with whether
// its boundary time falls inside the eclipse interval.
func expandEclipseDivisions(expanded []Division, eclipseStart, eclipseEnd float64) []EclipseDivision {
	out := make([]EclipseDivision, len(expanded))
	noEclipse := eclipseStart == eclipseEnd || eclipseStart < 0 || eclipseEnd < 0
	for i, d := range expanded {
		in := false
		if !noEclipse {
			in = isInEclipse(eclipseStart, eclipseEnd, d.Boundary)
		}
		out[i] = EclipseDivision{d.OriginalIndex, in}
	}
	return out
}

// isInEclipse tests a time against the eclipse interval [start, end),
// handling the case where the interval wraps around the orbit (end < start).
func isInEclipse(start, end, t float64) bool {
	if start <= end {
		return t >= start && t < end
	}
	return t < end || t >= start
}
