// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package orbit

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func assertDivisions(tst *testing.T, result, expected []Division) {
	if len(result) != len(expected) {
		tst.Fatalf("length mismatch: got %d, want %d (%v vs %v)", len(result), len(expected), result, expected)
	}
	for i := range result {
		if result[i].OriginalIndex != expected[i].OriginalIndex {
			tst.Errorf("entry %d: original index got %d, want %d", i, result[i].OriginalIndex, expected[i].OriginalIndex)
		}
		chk.Scalar(tst, "boundary", 0.01, result[i].Boundary, expected[i].Boundary)
	}
}

func Test_expand_time_divisions(tst *testing.T) {

	chk.PrintTitle("expand_time_divisions")

	divisions := []float64{0, 100, 300, 500}

	tests := []struct {
		start, end float64
		expected   []Division
	}{
		{30, 400, []Division{{0, 0}, {0, 30}, {1, 100}, {2, 300}, {2, 400}, {3, 500}}},
		{30, 600, []Division{{0, 0}, {0, 30}, {1, 100}, {2, 300}, {3, 500}, {3, 600}}},
		{120, 150, []Division{{0, 0}, {1, 100}, {1, 120}, {1, 150}, {2, 300}, {3, 500}}},
		{1, 600, []Division{{0, 0}, {0, 1}, {1, 100}, {2, 300}, {3, 500}, {3, 600}}},
	}

	for _, t := range tests {
		result := expandTimeDivisions(divisions, t.start, t.end)
		assertDivisions(tst, result, t.expected)
	}
}

func Test_expand_time_divisions_sentinel(tst *testing.T) {
	divisions := []float64{0, 100, 300, 500}
	result := expandTimeDivisions(divisions, -1, -1)
	expected := []Division{{0, 0}, {1, 100}, {2, 300}, {3, 500}}
	assertDivisions(tst, result, expected)
}

func Test_is_in_eclipse(tst *testing.T) {
	chk.PrintTitle("is_in_eclipse")

	tests := []struct {
		start, end, t float64
		want          bool
	}{
		{1000, 2000, 1500, true},
		{1000, 2000, 500, false},
		{1000, 2000, 2500, false},
		{1000, 2000, 2000, false},
		{1000, 2000, 1000, true},
		{3000, 2000, 2500, false},
		{3000, 2000, 1500, true},
		{3000, 2000, 3500, true},
		{3000, 2000, 3000, true},
		{3000, 2000, 2000, false},
	}
	for i, t := range tests {
		got := isInEclipse(t.start, t.end, t.t)
		if got != t.want {
			tst.Errorf("case %d: isInEclipse(%g,%g,%g) = %v, want %v", i, t.start, t.end, t.t, got, t.want)
		}
	}
}

func Test_expand_eclipse_divisions(tst *testing.T) {
	divisions := []float64{0, 100, 300, 500}
	expanded := expandTimeDivisions(divisions, 30, 400)
	result := expandEclipseDivisions(expanded, 30, 400)
	expected := []bool{false, true, true, true, false, false}
	if len(result) != len(expected) {
		tst.Fatalf("length mismatch: got %d, want %d", len(result), len(expected))
	}
	for i := range result {
		if result[i].InEclipse != expected[i] {
			tst.Errorf("entry %d: got %v, want %v", i, result[i].InEclipse, expected[i])
		}
	}
}

// Test_orbit_index_sweep is spec scenario 7: period 6000, divisions
// {0,10,20}, eclipse [1000,2000), a sequence of increasing/non-monotonic
// queries must reproduce the given index sequence.
func Test_orbit_index_sweep(tst *testing.T) {

	chk.PrintTitle("orbit index sweep")

	mgr, err := New(Parameters{
		OrbitPeriod:    6000,
		OrbitDivisions: []float64{0, 10, 20},
		EclipseStart:   1000,
		EclipseEnd:     2000,
	})
	if err != nil {
		tst.Fatal(err)
	}

	queries := []float64{5, 11, 12, 21, 25, 3, 25, 15}
	expected := []int{0, 1, 1, 2, 2, 0, 2, 1}

	for i, q := range queries {
		got := mgr.CurrentIndex(q)
		if got != expected[i] {
			tst.Errorf("query %d (t=%g): CurrentIndex = %d, want %d", i, q, got, expected[i])
		}
	}
}

// Test_time_to_next_exact checks that time_to_next(t) + t lands exactly on
// a boundary of the expanded list (or the period), for a manager with no
// eclipse at all.
func Test_time_to_next_exact(tst *testing.T) {
	mgr, err := New(Parameters{
		OrbitPeriod:    100,
		OrbitDivisions: []float64{0, 25, 60},
		EclipseStart:   -1,
		EclipseEnd:     -1,
	})
	if err != nil {
		tst.Fatal(err)
	}

	for _, t := range []float64{0, 10, 24, 25, 40, 61, 99} {
		next := mgr.TimeToNext(t)
		chk.Scalar(tst, "t+next lands on a boundary", 1e-9, boundaryDistance(mgr, t+next), 0)
	}
}

// boundaryDistance returns the distance from v to the nearest entry in the
// manager's expanded boundary list (treating 0 and the period as the same
// point), used to check t+time_to_next(t) lands on a boundary exactly.
func boundaryDistance(mgr *Manager, v float64) float64 {
	v = v - mgr.period*float64(int(v/mgr.period))
	best := mgr.period - v
	for _, b := range mgr.boundaries {
		d := v - b
		if d < 0 {
			d = -d
		}
		if d < best {
			best = d
		}
	}
	return best
}

func Test_eclipse_divisions_length_matches_f_family(tst *testing.T) {
	mgr, err := New(Parameters{
		OrbitPeriod:    6000,
		OrbitDivisions: []float64{0, 10, 20},
		EclipseStart:   1000,
		EclipseEnd:     2000,
	})
	if err != nil {
		tst.Fatal(err)
	}
	divs := mgr.EclipseDivisions()
	if len(divs) != 5 {
		tst.Fatalf("expected 5 expanded divisions, got %d: %v", len(divs), divs)
	}
}
