// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package caseio

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/JulianVentura/AgniB3V/internal/mesh"
)

// WriteResult writes one legacy-format VTK unstructured grid carrying
// a point-scalar "Temperature" attribute, reusing the points/cells of
// the case's own mesh for every snapshot.
func WriteResult(dir string, index int, points []mesh.Point, triangles []mesh.Triangle, temperature []float64) error {
	if len(temperature) != len(points) {
		return chk.Err("caseio: temperature has %d entries, mesh has %d points", len(temperature), len(points))
	}

	var buf bytes.Buffer
	io.Ff(&buf, "# vtk DataFile Version 4.2\n")
	io.Ff(&buf, "agnib3v thermal result\n")
	io.Ff(&buf, "ASCII\n")
	io.Ff(&buf, "DATASET UNSTRUCTURED_GRID\n")

	io.Ff(&buf, "POINTS %d float\n", len(points))
	for _, p := range points {
		io.Ff(&buf, "%g %g %g\n", p.X[0], p.X[1], p.X[2])
	}

	io.Ff(&buf, "\nCELLS %d %d\n", len(triangles), len(triangles)*4)
	for _, t := range triangles {
		io.Ff(&buf, "3 %d %d %d\n", t.P[0].GlobalID, t.P[1].GlobalID, t.P[2].GlobalID)
	}

	io.Ff(&buf, "\nCELL_TYPES %d\n", len(triangles))
	for range triangles {
		io.Ff(&buf, "5\n") // VTK_TRIANGLE
	}

	io.Ff(&buf, "\nPOINT_DATA %d\n", len(points))
	io.Ff(&buf, "SCALARS Temperature double 1\n")
	io.Ff(&buf, "LOOKUP_TABLE default\n")
	for _, t := range temperature {
		io.Ff(&buf, "%.15e\n", t)
	}

	path := filepath.Join(dir, io.Sf("result_%d.vtk", index))
	return io.WriteFile(path, &buf)
}

// seriesEntry is one {name, time} entry of result.vtk.series.
type seriesEntry struct {
	Name string  `json:"name"`
	Time float64 `json:"time"`
}

// series is the full contents of result.vtk.series.
type series struct {
	FileSeriesVersion string        `json:"file-series-version"`
	Files             []seriesEntry `json:"files"`
}

// WriteSeries writes result.vtk.series with one entry per snapshot, at
// time = index * snapshotPeriod.
func WriteSeries(dir string, nSnapshots int, snapshotPeriod float64) error {
	s := series{FileSeriesVersion: "1.0", Files: make([]seriesEntry, nSnapshots)}
	for i := 0; i < nSnapshots; i++ {
		s.Files[i] = seriesEntry{
			Name: io.Sf("result_%d.vtk", i),
			Time: float64(i) * snapshotPeriod,
		}
	}
	buf, err := json.Marshal(s)
	if err != nil {
		return chk.Err("caseio: couldn't serialize result series: %v", err)
	}
	path := filepath.Join(dir, "result.vtk.series")
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return chk.Err("caseio: couldn't write result series %q: %v", path, err)
	}
	return nil
}

// EnsureResultsDir creates dir (and parents) if it does not exist.
func EnsureResultsDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return chk.Err("caseio: couldn't create results directory %q: %v", dir, err)
	}
	return nil
}
