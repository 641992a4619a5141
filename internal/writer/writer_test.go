// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package writer

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/JulianVentura/AgniB3V/internal/mesh"
)

func Test_Writer_roundtrip(tst *testing.T) {
	dir := filepath.Join(tst.TempDir(), "results")

	points := []mesh.Point{
		{GlobalID: 0, X: [3]float64{0, 0, 0}},
		{GlobalID: 1, X: [3]float64{1, 0, 0}},
		{GlobalID: 2, X: [3]float64{0, 1, 0}},
	}
	triangles := []mesh.Triangle{
		{P: [3]mesh.Point{points[0], points[1], points[2]}},
	}

	w, err := New(dir, points, triangles, 10)
	if err != nil {
		tst.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := w.Result([]float64{300 + float64(i), 301, 302}); err != nil {
			tst.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		tst.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		path := filepath.Join(dir, "result_"+strconv.Itoa(i)+".vtk")
		if _, err := os.Stat(path); err != nil {
			tst.Errorf("expected %s to exist: %v", path, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "result.vtk.series")); err != nil {
		tst.Errorf("expected result.vtk.series to exist: %v", err)
	}
}
