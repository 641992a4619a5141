// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package caseio reads a case directory (mesh.vtk, properties.json,
// view_factors.vf) into the in-memory model package assembly consumes,
// and writes the results/ directory back out.
package caseio

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"

	"github.com/JulianVentura/AgniB3V/internal/mesh"
)

// RawMesh is the geometry read from mesh.vtk, before any material or
// view-factor data has been attached: bare points and triangle
// connectivity (three global point ids per triangle).
type RawMesh struct {
	Points       [][3]float64
	Connectivity [][3]int
}

// ReadMesh parses a legacy-format VTK unstructured grid: ASCII points
// (F32-precision in the source, widened to float64 here) and 4-wide
// cell connectivity whose first entry is the vertex-count marker.
func ReadMesh(path string) (*RawMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, chk.Err("caseio: couldn't open mesh file %q: %v", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var points [][3]float64
	var conn [][3]int

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "POINTS"):
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return nil, chk.Err("caseio: malformed POINTS header %q", line)
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, chk.Err("caseio: malformed POINTS count %q: %v", fields[1], err)
			}
			points, err = readFloatTriples(sc, n)
			if err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, "CELLS"):
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return nil, chk.Err("caseio: malformed CELLS header %q", line)
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, chk.Err("caseio: malformed CELLS count %q: %v", fields[1], err)
			}
			conn, err = readCellTriples(sc, n)
			if err != nil {
				return nil, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, chk.Err("caseio: error scanning mesh file: %v", err)
	}
	if len(points) == 0 {
		return nil, chk.Err("caseio: mesh file %q has no POINTS section", path)
	}
	if len(conn) == 0 {
		return nil, chk.Err("caseio: mesh file %q has no CELLS section", path)
	}
	return &RawMesh{Points: points, Connectivity: conn}, nil
}

func readFloatTriples(sc *bufio.Scanner, n int) ([][3]float64, error) {
	vals := make([]float64, 0, n*3)
	for len(vals) < n*3 && sc.Scan() {
		for _, f := range strings.Fields(sc.Text()) {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, chk.Err("caseio: malformed point coordinate %q: %v", f, err)
			}
			vals = append(vals, v)
		}
	}
	if len(vals) < n*3 {
		return nil, chk.Err("caseio: expected %d point coordinates, got %d", n*3, len(vals))
	}
	out := make([][3]float64, n)
	for i := 0; i < n; i++ {
		out[i] = [3]float64{vals[3*i], vals[3*i+1], vals[3*i+2]}
	}
	return out, nil
}

// readCellTriples reads n cell rows, each "size id0 id1 id2 ...",
// keeping only the first three connectivity ids (the triangle's
// corners); a size other than 3 still has its leading marker skipped.
func readCellTriples(sc *bufio.Scanner, n int) ([][3]int, error) {
	out := make([][3]int, 0, n)
	for len(out) < n && sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		ids := make([]int, 0, len(fields)-1)
		for _, f := range fields[1:] {
			id, err := strconv.Atoi(f)
			if err != nil {
				return nil, chk.Err("caseio: malformed cell id %q: %v", f, err)
			}
			ids = append(ids, id)
		}
		if len(ids) < 3 {
			return nil, chk.Err("caseio: cell row %q has fewer than 3 connectivity ids", sc.Text())
		}
		out = append(out, [3]int{ids[0], ids[1], ids[2]})
	}
	if len(out) < n {
		return nil, chk.Err("caseio: expected %d cells, got %d", n, len(out))
	}
	return out, nil
}

// BuildPoints converts raw geometry into mesh.Point values indexed by
// global id, with the per-point initial temperature set to the
// caller-supplied default (Load passes properties.json's global
// InitialTemperature; boundary-condition entries may override it later).
func BuildPoints(raw *RawMesh, initialTemperature float64) []mesh.Point {
	points := make([]mesh.Point, len(raw.Points))
	for i, x := range raw.Points {
		points[i] = mesh.Point{GlobalID: i, X: x, T0: initialTemperature}
	}
	return points
}
