// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mesh holds the raw geometric and material data read from a case
// directory: mesh vertices, per-triangle material/optical properties, and
// per-triangle view factors. It has no notion of assembly or global
// matrices; that belongs to package assembly.
package mesh

// Point is a mesh vertex: a 3-D position, an initial temperature, a
// globally unique id assigned by the mesh reader, and a within-triangle
// local id in {1,2,3} set when the case reader places it in a triangle.
type Point struct {
	GlobalID int        // unique id into the authoritative point array
	LocalID  int         // 1, 2 or 3 once owned by a triangle; 0 before that
	X        [3]float64  // position
	T0       float64     // initial temperature (K)
}

// WithLocalID returns a copy of p with LocalID set; points are cloned into
// each triangle they belong to, so the local id never aliases the source.
func (p Point) WithLocalID(id int) Point {
	p.LocalID = id
	return p
}
