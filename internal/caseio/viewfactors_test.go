// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package caseio

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// writeTestViewFactors builds a minimal valid view_factors.vf file with
// 2 triangles, 1 orbit division, and returns its path.
func writeTestViewFactors(tst *testing.T, dir string) string {
	var buf bytes.Buffer
	w := func(v interface{}) {
		if err := binary.Write(&buf, binary.BigEndian, v); err != nil {
			tst.Fatal(err)
		}
	}

	// one phase table per family, 2 triangles, quantized 0.5 -> 32767 wire value
	writeTable := func(v1, v2 uint16) {
		w(uint16(1))            // n tables
		w(uint16(2))             // size
		w(float32(0))            // start_time
		w(v1)
		w(v2)
	}
	writeTable(32767, 0)     // earth_ir
	writeTable(0, 32767)     // earth_albedo
	writeTable(65535, 65535) // sun

	w(uint16(2)) // rows
	w(uint16(2)) // cols
	w(uint16(0))
	w(uint16(65535))
	w(uint16(65535))
	w(uint16(0))

	path := filepath.Join(dir, "view_factors.vf")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		tst.Fatal(err)
	}
	return path
}

func Test_ReadViewFactors(tst *testing.T) {
	dir := tst.TempDir()
	path := writeTestViewFactors(tst, dir)

	vf, err := ReadViewFactors(path)
	if err != nil {
		tst.Fatal(err)
	}

	if len(vf.EarthIR) != 1 || len(vf.EarthIR[0].Data) != 2 {
		tst.Fatalf("unexpected earth_ir shape: %+v", vf.EarthIR)
	}
	chk.Scalar(tst, "earth_ir[0]", 1e-4, vf.EarthIR[0].Data[0], 0.5)
	chk.Scalar(tst, "earth_ir[1]", 1e-4, vf.EarthIR[0].Data[1], 0)

	chk.Scalar(tst, "sun[0]", 1e-9, vf.Sun[0].Data[0], 1.0)

	if len(vf.Matrix) != 2 || len(vf.Matrix[0]) != 2 {
		tst.Fatalf("unexpected matrix shape: %+v", vf.Matrix)
	}
	chk.Scalar(tst, "matrix[0][1]", 1e-9, vf.Matrix[0][1], 1.0)
	chk.Scalar(tst, "matrix[1][0]", 1e-9, vf.Matrix[1][0], 1.0)
}

func Test_transposePhaseTables(tst *testing.T) {
	tables := []PhaseTable{
		{StartTime: 0, Data: []float64{1, 2}},
		{StartTime: 100, Data: []float64{3, 4}},
	}
	out := transposePhaseTables(tables, 2)
	if out[0][0] != 1 || out[0][1] != 3 {
		tst.Errorf("triangle 0: got %v", out[0])
	}
	if out[1][0] != 2 || out[1][1] != 4 {
		tst.Errorf("triangle 1: got %v", out[1])
	}
}
