// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package caseio

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/cpmech/gosl/chk"
)

// dequantizeScale converts a u16-quantized view factor in [0, 65535]
// back to a float in [0,1].
const dequantizeScale = 1.0 / 65535.0

// PhaseTable is one {size, start_time, data[size]} entry of the
// earth_ir/earth_albedo/sun tables in view_factors.vf, one per orbit
// division and holding one value per triangle, with quantized values
// already dequantized to [0,1].
type PhaseTable struct {
	StartTime float64
	Data      []float64
}

// ViewFactorFile is the full contents of view_factors.vf: per-division
// phase tables for Earth IR, Earth albedo and sun, plus the dense
// element-to-element matrix.
type ViewFactorFile struct {
	EarthIR     []PhaseTable
	EarthAlbedo []PhaseTable
	Sun         []PhaseTable
	Matrix      [][]float64 // rows x cols, row-major
}

// ReadViewFactors parses the big-endian binary grammar:
//
//	u16 n; { u16 size; f32 start_time; u16 data[size] }[n]   (x3: ir, albedo, sun)
//	u16 rows; u16 cols; u16 data[rows*cols]
func ReadViewFactors(path string) (*ViewFactorFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, chk.Err("caseio: couldn't open view factors file %q: %v", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	ir, err := readPhaseTables(r)
	if err != nil {
		return nil, chk.Err("caseio: view factors %q: earth_ir: %v", path, err)
	}
	albedo, err := readPhaseTables(r)
	if err != nil {
		return nil, chk.Err("caseio: view factors %q: earth_albedo: %v", path, err)
	}
	sun, err := readPhaseTables(r)
	if err != nil {
		return nil, chk.Err("caseio: view factors %q: sun: %v", path, err)
	}

	var rows, cols uint16
	if err := binary.Read(r, binary.BigEndian, &rows); err != nil {
		return nil, chk.Err("caseio: view factors %q: matrix rows: %v", path, err)
	}
	if err := binary.Read(r, binary.BigEndian, &cols); err != nil {
		return nil, chk.Err("caseio: view factors %q: matrix cols: %v", path, err)
	}
	matrix := make([][]float64, rows)
	for i := range matrix {
		row := make([]uint16, cols)
		if err := binary.Read(r, binary.BigEndian, &row); err != nil {
			return nil, chk.Err("caseio: view factors %q: matrix row %d: %v", path, i, err)
		}
		matrix[i] = dequantizeAll(row)
	}

	return &ViewFactorFile{EarthIR: ir, EarthAlbedo: albedo, Sun: sun, Matrix: matrix}, nil
}

func readPhaseTables(r io.Reader) ([]PhaseTable, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	out := make([]PhaseTable, n)
	for i := 0; i < int(n); i++ {
		var size uint16
		if err := binary.Read(r, binary.BigEndian, &size); err != nil {
			return nil, err
		}
		var startTime float32
		if err := binary.Read(r, binary.BigEndian, &startTime); err != nil {
			return nil, err
		}
		data := make([]uint16, size)
		if err := binary.Read(r, binary.BigEndian, &data); err != nil {
			return nil, err
		}
		out[i] = PhaseTable{StartTime: float64(startTime), Data: dequantizeAll(data)}
	}
	return out, nil
}

func dequantizeAll(data []uint16) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v) * dequantizeScale
	}
	return out
}
