// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build ignore
// +build ignore

package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"
)

type seriesEntry struct {
	Name string  `json:"name"`
	Time float64 `json:"time"`
}

type series struct {
	Files []seriesEntry `json:"files"`
}

func main() {

	resultsDir := "results"
	flag.Parse()
	if len(flag.Args()) > 0 {
		resultsDir = flag.Arg(0)
	}

	buf, err := os.ReadFile(filepath.Join(resultsDir, "result.vtk.series"))
	if err != nil {
		chk.Panic("couldn't read result.vtk.series: %v", err)
	}
	var s series
	if err := json.Unmarshal(buf, &s); err != nil {
		chk.Panic("couldn't parse result.vtk.series: %v", err)
	}

	times := make([]float64, len(s.Files))
	avg := make([]float64, len(s.Files))
	minT := make([]float64, len(s.Files))
	maxT := make([]float64, len(s.Files))

	for i, entry := range s.Files {
		temps, err := readTemperatures(filepath.Join(resultsDir, entry.Name))
		if err != nil {
			chk.Panic("couldn't read %s: %v", entry.Name, err)
		}
		times[i] = entry.Time
		avg[i], minT[i], maxT[i] = stats(temps)
	}

	plt.Plot(times, avg, &plt.A{C: "b", L: "avg", NoClip: true})
	plt.Plot(times, minT, &plt.A{C: "c", Ls: "--", L: "min", NoClip: true})
	plt.Plot(times, maxT, &plt.A{C: "r", Ls: "--", L: "max", NoClip: true})
	plt.Gll("time [s]", "temperature [K]", nil)
	plt.SetForPng(1, 600, 150)
	plt.SaveD(resultsDir, "temperature_history.png")

	io.Pf("wrote %s\n", filepath.Join(resultsDir, "temperature_history.png"))
}

// readTemperatures scans a legacy-VTK result file's POINT_DATA
// Temperature block.
func readTemperatures(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var temps []float64
	inScalars := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "SCALARS Temperature"):
			inScalars = true
		case strings.HasPrefix(line, "LOOKUP_TABLE"):
			continue
		case inScalars && line != "":
			v, err := strconv.ParseFloat(line, 64)
			if err != nil {
				return temps, nil
			}
			temps = append(temps, v)
		}
	}
	return temps, sc.Err()
}

func stats(v []float64) (avg, min, max float64) {
	if len(v) == 0 {
		return 0, 0, 0
	}
	min, max = v[0], v[0]
	sum := 0.0
	for _, x := range v {
		sum += x
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	return sum / float64(len(v)), min, max
}
