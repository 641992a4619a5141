// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package writer runs the background goroutine that turns the engine's
// temperature snapshots into result_<k>.vtk files and the final
// result.vtk.series index, off the integration thread.
package writer

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/JulianVentura/AgniB3V/internal/caseio"
	"github.com/JulianVentura/AgniB3V/internal/mesh"
)

type message struct {
	temperature []float64
}

// Writer is a single-producer/single-consumer channel-based worker: the
// integration thread calls Result once per snapshot and Close once at
// the end; a background goroutine drains the channel and does the file
// I/O. The channel is unbuffered, so a Result call waits until the
// worker has finished writing the previous snapshot.
type Writer struct {
	dir            string
	points         []mesh.Point
	triangles      []mesh.Triangle
	snapshotPeriod float64

	messages chan message
	done     chan error
}

// New starts the background goroutine. dir is the results directory;
// it is created if missing.
func New(dir string, points []mesh.Point, triangles []mesh.Triangle, snapshotPeriod float64) (*Writer, error) {
	if err := caseio.EnsureResultsDir(dir); err != nil {
		return nil, err
	}
	w := &Writer{
		dir:            dir,
		points:         points,
		triangles:      triangles,
		snapshotPeriod: snapshotPeriod,
		messages:       make(chan message),
		done:           make(chan error, 1),
	}
	go w.run()
	return w, nil
}

func (w *Writer) run() {
	io.Pf("results writer worker started\n")
	index := 0
	for m := range w.messages {
		if err := caseio.WriteResult(w.dir, index, w.points, w.triangles, m.temperature); err != nil {
			// stop draining: w.done is buffered, so this never blocks,
			// and Result/Close select on it instead of the (now
			// receiver-less) messages channel to surface the failure.
			w.done <- chk.Err("writer: couldn't write snapshot %d: %v", index, err)
			return
		}
		index++
	}
	err := caseio.WriteSeries(w.dir, index, w.snapshotPeriod)
	io.Pf("results writer worker shut down\n")
	w.done <- err
}

// Result sends one snapshot to the background writer. It implements
// engine.Sink. If the worker has already failed and is no longer
// draining w.messages, it reports that failure instead of blocking
// forever on the send.
func (w *Writer) Result(t []float64) error {
	cp := append([]float64(nil), t...)
	select {
	case w.messages <- message{temperature: cp}:
		return nil
	case err := <-w.done:
		w.done <- err
		return err
	}
}

// Close sends the close message and joins the background goroutine,
// returning whatever write error (if any) it encountered. It
// implements engine.Sink.
func (w *Writer) Close() error {
	close(w.messages)
	err := <-w.done
	w.done <- err
	return err
}
