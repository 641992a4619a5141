// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu implements the GPU solver backend: the constant system
// matrix A is inverted once on the host, then every Step dispatches six
// OpenCL kernels against device buffers instead of doing any host-side
// linear algebra.
package gpu

import (
	_ "embed"
	"unsafe"

	"github.com/JulianVentura/AgniB3V/internal/assembly"
	"github.com/JulianVentura/AgniB3V/internal/solver"
	"github.com/cpmech/gosl/chk"
	"github.com/samuel/go-opencl/cl"
	"gonum.org/v1/gonum/mat"
)

//go:embed kernels/matrix_mult.cl
var kernelSource string

// Solver is the GPU backend. Its constant matrices (D, H, A^-1) and the
// current temperature/forcing vectors live on the device; after
// construction, Temperature (device to host) and UpdateF (host to
// device) are the only points where data crosses between the two.
type Solver struct {
	n int

	context *cl.Context
	queue   *cl.CommandQueue

	bufT       *cl.MemObject
	bufT4      *cl.MemObject
	bufF       *cl.MemObject
	bufH       *cl.MemObject
	bufFConst  *cl.MemObject
	bufD       *cl.MemObject
	bufB       *cl.MemObject
	bufAInverse *cl.MemObject

	kFourth *cl.Kernel
	kGemvF  *cl.Kernel
	kFSum   *cl.Kernel
	kDTemp  *cl.Kernel
	kBSum   *cl.Kernel
	kSolve  *cl.Kernel

	fConst []*mat.VecDense
	temp   []float64
}

// New builds the GPU backend from an assembled Model and a fixed time
// step: it computes D and A^-1 on the host with gonum, then uploads
// every constant buffer and compiles the kernel program once.
func New(model *assembly.Model, timeStep float64) (*Solver, error) {
	if timeStep <= 0 {
		return nil, chk.Err("gpu: time step must be positive, got %g", timeStep)
	}
	n := model.NPoints

	a := mat.NewDense(n, n, nil)
	d := mat.NewDense(n, n, nil)
	a.Scale(1/timeStep, model.M)
	d.Scale(1/timeStep, model.M)

	scaledK := mat.NewDense(n, n, nil)
	scaledK.Scale(solver.Theta, model.K)
	a.Add(a, scaledK)

	scaledK.Scale(1-solver.Theta, model.K)
	d.Sub(d, scaledK)

	var aInverse mat.Dense
	if err := aInverse.Inverse(a); err != nil {
		return nil, chk.Err("gpu: couldn't invert A matrix: %v", err)
	}

	s := &Solver{n: n, fConst: model.F, temp: append([]float64(nil), model.T0...)}

	if err := s.startProgram(); err != nil {
		return nil, err
	}
	if err := s.startBuffers(model.H, d, &aInverse); err != nil {
		return nil, err
	}
	if err := s.startKernels(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Solver) startProgram() error {
	platforms, err := cl.GetPlatforms()
	if err != nil || len(platforms) == 0 {
		return chk.Err("gpu: no opencl platform found: %v", err)
	}
	devices, err := platforms[0].GetDevices(cl.DeviceTypeAll)
	if err != nil || len(devices) == 0 {
		return chk.Err("gpu: no opencl device found: %v", err)
	}
	device := devices[0]

	ctx, err := cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return chk.Err("gpu: couldn't create opencl context: %v", err)
	}
	queue, err := ctx.CreateCommandQueue(device, 0)
	if err != nil {
		return chk.Err("gpu: couldn't create opencl queue: %v", err)
	}
	s.context = ctx
	s.queue = queue
	return nil
}

func (s *Solver) program() (*cl.Program, error) {
	program, err := s.context.CreateProgramWithSource([]string{kernelSource})
	if err != nil {
		return nil, chk.Err("gpu: couldn't parse opencl kernel source: %v", err)
	}
	if err := program.BuildProgram(nil, ""); err != nil {
		return nil, chk.Err("gpu: couldn't build opencl program: %v", err)
	}
	return program, nil
}

func flatten(m *mat.Dense) []float64 {
	r, c := m.Dims()
	out := make([]float64, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out[i*c+j] = m.At(i, j)
		}
	}
	return out
}

const float64Bytes = 8

func (s *Solver) startBuffers(h, d, aInverse *mat.Dense) error {
	var err error
	s.bufT, err = s.makeBuffer(s.temp)
	if err != nil {
		return err
	}
	s.bufT4, err = s.zeroBuffer(s.n)
	if err != nil {
		return err
	}
	s.bufF, err = s.zeroBuffer(s.n)
	if err != nil {
		return err
	}
	s.bufH, err = s.makeBuffer(flatten(h))
	if err != nil {
		return err
	}
	fConst0 := make([]float64, s.n)
	for i := 0; i < s.n; i++ {
		fConst0[i] = s.fConst[0].AtVec(i)
	}
	s.bufFConst, err = s.makeBuffer(fConst0)
	if err != nil {
		return err
	}
	s.bufD, err = s.makeBuffer(flatten(d))
	if err != nil {
		return err
	}
	s.bufB, err = s.zeroBuffer(s.n)
	if err != nil {
		return err
	}
	s.bufAInverse, err = s.makeBuffer(flatten(aInverse))
	if err != nil {
		return err
	}
	return nil
}

func (s *Solver) makeBuffer(data []float64) (*cl.MemObject, error) {
	buf, err := s.context.CreateBuffer(cl.MemReadWrite, len(data)*float64Bytes)
	if err != nil {
		return nil, chk.Err("gpu: couldn't create opencl buffer: %v", err)
	}
	if _, err := s.queue.EnqueueWriteBuffer(buf, true, 0, len(data)*float64Bytes, unsafe.Pointer(&data[0]), nil); err != nil {
		return nil, chk.Err("gpu: couldn't upload opencl buffer: %v", err)
	}
	return buf, nil
}

func (s *Solver) zeroBuffer(n int) (*cl.MemObject, error) {
	return s.makeBuffer(make([]float64, n))
}

func (s *Solver) startKernels() error {
	program, err := s.program()
	if err != nil {
		return err
	}

	mk := func(name string) (*cl.Kernel, error) {
		k, err := program.CreateKernel(name)
		if err != nil {
			return nil, chk.Err("gpu: couldn't create opencl kernel %q: %v", name, err)
		}
		return k, nil
	}

	var err1 error
	if s.kFourth, err1 = mk("fourth_elevation"); err1 != nil {
		return err1
	}
	if s.kGemvF, err1 = mk("gemv1"); err1 != nil {
		return err1
	}
	if s.kFSum, err1 = mk("vec_sum"); err1 != nil {
		return err1
	}
	if s.kDTemp, err1 = mk("gemv1"); err1 != nil {
		return err1
	}
	if s.kBSum, err1 = mk("vec_sum"); err1 != nil {
		return err1
	}
	if s.kSolve, err1 = mk("gemv1"); err1 != nil {
		return err1
	}

	if err := s.kFourth.SetArgs(s.bufT, s.bufT4, int32(s.n)); err != nil {
		return chk.Err("gpu: couldn't set fourth_elevation args: %v", err)
	}
	if err := s.kGemvF.SetArgs(s.bufH, s.bufT4, s.bufF, int32(s.n), int32(s.n)); err != nil {
		return chk.Err("gpu: couldn't set gemv1(H) args: %v", err)
	}
	if err := s.kFSum.SetArgs(s.bufF, s.bufFConst, s.bufF, int32(s.n)); err != nil {
		return chk.Err("gpu: couldn't set vec_sum(F) args: %v", err)
	}
	if err := s.kDTemp.SetArgs(s.bufD, s.bufT, s.bufB, int32(s.n), int32(s.n)); err != nil {
		return chk.Err("gpu: couldn't set gemv1(D) args: %v", err)
	}
	if err := s.kBSum.SetArgs(s.bufB, s.bufF, s.bufB, int32(s.n)); err != nil {
		return chk.Err("gpu: couldn't set vec_sum(B) args: %v", err)
	}
	if err := s.kSolve.SetArgs(s.bufAInverse, s.bufB, s.bufT, int32(s.n), int32(s.n)); err != nil {
		return chk.Err("gpu: couldn't set gemv1(solve) args: %v", err)
	}
	return nil
}

// Step enqueues the six-kernel pipeline that advances the temperature
// field by one time step: fourth_elevation, H*T^4, +F_phi, D*T, +, and
// finally A^-1 * b written back into the temperature buffer.
func (s *Solver) Step() error {
	global := []int{s.n}
	for _, k := range []*cl.Kernel{s.kFourth, s.kGemvF, s.kFSum, s.kDTemp, s.kBSum, s.kSolve} {
		if _, err := s.queue.EnqueueNDRangeKernel(k, nil, global, nil, nil); err != nil {
			return chk.Err("gpu: couldn't enqueue kernel: %v", err)
		}
	}
	return nil
}

// RunFor calls Step n times.
func (s *Solver) RunFor(n int) error {
	for i := 0; i < n; i++ {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// UpdateF uploads {F_phi}[index] into the device-resident F_const
// buffer used by subsequent steps.
func (s *Solver) UpdateF(index int) error {
	if index < 0 || index >= len(s.fConst) {
		return chk.Err("gpu: forcing vector index %d out of range [0,%d)", index, len(s.fConst))
	}
	data := make([]float64, s.n)
	for i := 0; i < s.n; i++ {
		data[i] = s.fConst[index].AtVec(i)
	}
	if _, err := s.queue.EnqueueWriteBuffer(s.bufFConst, true, 0, len(data)*float64Bytes, unsafe.Pointer(&data[0]), nil); err != nil {
		return chk.Err("gpu: couldn't update F buffer: %v", err)
	}
	return nil
}

// Temperature reads the device-resident temperature buffer back to the
// host. Blocks until every previously enqueued kernel has finished.
func (s *Solver) Temperature() []float64 {
	if err := s.queue.Finish(); err != nil {
		return s.temp
	}
	if _, err := s.queue.EnqueueReadBuffer(s.bufT, true, 0, len(s.temp)*float64Bytes, unsafe.Pointer(&s.temp[0]), nil); err != nil {
		return s.temp
	}
	return s.temp
}

// Close releases the OpenCL command queue and context.
func (s *Solver) Close() error {
	if s.queue != nil {
		s.queue.Release()
	}
	if s.context != nil {
		s.context.Release()
	}
	return nil
}

var _ solver.Solver = (*Solver)(nil)
