// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package simlib provides the parts used to build gearbox test benches: clocked
// registers, a bit slipping channel and wrappers around the reference models.
//
package simlib

import (
	"strconv"

	"github.com/db47h/pcsgear/bitvec"
	"github.com/db47h/pcsgear/sim"
	"github.com/pkg/errors"
)

// common pin names
const (
	pIn  = "in"
	pOut = "out"
)

// Register returns a clocked register of the given width.
//
//	Inputs: in[width]
//	Outputs: out[width]
//	Function: out = in, latched on the rising edge.
//
func Register(width int) sim.NewPartFn {
	return Delay(width, 1)
}

// Delay returns a pipeline of n clocked registers of the given width.
//
//	Inputs: in[width]
//	Outputs: out[width]
//	Function: out = in, n rising edges later.
//
func Delay(width, n int) sim.NewPartFn {
	if width < 1 || n < 1 {
		panic(errors.Errorf("invalid delay line %dx%d", width, n))
	}
	return (&sim.PartSpec{
		Name:    "Delay" + strconv.Itoa(width) + "x" + strconv.Itoa(n),
		Inputs:  []sim.Port{{Name: pIn, Width: width}},
		Outputs: []sim.Port{{Name: pOut, Width: width}},
		Mount: func(s *sim.Socket) []sim.Component {
			in, out := s.Bus(pIn, width), s.Bus(pOut, width)
			stages := make([]bitvec.Vector, n)
			for i := range stages {
				stages[i] = bitvec.New(width)
			}
			return []sim.Component{
				func(b *sim.Bench) {
					// raising edge?
					if b.AtTick() {
						copy(stages[1:], stages[:n-1])
						stages[0] = b.GetVector(in)
					}
					b.SetVector(out, stages[n-1])
				}}
		}}).NewPart
}
