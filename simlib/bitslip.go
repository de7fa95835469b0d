// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simlib

import (
	"github.com/db47h/pcsgear/bitvec"
	"github.com/db47h/pcsgear/sim"
	"github.com/pkg/errors"
)

const wordBits = 32

// BitSlip returns a clocked 32-bit channel that delays the serial bitstream by
// n bits, as a transceiver with an arbitrary bit alignment would. The stream
// starts with n zero bits.
//
//	Inputs: in[32]
//	Outputs: out[32]
//
func BitSlip(n int) sim.NewPartFn {
	if n < 0 {
		panic(errors.Errorf("invalid bit slip %d", n))
	}
	return (&sim.PartSpec{
		Name:    "BitSlip",
		Inputs:  []sim.Port{{Name: pIn, Width: wordBits}},
		Outputs: []sim.Port{{Name: pOut, Width: wordBits}},
		Mount: func(s *sim.Socket) []sim.Component {
			in, out := s.Bus(pIn, wordBits), s.Bus(pOut, wordBits)
			fifo := bitvec.New(n)
			q := bitvec.New(wordBits)
			return []sim.Component{
				func(b *sim.Bench) {
					if b.AtTick() {
						fifo = append(fifo, b.GetVector(in)...)
						q = fifo[:wordBits:wordBits]
						fifo = append(bitvec.Vector(nil), fifo[wordBits:]...)
					}
					b.SetVector(out, q)
				}}
		}}).NewPart
}
