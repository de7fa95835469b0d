// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sim

import (
	"strconv"

	"github.com/pkg/errors"
)

const (
	pIn  = "in"
	pOut = "out"
)

func checkWidth(width int) {
	if width < 1 || width > 64 {
		panic(errors.Errorf("invalid bus width %d", width))
	}
}

// InputBit creates a function based 1 bit input.
//
//	Outputs: out
//	Function: out = f()
//
func InputBit(f func() bool) NewPartFn {
	p := &PartSpec{
		Name:    "Input",
		Outputs: Ports(pOut),
		Mount: func(s *Socket) []Component {
			pin := s.Pin(pOut)
			return []Component{
				func(b *Bench) {
					b.Set(pin, f())
				},
			}
		},
	}
	return p.NewPart
}

// OutputBit creates a 1 bit output or probe. The fn function is called with
// the pin state on every step.
//
//	Inputs: in
//	Function: f(in)
//
func OutputBit(f func(bool)) NewPartFn {
	p := &PartSpec{
		Name:   "Output",
		Inputs: Ports(pIn),
		Mount: func(s *Socket) []Component {
			in := s.Pin(pIn)
			return []Component{
				func(b *Bench) { f(b.Get(in)) },
			}
		},
	}
	return p.NewPart
}

// Input creates an input bus of the given width, up to 64 bits.
//
//	Outputs: out[width]
//	Function: out = f()
//
func Input(width int, f func() uint64) NewPartFn {
	checkWidth(width)
	return (&PartSpec{
		Name:    "INPUT" + strconv.Itoa(width),
		Outputs: []Port{{pOut, width}},
		Mount: func(s *Socket) []Component {
			pins := s.Bus(pOut, width)
			return []Component{func(b *Bench) {
				b.SetBus(pins, f())
			}}
		}}).NewPart
}

// Output creates an output bus probe of the given width, up to 64 bits. f is
// called on every step.
//
//	Inputs: in[width]
//	Function: f(in)
//
func Output(width int, f func(uint64)) NewPartFn {
	checkWidth(width)
	return (&PartSpec{
		Name:   "OUTPUT" + strconv.Itoa(width),
		Inputs: []Port{{pIn, width}},
		Mount: func(s *Socket) []Component {
			pins := s.Bus(pIn, width)
			return []Component{func(b *Bench) {
				f(b.GetBus(pins))
			}}
		}}).NewPart
}
