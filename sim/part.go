// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sim

import (
	"strconv"

	"github.com/pkg/errors"
)

// Constant net names. Inputs wired to these nets are tied low or high.
//
var (
	True  = "true"
	False = "false"
)

const (
	cstFalse = iota
	cstTrue
	cstCount
)

// A Component is a component in a bench that can Get and Set states.
//
type Component func(b *Bench)

// A MountFn mounts a part into socket s. MountFn's should query
// the socket for assigned pin numbers and return closures around
// these pin numbers.
//
// For example, a clocked inverter can be defined like this:
//
//	inv := &PartSpec{
//		Name:    "Inv",
//		Inputs:  Ports("in"),
//		Outputs: Ports("out"),
//		Mount: func(s *Socket) []Component {
//			in, out := s.Pin("in"), s.Pin("out")
//			var q bool
//			return []Component{func(b *Bench) {
//				if b.AtTick() {
//					q = !b.Get(in)
//				}
//				b.Set(out, q)
//			}}
//		}}
//
// Components must set all of their outputs on every step.
//
type MountFn func(s *Socket) []Component

// Port is a named part input or output. Ports wider than one bit are buses.
//
type Port struct {
	Name  string
	Width int
}

// Ports returns one bit ports with the given names.
//
func Ports(names ...string) []Port {
	ps := make([]Port, len(names))
	for i, n := range names {
		ps[i] = Port{n, 1}
	}
	return ps
}

// A PartSpec wraps a part specification (its blueprint).
//
type PartSpec struct {
	// Part name.
	Name string
	// Input ports. Must be distinct port names.
	Inputs []Port
	// Output ports. Must be distinct port names.
	Outputs []Port
	// Mount function (see MountFn).
	Mount MountFn
}

// W maps part port names to bench net names. A bus port wired to net "x"
// uses nets "x[0]", "x[1]", ... Unwired inputs are tied low and unwired
// outputs are left floating.
//
type W map[string]string

// NewPart wraps p with the given wiring into a Part.
//
func (p *PartSpec) NewPart(w W) Part {
	return Part{p, w}
}

// A NewPartFn is a function that takes a wiring and returns a new Part.
//
type NewPartFn func(w W) Part

// A Part wraps a part specification together with its wiring within a bench.
//
type Part struct {
	*PartSpec
	Wires W
}

func (p *Part) port(name string) (Port, bool) {
	for _, ps := range [][]Port{p.Inputs, p.Outputs} {
		for _, port := range ps {
			if port.Name == name {
				return port, true
			}
		}
	}
	return Port{}, false
}

func (p *Part) check() error {
	for k := range p.Wires {
		if _, ok := p.port(k); !ok {
			return errors.Errorf("part %s: no port named %q", p.Name, k)
		}
	}
	return nil
}

// BusPinName returns the name of bit n of a bus.
//
func BusPinName(name string, n int) string {
	return name + "[" + strconv.Itoa(n) + "]"
}

func pinName(name string, width, n int) string {
	if width == 1 {
		return name
	}
	return BusPinName(name, n)
}

// A Socket maps a part's port names to pin numbers in a bench.
//
type Socket struct {
	m map[string]int
}

// Pin returns the pin number allocated to the given one bit port.
// This function panics if the pin does not exist.
//
func (s *Socket) Pin(name string) int {
	n, ok := s.m[name]
	if !ok {
		panic(errors.Errorf("pin %s does not exist", name))
	}
	return n
}

// Bus returns the pin numbers allocated to the given bus port, lsb first.
//
func (s *Socket) Bus(name string, width int) []int {
	out := make([]int, width)
	for i := range out {
		out[i] = s.Pin(pinName(name, width, i))
	}
	return out
}
