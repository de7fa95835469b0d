// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package sim is a cycle based logic simulator used as a test bench for the
// gearbox models.
//
// A Bench holds two frames of wire states. Each step, all components read the
// current frame and write the next one, then frames are swapped. Components
// are spread over a pool of worker goroutines; since they only communicate
// through wires, the evaluation order within a step does not matter.
//
// A clock cycle is a fixed number of steps. The first half of a cycle has the
// clock low, the second half has it high. Clocked parts sample their inputs
// on the rising edge (AtTick), so that a chain of clocked parts behaves like
// a register pipeline.
//
package sim

import (
	"runtime"
	"sync"

	"github.com/db47h/pcsgear/bitvec"
	"github.com/pkg/errors"
)

// Bench is a runnable circuit simulation.
//
type Bench struct {
	s0    []bool // wire states frame #0
	s1    []bool // wire states frame #1
	cs    []Component
	count int  // wire count
	tpc   uint // ticks per clock cycle
	tick  uint

	nets   map[string]int
	driven map[int]string

	wc []chan struct{}
	wg sync.WaitGroup
}

// NewBench builds a new bench based on the given parts.
//
// workers is the number of goroutines used to update the state of the Bench
// each step of the simulation. If less or equal to 0, the value of GOMAXPROCS
// will be used.
//
// stepsPerCycle indicates how many simulation steps to run per clock cycle.
// It is rounded up to a power of two, with a minimum of 4 so that outputs of
// clocked parts settle within the clock high half.
//
// Callers must make sure to call Dispose() once the bench is no longer needed
// in order to release allocated resources.
//
func NewBench(workers int, stepsPerCycle uint, parts ...Part) (*Bench, error) {
	if len(parts) == 0 {
		return nil, errors.New("empty part list")
	}

	if stepsPerCycle < 4 {
		stepsPerCycle = 4
	}
	stepsPerCycle--
	stepsPerCycle |= stepsPerCycle >> 1
	stepsPerCycle |= stepsPerCycle >> 2
	stepsPerCycle |= stepsPerCycle >> 4
	stepsPerCycle |= stepsPerCycle >> 8
	stepsPerCycle |= stepsPerCycle >> 16
	stepsPerCycle |= stepsPerCycle >> 32
	stepsPerCycle++

	// new bench with room for constant value pins.
	b := &Bench{
		count:  cstCount,
		tpc:    stepsPerCycle,
		nets:   map[string]int{False: cstFalse, True: cstTrue},
		driven: make(map[int]string),
	}
	for i := range parts {
		cs, err := b.mount(&parts[i])
		if err != nil {
			return nil, err
		}
		b.cs = append(b.cs, cs...)
	}
	b.cs = append(b.cs, checkConstants)
	b.s0 = make([]bool, b.count)
	b.s1 = make([]bool, b.count)
	b.s0[cstTrue] = true
	b.s1[cstTrue] = true

	// workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	if workers <= 0 {
		workers = 1
	}
	ups := b.cs
	for len(ups) > 0 {
		size := len(ups) / workers
		if size*workers < len(ups) {
			size++
		}
		wc := make(chan struct{}, 1)
		b.wc = append(b.wc, wc)
		go worker(b, ups[:size], wc)
		ups = ups[size:]
	}

	return b, nil
}

func (b *Bench) mount(p *Part) ([]Component, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	s := &Socket{m: make(map[string]int)}
	for _, port := range p.Inputs {
		net, wired := p.Wires[port.Name]
		for i := 0; i < port.Width; i++ {
			pin := cstFalse
			switch {
			case !wired:
			case net == False || net == True:
				pin = b.nets[net]
			default:
				pin = b.net(pinName(net, port.Width, i))
			}
			s.m[pinName(port.Name, port.Width, i)] = pin
		}
	}
	for _, port := range p.Outputs {
		net, wired := p.Wires[port.Name]
		if net == False || net == True {
			return nil, errors.Errorf("part %s: output %s wired to constant %s", p.Name, port.Name, net)
		}
		for i := 0; i < port.Width; i++ {
			var pin int
			if wired {
				name := pinName(net, port.Width, i)
				pin = b.net(name)
				if d, ok := b.driven[pin]; ok {
					return nil, errors.Errorf("net %s driven by both %s and %s", name, d, p.Name)
				}
				b.driven[pin] = p.Name
			} else {
				pin = b.allocPin()
			}
			s.m[pinName(port.Name, port.Width, i)] = pin
		}
	}
	return p.Mount(s), nil
}

func checkConstants(b *Bench) {
	if b.s0[cstFalse] || !b.s0[cstTrue] {
		panic("true or false constants have been overwritten")
	}
}

// Dispose releases all resources allocated for a bench and stops
// worker goroutines.
//
func (b *Bench) Dispose() {
	b.wg.Add(len(b.wc))
	for _, wc := range b.wc {
		close(wc)
	}
	b.wg.Wait()
}

func worker(b *Bench, cs []Component, wc <-chan struct{}) {
	for {
		_, ok := <-wc
		if !ok {
			b.wg.Done()
			return
		}
		for _, f := range cs {
			f(b)
		}
		b.wg.Done()
	}
}

func (b *Bench) allocPin() int {
	cnt := b.count
	b.count++
	return cnt
}

// net returns the pin number of a named net, allocating it if needed.
func (b *Bench) net(name string) int {
	n, ok := b.nets[name]
	if !ok {
		n = b.allocPin()
		b.nets[name] = n
	}
	return n
}

// Net returns the pin number of a named net.
//
func (b *Bench) Net(name string) (int, bool) {
	n, ok := b.nets[name]
	return n, ok
}

// Steps returns the value of the step counter.
//
func (b *Bench) Steps() uint {
	return b.tick
}

// SPC returns the stepsPerCycle value.
//
func (b *Bench) SPC() uint {
	return b.tpc
}

// Cycles returns the number of complete clock cycles run so far.
//
func (b *Bench) Cycles() uint64 {
	return uint64(b.tick / b.tpc)
}

// Clk returns the state of the clock for the current step.
//
func (b *Bench) Clk() bool {
	return b.tick&(b.tpc-1) >= b.tpc/2
}

// AtTick returns true if the current step is the rising edge of the clock.
// Clocked components sample their inputs during that step.
//
func (b *Bench) AtTick() bool {
	return b.tick&(b.tpc-1) == b.tpc/2
}

// AtTock returns true if the current step is the falling edge of the clock.
//
func (b *Bench) AtTock() bool {
	return b.tick&(b.tpc-1) == 0
}

// Get returns the state of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (b *Bench) Get(n int) bool {
	return b.s0[n]
}

// Set sets the state s of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (b *Bench) Set(n int, s bool) {
	b.s1[n] = s
}

// Toggle toggles the state of pin n.
//
func (b *Bench) Toggle(n int) {
	b.s1[n] = !b.s0[n]
}

// GetBus returns the state of pins as an integer. Pin 0 is lsb.
//
func (b *Bench) GetBus(pins []int) uint64 {
	var out uint64
	for bit, n := range pins {
		if b.s0[n] {
			out |= 1 << uint(bit)
		}
	}
	return out
}

// SetBus sets pins to the given value. Pin 0 is lsb.
//
func (b *Bench) SetBus(pins []int, v uint64) {
	for bit, n := range pins {
		b.s1[n] = v&(1<<uint(bit)) != 0
	}
}

// GetVector returns the state of pins as a bit vector.
//
func (b *Bench) GetVector(pins []int) bitvec.Vector {
	out := make(bitvec.Vector, len(pins))
	for i, n := range pins {
		out[i] = b.s0[n]
	}
	return out
}

// SetVector sets pins to the bits of v. It panics if the widths differ.
//
func (b *Bench) SetVector(pins []int, v bitvec.Vector) {
	v.MustWidth("bus", len(pins))
	for i, n := range pins {
		b.s1[n] = v[i]
	}
}

// Step advances the simulation by one step.
//
func (b *Bench) Step() {
	b.wg.Add(len(b.wc))
	for _, wc := range b.wc {
		wc <- struct{}{}
	}

	b.wg.Wait()
	b.tick++
	b.s0, b.s1 = b.s1, b.s0
}

// Tick runs the simulation until the rising edge of the clock. Inputs set
// before calling Tick have settled when it returns.
//
func (b *Bench) Tick() {
	for !b.Clk() {
		b.Step()
	}
}

// Tock runs the rising edge and the high half of the clock cycle. Once Tock
// returns, the outputs of clocked components have stabilized.
//
func (b *Bench) Tock() {
	for b.Clk() {
		b.Step()
	}
}

// TickTock runs the simulation for a whole clock cycle.
//
func (b *Bench) TickTock() {
	b.Tick()
	b.Tock()
}

// Size returns the component count in the bench.
//
func (b *Bench) Size() int { return len(b.cs) }
