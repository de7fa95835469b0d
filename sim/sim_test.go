// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sim_test

import (
	"math/rand"
	"testing"

	"github.com/db47h/pcsgear/sim"
	"github.com/pkg/errors"
)

const testSPC = 4

func trace(t *testing.T, err error) {
	t.Helper()
	if err, ok := err.(interface {
		StackTrace() errors.StackTrace
	}); ok {
		for _, f := range err.StackTrace() {
			t.Logf("%+v ", f)
		}
	}
}

// reg is a clocked register with a load enable.
func reg(width int) sim.NewPartFn {
	return (&sim.PartSpec{
		Name:    "Reg",
		Inputs:  []sim.Port{{Name: "in", Width: width}, {Name: "load", Width: 1}},
		Outputs: []sim.Port{{Name: "out", Width: width}},
		Mount: func(s *sim.Socket) []sim.Component {
			in, load, out := s.Bus("in", width), s.Pin("load"), s.Bus("out", width)
			var q uint64
			return []sim.Component{func(b *sim.Bench) {
				if b.AtTick() && b.Get(load) {
					q = b.GetBus(in)
				}
				b.SetBus(out, q)
			}}
		}}).NewPart
}

func TestRegister(t *testing.T) {
	var (
		in, out uint64
		load    bool
	)
	b, err := sim.NewBench(0, testSPC,
		sim.Input(16, func() uint64 { return in })(sim.W{"out": "d"}),
		sim.InputBit(func() bool { return load })(sim.W{"out": "ld"}),
		reg(16)(sim.W{"in": "d", "load": "ld", "out": "q"}),
		sim.Output(16, func(v uint64) { out = v })(sim.W{"in": "q"}),
	)
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	defer b.Dispose()

	rnd := rand.New(rand.NewSource(0))
	var p uint64
	for i := 0; i < 1000; i++ {
		in = uint64(rnd.Intn(1 << 16))
		load = rnd.Intn(2) != 0
		b.TickTock()
		if load {
			p = in
		}
		if out != p {
			t.Fatalf("cycle %d: expected out = %#x, got %#x", i, p, out)
		}
	}
	if b.Cycles() != 1000 {
		t.Fatalf("expected 1000 cycles, got %d", b.Cycles())
	}
}

func TestPipeline(t *testing.T) {
	var in, out uint64
	b, err := sim.NewBench(2, testSPC,
		sim.Input(8, func() uint64 { return in })(sim.W{"out": "a"}),
		reg(8)(sim.W{"in": "a", "load": sim.True, "out": "b"}),
		reg(8)(sim.W{"in": "b", "load": sim.True, "out": "c"}),
		reg(8)(sim.W{"in": "c", "load": sim.True, "out": "d"}),
		sim.Output(8, func(v uint64) { out = v })(sim.W{"in": "d"}),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Dispose()

	// three registers: the value set before cycle i shows up after cycle i+2.
	for i := uint64(1); i < 100; i++ {
		in = i
		b.TickTock()
		want := uint64(0)
		if i > 2 {
			want = i - 2
		}
		if out != want {
			t.Fatalf("cycle %d: expected %d, got %d", i, want, out)
		}
	}
}

func TestUnwired(t *testing.T) {
	var out uint64 = 1
	b, err := sim.NewBench(0, testSPC,
		reg(4)(sim.W{"in": sim.True, "out": "q"}), // load unwired: never loads
		sim.Output(4, func(v uint64) { out = v })(sim.W{"in": "q"}),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Dispose()
	b.TickTock()
	if out != 0 {
		t.Fatalf("expected 0, got %d", out)
	}
}

func TestWiringErrors(t *testing.T) {
	td := []struct {
		name  string
		parts []sim.Part
	}{
		{"empty", nil},
		{"unknown port", []sim.Part{reg(1)(sim.W{"inp": "x"})}},
		{"double drive", []sim.Part{
			reg(1)(sim.W{"out": "x"}),
			reg(1)(sim.W{"out": "x"}),
		}},
		{"constant output", []sim.Part{reg(1)(sim.W{"out": sim.False})}},
	}
	for _, d := range td {
		b, err := sim.NewBench(1, testSPC, d.parts...)
		if err == nil {
			b.Dispose()
			t.Fatalf("%s: expected error", d.name)
		}
	}
}

func TestClock(t *testing.T) {
	var ticks, tocks int
	b, err := sim.NewBench(1, 6, (&sim.PartSpec{
		Name: "edges",
		Mount: func(s *sim.Socket) []sim.Component {
			return []sim.Component{func(b *sim.Bench) {
				if b.AtTick() {
					if !b.Clk() {
						panic("rising edge with clock low")
					}
					ticks++
				}
				if b.AtTock() {
					tocks++
				}
			}}
		}}).NewPart(nil))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Dispose()

	if b.SPC() != 8 {
		t.Fatalf("expected SPC rounded to 8, got %d", b.SPC())
	}
	b.Tick()
	if ticks != 0 || !b.Clk() {
		t.Fatalf("after Tick: %d rising edges, clk = %v", ticks, b.Clk())
	}
	b.Tock()
	if ticks != 1 || b.Clk() || b.Steps() != 8 {
		t.Fatalf("after Tock: %d rising edges, clk = %v, %d steps", ticks, b.Clk(), b.Steps())
	}
	for i := 0; i < 9; i++ {
		b.TickTock()
	}
	if ticks != 10 || tocks != 10 || b.Cycles() != 10 {
		t.Fatalf("expected 10 edges, got %d/%d in %d cycles", ticks, tocks, b.Cycles())
	}
}

func TestRecorder(t *testing.T) {
	var in uint64
	r := sim.NewRecorder(70, 0)
	b, err := sim.NewBench(0, testSPC,
		sim.Input(35, func() uint64 { return in })(sim.W{"out": "lo"}),
		sim.Input(35, func() uint64 { return ^in })(sim.W{"out": "hi"}),
		r.Probe(sim.W{"in": "bus"}),
		// splice both halves onto the recorded bus
		(&sim.PartSpec{
			Name:    "Join",
			Inputs:  []sim.Port{{Name: "a", Width: 35}, {Name: "b", Width: 35}},
			Outputs: []sim.Port{{Name: "out", Width: 70}},
			Mount: func(s *sim.Socket) []sim.Component {
				a, bb, out := s.Bus("a", 35), s.Bus("b", 35), s.Bus("out", 70)
				return []sim.Component{func(b *sim.Bench) {
					b.SetVector(out, append(b.GetVector(a), b.GetVector(bb)...))
				}}
			}}).NewPart(sim.W{"a": "lo", "b": "hi", "out": "bus"}),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Dispose()

	for i := uint64(0); i < 20; i++ {
		in = i * 0x1234567
		b.TickTock()
	}
	if r.Len() != 20 {
		t.Fatalf("expected 20 samples, got %d", r.Len())
	}
	for i := 0; i < r.Len(); i++ {
		v := r.At(i)
		if len(v) != 70 {
			t.Fatalf("sample %d: expected 70 bits, got %d", i, len(v))
		}
		lo, hi := v[:35].Uint64(), v[35:].Uint64()
		want := uint64(i) * 0x1234567 & (1<<35 - 1)
		if lo != want || hi != ^want&(1<<35-1) {
			t.Fatalf("sample %d: expected %#x/%#x, got %#x/%#x", i, want, ^want&(1<<35-1), lo, hi)
		}
	}
	r.Reset()
	if r.Len() != 0 {
		t.Fatal("Reset did not discard samples")
	}
}

func TestRecorderDepth(t *testing.T) {
	var in uint64
	r := sim.NewRecorder(16, 5)
	b, err := sim.NewBench(0, testSPC,
		sim.Input(16, func() uint64 { return in })(sim.W{"out": "d"}),
		r.Probe(sim.W{"in": "d"}),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Dispose()

	for i := uint64(0); i < 23; i++ {
		in = i
		b.TickTock()
		if i < 5 && r.Len() != int(i)+1 {
			t.Fatalf("cycle %d: expected %d samples, got %d", i, i+1, r.Len())
		}
	}
	if r.Len() != 5 {
		t.Fatalf("expected 5 samples, got %d", r.Len())
	}
	for i := 0; i < r.Len(); i++ {
		if want := uint64(18 + i); r.Uint64(i) != want {
			t.Fatalf("sample %d: expected %d, got %d", i, want, r.Uint64(i))
		}
	}
	r.Reset()
	in = 99
	b.TickTock()
	if r.Len() != 1 || r.Uint64(0) != 99 {
		t.Fatalf("after Reset: expected one sample 99, got %d samples", r.Len())
	}
}
