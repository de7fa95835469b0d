// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package simtest provides utility functions for testing simulated parts.
//
package simtest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/pcsgear/sim"
)

// Model computes the outputs of a part for one clock cycle, given the inputs
// set for that cycle. Values are keyed by port name.
//
type Model func(in map[string]uint64) map[string]uint64

func mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(width) - 1
}

// CompareModel drives a clocked part with random stimulus for the given number
// of cycles and compares its outputs after each cycle with those of model.
// The first two cycles use all zero then all one inputs. Part ports must be at
// most 64 bits wide.
//
func CompareModel(t *testing.T, seed int64, cycles int, part sim.NewPartFn, model Model) {
	t.Helper()

	ps := part(nil).PartSpec // dummy part just to get to the partspec
	inputs := make(map[string]uint64, len(ps.Inputs))
	outputs := make(map[string]uint64, len(ps.Outputs))
	w := make(sim.W)

	var parts []sim.Part
	for _, p := range ps.Inputs {
		name := p.Name
		w[name] = name
		parts = append(parts, sim.Input(p.Width, func() uint64 { return inputs[name] })(sim.W{"out": name}))
	}
	for _, p := range ps.Outputs {
		name := p.Name
		w[name] = name
		parts = append(parts, sim.Output(p.Width, func(v uint64) { outputs[name] = v })(sim.W{"in": name}))
	}
	parts = append(parts, part(w))

	b, err := sim.NewBench(0, 4, parts...)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Dispose()

	errString := func(cycle int, exp map[string]uint64) string {
		var sb strings.Builder
		fmt.Fprintf(&sb, "\ncycle %d: inputs ", cycle)
		for i, p := range ps.Inputs {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s=%#x", p.Name, inputs[p.Name])
		}
		for _, p := range ps.Outputs {
			if exp[p.Name] != outputs[p.Name] {
				fmt.Fprintf(&sb, "\n%s: expected %#x, got %#x", p.Name, exp[p.Name], outputs[p.Name])
			}
		}
		return sb.String()
	}

	rnd := rand.New(rand.NewSource(seed))
	start := time.Now()

	for i := 0; i < cycles; i++ {
		for _, p := range ps.Inputs {
			var v uint64
			switch i {
			case 0:
			case 1:
				v = ^uint64(0)
			default:
				v = rnd.Uint64()
			}
			inputs[p.Name] = v & mask(p.Width)
		}
		in := make(map[string]uint64, len(inputs))
		for k, v := range inputs {
			in[k] = v
		}

		b.TickTock()
		exp := model(in)
		for _, p := range ps.Outputs {
			if exp[p.Name]&mask(p.Width) != outputs[p.Name] {
				t.Fatal(errString(i, exp))
			}
		}
	}

	elapsed := time.Since(start)
	t.Logf("%d components. %d steps in %v. %d clock ticks => %.2f Hz", b.Size(), b.Steps(), elapsed, b.Cycles(), float64(b.Cycles())/elapsed.Seconds())
}
