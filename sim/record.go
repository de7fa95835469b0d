// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sim

import (
	"strconv"

	"github.com/db47h/pcsgear/bitvec"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/go-bitfield"
)

// Recorder captures the state of a bus once per clock cycle, on the rising
// edge. Samples are stored packed. A Recorder with a non-zero depth only keeps
// the last depth samples.
//
type Recorder struct {
	width   int
	depth   int
	head    int // oldest sample once full
	samples []bitfield.Bitlist
}

// NewRecorder returns a new Recorder for a bus of the given width that keeps
// the last depth samples. If depth is 0, all samples are kept.
//
func NewRecorder(width, depth int) *Recorder {
	if width < 1 || depth < 0 {
		panic(errors.Errorf("invalid recorder %dx%d", width, depth))
	}
	return &Recorder{width: width, depth: depth}
}

func (r *Recorder) record(v bitfield.Bitlist) {
	if r.depth == 0 || len(r.samples) < r.depth {
		r.samples = append(r.samples, v)
		return
	}
	r.samples[r.head] = v
	r.head = (r.head + 1) % r.depth
}

// Probe returns a part that records its "in" bus into r.
//
//	Inputs: in[width]
//
func (r *Recorder) Probe(w W) Part {
	return (&PartSpec{
		Name:   "Recorder" + strconv.Itoa(r.width),
		Inputs: []Port{{pIn, r.width}},
		Mount: func(s *Socket) []Component {
			pins := s.Bus(pIn, r.width)
			return []Component{func(b *Bench) {
				if b.AtTick() {
					r.record(b.GetVector(pins).Pack())
				}
			}}
		}}).NewPart(w)
}

// Width returns the bus width.
//
func (r *Recorder) Width() int { return r.width }

// Len returns the number of samples available.
//
func (r *Recorder) Len() int { return len(r.samples) }

// At returns sample i, 0 being the oldest available sample.
//
func (r *Recorder) At(i int) bitvec.Vector {
	if i < 0 || i >= len(r.samples) {
		panic(errors.Errorf("sample %d out of range [0:%d]", i, len(r.samples)))
	}
	return bitvec.Unpack(r.samples[(r.head+i)%len(r.samples)])
}

// Uint64 returns sample i as an integer. It panics if the bus is wider than
// 64 bits.
//
func (r *Recorder) Uint64(i int) uint64 {
	return r.At(i).Uint64()
}

// Reset discards all samples.
//
func (r *Recorder) Reset() { r.samples, r.head = r.samples[:0], 0 }
