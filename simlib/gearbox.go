// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simlib

import (
	"github.com/db47h/pcsgear"
	"github.com/db47h/pcsgear/bitvec"
	"github.com/db47h/pcsgear/sim"
)

// gearbox pin names
const (
	pHeader      = "header"
	pData        = "data"
	pPause       = "pause"
	pFrameWord   = "frame_word"
	pSeq         = "seq"
	pSlip        = "slip"
	pDataValid   = "data_valid"
	pHeaderValid = "header_valid"
	pLocked      = "locked"
)

const seqBits = 6

var rxOutputs = []sim.Port{
	{Name: pData, Width: wordBits},
	{Name: pHeader, Width: 2},
	{Name: pDataValid, Width: 1},
	{Name: pHeaderValid, Width: 1},
}

// TxGearbox wraps a TX gearbox model into a clocked part. The model is
// advanced once per rising edge.
//
// The pause, frame_word and seq outputs reflect the model state for the next
// cycle, so that a driver can decide what to feed before the next edge. out is
// the data word produced on the last edge.
//
//	Inputs: header[2], data[32]
//	Outputs: out[32], pause, frame_word, seq[6]
//
func TxGearbox(m *pcsgear.TxModel) sim.NewPartFn {
	return (&sim.PartSpec{
		Name:   "TxGearbox",
		Inputs: []sim.Port{{Name: pHeader, Width: 2}, {Name: pData, Width: wordBits}},
		Outputs: []sim.Port{
			{Name: pOut, Width: wordBits},
			{Name: pPause, Width: 1},
			{Name: pFrameWord, Width: 1},
			{Name: pSeq, Width: seqBits},
		},
		Mount: func(s *sim.Socket) []sim.Component {
			header, data := s.Bus(pHeader, 2), s.Bus(pData, wordBits)
			out, pause, fw, seq := s.Bus(pOut, wordBits), s.Pin(pPause), s.Pin(pFrameWord), s.Bus(pSeq, seqBits)
			q := bitvec.New(wordBits)
			return []sim.Component{
				func(b *sim.Bench) {
					if b.AtTick() {
						q = m.Next(b.GetVector(header), b.GetVector(data)).Data
					}
					b.SetVector(out, q)
					b.Set(pause, m.Pause())
					b.Set(fw, m.FrameWord())
					b.SetBus(seq, uint64(m.Count()))
				}}
		}}).NewPart
}

type rxOut struct {
	data, header bitvec.Vector
	dv, hv       bool
}

type rxPins struct {
	data, header []int
	dv, hv       int
}

func newRxPins(s *sim.Socket) rxPins {
	return rxPins{s.Bus(pData, wordBits), s.Bus(pHeader, 2), s.Pin(pDataValid), s.Pin(pHeaderValid)}
}

func (p *rxPins) set(b *sim.Bench, o *rxOut) {
	b.SetVector(p.data, o.data)
	b.SetVector(p.header, o.header)
	b.Set(p.dv, o.dv)
	b.Set(p.hv, o.hv)
}

// RxGearbox wraps an RX gearbox model into a clocked part. The model is
// advanced once per rising edge with the slip input.
//
//	Inputs: in[32], slip
//	Outputs: data[32], header[2], data_valid, header_valid
//
func RxGearbox(m *pcsgear.RxModel) sim.NewPartFn {
	return (&sim.PartSpec{
		Name:    "RxGearbox",
		Inputs:  []sim.Port{{Name: pIn, Width: wordBits}, {Name: pSlip, Width: 1}},
		Outputs: rxOutputs,
		Mount: func(s *sim.Socket) []sim.Component {
			in, slip, pins := s.Bus(pIn, wordBits), s.Pin(pSlip), newRxPins(s)
			o := rxOut{data: bitvec.New(wordBits), header: bitvec.New(2)}
			return []sim.Component{
				func(b *sim.Bench) {
					if b.AtTick() {
						r := m.Next(b.GetVector(in), b.Get(slip))
						o = rxOut{r.Data, r.Header, r.DataValid, r.HeaderValid}
					}
					pins.set(b, &o)
				}}
		}}).NewPart
}

// RxLock wraps an RX gearbox model and a block lock state machine into a
// clocked part. The slip requests of the lock state machine are fed back into
// the gearbox on the next edge. The valid outputs are cleared on slipping
// cycles.
//
//	Inputs: in[32]
//	Outputs: data[32], header[2], data_valid, header_valid, locked, slip
//
func RxLock(m *pcsgear.RxModel, l *pcsgear.BlockLock) sim.NewPartFn {
	return (&sim.PartSpec{
		Name:    "RxLock",
		Inputs:  []sim.Port{{Name: pIn, Width: wordBits}},
		Outputs: append(append([]sim.Port(nil), rxOutputs...), sim.Ports(pLocked, pSlip)...),
		Mount: func(s *sim.Socket) []sim.Component {
			in, locked, slipPin, pins := s.Bus(pIn, wordBits), s.Pin(pLocked), s.Pin(pSlip), newRxPins(s)
			o := rxOut{data: bitvec.New(wordBits), header: bitvec.New(2)}
			var slip bool
			return []sim.Component{
				func(b *sim.Bench) {
					if b.AtTick() {
						r := m.Next(b.GetVector(in), slip)
						slipped := slip
						slip = l.Next(r)
						o = rxOut{r.Data, r.Header, r.DataValid && !slipped, r.HeaderValid && !slipped}
					}
					pins.set(b, &o)
					b.Set(locked, l.Locked())
					b.Set(slipPin, slip)
				}}
		}}).NewPart
}
