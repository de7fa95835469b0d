// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package loopback

import (
	"fmt"

	"github.com/db47h/pcsgear"
	"github.com/db47h/pcsgear/pcs"
	"github.com/db47h/pcsgear/sim"
	"github.com/db47h/pcsgear/simlib"
)

// bench is a TX gearbox looped back into an RX gearbox through a bit slipping
// channel, with its TX driver and RX monitor.
//
type bench struct {
	*sim.Bench
	lock  *pcsgear.BlockLock
	trace *sim.Recorder // channel output

	// TX driver
	src       func() pcs.XGMII
	scr       pcs.Scrambler
	txBlock   pcs.Block
	txHeader  uint64
	txData    uint64
	pause     bool
	frameWord bool

	// RX monitor
	rxData, rxHeader uint64
	dv, hv, locked   bool
	rxBlock          pcs.Block
	half             bool
	primed           bool
	descr            pcs.Descrambler
	sink             func(b pcs.Block, w pcs.XGMII) error
	blocks           int
}

// traceDepth is the number of channel words kept for failure reports.
const traceDepth = 8

func newBench(slip int) (*bench, error) {
	t := &bench{lock: pcsgear.NewBlockLock(), trace: sim.NewRecorder(32, traceDepth)}
	b, err := sim.NewBench(1, 4,
		sim.Input(2, func() uint64 { return t.txHeader })(sim.W{"out": "tx_header"}),
		sim.Input(32, func() uint64 { return t.txData })(sim.W{"out": "tx_data"}),
		simlib.TxGearbox(pcsgear.NewTx())(sim.W{
			"header": "tx_header", "data": "tx_data", "out": "tx",
			"pause": "tx_pause", "frame_word": "tx_frame_word"}),
		sim.OutputBit(func(v bool) { t.pause = v })(sim.W{"in": "tx_pause"}),
		sim.OutputBit(func(v bool) { t.frameWord = v })(sim.W{"in": "tx_frame_word"}),

		simlib.BitSlip(slip)(sim.W{"in": "tx", "out": "rx"}),
		t.trace.Probe(sim.W{"in": "rx"}),

		simlib.RxLock(pcsgear.NewRx(), t.lock)(sim.W{
			"in": "rx", "data": "rx_data", "header": "rx_header",
			"data_valid": "rx_dv", "header_valid": "rx_hv", "locked": "rx_locked"}),
		sim.Output(32, func(v uint64) { t.rxData = v })(sim.W{"in": "rx_data"}),
		sim.Output(2, func(v uint64) { t.rxHeader = v })(sim.W{"in": "rx_header"}),
		sim.OutputBit(func(v bool) { t.dv = v })(sim.W{"in": "rx_dv"}),
		sim.OutputBit(func(v bool) { t.hv = v })(sim.W{"in": "rx_hv"}),
		sim.OutputBit(func(v bool) { t.locked = v })(sim.W{"in": "rx_locked"}),
	)
	if err != nil {
		return nil, err
	}
	t.Bench = b
	t.src = pcs.IdleWord
	return t, nil
}

// drive sets the TX inputs for the next cycle. A new block is fetched on low
// word cycles. Inputs are held during the pause cycle.
//
func (t *bench) drive() {
	if t.pause {
		return
	}
	if !t.frameWord {
		t.txBlock = t.scr.Scramble(pcs.Encode(t.src()))
		t.txHeader = uint64(t.txBlock.Header)
		t.txData = t.txBlock.Payload & 0xffffffff
		return
	}
	t.txData = t.txBlock.Payload >> 32
}

// monitor assembles received blocks once locked. The first block after lock
// primes the descrambler.
//
func (t *bench) monitor() error {
	if !t.locked {
		t.half, t.primed = false, false
		return nil
	}
	switch {
	case t.hv:
		t.rxBlock = pcs.Block{Header: uint8(t.rxHeader), Payload: t.rxData}
		t.half = true
		return nil
	case !t.dv || !t.half:
		return nil
	}
	t.half = false
	t.rxBlock.Payload |= t.rxData << 32
	if !t.primed {
		t.descr.Prime(t.rxBlock)
		t.primed = true
		return nil
	}
	t.blocks++
	b := t.descr.Descramble(t.rxBlock)
	w := pcs.Decode(b)
	if t.sink == nil {
		return nil
	}
	return t.sink(b, w)
}

// cycle runs one clock cycle.
//
func (t *bench) cycle() error {
	t.drive()
	t.TickTock()
	return t.monitor()
}

// tail returns the last n channel words, oldest first.
//
func (t *bench) tail(n int) []string {
	if n > t.trace.Len() {
		n = t.trace.Len()
	}
	out := make([]string, 0, n)
	for i := t.trace.Len() - n; i < t.trace.Len(); i++ {
		out = append(out, fmt.Sprintf("%08x", t.trace.Uint64(i)))
	}
	return out
}
