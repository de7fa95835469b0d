// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pcsgear

import (
	"github.com/db47h/pcsgear/bitvec"
)

// TxResult is the output of one TX gearbox cycle.
//
type TxResult struct {
	Data   bitvec.Vector // 32 bits
	Pause  bool
	Buffer bitvec.Vector // copy of the 66 bit buffer after the update
	Cycle  uint64        // cycle counter before the update
}

// TxModel is the reference model of the TX gearbox. It serializes 66-bit
// blocks, fed as a header + low data word on even counts and the high data
// word on odd counts, into a steady stream of 32-bit words.
//
// Once every Period cycles (count 32), the gearbox is paused: the input is not
// loaded and the driver must present the same data again on the next cycle.
// Drivers use FrameWord and Pause to decide what to feed next.
//
type TxModel struct {
	buf   bitvec.Vector
	cycle uint64
}

// NewTx returns a new TX gearbox model in its reset state.
//
func NewTx() *TxModel {
	return &TxModel{buf: bitvec.New(blockBits)}
}

// Count returns the gearbox sequence number of the next call to Next.
//
func (m *TxModel) Count() int { return int(m.cycle % Period) }

// Cycle returns the cycle counter.
//
func (m *TxModel) Cycle() uint64 { return m.cycle }

// Pause returns true if the next call to Next will not load its input.
//
func (m *TxModel) Pause() bool { return m.Count() == Period-1 }

// FrameWord returns true if the next call to Next expects the high data word
// of a block.
//
func (m *TxModel) FrameWord() bool { return m.Count()%2 == 1 }

// Next runs one gearbox cycle. header is only used on even counts. The
// returned data is the low word of the buffer as it was before this cycle's
// update. The cycle counter always advances, even when paused.
//
// Next panics if header is not 2 bits wide or data is not 32 bits wide.
//
func (m *TxModel) Next(header, data bitvec.Vector) TxResult {
	header.MustWidth("tx gearbox header", headerBits)
	data.MustWidth("tx gearbox input", wordBits)

	count := m.Count()
	r := TxResult{
		Data:  m.buf[:wordBits].Copy(),
		Pause: count == Period-1,
		Cycle: m.cycle,
	}

	copy(m.buf[:wordBits], m.buf[wordBits:2*wordBits])
	if !r.Pause {
		if count%2 == 0 {
			m.buf.Splice(count, header)
			m.buf.Splice(count+headerBits, data)
		} else {
			m.buf.Splice(count+1, data)
		}
	}

	r.Buffer = m.buf.Copy()
	m.cycle++
	return r
}

// NextWord is like Next with header and data given as integers, bit 0 first.
//
func (m *TxModel) NextWord(header uint8, data uint32) TxResult {
	return m.Next(bitvec.FromUint64(uint64(header), headerBits), bitvec.FromUint64(uint64(data), wordBits))
}
