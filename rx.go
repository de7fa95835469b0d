// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pcsgear

import (
	"github.com/db47h/pcsgear/bitvec"
)

// Period is the length in cycles of a gearbox sequence: 33 32-bit words carry
// exactly 16 66-bit blocks.
//
const Period = 33

const (
	wordBits   = 32
	blockBits  = 66
	rxBufBits  = blockBits + 1 // extra bit mirrors bit 0 for half slips
	headerBits = 2
)

// rxDataIdx gives, for each gearbox count, the buffer offset where the
// incoming word is spliced. It encodes the bit ordering of the RX gearbox RTL
// and must not be rewritten as a formula.
//
var rxDataIdx = [Period]int{
	0, 32, 64, 30, 62, 28, 60, 26, 58, 24, 56, 22, 54, 20, 52, 18, 50,
	16, 48, 14, 46, 12, 44, 10, 42, 8, 40, 6, 38, 4, 36, 2, 34,
}

// RxResult is the output of one RX gearbox cycle.
//
type RxResult struct {
	Data        bitvec.Vector // 32 bits
	Header      bitvec.Vector // 2 bits
	DataValid   bool
	HeaderValid bool
	Buffer      bitvec.Vector // copy of the 67 bit buffer after the update
	Cycle       uint64        // cycle counter before the update
}

// RxModel is the reference model of the RX gearbox. It converts a stream of
// 32-bit words into 66-bit blocks, delivered as a header + low data word on
// odd counts and the high data word on the following even count. Count 0 of
// each period carries no data.
//
// A slip request consumes the current word without advancing the cycle
// counter and toggles a one bit offset applied to the output windows. Repeated
// slips walk through all 66 possible block alignments. With the odd offset,
// data bits 31 and 63 of the block completed at count 32 are read from buffer
// bits that are not refreshed yet and may be stale.
//
// The zero value is not usable; use NewRx.
//
type RxModel struct {
	buf      bitvec.Vector
	cycle    uint64
	halfSlip uint64
}

// NewRx returns a new RX gearbox model in its reset state.
//
func NewRx() *RxModel {
	return &RxModel{buf: bitvec.New(rxBufBits)}
}

// Count returns the gearbox sequence number of the next call to Next.
//
func (m *RxModel) Count() int { return int(m.cycle % Period) }

// Cycle returns the cycle counter.
//
func (m *RxModel) Cycle() uint64 { return m.cycle }

// HalfSlip returns the number of slips applied so far. Its parity selects the
// output window offset.
//
func (m *RxModel) HalfSlip() uint64 { return m.halfSlip }

// Next runs one gearbox cycle with the 32-bit input word in. If slip is true,
// the cycle counter is not advanced and the half slip parity is toggled for
// subsequent calls.
//
// Next panics if in is not 32 bits wide.
//
func (m *RxModel) Next(in bitvec.Vector, slip bool) RxResult {
	in.MustWidth("rx gearbox input", wordBits)

	count := m.Count()
	frameWord := count%2 == 0
	idx := rxDataIdx[count]

	for bit := 0; bit < blockBits; bit++ {
		if count%2 == 0 {
			if idx != 0 && bit >= idx {
				m.buf[bit] = in[bit-idx]
			} else if bit < wordBits-count {
				m.buf[bit] = in[count+bit]
			}
		} else if bit >= idx && bit < idx+wordBits {
			m.buf[bit] = in[bit-idx]
		}
	}
	m.buf[blockBits] = m.buf[0]

	// the odd window reads one bit further, up to the mirror bit.
	lo := 0
	if m.halfSlip%2 != 0 {
		lo = 1
	}
	r := RxResult{
		DataValid:   count != 0,
		HeaderValid: count%2 == 1,
		Header:      m.buf[lo : lo+headerBits].Copy(),
		Buffer:      m.buf.Copy(),
		Cycle:       m.cycle,
	}
	if frameWord {
		r.Data = m.buf[lo+34 : lo+34+wordBits].Copy()
	} else {
		r.Data = m.buf[lo+2 : lo+2+wordBits].Copy()
	}

	if slip {
		m.halfSlip++
	} else {
		m.cycle++
	}
	return r
}

// NextWord is like Next with the input given as an uint32, bit 0 first.
//
func (m *RxModel) NextWord(in uint32, slip bool) RxResult {
	return m.Next(bitvec.FromUint64(uint64(in), wordBits), slip)
}
