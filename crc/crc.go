// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package crc implements reference models of the Ethernet frame check sequence
// (CRC-32, IEEE 802.3).
//
// Three models of the same function are provided: a bit serial LFSR, a byte
// table and a multi-lane engine consuming one word per clock cycle with a byte
// valid mask, as the parallel CRC hardware does.
//
package crc

import (
	"github.com/pkg/errors"
)

const (
	// Polynomial is the reflected CRC-32 polynomial.
	Polynomial = 0xEDB88320
	// Init is the initial LFSR value.
	Init = 0xFFFFFFFF
	// Residue is the checksum of any frame followed by its own FCS.
	Residue = 0x2144DF1C
)

var table = makeTable()

func makeTable() *[256]uint32 {
	var t [256]uint32
	for i := range t {
		var s Serial
		s.state = uint32(i)
		for bit := 0; bit < 8; bit++ {
			s.Clock(false)
		}
		t[i] = s.state
	}
	return &t
}

// Serial is a bit serial CRC-32 LFSR. Bits are clocked in lsb first.
//
type Serial struct {
	state uint32
}

// NewSerial returns a Serial LFSR in its initial state.
//
func NewSerial() *Serial {
	return &Serial{state: Init}
}

// Clock shifts one bit into the LFSR.
//
func (s *Serial) Clock(bit bool) {
	fb := (s.state&1 != 0) != bit
	s.state >>= 1
	if fb {
		s.state ^= Polynomial
	}
}

// WriteByte clocks the 8 bits of b, lsb first. It never fails.
//
func (s *Serial) WriteByte(b byte) error {
	for bit := uint(0); bit < 8; bit++ {
		s.Clock(b&(1<<bit) != 0)
	}
	return nil
}

// Sum32 returns the current checksum.
//
func (s *Serial) Sum32() uint32 { return ^s.state }

func update(crc uint32, p []byte) uint32 {
	for _, b := range p {
		crc = table[byte(crc)^b] ^ (crc >> 8)
	}
	return crc
}

// Checksum returns the CRC-32 of data.
//
func Checksum(data []byte) uint32 {
	return ^update(Init, data)
}

// Valid returns true if frame, which must end with its little endian FCS,
// has a correct checksum.
//
func Valid(frame []byte) bool {
	return len(frame) >= 4 && Checksum(frame) == Residue
}

// Append appends the little endian FCS of frame to frame.
//
func Append(frame []byte) []byte {
	c := Checksum(frame)
	return append(frame, byte(c), byte(c>>8), byte(c>>16), byte(c>>24))
}

// Lanes is a parallel CRC engine with a data path of Width bytes. Each call to
// Update is one clock cycle.
//
type Lanes struct {
	width int
	state uint32
}

// NewLanes returns a new CRC engine with a data path of width bytes. Width
// must be between 1 and 8.
//
func NewLanes(width int) *Lanes {
	if width < 1 || width > 8 {
		panic(errors.Errorf("invalid CRC data path width %d", width))
	}
	return &Lanes{width: width, state: Init}
}

// Width returns the data path width in bytes.
//
func (l *Lanes) Width() int { return l.width }

// Update consumes one data word. Byte lane i is bits [8i, 8i+8) of word and is
// taken into account only if bit i of valid is set. Lanes are processed in
// increasing order.
//
func (l *Lanes) Update(word uint64, valid uint8) {
	for i := 0; i < l.width; i++ {
		if valid&(1<<uint(i)) == 0 {
			continue
		}
		b := byte(word >> (8 * uint(i)))
		l.state = table[byte(l.state)^b] ^ (l.state >> 8)
	}
}

// Sum32 returns the checksum of all data consumed since the last Reset.
//
func (l *Lanes) Sum32() uint32 { return ^l.state }

// Reset sets the engine back to its initial state.
//
func (l *Lanes) Reset() { l.state = Init }
