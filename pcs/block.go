// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package pcs implements the 64b/66b block encoding and the self-synchronous
// scrambler of the 10GBASE-R physical coding sublayer.
//
package pcs

import (
	"fmt"
)

// Sync headers, bit 0 first on the wire.
const (
	HeaderCtrl = 0x1 // 01
	HeaderData = 0x2 // 10
)

// Block type fields.
const (
	TypeIdle   = 0x1E // C0..C7
	TypeStart0 = 0x78 // S0 D1..D7
	TypeStart4 = 0x33 // C0..C3 S4 D5..D7
)

// terminate block types, indexed by the lane of the terminate character.
var typeTerm = [8]byte{0x87, 0x99, 0xAA, 0xB4, 0xCC, 0xD2, 0xE1, 0xFF}

// 7 bit control codes
const (
	codeIdle  = 0x00
	codeError = 0x1E
)

// Block is a 66-bit PCS block.
//
type Block struct {
	Header  uint8
	Payload uint64
}

func (b Block) String() string {
	return fmt.Sprintf("%02b:%016x", b.Header, b.Payload)
}

func ctlCode(c byte) uint64 {
	switch c {
	case Idle:
		return codeIdle
	default:
		return codeError
	}
}

func ctlChar(code uint64) byte {
	switch code & 0x7f {
	case codeIdle:
		return Idle
	default:
		return Error
	}
}

// Encode encodes a 64-bit XGMII word into a 66-bit block. Control patterns
// that have no block type encode as an error block.
//
func Encode(w XGMII) Block {
	if w.Ctl == 0 {
		return Block{Header: HeaderData, Payload: w.Data}
	}
	b := Block{Header: HeaderCtrl}
	lane := func(i int) byte { c, _ := w.Lane(i); return c }

	switch {
	case w.Ctl == 0x01 && lane(0) == Start:
		b.Payload = w.Data&^0xff | TypeStart0
		return b
	case w.Ctl == 0x1f && lane(4) == Start && !hasChar(w, 0, 4, Start, Terminate):
		b.Payload = TypeStart4
		for i := 0; i < 4; i++ {
			b.Payload |= ctlCode(lane(i)) << uint(8+7*i)
		}
		b.Payload |= w.Data >> 40 << 40
		return b
	case w.Ctl == 0xff && !hasChar(w, 0, 8, Start, Terminate):
		b.Payload = TypeIdle
		for i := 0; i < 8; i++ {
			b.Payload |= ctlCode(lane(i)) << uint(8+7*i)
		}
		return b
	}

	for k := 0; k < 8; k++ {
		if w.Ctl != 0xff<<uint(k)&0xff || lane(k) != Terminate || hasChar(w, k+1, 8, Start, Terminate) {
			continue
		}
		b.Payload = uint64(typeTerm[k])
		if k > 0 {
			b.Payload |= (w.Data & (1<<(8*uint(k)) - 1)) << 8
		}
		off := uint(15 + 7*k)
		for i := k + 1; i < 8; i++ {
			b.Payload |= ctlCode(lane(i)) << off
			off += 7
		}
		return b
	}

	return Encode(ErrorWord())
}

// hasChar returns true if any of lanes [from, to) of w is one of chars.
func hasChar(w XGMII, from, to int, chars ...byte) bool {
	for i := from; i < to; i++ {
		c, _ := w.Lane(i)
		for _, x := range chars {
			if c == x {
				return true
			}
		}
	}
	return false
}

// Decode decodes a 66-bit block. Blocks with an invalid sync header or block
// type decode as a word of error characters.
//
func Decode(b Block) XGMII {
	switch b.Header {
	case HeaderData:
		return XGMII{Data: b.Payload}
	case HeaderCtrl:
	default:
		return ErrorWord()
	}

	p := b.Payload
	switch byte(p) {
	case TypeIdle:
		w := XGMII{Ctl: 0xff}
		for i := 0; i < 8; i++ {
			w.Data |= uint64(ctlChar(p>>uint(8+7*i))) << (8 * uint(i))
		}
		return w
	case TypeStart0:
		return XGMII{Ctl: 0x01, Data: p&^0xff | Start}
	case TypeStart4:
		w := XGMII{Ctl: 0x1f, Data: p >> 40 << 40}
		for i := 0; i < 4; i++ {
			w.Data |= uint64(ctlChar(p>>uint(8+7*i))) << (8 * uint(i))
		}
		w.Data |= Start << 32
		return w
	}

	for k, t := range typeTerm {
		if byte(p) != t {
			continue
		}
		w := XGMII{Ctl: 0xff << uint(k) & 0xff}
		if k > 0 {
			w.Data = p >> 8 & (1<<(8*uint(k)) - 1)
		}
		w.Data |= Terminate << (8 * uint(k))
		off := uint(15 + 7*k)
		for i := k + 1; i < 8; i++ {
			w.Data |= uint64(ctlChar(p>>off)) << (8 * uint(i))
			off += 7
		}
		return w
	}
	return ErrorWord()
}
