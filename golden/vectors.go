// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package golden holds golden test vectors for the 10GBASE-R data path and the
// helpers used to check a data stream against them.
//
// All tables are returned as fresh copies and may be modified by the caller.
//
package golden

import (
	"github.com/db47h/pcsgear/pcs"
	"github.com/pkg/errors"
)

// xgmii64 is an Ethernet frame over XGMII, from the IEEE 802.3 10GEPON study
// group example (thaler_1_0706).
var xgmii64 = []pcs.XGMII{
	{Ctl: 0xff, Data: 0x0707070707070707},
	{Ctl: 0x01, Data: 0xd5555555555555fb},
	{Ctl: 0x00, Data: 0x8b0e380577200008},
	{Ctl: 0x00, Data: 0x0045000800000000},
	{Ctl: 0x00, Data: 0x061b0000661c2800},
	{Ctl: 0x00, Data: 0x00004d590000d79e},
	{Ctl: 0x00, Data: 0x0000eb4a2839d168},
	{Ctl: 0x00, Data: 0x12500c7a00007730},
	{Ctl: 0x00, Data: 0x000000008462d21e},
	{Ctl: 0x00, Data: 0x79f7eb9300000000},
	{Ctl: 0xff, Data: 0x07070707070707fd},
	{Ctl: 0xff, Data: 0x0707070707070707},
}

// scrambled64 is the same frame 64b/66b encoded and scrambled. Block 0 sets
// the scrambler state.
var scrambled64 = []pcs.Block{
	{Header: pcs.HeaderCtrl, Payload: 0x7bfff0800000001e},
	{Header: pcs.HeaderCtrl, Payload: 0x623016aaaaad1578},
	{Header: pcs.HeaderData, Payload: 0x6a767c6ec581e108},
	{Header: pcs.HeaderData, Payload: 0x8df4aacc802830e6},
	{Header: pcs.HeaderData, Payload: 0x2cdb936dae49ee83},
	{Header: pcs.HeaderData, Payload: 0x74905a82db7046f3},
	{Header: pcs.HeaderData, Payload: 0xc57a251a6b79511e},
	{Header: pcs.HeaderData, Payload: 0x4aca440cd4bf1f41},
	{Header: pcs.HeaderData, Payload: 0x2c3f2db5d2122809},
	{Header: pcs.HeaderData, Payload: 0x320e33b3c8de9249},
	{Header: pcs.HeaderCtrl, Payload: 0xb599add7c83aa32a},
}

func checkWidth(width int) {
	if width != 32 && width != 64 {
		panic(errors.Errorf("no golden vectors for data width %d", width))
	}
}

// XGMII returns the golden XGMII sequence for a 32 or 64 bit wide interface.
// The 32-bit sequence transfers the low lanes of each 64-bit word first.
//
func XGMII(width int) []pcs.XGMII {
	checkWidth(width)
	if width == 64 {
		return append([]pcs.XGMII(nil), xgmii64...)
	}
	out := make([]pcs.XGMII, 0, 2*len(xgmii64))
	for _, w := range xgmii64 {
		s := pcs.Split32(w)
		out = append(out, s[0], s[1])
	}
	return out
}

// Scrambled returns the golden scrambled blocks matching XGMII(64). For a 32
// bit width, each block is returned as two entries carrying the block header
// and the low then high 32 bits of the payload.
//
func Scrambled(width int) []pcs.Block {
	checkWidth(width)
	if width == 64 {
		return append([]pcs.Block(nil), scrambled64...)
	}
	out := make([]pcs.Block, 0, 2*len(scrambled64))
	for _, b := range scrambled64 {
		out = append(out,
			pcs.Block{Header: b.Header, Payload: b.Payload & 0xffffffff},
			pcs.Block{Header: b.Header, Payload: b.Payload >> 32})
	}
	return out
}

// CRCVector is an Ethernet payload with its expected FCS.
//
type CRCVector struct {
	Payload []byte
	CRC     uint32
}

var crcVectors = []CRCVector{
	{
		Payload: []byte{
			0x00, 0x10, 0xA4, 0x7B, 0xEA, 0x80, 0x00, 0x12, 0x34, 0x56, 0x78, 0x90,
			0x08, 0x00, 0x45, 0x00, 0x00, 0x2E, 0xB3, 0xFE, 0x00, 0x00, 0x80, 0x11,
			0x05, 0x40, 0xC0, 0xA8, 0x00, 0x2C, 0xC0, 0xA8, 0x00, 0x04, 0x04, 0x00,
			0x04, 0x00, 0x00, 0x1A, 0x2D, 0xE8, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05,
			0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10, 0x11,
		},
		CRC: 0x1B8831B3,
	},
	{
		Payload: []byte{
			0x08, 0x00, 0x20, 0x77, 0x05, 0x38, 0x0e, 0x8b, 0x00, 0x00, 0x00, 0x00,
			0x08, 0x00, 0x45, 0x00, 0x00, 0x28, 0x1c, 0x66, 0x00, 0x00, 0x1b, 0x06,
			0x9e, 0xd7, 0x00, 0x00, 0x59, 0x4d, 0x00, 0x00, 0x68, 0xd1, 0x39, 0x28,
			0x4a, 0xeb, 0x00, 0x00, 0x30, 0x77, 0x00, 0x00, 0x7a, 0x0c, 0x50, 0x12,
			0x1e, 0xd2, 0x62, 0x84, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		},
		CRC: 0x79F7EB93,
	},
}

// CRCVectors returns the golden CRC payloads. The second one is the payload of
// the XGMII(64) frame.
//
func CRCVectors() []CRCVector {
	out := make([]CRCVector, len(crcVectors))
	for i, v := range crcVectors {
		out[i] = CRCVector{Payload: append([]byte(nil), v.Payload...), CRC: v.CRC}
	}
	return out
}

// Payloads returns a set of MAC payloads of various lengths, including runt
// payloads that need padding.
//
func Payloads() [][]byte {
	v := CRCVectors()
	return [][]byte{
		{0x00, 0x10, 0xA4, 0x7B, 0xEA},
		v[0].Payload,
		v[1].Payload,
		{
			0x08, 0xdd, 0x20, 0x77, 0x05, 0x38, 0x0e, 0x8b, 0xd3, 0xd4, 0xd5, 0xd6,
			0x08, 0xdd, 0x45, 0xdd, 0xdd, 0x28, 0x1c, 0x66, 0xd8, 0xda, 0x1b, 0x06,
			0x9e, 0xd7, 0x08, 0xdd, 0x20, 0x77, 0x05, 0x38, 0x0e, 0x8b, 0xd3, 0xd4,
			0xd5, 0xd6, 0x08, 0xdd, 0x45, 0xdd, 0xdd, 0x28, 0x1c, 0x66, 0xd8, 0xda,
			0x1b, 0x06, 0x9e, 0xd7, 0xd8,
		},
	}
}
