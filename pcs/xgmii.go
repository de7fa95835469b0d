// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pcs

import (
	"fmt"
)

// XGMII control characters.
const (
	Idle      = 0x07
	Start     = 0xFB
	Terminate = 0xFD
	Error     = 0xFE
)

// XGMII is one XGMII transfer. Lane i is Data bits [8i, 8i+8) and is a control
// character if bit i of Ctl is set. The same type carries 32-bit transfers in
// the low 4 lanes.
//
type XGMII struct {
	Ctl  uint8
	Data uint64
}

// IdleWord returns a 64-bit XGMII word of idle characters.
//
func IdleWord() XGMII { return XGMII{Ctl: 0xff, Data: 0x0707070707070707} }

// ErrorWord returns a 64-bit XGMII word of error characters.
//
func ErrorWord() XGMII { return XGMII{Ctl: 0xff, Data: 0xfefefefefefefefe} }

// Lane returns lane i of w and whether it is a control character.
//
func (w XGMII) Lane(i int) (byte, bool) {
	return byte(w.Data >> (8 * uint(i))), w.Ctl&(1<<uint(i)) != 0
}

func (w XGMII) String() string {
	return fmt.Sprintf("%02x:%016x", w.Ctl, w.Data)
}

// Split32 splits a 64-bit XGMII word into two 32-bit transfers, low lanes
// first.
//
func Split32(w XGMII) [2]XGMII {
	return [2]XGMII{
		{Ctl: w.Ctl & 0xf, Data: w.Data & 0xffffffff},
		{Ctl: w.Ctl >> 4, Data: w.Data >> 32},
	}
}

// Join32 joins two 32-bit XGMII transfers, lo first in time, into a 64-bit
// word.
//
func Join32(lo, hi XGMII) XGMII {
	return XGMII{
		Ctl:  lo.Ctl&0xf | hi.Ctl<<4,
		Data: lo.Data&0xffffffff | hi.Data<<32,
	}
}
