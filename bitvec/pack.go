// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bitvec

import (
	"github.com/prysmaticlabs/go-bitfield"
)

// Pack returns v as a packed bit list. The length of the vector is preserved.
//
func (v Vector) Pack() bitfield.Bitlist {
	bl := bitfield.NewBitlist(uint64(len(v)))
	for i, b := range v {
		if b {
			bl.SetBitAt(uint64(i), true)
		}
	}
	return bl
}

// Unpack returns the Vector stored in a packed bit list.
//
func Unpack(bl bitfield.Bitlist) Vector {
	n := bl.Len()
	out := make(Vector, n)
	for i := uint64(0); i < n; i++ {
		out[i] = bl.BitAt(i)
	}
	return out
}
