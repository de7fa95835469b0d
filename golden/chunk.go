// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package golden

import (
	"fmt"

	"github.com/pkg/errors"
)

// Word is a multi-byte data path word. Byte lane i is Data bits [8i, 8i+8)
// and holds data if bit i of Valid is set.
//
type Word struct {
	Data  uint64
	Valid uint8
}

func (w Word) String() string {
	return fmt.Sprintf("%02x:%016x", w.Valid, w.Data)
}

// Chunk groups seq into words of n bytes, first byte in the least significant
// lane. The last word is zero padded and only its used lanes are valid.
// Chunk panics if n is not between 1 and 8.
//
func Chunk(seq []byte, n int) []Word {
	if n < 1 || n > 8 {
		panic(errors.Errorf("invalid chunk width %d", n))
	}
	out := make([]Word, 0, (len(seq)+n-1)/n)
	for pos := 0; pos < len(seq); pos += n {
		var w Word
		for i := 0; i < n && pos+i < len(seq); i++ {
			w.Data |= uint64(seq[pos+i]) << (8 * uint(i))
			w.Valid |= 1 << uint(i)
		}
		out = append(out, w)
	}
	return out
}

// Flatten returns the bytes of all valid lanes of ws, in order.
//
func Flatten(ws []Word) []byte {
	var out []byte
	for _, w := range ws {
		for i := uint(0); i < 8; i++ {
			if w.Valid&(1<<i) != 0 {
				out = append(out, byte(w.Data>>(8*i)))
			}
		}
	}
	return out
}
