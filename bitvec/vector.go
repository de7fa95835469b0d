// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package bitvec implements the bit vectors used by the reference models.
//
// A Vector is stored one bool per bit, index 0 being the least significant
// bit, i.e. the first bit received on a serial link. This mirrors wire states
// in a circuit simulation rather than byte-packed integers.
//
package bitvec

import (
	"strings"

	"github.com/pkg/errors"
)

// Vector is an ordered sequence of bits. Bit 0 is lsb.
//
type Vector []bool

// New returns a zeroed vector of n bits.
//
func New(n int) Vector {
	return make(Vector, n)
}

// FromUint64 returns the width lower bits of v as a Vector.
//
func FromUint64(v uint64, width int) Vector {
	if width < 0 || width > 64 {
		panic(errors.Errorf("invalid vector width %d", width))
	}
	out := make(Vector, width)
	for bit := range out {
		out[bit] = v&(1<<uint(bit)) != 0
	}
	return out
}

// Parse parses a string of '0' and '1' characters, in index order: the first
// character is bit 0. Underscores are ignored.
//
func Parse(s string) (Vector, error) {
	out := make(Vector, 0, len(s))
	for i, r := range s {
		switch r {
		case '0':
			out = append(out, false)
		case '1':
			out = append(out, true)
		case '_':
		default:
			return nil, errors.Errorf("invalid bit %q at position %d", r, i)
		}
	}
	return out, nil
}

// MustParse is like Parse but panics on error.
//
func MustParse(s string) Vector {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Uint64 returns the vector packed into an uint64. Bit 0 is lsb.
// It panics if the vector is wider than 64 bits.
//
func (v Vector) Uint64() uint64 {
	if len(v) > 64 {
		panic(errors.Errorf("vector too wide for uint64: %d bits", len(v)))
	}
	var out uint64
	for bit, b := range v {
		if b {
			out |= 1 << uint(bit)
		}
	}
	return out
}

// Copy returns a copy of v.
//
func (v Vector) Copy() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Equal returns true if v and o have the same length and bits.
//
func (v Vector) Equal(o Vector) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

// Splice copies src into v starting at bit offset off. Bits of src falling
// past the end of v are dropped.
//
func (v Vector) Splice(off int, src Vector) {
	for i, b := range src {
		if off+i >= len(v) {
			return
		}
		v[off+i] = b
	}
}

// Concat returns the concatenation of the given vectors, first vector in the
// lowest bits.
//
func Concat(vs ...Vector) Vector {
	n := 0
	for _, v := range vs {
		n += len(v)
	}
	out := make(Vector, 0, n)
	for _, v := range vs {
		out = append(out, v...)
	}
	return out
}

// String returns the bits in index order, bit 0 first.
//
func (v Vector) String() string {
	var b strings.Builder
	b.Grow(len(v))
	for _, bit := range v {
		if bit {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// MustWidth panics if v is not exactly width bits wide. what names the vector
// in the panic message.
//
func (v Vector) MustWidth(what string, width int) {
	if len(v) != width {
		panic(errors.Errorf("%s: expected %d bits, got %d", what, width, len(v)))
	}
}
