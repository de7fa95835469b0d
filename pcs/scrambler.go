// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pcs

const stateMask = 1<<58 - 1

// lfsr holds the last 58 scrambled bits, the most recent in bit 0.
type lfsr uint64

func (s lfsr) tap() uint64 {
	return uint64(s>>38^s>>57) & 1
}

func (s *lfsr) push(bit uint64) {
	*s = (*s<<1 | lfsr(bit)) & stateMask
}

func (s *lfsr) prime(p uint64) {
	for i := uint(0); i < 64; i++ {
		s.push(p >> i & 1)
	}
}

// Scrambler is the self-synchronous x^58 + x^39 + 1 scrambler. Only the
// payload of a block is scrambled, lsb first; the sync header is passed
// through.
//
type Scrambler struct {
	s lfsr
}

// Prime loads the scrambler state from an already scrambled block, as if b had
// been the last block it produced.
//
func (sc *Scrambler) Prime(b Block) { sc.s.prime(b.Payload) }

// Scramble scrambles the payload of b.
//
func (sc *Scrambler) Scramble(b Block) Block {
	var out uint64
	for i := uint(0); i < 64; i++ {
		o := b.Payload>>i&1 ^ sc.s.tap()
		sc.s.push(o)
		out |= o << i
	}
	b.Payload = out
	return b
}

// Descrambler reverses Scrambler. It synchronizes by itself after 58 bits.
//
type Descrambler struct {
	s lfsr
}

// Prime loads the descrambler state from a scrambled block.
//
func (d *Descrambler) Prime(b Block) { d.s.prime(b.Payload) }

// Descramble descrambles the payload of b.
//
func (d *Descrambler) Descramble(b Block) Block {
	var out uint64
	for i := uint(0); i < 64; i++ {
		in := b.Payload >> i & 1
		out |= (in ^ d.s.tap()) << i
		d.s.push(in)
	}
	b.Payload = out
	return b
}
