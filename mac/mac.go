// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package mac implements Ethernet framing over a 64-bit XGMII interface.
//
package mac

import (
	"github.com/db47h/pcsgear/crc"
	"github.com/db47h/pcsgear/pcs"
)

const (
	// MinPayload is the minimum frame length, FCS excluded. Shorter payloads are
	// zero padded.
	MinPayload = 60
	// FCSLen is the length of the frame check sequence.
	FCSLen = 4

	preamble = 0x55
	sfd      = 0xD5
)

// Idle returns an XGMII idle word.
//
func Idle() pcs.XGMII { return pcs.IdleWord() }

// lanes accumulates XGMII lanes into words.
type lanes struct {
	out []pcs.XGMII
	cur pcs.XGMII
	n   uint
}

func (l *lanes) put(b byte, ctl bool) {
	l.cur.Data |= uint64(b) << (8 * l.n)
	if ctl {
		l.cur.Ctl |= 1 << l.n
	}
	l.n++
	if l.n == 8 {
		l.out = append(l.out, l.cur)
		l.cur, l.n = pcs.XGMII{}, 0
	}
}

// Encode returns the XGMII words of an Ethernet frame carrying payload: start
// character in lane 0, preamble, SFD, payload padded to MinPayload bytes,
// little endian FCS, then a terminate character. The last word is filled with
// idles.
//
func Encode(payload []byte) []pcs.XGMII {
	frame := make([]byte, len(payload), len(payload)+MinPayload+FCSLen)
	copy(frame, payload)
	for len(frame) < MinPayload {
		frame = append(frame, 0)
	}
	frame = crc.Append(frame)

	l := lanes{out: make([]pcs.XGMII, 0, (len(frame)+16)/8)}
	l.put(pcs.Start, true)
	for i := 0; i < 6; i++ {
		l.put(preamble, false)
	}
	l.put(sfd, false)
	for _, b := range frame {
		l.put(b, false)
	}
	l.put(pcs.Terminate, true)
	for l.n != 0 {
		l.put(pcs.Idle, true)
	}
	return l.out
}

// Frame is a frame received by a Decoder.
//
type Frame struct {
	Payload []byte // padding included
	FCS     uint32
	Valid   bool // FCS matches, no error character, well formed preamble
}

// Decoder assembles frames from a stream of XGMII words. Frames may start in
// lane 0 or lane 4.
//
type Decoder struct {
	in    bool
	bad   bool
	pre   int
	frame []byte
}

// Push feeds one XGMII word to the decoder. It returns the frame ended by
// this word, if any.
//
func (d *Decoder) Push(w pcs.XGMII) (Frame, bool) {
	for i := 0; i < 8; i++ {
		c, ctl := w.Lane(i)
		if !d.in {
			if ctl && c == pcs.Start && (i == 0 || i == 4) {
				d.in, d.bad, d.pre, d.frame = true, false, 0, d.frame[:0]
			}
			continue
		}
		if ctl {
			if c == pcs.Terminate {
				d.in = false
				return d.done(), true
			}
			// error or unexpected control character
			d.bad = true
			continue
		}
		if d.pre < 7 {
			if (d.pre < 6 && c != preamble) || (d.pre == 6 && c != sfd) {
				d.bad = true
			}
			d.pre++
			continue
		}
		d.frame = append(d.frame, c)
	}
	return Frame{}, false
}

func (d *Decoder) done() Frame {
	n := len(d.frame)
	if n < FCSLen {
		return Frame{Payload: append([]byte(nil), d.frame...)}
	}
	p := d.frame[:n-FCSLen]
	fcs := d.frame[n-FCSLen:]
	return Frame{
		Payload: append([]byte(nil), p...),
		FCS:     uint32(fcs[0]) | uint32(fcs[1])<<8 | uint32(fcs[2])<<16 | uint32(fcs[3])<<24,
		Valid:   !d.bad && d.pre == 7 && crc.Valid(d.frame),
	}
}
