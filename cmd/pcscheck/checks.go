// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"github.com/db47h/pcsgear/crc"
	"github.com/db47h/pcsgear/golden"
	"github.com/db47h/pcsgear/mac"
	"github.com/db47h/pcsgear/pcs"
)

// checkCRC runs the golden CRC payloads through the table, serial and 64-bit
// lane engines.
func checkCRC(mode golden.Mode) error {
	vs := golden.CRCVectors()
	want := make([]uint32, 0, 3*len(vs))
	got := make([]uint32, 0, 3*len(vs))
	for _, v := range vs {
		s := crc.NewSerial()
		l := crc.NewLanes(8)
		for _, w := range golden.Chunk(v.Payload, 8) {
			l.Update(w.Data, w.Valid)
		}
		for _, b := range v.Payload {
			s.WriteByte(b)
		}
		want = append(want, v.CRC, v.CRC, v.CRC)
		got = append(got, crc.Checksum(v.Payload), s.Sum32(), l.Sum32())
	}
	return golden.Compare("crc", want, got, mode)
}

// checkScrambler encodes and scrambles the golden XGMII frame.
func checkScrambler(mode golden.Mode) error {
	ref := golden.Scrambled(64)
	var s pcs.Scrambler
	s.Prime(ref[0])
	got := []pcs.Block{ref[0]}
	for _, w := range golden.XGMII(64)[1:len(ref)] {
		got = append(got, s.Scramble(pcs.Encode(w)))
	}
	return golden.Compare("scrambled", ref, got, mode)
}

// checkMAC frames the golden payload.
func checkMAC(mode golden.Mode) error {
	want := golden.XGMII(64)[1:11]
	got := mac.Encode(golden.CRCVectors()[1].Payload)
	return golden.Compare("xgmii", want, got, mode)
}
