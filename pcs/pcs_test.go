// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pcs_test

import (
	"math/rand"
	"testing"
	"testing/quick"

	"github.com/db47h/pcsgear/golden"
	"github.com/db47h/pcsgear/pcs"
	"github.com/google/go-cmp/cmp"
)

func TestEncode(t *testing.T) {
	td := []struct {
		in  pcs.XGMII
		out pcs.Block
	}{
		{pcs.IdleWord(), pcs.Block{Header: pcs.HeaderCtrl, Payload: 0x1e}},
		{pcs.ErrorWord(), pcs.Block{Header: pcs.HeaderCtrl, Payload: 0x3c78f1e3c78f1e1e}},
		{pcs.XGMII{Ctl: 0x01, Data: 0xd5555555555555fb}, pcs.Block{Header: pcs.HeaderCtrl, Payload: 0xd555555555555578}},
		{pcs.XGMII{Ctl: 0x00, Data: 0x0123456789abcdef}, pcs.Block{Header: pcs.HeaderData, Payload: 0x0123456789abcdef}},
		{pcs.XGMII{Ctl: 0xff, Data: 0x07070707070707fd}, pcs.Block{Header: pcs.HeaderCtrl, Payload: 0x87}},
		{pcs.XGMII{Ctl: 0x80, Data: 0xfd11223344556677}, pcs.Block{Header: pcs.HeaderCtrl, Payload: 0x11223344556677ff}},
		{pcs.XGMII{Ctl: 0xf0, Data: 0x070707fd44556677}, pcs.Block{Header: pcs.HeaderCtrl, Payload: 0x44556677cc}},
		{pcs.XGMII{Ctl: 0x1f, Data: 0xaabbccfb07070707}, pcs.Block{Header: pcs.HeaderCtrl, Payload: 0xaabbcc0000000033}},
		// start in lane 2 has no block type
		{pcs.XGMII{Ctl: 0x07, Data: 0xaabbccddeefb0707}, pcs.Encode(pcs.ErrorWord())},
	}
	for _, d := range td {
		if got := pcs.Encode(d.in); got != d.out {
			t.Fatalf("Encode(%v): expected %v, got %v", d.in, d.out, got)
		}
	}
}

func TestDecode(t *testing.T) {
	for _, w := range golden.XGMII(64) {
		if got := pcs.Decode(pcs.Encode(w)); got != w {
			t.Fatalf("Decode(Encode(%v)) = %v", w, got)
		}
	}
	// all terminate positions, with idles after the terminate character
	for k := 0; k < 8; k++ {
		w := pcs.XGMII{Ctl: 0xff << uint(k) & 0xff}
		for i := 0; i < 8; i++ {
			var c uint64
			switch {
			case i < k:
				c = uint64(0x10 + i)
			case i == k:
				c = pcs.Terminate
			default:
				c = pcs.Idle
			}
			w.Data |= c << (8 * uint(i))
		}
		if got := pcs.Decode(pcs.Encode(w)); got != w {
			t.Fatalf("T%d: Decode(Encode(%v)) = %v", k, w, got)
		}
	}
	start4 := pcs.XGMII{Ctl: 0x1f, Data: 0x112233fb07070707}
	if got := pcs.Decode(pcs.Encode(start4)); got != start4 {
		t.Fatalf("S4: Decode(Encode(%v)) = %v", start4, got)
	}

	bad := []pcs.Block{
		{Header: 0x0, Payload: 0},
		{Header: 0x3, Payload: 0},
		{Header: pcs.HeaderCtrl, Payload: 0x42},
	}
	for _, b := range bad {
		if got := pcs.Decode(b); got != pcs.ErrorWord() {
			t.Fatalf("Decode(%v): expected error word, got %v", b, got)
		}
	}

	f := func(d uint64) bool {
		w := pcs.XGMII{Data: d}
		return pcs.Decode(pcs.Encode(w)) == w
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestSplitJoin(t *testing.T) {
	f := func(ctl uint8, d uint64) bool {
		w := pcs.XGMII{Ctl: ctl, Data: d}
		s := pcs.Split32(w)
		return s[0].Ctl < 16 && s[1].Ctl < 16 && s[0].Data>>32 == 0 && pcs.Join32(s[0], s[1]) == w
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestScramblerGolden(t *testing.T) {
	x := golden.XGMII(64)
	want := golden.Scrambled(64)

	var sc pcs.Scrambler
	sc.Prime(want[0])
	got := []pcs.Block{want[0]}
	for _, w := range x[1:11] {
		got = append(got, sc.Scramble(pcs.Encode(w)))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("scrambled blocks mismatch (-want +got):\n%s", diff)
	}

	var ds pcs.Descrambler
	ds.Prime(want[0])
	for i, b := range want[1:] {
		if got := pcs.Decode(ds.Descramble(b)); got != x[i+1] {
			t.Fatalf("block %d: expected %v, got %v", i+1, x[i+1], got)
		}
	}
}

func TestDescramblerSelfSync(t *testing.T) {
	x := golden.XGMII(64)
	var ds pcs.Descrambler
	for i, b := range golden.Scrambled(64) {
		got := pcs.Decode(ds.Descramble(b))
		if i > 0 && got != x[i] {
			t.Fatalf("block %d: expected %v, got %v", i, x[i], got)
		}
	}
}

func TestScramblerRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(0))
	var sc pcs.Scrambler
	var ds pcs.Descrambler
	for i := 0; i < 1000; i++ {
		b := pcs.Block{Header: pcs.HeaderData, Payload: rnd.Uint64()}
		s := sc.Scramble(b)
		if s.Header != b.Header {
			t.Fatalf("block %d: header changed", i)
		}
		if got := ds.Descramble(s); got != b {
			t.Fatalf("block %d: expected %v, got %v", i, b, got)
		}
	}
}
