// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"testing"

	"github.com/db47h/pcsgear/golden"
)

func TestChecks(t *testing.T) {
	for name, check := range map[string]func(golden.Mode) error{
		"crc":       checkCRC,
		"scrambler": checkScrambler,
		"mac":       checkMAC,
	} {
		for _, m := range []golden.Mode{golden.Strict, golden.Scan} {
			if err := check(m); err != nil {
				t.Errorf("%s/%v: %v", name, m, err)
			}
		}
	}
}
