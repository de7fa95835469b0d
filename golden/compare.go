// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package golden

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Mode selects how Compare reports mismatches.
//
type Mode int

// Comparison modes.
//
const (
	Strict Mode = iota // stop at the first mismatch
	Scan               // report every mismatch
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Scan:
		return "scan"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode returns the Mode named s.
//
func ParseMode(s string) (Mode, error) {
	switch s {
	case "strict", "":
		return Strict, nil
	case "scan":
		return Scan, nil
	}
	return Strict, errors.Errorf("unknown comparison mode %q", s)
}

// MismatchError reports a difference between a golden sequence and a data
// stream.
//
type MismatchError struct {
	Name  string
	Index int
	Want  string
	Got   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s[%d]: expected %s, got %s", e.Name, e.Index, e.Want, e.Got)
}

// MismatchErrors is the list of mismatches found in Scan mode.
//
type MismatchErrors []*MismatchError

func (es MismatchErrors) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d mismatches", len(es))
	for _, e := range es {
		b.WriteString("\n\t")
		b.WriteString(e.Error())
	}
	return b.String()
}

const none = "<none>"

// Hex formats v for mismatch reports: the String method of v if it has one,
// hexadecimal otherwise.
//
func Hex(v interface{}) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%#x", v)
}

// Compare compares got against want element by element. In Strict mode it
// returns a *MismatchError for the first difference. In Scan mode, it returns
// all differences as MismatchErrors. A length difference is reported at the
// first missing or extra index. It returns nil if the sequences are equal.
//
func Compare[T comparable](name string, want, got []T, mode Mode) error {
	var es MismatchErrors
	n := len(want)
	if len(got) > n {
		n = len(got)
	}
	for i := 0; i < n; i++ {
		var e *MismatchError
		switch {
		case i >= len(got):
			e = &MismatchError{name, i, Hex(want[i]), none}
		case i >= len(want):
			e = &MismatchError{name, i, none, Hex(got[i])}
		case want[i] != got[i]:
			e = &MismatchError{name, i, Hex(want[i]), Hex(got[i])}
		default:
			continue
		}
		if mode == Strict {
			return e
		}
		es = append(es, e)
		if i >= len(want) || i >= len(got) {
			break
		}
	}
	if len(es) > 0 {
		return es
	}
	return nil
}
