// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package golden

import (
	"github.com/pkg/errors"
)

// ErrTimeout is returned by Tracker.Sample when the expected element did not
// show up in time.
//
var ErrTimeout = errors.New("timeout waiting for golden element")

// Tracker follows a golden sequence in a data stream sampled once per clock
// cycle. It waits for element start of the sequence, then requires every
// following valid sample to be the next element in order.
//
type Tracker[T comparable] struct {
	name    string
	want    []T
	start   int
	pos     int
	timeout int
	idle    int
}

// NewTracker returns a Tracker looking for want[start:] in a stream. Sample
// fails if timeout cycles elapse without progress. NewTracker panics if start
// is out of range or timeout is less than 1.
//
func NewTracker[T comparable](name string, want []T, start, timeout int) *Tracker[T] {
	if start < 0 || start >= len(want) {
		panic(errors.Errorf("%s: invalid start index %d for %d elements", name, start, len(want)))
	}
	if timeout < 1 {
		panic(errors.Errorf("%s: invalid timeout %d", name, timeout))
	}
	return &Tracker[T]{name: name, want: want, start: start, pos: start, timeout: timeout}
}

// Sample feeds one cycle of the stream. v is ignored if valid is false.
// Once the sequence is found, any out of order element is reported as a
// *MismatchError. After Done returns true, Sample is a no-op.
//
func (t *Tracker[T]) Sample(v T, valid bool) error {
	if t.Done() {
		return nil
	}
	t.idle++
	if valid {
		if v == t.want[t.pos] {
			t.pos++
			t.idle = 0
			return nil
		}
		if t.pos != t.start {
			return &MismatchError{t.name, t.pos, Hex(t.want[t.pos]), Hex(v)}
		}
	}
	if t.idle >= t.timeout {
		return errors.Wrapf(ErrTimeout, "%s[%d]", t.name, t.pos)
	}
	return nil
}

// Index returns the index of the next expected element.
//
func (t *Tracker[T]) Index() int { return t.pos }

// Done returns true once the whole sequence has been seen.
//
func (t *Tracker[T]) Done() bool { return t.pos == len(t.want) }
