// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pcsgear

const (
	// LockCount is the number of consecutive valid sync headers required to
	// declare block lock.
	LockCount = 64
	// UnlockCount is the number of invalid sync headers within a window of
	// LockWindow headers that drops block lock.
	UnlockCount = 16
	// LockWindow is the size of the header window used while locked.
	LockWindow = 64
)

// BlockLock hunts for 66-bit block alignment on the output of an RxModel.
//
// Feed it every RxResult; it returns the slip request to apply on the next
// RxModel.Next call. While unlocked, any invalid sync header (00 or 11) causes
// a slip. The result of a slipping call is ignored since its window straddles
// two alignments.
//
type BlockLock struct {
	locked  bool
	slipped bool
	good    int
	bad     int
	seen    int
	slips   uint64
}

// NewBlockLock returns a BlockLock in the unlocked state.
//
func NewBlockLock() *BlockLock {
	return &BlockLock{}
}

// Locked returns true if block lock has been acquired.
//
func (l *BlockLock) Locked() bool { return l.locked }

// Slips returns the total number of slips requested so far.
//
func (l *BlockLock) Slips() uint64 { return l.slips }

// Next updates the lock state machine with the result of an RX gearbox cycle
// and returns true if the next cycle must slip.
//
func (l *BlockLock) Next(r RxResult) bool {
	if l.slipped {
		l.slipped = false
		return false
	}
	if !r.HeaderValid || !r.DataValid {
		return false
	}
	ok := ValidHeader(r.Header[0], r.Header[1])

	if !l.locked {
		if !ok {
			l.good = 0
			return l.slip()
		}
		l.good++
		if l.good >= LockCount {
			l.locked = true
			l.seen, l.bad = 0, 0
		}
		return false
	}

	l.seen++
	if !ok {
		l.bad++
	}
	if l.bad >= UnlockCount {
		l.locked = false
		l.good = 0
		return l.slip()
	}
	if l.seen >= LockWindow {
		l.seen, l.bad = 0, 0
	}
	return false
}

func (l *BlockLock) slip() bool {
	l.slipped = true
	l.slips++
	return true
}

// ValidHeader returns true if the two sync header bits form a valid 64b/66b
// sync header, i.e. 01 or 10.
//
func ValidHeader(b0, b1 bool) bool { return b0 != b1 }
