// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package loopback runs a 10GBASE-R data path through the gearbox models: XGMII
// words are encoded, scrambled and serialized by the TX gearbox, delayed by an
// arbitrary number of bits, then recovered by the RX gearbox once block lock
// is acquired, descrambled and decoded.
//
// Odd bit offsets acquire block lock with an odd RX half slip. Blocks are
// then received intact except for the one whose high word comes out at count
// 32 of each gearbox period: data bits 31 and 63 of that block may be stale,
// and the descrambler carries such errors into the next block.
//
package loopback

import (
	"bytes"
	"context"
	"math/rand"

	"github.com/db47h/pcsgear/golden"
	"github.com/db47h/pcsgear/internal/config"
	"github.com/db47h/pcsgear/mac"
	"github.com/db47h/pcsgear/pcs"
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
)

// Result holds run statistics.
//
type Result struct {
	LockCycle uint64 // cycle at which block lock was acquired
	Cycles    uint64
	Slips     uint64 // bit slips requested by block lock
	Blocks    int    // blocks received after lock
	Frames    int    // frames checked
}

type checker interface {
	words() []pcs.XGMII
	push(w pcs.XGMII) error
	done() bool
	frames() int
}

// goldenChecker tracks the golden XGMII frame.
type goldenChecker struct {
	tr *golden.Tracker[pcs.XGMII]
}

func newGoldenChecker(timeout int) *goldenChecker {
	return &goldenChecker{golden.NewTracker("xgmii", golden.XGMII(64), 1, timeout)}
}

func (c *goldenChecker) words() []pcs.XGMII { return golden.XGMII(64)[1:] }
func (c *goldenChecker) push(w pcs.XGMII) error { return c.tr.Sample(w, true) }
func (c *goldenChecker) done() bool { return c.tr.Done() }

func (c *goldenChecker) frames() int {
	if c.tr.Done() {
		return 1
	}
	return 0
}

// scoreboard checks received frames against random payloads.
type scoreboard struct {
	want [][]byte
	dec  mac.Decoder
	n    int
}

func newScoreboard(seed int64, count int) *scoreboard {
	rnd := rand.New(rand.NewSource(seed))
	s := &scoreboard{want: make([][]byte, count)}
	for i := range s.want {
		p := make([]byte, 16+rnd.Intn(240))
		rnd.Read(p)
		s.want[i] = p
	}
	return s
}

func (s *scoreboard) words() []pcs.XGMII {
	var ws []pcs.XGMII
	for _, p := range s.want {
		ws = append(ws, mac.Encode(p)...)
		ws = append(ws, mac.Idle())
	}
	return ws
}

func (s *scoreboard) push(w pcs.XGMII) error {
	f, ok := s.dec.Push(w)
	if !ok {
		return nil
	}
	if s.n >= len(s.want) {
		return errors.Errorf("unexpected frame #%d", s.n)
	}
	p := s.want[s.n]
	s.n++
	n := len(p)
	if n < mac.MinPayload {
		n = mac.MinPayload
	}
	switch {
	case !f.Valid:
		return errors.Errorf("frame #%d: invalid frame, FCS %08x", s.n-1, f.FCS)
	case len(f.Payload) != n:
		return errors.Errorf("frame #%d: expected %d bytes, got %d", s.n-1, n, len(f.Payload))
	case !bytes.Equal(f.Payload[:len(p)], p):
		return errors.Errorf("frame #%d: payload mismatch", s.n-1)
	}
	for i, c := range f.Payload[len(p):] {
		if c != 0 {
			return errors.Errorf("frame #%d: padding byte %d is %#02x", s.n-1, len(p)+i, c)
		}
	}
	return nil
}

func (s *scoreboard) done() bool { return s.n == len(s.want) }
func (s *scoreboard) frames() int { return s.n }

// Run runs a loopback test as configured by cfg. Idle words are sent until
// the receiver acquires block lock, then cfg.StartupPause more idle words,
// followed by the golden frame or cfg.TxSeqLength random frames. Run returns
// an error if lock is not acquired within cfg.LockTimeout cycles, if any
// received data does not match, or if data is missing.
//
func Run(ctx context.Context, cfg *config.Config, log logr.Logger) (res *Result, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log = log.WithValues("mode", cfg.Mode, "bitSlip", cfg.LoopbackBitSlip)
	if cfg.LoopbackBitSlip%2 != 0 {
		log.Info("odd bit slip, one block per gearbox period may be corrupted")
	}

	t, err := newBench(cfg.LoopbackBitSlip)
	if err != nil {
		return nil, errors.Wrap(err, "build bench")
	}
	defer t.Dispose()

	res = new(Result)
	defer func() {
		res.Cycles = t.Cycles()
		res.Slips = t.lock.Slips()
		res.Blocks = t.blocks
		if err != nil {
			log.V(1).Info("channel trace", "cycle", res.Cycles, "words", t.tail(traceDepth))
		}
	}()

	for !t.locked {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if t.Cycles() >= uint64(cfg.LockTimeout) {
			return res, errors.Errorf("no block lock after %d cycles, %d slips", t.Cycles(), t.lock.Slips())
		}
		if err := t.cycle(); err != nil {
			return res, err
		}
	}
	res.LockCycle = t.Cycles()
	log.Info("block lock", "cycle", res.LockCycle, "slips", t.lock.Slips())

	var c checker
	switch cfg.Mode {
	case config.ModeGolden:
		c = newGoldenChecker(cfg.StartupPause + 64)
	default:
		c = newScoreboard(cfg.Seed, cfg.TxSeqLength)
	}
	queue := c.words()
	pause := cfg.StartupPause
	t.src = func() pcs.XGMII {
		switch {
		case pause > 0:
			pause--
		case len(queue) > 0:
			w := queue[0]
			queue = queue[1:]
			return w
		}
		return pcs.IdleWord()
	}
	t.sink = func(b pcs.Block, w pcs.XGMII) error {
		if cfg.PrintBlocks {
			log.Info("rx", "block", b.String(), "xgmii", w.String())
		}
		return c.push(w)
	}

	// two cycles per block plus pauses, with some slack for the pipeline.
	limit := t.Cycles() + 3*uint64(cfg.StartupPause+len(queue)+64)
	for !c.done() {
		if t.Cycles()&0xff == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		if t.Cycles() >= limit {
			return res, errors.Errorf("timeout after %d cycles, %d frames received", t.Cycles(), c.frames())
		}
		if err := t.cycle(); err != nil {
			res.Frames = c.frames()
			return res, err
		}
		if !t.locked {
			return res, errors.Errorf("block lock lost at cycle %d", t.Cycles())
		}
	}
	res.Frames = c.frames()
	log.V(1).Info("done", "cycles", t.Cycles(), "frames", res.Frames, "blocks", t.blocks)
	return res, nil
}
