// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package loopback_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/db47h/pcsgear/golden"
	"github.com/db47h/pcsgear/internal/config"
	"github.com/db47h/pcsgear/loopback"
	"github.com/go-logr/logr/testr"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(mode string, slip int) *config.Config {
	c := config.Default()
	c.Mode = mode
	c.LoopbackBitSlip = slip
	c.StartupPause = 20
	c.TxSeqLength = 8
	return c
}

func TestGolden(t *testing.T) {
	for _, slip := range []int{0, 6, 32, 70} {
		t.Run(strconv.Itoa(slip), func(t *testing.T) {
			res, err := loopback.Run(context.Background(), testConfig(config.ModeGolden, slip), testr.New(t))
			require.NoError(t, err)
			assert.Equal(t, 1, res.Frames)
			assert.Greater(t, res.Cycles, res.LockCycle)
		})
	}
}

func TestRandom(t *testing.T) {
	for _, slip := range []int{0, 2, 34, 64} {
		t.Run(strconv.Itoa(slip), func(t *testing.T) {
			cfg := testConfig(config.ModeRandom, slip)
			cfg.Seed = int64(slip) + 1
			cfg.PrintBlocks = slip == 0
			res, err := loopback.Run(context.Background(), cfg, testr.New(t))
			require.NoError(t, err)
			assert.Equal(t, cfg.TxSeqLength, res.Frames)
			assert.NotZero(t, res.Blocks)
		})
	}
}

// odd offsets lock and keep lock. Any failure is a data mismatch caused by the
// stale bits of the count 32 block.
func TestOddSlipLocks(t *testing.T) {
	for _, slip := range []int{1, 33} {
		cfg := testConfig(config.ModeGolden, slip)
		res, err := loopback.Run(context.Background(), cfg, testr.New(t))
		require.NotNil(t, res)
		assert.NotZero(t, res.LockCycle, "slip %d", slip)
		if err == nil {
			continue
		}
		var me *golden.MismatchError
		if !errors.As(err, &me) && errors.Cause(err) != golden.ErrTimeout {
			t.Fatalf("slip %d: expected a data mismatch, got %v", slip, err)
		}
		t.Logf("slip %d: %v", slip, err)
	}
}

func TestLockTimeout(t *testing.T) {
	cfg := testConfig(config.ModeRandom, 0)
	cfg.LockTimeout = 10
	res, err := loopback.Run(context.Background(), cfg, testr.New(t))
	require.Error(t, err)
	assert.Zero(t, res.LockCycle)
	assert.Equal(t, uint64(10), res.Cycles)
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := loopback.Run(ctx, testConfig(config.ModeRandom, 0), testr.New(t))
	assert.Equal(t, context.Canceled, errors.Cause(err))
}

func TestInvalidConfig(t *testing.T) {
	cfg := testConfig("bogus", 0)
	_, err := loopback.Run(context.Background(), cfg, testr.New(t))
	assert.Error(t, err)
}
