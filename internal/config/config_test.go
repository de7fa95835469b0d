// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/db47h/pcsgear/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	c, err := config.Parse([]byte(`
seed: 42
tx_seq_length: 5
loopback_bit_slip: 6
mode: golden
debug: true
`))
	require.NoError(t, err)
	want := config.Default()
	want.Seed = 42
	want.TxSeqLength = 5
	want.LoopbackBitSlip = 6
	want.Mode = config.ModeGolden
	want.Debug = true
	assert.Equal(t, want, c)
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"seed: [",
		"tx_seq_length: 0",
		"loopback_bit_slip: -1",
		"lock_timeout: 0",
		"startup_pause: -3",
		"mode: fast",
	} {
		_, err := config.Parse([]byte(src))
		assert.Error(t, err, src)
	}
}

func TestLoad(t *testing.T) {
	c := config.Default()
	c.Seed = 7
	c.PrintBlocks = true
	data, err := c.Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "pcscheck.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	got, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
