// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config holds the run configuration of the loopback bench and the
// pcscheck command.
//
package config

import (
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

// Run modes.
const (
	ModeGolden = "golden"
	ModeRandom = "random"
)

// Config is a loopback run configuration. Field names match the YAML keys.
//
type Config struct {
	// Seed of the random frame generator.
	Seed int64 `json:"seed"`
	// TxSeqLength is the number of frames sent in random mode.
	TxSeqLength int `json:"tx_seq_length"`
	// StartupPause is the number of idle cycles sent once block lock is
	// acquired, before the first frame.
	StartupPause int `json:"startup_pause"`
	// LoopbackBitSlip is the bit offset of the loopback channel.
	LoopbackBitSlip int `json:"loopback_bit_slip"`
	// LockTimeout is the maximum number of cycles to wait for block lock.
	LockTimeout int `json:"lock_timeout"`
	// PrintBlocks logs every received block.
	PrintBlocks bool `json:"print_blocks"`
	Debug       bool `json:"debug"`
	// Mode is either "golden" or "random".
	Mode string `json:"mode"`
}

// Default returns the default configuration.
//
func Default() *Config {
	return &Config{
		Seed:         1,
		TxSeqLength:  20,
		StartupPause: 200,
		LockTimeout:  5000,
		Mode:         ModeRandom,
	}
}

// Load reads a YAML configuration file. Missing keys keep their default value.
//
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return Parse(data)
}

// Parse parses a YAML configuration over the defaults and validates it.
//
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks field ranges.
//
func (c *Config) Validate() error {
	switch {
	case c.TxSeqLength < 1:
		return errors.Errorf("tx_seq_length must be positive, got %d", c.TxSeqLength)
	case c.StartupPause < 0:
		return errors.Errorf("invalid startup_pause %d", c.StartupPause)
	case c.LoopbackBitSlip < 0:
		return errors.Errorf("invalid loopback_bit_slip %d", c.LoopbackBitSlip)
	case c.LockTimeout < 1:
		return errors.Errorf("lock_timeout must be positive, got %d", c.LockTimeout)
	case c.Mode != ModeGolden && c.Mode != ModeRandom:
		return errors.Errorf("unknown mode %q", c.Mode)
	}
	return nil
}

// Marshal returns the YAML form of c.
//
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
