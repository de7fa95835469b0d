// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command pcscheck checks the 10GBASE-R reference models against golden
// vectors, then runs a TX to RX gearbox loopback.
//
// Usage:
//
//	pcscheck [-config file] [-seed n] [-slip n] [-mode golden|random] [-compare strict|scan] [-v n]
//
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/db47h/pcsgear/golden"
	"github.com/db47h/pcsgear/internal/config"
	"github.com/db47h/pcsgear/loopback"
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func newLogger(debug bool, verbosity int) (logr.Logger, func(), error) {
	zc := zap.NewProductionConfig()
	if debug {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	z, err := zc.Build()
	if err != nil {
		return logr.Discard(), nil, err
	}
	return zapr.NewLogger(z), func() { _ = z.Sync() }, nil
}

func run() error {
	var (
		cfgFile   = flag.String("config", "", "YAML configuration `file`")
		seed      = flag.Int64("seed", 0, "random frame generator seed")
		slip      = flag.Int("slip", 0, "loopback bit slip")
		mode      = flag.String("mode", "", "loopback mode: golden or random")
		cmpMode   = flag.String("compare", "strict", "golden comparison: strict or scan")
		verbosity = flag.Int("v", 0, "log verbosity")
	)
	flag.Parse()

	cfg := config.Default()
	if *cfgFile != "" {
		var err error
		if cfg, err = config.Load(*cfgFile); err != nil {
			return err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = *seed
		case "slip":
			cfg.LoopbackBitSlip = *slip
		case "mode":
			cfg.Mode = *mode
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}
	cm, err := golden.ParseMode(*cmpMode)
	if err != nil {
		return err
	}

	log, sync, err := newLogger(cfg.Debug, *verbosity)
	if err != nil {
		return err
	}
	defer sync()

	g, ctx := errgroup.WithContext(context.Background())
	for name, check := range map[string]func(golden.Mode) error{
		"crc":       checkCRC,
		"scrambler": checkScrambler,
		"mac":       checkMAC,
	} {
		name, check := name, check
		g.Go(func() error {
			if err := check(cm); err != nil {
				log.Error(err, "golden check failed", "check", name)
				return err
			}
			log.Info("golden check passed", "check", name)
			return nil
		})
	}
	g.Go(func() error {
		res, err := loopback.Run(ctx, cfg, log.WithName("loopback"))
		if err != nil {
			log.Error(err, "loopback failed")
			return err
		}
		log.Info("loopback passed", "cycles", res.Cycles, "lockCycle", res.LockCycle, "slips", res.Slips, "frames", res.Frames)
		return nil
	})
	return g.Wait()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "pcscheck:", err)
		os.Exit(1)
	}
}
