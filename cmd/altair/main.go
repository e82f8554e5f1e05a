// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/lassandro/go-altair/internal/config"
	"github.com/lassandro/go-altair/internal/cpu"
	"github.com/lassandro/go-altair/internal/register"
)

var configPath string
var graphPath string

const usage = "altair [-config path.toml] [-graph path.dot] [file address]..."

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.StringVar(&configPath, "config", "", "TOML machine configuration (required)")
	flag.StringVar(&graphPath, "graph", "", "dump the populated bus's card graph to this Graphviz dot file")
	flag.Parse()
}

// parseLoads turns the CLI's trailing <filename> <address> pairs into
// config.FileLoad values. Addresses accept 0x-prefixed hex or decimal.
func parseLoads(args []string) ([]config.FileLoad, error) {
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("arguments must come in <filename> <address> pairs")
	}

	var loads []config.FileLoad
	for i := 0; i < len(args); i += 2 {
		addr, err := strconv.ParseUint(args[i+1], 0, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid load address %q: %w", args[i+1], err)
		}
		loads = append(loads, config.FileLoad{Path: args[i], Address: uint16(addr)})
	}
	return loads, nil
}

func altair() int {
	if configPath == "" {
		log.Println(usage)
		return 1
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Println(err)
		return 1
	}

	loads, err := parseLoads(flag.Args())
	if err != nil {
		log.Println(err)
		return 1
	}

	b, err := cfg.BuildBus()
	if err != nil {
		log.Println(err)
		return 1
	}

	if graphPath != "" {
		if err := dumpGraph(b, graphPath); err != nil {
			log.Println(err)
		}
	}

	overridePC := cfg.Emulator.StartWithPCAt != 0
	startPC, err := config.LoadBinaries(b, loads, cfg.Emulator.StartWithPCAt, overridePC)
	if err != nil {
		log.Println(err)
		return 1
	}

	c := cpu.New(b, cfg.Emulator.PseudoBDOSEnabled)
	if overridePC {
		c.Regs.Set16(register.PC, startPC)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		select {
		case <-sigCh:
			cancel()
			return fmt.Errorf("interrupted")
		case <-ctx.Done():
			return nil
		}
	})

	var runErr error
	g.Go(func() error {
		for !c.Halted {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if err := c.Step(); err != nil {
				runErr = err
				cancel()
				return nil
			}
			for b.IsIRQ() {
				if err := c.Interrupt(b.GetIRQ()); err != nil {
					runErr = err
					cancel()
					return nil
				}
			}
		}
		cancel()
		return nil
	})

	_ = g.Wait()

	if runErr != nil {
		log.Println(runErr)
		return 1
	}
	if !c.Halted {
		return 1
	}
	return 0
}

func main() {
	os.Exit(altair())
}
