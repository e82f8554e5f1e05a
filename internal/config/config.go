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

// Package config loads a TOML-formatted machine description — which
// cards occupy which bus slots, whether the pseudo-BDOS shim runs —
// and turns it into a wired-up bus.Bus.
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"

	"github.com/lassandro/go-altair/internal/bus"
	"github.com/lassandro/go-altair/internal/card"
	"github.com/lassandro/go-altair/internal/serial"
)

// Emulator holds the top-level [emulator] table.
type Emulator struct {
	PseudoBDOSEnabled bool `toml:"pseudo_bdos_enabled"`
	StartWithPCAt     int  `toml:"start_with_pc_at"`
}

// CardSpec describes one [[card]] table entry.
type CardSpec struct {
	Slot       int    `toml:"slot"`
	Type       string `toml:"type"`
	At         int    `toml:"at"`
	Range      int    `toml:"range"`
	Load       string `toml:"load"`
	LetCollide bool   `toml:"let_collide"`
}

// Config is the decoded form of the whole file.
type Config struct {
	Emulator Emulator   `toml:"emulator"`
	Cards    []CardSpec `toml:"card"`
}

// ValidationError reports one malformed [[card]] entry. Multiple
// ValidationErrors are aggregated by Load into a *multierror.Error.
type ValidationError struct {
	Index int
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: card %d: %s", e.Index, e.Msg)
}

// Load reads and validates a TOML configuration file. All schema
// violations are collected and returned together rather than stopping
// at the first.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) validate() error {
	var result *multierror.Error

	for i, cs := range cfg.Cards {
		if cs.Slot < 0 || cs.Slot >= bus.NumSlots {
			result = multierror.Append(result, &ValidationError{i, fmt.Sprintf("slot %d out of range (0-%d)", cs.Slot, bus.NumSlots-1)})
		}

		switch cs.Type {
		case "ram", "rom":
			if cs.Range == 0 && cs.Load == "" {
				result = multierror.Append(result, &ValidationError{i, "data card requires at least one of range/load"})
			}
		case "serial":
			// at is the only required field; range/load are meaningless here.
		case "":
			result = multierror.Append(result, &ValidationError{i, "missing required field \"type\""})
		default:
			result = multierror.Append(result, &ValidationError{i, fmt.Sprintf("unknown card type %q", cs.Type)})
		}
	}

	return result.ErrorOrNil()
}

// BuildBus constructs every configured card and plugs it into a fresh
// Bus, loading any card's "load" binary in the process.
func (cfg *Config) BuildBus() (*bus.Bus, error) {
	b := &bus.Bus{}

	for i, cs := range cfg.Cards {
		c, err := newCard(cs)
		if err != nil {
			return nil, fmt.Errorf("config: card %d: %w", i, err)
		}
		if err := b.Insert(c, cs.Slot, cs.LetCollide); err != nil {
			return nil, fmt.Errorf("config: card %d: %w", i, err)
		}
	}

	return b, nil
}

func newCard(cs CardSpec) (card.Card, error) {
	switch cs.Type {
	case "ram":
		return newDataCard(cs, false)
	case "rom":
		return newDataCard(cs, true)
	case "serial":
		adapter := &serial.PTYAdapter{}
		sc, err := card.NewSerialCard(uint8(cs.At), adapter)
		if err != nil {
			return nil, fmt.Errorf("open serial adapter: %w", err)
		}
		log.Printf("serial card at slot %d: connect to %s", cs.Slot, adapter.Name())
		return sc, nil
	default:
		return nil, fmt.Errorf("unknown card type %q", cs.Type)
	}
}

func newDataCard(cs CardSpec, rom bool) (card.Card, error) {
	if cs.Load == "" {
		if rom {
			return card.NewROM(uint16(cs.At), cs.Range, 0), nil
		}
		return card.NewRAM(uint16(cs.At), cs.Range, 0), nil
	}

	contents, err := os.ReadFile(cs.Load)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cs.Load, err)
	}
	if rom {
		return card.NewROMFromBytes(uint16(cs.At), contents, cs.Range)
	}
	return card.NewRAMFromBytes(uint16(cs.At), contents, cs.Range)
}

// FileLoad is one <filename> <address> CLI argument pair.
type FileLoad struct {
	Path    string
	Address uint16
}

// LoadBinaries reads each FileLoad's file and force-writes it into the
// bus at its address, aborting without partial writes if any file
// would extend past the bus's address space. Unless overridePC is set,
// the first pair's address becomes the target of a synthesized 3-byte
// JMP reset vector written to addresses 0-2, and the returned PC is 0.
// When overridePC is set, no vector is written and startPC is returned
// as the PC to start from, whether or not any loads were given.
func LoadBinaries(b *bus.Bus, loads []FileLoad, startPC int, overridePC bool) (uint16, error) {
	if len(loads) == 0 {
		if overridePC {
			return uint16(startPC), nil
		}
		return 0, nil
	}

	type pending struct {
		addr     uint16
		contents []byte
	}
	var all []pending

	for _, l := range loads {
		contents, err := os.ReadFile(l.Path)
		if err != nil {
			return 0, fmt.Errorf("config: load %s: %w", l.Path, err)
		}
		if int(l.Address)+len(contents) > b.Size() {
			return 0, fmt.Errorf("config: %s at %#04x would extend past the bus (%d bytes)", l.Path, l.Address, b.Size())
		}
		all = append(all, pending{l.Address, contents})
	}

	entry := loads[0].Address
	if !overridePC {
		b.WriteForce(0, 0xC3, false) // JMP
		b.WriteForce(1, uint8(entry), false)
		b.WriteForce(2, uint8(entry>>8), false)
	}

	for _, p := range all {
		for i, byt := range p.contents {
			b.WriteForce(p.addr+uint16(i), byt, false)
		}
	}

	if overridePC {
		return uint16(startPC), nil
	}
	return 0, nil
}
