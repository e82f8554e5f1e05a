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

// Package cpu implements the Intel 8080 fetch/decode/execute loop: the
// documented opcode set, flag semantics, stack mechanics, the
// externally-vectored interrupt entry path, and the pseudo-BDOS
// console shim.
package cpu

import (
	"io"
	"os"

	"github.com/lassandro/go-altair/internal/register"
)

// Bus is the minimal surface the interpreter needs from its
// backplane: address-space-qualified byte read and write.
type Bus interface {
	Read(addr uint16, isIO bool) uint8
	Write(addr uint16, value uint8, isIO bool)
}

// TraceUnknownOpcodes, when set, makes the interpreter return an
// UnknownOpcodeError from Step for an undocumented opcode. When clear,
// undocumented opcodes run silently as their aliases: 0x08/0x10/.../0x38
// as NOP, 0xCB as JMP, 0xD9 as RET, and 0xDD/0xED/0xFD as CALL.
var TraceUnknownOpcodes = false

// CPU holds the 8080's architectural state and a reference to the bus
// it executes against.
type CPU struct {
	Regs register.File
	Bus  Bus

	Halted            bool
	InterruptsEnabled bool
	HandleBDOSEnabled bool

	// PrintSink receives bytes the pseudo-BDOS shim writes for C==0x02
	// and C==0x09 console calls. Defaults to os.Stdout.
	PrintSink io.Writer

	justBooted bool

	// opBuf and opCursor back fetch/fetch2 while servicing an
	// interrupt: bytes come from here instead of the bus.
	inInterrupt bool
	opBuf       [2]uint8
	opCursor    int
}

// New constructs a CPU wired to bus, with the pseudo-BDOS shim
// enabled or not per handleBDOS.
func New(bus Bus, handleBDOS bool) *CPU {
	c := &CPU{
		Bus:               bus,
		HandleBDOSEnabled: handleBDOS,
		PrintSink:         os.Stdout,
	}
	c.Reset()
	return c
}

// Reset zeroes every register (restoring F's fixed bits per
// register.File.Reset), clears Halted, and marks the CPU as freshly
// booted so the pseudo-BDOS shim's first PC==0 trap is a no-op.
func (c *CPU) Reset() {
	c.Regs.Reset()
	c.Halted = false
	c.InterruptsEnabled = false
	c.justBooted = true
	c.inInterrupt = false
	c.opCursor = 0
}

// UnknownOpcodeError is returned by Step when TraceUnknownOpcodes is
// set and an undocumented opcode is fetched.
type UnknownOpcodeError struct {
	PC     uint16
	Opcode uint8
}

func (e *UnknownOpcodeError) Error() string {
	return "cpu: unknown opcode " + hex2(e.Opcode) + " at " + hex4(e.PC)
}

// UnknownBDOSCallError is returned when the pseudo-BDOS shim sees a
// function code in register C it does not implement. PC is the
// address of the BDOS entry point that raised it, so the front-end
// can report where the guest program went wrong.
type UnknownBDOSCallError struct {
	PC   uint16
	Code uint8
}

func (e *UnknownBDOSCallError) Error() string {
	return "cpu: unknown pseudo-bdos call C=" + hex2(e.Code) + " at " + hex4(e.PC)
}

func hex2(b uint8) string {
	const digits = "0123456789abcdef"
	return "0x" + string([]byte{digits[b>>4], digits[b&0xF]})
}

func hex4(v uint16) string {
	const digits = "0123456789abcdef"
	return "0x" + string([]byte{
		digits[(v>>12)&0xF], digits[(v>>8)&0xF], digits[(v>>4)&0xF], digits[v&0xF],
	})
}
