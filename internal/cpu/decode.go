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

package cpu

import "github.com/lassandro/go-altair/internal/register"

// operand8 is the decoded form of a 3-bit DDD/SSS register field: one
// of the seven physical 8-bit registers, or the M pseudo-register
// meaning "the byte at address HL".
type operand8 struct {
	reg      register.R8
	isMemory bool
}

// reg8Table is the {B, C, D, E, H, L, M, A} index the 8080 uses for
// every 3-bit register field in MOV/ALU/INR/DCR forms.
var reg8Table = [8]operand8{
	{reg: register.B},
	{reg: register.C},
	{reg: register.D},
	{reg: register.E},
	{reg: register.H},
	{reg: register.L},
	{isMemory: true},
	{reg: register.A},
}

func decodeOperand8(field uint8) operand8 {
	return reg8Table[field&0x7]
}

// get8 reads an operand, dereferencing HL for the M pseudo-register.
func (c *CPU) get8(op operand8) uint8 {
	if op.isMemory {
		return c.Bus.Read(c.Regs.Get16(register.HL), false)
	}
	return c.Regs.Get8(op.reg)
}

// set8 writes an operand, dereferencing HL for the M pseudo-register.
func (c *CPU) set8(op operand8, v uint8) {
	if op.isMemory {
		c.Bus.Write(c.Regs.Get16(register.HL), v, false)
		return
	}
	c.Regs.Set8(op.reg, v)
}

// pairTable is the RP index: bits 4-5 of the opcode select a register
// pair. For most instructions 11 means SP; PUSH/POP/PSW-related forms
// remap 11 to AF via pairTablePSW.
var pairTable = [4]register.Pair{register.BC, register.DE, register.HL, register.SP}
var pairTablePSW = [4]register.Pair{register.BC, register.DE, register.HL, register.AF}

func decodePair(field uint8) register.Pair {
	return pairTable[field&0x3]
}

func decodePairPSW(field uint8) register.Pair {
	return pairTablePSW[field&0x3]
}

// condition evaluates one of the eight 3-bit condition codes against
// the current flags.
func (c *CPU) condition(field uint8) bool {
	switch field & 0x7 {
	case 0b000:
		return !c.Regs.Flag(register.FlagZ)
	case 0b001:
		return c.Regs.Flag(register.FlagZ)
	case 0b010:
		return !c.Regs.Flag(register.FlagC)
	case 0b011:
		return c.Regs.Flag(register.FlagC)
	case 0b100:
		return !c.Regs.Flag(register.FlagP)
	case 0b101:
		return c.Regs.Flag(register.FlagP)
	case 0b110:
		return !c.Regs.Flag(register.FlagS)
	default: // 0b111
		return c.Regs.Flag(register.FlagS)
	}
}

// ddd extracts the destination register field (bits 3-5).
func ddd(opcode uint8) uint8 { return (opcode >> 3) & 0x7 }

// sss extracts the source register field (bits 0-2).
func sss(opcode uint8) uint8 { return opcode & 0x7 }

// rp extracts the register-pair field (bits 4-5).
func rp(opcode uint8) uint8 { return (opcode >> 4) & 0x3 }
