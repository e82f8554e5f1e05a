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

func (c *CPU) stax(pair register.Pair) {
	c.Bus.Write(c.Regs.Get16(pair), c.Regs.Get8(register.A), false)
}

func (c *CPU) ldax(pair register.Pair) {
	c.Regs.Set8(register.A, c.Bus.Read(c.Regs.Get16(pair), false))
}

func (c *CPU) shld() {
	addr := c.fetch2()
	c.Bus.Write(addr, c.Regs.Get8(register.L), false)
	c.Bus.Write(addr+1, c.Regs.Get8(register.H), false)
}

func (c *CPU) lhld() {
	addr := c.fetch2()
	c.Regs.Set8(register.L, c.Bus.Read(addr, false))
	c.Regs.Set8(register.H, c.Bus.Read(addr+1, false))
}

func (c *CPU) sta() {
	c.Bus.Write(c.fetch2(), c.Regs.Get8(register.A), false)
}

func (c *CPU) lda() {
	c.Regs.Set8(register.A, c.Bus.Read(c.fetch2(), false))
}

func (c *CPU) xchg() {
	hl := c.Regs.Get16(register.HL)
	de := c.Regs.Get16(register.DE)
	c.Regs.Set16(register.HL, de)
	c.Regs.Set16(register.DE, hl)
}

// xthl swaps HL with the 16-bit value at the top of the stack.
func (c *CPU) xthl() {
	sp := c.Regs.Get16(register.SP)
	lo := c.Bus.Read(sp, false)
	hi := c.Bus.Read(sp+1, false)

	hl := c.Regs.Get16(register.HL)
	c.Bus.Write(sp, uint8(hl), false)
	c.Bus.Write(sp+1, uint8(hl>>8), false)

	c.Regs.Set16(register.HL, uint16(hi)<<8|uint16(lo))
}

func (c *CPU) sphl() { c.Regs.Set16(register.SP, c.Regs.Get16(register.HL)) }
func (c *CPU) pchl() { c.Regs.Set16(register.PC, c.Regs.Get16(register.HL)) }

func (c *CPU) cma() { c.Regs.Set8(register.A, ^c.Regs.Get8(register.A)) }
func (c *CPU) stc() { c.Regs.SetFlag(register.FlagC) }
func (c *CPU) cmc() { c.Regs.SetFlagIf(register.FlagC, !c.Regs.Flag(register.FlagC)) }

// aluReg applies the ALU operation selected by opcode's DDD field to
// A and the register/memory operand selected by its SSS field.
func (c *CPU) aluReg(opcode uint8) {
	src := c.get8(decodeOperand8(sss(opcode)))
	c.aluApply(ddd(opcode), src, false)
}

// aluImm applies the ALU operation selected by opcode's DDD field to
// A and an immediate byte already fetched by the caller.
func (c *CPU) aluImm(opcode uint8, imm uint8) {
	c.aluApply(ddd(opcode), imm, true)
}

// aluApply dispatches the 3-bit ALU selector. immediate distinguishes
// ANI (clears AC unconditionally) from register-form ANA (AC from bit
// 3 of A|src).
func (c *CPU) aluApply(op uint8, src uint8, immediate bool) {
	switch op & 0x7 {
	case 0b000:
		c.add(src, false)
	case 0b001:
		c.add(src, c.Regs.Flag(register.FlagC))
	case 0b010:
		c.doSub(src, false)
	case 0b011:
		c.doSub(src, c.Regs.Flag(register.FlagC))
	case 0b100:
		if immediate {
			c.ani(src)
		} else {
			c.ana(src)
		}
	case 0b101:
		c.xra(src)
	case 0b110:
		c.ora(src)
	case 0b111:
		c.doCmp(src)
	}
}
