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

// add performs A <- A + src (+ carryIn), setting C, AC, Z, S, P.
func (c *CPU) add(src uint8, carryIn bool) {
	a := c.Regs.Get8(register.A)
	var ci uint8
	if carryIn {
		ci = 1
	}

	sum16 := uint16(a) + uint16(src) + uint16(ci)
	result := uint8(sum16)

	c.Regs.SetFlagIf(register.FlagC, sum16 > 0xFF)
	c.Regs.SetFlagIf(register.FlagAC, (a&0x0F)+(src&0x0F)+ci > 0x0F)
	c.Regs.SetZSP(result)
	c.Regs.Set8(register.A, result)
}

// sub performs A <- A - src (- borrowIn), setting C, AC, Z, S, P. CMP
// calls this and discards the result.
func (c *CPU) sub(src uint8, borrowIn bool) uint8 {
	a := c.Regs.Get8(register.A)
	var bi uint8
	if borrowIn {
		bi = 1
	}

	diff16 := uint16(a) - uint16(src) - uint16(bi)
	result := uint8(diff16)

	c.Regs.SetFlagIf(register.FlagC, diff16 > 0xFF)
	c.Regs.SetFlagIf(register.FlagAC, (a&0x0F) >= (src&0x0F))
	c.Regs.SetZSP(result)
	return result
}

func (c *CPU) doSub(src uint8, borrowIn bool) {
	result := c.sub(src, borrowIn)
	c.Regs.Set8(register.A, result)
}

func (c *CPU) doCmp(src uint8) {
	c.sub(src, false)
}

// ana performs A <- A & src. AC is set from bit 3 of (A | src) for
// the register/memory form; immediate ANI clears AC (see doAni).
func (c *CPU) ana(src uint8) {
	a := c.Regs.Get8(register.A)
	result := a & src

	c.Regs.ClearFlag(register.FlagC)
	c.Regs.SetFlagIf(register.FlagAC, (a|src)&0x08 != 0)
	c.Regs.SetZSP(result)
	c.Regs.Set8(register.A, result)
}

func (c *CPU) ani(src uint8) {
	a := c.Regs.Get8(register.A)
	result := a & src

	c.Regs.ClearFlag(register.FlagC)
	c.Regs.ClearFlag(register.FlagAC)
	c.Regs.SetZSP(result)
	c.Regs.Set8(register.A, result)
}

func (c *CPU) xra(src uint8) { c.logicalClearAC(c.Regs.Get8(register.A) ^ src) }
func (c *CPU) ora(src uint8) { c.logicalClearAC(c.Regs.Get8(register.A) | src) }

func (c *CPU) logicalClearAC(result uint8) {
	c.Regs.ClearFlag(register.FlagC)
	c.Regs.ClearFlag(register.FlagAC)
	c.Regs.SetZSP(result)
	c.Regs.Set8(register.A, result)
}

// rlc rotates A left by one bit; the bit rotated out becomes the new
// carry and also fills bit 0. Only C is affected.
func (c *CPU) rlc() {
	a := c.Regs.Get8(register.A)
	carryOut := a&0x80 != 0
	result := a<<1 | a>>7
	c.Regs.SetFlagIf(register.FlagC, carryOut)
	c.Regs.Set8(register.A, result)
}

func (c *CPU) rrc() {
	a := c.Regs.Get8(register.A)
	carryOut := a&0x01 != 0
	result := a>>1 | a<<7
	c.Regs.SetFlagIf(register.FlagC, carryOut)
	c.Regs.Set8(register.A, result)
}

// ral rotates A left through carry: the old carry becomes bit 0, the
// bit rotated out of bit 7 becomes the new carry.
func (c *CPU) ral() {
	a := c.Regs.Get8(register.A)
	var oldCarry uint8
	if c.Regs.Flag(register.FlagC) {
		oldCarry = 1
	}
	carryOut := a&0x80 != 0
	result := a<<1 | oldCarry
	c.Regs.SetFlagIf(register.FlagC, carryOut)
	c.Regs.Set8(register.A, result)
}

func (c *CPU) rar() {
	a := c.Regs.Get8(register.A)
	var oldCarry uint8
	if c.Regs.Flag(register.FlagC) {
		oldCarry = 0x80
	}
	carryOut := a&0x01 != 0
	result := a>>1 | oldCarry
	c.Regs.SetFlagIf(register.FlagC, carryOut)
	c.Regs.Set8(register.A, result)
}

// dad adds pair into HL, setting C from the 17-bit overflow and
// touching no other flag.
func (c *CPU) dad(pair register.Pair) {
	hl := c.Regs.Get16(register.HL)
	v := c.Regs.Get16(pair)
	sum := uint32(hl) + uint32(v)
	c.Regs.SetFlagIf(register.FlagC, sum > 0xFFFF)
	c.Regs.Set16(register.HL, uint16(sum))
}

// inr8 increments an 8-bit operand, setting Z, S, P and AC (the
// textbook half-carry rule); C is untouched.
func (c *CPU) inr8(op operand8) {
	v := c.get8(op)
	result := v + 1
	c.Regs.SetFlagIf(register.FlagAC, v&0x0F == 0x0F)
	c.Regs.SetZSP(result)
	c.set8(op, result)
}

// dcr8 decrements an 8-bit operand. AC is set when no borrow is
// needed out of bit 4, i.e. when the low nibble was nonzero.
func (c *CPU) dcr8(op operand8) {
	v := c.get8(op)
	result := v - 1
	c.Regs.SetFlagIf(register.FlagAC, v&0x0F != 0)
	c.Regs.SetZSP(result)
	c.set8(op, result)
}

// daa adjusts A after a BCD addition.
func (c *CPU) daa() {
	a := c.Regs.Get8(register.A)
	carry := c.Regs.Flag(register.FlagC)
	ac := c.Regs.Flag(register.FlagAC)

	if a&0x0F > 9 || ac {
		ac = true
		a += 0x06
	}
	if a&0xF0 > 0x90 || carry {
		if uint16(a)+0x60 > 0xFF {
			carry = true
		}
		a += 0x60
	}

	c.Regs.SetFlagIf(register.FlagAC, ac)
	c.Regs.SetFlagIf(register.FlagC, carry)
	c.Regs.SetZSP(a)
	c.Regs.Set8(register.A, a)
}
