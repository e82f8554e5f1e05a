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

// push decrements SP by 2 and writes v, high byte first, matching the
// 8080's stack-grows-down convention.
func (c *CPU) push(v uint16) {
	sp := c.Regs.Get16(register.SP)
	sp--
	c.Bus.Write(sp, uint8(v>>8), false)
	sp--
	c.Bus.Write(sp, uint8(v), false)
	c.Regs.Set16(register.SP, sp)
}

// pop reads a 16-bit value off the stack and advances SP by 2.
func (c *CPU) pop() uint16 {
	sp := c.Regs.Get16(register.SP)
	lo := c.Bus.Read(sp, false)
	sp++
	hi := c.Bus.Read(sp, false)
	sp++
	c.Regs.Set16(register.SP, sp)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) jump(addr uint16)        { c.Regs.Set16(register.PC, addr) }
func (c *CPU) call(addr uint16) {
	c.push(c.Regs.Get16(register.PC))
	c.jump(addr)
}
func (c *CPU) ret() { c.jump(c.pop()) }

// rst pushes PC and jumps to n*8, the fixed RST vector table.
func (c *CPU) rst(n uint8) {
	c.push(c.Regs.Get16(register.PC))
	c.jump(uint16(n&0x7) * 8)
}

func (c *CPU) pushPair(pair register.Pair) { c.push(c.Regs.Get16(pair)) }

func (c *CPU) popPair(pair register.Pair) { c.Regs.Set16(pair, c.pop()) }

// out writes A to the I/O port, duplicating it into both bytes of the
// bus address per the 8080's OUT instruction.
func (c *CPU) out(port uint8) {
	addr := uint16(port)<<8 | uint16(port)
	c.Bus.Write(addr, c.Regs.Get8(register.A), true)
}

// in reads the I/O port into A.
func (c *CPU) in(port uint8) {
	addr := uint16(port)<<8 | uint16(port)
	c.Regs.Set8(register.A, c.Bus.Read(addr, true))
}
