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

// fetch reads the next instruction byte. Normally that means bus[PC]
// with PC post-incremented; while servicing an interrupt, bytes come
// from the two-byte buffer the interrupt vector supplied instead.
func (c *CPU) fetch() uint8 {
	if c.inInterrupt {
		b := c.opBuf[c.opCursor]
		c.opCursor++
		return b
	}
	pc := c.Regs.GetThenInc16(register.PC)
	return c.Bus.Read(pc, false)
}

// fetch2 reads a little-endian 16-bit operand via two fetch calls.
func (c *CPU) fetch2() uint16 {
	lo := c.fetch()
	hi := c.fetch()
	return uint16(hi)<<8 | uint16(lo)
}

// Step executes one instruction. If the CPU is halted it is a no-op.
// When the pseudo-BDOS shim is enabled, it runs first and may consume
// the step itself.
func (c *CPU) Step() error {
	if c.Halted {
		return nil
	}

	if c.HandleBDOSEnabled {
		consumed, err := c.runBDOS()
		if consumed {
			return err
		}
	}

	return c.execute(c.fetch())
}

// Interrupt acknowledges an external interrupt request if
// InterruptsEnabled is set: it disables further interrupts, pushes
// PC, and executes opcode vector[0] with vector[1:] available to
// fetch/fetch2 in place of the bus. A silent no-op if interrupts are
// currently disabled.
func (c *CPU) Interrupt(vector [3]uint8) error {
	if !c.InterruptsEnabled {
		return nil
	}

	c.InterruptsEnabled = false
	c.push(c.Regs.Get16(register.PC))

	c.opBuf = [2]uint8{vector[1], vector[2]}
	c.opCursor = 0
	c.inInterrupt = true
	err := c.execute(vector[0])
	c.inInterrupt = false

	return err
}

func (c *CPU) traceOrElse(opcode uint8, fallback func()) error {
	if TraceUnknownOpcodes {
		return &UnknownOpcodeError{PC: c.Regs.Get16(register.PC) - 1, Opcode: opcode}
	}
	fallback()
	return nil
}

// execute decodes and runs a single opcode, whether it came from the
// normal fetch cycle or an injected interrupt vector.
func (c *CPU) execute(opcode uint8) error {
	switch opcode {
	case 0x00:
		return nil

	case 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38:
		return c.traceOrElse(opcode, func() {})

	case 0x02, 0x12:
		c.stax(decodePair(rp(opcode)))
		return nil
	case 0x0A, 0x1A:
		c.ldax(decodePair(rp(opcode)))
		return nil

	case 0x07:
		c.rlc()
		return nil
	case 0x0F:
		c.rrc()
		return nil
	case 0x17:
		c.ral()
		return nil
	case 0x1F:
		c.rar()
		return nil

	case 0x22:
		c.shld()
		return nil
	case 0x27:
		c.daa()
		return nil
	case 0x2A:
		c.lhld()
		return nil
	case 0x2F:
		c.cma()
		return nil
	case 0x32:
		c.sta()
		return nil
	case 0x37:
		c.stc()
		return nil
	case 0x3A:
		c.lda()
		return nil
	case 0x3F:
		c.cmc()
		return nil

	case 0x76:
		c.Halted = true
		return nil

	case 0xC3:
		c.jump(c.fetch2())
		return nil
	case 0xC9:
		c.ret()
		return nil
	case 0xCD:
		c.call(c.fetch2())
		return nil
	case 0xD3:
		c.out(c.fetch())
		return nil
	case 0xDB:
		c.in(c.fetch())
		return nil
	case 0xE3:
		c.xthl()
		return nil
	case 0xE9:
		c.pchl()
		return nil
	case 0xEB:
		c.xchg()
		return nil
	case 0xF3:
		c.InterruptsEnabled = false
		return nil
	case 0xF9:
		c.sphl()
		return nil
	case 0xFB:
		c.InterruptsEnabled = true
		return nil

	case 0xCB:
		return c.traceOrElse(opcode, func() { c.jump(c.fetch2()) })
	case 0xD9:
		return c.traceOrElse(opcode, func() { c.ret() })
	case 0xDD, 0xED, 0xFD:
		return c.traceOrElse(opcode, func() { c.call(c.fetch2()) })
	}

	switch {
	case opcode&0xCF == 0x01:
		c.Regs.Set16(decodePair(rp(opcode)), c.fetch2())
	case opcode&0xCF == 0x03:
		c.Regs.Inc16(decodePair(rp(opcode)))
	case opcode&0xCF == 0x0B:
		c.Regs.Dec16(decodePair(rp(opcode)))
	case opcode&0xCF == 0x09:
		c.dad(decodePair(rp(opcode)))

	case opcode&0xC7 == 0x04:
		c.inr8(decodeOperand8(ddd(opcode)))
	case opcode&0xC7 == 0x05:
		c.dcr8(decodeOperand8(ddd(opcode)))
	case opcode&0xC7 == 0x06:
		c.set8(decodeOperand8(ddd(opcode)), c.fetch())

	case opcode&0xC0 == 0x40:
		c.set8(decodeOperand8(ddd(opcode)), c.get8(decodeOperand8(sss(opcode))))
	case opcode&0xC0 == 0x80:
		c.aluReg(opcode)

	case opcode&0xC7 == 0xC0:
		if c.condition(ddd(opcode)) {
			c.ret()
		}
	case opcode&0xCF == 0xC1:
		c.popPair(decodePairPSW(rp(opcode)))
	case opcode&0xC7 == 0xC2:
		addr := c.fetch2()
		if c.condition(ddd(opcode)) {
			c.jump(addr)
		}
	case opcode&0xC7 == 0xC4:
		addr := c.fetch2()
		if c.condition(ddd(opcode)) {
			c.call(addr)
		}
	case opcode&0xCF == 0xC5:
		c.pushPair(decodePairPSW(rp(opcode)))
	case opcode&0xC7 == 0xC6:
		c.aluImm(opcode, c.fetch())
	case opcode&0xC7 == 0xC7:
		c.rst(ddd(opcode))

	default:
		return &UnknownOpcodeError{PC: c.Regs.Get16(register.PC) - 1, Opcode: opcode}
	}

	return nil
}
