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

// dollarSign is CP/M's string terminator for BDOS function 0x09.
const dollarSign = 0x24

// runBDOS is consulted at the top of Step when HandleBDOSEnabled is
// set. It intercepts the cold-boot vector (0x0000) and CP/M's console
// BDOS entry point (0x0005), servicing functions 0x02 (print
// character) and 0x09 (print $-terminated string) and synthesizing a
// RET for every call through 0x0005, including one whose function code
// is not implemented.
//
// It reports whether it consumed the step (true) and, for an
// unimplemented BDOS function, an UnknownBDOSCallError.
func (c *CPU) runBDOS() (bool, error) {
	pc := c.Regs.Get16(register.PC)

	switch pc {
	case 0x0000:
		if c.justBooted {
			c.justBooted = false
			return false, nil
		}
		c.Bus.Write(0, 0x76, false) // HLT
		return false, nil

	case 0x0005:
		code := c.Regs.Get8(register.C)
		var err error
		switch code {
		case 0x02:
			c.PrintSink.Write([]byte{c.Regs.Get8(register.E)})
		case 0x09:
			addr := c.Regs.Get16(register.DE)
			for {
				b := c.Bus.Read(addr, false)
				if b == dollarSign {
					break
				}
				c.PrintSink.Write([]byte{b})
				addr++
			}
		default:
			err = &UnknownBDOSCallError{PC: pc, Code: code}
		}

		// The caller arrived via CALL 0x0005; consume the byte it
		// expects to have traversed, then synthesize the RET.
		c.Regs.GetThenInc16(register.PC)
		c.ret()
		return true, err
	}

	return false, nil
}
