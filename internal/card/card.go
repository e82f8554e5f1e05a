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

// Package card implements the S-100-style cards a Bus can hold: plain
// RAM/ROM memory cards and the 6850 ACIA serial card.
package card

// Identify carries the human-readable facts a Bus needs to print its
// map and to detect address-range conflicts.
type Identify struct {
	StartAddr uint16
	AddrRange int
	Name      string
	Detail    string
}

// Card is the interface every S-100 card implements. Memory cards
// answer in the 16-bit memory address space; I/O cards answer in the
// separate 256-address I/O space (IsIO reports which).
type Card interface {
	InRange(addr uint16) bool
	Identify() Identify
	Read(addr uint16) uint8
	Write(addr uint16, b uint8)
	IsIO() bool

	// Clear resets the card's data or configuration, as appropriate to
	// its kind.
	Clear()
}

// Locker is implemented by cards whose writes can be blocked, and
// bypassed via a privileged force-write — RAM and ROM.
type Locker interface {
	WriteLock()
	WriteUnlock()
	IsWriteLocked() bool
	WriteForce(addr uint16, b uint8)
}

// Interrupter is implemented by cards that can raise a bus interrupt —
// currently only the serial card, when interrupts are enabled in its
// CONTROL register and RDRF is set.
type Interrupter interface {
	IsIRQ() bool
	GetIRQ() [3]uint8
}
