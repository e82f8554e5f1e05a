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

package register

import "math/bits"

// pairOf reports which 16-bit cell a half-register belongs to.
func pairOf(r R8) Pair {
	switch r {
	case B, C:
		return BC
	case D, E:
		return DE
	case H, L:
		return HL
	default: // A, F
		return AF
	}
}

// isHi reports whether r occupies the high byte of its pair.
func isHi(r R8) bool {
	switch r {
	case B, D, H, A:
		return true
	default:
		return false
	}
}

// Get16 reads a 16-bit cell whole.
func (f *File) Get16(p Pair) uint16 {
	return f.cells[p]
}

// Set16 writes a 16-bit cell whole. Writing AF forces the fixed F bits.
func (f *File) Set16(p Pair, v uint16) {
	if p == AF {
		v = (v &^ fMaskClear) | fMaskSet
	}
	f.cells[p] = v
}

// Get8 reads one half of a register pair, leaving the other half
// untouched.
func (f *File) Get8(r R8) uint8 {
	v := f.cells[pairOf(r)]
	if isHi(r) {
		return uint8(v >> 8)
	}
	return uint8(v)
}

// Set8 writes one half of a register pair, leaving the other half
// unchanged. Writing F forces bit 1 set and bits 3/5 clear.
func (f *File) Set8(r R8, v uint8) {
	p := pairOf(r)
	if r == F {
		v = (v &^ fMaskClear) | fMaskSet
	}
	cur := f.cells[p]
	if isHi(r) {
		f.cells[p] = (cur & 0x00FF) | (uint16(v) << 8)
	} else {
		f.cells[p] = (cur & 0xFF00) | uint16(v)
	}
}

// Inc16 increments a 16-bit cell in place and returns the new value.
func (f *File) Inc16(p Pair) uint16 {
	f.cells[p]++
	return f.cells[p]
}

// Dec16 decrements a 16-bit cell in place and returns the new value.
func (f *File) Dec16(p Pair) uint16 {
	f.cells[p]--
	return f.cells[p]
}

// GetThenInc16 returns the current value of a cell, then increments it —
// the fetch-and-advance idiom used for PC and SP.
func (f *File) GetThenInc16(p Pair) uint16 {
	v := f.cells[p]
	f.cells[p]++
	return v
}

// Flag reads a single F-register bit.
func (f *File) Flag(bit Flag) bool {
	return f.Get8(F)&(1<<uint(bit)) != 0
}

// SetFlag unconditionally sets a single F-register bit to 1.
func (f *File) SetFlag(bit Flag) {
	f.setFlagIf(bit, true)
}

// ClearFlag unconditionally clears a single F-register bit to 0.
func (f *File) ClearFlag(bit Flag) {
	f.setFlagIf(bit, false)
}

// SetFlagIf sets or clears a single F-register bit according to cond.
func (f *File) SetFlagIf(bit Flag, cond bool) {
	f.setFlagIf(bit, cond)
}

func (f *File) setFlagIf(bit Flag, cond bool) {
	cur := f.Get8(F)
	if cond {
		cur |= 1 << uint(bit)
	} else {
		cur &^= 1 << uint(bit)
	}
	f.Set8(F, cur)
}

// SetZSP updates Z, S and P from an 8-bit result, independent of any
// prior flag state. AC is left untouched — the caller derives it per
// the rule of the instruction that produced value.
func (f *File) SetZSP(value uint8) {
	f.SetFlagIf(FlagZ, value == 0)
	f.SetFlagIf(FlagS, value&0x80 != 0)
	f.SetFlagIf(FlagP, bits.OnesCount8(value)%2 == 0)
}

// Reset zeroes every register cell, restoring F's fixed bits.
func (f *File) Reset() {
	for p := range f.cells {
		f.cells[p] = 0
	}
	f.Set8(F, 0)
}
