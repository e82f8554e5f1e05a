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

// Package register models the 8080's register file: the six 16-bit
// cells, their 8-bit halves, and the F-register flag bits.
package register

// Pair names one of the six 16-bit register cells.
type Pair int

const (
	AF Pair = iota
	BC
	DE
	HL
	SP
	PC
	numPairs
)

// R8 names an 8-bit half-register. M is not a member of this set — it
// is a distinct pseudo-register handled by the caller (see cpu's operand8).
type R8 int

const (
	B R8 = iota
	C
	D
	E
	H
	L
	A
	F
)

// Flag names a single bit of the F register.
type Flag int

const (
	FlagC  Flag = 0 // Carry
	FlagP  Flag = 2 // Parity
	FlagAC Flag = 4 // Auxiliary Carry
	FlagZ  Flag = 6 // Zero
	FlagS  Flag = 7 // Sign
)

// fMaskSet are the F bits that always read as 1; fMaskClear are the F
// bits that always read as 0, regardless of what is written.
const (
	fMaskSet   = 1 << 1
	fMaskClear = 1<<3 | 1<<5
)

// File is the 8080 register file: six 16-bit cells addressable whole
// or, for AF/BC/DE/HL, as two 8-bit halves.
type File struct {
	cells [numPairs]uint16
}
