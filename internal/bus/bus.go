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

// Package bus implements the S-100-style backplane: a fixed set of
// slots holding cards, address-decoded dispatch of reads and writes,
// and ascending-slot interrupt aggregation.
package bus

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lassandro/go-altair/internal/card"
)

// NumSlots is the number of card slots the backplane exposes.
const NumSlots = 18

// NoSlot is returned by SlotByAddr when no card answers an address.
const NoSlot = 255

// BadByte is what Read returns when no installed card claims the
// address. It is a documented sentinel, not an error.
const BadByte uint8 = 0xFF

// Bus dispatches byte reads and writes to the cards plugged into its
// slots. It does not own the cards; callers construct and insert them.
type Bus struct {
	slots         [NumSlots]card.Card
	allowConflict [NumSlots]bool
}

// Insert plugs card c into slot. It fails if slot is out of range, the
// slot is already occupied, or (unless allowConflict is set) c's
// address range overlaps an existing card in the same address space
// (memory vs. I/O).
func (b *Bus) Insert(c card.Card, slot int, allowConflict bool) error {
	if c == nil {
		return fmt.Errorf("bus: cannot insert nil card")
	}
	if slot < 0 || slot >= NumSlots {
		return fmt.Errorf("bus: slot %d out of range (0-%d)", slot, NumSlots-1)
	}
	if b.slots[slot] != nil {
		return fmt.Errorf("bus: slot %d already occupied", slot)
	}
	if !allowConflict && b.conflicts(c) {
		return fmt.Errorf("bus: slot %d: card conflicts with an existing card's address range", slot)
	}

	b.slots[slot] = c
	b.allowConflict[slot] = allowConflict
	return nil
}

func (b *Bus) conflicts(c card.Card) bool {
	ident := c.Identify()
	for i, existing := range b.slots {
		if existing == nil || b.allowConflict[i] {
			continue
		}
		if existing.IsIO() != c.IsIO() {
			continue
		}
		existingIdent := existing.Identify()
		if existing.InRange(ident.StartAddr) || c.InRange(existingIdent.StartAddr) {
			return true
		}
	}
	return false
}

// Remove empties slot. It fails if slot is out of range; removing an
// already-empty slot is not an error.
func (b *Bus) Remove(slot int) error {
	if slot < 0 || slot >= NumSlots {
		return fmt.Errorf("bus: slot %d out of range (0-%d)", slot, NumSlots-1)
	}
	b.slots[slot] = nil
	b.allowConflict[slot] = false
	return nil
}

// Size is the number of addressable memory locations on the bus. It
// is a fixed property of the 16-bit address space, not a count of
// installed cards.
func (b *Bus) Size() int { return 1 << 16 }

// Read returns the byte the first in-range card (by ascending slot)
// answers for addr in the given address space. It returns BadByte if
// no card claims the address.
func (b *Bus) Read(addr uint16, isIO bool) uint8 {
	for _, c := range b.slots {
		if c != nil && c.IsIO() == isIO && c.InRange(addr) {
			return c.Read(addr)
		}
	}
	return BadByte
}

// Write delivers value to every in-range card (by address space). Unlike
// Read, which answers from the first match, Write fans out: a
// deliberately overlapping pair of cards both see the byte.
func (b *Bus) Write(addr uint16, value uint8, isIO bool) {
	for _, c := range b.slots {
		if c != nil && c.IsIO() == isIO && c.InRange(addr) {
			c.Write(addr, value)
		}
	}
}

// WriteForce is Write, but bypasses write-lock on cards that
// implement card.Locker (RAM and ROM). Used by the program loader.
func (b *Bus) WriteForce(addr uint16, value uint8, isIO bool) {
	for _, c := range b.slots {
		if c == nil || c.IsIO() != isIO || !c.InRange(addr) {
			continue
		}
		if locker, ok := c.(card.Locker); ok {
			locker.WriteForce(addr, value)
			continue
		}
		c.Write(addr, value)
	}
}

// IsIRQ reports whether any card currently has an interrupt pending.
func (b *Bus) IsIRQ() bool {
	for _, c := range b.slots {
		if irqCard, ok := c.(card.Interrupter); ok && irqCard.IsIRQ() {
			return true
		}
	}
	return false
}

// GetIRQ returns the interrupt vector bytes of the first card (by
// ascending slot) with a pending interrupt. Call only after IsIRQ
// reports true; if none is pending, it returns the zero vector.
func (b *Bus) GetIRQ() [3]uint8 {
	for _, c := range b.slots {
		if irqCard, ok := c.(card.Interrupter); ok && irqCard.IsIRQ() {
			return irqCard.GetIRQ()
		}
	}
	return [3]uint8{}
}

// SlotByAddr returns the slot of the first card (memory or I/O) whose
// range contains addr, or NoSlot if none does.
func (b *Bus) SlotByAddr(addr uint16) int {
	for i, c := range b.slots {
		if c != nil && c.InRange(addr) {
			return i
		}
	}
	return NoSlot
}

// Clear resets every installed card's data or configuration.
func (b *Bus) Clear() {
	for _, c := range b.slots {
		if c != nil {
			c.Clear()
		}
	}
}

// MapDescription renders a human-readable listing of every occupied
// slot: its address space, range, name and detail string.
func (b *Bus) MapDescription() string {
	var sb strings.Builder
	for i, c := range b.slots {
		if c == nil {
			continue
		}
		ident := c.Identify()
		space := "MEM"
		width := 4
		if c.IsIO() {
			space = "I/O"
			width = 2
		}
		rangeStr := fmt.Sprintf("%0*x/%d", width, ident.StartAddr, ident.AddrRange)
		fmt.Fprintf(&sb, "slot %2d: [%s] %-12s: %s", i, space, rangeStr, ident.Name)
		if ident.Detail != "" {
			fmt.Fprintf(&sb, ", %s", ident.Detail)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Slots returns the indices of occupied slots in ascending order, for
// callers that want to iterate without reaching into the zero value.
func (b *Bus) Slots() []int {
	var out []int
	for i, c := range b.slots {
		if c != nil {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}
