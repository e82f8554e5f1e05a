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

package card

import (
	"fmt"

	"github.com/lassandro/go-altair/internal/serial"
)

// Serial status bits.
const (
	StatusRDRF uint8 = 0x01
	StatusTDRE uint8 = 0x02
	StatusDCD  uint8 = 0x04
	StatusCTS  uint8 = 0x08
	StatusFE   uint8 = 0x10
	StatusOVRN uint8 = 0x20
	StatusPE   uint8 = 0x40
	StatusIRQ  uint8 = 0x80
)

// masterResetControl is the documented 6850 post-reset CONTROL value:
// divide-by-4, 8 data bits/no parity/1 stop bit (as wordSelect decodes
// bits 2-4), RTS low, and bit 7 set. Clear stores it without decoding
// it, so interrupts stay disabled after a reset.
const masterResetControl uint8 = 0b10010101

// baseClock is the nominal clock the divide-by selects are applied
// against, per the Motorola 6850 data sheet.
const baseClock = 19200

// SerialCard emulates a 6850 ACIA wired to a host Adapter. It occupies
// two consecutive I/O ports, partially decoded on the low 8 bits of
// the address, so it is mirrored 255 times across the port space.
type SerialCard struct {
	startAddr uint8
	adapter   serial.Adapter

	txData, rxData, control, status uint8
	divideBy                        int
	rts                             bool
	irqEnabled                      bool
}

// NewSerialCard constructs a serial card at the given port and opens
// its adapter. The card performs a master reset before returning.
func NewSerialCard(startAddr uint8, adapter serial.Adapter) (*SerialCard, error) {
	if err := adapter.Open(); err != nil {
		return nil, fmt.Errorf("card: open serial adapter: %w", err)
	}
	c := &SerialCard{startAddr: startAddr, adapter: adapter}
	c.Clear()
	return c, nil
}

func (c *SerialCard) InRange(addr uint16) bool {
	port := uint8(addr)
	return port >= c.startAddr && port < c.startAddr+2
}

func (c *SerialCard) Identify() Identify {
	return Identify{
		StartAddr: uint16(c.startAddr),
		AddrRange: 2,
		Name:      "serial uart",
		Detail: fmt.Sprintf(
			"baud: %d, ctrl: %#02x, pty: '%s'",
			baseClock>>c.divideBy, c.control, c.adapter.Name(),
		),
	}
}

func (c *SerialCard) IsIO() bool { return true }

// Read polls the adapter for a pending byte before answering STATUS
// or RX_DATA. Reading RX_DATA clears RDRF, so the next pending byte
// can be latched.
func (c *SerialCard) Read(addr uint16) uint8 {
	c.pollIntoRX()

	switch uint8(addr) {
	case c.startAddr:
		return c.status
	case c.startAddr + 1:
		c.status &^= StatusRDRF
		return c.rxData
	default:
		return 0
	}
}

func (c *SerialCard) pollIntoRX() {
	if c.status&StatusRDRF != 0 {
		return
	}
	ready, err := c.adapter.Poll()
	if err != nil || !ready {
		return
	}
	b, err := c.adapter.Getch()
	if err != nil {
		return
	}
	c.rxData = b
	c.status |= StatusRDRF
}

// Write dispatches to the CONTROL or TX_DATA register by port, then
// sends any latched, not-yet-transmitted byte to the adapter.
func (c *SerialCard) Write(addr uint16, b uint8) {
	switch uint8(addr) {
	case c.startAddr:
		c.writeControl(b)
	case c.startAddr + 1:
		c.txData = b
		c.status &^= StatusTDRE
	}

	if c.status&StatusTDRE == 0 {
		_ = c.adapter.Putch(c.txData)
		c.status |= StatusTDRE
	}
}

func (c *SerialCard) writeControl(b uint8) {
	switch b & 0b00000011 {
	case 0b00000000:
		c.setDivideBy(1)
	case 0b00000001:
		c.setDivideBy(4)
	case 0b00000010:
		c.setDivideBy(6)
	case 0b00000011:
		c.Clear()
		return
	}

	dataBits, parity, stopBits := wordSelect(b)
	_ = c.adapter.Configure(dataBits, parity, stopBits)

	switch b & 0b01100000 {
	case 0b00000000, 0b00100000:
		c.rts = true
	case 0b01000000:
		c.rts = false
	case 0b01100000:
		c.rts = true
		_ = c.adapter.SendBreak()
	}

	c.irqEnabled = b&0b10000000 != 0
	c.control = b
}

func (c *SerialCard) setDivideBy(n int) {
	c.divideBy = n
	_ = c.adapter.SetBaud(baseClock >> n)
}

// wordSelect decodes CONTROL bits 2-4 into the eight combinations the
// 6850 defines.
func wordSelect(b uint8) (dataBits int, parity serial.Parity, stopBits int) {
	switch b & 0b00011100 {
	case 0b00000000:
		return 7, serial.ParityEven, 2
	case 0b00000100:
		return 7, serial.ParityOdd, 2
	case 0b00001000:
		return 7, serial.ParityEven, 1
	case 0b00001100:
		return 7, serial.ParityOdd, 1
	case 0b00010000:
		return 8, serial.ParityNone, 2
	case 0b00010100:
		return 8, serial.ParityNone, 1
	case 0b00011000:
		return 8, serial.ParityEven, 1
	default:
		return 8, serial.ParityOdd, 1
	}
}

// Clear performs the 6850 master reset: zero the registers, restore
// the documented default CONTROL value, assert TDRE and RTS, and set
// divide-by to 4.
func (c *SerialCard) Clear() {
	c.txData, c.rxData, c.status = 0, 0, 0
	c.control = masterResetControl
	c.divideBy = 4
	_ = c.adapter.SetBaud(baseClock >> c.divideBy)
	c.status |= StatusTDRE
	c.rts = true
	c.irqEnabled = false
}

// IsIRQ reports a pending receiver interrupt: interrupts are enabled
// via CONTROL bit 7 and a byte is latched in RX_DATA awaiting pickup.
func (c *SerialCard) IsIRQ() bool {
	return c.irqEnabled && c.status&StatusRDRF != 0
}

// GetIRQ returns a no-op vector; this card has no RST/CALL wired to
// its interrupt line, matching the reference UART's undefined vector
// behavior.
func (c *SerialCard) GetIRQ() [3]uint8 {
	return [3]uint8{0, 0, 0}
}
