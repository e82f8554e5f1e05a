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

package serial

import (
	"fmt"
	"os"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// PTYAdapter bridges the ACIA serial card to a real host pseudo-
// terminal. The master side (ptmx) is what the emulator reads and
// writes; the slave side's path is what an external user connects to
// (e.g. via screen).
type PTYAdapter struct {
	ptmx *os.File
	tty  *os.File
	name string
}

// Open allocates a new pty pair and records the slave's path as this
// adapter's name.
func (p *PTYAdapter) Open() error {
	ptmx, tty, err := pty.Open()
	if err != nil {
		return fmt.Errorf("serial: open pty: %w", err)
	}
	p.ptmx = ptmx
	p.tty = tty
	p.name = tty.Name()
	return nil
}

func (p *PTYAdapter) Name() string { return p.name }

// SetBaud records a nominal baud rate on the slave's termios. No
// per-byte timing is derived from it; a local pty has no physical
// line to throttle.
func (p *PTYAdapter) SetBaud(rate int) error {
	t, err := unix.IoctlGetTermios(int(p.tty.Fd()), unix.TCGETS)
	if err != nil {
		return fmt.Errorf("serial: get termios: %w", err)
	}
	t.Ispeed = uint32(rate)
	t.Ospeed = uint32(rate)
	if err := unix.IoctlSetTermios(int(p.tty.Fd()), unix.TCSETS, t); err != nil {
		return fmt.Errorf("serial: set baud: %w", err)
	}
	return nil
}

// Configure sets data bits, parity and stop bits on the slave's
// termios. Invalid combinations (data bits outside 5-8, stop bits
// outside 1-2) fail with a validation error.
func (p *PTYAdapter) Configure(dataBits int, parity Parity, stopBits int) error {
	if dataBits < 5 || dataBits > 8 {
		return fmt.Errorf("serial: invalid data bits %d (want 5-8)", dataBits)
	}
	if stopBits != 1 && stopBits != 2 {
		return fmt.Errorf("serial: invalid stop bits %d (want 1 or 2)", stopBits)
	}
	if parity != ParityNone && parity != ParityEven && parity != ParityOdd {
		return fmt.Errorf("serial: invalid parity %d", parity)
	}

	t, err := unix.IoctlGetTermios(int(p.tty.Fd()), unix.TCGETS)
	if err != nil {
		return fmt.Errorf("serial: get termios: %w", err)
	}

	t.Cflag &^= unix.CSIZE
	switch dataBits {
	case 5:
		t.Cflag |= unix.CS5
	case 6:
		t.Cflag |= unix.CS6
	case 7:
		t.Cflag |= unix.CS7
	case 8:
		t.Cflag |= unix.CS8
	}

	t.Cflag &^= unix.PARENB | unix.PARODD
	switch parity {
	case ParityEven:
		t.Cflag |= unix.PARENB
	case ParityOdd:
		t.Cflag |= unix.PARENB | unix.PARODD
	}

	if stopBits == 2 {
		t.Cflag |= unix.CSTOPB
	} else {
		t.Cflag &^= unix.CSTOPB
	}

	if err := unix.IoctlSetTermios(int(p.tty.Fd()), unix.TCSETS, t); err != nil {
		return fmt.Errorf("serial: configure: %w", err)
	}
	return nil
}

// SendBreak asserts and then clears a line break condition on the
// slave.
func (p *PTYAdapter) SendBreak() error {
	if err := unix.IoctlSetInt(int(p.tty.Fd()), unix.TIOCSBRK, 0); err != nil {
		return fmt.Errorf("serial: send break: %w", err)
	}
	time.Sleep(250 * time.Millisecond)
	if err := unix.IoctlSetInt(int(p.tty.Fd()), unix.TIOCCBRK, 0); err != nil {
		return fmt.Errorf("serial: clear break: %w", err)
	}
	return nil
}

// Poll reports whether a byte is available on the master side without
// blocking.
func (p *PTYAdapter) Poll() (bool, error) {
	fds := []unix.PollFd{{Fd: int32(p.ptmx.Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	if err != nil {
		return false, fmt.Errorf("serial: poll: %w", err)
	}
	return n > 0 && fds[0].Revents&unix.POLLIN != 0, nil
}

func (p *PTYAdapter) Getch() (uint8, error) {
	var buf [1]byte
	if _, err := p.ptmx.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("serial: read: %w", err)
	}
	return buf[0], nil
}

func (p *PTYAdapter) Putch(b uint8) error {
	buf := [1]byte{b}
	for written := 0; written < 1; {
		n, err := p.ptmx.Write(buf[written:])
		if err != nil {
			return fmt.Errorf("serial: write: %w", err)
		}
		written += n
	}
	return nil
}

func (p *PTYAdapter) Close() error {
	err1 := p.tty.Close()
	err2 := p.ptmx.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
