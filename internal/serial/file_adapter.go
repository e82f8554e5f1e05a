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
	"io"
)

// FileAdapter is a test double for Adapter backed by an in-process
// io.Reader/io.Writer pair instead of a real pty, so card and CPU
// tests can drive the serial card without a host terminal.
//
// Reading happens on a background goroutine so Poll can report
// readiness without blocking, the way a real pty's poll(2) call
// would.
type FileAdapter struct {
	w io.Writer

	incoming chan byte
	readErr  chan error

	dataBits int
	parity   Parity
	stopBits int
	baud     int
	breaks   int
}

// NewFileAdapter wraps r/w as the two halves of the channel. Pass the
// read end of one io.Pipe and the write end of another to talk to the
// adapter from the test.
func NewFileAdapter(r io.Reader, w io.Writer) *FileAdapter {
	f := &FileAdapter{
		w:        w,
		incoming: make(chan byte, 64),
		readErr:  make(chan error, 1),
	}
	go f.pump(r)
	return f
}

func (f *FileAdapter) pump(r io.Reader) {
	buf := make([]byte, 1)
	for {
		if _, err := r.Read(buf); err != nil {
			f.readErr <- err
			return
		}
		f.incoming <- buf[0]
	}
}

func (f *FileAdapter) Open() error  { return nil }
func (f *FileAdapter) Name() string { return "file-adapter" }

func (f *FileAdapter) SetBaud(rate int) error {
	f.baud = rate
	return nil
}

func (f *FileAdapter) Configure(dataBits int, parity Parity, stopBits int) error {
	if dataBits < 5 || dataBits > 8 {
		return fmt.Errorf("serial: invalid data bits %d", dataBits)
	}
	if stopBits != 1 && stopBits != 2 {
		return fmt.Errorf("serial: invalid stop bits %d", stopBits)
	}
	f.dataBits, f.parity, f.stopBits = dataBits, parity, stopBits
	return nil
}

func (f *FileAdapter) SendBreak() error {
	f.breaks++
	return nil
}

// Poll reports whether a byte is already buffered from the
// background reader.
func (f *FileAdapter) Poll() (bool, error) {
	if len(f.incoming) > 0 {
		return true, nil // left in place; Getch will consume it
	}
	select {
	case err := <-f.readErr:
		return false, err
	default:
		return false, nil
	}
}

func (f *FileAdapter) Getch() (uint8, error) {
	select {
	case b := <-f.incoming:
		return b, nil
	case err := <-f.readErr:
		return 0, err
	}
}

func (f *FileAdapter) Putch(b uint8) error {
	_, err := f.w.Write([]byte{b})
	return err
}

func (f *FileAdapter) Close() error { return nil }
