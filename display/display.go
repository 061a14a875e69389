// This file is part of IECBridge.
//
// IECBridge is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// IECBridge is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with IECBridge.  If not, see <https://www.gnu.org/licenses/>.

// Package display is the adapter's status display, rendered as a single
// rewritten line on a posix terminal. It stands in for the LED/OLED status
// output of the real adapter board: the engine's per-byte display hook maps
// onto the transfer counters shown here.
//
// The package wraps "github.com/pkg/term/termios" for terminal control,
// putting the input terminal into cbreak mode so the monitor can react to
// single keypresses.
package display

import (
	"fmt"
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"

	"github.com/iecbridge/iecbridge/curated"
	"github.com/iecbridge/iecbridge/hardware/bus"
)

// Sentinel patterns for errors from the display package. Use with
// curated.Is().
const (
	NotATerminal = "display: input is not a terminal: %v"
)

// StatusLine is a live one-line status display with single-key input.
type StatusLine struct {
	input  *os.File
	output *os.File

	saved  unix.Termios
	cbreak unix.Termios

	// transfer counters, updated through the engine's display hook
	written int
	read    int
}

// NewStatusLine puts the input terminal into cbreak mode and returns the
// display. The caller must call Close() to restore the terminal.
func NewStatusLine(input *os.File, output *os.File) (*StatusLine, error) {
	scr := &StatusLine{
		input:  input,
		output: output,
	}

	if err := termios.Tcgetattr(input.Fd(), &scr.saved); err != nil {
		return nil, curated.Errorf(NotATerminal, err)
	}

	scr.cbreak = scr.saved
	termios.Cfmakecbreak(&scr.cbreak)
	if err := termios.Tcsetattr(input.Fd(), termios.TCIFLUSH, &scr.cbreak); err != nil {
		return nil, curated.Errorf(NotATerminal, err)
	}

	return scr, nil
}

// Close restores the terminal and moves off the status line.
func (scr *StatusLine) Close() {
	termios.Tcsetattr(scr.input.Fd(), termios.TCIFLUSH, &scr.saved)
	scr.output.WriteString("\n")
}

// NoteWritten increments the written-bytes counter. Suitable as the engine's
// display hook during a write.
func (scr *StatusLine) NoteWritten() {
	scr.written++
}

// NoteRead increments the read-bytes counter. Suitable as the engine's
// display hook during a read.
func (scr *StatusLine) NoteRead() {
	scr.read++
}

// Update redraws the status line with the current line states and transfer
// counters.
func (scr *StatusLine) Update(lines bus.Line) {
	mark := func(l bus.Line) byte {
		if lines&l == l {
			return '*'
		}
		return ' '
	}
	scr.output.WriteString(fmt.Sprintf("\rDATA[%c] CLK[%c] ATN[%c]  written %-5d read %-5d  (w/r/x/p/q) ",
		mark(bus.LineData), mark(bus.LineClock), mark(bus.LineAtn),
		scr.written, scr.read))
	scr.output.Sync()
}

// ReadKey blocks until a single key arrives on the input terminal.
func (scr *StatusLine) ReadKey() (byte, error) {
	b := make([]byte, 1)
	if _, err := scr.input.Read(b); err != nil {
		return 0, err
	}
	return b[0], nil
}
