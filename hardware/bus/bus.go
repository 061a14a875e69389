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

package bus

// Line identifies one or more of the logical IEC lines. The values match the
// numbering used by the host protocol (and by opencbm) and can be combined
// with a bitwise or.
type Line uint8

// List of logical lines.
const (
	LineData  Line = 0x01
	LineClock Line = 0x02
	LineAtn   Line = 0x04
	LineReset Line = 0x08
)

func (l Line) String() string {
	s := ""
	if l&LineData == LineData {
		s += "DATA "
	}
	if l&LineClock == LineClock {
		s += "CLK "
	}
	if l&LineAtn == LineAtn {
		s += "ATN "
	}
	if l&LineReset == LineReset {
		s += "RESET "
	}
	if s == "" {
		return "none"
	}
	return s[:len(s)-1]
}

// Mask represents lines as they appear on the hardware port. The bit
// positions are decided by the board wiring and do not correspond to the
// logical Line values.
type Mask uint8

// List of hardware line masks.
const (
	HwData  Mask = 0b00000100
	HwClock Mask = 0b00001000
	HwAtn   Mask = 0b00010000
	HwReset Mask = 0b00100000
)

// HwAll is every line the adapter can drive.
const HwAll = HwData | HwClock | HwAtn | HwReset

// translation of every combination of logical lines to the equivalent
// hardware mask. indexed by the lower four bits of a Line value.
var hwTable = [16]Mask{
	0,
	HwData,
	HwClock,
	HwData | HwClock,
	HwAtn,
	HwData | HwAtn,
	HwClock | HwAtn,
	HwData | HwClock | HwAtn,
	HwReset,
	HwData | HwReset,
	HwClock | HwReset,
	HwData | HwClock | HwReset,
	HwAtn | HwReset,
	HwData | HwAtn | HwReset,
	HwClock | HwAtn | HwReset,
	HwData | HwClock | HwAtn | HwReset,
}

// Hardware returns the hardware mask for the combination of logical lines.
func (l Line) Hardware() Mask {
	return hwTable[l&0x0f]
}

// Bus is the contract between the protocol engine and the physical line
// driver. The bus is active-low and open-drain: setting a line pulls it to
// ground and releasing it lets it float high through the bus pull-ups. A line
// reads as asserted if any participant on the bus is pulling it.
//
// Implementations are the real GPIO port on the adapter board and the
// simulated bus in the simbus package.
type Bus interface {
	// Set pulls the masked lines low.
	Set(mask Mask)

	// Release lets the masked lines float.
	Release(mask Mask)

	// SetRelease pulls one group of lines low and releases another in a
	// single operation.
	SetRelease(set Mask, release Mask)

	// Get returns which of the masked lines are currently asserted (pulled
	// low by any bus participant).
	Get(mask Mask) Mask

	// Poll returns a raw sample of the port. A set bit means the line is
	// floating high, ie. not asserted by anyone.
	Poll() Mask
}
