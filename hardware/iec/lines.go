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

package iec

import (
	"github.com/iecbridge/iecbridge/hardware/bus"
	"github.com/iecbridge/iecbridge/hardware/timings"
)

// Wait blocks until the logical line reaches the requested state. There is no
// timeout; the wait is bounded only by the system watchdog. Used by host
// protocol steps that need to see a specific handshake edge.
func (eng *Engine) Wait(line bus.Line, asserted bool) {
	mask := line.Hardware()
	var want bus.Mask
	if asserted {
		want = mask
	}

	for eng.bus.Get(mask) != want {
		eng.keepAlive()
		eng.clk.Sleep(timings.PollStep)
	}
}

// Poll returns the host-visible state of the DATA, CLOCK and ATN lines. A set
// bit means the line is asserted on the physical bus. RESET is not reported.
func (eng *Engine) Poll() bus.Line {
	s := eng.bus.Get(bus.HwData | bus.HwClock | bus.HwAtn)

	var l bus.Line
	if s&bus.HwData != 0 {
		l |= bus.LineData
	}
	if s&bus.HwClock != 0 {
		l |= bus.LineClock
	}
	if s&bus.HwAtn != 0 {
		l |= bus.LineAtn
	}

	return l
}

// SetRelease asserts one group of logical lines while releasing another, in a
// single bus operation.
func (eng *Engine) SetRelease(set bus.Line, release bus.Line) {
	eng.bus.SetRelease(set.Hardware(), release.Hardware())
}
