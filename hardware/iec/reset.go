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
	"github.com/iecbridge/iecbridge/logger"
)

// busFree is a single probe of the bus. The bus is free when DATA idles high
// with every line released, at least one device answers an ATN assertion by
// pulling DATA, and the same device lets go again once ATN is released.
func (eng *Engine) busFree() bool {
	// let go of everything and give the device time to react
	eng.bus.Release(bus.HwAll)
	eng.clk.Sleep(timings.FreeBusSettle)

	// a device that is not ready yet holds DATA
	if eng.bus.Get(bus.HwData) != 0 {
		return false
	}

	// DATA must also be stable. a drive that has only just released it can
	// glitch it low again.
	eng.clk.Sleep(timings.FreeBusSettle)
	if eng.bus.Get(bus.HwData) != 0 {
		return false
	}

	// the presence proof: a device must answer ATN by pulling DATA
	eng.bus.Set(bus.HwAtn)
	eng.clk.Sleep(timings.ProbeReaction)
	if eng.bus.Get(bus.HwData) == 0 {
		eng.bus.Release(bus.HwAtn)
		return false
	}

	// and release DATA again when we release ATN
	eng.bus.Release(bus.HwAtn)
	eng.clk.Sleep(timings.ProbeReaction)

	return eng.bus.Get(bus.HwData) == 0
}

// waitForFreeBus repeats the free-bus probe until it succeeds or the total
// timeout passes. A timeout is logged but is not an error: the caller
// proceeds regardless.
func (eng *Engine) waitForFreeBus() {
	deadline := eng.clk.Now() + timings.FreeBusTimeout
	for {
		if eng.busFree() {
			return
		}
		if eng.clk.Now() >= deadline {
			logger.Log(logger.Allow, "iec", "reset: timeout waiting for free bus")
			return
		}
		eng.clk.Sleep(timings.FreeBusPoll)
		eng.keepAlive()
	}
}

// Reset pulses the RESET line and waits for the bus to become free. The
// RESET hold time matters: a 1541 does not reliably recognise anything
// shorter. After the pulse a real drive can take more than a second before it
// answers the ATN probe, hence the generous free-bus timeout.
func (eng *Engine) Reset() {
	eng.bus.Release(bus.HwData | bus.HwClock | bus.HwAtn)

	eng.bus.Set(bus.HwReset)
	eng.clk.Sleep(timings.ResetHold)
	eng.bus.Release(bus.HwReset)

	eng.waitForFreeBus()
}
