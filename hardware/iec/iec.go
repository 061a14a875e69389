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
	"time"

	"github.com/iecbridge/iecbridge/hardware/bus"
	"github.com/iecbridge/iecbridge/hardware/timings"
	"github.com/iecbridge/iecbridge/logger"
)

// Engine drives the serial bus as the controller. It owns all protocol state:
// which lines it is asserting and whether an end-of-information signal has
// been latched. One Engine per bus; the type is not safe for concurrent use,
// matching the cooperative single-threaded model of the adapter.
type Engine struct {
	bus bus.Bus
	clk bus.Clock

	// latched when a talker signals end-of-information. cleared at the start
	// of every write. while latched, reads return no further bytes.
	eoi bool

	// Watchdog, when set, is called periodically inside any wait whose total
	// bound approaches the system watchdog period.
	Watchdog func()

	// Display, when set, is called once per successfully transferred byte.
	Display func()

	// Critical brackets the eight-bit sampling step of a byte transfer.
	Critical timings.Section
}

// NewEngine is the preferred method of initialisation for the Engine type.
// All lines are released and given time to settle.
func NewEngine(b bus.Bus, clk bus.Clock) *Engine {
	eng := &Engine{
		bus:      b,
		clk:      clk,
		Critical: timings.OSThread{},
	}
	eng.bus.Release(bus.HwAll)
	eng.clk.Sleep(timings.InitSettle)
	return eng
}

// EOI returns true if an end-of-information signal has been latched by the
// read path and not yet cleared by a write.
func (eng *Engine) EOI() bool {
	return eng.eoi
}

func (eng *Engine) keepAlive() {
	if eng.Watchdog != nil {
		eng.Watchdog()
	}
}

// waitLines polls the bus until the masked lines reach the wanted assertion
// state, or until the time limit passes. want is expressed in asserted lines:
// waitLines(m, m, ...) waits for assertion, waitLines(m, 0, ...) for release.
func (eng *Engine) waitLines(mask bus.Mask, want bus.Mask, limit time.Duration, poll time.Duration) bool {
	deadline := eng.clk.Now() + limit
	for eng.bus.Get(mask) != want {
		if eng.clk.Now() >= deadline {
			return false
		}
		eng.clk.Sleep(poll)
	}
	return true
}

// as waitLines but resetting the watchdog between samples. for waits long
// enough to approach the watchdog period.
func (eng *Engine) waitLinesKeepAlive(mask bus.Mask, want bus.Mask, limit time.Duration, poll time.Duration) bool {
	deadline := eng.clk.Now() + limit
	for eng.bus.Get(mask) != want {
		if eng.clk.Now() >= deadline {
			return false
		}
		eng.clk.Sleep(poll)
		eng.keepAlive()
	}
	return true
}

// sendByte serialises one byte onto the bus, least significant bit first. The
// inverted logic of the DATA line means a zero bit is sent by asserting DATA.
// Returns false if the listener does not acknowledge the byte by pulling DATA
// within the acknowledgement window.
//
// Acknowledgement failure is reported, never retried here.
func (eng *Engine) sendByte(b uint8) bool {
	eng.Critical.Enter()
	for i := 0; i < 8; i++ {
		eng.clk.Sleep(timings.BitSetup)

		if b&0x01 == 0x00 {
			eng.bus.Set(bus.HwData)
		}

		// bit is valid while the clock is released
		eng.bus.Release(bus.HwClock)
		eng.clk.Sleep(timings.BitValid)
		eng.bus.SetRelease(bus.HwClock, bus.HwData)

		b >>= 1
	}
	eng.Critical.Exit()

	return eng.waitLines(bus.HwData, bus.HwData, timings.AckWindow, timings.PollStep)
}

// recvByte deserialises one byte from the bus. The caller has already
// released DATA and observed the handshake that leads the talker to clock out
// a byte. A zero bit arrives as an asserted DATA line; bits arrive least
// significant first and are shifted in from the top of the byte.
//
// Returns false if any per-bit clock transition times out. A partial byte
// must not be trusted.
func (eng *Engine) recvByte() (uint8, bool) {
	// talker announces the byte by asserting the clock
	if !eng.waitLines(bus.HwClock, bus.HwClock, timings.AckWindow, timings.BitPoll) {
		return 0, false
	}

	var b uint8
	for bit := 0; bit < 8; bit++ {
		if !eng.waitLines(bus.HwClock, 0, timings.AckWindow, timings.BitPoll) {
			return 0, false
		}
		b >>= 1
		if eng.bus.Get(bus.HwData) == 0 {
			b |= 0x80
		}
		if !eng.waitLines(bus.HwClock, bus.HwClock, timings.AckWindow, timings.BitPoll) {
			return 0, false
		}
	}

	return b, true
}

// waitForListener releases the clock, telling the listener we are ready, and
// then waits for the listener to release DATA in response. There is no
// timeout. The listener hold-off time is allowed to be arbitrarily long (a
// printer may be busy for seconds) so this wait is bounded only by the system
// watchdog.
func (eng *Engine) waitForListener() {
	eng.bus.Release(bus.HwClock)
	for eng.bus.Get(bus.HwData) != 0 {
		eng.keepAlive()
		eng.clk.Sleep(timings.PollStep)
	}
}

// Write sends the bytes in p to the listening device. If atn is true the ATN
// line is held for the duration, marking the bytes as a bus command. If talk
// is true the bus is turned around after the last byte, handing the talker
// role to the device.
//
// The returned count is len(p) if every byte was sent and acknowledged, and
// zero on any failure: no device present, a device that disappears mid
// transfer, or an unacknowledged byte. Partial progress is not reported. A
// zero length write is legal; the line setup and release still happens.
func (eng *Engine) Write(p []byte, atn bool, talk bool) int {
	eng.eoi = false

	eng.bus.Release(bus.HwData)
	m := bus.HwClock
	if atn {
		m |= bus.HwAtn
	}
	eng.bus.Set(m)

	// any device on the bus claims it by pulling DATA
	if !eng.waitLines(bus.HwData, bus.HwData, timings.AckWindow, timings.PollStep) {
		logger.Log(logger.Allow, "iec", "write: no devices present")
		eng.bus.Release(bus.HwClock | bus.HwAtn)
		return 0
	}

	ok := true
	for i := 0; i < len(p) && ok; i++ {
		eng.clk.Sleep(timings.ByteSettle)

		// the listener must still be holding DATA
		if eng.bus.Get(bus.HwData) == 0 {
			logger.Log(logger.Allow, "iec", "write: device not present")
			ok = false
			break
		}

		eng.waitForListener()

		// the last byte of a non-command transfer carries the EOI signal:
		// delay long enough that the listener's hold-off triggers, then wait
		// out its acknowledgement pulse
		if i == len(p)-1 && !atn {
			eng.waitLines(bus.HwData, bus.HwData, timings.AckWindow, timings.PollStep)
			eng.waitLines(bus.HwData, 0, timings.AckWindow, timings.PollStep)
		}

		eng.bus.Set(bus.HwClock)

		if eng.sendByte(p[i]) {
			if eng.Display != nil {
				eng.Display()
			}
			eng.clk.Sleep(timings.InterByte)
		} else {
			logger.Log(logger.Allow, "iec", "write: byte not acknowledged")
			ok = false
		}

		eng.keepAlive()
	}

	if !ok {
		eng.bus.Release(bus.HwData | bus.HwClock | bus.HwAtn)
		return 0
	}

	if talk {
		// turn the bus around: we become the listener. the device signals
		// that it has taken the talker role by asserting the clock. bounded
		// by the watchdog only.
		eng.bus.SetRelease(bus.HwData, bus.HwClock|bus.HwAtn)
		for eng.bus.Get(bus.HwClock) == 0 {
			eng.keepAlive()
			eng.clk.Sleep(timings.PollStep)
		}
	} else {
		eng.bus.Release(bus.HwAtn)
	}
	eng.clk.Sleep(timings.InterByte)

	return len(p)
}

// Read collects up to len(p) bytes from the talking device. The read stops
// early if the talker signals end-of-information, or on any handshake
// failure. The returned count is the number of good bytes in p; a byte that
// failed mid-transfer is discarded.
//
// An EOI latched by a previous call causes an immediate zero return, before
// any bus activity beyond the initial clock wait. The latch is cleared by the
// next Write.
func (eng *Engine) Read(p []byte) int {
	count := 0

	for count < len(p) {
		// wait for the talker to release the clock, indicating it has a byte
		// for us. this is where a read spends most of its time when the
		// drive is busy (a directory read, for instance).
		if !eng.waitLinesKeepAlive(bus.HwClock, 0, timings.ReadClockTimeout, timings.ReadClockPoll) {
			logger.Log(logger.Allow, "iec", "read: timeout waiting for talker")
			return count
		}

		if eng.eoi {
			return count
		}

		// tell the talker we are ready
		eng.bus.Release(bus.HwData)

		// a talker with a byte to send reasserts the clock promptly. a
		// talker that holds off is signalling end-of-information, which we
		// acknowledge with a pulse on DATA.
		eng.waitLines(bus.HwClock, bus.HwClock, timings.TalkerClockWindow, timings.BitPoll)
		if eng.bus.Get(bus.HwClock) == 0 {
			eng.eoi = true
			eng.bus.Set(bus.HwData)
			eng.clk.Sleep(timings.EOIPulse)
			eng.bus.Release(bus.HwData)
		}

		eng.Critical.Enter()
		b, ok := eng.recvByte()
		eng.Critical.Exit()

		if !ok {
			logger.Log(logger.Allow, "iec", "read: handshake failure")
			return count
		}

		// acknowledge the byte
		eng.bus.Set(bus.HwData)

		p[count] = b
		count++

		if eng.Display != nil {
			eng.Display()
		}
		eng.clk.Sleep(timings.ByteSettle)
		eng.keepAlive()

		if eng.eoi {
			return count
		}
	}

	return count
}
