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

// Package drive simulates a device on the far end of the serial bus: a
// well-behaved disk drive by default, or any of the badly-behaved devices the
// protocol engine has to cope with.
//
// The drive attaches to a simulated bus and reacts to engine transitions as
// they happen, on virtual time. Behaviour is shaped with the public fields:
// an absent device, a listener that stops acknowledging, a talker that goes
// quiet after announcing a byte, a drive that is slow to answer the reset
// probe. The zero value of every field is the well-behaved drive.
package drive

import (
	"time"

	"github.com/iecbridge/iecbridge/hardware/bus"
	"github.com/iecbridge/iecbridge/hardware/simbus"
	"github.com/iecbridge/iecbridge/hardware/timings"
)

// reaction timing of the simulated device. the listener and talker values are
// comfortably inside the windows the engine grants, which is all that matters
// for a simulated peer.
const (
	listenerHoldoff = 30 * time.Microsecond
	eoiAckPulse     = 60 * time.Microsecond
	talkHold        = 100 * time.Microsecond
	talkBitSetup    = 40 * time.Microsecond
	talkBitValid    = 60 * time.Microsecond

	// how long the talker hand-off line pattern must persist before it is
	// believed. the same pattern appears for one bit-valid tail when the
	// final bit of a received byte is a zero.
	handoffHold = 40 * time.Microsecond

	// a listener hand-shake abandoned by the engine for this long resets the
	// drive to idle
	abandonTimeout = 10 * time.Millisecond
)

type state int

const (
	stIdle state = iota
	stClaimed
	stReady
	stEOIAck
	stBits
	stMute
	stTalkHold
	stTalkReady
	stTalkEOI
	stTalkBits
	stTalkAck
	stResetting
)

// Drive is a simulated serial bus device.
type Drive struct {
	bus *simbus.SimBus

	// the device is not attached at all: it never claims the bus and never
	// answers a probe
	Absent bool

	// stop acknowledging received bytes after this many. negative means
	// never stop. a value of zero gives a device that claims the bus but
	// NAKs the first byte.
	AckLimit int

	// the talker announces a byte by releasing the clock but never clocks it
	// out. the engine sees an EOI hold-off followed by a dead handshake.
	SilentTalker bool

	// received bytes are queued for sending back when the drive is handed
	// the talker role
	Echo bool

	// how long after a reset before the drive answers the ATN probe
	ResetRecovery time.Duration

	// how long the drive takes to claim the bus when addressed
	ProbeLatency time.Duration

	queue    []byte
	received []byte

	st       state
	since    time.Duration
	prevHost bus.Mask

	// time the host was first seen asserting attention while idle. negative
	// when not seen.
	attnAt time.Duration

	// time RESET was released. negative while the line is still held.
	resetAt time.Duration

	// the claim was an answer to the ATN probe, not the start of a transfer
	probeClaim bool

	// time the host released the clock while we held the claim. negative
	// when not seen.
	clkRelAt time.Duration

	// time the talker hand-off pattern was first seen while claimed.
	// negative when not seen.
	handoffAt time.Duration

	// listener byte assembly
	acc      uint8
	bits     int
	acked    int
	eoiAcked bool

	// talker byte delivery
	bitIdx      int
	bitPhase    int
	phaseAt     time.Duration
	eoiThisByte bool
	sawHostData bool
}

// New creates a Drive and attaches it to the simulated bus.
func New(sb *simbus.SimBus) *Drive {
	drv := &Drive{
		bus:           sb,
		AckLimit:      -1,
		ResetRecovery: 300 * time.Millisecond,
		ProbeLatency:  20 * time.Microsecond,
		attnAt:        -1,
		resetAt:       -1,
		clkRelAt:      -1,
		handoffAt:     -1,
	}
	sb.Attach(drv)
	return drv
}

// Received returns every byte the drive has accepted as a listener.
func (drv *Drive) Received() []byte {
	return drv.received
}

// Load queues bytes for the drive to send when it is next handed the talker
// role. The final queued byte is sent with the EOI signal.
func (drv *Drive) Load(p []byte) {
	drv.queue = append(drv.queue, p...)
}

// Snoop implements the simbus.Peripheral interface.
func (drv *Drive) Snoop() {
	now := drv.bus.Now()
	host := drv.bus.HostMask()
	defer func() {
		drv.prevHost = host
	}()

	if drv.Absent {
		return
	}

	// reset dominates every other state
	if host&bus.HwReset != 0 {
		drv.bus.PeerRelease(bus.HwAll)
		drv.queue = nil
		drv.received = nil
		drv.st = stResetting
		drv.resetAt = -1
		return
	}

	if drv.st == stResetting {
		if drv.resetAt < 0 {
			drv.resetAt = now
		}
		if now-drv.resetAt < drv.ResetRecovery {
			return
		}
		drv.st = stIdle
		drv.attnAt = -1
	}

	switch drv.st {
	case stIdle:
		if host&(bus.HwClock|bus.HwAtn) == 0 {
			drv.attnAt = -1
			return
		}
		if drv.attnAt < 0 {
			drv.attnAt = now
		}
		if now-drv.attnAt >= drv.ProbeLatency {
			// answer by claiming the bus. a claim with no clock involved is
			// an answer to the ATN probe.
			drv.probeClaim = host&bus.HwClock == 0
			drv.clkRelAt = -1
			drv.handoffAt = -1
			drv.attnAt = -1
			drv.bus.PeerSet(bus.HwData)
			drv.st = stClaimed
			drv.since = now
		}

	case stClaimed:
		if drv.probeClaim {
			if host&bus.HwAtn == 0 {
				drv.bus.PeerRelease(bus.HwData)
				drv.st = stIdle
			}
			return
		}

		if host&bus.HwClock != 0 {
			drv.clkRelAt = -1
			drv.handoffAt = -1
			return
		}

		if host&bus.HwData != 0 {
			// the engine holding DATA with the clock released is the talker
			// hand-off. the same line pattern appears for one bit-valid
			// tail when the final bit of a byte is a zero, and with ATN
			// still held during a command byte. the hand-off is believed
			// only once ATN is let go and the pattern has outlived the
			// tail.
			if host&bus.HwAtn != 0 {
				drv.handoffAt = -1
				return
			}
			if drv.handoffAt < 0 {
				drv.handoffAt = now
				return
			}
			if now-drv.handoffAt >= handoffHold {
				drv.bus.PeerRelease(bus.HwData)
				drv.bus.PeerSet(bus.HwClock)
				drv.st = stTalkHold
				drv.since = now
			}
			return
		}
		drv.handoffAt = -1

		// the engine is ready to send. hold off briefly, then signal
		// ready-for-data by releasing DATA.
		if drv.clkRelAt < 0 {
			drv.clkRelAt = now
		}
		if now-drv.clkRelAt >= listenerHoldoff {
			drv.bus.PeerRelease(bus.HwData)
			drv.eoiAcked = false
			drv.st = stReady
			drv.since = now
		}

	case stReady:
		if host&bus.HwClock != 0 {
			drv.acc = 0
			drv.bits = 0
			drv.st = stBits
			drv.since = now
			return
		}
		if !drv.eoiAcked && now-drv.since >= timings.EOIHoldoff {
			// the engine's hold-off has gone on long enough to mean EOI.
			// acknowledge with a pulse on DATA.
			drv.bus.PeerSet(bus.HwData)
			drv.st = stEOIAck
			drv.since = now
			return
		}
		if now-drv.since >= abandonTimeout {
			drv.st = stIdle
			drv.attnAt = -1
		}

	case stEOIAck:
		if now-drv.since >= eoiAckPulse {
			drv.bus.PeerRelease(bus.HwData)
			drv.eoiAcked = true
			drv.st = stReady
		}

	case stBits:
		// a bit is valid while the engine has the clock released
		if drv.prevHost&bus.HwClock != 0 && host&bus.HwClock == 0 {
			drv.acc >>= 1
			if host&bus.HwData == 0 {
				drv.acc |= 0x80
			}
			drv.bits++

			if drv.bits == 8 {
				if drv.AckLimit >= 0 && drv.acked >= drv.AckLimit {
					// gone deaf. stay silent until the engine gives up and
					// releases the bus.
					drv.st = stMute
					return
				}
				drv.bus.PeerSet(bus.HwData)
				drv.acked++
				drv.received = append(drv.received, drv.acc)
				if drv.Echo && host&bus.HwAtn == 0 {
					// data bytes only. command bytes are not part of the
					// conversation being echoed
					drv.queue = append(drv.queue, drv.acc)
				}
				drv.probeClaim = false
				drv.clkRelAt = -1
				drv.handoffAt = -1
				drv.st = stClaimed
				drv.since = now
			}
		}

	case stMute:
		if host == 0 {
			drv.st = stIdle
			drv.attnAt = -1
		}

	case stTalkHold:
		// the clock is held for the full announce delay even with nothing
		// to say, so the engine's turnaround wait is guaranteed to observe
		// it before it is released
		if now-drv.since < talkHold {
			return
		}
		if len(drv.queue) == 0 {
			drv.bus.PeerRelease(bus.HwClock)
			drv.st = stIdle
			drv.attnAt = -1
			return
		}
		drv.eoiThisByte = len(drv.queue) == 1
		drv.sawHostData = false
		drv.bus.PeerRelease(bus.HwClock)
		drv.st = stTalkReady
		drv.since = now

	case stTalkReady:
		if drv.SilentTalker {
			return
		}
		if host&bus.HwData == 0 {
			// the listener is ready
			if drv.eoiThisByte {
				drv.sawHostData = false
				drv.st = stTalkEOI
				drv.since = now
				return
			}
			drv.bus.PeerSet(bus.HwClock)
			drv.startTalkByte(now)
		}

	case stTalkEOI:
		// wait out the listener's EOI acknowledgement pulse before clocking
		// out the final byte
		if host&bus.HwData != 0 {
			drv.sawHostData = true
			return
		}
		if drv.sawHostData {
			drv.bus.PeerSet(bus.HwClock)
			drv.startTalkByte(now)
		}

	case stTalkBits:
		switch drv.bitPhase {
		case 0:
			if now-drv.phaseAt >= talkBitSetup {
				drv.bus.PeerRelease(bus.HwClock)
				drv.bitPhase = 1
				drv.phaseAt = now
			}
		case 1:
			if now-drv.phaseAt >= talkBitValid {
				drv.bus.PeerSet(bus.HwClock)
				drv.bitIdx++
				if drv.bitIdx == 8 {
					drv.bus.PeerRelease(bus.HwData)
					drv.st = stTalkAck
					drv.since = now
					return
				}
				drv.setupTalkBit()
				drv.bitPhase = 0
				drv.phaseAt = now
			}
		}

	case stTalkAck:
		if host&bus.HwData != 0 {
			drv.queue = drv.queue[1:]
			drv.st = stTalkHold
			drv.since = now
		}
	}
}

// startTalkByte begins clocking out the byte at the head of the queue. the
// clock has just been asserted by the caller.
func (drv *Drive) startTalkByte(now time.Duration) {
	drv.bitIdx = 0
	drv.bitPhase = 0
	drv.phaseAt = now
	drv.setupTalkBit()
	drv.st = stTalkBits
}

// setupTalkBit drives DATA for the current bit. bits travel least significant
// first; a zero is sent by asserting DATA.
func (drv *Drive) setupTalkBit() {
	if (drv.queue[0]>>drv.bitIdx)&0x01 == 0x00 {
		drv.bus.PeerSet(bus.HwData)
	} else {
		drv.bus.PeerRelease(bus.HwData)
	}
}
