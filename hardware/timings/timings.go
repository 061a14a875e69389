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

// Package timings defines the timing constants of the IEC serial protocol.
//
// These values are part of the protocol contract. They encode how long real
// drives take to react on the bus and must not be treated as tuning knobs.
// Several were arrived at empirically against real hardware: a 1541 grabs
// DATA about 25ms after RESET goes active, so anything shorter than the 30ms
// reset hold is unreliable; a drive that has just released DATA can glitch it
// low again for up to 60us, so the free-bus probe samples DATA twice.
package timings

import "time"

// Bit level timing for the byte sender and receiver.
const (
	// settle time at the start of every transmitted bit. with BitValid this
	// gives a 90us bit cell.
	BitSetup = 70 * time.Microsecond

	// how long a transmitted bit is held valid after the clock release.
	BitValid = 20 * time.Microsecond

	// sampling interval while waiting on a per-bit clock transition.
	BitPoll = 2 * time.Microsecond

	// how long the listener has to acknowledge a byte by pulling DATA. also
	// bounds the per-bit clock transitions when receiving.
	AckWindow = 2 * time.Millisecond
)

// Byte level timing for the transaction engine.
const (
	// pause before each written byte, confirming the listener still holds
	// DATA.
	ByteSettle = 50 * time.Microsecond

	// pause after a successfully transferred byte.
	InterByte = 100 * time.Microsecond

	// window in which a talker must reassert the clock after the listener
	// signals ready. a talker that stays quiet for longer is signalling EOI.
	TalkerClockWindow = 400 * time.Microsecond

	// duration of the DATA pulse acknowledging an EOI signal.
	EOIPulse = 70 * time.Microsecond

	// how long a listener must see the clock stay released before treating
	// the hold-off as an EOI signal. (used by the simulated drive; the real
	// constraint on the engine side is TalkerClockWindow.)
	EOIHoldoff = 200 * time.Microsecond

	// how long a read will wait for the talker to release the clock at the
	// start of a byte. directory reads routinely take most of this.
	ReadClockTimeout = 1 * time.Second

	// sampling interval for the read clock wait.
	ReadClockPoll = 20 * time.Microsecond
)

// Bus management timing.
const (
	// how long RESET is held. shorter holds do not reliably reset a 1541.
	ResetHold = 30 * time.Millisecond

	// how long the free-bus probe is repeated after a reset.
	FreeBusTimeout = 2 * time.Second

	// pause between free-bus probe attempts.
	FreeBusPoll = 100 * time.Microsecond

	// DATA stability window inside a single probe attempt.
	FreeBusSettle = 50 * time.Microsecond

	// how long a device is given to react to an ATN transition during the
	// probe.
	ProbeReaction = 100 * time.Microsecond

	// line settle time after initialisation has released every line.
	InitSettle = 100 * time.Microsecond

	// general sampling interval for bounded and watchdog-kept waits.
	PollStep = 10 * time.Microsecond
)
