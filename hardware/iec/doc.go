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

// Package iec implements the controller side of the Commodore serial bus
// protocol: bit-banged byte transfer in both directions, multi-byte
// transactions with ATN and talker hand-off, end-of-information signalling,
// device presence detection and bus reset.
//
// Failures are not errors in the go sense. Every failure mode of the bus
// (no device present, an unacknowledged byte, a handshake timeout) is
// recovered at the boundary of the call that detected it and reported
// through the returned byte count, which is what the host protocol carries.
// EOI is not a failure: it ends a read early with a valid partial result.
//
// All waits are polled against the engine's clock with deadlines computed up
// front. The two waits without deadlines (the listener hold-off during a
// write and the line waits requested by the host) are the protocol's flow
// control points and are bounded externally by the system watchdog.
package iec
