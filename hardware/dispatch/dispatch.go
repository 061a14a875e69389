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

// Package dispatch buffers one command from the host and executes it against
// the bus engine, reporting the outcome back through the same buffer. The
// indirection exists so that the timing-critical bus transaction can run
// while the host is off the transport; the host arms a request, the adapter's
// main loop calls Handle(), and the host collects the result afterwards.
//
// The state machine is strictly single-writer. Entry points may only be
// called between Handle() invocations, which the adapter's cooperative
// scheduling guarantees. Arming a new request while a previous one is
// uncollected is a precondition violation by the host; the dispatcher does
// not defend against it.
package dispatch

import (
	"fmt"

	"github.com/iecbridge/iecbridge/hardware/iec"
	"github.com/iecbridge/iecbridge/logger"
	"github.com/iecbridge/iecbridge/transport"
)

// BufferSize is the capacity of the command buffer and therefore the largest
// block the host can move in one request.
const BufferSize = 128

// the first two bytes of an async command carry the atn and talk flags
const prefixLen = 2

// Request enumerates the states of the dispatch state machine.
type Request int

// The list of dispatch states. Idle, Result and ReadDone are terminal: the
// dispatcher takes no action until the host collects the outcome and arms a
// new request.
const (
	Idle Request = iota
	Async
	Write
	Read
	ReadDone
	Result
)

func (r Request) String() string {
	switch r {
	case Idle:
		return "IDLE"
	case Async:
		return "ASYNC"
	case Write:
		return "WRITE"
	case Read:
		return "READ"
	case ReadDone:
		return "READ_DONE"
	case Result:
		return "RESULT"
	}
	return fmt.Sprintf("Request(%d)", int(r))
}

// Dispatcher owns the command buffer and request state shared between the
// host-facing entry points and the Handle() routine.
type Dispatcher struct {
	eng *iec.Engine
	trn transport.Transport

	buffer  [BufferSize]byte
	length  int
	request Request
	result  uint8
}

// NewDispatcher is the preferred method of initialisation for the Dispatcher
// type. The dispatcher starts idle with an empty buffer.
func NewDispatcher(eng *iec.Engine, trn transport.Transport) *Dispatcher {
	return &Dispatcher{
		eng: eng,
		trn: trn,
	}
}

// Handle advances an armed request. It must be called after every new host
// command. Handle never blocks beyond the bounded waits of the underlying
// engine call: even a failed transaction transitions to Result or ReadDone,
// so the host is never left waiting on a state that cannot advance.
func (dsp *Dispatcher) Handle() {
	switch dsp.request {
	case Async:
		logger.Logf(logger.Allow, "dispatch", "async %d bytes", dsp.length)
		n := dsp.eng.Write(dsp.buffer[prefixLen:prefixLen+dsp.length], dsp.buffer[0] != 0, dsp.buffer[1] != 0)

		// async commands report a plain failure flag rather than a count
		if n == dsp.length {
			dsp.result = 0
		} else {
			dsp.result = 1
		}
		dsp.request = Result

	case Write:
		logger.Logf(logger.Allow, "dispatch", "write %d bytes", dsp.length)
		dsp.result = uint8(dsp.eng.Write(dsp.buffer[:dsp.length], false, false))
		dsp.request = Result

	case Read:
		logger.Logf(logger.Allow, "dispatch", "read up to %d bytes", dsp.length)
		n := dsp.eng.Read(dsp.buffer[:dsp.length])
		dsp.result = uint8(n)
		dsp.length = n
		dsp.request = ReadDone
	}
}

// RequestRead arms a read of up to length bytes. The host collects the bytes
// with CollectRead() once the request has been handled.
func (dsp *Dispatcher) RequestRead(length int) {
	if length > BufferSize {
		length = BufferSize
	}
	dsp.length = length
	dsp.request = Read
}

// CollectRead transfers up to length of the buffered bytes out to the host
// and resets the state machine to idle. Valid only after a read request has
// completed; returns zero otherwise, and on transport failure.
func (dsp *Dispatcher) CollectRead(length int) int {
	if dsp.request != ReadDone {
		logger.Logf(logger.Allow, "dispatch", "no read to collect (%s)", dsp.request)
		return 0
	}

	if length > dsp.length {
		length = dsp.length
	}

	if err := dsp.trn.WriteBlock(dsp.buffer[:length]); err != nil {
		logger.Log(logger.Allow, "dispatch", err)
		return 0
	}

	dsp.length = 0
	dsp.request = Idle

	return length
}

// SubmitWrite reads length bytes from the transport into the buffer and arms
// a write request. Returns the length accepted, or zero on transport failure.
func (dsp *Dispatcher) SubmitWrite(length int) int {
	if length > BufferSize {
		length = BufferSize
	}

	if err := dsp.trn.ReadBlock(dsp.buffer[:length]); err != nil {
		logger.Log(logger.Allow, "dispatch", err)
		return 0
	}

	dsp.length = length
	dsp.request = Write

	return length
}

// SubmitAsync copies the payload and the atn/talk prefix into the buffer and
// arms an async request. Async commands are how the host sends bus commands:
// talk, listen, open, close and their complements.
func (dsp *Dispatcher) SubmitAsync(p []byte, atn bool, talk bool) {
	if len(p) > BufferSize-prefixLen {
		p = p[:BufferSize-prefixLen]
	}

	copy(dsp.buffer[prefixLen:], p)
	dsp.length = len(p)

	dsp.buffer[0] = 0
	if atn {
		dsp.buffer[0] = 1
	}
	dsp.buffer[1] = 0
	if talk {
		dsp.buffer[1] = 1
	}

	dsp.request = Async
}

// Result is a non-destructive peek at the current request state and the
// outcome of the most recent transaction.
func (dsp *Dispatcher) Result() (Request, uint8) {
	return dsp.request, dsp.result
}

// CollectResult returns the outcome of a completed write or async request
// and resets the state machine to idle. Valid only in the Result state;
// returns zero otherwise, leaving the state untouched.
func (dsp *Dispatcher) CollectResult() uint8 {
	if dsp.request != Result {
		logger.Logf(logger.Allow, "dispatch", "no result to collect (%s)", dsp.request)
		return 0
	}

	dsp.length = 0
	dsp.request = Idle

	return dsp.result
}
