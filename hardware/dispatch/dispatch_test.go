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

package dispatch_test

import (
	"testing"

	"github.com/iecbridge/iecbridge/hardware/dispatch"
	"github.com/iecbridge/iecbridge/hardware/drive"
	"github.com/iecbridge/iecbridge/hardware/iec"
	"github.com/iecbridge/iecbridge/hardware/simbus"
	"github.com/iecbridge/iecbridge/hardware/timings"
	"github.com/iecbridge/iecbridge/test"
	"github.com/iecbridge/iecbridge/transport"
)

func newDispatchBench(_ *testing.T) (*drive.Drive, *transport.Pipe, *dispatch.Dispatcher) {
	sb := simbus.NewSimBus()
	drv := drive.New(sb)
	eng := iec.NewEngine(sb, sb)
	eng.Critical = timings.Nop{}
	pp := transport.NewPipe()
	return drv, pp, dispatch.NewDispatcher(eng, pp)
}

func TestWriteRequest(t *testing.T) {
	drv, pp, dsp := newDispatchBench(t)

	pp.HostSend([]byte{0x01, 0x02, 0x03})
	test.DemandEquality(t, dsp.SubmitWrite(3), 3)

	req, _ := dsp.Result()
	test.ExpectEquality(t, req, dispatch.Write)

	dsp.Handle()

	// a write reports the number of bytes transferred
	req, res := dsp.Result()
	test.ExpectEquality(t, req, dispatch.Result)
	test.ExpectEquality(t, res, uint8(3))

	// collecting the result returns the machine to idle
	test.ExpectEquality(t, dsp.CollectResult(), uint8(3))
	req, _ = dsp.Result()
	test.ExpectEquality(t, req, dispatch.Idle)

	test.ExpectEquality(t, string(drv.Received()), string([]byte{0x01, 0x02, 0x03}))
}

func TestAsyncRequest(t *testing.T) {
	drv, _, dsp := newDispatchBench(t)

	dsp.SubmitAsync([]byte{0x28, 0x6f}, true, false)
	dsp.Handle()

	// async commands report a failure flag, not a count. zero is success.
	test.ExpectEquality(t, dsp.CollectResult(), uint8(0))
	test.ExpectEquality(t, string(drv.Received()), string([]byte{0x28, 0x6f}))
}

func TestAsyncNoDevice(t *testing.T) {
	drv, _, dsp := newDispatchBench(t)
	drv.Absent = true

	dsp.SubmitAsync([]byte{0x28, 0x6f}, true, false)
	dsp.Handle()
	test.ExpectEquality(t, dsp.CollectResult(), uint8(1))
}

func TestAsyncZeroLength(t *testing.T) {
	_, _, dsp := newDispatchBench(t)

	// a zero length command performs the line setup and nothing else. it is
	// a success, not a failure.
	dsp.SubmitAsync(nil, true, false)
	dsp.Handle()
	test.ExpectEquality(t, dsp.CollectResult(), uint8(0))

	req, _ := dsp.Result()
	test.ExpectEquality(t, req, dispatch.Idle)
}

func TestAsyncAttentionPrefix(t *testing.T) {
	drv, pp, dsp := newDispatchBench(t)
	drv.Echo = true

	// data bytes are echoed into the drive's talk queue
	pp.HostSend([]byte{0x41, 0x42})
	test.DemandEquality(t, dsp.SubmitWrite(2), 2)
	dsp.Handle()
	test.DemandEquality(t, dsp.CollectResult(), uint8(2))

	// the talk command travels under attention. if the atn prefix were
	// dropped the command bytes would be echoed too and the reply would
	// grow from two bytes to four.
	dsp.SubmitAsync([]byte{0x48, 0x6f}, true, true)
	dsp.Handle()
	test.DemandEquality(t, dsp.CollectResult(), uint8(0))

	dsp.RequestRead(16)
	dsp.Handle()
	test.ExpectEquality(t, dsp.CollectRead(16), 2)
	test.ExpectEquality(t, string(pp.HostRecv()), string([]byte{0x41, 0x42}))
}

func TestReadRequest(t *testing.T) {
	drv, pp, dsp := newDispatchBench(t)

	drv.Load([]byte("OK"))

	// hand the drive the talker role
	dsp.SubmitAsync([]byte{0x48, 0x6f}, true, true)
	dsp.Handle()
	test.DemandEquality(t, dsp.CollectResult(), uint8(0))

	dsp.RequestRead(16)
	dsp.Handle()

	req, res := dsp.Result()
	test.ExpectEquality(t, req, dispatch.ReadDone)
	test.ExpectEquality(t, res, uint8(2))

	test.ExpectEquality(t, dsp.CollectRead(16), 2)
	test.ExpectEquality(t, string(pp.HostRecv()), "OK")

	req, _ = dsp.Result()
	test.ExpectEquality(t, req, dispatch.Idle)
}

func TestTransportReadFailure(t *testing.T) {
	_, pp, dsp := newDispatchBench(t)

	pp.FailRead = true
	test.ExpectEquality(t, dsp.SubmitWrite(3), 0)

	// the request was never armed
	req, _ := dsp.Result()
	test.ExpectEquality(t, req, dispatch.Idle)
}

func TestTransportWriteFailure(t *testing.T) {
	drv, pp, dsp := newDispatchBench(t)

	drv.Load([]byte{0x0d})
	dsp.SubmitAsync([]byte{0x48, 0x6f}, true, true)
	dsp.Handle()
	test.DemandEquality(t, dsp.CollectResult(), uint8(0))

	dsp.RequestRead(16)
	dsp.Handle()

	// the buffered bytes survive a transport failure and can be collected
	// once the transport recovers
	pp.FailWrite = true
	test.ExpectEquality(t, dsp.CollectRead(16), 0)

	pp.FailWrite = false
	test.ExpectEquality(t, dsp.CollectRead(16), 1)
	test.ExpectEquality(t, string(pp.HostRecv()), string([]byte{0x0d}))
}

func TestCollectInWrongState(t *testing.T) {
	_, _, dsp := newDispatchBench(t)

	test.ExpectEquality(t, dsp.CollectResult(), uint8(0))
	test.ExpectEquality(t, dsp.CollectRead(16), 0)

	req, _ := dsp.Result()
	test.ExpectEquality(t, req, dispatch.Idle)
}

func TestReadClamping(t *testing.T) {
	drv, pp, dsp := newDispatchBench(t)

	drv.Load([]byte{0x01, 0x02})
	dsp.SubmitAsync([]byte{0x48, 0x6f}, true, true)
	dsp.Handle()
	test.DemandEquality(t, dsp.CollectResult(), uint8(0))

	// a request larger than the buffer is clamped, not rejected
	dsp.RequestRead(dispatch.BufferSize * 2)
	dsp.Handle()
	test.ExpectEquality(t, dsp.CollectRead(dispatch.BufferSize*2), 2)
	test.ExpectEquality(t, len(pp.HostRecv()), 2)
}

func TestRequestString(t *testing.T) {
	test.ExpectEquality(t, dispatch.Idle.String(), "IDLE")
	test.ExpectEquality(t, dispatch.Async.String(), "ASYNC")
	test.ExpectEquality(t, dispatch.Write.String(), "WRITE")
	test.ExpectEquality(t, dispatch.Read.String(), "READ")
	test.ExpectEquality(t, dispatch.ReadDone.String(), "READ_DONE")
	test.ExpectEquality(t, dispatch.Result.String(), "RESULT")
}
