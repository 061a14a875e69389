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

package transport_test

import (
	"testing"

	"github.com/iecbridge/iecbridge/curated"
	"github.com/iecbridge/iecbridge/test"
	"github.com/iecbridge/iecbridge/transport"
)

func TestPipeRoundTrip(t *testing.T) {
	pp := transport.NewPipe()

	pp.HostSend([]byte{0x01, 0x02, 0x03})

	buf := make([]byte, 3)
	err := pp.ReadBlock(buf)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, buf[0], byte(0x01))
	test.ExpectEquality(t, buf[1], byte(0x02))
	test.ExpectEquality(t, buf[2], byte(0x03))

	err = pp.WriteBlock([]byte{0x04, 0x05})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(pp.HostRecv()), string([]byte{0x04, 0x05}))

	// the host drain empties the pipe
	test.ExpectEquality(t, len(pp.HostRecv()), 0)
}

func TestPipeShortBlock(t *testing.T) {
	pp := transport.NewPipe()

	pp.HostSend([]byte{0x01})

	buf := make([]byte, 2)
	err := pp.ReadBlock(buf)
	test.DemandFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, transport.ShortBlock))
}

func TestPipeFailure(t *testing.T) {
	pp := transport.NewPipe()

	pp.FailRead = true
	pp.HostSend([]byte{0x01})
	err := pp.ReadBlock(make([]byte, 1))
	test.DemandFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, transport.Failed))

	pp.FailWrite = true
	err = pp.WriteBlock([]byte{0x02})
	test.DemandFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, transport.Failed))
}
