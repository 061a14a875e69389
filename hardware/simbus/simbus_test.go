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

package simbus_test

import (
	"testing"
	"time"

	"github.com/iecbridge/iecbridge/hardware/bus"
	"github.com/iecbridge/iecbridge/hardware/simbus"
	"github.com/iecbridge/iecbridge/test"
)

type snoopCounter struct {
	count int
}

func (c *snoopCounter) Snoop() {
	c.count++
}

func TestWiredAnd(t *testing.T) {
	sb := simbus.NewSimBus()

	// nothing pulled: every line floats high
	test.ExpectEquality(t, sb.Poll(), bus.HwAll)
	test.ExpectEquality(t, sb.Get(bus.HwAll), bus.Mask(0))

	// a line is asserted if either side pulls it
	sb.Set(bus.HwData)
	sb.PeerSet(bus.HwClock)
	test.ExpectEquality(t, sb.Get(bus.HwData), bus.HwData)
	test.ExpectEquality(t, sb.Get(bus.HwClock), bus.HwClock)
	test.ExpectEquality(t, sb.Poll(), bus.HwAtn|bus.HwReset)

	// releasing one side of a line does not release the other
	sb.Set(bus.HwClock)
	sb.PeerRelease(bus.HwClock)
	test.ExpectEquality(t, sb.Get(bus.HwClock), bus.HwClock)
	sb.Release(bus.HwClock)
	test.ExpectEquality(t, sb.Get(bus.HwClock), bus.Mask(0))

	// both sides are observable separately
	test.ExpectEquality(t, sb.HostMask(), bus.HwData)
	test.ExpectEquality(t, sb.PeerMask(), bus.Mask(0))
}

func TestSetRelease(t *testing.T) {
	sb := simbus.NewSimBus()

	sb.Set(bus.HwClock | bus.HwAtn)
	sb.SetRelease(bus.HwData, bus.HwClock|bus.HwAtn)
	test.ExpectEquality(t, sb.HostMask(), bus.HwData)
}

func TestVirtualClock(t *testing.T) {
	sb := simbus.NewSimBus()
	test.ExpectEquality(t, sb.Now(), time.Duration(0))

	sb.Sleep(12 * time.Microsecond)
	test.ExpectEquality(t, sb.Now(), 12*time.Microsecond)

	sb.Sleep(time.Millisecond)
	test.ExpectEquality(t, sb.Now(), 12*time.Microsecond+time.Millisecond)
}

func TestPeripheralSnooping(t *testing.T) {
	sb := simbus.NewSimBus()
	c := &snoopCounter{}
	sb.Attach(c)

	// every engine-side transition is seen
	sb.Set(bus.HwData)
	sb.Release(bus.HwData)
	sb.SetRelease(bus.HwClock, bus.HwData)
	test.ExpectEquality(t, c.count, 3)

	// a sleep is seen once per time quantum
	c.count = 0
	sb.Sleep(12 * time.Microsecond)
	test.ExpectEquality(t, c.count, 3)
}
