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

// Package simbus simulates the open-drain serial bus on virtual time.
//
// The simulated bus implements both the Bus and Clock interfaces of the bus
// package. Time advances only when the engine sleeps, in fixed quanta, and
// the attached peripheral is given the chance to react on every quantum and
// on every line transition made by the engine. The engine's busy-polling
// therefore behaves exactly as it would against real hardware, without any
// wall-clock delay.
//
// Line levels follow the wired-and rule of an open-drain bus: a line is low
// if the engine or the peripheral (or both) is pulling it.
package simbus

import (
	"time"

	"github.com/iecbridge/iecbridge/hardware/bus"
)

// how far time advances between peripheral reactions.
const quantum = 5 * time.Microsecond

// Peripheral is a device attached to the simulated bus. Snoop is called after
// every line transition made by the engine and once per time quantum while
// the engine sleeps. Implementations react by driving their own lines through
// PeerSet and PeerRelease.
type Peripheral interface {
	Snoop()
}

// SimBus is a simulated serial bus. It satisfies both bus.Bus and bus.Clock.
type SimBus struct {
	now time.Duration

	// lines pulled by each side of the bus
	host bus.Mask
	peer bus.Mask

	dev Peripheral
}

// NewSimBus is the preferred method of initialisation for the SimBus type.
func NewSimBus() *SimBus {
	return &SimBus{}
}

// Attach a peripheral to the bus. Only one peripheral is supported; a second
// Attach replaces the first.
func (sb *SimBus) Attach(dev Peripheral) {
	sb.dev = dev
}

func (sb *SimBus) snoop() {
	if sb.dev != nil {
		sb.dev.Snoop()
	}
}

// Set implements the bus.Bus interface.
func (sb *SimBus) Set(mask bus.Mask) {
	sb.host |= mask
	sb.snoop()
}

// Release implements the bus.Bus interface.
func (sb *SimBus) Release(mask bus.Mask) {
	sb.host &^= mask
	sb.snoop()
}

// SetRelease implements the bus.Bus interface.
func (sb *SimBus) SetRelease(set bus.Mask, release bus.Mask) {
	sb.host = (sb.host &^ release) | set
	sb.snoop()
}

// Get implements the bus.Bus interface.
func (sb *SimBus) Get(mask bus.Mask) bus.Mask {
	return (sb.host | sb.peer) & mask
}

// Poll implements the bus.Bus interface.
func (sb *SimBus) Poll() bus.Mask {
	return ^(sb.host | sb.peer) & bus.HwAll
}

// Now implements the bus.Clock interface.
func (sb *SimBus) Now() time.Duration {
	return sb.now
}

// Sleep implements the bus.Clock interface. Virtual time advances in quanta,
// with the peripheral reacting at each step.
func (sb *SimBus) Sleep(d time.Duration) {
	end := sb.now + d
	for sb.now < end {
		step := quantum
		if sb.now+step > end {
			step = end - sb.now
		}
		sb.now += step
		sb.snoop()
	}
}

// HostMask returns the lines currently pulled by the engine side of the bus.
// Peripherals use this to observe engine transitions even on lines they are
// themselves driving.
func (sb *SimBus) HostMask() bus.Mask {
	return sb.host
}

// PeerSet pulls lines from the peripheral side of the bus.
func (sb *SimBus) PeerSet(mask bus.Mask) {
	sb.peer |= mask
}

// PeerRelease releases lines from the peripheral side of the bus.
func (sb *SimBus) PeerRelease(mask bus.Mask) {
	sb.peer &^= mask
}

// PeerMask returns the lines currently pulled by the peripheral.
func (sb *SimBus) PeerMask() bus.Mask {
	return sb.peer
}
