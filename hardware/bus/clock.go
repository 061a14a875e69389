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

package bus

import "time"

// Clock is how the protocol engine measures and spends time. Every bounded
// wait in the engine computes a deadline from Now() up front and polls with
// fixed Sleep() intervals.
//
// The WallClock implementation is used against real hardware. The simulated
// bus provides its own implementation in which time only advances when the
// engine sleeps, which keeps the test suite free of wall-clock delays.
type Clock interface {
	// Now returns the time elapsed since some fixed origin. The value is
	// monotonic.
	Now() time.Duration

	// Sleep pauses the caller for the duration.
	Sleep(d time.Duration)
}

// WallClock implements Clock with the real system clock.
type WallClock struct {
	origin time.Time
}

// NewWallClock is the preferred method of initialisation for the WallClock
// type.
func NewWallClock() *WallClock {
	return &WallClock{origin: time.Now()}
}

// Now implements the Clock interface.
func (c *WallClock) Now() time.Duration {
	return time.Since(c.origin)
}

// Sleep implements the Clock interface.
func (c *WallClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
