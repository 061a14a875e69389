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

package timings

import "runtime"

// Section marks a stretch of code whose timing must not be disturbed by
// unrelated activity. On the adapter firmware this is where interrupts are
// masked. The guard brackets exactly the eight-bit sampling step of a byte
// transfer, never a wider scope.
type Section interface {
	Enter()
	Exit()
}

// OSThread implements Section by pinning the calling goroutine to its OS
// thread for the duration of the section. This does not reproduce true
// interrupt masking but it is the closest scheduling hint available to a
// non-embedded target.
type OSThread struct{}

// Enter implements the Section interface.
func (s OSThread) Enter() {
	runtime.LockOSThread()
}

// Exit implements the Section interface.
func (s OSThread) Exit() {
	runtime.UnlockOSThread()
}

// Nop implements Section with no effect. Suitable when the bus is simulated
// and no real timing windows are at stake.
type Nop struct{}

// Enter implements the Section interface.
func (s Nop) Enter() {}

// Exit implements the Section interface.
func (s Nop) Exit() {}
