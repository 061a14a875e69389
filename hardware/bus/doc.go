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

// Package bus defines the serial bus as the protocol engine sees it: the four
// logical lines (DATA, CLOCK, ATN, RESET), the mapping from logical lines to
// hardware port bits, and the Bus interface implemented by line drivers.
//
// The package also defines the Clock interface through which the engine
// measures and spends time. Separating the clock from the bus is what allows
// the engine to run against the simulated bus on virtual time.
package bus
