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

// Package curated provides error values that can be identified by the pattern
// string they were created with. Packages declare their error patterns as
// constants:
//
//	const ShortBlock = "transport: short block: %d of %d bytes"
//
// and create errors with Errorf():
//
//	return curated.Errorf(ShortBlock, n, len(p))
//
// Callers can then test for the error with Is(), or with Has() if the error
// may be wrapped inside another curated error.
//
// Note that protocol failures inside the bus engine are not errors at all.
// They are reported through byte counts, as the host protocol demands. The
// curated package is for the layers around the engine: transport, display and
// the command line program.
package curated
