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

// Package transport defines the bulk transfer channel between the host and
// the adapter's command buffer. On real hardware this is a pair of USB bulk
// endpoints. The dispatch state machine treats it as an opaque collaborator:
// a failed block transfer is reported to the caller, never retried.
//
// The Pipe type is an in-memory implementation used by the test suite and by
// the demonstration modes of the command line program.
package transport

// Sentinel patterns for errors returned by Transport implementations. Use
// with curated.Is().
const (
	ShortBlock = "transport: short block: %d of %d bytes"
	Failed     = "transport: %s"
)

// Transport moves blocks of bytes between the host and the adapter.
type Transport interface {
	// ReadBlock fills p with bytes sent by the host. The read is
	// all-or-nothing: an error means none of p should be trusted.
	ReadBlock(p []byte) error

	// WriteBlock sends the bytes in p to the host.
	WriteBlock(p []byte) error
}
