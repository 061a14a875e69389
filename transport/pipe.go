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

package transport

import (
	"github.com/iecbridge/iecbridge/curated"
)

// Pipe is an in-memory Transport. The host side of the pipe queues bytes with
// HostSend() and drains bytes staged for it with HostRecv().
type Pipe struct {
	toAdapter []byte
	toHost    []byte

	// when true the corresponding block transfer fails with a curated error
	// of the Failed pattern
	FailRead  bool
	FailWrite bool
}

// NewPipe is the preferred method of initialisation for the Pipe type.
func NewPipe() *Pipe {
	return &Pipe{}
}

// HostSend queues bytes for collection by the adapter's next ReadBlock().
func (pp *Pipe) HostSend(p []byte) {
	pp.toAdapter = append(pp.toAdapter, p...)
}

// HostRecv drains every byte the adapter has staged for the host.
func (pp *Pipe) HostRecv() []byte {
	p := pp.toHost
	pp.toHost = nil
	return p
}

// ReadBlock implements the Transport interface.
func (pp *Pipe) ReadBlock(p []byte) error {
	if pp.FailRead {
		return curated.Errorf(Failed, "read block failed")
	}
	if len(pp.toAdapter) < len(p) {
		return curated.Errorf(ShortBlock, len(pp.toAdapter), len(p))
	}
	copy(p, pp.toAdapter[:len(p)])
	pp.toAdapter = pp.toAdapter[len(p):]
	return nil
}

// WriteBlock implements the Transport interface.
func (pp *Pipe) WriteBlock(p []byte) error {
	if pp.FailWrite {
		return curated.Errorf(Failed, "write block failed")
	}
	pp.toHost = append(pp.toHost, p...)
	return nil
}
