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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It provides a convenient method of handling program modes and
// sub-modes, each with their own sets of flags.
//
// Flags before a sub-mode belong to the outer mode and flags after the
// sub-mode belong to the sub-mode:
//
//	iecbridge -log exchange -device 9
//
// In this example, the -log flag is handled by the program mode and the
// -device flag by the EXCHANGE sub-mode.
//
// The basic pattern of usage is to call NewArgs() with the command line
// arguments, declare flags and sub-modes, and then Parse(). Sub-modes then
// repeat the pattern after a call to NewMode():
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "EXCHANGE", "RESET")
//	verbose := md.AddBool("verbose", false, "print more information")
//
//	p, err := md.Parse()
//	if p != modalflag.ParseContinue {
//	    ...
//	}
//
//	switch md.Mode() {
//	case "RUN":
//	    md.NewMode()
//	    ...
//	}
//
// The first declared sub-mode is the default and is selected when the
// command line names no sub-mode at all.
package modalflag
