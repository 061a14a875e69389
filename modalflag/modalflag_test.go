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

package modalflag_test

import (
	"testing"

	"github.com/iecbridge/iecbridge/modalflag"
	"github.com/iecbridge/iecbridge/test"
)

func TestNoModesNoFlags(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{})

	p, err := md.Parse()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectEquality(t, md.Mode(), "")
	test.ExpectEquality(t, len(md.RemainingArgs()), 0)
}

func TestDefaultSubMode(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{})
	md.AddSubModes("RUN", "EXCHANGE", "RESET")

	p, err := md.Parse()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectEquality(t, md.Mode(), "RUN")
}

func TestSubModeSelection(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"exchange"})
	md.AddSubModes("RUN", "EXCHANGE", "RESET")

	p, err := md.Parse()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p, modalflag.ParseContinue)

	// sub-mode comparison is case insensitive
	test.ExpectEquality(t, md.Mode(), "EXCHANGE")
}

func TestLayeredFlags(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"-verbose", "exchange", "-device", "9", "notes.prg"})
	md.AddSubModes("RUN", "EXCHANGE")
	verbose := md.AddBool("verbose", false, "print more information")

	p, err := md.Parse()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectEquality(t, md.Mode(), "EXCHANGE")
	test.ExpectEquality(t, *verbose, true)

	md.NewMode()
	device := md.AddInt("device", 8, "device number")

	p, err = md.Parse()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectEquality(t, *device, 9)
	test.ExpectEquality(t, md.GetArg(0), "notes.prg")
	test.ExpectEquality(t, md.Path(), "EXCHANGE")
}

func TestUnrecognisedFlag(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"-no-such-flag"})

	p, err := md.Parse()
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, p, modalflag.ParseError)
}

func TestUnrecognisedFlagFallsThroughToDefaultMode(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"-device", "9"})
	md.AddSubModes("RUN", "EXCHANGE")

	// the -device flag belongs to a sub-mode so the outer layer falls back
	// to the default sub-mode rather than failing
	p, err := md.Parse()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectEquality(t, md.Mode(), "RUN")
}
