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

package modalflag

import (
	"flag"
	"io"
	"strings"
)

const modeSeparator = "/"

// Modes is a layered command line parser: each layer can declare flags and a
// list of sub-modes, and parsing peels off one layer at a time. The Output
// field should be set before calling Parse() or help messages will not be
// seen.
type Modes struct {
	// where help messages are printed. defaults to discarding them.
	Output io.Writer

	// the underlying flagset for the current mode. recreated by NewMode().
	flags *flag.FlagSet

	// the argument list for the current layer. NewArgs() sets it and each
	// successful Parse() replaces it with the arguments left over for the
	// next layer.
	args []string

	// sub-modes declared for the current layer. the first is the default.
	subModes []string

	// the sequence of sub-modes selected over successive calls to Parse().
	// never reset.
	path []string

	// extended help text for the current mode
	additionalHelp string
}

func (md *Modes) String() string {
	return md.Path()
}

// Mode returns the most recently selected sub-mode.
func (md *Modes) Mode() string {
	if len(md.path) == 0 {
		return ""
	}
	return md.path[len(md.path)-1]
}

// Path returns every sub-mode selected so far, separated by slashes.
func (md *Modes) Path() string {
	return strings.Join(md.path, modeSeparator)
}

// NewArgs begins parsing of a fresh argument list.
func (md *Modes) NewArgs(args []string) {
	md.args = args
	md.NewMode()
}

// NewMode begins a new layer. Flags and sub-modes declared from here on
// belong to the new layer.
func (md *Modes) NewMode() {
	md.subModes = md.subModes[:0]
	md.flags = flag.NewFlagSet("", flag.ContinueOnError)
	md.additionalHelp = ""
}

// AddSubModes declares the recognised sub-modes for the next call to Parse().
// The first sub-mode in the list is the default. Comparison with the command
// line is case insensitive.
func (md *Modes) AddSubModes(subModes ...string) {
	for _, m := range subModes {
		md.subModes = append(md.subModes, strings.ToUpper(m))
	}
}

// AdditionalHelp attaches extended help text, displayed after the regular
// summary of flags and sub-modes.
func (md *Modes) AdditionalHelp(help string) {
	md.additionalHelp = help
}

// ParseResult is returned from the Parse() function.
type ParseResult int

// List of valid ParseResult values.
const (
	// continue with command line processing. if sub-modes were declared then
	// the Mode() function says which was selected.
	ParseContinue ParseResult = iota

	// help was requested and has been printed
	ParseHelp

	// an error occurred and is returned as the second return value
	ParseError
)

// Parse the current layer of arguments.
func (md *Modes) Parse() (ParseResult, error) {
	hw := &helpWriter{}
	md.flags.SetOutput(hw)

	err := md.flags.Parse(md.args)
	if err != nil {
		if err == flag.ErrHelp {
			hw.help(md.Output, md.Path(), md.subModes, md.additionalHelp)
			return ParseHelp, nil
		}

		// an unrecognised flag. if sub-modes have been declared, fall back
		// to the default sub-mode and let the next layer try the flag.
		if len(md.subModes) > 0 {
			md.path = append(md.path, md.subModes[0])
			return ParseContinue, nil
		}

		return ParseError, err
	}

	if len(md.subModes) > 0 {
		remaining := md.flags.Args()
		arg := ""
		if len(remaining) > 0 {
			arg = strings.ToUpper(remaining[0])
		}

		mode := md.subModes[0]
		for _, m := range md.subModes {
			if m == arg {
				mode = arg
				remaining = remaining[1:]
				break // for loop
			}
		}

		md.path = append(md.path, mode)
		md.args = remaining
	} else {
		md.args = md.flags.Args()
	}

	return ParseContinue, nil
}

// RemainingArgs returns the arguments that are not flags or a selected
// sub-mode.
func (md *Modes) RemainingArgs() []string {
	return md.flags.Args()
}

// GetArg returns the numbered argument that is not a flag or a selected
// sub-mode.
func (md *Modes) GetArg(i int) string {
	return md.flags.Arg(i)
}

// AddBool flag for the next call to Parse().
func (md *Modes) AddBool(name string, value bool, usage string) *bool {
	return md.flags.Bool(name, value, usage)
}

// AddInt flag for the next call to Parse().
func (md *Modes) AddInt(name string, value int, usage string) *int {
	return md.flags.Int(name, value, usage)
}

// AddString flag for the next call to Parse().
func (md *Modes) AddString(name string, value string, usage string) *string {
	return md.flags.String(name, value, usage)
}
