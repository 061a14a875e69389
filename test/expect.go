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

package test

import (
	"fmt"
	"testing"
)

// id builds a prefix for the test failure message from the optional tags.
func id(tags ...any) string {
	if len(tags) == 0 {
		return ""
	}
	s := ""
	for _, tag := range tags {
		s = fmt.Sprintf("%s[%v]", s, tag)
	}
	return s + " "
}

// expect returns true if v is a 'success' value for its type:
//
//	bool  -> true
//	error -> nil
//	int   -> zero or positive
//
// nil is considered a success. other types are a test fatality.
func expect(t *testing.T, v any, tags ...any) bool {
	t.Helper()

	switch v := v.(type) {
	case bool:
		return v
	case error:
		return v == nil
	case int:
		return v >= 0
	case nil:
		return true
	default:
		t.Fatalf("%sunsupported type (%T) for expectation testing", id(tags...), v)
	}
	return false
}

// ExpectEquality is used to test equality between one value and another.
func ExpectEquality[T comparable](t *testing.T, v T, expectedValue T, tags ...any) bool {
	t.Helper()
	if v != expectedValue {
		t.Errorf("%sequality test of type %T failed: '%v' does not equal '%v'", id(tags...), v, v, expectedValue)
		return false
	}
	return true
}

// ExpectSuccess is used to test for a value which indicates a 'success' value
// for the type. See the expect() function for the list of supported types.
func ExpectSuccess(t *testing.T, v any, tags ...any) bool {
	t.Helper()
	if !expect(t, v, tags...) {
		t.Errorf("%sexpected success for type %T (%v)", id(tags...), v, v)
		return false
	}
	return true
}

// ExpectFailure is used to test for a value which indicates a 'failure' value
// for the type. See the expect() function for the list of supported types.
func ExpectFailure(t *testing.T, v any, tags ...any) bool {
	t.Helper()
	if expect(t, v, tags...) {
		t.Errorf("%sexpected failure for type %T (%v)", id(tags...), v, v)
		return false
	}
	return true
}
