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

package curated_test

import (
	"errors"
	"testing"

	"github.com/iecbridge/iecbridge/curated"
	"github.com/iecbridge/iecbridge/test"
)

const (
	testPattern  = "test: %v"
	otherPattern = "other: %v"
)

func TestIdentity(t *testing.T) {
	err := curated.Errorf(testPattern, "detail")
	test.ExpectEquality(t, err.Error(), "test: detail")

	test.ExpectSuccess(t, curated.IsAny(err))
	test.ExpectSuccess(t, curated.Is(err, testPattern))
	test.ExpectFailure(t, curated.Is(err, otherPattern))

	// plain errors are not curated errors
	plain := errors.New("plain")
	test.ExpectFailure(t, curated.IsAny(plain))
	test.ExpectFailure(t, curated.Is(plain, testPattern))

	// nil is never a curated error
	test.ExpectFailure(t, curated.IsAny(nil))
	test.ExpectFailure(t, curated.Is(nil, testPattern))
	test.ExpectFailure(t, curated.Has(nil, testPattern))
}

func TestWrapping(t *testing.T) {
	inner := curated.Errorf(testPattern, "detail")
	outer := curated.Errorf(otherPattern, inner)

	test.ExpectEquality(t, outer.Error(), "other: test: detail")

	test.ExpectSuccess(t, curated.Has(outer, testPattern))
	test.ExpectSuccess(t, curated.Has(outer, otherPattern))
	test.ExpectFailure(t, curated.Is(outer, testPattern))
}

func TestDeduplication(t *testing.T) {
	// a message part repeated at the head of the chain is collapsed
	inner := curated.Errorf("disaster: %v", "it happened")
	outer := curated.Errorf("disaster: %v", inner)
	test.ExpectEquality(t, outer.Error(), "disaster: it happened")
}
