/*
Copyright (c) Meta Platforms, Inc. and affiliates.
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at
    http://www.apache.org/licenses/LICENSE-2.0
Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package zonefile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type parseUintTest struct {
	in        string
	durations bool
	out       uint32
	ok        bool
}

var parseUintTests = []parseUintTest{
	{"0", false, 0, true},
	{"86400", false, 86400, true},
	{"2147483646", false, 2147483646, true},
	{"300", true, 300, true},
	{"1w", true, 604800, true},
	{"1W", true, 604800, true},
	{"1d", true, 86400, true},
	{"2h", true, 7200, true},
	{"30m", true, 1800, true},
	{"45s", true, 45, true},
	{"2w1d2h5m6s", true, 2*604800 + 86400 + 2*3600 + 5*60 + 6, true},
	{"1D2H", true, 86400 + 7200, true},
	// deliberate uint32 wraparound, matching BIND's duration parser
	{"50000w", true, 175228928, true},
	{"4294967296", false, 0, true},
	{"", false, 0, false},
	{"", true, 0, false},
	{"1d", false, 0, false},
	{"12x", true, 0, false},
	{"w", true, 0, false},
	{"1d2", true, 0, false},
	{"abc", true, 0, false},
	{"-1", false, 0, false},
	{" 300", false, 0, false},
}

func TestParseUint(t *testing.T) {
	for _, test := range parseUintTests {
		v, err := ParseUint([]byte(test.in), test.durations)
		if !test.ok {
			require.Error(t, err, "input %q", test.in)
			continue
		}
		require.NoError(t, err, "input %q", test.in)
		require.Equal(t, test.out, v, "input %q", test.in)
	}
}

func TestParseUintProbe(t *testing.T) {
	// probing for TTL-ness must reject without side effects
	_, err := ParseUint([]byte("IN"), true)
	require.ErrorIs(t, err, ErrBadNumber)
}
