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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type genRenderTest struct {
	tmpl string
	iter int64
	out  string
}

var genRenderTests = []genRenderTest{
	{"host$", 7, "host7"},
	{"host$.example.com.", 7, "host7.example.com."},
	{"a$b", 5, "a5b"},
	{"host${0,3,d}", 1, "host001"},
	{"host${0,3,d}", 123, "host123"},
	{"host${0,3,d}", 1234, "host1234"},
	{"host${10}", 1, "host11"},
	{"host${-1}", 5, "host4"},
	{"ip${0,2,o}", 9, "ip11"},
	{"ip${0,2,x}", 255, "ipff"},
	{"ip${0,2,X}", 255, "ipFF"},
	{"ip${0,4,X}", 255, "ip00FF"},
	{"price$$", 3, "price$"},
	{"$$$", 3, "$3"},
	{`a\$b`, 3, `a\$b`}, // escaped dollar passes through for the sanitizer
	{"no-iterator", 9, "no-iterator"},
}

func TestGenTemplateRender(t *testing.T) {
	for _, test := range genRenderTests {
		tmpl, err := parseGenTemplate([]byte(test.tmpl))
		require.NoError(t, err, "template %q", test.tmpl)
		out, err := tmpl.render(test.iter)
		require.NoError(t, err, "template %q", test.tmpl)
		require.Equal(t, test.out, string(out), "template %q iter %d", test.tmpl, test.iter)
	}
}

type genTemplateErrTest struct {
	tmpl string
	msg  string
}

var genTemplateErrTests = []genTemplateErrTest{
	{"host${}", "at offset"},
	{"host${x}", "at offset"},
	{"host${1", "at offset"},
	{"host${1,}", "at width"},
	{"host${1,2", "at width"},
	{"host${1,2,q}", "invalid base"},
	{"host${1,2,d", "curly braces not closed after base"},
	{strings.Repeat("$a", 6), "too many parts"},
}

func TestGenTemplateErrors(t *testing.T) {
	for _, test := range genTemplateErrTests {
		_, err := parseGenTemplate([]byte(test.tmpl))
		require.Error(t, err, "template %q", test.tmpl)
		require.Contains(t, err.Error(), test.msg, "template %q", test.tmpl)
	}
}

func TestGenTemplateRenderTooLong(t *testing.T) {
	tmpl, err := parseGenTemplate([]byte(strings.Repeat("x", maxGenerateLen) + "$"))
	require.NoError(t, err)
	_, err = tmpl.render(1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "too long")
}

type genRangeTest struct {
	in    string
	r     genRange
	valid bool
}

var genRangeTests = []genRangeTest{
	{"1-10", genRange{start: 1, stop: 10, step: 1}, true},
	{"0-255", genRange{start: 0, stop: 255, step: 1}, true},
	{"1-10/2", genRange{start: 1, stop: 10, step: 2}, true},
	{"5-5", genRange{start: 5, stop: 5, step: 1}, true},
	{"", genRange{}, false},
	{"1", genRange{}, false},
	{"-10", genRange{}, false},
	{"1-", genRange{}, false},
	{"1-x", genRange{}, false},
	{"1-10/", genRange{}, false},
	{"1-10/0", genRange{}, false},
	{"1-10/2x", genRange{}, false},
}

func TestParseGenRange(t *testing.T) {
	for _, test := range genRangeTests {
		r, err := parseGenRange([]byte(test.in))
		if !test.valid {
			require.Error(t, err, "range %q", test.in)
			continue
		}
		require.NoError(t, err, "range %q", test.in)
		require.Equal(t, test.r, r, "range %q", test.in)
	}
}
