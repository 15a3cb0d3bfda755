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

type sanitizeTest struct {
	in  string
	out string
	len int
}

var sanitizeTests = []sanitizeTest{
	// printable text without backslash or colon is the identity
	{"www.example.com", "www.example.com", 15},
	{"a-b_c", "a-b_c", 5},
	{"hello world", "hello world", 11},
	{"", "", 0},
	{".", ".", 1},
	// bare special bytes get octal escapes
	{"a:b", "a\\072b", 3},
	{"\x01", "\\001", 1},
	{"\xc3\xa9", "\\303\\251", 2},
	// single-char escapes: special targets re-encode, the rest copy
	{`\:`, `\072`, 1},
	{`\\`, `\134`, 1},
	{`\.`, `\056`, 1},
	{`\;`, `;`, 1},
	{`\a`, `a`, 1},
	// decimal escapes name a raw byte
	{`\065`, `A`, 1},
	{`\058`, `\072`, 1}, // 58 is ':'
	{`\046`, `\056`, 1}, // 46 is '.'
	{`\092`, `\134`, 1}, // 92 is '\'
	{`\003`, `\003`, 1},
	{`a\032b`, `a b`, 3},
}

func TestSanitize(t *testing.T) {
	for _, test := range sanitizeTests {
		s, err := Sanitize([]byte(test.in))
		require.NoError(t, err, "input %q", test.in)
		require.Equal(t, test.out, string(s.Text), "input %q", test.in)
		require.Equal(t, test.len, s.Len, "input %q", test.in)
		require.GreaterOrEqual(t, s.EncodedLen(), s.Len, "input %q", test.in)
	}
}

var sanitizeErrTests = []string{
	`a\`,       // trailing backslash
	`\1a3`,     // short decimal escape
	`\25`,      // short decimal escape at end
	`\256`,     // byte value out of range
	`\999`,     // byte value out of range
	strings.Repeat("a", 256), // over the logical budget
}

func TestSanitizeErrors(t *testing.T) {
	for _, in := range sanitizeErrTests {
		_, err := Sanitize([]byte(in))
		require.Error(t, err, "input %q", in)
	}
}

func TestSanitizeMaxLen(t *testing.T) {
	s, err := Sanitize([]byte(strings.Repeat("a", 255)))
	require.NoError(t, err)
	require.Equal(t, 255, s.Len)
}

// Idempotence holds whenever the encoded form reads back identically in
// the input convention: unescaped output, and escapes of bytes 0..7
// (where the octal and decimal readings agree).
func TestSanitizeIdempotent(t *testing.T) {
	for _, in := range []string{"www.example.com", "a b c", "x\x01y", "\x00\x07"} {
		once, err := Sanitize([]byte(in))
		require.NoError(t, err)
		twice, err := Sanitize(once.Text)
		require.NoError(t, err)
		require.Equal(t, string(once.Text), string(twice.Text), "input %q", in)
		require.Equal(t, once.Len, twice.Len, "input %q", in)
	}
}

func mustSanitize(t *testing.T, s string) SanitizedString {
	t.Helper()
	out, err := Sanitize([]byte(s))
	require.NoError(t, err)
	return out
}

func TestQualifyDomain(t *testing.T) {
	origin := mustSanitize(t, "example.com.")

	type qualifyTest struct {
		name string
		out  string
		len  int
	}
	tests := []qualifyTest{
		{"@", "example.com.", 12},
		{"", "example.com.", 12},
		{"www", "www.example.com.", 16},
		{"www.example.com.", "www.example.com.", 16},
		{"other.org.", "other.org.", 10},
		{".", ".", 1},
	}
	for _, test := range tests {
		got, err := QualifyDomain([]byte(test.name), origin)
		require.NoError(t, err, "name %q", test.name)
		require.Equal(t, test.out, string(got.Text), "name %q", test.name)
		require.Equal(t, test.len, got.Len, "name %q", test.name)
	}
}

func TestQualifyDomainRootOrigin(t *testing.T) {
	got, err := QualifyDomain([]byte("www"), root)
	require.NoError(t, err)
	require.Equal(t, "www.", string(got.Text))
}

func TestQualifyDomainErrors(t *testing.T) {
	origin := mustSanitize(t, "example.com.")
	var none SanitizedString

	// empty labels
	for _, name := range []string{".foo", "a..b", "..", "a.."} {
		_, err := QualifyDomain([]byte(name), origin)
		require.Error(t, err, "name %q", name)
	}
	// missing origin
	for _, name := range []string{"@", "", "www"} {
		_, err := QualifyDomain([]byte(name), none)
		require.Error(t, err, "name %q", name)
	}
	// over the domain budget once joined
	long := strings.Repeat("a", 250)
	_, err := QualifyDomain([]byte(long), origin)
	require.ErrorIs(t, err, ErrStringTooLong)
}

func TestQualifyDomainDoesNotAliasOrigin(t *testing.T) {
	origin := mustSanitize(t, "example.com.")
	got, err := QualifyDomain([]byte("@"), origin)
	require.NoError(t, err)
	got.Text[0] = 'X'
	require.Equal(t, "example.com.", string(origin.Text))
}

type ipTest struct {
	in  string
	out string
	ok  bool
}

var ipTests = []ipTest{
	{"127.0.0.1", "127.0.0.1", true},
	{"127.00000.0.1", "127.0.0.1", true},
	{"001.002.003.004", "1.2.3.4", true},
	{"255.255.255.255", "255.255.255.255", true},
	{"0.0.0.0", "0.0.0.0", true},
	{"1.2.3.256", "", false},
	{"1.2.3", "", false},
	{"1.2.3.4.5", "", false},
	{"1..2.3", "", false},
	{"1.2.3.", "", false},
	{"1.2.3.4x", "", false},
	{"a.b.c.d", "", false},
	{"", "", false},
}

func TestSanitizeIP(t *testing.T) {
	for _, test := range ipTests {
		got, err := SanitizeIP([]byte(test.in))
		if !test.ok {
			require.ErrorIs(t, err, ErrBadIP, "input %q", test.in)
			continue
		}
		require.NoError(t, err, "input %q", test.in)
		require.Equal(t, test.out, string(got), "input %q", test.in)
	}
}
