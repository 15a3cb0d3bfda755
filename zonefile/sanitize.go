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
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// MaxDomainLen is the budget for a domain name or text field, counted
// in logical characters before escaping.
const MaxDomainLen = 255

// SanitizedString is text re-encoded into the output escaping
// convention. Text holds the encoded bytes; Len counts the logical
// characters they stand for, so Len <= len(Text). The logical length is
// what goes into length-prefixed TXT and SRV fields.
type SanitizedString struct {
	Text []byte
	Len  int
}

// EncodedLen returns the byte length of the encoded representation.
func (s SanitizedString) EncodedLen() int {
	return len(s.Text)
}

func (s SanitizedString) String() string {
	return string(s.Text)
}

// isEmpty reports whether s holds no characters at all. An absent
// origin and an empty one behave identically.
func (s SanitizedString) isEmpty() bool {
	return s.Len == 0
}

func isPrintable(c byte) bool {
	return c >= 0x20 && c <= 0x7e
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// appendOctal appends c as a 3-digit zero-padded octal escape.
func appendOctal(dst []byte, c byte) []byte {
	return append(dst, '\\', '0'+(c>>6)&7, '0'+(c>>3)&7, '0'+c&7)
}

// Sanitize normalizes BIND-escaped text into the output escaping
// convention. Printable characters other than backslash and ':' pass
// through. BIND escapes - backslash followed by a single character, or
// by exactly three decimal digits naming a byte - are decoded and then
// re-encoded: the decoded byte is emitted verbatim when it is printable
// and none of ':', '.', '\', and as a \NNN octal escape otherwise. A
// bare unprintable byte, ':' or '\' is always octal-escaped. Each field
// is sanitized exactly once; re-sanitizing output that contains octal
// escapes would misread them as decimal.
func Sanitize(src []byte) (SanitizedString, error) {
	out := make([]byte, 0, len(src))
	n := 0
	for i := 0; i < len(src); i++ {
		if n == MaxDomainLen {
			return SanitizedString{}, ErrStringTooLong
		}
		c := src[i]
		switch {
		case c == '\\':
			if i+1 == len(src) {
				return SanitizedString{}, errors.New("backslash escape with no escaped character")
			}
			nc := src[i+1]
			if !isDigit(nc) {
				if nc == ':' || nc == '\\' || nc == '.' || !isPrintable(nc) {
					out = appendOctal(out, nc)
				} else {
					out = append(out, nc)
				}
				n++
				i++
				continue
			}
			if i+3 >= len(src) || !isDigit(src[i+2]) || !isDigit(src[i+3]) {
				return SanitizedString{}, errors.New("malformed escaped decimal sequence")
			}
			num := int(nc-'0')*100 + int(src[i+2]-'0')*10 + int(src[i+3]-'0')
			if num > 255 {
				return SanitizedString{}, errors.New("escaped decimal number too large")
			}
			b := byte(num)
			if isPrintable(b) && b != ':' && b != '.' && b != '\\' {
				out = append(out, b)
			} else {
				out = appendOctal(out, b)
			}
			n++
			i += 3
		case isPrintable(c) && c != ':':
			out = append(out, c)
			n++
		default:
			out = appendOctal(out, c)
			n++
		}
	}
	return SanitizedString{Text: out, Len: n}, nil
}

// QualifyDomain builds a fully-qualified sanitized domain from a
// possibly relative BIND name and an already-sanitized origin. "@"
// stands for the origin; a trailing dot marks the name as already
// qualified; otherwise the origin is appended. An empty name yields the
// origin. Empty labels (a leading dot with more text, or "..") and
// names over the MaxDomainLen budget are rejected.
func QualifyDomain(name []byte, origin SanitizedString) (SanitizedString, error) {
	sname, err := Sanitize(name)
	if err != nil {
		return SanitizedString{}, fmt.Errorf("unable to sanitize name: %w", err)
	}

	if sname.isEmpty() {
		if origin.isEmpty() {
			return SanitizedString{}, errors.New("name and origin are both empty or missing")
		}
		return origin.clone(), nil
	}

	t := sname.Text
	if t[0] == '.' && len(t) > 1 {
		return SanitizedString{}, errors.New("empty label")
	}
	if bytes.Contains(t, []byte("..")) {
		return SanitizedString{}, errors.New("empty label")
	}
	if len(t) == 1 && t[0] == '@' {
		if origin.isEmpty() {
			return SanitizedString{}, errors.New("name is '@', origin is missing")
		}
		return origin.clone(), nil
	}
	if t[len(t)-1] == '.' {
		return sname, nil
	}
	if origin.isEmpty() {
		return SanitizedString{}, errors.New("name is not fully qualified and origin is missing")
	}
	if len(origin.Text) == 1 && origin.Text[0] == '.' {
		if sname.Len+1 > MaxDomainLen {
			return SanitizedString{}, fmt.Errorf("name is too long: %w", ErrStringTooLong)
		}
		return SanitizedString{Text: append(t, '.'), Len: sname.Len + 1}, nil
	}
	if sname.Len+1+origin.Len > MaxDomainLen {
		return SanitizedString{}, fmt.Errorf("name plus origin is too long: %w", ErrStringTooLong)
	}
	text := append(t, '.')
	text = append(text, origin.Text...)
	return SanitizedString{Text: text, Len: sname.Len + 1 + origin.Len}, nil
}

// clone returns an independent copy so later qualifications cannot
// alias the receiver's buffer.
func (s SanitizedString) clone() SanitizedString {
	return SanitizedString{Text: append([]byte(nil), s.Text...), Len: s.Len}
}

// SanitizeIP validates a dotted-decimal IPv4 address - four decimal
// runs in 0..255 separated by exactly three dots, leading zeros
// tolerated - and reformats it without the leading zeros.
func SanitizeIP(src []byte) ([]byte, error) {
	out := make([]byte, 0, 15)
	rest := src
	for i := 0; i < 4; i++ {
		var run []byte
		if i < 3 {
			j := bytes.IndexByte(rest, '.')
			if j < 0 {
				return nil, ErrBadIP
			}
			run, rest = rest[:j], rest[j+1:]
		} else {
			run = rest
		}
		if len(run) == 0 {
			return nil, ErrBadIP
		}
		octet := 0
		for _, c := range run {
			if !isDigit(c) {
				return nil, ErrBadIP
			}
			octet = octet*10 + int(c-'0')
			if octet > 255 {
				return nil, ErrBadIP
			}
		}
		out = strconv.AppendInt(out, int64(octet), 10)
		if i < 3 {
			out = append(out, '.')
		}
	}
	return out, nil
}
