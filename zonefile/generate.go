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
	"errors"
	"strconv"
	"strings"
)

// MaxGenerateParts caps the literal/placeholder parts of one $GENERATE
// template side.
const MaxGenerateParts = 10

// maxGenerateLen bounds a rendered template: a full-length domain where
// every character needs a 4-byte octal escape.
const maxGenerateLen = MaxDomainLen * 4

// genPart is one piece of a $GENERATE template: either a literal text
// fragment (lit != nil) or an iterator placeholder.
type genPart struct {
	lit    []byte
	offset int
	width  int
	base   byte // 'd', 'o', 'x' or 'X'
}

// genTemplate is a parsed $GENERATE LHS or RHS.
type genTemplate struct {
	parts []genPart
}

// parseGenTemplate parses one side of a $GENERATE directive. "$$" is a
// literal '$'; a bare "$" renders the iterator in unpadded decimal;
// "${[-]N[,W[,base]]}" renders iterator+N zero-padded to width W in the
// given base. Backslash escapes pass through untouched for the
// sanitizer to decode later.
func parseGenTemplate(s []byte) (*genTemplate, error) {
	t := &genTemplate{}
	var lit []byte
	flush := func() error {
		if lit == nil {
			return nil
		}
		if len(t.parts) >= MaxGenerateParts {
			return errors.New("$GENERATE directive has too many parts")
		}
		t.parts = append(t.parts, genPart{lit: lit})
		lit = nil
		return nil
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			lit = append(lit, c, s[i+1])
			i++
			continue
		}
		if c != '$' {
			lit = append(lit, c)
			continue
		}
		if i+1 < len(s) && s[i+1] == '$' {
			lit = append(lit, '$')
			i++
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		p := genPart{base: 'd'}
		if i+1 < len(s) && s[i+1] == '{' {
			n, err := parseGenPlaceholder(s[i+2:], &p)
			if err != nil {
				return nil, err
			}
			i += 1 + n
		}
		if len(t.parts) >= MaxGenerateParts {
			return nil, errors.New("$GENERATE directive has too many parts")
		}
		t.parts = append(t.parts, p)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return t, nil
}

// parseGenPlaceholder parses the "[-]N[,W[,base]]}" tail of a curly
// brace placeholder into p and returns the number of bytes consumed,
// including the closing brace.
func parseGenPlaceholder(s []byte, p *genPart) (int, error) {
	i := 0
	neg := 1
	if i < len(s) && s[i] == '-' {
		neg = -1
		i++
	}
	off, n := scanGenNumber(s[i:])
	if n == 0 || i+n >= len(s) || (s[i+n] != ',' && s[i+n] != '}') {
		return 0, errors.New("parse error in $GENERATE curly braces (at offset)")
	}
	p.offset = neg * off
	i += n
	if s[i] == '}' {
		return i + 1, nil
	}
	i++
	w, n := scanGenNumber(s[i:])
	if n == 0 || i+n >= len(s) || (s[i+n] != ',' && s[i+n] != '}') {
		return 0, errors.New("parse error in $GENERATE curly braces (at width)")
	}
	p.width = w
	i += n
	if s[i] == '}' {
		return i + 1, nil
	}
	i++
	if i >= len(s) || (s[i] != 'd' && s[i] != 'o' && s[i] != 'x' && s[i] != 'X') {
		return 0, errors.New("$GENERATE has invalid base")
	}
	p.base = s[i]
	i++
	if i >= len(s) || s[i] != '}' {
		return 0, errors.New("parse error in $GENERATE (curly braces not closed after base)")
	}
	return i + 1, nil
}

// scanGenNumber reads a leading decimal run, returning its value and
// length.
func scanGenNumber(s []byte) (int, int) {
	val, n := 0, 0
	for n < len(s) && isDigit(s[n]) {
		val = val*10 + int(s[n]-'0')
		n++
	}
	return val, n
}

// render materializes the template for one iterator value.
func (t *genTemplate) render(iter int64) ([]byte, error) {
	out := []byte{}
	for _, p := range t.parts {
		if p.lit != nil {
			out = append(out, p.lit...)
		} else {
			out = appendGenValue(out, iter+int64(p.offset), p.width, p.base)
		}
		if len(out) > maxGenerateLen {
			return nil, errors.New("$GENERATE directive constructed a token that was too long")
		}
	}
	return out, nil
}

func appendGenValue(dst []byte, val int64, width int, base byte) []byte {
	var s string
	switch base {
	case 'o':
		s = strconv.FormatInt(val, 8)
	case 'x':
		s = strconv.FormatInt(val, 16)
	case 'X':
		s = strings.ToUpper(strconv.FormatInt(val, 16))
	default:
		s = strconv.FormatInt(val, 10)
	}
	for pad := width - len(s); pad > 0; pad-- {
		dst = append(dst, '0')
	}
	return append(dst, s...)
}

// genRange is the start-stop[/step] iteration range of a $GENERATE
// directive.
type genRange struct {
	start, stop, step int64
}

func parseGenRange(s []byte) (genRange, error) {
	r := genRange{step: 1}
	start, n := scanGenNumber(s)
	if n == 0 || n >= len(s) || s[n] != '-' {
		return r, errors.New("$GENERATE directive has invalid range (unable to parse start)")
	}
	r.start = int64(start)
	s = s[n+1:]
	stop, n := scanGenNumber(s)
	if n == 0 || (n < len(s) && s[n] != '/') {
		return r, errors.New("$GENERATE directive has invalid range (unable to parse stop)")
	}
	r.stop = int64(stop)
	if n == len(s) {
		return r, nil
	}
	s = s[n+1:]
	step, n := scanGenNumber(s)
	if n == 0 || n != len(s) || step == 0 {
		return r, errors.New("$GENERATE directive has invalid range (unable to parse step)")
	}
	r.step = int64(step)
	return r, nil
}
