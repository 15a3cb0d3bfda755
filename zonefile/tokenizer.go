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
	"bufio"
	"bytes"
	"errors"
	"io"

	log "github.com/sirupsen/logrus"
)

// tokenizer limits; downstream consumers depend on these exact ceilings
const (
	// MaxEntryLen is the byte budget for one logical entry, including
	// all physical lines joined by parentheses.
	MaxEntryLen = 8192
	// MaxTokens is the most tokens one entry may produce.
	MaxTokens = 32
	// MaxParen is the deepest allowed parenthesis nesting.
	MaxParen = 3
)

// Token is one tokenizer output. Inherited marks the blank-owner
// position: the entry started with whitespace, so the record reuses the
// previous record's owner. An Inherited token carries no text.
type Token struct {
	Text      []byte
	Inherited bool
}

// Tokenizer splits zone text into entries, one token slice per entry.
// An entry is a physical line, plus any continuation lines joined to it
// by an unbalanced open parenthesis. Comment-only and blank lines
// produce an empty token slice.
type Tokenizer struct {
	scanner   *bufio.Scanner
	lineNum   int // number of the next physical line to read, 1-based
	entryLine int // line on which the current entry started
	err       error
}

// NewTokenizer returns a Tokenizer reading zone text from r.
func NewTokenizer(r io.Reader) *Tokenizer {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), 4*MaxEntryLen)
	return &Tokenizer{scanner: s, lineNum: 1, entryLine: 1}
}

// Line returns the physical line number on which the most recently
// returned entry started. Used for diagnostics.
func (t *Tokenizer) Line() int {
	return t.entryLine
}

// entryState is the tokenizing state that survives across the physical
// lines of one entry.
type entryState struct {
	tokens     []Token
	entryLen   int
	parenLevel int
	inTXT      bool // a TXT type token was seen; double quotes are legal
	sawContent bool // at least one regular (non-blank) token was found
}

// Next returns the tokens of the next entry, or io.EOF when the input
// is exhausted. The returned slices are independent of the tokenizer's
// internal buffers. Errors other than io.EOF are terminal and wrapped
// in an EntryError carrying the entry's starting line.
func (t *Tokenizer) Next() ([]Token, error) {
	if t.err != nil {
		return nil, t.err
	}
	t.entryLine = t.lineNum
	st := &entryState{}
	first := true
	for {
		if !t.scanner.Scan() {
			if err := t.scanner.Err(); err != nil {
				t.err = err
				return nil, err
			}
			if !first && st.parenLevel > 0 {
				t.err = &EntryError{Line: t.entryLine, Err: errors.New("open parentheses at end of file")}
				return nil, t.err
			}
			t.err = io.EOF
			return nil, t.err
		}
		line := t.scanner.Bytes()
		t.lineNum++
		if err := t.scanLine(line, st); err != nil {
			t.err = &EntryError{Line: t.entryLine, Err: err}
			return nil, t.err
		}
		first = false
		if st.parenLevel == 0 {
			break
		}
	}
	if !st.sawContent {
		return nil, nil
	}
	return st.tokens, nil
}

// scanLine tokenizes one physical line into st, following the scanning
// rules in priority order: backslash escapes, double-quoted TXT spans,
// ';' comments, parentheses, whitespace, ordinary token characters.
func (t *Tokenizer) scanLine(line []byte, st *entryState) error {
	var cur []byte
	inToken := false
	escaped := false
	inQuotes := false

	endToken := func() {
		if inToken {
			st.tokens = append(st.tokens, Token{Text: cur})
			cur = nil
			inToken = false
		}
	}
	addToken := func(tok Token) error {
		if len(st.tokens) >= MaxTokens {
			return errors.New("too many tokens in RR")
		}
		st.tokens = append(st.tokens, tok)
		return nil
	}

scan:
	for i := 0; i < len(line); i++ {
		st.entryLen++
		if st.entryLen > MaxEntryLen {
			return errors.New("entry too long")
		}
		c := line[i]

		if escaped {
			escaped = false
			cur = append(cur, c)
			continue
		}
		if c == '\\' {
			escaped = true
			// the backslash itself stays in the token; the sanitizer
			// decodes the escape later
			if !inToken {
				if len(st.tokens) >= MaxTokens {
					return errors.New("too many tokens in RR")
				}
				inToken = true
				st.sawContent = true
			}
			cur = append(cur, c)
			continue
		}
		if inQuotes && c != '"' {
			cur = append(cur, c)
			continue
		}

		switch c {
		case ';':
			endToken()
			break scan
		case '(':
			endToken()
			st.parenLevel++
			if st.parenLevel > MaxParen {
				return errors.New("too many nested parentheses")
			}
		case ')':
			endToken()
			st.parenLevel--
			if st.parenLevel < 0 {
				return errors.New("missing opening parenthesis")
			}
		case '"':
			if inQuotes {
				// close the quoted span; cur may legitimately be empty
				st.tokens = append(st.tokens, Token{Text: cur})
				cur = nil
				inToken = false
				inQuotes = false
				continue
			}
			if !st.inTXT {
				var prev []byte
				switch {
				case inToken:
					prev = cur
				case len(st.tokens) > 0:
					prev = st.tokens[len(st.tokens)-1].Text
				}
				if !bytes.EqualFold(prev, []byte("TXT")) {
					return errors.New("improper use of double-quotes (can only be used for TXT rdata)")
				}
				st.inTXT = true
			}
			endToken()
			if len(st.tokens) >= MaxTokens {
				return errors.New("too many tokens in RR")
			}
			inToken = true
			inQuotes = true
			cur = []byte{}
		case ' ', '\t':
			if st.entryLen == 1 {
				if err := addToken(Token{Inherited: true}); err != nil {
					return err
				}
				continue
			}
			endToken()
		case '\r':
			endToken()
		default:
			if !inToken {
				if len(st.tokens) >= MaxTokens {
					return errors.New("too many tokens in RR")
				}
				inToken = true
				st.sawContent = true
			}
			cur = append(cur, c)
		}
	}

	endToken()
	// count the line terminator against the entry budget
	st.entryLen++

	if escaped {
		log.Warningf("line %d: hanging backslash at end of line; pretending it was terminated", t.lineNum-1)
	}
	if inQuotes {
		log.Warningf("line %d: open doublequoted string at end of line; pretending it was closed", t.lineNum-1)
	}
	return nil
}
