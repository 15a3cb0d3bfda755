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

// Package zonefile converts DNS zones in BIND master-file syntax into
// the tinydns-style line-oriented data format.
package zonefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// Driver owns the state of one conversion run and turns tokenized
// entries into output lines. The top origin is fixed at construction
// and bounds which owners are considered in-zone; the current origin
// follows $ORIGIN directives and resolves relative names.
type Driver struct {
	topOrigin SanitizedString
	curOrigin SanitizedString
	ttl       uint32

	prevOwner SanitizedString
	hasOwner  bool

	w    io.Writer
	line int // starting line of the entry being handled
}

// root is the zone root against which the initial origin is qualified.
var root = SanitizedString{Text: []byte("."), Len: 1}

// NewDriver returns a Driver for the zone rooted at origin. The origin
// may be relative; it is qualified against the root.
func NewDriver(origin string) (*Driver, error) {
	top, err := QualifyDomain([]byte(origin), root)
	if err != nil {
		return nil, fmt.Errorf("unable to qualify initial origin: %w", err)
	}
	return &Driver{
		topOrigin: top,
		curOrigin: top.clone(),
		ttl:       DefaultTTL,
	}, nil
}

// Run converts the zone text from r, appending one line per emitted
// record to w. It stops at the first malformed entry; out-of-zone
// owners only warn, and the offending record is skipped.
func (d *Driver) Run(r io.Reader, w io.Writer) error {
	d.w = w
	t := NewTokenizer(r)
	for {
		tokens, err := t.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		d.line = t.Line()
		if err := d.handleEntry(tokens); err != nil {
			var entryErr *EntryError
			if errors.As(err, &entryErr) {
				return err
			}
			return &EntryError{Line: d.line, Err: err}
		}
	}
}

// handleEntry dispatches one tokenized entry: $-directives mutate the
// run state (or expand, for $GENERATE); everything else is a resource
// record.
func (d *Driver) handleEntry(tokens []Token) error {
	if len(tokens) == 0 {
		return nil
	}
	if tokens[0].Inherited {
		return d.handleRecord(tokens)
	}
	first := tokens[0].Text
	switch {
	case bytes.EqualFold(first, []byte("$ORIGIN")):
		return d.handleOrigin(tokens)
	case bytes.EqualFold(first, []byte("$TTL")):
		return d.handleTTL(tokens)
	case bytes.EqualFold(first, []byte("$GENERATE")):
		return d.handleGenerate(tokens)
	case bytes.EqualFold(first, []byte("$INCLUDE")):
		return errors.New("sorry, $INCLUDE directive is not implemented")
	case len(first) > 0 && first[0] == '$':
		return errors.New("unknown $ directive")
	}
	return d.handleRecord(tokens)
}

func (d *Driver) handleOrigin(tokens []Token) error {
	if len(tokens) != 2 {
		return errors.New("$ORIGIN directive has wrong number of arguments")
	}
	origin, err := QualifyDomain(tokens[1].Text, d.curOrigin)
	if err != nil {
		return fmt.Errorf("choked on domain name in $ORIGIN statement: %w", err)
	}
	d.curOrigin = origin
	return nil
}

func (d *Driver) handleTTL(tokens []Token) error {
	if len(tokens) != 2 {
		return errors.New("$TTL directive has wrong number of arguments")
	}
	ttl, err := ParseUint(tokens[1].Text, true)
	if err != nil || ttl > MaxTTL {
		return errors.New("invalid $TTL value")
	}
	d.ttl = ttl
	return nil
}

// generate RR types; anything else in a $GENERATE directive is invalid
var genTypes = [][]byte{
	[]byte("A"), []byte("NS"), []byte("CNAME"), []byte("PTR"),
}

func (d *Driver) handleGenerate(tokens []Token) error {
	if len(tokens) != 5 {
		return errors.New("$GENERATE directive has wrong number of arguments")
	}
	typeOK := false
	for _, t := range genTypes {
		if bytes.EqualFold(tokens[3].Text, t) {
			typeOK = true
			break
		}
	}
	if !typeOK {
		return errors.New("$GENERATE directive has unknown RR type")
	}
	rng, err := parseGenRange(tokens[1].Text)
	if err != nil {
		return err
	}
	lhs, err := parseGenTemplate(tokens[2].Text)
	if err != nil {
		return err
	}
	rhs, err := parseGenTemplate(tokens[4].Text)
	if err != nil {
		return err
	}
	for i := rng.start; i <= rng.stop; i += rng.step {
		owner, err := lhs.render(i)
		if err != nil {
			return err
		}
		rdata, err := rhs.render(i)
		if err != nil {
			return err
		}
		// a generated entry must be a plain record; re-dispatching
		// directives would allow unbounded recursion
		if bytes.HasPrefix(owner, []byte("$")) || bytes.HasPrefix(rdata, []byte("$")) {
			return errors.New("$GENERATE directive constructed another directive")
		}
		gen := []Token{
			{Text: owner},
			{Text: tokens[3].Text},
			{Text: rdata},
		}
		if err := d.handleRecord(gen); err != nil {
			return err
		}
	}
	return nil
}

// inZone reports whether owner equals, or is a dot-separated subdomain
// of, top. Comparison is case-insensitive over the encoded text.
func inZone(owner, top SanitizedString) bool {
	o, t := owner.Text, top.Text
	if len(t) > len(o) {
		return false
	}
	if !bytes.EqualFold(o[len(o)-len(t):], t) {
		return false
	}
	if len(o) > len(t) && o[len(o)-len(t)-1] != '.' {
		return false
	}
	return true
}

// handleRecord resolves owner, TTL and class, then dispatches on the
// type keyword and emits the record.
func (d *Driver) handleRecord(tokens []Token) error {
	if len(tokens) < 3 {
		return errors.New("RR does not have enough tokens")
	}

	if tokens[0].Inherited {
		if !d.hasOwner {
			return errors.New("RR tried to inherit owner from previous record, but there was no previous RR")
		}
	} else {
		owner, err := QualifyDomain(tokens[0].Text, d.curOrigin)
		if err != nil {
			return fmt.Errorf("choked on owner name in RR: %w", err)
		}
		if !inZone(owner, d.topOrigin) {
			log.Warningf("line %d: ignoring out-of-zone data", d.line)
			return nil
		}
		d.prevOwner = owner
		d.hasOwner = true
	}
	owner := d.prevOwner

	// the TTL and class may come in either order before the type
	ttl := d.ttl
	next := 1
	if v, err := ParseUint(tokens[1].Text, true); err == nil {
		if v > MaxTTL {
			return errors.New("invalid TTL in RR")
		}
		ttl = v
		if bytes.EqualFold(tokens[2].Text, []byte("IN")) {
			next = 3
		} else {
			next = 2
		}
	} else if bytes.EqualFold(tokens[1].Text, []byte("IN")) {
		if v, err := ParseUint(tokens[2].Text, true); err == nil {
			if v > MaxTTL {
				return errors.New("invalid TTL in RR")
			}
			ttl = v
			next = 3
		} else {
			next = 2
		}
	}
	if next >= len(tokens) {
		return errors.New("RR does not have enough tokens")
	}

	typ := tokens[next].Text
	rdata := tokens[next+1:]
	switch {
	case bytes.EqualFold(typ, []byte("SOA")):
		return d.handleSOA(owner, rdata)
	case bytes.EqualFold(typ, []byte("NS")):
		return d.handleNS(owner, ttl, rdata)
	case bytes.EqualFold(typ, []byte("MX")):
		return d.handleMX(owner, ttl, rdata)
	case bytes.EqualFold(typ, []byte("A")):
		return d.handleA(owner, ttl, rdata)
	case bytes.EqualFold(typ, []byte("CNAME")):
		return d.handleCNAME(owner, ttl, rdata)
	case bytes.EqualFold(typ, []byte("PTR")):
		return d.handlePTR(owner, ttl, rdata)
	case bytes.EqualFold(typ, []byte("TXT")):
		return d.handleTXT(owner, ttl, rdata)
	case bytes.EqualFold(typ, []byte("SRV")):
		return d.handleSRV(owner, ttl, rdata)
	}
	return errors.New("unknown RR type")
}

func (d *Driver) handleSOA(owner SanitizedString, rdata []Token) error {
	if len(rdata) == 2 {
		return errors.New("wrong number of tokens in SOA RDATA (perhaps an opening parenthesis is on the next line instead of this one?)")
	}
	if len(rdata) != 7 {
		return errors.New("wrong number of tokens in SOA RDATA")
	}
	mname, err := QualifyDomain(rdata[0].Text, d.curOrigin)
	if err != nil {
		return fmt.Errorf("choked on MNAME in SOA RDATA: %w", err)
	}
	rname, err := QualifyDomain(rdata[1].Text, d.curOrigin)
	if err != nil {
		return fmt.Errorf("choked on RNAME in SOA RDATA: %w", err)
	}
	r := &Rsoa{dom: owner, mname: mname, rname: rname}
	if r.ser, err = ParseUint(rdata[2].Text, false); err != nil {
		return errors.New("invalid SERIAL in SOA RDATA")
	}
	if r.ref, err = ParseUint(rdata[3].Text, true); err != nil {
		return errors.New("invalid REFRESH in SOA RDATA")
	}
	if r.ret, err = ParseUint(rdata[4].Text, true); err != nil {
		return errors.New("invalid RETRY in SOA RDATA")
	}
	if r.exp, err = ParseUint(rdata[5].Text, true); err != nil {
		return errors.New("invalid EXPIRE in SOA RDATA")
	}
	if r.min, err = ParseUint(rdata[6].Text, true); err != nil {
		return errors.New("invalid MINIMUM in SOA RDATA")
	}
	return d.emit(r)
}

func (d *Driver) handleNS(owner SanitizedString, ttl uint32, rdata []Token) error {
	if len(rdata) != 1 {
		return errors.New("wrong number of tokens in NS RDATA")
	}
	ns, err := QualifyDomain(rdata[0].Text, d.curOrigin)
	if err != nil {
		return fmt.Errorf("choked on domain name in NS RDATA: %w", err)
	}
	return d.emit(&Rns{dom: owner, ns: ns, ttl: ttl})
}

func (d *Driver) handleMX(owner SanitizedString, ttl uint32, rdata []Token) error {
	if len(rdata) != 2 {
		return errors.New("wrong number of tokens in MX RDATA")
	}
	dist, err := ParseUint(rdata[0].Text, false)
	if err != nil || dist > 65535 {
		return errors.New("invalid priority in MX RDATA")
	}
	mx, err := QualifyDomain(rdata[1].Text, d.curOrigin)
	if err != nil {
		return fmt.Errorf("choked on domain name in MX RDATA: %w", err)
	}
	return d.emit(&Rmx{dom: owner, mx: mx, dist: dist, ttl: ttl})
}

func (d *Driver) handleA(owner SanitizedString, ttl uint32, rdata []Token) error {
	if len(rdata) != 1 {
		return errors.New("wrong number of tokens in A RDATA")
	}
	ip, err := SanitizeIP(rdata[0].Text)
	if err != nil {
		return fmt.Errorf("invalid IP address in A RDATA: %w", err)
	}
	return d.emit(&Raddr{dom: owner, ip: ip, ttl: ttl})
}

func (d *Driver) handleCNAME(owner SanitizedString, ttl uint32, rdata []Token) error {
	if len(rdata) != 1 {
		return errors.New("wrong number of tokens in CNAME RDATA")
	}
	cname, err := QualifyDomain(rdata[0].Text, d.curOrigin)
	if err != nil {
		return fmt.Errorf("choked on domain name in CNAME RDATA: %w", err)
	}
	return d.emit(&Rcname{dom: owner, cname: cname, ttl: ttl})
}

func (d *Driver) handlePTR(owner SanitizedString, ttl uint32, rdata []Token) error {
	if len(rdata) != 1 {
		return errors.New("wrong number of tokens in PTR RDATA")
	}
	host, err := QualifyDomain(rdata[0].Text, d.curOrigin)
	if err != nil {
		return fmt.Errorf("choked on domain name in PTR RDATA: %w", err)
	}
	return d.emit(&Rptr{dom: owner, host: host, ttl: ttl})
}

func (d *Driver) handleTXT(owner SanitizedString, ttl uint32, rdata []Token) error {
	if len(rdata) < 1 {
		return errors.New("too few tokens in TXT RDATA")
	}
	r := &Rtxt{dom: owner, ttl: ttl}
	for _, tok := range rdata {
		s, err := Sanitize(tok.Text)
		if err != nil {
			return fmt.Errorf("choked while sanitizing TXT RDATA: %w", err)
		}
		r.txt = append(r.txt, s)
	}
	return d.emit(r)
}

func (d *Driver) handleSRV(owner SanitizedString, ttl uint32, rdata []Token) error {
	if len(rdata) != 4 {
		return errors.New("wrong number of tokens in SRV RDATA")
	}
	pri, err := ParseUint(rdata[0].Text, false)
	if err != nil || pri > 65535 {
		return errors.New("invalid priority in SRV RDATA")
	}
	weight, err := ParseUint(rdata[1].Text, false)
	if err != nil || weight > 65535 {
		return errors.New("invalid weight in SRV RDATA")
	}
	port, err := ParseUint(rdata[2].Text, false)
	if err != nil || port > 65535 {
		return errors.New("invalid port in SRV RDATA")
	}
	target, err := QualifyDomain(rdata[3].Text, d.curOrigin)
	if err != nil {
		return fmt.Errorf("choked on domain name in SRV RDATA: %w", err)
	}
	return d.emit(&Rsrv{
		dom:    owner,
		target: target,
		pri:    uint16(pri),
		weight: uint16(weight),
		port:   uint16(port),
		ttl:    ttl,
	})
}

func (d *Driver) emit(r Record) error {
	b, err := r.MarshalText()
	if err != nil {
		return err
	}
	if _, err := d.w.Write(b); err != nil {
		return err
	}
	_, err = d.w.Write([]byte("\n"))
	return err
}
