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
	"encoding"
	"fmt"
)

// DefaultTTL is the TTL in effect before any $TTL directive.
const DefaultTTL = 86400

// MaxTTL is the largest TTL accepted from $TTL directives and records.
const MaxTTL = 2147483646

// Record is the interface implemented by all output record types; each
// marshals to exactly one output line, without the trailing newline.
type Record interface {
	encoding.TextMarshaler
}

// output line prefixes
const (
	prefixSOA   = "Z"
	prefixNS    = "&"
	prefixAddr  = "+"
	prefixMX    = "@"
	prefixCName = "C"
	prefixPTR   = "^"
	prefixAUX   = ":"
)

// WireType represents DNS wire types for records emitted in the
// generic ":" form.
type WireType uint16

const (
	// TypeTXT represents TXT record type
	TypeTXT WireType = 16
	// TypeSRV represents SRV record type
	TypeSRV WireType = 33
)

// SEP is the output field separator.
var SEP = []byte(":")

// Rsoa is "Z" - SOA record.
type Rsoa struct {
	dom   SanitizedString // the owner
	mname SanitizedString // the primary name server
	rname SanitizedString // the contact address
	ser   uint32          // the serial number
	ref   uint32          // the refresh time
	ret   uint32          // the retry time
	exp   uint32          // the expire time
	min   uint32          // the minimum time
}

// Rns is "&" - NS record.
type Rns struct {
	dom SanitizedString
	ns  SanitizedString // the name server
	ttl uint32
}

// Rmx is "@" - MX record.
type Rmx struct {
	dom  SanitizedString
	mx   SanitizedString // the mail exchange
	dist uint32          // the "distance" (preference)
	ttl  uint32
}

// Raddr is "+" - A record.
type Raddr struct {
	dom SanitizedString
	ip  []byte // sanitized dotted-decimal address
	ttl uint32
}

// Rcname is "C" - CNAME record.
type Rcname struct {
	dom   SanitizedString
	cname SanitizedString // the canonical name
	ttl   uint32
}

// Rptr is "^" - PTR record.
type Rptr struct {
	dom  SanitizedString
	host SanitizedString // the pointed-to host
	ttl  uint32
}

// Rtxt is ":...:16:" - TXT record; one length-prefixed run per source
// text token.
type Rtxt struct {
	dom SanitizedString
	txt []SanitizedString
	ttl uint32
}

// Rsrv is ":...:33:" - SRV record.
type Rsrv struct {
	dom    SanitizedString
	target SanitizedString
	pri    uint16
	weight uint16
	port   uint16
	ttl    uint32
}

// putoctal writes one byte as a 3-digit zero-padded octal escape, the
// form length prefixes and binary rdata bytes take in the output.
func putoctal(w *bytes.Buffer, b byte) {
	fmt.Fprintf(w, "\\%03o", b)
}

// MarshalText implements encoding.TextMarshaler
func (r *Rsoa) MarshalText() (text []byte, err error) {
	w := new(bytes.Buffer)
	w.WriteString(prefixSOA)
	w.Write(r.dom.Text)
	w.Write(SEP)
	w.Write(r.mname.Text)
	w.Write(SEP)
	w.Write(r.rname.Text)
	w.Write(SEP)
	fmt.Fprintf(w, "%d", r.ser)
	w.Write(SEP)
	fmt.Fprintf(w, "%d", r.ref)
	w.Write(SEP)
	fmt.Fprintf(w, "%d", r.ret)
	w.Write(SEP)
	fmt.Fprintf(w, "%d", r.exp)
	w.Write(SEP)
	fmt.Fprintf(w, "%d", r.min)
	return w.Bytes(), nil
}

// MarshalText implements encoding.TextMarshaler
func (r *Rns) MarshalText() (text []byte, err error) {
	w := new(bytes.Buffer)
	w.WriteString(prefixNS)
	w.Write(r.dom.Text)
	w.Write(SEP)
	// no ip address
	w.Write(SEP)
	w.Write(r.ns.Text)
	w.Write(SEP)
	fmt.Fprintf(w, "%d", r.ttl)
	return w.Bytes(), nil
}

// MarshalText implements encoding.TextMarshaler
func (r *Rmx) MarshalText() (text []byte, err error) {
	w := new(bytes.Buffer)
	w.WriteString(prefixMX)
	w.Write(r.dom.Text)
	w.Write(SEP)
	// no ip address
	w.Write(SEP)
	w.Write(r.mx.Text)
	w.Write(SEP)
	fmt.Fprintf(w, "%d", r.dist)
	w.Write(SEP)
	fmt.Fprintf(w, "%d", r.ttl)
	return w.Bytes(), nil
}

// MarshalText implements encoding.TextMarshaler
func (r *Raddr) MarshalText() (text []byte, err error) {
	w := new(bytes.Buffer)
	w.WriteString(prefixAddr)
	w.Write(r.dom.Text)
	w.Write(SEP)
	w.Write(r.ip)
	w.Write(SEP)
	fmt.Fprintf(w, "%d", r.ttl)
	return w.Bytes(), nil
}

// MarshalText implements encoding.TextMarshaler
func (r *Rcname) MarshalText() (text []byte, err error) {
	w := new(bytes.Buffer)
	w.WriteString(prefixCName)
	w.Write(r.dom.Text)
	w.Write(SEP)
	w.Write(r.cname.Text)
	w.Write(SEP)
	fmt.Fprintf(w, "%d", r.ttl)
	return w.Bytes(), nil
}

// MarshalText implements encoding.TextMarshaler
func (r *Rptr) MarshalText() (text []byte, err error) {
	w := new(bytes.Buffer)
	w.WriteString(prefixPTR)
	w.Write(r.dom.Text)
	w.Write(SEP)
	w.Write(r.host.Text)
	w.Write(SEP)
	fmt.Fprintf(w, "%d", r.ttl)
	return w.Bytes(), nil
}

// MarshalText implements encoding.TextMarshaler
func (r *Rtxt) MarshalText() (text []byte, err error) {
	w := new(bytes.Buffer)
	w.WriteString(prefixAUX)
	w.Write(r.dom.Text)
	w.Write(SEP)
	fmt.Fprintf(w, "%d", TypeTXT)
	w.Write(SEP)
	for _, s := range r.txt {
		putoctal(w, byte(s.Len))
		w.Write(s.Text)
	}
	w.Write(SEP)
	fmt.Fprintf(w, "%d", r.ttl)
	return w.Bytes(), nil
}

// MarshalText implements encoding.TextMarshaler
func (r *Rsrv) MarshalText() (text []byte, err error) {
	w := new(bytes.Buffer)
	w.WriteString(prefixAUX)
	w.Write(r.dom.Text)
	w.Write(SEP)
	fmt.Fprintf(w, "%d", TypeSRV)
	w.Write(SEP)
	putoctal(w, byte(r.pri>>8))
	putoctal(w, byte(r.pri))
	putoctal(w, byte(r.weight>>8))
	putoctal(w, byte(r.weight))
	putoctal(w, byte(r.port>>8))
	putoctal(w, byte(r.port))
	putoctal(w, byte(r.target.Len))
	w.Write(r.target.Text)
	w.Write(SEP)
	fmt.Fprintf(w, "%d", r.ttl)
	return w.Bytes(), nil
}
