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

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/miekg/dns"
	log "github.com/sirupsen/logrus"
)

// bind2tiny-check re-parses a BIND zone with an independent parser and
// prints per-type record counts, as a sanity check on a conversion.
// Note that miekg/dns is intentionally stricter than bind2tiny's own
// tokenizer, so counts are a cross-check and not an exact contract.

func countRecords(r io.Reader, origin string) (map[string]int, int, error) {
	zp := dns.NewZoneParser(r, origin, "")
	counts := map[string]int{}
	total := 0
	for rr, ok := zp.Next(); ok; rr, ok = zp.Next() {
		counts[dns.TypeToString[rr.Header().Rrtype]]++
		total++
	}
	if err := zp.Err(); err != nil {
		return counts, total, err
	}
	return counts, total, nil
}

func main() {
	rawOrigin := flag.String("origin", "", "Zone's origin for resolving relative names")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Parse a BIND/RFC 1035 zone from stdin with an independent parser and print record counts.\n")
		fmt.Fprintf(os.Stderr, "Usage: %s -origin example.com < /tmp/zone.bind\n", os.Args[0])
	}
	flag.Parse()
	if *rawOrigin == "" {
		log.Fatal("You need to specify 'origin'")
	}
	counts, total, err := countRecords(os.Stdin, dns.Fqdn(*rawOrigin))
	if err != nil {
		log.Fatalf("Failed parsing: %v", err)
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Printf("%-8s %d\n", t, counts[t])
	}
	fmt.Printf("total    %d\n", total)
}
