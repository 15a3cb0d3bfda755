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
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/zonetools/bind2tiny/zonefile"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Convert a DNS zone in BIND/RFC 1035 format, read from stdin, to tinydns data format.\n")
		fmt.Fprintf(os.Stderr, "The result is written to a temp file and atomically renamed over the output file.\n")
		fmt.Fprintf(os.Stderr, "Usage: %s <origin> <output file> <temp file>\n", os.Args[0])
	}
	flag.Parse()
	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(1)
	}
	if err := run(flag.Arg(0), flag.Arg(1), flag.Arg(2), os.Stdin); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// run performs one conversion. The temp file is created exclusively so
// concurrent runs cannot clobber each other; on any failure it is
// removed, so a half-written result is never visible at the output
// path.
func run(origin, outPath, tmpPath string, in io.Reader) error {
	d, err := zonefile.NewDriver(origin)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("unable to create temp file: %w", err)
	}
	discard := func() {
		if cerr := f.Close(); cerr != nil {
			log.Warningf("unable to close temp file: %v", cerr)
		}
		if rerr := os.Remove(tmpPath); rerr != nil {
			log.Warningf("unable to unlink temp file: %v", rerr)
		}
	}

	w := bufio.NewWriter(f)
	if err := d.Run(in, w); err != nil {
		discard()
		return err
	}
	if err := w.Flush(); err != nil {
		discard()
		return fmt.Errorf("unable to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		if rerr := os.Remove(tmpPath); rerr != nil {
			log.Warningf("unable to unlink temp file: %v", rerr)
		}
		return fmt.Errorf("unable to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		if rerr := os.Remove(tmpPath); rerr != nil {
			log.Warningf("unable to unlink temp file: %v", rerr)
		}
		return fmt.Errorf("unable to rename temp file: %w", err)
	}
	return nil
}
