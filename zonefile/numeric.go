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

import "fmt"

// duration unit multipliers, in seconds
const (
	secsPerMinute = 60
	secsPerHour   = 60 * 60
	secsPerDay    = 86400
	secsPerWeek   = 86400 * 7
)

// ParseUint parses an unsigned decimal number. With durations set it
// also accepts BIND compound duration syntax such as "2w1d2h5m6s",
// where each <digits><unit> run is accumulated into a total of seconds.
// The accumulation deliberately wraps around on uint32 overflow, like
// BIND's own duration parser; callers that care must bound-check the
// result themselves.
func ParseUint(b []byte, durations bool) (uint32, error) {
	if len(b) == 0 {
		return 0, ErrBadNumber
	}
	var total, part uint32
	inPart := false
	inDuration := false
	for _, c := range b {
		if c >= '0' && c <= '9' {
			inPart = true
			part = part*10 + uint32(c-'0')
			continue
		}
		if !durations || !inPart {
			return 0, ErrBadNumber
		}
		inDuration = true
		switch c {
		case 'w', 'W':
			total += part * secsPerWeek
		case 'd', 'D':
			total += part * secsPerDay
		case 'h', 'H':
			total += part * secsPerHour
		case 'm', 'M':
			total += part * secsPerMinute
		case 's', 'S':
			total += part
		default:
			return 0, ErrBadNumber
		}
		part = 0
		inPart = false
	}
	if inDuration && inPart {
		return 0, fmt.Errorf("unfinished duration string %q: %w", b, ErrBadNumber)
	}
	if !inDuration {
		total = part
	}
	return total, nil
}
