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
	"fmt"
)

// ErrBadNumber is returned by ParseUint for anything that is not an
// unsigned decimal number (or duration, in duration mode). It is a
// sentinel because ParseUint is also used to probe whether a token
// looks like a TTL, and in that use the error is never shown.
var ErrBadNumber = errors.New("not an unsigned number")

// ErrBadIP is returned by SanitizeIP for malformed dotted-decimal input.
var ErrBadIP = errors.New("invalid IPv4 address")

// ErrStringTooLong is returned when sanitized output would exceed the
// domain-label budget of MaxDomainLen logical characters.
var ErrStringTooLong = errors.New("string too long")

// EntryError wraps a failure with the line number on which the
// offending entry started.
type EntryError struct {
	Line int
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *EntryError) Unwrap() error {
	return e.Err
}
