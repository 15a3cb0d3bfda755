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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testZone = `$TTL 3600
@	IN	SOA	ns1 hostmaster ( 1 7200 3600 1209600 3600 )
	IN	NS	ns1
ns1	IN	A	192.0.2.1
`

const testData = `Zexample.com.:ns1.example.com.:hostmaster.example.com.:1:7200:3600:1209600:3600
&example.com.::ns1.example.com.:3600
+ns1.example.com.:192.0.2.1:3600
`

func TestRun(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "data")
	tmp := filepath.Join(dir, "data.tmp")

	err := run("example.com", out, tmp, strings.NewReader(testZone))
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, testData, string(got))

	// the temp file was renamed away
	_, err = os.Stat(tmp)
	require.True(t, os.IsNotExist(err))
}

func TestRunBadZoneCleansUp(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "data")
	tmp := filepath.Join(dir, "data.tmp")

	err := run("example.com", out, tmp, strings.NewReader("www A 999.0.2.1\n"))
	require.Error(t, err)

	_, err = os.Stat(tmp)
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(out)
	require.True(t, os.IsNotExist(err))
}

func TestRunTempFileExists(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "data")
	tmp := filepath.Join(dir, "data.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("other run in progress"), 0o644))

	err := run("example.com", out, tmp, strings.NewReader(testZone))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unable to create temp file")

	// the pre-existing file belongs to someone else and is left alone
	got, err := os.ReadFile(tmp)
	require.NoError(t, err)
	require.Equal(t, "other run in progress", string(got))
}

func TestRunBadOrigin(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "data")
	tmp := filepath.Join(dir, "data.tmp")

	err := run("bad..origin", out, tmp, strings.NewReader(testZone))
	require.Error(t, err)

	// failed before any file was created
	_, err = os.Stat(tmp)
	require.True(t, os.IsNotExist(err))
}
