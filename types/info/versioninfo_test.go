/*
 *  Copyright IBM Corporation 2024
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 */


package info_test

import (
	"testing"

	"github.com/konveyor/claim/types/info"
)

func TestGetVersionInfo(t *testing.T) {
	vinfo := info.GetVersionInfo()
	if !vinfo.IsSameVersion() {
		t.Fatal("Versions don't match. Expected:", info.GetVersion(), "Actual:", vinfo.Version)
	}
	if vinfo.GoVersion == "" || vinfo.Platform == "" {
		t.Fatalf("expected the go version and platform to be filled. Actual: %+v", vinfo)
	}
}

func TestIsSameVersion(t *testing.T) {
	testcases := []struct {
		name    string
		version string
		want    bool
	}{
		{name: "same version", version: info.GetVersion(), want: true},
		{name: "older version", version: "0.0.0", want: false},
		{name: "newer version", version: "100.0.0", want: false},
		{name: "invalid version", version: "foobar", want: false},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			vinfo := info.GetVersionInfo()
			vinfo.Version = tc.version
			if got := vinfo.IsSameVersion(); got != tc.want {
				t.Fatalf("IsSameVersion() = %v for the file version %s and the binary version %s. Expected: %v", got, tc.version, info.GetVersion(), tc.want)
			}
		})
	}
}

func TestCompareVersion(t *testing.T) {
	if c, err := info.CompareVersion("0.0.1"); err != nil || c >= 0 {
		t.Fatalf("expected an older version. Actual: %d %v", c, err)
	}
	if c, err := info.CompareVersion("v100.0.0"); err != nil || c <= 0 {
		t.Fatalf("expected a newer version. Actual: %d %v", c, err)
	}
	if _, err := info.CompareVersion("not-a-version"); err == nil {
		t.Fatal("expected an error for an invalid version")
	}
}
