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


package info

import (
	"runtime"

	semver "github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"
)

var (
	// Update this whenever making a new release.
	// The version is of the format Major.Minor.Patch[-Prerelease][+BuildMetadata]
	// For more details about semver 2 see https://semver.org/
	version = "v0.1.0"

	// metadata is extra build time data
	buildmetadata = ""
	// gitCommit is the git sha1
	gitCommit = ""
	// gitTreeState is the state of the git tree
	gitTreeState = ""
)

// GetVersion returns the semver string of the version
func GetVersion() string {
	if buildmetadata == "" {
		return version
	}
	return version + "+" + buildmetadata
}

// GetVersionInfo returns version info
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      GetVersion(),
		GitCommit:    gitCommit,
		GitTreeState: gitTreeState,
		GoVersion:    runtime.Version(),
		Platform:     runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// VersionInfo describes the compile time information.
type VersionInfo struct {
	// Version is the current semver.
	Version string `yaml:"version,omitempty" json:"version,omitempty"`
	// GitCommit is the git sha1.
	GitCommit string `yaml:"gitCommit,omitempty" json:"gitCommit,omitempty"`
	// GitTreeState is the state of the git tree.
	GitTreeState string `yaml:"gitTreeState,omitempty" json:"gitTreeState,omitempty"`
	// GoVersion is the version of the Go compiler used.
	GoVersion string `yaml:"goVersion,omitempty" json:"goVersion,omitempty"`
	// Platform gives the OS and ISA the app is running on
	Platform string `yaml:"platform,omitempty" json:"platform,omitempty"`
}

// CompareVersion compares the version of a file written by the app with the version of the binary.
// It returns a negative number if the file is older, a positive one if it is newer and 0 if they are the same.
func CompareVersion(fileVersion string) (int, error) {
	binaryversion, err := semver.NewVersion(GetVersion())
	if err != nil {
		return 0, err
	}
	objversion, err := semver.NewVersion(fileVersion)
	if err != nil {
		return 0, err
	}
	return objversion.Compare(binaryversion), nil
}

// IsSameVersion checks if two versions are same and logs a message if the version is newer or older
func (v *VersionInfo) IsSameVersion() bool {
	compare, err := CompareVersion(v.Version)
	if err != nil {
		logrus.Warnf("Unable to compare the version '%s' with the binary version %s . Error: %q", v.Version, GetVersion(), err)
		return false
	}
	switch {
	case compare > 0:
		logrus.Warnf("The file version (%s) is newer than the binary version (%s).", v.Version, GetVersion())
	case compare < 0:
		logrus.Warnf("The file version (%s) is older than the binary version (%s).", v.Version, GetVersion())
	}
	return compare == 0
}
