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

package microservice

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/konveyor/claim/common"
)

const (
	// DefaultDockerfileName is the dockerfile used when a build does not name one
	DefaultDockerfileName = "Dockerfile"
)

// Build describes how the image of a container gets produced
type Build struct {
	// Context is the build context. It is relative to the project base directory for local builds.
	Context string `yaml:"context,omitempty" json:"context,omitempty"`
	// Dockerfile is the dockerfile path relative to the context
	Dockerfile string `yaml:"dockerfile" json:"dockerfile"`
	// Remote is true when the context is a VCS or URL reference
	Remote bool `yaml:"remote,omitempty" json:"remote,omitempty"`
	// Absolute is true when the context is an absolute path outside of the repository
	Absolute bool `yaml:"absolute,omitempty" json:"absolute,omitempty"`
}

// NewBuild creates a build, defaulting the dockerfile name
func NewBuild(context, dockerfile string, remote, absolute bool) Build {
	if dockerfile == "" {
		dockerfile = DefaultDockerfileName
	}
	return Build{Context: context, Dockerfile: dockerfile, Remote: remote, Absolute: absolute}
}

// IsLocal returns true if the dockerfile of the build can be found inside the repository
func (b Build) IsLocal() bool {
	return !b.Remote && !b.Absolute && !filepath.IsAbs(b.Dockerfile)
}

// DockerfilePath returns the dockerfile path relative to the project base directory.
// The second return value is false for builds which are not local.
func (b Build) DockerfilePath() (string, bool) {
	if !b.IsLocal() {
		return "", false
	}
	return filepath.Join(b.Context, b.Dockerfile), true
}

// Container is a single resolved compose service
type Container struct {
	// Image is the image name without tag or digest. Empty if the service has no image.
	Image string `yaml:"image,omitempty" json:"image,omitempty"`
	// Build is nil if the service is not built
	Build *Build `yaml:"build,omitempty" json:"build,omitempty"`
	// ContainerName falls back to the compose service key
	ContainerName string `yaml:"containerName" json:"containerName"`
}

// SortKey is the name used to order containers before matching
func (c Container) SortKey() string {
	if c.Image != "" {
		return c.Image
	}
	return c.ContainerName
}

// Microservice is a container judged to be built from code owned by the repository
type Microservice struct {
	Name       string          `yaml:"name" json:"name"`
	Build      Build           `yaml:"build" json:"build"`
	Confidence ConfidenceLevel `yaml:"confidence" json:"confidence"`
}

// ConfidenceLevel grades the evidence behind a microservice detection.
// Levels are ordinal: a greater value means stronger evidence.
type ConfidenceLevel int

const (
	// BuildNameMatched means a dockerfile was matched using the container name
	BuildNameMatched ConfidenceLevel = iota + 1
	// BuildImageMatched means a dockerfile was matched using the image name
	BuildImageMatched
	// BuildUnverified means the service declares a local build whose dockerfile could not be checked
	BuildUnverified
	// BuildVerified means the declared dockerfile exists and copies code
	BuildVerified
)

var confidenceLevelNames = map[ConfidenceLevel]string{
	BuildNameMatched:  "BUILD_NAME_MATCHED",
	BuildImageMatched: "BUILD_IMAGE_MATCHED",
	BuildUnverified:   "BUILD_UNVERIFIED",
	BuildVerified:     "BUILD_VERIFIED",
}

// ConfidenceLevels returns all the levels from strongest to weakest
func ConfidenceLevels() []ConfidenceLevel {
	return []ConfidenceLevel{BuildVerified, BuildUnverified, BuildImageMatched, BuildNameMatched}
}

func (c ConfidenceLevel) String() string {
	if name, ok := confidenceLevelNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ConfidenceLevel(%d)", int(c))
}

// AtLeast returns true if the level is as strong as the floor
func (c ConfidenceLevel) AtLeast(floor ConfidenceLevel) bool {
	return c >= floor
}

// MarshalText implements encoding.TextMarshaler
func (c ConfidenceLevel) MarshalText() ([]byte, error) {
	if _, ok := confidenceLevelNames[c]; !ok {
		return nil, fmt.Errorf("invalid confidence level %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *ConfidenceLevel) UnmarshalText(text []byte) error {
	level, err := ParseConfidenceLevel(string(text))
	if err != nil {
		return err
	}
	*c = level
	return nil
}

// ParseConfidenceLevel parses the name of a confidence level.
// Matching is case insensitive and accepts '-' in place of '_'.
func ParseConfidenceLevel(name string) (ConfidenceLevel, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
	names := []string{}
	for _, level := range ConfidenceLevels() {
		if level.String() == normalized {
			return level, nil
		}
		names = append(names, level.String())
	}
	closest := common.GetClosestMatchingString(names, strings.ToLower(normalized))
	return 0, fmt.Errorf("unknown confidence level '%s'. Did you mean '%s'? Valid levels are %s", name, closest, strings.Join(names, ", "))
}
