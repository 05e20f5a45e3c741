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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfidenceLevelOrder(t *testing.T) {
	levels := ConfidenceLevels()
	require.Len(t, levels, 4)
	for i := 1; i < len(levels); i++ {
		assert.True(t, levels[i-1] > levels[i], "%s should be stronger than %s", levels[i-1], levels[i])
	}
	assert.True(t, BuildVerified.AtLeast(BuildNameMatched))
	assert.True(t, BuildImageMatched.AtLeast(BuildImageMatched))
	assert.False(t, BuildNameMatched.AtLeast(BuildUnverified))
	assert.Equal(t, "ConfidenceLevel(9)", ConfidenceLevel(9).String())
}

func TestParseConfidenceLevel(t *testing.T) {
	testcases := []struct {
		input string
		want  ConfidenceLevel
	}{
		{input: "BUILD_VERIFIED", want: BuildVerified},
		{input: "build-unverified", want: BuildUnverified},
		{input: " Build_Image_Matched ", want: BuildImageMatched},
		{input: "build_name_matched", want: BuildNameMatched},
	}
	for _, tc := range testcases {
		got, err := ParseConfidenceLevel(tc.input)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
	_, err := ParseConfidenceLevel("build-verifed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Did you mean 'BUILD_VERIFIED'")
}

func TestConfidenceLevelEncoding(t *testing.T) {
	ms := Microservice{Name: "api", Build: NewBuild("api", "", false, false), Confidence: BuildImageMatched}
	yamlBytes, err := yaml.Marshal(ms)
	require.NoError(t, err)
	assert.Contains(t, string(yamlBytes), "confidence: BUILD_IMAGE_MATCHED")
	jsonBytes, err := json.Marshal(ms)
	require.NoError(t, err)
	assert.Contains(t, string(jsonBytes), `"confidence":"BUILD_IMAGE_MATCHED"`)

	decoded := Microservice{}
	require.NoError(t, yaml.Unmarshal([]byte("name: web\nbuild:\n  context: web\n  dockerfile: Dockerfile\nconfidence: build_verified\n"), &decoded))
	assert.Equal(t, BuildVerified, decoded.Confidence)
	assert.Error(t, yaml.Unmarshal([]byte("confidence: sure\n"), &decoded))
	_, err = json.Marshal(Microservice{Name: "broken"})
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	local := NewBuild("services/api", "", false, false)
	assert.Equal(t, DefaultDockerfileName, local.Dockerfile)
	path, ok := local.DockerfilePath()
	assert.True(t, ok)
	assert.Equal(t, "services/api/Dockerfile", path)

	custom := NewBuild(".", "docker/Dockerfile.dev", false, false)
	path, ok = custom.DockerfilePath()
	assert.True(t, ok)
	assert.Equal(t, "docker/Dockerfile.dev", path)

	for _, b := range []Build{
		NewBuild("https://github.com/acme/api.git", "", true, false),
		NewBuild("/opt/api", "", false, true),
		NewBuild("api", "/abs/Dockerfile", false, false),
	} {
		_, ok := b.DockerfilePath()
		assert.False(t, ok, "%+v should not be local", b)
	}
}

func TestContainerSortKey(t *testing.T) {
	assert.Equal(t, "acme/api", Container{Image: "acme/api", ContainerName: "api"}.SortKey())
	assert.Equal(t, "api", Container{ContainerName: "api"}.SortKey())
}
