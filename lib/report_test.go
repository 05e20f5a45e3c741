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


package lib

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"
	"time"

	"github.com/konveyor/claim/common/vcs"
	"github.com/konveyor/claim/types"
	"github.com/konveyor/claim/types/info"
	"github.com/konveyor/claim/types/microservice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReports() []Report {
	return []Report{
		{
			Source:      "/repos/shop",
			Commit:      &vcs.CommitInfo{Hash: "0123abcd", When: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), Author: "dev", Summary: "add the api"},
			User:        "acme",
			Repo:        "shop",
			ComposeFile: "docker-compose.yml",
			Outcome:     Analyzed,
			Containers: []microservice.Container{
				{Build: &microservice.Build{Context: "api", Dockerfile: "Dockerfile"}, ContainerName: "api"},
				{Image: "redis", ContainerName: "redis"},
			},
			Microservices: []microservice.Microservice{
				{Name: "api", Build: microservice.Build{Context: "api", Dockerfile: "Dockerfile"}, Confidence: microservice.BuildVerified},
			},
		},
		{Source: "/repos/empty", Outcome: NoCompose},
	}
}

func TestReportFileRoundTrip(t *testing.T) {
	for _, name := range []string{"report.yaml", "report.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", name)
			require.NoError(t, WriteReportsToFile(path, "", sampleReports()))
			file, err := ReadReportFile(path)
			require.NoError(t, err)
			assert.Equal(t, types.APIVersion, file.APIVersion)
			assert.Equal(t, string(ReportKind), file.Kind)
			assert.Equal(t, info.GetVersion(), file.Version)
			assert.Equal(t, sampleReports(), file.Reports)
		})
	}
}

func TestWriteReportsCSV(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WriteReports(&b, CSVFormat, sampleReports()))
	rows, err := csv.NewReader(&b).ReadAll()
	require.NoError(t, err)
	want := [][]string{
		csvHeader,
		{"/repos/shop", "0123abcd", "docker-compose.yml", "Analyzed", "api", "api", "Dockerfile", "BUILD_VERIFIED"},
		{"/repos/empty", "", "", "NoCompose", "", "", "", ""},
	}
	assert.Equal(t, want, rows)
}

func TestReportFormats(t *testing.T) {
	assert.Equal(t, JSONFormat, FormatFromPath("a/b.JSON"))
	assert.Equal(t, CSVFormat, FormatFromPath("b.csv"))
	assert.Equal(t, YamlFormat, FormatFromPath("b.yml"))
	assert.Equal(t, YamlFormat, FormatFromPath("b"))
	var b bytes.Buffer
	assert.Error(t, WriteReports(&b, "xml", nil))
}

func TestReadReportFileErrors(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"plan.yaml":   "apiVersion: example.io/v1\nkind: Plan\n",
		"broken.json": "{",
	})
	_, err := ReadReportFile(filepath.Join(dir, "plan.yaml"))
	assert.Error(t, err)
	_, err = ReadReportFile(filepath.Join(dir, "broken.json"))
	assert.Error(t, err)
	_, err = ReadReportFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
	_, err = ReadReportFile(filepath.Join(dir, "report.csv"))
	assert.Error(t, err)
}
