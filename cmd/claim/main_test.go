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


package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/konveyor/claim/lib"
	"github.com/konveyor/claim/types/microservice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCommand(t *testing.T) {
	root := t.TempDir()
	for path, content := range map[string]string{
		"shop/docker-compose.yml": "services:\n  api:\n    build: ./api\n  redis:\n    image: redis:6\n",
		"shop/api/Dockerfile":     "FROM python:3\nCOPY . .\n",
	} {
		fullPath := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0644))
	}
	output := filepath.Join(root, "out", "report.json")

	rootCmd := getRootCommand()
	rootCmd.SetArgs([]string{"detect", "--source", filepath.Join(root, "shop"), "--user", "acme", "--repo", "shop", "--confidence", "build-verified", "--output", output})
	require.NoError(t, rootCmd.Execute())

	file, err := lib.ReadReportFile(output)
	require.NoError(t, err)
	require.Len(t, file.Reports, 1)
	report := file.Reports[0]
	assert.Equal(t, lib.Analyzed, report.Outcome)
	assert.Equal(t, "acme", report.User)
	require.Len(t, report.Microservices, 1)
	assert.Equal(t, "api", report.Microservices[0].Name)
	assert.Equal(t, microservice.BuildVerified, report.Microservices[0].Confidence)
}
