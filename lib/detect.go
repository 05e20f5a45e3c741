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
	"path/filepath"
	"sort"

	"github.com/konveyor/claim/common"
	"github.com/konveyor/claim/common/vcs"
	"github.com/konveyor/claim/detector/classifier"
	"github.com/konveyor/claim/detector/compose"
	"github.com/konveyor/claim/detector/dockerfile"
	"github.com/konveyor/claim/types/microservice"
	"github.com/sirupsen/logrus"
)

// Outcome is the result of analysing one snapshot of a repository
type Outcome string

const (
	// NoCompose means the snapshot has no acceptable compose file
	NoCompose Outcome = "NoCompose"
	// ResolutionFailed means the compose file could not be parsed, interpolated, included or extended
	ResolutionFailed Outcome = "ResolutionFailed"
	// NormalizationFailed means a service has an unexpected image, build or container_name
	NormalizationFailed Outcome = "NormalizationFailed"
	// ClassificationFailed means a dockerfile declared by a service could not be parsed
	ClassificationFailed Outcome = "ClassificationFailed"
	// Analyzed means the microservices of the snapshot were determined
	Analyzed Outcome = "Analyzed"
)

// DetectOptions configures a detection
type DetectOptions struct {
	// Floor is the weakest confidence reported
	Floor microservice.ConfidenceLevel
	// EnvFiles are loaded relative to the directory of every compose file. Defaults to .env
	EnvFiles []string
	// Verdicts is an optional cache of dockerfile verdicts shared between detections
	Verdicts *dockerfile.VerdictCache
}

// Report is the result of a detection on one snapshot
type Report struct {
	Source        string                      `yaml:"source,omitempty" json:"source,omitempty"`
	Commit        *vcs.CommitInfo             `yaml:"commit,omitempty" json:"commit,omitempty"`
	User          string                      `yaml:"user,omitempty" json:"user,omitempty"`
	Repo          string                      `yaml:"repo,omitempty" json:"repo,omitempty"`
	ComposeFile   string                      `yaml:"composeFile,omitempty" json:"composeFile,omitempty"`
	Outcome       Outcome                     `yaml:"outcome" json:"outcome"`
	Error         string                      `yaml:"error,omitempty" json:"error,omitempty"`
	Containers    []microservice.Container    `yaml:"containers,omitempty" json:"containers,omitempty"`
	Microservices []microservice.Microservice `yaml:"microservices,omitempty" json:"microservices,omitempty"`
}

// Detect selects the compose file of the repository, resolves its services and determines which of them are microservices.
// Failures of the analysis are reported in the outcome of the report. An error is returned only if repoPath is not a directory.
func Detect(repoPath, user, repo string, opts DetectOptions) (Report, error) {
	report := Report{Source: repoPath, User: user, Repo: repo}
	root, err := CheckSourceDir(repoPath)
	if err != nil {
		return report, err
	}
	composeFile, ok := compose.Choose(root)
	if !ok {
		logrus.Infof("No acceptable compose file was found in %s", root)
		report.Outcome = NoCompose
		return report, nil
	}
	report.ComposeFile = filepath.ToSlash(composeFile)
	logrus.Debugf("Using the compose file %s", composeFile)
	services, err := compose.CollectServices(filepath.Join(root, composeFile), "", opts.EnvFiles)
	if err != nil {
		logrus.Errorf("Failed to resolve the compose file %s . Error: %q", composeFile, err)
		report.Outcome = ResolutionFailed
		report.Error = err.Error()
		return report, nil
	}
	containers, err := compose.Normalize(services, root)
	if err != nil {
		logrus.Errorf("Failed to normalize the services of the compose file %s . Error: %q", composeFile, err)
		report.Outcome = NormalizationFailed
		report.Error = err.Error()
		return report, nil
	}
	report.Containers = containers
	pool := classifier.NewDockerfilePool(root)
	microservices, err := classifier.Determine(containers, pool, classifier.Options{
		User:    user,
		Repo:    repo,
		Floor:   opts.Floor,
		Checker: opts.Verdicts,
	})
	if err != nil {
		logrus.Errorf("Failed to determine the microservices of %s . Error: %q", root, err)
		report.Outcome = ClassificationFailed
		report.Error = err.Error()
		return report, nil
	}
	report.Microservices = dedupeByDockerfile(microservices)
	report.Outcome = Analyzed
	logrus.Infof("Found %d microservices in %s", len(report.Microservices), root)
	return report, nil
}

// dedupeByDockerfile keeps one microservice per dockerfile, the strongest, then the first by name
func dedupeByDockerfile(microservices []microservice.Microservice) []microservice.Microservice {
	ordered := append([]microservice.Microservice{}, microservices...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Confidence != ordered[j].Confidence {
			return ordered[i].Confidence > ordered[j].Confidence
		}
		return ordered[i].Name < ordered[j].Name
	})
	seen := map[string]bool{}
	deduped := []microservice.Microservice{}
	for _, ms := range ordered {
		key := ms.Name
		if path, ok := ms.Build.DockerfilePath(); ok {
			key = filepath.ToSlash(path)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, ms)
	}
	classifier.SortMicroservices(deduped)
	return deduped
}

// MicroserviceNames returns the sorted unique names of the microservices of a report
func (r Report) MicroserviceNames() []string {
	names := []string{}
	for _, ms := range r.Microservices {
		names = append(names, ms.Name)
	}
	sort.Strings(names)
	return common.UniqueStrings(names)
}
