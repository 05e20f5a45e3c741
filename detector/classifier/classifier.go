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

package classifier

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/konveyor/claim/detector/dockerfile"
	"github.com/konveyor/claim/types/microservice"
	"github.com/sirupsen/logrus"
)

var (
	// longer affixes first so that "microservice" is not reduced to "micro"
	serviceAffixes     = []string{"microservice", "service", "srv"}
	affixSeparators    = []string{"-", "_", "."}
	imagePrefixTrimSet = "/-_."
)

// CodeChecker decides whether a dockerfile copies code owned by the repository
type CodeChecker interface {
	CopiesCode(path string) (bool, error)
}

type fileChecker struct{}

func (fileChecker) CopiesCode(path string) (bool, error) {
	return dockerfile.CopiesCodeFile(path)
}

// Options configures a classification run
type Options struct {
	// User is the owner of the repository, used to strip image name prefixes
	User string
	// Repo is the name of the repository, used to strip image name prefixes
	Repo string
	// Floor is the weakest confidence level that is reported. Weaker checks are not attempted.
	Floor microservice.ConfidenceLevel
	// Checker defaults to parsing every dockerfile
	Checker CodeChecker
}

// DockerfileError is returned when a dockerfile declared by a service cannot be parsed
type DockerfileError struct {
	Path string
	Err  error
}

// Error returns the error message
func (e *DockerfileError) Error() string {
	return fmt.Sprintf("failed to check the dockerfile at path %s . Error: %v", e.Path, e.Err)
}

// Unwrap returns the cause
func (e *DockerfileError) Unwrap() error { return e.Err }

type classifier struct {
	pool    *DockerfilePool
	opts    Options
	checker CodeChecker
}

// Determine decides which containers are microservices built from the repository.
// Every dockerfile is attributed to at most one container. Matched dockerfiles are consumed from the pool.
// The result is sorted by name.
func Determine(containers []microservice.Container, pool *DockerfilePool, opts Options) ([]microservice.Microservice, error) {
	if opts.Floor == 0 {
		opts.Floor = microservice.BuildNameMatched
	}
	c := &classifier{pool: pool, opts: opts, checker: opts.Checker}
	if c.checker == nil {
		c.checker = fileChecker{}
	}
	sorted := append([]microservice.Container{}, containers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := sorted[i].SortKey(), sorted[j].SortKey()
		if len(ki) != len(kj) {
			return len(ki) > len(kj)
		}
		if ki != kj {
			return ki < kj
		}
		return sorted[i].ContainerName < sorted[j].ContainerName
	})
	found := map[microservice.Microservice]bool{}
	for _, container := range sorted {
		ms, ok, err := c.classify(container)
		if err != nil {
			return nil, err
		}
		if ok {
			found[ms] = true
		}
	}
	microservices := make([]microservice.Microservice, 0, len(found))
	for ms := range found {
		microservices = append(microservices, ms)
	}
	SortMicroservices(microservices)
	return microservices, nil
}

// SortMicroservices orders microservices by name, then dockerfile, then strongest confidence
func SortMicroservices(microservices []microservice.Microservice) {
	sort.Slice(microservices, func(i, j int) bool {
		a, b := microservices[i], microservices[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Build.Context != b.Build.Context {
			return a.Build.Context < b.Build.Context
		}
		if a.Build.Dockerfile != b.Build.Dockerfile {
			return a.Build.Dockerfile < b.Build.Dockerfile
		}
		return a.Confidence > b.Confidence
	})
}

func (c *classifier) classify(container microservice.Container) (microservice.Microservice, bool, error) {
	if container.Build != nil && container.Build.IsLocal() {
		return c.classifyLocalBuild(container)
	}
	if container.Image == "" {
		logrus.Debugf("Skipping the container %s since it has neither an image nor a local build", container.ContainerName)
		return microservice.Microservice{}, false, nil
	}
	if microservice.BuildImageMatched.AtLeast(c.opts.Floor) {
		if path, ok := c.matchUnique(imageCandidates(container.Image, c.opts.User, c.opts.Repo)); ok {
			return c.matched(container, path, microservice.BuildImageMatched), true, nil
		}
	}
	if microservice.BuildNameMatched.AtLeast(c.opts.Floor) {
		if path, ok := c.matchUnique(nameCandidates(container.ContainerName)); ok {
			return c.matched(container, path, microservice.BuildNameMatched), true, nil
		}
	}
	logrus.Debugf("The container %s is not a microservice", container.ContainerName)
	return microservice.Microservice{}, false, nil
}

func (c *classifier) classifyLocalBuild(container microservice.Container) (microservice.Microservice, bool, error) {
	path, _ := container.Build.DockerfilePath()
	path = filepath.Clean(path)
	if c.pool.IsConsumed(path) {
		logrus.Debugf("Skipping the container %s since the dockerfile %s is already attributed", container.ContainerName, path)
		return microservice.Microservice{}, false, nil
	}
	if !c.pool.Contains(path) {
		if !microservice.BuildUnverified.AtLeast(c.opts.Floor) {
			return microservice.Microservice{}, false, nil
		}
		logrus.Debugf("The dockerfile %s of the container %s was not found. Trusting the declaration", path, container.ContainerName)
		return microservice.Microservice{Name: container.ContainerName, Build: *container.Build, Confidence: microservice.BuildUnverified}, true, nil
	}
	copies, err := c.checker.CopiesCode(filepath.Join(c.pool.Root(), path))
	if err != nil {
		return microservice.Microservice{}, false, &DockerfileError{Path: path, Err: err}
	}
	if !copies {
		logrus.Debugf("The dockerfile %s of the container %s does not copy any code", path, container.ContainerName)
		return microservice.Microservice{}, false, nil
	}
	c.pool.Consume(path)
	return microservice.Microservice{Name: container.ContainerName, Build: *container.Build, Confidence: microservice.BuildVerified}, true, nil
}

// matchUnique returns the only available dockerfile whose directory contains a candidate and which copies code.
// Candidates are tried in order. Ambiguous candidates are skipped.
func (c *classifier) matchUnique(candidates []string) (string, bool) {
	available := c.pool.Available()
	for _, candidate := range candidates {
		matches := []string{}
		for _, path := range available {
			dir := filepath.Dir(path)
			if dir == "." {
				continue
			}
			if strings.Contains(strings.ToLower(filepath.ToSlash(dir)), candidate) {
				matches = append(matches, path)
			}
		}
		if len(matches) != 1 {
			if len(matches) > 1 {
				logrus.Debugf("The name %s matches multiple dockerfiles %+v", candidate, matches)
			}
			continue
		}
		copies, err := c.checker.CopiesCode(filepath.Join(c.pool.Root(), matches[0]))
		if err != nil {
			logrus.Debugf("Unable to check the dockerfile %s . Error: %q", matches[0], err)
			continue
		}
		if !copies {
			continue
		}
		return matches[0], true
	}
	return "", false
}

func (c *classifier) matched(container microservice.Container, path string, confidence microservice.ConfidenceLevel) microservice.Microservice {
	c.pool.Consume(path)
	return microservice.Microservice{
		Name:       container.ContainerName,
		Build:      microservice.NewBuild(filepath.Dir(path), filepath.Base(path), false, false),
		Confidence: confidence,
	}
}

// imageCandidates derives names from an image by dropping the registry and stripping the user and repo prefixes.
// Longer candidates come first.
func imageCandidates(image, user, repo string) []string {
	name := strings.ToLower(image)
	if segments := strings.Split(name, "/"); len(segments) > 1 {
		first := segments[0]
		if strings.ContainsAny(first, ".:") || first == "localhost" {
			name = strings.Join(segments[1:], "/")
		}
	}
	user, repo = strings.ToLower(user), strings.ToLower(repo)
	withoutUser := trimNamePrefix(name, user)
	candidates := []string{
		name,
		withoutUser,
		trimNamePrefix(name, repo),
		trimNamePrefix(withoutUser, repo),
	}
	return orderCandidates(candidates)
}

func trimNamePrefix(name, prefix string) string {
	if prefix == "" || !strings.HasPrefix(name, prefix) {
		return name
	}
	return strings.TrimLeft(strings.TrimPrefix(name, prefix), imagePrefixTrimSet)
}

// nameCandidates derives names from a container name by dropping a service affix at either end
func nameCandidates(containerName string) []string {
	name := strings.ToLower(containerName)
	candidates := []string{name}
	for _, affix := range serviceAffixes {
		for _, sep := range affixSeparators {
			if strings.HasSuffix(name, sep+affix) {
				candidates = append(candidates, strings.TrimSuffix(name, sep+affix))
			}
			if strings.HasPrefix(name, affix+sep) {
				candidates = append(candidates, strings.TrimPrefix(name, affix+sep))
			}
		}
	}
	return orderCandidates(candidates)
}

func orderCandidates(candidates []string) []string {
	seen := map[string]bool{}
	ordered := []string{}
	for _, candidate := range candidates {
		if candidate == "" || seen[candidate] {
			continue
		}
		seen[candidate] = true
		ordered = append(ordered, candidate)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if len(ordered[i]) != len(ordered[j]) {
			return len(ordered[i]) > len(ordered[j])
		}
		return ordered[i] < ordered[j]
	})
	return ordered
}
