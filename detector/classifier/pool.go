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
	"path/filepath"
	"sort"

	"github.com/konveyor/claim/detector/dockerfile"
)

// DockerfilePool holds the dockerfiles of one repository snapshot that containers can still be matched to.
// A pool belongs to a single classification run and must not be shared.
type DockerfilePool struct {
	root       string
	located    map[string]bool
	candidates []string
	consumed   map[string]bool
}

// NewDockerfilePool locates the dockerfiles under root
func NewDockerfilePool(root string) *DockerfilePool {
	return NewDockerfilePoolFrom(root, dockerfile.Locate(root))
}

// NewDockerfilePoolFrom creates a pool from dockerfile paths relative to root
func NewDockerfilePoolFrom(root string, paths []string) *DockerfilePool {
	located := map[string]bool{}
	cleaned := []string{}
	for _, path := range paths {
		path = filepath.Clean(path)
		if located[path] {
			continue
		}
		located[path] = true
		cleaned = append(cleaned, path)
	}
	sort.Strings(cleaned)
	candidates := dockerfile.DedupeSiblings(append([]string{}, cleaned...))
	return &DockerfilePool{root: root, located: located, candidates: candidates, consumed: map[string]bool{}}
}

// Root returns the directory the dockerfile paths are relative to
func (p *DockerfilePool) Root() string {
	return p.root
}

// Contains returns true if the dockerfile was located
func (p *DockerfilePool) Contains(path string) bool {
	return p.located[filepath.Clean(path)]
}

// Consume removes the dockerfile from the pool
func (p *DockerfilePool) Consume(path string) {
	p.consumed[filepath.Clean(path)] = true
}

// IsConsumed returns true if a container already claimed the dockerfile
func (p *DockerfilePool) IsConsumed(path string) bool {
	return p.consumed[filepath.Clean(path)]
}

// Available returns the deduplicated dockerfiles that are not consumed yet
func (p *DockerfilePool) Available() []string {
	available := []string{}
	for _, path := range p.candidates {
		if !p.consumed[path] {
			available = append(available, path)
		}
	}
	return available
}

// Located returns all the located dockerfiles
func (p *DockerfilePool) Located() []string {
	located := make([]string, 0, len(p.located))
	for path := range p.located {
		located = append(located, path)
	}
	sort.Strings(located)
	return located
}
