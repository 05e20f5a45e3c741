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

package dockerfile

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/konveyor/claim/common"
	"github.com/sirupsen/logrus"
)

const dockerfilePattern = "*Dockerfile*"

var (
	// file names that merely contain Dockerfile
	blacklistedExtensions = []string{".sh", ".ps1", ".nanowin", ".txt"}
	// vendored and sample code does not describe the deployment
	blacklistedDirectories = []string{"vendor", "external", "example", "demo"}
)

// Locate returns the sorted paths, relative to root, of the candidate dockerfiles in the repository
func Locate(root string) []string {
	paths := []string{}
	for _, path := range common.GetFilesByGlob(root, dockerfilePattern) {
		if isBlacklisted(path) {
			logrus.Debugf("Ignoring the dockerfile candidate %s", path)
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	logrus.Debugf("Located %d dockerfiles in %s", len(paths), root)
	return paths
}

func isBlacklisted(path string) bool {
	for _, ext := range blacklistedExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	for _, dir := range blacklistedDirectories {
		if strings.Contains(path, dir) {
			return true
		}
	}
	return false
}

// DedupeSiblings keeps a single dockerfile per directory, the one with the shortest name.
// The slice is filtered in place and the shortened slice is returned.
func DedupeSiblings(paths []string) []string {
	best := map[string]string{}
	for _, path := range paths {
		dir := filepath.Dir(path)
		current, ok := best[dir]
		if !ok || shorterName(path, current) {
			best[dir] = path
		}
	}
	kept := paths[:0]
	seen := map[string]bool{}
	for _, path := range paths {
		if best[filepath.Dir(path)] != path || seen[path] {
			continue
		}
		seen[path] = true
		kept = append(kept, path)
	}
	return kept
}

func shorterName(a, b string) bool {
	na, nb := filepath.Base(a), filepath.Base(b)
	if len(na) != len(nb) {
		return len(na) < len(nb)
	}
	return na < nb
}
