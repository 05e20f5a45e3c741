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

package compose

import (
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/konveyor/claim/common"
	"github.com/sirupsen/logrus"
)

const unacceptable = math.MaxInt32

var (
	composeFilePatterns = []string{"*compose*.yml", "*compose*.yaml", "*docker-compose*.yml", "*docker-compose*.yaml"}
	composeFileNames    = []string{"docker-compose", "compose"}

	// every directory between the repository root and a compose file must contain one of these.
	// docker related first, then code directories, then development phases, then the rest.
	composeDirKeywords = []string{
		"docker", "compose", "container",
		"src", "app", "code", "source", "service",
		"dev", "local", "build", "test", "stag", "prod", "deploy", "release",
		"infra", "ops", "conf", "env", "setup", "run", "stack", "platform", "tool",
	}

	composeFileAffixWhitelist = []string{"services", "base", "dev", "build", "stack", "prod", "stable", "deploy", "test"}
	composeFileAffixBlacklist = []string{"override", "infra"}
)

// Choose returns the path, relative to root, of the compose file that best describes the whole deployment.
// The second return value is false if no acceptable compose file exists.
func Choose(root string) (string, bool) {
	paths := []string{}
	for _, pattern := range composeFilePatterns {
		paths = append(paths, common.GetFilesByGlob(root, pattern)...)
	}
	return ChooseFrom(common.UniqueStrings(paths))
}

// ChooseFrom picks the compose file from a list of candidate paths.
// The result does not depend on the order of the list.
func ChooseFrom(paths []string) (string, bool) {
	groups := map[string][]string{}
	priorities := map[string]string{}
	for _, path := range paths {
		dir := filepath.Dir(path)
		priority, ok := directoryPriority(dir)
		if !ok {
			logrus.Debugf("Ignoring the compose file %s since its directory is not relevant", path)
			continue
		}
		priorities[dir] = priority
		groups[dir] = append(groups[dir], path)
	}
	dirs := make([]string, 0, len(groups))
	for dir := range groups {
		dirs = append(dirs, dir)
	}
	sort.Slice(dirs, func(i, j int) bool {
		if priorities[dirs[i]] != priorities[dirs[j]] {
			return priorities[dirs[i]] < priorities[dirs[j]]
		}
		return dirs[i] < dirs[j]
	})
	for _, dir := range dirs {
		best := unacceptable
		bestPaths := []string{}
		for _, path := range groups[dir] {
			priority := fileNamePriority(filepath.Base(path))
			if priority < best {
				best = priority
				bestPaths = []string{path}
			} else if priority == best {
				bestPaths = append(bestPaths, path)
			}
		}
		if best == unacceptable {
			logrus.Debugf("None of the compose files in the directory %s are acceptable", dir)
			continue
		}
		sort.Slice(bestPaths, func(i, j int) bool {
			bi, bj := filepath.Base(bestPaths[i]), filepath.Base(bestPaths[j])
			if len(bi) != len(bj) {
				return len(bi) < len(bj)
			}
			return bi < bj
		})
		if len(bestPaths) > 1 {
			logrus.Debugf("Multiple compose files %+v have the same priority. Choosing the shortest one", bestPaths)
		}
		return bestPaths[0], true
	}
	return "", false
}

// directoryPriority encodes the keyword rank of every directory level as a letter.
// The root directory has the empty priority which sorts before everything else.
func directoryPriority(dir string) (string, bool) {
	dir = filepath.ToSlash(filepath.Clean(dir))
	if dir == "." || dir == "" {
		return "", true
	}
	priority := strings.Builder{}
	for _, level := range strings.Split(dir, "/") {
		level = strings.ToLower(level)
		rank := -1
		for i, keyword := range composeDirKeywords {
			if strings.Contains(level, keyword) {
				rank = i
				break
			}
		}
		if rank < 0 {
			return "", false
		}
		priority.WriteByte(byte('a' + rank))
	}
	return priority.String(), true
}

// fileNamePriority ranks a compose file name by its affix. Lower is better.
func fileNamePriority(name string) int {
	base := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
	for _, composeFileName := range composeFileNames {
		if base == composeFileName {
			return 0
		}
	}
	affix := base
	for _, composeFileName := range composeFileNames {
		if strings.Contains(affix, composeFileName) {
			affix = strings.Replace(affix, composeFileName, "", 1)
			break
		}
	}
	tokens := strings.FieldsFunc(affix, func(r rune) bool { return r == '.' || r == '-' || r == '_' })
	for _, token := range tokens {
		for _, blacklisted := range composeFileAffixBlacklist {
			if token == blacklisted {
				return unacceptable
			}
		}
	}
	for i, whitelisted := range composeFileAffixWhitelist {
		for _, token := range tokens {
			if token == whitelisted {
				return i + 1
			}
		}
	}
	return unacceptable
}
