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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/konveyor/claim/common"
	"github.com/konveyor/claim/common/vcs"
	"github.com/sirupsen/logrus"
)

// CheckSourceDir makes the source path absolute and checks that it is an existing directory
func CheckSourceDir(srcPath string) (string, error) {
	absPath, err := filepath.Abs(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to make the source directory path '%s' absolute. Error: %w", srcPath, err)
	}
	fi, err := os.Stat(absPath)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("the given source directory '%s' does not exist. Error: %w", absPath, err)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat the given source directory '%s' Error: %w", absPath, err)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("the given source path '%s' is a file. Expected a directory", absPath)
	}
	return absPath, nil
}

// ResolveSource returns a local directory for the source. Remote git sources get cloned.
// When fullHistory is false only the latest commit is fetched.
func ResolveSource(ctx context.Context, source string, fullHistory bool) (string, error) {
	if !vcs.IsRemotePath(source) {
		return CheckSourceDir(source)
	}
	depth := 1
	if fullHistory {
		depth = 0
	}
	destDir := filepath.Join(common.RemoteSourcesFolder, sourceDirName(source))
	clonedPath, err := vcs.GetClonedPath(ctx, source, destDir, true, depth)
	if err != nil {
		return "", fmt.Errorf("failed to clone the source '%s' . Error: %w", source, err)
	}
	logrus.Debugf("The source %s was cloned to %s", source, clonedPath)
	return CheckSourceDir(clonedPath)
}

// ResolveIdentity returns the owner and name of a repository.
// Remote sources are parsed, local ones are looked up from their git remotes.
func ResolveIdentity(source, localPath string) (user, repo string) {
	var err error
	if vcs.IsRemotePath(source) {
		var repoURL string
		if repoURL, err = vcs.GetRepoURL(source); err == nil {
			user, repo, err = common.ParseRepoIdentity(repoURL)
		}
	} else {
		user, repo, err = common.GetGitRepoIdentity(localPath)
	}
	if err != nil {
		logrus.Debugf("Unable to find the identity of the repository %s . Error: %q", source, err)
		return "", ""
	}
	return user, repo
}

func sourceDirName(source string) string {
	name := strings.TrimPrefix(strings.TrimPrefix(source, "git+https://"), "git+ssh://")
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', ':', '@', '\\':
			return '_'
		}
		return r
	}, name)
}
