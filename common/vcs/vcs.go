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

package vcs

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/konveyor/claim/common"
	"github.com/sirupsen/logrus"
)

// VCSCloneOptions controls how a remote source is fetched
type VCSCloneOptions struct {
	// CommitDepth limits the history that gets fetched. 0 fetches the whole history.
	CommitDepth int
	// Overwrite removes an existing clone at the destination instead of reusing it
	Overwrite bool
	// MaxSize is the largest number of bytes a clone may store. -1 disables the limit.
	MaxSize              int64
	CloneDestinationPath string
}

// VCS fetches a remote source into the local filesystem
type VCS interface {
	Clone(context.Context, VCSCloneOptions) (string, error)
}

// UnsupportedRemoteError is returned for a source that looks remote but matches no known scheme
type UnsupportedRemoteError struct {
	Source string
}

func (e *UnsupportedRemoteError) Error() string {
	return fmt.Sprintf("the source %s is not a supported remote source", e.Source)
}

// -1 means no limit
var maxRepoCloneSize int64 = -1

// SetMaxRepoCloneSize limits the bytes stored by later clones. A negative size removes the limit.
func SetMaxRepoCloneSize(size int64) {
	maxRepoCloneSize = size
}

// IsRemotePath is true for git+https and git+ssh style sources
func IsRemotePath(input string) bool {
	return isGitVCS(input)
}

func getVCSRepo(source string) (VCS, error) {
	if !isGitVCS(source) {
		return nil, &UnsupportedRemoteError{Source: source}
	}
	repo, err := getGitRepoStruct(source)
	if err != nil {
		return nil, fmt.Errorf("the git source '%s' is malformed. Error: %w", source, err)
	}
	return repo, nil
}

// GetClonedPath fetches a remote source under common.RemoteTempPath/destDirName and returns the local directory
// the source points to. History walks need a commitDepth of 0.
func GetClonedPath(ctx context.Context, source, destDirName string, overwrite bool, commitDepth int) (string, error) {
	repo, err := getVCSRepo(source)
	if err != nil {
		return "", err
	}
	logrus.Debugf("Cloning %+v", repo)
	tempPath, err := filepath.Abs(common.RemoteTempPath)
	if err != nil {
		return "", fmt.Errorf("unable to resolve the scratch directory '%s'. Error: %w", common.RemoteTempPath, err)
	}
	opts := VCSCloneOptions{
		CommitDepth:          commitDepth,
		Overwrite:            overwrite,
		MaxSize:              maxRepoCloneSize,
		CloneDestinationPath: filepath.Join(tempPath, destDirName),
	}
	localPath, err := repo.Clone(ctx, opts)
	if err != nil {
		return "", fmt.Errorf("unable to clone the source '%s' into %s . Error: %w", source, opts.CloneDestinationPath, err)
	}
	return localPath, nil
}

// GetRepoURL strips the ref and the path within the repository from a remote source
func GetRepoURL(source string) (string, error) {
	if !isGitVCS(source) {
		return "", &UnsupportedRemoteError{Source: source}
	}
	repo, err := getGitRepoStruct(source)
	if err != nil {
		return "", err
	}
	return repo.URL, nil
}
