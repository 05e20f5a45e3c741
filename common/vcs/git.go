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
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/sirupsen/logrus"
)

// GitVCSRepo stores git repo config
type GitVCSRepo struct {
	InputURL       string
	URL            string
	Branch         string
	Tag            string
	CommitHash     string
	PathWithinRepo string
	GitRepository  *git.Repository
	GitRepoPath    string
}

var (
	gitCommitHashRegex = regexp.MustCompile(`^[a-fA-F0-9]{40}$`)
	gitBranchRegex     = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9\.\-_\/]*$`)
	gitTagRegex        = regexp.MustCompile(`^v[0-9]+(\.[0-9]+)?(\.[0-9]+)?$`)
	gitVCSRegex        = regexp.MustCompile(`^git\+(https|ssh)://[a-zA-Z0-9]+([\-\.]{1}[a-zA-Z0-9]+)*\.[a-zA-Z]{2,5}(:[0-9]{1,5})?(\/.*)?$`)
	hostNameRegex      = regexp.MustCompile(`^git\+(?:https|ssh):\/\/(.*?)\/`)
)

func isGitCommitHash(commithash string) bool {
	return gitCommitHashRegex.MatchString(commithash)
}

func isGitBranch(branch string) bool {
	return gitBranchRegex.MatchString(branch)
}

func isGitTag(tag string) bool {
	return gitTagRegex.MatchString(tag)
}

// isGitVCS checks if the given vcs url is git
func isGitVCS(vcsurl string) bool {
	return gitVCSRegex.MatchString(vcsurl)
}

// getGitRepoStruct extracts information from the given git path and returns a struct.
// The format is git+[ssh|https]://<URL>[@tag|commit hash|branch][:/path/in/the/repo]
func getGitRepoStruct(vcsurl string) (*GitVCSRepo, error) {
	partsSplitByAt := strings.Split(vcsurl, "@")
	if len(partsSplitByAt) > 2 {
		return nil, fmt.Errorf("invalid git remote path provided. Should follow the format git+[ssh|https]://<URL>@[tag|commit hash|branch]:/path/in/the/repo but received : %s", vcsurl)
	}
	gitRepoStruct := GitVCSRepo{InputURL: vcsurl}
	gitURL := partsSplitByAt[0]
	ref := ""
	if len(partsSplitByAt) == 2 {
		ref = partsSplitByAt[1]
	}
	// the path within the repo follows either the url or the ref
	if ref != "" {
		if refParts := strings.SplitN(ref, ":", 2); len(refParts) == 2 {
			ref = refParts[0]
			gitRepoStruct.PathWithinRepo = refParts[1]
		}
	} else if partsSplitByColon := strings.Split(gitURL, ":"); len(partsSplitByColon) == 3 {
		gitRepoStruct.PathWithinRepo = partsSplitByColon[2]
		gitURL = strings.Join(partsSplitByColon[:2], ":")
	}
	matches := hostNameRegex.FindStringSubmatch(gitURL)
	if len(matches) == 0 {
		return nil, fmt.Errorf("failed to extract host name from the given vcs url %v", vcsurl)
	}
	hostName := matches[1]
	switch {
	case strings.HasPrefix(gitURL, "git+https"):
		gitRepoStruct.GitRepoPath = strings.TrimPrefix(gitURL, "git+https://"+hostName+"/")
		gitRepoStruct.URL = strings.TrimPrefix(gitURL, "git+")
	case strings.HasPrefix(gitURL, "git+ssh"):
		gitRepoStruct.GitRepoPath = strings.TrimPrefix(gitURL, "git+ssh://"+hostName+"/")
		gitRepoStruct.URL = "git@" + hostName + ":" + gitRepoStruct.GitRepoPath
	default:
		return nil, fmt.Errorf("failed to have either of the prefixes git+https or git+ssh, got %v", gitURL)
	}
	switch {
	case ref == "":
	case isGitCommitHash(ref):
		gitRepoStruct.CommitHash = ref
	case isGitTag(ref):
		gitRepoStruct.Tag = ref
	case isGitBranch(ref):
		gitRepoStruct.Branch = ref
	default:
		return nil, fmt.Errorf("the ref '%s' is not a valid branch, tag or commit hash", ref)
	}
	return &gitRepoStruct, nil
}

// Clone clones a git repository with the given commit depth into the destination and returns the path of the sources
func (gvcsrepo *GitVCSRepo) Clone(ctx context.Context, gitCloneOptions VCSCloneOptions) (string, error) {
	if gitCloneOptions.CloneDestinationPath == "" {
		return "", fmt.Errorf("the path where the repository has to be clone is empty - %s", gitCloneOptions.CloneDestinationPath)
	}
	repoPath := filepath.Join(gitCloneOptions.CloneDestinationPath, gvcsrepo.GitRepoPath)
	_, err := os.Stat(repoPath)
	if os.IsNotExist(err) {
		logrus.Debugf("cloned output would be available at '%s'", repoPath)
	} else if gitCloneOptions.Overwrite {
		logrus.Infof("git repository might get overwritten at %s", repoPath)
		if err := os.RemoveAll(repoPath); err != nil {
			return "", fmt.Errorf("failed to remove the directory at the given path - %s", repoPath)
		}
	} else {
		return filepath.Join(repoPath, gvcsrepo.PathWithinRepo), nil
	}
	logrus.Infof("Cloning the repository using git into %s. This might take some time.", repoPath)
	cloneOpts := git.CloneOptions{URL: gvcsrepo.URL, Depth: gitCloneOptions.CommitDepth}
	switch {
	case gvcsrepo.Branch != "":
		cloneOpts.SingleBranch = true
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(gvcsrepo.Branch)
	case gvcsrepo.Tag != "":
		cloneOpts.SingleBranch = true
		cloneOpts.ReferenceName = plumbing.NewTagReferenceName(gvcsrepo.Tag)
	case gvcsrepo.CommitHash != "":
		// the commit can be anywhere in the history
		cloneOpts.Depth = 0
	}
	if strings.HasPrefix(gvcsrepo.URL, "git@") {
		if cloneOpts.Auth, err = sshAuth(); err != nil {
			return "", fmt.Errorf("failed to get the ssh credentials to clone %s . Error: %w", gvcsrepo.URL, err)
		}
	}
	storer := filesystem.NewStorage(osfs.New(filepath.Join(repoPath, git.GitDirName)), cache.NewObjectLRUDefault())
	gvcsrepo.GitRepository, err = git.CloneContext(ctx, Limit(storer, gitCloneOptions.MaxSize), osfs.New(repoPath), &cloneOpts)
	if err != nil {
		return "", fmt.Errorf("failed to perform clone operation using git with options %+v. Error : %w", cloneOpts, err)
	}
	if gvcsrepo.CommitHash != "" {
		w, err := gvcsrepo.GitRepository.Worktree()
		if err != nil {
			return "", fmt.Errorf("failed return a worktree for the repostiory at %s . Error : %w", repoPath, err)
		}
		if err := w.Checkout(&git.CheckoutOptions{Hash: plumbing.NewHash(gvcsrepo.CommitHash), Force: true}); err != nil {
			return "", fmt.Errorf("failed to checkout commit hash : %s on work tree. Error : %w", gvcsrepo.CommitHash, err)
		}
	}
	return filepath.Join(repoPath, gvcsrepo.PathWithinRepo), nil
}
