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
	"io"
	"os"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/konveyor/claim/common"
	"github.com/sirupsen/logrus"
)

// CommitInfo identifies a commit of the history
type CommitInfo struct {
	Hash    string    `yaml:"hash" json:"hash"`
	When    time.Time `yaml:"when" json:"when"`
	Author  string    `yaml:"author,omitempty" json:"author,omitempty"`
	Summary string    `yaml:"summary,omitempty" json:"summary,omitempty"`
}

// ListCommits walks the first parent history starting at HEAD, newest first.
// Every step-th commit is returned, at most maxCommits of them. Non positive values disable the limits.
func ListCommits(repoPath string, maxCommits, step int) ([]CommitInfo, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open the git repository at path %s . Error: %w", repoPath, err)
	}
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get the HEAD of the git repository at path %s . Error: %w", repoPath, err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get the commit %s . Error: %w", head.Hash(), err)
	}
	if step <= 0 {
		step = 1
	}
	commits := []CommitInfo{}
	for i := 0; commit != nil; i++ {
		if maxCommits > 0 && len(commits) >= maxCommits {
			break
		}
		if i%step == 0 {
			commits = append(commits, newCommitInfo(commit))
		}
		if commit.NumParents() == 0 {
			break
		}
		if commit, err = commit.Parent(0); err != nil {
			if err == plumbing.ErrObjectNotFound {
				// shallow clones end early
				logrus.Debugf("The history of %s ends at a missing parent", repoPath)
				break
			}
			return nil, fmt.Errorf("failed to get the parent of a commit. Error: %w", err)
		}
	}
	return commits, nil
}

func newCommitInfo(commit *object.Commit) CommitInfo {
	summary := commit.Message
	for i, r := range summary {
		if r == '\n' {
			summary = summary[:i]
			break
		}
	}
	return CommitInfo{
		Hash:    commit.Hash.String(),
		When:    commit.Author.When.UTC(),
		Author:  commit.Author.Name,
		Summary: summary,
	}
}

// ExportCommit writes the files of a commit into dest without touching the worktree of the repository.
// Symbolic links and submodules are not exported.
func ExportCommit(ctx context.Context, repoPath, hash, dest string) error {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return fmt.Errorf("failed to open the git repository at path %s . Error: %w", repoPath, err)
	}
	commit, err := repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return fmt.Errorf("failed to get the commit %s . Error: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return fmt.Errorf("failed to get the tree of the commit %s . Error: %w", hash, err)
	}
	fs := osfs.New(dest)
	return tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if f.Mode == filemode.Symlink || f.Mode == filemode.Submodule {
			return nil
		}
		perm := common.DefaultFilePermission
		if f.Mode == filemode.Executable {
			perm = common.DefaultExecutablePermission
		}
		reader, err := f.Reader()
		if err != nil {
			return fmt.Errorf("failed to read the file %s of the commit %s . Error: %w", f.Name, hash, err)
		}
		defer reader.Close()
		out, err := fs.OpenFile(f.Name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
		if err != nil {
			return fmt.Errorf("failed to create the file %s . Error: %w", f.Name, err)
		}
		if _, err := io.Copy(out, reader); err != nil {
			out.Close()
			return fmt.Errorf("failed to write the file %s . Error: %w", f.Name, err)
		}
		return out.Close()
	})
}
