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

// HistoryOptions configures a walk over the history of a repository
type HistoryOptions struct {
	DetectOptions
	// MaxCommits limits the number of analysed commits. 0 analyses all of them.
	MaxCommits int
	// Step analyses every n-th commit
	Step int
	// User and Repo are looked up from the git remotes when empty
	User string
	Repo string
}

// WalkHistory analyses the first parent history of a repository, newest commit first.
// Every commit is exported into a scratch directory, so the worktree of the repository is never modified.
func WalkHistory(ctx context.Context, repoPath string, opts HistoryOptions) ([]Report, error) {
	root, err := CheckSourceDir(repoPath)
	if err != nil {
		return nil, err
	}
	user, repo := opts.User, opts.Repo
	if user == "" && repo == "" {
		user, repo = ResolveIdentity(root, root)
	}
	commits, err := vcs.ListCommits(root, opts.MaxCommits, opts.Step)
	if err != nil {
		return nil, err
	}
	scratch, err := os.MkdirTemp("", common.TempDirPrefix+common.WorktreesFolder)
	if err != nil {
		return nil, fmt.Errorf("failed to create a scratch directory. Error: %w", err)
	}
	defer os.RemoveAll(scratch)
	logrus.Infof("Analysing %d commits of %s", len(commits), root)
	reports := []Report{}
	var previous []string
	for i, commit := range commits {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		commit := commit
		snapshot := filepath.Join(scratch, fmt.Sprintf("%06d", i))
		if err := vcs.ExportCommit(ctx, root, commit.Hash, snapshot); err != nil {
			return reports, fmt.Errorf("failed to export the commit %s . Error: %w", commit.Hash, err)
		}
		if err := os.MkdirAll(snapshot, common.DefaultDirectoryPermission); err != nil {
			return reports, fmt.Errorf("failed to create the snapshot directory %s . Error: %w", snapshot, err)
		}
		report, err := Detect(snapshot, user, repo, opts.DetectOptions)
		if err != nil {
			return reports, err
		}
		report.Source = root
		report.Commit = &commit
		names := report.MicroserviceNames()
		if i > 0 && strings.Join(names, ",") != strings.Join(previous, ",") {
			logrus.Infof("The microservices changed after commit %s : %v -> %v", commit.Hash, names, previous)
		}
		previous = names
		reports = append(reports, report)
		if err := os.RemoveAll(snapshot); err != nil {
			logrus.Warnf("Failed to remove the snapshot directory %s . Error: %q", snapshot, err)
		}
	}
	return reports, nil
}
