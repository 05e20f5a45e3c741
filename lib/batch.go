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

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// SourceUnavailable means the source could not be cloned or is not a directory
const SourceUnavailable Outcome = "SourceUnavailable"

// Target is a source analysed by a batch
type Target struct {
	// Source is a directory or a git+https / git+ssh url
	Source string `yaml:"source" json:"source"`
	User   string `yaml:"user,omitempty" json:"user,omitempty"`
	Repo   string `yaml:"repo,omitempty" json:"repo,omitempty"`
}

// DetectBatch analyses independent sources concurrently, at most parallel at a time.
// The reports keep the order of the targets. A failing source does not stop the others.
func DetectBatch(ctx context.Context, targets []Target, parallel int, opts DetectOptions) ([]Report, error) {
	reports := make([]Report, len(targets))
	g, gCtx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			reports[i] = detectTarget(gCtx, target, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return reports, err
	}
	return reports, nil
}

func detectTarget(ctx context.Context, target Target, opts DetectOptions) Report {
	unavailable := func(err error) Report {
		logrus.Errorf("Failed to analyse the source %s . Error: %q", target.Source, err)
		return Report{Source: target.Source, User: target.User, Repo: target.Repo, Outcome: SourceUnavailable, Error: err.Error()}
	}
	path, err := ResolveSource(ctx, target.Source, false)
	if err != nil {
		return unavailable(err)
	}
	user, repo := target.User, target.Repo
	if user == "" && repo == "" {
		user, repo = ResolveIdentity(target.Source, path)
	}
	report, err := Detect(path, user, repo, opts)
	if err != nil {
		return unavailable(err)
	}
	report.Source = target.Source
	return report
}
