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


package main

import (
	"github.com/konveyor/claim/lib"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func historyHandler(cmd *cobra.Command) {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	source := viper.GetString(sourceFlag)
	opts := lib.HistoryOptions{
		DetectOptions: getDetectOptions(),
		MaxCommits:    viper.GetInt(maxCommitsFlag),
		Step:          viper.GetInt(stepFlag),
		User:          viper.GetString(userFlag),
		Repo:          viper.GetString(repoFlag),
	}
	path, err := lib.ResolveSource(ctx, source, true)
	if err != nil {
		logrus.Fatalf("Failed to access the source %s . Error: %q", source, err)
	}
	if opts.User == "" && opts.Repo == "" {
		opts.User, opts.Repo = lib.ResolveIdentity(source, path)
	}
	reports, err := lib.WalkHistory(ctx, path, opts)
	if err != nil {
		logrus.Fatalf("Failed to walk the history of %s . Error: %q", source, err)
	}
	for i := range reports {
		reports[i].Source = source
	}
	writeReports(reports)
}

func getHistoryCommand() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:     "history",
		Short:   "Find the microservices of every commit of a repository",
		Long:    "Walk the first parent history of a repository, newest commit first, and find the microservices of every commit. The worktree of the repository is not modified.",
		Args:    cobra.NoArgs,
		PreRunE: bindFlags,
		Run:     func(cmd *cobra.Command, _ []string) { historyHandler(cmd) },
	}

	historyCmd.Flags().StringP(sourceFlag, "s", ".", "Specify the git repository directory or git url.")
	historyCmd.Flags().String(userFlag, "", "Specify the owner of the repository. Looked up from the git remotes by default.")
	historyCmd.Flags().String(repoFlag, "", "Specify the name of the repository. Looked up from the git remotes by default.")
	historyCmd.Flags().Int(maxCommitsFlag, 0, "Specify the maximum number of commits to analyse. 0 analyses all of them.")
	historyCmd.Flags().Int(stepFlag, 1, "Analyse every n-th commit.")
	addDetectFlags(historyCmd)
	addOutputFlags(historyCmd)

	return historyCmd
}
