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

func detectHandler(cmd *cobra.Command) {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	opts := getDetectOptions()
	source := viper.GetString(sourceFlag)
	path, err := lib.ResolveSource(ctx, source, false)
	if err != nil {
		logrus.Fatalf("Failed to access the source %s . Error: %q", source, err)
	}
	user, repo := viper.GetString(userFlag), viper.GetString(repoFlag)
	if user == "" && repo == "" {
		user, repo = lib.ResolveIdentity(source, path)
	}
	report, err := lib.Detect(path, user, repo, opts)
	if err != nil {
		logrus.Fatalf("Failed to analyse the source %s . Error: %q", source, err)
	}
	report.Source = source
	writeReports([]lib.Report{report})
}

func getDetectCommand() *cobra.Command {
	detectCmd := &cobra.Command{
		Use:   "detect",
		Short: "Find the microservices of a repository",
		Long: `Find the microservices of a repository.
The source is a directory or a git url like git+https://github.com/konveyor/claim.git@main`,
		Args:    cobra.NoArgs,
		PreRunE: bindFlags,
		Run:     func(cmd *cobra.Command, _ []string) { detectHandler(cmd) },
	}

	detectCmd.Flags().StringP(sourceFlag, "s", ".", "Specify the source directory or git url.")
	detectCmd.Flags().String(userFlag, "", "Specify the owner of the repository. Looked up from the git remotes by default.")
	detectCmd.Flags().String(repoFlag, "", "Specify the name of the repository. Looked up from the git remotes by default.")
	addDetectFlags(detectCmd)
	addOutputFlags(detectCmd)

	return detectCmd
}
