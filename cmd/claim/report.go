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
)

func reportHandler(path string) {
	file, err := lib.ReadReportFile(path)
	if err != nil {
		logrus.Fatalf("Failed to read the report. Error: %q", err)
	}
	writeReports(file.Reports)
}

func getReportCommand() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:     "report <report file>",
		Short:   "Convert a saved report",
		Long:    "Read a yaml or json report written by claim and write it in another format, e.g. csv.",
		Args:    cobra.ExactArgs(1),
		PreRunE: bindFlags,
		Run:     func(_ *cobra.Command, args []string) { reportHandler(args[0]) },
	}

	addOutputFlags(reportCmd)

	return reportCmd
}
