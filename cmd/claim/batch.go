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
	"runtime"

	"github.com/konveyor/claim/common"
	"github.com/konveyor/claim/lib"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func batchHandler(cmd *cobra.Command, sources []string) {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	targets := []lib.Target{}
	if targetsPath := viper.GetString(targetsFlag); targetsPath != "" {
		if err := common.ReadYaml(targetsPath, &targets); err != nil {
			logrus.Fatalf("Failed to read the targets file %s . Error: %q", targetsPath, err)
		}
	}
	for _, source := range sources {
		targets = append(targets, lib.Target{Source: source})
	}
	if len(targets) == 0 {
		logrus.Fatalf("No sources to analyse. Pass them as arguments or use --%s", targetsFlag)
	}
	reports, err := lib.DetectBatch(ctx, targets, viper.GetInt(parallelFlag), getDetectOptions())
	if err != nil {
		logrus.Fatalf("Failed to analyse the sources. Error: %q", err)
	}
	writeReports(reports)
}

func getBatchCommand() *cobra.Command {
	batchCmd := &cobra.Command{
		Use:   "batch [sources...]",
		Short: "Find the microservices of several repositories",
		Long: `Find the microservices of several repositories concurrently.
The sources are directories or git urls. They can also be listed in a yaml file:

- source: git+https://github.com/acme/shop.git
  user: acme
  repo: shop
- source: ./local/checkout`,
		PreRunE: bindFlags,
		Run:     func(cmd *cobra.Command, args []string) { batchHandler(cmd, args) },
	}

	batchCmd.Flags().StringP(targetsFlag, "t", "", "Specify a yaml file listing the sources.")
	batchCmd.Flags().IntP(parallelFlag, "p", runtime.NumCPU(), "Specify the number of sources analysed at the same time.")
	addDetectFlags(batchCmd)
	addOutputFlags(batchCmd)

	return batchCmd
}
