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
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/konveyor/claim/common"
	"github.com/konveyor/claim/common/vcs"
	"github.com/konveyor/claim/detector/dockerfile"
	"github.com/konveyor/claim/lib"
	"github.com/konveyor/claim/types/microservice"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// commandContext is cancelled on interrupt and on fatal logs
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(cmd.Context())
	logrus.AddHook(common.NewCleanupHook(cancel))
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	return ctx, func() {
		stop()
		cancel()
	}
}

// bindFlags makes the flags of the running command visible to viper.
// Binding happens when the command runs since several commands share flag names.
func bindFlags(cmd *cobra.Command, _ []string) error {
	return viper.BindPFlags(cmd.Flags())
}

func addDetectFlags(cmd *cobra.Command) {
	levels := []string{}
	for _, level := range microservice.ConfidenceLevels() {
		levels = append(levels, level.String())
	}
	cmd.Flags().String(confidenceFlag, microservice.BuildNameMatched.String(), "Specify the weakest confidence level to report. One of "+strings.Join(levels, ", "))
	cmd.Flags().StringSlice(envFileFlag, []string{common.DefaultEnvFile}, "Specify the env files loaded next to every compose file.")
	cmd.Flags().Int64(maxCloneSizeBytesFlag, -1, "Max size in bytes when cloning a git repo. Default -1 is infinite")
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(outputFlag, "o", "", "Specify a file path to save the report to. Prints to stdout by default.")
	cmd.Flags().StringP(formatFlag, "f", "", "Specify the report format. One of "+strings.Join(lib.Formats(), ", ")+". Guessed from the output file extension by default.")
}

// getDetectOptions reads the detection options from the flags, the environment and the config file
func getDetectOptions() lib.DetectOptions {
	floor, err := microservice.ParseConfidenceLevel(viper.GetString(confidenceFlag))
	if err != nil {
		logrus.Fatalf("Invalid value for --%s . Error: %q", confidenceFlag, err)
	}
	verdicts, err := dockerfile.NewVerdictCache(dockerfile.DefaultVerdictCacheSize)
	if err != nil {
		logrus.Fatalf("Failed to create the dockerfile verdict cache. Error: %q", err)
	}
	vcs.SetMaxRepoCloneSize(viper.GetInt64(maxCloneSizeBytesFlag))
	return lib.DetectOptions{
		Floor:    floor,
		EnvFiles: viper.GetStringSlice(envFileFlag),
		Verdicts: verdicts,
	}
}

// writeReports writes the reports to the output file or to stdout
func writeReports(reports []lib.Report) {
	output := viper.GetString(outputFlag)
	format := viper.GetString(formatFlag)
	if output == "" || output == "-" {
		if err := lib.WriteReports(os.Stdout, format, reports); err != nil {
			logrus.Fatalf("Failed to write the report. Error: %q", err)
		}
		return
	}
	if err := lib.WriteReportsToFile(output, format, reports); err != nil {
		logrus.Fatalf("Failed to write the report to %s . Error: %q", output, err)
	}
	logrus.Infof("The report can be found at [%s].", output)
}
