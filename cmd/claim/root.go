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
	"fmt"
	"strings"

	"github.com/konveyor/claim/common"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func getRootCommand() *cobra.Command {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "claim",
		Short: "Claim finds the microservices of a repository using its docker compose files.",
		Long: `Claim finds the microservices of a repository using its docker compose files.
It selects the compose file of the repository, resolves its includes, extends and variables
and decides which services are built from code owned by the repository.

Every flag can also be set in the config file or as an environment variable, e.g. CLAIM_CONFIDENCE.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := viper.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
				return err
			}
			if configPath := viper.GetString(configFlag); configPath != "" {
				viper.SetConfigFile(configPath)
				if err := viper.ReadInConfig(); err != nil {
					return fmt.Errorf("failed to read the config file %s . Error: %w", configPath, err)
				}
			}
			if err := common.ConfigureLogging(viper.GetBool(verboseFlag), viper.GetString(logFormatFlag)); err != nil {
				return err
			}
			logrus.Debugf("Using the config file %s", viper.ConfigFileUsed())
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolP(verboseFlag, "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String(logFormatFlag, common.TextLogFormat, "Log format. One of text, json")
	rootCmd.PersistentFlags().String(configFlag, "", "Specify a yaml config file. Its keys are the names of the flags")

	rootCmd.AddCommand(getDetectCommand())
	rootCmd.AddCommand(getHistoryCommand())
	rootCmd.AddCommand(getBatchCommand())
	rootCmd.AddCommand(getReportCommand())
	rootCmd.AddCommand(getVersionCommand())
	return rootCmd
}
