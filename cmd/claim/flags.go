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

const (
	// verboseFlag enables debug logs
	verboseFlag = "verbose"
	// logFormatFlag selects between text and json logs
	logFormatFlag = "log-format"
	// configFlag is the path of an optional yaml config file
	configFlag = "config"
	// sourceFlag is the name of the flag that contains the path or the git url of the repository
	sourceFlag = "source"
	// userFlag is the owner of the repository used for name matching
	userFlag = "user"
	// repoFlag is the name of the repository used for name matching
	repoFlag = "repo"
	// confidenceFlag is the weakest confidence level reported
	confidenceFlag = "confidence"
	// envFileFlag lists the env files loaded next to every compose file
	envFileFlag = "env-files"
	// outputFlag is the file the report is written to. Empty writes to stdout
	outputFlag = "output"
	// formatFlag is the format of the report
	formatFlag = "format"
	// maxCloneSizeBytesFlag limits the size of cloned repositories
	maxCloneSizeBytesFlag = "max-clone-size"
	maxCommitsFlag        = "max-commits"
	stepFlag              = "step"
	parallelFlag          = "parallel"
	targetsFlag           = "targets"
	longFlag              = "long"
)

// envPrefix prefixes the environment variables read by viper, e.g. CLAIM_CONFIDENCE
const envPrefix = "CLAIM"
