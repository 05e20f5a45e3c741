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

package common

import (
	"os"
	"regexp"

	"github.com/konveyor/claim/types"
)

const (
	// DefaultDirectoryPermission defines the default permission used when a directory is created
	DefaultDirectoryPermission os.FileMode = 0755
	// DefaultFilePermission defines the default permission used when a non-executable file is created
	DefaultFilePermission os.FileMode = 0644
	// DefaultExecutablePermission defines the permission used when an executable file is created
	DefaultExecutablePermission os.FileMode = 0755
	// ConfigFile defines the name of the optional config file
	ConfigFile = types.AppNameShort + "config.yaml"
	// DefaultEnvFile is the env file loaded next to every compose file
	DefaultEnvFile = ".env"
	// TempDirPrefix defines the prefix of the temp directories
	TempDirPrefix = types.AppNameShort + "-"
	// RemoteSourcesFolder stores remote sources
	RemoteSourcesFolder = types.AppNameShort + "sources"
	// WorktreesFolder stores the scratch checkouts used while walking the history
	WorktreesFolder = types.AppNameShort + "worktrees"
)

var (
	// RemoteTempPath defines where all remote sources data get stored during execution
	RemoteTempPath = TempDirPrefix + "remote-temp"
	// DefaultIgnoreDirRegexps specifies directory name regexes that would be ignored
	DefaultIgnoreDirRegexps = []*regexp.Regexp{regexp.MustCompile(`^\.git$`)}
)
