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
	"github.com/konveyor/claim/types/info"
	"gopkg.in/yaml.v3"
)

// GetVersion returns the version
func GetVersion(long bool) string {
	if !long {
		return info.GetVersion()
	}
	ver, err := yaml.Marshal(info.GetVersionInfo())
	if err != nil {
		return info.GetVersion()
	}
	return string(ver)
}
