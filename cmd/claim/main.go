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
	"os"

	"github.com/konveyor/claim/common"
	"github.com/sirupsen/logrus"
)

func main() {
	remoteTempPath, err := os.MkdirTemp("", common.TempDirPrefix+"remote-")
	if err != nil {
		logrus.Fatalf("unable to create the temp directory for remote sources. Error: %q", err)
	}
	common.RemoteTempPath = remoteTempPath
	logrus.AddHook(common.NewCleanupHook(func() { os.RemoveAll(remoteTempPath) }))
	defer os.RemoveAll(remoteTempPath)
	if err := getRootCommand().Execute(); err != nil {
		logrus.Fatalf("Error: %q", err)
	}
}
