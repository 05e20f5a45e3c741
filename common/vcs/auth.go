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


package vcs

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/sirupsen/logrus"
)

const sshUser = "git"

// private keys looked up in ~/.ssh, in order
var defaultPrivateKeyNames = []string{"id_ed25519", "id_ecdsa", "id_rsa"}

// sshAuth returns the auth method for cloning over ssh.
// The ssh agent is preferred. Otherwise the first unencrypted default private key of the current user is used.
func sshAuth() (transport.AuthMethod, error) {
	authMethod, agentErr := ssh.DefaultAuthBuilder(sshUser)
	if agentErr == nil {
		return authMethod, nil
	}
	logrus.Debugf("The ssh agent is not available. Error: %q", agentErr)
	usr, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to get the current user. Error: %w", err)
	}
	privateKeyDir := filepath.Join(usr.HomeDir, ".ssh")
	for _, name := range defaultPrivateKeyNames {
		keyPath := filepath.Join(privateKeyDir, name)
		if _, err := os.Stat(keyPath); err != nil {
			continue
		}
		keys, err := ssh.NewPublicKeysFromFile(sshUser, keyPath, "")
		if err != nil {
			logrus.Debugf("Skipping the private key at path %s . Error: %q", keyPath, err)
			continue
		}
		logrus.Debugf("Using the private key at path %s", keyPath)
		return keys, nil
	}
	return nil, fmt.Errorf("no ssh agent and no usable private key in %s . Agent error: %w", privateKeyDir, agentErr)
}
