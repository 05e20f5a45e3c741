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
	"context"
	"errors"
	"testing"
)

func TestGetRepoURL(t *testing.T) {
	repoURL, err := GetRepoURL("git+https://github.com/acme/shop.git@v1.2:/deploy")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if repoURL != "https://github.com/acme/shop.git" {
		t.Errorf("Expected https://github.com/acme/shop.git, got: %s", repoURL)
	}
}

func TestUnsupportedRemote(t *testing.T) {
	source := "https://github.com/acme/shop.git"
	if IsRemotePath(source) {
		t.Errorf("Expected %s not to be a remote source", source)
	}
	var unsupported *UnsupportedRemoteError
	if _, err := GetRepoURL(source); !errors.As(err, &unsupported) {
		t.Errorf("Expected an UnsupportedRemoteError from GetRepoURL, got: %v", err)
	}
	if _, err := GetClonedPath(context.Background(), source, "shop", false, 1); !errors.As(err, &unsupported) {
		t.Errorf("Expected an UnsupportedRemoteError from GetClonedPath, got: %v", err)
	} else if unsupported.Source != source {
		t.Errorf("Expected the error to name %s, got: %s", source, unsupported.Source)
	}
}
