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

package dockerfile

import (
	"bytes"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	dockerparser "github.com/moby/buildkit/frontend/dockerfile/parser"
	"github.com/sirupsen/logrus"
)

const (
	copyInstruction = "COPY"
	addInstruction  = "ADD"
	fromFlagPrefix  = "--from"
)

// sources with these extensions are configuration or scripts, not application code
var nonCodeExtensions = map[string]bool{
	".conf": true, ".cfg": true, ".cnf": true, ".ini": true, ".env": true,
	".json": true, ".yml": true, ".yaml": true, ".toml": true, ".xml": true, ".properties": true,
	".sh": true, ".bash": true, ".ps1": true, ".bat": true, ".cmd": true,
	".txt": true, ".md": true, ".lock": true, ".sum": true, ".mod": true,
	".pem": true, ".crt": true, ".key": true,
}

// CopiesCode returns true if a COPY or ADD instruction of the dockerfile brings in something other than configuration or scripts.
// Copies from other build stages are not considered. A dockerfile holding only comments copies nothing.
func CopiesCode(r io.Reader) (bool, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return false, err
	}
	if !hasInstructions(content) {
		return false, nil
	}
	res, err := dockerparser.Parse(bytes.NewReader(content))
	if err != nil {
		return false, err
	}
	for _, child := range res.AST.Children {
		if !strings.EqualFold(child.Value, copyInstruction) && !strings.EqualFold(child.Value, addInstruction) {
			continue
		}
		if hasFromFlag(child.Flags) {
			continue
		}
		args := []string{}
		for next := child.Next; next != nil; next = next.Next {
			args = append(args, next.Value)
		}
		if len(args) < 2 {
			continue
		}
		for _, src := range args[:len(args)-1] {
			if isCodeSource(src) {
				return true, nil
			}
		}
	}
	return false, nil
}

// CopiesCodeFile runs CopiesCode on the dockerfile at path
func CopiesCodeFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		logrus.Debugf("Unable to open file %s : %s", path, err)
		return false, err
	}
	defer f.Close()
	copies, err := CopiesCode(f)
	if err != nil {
		logrus.Debugf("Unable to parse file %s as Docker files : %s", path, err)
	}
	return copies, err
}

// hasInstructions is false when every line is blank or a comment
func hasInstructions(content []byte) bool {
	for _, line := range bytes.Split(content, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) > 0 && line[0] != '#' {
			return true
		}
	}
	return false
}

func hasFromFlag(flags []string) bool {
	for _, flag := range flags {
		if strings.HasPrefix(strings.ToLower(flag), fromFlagPrefix) {
			return true
		}
	}
	return false
}

func isCodeSource(src string) bool {
	if strings.HasPrefix(src, "--") || strings.HasPrefix(src, "<<") {
		return false
	}
	if u, err := url.Parse(src); err == nil && u.Scheme != "" && u.Host != "" {
		return false
	}
	if nonCodeExtensions[strings.ToLower(filepath.Ext(src))] {
		return false
	}
	return !strings.Contains(strings.ToLower(src), "script")
}
