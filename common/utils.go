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
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/gobwas/glob"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	giturls "github.com/whilp/git-urls"
	"github.com/xrash/smetrics"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
)

// GetFilesByGlob returns the paths, relative to inputPath, of all the files whose name matches the glob pattern.
// Files of one byte or less are placeholders and are not returned.
// Errors on individual paths are logged and skipped.
func GetFilesByGlob(inputPath string, pattern string) []string {
	files := []string{}
	g, err := glob.Compile(pattern)
	if err != nil {
		logrus.Errorf("Could not compile the glob pattern '%s'. Error: %q", pattern, err)
		return files
	}
	if info, err := os.Stat(inputPath); err != nil {
		logrus.Warnf("Error in walking through files due to : %q", err)
		return files
	} else if !info.IsDir() {
		logrus.Warnf("The path %q is not a directory.", inputPath)
		return files
	}
	err = filepath.WalkDir(inputPath, func(path string, info os.DirEntry, err error) error {
		if err != nil {
			logrus.Debugf("Skipping path %q due to error: %q", path, err)
			return nil
		}
		if info.IsDir() {
			for _, dirRegExp := range DefaultIgnoreDirRegexps {
				if path != inputPath && dirRegExp.MatchString(info.Name()) {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if !g.Match(info.Name()) {
			return nil
		}
		// follow symlinks, broken ones are skipped
		finfo, err := os.Stat(path)
		if err != nil {
			logrus.Debugf("Skipping path %q due to error: %q", path, err)
			return nil
		}
		if finfo.IsDir() || finfo.Size() <= 1 {
			return nil
		}
		relPath, err := filepath.Rel(inputPath, path)
		if err != nil {
			logrus.Debugf("Skipping path %q due to error: %q", path, err)
			return nil
		}
		files = append(files, strings.TrimPrefix(relPath, string(os.PathSeparator)))
		return nil
	})
	if err != nil {
		logrus.Warnf("Error in walking through files due to : %q", err)
	}
	logrus.Debugf("No of files matching %s identified : %d", pattern, len(files))
	return files
}

// ObjectToYamlBytes encodes an object to yaml
func ObjectToYamlBytes(data interface{}) ([]byte, error) {
	var b bytes.Buffer
	encoder := yaml.NewEncoder(&b)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		logrus.Errorf("Failed to encode the object to yaml. Error: %q", err)
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		logrus.Errorf("Failed to close the yaml encoder. Error: %q", err)
		return nil, err
	}
	return b.Bytes(), nil
}

// WriteYaml writes encodes object as yaml and writes it to a file
func WriteYaml(outputPath string, data interface{}) error {
	yamlBytes, err := ObjectToYamlBytes(data)
	if err != nil {
		logrus.Errorf("Failed to encode the object as a yaml string. Error: %q", err)
		return err
	}
	return os.WriteFile(outputPath, yamlBytes, DefaultFilePermission)
}

// ReadYaml reads an yaml into an object
func ReadYaml(file string, data interface{}) error {
	yamlFile, err := os.ReadFile(file)
	if err != nil {
		logrus.Debugf("Error in reading yaml file %s: %s.", file, err)
		return err
	}
	if err := yaml.Unmarshal(yamlFile, data); err != nil {
		logrus.Debugf("Error in unmarshalling yaml file %s: %s.", file, err)
		return err
	}
	return nil
}

// WriteJSON writes an json to disk
func WriteJSON(outputPath string, data interface{}) error {
	var b bytes.Buffer
	encoder := json.NewEncoder(&b)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		logrus.Error("Error while Encoding object")
		return err
	}
	err := os.WriteFile(outputPath, b.Bytes(), DefaultFilePermission)
	if err != nil {
		logrus.Errorf("Error writing json to file: %s", err)
		return err
	}
	return nil
}

// ReadJSON reads an json into an object. A byte order mark selects between utf-8 and utf-16.
func ReadJSON(file string, data interface{}) error {
	jsonFile, err := os.ReadFile(file)
	if err != nil {
		logrus.Debugf("Error in reading json file %s: %s.", file, err)
		return err
	}
	jsonFile, _, err = transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), jsonFile)
	if err != nil {
		logrus.Debugf("Error in decoding json file %s: %s.", file, err)
		return err
	}
	if err := json.Unmarshal(jsonFile, data); err != nil {
		logrus.Debugf("Error in unmarshalling json file %s: %s.", file, err)
		return err
	}
	return nil
}

// GetClosestMatchingString returns the closest matching string for a given search string
func GetClosestMatchingString(options []string, searchstring string) string {
	// tokenize all strings
	reg := regexp.MustCompile("[^a-zA-Z0-9]+")
	searchstring = reg.ReplaceAllLiteralString(searchstring, "")
	searchstring = strings.ToLower(searchstring)

	leastDistance := math.MaxInt32
	matchString := ""

	// Simply find the option with least distance
	for _, option := range options {
		// do tokensize the search space string too
		tokenizedOption := reg.ReplaceAllLiteralString(option, "")
		tokenizedOption = strings.ToLower(tokenizedOption)

		currDistance := smetrics.WagnerFischer(tokenizedOption, searchstring, 1, 1, 2)

		if currDistance < leastDistance {
			matchString = option
			leastDistance = currDistance
		}
	}

	return matchString
}

// UniqueStrings returns a new slice with only the unique strings from the input slice.
func UniqueStrings(xs []string) []string {
	seen := map[string]bool{}
	unique := []string{}
	for _, x := range xs {
		if seen[x] {
			continue
		}
		seen[x] = true
		unique = append(unique, x)
	}
	return unique
}

// GetObjFromInterface loads from map[string]interface{} to struct.
// Values are not converted between types, so a mismatch is reported as an error.
func GetObjFromInterface(obj interface{}, loadinto interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  loadinto,
		TagName: "yaml",
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(obj); err != nil {
		logrus.Debugf("Unable to load obj %+v into %T : %s", obj, loadinto, err)
		return err
	}
	return nil
}

// ParseRepoIdentity returns the owner and the name of the repository a git url points to
func ParseRepoIdentity(repoURL string) (user, repo string, err error) {
	u, err := giturls.Parse(strings.TrimPrefix(repoURL, "git+"))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse the git url '%s' . Error: %w", repoURL, err)
	}
	p := strings.TrimSuffix(strings.Trim(u.Path, "/"), "/")
	p = strings.TrimSuffix(p, ".git")
	parts := strings.Split(p, "/")
	if len(parts) < 2 || parts[len(parts)-1] == "" {
		return "", "", fmt.Errorf("the git url '%s' does not have the form <host>/<owner>/<repo>", repoURL)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}

// GetGitRepoIdentity tries to find the owner and name of the git repo for the path if one exists.
func GetGitRepoIdentity(path string) (user, repo string, err error) {
	if finfo, err := os.Stat(path); err != nil {
		return "", "", err
	} else if !finfo.IsDir() {
		path = filepath.Dir(path)
	}
	gitRepo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		logrus.Debugf("Unable to open the path %q as a git repo. Error: %q", path, err)
		return "", "", err
	}
	remotes, err := gitRepo.Remotes()
	if err != nil {
		return "", "", fmt.Errorf("failed to list the remotes of the git repo at path %s . Error: %w", path, err)
	}
	if len(remotes) == 0 {
		return "", "", fmt.Errorf("the git repo at path %s has no remotes", path)
	}
	var preferredRemote *git.Remote
	if preferredRemote = getGitRemoteByName(remotes, "upstream"); preferredRemote == nil {
		if preferredRemote = getGitRemoteByName(remotes, "origin"); preferredRemote == nil {
			preferredRemote = remotes[0]
		}
	}
	if len(preferredRemote.Config().URLs) == 0 {
		return "", "", fmt.Errorf("the remote %s has no urls", preferredRemote.Config().Name)
	}
	return ParseRepoIdentity(preferredRemote.Config().URLs[0])
}

func getGitRemoteByName(remotes []*git.Remote, remoteName string) *git.Remote {
	for _, r := range remotes {
		if r.Config().Name == remoteName {
			return r
		}
	}
	return nil
}
