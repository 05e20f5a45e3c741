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

package compose

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/docker/cli/cli/compose/template"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// $$ escapes a dollar, $NAME and ${NAME} substitute, ${NAME<op>word} applies a shell parameter expansion.
	// A dollar followed by anything else is left untouched.
	interpolationPattern = regexp.MustCompile(fmt.Sprintf(
		`\$(?i:(?P<escaped>\$)|(?P<named>%s)|{(?P<braced>%s(?:%s[^}]*)?)})`,
		`[_a-z][_a-z0-9]*`, `[_a-z][_a-z0-9]*`, `:?[-+?]`,
	))
	expansionPattern = regexp.MustCompile(`^([_a-zA-Z][_a-zA-Z0-9]*)(:?[-+?])(.*)$`)
)

// loadEnvFiles reads the env files, relative to the project directory, that exist.
// Later files override the keys of earlier ones.
func loadEnvFiles(projectDir string, envFiles []string) (map[string]string, error) {
	env := map[string]string{}
	for _, envFile := range envFiles {
		envPath := envFile
		if !filepath.IsAbs(envPath) {
			envPath = filepath.Join(projectDir, envFile)
		}
		finfo, err := os.Stat(envPath)
		if err != nil || finfo.IsDir() {
			logrus.Debugf("Skipping the env file %s since it does not exist", envPath)
			continue
		}
		values, err := godotenv.Read(envPath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read the env file at path %s", envPath)
		}
		for k, v := range values {
			env[k] = v
		}
	}
	return env, nil
}

// Interpolate substitutes the variables in a string using shell parameter expansion rules.
// Unset variables expand to the empty string.
func Interpolate(value string, env map[string]string) (string, error) {
	mapping := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
	// SubstituteWith keeps only the error of the last substitution
	var firstErr error
	record := func(substitution string, mapping template.Mapping) (string, bool, error) {
		v, applied, err := expand(substitution, mapping)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return v, applied, err
	}
	result, err := template.SubstituteWith(value, mapping, interpolationPattern, record)
	if firstErr != nil {
		return "", firstErr
	}
	return result, err
}

// expand applies the operators :- - :+ + :? ?
func expand(substitution string, mapping template.Mapping) (string, bool, error) {
	matches := expansionPattern.FindStringSubmatch(substitution)
	if matches == nil {
		return "", false, nil
	}
	name, operator, word := matches[1], matches[2], matches[3]
	value, set := mapping(name)
	nonEmpty := set && value != ""
	switch operator {
	case ":-":
		if nonEmpty {
			return value, true, nil
		}
		return word, true, nil
	case "-":
		if set {
			return value, true, nil
		}
		return word, true, nil
	case ":+":
		if nonEmpty {
			return word, true, nil
		}
		return "", true, nil
	case "+":
		if set {
			return word, true, nil
		}
		return "", true, nil
	case ":?":
		if nonEmpty {
			return value, true, nil
		}
		return "", true, fmt.Errorf("required variable %s is missing a value: %s", name, word)
	case "?":
		if set {
			return value, true, nil
		}
		return "", true, fmt.Errorf("required variable %s is missing a value: %s", name, word)
	}
	return "", false, nil
}

// interpolateValue interpolates every string leaf of a document node
func interpolateValue(value interface{}, env map[string]string) (interface{}, error) {
	switch v := value.(type) {
	case string:
		return Interpolate(v, env)
	case []interface{}:
		out := make([]interface{}, 0, len(v))
		for _, item := range v {
			interpolated, err := interpolateValue(item, env)
			if err != nil {
				return nil, err
			}
			out = append(out, interpolated)
		}
		return out, nil
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			interpolated, err := interpolateValue(item, env)
			if err != nil {
				return nil, err
			}
			out[key] = interpolated
		}
		return out, nil
	default:
		return v, nil
	}
}
