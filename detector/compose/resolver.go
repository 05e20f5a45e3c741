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
	"sort"

	"github.com/konveyor/claim/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

const (
	includeKey       = "include"
	servicesKey      = "services"
	extendsKey       = "extends"
	imageKey         = "image"
	buildKey         = "build"
	containerNameKey = "container_name"
)

// retainedServiceKeys are the only service keys needed to detect microservices
var retainedServiceKeys = []string{imageKey, buildKey, containerNameKey}

// RawService is a compose service after include, interpolation and extends have been resolved
type RawService struct {
	// Name is the key of the service in the compose file
	Name string
	// ProjectDir is the directory relative paths of the service are resolved against
	ProjectDir string
	// Config holds the image, build and container_name keys of the service, when present
	Config map[string]interface{}
}

type includeEntry struct {
	Path             interface{} `yaml:"path"`
	ProjectDirectory string      `yaml:"project_directory"`
	EnvFile          interface{} `yaml:"env_file"`
}

// collector resolves one compose file and everything it includes
type collector struct {
	including map[string]bool
}

// CollectServices loads the compose file at path and returns its services, including the services of included files.
// If projectDir is empty, the directory of the compose file is used. If envFiles is nil, .env is used.
// A failure anywhere fails the whole file.
func CollectServices(path string, projectDir string, envFiles []string) ([]RawService, error) {
	c := &collector{including: map[string]bool{}}
	return c.collect(path, projectDir, envFiles)
}

func (c *collector) collect(path string, projectDir string, envFiles []string) ([]RawService, error) {
	if projectDir == "" {
		projectDir = filepath.Dir(path)
	}
	if envFiles == nil {
		envFiles = []string{common.DefaultEnvFile}
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	if c.including[absPath] {
		return nil, &IncludeError{Path: path, Include: path, Err: errors.New("the compose file includes itself")}
	}
	c.including[absPath] = true
	defer delete(c.including, absPath)

	env, err := loadEnvFiles(projectDir, envFiles)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	doc, err := loadDocument(path, env)
	if err != nil {
		return nil, err
	}
	services := []RawService{}
	if includes, ok := doc[includeKey]; ok && includes != nil {
		included, err := c.collectIncludes(path, projectDir, includes)
		if err != nil {
			return nil, err
		}
		services = append(services, included...)
	}
	if servicesVal, ok := doc[servicesKey]; ok && servicesVal != nil {
		serviceMap, ok := servicesVal.(map[string]interface{})
		if !ok {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("expected services to be a mapping. Actual type %T", servicesVal)}
		}
		resolver := &extender{path: path, projectDir: projectDir, env: env, services: serviceMap}
		names := make([]string, 0, len(serviceMap))
		for name := range serviceMap {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			service, err := resolver.resolve(name)
			if err != nil {
				return nil, err
			}
			config := map[string]interface{}{}
			for _, key := range retainedServiceKeys {
				if value, ok := service[key]; ok {
					config[key] = value
				}
			}
			services = append(services, RawService{Name: name, ProjectDir: projectDir, Config: config})
		}
	}
	logrus.Debugf("Collected %d services from the compose file %s", len(services), path)
	return services, nil
}

func (c *collector) collectIncludes(path string, projectDir string, includes interface{}) ([]RawService, error) {
	includeList, ok := includes.([]interface{})
	if !ok {
		return nil, &IncludeError{Path: path, Include: fmt.Sprintf("%v", includes), Err: fmt.Errorf("expected include to be a list. Actual type %T", includes)}
	}
	services := []RawService{}
	for _, include := range includeList {
		entry := includeEntry{}
		switch v := include.(type) {
		case string:
			entry.Path = v
		case map[string]interface{}:
			if err := common.GetObjFromInterface(v, &entry); err != nil {
				return nil, &IncludeError{Path: path, Include: fmt.Sprintf("%v", v), Err: err}
			}
		default:
			return nil, &IncludeError{Path: path, Include: fmt.Sprintf("%v", v), Err: fmt.Errorf("unsupported include entry of type %T", v)}
		}
		includePaths, err := toStringList(entry.Path)
		if err != nil || len(includePaths) == 0 {
			return nil, &IncludeError{Path: path, Include: fmt.Sprintf("%v", include), Err: fmt.Errorf("invalid include path. Error: %v", err)}
		}
		var envFiles []string
		if entry.EnvFile != nil {
			if envFiles, err = toStringList(entry.EnvFile); err != nil {
				return nil, &IncludeError{Path: path, Include: fmt.Sprintf("%v", include), Err: fmt.Errorf("invalid include env_file. Error: %w", err)}
			}
		}
		for _, includePath := range includePaths {
			if !filepath.IsAbs(includePath) {
				includePath = filepath.Join(projectDir, includePath)
			}
			includeProjectDir := ""
			if entry.ProjectDirectory != "" {
				includeProjectDir = entry.ProjectDirectory
				if !filepath.IsAbs(includeProjectDir) {
					includeProjectDir = filepath.Join(projectDir, includeProjectDir)
				}
			}
			included, err := c.collect(includePath, includeProjectDir, envFiles)
			if err != nil {
				return nil, &IncludeError{Path: path, Include: includePath, Err: err}
			}
			services = append(services, included...)
		}
	}
	return services, nil
}

// loadDocument parses a compose file and interpolates it
func loadDocument(path string, env map[string]string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	var parsed interface{}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if parsed == nil {
		return nil, &ParseError{Path: path, Err: errors.New("the file is empty")}
	}
	doc, ok := normalizeNode(parsed).(map[string]interface{})
	if !ok {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("expected a mapping at the top level. Actual type %T", parsed)}
	}
	if len(doc) == 0 {
		return nil, &ParseError{Path: path, Err: errors.New("the file is empty")}
	}
	interpolated, err := interpolateValue(doc, env)
	if err != nil {
		return nil, &InterpolationError{Path: path, Err: err}
	}
	return interpolated.(map[string]interface{}), nil
}

// normalizeNode converts yaml mappings with non string keys into string keyed mappings
func normalizeNode(node interface{}) interface{} {
	switch v := node.(type) {
	case map[string]interface{}:
		for key, item := range v {
			v[key] = normalizeNode(item)
		}
		return v
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			out[cast.ToString(key)] = normalizeNode(item)
		}
		return out
	case []interface{}:
		for i, item := range v {
			v[i] = normalizeNode(item)
		}
		return v
	default:
		return v
	}
}

// toStringList accepts a string or a list of strings
func toStringList(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a string. Actual type %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a string or a list of strings. Actual type %T", value)
	}
}
